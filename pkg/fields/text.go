package fields

import (
	"context"
	"errors"
	"net/url"
	"regexp"
	"strings"

	"github.com/goliatone/go-formkit/pkg/field"
	"github.com/goliatone/go-formkit/pkg/value"
)

// TextOptions configures the text-like variants.
type TextOptions struct {
	MinLength int
	MaxLength int
	// Pattern is a regular expression the visible value must match. Empty
	// disables the check. Invalid patterns disable the check rather than
	// panicking; descriptor-driven forms should not take the process down.
	Pattern string
	// Normalize runs at set time, before storage. The format variants use it
	// for input cleanup such as uppercasing or stripping separators.
	Normalize func(string) string
	// Extra runs after the generic length and pattern checks. The format
	// variants add their shape validation here.
	Extra func(t *Text, s string) error
}

// Text is the plain single-line string field and the base for the format
// variants (email, IBAN, BIC, URL, color).
type Text struct {
	*field.Base
	opts TextOptions
	re   *regexp.Regexp
}

// NewText constructs a text field.
func NewText(settings field.Settings, opts TextOptions) *Text {
	t := &Text{opts: opts}
	if p := strings.TrimSpace(opts.Pattern); p != "" {
		t.re, _ = regexp.Compile(p)
	}
	t.Base = field.NewBase(settings,
		field.WithCoerce(t.coerceValue),
		field.WithCheck(t.checkValue),
	)
	return t
}

func (t *Text) coerceValue(v any) any {
	if v == nil {
		return nil
	}
	s := value.String(v)
	if t.opts.Normalize != nil {
		s = t.opts.Normalize(s)
	}
	return s
}

func (t *Text) checkValue(_ context.Context, v any) error {
	if value.IsEmpty(v) {
		return nil
	}
	s := value.String(v)
	if t.opts.MinLength > 0 && len([]rune(s)) < t.opts.MinLength {
		return errors.New(t.Message("validation.minLength", "%s must be at least %d characters", t.DisplayName(), t.opts.MinLength))
	}
	if t.opts.MaxLength > 0 && len([]rune(s)) > t.opts.MaxLength {
		return errors.New(t.Message("validation.maxLength", "%s must be at most %d characters", t.DisplayName(), t.opts.MaxLength))
	}
	if t.re != nil && !t.re.MatchString(s) {
		return errors.New(t.Message("validation.pattern", "%s has an invalid format", t.DisplayName()))
	}
	if t.opts.Extra != nil {
		return t.opts.Extra(t, s)
	}
	return nil
}

// Textarea is a multi-line text field. Behaviour matches Text; the variant
// exists so renderers and descriptors can distinguish the control.
type Textarea struct {
	*Text
}

// NewTextarea constructs a textarea field.
func NewTextarea(settings field.Settings, opts TextOptions) *Textarea {
	return &Textarea{Text: NewText(settings, opts)}
}

// Password is a text field whose value must never be echoed back by
// renderers. The runtime treats it as ordinary text.
type Password struct {
	*Text
}

// NewPassword constructs a password field.
func NewPassword(settings field.Settings, opts TextOptions) *Password {
	return &Password{Text: NewText(settings, opts)}
}

// HiddenInput carries a value that is submitted but never shown. No
// validation beyond required-ness.
type HiddenInput struct {
	*field.Base
}

// NewHiddenInput constructs a hidden field.
func NewHiddenInput(settings field.Settings) *HiddenInput {
	h := &HiddenInput{}
	h.Base = field.NewBase(settings, field.WithCoerce(func(v any) any {
		if v == nil {
			return nil
		}
		return value.String(v)
	}))
	return h
}

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Email lowercases and trims input before storage and validates the address
// shape.
type Email struct {
	*Text
}

// NewEmail constructs an email field.
func NewEmail(settings field.Settings) *Email {
	return &Email{Text: NewText(settings, TextOptions{
		MaxLength: 254,
		Normalize: func(s string) string { return strings.ToLower(strings.TrimSpace(s)) },
		Extra: func(t *Text, s string) error {
			if !emailRe.MatchString(s) {
				return errors.New(t.Message("validation.email", "%s is not a valid email address", t.DisplayName()))
			}
			return nil
		},
	})}
}

var (
	ibanStrip = regexp.MustCompile(`[^A-Z0-9]`)
	ibanRe    = regexp.MustCompile(`^[A-Z]{2}[0-9]{2}[A-Z0-9]{11,30}$`)
	bicRe     = regexp.MustCompile(`^[A-Z]{4}[A-Z]{2}[A-Z0-9]{2}([A-Z0-9]{3})?$`)
)

// IBAN uppercases input and strips separators before storage, then checks
// the country/check-digit shape.
type IBAN struct {
	*Text
}

// NewIBAN constructs an IBAN field.
func NewIBAN(settings field.Settings) *IBAN {
	return &IBAN{Text: NewText(settings, TextOptions{
		Normalize: func(s string) string {
			return ibanStrip.ReplaceAllString(strings.ToUpper(s), "")
		},
		Extra: func(t *Text, s string) error {
			if !ibanRe.MatchString(s) {
				return errors.New(t.Message("validation.iban", "%s is not a valid IBAN", t.DisplayName()))
			}
			return nil
		},
	})}
}

// BIC uppercases input and checks the 8-or-11 character shape.
type BIC struct {
	*Text
}

// NewBIC constructs a BIC field.
func NewBIC(settings field.Settings) *BIC {
	return &BIC{Text: NewText(settings, TextOptions{
		Normalize: func(s string) string { return strings.ToUpper(strings.TrimSpace(s)) },
		Extra: func(t *Text, s string) error {
			if !bicRe.MatchString(s) {
				return errors.New(t.Message("validation.bic", "%s is not a valid BIC", t.DisplayName()))
			}
			return nil
		},
	})}
}

// URL validates that the value parses as an absolute URL with a host.
type URL struct {
	*Text
}

// NewURL constructs a URL field.
func NewURL(settings field.Settings) *URL {
	return &URL{Text: NewText(settings, TextOptions{
		Normalize: strings.TrimSpace,
		Extra: func(t *Text, s string) error {
			parsed, err := url.Parse(s)
			if err != nil || !parsed.IsAbs() || parsed.Host == "" {
				return errors.New(t.Message("validation.url", "%s is not a valid URL", t.DisplayName()))
			}
			return nil
		},
	})}
}

var colorRe = regexp.MustCompile(`^#[0-9a-f]{6}$`)

// Color stores a lowercased #rrggbb value.
type Color struct {
	*Text
}

// NewColor constructs a color field.
func NewColor(settings field.Settings) *Color {
	return &Color{Text: NewText(settings, TextOptions{
		Normalize: func(s string) string { return strings.ToLower(strings.TrimSpace(s)) },
		Extra: func(t *Text, s string) error {
			if !colorRe.MatchString(s) {
				return errors.New(t.Message("validation.color", "%s is not a valid color value", t.DisplayName()))
			}
			return nil
		},
	})}
}
