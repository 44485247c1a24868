package field

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-formkit/pkg/i18n"
	"github.com/goliatone/go-formkit/pkg/value"
	"github.com/goliatone/go-formkit/pkg/visibility"
)

// ErrAlreadyBound is returned when a field is attached to a second host
// without being detached first.
var ErrAlreadyBound = errors.New("field: already bound to a form")

// CoerceFunc normalizes raw input into a variant's canonical representation.
// It must be idempotent: coercing a canonical value yields the same value.
type CoerceFunc func(any) any

// CheckFunc is a variant's own validation rule, run after the generic
// required check. The returned error text is the user-facing message.
type CheckFunc func(ctx context.Context, v any) error

// RenderFunc builds variant-specific live state. first is true exactly once
// per field instance so listeners bind a single time.
type RenderFunc func(ctx context.Context, first bool) error

// SetGuard can veto a SetValue before coercion. Variants like CAPTCHA use it
// to reject consumer writes.
type SetGuard func(v any, userChange bool) bool

// BaseOption customises a Base during construction.
type BaseOption func(*Base)

// WithCoerce installs the variant coercion hook.
func WithCoerce(fn CoerceFunc) BaseOption {
	return func(b *Base) { b.coerce = fn }
}

// WithCheck installs the variant validation hook.
func WithCheck(fn CheckFunc) BaseOption {
	return func(b *Base) { b.check = fn }
}

// WithRender installs the variant render hook.
func WithRender(fn RenderFunc) BaseOption {
	return func(b *Base) { b.render = fn }
}

// WithSetGuard installs a veto hook consulted before any value write.
func WithSetGuard(fn SetGuard) BaseOption {
	return func(b *Base) { b.guard = fn }
}

// Base implements the Field contract. Variants embed a *Base and install
// their behaviour through the hook options; they rarely need to override the
// interface methods themselves.
type Base struct {
	settings Settings
	host     Host

	val    any
	hidden bool

	initialized bool
	rendered    chan struct{}

	listeners []func(Change)

	coerce CoerceFunc
	check  CheckFunc
	render RenderFunc
	guard  SetGuard
}

// NewBase constructs a Base with the variant hooks applied and the default
// value coerced into place. No change event is emitted for the default.
func NewBase(settings Settings, opts ...BaseOption) *Base {
	b := &Base{
		settings: settings,
		rendered: make(chan struct{}),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	if settings.Default != nil {
		b.val = b.runCoerce(settings.Default)
	}
	return b
}

func (b *Base) runCoerce(v any) any {
	if b.coerce == nil {
		return v
	}
	return b.coerce(v)
}

// Name returns the field's unique name within its form.
func (b *Base) Name() string { return b.settings.Name }

// Settings returns a copy of the construction attributes.
func (b *Base) Settings() Settings { return b.settings }

// Condition returns the visibility rule, nil when always visible.
func (b *Base) Condition() *visibility.Condition { return b.settings.Condition }

// Bind attaches the field to a host form. Rebinding without detaching first
// returns ErrAlreadyBound.
func (b *Base) Bind(host Host) error {
	if host == nil {
		b.host = nil
		return nil
	}
	if b.host != nil && b.host != host {
		return ErrAlreadyBound
	}
	b.host = host
	return nil
}

// Host returns the currently bound host, nil when detached.
func (b *Base) Host() Host { return b.host }

// Subscribe registers a change listener.
func (b *Base) Subscribe(fn func(Change)) {
	if fn != nil {
		b.listeners = append(b.listeners, fn)
	}
}

// SetValue implements the contract's change-event discipline: coerce first,
// then compare canonically, and only emit when the stored value actually
// moved. This is what keeps visibility re-evaluation from looping.
func (b *Base) SetValue(v any, userChange bool) {
	if b.guard != nil && !b.guard(v, userChange) {
		return
	}

	next := b.runCoerce(v)
	if value.Equal(b.val, next) {
		return
	}

	prev := b.val
	b.val = next
	b.emit(Change{Name: b.settings.Name, Value: next, Previous: prev, User: userChange})
}

// SetValueInternal bypasses the guard but keeps coercion and the no-op
// discipline. Variants use it for values produced by their own round trips,
// e.g. a verification token.
func (b *Base) SetValueInternal(v any, userChange bool) {
	next := b.runCoerce(v)
	if value.Equal(b.val, next) {
		return
	}
	prev := b.val
	b.val = next
	b.emit(Change{Name: b.settings.Name, Value: next, Previous: prev, User: userChange})
}

func (b *Base) emit(ch Change) {
	for _, fn := range b.listeners {
		fn(ch)
	}
	if b.host != nil {
		b.host.FieldChanged(ch)
	}
}

// Value returns the canonical value, nil when absent.
func (b *Base) Value() any { return b.val }

// Reset restores the configured default, emitting a programmatic change when
// the value moves.
func (b *Base) Reset() {
	if b.settings.Default == nil {
		b.SetValueInternal(nil, false)
		return
	}
	b.SetValueInternal(b.settings.Default, false)
}

// Render runs the variant render hook. The first call flips the initialized
// flag so hooks bind listeners exactly once; later calls rebuild state.
func (b *Base) Render(ctx context.Context) error {
	first := !b.initialized
	if b.render != nil {
		if err := b.render(ctx, first); err != nil {
			return err
		}
	}
	if first {
		b.initialized = true
		close(b.rendered)
	}
	return nil
}

// Rendered is closed after the first successful Render.
func (b *Base) Rendered() <-chan struct{} { return b.rendered }

// Initialized reports whether the first Render completed.
func (b *Base) Initialized() bool { return b.initialized }

// Hidden reports whether the visibility condition currently hides the field.
func (b *Base) Hidden() bool { return b.hidden }

// SetHidden is called by the host after visibility re-evaluation.
func (b *Base) SetHidden(hidden bool) { b.hidden = hidden }

// Validate runs the contract chain: hidden fields pass unconditionally, then
// the generic required check, then the variant rule. The first failure wins.
func (b *Base) Validate(ctx context.Context) error {
	if b.hidden || b.settings.Disabled {
		return nil
	}
	if b.settings.Required && value.IsEmpty(b.val) {
		return errors.New(b.Message("validation.required", "%s is required", b.DisplayName()))
	}
	if b.check != nil {
		return b.check(ctx, b.val)
	}
	return nil
}

// DisplayName returns the label, falling back to the field name.
func (b *Base) DisplayName() string {
	if label := strings.TrimSpace(b.settings.Label); label != "" {
		return label
	}
	return b.settings.Name
}

// Message resolves a validation message through the host's translator with an
// fmt fallback, so detached fields and translator-less hosts still produce
// readable errors.
func (b *Base) Message(key, fallback string, params ...any) string {
	var t i18n.Translator
	locale := ""
	if b.host != nil {
		t = b.host.Translator()
		locale = b.host.Locale()
	}
	return i18n.T(t, locale, key, fallback, params...)
}

// Describe is a debugging convenience used by renderers and tests.
func (b *Base) Describe() string {
	return fmt.Sprintf("%s=%v hidden=%v", b.settings.Name, b.val, b.hidden)
}
