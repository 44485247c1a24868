package fields

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/goliatone/go-formkit/pkg/field"
	"github.com/goliatone/go-formkit/pkg/value"
)

// NumberOptions configures a Number field.
type NumberOptions struct {
	Min *float64
	Max *float64
	// Locale drives display formatting (group and decimal separators). The
	// canonical value is always a plain float64; formatting only applies on
	// Display, mirroring the raw-while-typing/format-on-blur behaviour.
	Locale language.Tag
}

// Number stores a float64 canonical value. Unparseable input is kept as the
// raw string so validation can report it instead of silently dropping it.
type Number struct {
	*field.Base
	opts    NumberOptions
	printer *message.Printer
}

// NewNumber constructs a number field.
func NewNumber(settings field.Settings, opts NumberOptions) *Number {
	n := &Number{opts: opts}
	tag := opts.Locale
	if tag == (language.Tag{}) {
		tag = language.English
	}
	n.printer = message.NewPrinter(tag)
	n.Base = field.NewBase(settings,
		field.WithCoerce(n.coerceValue),
		field.WithCheck(n.checkValue),
	)
	return n
}

func (n *Number) coerceValue(v any) any {
	if v == nil {
		return nil
	}
	if s, ok := v.(string); ok {
		if strings.TrimSpace(s) == "" {
			return nil
		}
		if parsed, ok := parseLocalized(s); ok {
			return parsed
		}
		// Raw passthrough: keep what the user typed, validation rejects it.
		return s
	}
	if parsed, ok := value.Number(v); ok {
		return parsed
	}
	return v
}

// parseLocalized accepts plain machine floats plus the common separator
// styles "1,234.56" and "1.234,56".
func parseLocalized(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if f, ok := value.Number(s); ok {
		return f, true
	}

	comma := strings.LastIndex(s, ",")
	dot := strings.LastIndex(s, ".")
	var normalized string
	switch {
	case comma >= 0 && dot >= 0 && comma > dot:
		// 1.234,56
		normalized = strings.ReplaceAll(s, ".", "")
		normalized = strings.Replace(normalized, ",", ".", 1)
	case comma >= 0 && dot >= 0:
		// 1,234.56
		normalized = strings.ReplaceAll(s, ",", "")
	case comma >= 0:
		normalized = strings.Replace(s, ",", ".", 1)
	default:
		normalized = strings.ReplaceAll(s, " ", "")
	}
	return value.Number(normalized)
}

func (n *Number) checkValue(_ context.Context, v any) error {
	if v == nil {
		return nil
	}
	f, ok := v.(float64)
	if !ok {
		return errors.New(n.Message("validation.number", "%s is not a valid number", n.DisplayName()))
	}
	if n.opts.Min != nil && f < *n.opts.Min {
		return errors.New(n.Message("validation.min", "%s must be at least %v", n.DisplayName(), *n.opts.Min))
	}
	if n.opts.Max != nil && f > *n.opts.Max {
		return errors.New(n.Message("validation.max", "%s must be at most %v", n.DisplayName(), *n.opts.Max))
	}
	return nil
}

// Number returns the canonical numeric value; ok is false while the field is
// empty or holds unparseable input.
func (n *Number) Number() (float64, bool) {
	f, ok := n.Value().(float64)
	return f, ok
}

// Display formats the canonical value with the configured locale's
// separators. Raw unparseable input and emptiness render as-is.
func (n *Number) Display() string {
	switch v := n.Value().(type) {
	case nil:
		return ""
	case float64:
		return n.printer.Sprintf("%v", number.Decimal(v))
	default:
		return value.String(v)
	}
}
