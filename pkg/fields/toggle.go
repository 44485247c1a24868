package fields

import (
	"strings"

	"github.com/goliatone/go-formkit/pkg/field"
	"github.com/goliatone/go-formkit/pkg/value"
)

// ToggleOptions configures a Toggle field.
type ToggleOptions struct {
	// OnValue is the canonical value while checked, defaulting to "1".
	OnValue string
}

// Toggle is a checkbox-backed field. Unchecked is nil, never false: consumers
// can tell "user left it off" apart from "field was never touched" only by
// the change events, and the wire payload must omit rather than send false.
type Toggle struct {
	*field.Base
	onValue string
}

// NewToggle constructs a toggle field.
func NewToggle(settings field.Settings, opts ToggleOptions) *Toggle {
	t := &Toggle{onValue: strings.TrimSpace(opts.OnValue)}
	if t.onValue == "" {
		t.onValue = "1"
	}
	t.Base = field.NewBase(settings, field.WithCoerce(t.coerceValue))
	return t
}

// coerceValue folds any truthy input to the configured on-value and anything
// else to nil.
func (t *Toggle) coerceValue(v any) any {
	switch typed := v.(type) {
	case nil:
		return nil
	case bool:
		if typed {
			return t.onValue
		}
		return nil
	case string:
		if typed == t.onValue {
			return t.onValue
		}
		if b, ok := value.Bool(typed); ok && b {
			return t.onValue
		}
		return nil
	default:
		if b, ok := value.Bool(v); ok && b {
			return t.onValue
		}
		return nil
	}
}

// Checked reports whether the toggle is on.
func (t *Toggle) Checked() bool { return t.Value() != nil }

// SetChecked flips the toggle, emitting a change when the state moves.
func (t *Toggle) SetChecked(checked, userChange bool) {
	t.SetValue(checked, userChange)
}
