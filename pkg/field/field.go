// Package field defines the contract every input variant implements and the
// Base implementation the variant catalog builds on. A field owns exactly one
// canonical value; everything else (visibility, aggregation, submission) is
// coordinated by the form that hosts it.
package field

import (
	"context"

	"github.com/goliatone/go-formkit/pkg/i18n"
	"github.com/goliatone/go-formkit/pkg/visibility"
)

// Change is the value-mutation notification a field emits. User distinguishes
// human input from programmatic sync so hosts can decide whether to trigger
// dependent side effects.
type Change struct {
	Name     string
	Value    any
	Previous any
	User     bool
}

// Host is the form-side surface a bound field talks back to. Fields push
// every change event to the host dispatcher explicitly; they never reach into
// sibling fields themselves.
type Host interface {
	// FieldChanged is invoked exactly once per effective value change,
	// synchronously, before SetValue returns.
	FieldChanged(Change)
	// Translator exposes the host's translation service, possibly nil.
	Translator() i18n.Translator
	// Locale returns the host's active locale.
	Locale() string
}

// Settings carries the construction attributes shared by all variants.
type Settings struct {
	// Name is unique within a form and may encode nested paths like a[b][c].
	Name string
	// Label is the human caption; validation messages fall back to Name when
	// empty.
	Label string
	// Default is applied as the initial value, run through the variant's
	// coercion.
	Default any
	// Required fields fail validation while visible and empty.
	Required bool
	// Disabled fields keep their value but are skipped during validation.
	Disabled bool
	// Position is an optional relative-layout hint, e.g. "after:email".
	Position string
	// Condition controls visibility; nil means always visible. A condition is
	// owned exclusively by the field it governs.
	Condition *visibility.Condition
}

// Field is the abstract shape every variant implements.
type Field interface {
	Name() string
	Settings() Settings

	// SetValue normalizes value into the canonical representation and emits
	// one change event only when the canonical value actually changed.
	// Re-setting an identical value is a no-op.
	SetValue(value any, userChange bool)
	// Value returns the canonical value. nil means absent, which is distinct
	// from an empty string.
	Value() any
	// Reset restores the configured default.
	Reset()

	// Render builds live state from current attributes. Idempotent: repeat
	// calls rebuild state without duplicating listeners.
	Render(ctx context.Context) error
	// Rendered is closed after the first successful Render.
	Rendered() <-chan struct{}

	// Validate returns nil when the value is acceptable. A field that is
	// currently hidden always validates clean, regardless of its value.
	Validate(ctx context.Context) error

	Hidden() bool
	SetHidden(hidden bool)
	Condition() *visibility.Condition

	// Bind attaches the field to a host. A field is never owned by more than
	// one form at a time; Bind(nil) detaches.
	Bind(host Host) error

	// Subscribe registers a change listener. Listeners run synchronously in
	// registration order before the host dispatcher is notified.
	Subscribe(fn func(Change))
}
