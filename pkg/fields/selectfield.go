package fields

import (
	"context"
	"errors"

	"github.com/goliatone/go-formkit/pkg/field"
	"github.com/goliatone/go-formkit/pkg/value"
)

// SelectOptions configures a Select field.
type SelectOptions struct {
	Choices  []Choice
	Multiple bool
	// MinCount/MaxCount bound the selected-count in multiple mode; zero
	// disables the bound.
	MinCount int
	MaxCount int
}

// Select is the single- or multi-choice field. Canonical value is a string in
// single mode, []string in multiple mode, nil when nothing is selected. The
// reset action clears to nil.
type Select struct {
	*field.Base
	opts SelectOptions
}

// NewSelect constructs a select field.
func NewSelect(settings field.Settings, opts SelectOptions) *Select {
	s := &Select{opts: opts}
	s.Base = field.NewBase(settings,
		field.WithCoerce(s.coerceValue),
		field.WithCheck(s.checkValue),
	)
	return s
}

func (s *Select) coerceValue(v any) any {
	if v == nil {
		return nil
	}
	items := value.Strings(v)
	items = dropEmpty(items)
	if len(items) == 0 {
		return nil
	}
	if s.opts.Multiple {
		return items
	}
	// Single mode collapses any multi-value input to its last element.
	return items[len(items)-1]
}

// dropEmpty never writes through items: a []string input reaches here still
// aliased to the caller's slice.
func dropEmpty(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}

func (s *Select) checkValue(_ context.Context, v any) error {
	if v == nil {
		return nil
	}
	selected := value.Strings(v)

	if len(s.opts.Choices) > 0 {
		for _, item := range selected {
			if !s.hasChoice(item) {
				return errors.New(s.Message("validation.choice", "%s contains an unknown choice", s.DisplayName()))
			}
		}
	}

	if s.opts.Multiple {
		if s.opts.MinCount > 0 && len(selected) < s.opts.MinCount {
			return errors.New(s.Message("validation.minCount", "%s requires at least %d selections", s.DisplayName(), s.opts.MinCount))
		}
		if s.opts.MaxCount > 0 && len(selected) > s.opts.MaxCount {
			return errors.New(s.Message("validation.maxCount", "%s allows at most %d selections", s.DisplayName(), s.opts.MaxCount))
		}
	}
	return nil
}

func (s *Select) hasChoice(val string) bool {
	for _, choice := range s.opts.Choices {
		if choice.Value == val {
			return true
		}
	}
	return false
}

// Choices returns the configured options.
func (s *Select) Choices() []Choice { return s.opts.Choices }

// Multiple reports whether the field accepts more than one selection.
func (s *Select) Multiple() bool { return s.opts.Multiple }

// Selected returns the current selection fanned out to a slice.
func (s *Select) Selected() []string {
	if s.Value() == nil {
		return nil
	}
	return value.Strings(s.Value())
}

// Clear is the reset action: it sets the selection to nil.
func (s *Select) Clear(userChange bool) {
	s.SetValue(nil, userChange)
}
