package fields

import (
	"context"
	"errors"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-formkit/pkg/field"
	"github.com/goliatone/go-formkit/pkg/value"
)

// RichTextOptions configures a RichText field.
type RichTextOptions struct {
	MinLength int
	MaxLength int
	// Policy sanitizes editor output before storage. Nil gets bluemonday's
	// UGC policy.
	Policy *bluemonday.Policy
}

// RichText defers editing to an embedded external editor; the canonical value
// is the sanitized HTML string, resynced on the editor's change events.
type RichText struct {
	*field.Base
	opts   RichTextOptions
	policy *bluemonday.Policy
}

// NewRichText constructs a rich-text field.
func NewRichText(settings field.Settings, opts RichTextOptions) *RichText {
	r := &RichText{opts: opts, policy: opts.Policy}
	if r.policy == nil {
		r.policy = bluemonday.UGCPolicy()
	}
	r.Base = field.NewBase(settings,
		field.WithCoerce(r.coerceValue),
		field.WithCheck(r.checkValue),
	)
	return r
}

func (r *RichText) coerceValue(v any) any {
	if v == nil {
		return nil
	}
	s := r.policy.Sanitize(value.String(v))
	if s == "" {
		return nil
	}
	return s
}

func (r *RichText) checkValue(_ context.Context, v any) error {
	if value.IsEmpty(v) {
		return nil
	}
	length := len([]rune(value.String(v)))
	if r.opts.MinLength > 0 && length < r.opts.MinLength {
		return errors.New(r.Message("validation.minLength", "%s must be at least %d characters", r.DisplayName(), r.opts.MinLength))
	}
	if r.opts.MaxLength > 0 && length > r.opts.MaxLength {
		return errors.New(r.Message("validation.maxLength", "%s must be at most %d characters", r.DisplayName(), r.opts.MaxLength))
	}
	return nil
}

// ResyncFromEditor applies the external editor's current content as a user
// change. The editor wiring calls this from its own change events.
func (r *RichText) ResyncFromEditor(html string) {
	r.SetValue(html, true)
}
