// Package tui drives a form interactively in the terminal: each visible
// field becomes a prompt, answers flow through the normal value coercion and
// validation, and visibility re-evaluation decides what gets asked next.
package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-formkit/pkg/field"
	"github.com/goliatone/go-formkit/pkg/fields"
	"github.com/goliatone/go-formkit/pkg/form"
	"github.com/goliatone/go-formkit/pkg/value"
)

// ErrAborted signals the user aborted input (e.g. Ctrl+C).
var ErrAborted = errors.New("tui: aborted")

const maxAttempts = 3

// Option configures the filler.
type Option func(*Filler)

// WithPromptDriver overrides the prompt driver, e.g. with a scripted one in
// tests.
func WithPromptDriver(driver PromptDriver) Option {
	return func(f *Filler) {
		if driver != nil {
			f.driver = driver
		}
	}
}

// WithPageSize caps how many select options show at once.
func WithPageSize(n int) Option {
	return func(f *Filler) {
		if n > 0 {
			f.pageSize = n
		}
	}
}

// Filler walks a form's visible fields and prompts for each.
type Filler struct {
	driver   PromptDriver
	pageSize int
}

// New constructs a Filler over the real terminal unless options say
// otherwise.
func New(options ...Option) *Filler {
	f := &Filler{driver: &surveyDriver{}}
	for _, opt := range options {
		if opt != nil {
			opt(f)
		}
	}
	return f
}

// Fill prompts for every promptable visible field in declaration order. A
// field whose answer fails validation is re-asked up to three times, then the
// last answer stands and the aggregate validate pass reports it. Fields that
// become hidden mid-fill are skipped when their turn comes.
func (f *Filler) Fill(ctx context.Context, frm *form.Form) error {
	if frm == nil {
		return errors.New("tui: form is nil")
	}
	frm.RevaluateVisibility()

	for _, fld := range frm.Fields() {
		if fld.Hidden() || fld.Settings().Disabled {
			continue
		}
		if err := f.prompt(ctx, fld); err != nil {
			return err
		}
	}
	return nil
}

func label(fld field.Field) string {
	if l := fld.Settings().Label; l != "" {
		return l
	}
	return fld.Name()
}

func (f *Filler) prompt(ctx context.Context, fld field.Field) error {
	switch typed := fld.(type) {
	case *fields.HiddenInput, *fields.Captcha, *fields.File, *fields.Media:
		// Not promptable in a terminal; their values arrive programmatically.
		return nil
	case *fields.Toggle:
		checked, err := f.driver.Confirm(ctx, ConfirmConfig{
			Message: label(fld) + "?",
			Default: typed.Checked(),
		})
		if err != nil {
			return err
		}
		typed.SetChecked(checked, true)
		return nil
	case *fields.Select:
		return f.promptSelect(ctx, typed)
	case *fields.Password:
		answer, err := f.driver.Password(ctx, InputConfig{Message: label(fld)})
		if err != nil {
			return err
		}
		fld.SetValue(answer, true)
		return nil
	case *fields.Textarea:
		answer, err := f.driver.TextArea(ctx, InputConfig{
			Message: label(fld),
			Default: value.String(fld.Value()),
		})
		if err != nil {
			return err
		}
		fld.SetValue(answer, true)
		return nil
	case *fields.RichText:
		answer, err := f.driver.TextArea(ctx, InputConfig{
			Message: label(fld),
			Default: value.String(fld.Value()),
		})
		if err != nil {
			return err
		}
		typed.ResyncFromEditor(answer)
		return nil
	default:
		return f.promptInput(ctx, fld)
	}
}

// promptInput asks for free text, re-asking on validation failure.
func (f *Filler) promptInput(ctx context.Context, fld field.Field) error {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		answer, err := f.driver.Input(ctx, InputConfig{
			Message: label(fld),
			Default: value.String(fld.Value()),
		})
		if err != nil {
			return err
		}
		fld.SetValue(answer, true)
		verr := fld.Validate(ctx)
		if verr == nil {
			return nil
		}
		if err := f.driver.Info(ctx, fmt.Sprintf("✗ %s", verr)); err != nil {
			return err
		}
	}
	return nil
}

func (f *Filler) promptSelect(ctx context.Context, sel *fields.Select) error {
	options := make([]string, 0, len(sel.Choices()))
	byLabel := make(map[string]string, len(sel.Choices()))
	current := make(map[string]bool)
	for _, v := range sel.Selected() {
		current[v] = true
	}

	var defaults []string
	for _, c := range sel.Choices() {
		display := c.Label
		if display == "" {
			display = c.Value
		}
		options = append(options, display)
		byLabel[display] = c.Value
		if current[c.Value] {
			defaults = append(defaults, display)
		}
	}

	cfg := SelectConfig{
		Message:  label(sel),
		Options:  options,
		Defaults: defaults,
		PageSize: f.pageSize,
	}

	if sel.Multiple() {
		picked, err := f.driver.MultiSelect(ctx, cfg)
		if err != nil {
			return err
		}
		values := make([]string, 0, len(picked))
		for _, p := range picked {
			values = append(values, byLabel[p])
		}
		sel.SetValue(values, true)
		return nil
	}

	picked, err := f.driver.Select(ctx, cfg)
	if err != nil {
		return err
	}
	sel.SetValue(byLabel[picked], true)
	return nil
}
