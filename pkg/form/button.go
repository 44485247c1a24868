package form

import (
	"fmt"

	"github.com/goliatone/go-formkit/pkg/submit"
)

// ButtonKind distinguishes the three control flavours a form declares.
type ButtonKind string

const (
	// ButtonSubmit triggers the submit lifecycle.
	ButtonSubmit ButtonKind = "submit"
	// ButtonAction invokes a host-provided handler without submitting.
	ButtonAction ButtonKind = "action"
	// ButtonLink navigates to a URL.
	ButtonLink ButtonKind = "link"
)

// Button is a declared form control.
type Button struct {
	Kind  ButtonKind
	Name  string
	Label string
	// Target overrides the form's render target for this control.
	Target submit.RenderTarget
	// URL is the destination for link buttons.
	URL string
}

// AddButton declares a control. Names must be unique.
func (f *Form) AddButton(b Button) error {
	if b.Name == "" {
		return fmt.Errorf("form: button name is required")
	}
	switch b.Kind {
	case ButtonSubmit, ButtonAction, ButtonLink:
	default:
		return fmt.Errorf("form: unknown button kind %q", b.Kind)
	}
	if b.Kind == ButtonLink && b.URL == "" {
		return fmt.Errorf("form: link button %q needs a URL", b.Name)
	}
	for _, existing := range f.btns {
		if existing.Name == b.Name {
			return fmt.Errorf("form: duplicate button %q", b.Name)
		}
	}
	f.btns = append(f.btns, b)
	return nil
}

// Buttons returns the declared controls in order.
func (f *Form) Buttons() []Button {
	out := make([]Button, len(f.btns))
	copy(out, f.btns)
	return out
}
