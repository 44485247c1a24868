package vanilla

import (
	"github.com/goliatone/go-formkit/pkg/field"
	"github.com/goliatone/go-formkit/pkg/fields"
	"github.com/goliatone/go-formkit/pkg/form"
	"github.com/goliatone/go-formkit/pkg/value"
)

// FormView is the template-facing snapshot of a form.
type FormView struct {
	ID       string
	Name     string
	Endpoint string
	Method   string
	Errors   []string
	Fields   []FieldView
	Groups   []GroupView
	Buttons  []ButtonView
	Output   string
}

// FieldView is the template-facing snapshot of one field.
type FieldView struct {
	Name     string
	Label    string
	Control  string
	Input    string
	Value    string
	Values   []string
	Required bool
	Hidden   bool
	Disabled bool
	Multiple bool
	Checked  bool
	Options  []OptionView
	Error    string
}

// OptionView is one selectable choice.
type OptionView struct {
	Value    string
	Label    string
	Selected bool
}

// GroupView is a display cluster.
type GroupView struct {
	Name      string
	Label     string
	Collapsed bool
	Fields    []FieldView
}

// ButtonView is a declared control.
type ButtonView struct {
	Kind  string
	Name  string
	Label string
	URL   string
}

// snapshot builds the view model. Grouped fields render inside their group;
// the rest keep declaration order.
func snapshot(f *form.Form) FormView {
	view := FormView{
		ID:       f.ID(),
		Name:     f.Name(),
		Endpoint: f.Endpoint(),
		Method:   f.Method(),
		Errors:   f.FormErrors(),
		Output:   f.Output(),
	}

	grouped := make(map[string]bool)
	for _, g := range f.Groups() {
		for _, name := range g.Fields {
			grouped[name] = true
		}
	}

	fieldErrors := f.FieldErrors()
	for _, fld := range f.Fields() {
		if grouped[fld.Name()] {
			continue
		}
		view.Fields = append(view.Fields, fieldView(fld, fieldErrors[fld.Name()]))
	}
	for _, g := range f.Groups() {
		gv := GroupView{Name: g.Name, Label: g.Label, Collapsed: g.Collapsed()}
		for _, name := range g.Fields {
			if fld := f.Field(name); fld != nil {
				gv.Fields = append(gv.Fields, fieldView(fld, fieldErrors[name]))
			}
		}
		view.Groups = append(view.Groups, gv)
	}
	for _, b := range f.Buttons() {
		view.Buttons = append(view.Buttons, ButtonView{
			Kind:  string(b.Kind),
			Name:  b.Name,
			Label: b.Label,
			URL:   b.URL,
		})
	}
	return view
}

func fieldView(fld field.Field, errMsg string) FieldView {
	settings := fld.Settings()
	label := settings.Label
	if label == "" {
		label = fld.Name()
	}
	fv := FieldView{
		Name:     fld.Name(),
		Label:    label,
		Required: settings.Required,
		Disabled: settings.Disabled,
		Hidden:   fld.Hidden(),
		Error:    errMsg,
		Control:  "input",
		Input:    "text",
		Value:    value.String(fld.Value()),
	}

	switch typed := fld.(type) {
	case *fields.Textarea:
		fv.Control = "textarea"
	case *fields.RichText:
		fv.Control = "richtext"
	case *fields.Password:
		fv.Input = "password"
		fv.Value = ""
	case *fields.HiddenInput:
		fv.Input = "hidden"
	case *fields.Email:
		fv.Input = "email"
	case *fields.URL:
		fv.Input = "url"
	case *fields.Color:
		fv.Input = "color"
	case *fields.Number:
		fv.Input = "number"
	case *fields.Date:
		switch typed.Kind() {
		case fields.KindDateTime:
			fv.Input = "datetime-local"
		case fields.KindTime:
			fv.Input = "time"
		default:
			fv.Input = "date"
		}
	case *fields.File:
		fv.Input = "file"
	case *fields.Search:
		fv.Input = "search"
	case *fields.Toggle:
		fv.Control = "checkbox"
		fv.Checked = typed.Checked()
	case *fields.Select:
		fv.Control = "select"
		fv.Multiple = typed.Multiple()
		selected := make(map[string]bool)
		for _, s := range value.Strings(fld.Value()) {
			selected[s] = true
		}
		fv.Values = value.Strings(fld.Value())
		for _, c := range typed.Choices() {
			label := c.Label
			if label == "" {
				label = c.Value
			}
			fv.Options = append(fv.Options, OptionView{
				Value:    c.Value,
				Label:    label,
				Selected: selected[c.Value],
			})
		}
	case *fields.Captcha:
		fv.Control = "captcha"
		fv.Value = ""
	case *fields.Media:
		fv.Control = "media"
	}
	return fv
}
