package vanilla_test

import (
	"context"
	"strings"
	"testing"

	"github.com/goliatone/go-formkit/pkg/field"
	"github.com/goliatone/go-formkit/pkg/fields"
	"github.com/goliatone/go-formkit/pkg/form"
	"github.com/goliatone/go-formkit/pkg/renderers/vanilla"
	"github.com/goliatone/go-formkit/pkg/visibility"
)

func renderForm(t *testing.T, f *form.Form) string {
	t.Helper()
	r, err := vanilla.New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	out, err := r.Render(context.Background(), f)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	return string(out)
}

func TestRenderBasicForm(t *testing.T) {
	f := form.New("profile", form.WithEndpoint("/api/profile", "POST"))
	if err := f.AddField(fields.NewEmail(field.Settings{Name: "email", Label: "Email", Required: true})); err != nil {
		t.Fatal(err)
	}
	if err := f.AddButton(form.Button{Kind: form.ButtonSubmit, Name: "save", Label: "Save"}); err != nil {
		t.Fatal(err)
	}

	html := renderForm(t, f)
	for _, want := range []string{
		`action="/api/profile"`,
		`method="POST"`,
		`type="email"`,
		`name="email"`,
		`type="submit"`,
		`>Save</button>`,
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("output missing %q:\n%s", want, html)
		}
	}
}

func TestRenderEndpointDefaultsToPost(t *testing.T) {
	f := form.New("contact", form.WithEndpoint("/api/contact", ""))
	if err := f.AddField(fields.NewText(field.Settings{Name: "subject"}, fields.TextOptions{})); err != nil {
		t.Fatal(err)
	}

	html := renderForm(t, f)
	if !strings.Contains(html, `action="/api/contact" method="POST"`) {
		t.Fatalf("default method missing:\n%s", html)
	}
}

func TestRenderMarksHiddenFields(t *testing.T) {
	f := form.New("vat")
	if err := f.AddField(fields.NewText(field.Settings{Name: "country"}, fields.TextOptions{})); err != nil {
		t.Fatal(err)
	}
	if err := f.AddField(fields.NewText(field.Settings{
		Name:      "vatId",
		Condition: visibility.When(visibility.OpEqual, "country", "DE"),
	}, fields.TextOptions{})); err != nil {
		t.Fatal(err)
	}

	html := renderForm(t, f)
	if !strings.Contains(html, `data-field="vatId" hidden`) {
		t.Fatalf("vatId not marked hidden:\n%s", html)
	}
}

func TestRenderSelectAndToggle(t *testing.T) {
	f := form.New("prefs")
	sel := fields.NewSelect(field.Settings{Name: "plan", Default: "pro"}, fields.SelectOptions{
		Choices: []fields.Choice{{Value: "free", Label: "Free"}, {Value: "pro", Label: "Pro"}},
	})
	if err := f.AddField(sel); err != nil {
		t.Fatal(err)
	}
	toggle := fields.NewToggle(field.Settings{Name: "newsletter", Label: "Newsletter"}, fields.ToggleOptions{})
	toggle.SetChecked(true, false)
	if err := f.AddField(toggle); err != nil {
		t.Fatal(err)
	}

	html := renderForm(t, f)
	if !strings.Contains(html, `<option value="pro" selected>Pro</option>`) {
		t.Fatalf("selected option missing:\n%s", html)
	}
	if !strings.Contains(html, `type="checkbox" id="newsletter" name="newsletter" checked`) {
		t.Fatalf("checked toggle missing:\n%s", html)
	}
}

func TestRenderShowsErrors(t *testing.T) {
	f := form.New("strict")
	if err := f.AddField(fields.NewText(field.Settings{Name: "title", Label: "Title", Required: true}, fields.TextOptions{})); err != nil {
		t.Fatal(err)
	}
	f.Validate(context.Background())

	html := renderForm(t, f)
	if !strings.Contains(html, "has-error") || !strings.Contains(html, "formkit-message") {
		t.Fatalf("error markup missing:\n%s", html)
	}
}

func TestRenderGroups(t *testing.T) {
	f := form.New("grouped")
	if err := f.AddField(fields.NewText(field.Settings{Name: "street"}, fields.TextOptions{})); err != nil {
		t.Fatal(err)
	}
	if _, err := f.AddGroup("address", "Address", []string{"street"}, true); err != nil {
		t.Fatal(err)
	}

	html := renderForm(t, f)
	if !strings.Contains(html, `data-group="address"`) || !strings.Contains(html, "is-collapsed") {
		t.Fatalf("group markup missing:\n%s", html)
	}
	if strings.Count(html, `name="street"`) != 1 {
		t.Fatalf("grouped field rendered more than once:\n%s", html)
	}
}
