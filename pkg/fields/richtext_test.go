package fields_test

import (
	"strings"
	"testing"

	"github.com/goliatone/go-formkit/pkg/field"
	"github.com/goliatone/go-formkit/pkg/fields"
	"github.com/goliatone/go-formkit/pkg/value"
)

func TestRichTextSanitizesMarkup(t *testing.T) {
	f := fields.NewRichText(field.Settings{Name: "body"}, fields.RichTextOptions{})
	f.ResyncFromEditor(`<p>hello</p><script>alert(1)</script>`)

	got := value.String(f.Value())
	if strings.Contains(got, "script") {
		t.Fatalf("script survived sanitization: %q", got)
	}
	if !strings.Contains(got, "<p>hello</p>") {
		t.Fatalf("paragraph stripped: %q", got)
	}
}

func TestRichTextEmptyAfterSanitizeIsNil(t *testing.T) {
	f := fields.NewRichText(field.Settings{Name: "body"}, fields.RichTextOptions{})
	f.ResyncFromEditor(`<script>alert(1)</script>`)
	if f.Value() != nil {
		t.Fatalf("Value = %v, want nil", f.Value())
	}
}

func TestRichTextLengthBounds(t *testing.T) {
	f := fields.NewRichText(field.Settings{Name: "body"}, fields.RichTextOptions{MinLength: 5, MaxLength: 10})

	f.ResyncFromEditor("hey")
	mustFail(t, f, "at least 5")

	f.ResyncFromEditor("hello world and more")
	mustFail(t, f, "at most 10")

	f.ResyncFromEditor("just right")
	mustValidate(t, f)
}

func TestRichTextIdenticalContentEmitsNothing(t *testing.T) {
	f := fields.NewRichText(field.Settings{Name: "body"}, fields.RichTextOptions{})
	var events int
	f.Subscribe(func(field.Change) { events++ })

	f.ResyncFromEditor("<p>stable</p>")
	f.ResyncFromEditor("<p>stable</p>")
	if events != 1 {
		t.Fatalf("expected 1 event, got %d", events)
	}
}
