package tui_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formkit/pkg/field"
	"github.com/goliatone/go-formkit/pkg/fields"
	"github.com/goliatone/go-formkit/pkg/form"
	"github.com/goliatone/go-formkit/pkg/renderers/tui"
	"github.com/goliatone/go-formkit/pkg/visibility"
)

// scriptDriver replays canned answers instead of prompting a terminal.
type scriptDriver struct {
	inputs   []string
	confirms []bool
	selects  []string
	multis   [][]string
	infos    []string
}

func (d *scriptDriver) next(queue *[]string) string {
	if len(*queue) == 0 {
		return ""
	}
	head := (*queue)[0]
	*queue = (*queue)[1:]
	return head
}

func (d *scriptDriver) Input(_ context.Context, _ tui.InputConfig) (string, error) {
	return d.next(&d.inputs), nil
}

func (d *scriptDriver) Password(_ context.Context, _ tui.InputConfig) (string, error) {
	return d.next(&d.inputs), nil
}

func (d *scriptDriver) TextArea(_ context.Context, _ tui.InputConfig) (string, error) {
	return d.next(&d.inputs), nil
}

func (d *scriptDriver) Confirm(_ context.Context, _ tui.ConfirmConfig) (bool, error) {
	if len(d.confirms) == 0 {
		return false, nil
	}
	head := d.confirms[0]
	d.confirms = d.confirms[1:]
	return head, nil
}

func (d *scriptDriver) Select(_ context.Context, _ tui.SelectConfig) (string, error) {
	return d.next(&d.selects), nil
}

func (d *scriptDriver) MultiSelect(_ context.Context, _ tui.SelectConfig) ([]string, error) {
	if len(d.multis) == 0 {
		return nil, nil
	}
	head := d.multis[0]
	d.multis = d.multis[1:]
	return head, nil
}

func (d *scriptDriver) Info(_ context.Context, msg string) error {
	d.infos = append(d.infos, msg)
	return nil
}

func TestFillWalksVisibleFields(t *testing.T) {
	f := form.New("signup")
	if err := f.AddField(fields.NewText(field.Settings{Name: "name", Label: "Name"}, fields.TextOptions{})); err != nil {
		t.Fatal(err)
	}
	if err := f.AddField(fields.NewToggle(field.Settings{Name: "newsletter"}, fields.ToggleOptions{OnValue: "yes"})); err != nil {
		t.Fatal(err)
	}
	if err := f.AddField(fields.NewSelect(field.Settings{Name: "plan"}, fields.SelectOptions{
		Choices: []fields.Choice{{Value: "free", Label: "Free"}, {Value: "pro", Label: "Pro"}},
	})); err != nil {
		t.Fatal(err)
	}

	driver := &scriptDriver{
		inputs:   []string{"Ada"},
		confirms: []bool{true},
		selects:  []string{"Pro"},
	}
	if err := tui.New(tui.WithPromptDriver(driver)).Fill(context.Background(), f); err != nil {
		t.Fatalf("Fill: %v", err)
	}

	if got := f.Field("name").Value(); got != "Ada" {
		t.Fatalf("name = %v", got)
	}
	if got := f.Field("newsletter").Value(); got != "yes" {
		t.Fatalf("newsletter = %v", got)
	}
	if got := f.Field("plan").Value(); got != "pro" {
		t.Fatalf("plan = %v", got)
	}
}

func TestFillSkipsFieldsHiddenByEarlierAnswers(t *testing.T) {
	f := form.New("vat")
	if err := f.AddField(fields.NewText(field.Settings{Name: "country", Default: "DE"}, fields.TextOptions{})); err != nil {
		t.Fatal(err)
	}
	if err := f.AddField(fields.NewText(field.Settings{
		Name:      "vatId",
		Condition: visibility.When(visibility.OpEqual, "country", "DE"),
	}, fields.TextOptions{})); err != nil {
		t.Fatal(err)
	}

	driver := &scriptDriver{inputs: []string{"FR", "should-not-be-asked"}}
	if err := tui.New(tui.WithPromptDriver(driver)).Fill(context.Background(), f); err != nil {
		t.Fatalf("Fill: %v", err)
	}

	if f.Field("vatId").Value() != nil {
		t.Fatalf("hidden vatId got a value: %v", f.Field("vatId").Value())
	}
	if len(driver.inputs) != 1 {
		t.Fatalf("vatId consumed an answer; remaining %v", driver.inputs)
	}
}

func TestFillReasksOnValidationFailure(t *testing.T) {
	f := form.New("contact")
	if err := f.AddField(fields.NewEmail(field.Settings{Name: "email", Label: "Email", Required: true})); err != nil {
		t.Fatal(err)
	}

	driver := &scriptDriver{inputs: []string{"not-an-email", "ada@example.com"}}
	if err := tui.New(tui.WithPromptDriver(driver)).Fill(context.Background(), f); err != nil {
		t.Fatalf("Fill: %v", err)
	}

	if got := f.Field("email").Value(); got != "ada@example.com" {
		t.Fatalf("email = %v", got)
	}
	if len(driver.infos) != 1 {
		t.Fatalf("infos = %v, want one validation notice", driver.infos)
	}
}

func TestFillMultiSelect(t *testing.T) {
	f := form.New("tags")
	if err := f.AddField(fields.NewSelect(field.Settings{Name: "tags"}, fields.SelectOptions{
		Multiple: true,
		Choices:  []fields.Choice{{Value: "a"}, {Value: "b"}, {Value: "c"}},
	})); err != nil {
		t.Fatal(err)
	}

	driver := &scriptDriver{multis: [][]string{{"a", "c"}}}
	if err := tui.New(tui.WithPromptDriver(driver)).Fill(context.Background(), f); err != nil {
		t.Fatalf("Fill: %v", err)
	}

	if diff := cmp.Diff([]string{"a", "c"}, f.Field("tags").Value()); diff != "" {
		t.Fatalf("tags mismatch (-want +got):\n%s", diff)
	}
}

func TestFillSkipsNonPromptableVariants(t *testing.T) {
	f := form.New("mixed")
	if err := f.AddField(fields.NewHiddenInput(field.Settings{Name: "token", Default: "t"})); err != nil {
		t.Fatal(err)
	}
	if err := f.AddField(fields.NewCaptcha(field.Settings{Name: "captcha"}, fields.CaptchaOptions{})); err != nil {
		t.Fatal(err)
	}

	driver := &scriptDriver{}
	if err := tui.New(tui.WithPromptDriver(driver)).Fill(context.Background(), f); err != nil {
		t.Fatalf("Fill: %v", err)
	}
	if got := f.Field("token").Value(); got != "t" {
		t.Fatalf("token = %v", got)
	}
}
