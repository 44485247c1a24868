package fields_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/goliatone/go-formkit/pkg/field"
	"github.com/goliatone/go-formkit/pkg/fields"
)

func TestDateCoercion(t *testing.T) {
	f := fields.NewDate(field.Settings{Name: "birthday"}, fields.DateOptions{})

	cases := []struct {
		in   any
		want any
	}{
		{"2024-12-31", "2024-12-31"},
		{"31.12.2024", "2024-12-31"},
		{"31/12/2024", "2024-12-31"},
		{"311224", "2024-12-31"},   // ddmmyy shorthand
		{"31122024", "2024-12-31"}, // ddmmyyyy shorthand
		{time.Date(2024, 12, 31, 10, 0, 0, 0, time.UTC), "2024-12-31"},
		{"", nil},
		{nil, nil},
	}
	for _, tc := range cases {
		f.SetValue(tc.in, false)
		if got := f.Value(); got != tc.want {
			t.Fatalf("coerce(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestDateShortYearPivot(t *testing.T) {
	f := fields.NewDate(field.Settings{Name: "d"}, fields.DateOptions{})
	f.SetValue("010160", false)
	if got := f.Value(); got != "2060-01-01" {
		t.Fatalf("yy below pivot = %v", got)
	}
	f.SetValue("010190", false)
	if got := f.Value(); got != "1990-01-01" {
		t.Fatalf("yy above pivot = %v", got)
	}
}

func TestDateShorthandWithoutYear(t *testing.T) {
	f := fields.NewDate(field.Settings{Name: "d"}, fields.DateOptions{})
	f.SetValue("3112", false)
	want := fmt.Sprintf("%d-12-31", time.Now().Year())
	if got := f.Value(); got != want {
		t.Fatalf("ddmm shorthand = %v, want %v", got, want)
	}
}

func TestDateRangeValidation(t *testing.T) {
	f := fields.NewDate(field.Settings{Name: "from", Label: "From"}, fields.DateOptions{
		Min: "2024-01-01",
		Max: "2024-12-31",
	})

	f.SetValue("2023-06-01", true)
	mustFail(t, f, "not be before")

	f.SetValue("2025-06-01", true)
	mustFail(t, f, "not be after")

	f.SetValue("2024-06-01", true)
	mustValidate(t, f)
}

func TestDateKeepsRawUnparseableInput(t *testing.T) {
	f := fields.NewDate(field.Settings{Name: "d", Label: "Date"}, fields.DateOptions{})
	f.SetValue("tomorrow-ish", true)
	if got := f.Value(); got != "tomorrow-ish" {
		t.Fatalf("raw input dropped: %v", got)
	}
	mustFail(t, f, "not a valid date")
}

func TestDateTimeAndTimeLayouts(t *testing.T) {
	dt := fields.NewDateTime(field.Settings{Name: "at"}, fields.DateOptions{})
	dt.SetValue("2024-06-01 09:30", false)
	if got := dt.Value(); got != "2024-06-01T09:30:00" {
		t.Fatalf("datetime coerce = %v", got)
	}
	if _, ok := dt.Time(); !ok {
		t.Fatal("Time() should parse canonical value")
	}

	tm := fields.NewTime(field.Settings{Name: "opens"}, fields.DateOptions{})
	tm.SetValue("0930", false)
	if got := tm.Value(); got != "09:30" {
		t.Fatalf("time shorthand = %v", got)
	}
}
