package visibility_test

import (
	"encoding/json"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formkit/pkg/visibility"
)

func evalOrFail(t *testing.T, cond *visibility.Condition, values map[string]any) bool {
	t.Helper()
	got, err := visibility.Evaluate(cond, visibility.Context{Values: values})
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}
	return got
}

func TestEvaluateSingleRows(t *testing.T) {
	values := map[string]any{
		"name":    "Ada",
		"blank":   "",
		"tags":    []string{"go", "forms"},
		"country": "DE",
		"count":   7,
	}

	cases := []struct {
		name string
		cond *visibility.Condition
		want bool
	}{
		{"empty on blank", visibility.When(visibility.OpEmpty, "blank", nil), true},
		{"empty on missing field", visibility.When(visibility.OpEmpty, "missing", nil), true},
		{"notEmpty on populated", visibility.When(visibility.OpNotEmpty, "name", nil), true},
		{"equal scalar", visibility.When(visibility.OpEqual, "country", "DE"), true},
		{"equal coerces numbers", visibility.When(visibility.OpEqual, "count", "7"), true},
		{"equal any element", visibility.When(visibility.OpEqual, "tags", "forms"), true},
		{"notEqual any pair differs", visibility.When(visibility.OpNotEqual, "tags", "go"), true},
		{"notEqual all match", visibility.When(visibility.OpNotEqual, "country", "DE"), false},
		{"like substring case-insensitive", visibility.When(visibility.OpLike, "name", "ad"), true},
		{"like regex", visibility.When(visibility.OpLike, "name", "^A.a$"), true},
		{"notLike", visibility.When(visibility.OpNotLike, "name", "zz"), true},
		{"greaterThan numeric", visibility.When(visibility.OpGreaterThan, "count", 5), true},
		{"greaterThan collection counts elements", visibility.When(visibility.OpGreaterThan, "tags", 1), true},
		{"lowerThanEqual", visibility.When(visibility.OpLowerThanEqual, "count", 7), true},
		{"lowerThan fails", visibility.When(visibility.OpLowerThan, "count", 7), false},
		{"numeric against non-number", visibility.When(visibility.OpGreaterThan, "name", 1), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := evalOrFail(t, tc.cond, values); got != tc.want {
				t.Fatalf("Evaluate = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestEvaluateConnectiveChains(t *testing.T) {
	values := map[string]any{"a": "1", "b": "2", "c": "3"}

	condA := func(match bool) (visibility.Op, string, any) {
		if match {
			return visibility.OpEqual, "a", "1"
		}
		return visibility.OpEqual, "a", "x"
	}

	t.Run("or is plain disjunction", func(t *testing.T) {
		op, f, v := condA(false)
		cond := visibility.When(op, f, v).Or(visibility.OpEqual, "b", "2")
		if !evalOrFail(t, cond, values) {
			t.Fatal("false OR true should be true")
		}
	})

	t.Run("and is plain conjunction", func(t *testing.T) {
		op, f, v := condA(true)
		cond := visibility.When(op, f, v).And(visibility.OpEqual, "b", "2")
		if !evalOrFail(t, cond, values) {
			t.Fatal("true AND true should be true")
		}
		cond = visibility.When(op, f, v).And(visibility.OpEqual, "b", "x")
		if evalOrFail(t, cond, values) {
			t.Fatal("true AND false should be false")
		}
	})

	t.Run("true before or short-circuits rest of chain", func(t *testing.T) {
		// [A, or, B, and, C]: a true A stops at the or row, B and C never run.
		op, f, v := condA(true)
		cond := visibility.When(op, f, v).
			Or(visibility.OpEqual, "b", "x").
			And(visibility.OpEqual, "c", "x")
		if !evalOrFail(t, cond, values) {
			t.Fatal("true cond(A) must make the whole chain true")
		}
	})

	t.Run("false before and cannot recover", func(t *testing.T) {
		op, f, v := condA(false)
		cond := visibility.When(op, f, v).
			And(visibility.OpEqual, "b", "2").
			Or(visibility.OpEqual, "c", "3")
		if evalOrFail(t, cond, values) {
			t.Fatal("false before and must stop the chain")
		}
	})
}

func TestEvaluateNilCondition(t *testing.T) {
	if !evalOrFail(t, nil, nil) {
		t.Fatal("nil condition must evaluate visible")
	}
}

func TestRowUnmarshal(t *testing.T) {
	var rows []visibility.Row
	payload := `[{"type":"equal","field":"country","value":"DE"},"or",{"type":"empty","field":"vatId"}]`
	if err := json.Unmarshal([]byte(payload), &rows); err != nil {
		t.Fatalf("json unmarshal: %v", err)
	}
	if len(rows) != 3 || rows[1].Connective != visibility.Or || rows[2].Op != visibility.OpEmpty {
		t.Fatalf("unexpected rows: %+v", rows)
	}

	var fromYAML []visibility.Row
	doc := "- {type: equal, field: country, value: DE}\n- and\n- {type: notEmpty, field: vatId}\n"
	if err := yaml.Unmarshal([]byte(doc), &fromYAML); err != nil {
		t.Fatalf("yaml unmarshal: %v", err)
	}
	if len(fromYAML) != 3 || fromYAML[1].Connective != visibility.And {
		t.Fatalf("unexpected rows: %+v", fromYAML)
	}

	if err := json.Unmarshal([]byte(`[{"type":"bogus","field":"x"}]`), &rows); err == nil {
		t.Fatal("unknown condition type must be rejected")
	}
	if err := json.Unmarshal([]byte(`["xor"]`), &rows); err == nil {
		t.Fatal("unknown connective must be rejected")
	}
}

func TestConditionFields(t *testing.T) {
	cond := visibility.When(visibility.OpEqual, "country", "DE").
		And(visibility.OpNotEmpty, "vatId", nil).
		Or(visibility.OpEqual, "country", "AT")
	got := cond.Fields()
	want := []string{"country", "vatId"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("Fields = %v, want %v", got, want)
	}
}
