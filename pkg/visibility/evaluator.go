package visibility

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/goliatone/go-formkit/pkg/value"
)

// Evaluate walks the condition rows left to right, maintaining a running
// visible flag that starts false. Comparison rows overwrite the flag; an
// `and` row stops evaluation when the flag is false, an `or` row stops it
// when the flag is true. The asymmetry is deliberate: a chain that went false
// before an `and` can never recover, and a chain that went true before an
// `or` can never be demoted.
//
// A nil condition is always visible.
func Evaluate(cond *Condition, ctx Context) (bool, error) {
	if cond == nil || len(cond.Rows) == 0 {
		return true, nil
	}

	visible := false
	for _, row := range cond.Rows {
		if row.IsConnective() {
			switch row.Connective {
			case And:
				if !visible {
					return false, nil
				}
			case Or:
				if visible {
					return true, nil
				}
			default:
				return false, fmt.Errorf("visibility: unknown connective %q", row.Connective)
			}
			continue
		}

		result, err := evalRow(row, ctx)
		if err != nil {
			return false, err
		}
		visible = result
	}
	return visible, nil
}

func evalRow(row Row, ctx Context) (bool, error) {
	current := lookup(ctx, row.Field)

	switch row.Op {
	case OpEmpty:
		return value.IsEmpty(current), nil
	case OpNotEmpty:
		return !value.IsEmpty(current), nil
	case OpEqual:
		return anyPair(current, row.Value, func(a, b string) bool { return a == b }), nil
	case OpNotEqual:
		return anyPair(current, row.Value, func(a, b string) bool { return a != b }), nil
	case OpLike:
		return anyPair(current, row.Value, matchLike), nil
	case OpNotLike:
		return anyPair(current, row.Value, func(a, b string) bool { return !matchLike(a, b) }), nil
	case OpGreaterThan:
		return compareNumeric(current, row.Value, func(a, b float64) bool { return a > b }), nil
	case OpGreaterThanEqual:
		return compareNumeric(current, row.Value, func(a, b float64) bool { return a >= b }), nil
	case OpLowerThan:
		return compareNumeric(current, row.Value, func(a, b float64) bool { return a < b }), nil
	case OpLowerThanEqual:
		return compareNumeric(current, row.Value, func(a, b float64) bool { return a <= b }), nil
	default:
		return false, fmt.Errorf("visibility: unknown condition type %q", row.Op)
	}
}

func lookup(ctx Context, key string) any {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil
	}
	if strings.HasPrefix(strings.ToLower(key), "extras.") {
		if v, ok := ctx.Extras[key[len("extras."):]]; ok {
			return v
		}
		return nil
	}
	if v, ok := ctx.Values[key]; ok {
		return v
	}
	return nil
}

// anyPair fans scalar-or-collection values out on both sides and reports
// whether any (field element, condition element) pair satisfies match. No
// elements on either side means no pair matches.
func anyPair(fieldValue, condValue any, match func(a, b string) bool) bool {
	left := value.Strings(fieldValue)
	right := value.Strings(condValue)
	for _, a := range left {
		for _, b := range right {
			if match(a, b) {
				return true
			}
		}
	}
	return false
}

// matchLike treats the condition value as a case-insensitive regular
// expression when it compiles, and as a case-insensitive substring otherwise.
func matchLike(fieldValue, pattern string) bool {
	if re, err := regexp.Compile("(?i)" + pattern); err == nil {
		return re.MatchString(fieldValue)
	}
	return strings.Contains(strings.ToLower(fieldValue), strings.ToLower(pattern))
}

// compareNumeric compares a collection by element count and a scalar by its
// numeric coercion. Values that cannot be coerced fail the comparison.
func compareNumeric(fieldValue, condValue any, cmp func(a, b float64) bool) bool {
	right, ok := value.Number(condValue)
	if !ok {
		return false
	}

	if count := value.Count(fieldValue); count >= 0 {
		return cmp(float64(count), right)
	}
	left, ok := value.Number(fieldValue)
	if !ok {
		return false
	}
	return cmp(left, right)
}
