// Package value holds the coercion helpers shared by field variants, the
// visibility evaluator and payload serialization. Every variant funnels raw
// input through these before storing its canonical value, so the rules here
// define what "canonically equal" means across the module.
package value

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
)

// IsEmpty reports whether a value counts as absent: nil, an empty or
// whitespace-only string, or a collection with no elements. The zero number
// and false are NOT empty; a toggle that is off stores nil, not false.
func IsEmpty(v any) bool {
	if v == nil {
		return true
	}
	switch typed := v.(type) {
	case string:
		return strings.TrimSpace(typed) == ""
	case []string:
		return len(typed) == 0
	case []any:
		return len(typed) == 0
	case map[string]any:
		return len(typed) == 0
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() == 0
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return true
		}
		return IsEmpty(rv.Elem().Interface())
	}
	return false
}

// String coerces a scalar to its string form. nil coerces to "".
func String(v any) string {
	if v == nil {
		return ""
	}
	switch typed := v.(type) {
	case string:
		return typed
	case []byte:
		return string(typed)
	case bool:
		return strconv.FormatBool(typed)
	case float64:
		return formatFloat(typed)
	case float32:
		return formatFloat(float64(typed))
	case int:
		return strconv.Itoa(typed)
	case int64:
		return strconv.FormatInt(typed, 10)
	default:
		return fmt.Sprint(v)
	}
}

func formatFloat(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Number coerces a value to float64. The second return reports success;
// strings are trimmed and parsed, booleans map to 0/1.
func Number(v any) (float64, bool) {
	switch typed := v.(type) {
	case nil:
		return 0, false
	case float64:
		return typed, true
	case float32:
		return float64(typed), true
	case int:
		return float64(typed), true
	case int32:
		return float64(typed), true
	case int64:
		return float64(typed), true
	case uint:
		return float64(typed), true
	case uint64:
		return float64(typed), true
	case bool:
		if typed {
			return 1, true
		}
		return 0, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(typed), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// Bool coerces a value to a boolean. Strings accept the strconv forms and
// otherwise fall back to non-empty truthiness.
func Bool(v any) (bool, bool) {
	switch typed := v.(type) {
	case nil:
		return false, false
	case bool:
		return typed, true
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(typed))
		if err == nil {
			return parsed, true
		}
		return strings.TrimSpace(typed) != "", true
	case int:
		return typed != 0, true
	case int64:
		return typed != 0, true
	case float64:
		return typed != 0, true
	default:
		return false, false
	}
}

// Strings flattens a value into a slice of coerced strings. Scalars become a
// single-element slice, nil becomes nil.
func Strings(v any) []string {
	if v == nil {
		return nil
	}
	switch typed := v.(type) {
	case []string:
		return typed
	case []any:
		out := make([]string, 0, len(typed))
		for _, item := range typed {
			out = append(out, String(item))
		}
		return out
	case string:
		return []string{typed}
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		out := make([]string, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out = append(out, String(rv.Index(i).Interface()))
		}
		return out
	}
	return []string{String(v)}
}

// Equal reports canonical equality between two already-coerced values.
// Scalars compare by string coercion so 5, "5" and 5.0 are one value; slices
// and maps compare deeply.
func Equal(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if isScalar(a) && isScalar(b) {
		return String(a) == String(b)
	}
	return reflect.DeepEqual(a, b)
}

func isScalar(v any) bool {
	switch v.(type) {
	case string, bool, int, int32, int64, uint, uint64, float32, float64, []byte:
		return true
	}
	return false
}

// Count returns the element count for collections and -1 for scalars. The
// visibility comparisons use it to decide between cardinality and numeric
// compare.
func Count(v any) int {
	if v == nil {
		return -1
	}
	switch typed := v.(type) {
	case []string:
		return len(typed)
	case []any:
		return len(typed)
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len()
	}
	return -1
}
