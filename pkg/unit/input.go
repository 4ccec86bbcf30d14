package unit

import (
	"encoding/json"
	"math"
	"strconv"
)

// Unit inputs arrive as map[string]any from both the CLI (Go ints) and the
// HTTP gateway (JSON float64), so numeric coercion accepts either.

// ToInt converts v to an int. Fractional floats are rejected.
func ToInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		return int(i), err == nil
	case string:
		i, err := strconv.Atoi(n)
		return i, err == nil
	default:
		return 0, false
	}
}

// ToFloat converts v to a float64.
func ToFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// InputMap returns input as a map, or an empty map when input is nil or of
// another type.
func InputMap(input any) map[string]any {
	if m, ok := input.(map[string]any); ok && m != nil {
		return m
	}
	return map[string]any{}
}

// StringValue returns m[key] when it holds a string.
func StringValue(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}
