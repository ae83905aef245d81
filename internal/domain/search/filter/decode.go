package filter

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Decode converts a loosely-typed payload value (as produced by
// encoding/json) into a Value. It never fails: a string that looks like
// JSON but does not parse stays a plain string scalar, and shapes that
// cannot be represented yield the zero (KindInvalid) Value.
func Decode(raw any) Value {
	if s, ok := raw.(string); ok {
		if parsed, ok := decodeStringified(s); ok {
			return decodeStructured(parsed)
		}
		return ScalarValue(Text(strings.TrimSpace(s)))
	}
	return decodeStructured(raw)
}

// decodeStringified parses s when it holds a serialized list or object.
func decodeStringified(s string) (any, bool) {
	t := strings.TrimSpace(s)
	if t == "" || (t[0] != '[' && t[0] != '{') {
		return nil, false
	}
	var parsed any
	if err := json.Unmarshal([]byte(t), &parsed); err != nil {
		return nil, false
	}
	switch parsed.(type) {
	case []any, map[string]any:
		return parsed, true
	default:
		return nil, false
	}
}

func decodeStructured(raw any) Value {
	switch t := raw.(type) {
	case nil:
		return Value{}
	case string:
		return ScalarValue(Text(strings.TrimSpace(t)))
	case []string:
		items := make([]Scalar, 0, len(t))
		for _, s := range t {
			items = append(items, Text(strings.TrimSpace(s)))
		}
		return ListValue(items)
	case []any:
		items := make([]Scalar, 0, len(t))
		for _, item := range t {
			if s, ok := toScalar(item); ok {
				items = append(items, s)
			}
		}
		return ListValue(items)
	case map[string]any:
		if inner, ok := t["value"]; ok {
			return Decode(inner)
		}
		if _, hasMin := t["min"]; hasMin {
			return RangeValue(decodeRange(t))
		}
		if _, hasMax := t["max"]; hasMax {
			return RangeValue(decodeRange(t))
		}
		return Value{}
	default:
		if s, ok := toScalar(t); ok {
			return ScalarValue(s)
		}
		return Value{}
	}
}

func toScalar(v any) (Scalar, bool) {
	switch t := v.(type) {
	case string:
		return Text(strings.TrimSpace(t)), true
	case float64:
		return Number(t), true
	case float32:
		return Number(float64(t)), true
	case int:
		return Number(float64(t)), true
	case int64:
		return Number(float64(t)), true
	case int32:
		return Number(float64(t)), true
	case json.Number:
		if f, err := t.Float64(); err == nil {
			return Number(f), true
		}
		return Text(t.String()), true
	case bool:
		return Text(fmt.Sprint(t)), true
	default:
		return Scalar{}, false
	}
}

func decodeRange(m map[string]any) Range {
	var r Range
	if raw, ok := m["min"]; ok && raw != nil {
		f, ok := boundValue(raw)
		if !ok {
			r.bad = fmt.Sprint(raw)
		} else {
			r.min = &f
		}
	}
	if raw, ok := m["max"]; ok && raw != nil {
		f, ok := boundValue(raw)
		if !ok {
			r.bad = fmt.Sprint(raw)
		} else {
			r.max = &f
		}
	}
	return r
}

func boundValue(raw any) (float64, bool) {
	s, ok := toScalar(raw)
	if !ok {
		return 0, false
	}
	return s.Float()
}
