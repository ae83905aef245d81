package filter

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/kailas-cloud/talentdex/internal/domain/candidate"
)

// Raw is a filter as it arrives from a caller or an extraction step:
// the key may be named either "name" or "key", the value may be any
// JSON shape including a stringified one, and the operator is optional.
type Raw struct {
	Name     string `json:"name,omitempty"`
	Key      string `json:"key,omitempty"`
	Value    any    `json:"value"`
	Operator string `json:"operator,omitempty"`

	// decodeErr is set when a list element could not be decoded into Raw.
	decodeErr error
}

// KeyName returns the key the raw filter names, preferring Name.
func (r Raw) KeyName() string {
	if n := strings.TrimSpace(r.Name); n != "" {
		return n
	}
	return strings.TrimSpace(r.Key)
}

// RawFromMap converts a key -> value object into raw filters, ordered by key.
func RawFromMap(m map[string]any) []Raw {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]Raw, 0, len(keys))
	for _, k := range keys {
		out = append(out, Raw{Key: k, Value: m[k]})
	}
	return out
}

// DecodeRaws decodes a filters payload: either a list of raw filter
// objects or a key -> value object. Empty input yields no filters.
func DecodeRaws(data []byte) ([]Raw, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, nil
	}
	switch data[0] {
	case '[':
		var elems []json.RawMessage
		if err := json.Unmarshal(data, &elems); err != nil {
			return nil, fmt.Errorf("decode filter list: %w", err)
		}
		raws := make([]Raw, 0, len(elems))
		for _, elem := range elems {
			raws = append(raws, decodeRaw(elem))
		}
		return raws, nil
	case '{':
		var m map[string]any
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("decode filter object: %w", err)
		}
		return RawFromMap(m), nil
	default:
		return nil, errors.New("filters must be a list or an object")
	}
}

// decodeRaw decodes one list element. An element that is not a filter
// object is kept and later dropped by Parse with ReasonInvalidValue.
func decodeRaw(elem json.RawMessage) Raw {
	var r Raw
	err := json.Unmarshal(elem, &r)
	if err == nil {
		return r
	}
	bad := Raw{decodeErr: err}
	var loose map[string]any
	if json.Unmarshal(elem, &loose) == nil {
		if n, ok := loose["name"].(string); ok {
			bad.Name = n
		}
		if k, ok := loose["key"].(string); ok {
			bad.Key = k
		}
	}
	return bad
}

// Drop reasons.
const (
	ReasonMissingKey      = "missing_key"
	ReasonUnknownKey      = "unknown_key"
	ReasonInvalidOperator = "invalid_operator"
	ReasonInvalidValue    = "invalid_value"
)

// DropError explains why a raw filter was not turned into a Filter.
type DropError struct {
	Key    string
	Reason string
	Err    error
}

func (e *DropError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("filter %q dropped: %s", e.Key, e.Reason)
	}
	return fmt.Sprintf("filter %q dropped: %s: %v", e.Key, e.Reason, e.Err)
}

func (e *DropError) Unwrap() error { return e.Err }

// Experience window half-widths around a scalar years_of_experience value.
const (
	experienceJuniorSpan  = 2
	experienceSeniorSpan  = 3
	experienceJuniorUntil = 5
)

// Parse turns a raw filter into a Filter. Synonym keys are mapped to their
// canonical form, nested {"value", "operator"} objects are unwrapped, a
// two-number list becomes a range, a scalar years_of_experience becomes a
// window around it, and scalars for multi-valued keys become lists.
// Errors are always *DropError.
func Parse(r Raw) (Filter, error) {
	name := r.KeyName()
	if r.decodeErr != nil {
		return Filter{}, &DropError{Key: name, Reason: ReasonInvalidValue, Err: r.decodeErr}
	}
	if name == "" {
		return Filter{}, &DropError{Reason: ReasonMissingKey}
	}
	key := candidate.Canonical(name)
	if !candidate.IsKnown(key) {
		return Filter{}, &DropError{Key: name, Reason: ReasonUnknownKey}
	}

	rawValue, opName := unwrap(r.Value, r.Operator)
	op, err := ParseOperator(opName)
	if err != nil {
		return Filter{}, &DropError{Key: key, Reason: ReasonInvalidOperator, Err: err}
	}

	v := Decode(rawValue)
	if rng, ok := v.numericPair(); ok {
		v = RangeValue(rng)
	}
	if key == candidate.YearsExperience && v.Kind() == KindScalar && op != OpEq {
		if n, ok := v.Scalar().Float(); ok {
			v = RangeValue(experienceWindow(n))
		}
	}
	if candidate.IsMultiValued(key) {
		v = v.asList()
	}

	f, err := New(key, v, op)
	if err != nil {
		return Filter{}, &DropError{Key: key, Reason: ReasonInvalidValue, Err: err}
	}
	return f, nil
}

// unwrap extracts the inner value of {"value": X, "operator": op} objects,
// including stringified ones. The inner operator applies only when the
// outer one is absent.
func unwrap(raw any, op string) (any, string) {
	m, ok := raw.(map[string]any)
	if !ok {
		if s, isStr := raw.(string); isStr {
			if parsed, decoded := decodeStringified(s); decoded {
				m, ok = parsed.(map[string]any)
			}
		}
	}
	if !ok {
		return raw, op
	}
	inner, hasValue := m["value"]
	if !hasValue {
		return raw, op
	}
	if strings.TrimSpace(op) == "" {
		if innerOp, isStr := m["operator"].(string); isStr {
			op = innerOp
		}
	}
	return unwrap(inner, op)
}

func experienceWindow(n float64) Range {
	span := float64(experienceSeniorSpan)
	if n <= experienceJuniorUntil {
		span = experienceJuniorSpan
	}
	lo := math.Max(0, n-span)
	hi := n + span
	return NewRange(&lo, &hi)
}

// IsDrop reports whether err came from Parse.
func IsDrop(err error) (*DropError, bool) {
	var de *DropError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}
