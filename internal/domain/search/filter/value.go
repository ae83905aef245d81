package filter

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Kind tags the shape of a filter Value.
type Kind uint8

const (
	// KindInvalid is the zero Value: nothing usable was supplied.
	KindInvalid Kind = iota
	// KindScalar is a single string or number.
	KindScalar
	// KindList is a list of scalars.
	KindList
	// KindRange is a {min, max} numeric interval.
	KindRange
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindList:
		return "list"
	case KindRange:
		return "range"
	default:
		return "invalid"
	}
}

// Scalar is a string or a number. Numbers keep their origin so a
// two-element numeric list can be told apart from ["9", "12"].
type Scalar struct {
	text   string
	num    float64
	number bool
}

// Text creates a string scalar.
func Text(s string) Scalar { return Scalar{text: s} }

// Number creates a numeric scalar.
func Number(f float64) Scalar { return Scalar{num: f, number: true} }

// IsNumber reports whether the scalar was supplied as a number.
func (s Scalar) IsNumber() bool { return s.number }

// String renders the scalar; numbers use the shortest exact form.
func (s Scalar) String() string {
	if s.number {
		return strconv.FormatFloat(s.num, 'f', -1, 64)
	}
	return s.text
}

// Float returns the numeric value of a number or of a numeric string.
func (s Scalar) Float() (float64, bool) {
	if s.number {
		return s.num, true
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s.text), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Range errors.
var (
	ErrRangeNoBounds   = errors.New("range needs at least one of min or max")
	ErrRangeBadBound   = errors.New("range bound is not numeric")
	ErrRangeMinOverMax = errors.New("range min is greater than max")
)

// Range is an inclusive numeric interval. A nil bound is open.
type Range struct {
	min, max *float64
	bad      string // raw text of a bound that failed to parse
}

// NewRange creates a Range from optional bounds.
func NewRange(minV, maxV *float64) Range {
	return Range{min: minV, max: maxV}
}

// Min returns the lower bound.
func (r Range) Min() (float64, bool) {
	if r.min == nil {
		return 0, false
	}
	return *r.min, true
}

// Max returns the upper bound.
func (r Range) Max() (float64, bool) {
	if r.max == nil {
		return 0, false
	}
	return *r.max, true
}

// Validate enforces numeric bounds, at least one bound, and min <= max.
func (r Range) Validate() error {
	if r.bad != "" {
		return fmt.Errorf("%w: %q", ErrRangeBadBound, r.bad)
	}
	if r.min == nil && r.max == nil {
		return ErrRangeNoBounds
	}
	if r.min != nil && r.max != nil && *r.min > *r.max {
		return fmt.Errorf("%w: %g > %g", ErrRangeMinOverMax, *r.min, *r.max)
	}
	return nil
}

// Contains reports whether v lies inside the interval, bounds inclusive.
func (r Range) Contains(v float64) bool {
	if r.min != nil && v < *r.min {
		return false
	}
	if r.max != nil && v > *r.max {
		return false
	}
	return true
}

func (r Range) String() string {
	lo, hi := "-inf", "+inf"
	if r.min != nil {
		lo = strconv.FormatFloat(*r.min, 'f', -1, 64)
	}
	if r.max != nil {
		hi = strconv.FormatFloat(*r.max, 'f', -1, 64)
	}
	return "[" + lo + ", " + hi + "]"
}

// Value is the tagged union held by a Filter.
type Value struct {
	kind   Kind
	scalar Scalar
	list   []Scalar
	rng    Range
}

// ScalarValue wraps a single scalar.
func ScalarValue(s Scalar) Value { return Value{kind: KindScalar, scalar: s} }

// ListValue wraps a list of scalars.
func ListValue(items []Scalar) Value { return Value{kind: KindList, list: items} }

// RangeValue wraps a numeric interval.
func RangeValue(r Range) Value { return Value{kind: KindRange, rng: r} }

// Strings is a convenience constructor for a list of string scalars.
func Strings(items ...string) Value {
	list := make([]Scalar, len(items))
	for i, s := range items {
		list[i] = Text(s)
	}
	return ListValue(list)
}

// Between is a convenience constructor for a closed interval.
func Between(lo, hi float64) Value {
	return RangeValue(NewRange(&lo, &hi))
}

// Kind returns the value shape.
func (v Value) Kind() Kind { return v.kind }

// Scalar returns the scalar of a KindScalar value.
func (v Value) Scalar() Scalar { return v.scalar }

// List returns the items of a KindList value.
func (v Value) List() []Scalar { return v.list }

// Range returns the interval of a KindRange value.
func (v Value) Range() Range { return v.rng }

// Texts renders a scalar or list value as strings.
func (v Value) Texts() []string {
	switch v.kind {
	case KindScalar:
		return []string{v.scalar.String()}
	case KindList:
		out := make([]string, len(v.list))
		for i, s := range v.list {
			out[i] = s.String()
		}
		return out
	default:
		return nil
	}
}

func (v Value) String() string {
	switch v.kind {
	case KindScalar:
		return v.scalar.String()
	case KindList:
		return "[" + strings.Join(v.Texts(), ", ") + "]"
	case KindRange:
		return v.rng.String()
	default:
		return "<invalid>"
	}
}

// asList wraps a scalar into a one-element list; other kinds pass through.
func (v Value) asList() Value {
	if v.kind == KindScalar {
		return ListValue([]Scalar{v.scalar})
	}
	return v
}

// numericPair reports whether v is a list of exactly two numbers.
func (v Value) numericPair() (Range, bool) {
	if v.kind != KindList || len(v.list) != 2 {
		return Range{}, false
	}
	if !v.list[0].IsNumber() || !v.list[1].IsNumber() {
		return Range{}, false
	}
	lo, hi := v.list[0].num, v.list[1].num
	return NewRange(&lo, &hi), true
}
