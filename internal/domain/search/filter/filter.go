// Package filter models the loosely-typed metadata filters a search
// request carries and splits them into strict and soft partitions.
package filter

import (
	"errors"
	"fmt"
	"strings"
)

// Operator is a filter comparison.
type Operator string

// Supported operators.
const (
	OpEq       Operator = "eq"
	OpIn       Operator = "in"
	OpRange    Operator = "range"
	OpContains Operator = "contains"
)

// ParseOperator normalizes an operator name. The empty string is accepted
// and means "infer from the value shape".
func ParseOperator(s string) (Operator, error) {
	op := Operator(strings.ToLower(strings.TrimSpace(s)))
	switch op {
	case "", OpEq, OpIn, OpRange, OpContains:
		return op, nil
	default:
		return "", fmt.Errorf("unsupported operator %q", s)
	}
}

// ErrInvalidFilter is wrapped by every filter construction error.
var ErrInvalidFilter = errors.New("invalid filter")

// Filter is a validated {key, value, operator} triple.
type Filter struct {
	key   string
	value Value
	op    Operator
}

// New validates a filter and reconciles its operator with the value shape:
// range values always use OpRange, list values use OpIn unless OpContains
// was asked for, and scalars default to OpEq.
func New(key string, value Value, op Operator) (Filter, error) {
	if key == "" {
		return Filter{}, fmt.Errorf("%w: key is required", ErrInvalidFilter)
	}

	switch value.Kind() {
	case KindRange:
		if err := value.Range().Validate(); err != nil {
			return Filter{}, fmt.Errorf("%w: %s: %w", ErrInvalidFilter, key, err)
		}
		op = OpRange

	case KindList:
		items := make([]Scalar, 0, len(value.List()))
		for _, s := range value.List() {
			if s.String() != "" {
				items = append(items, s)
			}
		}
		if len(items) == 0 {
			return Filter{}, fmt.Errorf("%w: %s: empty list", ErrInvalidFilter, key)
		}
		if op == OpRange {
			return Filter{}, fmt.Errorf("%w: %s: range operator needs {min,max}", ErrInvalidFilter, key)
		}
		if op != OpContains {
			op = OpIn
		}
		value = ListValue(items)

	case KindScalar:
		if value.Scalar().String() == "" {
			return Filter{}, fmt.Errorf("%w: %s: empty value", ErrInvalidFilter, key)
		}
		switch op {
		case OpRange:
			return Filter{}, fmt.Errorf("%w: %s: range operator needs {min,max}", ErrInvalidFilter, key)
		case OpIn:
			value = value.asList()
		case "":
			op = OpEq
		}

	default:
		return Filter{}, fmt.Errorf("%w: %s: unsupported value", ErrInvalidFilter, key)
	}

	return Filter{key: key, value: value, op: op}, nil
}

// Key returns the canonical metadata key.
func (f Filter) Key() string { return f.key }

// Value returns the filter value.
func (f Filter) Value() Value { return f.value }

// Operator returns the reconciled operator.
func (f Filter) Operator() Operator { return f.op }

func (f Filter) String() string {
	return fmt.Sprintf("%s %s %s", f.key, f.op, f.value)
}
