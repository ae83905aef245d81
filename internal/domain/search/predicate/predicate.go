// Package predicate translates strict filters into a backend-neutral
// conjunction of clauses that each index adapter renders natively.
package predicate

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kailas-cloud/talentdex/internal/domain/candidate"
	"github.com/kailas-cloud/talentdex/internal/domain/search/filter"
)

// Op is a clause comparison.
type Op uint8

// Clause operators.
const (
	Eq Op = iota + 1
	In
	GTE
	LTE
)

func (o Op) String() string {
	switch o {
	case Eq:
		return "=="
	case In:
		return "in"
	case GTE:
		return ">="
	case LTE:
		return "<="
	default:
		return "?"
	}
}

// Clause is one condition on a metadata key. Eq and In carry Values,
// GTE and LTE carry Bound.
type Clause struct {
	Key    string
	Op     Op
	Values []string
	Bound  float64
}

func (c Clause) String() string {
	switch c.Op {
	case GTE, LTE:
		return fmt.Sprintf("%s %s %s", c.Key, c.Op, strconv.FormatFloat(c.Bound, 'f', -1, 64))
	case In:
		return fmt.Sprintf("%s in [%s]", c.Key, strings.Join(c.Values, ", "))
	default:
		return fmt.Sprintf("%s == %s", c.Key, strings.Join(c.Values, ""))
	}
}

// Predicate is a conjunction of clauses. A nil *Predicate matches everything.
type Predicate struct {
	clauses []Clause
}

// Clauses returns the ANDed clauses in build order.
func (p *Predicate) Clauses() []Clause {
	if p == nil {
		return nil
	}
	return p.clauses
}

// IsEmpty reports whether the predicate constrains nothing.
func (p *Predicate) IsEmpty() bool { return p == nil || len(p.clauses) == 0 }

func (p *Predicate) String() string {
	if p.IsEmpty() {
		return "<none>"
	}
	parts := make([]string, len(p.clauses))
	for i, c := range p.clauses {
		parts[i] = c.String()
	}
	return strings.Join(parts, " AND ")
}

// Skipped describes a strict filter that produced no clause.
type Skipped struct {
	Key    string
	Reason string
}

// Build converts strict filters into a predicate. Ranges become a lower
// and an upper bound clause, lists become set membership and anything
// else equality. Membership on a numeric key keeps only the values that
// parse as numbers. A filter that cannot be expressed is skipped without
// affecting the others. Build returns nil when no clause remains.
func Build(strict []filter.Filter) (*Predicate, []Skipped) {
	var (
		clauses []Clause
		skipped []Skipped
	)

	for _, f := range strict {
		v := f.Value()
		switch v.Kind() {
		case filter.KindRange:
			r := v.Range()
			if err := r.Validate(); err != nil {
				skipped = append(skipped, Skipped{Key: f.Key(), Reason: err.Error()})
				continue
			}
			if lo, ok := r.Min(); ok {
				clauses = append(clauses, Clause{Key: f.Key(), Op: GTE, Bound: lo})
			}
			if hi, ok := r.Max(); ok {
				clauses = append(clauses, Clause{Key: f.Key(), Op: LTE, Bound: hi})
			}

		case filter.KindList:
			values := v.Texts()
			if len(values) == 0 {
				skipped = append(skipped, Skipped{Key: f.Key(), Reason: "empty list"})
				continue
			}
			if values = numericOnly(f.Key(), values); len(values) == 0 {
				skipped = append(skipped, Skipped{Key: f.Key(), Reason: "no numeric value"})
				continue
			}
			clauses = append(clauses, Clause{Key: f.Key(), Op: In, Values: values})

		case filter.KindScalar:
			values := numericOnly(f.Key(), v.Texts())
			if len(values) == 0 {
				skipped = append(skipped, Skipped{Key: f.Key(), Reason: "no numeric value"})
				continue
			}
			clauses = append(clauses, Clause{Key: f.Key(), Op: Eq, Values: values})

		default:
			skipped = append(skipped, Skipped{Key: f.Key(), Reason: "unsupported value"})
		}
	}

	if len(clauses) == 0 {
		return nil, skipped
	}
	return &Predicate{clauses: clauses}, skipped
}

// numericOnly filters values of a numeric key down to parseable numbers.
// Values of other keys pass through unchanged.
func numericOnly(key string, values []string) []string {
	if !candidate.IsNumericField(key) {
		return values
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			out = append(out, v)
		}
	}
	return out
}

// Matches evaluates the predicate against decoded candidate metadata.
// List metadata matches Eq/In when any element matches. String
// comparison is case-insensitive, as TAG indexes compare.
func (p *Predicate) Matches(metadata map[string]any) bool {
	for _, c := range p.Clauses() {
		if !c.matches(metadata[c.Key]) {
			return false
		}
	}
	return true
}

func (c Clause) matches(v any) bool {
	switch c.Op {
	case GTE, LTE:
		n, ok := toFloat(v)
		if !ok {
			return false
		}
		if c.Op == GTE {
			return n >= c.Bound
		}
		return n <= c.Bound
	default:
		for _, have := range toStrings(v) {
			for _, want := range c.Values {
				if strings.EqualFold(have, want) {
					return true
				}
			}
		}
		return false
	}
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func toStrings(v any) []string {
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		return []string{t}
	case []string:
		return t
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			out = append(out, fmt.Sprint(item))
		}
		return out
	default:
		return []string{fmt.Sprint(t)}
	}
}
