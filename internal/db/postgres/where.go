package postgres

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lib/pq"

	"github.com/kailas-cloud/talentdex/internal/domain/candidate"
	"github.com/kailas-cloud/talentdex/internal/domain/search/predicate"
)

// whereBuilder renders predicate clauses as SQL over the metadata JSONB
// column, appending bind arguments after the ones already present.
type whereBuilder struct {
	conds []string
	args  []any
}

func newWhereBuilder(args ...any) *whereBuilder {
	return &whereBuilder{args: args}
}

func (w *whereBuilder) bind(v any) string {
	w.args = append(w.args, v)
	return "$" + strconv.Itoa(len(w.args))
}

func (w *whereBuilder) add(cond string) {
	w.conds = append(w.conds, cond)
}

// predicate adds one condition per clause. Clauses that cannot be
// rendered (numeric membership without a parseable value) are skipped.
func (w *whereBuilder) predicate(p *predicate.Predicate) {
	for _, c := range p.Clauses() {
		w.clause(c)
	}
}

func (w *whereBuilder) clause(c predicate.Clause) {
	key := pq.QuoteLiteral(c.Key)
	numeric := fmt.Sprintf("(metadata->>%s)::float8", key)

	switch c.Op {
	case predicate.GTE:
		w.add(fmt.Sprintf("%s >= %s", numeric, w.bind(c.Bound)))
	case predicate.LTE:
		w.add(fmt.Sprintf("%s <= %s", numeric, w.bind(c.Bound)))
	case predicate.Eq, predicate.In:
		switch {
		case candidate.IsNumericField(c.Key):
			nums := parseNumbers(c.Values)
			if len(nums) == 0 {
				return
			}
			w.add(fmt.Sprintf("%s = ANY(%s)", numeric, w.bind(pq.Array(nums))))
		case candidate.IsListField(c.Key):
			if len(c.Values) == 1 {
				w.add(fmt.Sprintf("metadata->%s ? %s", key, w.bind(c.Values[0])))
				return
			}
			w.add(fmt.Sprintf("metadata->%s ?| %s", key, w.bind(pq.Array(c.Values))))
		default:
			if len(c.Values) == 1 {
				w.add(fmt.Sprintf("metadata->>%s = %s", key, w.bind(c.Values[0])))
				return
			}
			w.add(fmt.Sprintf("metadata->>%s = ANY(%s)", key, w.bind(pq.Array(c.Values))))
		}
	}
}

func (w *whereBuilder) sql() string {
	return strings.Join(w.conds, " AND ")
}

func parseNumbers(values []string) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			out = append(out, f)
		}
	}
	return out
}
