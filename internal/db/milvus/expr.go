package milvus

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kailas-cloud/talentdex/internal/domain/candidate"
	"github.com/kailas-cloud/talentdex/internal/domain/search/predicate"
)

// buildExpr renders a predicate as a Milvus boolean expression over the
// JSON metadata field. List fields are stored as JSON arrays and matched
// with json_contains / json_contains_any.
func buildExpr(p *predicate.Predicate) string {
	if p.IsEmpty() {
		return ""
	}
	parts := make([]string, 0, len(p.Clauses()))
	for _, c := range p.Clauses() {
		if s := buildClause(c); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " && ")
}

func buildClause(c predicate.Clause) string {
	field := jsonPath(c.Key)
	switch c.Op {
	case predicate.GTE:
		return fmt.Sprintf("%s >= %s", field, formatNumber(c.Bound))
	case predicate.LTE:
		return fmt.Sprintf("%s <= %s", field, formatNumber(c.Bound))
	case predicate.Eq, predicate.In:
		switch {
		case candidate.IsNumericField(c.Key):
			return numericMembership(field, c.Values)
		case candidate.IsListField(c.Key):
			return listMembership(field, c.Values)
		default:
			return scalarMembership(field, c.Values)
		}
	default:
		return ""
	}
}

func jsonPath(key string) string {
	return FieldMetadata + "[" + strconv.Quote(key) + "]"
}

func listMembership(field string, values []string) string {
	if len(values) == 1 {
		return fmt.Sprintf("json_contains(%s, %s)", field, strconv.Quote(values[0]))
	}
	return fmt.Sprintf("json_contains_any(%s, %s)", field, quotedList(values))
}

func scalarMembership(field string, values []string) string {
	if len(values) == 1 {
		return fmt.Sprintf("%s == %s", field, strconv.Quote(values[0]))
	}
	return fmt.Sprintf("%s in %s", field, quotedList(values))
}

func numericMembership(field string, values []string) string {
	nums := make([]string, 0, len(values))
	for _, v := range values {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			continue
		}
		nums = append(nums, formatNumber(f))
	}
	switch len(nums) {
	case 0:
		return ""
	case 1:
		return fmt.Sprintf("%s == %s", field, nums[0])
	default:
		return fmt.Sprintf("%s in [%s]", field, strings.Join(nums, ", "))
	}
}

func quotedList(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = strconv.Quote(v)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// candidateExpr selects every chunk of one candidate.
func candidateExpr(candidateID string) string {
	return fmt.Sprintf("%s == %s", FieldCandidateID, strconv.Quote(candidateID))
}

// staleExpr selects chunks of a candidate outside keep.
func staleExpr(candidateID string, keep []string) string {
	if len(keep) == 0 {
		return candidateExpr(candidateID)
	}
	return fmt.Sprintf("%s && %s not in %s", candidateExpr(candidateID), FieldID, quotedList(keep))
}
