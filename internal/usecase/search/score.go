package search

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/kailas-cloud/talentdex/internal/domain/candidate"
	"github.com/kailas-cloud/talentdex/internal/domain/search/filter"
	"github.com/kailas-cloud/talentdex/internal/textmatch"
)

// softScore is the soft-filter match of one candidate.
type softScore struct {
	score   float64 // matched / total, rounded to 2 decimals
	matched float64
	total   int
}

// scoreSoft scores candidate metadata against the soft filters. Every
// required list value contributes its best fuzzy similarity in [0, 1];
// every range contributes 1 when the candidate value lies inside it.
// Missing or unreadable values still count toward the total.
func scoreSoft(meta map[string]any, soft []filter.Filter) softScore {
	var s softScore

	for _, f := range soft {
		v := f.Value()
		if v.Kind() == filter.KindRange {
			s.total++
			if n, ok := numericValue(meta, f.Key()); ok && v.Range().Contains(n) {
				s.matched++
			}
			continue
		}

		have := textValues(meta, f.Key())
		for _, want := range v.Texts() {
			s.total++
			if len(have) == 0 {
				continue
			}
			s.matched += float64(textmatch.BestOf(strings.ToLower(want), have)) / 100
		}
	}

	if s.total > 0 {
		s.score = round2(s.matched / float64(s.total))
	}
	return s
}

// textValues reads a key through its aliases: the first alias holding a
// non-empty value wins, the canonical key is the last resort.
func textValues(meta map[string]any, key string) []string {
	keys := append(append([]string(nil), candidate.Aliases(key)...), key)
	for _, k := range keys {
		if vals := lowerStrings(meta[k]); len(vals) > 0 {
			return vals
		}
	}
	return nil
}

func lowerStrings(v any) []string {
	var raw []string
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		raw = []string{t}
	case []string:
		raw = t
	case []any:
		for _, item := range t {
			if item != nil {
				raw = append(raw, fmt.Sprint(item))
			}
		}
	default:
		raw = []string{fmt.Sprint(t)}
	}

	out := make([]string, 0, len(raw))
	for _, s := range raw {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func numericValue(meta map[string]any, key string) (float64, bool) {
	switch t := meta[key].(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
