package search

import (
	"sort"

	"github.com/kailas-cloud/talentdex/internal/domain/search/result"
)

// rank orders matches by soft score, then similarity, both descending,
// and truncates to limit. Equal keys keep their merge order.
func rank(matches []result.Match, limit int) []result.Match {
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Similarity > matches[j].Similarity
	})
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}
