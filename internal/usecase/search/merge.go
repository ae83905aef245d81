package search

import "github.com/kailas-cloud/talentdex/internal/domain/search/hit"

// merge collapses documents sharing a candidate id into the one with the
// highest similarity. Ties keep the first seen. Candidates stay in the
// order they first appeared.
func merge(docs []hit.Document) []hit.Document {
	best := make(map[string]int, len(docs))
	out := make([]hit.Document, 0, len(docs))

	for _, d := range docs {
		i, seen := best[d.CandidateID]
		if !seen {
			best[d.CandidateID] = len(out)
			out = append(out, d)
			continue
		}
		if d.Score > out[i].Score {
			out[i] = d
		}
	}
	return out
}
