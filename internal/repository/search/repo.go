// Package search adapts the storage backends to the similarity index the
// tiered retriever queries.
package search

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kailas-cloud/talentdex/internal/db"
	"github.com/kailas-cloud/talentdex/internal/domain"
	"github.com/kailas-cloud/talentdex/internal/domain/candidate"
	"github.com/kailas-cloud/talentdex/internal/domain/search/hit"
)

// store is the consumer interface for search operations (ISP).
type store interface {
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	Keyspace(namespace string) db.Keyspace
}

// Repo implements usecase/search.Index over a Valkey/Redis FT index.
type Repo struct {
	store store
}

// New creates a search repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

var (
	numericFields = numericKeys()
	returnFields  = append([]string{db.FieldCandidate, db.FieldContent, db.FieldScore}, storedKeys()...)
)

// Query performs a filtered KNN search on a namespace and drops hits below
// the cutoff.
func (r *Repo) Query(ctx context.Context, q hit.Query) ([]hit.Document, error) {
	ks := r.store.Keyspace(q.Namespace)

	sr, err := r.store.SearchKNN(ctx, &db.KNNQuery{
		IndexName:     ks.Index(),
		Filter:        q.Predicate,
		NumericFields: numericFields,
		Vector:        q.Vector,
		K:             q.TopK,
		ReturnFields:  returnFields,
	})
	if err != nil {
		if errors.Is(err, db.ErrIndexNotFound) {
			return nil, fmt.Errorf("namespace %s: %w", q.Namespace, domain.ErrIndexUnavailable)
		}
		return nil, fmt.Errorf("search knn %s: %w", q.Namespace, err)
	}

	return parseKNNResults(sr, ks, q.Cutoff), nil
}

func parseKNNResults(sr *db.SearchResult, ks db.Keyspace, cutoff float64) []hit.Document {
	if sr == nil || len(sr.Entries) == 0 {
		return nil
	}

	docs := make([]hit.Document, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		if entry.Score < cutoff {
			continue
		}
		docs = append(docs, parseEntry(ks.ChunkID(entry.Key), entry))
	}
	return docs
}

// parseEntry decodes flat hash fields back into typed metadata.
func parseEntry(chunkID string, entry db.SearchEntry) hit.Document {
	d := hit.Document{
		ChunkID:  chunkID,
		Score:    entry.Score,
		Metadata: make(map[string]any, len(entry.Fields)),
	}

	for k, v := range entry.Fields {
		switch k {
		case db.FieldContent:
			d.Text = v
		case db.FieldCandidate:
			d.CandidateID = v
		case db.FieldVector, db.FieldScore:
		default:
			d.Metadata[k] = candidate.DecodeStored(k, v)
		}
	}

	if d.CandidateID == "" {
		d.CandidateID = candidateFromChunk(chunkID)
	}
	return d
}

// candidateFromChunk strips the "#<n>" chunk suffix.
func candidateFromChunk(chunkID string) string {
	if i := strings.LastIndexByte(chunkID, '#'); i > 0 {
		return chunkID[:i]
	}
	return chunkID
}

func numericKeys() map[string]bool {
	m := make(map[string]bool)
	for _, k := range storedKeys() {
		if candidate.IsNumericField(k) {
			m[k] = true
		}
	}
	return m
}

func storedKeys() []string {
	return append(candidate.Keys(), candidate.DocID, candidate.LatestJobTitle, candidate.OtherJobTitles)
}
