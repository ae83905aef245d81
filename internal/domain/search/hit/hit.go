// Package hit holds the documents a similarity index returns.
package hit

import "github.com/kailas-cloud/talentdex/internal/domain/search/predicate"

// Document is one retrieved chunk. Several documents may share a
// candidate id when a resume is stored as multiple chunks.
type Document struct {
	CandidateID string
	ChunkID     string
	Score       float64 // similarity in [0, 1], higher is closer
	Metadata    map[string]any
	Text        string
}

// Query is one filtered similarity index call.
type Query struct {
	Namespace string
	Vector    []float32
	Predicate *predicate.Predicate // nil means unconstrained
	TopK      int
	Cutoff    float64 // minimum similarity, inclusive
}
