package db

import "github.com/kailas-cloud/talentdex/internal/domain/search/predicate"

// Reserved hash fields written next to candidate metadata.
const (
	FieldCandidate = "__candidate"
	FieldContent   = "__content"
	FieldVector    = "__vector"
	FieldScore     = "__vector_score"
	// VectorAlias is the schema alias KNN clauses reference.
	VectorAlias = "vector"
)

// KNNQuery is the input for vector similarity search.
type KNNQuery struct {
	IndexName string
	// Filter is rendered as the FT.SEARCH pre-filter; nil searches everything.
	Filter *predicate.Predicate
	// NumericFields lists the keys indexed as NUMERIC; other keys are TAG.
	NumericFields map[string]bool
	Vector        []float32
	K             int
	ReturnFields  []string
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit from a search.
type SearchEntry struct {
	Key    string
	Score  float64
	Fields map[string]string
}
