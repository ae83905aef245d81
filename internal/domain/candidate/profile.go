package candidate

import (
	"errors"
	"fmt"
	"strings"
)

// MaxChunks bounds the number of text chunks stored per profile.
const MaxChunks = 64

// Profile is a candidate resume ready for ingestion: structured metadata
// plus the text chunks that get embedded.
type Profile struct {
	id       string
	metadata map[string]any
	chunks   []string
}

// NewProfile validates and creates a Profile. The doc_id metadata key is
// always set to id; missing latest_job_title falls back to job_title.
func NewProfile(id string, metadata map[string]any, chunks []string) (Profile, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Profile{}, errors.New("candidate id is required")
	}
	if strings.ContainsAny(id, "#:") {
		return Profile{}, fmt.Errorf("candidate id %q must not contain '#' or ':'", id)
	}

	texts := make([]string, 0, len(chunks))
	for _, c := range chunks {
		if s := strings.TrimSpace(c); s != "" {
			texts = append(texts, s)
		}
	}
	if len(texts) == 0 {
		return Profile{}, fmt.Errorf("candidate %s: at least one non-empty chunk is required", id)
	}
	if len(texts) > MaxChunks {
		return Profile{}, fmt.Errorf("candidate %s: too many chunks (max %d)", id, MaxChunks)
	}

	meta := make(map[string]any, len(metadata)+1)
	for k, v := range metadata {
		meta[k] = v
	}
	meta[DocID] = id
	if _, ok := meta[LatestJobTitle]; !ok {
		if jt, ok := meta[JobTitle]; ok {
			meta[LatestJobTitle] = jt
		}
	}

	return Profile{id: id, metadata: meta, chunks: texts}, nil
}

// ID returns the candidate identifier.
func (p Profile) ID() string { return p.id }

// Metadata returns the candidate metadata.
func (p Profile) Metadata() map[string]any { return p.metadata }

// Chunks returns the non-empty text chunks.
func (p Profile) Chunks() []string { return p.chunks }

// ChunkID returns the storage id of the i-th chunk.
func (p Profile) ChunkID(i int) string {
	return fmt.Sprintf("%s#%d", p.id, i)
}

// Chunk is one embedded slice of a profile as written to an index.
type Chunk struct {
	ID          string
	CandidateID string
	Text        string
	Vector      []float32
	Metadata    map[string]any
}

// Chunk pairs the i-th text chunk with its embedding.
func (p Profile) Chunk(i int, vector []float32) Chunk {
	return Chunk{
		ID:          p.ChunkID(i),
		CandidateID: p.id,
		Text:        p.chunks[i],
		Vector:      vector,
		Metadata:    p.metadata,
	}
}
