package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kailas-cloud/talentdex/internal/domain/search/hit"
)

func TestMerge_KeepsHighestScore(t *testing.T) {
	docs := []hit.Document{
		{CandidateID: "c1", ChunkID: "c1#0", Score: 0.74},
		{CandidateID: "c2", ChunkID: "c2#0", Score: 0.70},
		{CandidateID: "c1", ChunkID: "c1#1", Score: 0.81},
	}

	merged := merge(docs)

	require.Len(t, merged, 2)
	assert.Equal(t, "c1", merged[0].CandidateID)
	assert.Equal(t, "c1#1", merged[0].ChunkID)
	assert.InDelta(t, 0.81, merged[0].Score, 1e-9)
	assert.Equal(t, "c2", merged[1].CandidateID)
}

func TestMerge_TieKeepsFirstSeen(t *testing.T) {
	merged := merge([]hit.Document{
		{CandidateID: "c1", ChunkID: "first", Score: 0.8},
		{CandidateID: "c1", ChunkID: "second", Score: 0.8},
	})
	require.Len(t, merged, 1)
	assert.Equal(t, "first", merged[0].ChunkID)
}

func TestMerge_Idempotent(t *testing.T) {
	docs := []hit.Document{
		{CandidateID: "a", Score: 0.5},
		{CandidateID: "b", Score: 0.9},
		{CandidateID: "a", Score: 0.7},
		{CandidateID: "b", Score: 0.1},
	}
	once := merge(docs)
	twice := merge(once)
	assert.Equal(t, once, twice)
}

func TestMerge_Empty(t *testing.T) {
	assert.Empty(t, merge(nil))
}
