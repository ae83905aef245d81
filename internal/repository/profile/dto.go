package profile

import (
	"encoding/binary"
	"math"

	"github.com/kailas-cloud/talentdex/internal/db"
	"github.com/kailas-cloud/talentdex/internal/domain/candidate"
)

// buildHashFields flattens a chunk into a map[string]string for HSET.
func buildHashFields(ch *candidate.Chunk) map[string]string {
	m := make(map[string]string, 3+len(ch.Metadata))
	for k, v := range ch.Metadata {
		if v == nil {
			continue
		}
		m[k] = candidate.EncodeStored(v)
	}
	m[db.FieldCandidate] = ch.CandidateID
	m[db.FieldContent] = ch.Text
	m[db.FieldVector] = vectorToBytes(ch.Vector)
	return m
}

// vectorToBytes serializes []float32 to a binary string (4 bytes per float, little-endian).
func vectorToBytes(v []float32) string {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return string(buf)
}
