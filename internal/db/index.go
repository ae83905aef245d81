package db

import (
	"errors"
	"fmt"
)

// DistanceMetric used by vector similarity queries.
type DistanceMetric string

// DistanceCosine is cosine distance. Every backend reports similarity as
// 1 - cosine distance, so the similarity cutoff means the same everywhere.
const DistanceCosine DistanceMetric = "COSINE"

// FieldKind is the FT schema type of an indexed hash field.
type FieldKind int

const (
	// KindTag is an exact-match TAG field (categorical metadata, job titles).
	KindTag FieldKind = iota
	// KindNumeric is a NUMERIC field (years of experience, salary).
	KindNumeric
	// KindVector is the chunk embedding.
	KindVector
)

// VectorParams configures the HNSW vector field. Zero M or EFConstruction
// leaves the server default in place.
type VectorParams struct {
	Dim            int
	Distance       DistanceMetric
	M              int
	EFConstruction int
}

// IndexField describes one field of a namespace index.
type IndexField struct {
	Name  string
	Alias string // AS alias in FT.CREATE SCHEMA
	Kind  FieldKind

	// Separator splits multi-valued TAG fields ("Toronto|Remote").
	Separator     string
	CaseSensitive bool

	Vector VectorParams
}

// IndexDefinition is the FT.CREATE schema of one tenant namespace. Chunks
// are stored as hashes under Prefixes.
type IndexDefinition struct {
	Name     string
	Prefixes []string
	Fields   []IndexField
}

// Validate checks the definition before it reaches FT.CREATE: a legal name,
// unique field names and exactly one vector field with a positive dimension.
func (idx *IndexDefinition) Validate() error {
	if idx.Name == "" {
		return errors.New("index name is required")
	}
	if !IsValidIdentifier(idx.Name) {
		return fmt.Errorf("index name %q contains invalid characters", idx.Name)
	}

	seen := make(map[string]bool, len(idx.Fields))
	vectors := 0
	for i := range idx.Fields {
		f := &idx.Fields[i]
		if f.Name == "" {
			return fmt.Errorf("field %d: name is required", i)
		}
		key := f.Name
		if f.Alias != "" {
			key = f.Alias
		}
		if seen[key] {
			return fmt.Errorf("duplicate field name: %s", key)
		}
		seen[key] = true

		if f.Kind == KindVector {
			vectors++
			if f.Vector.Dim <= 0 {
				return fmt.Errorf("vector field %s requires positive DIM", f.Name)
			}
		}
	}

	if vectors != 1 {
		return fmt.Errorf("index needs exactly one vector field, got %d", vectors)
	}
	return nil
}

// IsValidIdentifier reports whether s matches [a-zA-Z0-9_:-]+, the
// characters tenant namespaces and key prefixes are built from.
func IsValidIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '_', r == ':', r == '-':
		default:
			return false
		}
	}
	return true
}
