package profile

import (
	"github.com/kailas-cloud/talentdex/internal/db"
	"github.com/kailas-cloud/talentdex/internal/domain/candidate"
)

// buildIndex declares every filterable metadata key: numeric keys as
// NUMERIC, everything else as case-insensitive TAG split on the list
// separator. The vector is indexed under db.VectorAlias.
func buildIndex(ks db.Keyspace, dim int, distance db.DistanceMetric, hnsw HNSWConfig) (*db.IndexDefinition, error) {
	b := db.NewIndex(ks.Index()).Prefix(ks.Prefix())

	for _, k := range candidate.Keys() {
		if candidate.IsNumericField(k) {
			b.Numeric(k)
			continue
		}
		b.ListTag(k, candidate.ListSeparator)
	}
	b.ListTag(candidate.LatestJobTitle, candidate.ListSeparator)
	b.ListTag(candidate.OtherJobTitles, candidate.ListSeparator)

	return b.Vector(db.FieldVector, db.VectorAlias, db.VectorParams{
		Dim:            dim,
		Distance:       distance,
		M:              hnsw.M,
		EFConstruction: hnsw.EFConstruct,
	}).Build()
}
