package db

// IndexBuilder assembles a namespace index field by field.
//
//	def, err := db.NewIndex(name).
//		Prefix(prefix).
//		Numeric("years_of_experience").
//		ListTag("location", "|").
//		Vector(db.FieldVector, db.VectorAlias, params).
//		Build()
type IndexBuilder struct {
	def IndexDefinition
}

// NewIndex starts an index definition.
func NewIndex(name string) *IndexBuilder {
	return &IndexBuilder{def: IndexDefinition{Name: name}}
}

// Prefix limits the index to hashes under the given key prefixes.
func (b *IndexBuilder) Prefix(prefixes ...string) *IndexBuilder {
	b.def.Prefixes = append(b.def.Prefixes, prefixes...)
	return b
}

// Numeric adds a NUMERIC field for range and point filters.
func (b *IndexBuilder) Numeric(name string) *IndexBuilder {
	return b.add(IndexField{Name: name, Kind: KindNumeric})
}

// ListTag adds a case-insensitive TAG field whose stored value may hold
// several entries joined by separator.
func (b *IndexBuilder) ListTag(name, separator string) *IndexBuilder {
	return b.add(IndexField{Name: name, Kind: KindTag, Separator: separator})
}

// Vector adds the embedding field under alias; KNN clauses reference the alias.
func (b *IndexBuilder) Vector(name, alias string, p VectorParams) *IndexBuilder {
	if p.Distance == "" {
		p.Distance = DistanceCosine
	}
	return b.add(IndexField{Name: name, Alias: alias, Kind: KindVector, Vector: p})
}

func (b *IndexBuilder) add(f IndexField) *IndexBuilder {
	b.def.Fields = append(b.def.Fields, f)
	return b
}

// Build validates and returns the definition.
func (b *IndexBuilder) Build() (*IndexDefinition, error) {
	if err := b.def.Validate(); err != nil {
		return nil, err
	}
	def := b.def
	return &def, nil
}
