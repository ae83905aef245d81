// Package talentdex is an embeddable candidate search engine: resumes are
// chunked, embedded and stored in a similarity index, and natural-language
// queries with structured filters are answered through a tiered retrieval
// ladder followed by soft-filter ranking.
//
// Valkey, Redis 8+, Milvus and Postgres with pgvector are supported as
// index backends.
//
//	client, _ := talentdex.New(ctx,
//	    talentdex.WithValkey("localhost:6379", ""),
//	    talentdex.WithEmbedder(myEmbedder),
//	)
//	defer client.Close()
//
//	_, _ = client.Ingest(ctx, "acme", []talentdex.Profile{{
//	    ID:       "r1",
//	    Metadata: map[string]any{"name": "Jane", "location": []string{"Berlin"}},
//	    Chunks:   []string{"Senior Go engineer, 8 years of distributed systems"},
//	}})
//
//	res, _ := client.Search("acme").
//	    Query("backend engineer with kubernetes").
//	    Where("location", "Berlin").
//	    AnyOf("technical_skills", "go", "kubernetes").
//	    Between("years_of_experience", 3, 10).
//	    Limit(10).
//	    Do(ctx)
package talentdex
