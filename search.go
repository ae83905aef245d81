package talentdex

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/talentdex/internal/domain/search/filter"
	"github.com/kailas-cloud/talentdex/internal/domain/search/request"
	"github.com/kailas-cloud/talentdex/internal/domain/search/result"
)

// Candidate is a ranked search hit.
type Candidate struct {
	ResumeID          string
	Name              string
	JobTitle          string
	CareerDomain      string
	YearsOfExperience any
	Location          []string
	TechnicalSkills   []string
	LeadershipSkills  []string
	Education         string
	ResumeLink        string
	Score             float64 // soft-filter score in [0, 1]
	MatchedCount      float64
	TotalRequired     int
	Similarity        float64
	Snippet           string
}

// SearchResult is the outcome of one search.
type SearchResult struct {
	SearchID       string
	Candidates     []Candidate
	Tier           string // "Tier 1", "Tier 2", "Tier 3" or "None"
	TiersAttempted int
	Message        string // set when no candidate matched
}

// SearchBuilder is a fluent builder for candidate searches.
type SearchBuilder struct {
	tenant  string
	svc     searchUseCase
	obs     *observer
	query   string
	filters []filter.Raw
	limit   int
}

// Query sets the natural-language query.
func (b *SearchBuilder) Query(q string) *SearchBuilder {
	b.query = q
	return b
}

// Where adds an equality filter. Strict keys narrow retrieval, the rest
// only influence ranking.
func (b *SearchBuilder) Where(key string, value any) *SearchBuilder {
	b.filters = append(b.filters, filter.Raw{Key: key, Value: value, Operator: string(filter.OpEq)})
	return b
}

// AnyOf adds a membership filter matching any of values.
func (b *SearchBuilder) AnyOf(key string, values ...string) *SearchBuilder {
	list := make([]any, len(values))
	for i, v := range values {
		list[i] = v
	}
	b.filters = append(b.filters, filter.Raw{Key: key, Value: list, Operator: string(filter.OpIn)})
	return b
}

// Between adds an inclusive numeric range filter.
func (b *SearchBuilder) Between(key string, lo, hi float64) *SearchBuilder {
	b.filters = append(b.filters, filter.Raw{
		Key:      key,
		Value:    []any{lo, hi},
		Operator: string(filter.OpRange),
	})
	return b
}

// Filters adds filters in their loose form: a key -> value map, optionally
// with {"value", "operator"} objects as values. Malformed entries are
// dropped at search time instead of failing the call.
func (b *SearchBuilder) Filters(m map[string]any) *SearchBuilder {
	b.filters = append(b.filters, filter.RawFromMap(m)...)
	return b
}

// Limit sets the maximum number of candidates returned.
func (b *SearchBuilder) Limit(n int) *SearchBuilder {
	b.limit = n
	return b
}

// Do executes the search. An empty result is not an error.
func (b *SearchBuilder) Do(ctx context.Context) (res SearchResult, err error) {
	start := time.Now()
	defer func() { b.obs.observeSearch(start, res, err) }()

	req, err := request.New(b.tenant, b.query, b.filters, b.limit)
	if err != nil {
		return SearchResult{}, fmt.Errorf("search: %w: %w", ErrInvalidRequest, err)
	}

	out, err := b.svc.Search(ctx, &req)
	if err != nil {
		return SearchResult{}, fmt.Errorf("search: %w", err)
	}
	return fromOutcome(out), nil
}

func fromOutcome(o result.Outcome) SearchResult {
	cands := make([]Candidate, len(o.Matches))
	for i, m := range o.Matches {
		cands[i] = Candidate{
			ResumeID:          m.CandidateID,
			Name:              m.Name,
			JobTitle:          m.JobTitle,
			CareerDomain:      m.Domain,
			YearsOfExperience: m.Experience,
			Location:          m.Location,
			TechnicalSkills:   m.TechSkills,
			LeadershipSkills:  m.LeadSkills,
			Education:         m.Education,
			ResumeLink:        m.Link,
			Score:             m.Score,
			MatchedCount:      m.Matched,
			TotalRequired:     m.Required,
			Similarity:        m.Similarity,
			Snippet:           m.Snippet,
		}
	}
	return SearchResult{
		SearchID:       o.SearchID,
		Candidates:     cands,
		Tier:           o.Tier,
		TiersAttempted: o.Attempted,
		Message:        o.Message,
	}
}
