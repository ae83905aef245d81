package talentdex

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/talentdex/internal/domain/candidate"
)

// Profile is a candidate resume to ingest. Chunks are embedded one by one;
// Metadata holds the structured fields filters and ranking read
// (location, career_domain, technical_skills, years_of_experience, ...).
type Profile struct {
	ID       string
	Metadata map[string]any
	Chunks   []string
}

// IngestResult is the per-profile outcome of Ingest.
type IngestResult struct {
	ID     string
	OK     bool
	Chunks int
	Err    error
}

// Ingest embeds and upserts profiles into the tenant namespace. Invalid or
// failing profiles get an error result; the call error is reserved for
// requests rejected as a whole.
func (c *Client) Ingest(ctx context.Context, tenant string, profiles []Profile) (results []IngestResult, err error) {
	start := time.Now()
	defer func() { c.obs.observeIngest(start, results, err) }()

	results = make([]IngestResult, len(profiles))
	valid := make([]candidate.Profile, 0, len(profiles))
	validIdx := make([]int, 0, len(profiles))
	for i, p := range profiles {
		cp, perr := candidate.NewProfile(p.ID, p.Metadata, p.Chunks)
		if perr != nil {
			results[i] = IngestResult{ID: p.ID, Err: fmt.Errorf("%w: %w", ErrInvalidRequest, perr)}
			continue
		}
		valid = append(valid, cp)
		validIdx = append(validIdx, i)
	}
	if len(valid) == 0 {
		return results, nil
	}

	out, err := c.ingestSvc.Ingest(ctx, tenant, valid)
	if err != nil {
		return nil, fmt.Errorf("ingest: %w", err)
	}
	for j, r := range out {
		results[validIdx[j]] = IngestResult{
			ID:     r.CandidateID(),
			OK:     r.Err() == nil,
			Chunks: r.Chunks(),
			Err:    r.Err(),
		}
	}
	return results, nil
}

// Delete removes every chunk of a candidate and returns how many were
// removed. A candidate with no chunks yields ErrNotFound.
func (c *Client) Delete(ctx context.Context, tenant, candidateID string) (_ int, err error) {
	start := time.Now()
	defer func() { c.obs.observe("delete", start, err) }()

	n, err := c.ingestSvc.Delete(ctx, tenant, candidateID)
	if err != nil {
		return 0, fmt.Errorf("delete %s: %w", candidateID, err)
	}
	return n, nil
}
