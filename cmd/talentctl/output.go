package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"

	domingest "github.com/kailas-cloud/talentdex/internal/domain/ingest"
	"github.com/kailas-cloud/talentdex/internal/domain/search/result"
	healthuc "github.com/kailas-cloud/talentdex/internal/usecase/health"
)

var (
	headerColor  = color.New(color.FgCyan, color.Bold)
	nameColor    = color.New(color.Bold)
	dimColor     = color.New(color.Faint)
	okColor      = color.New(color.FgGreen)
	warnColor    = color.New(color.FgYellow)
	failureColor = color.New(color.FgRed)
)

// searchOutput is the JSON shape printed by "search --json".
type searchOutput struct {
	SearchID       string          `json:"search_id"`
	Tier           string          `json:"tier"`
	TiersAttempted int             `json:"tiers_attempted"`
	Message        string          `json:"message,omitempty"`
	Candidates     []result.Record `json:"candidates"`
}

func printOutcomeJSON(w io.Writer, o result.Outcome) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(searchOutput{
		SearchID:       o.SearchID,
		Tier:           o.Tier,
		TiersAttempted: o.Attempted,
		Message:        o.Message,
		Candidates:     o.Records(),
	})
}

func printOutcome(w io.Writer, o result.Outcome) {
	if o.IsEmpty() {
		_, _ = warnColor.Fprintf(w, "%s (tiers attempted: %d)\n", o.Message, o.Attempted)
		return
	}

	_, _ = headerColor.Fprintf(w, "%d candidates from %s (tiers attempted: %d)\n",
		len(o.Matches), o.Tier, o.Attempted)
	for i, m := range o.Matches {
		_, _ = fmt.Fprintf(w, "%2d. ", i+1)
		_, _ = nameColor.Fprint(w, displayName(m))
		_, _ = fmt.Fprintf(w, "  score=%.2f (%s/%d)  similarity=%.3f\n",
			m.Score, formatCount(m.Matched), m.Required, m.Similarity)

		details := make([]string, 0, 4)
		if m.JobTitle != "" {
			details = append(details, m.JobTitle)
		}
		if m.Domain != "" {
			details = append(details, m.Domain)
		}
		if len(m.Location) > 0 {
			details = append(details, strings.Join(m.Location, ", "))
		}
		if m.Experience != nil {
			details = append(details, fmt.Sprintf("%v years", m.Experience))
		}
		if len(details) > 0 {
			_, _ = dimColor.Fprintf(w, "    %s\n", strings.Join(details, " | "))
		}
		if len(m.TechSkills) > 0 {
			_, _ = dimColor.Fprintf(w, "    skills: %s\n", strings.Join(m.TechSkills, ", "))
		}
		if m.Link != "" {
			_, _ = dimColor.Fprintf(w, "    %s\n", m.Link)
		}
	}
}

func displayName(m result.Match) string {
	if m.Name != "" {
		return m.Name + " [" + m.CandidateID + "]"
	}
	return m.CandidateID
}

// formatCount prints whole match counts without decimals; partial matches
// (0.5 for a related title) keep one.
func formatCount(f float64) string {
	if f == float64(int64(f)) {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprintf("%.1f", f)
}

func printIngest(w io.Writer, results []domingest.Result, invalid int) {
	ok, failed := domingest.Summary(results)
	for _, r := range results {
		if r.Err() != nil {
			printFailure(w, r.CandidateID(), r.Err())
		}
	}
	_, _ = okColor.Fprintf(w, "ingested %d", ok)
	_, _ = fmt.Fprintf(w, ", failed %d, invalid %d\n", failed, invalid)
}

func printHealth(w io.Writer, report healthuc.Report) {
	c := okColor
	switch report.Status {
	case healthuc.Degraded:
		c = warnColor
	case healthuc.Unhealthy:
		c = failureColor
	}
	_, _ = c.Fprintf(w, "%s", report.Status)
	_, _ = fmt.Fprintf(w, " (backend: %s)\n", report.Backend)

	names := make([]string, 0, len(report.Checks))
	for name := range report.Checks {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		_, _ = fmt.Fprintf(w, "  %-10s %s\n", name, report.Checks[name])
	}
}

func printSuccess(w io.Writer, format string, args ...any) {
	_, _ = okColor.Fprintf(w, format+"\n", args...)
}

func printFailure(w io.Writer, id string, err error) {
	_, _ = failureColor.Fprintf(w, "  %s: %v\n", id, err)
}
