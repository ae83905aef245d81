package result

// NoneTier is reported when every tier came back empty.
const NoneTier = "None"

// NoResultsMessage accompanies an empty outcome.
const NoResultsMessage = "No results found"

// Match is a ranked candidate.
type Match struct {
	CandidateID string
	Name        string
	JobTitle    string
	Domain      string
	Experience  any
	Location    []string
	TechSkills  []string
	LeadSkills  []string
	Education   string
	Link        string
	Score       float64 // soft-filter match score, rounded to 2 decimals
	Matched     float64
	Required    int
	Similarity  float64
	Snippet     string
}

// Outcome is the result of a search request.
type Outcome struct {
	SearchID  string
	Matches   []Match
	Tier      string
	Message   string
	Attempted int
}

// Empty builds the outcome of a search whose tiers all came back empty.
func Empty(searchID string, attempted int) Outcome {
	return Outcome{
		SearchID:  searchID,
		Matches:   []Match{},
		Tier:      NoneTier,
		Message:   NoResultsMessage,
		Attempted: attempted,
	}
}

// IsEmpty reports whether no candidate matched.
func (o Outcome) IsEmpty() bool { return len(o.Matches) == 0 }

// Record is the flat output form of a Match used by the CLI and the MCP tool.
type Record struct {
	ResumeID      string   `json:"resume_id"`
	Name          string   `json:"name"`
	JobTitle      string   `json:"job_title"`
	CareerDomain  string   `json:"career_domain"`
	Experience    any      `json:"years_of_experience"`
	Location      []string `json:"location"`
	TechSkills    []string `json:"technical_skills"`
	LeadSkills    []string `json:"leadership_skills"`
	Education     string   `json:"education"`
	ResumeLink    string   `json:"resume_link"`
	Score         float64  `json:"score"`
	MatchedCount  float64  `json:"matched_count"`
	TotalRequired int      `json:"total_required"`
	Similarity    float64  `json:"similarity"`
}

// Record converts the match to its output form.
func (m Match) Record() Record {
	return Record{
		ResumeID:      m.CandidateID,
		Name:          m.Name,
		JobTitle:      m.JobTitle,
		CareerDomain:  m.Domain,
		Experience:    m.Experience,
		Location:      m.Location,
		TechSkills:    m.TechSkills,
		LeadSkills:    m.LeadSkills,
		Education:     m.Education,
		ResumeLink:    m.Link,
		Score:         m.Score,
		MatchedCount:  m.Matched,
		TotalRequired: m.Required,
		Similarity:    m.Similarity,
	}
}

// Records converts all matches of the outcome.
func (o Outcome) Records() []Record {
	out := make([]Record, len(o.Matches))
	for i, m := range o.Matches {
		out[i] = m.Record()
	}
	return out
}
