package result

import (
	"encoding/json"
	"testing"
)

func TestEmpty(t *testing.T) {
	o := Empty("s1", 3)
	if !o.IsEmpty() || o.Tier != NoneTier || o.Message != NoResultsMessage || o.Attempted != 3 {
		t.Errorf("unexpected empty outcome %+v", o)
	}
	if o.Matches == nil {
		t.Error("Matches must be an empty slice, not nil")
	}
}

func TestRecord_JSONKeys(t *testing.T) {
	m := Match{
		CandidateID: "r1",
		Name:        "Ada",
		JobTitle:    "Platform Engineer",
		Education:   "MSc",
		Link:        "https://ats.example.com/popup?ID=r1",
		Score:       0.5,
		Matched:     1.5,
		Required:    3,
		Similarity:  0.8,
	}

	data, err := json.Marshal(m.Record())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	want := map[string]any{
		"resume_id":      "r1",
		"name":           "Ada",
		"job_title":      "Platform Engineer",
		"education":      "MSc",
		"resume_link":    "https://ats.example.com/popup?ID=r1",
		"score":          0.5,
		"matched_count":  1.5,
		"total_required": 3.0,
		"similarity":     0.8,
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("%s = %v, want %v", k, got[k], v)
		}
	}
}

func TestOutcome_Records(t *testing.T) {
	o := Outcome{Matches: []Match{{CandidateID: "a"}, {CandidateID: "b"}}}
	recs := o.Records()
	if len(recs) != 2 || recs[0].ResumeID != "a" || recs[1].ResumeID != "b" {
		t.Errorf("unexpected records %+v", recs)
	}
}
