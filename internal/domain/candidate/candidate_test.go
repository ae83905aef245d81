package candidate

import (
	"reflect"
	"testing"
)

func TestCanonical(t *testing.T) {
	tests := map[string]string{
		"role":             JobTitle,
		"position":         JobTitle,
		"skills":           TechSkills,
		"tech_skills":      TechSkills,
		"current_location": Location,
		"experience":       YearsExperience,
		"domain":           CareerDomain,
		"education":        Education,
		"leadership":       LeadSkills,
		"location":         Location,
		"unknown_key":      "unknown_key",
	}
	for in, want := range tests {
		if got := Canonical(in); got != want {
			t.Errorf("Canonical(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestIsKnown(t *testing.T) {
	for _, k := range Keys() {
		if !IsKnown(k) {
			t.Errorf("expected %q to be known", k)
		}
	}
	if IsKnown(DocID) {
		t.Error("doc_id is stored-only and must not be a filter key")
	}
	if IsKnown("salary") {
		t.Error("salary must be unknown")
	}
}

func TestAliasesOrder(t *testing.T) {
	want := []string{LatestJobTitle, OtherJobTitles}
	if got := Aliases(JobTitle); !reflect.DeepEqual(got, want) {
		t.Errorf("Aliases(job_title) = %v, want %v", got, want)
	}
	if got := Aliases(Location); got != nil {
		t.Errorf("expected no aliases for location, got %v", got)
	}
}

func TestDecodeStored(t *testing.T) {
	if got := DecodeStored(TechSkills, "Go|Kubernetes"); !reflect.DeepEqual(got, []string{"Go", "Kubernetes"}) {
		t.Errorf("unexpected list: %#v", got)
	}
	if got := DecodeStored(TechSkills, ""); !reflect.DeepEqual(got, []string{}) {
		t.Errorf("expected empty list, got %#v", got)
	}
	if got := DecodeStored(YearsExperience, "7.5"); got != 7.5 {
		t.Errorf("expected 7.5, got %#v", got)
	}
	if got := DecodeStored(YearsExperience, "n/a"); got != "n/a" {
		t.Errorf("expected raw string, got %#v", got)
	}
	if got := DecodeStored(CareerDomain, "Finance"); got != "Finance" {
		t.Errorf("expected Finance, got %#v", got)
	}
}

func TestEncodeStored(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"Toronto", "Toronto"},
		{[]string{"Go", "AWS"}, "Go|AWS"},
		{[]any{"Go", 3.0}, "Go|3"},
		{12.0, "12"},
		{4, "4"},
		{true, "true"},
	}
	for _, tc := range tests {
		if got := EncodeStored(tc.in); got != tc.want {
			t.Errorf("EncodeStored(%#v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestValidateStrictKeys(t *testing.T) {
	if err := ValidateStrictKeys(DefaultStrictKeys); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ValidateStrictKeys([]string{"salary"}); err == nil {
		t.Error("expected error for unknown strict key")
	}
}

func TestNewProfile(t *testing.T) {
	p, err := NewProfile(" c-1 ", map[string]any{JobTitle: "Engineer"}, []string{"  ", "first", "second"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ID() != "c-1" {
		t.Errorf("expected trimmed id, got %q", p.ID())
	}
	if len(p.Chunks()) != 2 {
		t.Errorf("expected blank chunk dropped, got %v", p.Chunks())
	}
	if p.Metadata()[DocID] != "c-1" {
		t.Errorf("doc_id not set: %v", p.Metadata())
	}
	if p.Metadata()[LatestJobTitle] != "Engineer" {
		t.Errorf("latest_job_title fallback missing: %v", p.Metadata())
	}
	if p.ChunkID(1) != "c-1#1" {
		t.Errorf("unexpected chunk id %q", p.ChunkID(1))
	}
}

func TestNewProfile_Validation(t *testing.T) {
	if _, err := NewProfile("", nil, []string{"x"}); err == nil {
		t.Error("expected error for empty id")
	}
	if _, err := NewProfile("a#b", nil, []string{"x"}); err == nil {
		t.Error("expected error for reserved character")
	}
	if _, err := NewProfile("a", nil, []string{" "}); err == nil {
		t.Error("expected error for no chunks")
	}
}

func TestTyped(t *testing.T) {
	got := Typed(map[string]any{
		TechSkills:      []any{"Go", "SQL"},
		Location:        "Berlin",
		YearsExperience: "7",
		CareerDomain:    "Engineering",
		Education:       nil,
	})
	want := map[string]any{
		TechSkills:      []string{"Go", "SQL"},
		Location:        []string{"Berlin"},
		YearsExperience: 7.0,
		CareerDomain:    "Engineering",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Typed = %#v, want %#v", got, want)
	}
}

func TestProfileChunk(t *testing.T) {
	p, err := NewProfile("r1", map[string]any{JobTitle: "Engineer"}, []string{"first", "second"})
	if err != nil {
		t.Fatalf("NewProfile: %v", err)
	}
	c := p.Chunk(1, []float32{0.5})
	if c.ID != "r1#1" || c.CandidateID != "r1" || c.Text != "second" {
		t.Errorf("unexpected chunk %+v", c)
	}
	if c.Metadata[DocID] != "r1" {
		t.Errorf("chunk metadata must carry doc_id, got %v", c.Metadata[DocID])
	}
}
