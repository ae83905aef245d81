// Package candidate defines the resume metadata vocabulary shared by the
// filter splitter, the predicate builder, the soft scorer and ingestion.
package candidate

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Canonical metadata keys a filter may name.
const (
	Name            = "candidate_name"
	JobTitle        = "job_title"
	CareerDomain    = "career_domain"
	YearsExperience = "years_of_experience"
	Location        = "location"
	TechSkills      = "technical_skills"
	LeadSkills      = "leadership_skills"
	Education       = "highest_education_level"
)

// Stored-only keys: written at ingestion, never named by a filter directly.
const (
	DocID          = "doc_id"
	LatestJobTitle = "latest_job_title"
	OtherJobTitles = "other_job_titles"
)

// ListSeparator joins multi-valued fields in flat storage (hash fields, TAG indexes).
const ListSeparator = "|"

var vocabulary = map[string]struct{}{
	Name: {}, JobTitle: {}, CareerDomain: {}, YearsExperience: {},
	Location: {}, TechSkills: {}, LeadSkills: {}, Education: {},
}

// multiValued keys are wrapped into a list when a filter supplies a scalar.
var multiValued = map[string]struct{}{
	JobTitle:   {},
	TechSkills: {},
	Location:   {},
}

// listFields hold lists in stored metadata.
var listFields = map[string]struct{}{
	Location:       {},
	TechSkills:     {},
	LeadSkills:     {},
	OtherJobTitles: {},
}

// numericFields hold numbers in stored metadata.
var numericFields = map[string]struct{}{
	YearsExperience: {},
}

var synonyms = map[string]string{
	"role":             JobTitle,
	"position":         JobTitle,
	"current_location": Location,
	"experience":       YearsExperience,
	"domain":           CareerDomain,
	"education":        Education,
	"skills":           TechSkills,
	"tech_skills":      TechSkills,
	"leadership":       LeadSkills,
}

// aliases lists, in priority order, the stored keys consulted before the
// canonical key when reading a candidate value.
var aliases = map[string][]string{
	JobTitle: {LatestJobTitle, OtherJobTitles},
}

// DefaultStrictKeys are enforced at the index unless configured otherwise.
var DefaultStrictKeys = []string{Location, CareerDomain}

// IsKnown reports whether key belongs to the filter vocabulary.
func IsKnown(key string) bool {
	_, ok := vocabulary[key]
	return ok
}

// IsMultiValued reports whether scalar filter values for key are wrapped into lists.
func IsMultiValued(key string) bool {
	_, ok := multiValued[key]
	return ok
}

// IsListField reports whether key stores a list in candidate metadata.
func IsListField(key string) bool {
	_, ok := listFields[key]
	return ok
}

// IsNumericField reports whether key stores a number in candidate metadata.
func IsNumericField(key string) bool {
	_, ok := numericFields[key]
	return ok
}

// Canonical maps a synonym to its canonical key. Unknown keys pass through.
func Canonical(key string) string {
	if c, ok := synonyms[key]; ok {
		return c
	}
	return key
}

// Aliases returns the stored keys tried before key itself, in order.
func Aliases(key string) []string {
	return aliases[key]
}

// Keys returns the filter vocabulary in sorted order.
func Keys() []string {
	keys := make([]string, 0, len(vocabulary))
	for k := range vocabulary {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ValidateStrictKeys rejects strict keys outside the vocabulary.
func ValidateStrictKeys(keys []string) error {
	for _, k := range keys {
		if !IsKnown(k) {
			return fmt.Errorf("strict key %q is not a known metadata key", k)
		}
	}
	return nil
}

// DecodeStored converts a flat stored string back into the typed metadata
// value the scorer expects: []string for list fields, float64 for numeric
// fields when parseable, the string otherwise.
func DecodeStored(key, raw string) any {
	switch {
	case IsListField(key):
		if raw == "" {
			return []string{}
		}
		return strings.Split(raw, ListSeparator)
	case IsNumericField(key):
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			return f
		}
		return raw
	default:
		return raw
	}
}

// EncodeStored flattens a metadata value for hash storage.
func EncodeStored(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []string:
		return strings.Join(t, ListSeparator)
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			parts = append(parts, EncodeStored(item))
		}
		return strings.Join(parts, ListSeparator)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}

// Typed normalizes metadata for document stores that keep native types:
// list fields become []string and numeric fields float64 when parseable.
func Typed(metadata map[string]any) map[string]any {
	out := make(map[string]any, len(metadata))
	for k, v := range metadata {
		if v == nil {
			continue
		}
		out[k] = DecodeStored(k, EncodeStored(v))
	}
	return out
}
