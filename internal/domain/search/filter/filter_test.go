package filter

import (
	"errors"
	"testing"

	"github.com/kailas-cloud/talentdex/internal/domain/candidate"
)

func TestDecode_StringifiedList(t *testing.T) {
	v := Decode(`["Go", "Rust"]`)
	if v.Kind() != KindList {
		t.Fatalf("expected list, got %s", v.Kind())
	}
	got := v.Texts()
	if len(got) != 2 || got[0] != "Go" || got[1] != "Rust" {
		t.Errorf("unexpected items %v", got)
	}
}

func TestDecode_MalformedJSONKeepsString(t *testing.T) {
	v := Decode(`[Go, Rust`)
	if v.Kind() != KindScalar {
		t.Fatalf("expected scalar, got %s", v.Kind())
	}
	if v.Scalar().String() != "[Go, Rust" {
		t.Errorf("expected original string, got %q", v.Scalar().String())
	}
}

func TestDecode_RangeObject(t *testing.T) {
	v := Decode(map[string]any{"min": 9.0, "max": "12"})
	if v.Kind() != KindRange {
		t.Fatalf("expected range, got %s", v.Kind())
	}
	lo, _ := v.Range().Min()
	hi, _ := v.Range().Max()
	if lo != 9 || hi != 12 {
		t.Errorf("expected [9,12], got [%g,%g]", lo, hi)
	}
}

func TestDecode_Unsupported(t *testing.T) {
	if Decode(nil).Kind() != KindInvalid {
		t.Error("nil should decode to invalid")
	}
	if Decode(map[string]any{"foo": 1}).Kind() != KindInvalid {
		t.Error("object without min/max/value should decode to invalid")
	}
}

func TestRange_Validate(t *testing.T) {
	lo, hi := 12.0, 9.0
	if err := NewRange(&lo, &hi).Validate(); !errors.Is(err, ErrRangeMinOverMax) {
		t.Errorf("expected ErrRangeMinOverMax, got %v", err)
	}
	if err := NewRange(nil, nil).Validate(); !errors.Is(err, ErrRangeNoBounds) {
		t.Errorf("expected ErrRangeNoBounds, got %v", err)
	}
	bad := Decode(map[string]any{"min": "many"}).Range()
	if err := bad.Validate(); !errors.Is(err, ErrRangeBadBound) {
		t.Errorf("expected ErrRangeBadBound, got %v", err)
	}
	if err := NewRange(&hi, nil).Validate(); err != nil {
		t.Errorf("open range should be valid: %v", err)
	}
}

func TestRange_ContainsInclusive(t *testing.T) {
	r := Between(9, 12).Range()
	for _, v := range []float64{9, 10, 12} {
		if !r.Contains(v) {
			t.Errorf("expected %g inside %s", v, r)
		}
	}
	for _, v := range []float64{8.99, 14} {
		if r.Contains(v) {
			t.Errorf("expected %g outside %s", v, r)
		}
	}
}

func TestParseOperator(t *testing.T) {
	op, err := ParseOperator(" IN ")
	if err != nil || op != OpIn {
		t.Errorf("expected in, got %q (%v)", op, err)
	}
	if _, err := ParseOperator("like"); err == nil {
		t.Error("expected error for unknown operator")
	}
}

func TestNew_ReconcilesOperator(t *testing.T) {
	f, err := New("technical_skills", Strings("Go"), OpEq)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Operator() != OpIn {
		t.Errorf("list value should use in, got %s", f.Operator())
	}

	f, err = New("years_of_experience", Between(1, 2), OpEq)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Operator() != OpRange {
		t.Errorf("range value should use range, got %s", f.Operator())
	}

	f, err = New("career_domain", ScalarValue(Text("Finance")), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Operator() != OpEq {
		t.Errorf("scalar should default to eq, got %s", f.Operator())
	}
}

func TestNew_Rejects(t *testing.T) {
	cases := []struct {
		name string
		val  Value
		op   Operator
	}{
		{"empty list", ListValue(nil), OpIn},
		{"blank items", Strings("", ""), OpIn},
		{"range op on scalar", ScalarValue(Text("5")), OpRange},
		{"range op on list", Strings("a"), OpRange},
		{"empty scalar", ScalarValue(Text("")), OpEq},
		{"min over max", Between(5, 1), OpRange},
		{"invalid", Value{}, OpEq},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New("location", tc.val, tc.op)
			if !errors.Is(err, ErrInvalidFilter) {
				t.Errorf("expected ErrInvalidFilter, got %v", err)
			}
		})
	}
}

func TestParse_SynonymAndNameField(t *testing.T) {
	f, err := Parse(Raw{Name: "skills", Value: "Kubernetes"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Key() != candidate.TechSkills {
		t.Errorf("expected technical_skills, got %s", f.Key())
	}
	if f.Value().Kind() != KindList {
		t.Errorf("multi-valued scalar should be wrapped, got %s", f.Value().Kind())
	}
}

func TestParse_NestedValueOperator(t *testing.T) {
	f, err := Parse(Raw{Key: "career_domain", Value: map[string]any{"value": "Finance", "operator": "contains"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Operator() != OpContains {
		t.Errorf("expected inner operator, got %s", f.Operator())
	}

	f, err = Parse(Raw{Key: "career_domain", Operator: "eq", Value: `{"value": "Finance", "operator": "contains"}`})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Operator() != OpEq {
		t.Errorf("outer operator should win, got %s", f.Operator())
	}
	if f.Value().Scalar().String() != "Finance" {
		t.Errorf("expected Finance, got %s", f.Value())
	}
}

func TestParse_NumericPairBecomesRange(t *testing.T) {
	f, err := Parse(Raw{Key: "years_of_experience", Value: "[9, 12]"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Value().Kind() != KindRange {
		t.Fatalf("expected range, got %s", f.Value().Kind())
	}
	lo, _ := f.Value().Range().Min()
	hi, _ := f.Value().Range().Max()
	if lo != 9 || hi != 12 {
		t.Errorf("expected [9,12], got [%g,%g]", lo, hi)
	}
}

func TestParse_ExperienceWindow(t *testing.T) {
	cases := []struct {
		in     any
		lo, hi float64
	}{
		{4.0, 2, 6},
		{1.0, 0, 3},
		{"8", 5, 11},
	}
	for _, tc := range cases {
		f, err := Parse(Raw{Key: "experience", Value: tc.in})
		if err != nil {
			t.Fatalf("unexpected error for %v: %v", tc.in, err)
		}
		lo, _ := f.Value().Range().Min()
		hi, _ := f.Value().Range().Max()
		if lo != tc.lo || hi != tc.hi {
			t.Errorf("%v: expected [%g,%g], got [%g,%g]", tc.in, tc.lo, tc.hi, lo, hi)
		}
	}

	f, err := Parse(Raw{Key: "years_of_experience", Value: 4.0, Operator: "eq"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Value().Kind() != KindScalar {
		t.Errorf("explicit eq should keep the scalar, got %s", f.Value().Kind())
	}
}

func TestParse_DropReasons(t *testing.T) {
	cases := []struct {
		raw    Raw
		reason string
	}{
		{Raw{Value: "x"}, ReasonMissingKey},
		{Raw{Key: "salary", Value: "x"}, ReasonUnknownKey},
		{Raw{Key: "location", Value: "x", Operator: "like"}, ReasonInvalidOperator},
		{Raw{Key: "years_of_experience", Value: map[string]any{"min": 12.0, "max": 9.0}}, ReasonInvalidValue},
		{Raw{Key: "years_of_experience", Value: map[string]any{"min": "lots"}}, ReasonInvalidValue},
	}
	for _, tc := range cases {
		_, err := Parse(tc.raw)
		de, ok := IsDrop(err)
		if !ok {
			t.Fatalf("%+v: expected DropError, got %v", tc.raw, err)
		}
		if de.Reason != tc.reason {
			t.Errorf("%+v: expected %s, got %s", tc.raw, tc.reason, de.Reason)
		}
	}
}

func TestSplit_PartitionTotality(t *testing.T) {
	raws := []Raw{
		{Key: "location", Value: "Toronto"},
		{Key: "domain", Value: "Engineering"},
		{Key: "technical_skills", Value: `["Kubernetes"]`},
		{Key: "years_of_experience", Value: map[string]any{"min": 9.0, "max": 12.0}},
		{Key: "salary", Value: "100k"},
	}
	set, drops := NewSplitter(nil).Split(raws)

	if len(drops) != 1 || drops[0].Key != "salary" {
		t.Fatalf("expected salary to be dropped, got %v", drops)
	}
	if set.Len()+len(drops) != len(raws) {
		t.Errorf("every filter must land somewhere: %d + %d != %d", set.Len(), len(drops), len(raws))
	}

	strict := map[string]bool{}
	for _, f := range set.Strict() {
		strict[f.Key()] = true
	}
	for _, f := range set.Soft() {
		if strict[f.Key()] {
			t.Errorf("key %s in both partitions", f.Key())
		}
	}
	if !strict["location"] || !strict["career_domain"] {
		t.Errorf("expected location and career_domain strict, got %v", strict)
	}
	if len(set.Soft()) != 2 {
		t.Errorf("expected 2 soft filters, got %d", len(set.Soft()))
	}
}

func TestSplit_ConfiguredStrictKeys(t *testing.T) {
	set, _ := NewSplitter([]string{"technical_skills"}).Split([]Raw{
		{Key: "location", Value: "Toronto"},
		{Key: "skills", Value: "Go"},
	})
	if len(set.Strict()) != 1 || set.Strict()[0].Key() != "technical_skills" {
		t.Errorf("unexpected strict partition %v", set.Strict())
	}
	if len(set.Soft()) != 1 || set.Soft()[0].Key() != "location" {
		t.Errorf("unexpected soft partition %v", set.Soft())
	}
}

func TestSplit_LaterDuplicateWins(t *testing.T) {
	set, _ := NewSplitter(nil).Split([]Raw{
		{Key: "location", Value: "Toronto"},
		{Key: "current_location", Value: "Ottawa"},
	})
	strict := set.Strict()
	if len(strict) != 1 || strict[0].Value().Texts()[0] != "Ottawa" {
		t.Errorf("expected Ottawa, got %v", strict)
	}
}

func TestSplit_Empty(t *testing.T) {
	set, drops := NewSplitter(nil).Split(nil)
	if !set.IsEmpty() || len(drops) != 0 {
		t.Errorf("expected empty set, got %d filters, %d drops", set.Len(), len(drops))
	}
}

func TestRawFromMap_Sorted(t *testing.T) {
	raws := RawFromMap(map[string]any{"location": "A", "career_domain": "B"})
	if len(raws) != 2 || raws[0].Key != "career_domain" || raws[1].Key != "location" {
		t.Errorf("unexpected order %+v", raws)
	}
}

func TestDecodeRaws(t *testing.T) {
	raws, err := DecodeRaws([]byte(`[{"name":"location","value":["Berlin"]},{"key":"skills","value":"go"}]`))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(raws) != 2 || raws[0].KeyName() != "location" || raws[1].KeyName() != "skills" {
		t.Errorf("unexpected list %+v", raws)
	}

	raws, err = DecodeRaws([]byte(`{"location":"Berlin","career_domain":"IT"}`))
	if err != nil {
		t.Fatalf("object: %v", err)
	}
	if len(raws) != 2 || raws[0].Key != "career_domain" {
		t.Errorf("unexpected object %+v", raws)
	}

	for _, empty := range []string{"", "  ", "null"} {
		raws, err = DecodeRaws([]byte(empty))
		if err != nil || raws != nil {
			t.Errorf("DecodeRaws(%q) = %v, %v", empty, raws, err)
		}
	}

	if _, err := DecodeRaws([]byte(`"location"`)); err == nil {
		t.Error("expected error for a bare string")
	}
	if _, err := DecodeRaws([]byte(`[{"name":`)); err == nil {
		t.Error("expected error for truncated json")
	}
}

func TestDecodeRaws_BadEntryDropped(t *testing.T) {
	raws, err := DecodeRaws([]byte(`[
		{"key":"location","value":"Toronto"},
		{"key":"technical_skills","value":["Go"],"operator":1},
		{"key":7,"value":"x"},
		"garbage"
	]`))
	if err != nil {
		t.Fatalf("a bad element must not fail the list: %v", err)
	}
	if len(raws) != 4 {
		t.Fatalf("expected every element kept for splitting, got %d", len(raws))
	}

	set, drops := NewSplitter(nil).Split(raws)
	if set.Len() != 1 {
		t.Fatalf("expected only location to survive, got %d filters", set.Len())
	}
	if len(drops) != 3 {
		t.Fatalf("expected 3 drops, got %d", len(drops))
	}
	for _, d := range drops {
		if d.Reason != ReasonInvalidValue {
			t.Errorf("drop %q: expected %s, got %s", d.Key, ReasonInvalidValue, d.Reason)
		}
		if d.Err == nil {
			t.Errorf("drop %q: expected the decode error to be kept", d.Key)
		}
	}
	if drops[0].Key != "technical_skills" {
		t.Errorf("expected the key of a partly valid element to be reported, got %q", drops[0].Key)
	}
}
