package filter

import (
	"sort"

	"github.com/kailas-cloud/talentdex/internal/domain/candidate"
)

// Set is a filter list partitioned into strict and soft filters. Every
// key lives in exactly one partition.
type Set struct {
	strict map[string]Filter
	soft   map[string]Filter
}

// Strict returns the strict filters ordered by key.
func (s Set) Strict() []Filter { return sorted(s.strict) }

// Soft returns the soft filters ordered by key.
func (s Set) Soft() []Filter { return sorted(s.soft) }

// Len returns the number of filters in both partitions.
func (s Set) Len() int { return len(s.strict) + len(s.soft) }

// IsEmpty reports whether no filter survived splitting.
func (s Set) IsEmpty() bool { return s.Len() == 0 }

func sorted(m map[string]Filter) []Filter {
	out := make([]Filter, 0, len(m))
	for _, f := range m {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].key < out[j].key })
	return out
}

// Splitter partitions raw filters using a strict-key allow-list.
type Splitter struct {
	strict map[string]struct{}
}

// NewSplitter creates a Splitter. Empty strictKeys fall back to
// candidate.DefaultStrictKeys.
func NewSplitter(strictKeys []string) Splitter {
	if len(strictKeys) == 0 {
		strictKeys = candidate.DefaultStrictKeys
	}
	set := make(map[string]struct{}, len(strictKeys))
	for _, k := range strictKeys {
		set[candidate.Canonical(k)] = struct{}{}
	}
	return Splitter{strict: set}
}

// IsStrict reports whether key is enforced at the index.
func (s Splitter) IsStrict(key string) bool {
	_, ok := s.strict[key]
	return ok
}

// Split parses every raw filter and places it in its partition. Filters
// that cannot be parsed are returned as drops and never fail the split.
// When a key repeats, the later filter wins.
func (s Splitter) Split(raws []Raw) (Set, []*DropError) {
	set := Set{
		strict: make(map[string]Filter),
		soft:   make(map[string]Filter),
	}
	var drops []*DropError

	for _, r := range raws {
		f, err := Parse(r)
		if err != nil {
			de, _ := IsDrop(err)
			drops = append(drops, de)
			continue
		}
		if s.IsStrict(f.key) {
			set.strict[f.key] = f
		} else {
			set.soft[f.key] = f
		}
	}
	return set, drops
}
