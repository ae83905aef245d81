// Package textmatch scores free-text similarity between skill and title
// strings, tolerant of word order and partial overlap.
package textmatch

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/xrash/smetrics"
)

// Normalize lowercases s, replaces every non-alphanumeric rune with a
// space and trims the result.
func Normalize(s string) string {
	mapped := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return ' '
	}, s)
	return strings.TrimSpace(mapped)
}

// Ratio returns the 0..100 edit similarity of two strings, where a
// substitution costs as much as a deletion plus an insertion. Lengths and
// edits are counted in runes.
func Ratio(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 || len(rb) == 0 {
		return 0
	}
	lensum := len(ra) + len(rb)
	ea, eb := packRunes(ra, rb)
	dist := smetrics.WagnerFischer(ea, eb, 1, 1, 2)
	return int(math.Round(100 * float64(lensum-dist) / float64(lensum)))
}

// packRunes re-encodes both rune slices with one byte per rune, so the
// byte-oriented edit distance counts rune edits. Pairs with more than 256
// distinct runes fall back to their UTF-8 bytes.
func packRunes(ra, rb []rune) (string, string) {
	codes := make(map[rune]byte)
	encode := func(rs []rune) ([]byte, bool) {
		out := make([]byte, len(rs))
		for i, r := range rs {
			c, ok := codes[r]
			if !ok {
				if len(codes) == 256 {
					return nil, false
				}
				c = byte(len(codes))
				codes[r] = c
			}
			out[i] = c
		}
		return out, true
	}
	ea, okA := encode(ra)
	eb, okB := encode(rb)
	if !okA || !okB {
		return string(ra), string(rb)
	}
	return string(ea), string(eb)
}

// TokenSetRatio compares the token sets of a and b: the shared tokens are
// compared against each side's full token set and the best score wins,
// so "senior go developer" fully matches "go developer".
func TokenSetRatio(a, b string) int {
	pa, pb := Normalize(a), Normalize(b)
	if pa == "" || pb == "" {
		return 0
	}

	ta, tb := tokenSet(pa), tokenSet(pb)
	var sect, onlyA, onlyB []string
	for t := range ta {
		if _, ok := tb[t]; ok {
			sect = append(sect, t)
		} else {
			onlyA = append(onlyA, t)
		}
	}
	for t := range tb {
		if _, ok := ta[t]; !ok {
			onlyB = append(onlyB, t)
		}
	}
	sort.Strings(sect)
	sort.Strings(onlyA)
	sort.Strings(onlyB)

	base := strings.Join(sect, " ")
	withA := strings.TrimSpace(base + " " + strings.Join(onlyA, " "))
	withB := strings.TrimSpace(base + " " + strings.Join(onlyB, " "))

	return max(Ratio(base, withA), Ratio(base, withB), Ratio(withA, withB))
}

// BestOf returns the highest TokenSetRatio of want against any candidate.
func BestOf(want string, candidates []string) int {
	best := 0
	for _, c := range candidates {
		if r := TokenSetRatio(want, c); r > best {
			best = r
			if best == 100 {
				break
			}
		}
	}
	return best
}

func tokenSet(s string) map[string]struct{} {
	fields := strings.Fields(s)
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}
