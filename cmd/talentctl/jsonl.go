package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/kailas-cloud/talentdex/internal/domain/candidate"
)

// maxLineBytes bounds one JSONL record; resumes with many chunks get large.
const maxLineBytes = 8 << 20

// profileLine is one record of an ingest file.
type profileLine struct {
	ID       string         `json:"id"`
	Metadata map[string]any `json:"metadata"`
	Chunks   []string       `json:"chunks"`
}

func (l profileLine) profile() (candidate.Profile, error) {
	return candidate.NewProfile(l.ID, l.Metadata, l.Chunks)
}

// readProfiles decodes a JSON Lines stream. Blank lines are skipped; a
// malformed line fails the whole read with its line number.
func readProfiles(r io.Reader) ([]profileLine, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLineBytes)

	var out []profileLine
	for n := 1; sc.Scan(); n++ {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		var pl profileLine
		if err := json.Unmarshal(line, &pl); err != nil {
			return nil, fmt.Errorf("line %d: %w", n, err)
		}
		out = append(out, pl)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read profiles: %w", err)
	}
	return out, nil
}
