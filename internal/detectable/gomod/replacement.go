package gomod

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Replacement substitutes one name@version token of the module graph for another.
type Replacement struct {
	Original    string
	Replacement string
}

// moduleRecord is one object of `go list -m -u -json all`.
type moduleRecord struct {
	Path    string
	Version string
	Replace *struct {
		Path    string
		Version string
	}
}

func token(path, version string) string {
	if version == "" {
		return path
	}
	return path + "@" + version
}

// ParseReplacements reads the replace directives from a module listing.
// The listing is a stream of JSON objects; records without Replace are ignored.
// Order follows the listing and the first directive for a token wins.
func ParseReplacements(listing []string) ([]Replacement, error) {
	dec := json.NewDecoder(strings.NewReader(strings.Join(listing, "\n")))

	var replacements []Replacement
	seen := make(map[string]bool)
	for {
		var rec moduleRecord
		err := dec.Decode(&rec)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse module listing: %w", err)
		}
		if rec.Replace == nil || rec.Path == "" {
			continue
		}

		original := token(rec.Path, rec.Version)
		if seen[original] {
			continue
		}
		seen[original] = true
		replacements = append(replacements, Replacement{
			Original:    original,
			Replacement: token(rec.Replace.Path, rec.Replace.Version),
		})
	}
	return replacements, nil
}

// ApplyReplacements rewrites graph lines. Every directive is tried in order and
// each one whose original token occurs in the line replaces all of its
// occurrences. Matching is by substring and the result is computed once per
// distinct line value, so identical lines always come out identical.
func ApplyReplacements(lines []string, replacements []Replacement) []string {
	if len(replacements) == 0 {
		return lines
	}

	replaced := make(map[string]string)
	out := make([]string, len(lines))
	for i, line := range lines {
		if r, ok := replaced[line]; ok {
			out[i] = r
			continue
		}
		r := line
		for _, rep := range replacements {
			if strings.Contains(r, rep.Original) {
				r = strings.ReplaceAll(r, rep.Original, rep.Replacement)
			}
		}
		replaced[line] = r
		out[i] = r
	}
	return out
}
