// Package paths handles slash-separated section paths like
// "Regression/Auth/Login". Segments are matched case-sensitively but
// Unicode-normalized, so a macOS export that spells "Résumé" in
// decomposed form still finds the section the server stores composed.
package paths

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// SplitPath splits a section path into its segments. Surrounding
// whitespace on each segment is trimmed and empty segments are
// dropped, so "QA / Login/" yields ["QA", "Login"].
func SplitPath(path string) []string {
	var segments []string
	for _, segment := range strings.Split(path, "/") {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}
		segments = append(segments, segment)
	}
	return segments
}

// JoinPath joins section names into a path.
func JoinPath(segments ...string) string {
	return strings.Join(segments, "/")
}

// Normalize returns the canonical (NFC) form of a section name for
// comparison. Canonically equivalent spellings compare equal; visually
// distinct names never collapse.
func Normalize(name string) string {
	return norm.NFC.String(name)
}
