package paths

import (
	"path/filepath"
	"strings"
)

// MatchGlob reports whether a section path matches a glob pattern.
// Supports *, ? and [] within a segment and ** across segments, so
// "Regression/**" matches every path under Regression.
func MatchGlob(pattern, path string) bool {
	if strings.Contains(pattern, "**") {
		return matchParts(SplitPath(pattern), SplitPath(path))
	}

	matched, err := filepath.Match(pattern, path)
	if err != nil {
		return false
	}
	return matched
}

func matchParts(patternParts, pathParts []string) bool {
	if len(patternParts) == 0 {
		return len(pathParts) == 0
	}

	if len(pathParts) == 0 {
		// Only trailing ** segments can match an exhausted path.
		for _, p := range patternParts {
			if p != "**" {
				return false
			}
		}
		return true
	}

	if patternParts[0] == "**" {
		// ** matches zero or more segments.
		return matchParts(patternParts[1:], pathParts) ||
			matchParts(patternParts, pathParts[1:])
	}

	matched, err := filepath.Match(patternParts[0], pathParts[0])
	if err != nil || !matched {
		return false
	}
	return matchParts(patternParts[1:], pathParts[1:])
}

// IsGlobPattern reports whether s contains glob metacharacters.
func IsGlobPattern(s string) bool {
	return strings.ContainsAny(s, "*?[")
}
