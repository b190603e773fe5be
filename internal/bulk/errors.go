package bulk

import "fmt"

// MalformedRowError reports CSV input the importer refuses to parse:
// a missing case_id column, an unusable case_id cell, or a row wider
// than the header. Line is 1-based with the header on line 1, zero when
// the defect is not tied to one line.
type MalformedRowError struct {
	Line   int
	Reason string
}

func (e *MalformedRowError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("malformed row %d: %s", e.Line, e.Reason)
	}
	return "malformed input: " + e.Reason
}

// InconsistentCaseFieldsError reports rows of one case group that
// disagree on a case-level field. Field names the first divergent
// column; for synonym collisions it names both spellings.
type InconsistentCaseFieldsError struct {
	Field    string
	Value    string
	Conflict string
}

func (e *InconsistentCaseFieldsError) Error() string {
	return fmt.Sprintf("inconsistent value for %s: %q vs %q", e.Field, e.Value, e.Conflict)
}

// SectionNotFoundError reports a section path segment that does not
// exist on the server while creating missing sections is disabled.
type SectionNotFoundError struct {
	Segment string
	Path    string
}

func (e *SectionNotFoundError) Error() string {
	return fmt.Sprintf("section %q not found in path %q", e.Segment, e.Path)
}
