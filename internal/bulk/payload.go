package bulk

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"railctl/internal/testrail"
)

// numericColumns are case cells that carry integer ids on the wire.
var numericColumns = map[string]bool{
	"template_id":  true,
	"type_id":      true,
	"priority_id":  true,
	"milestone_id": true,
}

// literalColumns are case cells copied into the payload under their
// own name.
var literalColumns = map[string]bool{
	"estimate": true,
	"refs":     true,
}

// buildPayload maps one clean group onto the remote field dictionary.
// Cells of unmapped generic columns drop silently, blank cells add
// nothing. The caller adds section_id once the path is resolved.
func buildPayload(g *Group, m *Mapping, stepsField string) (testrail.Fields, error) {
	payload := testrail.Fields{}
	if strings.TrimSpace(g.Title) != "" {
		payload["title"] = testrail.String(g.Title)
	} else if g.CaseID == 0 {
		return nil, fmt.Errorf("title is required for a new case")
	}

	cols := make([]string, 0, len(g.Fields))
	for col := range g.Fields {
		cols = append(cols, col)
	}
	sort.Strings(cols)

	source := make(map[string]string) // remote field -> generic column that set it
	for _, col := range cols {
		val := g.Fields[col]
		if col == colTitle || col == colSection || val == "" {
			continue
		}
		if numericColumns[col] {
			n, err := strconv.Atoi(strings.TrimSpace(val))
			if err != nil {
				return nil, fmt.Errorf("%s %q is not an integer", col, val)
			}
			payload[col] = testrail.Int(n)
			continue
		}
		if literalColumns[col] {
			payload[col] = testrail.String(val)
			continue
		}
		remote, ok := m.Resolve(col)
		if !ok {
			continue
		}
		if prev, dup := source[remote]; dup {
			// Two synonym columns landed on one destination. Same
			// value is fine, different values is a data defect.
			if g.Fields[prev] != val {
				return nil, &InconsistentCaseFieldsError{
					Field:    prev + "/" + col,
					Value:    g.Fields[prev],
					Conflict: val,
				}
			}
			continue
		}
		source[remote] = col
		payload[remote] = testrail.String(val)
	}

	if len(g.Steps) > 0 {
		value, err := stepsValue(g.Steps, stepsField)
		if err != nil {
			return nil, err
		}
		payload[stepsField] = value
	}
	return payload, nil
}

// stepsValue serializes ordered steps into the configured destination
// field: a structured list for separated steps, a numbered text block
// for the plain-text fields.
func stepsValue(steps []StepEntry, stepsField string) (testrail.Value, error) {
	switch stepsField {
	case StepsSeparated:
		sep := make([]testrail.Step, len(steps))
		for i, s := range steps {
			sep[i] = testrail.Step{Content: s.Step, Expected: s.Expected}
		}
		return testrail.Marshal(sep)
	case StepsText, StepsGherkin:
		return testrail.String(renderStepsText(steps)), nil
	default:
		return testrail.Value{}, fmt.Errorf("unsupported steps field %q (choose from %s)",
			stepsField, strings.Join(StepsFields, ", "))
	}
}

// renderStepsText flattens steps into one numbered block:
//
//	1. open the login page
//	   Expected: form renders
//	2. submit valid credentials
func renderStepsText(steps []StepEntry) string {
	var b strings.Builder
	for i, s := range steps {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%d. %s", i+1, s.Step)
		if s.Expected != "" {
			fmt.Fprintf(&b, "\n   Expected: %s", s.Expected)
		}
	}
	return b.String()
}

var stepLinePattern = regexp.MustCompile(`^\d+\.\s?`)

// parseStepsText undoes renderStepsText as far as the flat form
// allows. A numbered line starts an entry, an Expected: line fills the
// entry's expectation, anything else continues whichever came last.
func parseStepsText(text string) []StepEntry {
	var steps []StepEntry
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if m := stepLinePattern.FindString(line); m != "" {
			steps = append(steps, StepEntry{Step: line[len(m):]})
			continue
		}
		trimmed := strings.TrimSpace(line)
		if len(steps) == 0 {
			steps = append(steps, StepEntry{Step: trimmed})
			continue
		}
		last := &steps[len(steps)-1]
		if rest, ok := strings.CutPrefix(trimmed, "Expected:"); ok {
			rest = strings.TrimSpace(rest)
			if last.Expected == "" {
				last.Expected = rest
			} else {
				last.Expected += "\n" + rest
			}
			continue
		}
		if last.Expected != "" {
			last.Expected += "\n" + trimmed
		} else {
			last.Step += "\n" + trimmed
		}
	}
	return steps
}
