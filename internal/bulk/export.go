package bulk

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"railctl/internal/paths"
	"railctl/internal/testrail"
)

// ExportOptions configures one export run. CaseIDs takes precedence
// over Filters; SectionGlob prunes by section path after fetching.
type ExportOptions struct {
	ProjectID   int
	SuiteID     int
	CaseIDs     []int
	Filters     url.Values
	SectionGlob string
	TemplateID  int
	StepsField  string
	MappingPath string
	Verify      bool
}

// exportBase is the fixed front of the header. Extra generic columns
// from a mapping override slot in after preconds; the step pair is
// always last.
var exportBase = []string{
	colCaseID, colTitle, colSection,
	"template_id", "type_id", "priority_id",
	"estimate", "refs",
	"mission", "goals", "preconds",
}

// Export writes the selected cases as an import-ready CSV. Case-level
// cells repeat on every step row and a case without steps still gets
// one row, so feeding the output back to Import reproduces the same
// cases. With Verify set the emitted bytes are re-parsed and the
// rebuilt payloads diffed against the server's records.
func Export(ctx context.Context, api API, w io.Writer, opts ExportOptions) (int, error) {
	if opts.StepsField == "" {
		opts.StepsField = StepsSeparated
	}
	if !ValidStepsField(opts.StepsField) {
		return 0, fmt.Errorf("unsupported steps field %q (choose from %s)",
			opts.StepsField, strings.Join(StepsFields, ", "))
	}
	mapping, err := LoadMapping(opts.MappingPath, opts.TemplateID)
	if err != nil {
		return 0, err
	}

	cases, err := fetchCases(ctx, api, opts)
	if err != nil {
		return 0, err
	}
	sections, err := api.GetSections(ctx, opts.ProjectID, opts.SuiteID)
	if err != nil {
		return 0, fmt.Errorf("list sections: %w", err)
	}
	sectionPath := SectionPaths(sections)

	if opts.SectionGlob != "" {
		kept := cases[:0]
		for _, c := range cases {
			if paths.MatchGlob(opts.SectionGlob, sectionPath[c.SectionID]) {
				kept = append(kept, c)
			}
		}
		cases = kept
	}

	columns, generics := exportColumns(mapping)

	out := w
	var buf bytes.Buffer
	if opts.Verify {
		out = io.MultiWriter(w, &buf)
	}
	cw := csv.NewWriter(out)
	if err := cw.Write(columns); err != nil {
		return 0, err
	}

	expected := make([]testrail.Fields, 0, len(cases))
	for i := range cases {
		c := &cases[i]
		for _, record := range caseRecords(c, sectionPath[c.SectionID], columns, generics, mapping, opts.StepsField) {
			if err := cw.Write(record); err != nil {
				return 0, err
			}
		}
		if opts.Verify {
			expected = append(expected, remotePayload(c, mapping, generics, opts.StepsField))
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return 0, err
	}

	if opts.Verify {
		if err := verifyExport(buf.Bytes(), cases, expected, mapping, opts.StepsField); err != nil {
			return len(cases), err
		}
	}
	return len(cases), nil
}

func fetchCases(ctx context.Context, api API, opts ExportOptions) ([]testrail.Case, error) {
	if len(opts.CaseIDs) > 0 {
		cases := make([]testrail.Case, 0, len(opts.CaseIDs))
		for _, id := range opts.CaseIDs {
			c, err := api.GetCase(ctx, id)
			if err != nil {
				return nil, fmt.Errorf("get case %d: %w", id, err)
			}
			cases = append(cases, *c)
		}
		return cases, nil
	}
	return api.GetCases(ctx, opts.ProjectID, opts.SuiteID, opts.Filters)
}

// exportColumns returns the header layout plus the generic columns it
// carries custom values under, in header order.
func exportColumns(m *Mapping) ([]string, []string) {
	base := make(map[string]bool, len(exportBase))
	for _, col := range exportBase {
		base[col] = true
	}

	var extras []string
	for _, generic := range m.Generics() {
		if base[generic] {
			continue
		}
		remote, _ := m.Resolve(generic)
		if canon, _ := m.GenericFor(remote); canon != generic {
			continue // synonym, the canonical spelling carries the column
		}
		extras = append(extras, generic)
	}

	columns := make([]string, 0, len(exportBase)+len(extras)+2)
	columns = append(columns, exportBase...)
	columns = append(columns, extras...)
	columns = append(columns, colStep, colExpected)

	generics := append([]string{"mission", "goals", "preconds"}, extras...)
	return columns, generics
}

// caseRecords renders one case as its CSV rows.
func caseRecords(c *testrail.Case, path string, columns, generics []string, m *Mapping, stepsField string) [][]string {
	cells := map[string]string{
		colCaseID:     strconv.Itoa(c.ID),
		colTitle:      c.Title,
		colSection:    path,
		"template_id": formatID(c.TemplateID),
		"type_id":     formatID(c.TypeID),
		"priority_id": formatID(c.PriorityID),
		"estimate":    c.Estimate,
		"refs":        c.Refs,
	}
	for _, generic := range generics {
		remote, ok := m.Resolve(generic)
		if !ok {
			continue
		}
		v, ok := c.Custom[remote]
		if !ok || v.IsNull() {
			continue
		}
		if s, ok := v.AsString(); ok {
			cells[generic] = s
		} else {
			cells[generic] = v.Display()
		}
	}

	steps := caseSteps(c, stepsField)
	rows := len(steps)
	if rows == 0 {
		rows = 1
	}
	records := make([][]string, 0, rows)
	for i := 0; i < rows; i++ {
		record := make([]string, len(columns))
		for j, col := range columns {
			switch col {
			case colStep:
				if i < len(steps) {
					record[j] = steps[i].Step
				}
			case colExpected:
				if i < len(steps) {
					record[j] = steps[i].Expected
				}
			default:
				record[j] = cells[col]
			}
		}
		records = append(records, record)
	}
	return records
}

func formatID(id int) string {
	if id <= 0 {
		return ""
	}
	return strconv.Itoa(id)
}

// caseSteps reads the case's steps out of the configured field.
func caseSteps(c *testrail.Case, stepsField string) []StepEntry {
	v, ok := c.Custom[stepsField]
	if !ok || v.IsNull() {
		return nil
	}
	if stepsField == StepsSeparated {
		var sep []testrail.Step
		if err := v.Decode(&sep); err != nil {
			return nil
		}
		steps := make([]StepEntry, len(sep))
		for i, s := range sep {
			steps[i] = StepEntry{Step: s.Content, Expected: s.Expected}
		}
		return steps
	}
	if s, ok := v.AsString(); ok {
		return parseStepsText(s)
	}
	return nil
}

// remotePayload is what a lossless re-import of the case would send:
// the server's own values for every exported field.
func remotePayload(c *testrail.Case, m *Mapping, generics []string, stepsField string) testrail.Fields {
	p := testrail.Fields{}
	if c.Title != "" {
		p["title"] = testrail.String(c.Title)
	}
	if c.TemplateID > 0 {
		p["template_id"] = testrail.Int(c.TemplateID)
	}
	if c.TypeID > 0 {
		p["type_id"] = testrail.Int(c.TypeID)
	}
	if c.PriorityID > 0 {
		p["priority_id"] = testrail.Int(c.PriorityID)
	}
	if c.Estimate != "" {
		p["estimate"] = testrail.String(c.Estimate)
	}
	if c.Refs != "" {
		p["refs"] = testrail.String(c.Refs)
	}
	for _, generic := range generics {
		remote, ok := m.Resolve(generic)
		if !ok {
			continue
		}
		v, ok := c.Custom[remote]
		if !ok || v.IsNull() {
			continue
		}
		if s, ok := v.AsString(); ok && s == "" {
			continue
		}
		p[remote] = v
	}
	if steps := caseSteps(c, stepsField); len(steps) > 0 {
		if stepsField == StepsSeparated {
			// Re-encode canonically: the server decorates step objects
			// with extra keys a re-import never sends.
			if v, err := stepsValue(steps, stepsField); err == nil {
				p[stepsField] = v
			}
		} else if v, ok := c.Custom[stepsField]; ok {
			// Text fields compare against the server's own bytes, so a
			// flattening that cannot reproduce them fails the verify.
			p[stepsField] = v
		}
	}
	return p
}

// verifyExport re-parses the emitted CSV and rebuilds each group's
// payload the way Import would, then diffs it against the server's
// record. A mismatch means the chosen steps field or a non-string
// custom value cannot survive the round trip.
func verifyExport(data []byte, cases []testrail.Case, expected []testrail.Fields, m *Mapping, stepsField string) error {
	doc, err := Read(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("verify: re-parse export: %w", err)
	}
	groups := GroupRows(doc)
	if len(groups) != len(cases) {
		return fmt.Errorf("verify: re-import would see %d groups for %d exported cases", len(groups), len(cases))
	}
	for i, g := range groups {
		if g.Err != nil {
			return fmt.Errorf("verify: group %s: %w", g.Key(), g.Err)
		}
		payload, err := buildPayload(g, m, stepsField)
		if err != nil {
			return fmt.Errorf("verify: group %s: %w", g.Key(), err)
		}
		if !payload.Equal(expected[i]) {
			diff, _ := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
				A:        difflib.SplitLines(expected[i].String()),
				B:        difflib.SplitLines(payload.String()),
				FromFile: "server",
				ToFile:   "re-import",
				Context:  2,
			})
			return fmt.Errorf("verify: case C%d would not re-import identically:\n%s", cases[i].ID, diff)
		}
	}
	return nil
}
