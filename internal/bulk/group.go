package bulk

import (
	"fmt"
	"strings"
)

// Group is every CSV row that constitutes one logical case: the
// case-level cells resolved from the group's first row plus the
// ordered steps. A consistency defect found while merging lands in Err
// and fails this group without touching its neighbours.
type Group struct {
	CaseID    int // zero means create
	Title     string
	Section   string
	Fields    map[string]string
	Steps     []StepEntry
	FirstLine int
	LastLine  int
	Err       error
}

// StepEntry is one ordered step of a case.
type StepEntry struct {
	Step     string
	Expected string
}

// Key names the group for summaries: the case id when present, else
// the title, else the source lines.
func (g *Group) Key() string {
	if g.CaseID > 0 {
		return fmt.Sprintf("C%d", g.CaseID)
	}
	if t := strings.TrimSpace(g.Title); t != "" {
		return t
	}
	return g.RowRange()
}

// RowRange formats the group's source lines.
func (g *Group) RowRange() string {
	if g.FirstLine == g.LastLine {
		return fmt.Sprintf("row %d", g.FirstLine)
	}
	return fmt.Sprintf("rows %d-%d", g.FirstLine, g.LastLine)
}

// GroupRows merges a document's rows into case groups, ordered by
// first appearance. Rows sharing a non-zero case_id merge wherever
// they sit in the file; blank-id rows merge only while contiguous and
// identical on (title, section), so two separated blocks with the same
// title stay two separate creates. Later rows of a group must agree
// with the first on every case-level cell.
func GroupRows(doc *Document) []*Group {
	var groups []*Group
	byID := make(map[int]*Group)
	var lastBlank *Group

	for _, row := range doc.Rows {
		if row.CaseID > 0 {
			lastBlank = nil
			if g, ok := byID[row.CaseID]; ok {
				g.mergeRow(row, doc.Columns)
				continue
			}
			g := newGroup(row)
			byID[row.CaseID] = g
			groups = append(groups, g)
			continue
		}

		if lastBlank != nil && lastBlank.Title == row.Title() && lastBlank.Section == row.SectionPath() {
			lastBlank.mergeRow(row, doc.Columns)
			continue
		}
		g := newGroup(row)
		groups = append(groups, g)
		lastBlank = g
	}
	return groups
}

func newGroup(row Row) *Group {
	g := &Group{
		CaseID:    row.CaseID,
		Title:     row.Title(),
		Section:   row.SectionPath(),
		Fields:    make(map[string]string, len(row.Case)),
		FirstLine: row.Line,
		LastLine:  row.Line,
	}
	for col, val := range row.Case {
		g.Fields[col] = val
	}
	g.appendStep(row)
	return g
}

func (g *Group) mergeRow(row Row, columns []string) {
	g.LastLine = row.Line
	if g.Err == nil {
		// Scan in header order so the reported field is the first
		// divergent one a reader sees in the file.
		for _, col := range columns {
			switch col {
			case colCaseID, colStep, colExpected:
				continue
			}
			if g.Fields[col] != row.Case[col] {
				g.Err = &InconsistentCaseFieldsError{
					Field:    col,
					Value:    g.Fields[col],
					Conflict: row.Case[col],
				}
				break
			}
		}
	}
	g.appendStep(row)
}

// appendStep records the row's step pair. A blank step cell adds
// nothing, which is how an exploratory case ends up with zero entries;
// an expected value without a step is ignored with it.
func (g *Group) appendStep(row Row) {
	if strings.TrimSpace(row.Step) == "" {
		return
	}
	g.Steps = append(g.Steps, StepEntry{Step: row.Step, Expected: row.Expected})
}
