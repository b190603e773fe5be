package bulk

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Column names with fixed meaning to the importer. Every other header
// column rides along by name and survives a round trip untouched.
const (
	colCaseID   = "case_id"
	colTitle    = "title"
	colSection  = "section"
	colStep     = "step"
	colExpected = "expected"
)

// Row is one physical CSV line: the step-bearing cells plus every
// case-level cell keyed by column name. Cell values are kept verbatim;
// only header names are trimmed.
type Row struct {
	Line     int // 1-based source line, the header is line 1
	CaseID   int // parsed case_id cell, zero when it was blank
	Step     string
	Expected string
	Case     map[string]string
}

// Title returns the row's title cell.
func (r Row) Title() string { return r.Case[colTitle] }

// SectionPath returns the row's section cell.
func (r Row) SectionPath() string { return r.Case[colSection] }

// Document is one parsed CSV file: the header layout in source order
// and the surviving rows.
type Document struct {
	Columns []string
	Rows    []Row
}

// ReadFile parses the CSV file at path.
func ReadFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}

// Read parses a CSV stream. The header must contain a case_id column
// even when every value under it is blank: its presence is what
// separates create intent from update intent, and a sheet without it
// fails before any remote call. A leading byte-order mark (UTF-8 or
// UTF-16) is decoded away so spreadsheet exports parse cleanly.
func Read(r io.Reader) (*Document, error) {
	decoded := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	reader := csv.NewReader(decoded)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, &MalformedRowError{Reason: err.Error()}
	}
	if len(records) == 0 {
		return nil, &MalformedRowError{Reason: "no header row"}
	}

	header := records[0]
	doc := &Document{Columns: make([]string, len(header))}
	seen := make(map[string]bool, len(header))
	for i, cell := range header {
		name := strings.TrimSpace(cell)
		if name == "" {
			return nil, &MalformedRowError{Line: 1, Reason: fmt.Sprintf("header column %d is empty", i+1)}
		}
		if seen[name] {
			return nil, &MalformedRowError{Line: 1, Reason: fmt.Sprintf("duplicate column %q in header", name)}
		}
		seen[name] = true
		doc.Columns[i] = name
	}
	if !seen[colCaseID] {
		return nil, &MalformedRowError{Line: 1, Reason: `required column "case_id" is missing from the header`}
	}

	for i, record := range records[1:] {
		line := i + 2
		if blankRecord(record) {
			continue
		}
		for j := len(doc.Columns); j < len(record); j++ {
			if strings.TrimSpace(record[j]) != "" {
				return nil, &MalformedRowError{Line: line, Reason: fmt.Sprintf("cell %d has no header column", j+1)}
			}
		}

		row := Row{Line: line, Case: make(map[string]string, len(doc.Columns))}
		for j, col := range doc.Columns {
			var val string
			if j < len(record) {
				val = record[j]
			}
			switch col {
			case colCaseID:
				cell := strings.TrimSpace(val)
				if cell == "" {
					continue
				}
				id, err := strconv.Atoi(cell)
				if err != nil || id <= 0 {
					return nil, &MalformedRowError{Line: line, Reason: fmt.Sprintf("case_id %q is not a positive integer", cell)}
				}
				row.CaseID = id
			case colStep:
				row.Step = val
			case colExpected:
				row.Expected = val
			default:
				row.Case[col] = val
			}
		}
		doc.Rows = append(doc.Rows, row)
	}
	return doc, nil
}

// blankRecord reports whether every cell is empty or whitespace.
// Spreadsheet exports commonly end with a run of these.
func blankRecord(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
