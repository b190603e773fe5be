package bulk

import (
	"errors"
	"strings"
	"testing"
)

func TestReadBasic(t *testing.T) {
	csv := `case_id,title,section,priority_id,step,expected,labels
,Login works,Auth/Login,2,open the page,form shown,smoke
,Login works,Auth/Login,2,submit,redirect to home,smoke
301,Logout,Auth,,click logout,session gone,
`
	doc, err := Read(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	wantCols := []string{"case_id", "title", "section", "priority_id", "step", "expected", "labels"}
	if len(doc.Columns) != len(wantCols) {
		t.Fatalf("Columns = %v, want %v", doc.Columns, wantCols)
	}
	for i, col := range wantCols {
		if doc.Columns[i] != col {
			t.Errorf("Columns[%d] = %q, want %q", i, doc.Columns[i], col)
		}
	}

	if len(doc.Rows) != 3 {
		t.Fatalf("len(Rows) = %d, want 3", len(doc.Rows))
	}

	first := doc.Rows[0]
	if first.Line != 2 {
		t.Errorf("Rows[0].Line = %d, want 2", first.Line)
	}
	if first.CaseID != 0 {
		t.Errorf("Rows[0].CaseID = %d, want 0", first.CaseID)
	}
	if first.Title() != "Login works" || first.SectionPath() != "Auth/Login" {
		t.Errorf("Rows[0] title/section = %q/%q", first.Title(), first.SectionPath())
	}
	if first.Step != "open the page" || first.Expected != "form shown" {
		t.Errorf("Rows[0] step pair = %q/%q", first.Step, first.Expected)
	}
	if first.Case["labels"] != "smoke" {
		t.Errorf("Rows[0] unknown column not retained: %v", first.Case)
	}
	if _, ok := first.Case["step"]; ok {
		t.Errorf("step leaked into case-level cells")
	}

	third := doc.Rows[2]
	if third.CaseID != 301 {
		t.Errorf("Rows[2].CaseID = %d, want 301", third.CaseID)
	}
	if third.Line != 4 {
		t.Errorf("Rows[2].Line = %d, want 4", third.Line)
	}
}

func TestReadMissingCaseIDColumn(t *testing.T) {
	csv := "title,section,step,expected\nLogin works,Auth,open,shown\n"
	_, err := Read(strings.NewReader(csv))

	var malformed *MalformedRowError
	if !errors.As(err, &malformed) {
		t.Fatalf("Read() error = %v, want MalformedRowError", err)
	}
	if malformed.Line != 1 {
		t.Errorf("Line = %d, want 1", malformed.Line)
	}
	if !strings.Contains(err.Error(), "case_id") {
		t.Errorf("error %q does not name the missing column", err)
	}
}

func TestReadCaseIDColumnMayBeAllBlank(t *testing.T) {
	csv := "case_id,title,section,step,expected\n,Login,Auth,open,shown\n"
	doc, err := Read(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if len(doc.Rows) != 1 || doc.Rows[0].CaseID != 0 {
		t.Errorf("blank case_id column rejected: %+v", doc.Rows)
	}
}

func TestReadBadCaseID(t *testing.T) {
	tests := []struct {
		name string
		cell string
	}{
		{name: "letters", cell: "abc"},
		{name: "negative", cell: "-3"},
		{name: "zero", cell: "0"},
		{name: "float", cell: "1.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			csv := "case_id,title,step\n" + tt.cell + ",Login,open\n"
			_, err := Read(strings.NewReader(csv))

			var malformed *MalformedRowError
			if !errors.As(err, &malformed) {
				t.Fatalf("Read() error = %v, want MalformedRowError", err)
			}
			if malformed.Line != 2 {
				t.Errorf("Line = %d, want 2", malformed.Line)
			}
		})
	}
}

func TestReadSkipsBlankRows(t *testing.T) {
	csv := "case_id,title,step\n,Login,open\n,,\n   , ,\n,Logout,close\n"
	doc, err := Read(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if len(doc.Rows) != 2 {
		t.Fatalf("len(Rows) = %d, want 2", len(doc.Rows))
	}
	if doc.Rows[1].Line != 5 {
		t.Errorf("Rows[1].Line = %d, want 5", doc.Rows[1].Line)
	}
}

func TestReadUTF8BOM(t *testing.T) {
	csv := "\xef\xbb\xbfcase_id,title,step\n,Login,open\n"
	doc, err := Read(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if doc.Columns[0] != "case_id" {
		t.Errorf("Columns[0] = %q, BOM not stripped", doc.Columns[0])
	}
}

func TestReadUTF16BOM(t *testing.T) {
	// UTF-16LE with BOM, ASCII payload.
	text := "case_id,title,step\n,Login,open\n"
	raw := []byte{0xff, 0xfe}
	for _, r := range text {
		raw = append(raw, byte(r), byte(r>>8))
	}

	doc, err := Read(strings.NewReader(string(raw)))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if doc.Columns[0] != "case_id" {
		t.Errorf("Columns[0] = %q, UTF-16 not decoded", doc.Columns[0])
	}
	if doc.Rows[0].Title() != "Login" {
		t.Errorf("Title = %q, want Login", doc.Rows[0].Title())
	}
}

func TestReadRaggedRows(t *testing.T) {
	// Short rows pad with blanks, extra blank cells are tolerated,
	// extra non-blank cells are a defect.
	csv := "case_id,title,section,step\n,Login,Auth\n,Logout,Auth,close,\n"
	doc, err := Read(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if doc.Rows[0].Step != "" {
		t.Errorf("short row step = %q, want empty", doc.Rows[0].Step)
	}

	csv = "case_id,title,step\n,Login,open,stray\n"
	_, err = Read(strings.NewReader(csv))
	var malformed *MalformedRowError
	if !errors.As(err, &malformed) {
		t.Fatalf("Read() error = %v, want MalformedRowError", err)
	}
	if malformed.Line != 2 {
		t.Errorf("Line = %d, want 2", malformed.Line)
	}
}

func TestReadDuplicateColumn(t *testing.T) {
	csv := "case_id,title,title\n,Login,Login\n"
	_, err := Read(strings.NewReader(csv))

	var malformed *MalformedRowError
	if !errors.As(err, &malformed) {
		t.Fatalf("Read() error = %v, want MalformedRowError", err)
	}
}

func TestReadKeepsCellsVerbatim(t *testing.T) {
	csv := "case_id, title ,step\n,\"  padded title \",\"line one\nline two\"\n"
	doc, err := Read(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if doc.Columns[1] != "title" {
		t.Errorf("header not trimmed: %q", doc.Columns[1])
	}
	if doc.Rows[0].Title() != "  padded title " {
		t.Errorf("cell trimmed: %q", doc.Rows[0].Title())
	}
	if doc.Rows[0].Step != "line one\nline two" {
		t.Errorf("multi-line cell mangled: %q", doc.Rows[0].Step)
	}
}

func TestReadEmptyInput(t *testing.T) {
	_, err := Read(strings.NewReader(""))
	var malformed *MalformedRowError
	if !errors.As(err, &malformed) {
		t.Fatalf("Read() error = %v, want MalformedRowError", err)
	}
}
