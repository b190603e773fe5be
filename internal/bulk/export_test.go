package bulk

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"railctl/internal/testrail"
	"railctl/internal/testutil"
)

func exportCase() testrail.Case {
	return testrail.Case{
		ID:         301,
		Title:      "Logout",
		SectionID:  11,
		TemplateID: 1,
		TypeID:     6,
		PriorityID: 2,
		Estimate:   "15m",
		Refs:       "JIRA-1",
		Custom: testrail.Fields{
			"custom_preconds": testrail.String("logged in"),
			"custom_steps_separated": testrail.Raw([]byte(
				`[{"content":"click logout","expected":"session gone"},{"content":"reload","expected":"still logged out"}]`)),
		},
	}
}

func TestExportFixedColumnOrder(t *testing.T) {
	api := newFakeAPI()
	api.addSection(10, 0, "Checkout")
	api.addSection(11, 10, "Payments")
	api.addCase(exportCase())

	var buf bytes.Buffer
	n, err := Export(context.Background(), api, &buf, ExportOptions{ProjectID: 1})
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if n != 1 {
		t.Errorf("Export() = %d cases, want 1", n)
	}

	want := "case_id,title,section,template_id,type_id,priority_id,estimate,refs,mission,goals,preconds,step,expected\n" +
		"301,Logout,Checkout/Payments,1,6,2,15m,JIRA-1,,,logged in,click logout,session gone\n" +
		"301,Logout,Checkout/Payments,1,6,2,15m,JIRA-1,,,logged in,reload,still logged out\n"
	if buf.String() != want {
		t.Errorf("Export() =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestExportZeroStepCaseGetsOneRow(t *testing.T) {
	api := newFakeAPI()
	api.addSection(10, 0, "Checkout")
	api.addCase(testrail.Case{
		ID: 400, Title: "Explore", SectionID: 10,
		Custom: testrail.Fields{
			"custom_mission": testrail.String("Test App"),
			"custom_goals":   testrail.String("Find Bugs"),
		},
	})

	var buf bytes.Buffer
	if _, err := Export(context.Background(), api, &buf, ExportOptions{ProjectID: 1}); err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("output has %d lines, want header plus one row:\n%s", len(lines), buf.String())
	}
	if !strings.Contains(lines[1], "Test App") || !strings.Contains(lines[1], "Find Bugs") {
		t.Errorf("mission/goals missing from row: %s", lines[1])
	}
	if !strings.HasSuffix(lines[1], ",,") {
		t.Errorf("step pair not blank on zero-step row: %s", lines[1])
	}
}

func TestExportByIDsKeepsGivenOrder(t *testing.T) {
	api := newFakeAPI()
	api.addSection(10, 0, "Auth")
	api.addCase(testrail.Case{ID: 5, Title: "Five", SectionID: 10})
	api.addCase(testrail.Case{ID: 9, Title: "Nine", SectionID: 10})

	var buf bytes.Buffer
	n, err := Export(context.Background(), api, &buf, ExportOptions{ProjectID: 1, CaseIDs: []int{9, 5}})
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if n != 2 {
		t.Errorf("Export() = %d, want 2", n)
	}

	lines := strings.Split(buf.String(), "\n")
	if !strings.HasPrefix(lines[1], "9,") || !strings.HasPrefix(lines[2], "5,") {
		t.Errorf("rows out of requested order:\n%s", buf.String())
	}

	if _, err := Export(context.Background(), api, &buf, ExportOptions{ProjectID: 1, CaseIDs: []int{777}}); err == nil {
		t.Errorf("Export() expected error for an unknown case id")
	}
}

func TestExportSectionGlob(t *testing.T) {
	api := newFakeAPI()
	api.addSection(10, 0, "Checkout")
	api.addSection(11, 10, "Payments")
	api.addSection(20, 0, "Auth")
	api.addCase(testrail.Case{ID: 1, Title: "In scope", SectionID: 11})
	api.addCase(testrail.Case{ID: 2, Title: "Out of scope", SectionID: 20})

	var buf bytes.Buffer
	n, err := Export(context.Background(), api, &buf, ExportOptions{ProjectID: 1, SectionGlob: "Checkout/**"})
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if n != 1 {
		t.Errorf("Export() = %d cases, want 1", n)
	}
	if strings.Contains(buf.String(), "Out of scope") {
		t.Errorf("glob did not prune:\n%s", buf.String())
	}
}

func TestExportExtraMappedColumns(t *testing.T) {
	api := newFakeAPI()
	api.addSection(10, 0, "Auth")
	api.addCase(testrail.Case{
		ID: 7, Title: "Tagged", SectionID: 10,
		Custom: testrail.Fields{"custom_labels": testrail.String("smoke nightly")},
	})
	mapping := testutil.WriteFile(t, t.TempDir(), "mapping.yaml", "- fields:\n    labels: custom_labels\n")

	var buf bytes.Buffer
	if _, err := Export(context.Background(), api, &buf, ExportOptions{ProjectID: 1, MappingPath: mapping}); err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	lines := strings.Split(buf.String(), "\n")
	if !strings.Contains(lines[0], ",preconds,labels,step,expected") {
		t.Errorf("extra column not slotted before the step pair: %s", lines[0])
	}
	if !strings.Contains(lines[1], "smoke nightly") {
		t.Errorf("extra column value missing: %s", lines[1])
	}
}

func TestExportEmptySelection(t *testing.T) {
	api := newFakeAPI()

	var buf bytes.Buffer
	n, err := Export(context.Background(), api, &buf, ExportOptions{ProjectID: 1})
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if n != 0 {
		t.Errorf("Export() = %d, want 0", n)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 1 {
		t.Errorf("empty selection should emit the header only:\n%s", buf.String())
	}
}

func TestExportVerifyCleanRoundTrip(t *testing.T) {
	api := newFakeAPI()
	api.addSection(10, 0, "Checkout")
	api.addSection(11, 10, "Payments")
	api.addCase(exportCase())

	var buf bytes.Buffer
	if _, err := Export(context.Background(), api, &buf, ExportOptions{ProjectID: 1, Verify: true}); err != nil {
		t.Errorf("Export() verify failed on clean data: %v", err)
	}
}

func TestExportVerifyFlagsLossyText(t *testing.T) {
	api := newFakeAPI()
	api.addSection(10, 0, "Auth")
	api.addCase(testrail.Case{
		ID: 8, Title: "Freeform", SectionID: 10,
		Custom: testrail.Fields{
			// Unnumbered text cannot survive the numbered re-rendering.
			"custom_steps": testrail.String("open the page and wait"),
		},
	})

	var buf bytes.Buffer
	_, err := Export(context.Background(), api, &buf, ExportOptions{
		ProjectID: 1, StepsField: StepsText, Verify: true,
	})
	if err == nil {
		t.Fatalf("Export() verify passed on lossy text steps")
	}
	if !strings.Contains(err.Error(), "C8") {
		t.Errorf("verify error does not name the case: %v", err)
	}
}

func TestExportVerifyPassesOnRenderedText(t *testing.T) {
	api := newFakeAPI()
	api.addSection(10, 0, "Auth")
	api.addCase(testrail.Case{
		ID: 9, Title: "Numbered", SectionID: 10,
		Custom: testrail.Fields{
			"custom_steps": testrail.String("1. open\n   Expected: ok\n2. close"),
		},
	})

	var buf bytes.Buffer
	if _, err := Export(context.Background(), api, &buf, ExportOptions{
		ProjectID: 1, StepsField: StepsText, Verify: true,
	}); err != nil {
		t.Errorf("Export() verify failed on already-numbered text: %v", err)
	}
}

func TestExportThenImportIsIdempotent(t *testing.T) {
	source := newFakeAPI()
	source.addSection(10, 0, "Checkout")
	source.addSection(11, 10, "Payments")
	source.addCase(exportCase())

	var buf bytes.Buffer
	if _, err := Export(context.Background(), source, &buf, ExportOptions{ProjectID: 1}); err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	target := newFakeAPI()
	target.addSection(10, 0, "Checkout")
	target.addSection(11, 10, "Payments")
	path := testutil.WriteFile(t, t.TempDir(), "export.csv", buf.String())

	result, err := Import(context.Background(), target, path, ImportOptions{ProjectID: 1})
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if result.Updated != 1 || result.Failed != 0 {
		t.Fatalf("result = %+v, want one clean update", result)
	}

	w := target.writes[0]
	if w.caseID != 301 {
		t.Errorf("caseID = %d, want 301", w.caseID)
	}
	if got, _ := w.payload["title"].AsString(); got != "Logout" {
		t.Errorf("title = %q", got)
	}
	if got, _ := w.payload["priority_id"].AsInt(); got != 2 {
		t.Errorf("priority_id = %d", got)
	}
	if got, _ := w.payload["section_id"].AsInt(); got != 11 {
		t.Errorf("section_id = %d, want 11", got)
	}
	if got, _ := w.payload["custom_preconds"].AsString(); got != "logged in" {
		t.Errorf("custom_preconds = %q", got)
	}
	want := `[{"content":"click logout","expected":"session gone"},{"content":"reload","expected":"still logged out"}]`
	if got := string(w.payload[StepsSeparated].JSON()); got != want {
		t.Errorf("steps = %s, want %s", got, want)
	}
}
