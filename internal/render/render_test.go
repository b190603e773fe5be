package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

type sampleCase struct {
	ID       int    `json:"id"`
	Title    string `json:"title"`
	Priority int    `json:"priority_id"`
}

func renderString(t *testing.T, opts Options, v any) string {
	t.Helper()
	var buf bytes.Buffer
	r := NewRenderer(&buf, opts)
	if err := r.Render(v); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	return buf.String()
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{input: "table", want: FormatTable},
		{input: "json", want: FormatJSON},
		{input: "yaml", want: FormatYAML},
		{input: "raw", want: FormatRaw},
		{input: "", want: FormatTable},
		{input: "xml", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestRenderTableColumnsFollowStructOrder(t *testing.T) {
	out := renderString(t, Options{Format: FormatTable}, []sampleCase{
		{ID: 1, Title: "Login works", Priority: 2},
		{ID: 2, Title: "Logout", Priority: 4},
	})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("lines = %d, want header + separator + 2 rows:\n%s", len(lines), out)
	}
	header := strings.Fields(lines[0])
	want := []string{"id", "title", "priority_id"}
	for i, col := range want {
		if header[i] != col {
			t.Errorf("header[%d] = %q, want %q", i, header[i], col)
		}
	}
	if !strings.Contains(lines[2], "Login works") {
		t.Errorf("first row missing title: %q", lines[2])
	}
}

func TestRenderTablePorcelain(t *testing.T) {
	out := renderString(t, Options{Format: FormatTable, Porcelain: true}, []sampleCase{
		{ID: 1, Title: "Login works", Priority: 2},
	})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("porcelain lines = %d, want 2:\n%s", len(lines), out)
	}
	if lines[0] != "id\ttitle\tpriority_id" {
		t.Errorf("porcelain header = %q", lines[0])
	}
	if lines[1] != "1\tLogin works\t2" {
		t.Errorf("porcelain row = %q", lines[1])
	}
}

func TestRenderEmptyListPrintsNothing(t *testing.T) {
	out := renderString(t, Options{Format: FormatTable}, []sampleCase{})
	if out != "" {
		t.Errorf("empty list output = %q, want empty", out)
	}
}

func TestRenderSingleObjectFieldListing(t *testing.T) {
	out := renderString(t, Options{Format: FormatTable}, sampleCase{ID: 7, Title: "Checkout"})
	if !strings.Contains(out, "id") || !strings.Contains(out, "7") {
		t.Errorf("field listing missing id: %q", out)
	}
	if !strings.Contains(out, "title") || !strings.Contains(out, "Checkout") {
		t.Errorf("field listing missing title: %q", out)
	}
	if strings.Contains(out, "---") {
		t.Errorf("field listing should have no separator: %q", out)
	}
}

func TestRenderFieldsFilter(t *testing.T) {
	opts := Options{Format: FormatTable, Fields: []string{"title", "id"}}
	out := renderString(t, opts, []sampleCase{{ID: 1, Title: "A", Priority: 9}})
	if strings.Contains(out, "priority_id") || strings.Contains(out, "9") {
		t.Errorf("filtered output leaked a column: %q", out)
	}
	// Filter order wins over struct order.
	header := strings.Fields(strings.Split(out, "\n")[0])
	if header[0] != "title" || header[1] != "id" {
		t.Errorf("header = %v, want [title id]", header)
	}
}

func TestRenderJSONFieldsFilter(t *testing.T) {
	opts := Options{Format: FormatJSON, Fields: []string{"id"}}
	out := renderString(t, opts, []sampleCase{{ID: 1, Title: "A", Priority: 9}})

	var decoded []map[string]any
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if len(decoded) != 1 {
		t.Fatalf("decoded = %v", decoded)
	}
	if _, ok := decoded[0]["title"]; ok {
		t.Error("title should be filtered out")
	}
	if v, ok := decoded[0]["id"]; !ok || v != float64(1) {
		t.Errorf("id = %v", v)
	}
}

func TestRenderJSONLargeIntSurvivesFilter(t *testing.T) {
	opts := Options{Format: FormatJSON, Fields: []string{"n"}}
	out := renderString(t, opts, map[string]any{"n": json.Number("9007199254740993"), "x": 1})
	if !strings.Contains(out, "9007199254740993") {
		t.Errorf("large int damaged: %s", out)
	}
}

func TestRenderRawPassthrough(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, Options{Format: FormatRaw})
	if err := r.Render(json.RawMessage(`{"id": 5}`)); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if buf.String() != "{\"id\": 5}\n" {
		t.Errorf("raw output = %q", buf.String())
	}
}

func TestRenderYAMLUsesWireNames(t *testing.T) {
	out := renderString(t, Options{Format: FormatYAML}, sampleCase{ID: 3, Title: "T", Priority: 1})
	if !strings.Contains(out, "priority_id:") {
		t.Errorf("yaml should use wire field names:\n%s", out)
	}
	if strings.Contains(out, "Priority:") {
		t.Errorf("yaml leaked Go field names:\n%s", out)
	}
}

func TestRenderYAMLNumbersUnquoted(t *testing.T) {
	out := renderString(t, Options{Format: FormatYAML}, map[string]any{
		"id": 3,
		"n":  json.Number("9007199254740993"),
	})
	if !strings.Contains(out, "id: 3\n") {
		t.Errorf("yaml quoted a number:\n%s", out)
	}
	if !strings.Contains(out, "n: 9007199254740993\n") {
		t.Errorf("yaml damaged a large int:\n%s", out)
	}
}

func TestDisplayValue(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  string
	}{
		{name: "nil", input: nil, want: ""},
		{name: "string", input: "x", want: "x"},
		{name: "number", input: json.Number("42"), want: "42"},
		{name: "bool", input: true, want: "true"},
		{name: "list", input: []any{json.Number("1"), "a"}, want: `[1,"a"]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := displayValue(tt.input); got != tt.want {
				t.Errorf("displayValue() = %q, want %q", got, tt.want)
			}
		})
	}
}
