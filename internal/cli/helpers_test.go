package cli

import (
	"net/url"
	"testing"

	"railctl/internal/testrail"
)

func TestFieldValueTyping(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain text", `"plain text"`},
		{"30s", `"30s"`},
		{"3", "3"},
		{"true", "true"},
		{"[1,2]", "[1,2]"},
		{`"quoted"`, `"quoted"`},
		{"", `""`},
	}
	for _, tt := range tests {
		if got := string(fieldValue(tt.in).JSON()); got != tt.want {
			t.Errorf("fieldValue(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestApplyFieldFlags(t *testing.T) {
	payload := testrail.Fields{}
	err := applyFieldFlags(payload, []string{"custom_mission=Probe checkout", "priority_id=4"})
	if err != nil {
		t.Fatalf("applyFieldFlags() error: %v", err)
	}
	if got := string(payload["custom_mission"].JSON()); got != `"Probe checkout"` {
		t.Errorf("custom_mission = %s", got)
	}
	if got := string(payload["priority_id"].JSON()); got != "4" {
		t.Errorf("priority_id = %s", got)
	}

	if err := applyFieldFlags(payload, []string{"no-equals"}); err == nil {
		t.Error("expected error for a pair without =")
	}
}

func TestIDArg(t *testing.T) {
	id, err := idArg("case", "301")
	if err != nil || id != 301 {
		t.Errorf("idArg(case, 301) = %d, %v", id, err)
	}
	if _, err := idArg("case", "abc"); err == nil {
		t.Error("expected error for non-numeric id")
	}
	if _, err := idArg("case", "-1"); err == nil {
		t.Error("expected error for negative id")
	}
}

func TestSetIDListFilter(t *testing.T) {
	params := url.Values{}
	if err := setIDListFilter(params, "priority_id", "3, 4"); err != nil {
		t.Fatalf("setIDListFilter() error: %v", err)
	}
	if got := params.Get("priority_id"); got != "3,4" {
		t.Errorf("priority_id = %q, want %q", got, "3,4")
	}

	if err := setIDListFilter(params, "priority_id", "3,x"); err == nil {
		t.Error("expected error for non-numeric id in list")
	}

	params = url.Values{}
	if err := setIDListFilter(params, "priority_id", ""); err != nil {
		t.Fatalf("setIDListFilter(empty) error: %v", err)
	}
	if params.Has("priority_id") {
		t.Error("empty flag value must not set a filter")
	}
}

func TestSetTimeFilter(t *testing.T) {
	params := url.Values{}
	if err := setTimeFilter(params, "created_after", "2026-01-01"); err != nil {
		t.Fatalf("setTimeFilter() error: %v", err)
	}
	if got := params.Get("created_after"); got != "1767225600" {
		t.Errorf("created_after = %q, want 1767225600", got)
	}

	if err := setTimeFilter(params, "created_after", "not-a-date"); err == nil {
		t.Error("expected error for unparseable datetime")
	}
}
