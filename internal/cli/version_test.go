package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func TestVersionText(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := &cobra.Command{}
	cmd.SetOut(buf)

	if err := runVersion(cmd, nil); err != nil {
		t.Fatalf("runVersion() error: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "railctl version") {
		t.Errorf("output missing version line: %q", out)
	}
	if !strings.Contains(out, "api:    v2") {
		t.Errorf("output missing api line: %q", out)
	}
}

func TestVersionJSON(t *testing.T) {
	versionJSON = true
	defer func() { versionJSON = false }()

	buf := &bytes.Buffer{}
	cmd := &cobra.Command{}
	cmd.SetOut(buf)

	if err := runVersion(cmd, nil); err != nil {
		t.Fatalf("runVersion() error: %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if got["api_version"] != "v2" {
		t.Errorf("api_version = %v, want v2", got["api_version"])
	}
	if got["version"] != Version {
		t.Errorf("version = %v, want %v", got["version"], Version)
	}
}
