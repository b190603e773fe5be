package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// isolate points HOME at a temp dir and blanks the TESTRAIL_* variables
// so the host environment cannot leak into assertions.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, key := range []string{
		"TESTRAIL_URL", "TESTRAIL_EMAIL", "TESTRAIL_PASSWORD",
		"TESTRAIL_PASSWORD_FILE", "TESTRAIL_PROFILE",
		"TESTRAIL_TIMEOUT", "TESTRAIL_OUTPUT",
	} {
		t.Setenv(key, "")
	}
	return home
}

func writeConfigFile(t *testing.T, home, content string) string {
	t.Helper()
	dir := filepath.Join(home, ".config", "railctl")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Timeout != defaultTimeoutSeconds {
		t.Errorf("Timeout = %d, want %d", cfg.Timeout, defaultTimeoutSeconds)
	}
	if cfg.Output != "table" {
		t.Errorf("Output = %q, want table", cfg.Output)
	}
	if cfg.Path != "" {
		t.Errorf("Path = %q, want empty when no file exists", cfg.Path)
	}
}

func TestLoadProfileSelection(t *testing.T) {
	home := isolate(t)
	writeConfigFile(t, home, `
default: qa
profiles:
  qa:
    url: https://qa.example.com
    email: qa@example.com
    password: qa-key
    timeout: 10
  prod:
    url: https://prod.example.com
    email: ops@example.com
    password: prod-key
    insecure: true
`)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Profile != "qa" || cfg.URL != "https://qa.example.com" || cfg.Timeout != 10 {
		t.Errorf("default profile resolved to %+v", cfg)
	}

	cfg, err = Load("prod")
	if err != nil {
		t.Fatalf("Load(prod) error = %v", err)
	}
	if cfg.Profile != "prod" || cfg.Email != "ops@example.com" || !cfg.Insecure {
		t.Errorf("prod profile resolved to %+v", cfg)
	}

	if _, err := Load("staging"); err == nil || !strings.Contains(err.Error(), "staging") {
		t.Errorf("unknown profile: error = %v", err)
	}
}

func TestLoadProfileFromEnv(t *testing.T) {
	home := isolate(t)
	writeConfigFile(t, home, `
profiles:
  qa:
    url: https://qa.example.com
    email: qa@example.com
    password: k
  prod:
    url: https://prod.example.com
    email: ops@example.com
    password: k
`)
	t.Setenv("TESTRAIL_PROFILE", "prod")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Profile != "prod" {
		t.Errorf("Profile = %q, want prod", cfg.Profile)
	}
}

func TestLoadSingleProfileAutoSelect(t *testing.T) {
	home := isolate(t)
	writeConfigFile(t, home, `
profiles:
  only:
    url: https://one.example.com
    email: a@b
    password: k
`)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Profile != "only" || cfg.URL != "https://one.example.com" {
		t.Errorf("single profile not auto-selected: %+v", cfg)
	}
}

func TestEnvOverridesProfile(t *testing.T) {
	home := isolate(t)
	writeConfigFile(t, home, `
default: qa
profiles:
  qa:
    url: https://qa.example.com
    email: qa@example.com
    password: from-file
`)
	t.Setenv("TESTRAIL_URL", "https://env.example.com")
	t.Setenv("TESTRAIL_PASSWORD", "from-env")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.URL != "https://env.example.com" {
		t.Errorf("URL = %q, env should win over profile", cfg.URL)
	}
	if cfg.Password != "from-env" {
		t.Errorf("Password = %q, env should win over profile", cfg.Password)
	}
	if cfg.Email != "qa@example.com" {
		t.Errorf("Email = %q, untouched profile values should remain", cfg.Email)
	}
}

func TestPasswordFileTrimmed(t *testing.T) {
	home := isolate(t)
	secret := filepath.Join(home, "secret")
	if err := os.WriteFile(secret, []byte("the-api-key\n"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	t.Setenv("TESTRAIL_PASSWORD_FILE", secret)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Password != "the-api-key" {
		t.Errorf("Password = %q, want trimmed file content", cfg.Password)
	}
}

func TestInvalidTimeout(t *testing.T) {
	isolate(t)
	t.Setenv("TESTRAIL_TIMEOUT", "soon")

	if _, err := Load(""); err == nil {
		t.Error("expected error for non-numeric TESTRAIL_TIMEOUT")
	}
}

func TestProfileRequestedWithoutFile(t *testing.T) {
	isolate(t)

	if _, err := Load("qa"); err == nil {
		t.Error("expected error when a profile is requested but no config file exists")
	}
}

func TestSaveAtomicAndPrivate(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(home, ".config", "railctl", "config.yaml")

	file := &File{
		Default: "qa",
		Profiles: map[string]Profile{
			"qa": {URL: "https://qa.example.com", Email: "qa@example.com", Password: "k"},
		},
	}
	if err := file.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("perm = %o, want 600", perm)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temp file should not remain after save")
	}

	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if loaded.Default != "qa" || loaded.Profiles["qa"].URL != "https://qa.example.com" {
		t.Errorf("round trip = %+v", loaded)
	}
}

func TestProfileRedacted(t *testing.T) {
	p := Profile{URL: "https://x", Email: "a@b", Password: "hunter2"}
	r := p.Redacted()
	if r.Password == "hunter2" {
		t.Error("Redacted() must not expose the password")
	}
	if p.Password != "hunter2" {
		t.Error("Redacted() must not mutate the receiver")
	}
	if (Profile{}).Redacted().Password != "" {
		t.Error("empty password stays empty")
	}
}

func TestFindEnvLocal_ClosestWins(t *testing.T) {
	tmpDir := t.TempDir()
	parentDir := filepath.Join(tmpDir, "parent")
	childDir := filepath.Join(parentDir, "child")
	if err := os.MkdirAll(childDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(tmpDir, ".env.local"), []byte("TEST=grandparent"), 0o644); err != nil {
		t.Fatal(err)
	}
	parentEnvPath := filepath.Join(parentDir, ".env.local")
	if err := os.WriteFile(parentEnvPath, []byte("TEST=parent"), 0o644); err != nil {
		t.Fatal(err)
	}

	oldCwd, _ := os.Getwd()
	defer os.Chdir(oldCwd)
	if err := os.Chdir(childDir); err != nil {
		t.Fatal(err)
	}

	result := findEnvLocal()
	// Resolve symlinks for comparison (macOS /var -> /private/var)
	expectedResolved, _ := filepath.EvalSymlinks(parentEnvPath)
	resultResolved, _ := filepath.EvalSymlinks(result)
	if resultResolved != expectedResolved {
		t.Errorf("expected closest .env.local (%s), got %s", expectedResolved, resultResolved)
	}
}

func TestFindEnvLocal_NotFound(t *testing.T) {
	tmpDir := t.TempDir()

	oldCwd, _ := os.Getwd()
	defer os.Chdir(oldCwd)
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatal(err)
	}

	result := findEnvLocal()
	if result != "" {
		t.Errorf("expected empty string when no .env.local found, got %s", result)
	}
}
