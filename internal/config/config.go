package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const defaultTimeoutSeconds = 30

// Profile carries the connection settings for one remote instance.
type Profile struct {
	URL      string `yaml:"url"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"` // an API key works here too
	Timeout  int    `yaml:"timeout,omitempty"`
	Insecure bool   `yaml:"insecure,omitempty"`
}

// Redacted returns a copy safe for display.
func (p Profile) Redacted() Profile {
	if p.Password != "" {
		p.Password = "********"
	}
	return p
}

// File is the on-disk profile store at ~/.config/railctl/config.yaml.
type File struct {
	Default  string             `yaml:"default,omitempty"`
	Output   string             `yaml:"output,omitempty"`
	Profiles map[string]Profile `yaml:"profiles"`
}

// Config is the resolved configuration for one invocation.
type Config struct {
	Profile  string
	URL      string
	Email    string
	Password string
	Timeout  int // seconds
	Insecure bool
	Output   string
	Path     string // config file that was read, empty if none
}

// Load resolves configuration with precedence:
// 1. Environment variables (TESTRAIL_URL, TESTRAIL_EMAIL,
//    TESTRAIL_PASSWORD / TESTRAIL_PASSWORD_FILE, TESTRAIL_TIMEOUT)
// 2. ./.env.local (dotenv) - walks up parent directories to find it
// 3. The selected profile in ~/.config/railctl/config.yaml
// Flag values are applied on top by the caller.
func Load(profile string) (*Config, error) {
	cfg := &Config{
		Timeout: defaultTimeoutSeconds,
		Output:  "table",
	}

	// Load .env.local if it exists (walking up parent directories)
	if envPath := findEnvLocal(); envPath != "" {
		_ = godotenv.Load(envPath)
	}

	name := profile
	if name == "" {
		name = os.Getenv("TESTRAIL_PROFILE")
	}

	path, pathErr := DefaultPath()
	if pathErr == nil {
		file, err := LoadFile(path)
		switch {
		case err == nil:
			cfg.Path = path
			warnLoosePermissions(path)
			if file.Output != "" {
				cfg.Output = file.Output
			}
			if name == "" {
				name = file.Default
			}
			if name == "" && len(file.Profiles) == 1 {
				for only := range file.Profiles {
					name = only
				}
			}
			if name != "" {
				p, ok := file.Profiles[name]
				if !ok {
					return nil, fmt.Errorf("profile %q not found in %s", name, path)
				}
				cfg.Profile = name
				cfg.URL = p.URL
				cfg.Email = p.Email
				cfg.Password = p.Password
				cfg.Insecure = p.Insecure
				if p.Timeout > 0 {
					cfg.Timeout = p.Timeout
				}
			}
		case os.IsNotExist(err):
			if name != "" {
				return nil, fmt.Errorf("profile %q requested but %s does not exist", name, path)
			}
		default:
			return nil, err
		}
	}

	// Override with environment variables
	if url := os.Getenv("TESTRAIL_URL"); url != "" {
		cfg.URL = url
	}
	if email := os.Getenv("TESTRAIL_EMAIL"); email != "" {
		cfg.Email = email
	}
	if password := getEnvOrFile("TESTRAIL_PASSWORD", "TESTRAIL_PASSWORD_FILE"); password != "" {
		cfg.Password = password
	}
	if timeout := os.Getenv("TESTRAIL_TIMEOUT"); timeout != "" {
		seconds, err := strconv.Atoi(timeout)
		if err != nil || seconds <= 0 {
			return nil, fmt.Errorf("invalid TESTRAIL_TIMEOUT %q", timeout)
		}
		cfg.Timeout = seconds
	}
	if output := os.Getenv("TESTRAIL_OUTPUT"); output != "" {
		cfg.Output = output
	}

	return cfg, nil
}

// DefaultPath returns ~/.config/railctl/config.yaml.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "railctl", "config.yaml"), nil
}

// LoadFile reads a profile store from path.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &file, nil
}

// Save writes the profile store to path with owner-only permissions.
// The write is atomic: credentials never exist half-written on disk.
func (f *File) Save(path string) error {
	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// warnLoosePermissions flags a credential file readable by other users.
func warnLoosePermissions(path string) {
	info, err := os.Stat(path)
	if err != nil {
		return
	}
	if info.Mode().Perm()&0o077 != 0 {
		log.Printf("warning: %s is readable by other users; run: chmod 600 %s", path, path)
	}
}

// getEnvOrFile gets an environment variable value, or reads it from a file
// if the _FILE variant is set. File content is trimmed so a trailing
// newline in a secrets file cannot corrupt the auth header.
func getEnvOrFile(envVar, fileVar string) string {
	if val := os.Getenv(envVar); val != "" {
		return val
	}

	if filePath := os.Getenv(fileVar); filePath != "" {
		data, err := os.ReadFile(filePath)
		if err == nil {
			return strings.TrimSpace(string(data))
		}
	}

	return ""
}

// findEnvLocal searches for .env.local starting from cwd and walking up
// parent directories. Stops at the user's home directory.
// Returns the path to .env.local if found, empty string otherwise.
func findEnvLocal() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		// If we can't get home dir, just check cwd
		if _, err := os.Stat(".env.local"); err == nil {
			return ".env.local"
		}
		return ""
	}

	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	// Clean paths for reliable comparison
	homeDir = filepath.Clean(homeDir)
	dir := filepath.Clean(cwd)

	for {
		envPath := filepath.Join(dir, ".env.local")
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}

		// Stop if we've reached home directory
		if dir == homeDir {
			break
		}

		// Get parent directory
		parent := filepath.Dir(dir)

		// Stop if we've reached the filesystem root
		if parent == dir {
			break
		}

		dir = parent
	}

	return ""
}
