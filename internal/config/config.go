package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// API contains the enforcement review API connection settings.
type API struct {
	BaseURL        string `toml:"base_url"`
	Token          string `toml:"token"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	PageSize       int    `toml:"page_size"`
}

// Paths contains local file locations.
type Paths struct {
	LogDir      string `toml:"log_dir"`
	JournalPath string `toml:"journal_path"`
	LockPath    string `toml:"lock_path"`
}

// Review contains queue-surface defaults and polling behavior.
type Review struct {
	Surface                 string   `toml:"surface"`
	SiteIDs                 []string `toml:"site_ids"`
	PollIntervalSeconds     int      `toml:"poll_interval_seconds"`
	IdlePollIntervalSeconds int      `toml:"idle_poll_interval_seconds"`
	AuditWindowMarginMins   int      `toml:"audit_window_margin_minutes"`
	AuditEntryLimit         int      `toml:"audit_entry_limit"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for plateview.
type Config struct {
	API     API     `toml:"api"`
	Paths   Paths   `toml:"paths"`
	Review  Review  `toml:"review"`
	Logging Logging `toml:"logging"`
}

// envOverrides are applied on top of the file so secrets can stay out of it.
type envOverrides struct {
	APIBaseURL string `envconfig:"API_BASE_URL"`
	APIToken   string `envconfig:"API_TOKEN"`
	LogLevel   string `envconfig:"LOG_LEVEL"`
	LogFormat  string `envconfig:"LOG_FORMAT"`
}

// DefaultConfigPath returns the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/plateview/config.toml")
}

// Load locates, parses, and validates a configuration file. Environment
// overrides (prefix PLATEVIEW) apply after the file; the returned config has
// all path fields expanded.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	var env envOverrides
	if err := envconfig.Process("plateview", &env); err != nil {
		return nil, "", false, fmt.Errorf("read environment overrides: %w", err)
	}
	cfg.applyEnv(env)

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func (c *Config) applyEnv(env envOverrides) {
	if v := strings.TrimSpace(env.APIBaseURL); v != "" {
		c.API.BaseURL = v
	}
	if v := strings.TrimSpace(env.APIToken); v != "" {
		c.API.Token = v
	}
	if v := strings.TrimSpace(env.LogLevel); v != "" {
		c.Logging.Level = v
	}
	if v := strings.TrimSpace(env.LogFormat); v != "" {
		c.Logging.Format = v
	}
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err = os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	projectPath, err := filepath.Abs("plateview.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	return defaultPath, false, nil
}

// EnsureDirectories creates the directories the console writes into.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.LogDir, filepath.Dir(c.Paths.JournalPath), filepath.Dir(c.Paths.LockPath)}
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" || dir == "." {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
