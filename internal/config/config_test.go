package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaultsAndNormalizes(t *testing.T) {
	path := writeConfig(t, `
[api]
base_url = "https://enforcement.example.com/"
token = " tok "

[review]
surface = " Plates "
site_ids = ["S1", " ", "S2"]
`)

	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists || resolved == "" {
		t.Fatalf("exists=%v resolved=%q", exists, resolved)
	}
	if cfg.API.BaseURL != "https://enforcement.example.com" {
		t.Fatalf("base_url = %q", cfg.API.BaseURL)
	}
	if cfg.API.Token != "tok" {
		t.Fatalf("token = %q", cfg.API.Token)
	}
	if cfg.Review.Surface != "plates" {
		t.Fatalf("surface = %q", cfg.Review.Surface)
	}
	if len(cfg.Review.SiteIDs) != 2 {
		t.Fatalf("site_ids = %v", cfg.Review.SiteIDs)
	}
	if cfg.API.PageSize != defaultPageSize {
		t.Fatalf("page_size = %d, want default %d", cfg.API.PageSize, defaultPageSize)
	}
	if cfg.Review.PollIntervalSeconds != defaultPollInterval {
		t.Fatalf("poll interval = %d, want default", cfg.Review.PollIntervalSeconds)
	}
}

func TestLoadRequiresBaseURL(t *testing.T) {
	path := writeConfig(t, "[api]\ntoken = \"tok\"\n")

	_, _, _, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "api.base_url is required") {
		t.Fatalf("err = %v, want base_url requirement", err)
	}
}

func TestEnvOverridesBeatFile(t *testing.T) {
	path := writeConfig(t, `
[api]
base_url = "https://file.example.com"
`)
	t.Setenv("PLATEVIEW_API_BASE_URL", "https://env.example.com")
	t.Setenv("PLATEVIEW_LOG_LEVEL", "debug")

	cfg, _, _, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.API.BaseURL != "https://env.example.com" {
		t.Fatalf("base_url = %q, want env override", cfg.API.BaseURL)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("level = %q, want debug", cfg.Logging.Level)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{
			name: "bad surface",
			body: "[api]\nbase_url = \"https://x.example.com\"\n[review]\nsurface = \"tickets\"\n",
			want: "review.surface",
		},
		{
			name: "oversized page",
			body: "[api]\nbase_url = \"https://x.example.com\"\npage_size = 500\n",
			want: "api.page_size",
		},
		{
			name: "bad log format",
			body: "[api]\nbase_url = \"https://x.example.com\"\n[logging]\nformat = \"xml\"\n",
			want: "logging.format",
		},
		{
			name: "idle below active poll",
			body: "[api]\nbase_url = \"https://x.example.com\"\n[review]\npoll_interval_seconds = 30\nidle_poll_interval_seconds = 5\n",
			want: "idle_poll_interval_seconds",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, _, err := Load(writeConfig(t, tc.body))
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("err = %v, want mention of %s", err, tc.want)
			}
		})
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	cfg, _, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load(sample): %v", err)
	}
	if !exists {
		t.Fatal("sample config not detected")
	}
	if cfg.Review.Surface != "decisions" {
		t.Fatalf("surface = %q", cfg.Review.Surface)
	}
}

func TestExpandPathHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	got, err := ExpandPath("~/x/y")
	if err != nil {
		t.Fatalf("ExpandPath: %v", err)
	}
	if got != filepath.Join(home, "x", "y") {
		t.Fatalf("ExpandPath = %q", got)
	}
}
