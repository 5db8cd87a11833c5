package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("missing file must not fail: %v", err)
	}
	if cfg.Server.Addr != DefaultHTTPAddr {
		t.Fatalf("expected default addr, got %q", cfg.Server.Addr)
	}
	if cfg.Media.PageSize != DefaultPageSize {
		t.Fatalf("expected default page size, got %d", cfg.Media.PageSize)
	}
	if cfg.Media.RetryAttempts != DefaultRetryAttempts || cfg.Media.RetryDelayMs != DefaultRetryDelayMs {
		t.Fatalf("expected default retry policy, got %+v", cfg.Media)
	}
	if cfg.Media.RefreshDelayMs != DefaultRefreshDelayMs || cfg.Media.DebounceMs != DefaultDebounceMs {
		t.Fatalf("expected default picker timings, got %+v", cfg.Media)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[server]
addr = ":9090"

[platform]
endpoint = "https://shop.example.com/admin/api/graphql.json"
access_token = "tok"
timeout_seconds = 10

[media]
page_size = 24
retry_attempts = 5
retry_delay_ms = 100
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Addr != ":9090" {
		t.Fatalf("expected addr override, got %q", cfg.Server.Addr)
	}
	if cfg.Media.PageSize != 24 || cfg.Media.RetryAttempts != 5 {
		t.Fatalf("expected media overrides, got %+v", cfg.Media)
	}
	// Sections absent from the file keep their defaults.
	if cfg.Media.DebounceMs != DefaultDebounceMs {
		t.Fatalf("expected default debounce, got %d", cfg.Media.DebounceMs)
	}
	if cfg.Admin.Username != "admin" {
		t.Fatalf("expected default admin username, got %q", cfg.Admin.Username)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	valid := Config{
		Platform: PlatformConfig{
			Endpoint:    "https://shop.example.com/admin/api/graphql.json",
			AccessToken: "tok",
		},
		Media: MediaConfig{
			PageSize:      60,
			RetryAttempts: 3,
		},
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "missing endpoint", mutate: func(c *Config) { c.Platform.Endpoint = "" }, wantErr: true},
		{name: "bad endpoint", mutate: func(c *Config) { c.Platform.Endpoint = "not a url" }, wantErr: true},
		{name: "missing token", mutate: func(c *Config) { c.Platform.AccessToken = "" }, wantErr: true},
		{name: "page size over cap", mutate: func(c *Config) { c.Media.PageSize = 500 }, wantErr: true},
		{name: "zero retries", mutate: func(c *Config) { c.Media.RetryAttempts = 0 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Fatalf("expected validation error")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestDurationHelpers(t *testing.T) {
	t.Parallel()

	p := PlatformConfig{}
	if p.Timeout() != DefaultTimeoutSeconds*time.Second {
		t.Fatalf("expected default timeout, got %v", p.Timeout())
	}
	p.TimeoutSeconds = 7
	if p.Timeout() != 7*time.Second {
		t.Fatalf("expected 7s, got %v", p.Timeout())
	}

	m := MediaConfig{RetryDelayMs: 700, RefreshDelayMs: 1200, DebounceMs: 350}
	if m.RetryDelay() != 700*time.Millisecond {
		t.Fatalf("expected 700ms, got %v", m.RetryDelay())
	}
	if m.RefreshDelay() != 1200*time.Millisecond {
		t.Fatalf("expected 1200ms, got %v", m.RefreshDelay())
	}
	if m.Debounce() != 350*time.Millisecond {
		t.Fatalf("expected 350ms, got %v", m.Debounce())
	}
}
