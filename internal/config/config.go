package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
)

const (
	DefaultConfigPath     = "config.toml"
	DefaultHTTPAddr       = ":8080"
	DefaultJWTExpiresIn   = "24h"
	DefaultPageSize       = 60
	MaxPageSize           = 250
	DefaultRetryAttempts  = 3
	DefaultRetryDelayMs   = 700
	DefaultRefreshDelayMs = 1200
	DefaultDebounceMs     = 350
	DefaultTimeoutSeconds = 30
)

type Config struct {
	Log      LogConfig      `toml:"log"`
	Server   ServerConfig   `toml:"server"`
	Admin    AdminConfig    `toml:"admin"`
	Auth     AuthConfig     `toml:"auth"`
	Platform PlatformConfig `toml:"platform"`
	Media    MediaConfig    `toml:"media"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

type ServerConfig struct {
	Addr string `toml:"addr"`
}

type AdminConfig struct {
	Username string `toml:"username"`
	// PasswordHash is a bcrypt hash of the admin password.
	PasswordHash string `toml:"password_hash"`
}

type AuthConfig struct {
	JWTSecret    string `toml:"jwt_secret"`
	JWTExpiresIn string `toml:"jwt_expires_in"`
}

// PlatformConfig points at the commerce platform's Admin GraphQL endpoint.
type PlatformConfig struct {
	Endpoint       string `toml:"endpoint" validate:"required,url"`
	AccessToken    string `toml:"access_token" validate:"required"`
	TimeoutSeconds int    `toml:"timeout_seconds" validate:"gte=0"`
}

type MediaConfig struct {
	PageSize       int `toml:"page_size" validate:"gte=1,lte=250"`
	RetryAttempts  int `toml:"retry_attempts" validate:"gte=1"`
	RetryDelayMs   int `toml:"retry_delay_ms" validate:"gte=0"`
	RefreshDelayMs int `toml:"refresh_delay_ms" validate:"gte=0"`
	DebounceMs     int `toml:"query_debounce_ms" validate:"gte=0"`
}

func (c PlatformConfig) Timeout() time.Duration {
	secs := c.TimeoutSeconds
	if secs <= 0 {
		secs = DefaultTimeoutSeconds
	}
	return time.Duration(secs) * time.Second
}

func (c MediaConfig) RetryDelay() time.Duration {
	return time.Duration(c.RetryDelayMs) * time.Millisecond
}

func (c MediaConfig) RefreshDelay() time.Duration {
	return time.Duration(c.RefreshDelayMs) * time.Millisecond
}

func (c MediaConfig) Debounce() time.Duration {
	return time.Duration(c.DebounceMs) * time.Millisecond
}

func Load(path string) (Config, error) {
	cfg := Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Server: ServerConfig{
			Addr: DefaultHTTPAddr,
		},
		Admin: AdminConfig{
			Username: "admin",
		},
		Auth: AuthConfig{
			JWTExpiresIn: DefaultJWTExpiresIn,
		},
		Media: MediaConfig{
			PageSize:       DefaultPageSize,
			RetryAttempts:  DefaultRetryAttempts,
			RetryDelayMs:   DefaultRetryDelayMs,
			RefreshDelayMs: DefaultRefreshDelayMs,
			DebounceMs:     DefaultDebounceMs,
		},
	}

	if path == "" {
		path = DefaultConfigPath
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// Validate checks the sections the server cannot run without.
func (c Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c.Platform); err != nil {
		return fmt.Errorf("platform config: %w", err)
	}
	if err := v.Struct(c.Media); err != nil {
		return fmt.Errorf("media config: %w", err)
	}
	return nil
}
