package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/ziadkadry99/storyshelf/internal/screens"
	"github.com/ziadkadry99/storyshelf/internal/worksheets"
)

// EnvPrefix prefixes environment overrides: STORYSHELF_SERVER__PORT sets
// server.port.
const EnvPrefix = "STORYSHELF_"

// supabaseEnv maps the backend's conventional variables to config keys.
var supabaseEnv = map[string]string{
	"SUPABASE_URL":      "backend.url",
	"SUPABASE_ANON_KEY": "backend.anon_key",
}

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (SUPABASE_URL, SUPABASE_ANON_KEY, then
// STORYSHELF_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	if err := k.Load(env.Provider("SUPABASE_", ".", func(s string) string {
		return supabaseEnv[s]
	}), nil); err != nil {
		return nil, fmt.Errorf("loading backend env: %w", err)
	}

	// STORYSHELF_BACKEND__ANON_KEY -> backend.anon_key
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(key, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// validLogLevels is the set of recognized log_level values.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if !screens.ValidID(c.DefaultPage) {
		return fmt.Errorf("invalid default_page %q: use letters, digits, '-' or '_'", c.DefaultPage)
	}
	if !screens.ValidID(c.ContainerID) {
		return fmt.Errorf("invalid container_id %q", c.ContainerID)
	}
	if c.ScreensBase == "" {
		return fmt.Errorf("screens_base is required")
	}
	if c.LogLevel != "" && !validLogLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("invalid log_level %q: must be one of debug, info, warn, error", c.LogLevel)
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}

	if c.Backend.URL != "" {
		u, err := url.Parse(c.Backend.URL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("invalid backend.url %q: must be an http(s) URL", c.Backend.URL)
		}
	}
	if c.Backend.TimeoutSeconds < 0 {
		return fmt.Errorf("backend.timeout_seconds must be non-negative")
	}

	if c.Worksheets.SignedURLExpiresIn < 0 {
		return fmt.Errorf("worksheets.signed_url_expires_in must be non-negative")
	}

	for i, b := range c.Flipbook.Books {
		if b.Title == "" {
			return fmt.Errorf("flipbook.books[%d]: title is required", i)
		}
	}

	return nil
}

// Configured reports whether both backend URL and anon key are set.
func (b BackendConfig) Configured() bool {
	return b.URL != "" && b.AnonKey != ""
}

// Timeout returns the backend request timeout.
func (b BackendConfig) Timeout() time.Duration {
	return time.Duration(b.TimeoutSeconds) * time.Second
}

// Insecure reports whether the backend URL is plain HTTP to a host other
// than the local machine.
func (b BackendConfig) Insecure() bool {
	u, err := url.Parse(b.URL)
	if err != nil || u.Scheme != "http" {
		return false
	}
	host := u.Hostname()
	if host == "localhost" {
		return false
	}
	ip := net.ParseIP(host)
	return ip == nil || !ip.IsLoopback()
}

// Storage returns the worksheet storage settings.
func (w WorksheetsConfig) Storage() worksheets.StorageConfig {
	return worksheets.StorageConfig{
		Table:            w.Table,
		Bucket:           w.Bucket,
		SignedURLExpires: w.SignedURLExpiresIn,
	}
}
