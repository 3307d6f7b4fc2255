package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ziadkadry99/storyshelf/internal/flipbook"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.DefaultPage != "home" {
		t.Errorf("expected default page %q, got %q", "home", cfg.DefaultPage)
	}
	if !cfg.CacheEnabled {
		t.Error("expected cache enabled by default")
	}
	if cfg.ContainerID != "pageContainer" {
		t.Errorf("expected default container_id %q, got %q", "pageContainer", cfg.ContainerID)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Backend.Configured() {
		t.Error("expected no backend by default")
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.storyshelf.yml")

	original := DefaultConfig()
	original.DefaultPage = "library"
	original.CacheEnabled = false
	original.Server.Port = 9000
	original.Backend.URL = "https://demo.supabase.co"
	original.Worksheets.SignedURLExpiresIn = 120
	original.Flipbook.Books = []flipbook.Book{
		{Title: "Tidepools", URL: "/books/tidepools.pdf"},
		{Title: "Deep Water", URL: "/books/deep.pdf", Locked: true},
	}

	// Save.
	if err := original.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// Load back.
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// Verify round-trip.
	if loaded.DefaultPage != original.DefaultPage {
		t.Errorf("default_page: got %q, want %q", loaded.DefaultPage, original.DefaultPage)
	}
	if loaded.CacheEnabled {
		t.Error("cache_enabled: got true, want false")
	}
	if loaded.Server.Port != 9000 {
		t.Errorf("server.port: got %d, want 9000", loaded.Server.Port)
	}
	if loaded.Backend.URL != original.Backend.URL {
		t.Errorf("backend.url: got %q, want %q", loaded.Backend.URL, original.Backend.URL)
	}
	if loaded.Worksheets.SignedURLExpiresIn != 120 {
		t.Errorf("worksheets.signed_url_expires_in: got %d, want 120", loaded.Worksheets.SignedURLExpiresIn)
	}
	if len(loaded.Flipbook.Books) != 2 {
		t.Fatalf("flipbook.books length: got %d, want 2", len(loaded.Flipbook.Books))
	}
	if !loaded.Flipbook.Books[1].Locked || loaded.Flipbook.Books[1].Title != "Deep Water" {
		t.Errorf("flipbook.books[1]: got %+v", loaded.Flipbook.Books[1])
	}
}

func TestLoadMissingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nonexistent.yml")

	// Loading a missing file should return defaults, not an error.
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load should not fail for missing file: %v", err)
	}
	if cfg.DefaultPage != "home" {
		t.Errorf("expected default page, got %q", cfg.DefaultPage)
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "partial.yml")
	if err := os.WriteFile(path, []byte("server:\n  allow_all_origins: true\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !cfg.Server.AllowAllOrigins {
		t.Error("allow_all_origins not loaded")
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("port default lost: got %d", cfg.Server.Port)
	}
	if cfg.ScreensBase != "screens" {
		t.Errorf("screens_base default lost: got %q", cfg.ScreensBase)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yml")

	cfg := DefaultConfig()
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	t.Setenv("STORYSHELF_DEFAULT_PAGE", "library")
	t.Setenv("STORYSHELF_SERVER__PORT", "9090")
	t.Setenv("SUPABASE_URL", "https://env.supabase.co")
	t.Setenv("SUPABASE_ANON_KEY", "anon-from-env")

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.DefaultPage != "library" {
		t.Errorf("env override failed: got %q, want %q", loaded.DefaultPage, "library")
	}
	if loaded.Server.Port != 9090 {
		t.Errorf("nested env override failed: got %d, want 9090", loaded.Server.Port)
	}
	if loaded.Backend.URL != "https://env.supabase.co" || loaded.Backend.AnonKey != "anon-from-env" {
		t.Errorf("backend env not applied: %+v", loaded.Backend)
	}
}

func TestPrefixedEnvWinsOverSupabaseEnv(t *testing.T) {
	t.Setenv("SUPABASE_URL", "https://plain.supabase.co")
	t.Setenv("STORYSHELF_BACKEND__URL", "https://prefixed.supabase.co")

	loaded, err := Load(filepath.Join(t.TempDir(), "none.yml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Backend.URL != "https://prefixed.supabase.co" {
		t.Errorf("got %q, want prefixed value", loaded.Backend.URL)
	}
}

func TestValidateValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig should be valid, got: %v", err)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"default page with slash", func(c *Config) { c.DefaultPage = "../etc" }},
		{"empty default page", func(c *Config) { c.DefaultPage = "" }},
		{"container id", func(c *Config) { c.ContainerID = "page container" }},
		{"empty screens base", func(c *Config) { c.ScreensBase = "" }},
		{"log level", func(c *Config) { c.LogLevel = "chatty" }},
		{"port zero", func(c *Config) { c.Server.Port = 0 }},
		{"port too high", func(c *Config) { c.Server.Port = 70000 }},
		{"backend scheme", func(c *Config) { c.Backend.URL = "ftp://demo.supabase.co" }},
		{"backend no host", func(c *Config) { c.Backend.URL = "https://" }},
		{"negative timeout", func(c *Config) { c.Backend.TimeoutSeconds = -1 }},
		{"negative expiry", func(c *Config) { c.Worksheets.SignedURLExpiresIn = -5 }},
		{"untitled book", func(c *Config) { c.Flipbook.Books = []flipbook.Book{{URL: "/x.pdf"}} }},
	}
	for _, tt := range tests {
		cfg := DefaultConfig()
		tt.mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected validation error", tt.name)
		}
	}
}

func TestBackendHelpers(t *testing.T) {
	b := BackendConfig{URL: "https://demo.supabase.co", AnonKey: "k", TimeoutSeconds: 3}
	if !b.Configured() {
		t.Error("expected configured backend")
	}
	if b.Timeout() != 3*time.Second {
		t.Errorf("timeout: got %v", b.Timeout())
	}

	tests := []struct {
		url  string
		want bool
	}{
		{"https://demo.supabase.co", false},
		{"http://localhost:54321", false},
		{"http://127.0.0.1:54321", false},
		{"http://[::1]:54321", false},
		{"http://demo.example.com", true},
		{"http://10.0.0.5", true},
		{"", false},
	}
	for _, tt := range tests {
		if got := (BackendConfig{URL: tt.url}).Insecure(); got != tt.want {
			t.Errorf("Insecure(%q) = %v, want %v", tt.url, got, tt.want)
		}
	}
}

func TestWorksheetStorage(t *testing.T) {
	s := DefaultConfig().Worksheets.Storage()
	if s.Table != "worksheets" || s.Bucket != "worksheets" || s.SignedURLExpires != 600 {
		t.Errorf("unexpected storage config: %+v", s)
	}
}
