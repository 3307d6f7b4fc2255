package config

import "github.com/ziadkadry99/storyshelf/internal/flipbook"

// FileName is the default config file, read from the working directory.
const FileName = ".storyshelf.yml"

// Config is the top-level storyshelf configuration, corresponding to
// .storyshelf.yml.
type Config struct {
	DefaultPage  string           `yaml:"default_page" koanf:"default_page"`
	ScreensBase  string           `yaml:"screens_base" koanf:"screens_base"`
	CacheEnabled bool             `yaml:"cache_enabled" koanf:"cache_enabled"`
	ContainerID  string           `yaml:"container_id" koanf:"container_id"`
	LogLevel     string           `yaml:"log_level" koanf:"log_level"`
	Server       ServerConfig     `yaml:"server" koanf:"server"`
	Backend      BackendConfig    `yaml:"backend" koanf:"backend"`
	Worksheets   WorksheetsConfig `yaml:"worksheets" koanf:"worksheets"`
	Flipbook     FlipbookConfig   `yaml:"flipbook" koanf:"flipbook"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Port            int  `yaml:"port" koanf:"port"`
	AllowAllOrigins bool `yaml:"allow_all_origins" koanf:"allow_all_origins"`
}

// BackendConfig locates the hosted backend. Both values may be left empty;
// the server then runs with navigation only.
type BackendConfig struct {
	URL            string `yaml:"url,omitempty" koanf:"url"`
	AnonKey        string `yaml:"anon_key,omitempty" koanf:"anon_key"`
	TimeoutSeconds int    `yaml:"timeout_seconds" koanf:"timeout_seconds"`
}

// WorksheetsConfig names the worksheet table and storage bucket.
type WorksheetsConfig struct {
	Table              string `yaml:"table" koanf:"table"`
	Bucket             string `yaml:"bucket" koanf:"bucket"`
	SignedURLExpiresIn int    `yaml:"signed_url_expires_in" koanf:"signed_url_expires_in"`
}

// FlipbookConfig lists the books offered in the flip-book viewer.
type FlipbookConfig struct {
	Books []flipbook.Book `yaml:"books" koanf:"books"`
}
