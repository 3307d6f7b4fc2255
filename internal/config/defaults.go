package config

import (
	"github.com/ziadkadry99/storyshelf/internal/nav"
	"github.com/ziadkadry99/storyshelf/internal/worksheets"
)

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		DefaultPage:  nav.DefaultHome,
		ScreensBase:  "screens",
		CacheEnabled: true,
		ContainerID:  nav.DefaultContainerID,
		LogLevel:     "info",
		Server: ServerConfig{
			Port: 8080,
		},
		Backend: BackendConfig{
			TimeoutSeconds: 15,
		},
		Worksheets: WorksheetsConfig{
			Table:              worksheets.DefaultTable,
			Bucket:             worksheets.DefaultBucket,
			SignedURLExpiresIn: worksheets.DefaultSignedURLExpires,
		},
	}
}
