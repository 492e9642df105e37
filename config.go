package router

import (
	"time"
)

// Config defines the config for the router
type Config struct {
	// Body sent when no route matches and no NotFoundHandler is set.
	//
	// Optional. Default: "Dynamic route not found"
	NotFoundMessage string

	// How long a static file stays in the in-memory cache.
	//
	// Optional. Default: 5 * time.Minute
	StaticCacheTTL time.Duration

	// Compress response bodies according to Accept-Encoding.
	//
	// Optional. Default: true when no Config is passed to New
	Compress bool
}

// ConfigDefault is the default config
var ConfigDefault = Config{
	NotFoundMessage: "Dynamic route not found",
	StaticCacheTTL:  5 * time.Minute,
	Compress:        true,
}

// Helper function to set default values
func configDefault(config ...Config) Config {
	// Return default config if nothing provided
	if len(config) < 1 {
		return ConfigDefault
	}

	// Override default config
	cfg := config[0]

	// Set default values
	if cfg.NotFoundMessage == "" {
		cfg.NotFoundMessage = ConfigDefault.NotFoundMessage
	}
	if cfg.StaticCacheTTL <= 0 {
		cfg.StaticCacheTTL = ConfigDefault.StaticCacheTTL
	}
	return cfg
}
