// Package config loads the yaml settings file into the shared go-config instance.
package config

import (
	"path/filepath"

	gconfig "github.com/Laisky/go-config/v2"
	"github.com/Laisky/zap"

	"github.com/Laisky/movie-analytics/library/log"
)

// Default values for keys that may be absent from the settings file.
const (
	DefaultBatchSize      = 500
	DefaultMaxJobFailures = 100
	DefaultConcurrency    = 8
	DefaultTitleMatch     = "first"
	DefaultMoviesFile     = "movies.csv"
	DefaultCreditsFile    = "credits.csv"
)

// LoadFromFile loads cfgPath and fills in defaults.
// Relative data file paths in the settings are resolved against cfg_dir.
func LoadFromFile(cfgPath string) {
	gconfig.Shared.Set("cfg_dir", filepath.Dir(cfgPath))
	if err := gconfig.Shared.LoadFromFile(cfgPath); err != nil {
		log.Logger.Panic("load configuration",
			zap.Error(err),
			zap.String("config", cfgPath))
	}

	SetDefaults()
	log.Logger.Info("load configuration",
		zap.String("config", cfgPath))
}

// SetDefaults writes default values for every unset key.
func SetDefaults() {
	defaults := map[string]any{
		"settings.ingest.batch_size":      DefaultBatchSize,
		"settings.ingest.max_failures":    DefaultMaxJobFailures,
		"settings.ingest.movies_file":     DefaultMoviesFile,
		"settings.ingest.credits_file":    DefaultCreditsFile,
		"settings.analytics.concurrency":  DefaultConcurrency,
		"settings.analytics.title_match":  DefaultTitleMatch,
		"settings.db.movies.db":           "movies",
		"settings.jobs.redis.ttl_seconds": 86400,
	}
	for key, val := range defaults {
		if gconfig.Shared.Get(key) == nil {
			gconfig.Shared.Set(key, val)
		}
	}
}

// DataFile returns the configured path for key, resolved against cfg_dir when relative.
func DataFile(key string) string {
	p := gconfig.Shared.GetString(key)
	if p == "" || filepath.IsAbs(p) {
		return p
	}

	if dir := gconfig.Shared.GetString("cfg_dir"); dir != "" {
		return filepath.Join(dir, p)
	}

	return p
}
