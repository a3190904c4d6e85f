// Package config defines process configuration and its loading hooks.
package config

import (
	"context"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the local API listen address. Loopback by default.
	Addr string `koanf:"addr"`

	// DBPath is the SQLite database file holding all records.
	DBPath string `koanf:"db_path"`

	// BackupVersion is written into exported backup documents.
	BackupVersion string `koanf:"backup_version"`

	// BusyTimeoutMS is how long SQLite waits on a locked database.
	BusyTimeoutMS int `koanf:"busy_timeout_ms"`

	// MetricsLabels are constant labels added to every exported metric.
	MetricsLabels map[string]string `koanf:"metrics_labels"`

	// ScoreBuckets overrides the overall score histogram buckets. Must be increasing.
	ScoreBuckets []float64 `koanf:"score_buckets"`
}

// New creates a Config holding the defaults.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:      "info",
		LogFormat:     "text",
		Addr:          "127.0.0.1:9080",
		DBPath:        "architect.db",
		BackupVersion: "2.0.2",
		BusyTimeoutMS: 5000,
	}
}
