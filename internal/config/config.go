// Package config defines the process configuration for the query service:
// where the graph snapshot loads from, default search-spec values, the
// worker-pool size, and metrics/log settings. No I/O or parsing logic
// lives here — only plain data types, defaults, and validation.
package config

import "fmt"

// GraphStoreConfig names where the graph snapshot loads from at process
// start: either a local path or a GCS object, never both.
type GraphStoreConfig struct {
	LocalPath string `mapstructure:"local_path" yaml:"local_path"`
	GCSBucket string `mapstructure:"gcs_bucket" yaml:"gcs_bucket"`
	GCSObject string `mapstructure:"gcs_object" yaml:"gcs_object"`
}

// DefaultsConfig holds the search-spec field defaults applied when a caller
// omits them (spec.New's defaultOrValue/defaultOrValueFloat inputs).
type DefaultsConfig struct {
	DepthLimit  int     `mapstructure:"depth_limit" yaml:"depth_limit"`
	KShortest   int     `mapstructure:"k_shortest" yaml:"k_shortest"`
	UserTimeout float64 `mapstructure:"user_timeout" yaml:"user_timeout"`
}

// ServerConfig holds process-level tunables: how many requests may run
// concurrently against the read-only graph store, and which port exposes
// Prometheus metrics.
type ServerConfig struct {
	WorkerPoolSize int `mapstructure:"worker_pool_size" yaml:"worker_pool_size"`
	MetricsPort    int `mapstructure:"metrics_port" yaml:"metrics_port"`
	QueryPort      int `mapstructure:"query_port" yaml:"query_port"`
}

// LogConfig holds structured-logging parameters.
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"` // "debug" | "info" | "warn" | "error"
	Local bool   `mapstructure:"local" yaml:"local"`
}

// Config is the root configuration structure for the query service.
type Config struct {
	GraphStore GraphStoreConfig `mapstructure:"graph_store" yaml:"graph_store"`
	Defaults   DefaultsConfig   `mapstructure:"defaults" yaml:"defaults"`
	Server     ServerConfig     `mapstructure:"server" yaml:"server"`
	Log        LogConfig        `mapstructure:"log" yaml:"log"`
}

// Default returns a Config with sensible defaults for local development: a
// local graph-store path, the search-spec defaults named in spec.md, an
// eight-worker pool, and info-level logging.
func Default() *Config {
	return &Config{
		GraphStore: GraphStoreConfig{LocalPath: "./graph.snapshot"},
		Defaults:   DefaultsConfig{DepthLimit: 2, KShortest: 50, UserTimeout: 30},
		Server:     ServerConfig{WorkerPoolSize: 8, MetricsPort: 2223, QueryPort: 8080},
		Log:        LogConfig{Level: "info"},
	}
}

// Validate performs semantic validation of a fully-populated Config. Only
// the subset of fields ApplyHotReload can safely change at runtime may be
// re-validated by Watch without a restart.
func (c *Config) Validate() error {
	if c.GraphStore.LocalPath == "" && (c.GraphStore.GCSBucket == "" || c.GraphStore.GCSObject == "") {
		return fmt.Errorf("config: graph_store requires either local_path or both gcs_bucket and gcs_object")
	}
	if c.GraphStore.LocalPath != "" && c.GraphStore.GCSBucket != "" {
		return fmt.Errorf("config: graph_store.local_path and graph_store.gcs_bucket are mutually exclusive")
	}
	if c.Defaults.DepthLimit < 0 {
		return fmt.Errorf("config: defaults.depth_limit must be >= 0, got %d", c.Defaults.DepthLimit)
	}
	if c.Defaults.KShortest < 1 {
		return fmt.Errorf("config: defaults.k_shortest must be >= 1, got %d", c.Defaults.KShortest)
	}
	if c.Defaults.UserTimeout < 0 {
		return fmt.Errorf("config: defaults.user_timeout must be >= 0, got %g", c.Defaults.UserTimeout)
	}
	if c.Server.WorkerPoolSize < 1 {
		return fmt.Errorf("config: server.worker_pool_size must be >= 1, got %d", c.Server.WorkerPoolSize)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	return nil
}

// ApplyHotReload copies next's worker-pool size and log level onto c. The
// log level takes effect once the caller re-applies it to the logger (serve
// does); the worker-pool size only updates c, and a server.Server keeps the
// concurrency bound it was built with.
func (c *Config) ApplyHotReload(next *Config) {
	c.Server.WorkerPoolSize = next.Server.WorkerPoolSize
	c.Log.Level = next.Log.Level
}
