package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

const envPrefix = "NETSEARCH"

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	applyDefaults(v)
	return v
}

func applyDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("graph_store.local_path", d.GraphStore.LocalPath)
	v.SetDefault("graph_store.gcs_bucket", d.GraphStore.GCSBucket)
	v.SetDefault("graph_store.gcs_object", d.GraphStore.GCSObject)
	v.SetDefault("defaults.depth_limit", d.Defaults.DepthLimit)
	v.SetDefault("defaults.k_shortest", d.Defaults.KShortest)
	v.SetDefault("defaults.user_timeout", d.Defaults.UserTimeout)
	v.SetDefault("server.worker_pool_size", d.Server.WorkerPoolSize)
	v.SetDefault("server.metrics_port", d.Server.MetricsPort)
	v.SetDefault("server.query_port", d.Server.QueryPort)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.local", d.Log.Local)
}

func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load reads configuration from the YAML file at path, overlaying
// NETSEARCH_-prefixed environment variables, and validates the result.
func Load(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return unmarshalAndFinalize(v)
}

// LoadFromEnv builds a Config purely from defaults and NETSEARCH_-prefixed
// environment variables, without reading a file.
func LoadFromEnv() (*Config, error) {
	return unmarshalAndFinalize(newViper())
}

// MustLoad calls Load and panics on error. Intended for use at process
// start, where a malformed config should prevent the service from serving.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}
	return cfg
}

// Watch reads the file at path, invoking onChange with a freshly validated
// Config whenever it changes on disk. Only the ApplyHotReload subset of
// fields is safe for onChange to apply without a restart; callers that need
// a full restart on other field changes should detect that themselves by
// diffing against the previous Config.
func Watch(path string, onChange func(*Config)) error {
	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	v.OnConfigChange(func(e fsnotify.Event) {
		cfg, err := unmarshalAndFinalize(v)
		if err != nil {
			slog.Error("config: reload failed, keeping previous config", "path", e.Name, "error", err)
			return
		}
		onChange(cfg)
	})
	v.WatchConfig()
	return nil
}
