package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadReadsYAMLAndAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := []byte("graph_store:\n  local_path: /tmp/graph.snapshot\nserver:\n  worker_pool_size: 16\n")
	if err := os.WriteFile(path, yaml, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if cfg.GraphStore.LocalPath != "/tmp/graph.snapshot" {
		t.Errorf("LocalPath = %q, want /tmp/graph.snapshot", cfg.GraphStore.LocalPath)
	}
	if cfg.Server.WorkerPoolSize != 16 {
		t.Errorf("WorkerPoolSize = %d, want 16 (from file)", cfg.Server.WorkerPoolSize)
	}
	if cfg.Defaults.KShortest != Default().Defaults.KShortest {
		t.Errorf("KShortest = %d, want default %d (unset in file)", cfg.Defaults.KShortest, Default().Defaults.KShortest)
	}
}

func TestLoadFromEnvOverridesDefaults(t *testing.T) {
	t.Setenv("NETSEARCH_DEFAULTS_K_SHORTEST", "99")
	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() returned error: %v", err)
	}
	if cfg.Defaults.KShortest != 99 {
		t.Errorf("KShortest = %d, want 99 (from env)", cfg.Defaults.KShortest)
	}
}

func TestMustLoadPanicsOnMissingFile(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustLoad() should panic when the config file does not exist")
		}
	}()
	MustLoad(filepath.Join(t.TempDir(), "missing.yaml"))
}
