package config

import "testing"

func TestDefaultValidates(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("Default() should validate cleanly, got: %v", err)
	}
}

func TestValidateRejectsMissingGraphStore(t *testing.T) {
	cfg := Default()
	cfg.GraphStore = GraphStoreConfig{}
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() should reject a config with no graph-store source")
	}
}

func TestValidateRejectsConflictingGraphStoreSources(t *testing.T) {
	cfg := Default()
	cfg.GraphStore.GCSBucket = "bucket"
	cfg.GraphStore.GCSObject = "object"
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() should reject local_path and gcs_bucket set together")
	}
}

func TestValidateRejectsBadLogLevel(t *testing.T) {
	cfg := Default()
	cfg.Log.Level = "verbose"
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() should reject an unrecognized log level")
	}
}

func TestApplyHotReloadOnlyTouchesSafeFields(t *testing.T) {
	cfg := Default()
	next := Default()
	next.Server.WorkerPoolSize = 32
	next.Log.Level = "debug"
	next.GraphStore.LocalPath = "/should/not/apply"

	cfg.ApplyHotReload(next)

	if cfg.Server.WorkerPoolSize != 32 {
		t.Errorf("WorkerPoolSize = %d, want 32", cfg.Server.WorkerPoolSize)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug", cfg.Log.Level)
	}
	if cfg.GraphStore.LocalPath == "/should/not/apply" {
		t.Error("ApplyHotReload must not touch GraphStore fields")
	}
}
