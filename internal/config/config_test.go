package config

import (
	"os"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	for _, key := range []string{
		"PRIMENEST_HTTP_ADDR", "PRIMENEST_STORAGE_DRIVER", "PRIMENEST_LATENCY",
		"PRIMENEST_ON_401", "PRIMENEST_SEED", "PRIMENEST_REDIS_DB", "PRIMENEST_S3_PATH_STYLE",
	} {
		t.Setenv(key, "")
	}
	cfg := Load()
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("addr = %q", cfg.HTTPAddr)
	}
	if cfg.Storage.Driver != "fs" {
		t.Fatalf("driver = %q", cfg.Storage.Driver)
	}
	if cfg.Latency != 100*time.Millisecond || cfg.LogoutLatency != 50*time.Millisecond {
		t.Fatalf("unexpected latencies %v %v", cfg.Latency, cfg.LogoutLatency)
	}
	if !cfg.Seed {
		t.Fatalf("seeding should default on")
	}
	if cfg.Passthrough.On401 != "throw" {
		t.Fatalf("on401 = %q", cfg.Passthrough.On401)
	}
}

func TestLoadOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("PRIMENEST_STORAGE_DRIVER", "redis")
	t.Setenv("PRIMENEST_REDIS_DB", "3")
	t.Setenv("PRIMENEST_LATENCY", "0s")
	t.Setenv("PRIMENEST_SEED", "false")
	t.Setenv("PRIMENEST_S3_PATH_STYLE", "TRUE")
	t.Setenv("PRIMENEST_PASSTHROUGH_TIMEOUT", "not-a-duration")

	cfg := Load()
	if cfg.Storage.Driver != "redis" || cfg.Storage.Redis.DB != 3 {
		t.Fatalf("unexpected storage %+v", cfg.Storage)
	}
	if cfg.Latency != 0 {
		t.Fatalf("latency = %v", cfg.Latency)
	}
	if cfg.Seed {
		t.Fatalf("seed should be disabled")
	}
	if !cfg.Storage.S3.PathStyle {
		t.Fatalf("path style should parse case-insensitively")
	}
	if cfg.Passthrough.Timeout != 10*time.Second {
		t.Fatalf("invalid duration should fall back to default, got %v", cfg.Passthrough.Timeout)
	}
}

// chdir changes the working directory for the duration of the test.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatalf("restore cwd: %v", err)
		}
	})
}
