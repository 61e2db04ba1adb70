package config

import (
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != "8080" {
		t.Errorf("port = %q, want 8080", cfg.Server.Port)
	}
	if len(cfg.Data.DefaultSentinels) != 1 || cfg.Data.DefaultSentinels[0] != 9999 {
		t.Errorf("sentinels = %v, want [9999]", cfg.Data.DefaultSentinels)
	}
	if cfg.Stats.Shuffles != 400 || cfg.Stats.Seed != 42 {
		t.Errorf("stats = %+v, want 400 shuffles, seed 42", cfg.Stats)
	}
}

func TestLoadSentinelsFromEnv(t *testing.T) {
	t.Setenv("DEFAULT_SENTINELS", "9999, -1, 0")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []float64{9999, -1, 0}
	if len(cfg.Data.DefaultSentinels) != len(want) {
		t.Fatalf("sentinels = %v, want %v", cfg.Data.DefaultSentinels, want)
	}
	for i := range want {
		if cfg.Data.DefaultSentinels[i] != want[i] {
			t.Errorf("sentinel %d = %v, want %v", i, cfg.Data.DefaultSentinels[i], want[i])
		}
	}
}

func TestLoadRejectsBadConfig(t *testing.T) {
	t.Run("malformed sentinels", func(t *testing.T) {
		t.Setenv("DEFAULT_SENTINELS", "9999,abc")
		if _, err := Load(); err == nil {
			t.Error("malformed sentinel list must fail")
		}
	})
	t.Run("non-positive shuffles", func(t *testing.T) {
		t.Setenv("PERMUTATION_SHUFFLES", "0")
		if _, err := Load(); err == nil {
			t.Error("zero shuffles must fail")
		}
	})
}
