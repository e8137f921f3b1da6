package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("RESEARCHMATE_API_ADDR", "")
	t.Setenv("RESEARCHMATE_PROVIDERS", "")
	cfg := Load("does-not-exist.yaml")
	if cfg.APIAddr != ":8080" {
		t.Fatalf("unexpected default addr: %q", cfg.APIAddr)
	}
	if cfg.Providers != "mock" {
		t.Fatalf("unexpected default providers: %q", cfg.Providers)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("RESEARCHMATE_PROVIDERS", "gemini|mock")
	t.Setenv("RESEARCHMATE_GENERATE_RATE", "5")
	cfg := Load("does-not-exist.yaml")
	if cfg.Providers != "gemini|mock" {
		t.Fatalf("env override ignored: %q", cfg.Providers)
	}
	if cfg.GenerateRate != 5 {
		t.Fatalf("rate override ignored: %v", cfg.GenerateRate)
	}
}

func TestLoadBadRateFallsBack(t *testing.T) {
	t.Setenv("RESEARCHMATE_GENERATE_RATE", "-1")
	cfg := Load("does-not-exist.yaml")
	if cfg.GenerateRate <= 0 {
		t.Fatalf("non-positive rate must fall back, got %v", cfg.GenerateRate)
	}
}
