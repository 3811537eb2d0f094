// File path: internal/generate/config_test.go
package generate

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{
		"DOCGEN_CONCURRENCY", "DOCGEN_PROVIDER_RETRIES", "DOCGEN_RETRY_BACKOFF",
		"DOCGEN_PROVIDER_RATE", "DOCGEN_OVERALL_TIMEOUT", "DOCGEN_MAX_DOCUMENT_BYTES",
	} {
		t.Setenv(key, "")
	}
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	want := DefaultConfig()
	if cfg != want {
		t.Fatalf("expected defaults %+v, got %+v", want, cfg)
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("DOCGEN_CONCURRENCY", "5")
	t.Setenv("DOCGEN_PROVIDER_RETRIES", "4")
	t.Setenv("DOCGEN_RETRY_BACKOFF", "250ms")
	t.Setenv("DOCGEN_PROVIDER_RATE", "10")
	t.Setenv("DOCGEN_OVERALL_TIMEOUT", "90s")
	t.Setenv("DOCGEN_MAX_DOCUMENT_BYTES", "1048576")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Concurrency != 5 || cfg.ProviderRetries != 4 {
		t.Fatalf("override lost: %+v", cfg)
	}
	if cfg.RetryBackoff != 250*time.Millisecond || cfg.OverallTimeout != 90*time.Second {
		t.Fatalf("duration override lost: %+v", cfg)
	}
	if cfg.ProviderRate != 10 || cfg.MaxDocumentBytes != 1<<20 {
		t.Fatalf("override lost: %+v", cfg)
	}
}

func TestLoadConfigRejectsBadDuration(t *testing.T) {
	t.Setenv("DOCGEN_RETRY_BACKOFF", "soon")
	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error for invalid backoff")
	}
}

func TestConfigMergeKeepsBaseForZeroOverrides(t *testing.T) {
	base := DefaultConfig()
	merged := base.Merge(Config{Concurrency: 7})
	if merged.Concurrency != 7 {
		t.Fatalf("override lost: %+v", merged)
	}
	if merged.ProviderRetries != base.ProviderRetries || merged.RetryBackoff != base.RetryBackoff {
		t.Fatalf("zero overrides must keep base values: %+v", merged)
	}
}
