// File path: internal/generate/config.go
package generate

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config tunes the generation pipeline. It is passed explicitly into the
// orchestrator at construction; the pipeline reads no ambient globals.
type Config struct {
	// Concurrency bounds how many template pipelines run at once within a
	// single generation request.
	Concurrency int

	// ProviderRetries is the maximum number of additional attempts after a
	// retryable provider failure.
	ProviderRetries int

	// RetryBackoff is the base delay between provider retries; attempt n
	// waits n times this value.
	RetryBackoff time.Duration

	// ProviderRate caps provider calls per second across the pipeline.
	ProviderRate float64

	// OverallTimeout bounds one whole generateDocuments call. In-flight
	// templates past the deadline are recorded as timed out; completed
	// outcomes are still returned.
	OverallTimeout time.Duration

	// MaxDocumentBytes caps the assembled document size.
	MaxDocumentBytes int
}

func (c Config) Merge(override Config) Config {
	result := c
	if override.Concurrency > 0 {
		result.Concurrency = override.Concurrency
	}
	if override.ProviderRetries > 0 {
		result.ProviderRetries = override.ProviderRetries
	}
	if override.RetryBackoff > 0 {
		result.RetryBackoff = override.RetryBackoff
	}
	if override.ProviderRate > 0 {
		result.ProviderRate = override.ProviderRate
	}
	if override.OverallTimeout > 0 {
		result.OverallTimeout = override.OverallTimeout
	}
	if override.MaxDocumentBytes > 0 {
		result.MaxDocumentBytes = override.MaxDocumentBytes
	}
	return result
}

// DefaultConfig returns the standard pipeline tuning.
func DefaultConfig() Config {
	return Config{
		Concurrency:      3,
		ProviderRetries:  2,
		RetryBackoff:     500 * time.Millisecond,
		ProviderRate:     2,
		OverallTimeout:   5 * time.Minute,
		MaxDocumentBytes: 4 << 20,
	}
}

// LoadConfig resolves pipeline configuration from DOCGEN_* environment
// variables over the defaults.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()
	if value := strings.TrimSpace(os.Getenv("DOCGEN_CONCURRENCY")); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return Config{}, fmt.Errorf("parse DOCGEN_CONCURRENCY: %w", err)
		}
		if parsed > 0 {
			cfg.Concurrency = parsed
		}
	}
	if value := strings.TrimSpace(os.Getenv("DOCGEN_PROVIDER_RETRIES")); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return Config{}, fmt.Errorf("parse DOCGEN_PROVIDER_RETRIES: %w", err)
		}
		if parsed >= 0 {
			cfg.ProviderRetries = parsed
		}
	}
	if value := strings.TrimSpace(os.Getenv("DOCGEN_RETRY_BACKOFF")); value != "" {
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return Config{}, fmt.Errorf("parse DOCGEN_RETRY_BACKOFF: %w", err)
		}
		if parsed > 0 {
			cfg.RetryBackoff = parsed
		}
	}
	if value := strings.TrimSpace(os.Getenv("DOCGEN_PROVIDER_RATE")); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return Config{}, fmt.Errorf("parse DOCGEN_PROVIDER_RATE: %w", err)
		}
		if parsed > 0 {
			cfg.ProviderRate = parsed
		}
	}
	if value := strings.TrimSpace(os.Getenv("DOCGEN_OVERALL_TIMEOUT")); value != "" {
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return Config{}, fmt.Errorf("parse DOCGEN_OVERALL_TIMEOUT: %w", err)
		}
		if parsed > 0 {
			cfg.OverallTimeout = parsed
		}
	}
	if value := strings.TrimSpace(os.Getenv("DOCGEN_MAX_DOCUMENT_BYTES")); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return Config{}, fmt.Errorf("parse DOCGEN_MAX_DOCUMENT_BYTES: %w", err)
		}
		if parsed > 0 {
			cfg.MaxDocumentBytes = parsed
		}
	}
	return cfg, nil
}
