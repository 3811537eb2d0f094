// File path: internal/generate/producer.go
package generate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/belriyad/docgen/internal/common"
	"github.com/belriyad/docgen/internal/llm"
	"github.com/belriyad/docgen/internal/llm/providers"
	"github.com/belriyad/docgen/internal/mapping"
)

const producerSystemPrompt = "You populate legal and business document templates with client data. " +
	"Substitute each provided client value where its field appears in the template, " +
	"preserve every non-substituted sentence of the template unchanged, and never " +
	"invent a value for a field marked " + providers.NoDataMarker + ". " +
	"Return only the completed document text."

// Producer drives the generative-model provider: it builds the fill prompt,
// rate-limits outbound calls, and retries retryable failures with bounded
// backoff.
type Producer struct {
	provider llm.Provider
	limiter  *rate.Limiter
	retries  int
	backoff  time.Duration
}

// NewProducer wires a Producer from pipeline configuration.
func NewProducer(provider llm.Provider, cfg Config) *Producer {
	cfg = DefaultConfig().Merge(cfg)
	burst := cfg.Concurrency
	if burst < 1 {
		burst = 1
	}
	return &Producer{
		provider: provider,
		limiter:  rate.NewLimiter(rate.Limit(cfg.ProviderRate), burst),
		retries:  cfg.ProviderRetries,
		backoff:  cfg.RetryBackoff,
	}
}

// Generate sends the extracted template text and resolved mapping to the
// provider and returns the filled document text.
func (p *Producer) Generate(ctx context.Context, templateText string, resolved []mapping.Resolved, templateName string) (string, error) {
	logger := common.Logger()
	prompt := buildPrompt(templateText, resolved, templateName)
	messages := []llm.Message{
		{Role: "system", Content: producerSystemPrompt},
		{Role: "user", Content: prompt},
	}

	timeoutRetried := false
	for attempt := 0; ; attempt++ {
		if err := p.limiter.Wait(ctx); err != nil {
			return "", err
		}
		text, err := p.provider.Chat(ctx, messages)
		if err == nil {
			if strings.TrimSpace(text) == "" {
				return "", fmt.Errorf("provider returned empty document: %w", llm.ErrRejected)
			}
			return text, nil
		}
		switch {
		case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
			return "", err
		case errors.Is(err, llm.ErrRejected):
			return "", err
		case errors.Is(err, llm.ErrTimeout):
			if timeoutRetried {
				return "", err
			}
			timeoutRetried = true
		case errors.Is(err, llm.ErrUnavailable):
			if attempt >= p.retries {
				return "", err
			}
		default:
			return "", err
		}
		delay := p.backoff * time.Duration(attempt+1)
		logger.Warn("generate: provider call failed, retrying",
			"template", templateName, "attempt", attempt+1, "delay", delay, "error", err)
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(delay):
		}
	}
}

// buildPrompt serializes the template text verbatim followed by the resolved
// field values. Unresolved fields are sent with an explicit no-data marker so
// the model cannot silently fabricate them.
func buildPrompt(templateText string, resolved []mapping.Resolved, templateName string) string {
	var builder strings.Builder
	builder.WriteString("Document: ")
	builder.WriteString(strings.TrimSpace(templateName))
	builder.WriteString("\n\n")
	builder.WriteString(providers.TemplateMarker)
	builder.WriteString("\n")
	builder.WriteString(templateText)
	builder.WriteString("\n")
	builder.WriteString(providers.DataMarker)
	builder.WriteString("\n")
	for _, field := range resolved {
		builder.WriteString(field.Field)
		builder.WriteString(" = ")
		if field.Strategy == mapping.StrategyUnmatched || strings.TrimSpace(field.Value) == "" {
			builder.WriteString(providers.NoDataMarker)
		} else {
			builder.WriteString(field.Value)
		}
		builder.WriteString("\n")
	}
	return builder.String()
}
