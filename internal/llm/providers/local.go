// File path: internal/llm/providers/local.go
package providers

import (
	"context"
	"fmt"
	"strings"
)

// LocalProvider is an offline fallback used when no API key is configured.
// It performs literal placeholder substitution over the prompt's template and
// data sections, which keeps the full pipeline (including the verification
// pass) exercisable in development.
type LocalProvider struct{}

func NewLocalProvider() *LocalProvider {
	return &LocalProvider{}
}

const (
	// Section markers produced by the generation prompt builder.
	TemplateMarker = "=== TEMPLATE ==="
	DataMarker     = "=== CLIENT DATA ==="

	// NoDataMarker is the value sent for unresolved fields. The model must
	// not fabricate content for them, and neither does this provider.
	NoDataMarker = "[NO DATA AVAILABLE]"
)

func (l *LocalProvider) Chat(ctx context.Context, messages []Message) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(messages) == 0 {
		return "", fmt.Errorf("no messages provided: %w", ErrRejected)
	}
	prompt := messages[len(messages)-1].Content
	template, data := splitPrompt(prompt)
	if template == "" {
		return strings.TrimSpace(prompt), nil
	}
	filled := template
	for field, value := range data {
		if value == NoDataMarker {
			continue
		}
		filled = strings.ReplaceAll(filled, "{{"+field+"}}", value)
		filled = strings.ReplaceAll(filled, "{{ "+field+" }}", value)
	}
	return strings.TrimSpace(filled), nil
}

func (l *LocalProvider) Name() string {
	return "local"
}

func splitPrompt(prompt string) (string, map[string]string) {
	tIdx := strings.Index(prompt, TemplateMarker)
	dIdx := strings.Index(prompt, DataMarker)
	if tIdx < 0 || dIdx < 0 || dIdx < tIdx {
		return "", nil
	}
	template := strings.TrimSpace(prompt[tIdx+len(TemplateMarker) : dIdx])
	data := make(map[string]string)
	for _, line := range strings.Split(prompt[dIdx+len(DataMarker):], "\n") {
		field, value, ok := strings.Cut(line, " = ")
		if !ok {
			continue
		}
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		data[field] = strings.TrimSpace(value)
	}
	return template, data
}
