// File path: internal/llm/providers/provider.go
package providers

import "context"

// Message is one chat turn sent to a generative provider.
type Message struct {
	Role    string
	Content string
}

// Provider is the generative-model contract consumed by the document
// pipeline. Implementations classify their failures into the shared error
// taxonomy (ErrUnavailable, ErrRejected, ErrTimeout) so callers can decide
// retryability without knowing the provider.
type Provider interface {
	Chat(ctx context.Context, messages []Message) (string, error)
	Name() string
}
