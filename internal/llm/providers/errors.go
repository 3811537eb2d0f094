// File path: internal/llm/providers/errors.go
package providers

import "errors"

var (
	// ErrUnavailable marks outages and rate limits. Retryable with bounded
	// backoff.
	ErrUnavailable = errors.New("provider unavailable")

	// ErrRejected marks malformed requests and policy refusals. Not
	// retryable.
	ErrRejected = errors.New("provider rejected request")

	// ErrTimeout marks a request that exceeded its deadline. Retryable
	// once.
	ErrTimeout = errors.New("provider timed out")
)
