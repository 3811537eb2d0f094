// File path: internal/generate/errors.go
package generate

import "errors"

var (
	// ErrAssemblyFailed marks input text the assembler cannot turn into a
	// document (empty, or over the configured size cap). Non-retryable.
	ErrAssemblyFailed = errors.New("assembly failed")

	// ErrGenerationInProgress is returned when a second generation is
	// requested for an (intake, template) pair that already has one in
	// flight.
	ErrGenerationInProgress = errors.New("generation already in progress")

	// ErrVerificationMismatch marks generated text that does not contain
	// one or more of the resolved client values. The attempt is recorded
	// as a failure, never as success.
	ErrVerificationMismatch = errors.New("generated document missing resolved client data")

	// ErrPersistenceFailed wraps storage-layer failures from the catalog
	// or the blob store.
	ErrPersistenceFailed = errors.New("persistence failed")

	// ErrIntakeNotSubmitted is returned when generation is requested for
	// an intake still in its drafting state.
	ErrIntakeNotSubmitted = errors.New("intake not submitted")
)
