// File path: internal/generate/types.go
package generate

import "github.com/belriyad/docgen/internal/mapping"

// Status classifies one template's pipeline outcome.
type Status string

const (
	StatusSuccess              Status = "success"
	StatusExtractionFailed     Status = "extraction_failed"
	StatusProviderUnavailable  Status = "provider_unavailable"
	StatusProviderRejected     Status = "provider_rejected"
	StatusProviderTimeout      Status = "provider_timeout"
	StatusVerificationMismatch Status = "verification_mismatch"
	StatusAssemblyFailed       Status = "assembly_failed"
	StatusPersistenceFailed    Status = "persistence_failed"
	StatusInProgress           Status = "generation_in_progress"
	StatusTimeout              Status = "timeout"
)

// TemplateOutcome is the per-template ledger entry of a batch. A template
// either carries an artifact identifier or a human-readable failure reason.
type TemplateOutcome struct {
	TemplateID   string             `json:"template_id"`
	TemplateName string             `json:"template_name"`
	Status       Status             `json:"status"`
	ArtifactID   string             `json:"artifact_id,omitempty"`
	Error        string             `json:"error,omitempty"`
	Mapping      mapping.Stats       `json:"mapping"`
	Verification *VerificationReport `json:"verification,omitempty"`
}

// Succeeded reports whether the outcome produced an artifact.
func (o TemplateOutcome) Succeeded() bool {
	return o.Status == StatusSuccess
}

// BatchResult aggregates one generateDocuments call. Counts are always
// computed from the per-template ledger, never inferred from logs.
type BatchResult struct {
	IntakeID    string            `json:"intake_id"`
	ArtifactIDs []string          `json:"artifact_ids"`
	Outcomes    []TemplateOutcome `json:"outcomes"`
	Total       int               `json:"total"`
	Succeeded   int               `json:"succeeded"`
	Failed      int               `json:"failed"`
	Regenerated int               `json:"regenerated,omitempty"`
}

func (b *BatchResult) tally() {
	b.Total = len(b.Outcomes)
	b.Succeeded = 0
	b.Failed = 0
	b.ArtifactIDs = b.ArtifactIDs[:0]
	for _, outcome := range b.Outcomes {
		if outcome.Succeeded() {
			b.Succeeded++
			b.ArtifactIDs = append(b.ArtifactIDs, outcome.ArtifactID)
			continue
		}
		b.Failed++
	}
}
