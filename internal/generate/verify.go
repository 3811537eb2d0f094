// File path: internal/generate/verify.go
package generate

import (
	"fmt"
	"strings"

	"github.com/belriyad/docgen/internal/mapping"
)

// VerificationStatus is the first-class outcome of the post-generation check.
type VerificationStatus string

const (
	// Verified: every resolved, non-empty value appears in the document.
	Verified VerificationStatus = "verified"
	// Unverified: no resolved values existed, so there was nothing to
	// check.
	Unverified VerificationStatus = "unverified"
	// Mismatch: at least one resolved value is missing from the document.
	Mismatch VerificationStatus = "mismatch"
)

// FieldCheck reports whether one resolved value made it into the document.
type FieldCheck struct {
	Field    string `json:"field"`
	Value    string `json:"value"`
	Inserted bool   `json:"inserted"`
}

// VerificationReport is the result of checking generated text against the
// resolved mapping.
type VerificationReport struct {
	Status VerificationStatus `json:"status"`
	Checks []FieldCheck       `json:"checks,omitempty"`
}

// Inserted counts the checks that found their value in the document.
func (r VerificationReport) Inserted() int {
	count := 0
	for _, check := range r.Checks {
		if check.Inserted {
			count++
		}
	}
	return count
}

// Verify confirms that each resolved field's value (in normalized form)
// appears in the generated text. A generation attempt whose resolved values
// never reached the document is a failure regardless of how cleanly the
// provider call completed.
func Verify(filledText string, resolved []mapping.Resolved) (VerificationReport, error) {
	normalizedDoc := normalizeForSearch(filledText)
	report := VerificationReport{Status: Unverified}
	missing := 0
	for _, field := range resolved {
		if field.Strategy == mapping.StrategyUnmatched || strings.TrimSpace(field.Value) == "" {
			continue
		}
		inserted := strings.Contains(normalizedDoc, normalizeForSearch(field.Value))
		if !inserted {
			missing++
		}
		report.Checks = append(report.Checks, FieldCheck{Field: field.Field, Value: field.Value, Inserted: inserted})
	}
	if len(report.Checks) == 0 {
		return report, nil
	}
	if missing > 0 {
		report.Status = Mismatch
		return report, fmt.Errorf("%d of %d resolved values absent from generated text: %w",
			missing, len(report.Checks), ErrVerificationMismatch)
	}
	report.Status = Verified
	return report, nil
}

// normalizeForSearch lowercases and collapses runs of whitespace so that
// line wrapping or spacing introduced by the model does not defeat the check.
func normalizeForSearch(text string) string {
	return strings.ToLower(strings.Join(strings.Fields(text), " "))
}
