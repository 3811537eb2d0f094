// File path: internal/store/types.go
package store

import "time"

// Intake lifecycle states. An intake is created as a draft when its link is
// issued, accepts partial saves while drafting, and transitions to submitted
// once the client finalizes the form. Completed marks an intake whose
// documents have been generated at least once; regeneration remains allowed.
const (
	IntakeStatusDraft     = "draft"
	IntakeStatusSubmitted = "submitted"
	IntakeStatusCompleted = "completed"
)

// Template formats accepted at upload time.
const (
	FormatDocx = "docx"
	FormatPDF  = "pdf"
)

// Service groups the templates offered to a client as a single engagement.
type Service struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Template is an uploaded document definition. Fields are populated once by
// the parsing step at upload time and are immutable afterwards; a re-upload
// supersedes the whole record.
type Template struct {
	ID        string          `db:"id" json:"id"`
	Name      string          `db:"name" json:"name"`
	BlobPath  string          `db:"blob_path" json:"blob_path"`
	Format    string          `db:"format" json:"format"`
	Fields    []TemplateField `db:"-" json:"fields,omitempty"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt time.Time       `db:"updated_at" json:"updated_at"`
}

// TemplateField is one inferred fillable field of a template.
type TemplateField struct {
	Name     string `db:"name" json:"name"`
	TypeHint string `db:"type_hint" json:"type_hint,omitempty"`
	Label    string `db:"label" json:"label,omitempty"`
	Position int    `db:"position" json:"position"`
}

// Intake is one client's data-collection session tied to exactly one service.
type Intake struct {
	ID          string            `db:"id" json:"id"`
	ServiceID   string            `db:"service_id" json:"service_id"`
	Status      string            `db:"status" json:"status"`
	ClientData  map[string]string `db:"-" json:"client_data,omitempty"`
	CreatedAt   time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time         `db:"updated_at" json:"updated_at"`
	SubmittedAt *time.Time        `db:"submitted_at" json:"submitted_at,omitempty"`
}

// Artifact records the output of one (template, intake) generation.
type Artifact struct {
	ID           string    `db:"id" json:"id"`
	IntakeID     string    `db:"intake_id" json:"intake_id"`
	TemplateID   string    `db:"template_id" json:"template_id"`
	BlobPath     string    `db:"blob_path" json:"blob_path"`
	GeneratedAt  time.Time `db:"generated_at" json:"generated_at"`
	Succeeded    bool      `db:"succeeded" json:"succeeded"`
	ErrorMessage string    `db:"error_message" json:"error_message,omitempty"`
}
