// File path: internal/api/types.go
package api

import (
	"github.com/belriyad/docgen/internal/generate"
	"github.com/belriyad/docgen/internal/store"
)

type serviceCreateRequest struct {
	Name        string   `json:"name"`
	TemplateIDs []string `json:"template_ids"`
}

type serviceResponse struct {
	Service   store.Service    `json:"service"`
	Templates []store.Template `json:"templates,omitempty"`
}

type intakeCreateRequest struct {
	ServiceID string `json:"service_id"`
}

type intakeDataRequest struct {
	Data map[string]string `json:"data"`
}

type generateRequest struct {
	Regenerate bool `json:"regenerate"`
}

type templateUploadResponse struct {
	Template store.Template `json:"template"`
	Fields   int            `json:"fields"`
}

type artifactsResponse struct {
	IntakeID  string           `json:"intake_id"`
	Artifacts []store.Artifact `json:"artifacts"`
}

type batchResponse = generate.BatchResult
