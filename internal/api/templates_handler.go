// File path: internal/api/templates_handler.go
package api

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	chi "github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/belriyad/docgen/internal/common"
	"github.com/belriyad/docgen/internal/extract"
	"github.com/belriyad/docgen/internal/store"
)

// handleTemplateUpload accepts a multipart form with a "file" part and
// optional "name" and "format" values. The template text is extracted
// immediately so field inference happens exactly once, at upload time.
func (s *Server) handleTemplateUpload(w http.ResponseWriter, r *http.Request) {
	logger := common.Logger()
	ctx := r.Context()
	const maxMemory = 32 << 20 // 32 MiB of in-memory file parts
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		logger.Warn("api: template upload form parse failed", "error", err)
		writeError(w, http.StatusBadRequest, fmt.Errorf("failed to parse upload form: %w", err))
		return
	}
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("file part required: %w", err))
		return
	}
	defer file.Close()

	buffer, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Errorf("read upload: %w", err))
		return
	}
	if len(buffer) == 0 {
		writeError(w, http.StatusBadRequest, fmt.Errorf("uploaded file is empty"))
		return
	}

	formatTag := strings.TrimSpace(r.FormValue("format"))
	if formatTag == "" {
		formatTag = strings.TrimPrefix(filepath.Ext(header.Filename), ".")
	}
	format, err := extract.ParseFormat(formatTag)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	if name == "" {
		name = strings.TrimSuffix(header.Filename, filepath.Ext(header.Filename))
	}
	if name == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("template name required"))
		return
	}

	text, err := extract.Extract(buffer, format)
	if err != nil {
		logger.Warn("api: template extraction failed", "name", name, "error", err)
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	inferred := extract.InferFields(text)

	templateID := uuid.NewString()
	blobPath := fmt.Sprintf("templates/%s.%s", templateID, format)
	if _, err := s.blobs.Upload(ctx, blobPath, buffer); err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Errorf("store template: %w", err))
		return
	}

	fields := make([]store.TemplateField, len(inferred))
	for i, field := range inferred {
		fields[i] = store.TemplateField{
			Name:     field.Name,
			TypeHint: field.TypeHint,
			Label:    field.Label,
			Position: i,
		}
	}
	now := time.Now().UTC()
	tmpl := store.Template{
		ID:        templateID,
		Name:      name,
		BlobPath:  blobPath,
		Format:    string(format),
		Fields:    fields,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.CreateTemplate(ctx, tmpl); err != nil {
		// Best effort: do not leave an orphaned binary behind the failed row.
		_ = s.blobs.Delete(ctx, blobPath)
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	logger.Info("api: template uploaded",
		"template", templateID, "name", name, "format", format, "fields", len(fields))
	writeJSON(w, http.StatusCreated, templateUploadResponse{Template: tmpl, Fields: len(fields)})
}

func (s *Server) handleTemplateList(w http.ResponseWriter, r *http.Request) {
	templates, err := s.store.ListTemplates(r.Context())
	if err != nil {
		writeError(w, statusForError(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"templates": templates})
}

func (s *Server) handleTemplateGet(w http.ResponseWriter, r *http.Request) {
	tmpl, err := s.store.GetTemplate(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, statusForError(err), err)
		return
	}
	writeJSON(w, http.StatusOK, tmpl)
}

func (s *Server) handleTemplateDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")
	tmpl, err := s.store.GetTemplate(ctx, id)
	if err != nil {
		writeError(w, statusForError(err), err)
		return
	}
	if err := s.store.DeleteTemplate(ctx, id); err != nil {
		writeError(w, statusForError(err), err)
		return
	}
	if err := s.blobs.Delete(ctx, tmpl.BlobPath); err != nil {
		common.Logger().Warn("api: template blob delete failed", "template", id, "error", err)
	}
	writeJSON(w, http.StatusOK, map[string]string{"deleted": id})
}
