// File path: internal/api/generate_handler.go
package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	chi "github.com/go-chi/chi/v5"

	"github.com/belriyad/docgen/internal/common"
)

// handleGenerate runs the full generation batch for an intake. Regeneration
// can be requested either in the JSON body or as a query parameter; both
// delete every existing artifact before producing fresh ones.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	logger := common.Logger()
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	var req generateRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
			writeError(w, http.StatusBadRequest, err)
			return
		}
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("regenerate")); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid regenerate flag: %w", err))
			return
		}
		req.Regenerate = parsed
	}

	logger.Info("api: generation requested", "intake", id, "regenerate", req.Regenerate)
	result, err := s.orchestrator.GenerateDocuments(ctx, id, req.Regenerate)
	if err != nil {
		writeError(w, statusForError(err), err)
		return
	}
	writeJSON(w, http.StatusOK, batchResponse(result))
}

func (s *Server) handleArtifactList(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	artifacts, err := s.store.ListArtifacts(r.Context(), id)
	if err != nil {
		writeError(w, statusForError(err), err)
		return
	}
	writeJSON(w, http.StatusOK, artifactsResponse{IntakeID: id, Artifacts: artifacts})
}

// handleArtifactDownload streams the generated document back to the caller.
func (s *Server) handleArtifactDownload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")
	artifact, err := s.store.GetArtifact(ctx, id)
	if err != nil {
		writeError(w, statusForError(err), err)
		return
	}
	document, err := s.blobs.Download(ctx, artifact.BlobPath)
	if err != nil {
		writeError(w, statusForError(err), err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.wordprocessingml.document")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", id+".docx"))
	w.Header().Set("Content-Length", strconv.Itoa(len(document)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(document)
}
