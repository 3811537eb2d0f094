// File path: internal/api/services_handler.go
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	chi "github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/belriyad/docgen/internal/common"
	"github.com/belriyad/docgen/internal/store"
)

func (s *Server) handleServiceCreate(w http.ResponseWriter, r *http.Request) {
	logger := common.Logger()
	ctx := r.Context()
	var req serviceCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("api: service decode failed", "error", err)
		writeError(w, http.StatusBadRequest, err)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("name is required"))
		return
	}
	if len(req.TemplateIDs) == 0 {
		writeError(w, http.StatusBadRequest, fmt.Errorf("template_ids is required"))
		return
	}
	svc := store.Service{
		ID:        uuid.NewString(),
		Name:      req.Name,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.CreateService(ctx, svc, req.TemplateIDs); err != nil {
		writeError(w, statusForError(err), err)
		return
	}
	logger.Info("api: service created", "service", svc.ID, "name", svc.Name, "templates", len(req.TemplateIDs))
	writeJSON(w, http.StatusCreated, serviceResponse{Service: svc})
}

func (s *Server) handleServiceGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")
	svc, err := s.store.GetService(ctx, id)
	if err != nil {
		writeError(w, statusForError(err), err)
		return
	}
	templates, err := s.store.ServiceTemplates(ctx, id)
	if err != nil {
		writeError(w, statusForError(err), err)
		return
	}
	writeJSON(w, http.StatusOK, serviceResponse{Service: svc, Templates: templates})
}
