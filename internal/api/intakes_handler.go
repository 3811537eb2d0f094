// File path: internal/api/intakes_handler.go
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	chi "github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/belriyad/docgen/internal/common"
)

func (s *Server) handleIntakeCreate(w http.ResponseWriter, r *http.Request) {
	logger := common.Logger()
	ctx := r.Context()
	var req intakeCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("api: intake decode failed", "error", err)
		writeError(w, http.StatusBadRequest, err)
		return
	}
	req.ServiceID = strings.TrimSpace(req.ServiceID)
	if req.ServiceID == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("service_id is required"))
		return
	}
	intake, err := s.store.CreateIntake(ctx, uuid.NewString(), req.ServiceID)
	if err != nil {
		writeError(w, statusForError(err), err)
		return
	}
	logger.Info("api: intake created", "intake", intake.ID, "service", req.ServiceID)
	writeJSON(w, http.StatusCreated, intake)
}

func (s *Server) handleIntakeGet(w http.ResponseWriter, r *http.Request) {
	intake, err := s.store.GetIntake(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, statusForError(err), err)
		return
	}
	writeJSON(w, http.StatusOK, intake)
}

// handleIntakeData merges the posted values into the intake's client data.
// Saves are partial; posting two fields leaves every other field untouched.
func (s *Server) handleIntakeData(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")
	var req intakeDataRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if len(req.Data) == 0 {
		writeError(w, http.StatusBadRequest, fmt.Errorf("data is required"))
		return
	}
	if err := s.store.SaveIntakeData(ctx, id, req.Data); err != nil {
		writeError(w, statusForError(err), err)
		return
	}
	intake, err := s.store.GetIntake(ctx, id)
	if err != nil {
		writeError(w, statusForError(err), err)
		return
	}
	writeJSON(w, http.StatusOK, intake)
}

func (s *Server) handleIntakeSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")
	if err := s.store.SubmitIntake(ctx, id); err != nil {
		writeError(w, statusForError(err), err)
		return
	}
	intake, err := s.store.GetIntake(ctx, id)
	if err != nil {
		writeError(w, statusForError(err), err)
		return
	}
	common.Logger().Info("api: intake submitted", "intake", id, "fields", len(intake.ClientData))
	writeJSON(w, http.StatusOK, intake)
}
