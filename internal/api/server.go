// File path: internal/api/server.go
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	chi "github.com/go-chi/chi/v5"

	"github.com/belriyad/docgen/internal/blob"
	"github.com/belriyad/docgen/internal/common"
	"github.com/belriyad/docgen/internal/generate"
	"github.com/belriyad/docgen/internal/llm"
	"github.com/belriyad/docgen/internal/store"
)

type Server struct {
	router       chi.Router
	store        *store.Store
	blobs        blob.Store
	provider     llm.Provider
	orchestrator *generate.Orchestrator
}

func NewServer(catalog *store.Store, blobs blob.Store, provider llm.Provider, orch *generate.Orchestrator) (*Server, error) {
	logger := common.Logger()
	if catalog == nil {
		return nil, fmt.Errorf("catalog store required")
	}
	if blobs == nil {
		return nil, fmt.Errorf("blob store required")
	}
	if orch == nil {
		return nil, fmt.Errorf("orchestrator required")
	}
	providerName := "none"
	if provider != nil {
		providerName = provider.Name()
	}
	logger.Info("api: building server", "provider", providerName)
	srv := &Server{
		router:       chi.NewRouter(),
		store:        catalog,
		blobs:        blobs,
		provider:     provider,
		orchestrator: orch,
	}
	srv.routes()
	logger.Info("api: server ready")
	return srv, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	logger := common.Logger()
	s.router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			logger.Debug("request", "method", r.Method, "path", r.URL.Path, "dur", time.Since(start), "remote", r.RemoteAddr)
		})
	})

	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	s.router.Post("/v1/templates", s.handleTemplateUpload)
	s.router.Get("/v1/templates", s.handleTemplateList)
	s.router.Get("/v1/templates/{id}", s.handleTemplateGet)
	s.router.Delete("/v1/templates/{id}", s.handleTemplateDelete)

	s.router.Post("/v1/services", s.handleServiceCreate)
	s.router.Get("/v1/services/{id}", s.handleServiceGet)

	s.router.Post("/v1/intakes", s.handleIntakeCreate)
	s.router.Get("/v1/intakes/{id}", s.handleIntakeGet)
	s.router.Put("/v1/intakes/{id}/data", s.handleIntakeData)
	s.router.Post("/v1/intakes/{id}/submit", s.handleIntakeSubmit)
	s.router.Post("/v1/intakes/{id}/generate", s.handleGenerate)
	s.router.Get("/v1/intakes/{id}/artifacts", s.handleArtifactList)

	s.router.Get("/v1/artifacts/{id}/download", s.handleArtifactDownload)
	s.router.Get("/v1/logs", s.handleLogs)
}

func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request) {
	entries := append([]common.LogEntry(nil), common.LogEntries()...)
	writeJSON(w, http.StatusOK, map[string]interface{}{"logs": entries})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	logger := common.Logger()
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "status", status, "error", err)
	} else {
		logger.Warn("request failed", "status", status, "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// statusForError translates domain sentinels into HTTP statuses so handlers
// stay free of per-error switch blocks.
func statusForError(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound) || errors.Is(err, blob.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, generate.ErrIntakeNotSubmitted):
		return http.StatusConflict
	case errors.Is(err, generate.ErrGenerationInProgress):
		return http.StatusConflict
	case errors.Is(err, store.ErrIntakeImmutable):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
