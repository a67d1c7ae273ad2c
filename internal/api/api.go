// Package api exposes the parse and scoring pipeline over JSON HTTP.
// The core stays transport-free; this layer only decodes requests,
// calls into the pipeline, and encodes results.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/jmorrow/coalens/internal/calib"
	"github.com/jmorrow/coalens/internal/coa"
	"github.com/jmorrow/coalens/internal/engine"
	"github.com/jmorrow/coalens/internal/score"
	"github.com/jmorrow/coalens/internal/store"
)

// #region server

// Server bundles the pipeline pieces behind the HTTP surface.
type Server struct {
	parser     *coa.Parser
	engine     *engine.Engine
	mapper     *score.Mapper
	calibrator *calib.Calibrator
	store      *store.Store
}

// NewServer creates a Server over an opened store.
func NewServer(parser *coa.Parser, eng *engine.Engine, mapper *score.Mapper, calibrator *calib.Calibrator, st *store.Store) *Server {
	return &Server{
		parser:     parser,
		engine:     eng,
		mapper:     mapper,
		calibrator: calibrator,
		store:      st,
	}
}

// Routes builds the chi router with the full v1 surface.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         300,
	}))

	r.Route("/v1", func(r chi.Router) {
		r.Post("/parse", s.handleParse)
		r.Get("/products", s.handleListProducts)
		r.Get("/products/{id}", s.handleGetProduct)
		r.Put("/products/{id}/terpenes", s.handleReplaceTerpenes)
		r.Get("/products/{id}/scores", s.handleScores)
		r.Post("/sessions", s.handleAppendSession)
		r.Get("/sessions", s.handleListSessions)
		r.Get("/snapshot", s.handleExportSnapshot)
		r.Post("/snapshot", s.handleImportSnapshot)
	})
	return r
}

// #endregion server

// #region json-helpers

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// #endregion json-helpers
