package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/jmorrow/coalens/internal/coa"
	"github.com/jmorrow/coalens/internal/engine"
	"github.com/jmorrow/coalens/internal/product"
	"github.com/jmorrow/coalens/internal/session"
)

// #region parse

type parseRequest struct {
	Text     string `json:"text"`
	Filename string `json:"filename"`
	Persist  bool   `json:"persist"`
}

type parseResponse struct {
	Product  product.Product    `json:"product"`
	Profile  engine.Profile     `json:"profile"`
	Baseline map[string]float64 `json:"baseline_scores"`
}

// handleParse runs text through the full pipeline. With persist set the
// product is also written to the store.
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	var req parseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	prod, err := s.parser.Parse(req.Text, req.Filename)
	if err != nil {
		if errors.Is(err, coa.ErrUnparseable) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if req.Persist {
		if err := s.store.PutProduct(prod); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}

	prof := s.engine.Evaluate(prod)
	writeJSON(w, http.StatusOK, parseResponse{
		Product:  prod,
		Profile:  prof,
		Baseline: s.mapper.Map(prof),
	})
}

// #endregion parse

// #region products

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := s.store.ListProducts()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if products == nil {
		products = []product.Product{}
	}
	writeJSON(w, http.StatusOK, products)
}

func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	prod, ok, err := s.store.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "product not found")
		return
	}
	writeJSON(w, http.StatusOK, prod)
}

func (s *Server) handleReplaceTerpenes(w http.ResponseWriter, r *http.Request) {
	var terpenes []product.Terpene
	if err := json.NewDecoder(r.Body).Decode(&terpenes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid terpene list")
		return
	}
	id := chi.URLParam(r, "id")
	if err := s.store.ReplaceTerpenes(id, terpenes); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	prod, _, err := s.store.Get(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, prod)
}

// #endregion products

// #region scores

type scoresResponse struct {
	ProductID    string                       `json:"product_id"`
	Baseline     map[string]float64           `json:"baseline"`
	Personalized map[string]float64           `json:"personalized,omitempty"`
	Calibrations map[string]calibrationDetail `json:"calibrations,omitempty"`
}

type calibrationDetail struct {
	Adjustment  float64 `json:"adjustment"`
	Confidence  float64 `json:"confidence"`
	SampleCount int     `json:"sample_count"`
}

// handleScores returns baseline scores, plus calibrated scores when
// ?personalized=true and session history exists.
func (s *Server) handleScores(w http.ResponseWriter, r *http.Request) {
	prod, ok, err := s.store.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "product not found")
		return
	}

	resp := scoresResponse{
		ProductID: prod.ID,
		Baseline:  s.calibrator.Baseline(prod),
	}

	if r.URL.Query().Get("personalized") == "true" {
		cals, err := s.calibrator.Calibrations(s.store, s.store)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		resp.Personalized = s.calibrator.Personalize(resp.Baseline, cals)
		resp.Calibrations = make(map[string]calibrationDetail, len(cals))
		for dim, c := range cals {
			resp.Calibrations[dim] = calibrationDetail{
				Adjustment:  c.Adjustment,
				Confidence:  c.Confidence,
				SampleCount: c.SampleCount,
			}
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// #endregion scores

// #region sessions

type sessionRequest struct {
	ProductID string             `json:"product_id"`
	At        time.Time          `json:"at"`
	Actuals   map[string]float64 `json:"actuals"`
	Notes     string             `json:"notes"`
}

func (s *Server) handleAppendSession(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ProductID == "" || len(req.Actuals) == 0 {
		writeError(w, http.StatusBadRequest, "product_id and actuals are required")
		return
	}
	for dim, v := range req.Actuals {
		if v < 0 || v > 5 {
			writeError(w, http.StatusBadRequest, "actual for "+dim+" outside [0,5]")
			return
		}
	}

	entry, err := s.store.AppendSession(product.SessionLogEntry{
		At:        req.At,
		ProductID: req.ProductID,
		Actuals:   req.Actuals,
		Notes:     req.Notes,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	entries, err := s.store.List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if entries == nil {
		entries = []product.SessionLogEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

// #endregion sessions

// #region snapshot

func (s *Server) handleExportSnapshot(w http.ResponseWriter, r *http.Request) {
	products, err := s.store.ListProducts()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	entries, err := s.store.List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	snap := session.Snapshot{
		ProfileName: r.URL.Query().Get("profile"),
		Products:    products,
		SessionLog:  entries,
	}
	data, err := session.Export(snap)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

func (s *Server) handleImportSnapshot(w http.ResponseWriter, r *http.Request) {
	var snap session.Snapshot
	if err := json.NewDecoder(r.Body).Decode(&snap); err != nil {
		writeError(w, http.StatusBadRequest, "invalid snapshot")
		return
	}
	for _, p := range snap.Products {
		if err := s.store.PutProduct(p); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}
	for _, entry := range snap.SessionLog {
		if _, err := s.store.AppendSession(entry); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]int{
		"products": len(snap.Products),
		"sessions": len(snap.SessionLog),
	})
}

// #endregion snapshot
