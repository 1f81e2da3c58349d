// Package api exposes the single-item refinement boundary over HTTP.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/prodtext/refinery/internal/model"
	"github.com/prodtext/refinery/internal/refine"
)

// ProductRefiner refines one product's content.
type ProductRefiner interface {
	Refine(ctx context.Context, facts *model.ProductFacts) *refine.RefineResult
}

// Server serves the refinement API.
type Server struct {
	refiner ProductRefiner
	mux     *http.ServeMux
}

// refineRequest mirrors the batch input columns as structured fields.
type refineRequest struct {
	Brand              string      `json:"brand"`
	ProductType        string      `json:"product_type"`
	Attributes         interface{} `json:"attributes"`
	CurrentDescription string      `json:"current_description"`
	CurrentBullets     []string    `json:"current_bullets"`
}

// refineResponse carries the refined bundle plus its violations, rendered as
// strings at this boundary.
type refineResponse struct {
	Title           string   `json:"title"`
	Bullets         string   `json:"bullets"`
	Description     string   `json:"description"`
	MetaTitle       string   `json:"meta_title"`
	MetaDescription string   `json:"meta_description"`
	Violations      []string `json:"violations"`
	Attempts        int      `json:"attempts"`
	Fallback        bool     `json:"fallback"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// New creates an API server around the given refiner.
func New(refiner ProductRefiner) (*Server, error) {
	if refiner == nil {
		return nil, fmt.Errorf("refiner required")
	}

	s := &Server{
		refiner: refiner,
		mux:     http.NewServeMux(),
	}
	s.mux.HandleFunc("/refine", s.handleRefine)
	s.mux.HandleFunc("/healthz", s.handleHealth)
	return s, nil
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// ListenAndServe runs the server on addr until it fails.
func (s *Server) ListenAndServe(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv.ListenAndServe()
}

func (s *Server) handleRefine(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
		return
	}

	var req refineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON: " + err.Error()})
		return
	}

	facts := &model.ProductFacts{
		Brand:              req.Brand,
		ProductType:        req.ProductType,
		Attributes:         coerceAttributes(req.Attributes),
		CurrentDescription: req.CurrentDescription,
		CurrentBullets:     req.CurrentBullets,
	}
	if err := facts.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	result := s.refiner.Refine(r.Context(), facts)

	violations := model.ViolationMessages(result.Violations)
	if violations == nil {
		violations = []string{}
	}

	writeJSON(w, http.StatusOK, refineResponse{
		Title:           result.Bundle.Title,
		Bullets:         result.Bundle.BulletsHTML(),
		Description:     result.Bundle.Description,
		MetaTitle:       result.Bundle.MetaTitle,
		MetaDescription: result.Bundle.MetaDescription,
		Violations:      violations,
		Attempts:        result.Attempts,
		Fallback:        result.Fallback,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// coerceAttributes accepts either a JSON object or a string cell (parsed the
// same way as the batch attributes column).
func coerceAttributes(raw interface{}) model.Attributes {
	switch val := raw.(type) {
	case nil:
		return model.Attributes{}
	case map[string]interface{}:
		return model.Attributes(val)
	case string:
		return model.ParseAttributes(val)
	default:
		return model.Attributes{"value": val}
	}
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
