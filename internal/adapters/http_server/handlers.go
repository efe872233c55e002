// internal/adapters/http_server/handlers.go
package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/Youngregg/gbp-audit-tool/internal/app"
	"github.com/Youngregg/gbp-audit-tool/internal/domain"
)

const maxBody = 64 << 10

type Handlers struct {
	Audit *app.AuditService
	// Lookup backs the raw lookup endpoint; HasCredentials reports whether the
	// server holds a directory key.
	Lookup         domain.ProfileLookup
	HasCredentials bool
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// lookupEnvelope is the lookup endpoint's wire shape.
type lookupEnvelope struct {
	Success *bool           `json:"success,omitempty"`
	Data    *domain.Profile `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.HandleFunc("/api/places-search", h.placesSearch)
	s.mux.Post("/v1/audits", h.createAudit)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

func envelope(ok bool, data *domain.Profile, msg string) lookupEnvelope {
	return lookupEnvelope{Success: &ok, Data: data, Error: msg}
}

// placesSearch is the lookup endpoint: POST {businessQuery} -> {success, data}.
// Status checks run in the order clients have always observed: method, body,
// server key, query.
func (h *Handlers) placesSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, lookupEnvelope{Error: "Method not allowed"})
		return
	}

	var req struct {
		BusinessQuery string `json:"businessQuery"`
	}
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBody)).Decode(&req); err != nil {
		log.Warn().Err(err).Msg("places-search: undecodable body")
		writeJSON(w, http.StatusInternalServerError, lookupEnvelope{Error: "Internal server error"})
		return
	}
	if !h.HasCredentials || h.Lookup == nil {
		writeJSON(w, http.StatusInternalServerError, lookupEnvelope{Error: "API key not configured on server"})
		return
	}
	q := strings.TrimSpace(req.BusinessQuery)
	if q == "" {
		writeJSON(w, http.StatusBadRequest, lookupEnvelope{Error: "Business query is required"})
		return
	}

	p, err := h.Lookup.Lookup(r.Context(), q)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, envelope(true, &p, ""))
	case errors.Is(err, domain.ErrMissingCredentials):
		writeJSON(w, http.StatusInternalServerError, lookupEnvelope{Error: "API key not configured on server"})
	case errors.Is(err, domain.ErrNoCandidates):
		writeJSON(w, http.StatusOK, envelope(false, nil, "No matching business found"))
	default:
		log.Error().Err(err).Str("query", q).Msg("places-search: lookup failed")
		writeJSON(w, http.StatusInternalServerError, envelope(false, nil, "Internal server error"))
	}
}

// createAudit runs fetch + score for {query}. Degraded (demo) results are a 200
// with source DEMO; only invalid input and missing credentials are errors.
func (h *Handlers) createAudit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Query string `json:"query"`
	}
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBody)).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid body", "expected JSON object with a query field")
		return
	}

	rep, err := h.Audit.Audit(r.Context(), req.Query)
	if err != nil {
		ff, _ := domain.AsFetchFailure(err)
		switch {
		case ff != nil && ff.Reason == domain.ReasonInvalidInput:
			writeProblem(w, http.StatusBadRequest, string(ff.Reason), "Please enter a business name or Google Maps link")
		case ff != nil && ff.Reason == domain.ReasonMissingCredentials:
			writeProblem(w, http.StatusInternalServerError, string(ff.Reason), "API key not configured on server")
		default:
			writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
		}
		return
	}
	writeJSON(w, http.StatusOK, rep)
}
