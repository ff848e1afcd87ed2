package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/custodia-labs/sercha-unified/internal/core/domain"
)

// SearchRequest is the body of POST /search.
type SearchRequest struct {
	Query            string                        `json:"query"`
	UserIntegrations map[string]domain.Credentials `json:"userIntegrations,omitempty"`
	// Sources optionally narrows the integrations searched.
	Sources []string `json:"sources,omitempty"`
}

// SearchResponse is the body of every POST /search answer.
type SearchResponse struct {
	Success bool                    `json:"success"`
	Results *domain.RankedResultSet `json:"results,omitempty"`
	Error   string                  `json:"error,omitempty"`
}

// HistoryResponse is the body of GET /history.
type HistoryResponse struct {
	Success bool                    `json:"success"`
	Entries []domain.SearchLogEntry `json:"entries"`
	Error   string                  `json:"error,omitempty"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		log.Debug("rejecting search body: %v", err)
		writeJSON(w, http.StatusBadRequest, SearchResponse{Error: "request body must be a JSON object with a query"})
		return
	}

	creds := s.credentials(req)
	set, err := s.search.Search(r.Context(), domain.SearchQuery{Raw: req.Query, Credentials: creds})
	if err != nil {
		log.Error("search %q failed: %v", req.Query, err)
		writeJSON(w, http.StatusInternalServerError, SearchResponse{Error: domain.ErrSearchFailed.Error()})
		return
	}

	writeJSON(w, http.StatusOK, SearchResponse{Success: true, Results: &set})
}

// credentials picks the request's integrations, else configured ones, then
// applies the optional source filter.
func (s *Server) credentials(req SearchRequest) map[domain.SourceName]domain.Credentials {
	var creds map[domain.SourceName]domain.Credentials
	switch {
	case len(req.UserIntegrations) > 0:
		creds = domain.CredentialsFromStrings(req.UserIntegrations)
	case s.settings != nil:
		creds = s.settings.Integrations()
	default:
		creds = map[domain.SourceName]domain.Credentials{}
	}

	if len(req.Sources) == 0 {
		return creds
	}
	filtered := make(map[domain.SourceName]domain.Credentials, len(req.Sources))
	for _, raw := range req.Sources {
		if name, ok := domain.ParseSourceName(raw); ok {
			if c, ok := creds[name]; ok {
				filtered[name] = c
			}
		}
	}
	return filtered
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, HistoryResponse{Entries: []domain.SearchLogEntry{}, Error: "limit must be a number"})
			return
		}
		limit = n
	}

	entries, err := s.history.Recent(r.Context(), limit)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, domain.ErrInvalidInput) {
			status = http.StatusBadRequest
		}
		log.Warn("history listing failed: %v", err)
		writeJSON(w, status, HistoryResponse{Entries: []domain.SearchLogEntry{}, Error: "history unavailable"})
		return
	}
	if entries == nil {
		entries = []domain.SearchLogEntry{}
	}
	writeJSON(w, http.StatusOK, HistoryResponse{Success: true, Entries: entries})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Warn("write response: %v", err)
	}
}
