// Package httpapi exposes unified search over HTTP.
//
//	POST /search   {"query": "...", "userIntegrations": {"jira": {"accessToken": "...", "cloudId": "..."}}}
//	GET  /history  recent searches, newest first
//	GET  /healthz  liveness
//
// Provider failures never fail the request; they appear as degraded
// sources inside a 200 response.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/custodia-labs/sercha-unified/internal/core/ports/driving"
	"github.com/custodia-labs/sercha-unified/internal/logger"
)

var log = logger.For("http")

// maxBodyBytes bounds a search request body.
const maxBodyBytes = 1 << 20

// ErrMissingSearchService is returned when the search service is not provided.
var ErrMissingSearchService = errors.New("httpapi: search service is required")

// Server serves the unified search API.
type Server struct {
	search   driving.UnifiedSearchService
	settings driving.SettingsService
	history  driving.HistoryService
	mux      *http.ServeMux
}

// NewServer creates a server. Settings and history are optional: without
// settings a request must carry its own integrations, without history
// GET /history answers 404.
func NewServer(
	search driving.UnifiedSearchService,
	settings driving.SettingsService,
	history driving.HistoryService,
) (*Server, error) {
	if search == nil {
		return nil, ErrMissingSearchService
	}
	s := &Server{
		search:   search,
		settings: settings,
		history:  history,
		mux:      http.NewServeMux(),
	}
	s.mux.HandleFunc("POST /search", s.handleSearch)
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	if history != nil {
		s.mux.HandleFunc("GET /history", s.handleHistory)
	}
	return s, nil
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Run serves on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, listener)
}

// Serve accepts connections on l until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, l net.Listener) error {
	httpServer := &http.Server{
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx) //nolint:errcheck
	}()

	log.Info("listening on %s", l.Addr())
	err := httpServer.Serve(l)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
