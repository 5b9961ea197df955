package server

import (
	"context"
	"net/http"
	"time"

	json "github.com/goccy/go-json"
)

type healthResponse struct {
	Status string `json:"status"`
}

type readyResponse struct {
	Ready bool   `json:"ready"`
	Store string `json:"store"`
}

// handleHealth reports that the process is up. It never touches the store.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}

// handleReady pings the store; 503 while it is unreachable.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := readyResponse{Ready: true, Store: "up"}
	status := http.StatusOK
	if err := s.store.Ping(ctx); err != nil {
		s.logger.Error().Err(err).Msg("store health check failed")
		resp = readyResponse{Ready: false, Store: "down"}
		status = http.StatusServiceUnavailable
	}

	s.writeJSON(w, status, resp)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Headers are already sent; all we can do is log.
		s.logger.Error().Err(err).Msg("failed to encode JSON response")
	}
}
