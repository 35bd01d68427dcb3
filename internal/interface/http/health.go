package http

import (
	"context"
	"net/http"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH & STATUS
// ══════════════════════════════════════════════════════════════════════════════

// healthCheckTimeout bounds the storage ping during a probe.
const healthCheckTimeout = 5 * time.Second

// healthStatus is the probe response body.
type healthStatus struct {
	Healthy   bool      `json:"healthy"`
	Uptime    string    `json:"uptime,omitempty"`
	Message   string    `json:"message,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// handleHealth reports overall health including storage reachability.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := healthStatus{
		Healthy:   true,
		Uptime:    s.Uptime().Round(time.Second).String(),
		Timestamp: time.Now().UTC(),
	}

	if s.deps.Health != nil {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		defer cancel()

		if err := s.deps.Health.Ping(ctx); err != nil {
			status.Healthy = false
			status.Message = "storage unreachable"
		}
	}

	code := http.StatusOK
	if !status.Healthy {
		code = http.StatusServiceUnavailable
	}

	writeJSON(w, code, status)
}

// handleReady reports readiness. Same storage check as health; the gateway
// connection is not part of readiness because the HTTP surface works
// without it.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	s.handleHealth(w, r)
}

// handleLive reports process liveness only.
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}
