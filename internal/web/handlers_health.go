package web

import (
	"context"
	"net/http"
	"time"

	"github.com/JonMunkholm/examsheet/internal/core"
	"github.com/JonMunkholm/examsheet/internal/logging"
)

const healthCheckTimeout = 2 * time.Second

type healthResponse struct {
	Status  string                   `json:"status"`
	Uploads core.UploadLimiterStatus `json:"uploads"`
}

// handleHealth pings the store and reports ingestion slot usage.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	resp := healthResponse{Status: "ok", Uploads: s.service.UploadStatus()}
	if err := s.service.Ping(ctx); err != nil {
		logging.FromContext(ctx).Error("health check failed", "error", err)
		resp.Status = "unavailable"
		writeJSON(w, r, http.StatusServiceUnavailable, resp)
		return
	}
	writeJSON(w, r, http.StatusOK, resp)
}
