package api

import (
	"net/http"

	"github.com/shelfgraph/shelfgraph-server/internal/http/response"
)

// HealthResponse contains health check data in API responses.
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	health := HealthResponse{Status: "healthy", Database: "healthy"}

	if err := s.store.Ping(r.Context()); err != nil {
		health.Status = "unhealthy"
		health.Database = "unhealthy"
		response.JSON(w, http.StatusServiceUnavailable, health, s.logger)
		return
	}

	response.Success(w, health, s.logger)
}
