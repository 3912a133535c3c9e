package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerHealthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "healthCheck",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Description: "Returns server health status with component checks",
		Tags:        []string{"Health"},
	}, s.handleHealthCheck)
}

// Component statuses.
const (
	statusHealthy   = "healthy"
	statusDegraded  = "degraded"
	statusUnhealthy = "unhealthy"
)

// ComponentHealth describes the health of a single component.
type ComponentHealth struct {
	Status  string `json:"status" doc:"Component status: healthy, degraded, or unhealthy"`
	Latency string `json:"latency,omitempty" doc:"Response time for this component"`
	Message string `json:"message,omitempty" doc:"Additional status information"`
}

// HealthResponse contains health check data in API responses.
type HealthResponse struct {
	Status     string                     `json:"status" doc:"Overall status: healthy, degraded, or unhealthy"`
	Components map[string]ComponentHealth `json:"components" doc:"Individual component statuses"`
}

// HealthOutput wraps the health response for Huma.
type HealthOutput struct {
	Body HealthResponse
}

func (s *Server) handleHealthCheck(ctx context.Context, _ *struct{}) (*HealthOutput, error) {
	components := map[string]ComponentHealth{
		"database": s.checkDatabase(ctx),
		"catalog":  s.checkCatalog(),
		"metadata": s.checkMetadata(),
	}

	overall := statusHealthy
	for _, c := range components {
		switch c.Status {
		case statusUnhealthy:
			overall = statusUnhealthy
		case statusDegraded:
			if overall == statusHealthy {
				overall = statusDegraded
			}
		}
	}

	return &HealthOutput{
		Body: HealthResponse{
			Status:     overall,
			Components: components,
		},
	}, nil
}

// checkDatabase pings the SQLite store.
func (s *Server) checkDatabase(ctx context.Context) ComponentHealth {
	if s.store == nil {
		return ComponentHealth{Status: statusDegraded, Message: "database not configured"}
	}

	start := time.Now()
	err := s.store.Ping(ctx)
	latency := time.Since(start)

	if err != nil {
		return ComponentHealth{
			Status:  statusUnhealthy,
			Latency: latency.String(),
			Message: "database ping failed",
		}
	}
	return ComponentHealth{Status: statusHealthy, Latency: latency.String()}
}

// checkCatalog reports the size and origin of the current snapshot.
func (s *Server) checkCatalog() ComponentHealth {
	if s.catalog == nil {
		return ComponentHealth{Status: statusUnhealthy, Message: "catalog not loaded"}
	}

	snap := s.catalog.Snapshot()
	msg := strconv.Itoa(snap.Len()) + " movies from " + snap.Source
	if snap.Len() == 0 {
		return ComponentHealth{Status: statusDegraded, Message: msg}
	}
	return ComponentHealth{Status: statusHealthy, Message: msg}
}

// checkMetadata reports the lookup client's breaker state. An open breaker
// degrades the service; recommendations still fall back to the catalog.
func (s *Server) checkMetadata() ComponentHealth {
	if s.breaker == nil {
		return ComponentHealth{Status: statusDegraded, Message: "metadata client not configured"}
	}

	state := s.breaker.BreakerState()
	if state == "open" {
		return ComponentHealth{Status: statusDegraded, Message: "circuit breaker " + state}
	}
	return ComponentHealth{Status: statusHealthy, Message: "circuit breaker " + state}
}
