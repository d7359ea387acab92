// ABOUTME: Health handler for the Huma API
// ABOUTME: Reports liveness and the reachability of optional backing services

package handlers

import (
	"context"
	"net/http"
	"sort"
	"time"

	"songfinder-bot/api/dto/responses"

	"github.com/danielgtaylor/huma/v2"
)

// Pinger is a dependency that can report its reachability
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles health check requests
type HealthHandler struct {
	checks  map[string]Pinger
	timeout time.Duration
}

// NewHealthHandler creates a health handler; checks may be empty
func NewHealthHandler(checks map[string]Pinger) *HealthHandler {
	return &HealthHandler{
		checks:  checks,
		timeout: 2 * time.Second,
	}
}

// RegisterRoutes registers the health route
func (h *HealthHandler) RegisterRoutes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Service health",
		Tags:        []string{"Health"},
	}, h.Health)
}

// HealthOutput defines the output for the Health operation
type HealthOutput struct {
	Status int
	Body   responses.HealthResponse
}

// Health handles the GET /health endpoint
func (h *HealthHandler) Health(ctx context.Context, _ *struct{}) (*HealthOutput, error) {
	out := &HealthOutput{
		Status: http.StatusOK,
		Body:   responses.HealthResponse{Status: "ok"},
	}
	if len(h.checks) == 0 {
		return out, nil
	}

	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	out.Body.Checks = make(map[string]string, len(names))
	for _, name := range names {
		if err := h.checks[name].Ping(ctx); err != nil {
			out.Body.Checks[name] = err.Error()
			out.Body.Status = "degraded"
			out.Status = http.StatusServiceUnavailable
			continue
		}
		out.Body.Checks[name] = "ok"
	}

	return out, nil
}
