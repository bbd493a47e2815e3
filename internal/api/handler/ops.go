// Package handler provides HTTP handlers for the farescout API.
package handler

import (
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/farescout/farescout/internal/api/models"
	"github.com/farescout/farescout/internal/api/response"
	"github.com/farescout/farescout/internal/provider/resilience"
)

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	version   string
	buildTime string
	registry  *resilience.Registry
}

// NewOpsHandler creates a new OpsHandler.
func NewOpsHandler(version, buildTime string, registry *resilience.Registry) *OpsHandler {
	return &OpsHandler{
		version:   version,
		buildTime: buildTime,
		registry:  registry,
	}
}

// HealthCheck handles GET /v1/ops/health - liveness check.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   time.Now(),
		Details: map[string]interface{}{
			"version":   h.version,
			"buildTime": h.buildTime,
		},
	}
	response.JSON(w, r, http.StatusOK, health)
}

// Providers handles GET /v1/ops/providers - circuit breaker health of all
// registered upstream providers.
func (h *OpsHandler) Providers(w http.ResponseWriter, r *http.Request) {
	all := h.registry.GetAllHealth()

	providers := make([]models.ProviderStatus, 0, len(all))
	for _, p := range all {
		providers = append(providers, models.ProviderStatus{
			Provider:      p.Name,
			Status:        providerStatus(p),
			CircuitState:  p.CircuitState.String(),
			Requests:      p.Counts.Requests,
			Failures:      p.Counts.TotalFailures,
			LastSuccessAt: p.LastSuccessAt,
			LastFailureAt: p.LastFailureAt,
			LastError:     p.LastError,
		})
	}

	response.JSON(w, r, http.StatusOK, models.ProvidersResponse{
		Time:      time.Now(),
		Providers: providers,
	})
}

func providerStatus(p *resilience.ProviderHealth) models.HealthStatus {
	switch p.CircuitState {
	case gobreaker.StateOpen:
		return models.HealthStatusDown
	case gobreaker.StateHalfOpen:
		return models.HealthStatusDegraded
	default:
		return models.HealthStatusOK
	}
}
