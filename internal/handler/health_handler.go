package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/aegis-admin-api/internal/config"
	"github.com/noah-isme/aegis-admin-api/internal/store"
	"github.com/noah-isme/aegis-admin-api/internal/utils"
)

// HealthResponse is the payload returned by the health endpoint.
type HealthResponse struct {
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
	Service     string    `json:"service"`
	Environment string    `json:"environment"`
	StorageMode string    `json:"storage_mode"`
}

// HealthCheck reports application health plus the resolved storage mode, so
// an operator can tell at a glance whether the API is running degraded.
func HealthCheck(cfg config.Config, adapter *store.Adapter) fiber.Handler {
	return func(c *fiber.Ctx) error {
		payload := HealthResponse{
			Status:      "ok",
			Timestamp:   time.Now().UTC(),
			Service:     cfg.AppName,
			Environment: cfg.AppEnv,
			StorageMode: string(adapter.Mode()),
		}

		return utils.SendSuccess(c, "service healthy", payload)
	}
}
