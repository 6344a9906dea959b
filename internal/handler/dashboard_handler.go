package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/aegis-admin-api/internal/middleware"
	"github.com/noah-isme/aegis-admin-api/internal/models"
	"github.com/noah-isme/aegis-admin-api/internal/service"
	"github.com/noah-isme/aegis-admin-api/internal/utils"
)

// DashboardHandler serves aggregated stats and the audit trail.
type DashboardHandler struct {
	dashboard service.DashboardService
	audit     service.AuditService
	logger    zerolog.Logger
}

// NewDashboardHandler constructs the dashboard handler.
func NewDashboardHandler(dashboard service.DashboardService, audit service.AuditService, logger zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboard: dashboard,
		audit:     audit,
		logger:    logger.With().Str("component", "dashboard_handler").Logger(),
	}
}

// Register wires the dashboard routes.
func (h *DashboardHandler) Register(router fiber.Router) {
	router.Get("/stats", middleware.RequirePermission(models.PermViewAnalytics), h.stats)
	router.Get("/audit-logs", middleware.RequirePermission(models.PermViewAuditLogs), h.auditLogs)
}

func (h *DashboardHandler) stats(c *fiber.Ctx) error {
	response, err := h.dashboard.Stats(c.UserContext())
	if err != nil {
		return respondServiceError(c, h.logger, err, "failed to load dashboard stats")
	}
	return utils.SendSuccess(c, "dashboard stats", response)
}

func (h *DashboardHandler) auditLogs(c *fiber.Ctx) error {
	limit, err := parseQueryInt(c, "limit")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid limit")
	}
	offset, err := parseQueryInt(c, "offset")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid offset")
	}

	response, err := h.audit.List(c.UserContext(), limit, offset)
	if err != nil {
		return respondServiceError(c, h.logger, err, "failed to list audit logs")
	}
	return utils.SendSuccess(c, "audit logs", response)
}
