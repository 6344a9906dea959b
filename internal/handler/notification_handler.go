package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/aegis-admin-api/internal/dto"
	"github.com/noah-isme/aegis-admin-api/internal/middleware"
	"github.com/noah-isme/aegis-admin-api/internal/models"
	"github.com/noah-isme/aegis-admin-api/internal/service"
	"github.com/noah-isme/aegis-admin-api/internal/utils"
)

// NotificationHandler serves inbox routes. Clients poll; there is no push
// channel.
type NotificationHandler struct {
	service service.NotificationService
	logger  zerolog.Logger
}

// NewNotificationHandler constructs the notification handler.
func NewNotificationHandler(svc service.NotificationService, logger zerolog.Logger) *NotificationHandler {
	return &NotificationHandler{
		service: svc,
		logger:  logger.With().Str("component", "notification_handler").Logger(),
	}
}

// Register wires the notification routes. Callers must already be
// authenticated.
func (h *NotificationHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", middleware.RequireRole(models.RoleMainAdmin), h.broadcast)
	router.Put("/mark-all-read", h.markAllRead)
	router.Put("/:id/read", h.markRead)
	router.Delete("/:id", h.remove)
}

func (h *NotificationHandler) list(c *fiber.Ctx) error {
	limit, err := parseQueryInt(c, "limit")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid limit")
	}

	user, _ := middleware.CurrentUser(c)
	response, err := h.service.ListForUser(c.UserContext(), user.ID, user.Role, limit)
	if err != nil {
		return respondServiceError(c, h.logger, err, "failed to list notifications")
	}
	return utils.SendSuccess(c, "notifications", response)
}

func (h *NotificationHandler) broadcast(c *fiber.Ctx) error {
	var payload dto.BroadcastRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	created, err := h.service.BroadcastAll(c.UserContext(), actorFromContext(c), payload)
	if err != nil {
		return respondServiceError(c, h.logger, err, "failed to broadcast notification")
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "notification broadcast", created)
}

func (h *NotificationHandler) markRead(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid notification id")
	}

	notification, err := h.service.MarkRead(c.UserContext(), id)
	if err != nil {
		return respondServiceError(c, h.logger, err, "failed to mark notification read")
	}
	return utils.SendSuccess(c, "notification marked read", notification)
}

func (h *NotificationHandler) markAllRead(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)
	updated, err := h.service.MarkAllRead(c.UserContext(), user.ID, user.Role)
	if err != nil {
		return respondServiceError(c, h.logger, err, "failed to mark notifications read")
	}
	return utils.SendSuccess(c, "notifications marked read", dto.MarkAllReadResponse{Updated: updated})
}

func (h *NotificationHandler) remove(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid notification id")
	}

	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return respondServiceError(c, h.logger, err, "failed to delete notification")
	}
	return utils.SendSuccess(c, "notification deleted", nil)
}
