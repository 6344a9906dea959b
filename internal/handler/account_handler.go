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

// AccountHandler serves the user directory: ordinary users and sub-admins.
type AccountHandler struct {
	service service.AccountService
	logger  zerolog.Logger
}

// NewAccountHandler constructs the account handler.
func NewAccountHandler(svc service.AccountService, logger zerolog.Logger) *AccountHandler {
	return &AccountHandler{
		service: svc,
		logger:  logger.With().Str("component", "account_handler").Logger(),
	}
}

// RegisterUsers wires the /users routes. Callers must already be
// authenticated; permission gates are applied per route.
func (h *AccountHandler) RegisterUsers(router fiber.Router) {
	router.Get("", middleware.RequirePermission(models.PermViewAllUsers), h.listUsers)
	router.Post("", middleware.RequirePermission(models.PermEditUser), h.createUser)
	router.Put("/:id", middleware.RequirePermission(models.PermEditUser), h.updateUser)
	router.Delete("/:id", middleware.RequirePermission(models.PermDeleteUser), h.deleteUser)
}

// RegisterSubAdmins wires the /sub-admins routes.
func (h *AccountHandler) RegisterSubAdmins(router fiber.Router) {
	router.Get("", middleware.RequirePermission(models.PermViewAllUsers), h.listSubAdmins)
	router.Post("", middleware.RequirePermission(models.PermCreateSubAdmin), h.createSubAdmin)
	router.Put("/:id", middleware.RequirePermission(models.PermEditSubAdmin), h.updateSubAdmin)
	router.Delete("/:id", middleware.RequirePermission(models.PermDeleteSubAdmin), h.deleteSubAdmin)
}

func (h *AccountHandler) listUsers(c *fiber.Ctx) error {
	users, err := h.service.ListUsers(c.UserContext())
	if err != nil {
		return respondServiceError(c, h.logger, err, "failed to list users")
	}
	return utils.SendSuccess(c, "users", users)
}

func (h *AccountHandler) createUser(c *fiber.Ctx) error {
	var payload dto.CreateUserRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	user, err := h.service.CreateUser(c.UserContext(), actorFromContext(c), payload, c.IP())
	if err != nil {
		return respondServiceError(c, h.logger, err, "failed to create user")
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "user created", user)
}

func (h *AccountHandler) updateUser(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid user id")
	}

	var payload dto.UpdateUserRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	user, err := h.service.UpdateUser(c.UserContext(), actorFromContext(c), id, payload, c.IP())
	if err != nil {
		return respondServiceError(c, h.logger, err, "failed to update user")
	}
	return utils.SendSuccess(c, "user updated", user)
}

func (h *AccountHandler) deleteUser(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid user id")
	}

	if err := h.service.DeleteUser(c.UserContext(), actorFromContext(c), id, c.IP()); err != nil {
		return respondServiceError(c, h.logger, err, "failed to delete user")
	}
	return utils.SendSuccess(c, "user deleted", nil)
}

func (h *AccountHandler) listSubAdmins(c *fiber.Ctx) error {
	subAdmins, err := h.service.ListSubAdmins(c.UserContext())
	if err != nil {
		return respondServiceError(c, h.logger, err, "failed to list sub-admins")
	}
	return utils.SendSuccess(c, "sub-admins", subAdmins)
}

func (h *AccountHandler) createSubAdmin(c *fiber.Ctx) error {
	var payload dto.CreateSubAdminRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	subAdmin, err := h.service.CreateSubAdmin(c.UserContext(), actorFromContext(c), payload, c.IP())
	if err != nil {
		return respondServiceError(c, h.logger, err, "failed to create sub-admin")
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "sub-admin created", subAdmin)
}

func (h *AccountHandler) updateSubAdmin(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid sub-admin id")
	}

	var payload dto.UpdateSubAdminRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	subAdmin, err := h.service.UpdateSubAdmin(c.UserContext(), actorFromContext(c), id, payload, c.IP())
	if err != nil {
		return respondServiceError(c, h.logger, err, "failed to update sub-admin")
	}
	return utils.SendSuccess(c, "sub-admin updated", subAdmin)
}

func (h *AccountHandler) deleteSubAdmin(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid sub-admin id")
	}

	if err := h.service.DeleteSubAdmin(c.UserContext(), actorFromContext(c), id, c.IP()); err != nil {
		return respondServiceError(c, h.logger, err, "failed to delete sub-admin")
	}
	return utils.SendSuccess(c, "sub-admin deleted", nil)
}
