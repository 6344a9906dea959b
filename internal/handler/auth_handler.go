package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/aegis-admin-api/internal/dto"
	"github.com/noah-isme/aegis-admin-api/internal/middleware"
	"github.com/noah-isme/aegis-admin-api/internal/service"
	"github.com/noah-isme/aegis-admin-api/internal/utils"
)

// AuthHandler handles login, logout and profile routes.
type AuthHandler struct {
	service      service.AuthService
	authenticate fiber.Handler
	loginLimit   fiber.Handler
	logger       zerolog.Logger
}

// NewAuthHandler constructs the auth handler. authenticate guards the
// session routes; loginLimit throttles credential guessing.
func NewAuthHandler(svc service.AuthService, authenticate, loginLimit fiber.Handler, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		service:      svc,
		authenticate: authenticate,
		loginLimit:   loginLimit,
		logger:       logger.With().Str("component", "auth_handler").Logger(),
	}
}

// Register wires the auth routes.
func (h *AuthHandler) Register(router fiber.Router) {
	router.Post("/login", h.loginLimit, h.login)
	router.Post("/logout", h.authenticate, h.logout)
	router.Get("/profile", h.authenticate, h.profile)
	// Alias kept for clients that probe token validity separately.
	router.Get("/verify", h.authenticate, h.verify)
}

func (h *AuthHandler) login(c *fiber.Ctx) error {
	var payload dto.LoginRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.service.Login(c.UserContext(), payload, c.IP())
	if err != nil {
		return respondServiceError(c, h.logger, err, "login failed")
	}

	return utils.SendSuccess(c, "login successful", response)
}

func (h *AuthHandler) logout(c *fiber.Ctx) error {
	if err := h.service.Logout(c.UserContext(), actorFromContext(c), c.IP()); err != nil {
		return respondServiceError(c, h.logger, err, "logout failed")
	}
	return utils.SendSuccess(c, "logged out", nil)
}

func (h *AuthHandler) profile(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)
	response, err := h.service.Profile(c.UserContext(), user.ID)
	if err != nil {
		return respondServiceError(c, h.logger, err, "failed to load profile")
	}
	return utils.SendSuccess(c, "profile", response)
}

func (h *AuthHandler) verify(c *fiber.Ctx) error {
	user, _ := middleware.CurrentUser(c)
	response, err := h.service.Profile(c.UserContext(), user.ID)
	if err != nil {
		return respondServiceError(c, h.logger, err, "failed to verify token")
	}
	return utils.SendSuccess(c, "token valid", dto.VerifyResponse{Valid: true, User: response})
}
