package handler

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/aegis-admin-api/internal/middleware"
	"github.com/noah-isme/aegis-admin-api/internal/service"
	"github.com/noah-isme/aegis-admin-api/internal/utils"
)

func parseIDParam(c *fiber.Ctx, name string) (uint, error) {
	raw := strings.TrimSpace(c.Params(name))
	parsed, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || parsed == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(parsed), nil
}

func parseQueryInt(c *fiber.Ctx, key string) (int, error) {
	value := strings.TrimSpace(c.Query(key))
	if value == "" {
		return 0, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}
	return parsed, nil
}

func actorFromContext(c *fiber.Ctx) service.Actor {
	if user, ok := middleware.CurrentUser(c); ok {
		return service.Actor{ID: user.ID, Name: user.Name, Role: user.Role}
	}
	return service.Actor{}
}

// respondServiceError maps service-level errors onto the fixed HTTP error
// taxonomy. Unmapped errors become opaque 500s; the detail stays in the log.
func respondServiceError(c *fiber.Ctx, logger zerolog.Logger, err error, fallback string) error {
	var validation *service.ValidationError
	switch {
	case errors.As(err, &validation):
		return utils.SendErrorWithDetails(c, fiber.StatusBadRequest, validation.Message, validation.Details)
	case errors.Is(err, service.ErrInvalidCredentials):
		return utils.SendError(c, fiber.StatusUnauthorized, service.ErrInvalidCredentials.Error())
	case errors.Is(err, service.ErrAccountInactive):
		return utils.SendError(c, fiber.StatusUnauthorized, service.ErrAccountInactive.Error())
	case errors.Is(err, service.ErrNotFound):
		return utils.SendError(c, fiber.StatusNotFound, service.ErrNotFound.Error())
	case errors.Is(err, service.ErrEmailTaken):
		return utils.SendError(c, fiber.StatusConflict, service.ErrEmailTaken.Error())
	case errors.Is(err, service.ErrCategoryExists):
		return utils.SendError(c, fiber.StatusConflict, service.ErrCategoryExists.Error())
	case errors.Is(err, service.ErrWallpaperTooLarge):
		return utils.SendError(c, fiber.StatusRequestEntityTooLarge, service.ErrWallpaperTooLarge.Error())
	case errors.Is(err, service.ErrWallpaperTypeNotAllowed):
		return utils.SendError(c, fiber.StatusBadRequest, service.ErrWallpaperTypeNotAllowed.Error())
	default:
		logger.Error().Err(err).Msg(fallback)
		return utils.SendError(c, fiber.StatusInternalServerError, fallback)
	}
}
