package handler

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/aegis-admin-api/internal/dto"
	"github.com/noah-isme/aegis-admin-api/internal/middleware"
	"github.com/noah-isme/aegis-admin-api/internal/models"
	"github.com/noah-isme/aegis-admin-api/internal/service"
	"github.com/noah-isme/aegis-admin-api/internal/utils"
)

// WallpaperHandler serves the wallpaper catalog routes.
type WallpaperHandler struct {
	service service.WallpaperService
	logger  zerolog.Logger
}

// NewWallpaperHandler constructs the wallpaper handler.
func NewWallpaperHandler(svc service.WallpaperService, logger zerolog.Logger) *WallpaperHandler {
	return &WallpaperHandler{
		service: svc,
		logger:  logger.With().Str("component", "wallpaper_handler").Logger(),
	}
}

// Register wires the wallpaper routes. Mutations are main-admin only.
func (h *WallpaperHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", middleware.RequireRole(models.RoleMainAdmin), h.upload)
	router.Delete("/:id", middleware.RequireRole(models.RoleMainAdmin), h.remove)
	router.Get("/categories", h.listCategories)
	router.Post("/categories", middleware.RequireRole(models.RoleMainAdmin), h.createCategory)
}

func (h *WallpaperHandler) list(c *fiber.Ctx) error {
	limit, err := parseQueryInt(c, "limit")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid limit")
	}

	var categoryID *uint
	if raw := strings.TrimSpace(c.Query("category_id")); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return utils.SendError(c, fiber.StatusBadRequest, "invalid category id")
		}
		id := uint(parsed)
		categoryID = &id
	}

	wallpapers, err := h.service.List(c.UserContext(), categoryID, limit)
	if err != nil {
		return respondServiceError(c, h.logger, err, "failed to list wallpapers")
	}
	return utils.SendSuccess(c, "wallpapers", wallpapers)
}

func (h *WallpaperHandler) upload(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "image file is required")
	}

	payload := dto.UploadWallpaperRequest{Title: c.FormValue("title")}
	if raw := strings.TrimSpace(c.FormValue("category_id")); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return utils.SendError(c, fiber.StatusBadRequest, "invalid category id")
		}
		id := uint(parsed)
		payload.CategoryID = &id
	}

	wallpaper, err := h.service.Upload(c.UserContext(), actorFromContext(c), payload, file, c.IP())
	if err != nil {
		return respondServiceError(c, h.logger, err, "failed to upload wallpaper")
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "wallpaper uploaded", wallpaper)
}

func (h *WallpaperHandler) remove(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid wallpaper id")
	}

	if err := h.service.Delete(c.UserContext(), actorFromContext(c), id, c.IP()); err != nil {
		return respondServiceError(c, h.logger, err, "failed to delete wallpaper")
	}
	return utils.SendSuccess(c, "wallpaper deleted", nil)
}

func (h *WallpaperHandler) listCategories(c *fiber.Ctx) error {
	categories, err := h.service.ListCategories(c.UserContext())
	if err != nil {
		return respondServiceError(c, h.logger, err, "failed to list categories")
	}
	return utils.SendSuccess(c, "wallpaper categories", categories)
}

func (h *WallpaperHandler) createCategory(c *fiber.Ctx) error {
	var payload dto.CreateWallpaperCategoryRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	category, err := h.service.CreateCategory(c.UserContext(), actorFromContext(c), payload, c.IP())
	if err != nil {
		return respondServiceError(c, h.logger, err, "failed to create category")
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "category created", category)
}
