package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/aegis-admin-api/internal/dto"
	"github.com/noah-isme/aegis-admin-api/internal/models"
	"github.com/noah-isme/aegis-admin-api/internal/repository"
)

var (
	// ErrWallpaperTooLarge indicates the image exceeded the size limit.
	ErrWallpaperTooLarge = errors.New("image exceeds maximum allowed size")
	// ErrWallpaperTypeNotAllowed indicates the payload is not an image.
	ErrWallpaperTypeNotAllowed = errors.New("only image uploads are allowed")
)

// ImageStorage abstracts the external image host.
type ImageStorage interface {
	Upload(ctx context.Context, name string, reader io.Reader) (string, error)
}

// WallpaperService manages the wallpaper catalog.
type WallpaperService interface {
	Upload(ctx context.Context, actor Actor, req dto.UploadWallpaperRequest, file *multipart.FileHeader, ip string) (dto.WallpaperResponse, error)
	List(ctx context.Context, categoryID *uint, limit int) ([]dto.WallpaperResponse, error)
	Delete(ctx context.Context, actor Actor, id uint, ip string) error
	CreateCategory(ctx context.Context, actor Actor, req dto.CreateWallpaperCategoryRequest, ip string) (dto.WallpaperCategoryResponse, error)
	ListCategories(ctx context.Context) ([]dto.WallpaperCategoryResponse, error)
}

type wallpaperService struct {
	storage   ImageStorage
	repo      repository.WallpaperRepository
	audit     AuditService
	validator *validator.Validate
	logger    zerolog.Logger
	maxSize   int64
	tracer    trace.Tracer
}

// NewWallpaperService constructs the wallpaper service.
func NewWallpaperService(storage ImageStorage, repo repository.WallpaperRepository, audit AuditService, maxSizeMB int, validate *validator.Validate, logger zerolog.Logger) WallpaperService {
	if maxSizeMB <= 0 {
		maxSizeMB = 10
	}
	return &wallpaperService{
		storage:   storage,
		repo:      repo,
		audit:     audit,
		validator: validate,
		logger:    logger.With().Str("component", "wallpaper_service").Logger(),
		maxSize:   int64(maxSizeMB) * 1024 * 1024,
		tracer:    otel.Tracer("wallpaper-service"),
	}
}

func (s *wallpaperService) Upload(ctx context.Context, actor Actor, req dto.UploadWallpaperRequest, file *multipart.FileHeader, ip string) (dto.WallpaperResponse, error) {
	ctx, span := s.tracer.Start(ctx, "wallpaper.upload")
	defer span.End()

	if err := s.validator.Struct(req); err != nil {
		return dto.WallpaperResponse{}, invalidRequest(err)
	}
	if file == nil {
		return dto.WallpaperResponse{}, newValidationError("image file is required")
	}
	if file.Size > s.maxSize {
		span.RecordError(ErrWallpaperTooLarge)
		span.SetStatus(codes.Error, "payload too large")
		return dto.WallpaperResponse{}, ErrWallpaperTooLarge
	}

	source, err := file.Open()
	if err != nil {
		return dto.WallpaperResponse{}, err
	}
	defer source.Close()

	payload, err := io.ReadAll(io.LimitReader(source, s.maxSize+1))
	if err != nil {
		return dto.WallpaperResponse{}, err
	}
	if int64(len(payload)) > s.maxSize {
		return dto.WallpaperResponse{}, ErrWallpaperTooLarge
	}

	// Sniff the real content type; the client-supplied header is not trusted.
	detected := mimetype.Detect(payload)
	if !strings.HasPrefix(detected.String(), "image/") {
		span.RecordError(ErrWallpaperTypeNotAllowed)
		span.SetStatus(codes.Error, "type not allowed")
		return dto.WallpaperResponse{}, ErrWallpaperTypeNotAllowed
	}
	span.SetAttributes(
		attribute.String("wallpaper.content_type", detected.String()),
		attribute.Int("wallpaper.bytes", len(payload)),
	)

	url, err := s.storage.Upload(ctx, file.Filename, bytes.NewReader(payload))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "storage upload failed")
		return dto.WallpaperResponse{}, err
	}

	created, err := s.repo.Create(ctx, &models.Wallpaper{
		Title:       strings.TrimSpace(req.Title),
		URL:         url,
		ContentType: detected.String(),
		CategoryID:  req.CategoryID,
		UploadedBy:  actor.ID,
	})
	if err != nil {
		return dto.WallpaperResponse{}, err
	}

	s.recordAudit(ctx, AuditEntry{
		Actor:    actor,
		Action:   ActionUploadWallpaper,
		Target:   "wallpaper",
		TargetID: formatID(created.ID),
		Details:  map[string]interface{}{"title": created.Title, "content_type": created.ContentType},
		IP:       ip,
	})

	return dto.NewWallpaperResponse(*created), nil
}

func (s *wallpaperService) List(ctx context.Context, categoryID *uint, limit int) ([]dto.WallpaperResponse, error) {
	wallpapers, err := s.repo.List(ctx, categoryID, limit)
	if err != nil {
		return nil, err
	}
	return dto.NewWallpaperResponses(wallpapers), nil
}

func (s *wallpaperService) Delete(ctx context.Context, actor Actor, id uint, ip string) error {
	removed, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !removed {
		return ErrNotFound
	}

	s.recordAudit(ctx, AuditEntry{
		Actor:    actor,
		Action:   ActionDeleteWallpaper,
		Target:   "wallpaper",
		TargetID: formatID(id),
		IP:       ip,
	})
	return nil
}

func (s *wallpaperService) CreateCategory(ctx context.Context, actor Actor, req dto.CreateWallpaperCategoryRequest, ip string) (dto.WallpaperCategoryResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.WallpaperCategoryResponse{}, invalidRequest(err)
	}

	created, err := s.repo.CreateCategory(ctx, &models.WallpaperCategory{Name: strings.TrimSpace(req.Name)})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateName) {
			return dto.WallpaperCategoryResponse{}, ErrCategoryExists
		}
		return dto.WallpaperCategoryResponse{}, err
	}

	s.recordAudit(ctx, AuditEntry{
		Actor:    actor,
		Action:   ActionCreateWallpaperCategory,
		Target:   "wallpaper_category",
		TargetID: formatID(created.ID),
		Details:  map[string]interface{}{"name": created.Name},
		IP:       ip,
	})

	return dto.NewWallpaperCategoryResponse(*created), nil
}

func (s *wallpaperService) ListCategories(ctx context.Context) ([]dto.WallpaperCategoryResponse, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	return dto.NewWallpaperCategoryResponses(categories), nil
}

func (s *wallpaperService) recordAudit(ctx context.Context, entry AuditEntry) {
	if _, err := s.audit.Record(ctx, entry); err != nil {
		s.logger.Error().Err(err).Str("action", entry.Action).Msg("failed to record audit entry")
	}
}
