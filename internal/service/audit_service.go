package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"github.com/noah-isme/aegis-admin-api/internal/dto"
	"github.com/noah-isme/aegis-admin-api/internal/models"
	"github.com/noah-isme/aegis-admin-api/internal/observability"
	"github.com/noah-isme/aegis-admin-api/internal/repository"
)

// maskedDetailKeys lists detail fields that must never land in the audit
// trail verbatim.
var maskedDetailKeys = map[string]struct{}{
	"password": {},
	"token":    {},
}

// AuditEntry is the write-side input for one audit record.
type AuditEntry struct {
	Actor    Actor
	Action   string
	Target   string
	TargetID string
	Details  map[string]interface{}
	IP       string
}

// AuditService records and queries the immutable audit trail.
type AuditService interface {
	Record(ctx context.Context, entry AuditEntry) (dto.AuditLogResponse, error)
	List(ctx context.Context, limit, offset int) (dto.AuditLogListResponse, error)
	ListByActor(ctx context.Context, actorID uint, limit int) ([]dto.AuditLogResponse, error)
	ListByAction(ctx context.Context, action string, limit int) ([]dto.AuditLogResponse, error)
	Recent(ctx context.Context, window time.Duration) ([]dto.AuditLogResponse, error)
}

type auditService struct {
	repo   repository.AuditLogRepository
	logger zerolog.Logger
	now    func() time.Time
}

// NewAuditService constructs the audit service.
func NewAuditService(repo repository.AuditLogRepository, logger zerolog.Logger) AuditService {
	return &auditService{
		repo:   repo,
		logger: logger.With().Str("component", "audit_service").Logger(),
		now:    time.Now,
	}
}

// Record appends one entry. Actions are normalised to lowercase and
// sensitive detail values are masked before the entry is stored.
func (s *auditService) Record(ctx context.Context, entry AuditEntry) (dto.AuditLogResponse, error) {
	action := strings.ToLower(strings.TrimSpace(entry.Action))
	if action == "" {
		return dto.AuditLogResponse{}, newValidationError("audit action is required")
	}

	record := &models.AuditLog{
		ActorID:   entry.Actor.ID,
		ActorName: entry.Actor.Name,
		ActorRole: entry.Actor.Role,
		Action:    action,
		Target:    entry.Target,
		TargetID:  entry.TargetID,
		Details:   maskDetails(entry.Details),
		IPAddress: entry.IP,
	}

	created, err := s.repo.Create(ctx, record)
	if err != nil {
		return dto.AuditLogResponse{}, err
	}

	observability.AuditEntries().Inc()
	s.logger.Info().
		Uint("actor_id", created.ActorID).
		Str("action", created.Action).
		Str("target", created.Target).
		Msg("audit entry recorded")

	return dto.NewAuditLogResponse(*created), nil
}

func (s *auditService) List(ctx context.Context, limit, offset int) (dto.AuditLogListResponse, error) {
	entries, total, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return dto.AuditLogListResponse{}, err
	}
	return dto.AuditLogListResponse{Logs: dto.NewAuditLogResponses(entries), Total: total}, nil
}

func (s *auditService) ListByActor(ctx context.Context, actorID uint, limit int) ([]dto.AuditLogResponse, error) {
	entries, err := s.repo.ListByActor(ctx, actorID, limit)
	if err != nil {
		return nil, err
	}
	return dto.NewAuditLogResponses(entries), nil
}

func (s *auditService) ListByAction(ctx context.Context, action string, limit int) ([]dto.AuditLogResponse, error) {
	entries, err := s.repo.ListByAction(ctx, strings.ToLower(strings.TrimSpace(action)), limit)
	if err != nil {
		return nil, err
	}
	return dto.NewAuditLogResponses(entries), nil
}

// Recent returns every entry newer than now minus the window, newest first.
func (s *auditService) Recent(ctx context.Context, window time.Duration) ([]dto.AuditLogResponse, error) {
	if window <= 0 {
		window = 24 * time.Hour
	}
	entries, err := s.repo.ListSince(ctx, s.now().Add(-window))
	if err != nil {
		return nil, err
	}
	return dto.NewAuditLogResponses(entries), nil
}

func maskDetails(details map[string]interface{}) datatypes.JSONMap {
	if len(details) == 0 {
		return nil
	}
	masked := make(datatypes.JSONMap, len(details))
	for key, value := range details {
		if _, sensitive := maskedDetailKeys[strings.ToLower(key)]; sensitive {
			masked[key] = "[redacted]"
			continue
		}
		masked[key] = value
	}
	return masked
}
