package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/aegis-admin-api/internal/dto"
	"github.com/noah-isme/aegis-admin-api/internal/models"
	"github.com/noah-isme/aegis-admin-api/internal/observability"
	"github.com/noah-isme/aegis-admin-api/internal/repository"
)

// NotificationInput is the low-level write shape used by the rule engine,
// the broadcast path, and the bootstrap welcome message.
type NotificationInput struct {
	TargetRoles      models.RoleList
	TargetUserID     *uint
	Actor            Actor
	Type             models.NotificationType
	Title            string
	Message          string
	Action           string
	TargetResource   string
	TargetResourceID string
	Priority         models.NotificationPriority
	ExpiresAt        *time.Time
}

// NotificationService fans out rule-driven notifications and serves inboxes.
type NotificationService interface {
	Trigger(ctx context.Context, actor Actor, action string, target TargetDetails) ([]dto.NotificationResponse, error)
	BroadcastAll(ctx context.Context, actor Actor, req dto.BroadcastRequest) ([]dto.NotificationResponse, error)
	Post(ctx context.Context, input NotificationInput) (dto.NotificationResponse, error)
	ListForUser(ctx context.Context, userID uint, role models.Role, limit int) (dto.NotificationListResponse, error)
	MarkRead(ctx context.Context, id uint) (dto.NotificationResponse, error)
	MarkAllRead(ctx context.Context, userID uint, role models.Role) (int64, error)
	Delete(ctx context.Context, id uint) error
	SweepExpired(ctx context.Context) (int64, error)
}

type notificationService struct {
	repo      repository.NotificationRepository
	validator *validator.Validate
	logger    zerolog.Logger
	policy    *bluemonday.Policy
	tracer    trace.Tracer
	now       func() time.Time
}

// NewNotificationService constructs the notification engine.
func NewNotificationService(repo repository.NotificationRepository, validate *validator.Validate, logger zerolog.Logger) NotificationService {
	return &notificationService{
		repo:      repo,
		validator: validate,
		logger:    logger.With().Str("component", "notification_service").Logger(),
		policy:    bluemonday.StrictPolicy(),
		tracer:    otel.Tracer("notification-service"),
		now:       time.Now,
	}
}

// Trigger runs the rule lookup for (actor role, action). No matching rule is
// a silent no-op. One notification row is written per recipient role; a
// failed row is logged and skipped so one bad write cannot block the rest.
func (s *notificationService) Trigger(ctx context.Context, actor Actor, action string, target TargetDetails) ([]dto.NotificationResponse, error) {
	ctx, span := s.tracer.Start(ctx, "notification.trigger", trace.WithAttributes(
		attribute.String("action", action),
		attribute.String("actor_role", string(actor.Role)),
	))
	defer span.End()

	rule, ok := LookupRule(actor.Role, action)
	if !ok {
		return nil, nil
	}

	content := rule.Template(actor.Name, target)

	targetResource := ""
	if target.Name != "" {
		targetResource = "user"
	}

	created := make([]dto.NotificationResponse, 0, len(rule.Recipients))
	for _, recipient := range rule.Recipients {
		response, err := s.Post(ctx, NotificationInput{
			TargetRoles:      models.RoleList{recipient},
			Actor:            actor,
			Type:             content.Type,
			Title:            content.Title,
			Message:          content.Message,
			Action:           action,
			TargetResource:   targetResource,
			TargetResourceID: target.ID,
			Priority:         rule.Priority,
		})
		if err != nil {
			s.logger.Error().Err(err).
				Str("action", action).
				Str("recipient_role", string(recipient)).
				Msg("failed to create rule-based notification")
			continue
		}
		created = append(created, response)
	}

	span.SetAttributes(attribute.Int("notifications_created", len(created)))
	return created, nil
}

// BroadcastAll writes one notification per fixed role, bypassing the rule
// table. Title and message are sanitised so a broadcast cannot smuggle
// markup into every inbox in the system.
func (s *notificationService) BroadcastAll(ctx context.Context, actor Actor, req dto.BroadcastRequest) ([]dto.NotificationResponse, error) {
	ctx, span := s.tracer.Start(ctx, "notification.broadcast")
	defer span.End()

	if err := s.validator.Struct(req); err != nil {
		return nil, invalidRequest(err)
	}

	notificationType := models.NotificationType(req.Type)
	if req.Type == "" {
		notificationType = models.NotificationInfo
	}
	priority := models.NotificationPriority(req.Priority)
	if req.Priority == "" {
		priority = models.PriorityMedium
	}

	title := strings.TrimSpace(s.policy.Sanitize(req.Title))
	message := strings.TrimSpace(s.policy.Sanitize(req.Message))
	if title == "" || message == "" {
		return nil, newValidationError("invalid request payload", "title and message must contain text")
	}

	created := make([]dto.NotificationResponse, 0, len(models.AllRoles))
	for _, role := range models.AllRoles {
		response, err := s.Post(ctx, NotificationInput{
			TargetRoles: models.RoleList{role},
			Actor:       actor,
			Type:        notificationType,
			Title:       title,
			Message:     message,
			Action:      ActionBroadcastMessage,
			Priority:    priority,
		})
		if err != nil {
			s.logger.Error().Err(err).
				Str("recipient_role", string(role)).
				Msg("failed to create broadcast notification")
			continue
		}
		created = append(created, response)
	}

	span.SetAttributes(attribute.Int("notifications_created", len(created)))
	return created, nil
}

// Post writes a single notification row.
func (s *notificationService) Post(ctx context.Context, input NotificationInput) (dto.NotificationResponse, error) {
	if !input.Type.Valid() {
		input.Type = models.NotificationInfo
	}
	if !input.Priority.Valid() {
		input.Priority = models.PriorityMedium
	}

	notification := &models.Notification{
		TargetRoles:      input.TargetRoles,
		TargetUserID:     input.TargetUserID,
		ActorID:          input.Actor.ID,
		ActorName:        input.Actor.Name,
		ActorRole:        input.Actor.Role,
		Type:             input.Type,
		Title:            input.Title,
		Message:          input.Message,
		Action:           input.Action,
		TargetResource:   input.TargetResource,
		TargetResourceID: input.TargetResourceID,
		Priority:         input.Priority,
		ExpiresAt:        input.ExpiresAt,
	}

	created, err := s.repo.Create(ctx, notification)
	if err != nil {
		return dto.NotificationResponse{}, err
	}

	observability.NotificationsPublished().WithLabelValues(created.Action).Inc()
	return dto.NewNotificationResponse(*created), nil
}

func (s *notificationService) ListForUser(ctx context.Context, userID uint, role models.Role, limit int) (dto.NotificationListResponse, error) {
	notifications, err := s.repo.ListForUser(ctx, userID, role, limit)
	if err != nil {
		return dto.NotificationListResponse{}, err
	}

	unread, err := s.repo.UnreadCount(ctx, userID, role)
	if err != nil {
		return dto.NotificationListResponse{}, err
	}

	return dto.NotificationListResponse{
		Notifications: dto.NewNotificationResponses(notifications),
		UnreadCount:   unread,
	}, nil
}

func (s *notificationService) MarkRead(ctx context.Context, id uint) (dto.NotificationResponse, error) {
	notification, err := s.repo.MarkRead(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return dto.NotificationResponse{}, ErrNotFound
		}
		return dto.NotificationResponse{}, err
	}
	return dto.NewNotificationResponse(*notification), nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID uint, role models.Role) (int64, error) {
	return s.repo.MarkAllRead(ctx, userID, role)
}

func (s *notificationService) Delete(ctx context.Context, id uint) error {
	removed, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !removed {
		return ErrNotFound
	}
	return nil
}

// SweepExpired removes rows past their expiry. Scheduled periodically; also
// callable directly for tests.
func (s *notificationService) SweepExpired(ctx context.Context) (int64, error) {
	removed, err := s.repo.DeleteExpired(ctx, s.now())
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		s.logger.Info().Int64("removed", removed).Msg("expired notifications swept")
	}
	return removed, nil
}
