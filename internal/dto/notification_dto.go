package dto

import (
	"time"

	"github.com/noah-isme/aegis-admin-api/internal/models"
)

// NotificationResponse is the API shape of a notification.
type NotificationResponse struct {
	ID               uint                        `json:"id"`
	TargetRoles      models.RoleList             `json:"target_roles,omitempty"`
	TargetUserID     *uint                       `json:"target_user_id,omitempty"`
	ActorID          uint                        `json:"actor_id"`
	ActorName        string                      `json:"actor_name"`
	ActorRole        models.Role                 `json:"actor_role"`
	Type             models.NotificationType     `json:"type"`
	Title            string                      `json:"title"`
	Message          string                      `json:"message"`
	Action           string                      `json:"action,omitempty"`
	TargetResource   string                      `json:"target_resource,omitempty"`
	TargetResourceID string                      `json:"target_resource_id,omitempty"`
	Read             bool                        `json:"read"`
	Priority         models.NotificationPriority `json:"priority"`
	ExpiresAt        *time.Time                  `json:"expires_at,omitempty"`
	CreatedAt        time.Time                   `json:"created_at"`
}

// NewNotificationResponse converts a notification model.
func NewNotificationResponse(n models.Notification) NotificationResponse {
	return NotificationResponse{
		ID:               n.ID,
		TargetRoles:      n.TargetRoles,
		TargetUserID:     n.TargetUserID,
		ActorID:          n.ActorID,
		ActorName:        n.ActorName,
		ActorRole:        n.ActorRole,
		Type:             n.Type,
		Title:            n.Title,
		Message:          n.Message,
		Action:           n.Action,
		TargetResource:   n.TargetResource,
		TargetResourceID: n.TargetResourceID,
		Read:             n.Read,
		Priority:         n.Priority,
		ExpiresAt:        n.ExpiresAt,
		CreatedAt:        n.CreatedAt,
	}
}

// NewNotificationResponses converts a slice of notifications.
func NewNotificationResponses(notifications []models.Notification) []NotificationResponse {
	responses := make([]NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		responses = append(responses, NewNotificationResponse(n))
	}
	return responses
}

// NotificationListResponse is an inbox page plus the unread badge count.
type NotificationListResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	UnreadCount   int64                  `json:"unread_count"`
}

// BroadcastRequest is the payload for a main-admin broadcast to every role.
type BroadcastRequest struct {
	Title    string `json:"title" validate:"required,min=2,max=255"`
	Message  string `json:"message" validate:"required,min=2"`
	Type     string `json:"type" validate:"omitempty,oneof=info warning success error"`
	Priority string `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
}

// MarkAllReadResponse reports how many notifications were flipped.
type MarkAllReadResponse struct {
	Updated int64 `json:"updated"`
}
