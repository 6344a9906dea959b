package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// NotificationType conveys severity for display purposes.
type NotificationType string

const (
	NotificationInfo    NotificationType = "info"
	NotificationWarning NotificationType = "warning"
	NotificationSuccess NotificationType = "success"
	NotificationError   NotificationType = "error"
)

// Valid reports whether the type is one of the four fixed severities.
func (t NotificationType) Valid() bool {
	switch t {
	case NotificationInfo, NotificationWarning, NotificationSuccess, NotificationError:
		return true
	}
	return false
}

// NotificationPriority orders notifications for display.
type NotificationPriority string

const (
	PriorityLow    NotificationPriority = "low"
	PriorityMedium NotificationPriority = "medium"
	PriorityHigh   NotificationPriority = "high"
	PriorityUrgent NotificationPriority = "urgent"
)

// Valid reports whether the priority is one of the four fixed levels.
func (p NotificationPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Notification targets either a set of roles or a single account. Only the
// read flag is mutable after creation.
type Notification struct {
	ID               uint                 `gorm:"primaryKey" json:"id"`
	// Stored as a JSON array in a text column so role membership can be
	// matched with a LIKE pattern on every backend.
	TargetRoles      RoleList             `gorm:"size:255;index" json:"target_roles,omitempty"`
	TargetUserID     *uint                `gorm:"index" json:"target_user_id,omitempty"`
	ActorID          uint                 `gorm:"index" json:"actor_id"`
	ActorName        string               `gorm:"size:255;not null" json:"actor_name"`
	ActorRole        Role                 `gorm:"size:32;not null" json:"actor_role"`
	Type             NotificationType     `gorm:"size:16;not null;default:info" json:"type"`
	Title            string               `gorm:"size:255;not null" json:"title"`
	Message          string               `gorm:"type:text;not null" json:"message"`
	Action           string               `gorm:"size:64;index" json:"action,omitempty"`
	TargetResource   string               `gorm:"size:64" json:"target_resource,omitempty"`
	TargetResourceID string               `gorm:"size:64" json:"target_resource_id,omitempty"`
	Read             bool                 `gorm:"not null;default:false;index" json:"read"`
	Priority         NotificationPriority `gorm:"size:16;not null;default:medium" json:"priority"`
	ExpiresAt        *time.Time           `gorm:"index" json:"expires_at,omitempty"`
	CreatedAt        time.Time            `gorm:"index" json:"created_at"`
	UpdatedAt        time.Time            `json:"updated_at"`
}

// VisibleTo reports whether the notification should appear in the inbox of
// the given account. A specific-user target wins; otherwise the account's
// role must be in the target role list.
func (n Notification) VisibleTo(userID uint, role Role) bool {
	if n.TargetUserID != nil {
		if *n.TargetUserID == userID {
			return true
		}
	}
	return n.TargetRoles.Contains(role)
}

// Expired reports whether the notification is past its expiry timestamp.
func (n Notification) Expired(now time.Time) bool {
	return n.ExpiresAt != nil && !n.ExpiresAt.After(now)
}

// RoleList is a set of recipient roles stored as a JSON column.
type RoleList []Role

// Contains reports whether the role is in the list.
func (l RoleList) Contains(role Role) bool {
	for _, candidate := range l {
		if candidate == role {
			return true
		}
	}
	return false
}

// Value implements driver.Valuer.
func (l RoleList) Value() (driver.Value, error) {
	if l == nil {
		l = RoleList{}
	}
	payload, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(payload), nil
}

// Scan implements sql.Scanner.
func (l *RoleList) Scan(value interface{}) error {
	if value == nil {
		*l = RoleList{}
		return nil
	}

	var payload []byte
	switch v := value.(type) {
	case []byte:
		payload = v
	case string:
		payload = []byte(v)
	default:
		return fmt.Errorf("unsupported role list column type %T", value)
	}

	return json.Unmarshal(payload, l)
}
