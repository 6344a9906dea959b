package models

import (
	"time"

	"gorm.io/datatypes"
)

// SystemActorID marks audit entries written by the service itself rather
// than an authenticated account (e.g. the bootstrap path).
const SystemActorID uint = 0

// AuditLog is an immutable record of a privileged action. Entries are only
// ever appended; no update or delete path exists.
type AuditLog struct {
	ID        uint              `gorm:"primaryKey" json:"id"`
	ActorID   uint              `gorm:"index" json:"actor_id"`
	ActorName string            `gorm:"size:255;not null" json:"actor_name"`
	ActorRole Role              `gorm:"size:32;not null" json:"actor_role"`
	Action    string            `gorm:"size:64;index;not null" json:"action"`
	Target    string            `gorm:"size:64" json:"target,omitempty"`
	TargetID  string            `gorm:"size:64" json:"target_id,omitempty"`
	Details   datatypes.JSONMap `gorm:"type:json" json:"details,omitempty"`
	IPAddress string            `gorm:"size:64" json:"ip_address,omitempty"`
	CreatedAt time.Time         `gorm:"index" json:"created_at"`
}
