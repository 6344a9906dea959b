package dto

import (
	"time"

	"github.com/noah-isme/aegis-admin-api/internal/models"
)

// AuditLogResponse is the API shape of an audit entry.
type AuditLogResponse struct {
	ID        uint                   `json:"id"`
	ActorID   uint                   `json:"actor_id"`
	ActorName string                 `json:"actor_name"`
	ActorRole models.Role            `json:"actor_role"`
	Action    string                 `json:"action"`
	Target    string                 `json:"target,omitempty"`
	TargetID  string                 `json:"target_id,omitempty"`
	Details   map[string]interface{} `json:"details,omitempty"`
	IPAddress string                 `json:"ip_address,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

// NewAuditLogResponse converts an audit log model.
func NewAuditLogResponse(entry models.AuditLog) AuditLogResponse {
	return AuditLogResponse{
		ID:        entry.ID,
		ActorID:   entry.ActorID,
		ActorName: entry.ActorName,
		ActorRole: entry.ActorRole,
		Action:    entry.Action,
		Target:    entry.Target,
		TargetID:  entry.TargetID,
		Details:   entry.Details,
		IPAddress: entry.IPAddress,
		CreatedAt: entry.CreatedAt,
	}
}

// NewAuditLogResponses converts a slice of audit entries.
func NewAuditLogResponses(entries []models.AuditLog) []AuditLogResponse {
	responses := make([]AuditLogResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, NewAuditLogResponse(entry))
	}
	return responses
}

// AuditLogListResponse is one page of the audit trail.
type AuditLogListResponse struct {
	Logs  []AuditLogResponse `json:"logs"`
	Total int64              `json:"total"`
}
