package dto

import (
	"time"

	"github.com/noah-isme/aegis-admin-api/internal/models"
)

// AccountResponse is the public shape of an account. The password hash is
// never serialized.
type AccountResponse struct {
	ID          uint                  `json:"id"`
	Email       string                `json:"email"`
	Name        string                `json:"name"`
	Role        models.Role           `json:"role"`
	Permissions models.PermissionList `json:"permissions"`
	IsActive    bool                  `json:"is_active"`
	LastLoginAt *time.Time            `json:"last_login_at,omitempty"`
	CreatedByID *uint                 `json:"created_by_id,omitempty"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
}

// NewAccountResponse converts an account model into its API representation.
func NewAccountResponse(account models.Account) AccountResponse {
	permissions := account.Permissions
	if permissions == nil {
		permissions = models.PermissionList{}
	}
	return AccountResponse{
		ID:          account.ID,
		Email:       account.Email,
		Name:        account.Name,
		Role:        account.Role,
		Permissions: permissions,
		IsActive:    account.IsActive,
		LastLoginAt: account.LastLoginAt,
		CreatedByID: account.CreatedByID,
		CreatedAt:   account.CreatedAt,
		UpdatedAt:   account.UpdatedAt,
	}
}

// NewAccountResponses converts a slice of accounts.
func NewAccountResponses(accounts []models.Account) []AccountResponse {
	responses := make([]AccountResponse, 0, len(accounts))
	for _, account := range accounts {
		responses = append(responses, NewAccountResponse(account))
	}
	return responses
}

// CreateSubAdminRequest is the payload for provisioning a sub-admin.
type CreateSubAdminRequest struct {
	Email       string              `json:"email" validate:"required,email"`
	Name        string              `json:"name" validate:"required,min=2,max=255"`
	Password    string              `json:"password" validate:"required"`
	Permissions []models.Permission `json:"permissions" validate:"omitempty,dive,required"`
}

// UpdateSubAdminRequest carries partial sub-admin edits. Nil fields are left
// untouched.
type UpdateSubAdminRequest struct {
	Name        *string              `json:"name" validate:"omitempty,min=2,max=255"`
	Permissions *[]models.Permission `json:"permissions" validate:"omitempty,dive,required"`
	IsActive    *bool                `json:"is_active"`
}

// CreateUserRequest is the payload for provisioning an ordinary user.
type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required,min=2,max=255"`
	Password string `json:"password" validate:"required"`
}

// UpdateUserRequest carries partial user edits.
type UpdateUserRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=2,max=255"`
	IsActive *bool   `json:"is_active"`
}
