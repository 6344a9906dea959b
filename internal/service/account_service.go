package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/noah-isme/aegis-admin-api/internal/dto"
	"github.com/noah-isme/aegis-admin-api/internal/models"
	"github.com/noah-isme/aegis-admin-api/internal/repository"
	"github.com/noah-isme/aegis-admin-api/internal/utils"
)

// BootstrapConfig seeds the first main admin when the directory is empty.
type BootstrapConfig struct {
	Email    string
	Name     string
	Password string
}

// AccountService manages the user directory: ordinary users and sub-admins.
type AccountService interface {
	ListUsers(ctx context.Context) ([]dto.AccountResponse, error)
	ListSubAdmins(ctx context.Context) ([]dto.AccountResponse, error)
	CreateUser(ctx context.Context, actor Actor, req dto.CreateUserRequest, ip string) (dto.AccountResponse, error)
	UpdateUser(ctx context.Context, actor Actor, id uint, req dto.UpdateUserRequest, ip string) (dto.AccountResponse, error)
	DeleteUser(ctx context.Context, actor Actor, id uint, ip string) error
	CreateSubAdmin(ctx context.Context, actor Actor, req dto.CreateSubAdminRequest, ip string) (dto.AccountResponse, error)
	UpdateSubAdmin(ctx context.Context, actor Actor, id uint, req dto.UpdateSubAdminRequest, ip string) (dto.AccountResponse, error)
	DeleteSubAdmin(ctx context.Context, actor Actor, id uint, ip string) error
	Bootstrap(ctx context.Context, cfg BootstrapConfig) error
}

type accountService struct {
	accounts      repository.AccountRepository
	audit         AuditService
	notifications NotificationService
	validator     *validator.Validate
	logger        zerolog.Logger
}

// NewAccountService constructs the account service.
func NewAccountService(accounts repository.AccountRepository, audit AuditService, notifications NotificationService, validate *validator.Validate, logger zerolog.Logger) AccountService {
	return &accountService{
		accounts:      accounts,
		audit:         audit,
		notifications: notifications,
		validator:     validate,
		logger:        logger.With().Str("component", "account_service").Logger(),
	}
}

func (s *accountService) ListUsers(ctx context.Context) ([]dto.AccountResponse, error) {
	accounts, err := s.accounts.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return dto.NewAccountResponses(accounts), nil
}

func (s *accountService) ListSubAdmins(ctx context.Context) ([]dto.AccountResponse, error) {
	accounts, err := s.accounts.ListByRole(ctx, models.RoleSubAdmin)
	if err != nil {
		return nil, err
	}
	return dto.NewAccountResponses(accounts), nil
}

func (s *accountService) CreateUser(ctx context.Context, actor Actor, req dto.CreateUserRequest, ip string) (dto.AccountResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.AccountResponse{}, invalidRequest(err)
	}

	account, err := s.create(ctx, actor, models.Account{
		Email:       req.Email,
		Name:        req.Name,
		Role:        models.RoleUser,
		Permissions: models.PermissionsForRole(models.RoleUser),
	}, req.Password)
	if err != nil {
		return dto.AccountResponse{}, err
	}

	s.recordAudit(ctx, AuditEntry{
		Actor:    actor,
		Action:   ActionCreateUser,
		Target:   "user",
		TargetID: formatID(account.ID),
		Details:  map[string]interface{}{"email": account.Email, "name": account.Name},
		IP:       ip,
	})
	s.trigger(ctx, actor, ActionCreateUser, TargetDetails{Name: account.Name, ID: formatID(account.ID)})

	return dto.NewAccountResponse(*account), nil
}

func (s *accountService) UpdateUser(ctx context.Context, actor Actor, id uint, req dto.UpdateUserRequest, ip string) (dto.AccountResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.AccountResponse{}, invalidRequest(err)
	}

	if _, err := s.findWithRole(ctx, id, models.RoleUser); err != nil {
		return dto.AccountResponse{}, err
	}

	updated, err := s.accounts.Update(ctx, id, models.AccountPatch{
		Name:     req.Name,
		IsActive: req.IsActive,
	})
	if err != nil {
		if isNotFound(err) {
			return dto.AccountResponse{}, ErrNotFound
		}
		return dto.AccountResponse{}, err
	}

	s.recordAudit(ctx, AuditEntry{
		Actor:    actor,
		Action:   ActionUpdateUser,
		Target:   "user",
		TargetID: formatID(id),
		Details:  patchDetails(req.Name, req.IsActive, nil),
		IP:       ip,
	})

	return dto.NewAccountResponse(*updated), nil
}

func (s *accountService) DeleteUser(ctx context.Context, actor Actor, id uint, ip string) error {
	account, err := s.findWithRole(ctx, id, models.RoleUser)
	if err != nil {
		return err
	}

	if err := s.delete(ctx, id); err != nil {
		return err
	}

	s.recordAudit(ctx, AuditEntry{
		Actor:    actor,
		Action:   ActionDeleteUser,
		Target:   "user",
		TargetID: formatID(id),
		Details:  map[string]interface{}{"email": account.Email, "name": account.Name},
		IP:       ip,
	})
	s.trigger(ctx, actor, ActionDeleteUser, TargetDetails{Name: account.Name, ID: formatID(id)})

	return nil
}

func (s *accountService) CreateSubAdmin(ctx context.Context, actor Actor, req dto.CreateSubAdminRequest, ip string) (dto.AccountResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.AccountResponse{}, invalidRequest(err)
	}

	permissions := models.PermissionList(req.Permissions)
	if len(permissions) == 0 {
		permissions = models.PermissionsForRole(models.RoleSubAdmin)
	}
	if invalid := models.InvalidForRole(models.RoleSubAdmin, permissions); len(invalid) > 0 {
		details := make([]string, 0, len(invalid))
		for _, p := range invalid {
			details = append(details, fmt.Sprintf("permission %q is not allowed for sub-admins", p))
		}
		return dto.AccountResponse{}, newValidationError("invalid permissions for sub-admin", details...)
	}

	account, err := s.create(ctx, actor, models.Account{
		Email:       req.Email,
		Name:        req.Name,
		Role:        models.RoleSubAdmin,
		Permissions: permissions,
	}, req.Password)
	if err != nil {
		return dto.AccountResponse{}, err
	}

	s.recordAudit(ctx, AuditEntry{
		Actor:    actor,
		Action:   ActionCreateSubAdmin,
		Target:   "user",
		TargetID: formatID(account.ID),
		Details: map[string]interface{}{
			"email":       account.Email,
			"name":        account.Name,
			"permissions": permissions,
		},
		IP: ip,
	})
	s.trigger(ctx, actor, ActionCreateSubAdmin, TargetDetails{Name: account.Name, ID: formatID(account.ID)})

	return dto.NewAccountResponse(*account), nil
}

func (s *accountService) UpdateSubAdmin(ctx context.Context, actor Actor, id uint, req dto.UpdateSubAdminRequest, ip string) (dto.AccountResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.AccountResponse{}, invalidRequest(err)
	}

	if _, err := s.findWithRole(ctx, id, models.RoleSubAdmin); err != nil {
		return dto.AccountResponse{}, err
	}

	var permissions *models.PermissionList
	if req.Permissions != nil {
		list := models.PermissionList(*req.Permissions)
		if invalid := models.InvalidForRole(models.RoleSubAdmin, list); len(invalid) > 0 {
			details := make([]string, 0, len(invalid))
			for _, p := range invalid {
				details = append(details, fmt.Sprintf("permission %q is not allowed for sub-admins", p))
			}
			return dto.AccountResponse{}, newValidationError("invalid permissions for sub-admin", details...)
		}
		permissions = &list
	}

	updated, err := s.accounts.Update(ctx, id, models.AccountPatch{
		Name:        req.Name,
		IsActive:    req.IsActive,
		Permissions: permissions,
	})
	if err != nil {
		if isNotFound(err) {
			return dto.AccountResponse{}, ErrNotFound
		}
		return dto.AccountResponse{}, err
	}

	s.recordAudit(ctx, AuditEntry{
		Actor:    actor,
		Action:   ActionUpdateSubAdmin,
		Target:   "user",
		TargetID: formatID(id),
		Details:  patchDetails(req.Name, req.IsActive, permissions),
		IP:       ip,
	})

	return dto.NewAccountResponse(*updated), nil
}

func (s *accountService) DeleteSubAdmin(ctx context.Context, actor Actor, id uint, ip string) error {
	account, err := s.findWithRole(ctx, id, models.RoleSubAdmin)
	if err != nil {
		return err
	}

	if err := s.delete(ctx, id); err != nil {
		return err
	}

	s.recordAudit(ctx, AuditEntry{
		Actor:    actor,
		Action:   ActionDeleteSubAdmin,
		Target:   "user",
		TargetID: formatID(id),
		Details:  map[string]interface{}{"email": account.Email, "name": account.Name},
		IP:       ip,
	})
	s.trigger(ctx, actor, ActionDeleteSubAdmin, TargetDetails{Name: account.Name, ID: formatID(id)})

	return nil
}

// Bootstrap seeds the first main admin and its welcome notification. Calling
// it against a non-empty directory is a no-op, so restarts are safe.
func (s *accountService) Bootstrap(ctx context.Context, cfg BootstrapConfig) error {
	count, err := s.accounts.CountByRole(ctx, models.RoleMainAdmin)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := utils.HashPassword(cfg.Password)
	if err != nil {
		return err
	}

	admin, err := s.accounts.Create(ctx, &models.Account{
		Email:        strings.ToLower(strings.TrimSpace(cfg.Email)),
		Name:         cfg.Name,
		PasswordHash: hash,
		Role:         models.RoleMainAdmin,
		Permissions:  models.PermissionsForRole(models.RoleMainAdmin),
		IsActive:     true,
	})
	if err != nil {
		if isDuplicateEmail(err) {
			// Lost a bootstrap race with another instance.
			return nil
		}
		return err
	}

	s.logger.Info().Str("email", admin.Email).Msg("default main admin created")

	s.recordAudit(ctx, AuditEntry{
		Actor:   SystemActor,
		Action:  ActionSystemStartup,
		Target:  "system",
		Details: map[string]interface{}{"seeded_admin": admin.Email},
	})

	if _, err := s.notifications.Post(ctx, NotificationInput{
		TargetRoles: models.RoleList{models.RoleMainAdmin},
		Actor:       SystemActor,
		Type:        models.NotificationInfo,
		Title:       "Welcome to Admin Dashboard",
		Message:     "Your admin dashboard is now ready to use!",
		Action:      ActionSystemStartup,
		Priority:    models.PriorityMedium,
	}); err != nil {
		s.logger.Error().Err(err).Msg("failed to create welcome notification")
	}

	return nil
}

// create runs the shared provisioning path: password policy, hashing, and
// the uniqueness check enforced by the storage layer itself.
func (s *accountService) create(ctx context.Context, actor Actor, account models.Account, password string) (*models.Account, error) {
	if problems := utils.ValidatePassword(password); len(problems) > 0 {
		return nil, newValidationError("password does not meet the policy", problems...)
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}
	account.PasswordHash = hash
	account.IsActive = true
	if actor.ID != models.SystemActorID {
		creator := actor.ID
		account.CreatedByID = &creator
	}

	created, err := s.accounts.Create(ctx, &account)
	if err != nil {
		if isDuplicateEmail(err) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return created, nil
}

// findWithRole loads an account and hides role mismatches behind not-found,
// so the users endpoint cannot be used to probe or mutate sub-admins and
// vice versa.
func (s *accountService) findWithRole(ctx context.Context, id uint, role models.Role) (*models.Account, error) {
	account, err := s.accounts.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if account.Role != role {
		return nil, ErrNotFound
	}
	return account, nil
}

func (s *accountService) delete(ctx context.Context, id uint) error {
	removed, err := s.accounts.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !removed {
		return ErrNotFound
	}
	return nil
}

func (s *accountService) recordAudit(ctx context.Context, entry AuditEntry) {
	if _, err := s.audit.Record(ctx, entry); err != nil {
		s.logger.Error().Err(err).Str("action", entry.Action).Msg("failed to record audit entry")
	}
}

func (s *accountService) trigger(ctx context.Context, actor Actor, action string, target TargetDetails) {
	if _, err := s.notifications.Trigger(ctx, actor, action, target); err != nil {
		s.logger.Error().Err(err).Str("action", action).Msg("failed to trigger notifications")
	}
}

func formatID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func patchDetails(name *string, isActive *bool, permissions *models.PermissionList) map[string]interface{} {
	details := map[string]interface{}{}
	if name != nil {
		details["name"] = *name
	}
	if isActive != nil {
		details["is_active"] = *isActive
	}
	if permissions != nil {
		details["permissions"] = *permissions
	}
	if len(details) == 0 {
		return nil
	}
	return details
}
