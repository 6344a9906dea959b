package service

import (
	"context"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/noah-isme/aegis-admin-api/internal/dto"
	"github.com/noah-isme/aegis-admin-api/internal/observability"
	"github.com/noah-isme/aegis-admin-api/internal/repository"
	"github.com/noah-isme/aegis-admin-api/internal/token"
	"github.com/noah-isme/aegis-admin-api/internal/utils"
)

// AuthService handles login, logout and profile retrieval.
type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest, ip string) (dto.LoginResponse, error)
	Logout(ctx context.Context, actor Actor, ip string) error
	Profile(ctx context.Context, userID uint) (dto.AccountResponse, error)
}

type authService struct {
	accounts  repository.AccountRepository
	audit     AuditService
	tokens    *token.Manager
	validator *validator.Validate
	logger    zerolog.Logger
	now       func() time.Time
}

// NewAuthService constructs the auth service.
func NewAuthService(accounts repository.AccountRepository, audit AuditService, tokens *token.Manager, validate *validator.Validate, logger zerolog.Logger) AuthService {
	return &authService{
		accounts:  accounts,
		audit:     audit,
		tokens:    tokens,
		validator: validate,
		logger:    logger.With().Str("component", "auth_service").Logger(),
		now:       time.Now,
	}
}

// Login verifies credentials, stamps the last-login time, writes exactly one
// audit entry and returns a signed bearer token. Unknown email and wrong
// password produce the same error.
func (s *authService) Login(ctx context.Context, req dto.LoginRequest, ip string) (dto.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		observability.LoginAttempts().WithLabelValues("invalid_payload").Inc()
		return dto.LoginResponse{}, invalidRequest(err)
	}

	account, err := s.accounts.FindByEmail(ctx, req.Email)
	if err != nil {
		if isNotFound(err) {
			observability.LoginAttempts().WithLabelValues("failure").Inc()
			return dto.LoginResponse{}, ErrInvalidCredentials
		}
		return dto.LoginResponse{}, err
	}

	if !utils.ComparePassword(req.Password, account.PasswordHash) {
		observability.LoginAttempts().WithLabelValues("failure").Inc()
		return dto.LoginResponse{}, ErrInvalidCredentials
	}

	if !account.IsActive {
		observability.LoginAttempts().WithLabelValues("inactive").Inc()
		return dto.LoginResponse{}, ErrAccountInactive
	}

	loginAt := s.now()
	if err := s.accounts.UpdateLastLogin(ctx, account.ID, loginAt); err != nil {
		s.logger.Warn().Err(err).Uint("account_id", account.ID).Msg("failed to stamp last login")
	} else {
		account.LastLoginAt = &loginAt
	}

	signed, err := s.tokens.Generate(account)
	if err != nil {
		return dto.LoginResponse{}, err
	}

	s.recordAudit(ctx, AuditEntry{
		Actor:    Actor{ID: account.ID, Name: account.Name, Role: account.Role},
		Action:   ActionLogin,
		Target:   "session",
		TargetID: strconv.FormatUint(uint64(account.ID), 10),
		Details:  map[string]interface{}{"email": account.Email},
		IP:       ip,
	})

	observability.LoginAttempts().WithLabelValues("success").Inc()
	return dto.LoginResponse{
		User:      dto.NewAccountResponse(*account),
		Token:     signed,
		ExpiresIn: int64(s.tokens.TTL().Seconds()),
	}, nil
}

// Logout only audits the event; tokens are stateless and expire on their own.
func (s *authService) Logout(ctx context.Context, actor Actor, ip string) error {
	s.recordAudit(ctx, AuditEntry{
		Actor:    actor,
		Action:   ActionLogout,
		Target:   "session",
		TargetID: strconv.FormatUint(uint64(actor.ID), 10),
		IP:       ip,
	})
	return nil
}

func (s *authService) Profile(ctx context.Context, userID uint) (dto.AccountResponse, error) {
	account, err := s.accounts.FindByID(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return dto.AccountResponse{}, ErrNotFound
		}
		return dto.AccountResponse{}, err
	}
	return dto.NewAccountResponse(*account), nil
}

// recordAudit is best-effort: a failed audit write is logged, never surfaced.
func (s *authService) recordAudit(ctx context.Context, entry AuditEntry) {
	if _, err := s.audit.Record(ctx, entry); err != nil {
		s.logger.Error().Err(err).Str("action", entry.Action).Msg("failed to record audit entry")
	}
}
