package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/aegis-admin-api/internal/dto"
	"github.com/noah-isme/aegis-admin-api/internal/models"
	"github.com/noah-isme/aegis-admin-api/internal/repository"
	"github.com/noah-isme/aegis-admin-api/internal/store"
	"github.com/noah-isme/aegis-admin-api/internal/token"
)

// testEnv bundles the wired service stack over an isolated in-memory SQLite
// database, the same way main assembles it.
type testEnv struct {
	adapter       *store.Adapter
	accountRepo   repository.AccountRepository
	auditRepo     repository.AuditLogRepository
	accounts      AccountService
	auth          AuthService
	audit         AuditService
	notifications NotificationService
	tokens        *token.Manager
}

func newTestAdapter(t *testing.T) *store.Adapter {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Account{},
		&models.AuditLog{},
		&models.Notification{},
		&models.Wallpaper{},
		&models.WallpaperCategory{},
	))

	return store.NewAdapter(store.Config{Mode: store.ModePersistent}, db, zerolog.Nop())
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	adapter := newTestAdapter(t)
	validate := validator.New(validator.WithRequiredStructEnabled())
	logger := zerolog.Nop()
	tokens := token.NewManager("test-secret", 0)

	accountRepo := repository.NewAccountRepository(adapter)
	auditRepo := repository.NewAuditLogRepository(adapter)
	notificationRepo := repository.NewNotificationRepository(adapter)

	audit := NewAuditService(auditRepo, logger)
	notifications := NewNotificationService(notificationRepo, validate, logger)
	accounts := NewAccountService(accountRepo, audit, notifications, validate, logger)
	auth := NewAuthService(accountRepo, audit, tokens, validate, logger)

	return &testEnv{
		adapter:       adapter,
		accountRepo:   accountRepo,
		auditRepo:     auditRepo,
		accounts:      accounts,
		auth:          auth,
		audit:         audit,
		notifications: notifications,
		tokens:        tokens,
	}
}

func mainAdminActor() Actor {
	return Actor{ID: 1, Name: "Main Administrator", Role: models.RoleMainAdmin}
}

// seedMainAdmin bootstraps the default admin and returns its actor identity.
func seedMainAdmin(t *testing.T, env *testEnv) Actor {
	t.Helper()

	require.NoError(t, env.accounts.Bootstrap(context.Background(), BootstrapConfig{
		Email:    "ratnesh@gmail.com",
		Name:     "Main Administrator",
		Password: "Admin@123",
	}))

	admin, err := env.accountRepo.FindByEmail(context.Background(), "ratnesh@gmail.com")
	require.NoError(t, err)
	return Actor{ID: admin.ID, Name: admin.Name, Role: admin.Role}
}

func createSubAdmin(t *testing.T, env *testEnv, actor Actor, email string) dto.AccountResponse {
	t.Helper()

	created, err := env.accounts.CreateSubAdmin(context.Background(), actor, dto.CreateSubAdminRequest{
		Email:    email,
		Name:     "Sub Admin",
		Password: "Str0ng@Pass",
	}, "127.0.0.1")
	require.NoError(t, err)
	return created
}
