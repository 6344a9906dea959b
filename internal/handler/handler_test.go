package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/aegis-admin-api/internal/dto"
	"github.com/noah-isme/aegis-admin-api/internal/middleware"
	"github.com/noah-isme/aegis-admin-api/internal/models"
	"github.com/noah-isme/aegis-admin-api/internal/repository"
	"github.com/noah-isme/aegis-admin-api/internal/service"
	"github.com/noah-isme/aegis-admin-api/internal/store"
	"github.com/noah-isme/aegis-admin-api/internal/token"
)

// apiFixture wires the HTTP surface the way the router does, over an
// isolated in-memory database.
type apiFixture struct {
	app           *fiber.App
	accounts      service.AccountService
	notifications service.NotificationService
}

// envelope mirrors utils.APIResponse with the data left raw so each test can
// decode its own shape.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Details []string        `json:"details"`
}

func passThrough(c *fiber.Ctx) error {
	return c.Next()
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Account{},
		&models.AuditLog{},
		&models.Notification{},
	))

	adapter := store.NewAdapter(store.Config{Mode: store.ModePersistent}, db, zerolog.Nop())
	validate := validator.New(validator.WithRequiredStructEnabled())
	logger := zerolog.Nop()
	tokens := token.NewManager("handler-test-secret", 0)

	accountRepo := repository.NewAccountRepository(adapter)
	auditRepo := repository.NewAuditLogRepository(adapter)
	notificationRepo := repository.NewNotificationRepository(adapter)

	audit := service.NewAuditService(auditRepo, logger)
	notifications := service.NewNotificationService(notificationRepo, validate, logger)
	accounts := service.NewAccountService(accountRepo, audit, notifications, validate, logger)
	auth := service.NewAuthService(accountRepo, audit, tokens, validate, logger)

	require.NoError(t, accounts.Bootstrap(context.Background(), service.BootstrapConfig{
		Email:    "ratnesh@gmail.com",
		Name:     "Main Administrator",
		Password: "Admin@123",
	}))

	authenticate := middleware.Authenticate(tokens, accountRepo)

	app := fiber.New()
	api := app.Group("/api")

	NewAuthHandler(auth, authenticate, passThrough, logger).Register(api.Group("/auth"))

	accountHandler := NewAccountHandler(accounts, logger)
	accountHandler.RegisterUsers(api.Group("/users", authenticate))
	accountHandler.RegisterSubAdmins(api.Group("/sub-admins", authenticate))

	NewNotificationHandler(notifications, logger).Register(api.Group("/notifications", authenticate))

	return &apiFixture{app: app, accounts: accounts, notifications: notifications}
}

func (f *apiFixture) request(t *testing.T, method, path, bearer string, payload interface{}) (*http.Response, envelope) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	res, err := f.app.Test(req)
	require.NoError(t, err)

	var parsed envelope
	require.NoError(t, json.NewDecoder(res.Body).Decode(&parsed))
	return res, parsed
}

// login authenticates via the HTTP surface and returns the bearer token.
func (f *apiFixture) login(t *testing.T, email, password string) string {
	t.Helper()

	res, body := f.request(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{
		Email:    email,
		Password: password,
	})
	require.Equal(t, http.StatusOK, res.StatusCode)

	var login dto.LoginResponse
	require.NoError(t, json.Unmarshal(body.Data, &login))
	require.NotEmpty(t, login.Token)
	return login.Token
}

func (f *apiFixture) loginMainAdmin(t *testing.T) string {
	return f.login(t, "ratnesh@gmail.com", "Admin@123")
}

// seedSubAdmin creates a sub-admin through the service with the default
// permission set.
func (f *apiFixture) seedSubAdmin(t *testing.T, email string) dto.AccountResponse {
	t.Helper()

	created, err := f.accounts.CreateSubAdmin(context.Background(), service.Actor{
		ID: 1, Name: "Main Administrator", Role: models.RoleMainAdmin,
	}, dto.CreateSubAdminRequest{
		Email:    email,
		Name:     "Sub Admin",
		Password: "Str0ng@Pass",
	}, "127.0.0.1")
	require.NoError(t, err)
	return created
}
