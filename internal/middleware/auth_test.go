package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/aegis-admin-api/internal/models"
	"github.com/noah-isme/aegis-admin-api/internal/repository"
	"github.com/noah-isme/aegis-admin-api/internal/store"
	"github.com/noah-isme/aegis-admin-api/internal/token"
	"github.com/noah-isme/aegis-admin-api/internal/utils"
)

type authFixture struct {
	app      *fiber.App
	tokens   *token.Manager
	accounts repository.AccountRepository
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Account{}))

	adapter := store.NewAdapter(store.Config{Mode: store.ModePersistent}, db, zerolog.Nop())
	accounts := repository.NewAccountRepository(adapter)
	tokens := token.NewManager("middleware-test-secret", time.Hour)

	app := fiber.New()
	app.Get("/protected", Authenticate(tokens, accounts), func(c *fiber.Ctx) error {
		user, _ := CurrentUser(c)
		return utils.SendSuccess(c, "ok", fiber.Map{"email": user.Email, "role": user.Role})
	})

	return &authFixture{app: app, tokens: tokens, accounts: accounts}
}

func (f *authFixture) seedAccount(t *testing.T, role models.Role, active bool) *models.Account {
	t.Helper()

	account, err := f.accounts.Create(context.Background(), &models.Account{
		Email:        fmt.Sprintf("%s@example.com", t.Name()),
		Name:         "Fixture Account",
		PasswordHash: "not-used-here",
		Role:         role,
		Permissions:  models.PermissionsForRole(role),
		IsActive:     active,
	})
	require.NoError(t, err)
	return account
}

func protectedRequest(token string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func decodeMessage(t *testing.T, res *http.Response) string {
	t.Helper()
	var body utils.APIResponse
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	return body.Message
}

func TestAuthenticatePassesValidToken(t *testing.T) {
	fixture := newAuthFixture(t)
	account := fixture.seedAccount(t, models.RoleMainAdmin, true)

	bearer, err := fixture.tokens.Generate(account)
	require.NoError(t, err)

	res, err := fixture.app.Test(protectedRequest(bearer))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)
}

func TestAuthenticateRejectsMissingHeader(t *testing.T) {
	fixture := newAuthFixture(t)

	res, err := fixture.app.Test(protectedRequest(""))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	assert.Equal(t, "access token required", decodeMessage(t, res))
}

func TestAuthenticateRejectsMalformedHeader(t *testing.T) {
	fixture := newAuthFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Token abc")

	res, err := fixture.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	assert.Equal(t, "invalid authorization header", decodeMessage(t, res))
}

func TestAuthenticateRejectsExpiredToken(t *testing.T) {
	fixture := newAuthFixture(t)
	account := fixture.seedAccount(t, models.RoleMainAdmin, true)

	// Sign a token whose expiry is already in the past.
	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   fmt.Sprintf("%d", account.ID),
		"email": account.Email,
		"role":  string(account.Role),
		"iat":   time.Now().Add(-2 * time.Hour).Unix(),
		"exp":   time.Now().Add(-time.Hour).Unix(),
	})
	bearer, err := expired.SignedString([]byte("middleware-test-secret"))
	require.NoError(t, err)

	res, err := fixture.app.Test(protectedRequest(bearer))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	assert.Equal(t, "token expired, please log in again", decodeMessage(t, res))
}

func TestAuthenticateRejectsForeignSignature(t *testing.T) {
	fixture := newAuthFixture(t)
	account := fixture.seedAccount(t, models.RoleMainAdmin, true)

	foreign := token.NewManager("some-other-secret", time.Hour)
	bearer, err := foreign.Generate(account)
	require.NoError(t, err)

	res, err := fixture.app.Test(protectedRequest(bearer))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	assert.Equal(t, "invalid token", decodeMessage(t, res))
}

func TestAuthenticateRejectsDeletedAccount(t *testing.T) {
	fixture := newAuthFixture(t)
	account := fixture.seedAccount(t, models.RoleSubAdmin, true)

	bearer, err := fixture.tokens.Generate(account)
	require.NoError(t, err)

	removed, err := fixture.accounts.Delete(context.Background(), account.ID)
	require.NoError(t, err)
	require.True(t, removed)

	res, err := fixture.app.Test(protectedRequest(bearer))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	assert.Equal(t, "user not found", decodeMessage(t, res))
}

func TestAuthenticateRejectsDeactivatedAccount(t *testing.T) {
	fixture := newAuthFixture(t)
	account := fixture.seedAccount(t, models.RoleSubAdmin, true)

	bearer, err := fixture.tokens.Generate(account)
	require.NoError(t, err)

	// Deactivation applies on the next request even with a live token.
	inactive := false
	_, err = fixture.accounts.Update(context.Background(), account.ID, models.AccountPatch{IsActive: &inactive})
	require.NoError(t, err)

	res, err := fixture.app.Test(protectedRequest(bearer))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	assert.Equal(t, "user account is inactive", decodeMessage(t, res))
}
