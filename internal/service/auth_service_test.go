package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/aegis-admin-api/internal/dto"
	"github.com/noah-isme/aegis-admin-api/internal/models"
)

func TestLoginSuccess(t *testing.T) {
	env := newTestEnv(t)
	actor := seedMainAdmin(t, env)
	ctx := context.Background()

	response, err := env.auth.Login(ctx, dto.LoginRequest{
		Email:    "ratnesh@gmail.com",
		Password: "Admin@123",
	}, "10.0.0.1")
	require.NoError(t, err)

	assert.Equal(t, actor.ID, response.User.ID)
	assert.NotNil(t, response.User.LastLoginAt)
	assert.Positive(t, response.ExpiresIn)

	claims, err := env.tokens.Parse(response.Token)
	require.NoError(t, err)
	assert.Equal(t, actor.ID, claims.UserID)
	assert.Equal(t, models.RoleMainAdmin, claims.Role)

	// Exactly one audit entry for the login, carrying the caller IP.
	entries, err := env.audit.ListByAction(ctx, ActionLogin, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "10.0.0.1", entries[0].IPAddress)
	assert.Equal(t, "ratnesh@gmail.com", entries[0].Details["email"])
}

func TestLoginWrongPassword(t *testing.T) {
	env := newTestEnv(t)
	seedMainAdmin(t, env)

	_, err := env.auth.Login(context.Background(), dto.LoginRequest{
		Email:    "ratnesh@gmail.com",
		Password: "Wrong@123",
	}, "10.0.0.1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnknownEmailMatchesWrongPassword(t *testing.T) {
	env := newTestEnv(t)
	seedMainAdmin(t, env)

	_, err := env.auth.Login(context.Background(), dto.LoginRequest{
		Email:    "nobody@example.com",
		Password: "Whatever@123",
	}, "10.0.0.1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginInactiveAccount(t *testing.T) {
	env := newTestEnv(t)
	actor := seedMainAdmin(t, env)
	ctx := context.Background()

	sub := createSubAdmin(t, env, actor, "inactive@example.com")
	inactive := false
	_, err := env.accounts.UpdateSubAdmin(ctx, actor, sub.ID, dto.UpdateSubAdminRequest{IsActive: &inactive}, "127.0.0.1")
	require.NoError(t, err)

	_, err = env.auth.Login(ctx, dto.LoginRequest{
		Email:    "inactive@example.com",
		Password: "Str0ng@Pass",
	}, "10.0.0.1")
	assert.ErrorIs(t, err, ErrAccountInactive)
}

func TestLoginValidatesPayload(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.auth.Login(context.Background(), dto.LoginRequest{Email: "not-an-email"}, "10.0.0.1")

	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	assert.NotEmpty(t, validation.Details)
}

func TestLogoutWritesAudit(t *testing.T) {
	env := newTestEnv(t)
	actor := seedMainAdmin(t, env)
	ctx := context.Background()

	require.NoError(t, env.auth.Logout(ctx, actor, "10.0.0.1"))

	entries, err := env.audit.ListByAction(ctx, ActionLogout, 0)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestProfile(t *testing.T) {
	env := newTestEnv(t)
	actor := seedMainAdmin(t, env)

	profile, err := env.auth.Profile(context.Background(), actor.ID)
	require.NoError(t, err)
	assert.Equal(t, "ratnesh@gmail.com", profile.Email)

	_, err = env.auth.Profile(context.Background(), 999)
	assert.ErrorIs(t, err, ErrNotFound)
}
