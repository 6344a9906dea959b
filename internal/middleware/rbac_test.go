package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/aegis-admin-api/internal/models"
	"github.com/noah-isme/aegis-admin-api/internal/utils"
)

// injectUser stands in for Authenticate so the gates can be tested without a
// token round trip.
func injectUser(user AuthUser) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(authUserKey, user)
		return c.Next()
	}
}

func gateApp(gate fiber.Handler, handlers ...fiber.Handler) *fiber.App {
	app := fiber.New()
	chain := append(handlers, gate, func(c *fiber.Ctx) error {
		return utils.SendSuccess(c, "ok", nil)
	})
	app.Get("/gated", chain...)
	return app
}

func gatedStatus(t *testing.T, app *fiber.App) int {
	t.Helper()
	res, err := app.Test(httptest.NewRequest(http.MethodGet, "/gated", nil))
	require.NoError(t, err)
	return res.StatusCode
}

func subAdminUser() AuthUser {
	return AuthUser{
		ID:          2,
		Email:       "sub@example.com",
		Name:        "Sub Admin",
		Role:        models.RoleSubAdmin,
		Permissions: models.PermissionsForRole(models.RoleSubAdmin),
	}
}

func TestRequireRole(t *testing.T) {
	allowed := gateApp(RequireRole(models.RoleMainAdmin, models.RoleSubAdmin), injectUser(subAdminUser()))
	assert.Equal(t, http.StatusOK, gatedStatus(t, allowed))

	denied := gateApp(RequireRole(models.RoleMainAdmin), injectUser(subAdminUser()))
	assert.Equal(t, http.StatusForbidden, gatedStatus(t, denied))

	unauthenticated := gateApp(RequireRole(models.RoleMainAdmin))
	assert.Equal(t, http.StatusUnauthorized, gatedStatus(t, unauthenticated))
}

func TestRequirePermission(t *testing.T) {
	held := gateApp(RequirePermission(models.PermViewAllUsers), injectUser(subAdminUser()))
	assert.Equal(t, http.StatusOK, gatedStatus(t, held))

	missing := gateApp(RequirePermission(models.PermCreateSubAdmin), injectUser(subAdminUser()))
	assert.Equal(t, http.StatusForbidden, gatedStatus(t, missing))
}

func TestRequireAnyPermission(t *testing.T) {
	oneHeld := gateApp(RequireAnyPermission(models.PermCreateSubAdmin, models.PermViewAllUsers), injectUser(subAdminUser()))
	assert.Equal(t, http.StatusOK, gatedStatus(t, oneHeld))

	noneHeld := gateApp(RequireAnyPermission(models.PermCreateSubAdmin, models.PermDeleteSubAdmin), injectUser(subAdminUser()))
	assert.Equal(t, http.StatusForbidden, gatedStatus(t, noneHeld))
}

func TestRequireAllPermissions(t *testing.T) {
	allHeld := gateApp(RequireAllPermissions(models.PermViewAllUsers, models.PermEditUser), injectUser(subAdminUser()))
	assert.Equal(t, http.StatusOK, gatedStatus(t, allHeld))

	partial := gateApp(RequireAllPermissions(models.PermViewAllUsers, models.PermCreateSubAdmin), injectUser(subAdminUser()))
	assert.Equal(t, http.StatusForbidden, gatedStatus(t, partial))
}
