package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/aegis-admin-api/internal/dto"
	"github.com/noah-isme/aegis-admin-api/internal/models"
)

func TestCreateSubAdminEndpoint(t *testing.T) {
	fixture := newAPIFixture(t)
	bearer := fixture.loginMainAdmin(t)

	res, body := fixture.request(t, http.MethodPost, "/api/sub-admins", bearer, dto.CreateSubAdminRequest{
		Email:    "new-sub@example.com",
		Name:     "New Sub",
		Password: "Str0ng@Pass",
	})
	require.Equal(t, http.StatusCreated, res.StatusCode)

	var created dto.AccountResponse
	require.NoError(t, json.Unmarshal(body.Data, &created))
	assert.Equal(t, models.RoleSubAdmin, created.Role)
	assert.ElementsMatch(t, models.PermissionsForRole(models.RoleSubAdmin), created.Permissions)
}

func TestCreateSubAdminEndpointConflict(t *testing.T) {
	fixture := newAPIFixture(t)
	bearer := fixture.loginMainAdmin(t)
	fixture.seedSubAdmin(t, "taken@example.com")

	res, _ := fixture.request(t, http.MethodPost, "/api/sub-admins", bearer, dto.CreateSubAdminRequest{
		Email:    "taken@example.com",
		Name:     "Taken",
		Password: "Str0ng@Pass",
	})
	assert.Equal(t, http.StatusConflict, res.StatusCode)
}

func TestSubAdminCannotCreateSubAdmins(t *testing.T) {
	fixture := newAPIFixture(t)
	fixture.seedSubAdmin(t, "limited@example.com")
	bearer := fixture.login(t, "limited@example.com", "Str0ng@Pass")

	res, body := fixture.request(t, http.MethodPost, "/api/sub-admins", bearer, dto.CreateSubAdminRequest{
		Email:    "escalation@example.com",
		Name:     "Escalation",
		Password: "Str0ng@Pass",
	})
	assert.Equal(t, http.StatusForbidden, res.StatusCode)
	assert.Equal(t, "insufficient permissions", body.Message)
}

func TestWrongRoleTargetReturns404(t *testing.T) {
	fixture := newAPIFixture(t)
	bearer := fixture.loginMainAdmin(t)
	sub := fixture.seedSubAdmin(t, "hidden@example.com")

	// A sub-admin id is invisible through the user endpoints.
	res, _ := fixture.request(t, http.MethodPut, fmt.Sprintf("/api/users/%d", sub.ID), bearer, dto.UpdateUserRequest{})
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	res, _ = fixture.request(t, http.MethodDelete, fmt.Sprintf("/api/users/%d", sub.ID), bearer, nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestListUsersEndpoint(t *testing.T) {
	fixture := newAPIFixture(t)
	bearer := fixture.loginMainAdmin(t)
	fixture.seedSubAdmin(t, "listed@example.com")

	res, body := fixture.request(t, http.MethodGet, "/api/users", bearer, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)

	var users []dto.AccountResponse
	require.NoError(t, json.Unmarshal(body.Data, &users))
	// The directory lists every account regardless of role.
	assert.Len(t, users, 2)
}

func TestCreateUserEndpoint(t *testing.T) {
	fixture := newAPIFixture(t)
	fixture.seedSubAdmin(t, "creator@example.com")
	bearer := fixture.login(t, "creator@example.com", "Str0ng@Pass")

	res, body := fixture.request(t, http.MethodPost, "/api/users", bearer, dto.CreateUserRequest{
		Email:    "fresh@example.com",
		Name:     "Fresh User",
		Password: "Str0ng@Pass",
	})
	require.Equal(t, http.StatusCreated, res.StatusCode)

	var created dto.AccountResponse
	require.NoError(t, json.Unmarshal(body.Data, &created))
	assert.Equal(t, models.RoleUser, created.Role)
}

func TestUpdateUserEndpointValidatesID(t *testing.T) {
	fixture := newAPIFixture(t)
	bearer := fixture.loginMainAdmin(t)

	res, _ := fixture.request(t, http.MethodPut, "/api/users/abc", bearer, dto.UpdateUserRequest{})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	res, _ = fixture.request(t, http.MethodPut, "/api/users/0", bearer, dto.UpdateUserRequest{})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestDeleteSubAdminEndpoint(t *testing.T) {
	fixture := newAPIFixture(t)
	bearer := fixture.loginMainAdmin(t)
	sub := fixture.seedSubAdmin(t, "doomed@example.com")

	res, _ := fixture.request(t, http.MethodDelete, fmt.Sprintf("/api/sub-admins/%d", sub.ID), bearer, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	res, _ = fixture.request(t, http.MethodDelete, fmt.Sprintf("/api/sub-admins/%d", sub.ID), bearer, nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}
