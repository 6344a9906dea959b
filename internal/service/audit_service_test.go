package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/aegis-admin-api/internal/models"
)

func TestRecordMasksSensitiveDetails(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	recorded, err := env.audit.Record(ctx, AuditEntry{
		Actor:  mainAdminActor(),
		Action: "Create_User",
		Target: "user",
		Details: map[string]interface{}{
			"email":    "new@example.com",
			"Password": "Admin@123",
			"token":    "eyJhbGciOi",
		},
		IP: "10.0.0.1",
	})
	require.NoError(t, err)

	assert.Equal(t, "create_user", recorded.Action)
	assert.Equal(t, "new@example.com", recorded.Details["email"])
	assert.Equal(t, "[redacted]", recorded.Details["Password"])
	assert.Equal(t, "[redacted]", recorded.Details["token"])
}

func TestRecordRequiresAction(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.audit.Record(context.Background(), AuditEntry{
		Actor:  mainAdminActor(),
		Action: "   ",
	})

	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
}

func TestAuditListPagination(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	actor := mainAdminActor()

	for _, action := range []string{ActionLogin, ActionLogout, ActionPolicyUpdate} {
		_, err := env.audit.Record(ctx, AuditEntry{Actor: actor, Action: action})
		require.NoError(t, err)
	}

	page, err := env.audit.List(ctx, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	assert.Len(t, page.Logs, 2)

	rest, err := env.audit.List(ctx, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), rest.Total)
	assert.Len(t, rest.Logs, 1)
}

func TestRecentHonoursWindow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	actor := mainAdminActor()

	// Backdate one entry past the window by writing through the repository.
	_, err := env.auditRepo.Create(ctx, &models.AuditLog{
		ActorID:   actor.ID,
		ActorName: actor.Name,
		ActorRole: actor.Role,
		Action:    "old_action",
		CreatedAt: time.Now().Add(-48 * time.Hour),
	})
	require.NoError(t, err)

	_, err = env.audit.Record(ctx, AuditEntry{Actor: actor, Action: "recent_action"})
	require.NoError(t, err)

	recent, err := env.audit.Recent(ctx, 24*time.Hour)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "recent_action", recent[0].Action)
}
