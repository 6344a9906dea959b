package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/aegis-admin-api/internal/models"
	"github.com/noah-isme/aegis-admin-api/internal/store"
)

func newAccount(email string, role models.Role) *models.Account {
	return &models.Account{
		Email:        email,
		Name:         "Test Account",
		PasswordHash: "hashed",
		Role:         role,
		Permissions:  models.PermissionsForRole(role),
		IsActive:     true,
	}
}

func accountAdapters(t *testing.T) map[string]*store.Adapter {
	return map[string]*store.Adapter{
		"persistent": newPersistentAdapter(t, &models.Account{}),
		"memory":     newMemoryAdapter(),
	}
}

func TestAccountRepositoryCreateAndFind(t *testing.T) {
	for name, adapter := range accountAdapters(t) {
		t.Run(name, func(t *testing.T) {
			repo := NewAccountRepository(adapter)
			ctx := context.Background()

			created, err := repo.Create(ctx, newAccount("Admin@Example.com", models.RoleSubAdmin))
			require.NoError(t, err)
			require.NotZero(t, created.ID)
			assert.Equal(t, "admin@example.com", created.Email)

			found, err := repo.FindByID(ctx, created.ID)
			require.NoError(t, err)
			assert.Equal(t, created.Email, found.Email)
			assert.ElementsMatch(t, models.PermissionsForRole(models.RoleSubAdmin), found.Permissions)

			byEmail, err := repo.FindByEmail(ctx, "ADMIN@example.COM")
			require.NoError(t, err)
			assert.Equal(t, created.ID, byEmail.ID)
		})
	}
}

func TestAccountRepositoryDuplicateEmail(t *testing.T) {
	for name, adapter := range accountAdapters(t) {
		t.Run(name, func(t *testing.T) {
			repo := NewAccountRepository(adapter)
			ctx := context.Background()

			_, err := repo.Create(ctx, newAccount("taken@example.com", models.RoleUser))
			require.NoError(t, err)

			_, err = repo.Create(ctx, newAccount("Taken@Example.com", models.RoleUser))
			assert.ErrorIs(t, err, ErrDuplicateEmail)
		})
	}
}

func TestAccountRepositoryFindMissing(t *testing.T) {
	for name, adapter := range accountAdapters(t) {
		t.Run(name, func(t *testing.T) {
			repo := NewAccountRepository(adapter)

			_, err := repo.FindByID(context.Background(), 999)
			assert.ErrorIs(t, err, ErrNotFound)

			_, err = repo.FindByEmail(context.Background(), "ghost@example.com")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestAccountRepositoryUpdatePatch(t *testing.T) {
	for name, adapter := range accountAdapters(t) {
		t.Run(name, func(t *testing.T) {
			repo := NewAccountRepository(adapter)
			ctx := context.Background()

			created, err := repo.Create(ctx, newAccount("patch@example.com", models.RoleSubAdmin))
			require.NoError(t, err)

			newName := "Renamed"
			inactive := false
			trimmed := models.PermissionList{models.PermViewDashboard}

			updated, err := repo.Update(ctx, created.ID, models.AccountPatch{
				Name:        &newName,
				IsActive:    &inactive,
				Permissions: &trimmed,
			})
			require.NoError(t, err)
			assert.Equal(t, "Renamed", updated.Name)
			assert.False(t, updated.IsActive)
			assert.ElementsMatch(t, trimmed, updated.Permissions)
			// Untouched fields survive the patch.
			assert.Equal(t, "patch@example.com", updated.Email)

			_, err = repo.Update(ctx, 999, models.AccountPatch{Name: &newName})
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestAccountRepositoryDelete(t *testing.T) {
	for name, adapter := range accountAdapters(t) {
		t.Run(name, func(t *testing.T) {
			repo := NewAccountRepository(adapter)
			ctx := context.Background()

			created, err := repo.Create(ctx, newAccount("gone@example.com", models.RoleUser))
			require.NoError(t, err)

			removed, err := repo.Delete(ctx, created.ID)
			require.NoError(t, err)
			assert.True(t, removed)

			removed, err = repo.Delete(ctx, created.ID)
			require.NoError(t, err)
			assert.False(t, removed)
		})
	}
}

func TestAccountRepositoryListAndCount(t *testing.T) {
	for name, adapter := range accountAdapters(t) {
		t.Run(name, func(t *testing.T) {
			repo := NewAccountRepository(adapter)
			ctx := context.Background()

			_, err := repo.Create(ctx, newAccount("main@example.com", models.RoleMainAdmin))
			require.NoError(t, err)
			_, err = repo.Create(ctx, newAccount("sub@example.com", models.RoleSubAdmin))
			require.NoError(t, err)
			_, err = repo.Create(ctx, newAccount("user@example.com", models.RoleUser))
			require.NoError(t, err)

			all, err := repo.ListAll(ctx)
			require.NoError(t, err)
			assert.Len(t, all, 3)

			subs, err := repo.ListByRole(ctx, models.RoleSubAdmin)
			require.NoError(t, err)
			require.Len(t, subs, 1)
			assert.Equal(t, "sub@example.com", subs[0].Email)

			count, err := repo.CountByRole(ctx, models.RoleMainAdmin)
			require.NoError(t, err)
			assert.Equal(t, int64(1), count)
		})
	}
}

func TestAccountRepositoryUpdateLastLogin(t *testing.T) {
	for name, adapter := range accountAdapters(t) {
		t.Run(name, func(t *testing.T) {
			repo := NewAccountRepository(adapter)
			ctx := context.Background()

			created, err := repo.Create(ctx, newAccount("login@example.com", models.RoleUser))
			require.NoError(t, err)
			require.Nil(t, created.LastLoginAt)

			at := time.Now().UTC().Truncate(time.Second)
			require.NoError(t, repo.UpdateLastLogin(ctx, created.ID, at))

			found, err := repo.FindByID(ctx, created.ID)
			require.NoError(t, err)
			require.NotNil(t, found.LastLoginAt)
			assert.WithinDuration(t, at, *found.LastLoginAt, time.Second)
		})
	}
}
