package repository

import (
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/aegis-admin-api/internal/store"
)

// newPersistentAdapter opens an isolated in-memory SQLite database with the
// same error translation the production connection uses.
func newPersistentAdapter(t *testing.T, models ...interface{}) *store.Adapter {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models...))

	return store.NewAdapter(store.Config{Mode: store.ModePersistent}, db, zerolog.Nop())
}

func newMemoryAdapter() *store.Adapter {
	return store.NewAdapter(store.Config{Mode: store.ModeMemory}, nil, zerolog.Nop())
}
