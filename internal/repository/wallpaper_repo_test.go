package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/aegis-admin-api/internal/models"
	"github.com/noah-isme/aegis-admin-api/internal/store"
)

func wallpaperAdapters(t *testing.T) map[string]*store.Adapter {
	return map[string]*store.Adapter{
		"persistent": newPersistentAdapter(t, &models.Wallpaper{}, &models.WallpaperCategory{}),
		"memory":     newMemoryAdapter(),
	}
}

func TestWallpaperCreateListDelete(t *testing.T) {
	for name, adapter := range wallpaperAdapters(t) {
		t.Run(name, func(t *testing.T) {
			repo := NewWallpaperRepository(adapter)
			ctx := context.Background()

			category, err := repo.CreateCategory(ctx, &models.WallpaperCategory{Name: "Nature"})
			require.NoError(t, err)

			_, err = repo.Create(ctx, &models.Wallpaper{
				Title:       "Forest",
				URL:         "https://cdn.example.com/forest.jpg",
				ContentType: "image/jpeg",
				CategoryID:  &category.ID,
				UploadedBy:  1,
			})
			require.NoError(t, err)

			uncategorized, err := repo.Create(ctx, &models.Wallpaper{
				Title:      "Abstract",
				URL:        "https://cdn.example.com/abstract.png",
				UploadedBy: 1,
			})
			require.NoError(t, err)

			all, err := repo.List(ctx, nil, 0)
			require.NoError(t, err)
			assert.Len(t, all, 2)

			filtered, err := repo.List(ctx, &category.ID, 0)
			require.NoError(t, err)
			require.Len(t, filtered, 1)
			assert.Equal(t, "Forest", filtered[0].Title)

			removed, err := repo.Delete(ctx, uncategorized.ID)
			require.NoError(t, err)
			assert.True(t, removed)

			removed, err = repo.Delete(ctx, uncategorized.ID)
			require.NoError(t, err)
			assert.False(t, removed)
		})
	}
}

func TestWallpaperCategoryUniqueName(t *testing.T) {
	for name, adapter := range wallpaperAdapters(t) {
		t.Run(name, func(t *testing.T) {
			repo := NewWallpaperRepository(adapter)
			ctx := context.Background()

			_, err := repo.CreateCategory(ctx, &models.WallpaperCategory{Name: "Minimal"})
			require.NoError(t, err)

			_, err = repo.CreateCategory(ctx, &models.WallpaperCategory{Name: "Minimal"})
			assert.ErrorIs(t, err, ErrDuplicateName)
		})
	}
}
