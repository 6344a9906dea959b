package repository

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/noah-isme/aegis-admin-api/internal/models"
	"github.com/noah-isme/aegis-admin-api/internal/store"
)

// WallpaperRepository stores wallpaper metadata and categories. The image
// bytes themselves live on the external image host.
type WallpaperRepository interface {
	Create(ctx context.Context, wallpaper *models.Wallpaper) (*models.Wallpaper, error)
	List(ctx context.Context, categoryID *uint, limit int) ([]models.Wallpaper, error)
	Delete(ctx context.Context, id uint) (bool, error)
	CreateCategory(ctx context.Context, category *models.WallpaperCategory) (*models.WallpaperCategory, error)
	ListCategories(ctx context.Context) ([]models.WallpaperCategory, error)
}

type wallpaperRepository struct {
	adapter *store.Adapter
	mem     *memoryWallpaperStore
}

// NewWallpaperRepository constructs the wallpaper repository.
func NewWallpaperRepository(adapter *store.Adapter) WallpaperRepository {
	return &wallpaperRepository{
		adapter: adapter,
		mem:     newMemoryWallpaperStore(),
	}
}

func (r *wallpaperRepository) Create(ctx context.Context, wallpaper *models.Wallpaper) (*models.Wallpaper, error) {
	return store.Execute(ctx, r.adapter,
		func(ctx context.Context) (*models.Wallpaper, error) {
			created := *wallpaper
			if err := r.adapter.DB().WithContext(ctx).Create(&created).Error; err != nil {
				return nil, err
			}
			return &created, nil
		},
		func(ctx context.Context) (*models.Wallpaper, error) {
			return r.mem.create(*wallpaper), nil
		},
	)
}

func (r *wallpaperRepository) List(ctx context.Context, categoryID *uint, limit int) ([]models.Wallpaper, error) {
	limit = clampLimit(limit, 50, 200)

	return store.Execute(ctx, r.adapter,
		func(ctx context.Context) ([]models.Wallpaper, error) {
			query := r.adapter.DB().WithContext(ctx).Model(&models.Wallpaper{})
			if categoryID != nil {
				query = query.Where("category_id = ?", *categoryID)
			}

			var wallpapers []models.Wallpaper
			err := query.Order("created_at DESC").Limit(limit).Find(&wallpapers).Error
			return wallpapers, err
		},
		func(ctx context.Context) ([]models.Wallpaper, error) {
			return r.mem.list(categoryID, limit), nil
		},
	)
}

func (r *wallpaperRepository) Delete(ctx context.Context, id uint) (bool, error) {
	return store.Execute(ctx, r.adapter,
		func(ctx context.Context) (bool, error) {
			result := r.adapter.DB().WithContext(ctx).Delete(&models.Wallpaper{}, id)
			if result.Error != nil {
				return false, result.Error
			}
			return result.RowsAffected > 0, nil
		},
		func(ctx context.Context) (bool, error) {
			return r.mem.delete(id), nil
		},
	)
}

func (r *wallpaperRepository) CreateCategory(ctx context.Context, category *models.WallpaperCategory) (*models.WallpaperCategory, error) {
	return store.Execute(ctx, r.adapter,
		func(ctx context.Context) (*models.WallpaperCategory, error) {
			created := *category
			if err := r.adapter.DB().WithContext(ctx).Create(&created).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return nil, store.Permanent(ErrDuplicateName)
				}
				return nil, err
			}
			return &created, nil
		},
		func(ctx context.Context) (*models.WallpaperCategory, error) {
			return r.mem.createCategory(*category)
		},
	)
}

func (r *wallpaperRepository) ListCategories(ctx context.Context) ([]models.WallpaperCategory, error) {
	return store.Execute(ctx, r.adapter,
		func(ctx context.Context) ([]models.WallpaperCategory, error) {
			var categories []models.WallpaperCategory
			err := r.adapter.DB().WithContext(ctx).Order("name ASC").Find(&categories).Error
			return categories, err
		},
		func(ctx context.Context) ([]models.WallpaperCategory, error) {
			return r.mem.listCategories(), nil
		},
	)
}

type memoryWallpaperStore struct {
	mu          sync.RWMutex
	seq         uint
	categorySeq uint
	wallpapers  map[uint]models.Wallpaper
	categories  map[uint]models.WallpaperCategory
}

func newMemoryWallpaperStore() *memoryWallpaperStore {
	return &memoryWallpaperStore{
		wallpapers: make(map[uint]models.Wallpaper),
		categories: make(map[uint]models.WallpaperCategory),
	}
}

func (m *memoryWallpaperStore) create(wallpaper models.Wallpaper) *models.Wallpaper {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.seq++
	wallpaper.ID = m.seq
	now := time.Now()
	wallpaper.CreatedAt = now
	wallpaper.UpdatedAt = now
	m.wallpapers[wallpaper.ID] = wallpaper

	copied := wallpaper
	return &copied
}

func (m *memoryWallpaperStore) list(categoryID *uint, limit int) []models.Wallpaper {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]models.Wallpaper, 0, len(m.wallpapers))
	for _, w := range m.wallpapers {
		if categoryID != nil && (w.CategoryID == nil || *w.CategoryID != *categoryID) {
			continue
		}
		result = append(result, w)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID > result[j].ID
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result
}

func (m *memoryWallpaperStore) delete(id uint) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.wallpapers[id]; !ok {
		return false
	}
	delete(m.wallpapers, id)
	return true
}

func (m *memoryWallpaperStore) createCategory(category models.WallpaperCategory) (*models.WallpaperCategory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.categories {
		if existing.Name == category.Name {
			return nil, ErrDuplicateName
		}
	}

	m.categorySeq++
	category.ID = m.categorySeq
	now := time.Now()
	category.CreatedAt = now
	category.UpdatedAt = now
	m.categories[category.ID] = category

	copied := category
	return &copied, nil
}

func (m *memoryWallpaperStore) listCategories() []models.WallpaperCategory {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]models.WallpaperCategory, 0, len(m.categories))
	for _, category := range m.categories {
		result = append(result, category)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}
