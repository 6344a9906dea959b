package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/noah-isme/aegis-admin-api/internal/models"
	"github.com/noah-isme/aegis-admin-api/internal/store"
)

// AuditLogRepository persists the append-only audit trail. There is no
// update or delete operation: the log exists for non-repudiation.
type AuditLogRepository interface {
	Create(ctx context.Context, entry *models.AuditLog) (*models.AuditLog, error)
	List(ctx context.Context, limit, offset int) ([]models.AuditLog, int64, error)
	ListByActor(ctx context.Context, actorID uint, limit int) ([]models.AuditLog, error)
	ListByAction(ctx context.Context, action string, limit int) ([]models.AuditLog, error)
	ListSince(ctx context.Context, cutoff time.Time) ([]models.AuditLog, error)
}

type auditLogRepository struct {
	adapter *store.Adapter
	mem     *memoryAuditStore
}

// NewAuditLogRepository constructs the audit trail repository.
func NewAuditLogRepository(adapter *store.Adapter) AuditLogRepository {
	return &auditLogRepository{
		adapter: adapter,
		mem:     newMemoryAuditStore(),
	}
}

func clampLimit(limit, fallback, max int) int {
	if limit <= 0 || limit > max {
		return fallback
	}
	return limit
}

func (r *auditLogRepository) Create(ctx context.Context, entry *models.AuditLog) (*models.AuditLog, error) {
	return store.Execute(ctx, r.adapter,
		func(ctx context.Context) (*models.AuditLog, error) {
			created := *entry
			if err := r.adapter.DB().WithContext(ctx).Create(&created).Error; err != nil {
				return nil, err
			}
			return &created, nil
		},
		func(ctx context.Context) (*models.AuditLog, error) {
			return r.mem.create(*entry), nil
		},
	)
}

func (r *auditLogRepository) List(ctx context.Context, limit, offset int) ([]models.AuditLog, int64, error) {
	limit = clampLimit(limit, 100, 500)
	if offset < 0 {
		offset = 0
	}

	type page struct {
		entries []models.AuditLog
		total   int64
	}

	result, err := store.Execute(ctx, r.adapter,
		func(ctx context.Context) (page, error) {
			var total int64
			if err := r.adapter.DB().WithContext(ctx).Model(&models.AuditLog{}).Count(&total).Error; err != nil {
				return page{}, err
			}

			var entries []models.AuditLog
			if err := r.adapter.DB().WithContext(ctx).
				Order("created_at DESC").
				Offset(offset).
				Limit(limit).
				Find(&entries).Error; err != nil {
				return page{}, err
			}
			return page{entries: entries, total: total}, nil
		},
		func(ctx context.Context) (page, error) {
			entries, total := r.mem.page(limit, offset)
			return page{entries: entries, total: total}, nil
		},
	)
	if err != nil {
		return nil, 0, err
	}
	return result.entries, result.total, nil
}

func (r *auditLogRepository) ListByActor(ctx context.Context, actorID uint, limit int) ([]models.AuditLog, error) {
	limit = clampLimit(limit, 50, 500)

	return store.Execute(ctx, r.adapter,
		func(ctx context.Context) ([]models.AuditLog, error) {
			var entries []models.AuditLog
			err := r.adapter.DB().WithContext(ctx).
				Where("actor_id = ?", actorID).
				Order("created_at DESC").
				Limit(limit).
				Find(&entries).Error
			return entries, err
		},
		func(ctx context.Context) ([]models.AuditLog, error) {
			return r.mem.filtered(limit, func(e models.AuditLog) bool { return e.ActorID == actorID }), nil
		},
	)
}

func (r *auditLogRepository) ListByAction(ctx context.Context, action string, limit int) ([]models.AuditLog, error) {
	limit = clampLimit(limit, 50, 500)

	return store.Execute(ctx, r.adapter,
		func(ctx context.Context) ([]models.AuditLog, error) {
			var entries []models.AuditLog
			err := r.adapter.DB().WithContext(ctx).
				Where("action = ?", action).
				Order("created_at DESC").
				Limit(limit).
				Find(&entries).Error
			return entries, err
		},
		func(ctx context.Context) ([]models.AuditLog, error) {
			return r.mem.filtered(limit, func(e models.AuditLog) bool { return e.Action == action }), nil
		},
	)
}

func (r *auditLogRepository) ListSince(ctx context.Context, cutoff time.Time) ([]models.AuditLog, error) {
	return store.Execute(ctx, r.adapter,
		func(ctx context.Context) ([]models.AuditLog, error) {
			var entries []models.AuditLog
			err := r.adapter.DB().WithContext(ctx).
				Where("created_at >= ?", cutoff).
				Order("created_at DESC").
				Find(&entries).Error
			return entries, err
		},
		func(ctx context.Context) ([]models.AuditLog, error) {
			return r.mem.filtered(0, func(e models.AuditLog) bool { return !e.CreatedAt.Before(cutoff) }), nil
		},
	)
}

type memoryAuditStore struct {
	mu      sync.RWMutex
	seq     uint
	entries []models.AuditLog
}

func newMemoryAuditStore() *memoryAuditStore {
	return &memoryAuditStore{}
}

func (m *memoryAuditStore) create(entry models.AuditLog) *models.AuditLog {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.seq++
	entry.ID = m.seq
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	m.entries = append(m.entries, entry)

	copied := entry
	return &copied
}

func (m *memoryAuditStore) snapshotNewestFirst() []models.AuditLog {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entries := append([]models.AuditLog(nil), m.entries...)
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].CreatedAt.Equal(entries[j].CreatedAt) {
			return entries[i].ID > entries[j].ID
		}
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
	return entries
}

func (m *memoryAuditStore) page(limit, offset int) ([]models.AuditLog, int64) {
	entries := m.snapshotNewestFirst()
	total := int64(len(entries))

	if offset >= len(entries) {
		return nil, total
	}
	entries = entries[offset:]
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, total
}

func (m *memoryAuditStore) filtered(limit int, match func(models.AuditLog) bool) []models.AuditLog {
	entries := m.snapshotNewestFirst()
	result := make([]models.AuditLog, 0, len(entries))
	for _, entry := range entries {
		if match(entry) {
			result = append(result, entry)
			if limit > 0 && len(result) == limit {
				break
			}
		}
	}
	return result
}
