package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/noah-isme/aegis-admin-api/internal/models"
	"github.com/noah-isme/aegis-admin-api/internal/store"
)

const (
	// DefaultNotificationLimit caps a single inbox fetch.
	DefaultNotificationLimit = 50
	// MaxNotificationLimit is the hard ceiling for a single fetch.
	MaxNotificationLimit = 100
	// memoryNotificationCap bounds the fallback store; oldest rows are evicted.
	memoryNotificationCap = 100
)

// NotificationRepository persists role- and user-targeted notifications.
type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) (*models.Notification, error)
	ListForUser(ctx context.Context, userID uint, role models.Role, limit int) ([]models.Notification, error)
	UnreadCount(ctx context.Context, userID uint, role models.Role) (int64, error)
	MarkRead(ctx context.Context, id uint) (*models.Notification, error)
	MarkAllRead(ctx context.Context, userID uint, role models.Role) (int64, error)
	Delete(ctx context.Context, id uint) (bool, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type notificationRepository struct {
	adapter *store.Adapter
	mem     *memoryNotificationStore
	now     func() time.Time
}

// NewNotificationRepository constructs the notification repository.
func NewNotificationRepository(adapter *store.Adapter) NotificationRepository {
	return &notificationRepository{
		adapter: adapter,
		mem:     newMemoryNotificationStore(),
		now:     time.Now,
	}
}

// rolePattern matches a JSON-encoded role inside the target_roles column.
func rolePattern(role models.Role) string {
	return fmt.Sprintf(`%%"%s"%%`, role)
}

func (r *notificationRepository) visibleQuery(ctx context.Context, userID uint, role models.Role) *gorm.DB {
	return r.adapter.DB().WithContext(ctx).
		Model(&models.Notification{}).
		Where("target_user_id = ? OR target_roles LIKE ?", userID, rolePattern(role)).
		Where("expires_at IS NULL OR expires_at > ?", r.now())
}

func (r *notificationRepository) Create(ctx context.Context, notification *models.Notification) (*models.Notification, error) {
	return store.Execute(ctx, r.adapter,
		func(ctx context.Context) (*models.Notification, error) {
			created := *notification
			if err := r.adapter.DB().WithContext(ctx).Create(&created).Error; err != nil {
				return nil, err
			}
			return &created, nil
		},
		func(ctx context.Context) (*models.Notification, error) {
			return r.mem.create(*notification), nil
		},
	)
}

func (r *notificationRepository) ListForUser(ctx context.Context, userID uint, role models.Role, limit int) ([]models.Notification, error) {
	limit = clampLimit(limit, DefaultNotificationLimit, MaxNotificationLimit)

	return store.Execute(ctx, r.adapter,
		func(ctx context.Context) ([]models.Notification, error) {
			var notifications []models.Notification
			err := r.visibleQuery(ctx, userID, role).
				Order("created_at DESC").
				Limit(limit).
				Find(&notifications).Error
			return notifications, err
		},
		func(ctx context.Context) ([]models.Notification, error) {
			return r.mem.listForUser(userID, role, limit, r.now()), nil
		},
	)
}

func (r *notificationRepository) UnreadCount(ctx context.Context, userID uint, role models.Role) (int64, error) {
	return store.Execute(ctx, r.adapter,
		func(ctx context.Context) (int64, error) {
			var count int64
			err := r.visibleQuery(ctx, userID, role).Where("read = ?", false).Count(&count).Error
			return count, err
		},
		func(ctx context.Context) (int64, error) {
			return r.mem.unreadCount(userID, role, r.now()), nil
		},
	)
}

// MarkRead flips the read flag. Marking an already-read notification is not
// an error.
func (r *notificationRepository) MarkRead(ctx context.Context, id uint) (*models.Notification, error) {
	return store.Execute(ctx, r.adapter,
		func(ctx context.Context) (*models.Notification, error) {
			var notification models.Notification
			if err := r.adapter.DB().WithContext(ctx).First(&notification, id).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, store.Permanent(ErrNotFound)
				}
				return nil, err
			}

			if notification.Read {
				return &notification, nil
			}

			notification.Read = true
			if err := r.adapter.DB().WithContext(ctx).Save(&notification).Error; err != nil {
				return nil, err
			}
			return &notification, nil
		},
		func(ctx context.Context) (*models.Notification, error) {
			return r.mem.markRead(id)
		},
	)
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, userID uint, role models.Role) (int64, error) {
	return store.Execute(ctx, r.adapter,
		func(ctx context.Context) (int64, error) {
			result := r.visibleQuery(ctx, userID, role).Where("read = ?", false).Update("read", true)
			return result.RowsAffected, result.Error
		},
		func(ctx context.Context) (int64, error) {
			return r.mem.markAllRead(userID, role, r.now()), nil
		},
	)
}

func (r *notificationRepository) Delete(ctx context.Context, id uint) (bool, error) {
	return store.Execute(ctx, r.adapter,
		func(ctx context.Context) (bool, error) {
			result := r.adapter.DB().WithContext(ctx).Delete(&models.Notification{}, id)
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

// DeleteExpired removes notifications past their expiry timestamp. The
// persistent store has no native expiring-row feature, so both backends rely
// on this sweep (scheduled by the notification service).
func (r *notificationRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	return store.Execute(ctx, r.adapter,
		func(ctx context.Context) (int64, error) {
			result := r.adapter.DB().WithContext(ctx).
				Where("expires_at IS NOT NULL AND expires_at <= ?", now).
				Delete(&models.Notification{})
			return result.RowsAffected, result.Error
		},
		func(ctx context.Context) (int64, error) {
			return r.mem.deleteExpired(now), nil
		},
	)
}

// memoryNotificationStore keeps the newest rows first and retains at most
// memoryNotificationCap rows.
type memoryNotificationStore struct {
	mu            sync.RWMutex
	seq           uint
	notifications []models.Notification
}

func newMemoryNotificationStore() *memoryNotificationStore {
	return &memoryNotificationStore{}
}

func (m *memoryNotificationStore) create(notification models.Notification) *models.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.seq++
	notification.ID = m.seq
	now := time.Now()
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = now
	}
	notification.UpdatedAt = now

	m.notifications = append([]models.Notification{notification}, m.notifications...)
	if len(m.notifications) > memoryNotificationCap {
		m.notifications = m.notifications[:memoryNotificationCap]
	}

	copied := notification
	return &copied
}

func (m *memoryNotificationStore) visible(userID uint, role models.Role, now time.Time) []models.Notification {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]models.Notification, 0, len(m.notifications))
	for _, n := range m.notifications {
		if n.Expired(now) {
			continue
		}
		if n.VisibleTo(userID, role) {
			result = append(result, n)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID > result[j].ID
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result
}

func (m *memoryNotificationStore) listForUser(userID uint, role models.Role, limit int, now time.Time) []models.Notification {
	visible := m.visible(userID, role, now)
	if limit > 0 && len(visible) > limit {
		visible = visible[:limit]
	}
	return visible
}

func (m *memoryNotificationStore) unreadCount(userID uint, role models.Role, now time.Time) int64 {
	var count int64
	for _, n := range m.visible(userID, role, now) {
		if !n.Read {
			count++
		}
	}
	return count
}

func (m *memoryNotificationStore) markRead(id uint) (*models.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.notifications {
		if m.notifications[i].ID == id {
			if !m.notifications[i].Read {
				m.notifications[i].Read = true
				m.notifications[i].UpdatedAt = time.Now()
			}
			copied := m.notifications[i]
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memoryNotificationStore) markAllRead(userID uint, role models.Role, now time.Time) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	var flipped int64
	for i := range m.notifications {
		n := m.notifications[i]
		if n.Read || n.Expired(now) || !n.VisibleTo(userID, role) {
			continue
		}
		m.notifications[i].Read = true
		m.notifications[i].UpdatedAt = now
		flipped++
	}
	return flipped
}

func (m *memoryNotificationStore) delete(id uint) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.notifications {
		if m.notifications[i].ID == id {
			m.notifications = append(m.notifications[:i], m.notifications[i+1:]...)
			return true
		}
	}
	return false
}

func (m *memoryNotificationStore) deleteExpired(now time.Time) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.notifications[:0]
	var removed int64
	for _, n := range m.notifications {
		if n.Expired(now) {
			removed++
			continue
		}
		kept = append(kept, n)
	}
	m.notifications = kept
	return removed
}
