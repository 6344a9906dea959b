package repository

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/noah-isme/aegis-admin-api/internal/models"
	"github.com/noah-isme/aegis-admin-api/internal/store"
)

// AccountRepository handles persistence for accounts. Lookups return the
// password hash for authentication use; callers presenting accounts
// externally must go through the DTO layer, which strips it.
type AccountRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
	FindByID(ctx context.Context, id uint) (*models.Account, error)
	ListAll(ctx context.Context) ([]models.Account, error)
	ListByRole(ctx context.Context, role models.Role) ([]models.Account, error)
	Create(ctx context.Context, account *models.Account) (*models.Account, error)
	Update(ctx context.Context, id uint, patch models.AccountPatch) (*models.Account, error)
	Delete(ctx context.Context, id uint) (bool, error)
	UpdateLastLogin(ctx context.Context, id uint, at time.Time) error
	CountByRole(ctx context.Context, role models.Role) (int64, error)
}

type accountRepository struct {
	adapter *store.Adapter
	mem     *memoryAccountStore
}

// NewAccountRepository constructs a repository that runs against the
// persistent store when available and the in-memory fallback otherwise.
func NewAccountRepository(adapter *store.Adapter) AccountRepository {
	return &accountRepository{
		adapter: adapter,
		mem:     newMemoryAccountStore(),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *accountRepository) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	normalized := normalizeEmail(email)

	return store.Execute(ctx, r.adapter,
		func(ctx context.Context) (*models.Account, error) {
			var account models.Account
			if err := r.adapter.DB().WithContext(ctx).Where("email = ?", normalized).First(&account).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, store.Permanent(ErrNotFound)
				}
				return nil, err
			}
			return &account, nil
		},
		func(ctx context.Context) (*models.Account, error) {
			return r.mem.findByEmail(normalized)
		},
	)
}

func (r *accountRepository) FindByID(ctx context.Context, id uint) (*models.Account, error) {
	return store.Execute(ctx, r.adapter,
		func(ctx context.Context) (*models.Account, error) {
			var account models.Account
			if err := r.adapter.DB().WithContext(ctx).First(&account, id).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, store.Permanent(ErrNotFound)
				}
				return nil, err
			}
			return &account, nil
		},
		func(ctx context.Context) (*models.Account, error) {
			return r.mem.findByID(id)
		},
	)
}

func (r *accountRepository) ListAll(ctx context.Context) ([]models.Account, error) {
	return store.Execute(ctx, r.adapter,
		func(ctx context.Context) ([]models.Account, error) {
			var accounts []models.Account
			if err := r.adapter.DB().WithContext(ctx).Order("created_at DESC").Find(&accounts).Error; err != nil {
				return nil, err
			}
			return accounts, nil
		},
		func(ctx context.Context) ([]models.Account, error) {
			return r.mem.list(func(models.Account) bool { return true }), nil
		},
	)
}

func (r *accountRepository) ListByRole(ctx context.Context, role models.Role) ([]models.Account, error) {
	return store.Execute(ctx, r.adapter,
		func(ctx context.Context) ([]models.Account, error) {
			var accounts []models.Account
			if err := r.adapter.DB().WithContext(ctx).Where("role = ?", role).Order("created_at DESC").Find(&accounts).Error; err != nil {
				return nil, err
			}
			return accounts, nil
		},
		func(ctx context.Context) ([]models.Account, error) {
			return r.mem.list(func(a models.Account) bool { return a.Role == role }), nil
		},
	)
}

func (r *accountRepository) Create(ctx context.Context, account *models.Account) (*models.Account, error) {
	account.Email = normalizeEmail(account.Email)

	return store.Execute(ctx, r.adapter,
		func(ctx context.Context) (*models.Account, error) {
			created := *account
			if err := r.adapter.DB().WithContext(ctx).Create(&created).Error; err != nil {
				// The unique index is authoritative for duplicate detection;
				// the service pre-check only exists for friendlier errors.
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return nil, store.Permanent(ErrDuplicateEmail)
				}
				return nil, err
			}
			return &created, nil
		},
		func(ctx context.Context) (*models.Account, error) {
			return r.mem.create(*account)
		},
	)
}

func (r *accountRepository) Update(ctx context.Context, id uint, patch models.AccountPatch) (*models.Account, error) {
	return store.Execute(ctx, r.adapter,
		func(ctx context.Context) (*models.Account, error) {
			var account models.Account
			if err := r.adapter.DB().WithContext(ctx).First(&account, id).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, store.Permanent(ErrNotFound)
				}
				return nil, err
			}

			applyAccountPatch(&account, patch)
			if err := r.adapter.DB().WithContext(ctx).Save(&account).Error; err != nil {
				return nil, err
			}
			return &account, nil
		},
		func(ctx context.Context) (*models.Account, error) {
			return r.mem.update(id, patch)
		},
	)
}

func (r *accountRepository) Delete(ctx context.Context, id uint) (bool, error) {
	return store.Execute(ctx, r.adapter,
		func(ctx context.Context) (bool, error) {
			result := r.adapter.DB().WithContext(ctx).Delete(&models.Account{}, id)
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

func (r *accountRepository) UpdateLastLogin(ctx context.Context, id uint, at time.Time) error {
	_, err := store.Execute(ctx, r.adapter,
		func(ctx context.Context) (struct{}, error) {
			err := r.adapter.DB().WithContext(ctx).
				Model(&models.Account{}).
				Where("id = ?", id).
				Update("last_login_at", at).Error
			return struct{}{}, err
		},
		func(ctx context.Context) (struct{}, error) {
			r.mem.updateLastLogin(id, at)
			return struct{}{}, nil
		},
	)
	return err
}

func (r *accountRepository) CountByRole(ctx context.Context, role models.Role) (int64, error) {
	return store.Execute(ctx, r.adapter,
		func(ctx context.Context) (int64, error) {
			var count int64
			err := r.adapter.DB().WithContext(ctx).Model(&models.Account{}).Where("role = ?", role).Count(&count).Error
			return count, err
		},
		func(ctx context.Context) (int64, error) {
			return int64(len(r.mem.list(func(a models.Account) bool { return a.Role == role }))), nil
		},
	)
}

func applyAccountPatch(account *models.Account, patch models.AccountPatch) {
	if patch.Name != nil {
		account.Name = *patch.Name
	}
	if patch.IsActive != nil {
		account.IsActive = *patch.IsActive
	}
	if patch.Permissions != nil {
		account.Permissions = append(models.PermissionList(nil), (*patch.Permissions)...)
	}
}

// memoryAccountStore is the transient fallback. Unlike the persistent store
// it needs explicit locking: fiber handlers run on multiple goroutines.
type memoryAccountStore struct {
	mu       sync.RWMutex
	seq      uint
	accounts map[uint]models.Account
}

func newMemoryAccountStore() *memoryAccountStore {
	return &memoryAccountStore{accounts: make(map[uint]models.Account)}
}

func (m *memoryAccountStore) findByEmail(email string) (*models.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, account := range m.accounts {
		if account.Email == email {
			copied := account
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memoryAccountStore) findByID(id uint) (*models.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	account, ok := m.accounts[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := account
	return &copied, nil
}

func (m *memoryAccountStore) list(match func(models.Account) bool) []models.Account {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]models.Account, 0, len(m.accounts))
	for _, account := range m.accounts {
		if match(account) {
			result = append(result, account)
		}
	}
	sortAccountsNewestFirst(result)
	return result
}

func (m *memoryAccountStore) create(account models.Account) (*models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.accounts {
		if existing.Email == account.Email {
			return nil, ErrDuplicateEmail
		}
	}

	m.seq++
	account.ID = m.seq
	now := time.Now()
	account.CreatedAt = now
	account.UpdatedAt = now
	m.accounts[account.ID] = account

	copied := account
	return &copied, nil
}

func (m *memoryAccountStore) update(id uint, patch models.AccountPatch) (*models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	account, ok := m.accounts[id]
	if !ok {
		return nil, ErrNotFound
	}

	applyAccountPatch(&account, patch)
	account.UpdatedAt = time.Now()
	m.accounts[id] = account

	copied := account
	return &copied, nil
}

func (m *memoryAccountStore) delete(id uint) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.accounts[id]; !ok {
		return false
	}
	delete(m.accounts, id)
	return true
}

func (m *memoryAccountStore) updateLastLogin(id uint, at time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	account, ok := m.accounts[id]
	if !ok {
		return
	}
	account.LastLoginAt = &at
	account.UpdatedAt = at
	m.accounts[id] = account
}

func sortAccountsNewestFirst(accounts []models.Account) {
	sort.Slice(accounts, func(i, j int) bool {
		if accounts[i].CreatedAt.Equal(accounts[j].CreatedAt) {
			return accounts[i].ID > accounts[j].ID
		}
		return accounts[i].CreatedAt.After(accounts[j].CreatedAt)
	})
}
