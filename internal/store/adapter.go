package store

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/aegis-admin-api/internal/observability"
)

// Mode selects the backing store for all data-access modules.
type Mode string

const (
	// ModePersistent routes operations to the durable GORM-backed store.
	ModePersistent Mode = "persistent"
	// ModeMemory routes operations to the transient in-process store.
	ModeMemory Mode = "memory"
)

// Config is injected at construction so tests can exercise both modes
// deterministically without process restarts.
type Config struct {
	Mode Mode
}

// Resolve normalises the configured mode, demoting to memory when the
// persistent store never came up. The returned mode is fixed for the
// lifetime of the adapter.
func Resolve(cfg Config, db *gorm.DB) Mode {
	mode := Mode(strings.ToLower(strings.TrimSpace(string(cfg.Mode))))
	if mode != ModeMemory && db != nil {
		return ModePersistent
	}
	return ModeMemory
}

// Adapter decides, per operation, whether the persistent path or the
// in-memory fallback path runs. The mode is set once at startup.
type Adapter struct {
	mode   Mode
	db     *gorm.DB
	logger zerolog.Logger
}

// NewAdapter constructs the adapter. db may be nil in memory mode.
func NewAdapter(cfg Config, db *gorm.DB, logger zerolog.Logger) *Adapter {
	return &Adapter{
		mode:   Resolve(cfg, db),
		db:     db,
		logger: logger.With().Str("component", "store_adapter").Logger(),
	}
}

// Mode returns the resolved storage mode.
func (a *Adapter) Mode() Mode {
	return a.mode
}

// DB exposes the GORM handle for persistent-path closures. Nil in memory mode.
func (a *Adapter) DB() *gorm.DB {
	return a.db
}

// PersistentReady reports whether persistent operations should be attempted.
func (a *Adapter) PersistentReady() bool {
	return a.mode == ModePersistent && a.db != nil
}

type permanentError struct {
	err error
}

func (e permanentError) Error() string { return e.err.Error() }
func (e permanentError) Unwrap() error { return e.err }

// Permanent marks an error as a domain outcome (not found, duplicate key)
// rather than a store failure, so Execute surfaces it instead of retrying
// the operation against the fallback store. errors.Is/As see through the
// wrapper.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return permanentError{err: err}
}

// IsPermanent reports whether the error was marked with Permanent.
func IsPermanent(err error) bool {
	var perm permanentError
	return errors.As(err, &perm)
}

// Execute runs the persistent operation when the adapter is in persistent
// mode, falling back to the in-memory operation if the persistent path fails
// with anything other than a Permanent error. In memory mode the fallback
// runs directly. Callers must not assume writes are durable once a fallback
// has happened.
func Execute[T any](ctx context.Context, a *Adapter, persistent, fallback func(ctx context.Context) (T, error)) (T, error) {
	if a.PersistentReady() {
		out, err := persistent(ctx)
		if err == nil || IsPermanent(err) {
			return out, err
		}
		a.logger.Warn().Err(err).Msg("persistent store operation failed, using in-memory fallback")
		observability.StoreFallbacks().Inc()
	}
	return fallback(ctx)
}
