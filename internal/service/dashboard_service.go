package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/aegis-admin-api/internal/dto"
	"github.com/noah-isme/aegis-admin-api/internal/models"
	"github.com/noah-isme/aegis-admin-api/internal/observability"
	"github.com/noah-isme/aegis-admin-api/internal/repository"
	"github.com/noah-isme/aegis-admin-api/internal/store"
)

const (
	dashboardCacheKey      = "dashboard:stats:v1"
	recentActionsCap       = 10
	defaultDashboardTTL    = 30 * time.Second
	dashboardRecentsWindow = 24 * time.Hour
)

// DashboardService aggregates directory and audit counters for the admin
// dashboard.
type DashboardService interface {
	Stats(ctx context.Context) (dto.DashboardStatsResponse, error)
}

type dashboardService struct {
	accounts repository.AccountRepository
	audit    AuditService
	adapter  *store.Adapter
	cache    *redis.Client
	ttl      time.Duration
	logger   zerolog.Logger
	now      func() time.Time
}

// NewDashboardService constructs the dashboard service. cache may be nil;
// stats are then computed on every request.
func NewDashboardService(accounts repository.AccountRepository, audit AuditService, adapter *store.Adapter, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) DashboardService {
	if ttl <= 0 {
		ttl = defaultDashboardTTL
	}
	return &dashboardService{
		accounts: accounts,
		audit:    audit,
		adapter:  adapter,
		cache:    cache,
		ttl:      ttl,
		logger:   logger.With().Str("component", "dashboard_service").Logger(),
		now:      time.Now,
	}
}

func (s *dashboardService) Stats(ctx context.Context) (dto.DashboardStatsResponse, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, dashboardCacheKey).Result(); err == nil && cached != "" {
			var response dto.DashboardStatsResponse
			if err := json.Unmarshal([]byte(cached), &response); err == nil {
				response.CacheHit = true
				observability.DashboardStatsRequests().WithLabelValues("hit").Inc()
				return response, nil
			}
		}
	}

	accounts, err := s.accounts.ListAll(ctx)
	if err != nil {
		observability.DashboardStatsRequests().WithLabelValues("error").Inc()
		return dto.DashboardStatsResponse{}, err
	}

	recent, err := s.audit.Recent(ctx, dashboardRecentsWindow)
	if err != nil {
		observability.DashboardStatsRequests().WithLabelValues("error").Inc()
		return dto.DashboardStatsResponse{}, err
	}

	response := dto.DashboardStatsResponse{
		StorageMode: string(s.adapter.Mode()),
	}
	for _, account := range accounts {
		switch account.Role {
		case models.RoleUser:
			response.TotalUsers++
		case models.RoleSubAdmin:
			response.TotalSubAdmins++
		}
		if account.IsActive {
			response.ActiveUsers++
		}
	}

	midnight := startOfDay(s.now())
	for _, entry := range recent {
		if entry.Action == ActionLogin && !entry.CreatedAt.Before(midnight) {
			response.TodayLogins++
		}
	}
	if len(recent) > recentActionsCap {
		recent = recent[:recentActionsCap]
	}
	response.RecentActions = recent

	if s.cache != nil {
		if payload, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, dashboardCacheKey, payload, s.ttl).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to cache dashboard stats")
			}
		}
	}

	observability.DashboardStatsRequests().WithLabelValues("miss").Inc()
	return response, nil
}

func startOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}
