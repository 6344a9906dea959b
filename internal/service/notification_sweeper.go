package service

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// DefaultSweepInterval is used when no sweep interval is configured.
const DefaultSweepInterval = 10 * time.Minute

// NotificationSweeper periodically removes expired notifications. The
// persistent store has no native row expiry, so the sweep covers both
// backends.
type NotificationSweeper struct {
	notifications NotificationService
	interval      time.Duration
	logger        zerolog.Logger
	cron          *cron.Cron
}

// NewNotificationSweeper constructs the sweeper. interval <= 0 selects
// DefaultSweepInterval.
func NewNotificationSweeper(notifications NotificationService, interval time.Duration, logger zerolog.Logger) *NotificationSweeper {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	return &NotificationSweeper{
		notifications: notifications,
		interval:      interval,
		logger:        logger.With().Str("component", "notification_sweeper").Logger(),
	}
}

// Start schedules the sweep and returns immediately.
func (s *NotificationSweeper) Start() error {
	s.cron = cron.New()
	_, err := s.cron.AddFunc(fmt.Sprintf("@every %s", s.interval), func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if _, err := s.notifications.SweepExpired(ctx); err != nil {
			s.logger.Error().Err(err).Msg("notification expiry sweep failed")
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info().Dur("interval", s.interval).Msg("notification expiry sweep scheduled")
	return nil
}

// Stop halts the schedule and waits for a running sweep to finish.
func (s *NotificationSweeper) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
}
