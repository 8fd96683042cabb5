// Package scheduler runs the periodic maintenance sweeps: orphaned
// checkout orders, lapsed subscriptions, and dead sessions.
package scheduler

import (
	"context"
	"time"

	authdomain "github.com/aibuildx/platform/internal/auth/domain"
	checkoutdomain "github.com/aibuildx/platform/internal/checkout/domain"
	"github.com/aibuildx/platform/internal/clock"
	companydomain "github.com/aibuildx/platform/internal/company/domain"
	"github.com/aibuildx/platform/internal/config"
	"github.com/aibuildx/platform/internal/policy"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultRunInterval = 5 * time.Minute

type Scheduler struct {
	db           *gorm.DB
	log          *zap.Logger
	clock        clock.Clock
	checkoutRepo checkoutdomain.Repository

	runInterval time.Duration
	orderTTL    time.Duration
}

func New(log *zap.Logger, db *gorm.DB, cfg config.Config, clk clock.Clock, checkoutRepo checkoutdomain.Repository) *Scheduler {
	return &Scheduler{
		db:           db,
		log:          log.Named("scheduler"),
		clock:        clk,
		checkoutRepo: checkoutRepo,
		runInterval:  defaultRunInterval,
		orderTTL:     cfg.OrderTTL,
	}
}

// RunOnce executes one sweep pass. Each job is independent; a failing job
// logs and does not block the others.
func (s *Scheduler) RunOnce(ctx context.Context) {
	now := s.clock.Now()

	if swept, err := s.checkoutRepo.ExpireCreatedBefore(ctx, s.db, now.Add(-s.orderTTL)); err != nil {
		s.log.Error("expire stale orders", zap.Error(err))
	} else if swept > 0 {
		s.log.Info("expired stale checkout orders", zap.Int64("count", swept))
	}

	if err := s.expireLapsedSubscriptions(ctx, now); err != nil {
		s.log.Error("expire lapsed subscriptions", zap.Error(err))
	}

	if err := s.deleteDeadSessions(ctx, now); err != nil {
		s.log.Error("delete dead sessions", zap.Error(err))
	}
}

// expireLapsedSubscriptions flips Active companies past their expiry date
// to Expired so the policy evaluator sees the lapse on the next request.
func (s *Scheduler) expireLapsedSubscriptions(ctx context.Context, now time.Time) error {
	tx := s.db.WithContext(ctx).Model(&companydomain.Company{}).
		Where("subscription_status = ? AND subscription_expiry_date IS NOT NULL AND subscription_expiry_date < ?", policy.StatusActive, now).
		Updates(map[string]any{
			"subscription_status": policy.StatusExpired,
			"updated_at":          now,
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected > 0 {
		s.log.Info("expired lapsed subscriptions", zap.Int64("count", tx.RowsAffected))
	}
	return nil
}

func (s *Scheduler) deleteDeadSessions(ctx context.Context, now time.Time) error {
	tx := s.db.WithContext(ctx).Where("expires_at < ?", now).Delete(&authdomain.Session{})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected > 0 {
		s.log.Info("deleted expired sessions", zap.Int64("count", tx.RowsAffected))
	}
	return nil
}

// RunForever sweeps on a fixed interval until the context ends.
func (s *Scheduler) RunForever(ctx context.Context) {
	ticker := time.NewTicker(s.runInterval)
	defer ticker.Stop()

	s.RunOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}
