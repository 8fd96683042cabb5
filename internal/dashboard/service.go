// Package dashboard computes the platform-wide aggregates shown on the
// SuperAdmin dashboard.
package dashboard

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Stats is the admin dashboard payload. Revenue is in rupees, summed over
// Paid transactions only.
type Stats struct {
	TotalCompanies      int64   `json:"totalCompanies"`
	TotalUsers          int64   `json:"totalUsers"`
	ActiveSubscriptions int64   `json:"activeSubscriptions"`
	TotalRevenue        float64 `json:"totalRevenue"`
}

type Service struct {
	log *zap.Logger
	db  *gorm.DB
}

func New(log *zap.Logger, db *gorm.DB) *Service {
	return &Service{
		log: log.Named("dashboard.service"),
		db:  db,
	}
}

func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	var stats Stats

	if err := s.db.WithContext(ctx).
		Raw("SELECT COUNT(*) FROM companies").
		Scan(&stats.TotalCompanies).Error; err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).
		Raw("SELECT COUNT(*) FROM users").
		Scan(&stats.TotalUsers).Error; err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).
		Raw("SELECT COUNT(*) FROM companies WHERE subscription_status = ?", "Active").
		Scan(&stats.ActiveSubscriptions).Error; err != nil {
		return nil, err
	}

	// Amounts are stored in paise.
	var paise *int64
	if err := s.db.WithContext(ctx).
		Raw("SELECT SUM(amount) FROM transactions WHERE status = ?", "Paid").
		Scan(&paise).Error; err != nil {
		return nil, err
	}
	if paise != nil {
		stats.TotalRevenue = float64(*paise) / 100
	}

	return &stats, nil
}
