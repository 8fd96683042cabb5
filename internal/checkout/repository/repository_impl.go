package repository

import (
	"context"
	"errors"
	"time"

	"github.com/aibuildx/platform/internal/checkout/domain"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func New() domain.Repository {
	return &repo{}
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, tx *domain.Transaction) error {
	return db.WithContext(ctx).Create(tx).Error
}

func (r *repo) FindByOrderID(ctx context.Context, db *gorm.DB, orderID string) (*domain.Transaction, error) {
	return r.findByOrderID(ctx, db.WithContext(ctx), orderID)
}

func (r *repo) FindByOrderIDForUpdate(ctx context.Context, db *gorm.DB, orderID string) (*domain.Transaction, error) {
	tx := db.WithContext(ctx)
	if db.Dialector.Name() != "sqlite" {
		tx = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return r.findByOrderID(ctx, tx, orderID)
}

func (r *repo) findByOrderID(_ context.Context, db *gorm.DB, orderID string) (*domain.Transaction, error) {
	var tx domain.Transaction
	err := db.Where("order_id = ?", orderID).First(&tx).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrTransactionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &tx, nil
}

func (r *repo) ListByCompany(ctx context.Context, db *gorm.DB, companyID snowflake.ID) ([]domain.Transaction, error) {
	var txs []domain.Transaction
	err := db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("created_at DESC").
		Find(&txs).Error
	return txs, err
}

func (r *repo) ListAll(ctx context.Context, db *gorm.DB) ([]domain.Transaction, error) {
	var txs []domain.Transaction
	err := db.WithContext(ctx).Order("created_at DESC").Find(&txs).Error
	return txs, err
}

func (r *repo) UpdateFields(ctx context.Context, db *gorm.DB, id snowflake.ID, fields map[string]any) error {
	tx := db.WithContext(ctx).Model(&domain.Transaction{}).Where("id = ?", id).Updates(fields)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return domain.ErrTransactionNotFound
	}
	return nil
}

// ExpireCreatedBefore sweeps orphaned orders into the Expired state.
func (r *repo) ExpireCreatedBefore(ctx context.Context, db *gorm.DB, cutoff time.Time) (int64, error) {
	tx := db.WithContext(ctx).Model(&domain.Transaction{}).
		Where("status = ? AND created_at < ?", domain.TxCreated, cutoff).
		Updates(map[string]any{
			"status":     domain.TxExpired,
			"updated_at": time.Now().UTC(),
		})
	return tx.RowsAffected, tx.Error
}
