package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Repository methods accept the database handle so the service can run the
// verify flow inside one transaction.
type Repository interface {
	Create(ctx context.Context, db *gorm.DB, tx *Transaction) error
	FindByOrderID(ctx context.Context, db *gorm.DB, orderID string) (*Transaction, error)
	FindByOrderIDForUpdate(ctx context.Context, db *gorm.DB, orderID string) (*Transaction, error)
	ListByCompany(ctx context.Context, db *gorm.DB, companyID snowflake.ID) ([]Transaction, error)
	ListAll(ctx context.Context, db *gorm.DB) ([]Transaction, error)
	UpdateFields(ctx context.Context, db *gorm.DB, id snowflake.ID, fields map[string]any) error
	ExpireCreatedBefore(ctx context.Context, db *gorm.DB, cutoff time.Time) (int64, error)
}
