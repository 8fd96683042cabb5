// Package domain contains core types for subscription plans.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Plan is a purchasable subscription tier. Name doubles as the company
// tier label in snapshots, so it is immutable after creation. Deactivated
// plans disappear from the public catalog but keep serving companies that
// already bought them.
type Plan struct {
	ID             snowflake.ID                `gorm:"primaryKey"`
	Name           string                      `gorm:"column:name;type:text;not null;uniqueIndex"`
	Description    string                      `gorm:"column:description;type:text"`
	Price          float64                     `gorm:"column:price;not null"`
	Currency       string                      `gorm:"column:currency;type:text;not null;default:INR"`
	MaxUsers       int                         `gorm:"column:max_users;not null"`
	StorageLimitGB int                         `gorm:"column:storage_limit_gb;not null"`
	DurationDays   int                         `gorm:"column:duration_days;not null;default:30"`
	Features       datatypes.JSONSlice[string] `gorm:"column:features;type:jsonb"`
	IsActive       bool                        `gorm:"column:is_active;not null"`
	CreatedAt      time.Time                   `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt      time.Time                   `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Plan) TableName() string { return "plans" }
