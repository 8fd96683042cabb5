// Package domain contains core types for tenant companies.
package domain

import (
	"time"

	"github.com/aibuildx/platform/internal/policy"
	"github.com/bwmarrin/snowflake"
)

// Company is a tenant. Subscription fields are denormalized from the plan
// snapshot at activation time so later plan edits never touch live tenants.
type Company struct {
	ID                     snowflake.ID              `gorm:"primaryKey"`
	Name                   string                    `gorm:"column:name;type:text;not null"`
	ContactEmail           string                    `gorm:"column:contact_email;type:text"`
	SubscriptionTier       *string                   `gorm:"column:subscription_tier;type:text"`
	SubscriptionStatus     policy.SubscriptionStatus `gorm:"column:subscription_status;type:text;not null;default:Expired"`
	MaxUsers               int                       `gorm:"column:max_users;not null;default:1"`
	StorageLimitGB         int                       `gorm:"column:storage_limit_gb;not null;default:10"`
	SubscriptionExpiryDate *time.Time                `gorm:"column:subscription_expiry_date"`
	CreatedAt              time.Time                 `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt              time.Time                 `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Company) TableName() string { return "companies" }

// State projects the company onto the policy evaluator's input.
func (c Company) State() policy.CompanyState {
	return policy.CompanyState{
		SubscriptionStatus: c.SubscriptionStatus,
		MaxUsers:           c.MaxUsers,
	}
}
