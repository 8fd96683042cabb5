// Package domain contains core types for subscription checkout.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// TxStatus is a transaction's place in the checkout state machine.
// Created is the only non-terminal state: it moves to Paid on verified
// payment, Failed on a rejected signature, or Expired by the TTL sweep.
type TxStatus string

const (
	TxCreated TxStatus = "Created"
	TxPaid    TxStatus = "Paid"
	TxFailed  TxStatus = "Failed"
	TxExpired TxStatus = "Expired"
)

// Terminal reports whether the status can no longer change.
func (s TxStatus) Terminal() bool {
	return s == TxPaid || s == TxFailed || s == TxExpired
}

// Transaction records one checkout attempt. PlanSnapshot freezes the plan
// terms at order time; activation reads the snapshot, never the live plan,
// so a plan edit mid-checkout cannot change what was bought.
type Transaction struct {
	ID           snowflake.ID      `gorm:"primaryKey"`
	CompanyID    snowflake.ID      `gorm:"column:company_id;not null;index"`
	PlanID       *snowflake.ID     `gorm:"column:plan_id"`
	OrderID      string            `gorm:"column:order_id;type:text;not null;uniqueIndex"`
	PaymentID    string            `gorm:"column:payment_id;type:text"`
	Signature    string            `gorm:"column:signature;type:text"`
	Amount       int64             `gorm:"column:amount;not null"`
	Currency     string            `gorm:"column:currency;type:text;not null;default:INR"`
	Status       TxStatus          `gorm:"column:status;type:text;not null;default:Created;index:idx_transactions_status_created_at"`
	PlanSnapshot datatypes.JSONMap `gorm:"column:plan_snapshot;type:jsonb"`
	CreatedAt    time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP;index:idx_transactions_status_created_at"`
	UpdatedAt    time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Transaction) TableName() string { return "transactions" }
