// Package domain contains core types for the auth service.
package domain

import (
	"time"

	"github.com/aibuildx/platform/internal/policy"
	"github.com/bwmarrin/snowflake"
)

// User represents a platform user account. Role is fixed at creation;
// ClientAdmin and ClientEngineer accounts always carry a company.
type User struct {
	ID                  snowflake.ID  `gorm:"primaryKey"`
	Email               string        `gorm:"column:email;type:text;not null;uniqueIndex"`
	PasswordHash        string        `gorm:"column:password_hash;type:text;not null"`
	Name                string        `gorm:"column:name;type:text"`
	Role                policy.Role   `gorm:"column:role;type:text;not null"`
	CompanyID           *snowflake.ID `gorm:"column:company_id;index"`
	ResetToken          *string       `gorm:"column:reset_token;type:text"`
	ResetTokenExpiresAt *time.Time    `gorm:"column:reset_token_expires_at"`
	CreatedAt           time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt           time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (User) TableName() string { return "users" }

// Session represents a persisted login session. Tokens are stored hashed;
// the raw value never touches the database. UserAgent and IPAddress record
// the client that opened the session.
type Session struct {
	ID               snowflake.ID `gorm:"primaryKey"`
	UserID           snowflake.ID `gorm:"column:user_id;not null;index"`
	SessionTokenHash string       `gorm:"column:token_hash;type:text;not null;uniqueIndex"`
	UserAgent        string       `gorm:"column:user_agent;type:text"`
	IPAddress        string       `gorm:"column:ip_address;type:text"`
	ExpiresAt        time.Time    `gorm:"column:expires_at;not null;index"`
	CreatedAt        time.Time    `gorm:"column:created_at;not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Session) TableName() string { return "sessions" }
