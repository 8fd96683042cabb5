// Package seed bootstraps the records a fresh deployment needs before
// anyone can log in: the platform SuperAdmin and the starter plan catalog.
package seed

import (
	"time"

	authdomain "github.com/aibuildx/platform/internal/auth/domain"
	authservice "github.com/aibuildx/platform/internal/auth/service"
	"github.com/aibuildx/platform/internal/config"
	plandomain "github.com/aibuildx/platform/internal/plan/domain"
	"github.com/aibuildx/platform/internal/policy"
	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// EnsureSuperAdmin creates the platform SuperAdmin from config when no
// SuperAdmin exists yet. Idempotent across restarts.
func EnsureSuperAdmin(conn *gorm.DB, cfg config.Config) error {
	var count int64
	if err := conn.Model(&authdomain.User{}).
		Where("role = ?", policy.RoleSuperAdmin).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	node, err := snowflake.NewNode(0)
	if err != nil {
		return err
	}
	hash, err := authservice.HashPassword(cfg.SeedAdminPassword)
	if err != nil {
		return err
	}

	admin := &authdomain.User{
		ID:           node.Generate(),
		Email:        cfg.SeedAdminEmail,
		PasswordHash: hash,
		Name:         "Platform Admin",
		Role:         policy.RoleSuperAdmin,
	}
	return conn.Create(admin).Error
}

// EnsureStarterPlans installs the default plan catalog when the plans
// table is empty. SuperAdmins reshape the catalog afterwards; the seed
// never overwrites their edits.
func EnsureStarterPlans(conn *gorm.DB) error {
	var count int64
	if err := conn.Model(&plandomain.Plan{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	node, err := snowflake.NewNode(0)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	plans := []plandomain.Plan{
		{
			ID:             node.Generate(),
			Name:           "Starter",
			Description:    "Single-seat plan for evaluating the platform",
			Price:          999,
			Currency:       "INR",
			MaxUsers:       1,
			StorageLimitGB: 10,
			DurationDays:   30,
			Features:       datatypes.JSONSlice[string]{"PDF drawings", "DWG drawings"},
			IsActive:       true,
			CreatedAt:      now,
			UpdatedAt:      now,
		},
		{
			ID:             node.Generate(),
			Name:           "Professional",
			Description:    "Team plan for small engineering firms",
			Price:          4999,
			Currency:       "INR",
			MaxUsers:       10,
			StorageLimitGB: 100,
			DurationDays:   30,
			Features:       datatypes.JSONSlice[string]{"PDF drawings", "DWG drawings", "Priority processing"},
			IsActive:       true,
			CreatedAt:      now,
			UpdatedAt:      now,
		},
		{
			ID:             node.Generate(),
			Name:           "Enterprise",
			Description:    "Large firms with multi-team drawing pipelines",
			Price:          14999,
			Currency:       "INR",
			MaxUsers:       50,
			StorageLimitGB: 500,
			DurationDays:   30,
			Features:       datatypes.JSONSlice[string]{"PDF drawings", "DWG drawings", "Priority processing", "Dedicated support"},
			IsActive:       true,
			CreatedAt:      now,
			UpdatedAt:      now,
		},
	}
	return conn.Create(&plans).Error
}
