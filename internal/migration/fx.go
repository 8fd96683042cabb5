package migration

import (
	"github.com/aibuildx/platform/internal/config"
	"github.com/aibuildx/platform/internal/seed"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		// Versioned SQL migrations target postgres. Other dialects are for
		// local experiments and tests, which migrate via gorm instead.
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			if err := AutoMigrate(conn); err != nil {
				return err
			}
		}

		if err := seed.EnsureSuperAdmin(conn, cfg); err != nil {
			return err
		}
		return seed.EnsureStarterPlans(conn)
	}),
)
