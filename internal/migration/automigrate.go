package migration

import (
	authdomain "github.com/aibuildx/platform/internal/auth/domain"
	checkoutdomain "github.com/aibuildx/platform/internal/checkout/domain"
	companydomain "github.com/aibuildx/platform/internal/company/domain"
	plandomain "github.com/aibuildx/platform/internal/plan/domain"
	projectdomain "github.com/aibuildx/platform/internal/project/domain"
	"gorm.io/gorm"
)

// AutoMigrate creates the schema from the gorm models. Used for mysql
// and sqlite; postgres uses the versioned SQL migrations.
func AutoMigrate(conn *gorm.DB) error {
	return conn.AutoMigrate(
		&companydomain.Company{},
		&authdomain.User{},
		&authdomain.Session{},
		&plandomain.Plan{},
		&projectdomain.Project{},
		&checkoutdomain.Transaction{},
	)
}
