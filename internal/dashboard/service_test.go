package dashboard

import (
	"context"
	"testing"

	authdomain "github.com/aibuildx/platform/internal/auth/domain"
	checkoutdomain "github.com/aibuildx/platform/internal/checkout/domain"
	companydomain "github.com/aibuildx/platform/internal/company/domain"
	"github.com/aibuildx/platform/internal/policy"
	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func TestStats(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&authdomain.User{},
		&companydomain.Company{},
		&checkoutdomain.Transaction{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := New(zap.NewNop(), db)

	// Empty platform.
	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	require.Zero(t, stats.TotalCompanies)
	require.Zero(t, stats.TotalRevenue)

	active := &companydomain.Company{ID: node.Generate(), Name: "Active Co", SubscriptionStatus: policy.StatusActive, MaxUsers: 5, StorageLimitGB: 50}
	expired := &companydomain.Company{ID: node.Generate(), Name: "Expired Co", SubscriptionStatus: policy.StatusExpired, MaxUsers: 1, StorageLimitGB: 10}
	require.NoError(t, db.Create(active).Error)
	require.NoError(t, db.Create(expired).Error)

	companyID := active.ID
	require.NoError(t, db.Create(&authdomain.User{
		ID: node.Generate(), Email: "a@x.example", PasswordHash: "h", Role: policy.RoleClientAdmin, CompanyID: &companyID,
	}).Error)

	// Only Paid transactions count toward revenue.
	require.NoError(t, db.Create(&checkoutdomain.Transaction{
		ID: node.Generate(), CompanyID: active.ID, OrderID: "order_1", Amount: 499900, Currency: "INR", Status: checkoutdomain.TxPaid,
	}).Error)
	require.NoError(t, db.Create(&checkoutdomain.Transaction{
		ID: node.Generate(), CompanyID: active.ID, OrderID: "order_2", Amount: 99900, Currency: "INR", Status: checkoutdomain.TxFailed,
	}).Error)

	stats, err = svc.Stats(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(2), stats.TotalCompanies)
	require.Equal(t, int64(1), stats.TotalUsers)
	require.Equal(t, int64(1), stats.ActiveSubscriptions)
	require.Equal(t, 4999.0, stats.TotalRevenue)
}
