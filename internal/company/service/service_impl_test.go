package service

import (
	"context"
	"testing"
	"time"

	authdomain "github.com/aibuildx/platform/internal/auth/domain"
	"github.com/aibuildx/platform/internal/company/domain"
	companyrepo "github.com/aibuildx/platform/internal/company/repository"
	plandomain "github.com/aibuildx/platform/internal/plan/domain"
	planrepo "github.com/aibuildx/platform/internal/plan/repository"
	"github.com/aibuildx/platform/internal/policy"
	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	db   *gorm.DB
	svc  domain.Service
	plan *plandomain.Plan
}

func setup(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&authdomain.User{},
		&domain.Company{},
		&plandomain.Plan{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	plan := &plandomain.Plan{
		ID:             node.Generate(),
		Name:           "Starter",
		Price:          999,
		Currency:       "INR",
		MaxUsers:       2,
		StorageLimitGB: 25,
		DurationDays:   30,
	}
	require.NoError(t, db.Create(plan).Error)

	svc := New(zap.NewNop(), db, companyrepo.New(), planrepo.New(db), nil, node)
	return &fixture{db: db, svc: svc, plan: plan}
}

func TestOnboardWithoutPlan(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	company, err := f.svc.Onboard(ctx, domain.OnboardRequest{
		Name:          "Acme Structures",
		ContactEmail:  "office@acme.example",
		AdminEmail:    "admin@acme.example",
		AdminPassword: "correct-horse",
	})
	require.NoError(t, err)
	require.Equal(t, policy.StatusExpired, company.SubscriptionStatus)
	require.Equal(t, 1, company.MaxUsers)
	require.Equal(t, 10, company.StorageLimitGB)
	require.Nil(t, company.SubscriptionTier)
	require.Nil(t, company.SubscriptionExpiryDate)

	users, err := f.svc.ListUsers(ctx, company.ID)
	require.NoError(t, err)
	require.Len(t, users, 1)
	require.Equal(t, policy.RoleClientAdmin, users[0].Role)

	perms, err := f.svc.Permissions(ctx, company.ID)
	require.NoError(t, err)
	require.False(t, perms.CanCreateProject)
	require.False(t, perms.CanAddUser)
	require.True(t, perms.CanSubscribe)
}

func TestOnboardWithPlan(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	company, err := f.svc.Onboard(ctx, domain.OnboardRequest{
		Name:          "Acme Structures",
		AdminEmail:    "admin@acme.example",
		AdminPassword: "correct-horse",
		PlanID:        &f.plan.ID,
	})
	require.NoError(t, err)
	require.Equal(t, policy.StatusActive, company.SubscriptionStatus)
	require.Equal(t, f.plan.MaxUsers, company.MaxUsers)
	require.NotNil(t, company.SubscriptionTier)
	require.Equal(t, f.plan.Name, *company.SubscriptionTier)
	require.NotNil(t, company.SubscriptionExpiryDate)
	require.True(t, company.SubscriptionExpiryDate.After(time.Now().AddDate(0, 0, 29)))
}

func TestAddUserSeatLimit(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	company, err := f.svc.Onboard(ctx, domain.OnboardRequest{
		Name:          "Acme Structures",
		AdminEmail:    "admin@acme.example",
		AdminPassword: "correct-horse",
		PlanID:        &f.plan.ID, // 2 seats
	})
	require.NoError(t, err)

	_, err = f.svc.AddUser(ctx, company.ID, domain.AddUserRequest{
		Email:    "eng1@acme.example",
		Password: "correct-horse",
		Role:     policy.RoleClientEngineer,
	})
	require.NoError(t, err)

	// Third seat on a two-seat plan.
	_, err = f.svc.AddUser(ctx, company.ID, domain.AddUserRequest{
		Email:    "eng2@acme.example",
		Password: "correct-horse",
		Role:     policy.RoleClientEngineer,
	})
	require.ErrorIs(t, err, policy.ErrSeatLimitReached)

	users, err := f.svc.ListUsers(ctx, company.ID)
	require.NoError(t, err)
	require.Len(t, users, 2)
}

func TestAddUserExpiredSubscription(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	company, err := f.svc.Onboard(ctx, domain.OnboardRequest{
		Name:          "Acme Structures",
		AdminEmail:    "admin@acme.example",
		AdminPassword: "correct-horse",
	})
	require.NoError(t, err)

	_, err = f.svc.AddUser(ctx, company.ID, domain.AddUserRequest{
		Email:    "eng@acme.example",
		Password: "correct-horse",
		Role:     policy.RoleClientEngineer,
	})
	require.ErrorIs(t, err, policy.ErrSubscriptionExpired)
}

func TestDowngradeGrandfathersExistingUsers(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	company, err := f.svc.Onboard(ctx, domain.OnboardRequest{
		Name:          "Acme Structures",
		AdminEmail:    "admin@acme.example",
		AdminPassword: "correct-horse",
		PlanID:        &f.plan.ID,
	})
	require.NoError(t, err)

	_, err = f.svc.AddUser(ctx, company.ID, domain.AddUserRequest{
		Email:    "eng1@acme.example",
		Password: "correct-horse",
		Role:     policy.RoleClientEngineer,
	})
	require.NoError(t, err)

	// Simulate a downgrade below the current member count.
	require.NoError(t, f.db.Model(&domain.Company{}).
		Where("id = ?", company.ID).
		Update("max_users", 1).Error)

	// Existing members stay; new admissions are refused.
	users, err := f.svc.ListUsers(ctx, company.ID)
	require.NoError(t, err)
	require.Len(t, users, 2)

	_, err = f.svc.AddUser(ctx, company.ID, domain.AddUserRequest{
		Email:    "eng2@acme.example",
		Password: "correct-horse",
		Role:     policy.RoleClientEngineer,
	})
	require.ErrorIs(t, err, policy.ErrSeatLimitReached)

	perms, err := f.svc.Permissions(ctx, company.ID)
	require.NoError(t, err)
	require.True(t, perms.CanCreateProject)
	require.False(t, perms.CanAddUser)
}

func TestAddUserRejectsPlatformRoles(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	company, err := f.svc.Onboard(ctx, domain.OnboardRequest{
		Name:          "Acme Structures",
		AdminEmail:    "admin@acme.example",
		AdminPassword: "correct-horse",
		PlanID:        &f.plan.ID,
	})
	require.NoError(t, err)

	_, err = f.svc.AddUser(ctx, company.ID, domain.AddUserRequest{
		Email:    "root@acme.example",
		Password: "correct-horse",
		Role:     policy.RoleSuperAdmin,
	})
	require.ErrorIs(t, err, authdomain.ErrInvalidRole)
}
