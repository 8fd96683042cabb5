package service

import (
	"context"
	"testing"

	"github.com/aibuildx/platform/internal/plan/domain"
	planrepo "github.com/aibuildx/platform/internal/plan/repository"
	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupService(t *testing.T) domain.Service {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Plan{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return New(zap.NewNop(), planrepo.New(db), node)
}

func TestCreatePlan(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	plan, err := svc.Create(ctx, domain.CreateRequest{
		Name:           "Professional",
		Price:          4999,
		MaxUsers:       10,
		StorageLimitGB: 100,
		Features:       []string{"priority-processing"},
	})
	require.NoError(t, err)
	require.Equal(t, "INR", plan.Currency)
	require.Equal(t, 30, plan.DurationDays)

	_, err = svc.Create(ctx, domain.CreateRequest{
		Name:           "Professional",
		Price:          5999,
		MaxUsers:       20,
		StorageLimitGB: 200,
	})
	require.ErrorIs(t, err, domain.ErrPlanExists)

	_, err = svc.Create(ctx, domain.CreateRequest{Name: "", Price: 10, MaxUsers: 1, StorageLimitGB: 1})
	require.ErrorIs(t, err, domain.ErrInvalidPlan)
}

func TestUpdatePlanPartial(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	plan, err := svc.Create(ctx, domain.CreateRequest{
		Name:           "Starter",
		Price:          999,
		MaxUsers:       3,
		StorageLimitGB: 25,
	})
	require.NoError(t, err)

	newPrice := 1299.0
	updated, err := svc.Update(ctx, plan.ID, domain.UpdateRequest{Price: &newPrice})
	require.NoError(t, err)
	require.Equal(t, newPrice, updated.Price)
	require.Equal(t, plan.MaxUsers, updated.MaxUsers)
	require.Equal(t, plan.Name, updated.Name)

	renamed := "Basic"
	_, err = svc.Update(ctx, plan.ID, domain.UpdateRequest{Name: &renamed})
	require.ErrorIs(t, err, domain.ErrNameImmutable)

	// Sending the unchanged name is allowed.
	same := "Starter"
	_, err = svc.Update(ctx, plan.ID, domain.UpdateRequest{Name: &same})
	require.NoError(t, err)
}

func TestDeactivatedPlanLeavesActiveCatalog(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	starter, err := svc.Create(ctx, domain.CreateRequest{
		Name:           "Starter",
		Price:          999,
		MaxUsers:       3,
		StorageLimitGB: 25,
	})
	require.NoError(t, err)
	require.True(t, starter.IsActive)

	pro, err := svc.Create(ctx, domain.CreateRequest{
		Name:           "Professional",
		Price:          4999,
		MaxUsers:       10,
		StorageLimitGB: 100,
	})
	require.NoError(t, err)

	inactive := false
	updated, err := svc.Update(ctx, starter.ID, domain.UpdateRequest{IsActive: &inactive})
	require.NoError(t, err)
	require.False(t, updated.IsActive)

	active, err := svc.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	require.Equal(t, pro.ID, active[0].ID)

	// The full listing keeps deactivated plans for admin management.
	all, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)

	// Reactivation brings the plan back.
	reactivate := true
	_, err = svc.Update(ctx, starter.ID, domain.UpdateRequest{IsActive: &reactivate})
	require.NoError(t, err)
	active, err = svc.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 2)
}

func TestCreatePlanInactiveFromStart(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	inactive := false
	plan, err := svc.Create(ctx, domain.CreateRequest{
		Name:           "Legacy",
		Price:          499,
		MaxUsers:       1,
		StorageLimitGB: 5,
		IsActive:       &inactive,
	})
	require.NoError(t, err)
	require.False(t, plan.IsActive)

	active, err := svc.ListActive(ctx)
	require.NoError(t, err)
	require.Empty(t, active)
}

func TestDeletePlan(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	plan, err := svc.Create(ctx, domain.CreateRequest{
		Name:           "Starter",
		Price:          999,
		MaxUsers:       3,
		StorageLimitGB: 25,
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, plan.ID))
	require.ErrorIs(t, svc.Delete(ctx, plan.ID), domain.ErrPlanNotFound)

	_, err = svc.Get(ctx, plan.ID)
	require.ErrorIs(t, err, domain.ErrPlanNotFound)
}
