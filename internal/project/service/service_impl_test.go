package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	authdomain "github.com/aibuildx/platform/internal/auth/domain"
	companydomain "github.com/aibuildx/platform/internal/company/domain"
	companyrepo "github.com/aibuildx/platform/internal/company/repository"
	companyservice "github.com/aibuildx/platform/internal/company/service"
	"github.com/aibuildx/platform/internal/config"
	plandomain "github.com/aibuildx/platform/internal/plan/domain"
	planrepo "github.com/aibuildx/platform/internal/plan/repository"
	"github.com/aibuildx/platform/internal/policy"
	"github.com/aibuildx/platform/internal/project/domain"
	projectrepo "github.com/aibuildx/platform/internal/project/repository"
	"github.com/aibuildx/platform/internal/project/store"
	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	svc       domain.Service
	uploadDir string
	company   *companydomain.Company
	userID    snowflake.ID
	expired   *companydomain.Company
}

func setup(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&authdomain.User{},
		&companydomain.Company{},
		&plandomain.Plan{},
		&domain.Project{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	plan := &plandomain.Plan{
		ID:             node.Generate(),
		Name:           "Starter",
		Price:          999,
		Currency:       "INR",
		MaxUsers:       5,
		StorageLimitGB: 25,
		DurationDays:   30,
	}
	require.NoError(t, db.Create(plan).Error)

	companySvc := companyservice.New(zap.NewNop(), db, companyrepo.New(), planrepo.New(db), nil, node)
	ctx := context.Background()

	active, err := companySvc.Onboard(ctx, companydomain.OnboardRequest{
		Name:          "Acme Structures",
		AdminEmail:    "admin@acme.example",
		AdminPassword: "correct-horse",
		PlanID:        &plan.ID,
	})
	require.NoError(t, err)

	expired, err := companySvc.Onboard(ctx, companydomain.OnboardRequest{
		Name:          "Dormant Engineering",
		AdminEmail:    "admin@dormant.example",
		AdminPassword: "correct-horse",
	})
	require.NoError(t, err)

	var admin authdomain.User
	require.NoError(t, db.Where("company_id = ?", active.ID).First(&admin).Error)

	uploadDir := t.TempDir()
	svc := New(
		zap.NewNop(),
		projectrepo.New(db),
		store.NewLocal(config.Config{UploadDir: uploadDir}),
		companySvc,
		nil,
		node,
	)

	return &fixture{
		svc:       svc,
		uploadDir: uploadDir,
		company:   active,
		userID:    admin.ID,
		expired:   expired,
	}
}

func TestUploadStoresDrawing(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	project, err := f.svc.Upload(ctx, domain.UploadRequest{
		CompanyID: f.company.ID,
		CreatedBy: f.userID,
		Title:     "Warehouse Truss",
		Location:  "Pune",
		FileName:  "truss-plan.pdf",
		Size:      12,
		File:      strings.NewReader("PDF CONTENT!"),
	})
	require.NoError(t, err)
	require.Equal(t, domain.DrawingPDF, project.DrawingType)
	require.Equal(t, domain.StatusUploaded, project.Status)

	data, err := os.ReadFile(filepath.Join(f.uploadDir, project.FilePath))
	require.NoError(t, err)
	require.Equal(t, "PDF CONTENT!", string(data))

	got, err := f.svc.Get(ctx, f.company.ID, project.ID)
	require.NoError(t, err)
	require.Equal(t, project.ID, got.ID)
}

func TestUploadRejectsUnsupportedExtension(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	for _, name := range []string{"model.step", "plan.pdf.exe", "notes.txt", "archive"} {
		_, err := f.svc.Upload(ctx, domain.UploadRequest{
			CompanyID: f.company.ID,
			CreatedBy: f.userID,
			Title:     "Bad Upload",
			FileName:  name,
			File:      strings.NewReader("x"),
		})
		require.ErrorIs(t, err, domain.ErrUnsupportedFileType, "file %q", name)
	}

	// DWG passes the whitelist, case-insensitively.
	project, err := f.svc.Upload(ctx, domain.UploadRequest{
		CompanyID: f.company.ID,
		CreatedBy: f.userID,
		Title:     "Column Layout",
		FileName:  "layout.DWG",
		File:      strings.NewReader("dwg bytes"),
	})
	require.NoError(t, err)
	require.Equal(t, domain.DrawingDWG, project.DrawingType)
}

func TestUploadGatedByExpiredSubscription(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.svc.Upload(ctx, domain.UploadRequest{
		CompanyID: f.expired.ID,
		CreatedBy: f.userID,
		Title:     "Blocked Upload",
		FileName:  "plan.pdf",
		File:      strings.NewReader("x"),
	})
	require.ErrorIs(t, err, policy.ErrSubscriptionExpired)

	projects, err := f.svc.List(ctx, f.expired.ID)
	require.NoError(t, err)
	require.Empty(t, projects)
}

func TestUpdateStatusTransitions(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	project, err := f.svc.Upload(ctx, domain.UploadRequest{
		CompanyID: f.company.ID,
		CreatedBy: f.userID,
		Title:     "Warehouse Truss",
		FileName:  "truss.pdf",
		File:      strings.NewReader("x"),
	})
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus(ctx, f.company.ID, project.ID, domain.StatusCompleted)
	require.ErrorIs(t, err, domain.ErrInvalidTransition)

	p, err := f.svc.UpdateStatus(ctx, f.company.ID, project.ID, domain.StatusProcessing)
	require.NoError(t, err)
	require.Equal(t, domain.StatusProcessing, p.Status)

	p, err = f.svc.UpdateStatus(ctx, f.company.ID, project.ID, domain.StatusCompleted)
	require.NoError(t, err)
	require.Equal(t, domain.StatusCompleted, p.Status)

	_, err = f.svc.UpdateStatus(ctx, f.company.ID, project.ID, domain.StatusProcessing)
	require.ErrorIs(t, err, domain.ErrInvalidTransition)
}
