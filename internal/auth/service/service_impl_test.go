package service

import (
	"context"
	"testing"
	"time"

	"github.com/aibuildx/platform/internal/auth/domain"
	authrepo "github.com/aibuildx/platform/internal/auth/repository"
	"github.com/aibuildx/platform/internal/policy"
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
	require.NoError(t, db.AutoMigrate(&domain.User{}, &domain.Session{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	repo, sessionRepo := authrepo.New(db)
	return New(zap.NewNop(), repo, sessionRepo, node)
}

func TestLoginIssuesSession(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, domain.CreateUserRequest{
		Email:    "admin@example.com",
		Password: "correct-horse",
		Role:     policy.RoleSuperAdmin,
	})
	require.NoError(t, err)

	result, err := svc.Login(ctx, domain.LoginRequest{Email: "admin@example.com", Password: "correct-horse"})
	require.NoError(t, err)
	require.NotEmpty(t, result.RawToken)
	require.Equal(t, policy.RoleSuperAdmin, result.User.Role)
	require.True(t, result.ExpiresAt.After(time.Now()))

	session, err := svc.Authenticate(ctx, result.RawToken)
	require.NoError(t, err)
	require.Equal(t, result.User.ID, session.UserID)
}

func TestLoginRecordsClientDetails(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, domain.CreateUserRequest{
		Email:    "admin@example.com",
		Password: "correct-horse",
		Role:     policy.RoleSuperAdmin,
	})
	require.NoError(t, err)

	result, err := svc.Login(ctx, domain.LoginRequest{
		Email:     "admin@example.com",
		Password:  "correct-horse",
		UserAgent: "aibuildx-web/1.4",
		IPAddress: "203.0.113.7",
	})
	require.NoError(t, err)

	session, err := svc.Authenticate(ctx, result.RawToken)
	require.NoError(t, err)
	require.Equal(t, "aibuildx-web/1.4", session.UserAgent)
	require.Equal(t, "203.0.113.7", session.IPAddress)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, domain.CreateUserRequest{
		Email:    "admin@example.com",
		Password: "correct-horse",
		Role:     policy.RoleSuperAdmin,
	})
	require.NoError(t, err)

	_, err = svc.Login(ctx, domain.LoginRequest{Email: "admin@example.com", Password: "wrong"})
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = svc.Login(ctx, domain.LoginRequest{Email: "nobody@example.com", Password: "correct-horse"})
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLogoutInvalidatesToken(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, domain.CreateUserRequest{
		Email:    "admin@example.com",
		Password: "correct-horse",
		Role:     policy.RoleSuperAdmin,
	})
	require.NoError(t, err)

	result, err := svc.Login(ctx, domain.LoginRequest{Email: "admin@example.com", Password: "correct-horse"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, result.RawToken))

	_, err = svc.Authenticate(ctx, result.RawToken)
	require.ErrorIs(t, err, domain.ErrInvalidSession)

	// Logout is idempotent from the client's point of view: a second call
	// with the same dead token reports an invalid session.
	require.ErrorIs(t, svc.Logout(ctx, result.RawToken), domain.ErrInvalidSession)
}

func TestCreateUserValidation(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, domain.CreateUserRequest{
		Email:    "eng@example.com",
		Password: "correct-horse",
		Role:     policy.RoleClientEngineer,
	})
	require.ErrorIs(t, err, domain.ErrCompanyRequired)

	_, err = svc.CreateUser(ctx, domain.CreateUserRequest{
		Email:    "eng@example.com",
		Password: "correct-horse",
		Role:     policy.Role("Owner"),
	})
	require.ErrorIs(t, err, domain.ErrInvalidRole)

	_, err = svc.CreateUser(ctx, domain.CreateUserRequest{
		Email:    "eng@example.com",
		Password: "short",
		Role:     policy.RoleMarketing,
	})
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = svc.CreateUser(ctx, domain.CreateUserRequest{
		Email:    "mk@example.com",
		Password: "correct-horse",
		Role:     policy.RoleMarketing,
	})
	require.NoError(t, err)

	_, err = svc.CreateUser(ctx, domain.CreateUserRequest{
		Email:    "MK@example.com",
		Password: "correct-horse",
		Role:     policy.RoleMarketing,
	})
	require.ErrorIs(t, err, domain.ErrUserExists)
}

func TestPasswordResetFlow(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, domain.CreateUserRequest{
		Email:    "admin@example.com",
		Password: "correct-horse",
		Role:     policy.RoleSuperAdmin,
	})
	require.NoError(t, err)

	// Unknown email yields no token and no error.
	token, err := svc.ForgotPassword(ctx, "nobody@example.com")
	require.NoError(t, err)
	require.Empty(t, token)

	token, err = svc.ForgotPassword(ctx, "admin@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	require.ErrorIs(t, svc.ResetPassword(ctx, "bogus", "new-password-1"), domain.ErrResetTokenInvalid)
	require.NoError(t, svc.ResetPassword(ctx, token, "new-password-1"))

	// Token is single use.
	require.ErrorIs(t, svc.ResetPassword(ctx, token, "new-password-2"), domain.ErrResetTokenInvalid)

	_, err = svc.Login(ctx, domain.LoginRequest{Email: "admin@example.com", Password: "correct-horse"})
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)

	result, err := svc.Login(ctx, domain.LoginRequest{Email: "admin@example.com", Password: "new-password-1"})
	require.NoError(t, err)
	require.NotEmpty(t, result.RawToken)
}
