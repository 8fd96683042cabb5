package domain

import (
	"context"

	authdomain "github.com/aibuildx/platform/internal/auth/domain"
	"github.com/aibuildx/platform/internal/policy"
	"github.com/bwmarrin/snowflake"
)

type Service interface {
	Onboard(ctx context.Context, req OnboardRequest) (*Company, error)
	Get(ctx context.Context, id snowflake.ID) (*Company, error)
	List(ctx context.Context) ([]Company, error)
	Permissions(ctx context.Context, id snowflake.ID) (policy.PermissionSet, error)
	AddUser(ctx context.Context, companyID snowflake.ID, req AddUserRequest) (*authdomain.User, error)
	ListUsers(ctx context.Context, companyID snowflake.ID) ([]authdomain.User, error)
}

// OnboardRequest registers a company with its first ClientAdmin account.
// A plan id activates the subscription immediately; without one the company
// starts Expired with a single seat until checkout completes.
type OnboardRequest struct {
	Name          string
	ContactEmail  string
	AdminEmail    string
	AdminPassword string
	AdminName     string
	PlanID        *snowflake.ID
}

type AddUserRequest struct {
	Email    string
	Password string
	Name     string
	Role     policy.Role
}
