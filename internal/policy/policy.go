// Package policy is the access-control and subscription-gating engine.
// It is a pure decision component: no persistence, no transport. Dashboards
// and handlers feed it current state and enforce what it returns; the
// services re-validate the same constraints inside their write transactions.
package policy

import "errors"

// Role is a user's platform role. Roles are assigned at creation and never
// change afterwards.
type Role string

const (
	RoleSuperAdmin     Role = "SuperAdmin"
	RoleMarketing      Role = "Marketing"
	RoleClientAdmin    Role = "ClientAdmin"
	RoleClientEngineer Role = "ClientEngineer"
)

// Valid reports whether the role is one of the four recognized roles.
func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleMarketing, RoleClientAdmin, RoleClientEngineer:
		return true
	default:
		return false
	}
}

// CompanyBound reports whether the role must belong to exactly one company.
func (r Role) CompanyBound() bool {
	return r == RoleClientAdmin || r == RoleClientEngineer
}

// SubscriptionStatus is a company's subscription lifecycle state.
type SubscriptionStatus string

const (
	StatusActive      SubscriptionStatus = "Active"
	StatusGracePeriod SubscriptionStatus = "GracePeriod"
	StatusExpired     SubscriptionStatus = "Expired"
)

// Dashboard identifies the single dashboard variant a role may reach.
type Dashboard string

const (
	DashboardNone           Dashboard = ""
	DashboardSuperAdmin     Dashboard = "super_admin"
	DashboardMarketing      Dashboard = "marketing"
	DashboardClientAdmin    Dashboard = "client_admin"
	DashboardClientEngineer Dashboard = "client_engineer"
)

// Route maps a role to its dashboard. The mapping is total: any value
// outside the four known roles yields (DashboardNone, false) and must be
// treated by callers as an authentication failure, never as a renderable
// state.
func Route(role Role) (Dashboard, bool) {
	switch role {
	case RoleSuperAdmin:
		return DashboardSuperAdmin, true
	case RoleMarketing:
		return DashboardMarketing, true
	case RoleClientAdmin:
		return DashboardClientAdmin, true
	case RoleClientEngineer:
		return DashboardClientEngineer, true
	default:
		return DashboardNone, false
	}
}

// CompanyState is the slice of company state the evaluator reads.
type CompanyState struct {
	SubscriptionStatus SubscriptionStatus
	MaxUsers           int
}

// PermissionSet is the set of actions a company's members may perform.
type PermissionSet struct {
	CanCreateProject bool `json:"can_create_project"`
	CanAddUser       bool `json:"can_add_user"`
	CanSubscribe     bool `json:"can_subscribe"`
}

// Evaluate computes the permitted actions for a company given its current
// seat usage. It must be re-run after every mutation that changes company
// state; results are never cached across mutations.
//
// A company that has never been assigned a plan is Expired with MaxUsers 0:
// it can subscribe but do nothing else until a plan is purchased.
func Evaluate(c CompanyState, currentUserCount int) PermissionSet {
	notExpired := c.SubscriptionStatus != StatusExpired
	return PermissionSet{
		CanCreateProject: notExpired,
		CanAddUser:       notExpired && currentUserCount < c.MaxUsers,
		// Renewal must stay available even when expired; it is the only
		// recovery path.
		CanSubscribe: true,
	}
}

var (
	ErrSubscriptionExpired = errors.New("subscription_expired")
	ErrSeatLimitReached    = errors.New("user_limit_reached")
)

// GateCreateProject refuses project creation for expired subscriptions.
func GateCreateProject(p PermissionSet) error {
	if !p.CanCreateProject {
		return ErrSubscriptionExpired
	}
	return nil
}

// GateAddUser refuses seat admission when the subscription is expired or
// the seat limit is reached. The seat check applies at admission time only;
// a later plan downgrade never evicts existing members.
func GateAddUser(p PermissionSet, status SubscriptionStatus) error {
	if p.CanAddUser {
		return nil
	}
	if status == StatusExpired {
		return ErrSubscriptionExpired
	}
	return ErrSeatLimitReached
}

// GateSubscribe never refuses: subscribing is always the recovery path.
// It exists so every mutating flow passes an explicit gate.
func GateSubscribe(p PermissionSet) error {
	if !p.CanSubscribe {
		return ErrSubscriptionExpired
	}
	return nil
}
