package service

import (
	"context"
	"net/mail"
	"strings"
	"time"

	authdomain "github.com/aibuildx/platform/internal/auth/domain"
	authservice "github.com/aibuildx/platform/internal/auth/service"
	"github.com/aibuildx/platform/internal/company/domain"
	"github.com/aibuildx/platform/internal/observability/metrics"
	plandomain "github.com/aibuildx/platform/internal/plan/domain"
	"github.com/aibuildx/platform/internal/policy"
	pkgdb "github.com/aibuildx/platform/pkg/db"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	log      *zap.Logger
	db       *gorm.DB
	repo     domain.Repository
	planRepo plandomain.Repository
	metrics  *metrics.Metrics
	genID    *snowflake.Node
}

func New(log *zap.Logger, db *gorm.DB, repo domain.Repository, planRepo plandomain.Repository, m *metrics.Metrics, genID *snowflake.Node) domain.Service {
	return &Service{
		log:      log.Named("company.service"),
		db:       db,
		repo:     repo,
		planRepo: planRepo,
		metrics:  m,
		genID:    genID,
	}
}

// Onboard registers a company together with its first ClientAdmin. With a
// plan the subscription activates immediately for the plan's duration;
// without one the company starts Expired with a single seat.
func (s *Service) Onboard(ctx context.Context, req domain.OnboardRequest) (*domain.Company, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidCompany
	}
	adminEmail, err := normalizeEmail(req.AdminEmail)
	if err != nil {
		return nil, authdomain.ErrInvalidCredentials
	}
	if len(strings.TrimSpace(req.AdminPassword)) < 8 {
		return nil, authdomain.ErrInvalidCredentials
	}

	company := &domain.Company{
		ID:                 s.genID.Generate(),
		Name:               name,
		ContactEmail:       strings.TrimSpace(req.ContactEmail),
		SubscriptionStatus: policy.StatusExpired,
		MaxUsers:           1,
		StorageLimitGB:     10,
	}

	if req.PlanID != nil {
		plan, err := s.planRepo.FindByID(ctx, *req.PlanID)
		if err != nil {
			return nil, err
		}
		expiry := time.Now().UTC().AddDate(0, 0, plan.DurationDays)
		tier := plan.Name
		company.SubscriptionTier = &tier
		company.SubscriptionStatus = policy.StatusActive
		company.MaxUsers = plan.MaxUsers
		company.StorageLimitGB = plan.StorageLimitGB
		company.SubscriptionExpiryDate = &expiry
	}

	hashed, err := authservice.HashPassword(req.AdminPassword)
	if err != nil {
		return nil, err
	}

	adminName := strings.TrimSpace(req.AdminName)
	if adminName == "" {
		adminName = name + " Admin"
	}
	companyID := company.ID
	admin := &authdomain.User{
		ID:           s.genID.Generate(),
		Email:        adminEmail,
		PasswordHash: hashed,
		Name:         adminName,
		Role:         policy.RoleClientAdmin,
		CompanyID:    &companyID,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Create(ctx, tx, company); err != nil {
			return err
		}
		if err := tx.Create(admin).Error; err != nil {
			if pkgdb.IsDuplicateKeyErr(err) {
				return authdomain.ErrUserExists
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("company onboarded",
		zap.String("company_id", company.ID.String()),
		zap.String("status", string(company.SubscriptionStatus)),
	)
	return company, nil
}

func (s *Service) Get(ctx context.Context, id snowflake.ID) (*domain.Company, error) {
	return s.repo.FindByID(ctx, s.db, id)
}

func (s *Service) List(ctx context.Context) ([]domain.Company, error) {
	return s.repo.List(ctx, s.db)
}

// Permissions evaluates the action set from the company's live state. It is
// recomputed on every call; nothing is cached across mutations.
func (s *Service) Permissions(ctx context.Context, id snowflake.ID) (policy.PermissionSet, error) {
	company, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return policy.PermissionSet{}, err
	}

	count, err := s.countUsers(ctx, s.db, id)
	if err != nil {
		return policy.PermissionSet{}, err
	}

	return policy.Evaluate(company.State(), int(count)), nil
}

// AddUser admits a member under the seat limit. The company row is locked
// for the check-then-insert so concurrent admissions cannot oversubscribe.
// Existing members are never evicted by a later downgrade; the limit applies
// at admission time only.
func (s *Service) AddUser(ctx context.Context, companyID snowflake.ID, req domain.AddUserRequest) (*authdomain.User, error) {
	if !req.Role.Valid() || !req.Role.CompanyBound() {
		return nil, authdomain.ErrInvalidRole
	}
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, authdomain.ErrInvalidCredentials
	}
	if len(strings.TrimSpace(req.Password)) < 8 {
		return nil, authdomain.ErrInvalidCredentials
	}

	hashed, err := authservice.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &authdomain.User{
		ID:           s.genID.Generate(),
		Email:        email,
		PasswordHash: hashed,
		Name:         strings.TrimSpace(req.Name),
		Role:         req.Role,
		CompanyID:    &companyID,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		company, err := s.repo.FindByIDForUpdate(ctx, tx, companyID)
		if err != nil {
			return err
		}

		count, err := s.countUsers(ctx, tx, companyID)
		if err != nil {
			return err
		}

		perms := policy.Evaluate(company.State(), int(count))
		if err := policy.GateAddUser(perms, company.SubscriptionStatus); err != nil {
			s.metrics.RecordGateDenial(ctx, "add_user", err.Error())
			return err
		}

		if err := tx.Create(user).Error; err != nil {
			if pkgdb.IsDuplicateKeyErr(err) {
				return authdomain.ErrUserExists
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("user admitted",
		zap.String("company_id", companyID.String()),
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)),
	)
	return user, nil
}

func (s *Service) ListUsers(ctx context.Context, companyID snowflake.ID) ([]authdomain.User, error) {
	if _, err := s.repo.FindByID(ctx, s.db, companyID); err != nil {
		return nil, err
	}

	var users []authdomain.User
	err := s.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("created_at ASC").
		Find(&users).Error
	return users, err
}

func (s *Service) countUsers(ctx context.Context, db *gorm.DB, companyID snowflake.ID) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Model(&authdomain.User{}).Where("company_id = ?", companyID).Count(&count).Error
	return count, err
}

func normalizeEmail(raw string) (string, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(raw))
	if err != nil {
		return "", err
	}
	return strings.ToLower(strings.TrimSpace(addr.Address)), nil
}
