package service

import (
	"context"
	"strings"
	"time"

	"github.com/aibuildx/platform/internal/plan/domain"
	"github.com/aibuildx/platform/pkg/db"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

const defaultDurationDays = 30

type Service struct {
	log   *zap.Logger
	repo  domain.Repository
	genID *snowflake.Node
}

func New(log *zap.Logger, repo domain.Repository, genID *snowflake.Node) domain.Service {
	return &Service{
		log:   log.Named("plan.service"),
		repo:  repo,
		genID: genID,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Plan, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" || req.Price < 0 || req.MaxUsers <= 0 || req.StorageLimitGB <= 0 {
		return nil, domain.ErrInvalidPlan
	}

	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = "INR"
	}
	duration := req.DurationDays
	if duration <= 0 {
		duration = defaultDurationDays
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	plan := &domain.Plan{
		ID:             s.genID.Generate(),
		Name:           name,
		Description:    strings.TrimSpace(req.Description),
		Price:          req.Price,
		Currency:       currency,
		MaxUsers:       req.MaxUsers,
		StorageLimitGB: req.StorageLimitGB,
		DurationDays:   duration,
		Features:       datatypes.NewJSONSlice(req.Features),
		IsActive:       active,
	}

	if err := s.repo.Create(ctx, plan); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrPlanExists
		}
		return nil, err
	}

	s.log.Info("plan created", zap.String("plan_id", plan.ID.String()), zap.String("name", plan.Name))
	return plan, nil
}

func (s *Service) Get(ctx context.Context, id snowflake.ID) (*domain.Plan, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]domain.Plan, error) {
	return s.repo.List(ctx)
}

func (s *Service) ListActive(ctx context.Context) ([]domain.Plan, error) {
	return s.repo.ListActive(ctx)
}

func (s *Service) Update(ctx context.Context, id snowflake.ID, req domain.UpdateRequest) (*domain.Plan, error) {
	plan, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil && strings.TrimSpace(*req.Name) != plan.Name {
		return nil, domain.ErrNameImmutable
	}

	fields := map[string]any{}
	if req.Description != nil {
		fields["description"] = strings.TrimSpace(*req.Description)
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return nil, domain.ErrInvalidPlan
		}
		fields["price"] = *req.Price
	}
	if req.Currency != nil {
		currency := strings.ToUpper(strings.TrimSpace(*req.Currency))
		if currency == "" {
			return nil, domain.ErrInvalidPlan
		}
		fields["currency"] = currency
	}
	if req.MaxUsers != nil {
		if *req.MaxUsers <= 0 {
			return nil, domain.ErrInvalidPlan
		}
		fields["max_users"] = *req.MaxUsers
	}
	if req.StorageLimitGB != nil {
		if *req.StorageLimitGB <= 0 {
			return nil, domain.ErrInvalidPlan
		}
		fields["storage_limit_gb"] = *req.StorageLimitGB
	}
	if req.DurationDays != nil {
		if *req.DurationDays <= 0 {
			return nil, domain.ErrInvalidPlan
		}
		fields["duration_days"] = *req.DurationDays
	}
	if req.Features != nil {
		fields["features"] = datatypes.NewJSONSlice(*req.Features)
	}
	if req.IsActive != nil {
		fields["is_active"] = *req.IsActive
	}

	if len(fields) == 0 {
		return plan, nil
	}
	fields["updated_at"] = time.Now().UTC()

	if err := s.repo.UpdateFields(ctx, id, fields); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id snowflake.ID) error {
	return s.repo.Delete(ctx, id)
}
