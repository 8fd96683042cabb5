package service

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/aibuildx/platform/internal/checkout/domain"
	"github.com/aibuildx/platform/internal/checkout/gateway"
	companydomain "github.com/aibuildx/platform/internal/company/domain"
	"github.com/aibuildx/platform/internal/observability/metrics"
	plandomain "github.com/aibuildx/platform/internal/plan/domain"
	"github.com/aibuildx/platform/internal/policy"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const defaultActivationDays = 30

type Service struct {
	log         *zap.Logger
	db          *gorm.DB
	repo        domain.Repository
	companyRepo companydomain.Repository
	planRepo    plandomain.Repository
	gateway     gateway.Gateway
	metrics     *metrics.Metrics
	genID       *snowflake.Node
}

func New(
	log *zap.Logger,
	db *gorm.DB,
	repo domain.Repository,
	companyRepo companydomain.Repository,
	planRepo plandomain.Repository,
	gw gateway.Gateway,
	m *metrics.Metrics,
	genID *snowflake.Node,
) domain.Service {
	return &Service{
		log:         log.Named("checkout.service"),
		db:          db,
		repo:        repo,
		companyRepo: companyRepo,
		planRepo:    planRepo,
		gateway:     gw,
		metrics:     m,
		genID:       genID,
	}
}

// CreateOrder opens a checkout attempt. The plan's terms are snapshotted
// onto the transaction; concurrent orders for one company are allowed and
// resolve at verification time.
func (s *Service) CreateOrder(ctx context.Context, companyID, planID snowflake.ID) (*domain.OrderResponse, error) {
	company, err := s.companyRepo.FindByID(ctx, s.db, companyID)
	if err != nil {
		return nil, err
	}

	// Subscribing is always permitted; the gate still runs so every
	// mutating flow goes through one.
	perms := policy.Evaluate(company.State(), 0)
	if err := policy.GateSubscribe(perms); err != nil {
		return nil, err
	}

	plan, err := s.planRepo.FindByID(ctx, planID)
	if err != nil {
		return nil, err
	}

	amount := int64(math.Round(plan.Price * 100))
	id := s.genID.Generate()

	order, err := s.gateway.CreateOrder(ctx, gateway.CreateOrderRequest{
		Amount:   amount,
		Currency: plan.Currency,
		Receipt:  id.String(),
	})
	if err != nil {
		s.metrics.RecordPaymentEvent(ctx, "razorpay", "order_failed")
		return nil, err
	}

	tx := &domain.Transaction{
		ID:        id,
		CompanyID: companyID,
		PlanID:    &plan.ID,
		OrderID:   order.ID,
		Amount:    amount,
		Currency:  plan.Currency,
		Status:    domain.TxCreated,
		PlanSnapshot: datatypes.JSONMap{
			"planId":       plan.ID.String(),
			"name":         plan.Name,
			"price":        plan.Price,
			"currency":     plan.Currency,
			"maxUsers":     plan.MaxUsers,
			"storageLimit": plan.StorageLimitGB,
			"durationDays": plan.DurationDays,
		},
	}
	if err := s.repo.Create(ctx, s.db, tx); err != nil {
		return nil, err
	}

	s.metrics.RecordPaymentEvent(ctx, "razorpay", "order_created")
	s.log.Info("checkout order created",
		zap.String("company_id", companyID.String()),
		zap.String("order_id", order.ID),
		zap.Int64("amount", amount),
	)

	return &domain.OrderResponse{
		OrderID:  order.ID,
		Amount:   amount,
		Currency: plan.Currency,
		KeyID:    s.gateway.KeyID(),
	}, nil
}

// VerifyPayment settles a checkout attempt. Client-reported success is never
// trusted: the signature must verify server-side before anything activates.
// Activation and the Paid transition commit in one database transaction.
func (s *Service) VerifyPayment(ctx context.Context, req domain.VerifyRequest) (*domain.Transaction, error) {
	orderID := strings.TrimSpace(req.OrderID)
	tx, err := s.repo.FindByOrderID(ctx, s.db, orderID)
	if err != nil {
		return nil, err
	}
	if tx.Status != domain.TxCreated {
		return nil, domain.ErrOrderNotVerifiable
	}

	if err := s.gateway.VerifySignature(orderID, req.PaymentID, req.Signature); err != nil {
		if !errors.Is(err, gateway.ErrInvalidSignature) {
			return nil, err
		}
		s.markFailed(ctx, tx.ID, req)
		s.metrics.RecordPaymentEvent(ctx, "razorpay", "verification_failed")
		s.log.Warn("payment signature rejected",
			zap.String("order_id", orderID),
			zap.String("company_id", tx.CompanyID.String()),
		)
		return nil, domain.ErrPaymentVerificationFailed
	}

	now := time.Now().UTC()
	err = s.db.WithContext(ctx).Transaction(func(dbtx *gorm.DB) error {
		locked, err := s.repo.FindByOrderIDForUpdate(ctx, dbtx, orderID)
		if err != nil {
			return err
		}
		if locked.Status != domain.TxCreated {
			return domain.ErrOrderNotVerifiable
		}

		if err := s.repo.UpdateFields(ctx, dbtx, locked.ID, map[string]any{
			"status":     domain.TxPaid,
			"payment_id": strings.TrimSpace(req.PaymentID),
			"signature":  strings.TrimSpace(req.Signature),
			"updated_at": now,
		}); err != nil {
			return err
		}

		return s.activateFromSnapshot(ctx, dbtx, locked, now)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordPaymentEvent(ctx, "razorpay", "payment_verified")
	s.log.Info("payment verified, subscription activated",
		zap.String("order_id", orderID),
		zap.String("company_id", tx.CompanyID.String()),
	)
	return s.repo.FindByOrderID(ctx, s.db, orderID)
}

func (s *Service) ListByCompany(ctx context.Context, companyID snowflake.ID) ([]domain.Transaction, error) {
	return s.repo.ListByCompany(ctx, s.db, companyID)
}

func (s *Service) ListAll(ctx context.Context) ([]domain.Transaction, error) {
	return s.repo.ListAll(ctx, s.db)
}

// ExpireStale resolves orphaned orders: Created transactions older than the
// TTL can never be verified, only re-attempted with a fresh order.
func (s *Service) ExpireStale(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-olderThan)
	swept, err := s.repo.ExpireCreatedBefore(ctx, s.db, cutoff)
	if err != nil {
		return 0, err
	}
	if swept > 0 {
		s.log.Info("expired stale checkout orders", zap.Int64("count", swept))
	}
	return swept, nil
}

// markFailed records the rejected attempt. Best effort: the order stays
// Created if a concurrent verify already settled it.
func (s *Service) markFailed(ctx context.Context, id snowflake.ID, req domain.VerifyRequest) {
	err := s.db.WithContext(ctx).Model(&domain.Transaction{}).
		Where("id = ? AND status = ?", id, domain.TxCreated).
		Updates(map[string]any{
			"status":     domain.TxFailed,
			"payment_id": strings.TrimSpace(req.PaymentID),
			"updated_at": time.Now().UTC(),
		}).Error
	if err != nil {
		s.log.Warn("could not mark transaction failed", zap.Error(err))
	}
}

func (s *Service) activateFromSnapshot(ctx context.Context, db *gorm.DB, tx *domain.Transaction, now time.Time) error {
	snapshot := tx.PlanSnapshot
	duration := snapshotInt(snapshot, "durationDays", defaultActivationDays)
	maxUsers := snapshotInt(snapshot, "maxUsers", 1)
	storage := snapshotInt(snapshot, "storageLimit", 10)
	tier, _ := snapshot["name"].(string)

	expiry := now.AddDate(0, 0, duration)
	fields := map[string]any{
		"subscription_status":      policy.StatusActive,
		"max_users":                maxUsers,
		"storage_limit_gb":         storage,
		"subscription_expiry_date": expiry,
		"updated_at":               now,
	}
	if tier != "" {
		fields["subscription_tier"] = tier
	}
	return s.companyRepo.UpdateFields(ctx, db, tx.CompanyID, fields)
}

// snapshotInt reads a numeric snapshot field. JSON round-trips numbers as
// float64.
func snapshotInt(m datatypes.JSONMap, key string, def int) int {
	switch v := m[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case int64:
		return int(v)
	default:
		return def
	}
}
