package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	authdomain "github.com/aibuildx/platform/internal/auth/domain"
	"github.com/aibuildx/platform/internal/checkout/domain"
	"github.com/aibuildx/platform/internal/checkout/gateway"
	checkoutrepo "github.com/aibuildx/platform/internal/checkout/repository"
	companydomain "github.com/aibuildx/platform/internal/company/domain"
	companyrepo "github.com/aibuildx/platform/internal/company/repository"
	companyservice "github.com/aibuildx/platform/internal/company/service"
	plandomain "github.com/aibuildx/platform/internal/plan/domain"
	planrepo "github.com/aibuildx/platform/internal/plan/repository"
	"github.com/aibuildx/platform/internal/policy"
	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// fakeGateway accepts one hardcoded signature per order.
type fakeGateway struct {
	orders  int
	created []gateway.CreateOrderRequest
	fail    bool
}

func (f *fakeGateway) CreateOrder(ctx context.Context, req gateway.CreateOrderRequest) (*gateway.Order, error) {
	if f.fail {
		return nil, gateway.ErrGatewayFailure
	}
	f.orders++
	f.created = append(f.created, req)
	return &gateway.Order{
		ID:       fmt.Sprintf("order_%d", f.orders),
		Amount:   req.Amount,
		Currency: req.Currency,
	}, nil
}

func (f *fakeGateway) VerifySignature(orderID, paymentID, signature string) error {
	if signature == "valid-signature-for-"+orderID {
		return nil
	}
	return gateway.ErrInvalidSignature
}

func (f *fakeGateway) KeyID() string { return "rzp_test_key" }

type fixture struct {
	db      *gorm.DB
	svc     domain.Service
	gw      *fakeGateway
	company *companydomain.Company
	plan    *plandomain.Plan
}

func setup(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&authdomain.User{},
		&companydomain.Company{},
		&plandomain.Plan{},
		&domain.Transaction{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	plan := &plandomain.Plan{
		ID:             node.Generate(),
		Name:           "Professional",
		Price:          4999,
		Currency:       "INR",
		MaxUsers:       10,
		StorageLimitGB: 100,
		DurationDays:   30,
	}
	require.NoError(t, db.Create(plan).Error)

	companySvc := companyservice.New(zap.NewNop(), db, companyrepo.New(), planrepo.New(db), nil, node)
	company, err := companySvc.Onboard(context.Background(), companydomain.OnboardRequest{
		Name:          "Acme Structures",
		AdminEmail:    "admin@acme.example",
		AdminPassword: "correct-horse",
	})
	require.NoError(t, err)

	gw := &fakeGateway{}
	svc := New(zap.NewNop(), db, checkoutrepo.New(), companyrepo.New(), planrepo.New(db), gw, nil, node)

	return &fixture{db: db, svc: svc, gw: gw, company: company, plan: plan}
}

func (f *fixture) reloadCompany(t *testing.T) *companydomain.Company {
	t.Helper()
	var company companydomain.Company
	require.NoError(t, f.db.Where("id = ?", f.company.ID).First(&company).Error)
	return &company
}

func TestCreateOrderSnapshotsPlan(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	order, err := f.svc.CreateOrder(ctx, f.company.ID, f.plan.ID)
	require.NoError(t, err)
	require.Equal(t, int64(499900), order.Amount) // price in paise
	require.Equal(t, "INR", order.Currency)
	require.Equal(t, "rzp_test_key", order.KeyID)

	var tx domain.Transaction
	require.NoError(t, f.db.Where("order_id = ?", order.OrderID).First(&tx).Error)
	require.Equal(t, domain.TxCreated, tx.Status)
	require.Equal(t, "Professional", tx.PlanSnapshot["name"])

	// Concurrent orders for the same company are allowed.
	_, err = f.svc.CreateOrder(ctx, f.company.ID, f.plan.ID)
	require.NoError(t, err)
}

func TestVerifyPaymentActivatesCompany(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	order, err := f.svc.CreateOrder(ctx, f.company.ID, f.plan.ID)
	require.NoError(t, err)

	tx, err := f.svc.VerifyPayment(ctx, domain.VerifyRequest{
		OrderID:   order.OrderID,
		PaymentID: "pay_1",
		Signature: "valid-signature-for-" + order.OrderID,
	})
	require.NoError(t, err)
	require.Equal(t, domain.TxPaid, tx.Status)
	require.Equal(t, "pay_1", tx.PaymentID)

	company := f.reloadCompany(t)
	require.Equal(t, policy.StatusActive, company.SubscriptionStatus)
	require.Equal(t, 10, company.MaxUsers)
	require.Equal(t, 100, company.StorageLimitGB)
	require.NotNil(t, company.SubscriptionTier)
	require.Equal(t, "Professional", *company.SubscriptionTier)
	require.NotNil(t, company.SubscriptionExpiryDate)
	require.True(t, company.SubscriptionExpiryDate.After(time.Now().AddDate(0, 0, 29)))

	// Paid is terminal.
	_, err = f.svc.VerifyPayment(ctx, domain.VerifyRequest{
		OrderID:   order.OrderID,
		PaymentID: "pay_2",
		Signature: "valid-signature-for-" + order.OrderID,
	})
	require.ErrorIs(t, err, domain.ErrOrderNotVerifiable)
}

func TestVerifyPaymentUsesSnapshotNotLivePlan(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	order, err := f.svc.CreateOrder(ctx, f.company.ID, f.plan.ID)
	require.NoError(t, err)

	// The plan is edited between order and verification. What was bought
	// is what activates.
	require.NoError(t, f.db.Model(&plandomain.Plan{}).
		Where("id = ?", f.plan.ID).
		Updates(map[string]any{"max_users": 99, "storage_limit_gb": 999}).Error)

	_, err = f.svc.VerifyPayment(ctx, domain.VerifyRequest{
		OrderID:   order.OrderID,
		PaymentID: "pay_1",
		Signature: "valid-signature-for-" + order.OrderID,
	})
	require.NoError(t, err)

	company := f.reloadCompany(t)
	require.Equal(t, 10, company.MaxUsers)
	require.Equal(t, 100, company.StorageLimitGB)
}

func TestVerifyPaymentRejectsBadSignature(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	order, err := f.svc.CreateOrder(ctx, f.company.ID, f.plan.ID)
	require.NoError(t, err)

	_, err = f.svc.VerifyPayment(ctx, domain.VerifyRequest{
		OrderID:   order.OrderID,
		PaymentID: "pay_1",
		Signature: "forged",
	})
	require.ErrorIs(t, err, domain.ErrPaymentVerificationFailed)

	var tx domain.Transaction
	require.NoError(t, f.db.Where("order_id = ?", order.OrderID).First(&tx).Error)
	require.Equal(t, domain.TxFailed, tx.Status)

	// The company stays untouched.
	company := f.reloadCompany(t)
	require.Equal(t, policy.StatusExpired, company.SubscriptionStatus)
	require.Equal(t, 1, company.MaxUsers)

	// Failed is terminal: even the right signature cannot revive the order.
	_, err = f.svc.VerifyPayment(ctx, domain.VerifyRequest{
		OrderID:   order.OrderID,
		PaymentID: "pay_1",
		Signature: "valid-signature-for-" + order.OrderID,
	})
	require.ErrorIs(t, err, domain.ErrOrderNotVerifiable)
}

func TestVerifyPaymentUnknownOrder(t *testing.T) {
	f := setup(t)

	_, err := f.svc.VerifyPayment(context.Background(), domain.VerifyRequest{
		OrderID:   "order_unknown",
		PaymentID: "pay_1",
		Signature: "anything",
	})
	require.ErrorIs(t, err, domain.ErrTransactionNotFound)
}

func TestExpireStaleOrders(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	order, err := f.svc.CreateOrder(ctx, f.company.ID, f.plan.ID)
	require.NoError(t, err)

	// Age the order beyond the TTL.
	require.NoError(t, f.db.Model(&domain.Transaction{}).
		Where("order_id = ?", order.OrderID).
		Update("created_at", time.Now().UTC().Add(-48*time.Hour)).Error)

	fresh, err := f.svc.CreateOrder(ctx, f.company.ID, f.plan.ID)
	require.NoError(t, err)

	swept, err := f.svc.ExpireStale(ctx, 24*time.Hour)
	require.NoError(t, err)
	require.Equal(t, int64(1), swept)

	var tx domain.Transaction
	require.NoError(t, f.db.Where("order_id = ?", order.OrderID).First(&tx).Error)
	require.Equal(t, domain.TxExpired, tx.Status)

	// Expired orders can never be verified.
	_, err = f.svc.VerifyPayment(ctx, domain.VerifyRequest{
		OrderID:   order.OrderID,
		PaymentID: "pay_1",
		Signature: "valid-signature-for-" + order.OrderID,
	})
	require.ErrorIs(t, err, domain.ErrOrderNotVerifiable)

	// The fresh order is unaffected.
	var freshTx domain.Transaction
	require.NoError(t, f.db.Where("order_id = ?", fresh.OrderID).First(&freshTx).Error)
	require.Equal(t, domain.TxCreated, freshTx.Status)
}

func TestCreateOrderGatewayFailure(t *testing.T) {
	f := setup(t)
	f.gw.fail = true

	_, err := f.svc.CreateOrder(context.Background(), f.company.ID, f.plan.ID)
	require.ErrorIs(t, err, gateway.ErrGatewayFailure)

	var count int64
	require.NoError(t, f.db.Model(&domain.Transaction{}).Count(&count).Error)
	require.Zero(t, count)
}
