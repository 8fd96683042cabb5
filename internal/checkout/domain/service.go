package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	CreateOrder(ctx context.Context, companyID, planID snowflake.ID) (*OrderResponse, error)
	VerifyPayment(ctx context.Context, req VerifyRequest) (*Transaction, error)
	ListByCompany(ctx context.Context, companyID snowflake.ID) ([]Transaction, error)
	ListAll(ctx context.Context) ([]Transaction, error)
	ExpireStale(ctx context.Context, olderThan time.Duration) (int64, error)
}

// OrderResponse is what the browser needs to open the gateway's checkout
// widget. Amount is in minor units (paise).
type OrderResponse struct {
	OrderID  string `json:"orderId"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	KeyID    string `json:"keyId"`
}

type VerifyRequest struct {
	OrderID   string
	PaymentID string
	Signature string
}
