// Package gateway abstracts the payment provider used for checkout.
package gateway

import (
	"context"
	"errors"
)

var (
	ErrInvalidSignature = errors.New("invalid payment signature")
	ErrGatewayFailure   = errors.New("payment gateway failure")
	ErrNotConfigured    = errors.New("payment gateway not configured")
)

// CreateOrderRequest asks the provider for a new order. Amount is in minor
// units (paise).
type CreateOrderRequest struct {
	Amount   int64
	Currency string
	Receipt  string
}

// Order is the provider's view of a created order.
type Order struct {
	ID       string
	Amount   int64
	Currency string
}

type Gateway interface {
	CreateOrder(ctx context.Context, req CreateOrderRequest) (*Order, error)
	VerifySignature(orderID, paymentID, signature string) error
	KeyID() string
}
