package gateway

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/aibuildx/platform/internal/config"
	"go.uber.org/zap"
)

// Razorpay talks to the Razorpay Orders REST API and verifies checkout
// signatures with the shared key secret.
type Razorpay struct {
	log       *zap.Logger
	keyID     string
	keySecret string
	baseURL   string
	client    *http.Client
}

func NewRazorpay(log *zap.Logger, cfg config.Config) *Razorpay {
	return &Razorpay{
		log:       log.Named("gateway.razorpay"),
		keyID:     cfg.Razorpay.KeyID,
		keySecret: cfg.Razorpay.KeySecret,
		baseURL:   strings.TrimRight(cfg.Razorpay.BaseURL, "/"),
		client:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (g *Razorpay) KeyID() string {
	return g.keyID
}

type razorpayOrderRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt,omitempty"`
}

type razorpayOrderResponse struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
}

func (g *Razorpay) CreateOrder(ctx context.Context, req CreateOrderRequest) (*Order, error) {
	if g.keyID == "" || g.keySecret == "" {
		return nil, ErrNotConfigured
	}

	body, err := json.Marshal(razorpayOrderRequest{
		Amount:   req.Amount,
		Currency: req.Currency,
		Receipt:  req.Receipt,
	})
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/v1/orders", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.SetBasicAuth(g.keyID, g.keySecret)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(httpReq)
	if err != nil {
		g.log.Warn("order request failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrGatewayFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		g.log.Warn("order request rejected", zap.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("%w: status %d", ErrGatewayFailure, resp.StatusCode)
	}

	var parsed razorpayOrderResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrGatewayFailure, err)
	}
	if strings.TrimSpace(parsed.ID) == "" {
		return nil, fmt.Errorf("%w: empty order id", ErrGatewayFailure)
	}

	return &Order{
		ID:       parsed.ID,
		Amount:   parsed.Amount,
		Currency: parsed.Currency,
	}, nil
}

// VerifySignature checks the checkout callback signature:
// HMAC-SHA256(orderID + "|" + paymentID, keySecret) in hex.
func (g *Razorpay) VerifySignature(orderID, paymentID, signature string) error {
	if g.keySecret == "" {
		return ErrNotConfigured
	}
	if strings.TrimSpace(orderID) == "" || strings.TrimSpace(paymentID) == "" || strings.TrimSpace(signature) == "" {
		return ErrInvalidSignature
	}

	mac := hmac.New(sha256.New, []byte(g.keySecret))
	_, _ = mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(strings.TrimSpace(signature)), []byte(expected)) {
		return ErrInvalidSignature
	}
	return nil
}

var _ Gateway = (*Razorpay)(nil)
