package gateway

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aibuildx/platform/internal/config"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestGateway(baseURL string) *Razorpay {
	return NewRazorpay(zap.NewNop(), config.Config{
		Razorpay: config.RazorpayConfig{
			KeyID:     "rzp_test_key",
			KeySecret: "super-secret",
			BaseURL:   baseURL,
		},
	})
}

func sign(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	g := newTestGateway("https://api.razorpay.com")

	orderID := "order_123"
	paymentID := "pay_456"

	require.NoError(t, g.VerifySignature(orderID, paymentID, sign("super-secret", orderID, paymentID)))

	require.ErrorIs(t, g.VerifySignature(orderID, paymentID, sign("wrong-secret", orderID, paymentID)), ErrInvalidSignature)
	require.ErrorIs(t, g.VerifySignature(orderID, "pay_other", sign("super-secret", orderID, paymentID)), ErrInvalidSignature)
	require.ErrorIs(t, g.VerifySignature(orderID, paymentID, ""), ErrInvalidSignature)
}

func TestCreateOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/orders", r.URL.Path)

		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		require.Equal(t, "rzp_test_key", user)
		require.Equal(t, "super-secret", pass)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"order_123","amount":499900,"currency":"INR","status":"created"}`))
	}))
	defer server.Close()

	g := newTestGateway(server.URL)
	order, err := g.CreateOrder(context.Background(), CreateOrderRequest{Amount: 499900, Currency: "INR", Receipt: "tx_1"})
	require.NoError(t, err)
	require.Equal(t, "order_123", order.ID)
	require.Equal(t, int64(499900), order.Amount)
}

func TestCreateOrderGatewayFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	g := newTestGateway(server.URL)
	_, err := g.CreateOrder(context.Background(), CreateOrderRequest{Amount: 100, Currency: "INR"})
	require.ErrorIs(t, err, ErrGatewayFailure)
}

func TestCreateOrderUnconfigured(t *testing.T) {
	g := NewRazorpay(zap.NewNop(), config.Config{})
	_, err := g.CreateOrder(context.Background(), CreateOrderRequest{Amount: 100, Currency: "INR"})
	require.ErrorIs(t, err, ErrNotConfigured)
}
