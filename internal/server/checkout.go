package server

import (
	"net/http"

	checkoutdomain "github.com/aibuildx/platform/internal/checkout/domain"
	"github.com/aibuildx/platform/internal/policy"
	"github.com/gin-gonic/gin"
)

type CreateOrderRequest struct {
	PlanID string `json:"planId"`
}

type VerifyPaymentRequest struct {
	OrderID   string `json:"razorpay_order_id"`
	PaymentID string `json:"razorpay_payment_id"`
	Signature string `json:"razorpay_signature"`
}

func (s *Server) CreateOrder(c *gin.Context) {
	user, ok := s.currentUser(c)
	if !ok || user.CompanyID == nil {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	planID, err := parseID(req.PlanID)
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	allowed, err := s.limiter.AllowOrder(c.Request.Context(), user.CompanyID.String())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if !allowed {
		s.obsMetrics.RecordRateLimitDenied(c.Request.Context(), "create_order", "bucket_empty")
		AbortWithError(c, ErrRateLimited)
		return
	}

	order, err := s.checkoutSvc.CreateOrder(c.Request.Context(), *user.CompanyID, planID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

func (s *Server) VerifyPayment(c *gin.Context) {
	var req VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	tx, err := s.checkoutSvc.VerifyPayment(c.Request.Context(), checkoutdomain.VerifyRequest{
		OrderID:   req.OrderID,
		PaymentID: req.PaymentID,
		Signature: req.Signature,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, tx)
}

// ListTransactions shows the caller's payment history: the whole platform
// for SuperAdmin, the own company for client roles.
func (s *Server) ListTransactions(c *gin.Context) {
	user, ok := s.currentUser(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	if user.Role == policy.RoleSuperAdmin {
		s.ListAllTransactions(c)
		return
	}
	if user.CompanyID == nil {
		AbortWithError(c, ErrForbidden)
		return
	}

	txs, err := s.checkoutSvc.ListByCompany(c.Request.Context(), *user.CompanyID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": txs})
}

func (s *Server) ListAllTransactions(c *gin.Context) {
	txs, err := s.checkoutSvc.ListAll(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": txs})
}
