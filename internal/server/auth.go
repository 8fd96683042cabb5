package server

import (
	"net/http"
	"strings"

	authdomain "github.com/aibuildx/platform/internal/auth/domain"
	"github.com/aibuildx/platform/internal/policy"
	"github.com/gin-gonic/gin"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

// UserResponse is the safe projection of an account. Dashboard tells the
// frontend which variant to render for the role.
type UserResponse struct {
	ID        string           `json:"id"`
	Email     string           `json:"email"`
	Name      string           `json:"name"`
	Role      policy.Role      `json:"role"`
	CompanyID *string          `json:"companyId,omitempty"`
	Dashboard policy.Dashboard `json:"dashboard"`
}

func toUserResponse(u *authdomain.User) UserResponse {
	resp := UserResponse{
		ID:    u.ID.String(),
		Email: u.Email,
		Name:  u.Name,
		Role:  u.Role,
	}
	if u.CompanyID != nil {
		companyID := u.CompanyID.String()
		resp.CompanyID = &companyID
	}
	// Route is total; an unroutable role means the account must not reach
	// any dashboard and the frontend treats it as a failed login.
	if dashboard, ok := policy.Route(u.Role); ok {
		resp.Dashboard = dashboard
	}
	return resp
}

func (s *Server) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	email := strings.TrimSpace(req.Email)
	allowed, err := s.limiter.AllowLogin(c.Request.Context(), email, c.ClientIP())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if !allowed {
		s.obsMetrics.RecordLogin(c.Request.Context(), "rate_limited")
		AbortWithError(c, ErrRateLimited)
		return
	}

	result, err := s.authsvc.Login(c.Request.Context(), authdomain.LoginRequest{
		Email:     email,
		Password:  req.Password,
		UserAgent: c.Request.UserAgent(),
		IPAddress: c.ClientIP(),
	})
	if err != nil {
		s.obsMetrics.RecordLogin(c.Request.Context(), "failure")
		AbortWithError(c, err)
		return
	}

	s.sessions.Set(c, result.RawToken, result.ExpiresAt)
	s.obsMetrics.RecordLogin(c.Request.Context(), "success")

	c.JSON(http.StatusOK, gin.H{
		"user":      toUserResponse(result.User),
		"expiresAt": result.ExpiresAt,
	})
}

func (s *Server) Logout(c *gin.Context) {
	token, ok := s.sessions.ReadToken(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	if err := s.authsvc.Logout(c.Request.Context(), token); err != nil {
		AbortWithError(c, err)
		return
	}

	s.sessions.Clear(c)
	c.Status(http.StatusNoContent)
}

func (s *Server) Me(c *gin.Context) {
	user, ok := s.currentUser(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user))
}

func (s *Server) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	token, err := s.authsvc.ForgotPassword(c.Request.Context(), req.Email)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	// The response never reveals whether the account exists. Outside
	// production the token is returned directly since no mailer is wired.
	resp := gin.H{"message": "if the account exists, a reset link has been sent"}
	if s.cfg.Environment != "production" && token != "" {
		resp["resetToken"] = token
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	if err := s.authsvc.ResetPassword(c.Request.Context(), req.Token, req.NewPassword); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
