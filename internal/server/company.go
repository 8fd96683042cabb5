package server

import (
	"net/http"
	"strings"

	companydomain "github.com/aibuildx/platform/internal/company/domain"
	"github.com/aibuildx/platform/internal/policy"
	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
)

type OnboardCompanyRequest struct {
	Name          string  `json:"name"`
	ContactEmail  string  `json:"contactEmail"`
	AdminEmail    string  `json:"adminEmail"`
	AdminPassword string  `json:"adminPassword"`
	AdminName     string  `json:"adminName"`
	PlanID        *string `json:"planId"`
}

type AddCompanyUserRequest struct {
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Name     string      `json:"name"`
	Role     policy.Role `json:"role"`
}

func (s *Server) OnboardCompany(c *gin.Context) {
	var req OnboardCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	var planID *snowflake.ID
	if req.PlanID != nil && strings.TrimSpace(*req.PlanID) != "" {
		id, err := parseID(*req.PlanID)
		if err != nil {
			AbortWithError(c, ErrInvalidRequest)
			return
		}
		planID = &id
	}

	company, err := s.companySvc.Onboard(c.Request.Context(), companydomain.OnboardRequest{
		Name:          req.Name,
		ContactEmail:  req.ContactEmail,
		AdminEmail:    req.AdminEmail,
		AdminPassword: req.AdminPassword,
		AdminName:     req.AdminName,
		PlanID:        planID,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, company)
}

func (s *Server) ListCompanies(c *gin.Context) {
	companies, err := s.companySvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"companies": companies})
}

func (s *Server) GetCompany(c *gin.Context) {
	companyID, ok := s.pathCompanyID(c)
	if !ok {
		AbortWithError(c, ErrNotFound)
		return
	}

	company, err := s.companySvc.Get(c.Request.Context(), companyID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, company)
}

// GetCompanyPermissions evaluates the action gates against live company
// state. Clients call it after every mutation instead of caching.
func (s *Server) GetCompanyPermissions(c *gin.Context) {
	companyID, ok := s.pathCompanyID(c)
	if !ok {
		AbortWithError(c, ErrNotFound)
		return
	}

	perms, err := s.companySvc.Permissions(c.Request.Context(), companyID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, perms)
}

func (s *Server) ListCompanyUsers(c *gin.Context) {
	companyID, ok := s.pathCompanyID(c)
	if !ok {
		AbortWithError(c, ErrNotFound)
		return
	}

	users, err := s.companySvc.ListUsers(c.Request.Context(), companyID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp := make([]UserResponse, 0, len(users))
	for i := range users {
		resp = append(resp, toUserResponse(&users[i]))
	}
	c.JSON(http.StatusOK, gin.H{"users": resp})
}

func (s *Server) AddCompanyUser(c *gin.Context) {
	companyID, ok := s.pathCompanyID(c)
	if !ok {
		AbortWithError(c, ErrNotFound)
		return
	}

	var req AddCompanyUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	user, err := s.companySvc.AddUser(c.Request.Context(), companyID, companydomain.AddUserRequest{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Role:     req.Role,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toUserResponse(user))
}

func (s *Server) ListCompanyTransactions(c *gin.Context) {
	companyID, ok := s.pathCompanyID(c)
	if !ok {
		AbortWithError(c, ErrNotFound)
		return
	}

	txs, err := s.checkoutSvc.ListByCompany(c.Request.Context(), companyID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": txs})
}
