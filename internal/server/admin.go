package server

import (
	"net/http"

	authdomain "github.com/aibuildx/platform/internal/auth/domain"
	"github.com/aibuildx/platform/internal/policy"
	"github.com/gin-gonic/gin"
)

type CreateUserRequest struct {
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Name     string      `json:"name"`
	Role     policy.Role `json:"role"`
}

func (s *Server) GetAdminDashboard(c *gin.Context) {
	stats, err := s.dashboardSvc.Stats(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (s *Server) ListAllUsers(c *gin.Context) {
	var users []authdomain.User
	if err := s.db.WithContext(c.Request.Context()).
		Order("created_at ASC").
		Find(&users).Error; err != nil {
		AbortWithError(c, err)
		return
	}

	resp := make([]UserResponse, 0, len(users))
	for i := range users {
		resp = append(resp, toUserResponse(&users[i]))
	}
	c.JSON(http.StatusOK, gin.H{"users": resp})
}

// CreateUser provisions platform staff accounts. Company-bound roles are
// refused here: their seats are admitted only through the company service,
// which holds the seat-limit gate.
func (s *Server) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	if req.Role != policy.RoleSuperAdmin && req.Role != policy.RoleMarketing {
		AbortWithError(c, authdomain.ErrInvalidRole)
		return
	}

	user, err := s.authsvc.CreateUser(c.Request.Context(), authdomain.CreateUserRequest{
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

func (s *Server) DeleteUser(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, ErrNotFound)
		return
	}

	actor, ok := s.currentUser(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}
	if actor.ID == id {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	tx := s.db.WithContext(c.Request.Context()).Where("id = ?", id).Delete(&authdomain.User{})
	if tx.Error != nil {
		AbortWithError(c, tx.Error)
		return
	}
	if tx.RowsAffected == 0 {
		AbortWithError(c, authdomain.ErrUserNotFound)
		return
	}
	c.Status(http.StatusNoContent)
}
