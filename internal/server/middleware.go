package server

import (
	"strings"

	authdomain "github.com/aibuildx/platform/internal/auth/domain"
	obscontext "github.com/aibuildx/platform/internal/observability/context"
	"github.com/aibuildx/platform/internal/policy"
	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
)

const contextUserKey = "auth_user"

// AuthRequired authenticates the session token and loads the account into
// the request context. Every protected route sits behind it.
func (s *Server) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := s.sessions.ReadToken(c)
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		sess, err := s.authsvc.Authenticate(c.Request.Context(), token)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		user, err := s.authsvc.GetUser(c.Request.Context(), sess.UserID)
		if err != nil {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		ctx := obscontext.WithActor(c.Request.Context(), string(user.Role), user.ID.String())
		if user.CompanyID != nil {
			ctx = obscontext.WithCompanyID(ctx, user.CompanyID.String())
		}
		c.Request = c.Request.WithContext(ctx)

		c.Set(contextUserKey, user)
		c.Next()
	}
}

// RequireRole gates a route group to an allowlist of roles.
func (s *Server) RequireRole(roles ...policy.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := s.currentUser(c)
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		for _, role := range roles {
			if user.Role == role {
				c.Next()
				return
			}
		}
		AbortWithError(c, ErrForbidden)
	}
}

// CompanyAccess scopes /companies/:id routes to their tenant. SuperAdmin
// reaches any company; company-bound users only their own, optionally
// restricted to the given roles. Marketing gets read access when no role
// restriction applies.
func (s *Server) CompanyAccess(roles ...policy.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := s.currentUser(c)
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		companyID, err := parseID(c.Param("id"))
		if err != nil {
			AbortWithError(c, ErrNotFound)
			return
		}
		c.Set("company_id", companyID)

		switch {
		case user.Role == policy.RoleSuperAdmin:
			c.Next()
			return
		case user.Role == policy.RoleMarketing && len(roles) == 0:
			c.Next()
			return
		case user.Role.CompanyBound():
			if user.CompanyID == nil || *user.CompanyID != companyID {
				AbortWithError(c, ErrForbidden)
				return
			}
			if len(roles) > 0 {
				for _, role := range roles {
					if user.Role == role {
						c.Next()
						return
					}
				}
				AbortWithError(c, ErrForbidden)
				return
			}
			c.Next()
			return
		default:
			AbortWithError(c, ErrForbidden)
		}
	}
}

func (s *Server) currentUser(c *gin.Context) (*authdomain.User, bool) {
	value, ok := c.Get(contextUserKey)
	if !ok {
		return nil, false
	}
	user, ok := value.(*authdomain.User)
	return user, ok && user != nil
}

func (s *Server) pathCompanyID(c *gin.Context) (snowflake.ID, bool) {
	value, ok := c.Get("company_id")
	if !ok {
		return 0, false
	}
	id, ok := value.(snowflake.ID)
	return id, ok
}

func parseID(raw string) (snowflake.ID, error) {
	return snowflake.ParseString(strings.TrimSpace(raw))
}
