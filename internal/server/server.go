package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aibuildx/platform/internal/auth"
	authdomain "github.com/aibuildx/platform/internal/auth/domain"
	"github.com/aibuildx/platform/internal/auth/session"
	"github.com/aibuildx/platform/internal/checkout"
	checkoutdomain "github.com/aibuildx/platform/internal/checkout/domain"
	"github.com/aibuildx/platform/internal/company"
	companydomain "github.com/aibuildx/platform/internal/company/domain"
	"github.com/aibuildx/platform/internal/config"
	"github.com/aibuildx/platform/internal/dashboard"
	"github.com/aibuildx/platform/internal/observability"
	obsmiddleware "github.com/aibuildx/platform/internal/observability/logger"
	obsmetrics "github.com/aibuildx/platform/internal/observability/metrics"
	"github.com/aibuildx/platform/internal/plan"
	plandomain "github.com/aibuildx/platform/internal/plan/domain"
	"github.com/aibuildx/platform/internal/policy"
	"github.com/aibuildx/platform/internal/project"
	projectdomain "github.com/aibuildx/platform/internal/project/domain"
	"github.com/aibuildx/platform/internal/ratelimit"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	auth.Module,
	company.Module,
	plan.Module,
	project.Module,
	checkout.Module,
	dashboard.Module,
	ratelimit.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config) *gin.Engine {
	return NewEngine(obsCfg)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine       *gin.Engine
	cfg          config.Config
	db           *gorm.DB
	authsvc      authdomain.Service
	sessions     *session.Manager
	genID        *snowflake.Node
	companySvc   companydomain.Service
	planSvc      plandomain.Service
	projectSvc   projectdomain.Service
	checkoutSvc  checkoutdomain.Service
	dashboardSvc *dashboard.Service
	limiter      *ratelimit.Limiter
	obsMetrics   *obsmetrics.Metrics
}

type ServerParams struct {
	fx.In

	Gin          *gin.Engine
	Cfg          config.Config
	DB           *gorm.DB
	Authsvc      authdomain.Service
	Sessions     *session.Manager
	GenID        *snowflake.Node
	CompanySvc   companydomain.Service
	PlanSvc      plandomain.Service
	ProjectSvc   projectdomain.Service
	CheckoutSvc  checkoutdomain.Service
	DashboardSvc *dashboard.Service
	Limiter      *ratelimit.Limiter  `optional:"true"`
	ObsMetrics   *obsmetrics.Metrics `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:       p.Gin,
		cfg:          p.Cfg,
		db:           p.DB,
		authsvc:      p.Authsvc,
		sessions:     p.Sessions,
		genID:        p.GenID,
		companySvc:   p.CompanySvc,
		planSvc:      p.PlanSvc,
		projectSvc:   p.ProjectSvc,
		checkoutSvc:  p.CheckoutSvc,
		dashboardSvc: p.DashboardSvc,
		limiter:      p.Limiter,
		obsMetrics:   p.ObsMetrics,
	}

	svc.registerAuthRoutes()
	svc.registerPublicRoutes()
	svc.registerAdminRoutes()
	svc.registerMarketingRoutes()
	svc.registerCompanyRoutes()
	svc.registerProjectRoutes()
	svc.registerCheckoutRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAuthRoutes() {
	auth := s.engine.Group("/auth")

	auth.POST("/login", s.Login)
	auth.POST("/logout", s.Logout)
	auth.GET("/me", s.AuthRequired(), s.Me)
	auth.POST("/forgot-password", s.ForgotPassword)
	auth.POST("/reset-password", s.ResetPassword)
}

func (s *Server) registerPublicRoutes() {
	// The plan catalog backs the public pricing page.
	s.engine.GET("/plans", s.ListActivePlans)
}

func (s *Server) registerAdminRoutes() {
	admin := s.engine.Group("/admin")
	admin.Use(s.AuthRequired())
	admin.Use(s.RequireRole(policy.RoleSuperAdmin))

	admin.GET("/dashboard", s.GetAdminDashboard)

	admin.GET("/users", s.ListAllUsers)
	admin.POST("/users", s.CreateUser)
	admin.DELETE("/users/:id", s.DeleteUser)

	admin.GET("/plans", s.ListPlans)
	admin.POST("/plans", s.CreatePlan)
	admin.GET("/plans/:id", s.GetPlan)
	admin.PATCH("/plans/:id", s.UpdatePlan)
	admin.DELETE("/plans/:id", s.DeletePlan)

	admin.GET("/companies", s.ListCompanies)
	admin.GET("/transactions", s.ListAllTransactions)
}

func (s *Server) registerMarketingRoutes() {
	marketing := s.engine.Group("/marketing")
	marketing.Use(s.AuthRequired())
	marketing.Use(s.RequireRole(policy.RoleMarketing, policy.RoleSuperAdmin))

	marketing.GET("/companies", s.ListCompanies)
	marketing.POST("/companies", s.OnboardCompany)
}

func (s *Server) registerCompanyRoutes() {
	companies := s.engine.Group("/companies")
	companies.Use(s.AuthRequired())

	companies.GET("/:id", s.CompanyAccess(), s.GetCompany)
	companies.GET("/:id/permissions", s.CompanyAccess(), s.GetCompanyPermissions)
	companies.GET("/:id/users", s.CompanyAccess(), s.ListCompanyUsers)
	companies.POST("/:id/users", s.CompanyAccess(policy.RoleClientAdmin), s.AddCompanyUser)
	companies.GET("/:id/transactions", s.CompanyAccess(policy.RoleClientAdmin), s.ListCompanyTransactions)
}

func (s *Server) registerProjectRoutes() {
	projects := s.engine.Group("/projects")
	projects.Use(s.AuthRequired())
	projects.Use(s.RequireRole(policy.RoleClientAdmin, policy.RoleClientEngineer))

	projects.GET("", s.ListProjects)
	projects.POST("", s.UploadProject)
	projects.GET("/:id", s.GetProject)
	projects.PATCH("/:id/status", s.UpdateProjectStatus)
}

func (s *Server) registerCheckoutRoutes() {
	subs := s.engine.Group("/subscriptions")
	subs.Use(s.AuthRequired())
	subs.Use(s.RequireRole(policy.RoleClientAdmin))

	subs.POST("/create-order", s.CreateOrder)
	subs.POST("/verify-payment", s.VerifyPayment)

	s.engine.GET("/transactions", s.AuthRequired(), s.ListTransactions)
}
