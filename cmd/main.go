package main

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/arqdesk/backoffice/internal/handler"
	"github.com/arqdesk/backoffice/internal/middleware"
	"github.com/arqdesk/backoffice/internal/repository"
	"github.com/arqdesk/backoffice/internal/service"
	"github.com/arqdesk/backoffice/pkg/config"
	"github.com/arqdesk/backoffice/pkg/database"
	"github.com/arqdesk/backoffice/pkg/logger"
	"github.com/arqdesk/backoffice/pkg/token"
	"github.com/arqdesk/backoffice/prometheus"
)

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger with config
	if err := logger.InitLogger(&logger.LogConfig{
		Level:       cfg.Log.Level,
		Environment: cfg.Server.Env,
		ServiceName: "backoffice",
	}); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	log.Info("Starting backoffice service...", cfg.LogConfig()...)

	// Initialize database
	db, err := database.Initialize(database.DBConfig{
		DSN:             cfg.DB.GetDSN(),
		MaxIdleConns:    cfg.DB.MaxIdleConns,
		MaxOpenConns:    cfg.DB.MaxOpenConns,
		ConnMaxLifetime: cfg.DB.ConnMaxLifetime,
		LogLevel:        cfg.DB.LogLevel,
	})
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	// Token codec
	codec := token.NewCodec(cfg.JWT.SigningKey, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)

	// Repositories
	userRepo := repository.NewUserRepository(db)
	officeRepo := repository.NewOfficeRepository(db)
	membershipRepo := repository.NewMembershipRepository(db)
	clientRepo := repository.NewClientRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	proposalRepo := repository.NewProposalRepository(db)
	financialRepo := repository.NewFinancialRepository(db)
	planningRepo := repository.NewPlanningRepository(db)

	// Services
	authService := service.NewAuthService(userRepo, officeRepo, membershipRepo, codec)
	userService := service.NewUserService(userRepo)
	officeService := service.NewOfficeService(officeRepo, membershipRepo, userRepo)

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	officeHandler := handler.NewOfficeHandler(officeService)
	clientHandler := handler.NewClientHandler(clientRepo)
	projectHandler := handler.NewProjectHandler(projectRepo)
	proposalHandler := handler.NewProposalHandler(proposalRepo)
	financialHandler := handler.NewFinancialHandler(financialRepo)
	planningHandler := handler.NewPlanningHandler(planningRepo)

	guard := middleware.NewGuard(codec, userRepo, membershipRepo)

	// Initialize Echo framework
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = handler.NewHTTPErrorHandler(log)

	// Apply global middleware - order matters
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(middleware.RequestIDMiddleware)
	e.Use(logger.Middleware())
	e.Use(prometheus.MetricsMiddleware())

	// Public routes - no authentication required
	e.GET("/health", handler.HealthCheck)
	e.GET("/metrics", handler.MetricsHandler)

	// Authentication routes
	auth := e.Group("/auth")
	auth.POST("/login", authHandler.Login)
	auth.POST("/register", userHandler.Register)
	auth.POST("/refresh", authHandler.Refresh)

	// API routes - all require a valid access token
	api := e.Group("/api")
	api.Use(guard.Authenticate)

	// Context selection - unscoped tokens are accepted here
	api.POST("/auth/context", authHandler.SetContext)

	// User self-service
	users := api.Group("/users")
	users.GET("/profile", userHandler.GetProfile)
	users.PATCH("/profile", userHandler.UpdateProfile)
	users.POST("/change-password", userHandler.ChangePassword)
	users.DELETE("/:id", userHandler.Delete, middleware.RequireSystemAdmin)

	// Office management
	offices := api.Group("/escritorios")
	offices.POST("", officeHandler.Create, middleware.RequireSystemAdmin)
	offices.GET("", officeHandler.List, middleware.RequireSystemAdmin)
	offices.GET("/:id", officeHandler.Get, middleware.RequireOfficeAccess("id"))
	offices.PATCH("/:id", officeHandler.Update, guard.RequireOfficeEditAccess("id"))
	offices.DELETE("/:id", officeHandler.Deactivate, middleware.RequireSystemAdmin)
	offices.GET("/:id/members", officeHandler.ListMembers, middleware.RequireOfficeAccess("id"))
	offices.POST("/:id/members", officeHandler.AddMember, guard.RequireOfficeEditAccess("id"))
	offices.DELETE("/:id/members/:user_id", officeHandler.RemoveMember, guard.RequireOfficeEditAccess("id"))

	// Office-scoped resources - the office comes from the token context
	scoped := api.Group("", middleware.RequireOffice)

	clients := scoped.Group("/clients")
	clients.GET("", clientHandler.List)
	clients.POST("", clientHandler.Create)
	clients.GET("/:id", clientHandler.Get)
	clients.PATCH("/:id", clientHandler.Update)
	clients.DELETE("/:id", clientHandler.Delete)

	projects := scoped.Group("/projects")
	projects.GET("", projectHandler.List)
	projects.POST("", projectHandler.Create)
	projects.GET("/:id", projectHandler.Get)
	projects.PATCH("/:id", projectHandler.Update)
	projects.DELETE("/:id", projectHandler.Delete)

	proposals := scoped.Group("/proposals")
	proposals.GET("", proposalHandler.List)
	proposals.POST("", proposalHandler.Create)
	proposals.GET("/:id", proposalHandler.Get)
	proposals.PATCH("/:id", proposalHandler.Update)
	proposals.DELETE("/:id", proposalHandler.Delete)

	financial := scoped.Group("/financial")
	financial.GET("", financialHandler.List)
	financial.POST("", financialHandler.Create)
	financial.GET("/:id", financialHandler.Get)
	financial.PATCH("/:id", financialHandler.Update)
	financial.DELETE("/:id", financialHandler.Delete)

	// Planning chain: project services, their stages, their tasks
	scoped.GET("/projects/:project_id/services", planningHandler.ListServices)
	scoped.POST("/projects/:project_id/services", planningHandler.CreateService)
	scoped.DELETE("/services/:id", planningHandler.DeleteService)
	scoped.GET("/services/:service_id/stages", planningHandler.ListStages)
	scoped.POST("/services/:service_id/stages", planningHandler.CreateStage)
	scoped.PATCH("/services/:service_id/stages/:id", planningHandler.UpdateStage)
	scoped.DELETE("/services/:service_id/stages/:id", planningHandler.DeleteStage)
	scoped.GET("/stages/:stage_id/tasks", planningHandler.ListTasks)
	scoped.POST("/stages/:stage_id/tasks", planningHandler.CreateTask)
	scoped.PATCH("/stages/:stage_id/tasks/:id", planningHandler.UpdateTask)
	scoped.DELETE("/stages/:stage_id/tasks/:id", planningHandler.DeleteTask)

	// Start server
	port := cfg.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Failed to start server", zap.Error(err))
	}
}
