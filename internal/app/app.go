// Package app wires configuration, storage, services and routes together
// and runs the HTTP server.
package app

import (
	"context"
	"fmt"

	"fazservico_backend/internal/billing"
	"fazservico_backend/internal/config"
	"fazservico_backend/internal/handlers"
	"fazservico_backend/internal/logger"
	"fazservico_backend/internal/metrics"
	"fazservico_backend/internal/middleware"
	"fazservico_backend/internal/models"
	"fazservico_backend/internal/notify"
	"fazservico_backend/internal/repositories"
	"fazservico_backend/internal/routes"
	"fazservico_backend/internal/services"
	"fazservico_backend/internal/validator"
	"fazservico_backend/internal/workers"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("logger initialized", "env", cfg.Server.Env)

	gormDB, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{})
	if err != nil {
		logger.Fatal("failed to connect to database", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("database unavailable", "error", err)
	}
	logger.Info("database connected")

	if err := migrate(gormDB); err != nil {
		logger.Fatal("schema migration failed", "error", err)
	}
	if err := seedPlans(gormDB, cfg); err != nil {
		logger.Fatal("plan seeding failed", "error", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	router := SetupRouter(ctx, cfg, gormDB)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("server starting", "address", address)
	if err := router.Run(address); err != nil {
		logger.Fatal("server startup error", "error", err)
	}
}

// SetupRouter builds the full gin engine. Background loops (notification
// dispatcher, subscription sweep) are started on ctx; tests pass their own
// context and cancel it when done.
func SetupRouter(ctx context.Context, cfg *config.Config, gormDB *gorm.DB) *gin.Engine {
	container := buildServices(ctx, cfg, gormDB)
	appHandlers := buildHandlers(cfg, gormDB, container)

	router := newGinRouter(cfg, gormDB)
	routes.Setup(router, appHandlers)
	return router
}

// ServiceContainer carries the constructed services for handler wiring and
// for integration tests that call services directly.
type ServiceContainer struct {
	AuthService           *services.AuthService
	UserService           *services.UserService
	QuotaService          *services.QuotaService
	ContactService        *services.ContactService
	ProposalService       *services.ProposalService
	ServiceRequestService *services.ServiceRequestService
	SubscriptionService   *services.SubscriptionService
	CatalogService        *services.CatalogService
	RatingService         *services.RatingService
	NotificationService   *services.NotificationService
}

func buildServices(ctx context.Context, cfg *config.Config, gormDB *gorm.DB) *ServiceContainer {
	userRepo := repositories.NewUserRepository()
	professionalRepo := repositories.NewProfessionalRepository()
	subscriptionRepo := repositories.NewSubscriptionRepository()
	serviceRequestRepo := repositories.NewServiceRequestRepository()
	proposalRepo := repositories.NewProposalRepository()
	unlockRepo := repositories.NewContactUnlockRepository()
	categoryRepo := repositories.NewCategoryRepository()
	regionRepo := repositories.NewRegionRepository()
	notificationRepo := repositories.NewNotificationRepository()
	ratingRepo := repositories.NewRatingRepository()

	mailer := notify.NewSMTPMailer(cfg)
	dispatcher := notify.NewDispatcher(gormDB, notificationRepo, mailer, cfg.Notify.QueueSize)
	dispatcher.Start(ctx)

	billingService := billing.NewStripeService(cfg)

	quotaService := services.NewQuotaService(professionalRepo, subscriptionRepo, cfg.Quota.FreeProposalLimit)

	worker := workers.NewSubscriptionWorker(gormDB, subscriptionRepo, professionalRepo, 0)
	worker.Start(ctx)

	return &ServiceContainer{
		AuthService:  services.NewAuthService(userRepo, professionalRepo),
		UserService:  services.NewUserService(userRepo, professionalRepo),
		QuotaService: quotaService,
		ContactService: services.NewContactService(
			userRepo, professionalRepo, serviceRequestRepo, proposalRepo,
			unlockRepo, quotaService, dispatcher, cfg.Quota.ContactUnlockPrice,
		),
		ProposalService: services.NewProposalService(
			proposalRepo, serviceRequestRepo, professionalRepo, userRepo,
			quotaService, dispatcher,
		),
		ServiceRequestService: services.NewServiceRequestService(
			serviceRequestRepo, categoryRepo, regionRepo, cfg.Quota.UrgentPromotionPrice,
		),
		SubscriptionService: services.NewSubscriptionService(
			subscriptionRepo, professionalRepo, userRepo, quotaService, billingService, cfg,
		),
		CatalogService:      services.NewCatalogService(categoryRepo, regionRepo),
		RatingService:       services.NewRatingService(ratingRepo, serviceRequestRepo, proposalRepo),
		NotificationService: services.NewNotificationService(notificationRepo),
	}
}

func buildHandlers(cfg *config.Config, gormDB *gorm.DB, c *ServiceContainer) *handlers.AppHandlers {
	base := handlers.NewBaseHandler(validator.New())

	return &handlers.AppHandlers{
		AuthHandler:           handlers.NewAuthHandler(base, c.AuthService),
		UserHandler:           handlers.NewUserHandler(base, c.UserService),
		ServiceRequestHandler: handlers.NewServiceRequestHandler(base, c.ServiceRequestService, c.ProposalService),
		ProposalHandler:       handlers.NewProposalHandler(base, c.ProposalService),
		ContactHandler:        handlers.NewContactHandler(base, c.ContactService),
		SubscriptionHandler:   handlers.NewSubscriptionHandler(base, c.SubscriptionService),
		CatalogHandler:        handlers.NewCatalogHandler(base, c.CatalogService),
		NotificationHandler:   handlers.NewNotificationHandler(base, c.NotificationService),
		RatingHandler:         handlers.NewRatingHandler(base, c.RatingService),
		HealthHandler:         handlers.NewHealthHandler(gormDB),
	}
}

func newGinRouter(cfg *config.Config, gormDB *gorm.DB) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(metrics.GinMiddleware())
	router.Use(middleware.DBMiddleware(gormDB))
	return router
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.ProfessionalProfile{},
		&models.SubscriptionPlan{},
		&models.Subscription{},
		&models.Category{},
		&models.Region{},
		&models.ServiceRequest{},
		&models.Proposal{},
		&models.ContactUnlock{},
		&models.Notification{},
		&models.Rating{},
	)
}

// seedPlans upserts the configured plans so /plans can list them. The
// configuration stays the source of truth on every start.
func seedPlans(db *gorm.DB, cfg *config.Config) error {
	repo := repositories.NewSubscriptionRepository()
	for _, p := range cfg.Billing.Plans {
		plan := &models.SubscriptionPlan{
			Code:          p.Code,
			Name:          p.Name,
			MonthlyPrice:  p.MonthlyPrice,
			ProposalLimit: p.ProposalLimit,
			StripePriceID: p.StripePriceID,
			IsActive:      true,
		}
		if err := repo.UpsertPlan(db, plan); err != nil {
			return err
		}
	}
	return nil
}
