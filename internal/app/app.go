package app

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"permiso_backend/internal/auth"
	"permiso_backend/internal/config"
	"permiso_backend/internal/email"
	"permiso_backend/internal/handlers"
	"permiso_backend/internal/logger"
	"permiso_backend/internal/middleware"
	"permiso_backend/internal/models"
	"permiso_backend/internal/openai"
	"permiso_backend/internal/repositories"
	"permiso_backend/internal/routes"
	"permiso_backend/internal/services"
	"permiso_backend/internal/storage"
	"permiso_backend/internal/stripeclient"
	"permiso_backend/internal/validator"
	"permiso_backend/internal/workers"
	"permiso_backend/ws"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	logger.Info("Connecting to database...")
	gormDB, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{})
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := autoMigrate(gormDB); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}

	if err := seedFirstAdmin(gormDB, cfg); err != nil {
		logger.Fatal("Failed to seed first admin user", "error", err)
	}

	ginRouter, cleanup := SetupRouter(cfg, gormDB)
	defer cleanup()

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info(fmt.Sprintf("Server starting on %s", address))
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

// SetupRouter builds the full application: storage, services, handlers,
// websocket hub, background workers and routes. The returned cleanup stops
// the workers.
func SetupRouter(cfg *config.Config, gormDB *gorm.DB) (*gin.Engine, func()) {
	storageInstance, err := storage.NewStorage(storage.Config{
		Type:       cfg.Storage.Type,
		BasePath:   cfg.Storage.BasePath,
		BaseURL:    cfg.Storage.BaseURL,
		Bucket:     cfg.Storage.Bucket,
		Region:     cfg.Storage.Region,
		AccessKey:  cfg.Storage.AccessKey,
		SecretKey:  cfg.Storage.SecretKey,
		Endpoint:   cfg.Storage.Endpoint,
		UseSSL:     cfg.Storage.UseSSL,
		PublicRead: cfg.Storage.PublicRead,
	})
	if err != nil {
		logger.Fatal("Failed to initialize storage", "error", err)
	}
	logger.Info("Storage initialized", "type", cfg.Storage.Type)

	wsManager := ws.NewManager()
	go wsManager.Run()
	wsHandler := ws.NewHandler(wsManager)

	serviceContainer := initializeServices(cfg, gormDB, storageInstance, wsManager)
	appHandlers := initializeHandlers(serviceContainer)

	tokenManager := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.TTL)
	authMW := middleware.AuthMiddleware(tokenManager)

	ginRouter := initializeGinRouter()
	routes.RegisterRoutes(ginRouter, appHandlers, wsHandler, authMW)

	notificationWorker := workers.NewNotificationWorker(
		serviceContainer.NotificationService,
		cfg.Notifications.RetentionDays,
		cfg.Notifications.CleanupCron,
	)
	if err := notificationWorker.Start(); err != nil {
		logger.Fatal("Failed to start notification worker", "error", err)
	}

	return ginRouter, notificationWorker.Stop
}

func initializeServices(cfg *config.Config, gormDB *gorm.DB, storageInstance storage.Storage, notifier services.Notifier) *services.ServiceContainer {
	var emailService email.Provider
	if cfg.Email.SMTPHost != "" {
		emailService = email.NewSMTPProvider(email.SMTPConfig{
			Host:      cfg.Email.SMTPHost,
			Port:      cfg.Email.SMTPPort,
			Username:  cfg.Email.SMTPUsername,
			Password:  cfg.Email.SMTPPassword,
			FromEmail: cfg.Email.FromEmail,
			FromName:  cfg.Email.FromName,
		})
	} else {
		logger.Warn("SMTP is not configured, outgoing email is disabled")
		emailService = &MockEmailProvider{}
	}

	var aiProvider openai.Provider
	if cfg.OpenAI.APIKey != "" {
		aiProvider = openai.NewClient(openai.Config{
			APIKey:    cfg.OpenAI.APIKey,
			BaseURL:   cfg.OpenAI.BaseURL,
			Model:     cfg.OpenAI.Model,
			MaxTokens: cfg.OpenAI.MaxTokens,
			Temp:      cfg.OpenAI.Temp,
		})
	} else {
		logger.Warn("OpenAI API key is not configured, AI chat uses canned responses")
		aiProvider = openai.MockProvider{}
	}

	stripeClient := stripeclient.NewClient(cfg.Stripe.SecretKey, cfg.Stripe.BaseURL)

	tokenManager := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.TTL)

	userRepo := repositories.NewUserRepository(gormDB)
	projectRepo := repositories.NewProjectRepository(gormDB)
	notificationRepo := repositories.NewNotificationRepository(gormDB)
	analyticsRepo := repositories.NewAnalyticsRepository(gormDB)

	notificationService := services.NewNotificationService(notificationRepo, userRepo, notifier, emailService)
	authService := services.NewAuthService(userRepo, tokenManager)
	projectService := services.NewProjectService(projectRepo, userRepo, notificationService)
	reviewService := services.NewReviewService(projectRepo, notificationService)
	estimateService := services.NewEstimateService()
	aiService := services.NewAIService(aiProvider, projectRepo)
	paymentService := services.NewPaymentService(stripeClient, cfg.Stripe.WebhookSecret, projectRepo, userRepo, notificationService)
	uploadService := services.NewUploadService(storageInstance, projectRepo, services.UploadConfig{
		MaxSize:      cfg.Upload.MaxSize,
		MaxFiles:     cfg.Upload.MaxFiles,
		AllowedTypes: cfg.Upload.AllowedTypes,
		AllowedExts:  cfg.Upload.AllowedExts,
		Folder:       cfg.Storage.Folder,
	})
	analyticsService := services.NewAnalyticsService(analyticsRepo)
	adminService := services.NewAdminService(userRepo, projectRepo)

	return &services.ServiceContainer{
		AuthService:         authService,
		ProjectService:      projectService,
		ReviewService:       reviewService,
		NotificationService: notificationService,
		EstimateService:     estimateService,
		AIService:           aiService,
		PaymentService:      paymentService,
		UploadService:       uploadService,
		AnalyticsService:    analyticsService,
		AdminService:        adminService,
		EmailService:        emailService,
		Storage:             storageInstance,
	}
}

func initializeHandlers(container *services.ServiceContainer) *handlers.AppHandlers {
	customValidator := validator.New()
	baseHandler := handlers.NewBaseHandler(customValidator)

	return &handlers.AppHandlers{
		AuthHandler:         handlers.NewAuthHandler(baseHandler, container.AuthService),
		ProjectHandler:      handlers.NewProjectHandler(baseHandler, container.ProjectService),
		ReviewHandler:       handlers.NewReviewHandler(baseHandler, container.ReviewService),
		AdminHandler:        handlers.NewAdminHandler(baseHandler, container.AdminService, container.AnalyticsService, container.NotificationService),
		AIHandler:           handlers.NewAIHandler(baseHandler, container.AIService, container.EstimateService),
		PaymentHandler:      handlers.NewPaymentHandler(baseHandler, container.PaymentService),
		UploadHandler:       handlers.NewUploadHandler(baseHandler, container.UploadService),
		NotificationHandler: handlers.NewNotificationHandler(baseHandler, container.NotificationService),
	}
}

func initializeGinRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware())
	return router
}

func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.Document{},
		&models.ProjectForm{},
		&models.ReviewComment{},
		&models.Notification{},
	)
}

// seedFirstAdmin creates the bootstrap admin account on an empty install.
func seedFirstAdmin(db *gorm.DB, cfg *config.Config) error {
	adminEmail := cfg.Admin.Email
	adminPassword := cfg.Admin.Password

	if adminEmail == "" || adminPassword == "" {
		logger.Warn("Admin email or password is not configured. Skipping admin seeding.")
		return nil
	}

	var existing models.User
	result := db.Where("email = ?", adminEmail).First(&existing)
	if result.Error == nil {
		logger.Info("Admin user already exists. Skipping creation.", "email", adminEmail)
		return nil
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check for admin user: %w", result.Error)
	}

	logger.Warn("No admin user found. Creating first admin...", "email", adminEmail)

	hash, err := auth.HashPassword(adminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := &models.User{
		Name:         "Administrator",
		Email:        adminEmail,
		PasswordHash: hash,
		Role:         models.UserRoleAdmin,
		IsActive:     true,
	}
	if err := db.Create(admin).Error; err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	logger.Info("First admin user created", "email", adminEmail)
	return nil
}
