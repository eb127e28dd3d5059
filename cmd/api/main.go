package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/pacedev/pace-backend/internal/config"
	"github.com/pacedev/pace-backend/internal/domain"
	"github.com/pacedev/pace-backend/internal/handler"
	"github.com/pacedev/pace-backend/internal/mail"
	"github.com/pacedev/pace-backend/internal/metrics"
	"github.com/pacedev/pace-backend/internal/middleware"
	"github.com/pacedev/pace-backend/internal/repository/postgres"
	objstore "github.com/pacedev/pace-backend/internal/repository/storage"
	"github.com/pacedev/pace-backend/internal/service"
	"github.com/pacedev/pace-backend/internal/storage"
	"github.com/pacedev/pace-backend/internal/websocket"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Initialize zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Connect to database
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pool.Close()

	// Verify database connection
	if err := pool.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}
	log.Info().Msg("Connected to database")

	// Apply pending schema migrations
	if err := storage.RunMigrations(cfg.DatabaseURL); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	// Initialize repositories
	userRepo := postgres.NewUserRepository(pool)
	sessionRepo := postgres.NewSessionRepository(pool)
	tokenRepo := postgres.NewAuthTokenRepository(pool)
	accountRepo := postgres.NewAccountRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	transactionRepo := postgres.NewTransactionRepository(pool)
	settingRepo := postgres.NewSettingRepository(pool)
	planRepo := postgres.NewPlanRepository(pool)
	goalRepo := postgres.NewGoalRepository(pool)
	liabilityRepo := postgres.NewLiabilityRepository(pool)
	holdingRepo := postgres.NewHoldingRepository(pool)
	snapshotRepo := postgres.NewKpiSnapshotRepository(pool)

	// Receipt storage is optional; when no bucket access is configured the
	// upload endpoints report storage as unavailable.
	var receiptRepo objstore.ReceiptRepository
	if cfg.S3.AccessKeyID != "" || cfg.S3.Endpoint != "" {
		repo, err := objstore.NewS3ReceiptRepository(context.Background(), cfg.S3)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize receipt storage")
		}
		receiptRepo = repo
		log.Info().Str("bucket", cfg.S3.Bucket).Msg("Receipt storage enabled")
	} else {
		log.Warn().Msg("Receipt storage disabled (no S3 credentials or endpoint)")
	}

	// Mailer
	var mailer service.Mailer
	if cfg.SMTP.Host != "" {
		mailer = mail.NewSMTPMailer(cfg.SMTP)
	} else {
		mailer = mail.NewLogMailer()
		log.Warn().Msg("SMTP disabled, email tokens will be logged")
	}

	// Metrics
	collector := metrics.NewCollector("pace")

	// WebSocket hub
	hub := websocket.NewHub()

	// Initialize services
	bootstrapService := service.NewBootstrapService(accountRepo, categoryRepo, domain.DefaultSeedConfig())
	authService := service.NewAuthService(userRepo, sessionRepo, tokenRepo, bootstrapService, mailer, time.Duration(cfg.SessionTTLHours)*time.Hour)
	accountService := service.NewAccountService(accountRepo)
	categoryService := service.NewCategoryService(categoryRepo)
	ledgerService := service.NewLedgerService(transactionRepo)
	paceService := service.NewPaceService(ledgerService, settingRepo, holdingRepo, liabilityRepo, goalRepo)
	snapshotService := service.NewSnapshotService(paceService, snapshotRepo, planRepo)
	snapshotService.SetMetrics(collector)
	transactionService := service.NewTransactionService(transactionRepo, accountRepo, categoryRepo, snapshotService)
	transactionService.SetEventPublisher(hub)
	settingService := service.NewSettingService(settingRepo)
	planService := service.NewPlanService(planRepo, goalRepo, settingRepo)
	holdingService := service.NewHoldingService(holdingRepo)
	liabilityService := service.NewLiabilityService(liabilityRepo)
	receiptService := service.NewReceiptService(receiptRepo, transactionRepo)
	dashboardService := service.NewDashboardService(bootstrapService, accountService, ledgerService, transactionService, snapshotService)

	// Initialize auth middleware
	authMiddleware := middleware.NewAuthMiddleware(authService)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	accountHandler := handler.NewAccountHandler(accountService)
	categoryHandler := handler.NewCategoryHandler(categoryService)
	transactionHandler := handler.NewTransactionHandler(transactionService, receiptService)
	kpiHandler := handler.NewKpiHandler(snapshotService, paceService)
	planHandler := handler.NewPlanHandler(planService)
	holdingHandler := handler.NewHoldingHandler(holdingService)
	liabilityHandler := handler.NewLiabilityHandler(liabilityService)
	settingHandler := handler.NewSettingHandler(settingService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)
	wsHandler := handler.NewWebSocketHandler(hub, authService, cfg.CORSOrigins)

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Request ID middleware
	e.Use(echomiddleware.RequestID())

	// CORS middleware
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Security headers middleware (helmet-like)
	e.Use(echomiddleware.SecureWithConfig(echomiddleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		HSTSMaxAge:            31536000,
		ContentSecurityPolicy: "default-src 'self'",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
	}))

	// Request logging middleware with zerolog
	e.Use(zerologMiddleware())

	// Prometheus request metrics
	e.Use(collector.Middleware())

	// Per-user rate limiting
	rateLimiter := middleware.NewRateLimiter()
	defer rateLimiter.Stop()
	e.Use(middleware.RateLimitMiddleware(rateLimiter))

	// Recovery middleware
	e.Use(echomiddleware.Recover())

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Metrics endpoint
	e.GET("/metrics", collector.Handler())

	// Register API routes
	handler.RegisterRoutes(e, authMiddleware, authHandler, accountHandler, categoryHandler, transactionHandler, kpiHandler, planHandler, holdingHandler, liabilityHandler, settingHandler, dashboardHandler, wsHandler)

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// zerologMiddleware returns a middleware that logs requests using zerolog
func zerologMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()

			log.Info().
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", res.Status).
				Dur("latency", time.Since(start)).
				Str("request_id", res.Header().Get(echo.HeaderXRequestID)).
				Msg("request")

			return nil
		}
	}
}
