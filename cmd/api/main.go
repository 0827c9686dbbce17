package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/centavo-app/centavo-backend/internal/config"
	"github.com/centavo-app/centavo-backend/internal/handler"
	"github.com/centavo-app/centavo-backend/internal/middleware"
	"github.com/centavo-app/centavo-backend/internal/repository/sqlite"
	"github.com/centavo-app/centavo-backend/internal/service"
	"github.com/centavo-app/centavo-backend/internal/websocket"
	"github.com/centavo-app/centavo-backend/internal/worker"
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

	// Open database (runs embedded migrations)
	store, err := sqlite.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DatabasePath).Msg("Failed to open database")
	}
	defer store.Close()
	log.Info().Str("path", cfg.DatabasePath).Msg("Database ready")

	// Initialize repositories
	accountRepo := sqlite.NewAccountRepository(store)
	balanceRepo := sqlite.NewBalanceRepository(store)
	transactionRepo := sqlite.NewTransactionRepository(store)
	cardRepo := sqlite.NewCreditCardRepository(store)
	billRepo := sqlite.NewBillRepository(store)
	commitmentRepo := sqlite.NewCommitmentRepository(store)
	incomeRepo := sqlite.NewIncomeRepository(store)

	// Initialize websocket hub
	hub := websocket.NewHub()

	// Initialize services
	accountService := service.NewAccountService(accountRepo, balanceRepo)
	balanceService := service.NewBalanceService(balanceRepo, transactionRepo)
	transactionService := service.NewTransactionService(transactionRepo, balanceRepo, billRepo)
	cardService := service.NewCreditCardService(cardRepo)
	billService := service.NewBillService(billRepo, cardRepo, transactionRepo)
	installmentService := service.NewInstallmentService(transactionRepo, billService)
	commitmentService := service.NewCommitmentService(commitmentRepo, cardRepo)
	incomeService := service.NewIncomeService(incomeRepo)
	statementService := service.NewStatementService(transactionRepo, balanceRepo)
	dashboardService := service.NewDashboardService(transactionRepo, billService, commitmentService)

	// Wire real-time events
	balanceService.SetEventPublisher(hub)
	transactionService.SetEventPublisher(hub)
	billService.SetEventPublisher(hub)
	installmentService.SetEventPublisher(hub)
	commitmentService.SetEventPublisher(hub)
	incomeService.SetEventPublisher(hub)
	statementService.SetEventPublisher(hub)

	// Initialize handlers
	accountHandler := handler.NewAccountHandler(accountService, balanceService)
	balanceHandler := handler.NewBalanceHandler(balanceService)
	transactionHandler := handler.NewTransactionHandler(transactionService, installmentService)
	cardHandler := handler.NewCreditCardHandler(cardService, billService)
	commitmentHandler := handler.NewCommitmentHandler(commitmentService)
	incomeHandler := handler.NewIncomeHandler(incomeService)
	statementHandler := handler.NewStatementHandler(statementService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)
	wsHandler := handler.NewWebSocketHandler(hub, cfg.CORSOrigins)

	// Start bill auto-generation scheduler
	billScheduler := worker.NewBillScheduler(billService, log.Logger, cfg.BillCronSchedule)
	if err := billScheduler.Start(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start bill scheduler")
	}

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
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Security headers middleware
	e.Use(echomiddleware.SecureWithConfig(echomiddleware.SecureConfig{
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "DENY",
		ReferrerPolicy:     "strict-origin-when-cross-origin",
	}))

	// Rate limiting per client IP
	rateLimiter := middleware.NewRateLimiter()
	e.Use(middleware.RateLimitMiddleware(rateLimiter))

	// Request logging middleware with zerolog
	e.Use(zerologMiddleware())

	// Recovery middleware
	e.Use(echomiddleware.Recover())

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Register API routes
	handler.RegisterRoutes(e, accountHandler, balanceHandler, transactionHandler, cardHandler, commitmentHandler, incomeHandler, statementHandler, dashboardHandler, wsHandler)

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

	billScheduler.Stop()
	rateLimiter.Stop()
	hub.CloseAll()

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
