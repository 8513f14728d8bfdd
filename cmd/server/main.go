package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/grandstay/hotelchain-backend/internal/config"
	"github.com/grandstay/hotelchain-backend/internal/database"
	"github.com/grandstay/hotelchain-backend/internal/handlers"
	"github.com/grandstay/hotelchain-backend/internal/middleware"
	"github.com/grandstay/hotelchain-backend/internal/models"
	"github.com/grandstay/hotelchain-backend/internal/services"
	"github.com/grandstay/hotelchain-backend/pkg/card"
	"github.com/grandstay/hotelchain-backend/pkg/jwt"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

var (
	version   = "1.0.0"
	buildTime = "unknown"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	logger.Info("Starting GrandStay Hotel Chain Backend")
	logger.Infof("Version: %s, Build Time: %s", version, buildTime)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	// Set log level
	logLevel, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logger.Warn("Invalid log level, using INFO")
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Set Gin mode
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// Initialize database connection
	logger.Info("Connecting to database...")
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	logger.Info("Database connection established")

	// Initialize repositories
	userRepo := database.NewUserRepository(db)
	branchRepo := database.NewBranchRepository(db)
	roomRepo := database.NewRoomRepository(db)
	reservationRepo := database.NewReservationRepository(db)
	bookingRepo := database.NewBookingRepository(db)
	billingRepo := database.NewBillingRepository(db)
	invoiceRepo := database.NewInvoiceRepository(db)
	paymentRepo := database.NewPaymentRepository(db)

	// Initialize services
	logger.Info("Initializing services...")
	jwtService := jwt.NewService(
		cfg.JWT.Secret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	cardValidator := card.NewValidator()
	pricingService := services.NewPricingService(cfg.Pricing.ReservationFee)
	authService := services.NewAuthService(userRepo, jwtService, cfg.JWT.AccessTokenExpiry, cfg.Security.BcryptCost, logger)
	reservationService := services.NewReservationService(
		reservationRepo,
		roomRepo,
		branchRepo,
		userRepo,
		paymentRepo,
		pricingService,
		cardValidator,
		cfg.Pricing.MaxDiscountPct,
		logger,
	)
	bookingService := services.NewBookingService(bookingRepo, roomRepo, branchRepo, logger)
	ledgerService := services.NewLedgerService(reservationRepo, billingRepo, invoiceRepo, userRepo, logger)
	expiryService := services.NewPaymentExpiryService(paymentRepo, cfg.Sweeper, logger)

	// Initialize and start cron service
	cronService := services.NewCronService(expiryService, invoiceRepo, cfg.Sweeper.Schedule)
	if err := cronService.Start(); err != nil {
		logger.Fatalf("Failed to start cron service: %v", err)
	}
	logger.Info("✓ Cron service started - Payment expiry sweep enabled")

	logger.Info("Services initialized")

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, logger)
	reservationHandler := handlers.NewReservationHandler(reservationService, reservationRepo, logger)
	paymentHandler := handlers.NewPaymentHandler(reservationService, paymentRepo, logger)
	bookingHandler := handlers.NewBookingHandler(bookingService, logger)
	ledgerHandler := handlers.NewLedgerHandler(ledgerService, logger)
	adminHandler := handlers.NewAdminHandler(branchRepo, roomRepo, logger)

	// Initialize Gin router
	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	if cfg.Security.EnableRequestLog {
		router.Use(requestLogger(logger))
	}

	// CORS configuration
	corsConfig := cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/health", healthCheckHandler(db))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Authentication routes (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.Refresh)
		}

		// Public catalogue routes
		v1.GET("/branches", adminHandler.ListBranches)
		v1.GET("/room-types", adminHandler.ListRoomTypes)

		// Reservation routes (protected)
		reservations := v1.Group("/reservations")
		reservations.Use(middleware.AuthMiddleware(jwtService))
		{
			reservations.POST("", reservationHandler.Create)
			reservations.GET("", reservationHandler.List)
			reservations.POST("/:reservation_id/approve", reservationHandler.Approve)
			reservations.POST("/:reservation_id/reject", reservationHandler.Reject)
			reservations.POST("/:reservation_id/pending-payment", paymentHandler.StagePendingPayment)
			reservations.GET("/:reservation_id/billings", ledgerHandler.ReservationBillings)
			reservations.POST("/:reservation_id/billings", ledgerHandler.AddServiceCharge)
		}

		// Payment routes (protected)
		payments := v1.Group("/payments")
		payments.Use(middleware.AuthMiddleware(jwtService))
		{
			payments.GET("", paymentHandler.List)
			payments.POST("/:pending_payment_id/complete", paymentHandler.CompletePayment)
		}

		// Booking routes (branch staff only)
		bookings := v1.Group("/bookings")
		bookings.Use(middleware.AuthMiddleware(jwtService), middleware.RequireBranchStaff())
		{
			bookings.GET("", bookingHandler.List)
			bookings.POST("/walk-in", bookingHandler.WalkIn)
			bookings.POST("/:booking_id/cancel", bookingHandler.Cancel)
		}

		// Ledger routes (protected)
		ledger := v1.Group("/ledger")
		ledger.Use(middleware.AuthMiddleware(jwtService))
		{
			ledger.GET("/summary", ledgerHandler.Summary)
			ledger.GET("/invoices", ledgerHandler.Invoices)
		}

		// Admin routes
		admin := v1.Group("/admin")
		admin.Use(middleware.AuthMiddleware(jwtService))
		{
			// Chain-level administration
			chain := admin.Group("")
			chain.Use(middleware.RequireRoles(models.RoleSuperAdmin))
			{
				chain.POST("/branches", adminHandler.CreateBranch)
				chain.POST("/room-types", adminHandler.CreateRoomType)
				chain.POST("/invoices/:invoice_id/paid", ledgerHandler.SettleInvoice)
			}

			// Branch-level administration
			branch := admin.Group("")
			branch.Use(middleware.RequireRoles(models.RoleSuperAdmin, models.RoleManager))
			{
				branch.POST("/rooms", adminHandler.CreateRoom)
				branch.GET("/rooms", adminHandler.ListRooms)
				branch.GET("/rooms/:room_id", adminHandler.GetRoom)
				branch.PUT("/rooms/:room_id/status", adminHandler.SetRoomStatus)
			}

			// Cron management
			admin.POST("/cron/sweep-payments", func(c *gin.Context) {
				cronService.RunSweepNow()
				c.JSON(200, gin.H{"message": "Payment expiry sweep triggered"})
			})
			admin.GET("/cron/status", func(c *gin.Context) {
				c.JSON(200, cronService.GetJobStatus())
			})
		}
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Infof("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Stop cron service
	cronService.Stop()

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited successfully")
}

// requestLogger middleware for logging HTTP requests
func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)

		fields := logrus.Fields{
			"status":     c.Writer.Status(),
			"method":     c.Request.Method,
			"path":       path,
			"query":      query,
			"ip":         c.ClientIP(),
			"latency_ms": latency.Milliseconds(),
			"user_agent": c.Request.UserAgent(),
		}
		if userCtx, exists := middleware.GetUserContext(c); exists {
			fields["user_id"] = userCtx.UserID
			fields["role"] = userCtx.Role
		}

		entry := logger.WithFields(fields)

		status := c.Writer.Status()
		switch {
		case status >= 500:
			entry.Error("Request completed with server error")
		case status >= 400:
			entry.Warn("Request completed with client error")
		default:
			entry.Info("Request completed successfully")
		}
	}
}

// healthCheckHandler returns a health check endpoint
func healthCheckHandler(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": "unhealthy",
				"error":    err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"database":  "healthy",
			"version":   version,
			"timestamp": time.Now().Unix(),
		})
	}
}
