package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"shuttlebook/internal/config"
	"shuttlebook/internal/handlers"
	"shuttlebook/internal/middleware"
	"shuttlebook/internal/repositories/mongodb"
	"shuttlebook/internal/services"
	"shuttlebook/pkg/cache"
	"shuttlebook/pkg/database"
	"shuttlebook/pkg/logger"
	"shuttlebook/pkg/payment"
	"shuttlebook/routes"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logg, err := logger.NewLogger(&logger.Config{
		Level:  cfg.App.LogLevel,
		Format: cfg.App.LogFormat,
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	db, err := database.NewMongoDB(&database.Config{
		URI:            cfg.Database.URI,
		Database:       cfg.Database.Database,
		MaxPoolSize:    cfg.Database.MaxPoolSize,
		MinPoolSize:    cfg.Database.MinPoolSize,
		ConnectTimeout: cfg.Database.ConnectTimeout,
		SocketTimeout:  cfg.Database.SocketTimeout,
	})
	if err != nil {
		logg.WithError(err).Fatal("failed to connect to mongodb")
	}
	defer db.Close()

	// The seat uniqueness index must exist before the first booking.
	if err := database.NewMigrator(db.Database).Up(); err != nil {
		logg.WithError(err).Fatal("failed to run migrations")
	}

	redisCache, err := cache.NewRedisCache(&cache.Config{
		Host:         cfg.Redis.Host,
		Port:         cfg.Redis.Port,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})
	if err != nil {
		logg.WithError(err).Fatal("failed to connect to redis")
	}
	defer redisCache.Close()

	gateway := payment.NewGateway(cfg.Payment.Razorpay.KeyID, cfg.Payment.Razorpay.KeySecret)

	// Repositories
	bookingRepo := mongodb.NewBookingRepository(db.Database)
	tripRepo := mongodb.NewTripRepository(db.Database)
	vehicleRepo := mongodb.NewVehicleRepository(db.Database)
	driverRepo := mongodb.NewDriverRepository(db.Database)
	reviewRepo := mongodb.NewReviewRepository(db.Database)
	userRepo := mongodb.NewUserRepository(db.Database)

	// Services
	bookingService := services.NewBookingService(bookingRepo, tripRepo, vehicleRepo, driverRepo, gateway, redisCache, logg)
	paymentService := services.NewPaymentService(bookingRepo, gateway, cfg.Payment.Currency, logg)
	reviewService := services.NewReviewService(reviewRepo, bookingRepo, tripRepo, driverRepo, logg)
	tripService := services.NewTripService(tripRepo, bookingRepo, vehicleRepo, driverRepo, redisCache, logg)
	fleetService := services.NewFleetService(vehicleRepo, driverRepo, logg)
	userService := services.NewUserService(userRepo, cfg.Security.JWTSecret, logg)

	// Handlers
	bookingHandler := handlers.NewBookingHandler(bookingService)
	tripHandler := handlers.NewTripHandler(tripService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	reviewHandler := handlers.NewReviewHandler(reviewService)
	fleetHandler := handlers.NewFleetHandler(fleetService)
	authHandler := handlers.NewAuthHandler(userService)

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware(cfg.Security.CORSAllowedOrigins))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware(logg))
	if len(cfg.Security.TrustedProxies) > 0 {
		if err := router.SetTrustedProxies(cfg.Security.TrustedProxies); err != nil {
			logg.WithError(err).Fatal("invalid trusted proxies")
		}
	}

	v1 := router.Group("/api/v1")
	{
		routes.SetupTripRoutes(v1, cfg.Security.JWTSecret, tripHandler, bookingHandler)
		routes.SetupBookingRoutes(v1, cfg.Security.JWTSecret, bookingHandler)
		routes.SetupPaymentRoutes(v1, cfg.Security.JWTSecret, paymentHandler)
		routes.SetupReviewRoutes(v1, cfg.Security.JWTSecret, reviewHandler)
		routes.SetupFleetRoutes(v1, cfg.Security.JWTSecret, fleetHandler)
		routes.SetupAuthRoutes(v1, cfg.Security.JWTSecret, authHandler)
	}

	router.GET("/health", func(c *gin.Context) {
		status := http.StatusOK
		body := gin.H{"status": "healthy", "version": cfg.App.Version}
		if err := db.Ping(); err != nil {
			status = http.StatusServiceUnavailable
			body["status"] = "degraded"
		}
		c.JSON(status, body)
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.App.Port),
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logg.WithField("port", cfg.App.Port).Info("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logg.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	logg.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logg.WithError(err).Error("forced shutdown")
	}
}
