package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"gorent/internal/config"
	"gorent/internal/handlers"
	"gorent/internal/middleware"
	"gorent/internal/repositories/mongodb"
	"gorent/internal/services"
	"gorent/internal/utils"
	"gorent/pkg/cache"
	"gorent/pkg/database"
	"gorent/pkg/logger"
	"gorent/pkg/payment"
	"gorent/pkg/storage"
	"gorent/routes"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger, err := logger.NewLogger(&logger.Config{
		Level:      logger.LogLevel(cfg.App.LogLevel),
		Format:     "json",
		Output:     "stdout",
		TimeFormat: time.RFC3339,
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
		appLogger.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer db.Close()

	indexCtx, cancelIndex := context.WithTimeout(context.Background(), 30*time.Second)
	if err := db.EnsureIndexes(indexCtx); err != nil {
		appLogger.Fatalf("Failed to create indexes: %v", err)
	}
	cancelIndex()

	var redisCache *cache.RedisCache
	if cfg.Redis.Enabled {
		redisCache, err = cache.NewRedisCache(&cache.Config{
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
			appLogger.Warnf("Redis unavailable, continuing without cache: %v", err)
			redisCache = nil
		} else {
			defer redisCache.Close()
		}
	}

	paymentProvider := buildPaymentProvider(cfg, appLogger)
	storageProvider := buildStorageProvider(cfg, appLogger)

	// A nil interface disables read-through caching in the repositories.
	var repoCache mongodb.CacheService
	if redisCache != nil {
		repoCache = redisCache
	}
	userRepo := mongodb.NewUserRepository(db.Database, repoCache)
	carRepo := mongodb.NewCarRepository(db.Database, repoCache)
	bookingRepo := mongodb.NewBookingRepository(db.Database)
	reviewRepo := mongodb.NewReviewRepository(db.Database)

	// Services
	authService := services.NewAuthService(userRepo, cfg, appLogger)
	carService := services.NewCarService(carRepo, bookingRepo, storageProvider, appLogger)
	bookingService := services.NewBookingService(bookingRepo, carRepo, db, appLogger)
	paymentService := services.NewPaymentService(bookingRepo, userRepo, bookingService, paymentProvider, cfg.App.Currency, appLogger)
	reviewService := services.NewReviewService(reviewRepo, bookingRepo, carRepo, appLogger)
	businessService := services.NewBusinessService(carRepo, bookingRepo, reviewRepo, userRepo, appLogger)

	h := &routes.Handlers{
		Auth:     handlers.NewAuthHandler(authService),
		Car:      handlers.NewCarHandler(carService),
		Booking:  handlers.NewBookingHandler(bookingService),
		Payment:  handlers.NewPaymentHandler(paymentService),
		Review:   handlers.NewReviewHandler(reviewService),
		Business: handlers.NewBusinessHandler(businessService),
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	if len(cfg.Security.TrustedProxies) > 0 {
		router.SetTrustedProxies(cfg.Security.TrustedProxies)
	}

	router.Use(middleware.RecoveryMiddleware(appLogger))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware(appLogger))
	router.Use(middleware.CORSMiddleware(cfg.Security.CORSAllowedOrigins))
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.BodySizeLimit(utils.MaxRequestBodySize))
	router.Use(middleware.RateLimit(redisCache, cfg.Security.RateLimitRequests, cfg.Security.RateLimitWindow))

	v1 := router.Group("/api/v1")
	routes.Setup(v1, h, cfg.Security.JWTSecret)

	// Locally stored uploads are served by the app itself.
	if cfg.Storage.Provider == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	router.GET("/health", func(c *gin.Context) {
		status := http.StatusOK
		health := "healthy"
		dbOK := db.Ping() == nil
		if !dbOK {
			status = http.StatusServiceUnavailable
			health = "degraded"
		}
		c.JSON(status, gin.H{
			"status":   health,
			"version":  cfg.App.Version,
			"database": dbOK,
		})
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.App.Host, cfg.App.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		appLogger.Infof("Starting server on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Errorf("Forced shutdown: %v", err)
	}
}

func buildPaymentProvider(cfg *config.Config, log *logger.Logger) payment.Provider {
	if cfg.Payment.Provider == "stripe" && cfg.Payment.StripeSecretKey != "" {
		return payment.NewStripeProvider(cfg.Payment.StripeSecretKey)
	}
	log.Warn("Using mock payment provider")
	return payment.NewMockProvider()
}

func buildStorageProvider(cfg *config.Config, log *logger.Logger) storage.Provider {
	if cfg.Storage.Provider == "s3" && cfg.Storage.S3Bucket != "" {
		s3Storage, err := storage.NewAWSS3Storage(cfg.Storage.S3Region, cfg.Storage.S3Bucket, cfg.Storage.CDNDomain)
		if err == nil {
			return s3Storage
		}
		log.Warnf("S3 storage unavailable, falling back to local: %v", err)
	}

	localStorage, err := storage.NewLocalStorage(cfg.Storage.LocalPath, cfg.Storage.BaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize local storage: %v", err)
	}
	return localStorage
}
