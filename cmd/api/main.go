package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/orchids/fitcourse/internal/access"
	"github.com/orchids/fitcourse/internal/billing"
	"github.com/orchids/fitcourse/internal/config"
	"github.com/orchids/fitcourse/internal/database"
	"github.com/orchids/fitcourse/internal/handler"
	"github.com/orchids/fitcourse/internal/queue"
	"github.com/orchids/fitcourse/internal/repository/postgres"
	"github.com/orchids/fitcourse/internal/service"
	"github.com/orchids/fitcourse/pkg/jwt"
	"github.com/orchids/fitcourse/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Server.Environment, cfg.LogLevel)
	log.Info(context.Background(), "Starting fitcourse API", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
	})

	if err := database.Migrate(&cfg.Database); err != nil {
		log.Fatal(context.Background(), "Failed to run migrations", err, nil)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	dbPool, err := database.NewPool(ctx, &cfg.Database)
	cancel()
	if err != nil {
		log.Fatal(context.Background(), "Failed to initialize database", err, nil)
	}
	defer dbPool.Close()
	log.Info(context.Background(), "Database connection established", nil)

	redisClient, err := initRedis(cfg)
	if err != nil {
		log.Fatal(context.Background(), "Failed to initialize Redis", err, nil)
	}
	defer redisClient.Close()
	log.Info(context.Background(), "Redis connection established", nil)

	userRepo := postgres.NewPostgresUserRepository(dbPool)
	profileRepo := postgres.NewPostgresProfileRepository(dbPool)
	linkageRepo := postgres.NewPostgresLinkageRepository(dbPool)
	categoryRepo := postgres.NewPostgresCategoryRepository(dbPool)
	videoRepo := postgres.NewPostgresVideoRepository(dbPool)

	gate := access.Gate{AdminBypass: cfg.Billing.AdminBypassesGate}
	tokens := jwt.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenDuration, cfg.Auth.Issuer)

	var provider service.CheckoutProvider
	if cfg.Billing.Configured() {
		provider = billing.NewClient(cfg.Billing.APIKey)
	}

	authService := service.NewAuthService(userRepo, profileRepo, tokens, log)
	uploadService := service.NewUploadService(&cfg.Storage, log)
	categoryService := service.NewCategoryService(categoryRepo, gate, log)
	videoService := service.NewVideoService(videoRepo, categoryRepo, uploadService, gate, log)
	studentService := service.NewStudentService(linkageRepo, userRepo, gate, log)
	billingService := service.NewBillingService(provider, &cfg.Billing, log)

	queueClient := queue.NewQueueClient(cfg.Redis.Address(), log)
	defer queueClient.Close()

	authHandler := handler.NewAuthHandler(authService, log)
	categoryHandler := handler.NewCategoryHandler(categoryService, log)
	videoHandler := handler.NewVideoHandler(videoService, uploadService, log)
	studentHandler := handler.NewStudentHandler(studentService, log)
	billingHandler := handler.NewBillingHandler(billingService, queueClient, &cfg.Billing, log)

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestIDMiddleware())
	router.Use(LoggerMiddleware(log))
	router.Use(CORSMiddleware())

	router.MaxMultipartMemory = 32 << 20

	router.GET("/health", func(c *gin.Context) {
		ctx := c.Request.Context()

		dbHealthy := dbPool.Ping(ctx) == nil
		redisHealthy := redisClient.Ping(ctx).Err() == nil

		status := "healthy"
		httpStatus := http.StatusOK
		if !dbHealthy || !redisHealthy {
			status = "unhealthy"
			httpStatus = http.StatusServiceUnavailable
		}

		c.JSON(httpStatus, gin.H{
			"status": status,
			"checks": gin.H{
				"database": dbHealthy,
				"redis":    redisHealthy,
			},
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	router.Static("/uploads", cfg.Storage.UploadPath)

	authRequired := handler.AuthMiddleware(tokens, userRepo, log)

	api := router.Group("/api")
	{
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)
		api.GET("/auth/me", authRequired, authHandler.Me)
		api.PATCH("/auth/profile", authRequired, authHandler.UpdateProfile)

		categories := api.Group("/categories", authRequired)
		{
			categories.POST("", categoryHandler.Create)
			categories.GET("", categoryHandler.List)
			categories.GET("/:id", categoryHandler.Get)
			categories.PATCH("/:id", categoryHandler.Update)
			categories.DELETE("/:id", categoryHandler.Delete)
		}

		videos := api.Group("/videos", authRequired)
		{
			videos.POST("", videoHandler.Create)
			videos.GET("", videoHandler.List)
			videos.GET("/:id", videoHandler.Get)
			videos.PATCH("/:id", videoHandler.Update)
			videos.DELETE("/:id", videoHandler.Delete)
		}

		students := api.Group("/students", authRequired)
		{
			students.POST("", studentHandler.Add)
			students.GET("", studentHandler.List)
			students.DELETE("/:id", studentHandler.Remove)
		}

		api.POST("/billing/checkout", authRequired, billingHandler.Checkout)
		api.POST("/billing/portal", authRequired, billingHandler.Portal)
		// The provider authenticates with its signature, not a bearer token.
		api.POST("/billing/webhook", billingHandler.Webhook)
	}

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info(context.Background(), "HTTP server starting", map[string]interface{}{
			"address": cfg.Server.Address(),
		})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(context.Background(), "Failed to start server", err, nil)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info(context.Background(), "Shutting down server...", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal(context.Background(), "Server forced to shutdown", err, nil)
	}

	log.Info(context.Background(), "Server exited gracefully", nil)
}

func initRedis(cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Redis.Address(),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("unable to ping redis: %w", err)
	}

	return client, nil
}

func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)

		ctx := context.WithValue(c.Request.Context(), logger.RequestIDKey, requestID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func LoggerMiddleware(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)

		if raw != "" {
			path = path + "?" + raw
		}

		log.Info(c.Request.Context(), "HTTP request", map[string]interface{}{
			"method":     c.Request.Method,
			"path":       path,
			"status":     c.Writer.Status(),
			"latency_ms": latency.Milliseconds(),
			"client_ip":  c.ClientIP(),
			"user_agent": c.Request.UserAgent(),
		})
	}
}

func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
