package app

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	apiHTTP "agency-pulse/internal/controller/http"
	"agency-pulse/internal/enforcer"
	"agency-pulse/internal/platform"
	"agency-pulse/internal/repo/persistent"
	"agency-pulse/internal/usecase"
	"agency-pulse/pkg/config"
	"agency-pulse/pkg/jwt"
	"agency-pulse/pkg/logger"
	"agency-pulse/pkg/middleware"
	"agency-pulse/pkg/queue"
	"agency-pulse/pkg/s3"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "agency-pulse/docs" // Swagger docs
)

func Run(cfg *config.Config, log *logger.Logger, db *gorm.DB, s3Client *s3.Client, queueClient *queue.Client, redisClient *redis.Client) {
	jwtService := jwt.NewService(cfg.JWTSecret)

	// Initialize repositories
	postRepo := persistent.NewPostRepository(db)
	quotaRepo := persistent.NewQuotaRepository(db)
	connRepo := persistent.NewConnectionRepository(db)
	subscriberRepo := persistent.NewSubscriberRepository(db)
	attemptRepo := persistent.NewAttemptRepository(db)

	// Initialize platform adapters
	adapters := platform.NewRegistry(platform.Config{
		FacebookBaseURL: cfg.FacebookAPIURL,
		LinkedInBaseURL: cfg.LinkedInAPIURL,
		XBaseURL:        cfg.XAPIURL,
		YouTubeBaseURL:  cfg.YouTubeAPIURL,
	})

	// Initialize use cases
	plans := usecase.PlanQuotas{
		Starter:      cfg.PlanStarterQuota,
		Growth:       cfg.PlanGrowthQuota,
		Professional: cfg.PlanProfessionalQuota,
		CycleDays:    cfg.QuotaCycleDays,
	}
	quotaUseCase := usecase.NewQuotaUseCase(quotaRepo, subscriberRepo, redisClient, plans, log)
	publishUseCase := usecase.NewPublishUseCase(postRepo, connRepo, subscriberRepo, attemptRepo, quotaUseCase, adapters, queueClient, log)
	postUseCase := usecase.NewPostUseCase(postRepo, connRepo, subscriberRepo, attemptRepo, s3Client, log)

	// Initialize HTTP handlers
	postHandler := apiHTTP.NewPostHandler(postUseCase, publishUseCase, log)
	quotaHandler := apiHTTP.NewQuotaHandler(quotaUseCase, log)
	connectionHandler := apiHTTP.NewConnectionHandler(postUseCase, log)

	// Background enforcer
	enf := enforcer.New(postRepo, connRepo, attemptRepo, publishUseCase, enforcer.Config{
		BatchSize:   cfg.EnforcerBatchSize,
		Workers:     cfg.EnforcerWorkers,
		MaxAttempts: cfg.EnforcerMaxAttempts,
	}, log)
	scheduler, err := enforcer.NewScheduler(cfg.EnforcerInterval, enf.Tick, log)
	if err != nil {
		log.Error("Failed to create enforcer scheduler: %v", err)
		panic(err)
	}
	scheduler.Start()

	// Setup router
	r := gin.Default()

	// CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://127.0.0.1:3000", "*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * 3600,
	}))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Swagger documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(jwtService))
	api.Use(middleware.RateLimitMiddleware(redisClient, 100, time.Minute))

	{
		api.POST("/posts", postHandler.CreatePost)
		api.GET("/posts", postHandler.ListPosts)
		api.GET("/posts/:id", postHandler.GetPost)
		api.GET("/posts/:id/attempts", postHandler.ListAttempts)
		api.POST("/posts/:id/approve", postHandler.ApprovePost)
		api.POST("/posts/:id/publish", postHandler.PublishPost)
		api.POST("/posts/publish-batch", postHandler.PublishBatch)

		api.GET("/quota", quotaHandler.GetQuota)
		api.POST("/quota/snapshots", quotaHandler.CreateSnapshot)
		api.POST("/quota/snapshots/:id/restore", quotaHandler.RestoreSnapshot)

		api.GET("/connections", connectionHandler.ListConnections)
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// Start server in a goroutine
	go func() {
		log.Info("Publishing service starting on port %s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Failed to start server: %v", err)
			panic(err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down publishing service...")

	// Stop the enforcer first so no publish is in flight during teardown
	scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Shutdown server
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	// Close database connection
	sqlDB, err := db.DB()
	if err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Error("Error closing database: %v", err)
		}
	}

	// Close Redis connection
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error("Error closing Redis: %v", err)
		}
	}

	// Close RabbitMQ connection
	if queueClient != nil {
		queueClient.Close()
	}

	log.Info("Publishing service exited")
}
