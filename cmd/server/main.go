package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"

	"github.com/PValeriyanka/PodcastBlogAPI/internal/cache"
	"github.com/PValeriyanka/PodcastBlogAPI/internal/config"
	"github.com/PValeriyanka/PodcastBlogAPI/internal/events"
	"github.com/PValeriyanka/PodcastBlogAPI/internal/handler"
	"github.com/PValeriyanka/PodcastBlogAPI/internal/infrastructure/database"
	"github.com/PValeriyanka/PodcastBlogAPI/internal/logger"
	"github.com/PValeriyanka/PodcastBlogAPI/internal/mailer"
	"github.com/PValeriyanka/PodcastBlogAPI/internal/metrics"
	"github.com/PValeriyanka/PodcastBlogAPI/internal/middleware"
	"github.com/PValeriyanka/PodcastBlogAPI/internal/repository"
	"github.com/PValeriyanka/PodcastBlogAPI/internal/service"
	"github.com/PValeriyanka/PodcastBlogAPI/internal/validator"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration",
			slog.String("error", err.Error()))
	}
	logger.Configure(cfg.LogLevel)

	// Connect to database
	pool, err := database.NewPostgres(context.Background(), cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database",
			slog.String("error", err.Error()))
	}
	defer pool.Close()

	// Start database pool metrics collector
	poolStatsCollector := metrics.NewPoolStatsCollector(pool)
	poolStatsCollector.Start(15 * time.Second)
	defer poolStatsCollector.Stop()

	// Optional collaborators: feed cache and event publishing degrade to
	// disabled when unconfigured.
	var feedCache service.FeedCache
	if cfg.RedisAddr != "" {
		c, err := cache.NewFeedCache(context.Background(), cfg.RedisAddr, cfg.RedisPassword, cfg.FeedCacheTTL)
		if err != nil {
			logger.Fatal("Failed to connect to redis",
				slog.String("error", err.Error()))
		}
		defer c.Close()
		feedCache = c
	}

	var eventPublisher service.EventPublisher
	if cfg.NATSURL != "" {
		p, err := events.NewPublisher(cfg.NATSURL)
		if err != nil {
			logger.Fatal("Failed to connect to nats",
				slog.String("error", err.Error()))
		}
		defer p.Close()
		eventPublisher = p
	}

	var smtpMailer service.Mailer
	if cfg.SMTPHost != "" {
		smtpMailer = mailer.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPFrom)
	}

	// Initialize the engine
	uow := repository.NewPgxUnitOfWork(pool)
	v := validator.NewValidator()
	cleanup := service.NewCleanupGraph()

	notificationService := service.NewNotificationService(uow, smtpMailer, cleanup)
	tagService := service.NewTagService(uow, cleanup)
	postService := service.NewPostService(uow, v, tagService, notificationService, cleanup, feedCache, eventPublisher)
	commentService := service.NewCommentService(uow, v, notificationService, cleanup)
	userService := service.NewUserService(uow, v, notificationService, cleanup, feedCache, eventPublisher)
	podcastService := service.NewPodcastService(uow, v, cleanup)

	// Background sweep: publishes due scheduled posts even when nobody
	// lists a feed.
	sweeper := cron.New()
	if _, err := sweeper.AddFunc(cfg.PublishSweepSpec, func() {
		n, err := postService.PublishDue(context.Background())
		if err != nil {
			logger.Error("Scheduled publish sweep failed",
				slog.String("error", err.Error()))
			return
		}
		if n > 0 {
			logger.Info("Scheduled publish sweep",
				slog.Int("published", n))
		}
	}); err != nil {
		logger.Fatal("Invalid publish sweep spec",
			slog.String("spec", cfg.PublishSweepSpec),
			slog.String("error", err.Error()))
	}
	sweeper.Start()
	defer sweeper.Stop()

	// Initialize handlers
	postHandler := handler.NewPostHandler(postService)
	commentHandler := handler.NewCommentHandler(commentService)
	userHandler := handler.NewUserHandler(userService)
	tagHandler := handler.NewTagHandler(tagService)
	notificationHandler := handler.NewNotificationHandler(notificationService)
	podcastHandler := handler.NewPodcastHandler(podcastService)
	healthHandler := handler.NewHealthHandler(pool)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Metrics())
	router.Use(middleware.Identity())
	router.Use(gin.Logger())

	// Health and metrics endpoints
	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)
	router.GET("/live", healthHandler.Live)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		posts := v1.Group("/posts")
		{
			posts.GET("", postHandler.ListFeed)
			posts.POST("", postHandler.CreatePost)
			posts.GET("/:id", postHandler.GetPost)
			posts.PUT("/:id", postHandler.UpdatePost)
			posts.DELETE("/:id", postHandler.DeletePost)
			posts.POST("/:id/like", userHandler.ToggleLike)
			posts.GET("/:id/comments", commentHandler.ListByPost)
		}

		comments := v1.Group("/comments")
		{
			comments.POST("", commentHandler.CreateComment)
			comments.GET("/:id", commentHandler.GetComment)
			comments.GET("/:id/replies", commentHandler.ListReplies)
			comments.POST("/:id/publish", commentHandler.PublishComment)
			comments.DELETE("/:id", commentHandler.DeleteComment)
		}

		users := v1.Group("/users")
		{
			users.GET("", userHandler.ListUsers)
			users.GET("/:id", userHandler.GetUser)
			users.PUT("/:id", userHandler.UpdateUser)
			users.PUT("/:id/role", userHandler.UpdateRole)
			users.DELETE("/:id", userHandler.DeleteUser)
			users.POST("/:id/subscribe", userHandler.ToggleSubscription)
		}

		tags := v1.Group("/tags")
		{
			tags.GET("", tagHandler.ListTags)
			tags.POST("", tagHandler.CreateTag)
			tags.GET("/:id", tagHandler.GetTag)
			tags.DELETE("/:id", tagHandler.DeleteTag)
		}

		notifications := v1.Group("/notifications")
		{
			notifications.GET("", notificationHandler.ListNotifications)
			notifications.GET("/:id", notificationHandler.GetNotification)
			notifications.POST("/:id/read", notificationHandler.MarkRead)
			notifications.DELETE("/:id", notificationHandler.DeleteNotification)
		}

		podcasts := v1.Group("/podcasts")
		{
			podcasts.POST("", podcastHandler.CreatePodcast)
			podcasts.GET("/:id", podcastHandler.GetPodcast)
			podcasts.PUT("/:id", podcastHandler.UpdatePodcast)
			podcasts.DELETE("/:id", podcastHandler.DeletePodcast)
			podcasts.POST("/:id/listen", podcastHandler.Listen)
		}
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		logger.Info("Starting server",
			slog.String("port", cfg.ServerPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server",
				slog.String("error", err.Error()))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server")

	// Shutdown HTTP server
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error",
			slog.String("error", err.Error()))
	}

	logger.Info("Server exited")
}
