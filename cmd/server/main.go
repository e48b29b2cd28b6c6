package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/socialfusion/backend/internal/affinity"
	"github.com/socialfusion/backend/internal/auth"
	"github.com/socialfusion/backend/internal/cache"
	"github.com/socialfusion/backend/internal/config"
	"github.com/socialfusion/backend/internal/database"
	"github.com/socialfusion/backend/internal/handlers"
	"github.com/socialfusion/backend/internal/logger"
	"github.com/socialfusion/backend/internal/metrics"
	"github.com/socialfusion/backend/internal/middleware"
	"github.com/socialfusion/backend/internal/models"
	"github.com/socialfusion/backend/internal/notify"
	"github.com/socialfusion/backend/internal/repository"
	"github.com/socialfusion/backend/internal/storage"
	"github.com/socialfusion/backend/internal/stories"
)

func main() {
	// Missing .env is fine, config comes from the environment in production.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	if err := logger.Initialize(cfg.LogLevel, cfg.LogFile); err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer logger.Close()

	logger.InfoWithFields("SocialFusion server starting")

	metrics.Initialize()

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := database.Initialize(); err != nil {
		logger.FatalWithFields("Failed to initialize database", err)
	}
	defer database.Close()

	if err := database.Migrate(); err != nil {
		logger.FatalWithFields("Failed to run migrations", err)
	}

	// Redis is optional in development. Rate limiting and caching degrade
	// to pass-through when it is absent.
	redisClient, err := cache.NewRedisClient(cfg.RedisHost, cfg.RedisPort, cfg.RedisPassword)
	if err != nil {
		logger.Warn("Redis unavailable, continuing without caching and rate limiting",
			zap.Error(err),
		)
		redisClient = nil
	} else {
		defer redisClient.Close()
	}

	authService := auth.NewService(
		cfg.JWTSecret,
		cfg.GoogleClientID,
		cfg.GoogleClientSecret,
		cfg.FacebookClientID,
		cfg.FacebookClientSecret,
	)

	emitter := notify.NewEmitter()
	users := repository.NewUserRepository(database.DB)
	social := repository.NewSocialRepository(database.DB, emitter)
	content := repository.NewContentRepository(database.DB, emitter)
	notifications := repository.NewNotificationRepository(database.DB)

	suggestionEngine := affinity.NewEngine(users, affinity.NewProfileScorer(), redisClient)

	h := handlers.NewHandlers(authService, users, social, content, notifications)
	h.SetSuggestionEngine(suggestionEngine)

	var uploader *storage.S3Uploader
	if cfg.AWSBucket != "" {
		uploader, err = storage.NewS3Uploader(cfg.AWSRegion, cfg.AWSBucket, cfg.CDNBaseURL)
		if err != nil {
			logger.FatalWithFields("Failed to initialize S3 uploader", err)
		}
		if err := uploader.CheckBucketAccess(context.Background()); err != nil {
			logger.Warn("S3 bucket access check failed, uploads may not work",
				zap.Error(err),
			)
		}
		h.SetMediaUploader(uploader)
	} else {
		logger.Warn("AWS_BUCKET not set, media uploads disabled")
	}

	var fileDeleter stories.FileDeleter
	if uploader != nil {
		fileDeleter = uploader
	}
	storyCleanup := stories.NewCleanupService(content, fileDeleter, cfg.StoryCleanupInterval)
	storyCleanup.Start()
	defer storyCleanup.Stop()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.GinLoggerMiddleware())
	r.Use(middleware.MetricsMiddleware())
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"*"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "X-Request-ID"}
	r.Use(cors.New(corsConfig))

	r.GET("/health", func(c *gin.Context) {
		status := "ok"
		code := http.StatusOK
		if err := database.Health(); err != nil {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"status":    status,
			"timestamp": time.Now().UTC(),
			"service":   "socialfusion-backend",
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		{
			// Fixed-window limiter keeps credential stuffing in check.
			authGroup.Use(middleware.RedisRateLimitMiddleware(20, time.Minute))

			authGroup.POST("/register", h.Register)
			authGroup.POST("/login", h.Login)

			authGroup.GET("/google", h.GoogleLogin)
			authGroup.GET("/google/callback", h.GoogleCallback)
			authGroup.GET("/facebook", h.FacebookLogin)
			authGroup.GET("/facebook/callback", h.FacebookCallback)

			authGroup.GET("/me", h.AuthMiddleware(), h.Me)
		}

		usersGroup := api.Group("/users")
		{
			usersGroup.Use(h.AuthMiddleware())
			usersGroup.GET("/search", h.SearchUsers)
			usersGroup.GET("/suggested", h.GetSuggestedUsers)
			usersGroup.GET("/:id/suggested", h.GetSuggestedUsers)
			usersGroup.PUT("/me/profile", h.UpdateProfile)

			usersGroup.GET("/:id", h.GetUser)
			usersGroup.GET("/:id/posts", h.GetUserPosts)
			usersGroup.GET("/:id/videos", h.GetUserVideos)
			usersGroup.GET("/:id/stories", h.GetUserStories)
			usersGroup.GET("/:id/followers", h.GetFollowers)
			usersGroup.GET("/:id/following", h.GetFollowing)
			usersGroup.POST("/:id/follow", h.FollowUser)
			usersGroup.POST("/:id/unfollow", h.UnfollowUser)
		}

		posts := api.Group("/posts")
		{
			posts.Use(h.AuthMiddleware())
			posts.POST("", h.CreatePost)
			posts.GET("/:id", h.GetPost)
			posts.PUT("/:id", h.UpdatePost)
			posts.DELETE("/:id", h.DeletePost)
			posts.POST("/:id/like", h.LikeContent(models.ContentKindPost))
			posts.POST("/:id/unlike", h.UnlikeContent(models.ContentKindPost))
			posts.GET("/:id/likes", h.GetContentLikes(models.ContentKindPost))
			posts.POST("/:id/comments", h.CreateComment(models.ContentKindPost))
			posts.GET("/:id/comments", h.GetComments(models.ContentKindPost))
		}

		videos := api.Group("/videos")
		{
			videos.Use(h.AuthMiddleware())
			videos.POST("", h.CreateVideo)
			videos.GET("/:id", h.GetVideo)
			videos.DELETE("/:id", h.DeleteVideo)
			videos.POST("/:id/share", h.ShareVideo)
			videos.POST("/:id/like", h.LikeContent(models.ContentKindVideo))
			videos.POST("/:id/unlike", h.UnlikeContent(models.ContentKindVideo))
			videos.GET("/:id/likes", h.GetContentLikes(models.ContentKindVideo))
			videos.POST("/:id/comments", h.CreateComment(models.ContentKindVideo))
			videos.GET("/:id/comments", h.GetComments(models.ContentKindVideo))
		}

		comments := api.Group("/comments")
		{
			comments.Use(h.AuthMiddleware())
			comments.DELETE("/:id", h.DeleteComment)
		}

		storiesGroup := api.Group("/stories")
		{
			storiesGroup.Use(h.AuthMiddleware())
			storiesGroup.POST("", h.CreateStory)
			storiesGroup.GET("/:id", h.GetStory)
			storiesGroup.POST("/:id/view", h.ViewStory)
			storiesGroup.GET("/:id/viewers", h.GetStoryViewers)
		}

		feed := api.Group("/feed")
		{
			feed.Use(h.AuthMiddleware())
			feed.Use(middleware.ResponseCacheMiddleware(30 * time.Second))
			feed.GET("/posts", h.GetFeed)
			feed.GET("/videos", h.GetVideoFeed)
			feed.GET("/stories", h.GetStories)
		}

		notificationsGroup := api.Group("/notifications")
		{
			notificationsGroup.Use(h.AuthMiddleware())
			notificationsGroup.GET("", h.GetNotifications)
			notificationsGroup.GET("/unread", h.GetUnreadCount)
			notificationsGroup.POST("/read", h.MarkNotificationsRead)
			notificationsGroup.POST("/read-all", h.MarkAllNotificationsRead)
			notificationsGroup.POST("/:id/read", h.MarkNotificationRead)
		}

		uploads := api.Group("/uploads")
		{
			uploads.Use(h.AuthMiddleware())
			uploads.POST("/media", h.UploadMedia)
			uploads.POST("/profile", h.UploadProfilePicture)
		}
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		logger.InfoWithFields("Server listening", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.FatalWithFields("Failed to start server", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.InfoWithFields("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.ErrorWithFields("Server forced to shutdown", err)
	}

	logger.InfoWithFields("Server exited")
}
