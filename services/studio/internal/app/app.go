package internal

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"face-animation/pkg/cache"
	"face-animation/pkg/config"
	"face-animation/pkg/jwt"
	"face-animation/pkg/logger"
	"face-animation/pkg/metrics"
	"face-animation/pkg/middleware"
	"face-animation/pkg/queue"
	"face-animation/pkg/render"
	"face-animation/pkg/s3"
	studioHTTP "face-animation/services/studio/internal/controller/http"
	"face-animation/services/studio/internal/repo/persistent"
	"face-animation/services/studio/internal/usecase"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "face-animation/services/studio/docs" // Swagger docs
)

// Handlers groups the HTTP handlers mounted by NewRouter.
type Handlers struct {
	Auth    *studioHTTP.AuthHandler
	Studio  *studioHTTP.StudioHandler
	Account *studioHTTP.AccountHandler
	Status  *studioHTTP.StatusHandler
	// Metrics, when set, instruments every route and serves /metrics.
	Metrics *metrics.Metrics
}

// NewRouter mounts the studio API. redisClient may be nil, which disables
// login rate limiting and session revocation checks.
func NewRouter(cfg *config.Config, jwtService *jwt.Service, redisClient *redis.Client, h Handlers) *gin.Engine {
	r := gin.Default()
	r.MaxMultipartMemory = cfg.MaxUploadBytes
	if h.Metrics != nil {
		r.Use(h.Metrics.GinMiddleware())
	}

	// CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Split(cfg.AllowedOrigins, ","),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * 3600,
	}))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	if h.Metrics != nil {
		r.GET("/metrics", gin.WrapH(h.Metrics.Handler()))
	}

	// Swagger documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.GET("/static/*path", h.Studio.ServeMedia)

	api := r.Group("/api")

	// Public routes
	{
		api.POST("/signup", h.Auth.Signup)
		api.POST("/login", middleware.RateLimitMiddleware(redisClient, cfg.LoginRateLimit, cfg.RateLimitWindow), h.Auth.Login)
		api.POST("/logout", middleware.OptionalSession(jwtService, cfg.SessionCookie), h.Auth.Logout)
		api.GET("/expressions", h.Studio.ListExpressions)
	}

	// Protected routes
	protected := api.Group("")
	protected.Use(middleware.SessionMiddleware(jwtService, cache.NewSessionStore(redisClient), cfg.SessionCookie))
	{
		protected.GET("/profile", h.Auth.GetProfile)
		protected.PUT("/profile", h.Auth.UpdateProfile)

		protected.POST("/avatar/upload", h.Studio.UploadAvatar)
		protected.GET("/avatars", h.Studio.ListAvatars)
		protected.DELETE("/avatar/:id", h.Studio.DeleteAvatar)

		protected.POST("/animation/generate", h.Studio.GenerateAnimation)
		protected.POST("/animation/drive", middleware.RequireRole("subscriber", "admin"), h.Studio.DriveAnimation)
		protected.POST("/animation/:id/save", h.Studio.SaveAnimation)
		protected.DELETE("/animation/:id", h.Studio.DeleteAnimation)
		protected.GET("/animations", h.Studio.ListAnimations)
		protected.GET("/animations/ws", h.Status.Stream)

		protected.POST("/subscription/update", h.Account.UpdateSubscription)
		protected.POST("/subscription/cancel", h.Account.CancelSubscription)
	}

	// Admin routes
	admin := protected.Group("/admin")
	admin.Use(middleware.RequireRole("admin"))
	{
		admin.GET("/users", h.Account.ListUsers)
		admin.POST("/users", h.Account.CreateUser)
		admin.PUT("/user/:id", h.Account.UpdateUser)
		admin.DELETE("/user/:id", h.Account.DeleteUser)
		admin.POST("/expressions", h.Studio.AddExpression)
		admin.DELETE("/expression/:id", h.Studio.DeleteExpression)
	}

	return r
}

// Run serves the studio API until SIGINT or SIGTERM. redisClient and
// queueClient may be nil; without a queue animations render in-process.
func Run(cfg *config.Config, log *logger.Logger, db *gorm.DB, s3Client *s3.Client, queueClient *queue.Client, redisClient *redis.Client) {
	jwtService := jwt.NewService(cfg.JWTSecret)
	sessions := cache.NewSessionStore(redisClient)

	// Initialize repositories
	userRepo := persistent.NewUserRepository(db)
	avatarRepo := persistent.NewAvatarRepository(db)
	expressionRepo := persistent.NewExpressionRepository(db)
	animationRepo := persistent.NewAnimationRepository(db)

	m := metrics.New("studio")

	var publisher usecase.TaskPublisher
	if queueClient != nil {
		publisher = queueClient
	}

	// Initialize use cases
	authUseCase := usecase.NewAuthUseCase(userRepo, jwtService, sessions, log)
	studioUseCase := usecase.NewStudioUseCase(
		avatarRepo, expressionRepo, animationRepo,
		s3Client, publisher, m.InstrumentRenderer(render.NewRenderer(s3Client, log)), log,
	)
	subscriptionUseCase := usecase.NewSubscriptionUseCase(userRepo, jwtService, authUseCase, log)
	adminUseCase := usecase.NewAdminUseCase(userRepo, avatarRepo, animationRepo, s3Client, sessions, log)

	// Initialize HTTP handlers
	cookie := studioHTTP.CookieConfig{Name: cfg.SessionCookie, Secure: cfg.CookieSecure}
	r := NewRouter(cfg, jwtService, redisClient, Handlers{
		Auth:    studioHTTP.NewAuthHandler(authUseCase, cookie, log),
		Studio:  studioHTTP.NewStudioHandler(studioUseCase, cfg.MaxUploadBytes, log),
		Account: studioHTTP.NewAccountHandler(subscriptionUseCase, adminUseCase, cookie, log),
		Status:  studioHTTP.NewStatusHandler(cache.NewStatusFeed(redisClient), strings.Split(cfg.AllowedOrigins, ","), log),
		Metrics: m,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// Start server in a goroutine
	go func() {
		log.Info("Studio service starting on port %s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Failed to start server: %v", err)
			panic(err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down studio service...")

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

	// Close Redis connection if it was initialized
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error("Error closing Redis: %v", err)
		}
	}

	// Close RabbitMQ connection if it was initialized
	if queueClient != nil {
		queueClient.Close()
	}

	log.Info("Studio service exited")
}
