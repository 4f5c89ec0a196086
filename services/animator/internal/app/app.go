package internal

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"face-animation/pkg/cache"
	"face-animation/pkg/config"
	"face-animation/pkg/database"
	"face-animation/pkg/logger"
	"face-animation/pkg/metrics"
	"face-animation/pkg/queue"
	"face-animation/pkg/render"
	"face-animation/pkg/s3"
	animatorHTTP "face-animation/services/animator/internal/controller/http"
	"face-animation/services/animator/internal/repo/persistent"
	"face-animation/services/animator/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// renderTimeout bounds a single render, including the storage copy.
const renderTimeout = 2 * time.Minute

type App struct {
	cfg         *config.Config
	log         *logger.Logger
	db          *gorm.DB
	s3Client    *s3.Client
	queueClient *queue.Client
	redisClient *redis.Client
	httpServer  *http.Server
}

// NewApp connects the worker's dependencies. Unlike the studio, the animator
// cannot run without RabbitMQ. Redis is optional and only carries status events.
func NewApp(cfg *config.Config) (*App, error) {
	log := logger.New()

	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		return nil, err
	}

	s3Client, err := s3.NewClient(cfg)
	if err != nil {
		log.Error("Failed to create S3 client: %v", err)
		return nil, err
	}

	queueClient, err := queue.NewRabbitMQClient(cfg, log)
	if err != nil {
		log.Error("Failed to connect to RabbitMQ: %v", err)
		return nil, err
	}

	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Warn("Redis unavailable, render status events disabled: %v", err)
		redisClient = nil
	}

	return &App{
		cfg:         cfg,
		log:         log,
		db:          db,
		s3Client:    s3Client,
		queueClient: queueClient,
		redisClient: redisClient,
	}, nil
}

func (a *App) Run() error {
	// Initialize repositories
	animationRepo := persistent.NewAnimationRepository(a.db)

	m := metrics.New("animator")
	m.QueueDepth("animator", a.queueClient.QueueLength)

	// Initialize use cases
	renderUseCase := usecase.NewRenderUseCase(
		animationRepo,
		m.InstrumentRenderer(render.NewRenderer(a.s3Client, a.log)),
		cache.NewStatusFeed(a.redisClient),
		renderTimeout,
		a.log,
	)

	// Start consuming animation tasks
	err := a.queueClient.ConsumeAnimationTasks(func(task queue.AnimationTask) error {
		a.log.Info("[ANIMATOR] Received task %s (%s)", task.AnimationID, task.Type)
		return renderUseCase.HandleTask(context.Background(), task)
	})
	if err != nil {
		return fmt.Errorf("failed to start animation consumer: %w", err)
	}

	// Setup router
	r := gin.Default()
	r.Use(m.GinMiddleware())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/stats", animatorHTTP.NewStatsHandler(a.queueClient, a.log).GetStats)
	r.GET("/metrics", gin.WrapH(m.Handler()))

	a.httpServer = &http.Server{
		Addr:    ":" + a.cfg.ServerPort,
		Handler: r,
	}

	// Start server in a goroutine
	go func() {
		a.log.Info("Animator starting on port %s", a.cfg.ServerPort)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.log.Error("Failed to start server: %v", err)
		}
	}()

	return nil
}

// Wait blocks until SIGINT or SIGTERM.
func (a *App) Wait() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	a.log.Info("Shutting down animator...")
}

func (a *App) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Stop taking tasks first; unacked deliveries go back to the queue
	if a.queueClient != nil {
		a.queueClient.Close()
	}

	if a.httpServer != nil {
		if err := a.httpServer.Shutdown(ctx); err != nil {
			a.log.Error("Server forced to shutdown: %v", err)
		}
	}

	// Close database connection
	sqlDB, err := a.db.DB()
	if err == nil {
		if err := sqlDB.Close(); err != nil {
			a.log.Error("Error closing database: %v", err)
		}
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.log.Error("Error closing Redis: %v", err)
		}
	}

	a.log.Info("Animator exited")
	return nil
}
