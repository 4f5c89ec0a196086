package main

import (
	"face-animation/pkg/cache"
	"face-animation/pkg/config"
	"face-animation/pkg/database"
	"face-animation/pkg/logger"
	"face-animation/pkg/queue"
	"face-animation/pkg/s3"
	studioApp "face-animation/services/studio/internal/app"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.ReleaseMode)
}

// @title           Face Animation Studio API
// @version         1.0
// @description     Avatars, expressions and animations for the face animation studio
// @termsOfService  http://swagger.io/terms/

// @contact.name   API Support
// @contact.url    http://www.swagger.io/support
// @contact.email  support@swagger.io

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:5000
// @BasePath  /api

// @securityDefinitions.apikey SessionCookie
// @in cookie
// @name session
// @description Session cookie set by /login.

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	if cfg.HasDefaultSecret() {
		panic("JWT_SECRET must be set in environment variables")
	}

	log := logger.New()
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		panic(err)
	}

	// Migrations are handled by goose - see cmd/migrate/main.go

	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Error("Failed to connect to redis: %v (sessions are not revocable, login is not rate limited)", err)
		redisClient = nil
	}

	s3Client, err := s3.NewClient(cfg)
	if err != nil {
		log.Error("Failed to create S3 client: %v", err)
		panic(err)
	}

	queueClient, err := queue.NewRabbitMQClient(cfg, log)
	if err != nil {
		log.Error("Failed to connect to RabbitMQ: %v (rendering in-process)", err)
		queueClient = nil
	}

	studioApp.Run(cfg, log, db, s3Client, queueClient, redisClient)
}
