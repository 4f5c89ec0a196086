package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"face-animation/pkg/config"
	"face-animation/pkg/database"
	"face-animation/pkg/logger"
	"face-animation/pkg/models"
	"face-animation/pkg/render"
	"face-animation/pkg/s3"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type testAccount struct {
	email    string
	fullname string
	password string
	role     models.UserRole
	status   models.SubscriptionStatus
}

// testAccounts match the login page's test credentials.
var testAccounts = []testAccount{
	{"user@test.com", "Test User", "1234", models.RoleUser, models.SubscriptionNone},
	{"admin@test.com", "Test Admin", "admin", models.RoleAdmin, models.SubscriptionNone},
	{"guest@test.com", "Test Guest", "guest", models.RoleGuest, models.SubscriptionNone},
	{"subscriber@test.com", "Test Subscriber", "sub123", models.RoleSubscriber, models.SubscriptionActive},
}

func main() {
	var clipsDir string
	flag.StringVar(&clipsDir, "clips", "", "directory with <expression>.mp4 driving clips to upload")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	log := logger.New()
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		panic(err)
	}

	if err := seedUsers(db, log); err != nil {
		log.Error("Failed to seed users: %v", err)
		panic(err)
	}
	if err := seedExpressions(db, log); err != nil {
		log.Error("Failed to seed expressions: %v", err)
		panic(err)
	}

	if clipsDir != "" {
		s3Client, err := s3.NewClient(cfg)
		if err != nil {
			log.Error("Failed to create S3 client: %v", err)
			panic(err)
		}
		if err := uploadClips(context.Background(), s3Client, clipsDir, log); err != nil {
			log.Error("Failed to upload expression clips: %v", err)
			panic(err)
		}
	}

	log.Info("Database seeded successfully!")
}

func seedUsers(db *gorm.DB, log *logger.Logger) error {
	for _, account := range testAccounts {
		var existing models.User
		err := db.Where("email = ?", account.email).First(&existing).Error
		if err == nil {
			log.Info("User %s already exists, skipping", account.email)
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to look up user %s: %w", account.email, err)
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(account.password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
		user := &models.User{
			Fullname:           account.fullname,
			Email:              account.email,
			Password:           string(hashed),
			Role:               account.role,
			SubscriptionStatus: account.status,
		}
		if err := db.Create(user).Error; err != nil {
			return fmt.Errorf("failed to create user %s: %w", account.email, err)
		}
		log.Info("Created user: %s (%s)", user.Email, user.Role)
	}
	return nil
}

func seedExpressions(db *gorm.DB, log *logger.Logger) error {
	for _, name := range models.DefaultExpressions {
		expression := &models.Expression{Name: name}
		result := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "expression_name"}},
			DoNothing: true,
		}).Create(expression)
		if result.Error != nil {
			return fmt.Errorf("failed to seed expression %s: %w", name, result.Error)
		}
		if result.RowsAffected > 0 {
			log.Info("Created expression: %s", name)
		}
	}
	return nil
}

// uploadClips stores dir/<name>.mp4 under the key the renderer copies from.
// Missing clips are logged and skipped.
func uploadClips(ctx context.Context, store *s3.Client, dir string, log *logger.Logger) error {
	for _, name := range models.DefaultExpressions {
		path := filepath.Join(dir, name+".mp4")
		f, err := os.Open(path)
		if errors.Is(err, os.ErrNotExist) {
			log.Warn("No clip for expression %s at %s, skipping", name, path)
			continue
		}
		if err != nil {
			return err
		}

		key := render.ExpressionClip(name)
		_, err = store.UploadFile(ctx, key, f, render.ContentType)
		f.Close()
		if err != nil {
			return fmt.Errorf("failed to upload %s: %w", key, err)
		}
		log.Info("Uploaded %s", key)
	}
	return nil
}
