package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"face-animation/pkg/jwt"
	"face-animation/pkg/logger"
	"face-animation/services/studio/internal/entity"
	"face-animation/services/studio/internal/repo/persistent"

	"golang.org/x/crypto/bcrypt"
)

type AuthUseCase interface {
	Signup(ctx context.Context, fullname, email, password string) (*entity.User, error)
	Login(ctx context.Context, email, password string) (*entity.User, string, error)
	Logout(ctx context.Context, session *jwt.Claims) error
	GetProfile(ctx context.Context, userID string) (*entity.User, error)
	UpdateProfile(ctx context.Context, userID, fullname, email string) (*entity.User, error)
}

type authUseCase struct {
	userRepo   persistent.UserRepository
	jwtService *jwt.Service
	sessions   SessionRevoker
	logger     *logger.Logger
}

func NewAuthUseCase(
	userRepo persistent.UserRepository,
	jwtService *jwt.Service,
	sessions SessionRevoker,
	logger *logger.Logger,
) AuthUseCase {
	return &authUseCase{
		userRepo:   userRepo,
		jwtService: jwtService,
		sessions:   sessions,
		logger:     logger,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (uc *authUseCase) Signup(ctx context.Context, fullname, email, password string) (*entity.User, error) {
	fullname = strings.TrimSpace(fullname)
	email = normalizeEmail(email)
	if fullname == "" || email == "" || password == "" {
		return nil, ErrAllFieldsRequired
	}

	if _, err := uc.userRepo.GetByEmail(email); err == nil {
		return nil, ErrEmailExists
	} else if !errors.Is(err, persistent.ErrNotFound) {
		uc.logger.Error("Failed to look up user %s: %v", email, err)
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		uc.logger.Error("Failed to hash password: %v", err)
		return nil, err
	}

	user := &entity.User{
		Fullname:           fullname,
		Email:              email,
		Password:           string(hashedPassword),
		Role:               entity.RoleUser,
		SubscriptionStatus: entity.SubscriptionNone,
	}

	if err := uc.userRepo.Create(user); err != nil {
		uc.logger.Error("Failed to create user: %v", err)
		return nil, err
	}

	user.Password = ""
	return user, nil
}

func (uc *authUseCase) Login(ctx context.Context, email, password string) (*entity.User, string, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, "", ErrCredentialsRequired
	}

	user, err := uc.userRepo.GetByEmail(email)
	if err != nil {
		if !errors.Is(err, persistent.ErrNotFound) {
			uc.logger.Error("Failed to look up user %s: %v", email, err)
			return nil, "", err
		}
		return nil, "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	if user.SubscriptionStatus == entity.SubscriptionSuspended {
		return nil, "", ErrAccountSuspended
	}

	token, err := uc.jwtService.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		uc.logger.Error("Failed to generate token: %v", err)
		return nil, "", err
	}

	user.Password = ""
	return user, token, nil
}

func (uc *authUseCase) Logout(ctx context.Context, session *jwt.Claims) error {
	if session == nil || session.ExpiresAt == nil {
		return nil
	}
	if err := uc.sessions.Revoke(ctx, session.ID, time.Until(session.ExpiresAt.Time)); err != nil {
		uc.logger.Error("Failed to revoke session %s: %v", session.ID, err)
		return err
	}
	return nil
}

func (uc *authUseCase) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, persistent.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	user.Password = ""
	return user, nil
}

// UpdateProfile changes the name and email; blank values keep the stored ones.
func (uc *authUseCase) UpdateProfile(ctx context.Context, userID, fullname, email string) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, persistent.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if fullname = strings.TrimSpace(fullname); fullname != "" {
		user.Fullname = fullname
	}
	if email = normalizeEmail(email); email != "" && email != user.Email {
		if _, err := uc.userRepo.GetByEmail(email); err == nil {
			return nil, ErrEmailExists
		} else if !errors.Is(err, persistent.ErrNotFound) {
			return nil, err
		}
		user.Email = email
	}

	if err := uc.userRepo.Update(user); err != nil {
		uc.logger.Error("Failed to update user %s: %v", userID, err)
		return nil, err
	}

	user.Password = ""
	return user, nil
}
