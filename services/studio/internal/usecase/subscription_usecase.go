package usecase

import (
	"context"
	"errors"
	"strings"

	"face-animation/pkg/jwt"
	"face-animation/pkg/logger"
	"face-animation/services/studio/internal/entity"
	"face-animation/services/studio/internal/repo/persistent"
)

// SubscriptionUseCase changes a user's plan. The role is part of the session
// token, so every change ends the old session and issues a new token.
type SubscriptionUseCase interface {
	Update(ctx context.Context, session *jwt.Claims, plan string) (*entity.User, string, error)
	Cancel(ctx context.Context, session *jwt.Claims) (*entity.User, string, error)
}

type subscriptionUseCase struct {
	userRepo   persistent.UserRepository
	jwtService *jwt.Service
	auth       AuthUseCase
	logger     *logger.Logger
}

func NewSubscriptionUseCase(
	userRepo persistent.UserRepository,
	jwtService *jwt.Service,
	auth AuthUseCase,
	logger *logger.Logger,
) SubscriptionUseCase {
	return &subscriptionUseCase{
		userRepo:   userRepo,
		jwtService: jwtService,
		auth:       auth,
		logger:     logger,
	}
}

func (uc *subscriptionUseCase) Update(ctx context.Context, session *jwt.Claims, plan string) (*entity.User, string, error) {
	plan = strings.TrimSpace(plan)
	if plan == "" {
		return nil, "", ErrPlanRequired
	}

	return uc.change(ctx, session, func(user *entity.User) error {
		if user.SubscriptionStatus == entity.SubscriptionSuspended {
			return ErrAccountSuspended
		}
		if user.Role != entity.RoleAdmin {
			user.Role = entity.RoleSubscriber
		}
		user.SubscriptionStatus = entity.SubscriptionActive
		user.Plan = plan
		return nil
	})
}

func (uc *subscriptionUseCase) Cancel(ctx context.Context, session *jwt.Claims) (*entity.User, string, error) {
	return uc.change(ctx, session, func(user *entity.User) error {
		if user.SubscriptionStatus != entity.SubscriptionActive {
			return ErrNoActiveSubscription
		}
		if user.Role == entity.RoleSubscriber {
			user.Role = entity.RoleUser
		}
		user.SubscriptionStatus = entity.SubscriptionCancelled
		user.Plan = ""
		return nil
	})
}

func (uc *subscriptionUseCase) change(ctx context.Context, session *jwt.Claims, apply func(*entity.User) error) (*entity.User, string, error) {
	user, err := uc.userRepo.GetByID(session.UserID)
	if err != nil {
		if errors.Is(err, persistent.ErrNotFound) {
			return nil, "", ErrUserNotFound
		}
		return nil, "", err
	}

	if err := apply(user); err != nil {
		return nil, "", err
	}
	if err := uc.userRepo.Update(user); err != nil {
		uc.logger.Error("Failed to update subscription of %s: %v", user.ID, err)
		return nil, "", err
	}

	token, err := uc.jwtService.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		uc.logger.Error("Failed to generate token: %v", err)
		return nil, "", err
	}
	if err := uc.auth.Logout(ctx, session); err != nil {
		uc.logger.Warn("Old session of %s stays valid until it expires: %v", user.ID, err)
	}

	user.Password = ""
	return user, token, nil
}
