package usecase

import (
	"context"
	"errors"
	"strings"

	"face-animation/pkg/logger"
	"face-animation/services/studio/internal/entity"
	"face-animation/services/studio/internal/repo/persistent"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	ActionSuspend  = "suspend"
	ActionActivate = "activate"
)

type AdminUseCase interface {
	ListUsers(ctx context.Context) ([]*entity.User, error)
	CreateUser(ctx context.Context, fullname, email string) (*entity.User, string, error)
	SetUserStatus(ctx context.Context, adminID, userID, action string) (*entity.User, error)
	DeleteUser(ctx context.Context, adminID, userID string) error
}

type adminUseCase struct {
	userRepo      persistent.UserRepository
	avatarRepo    persistent.AvatarRepository
	animationRepo persistent.AnimationRepository
	media         MediaStore
	sessions      UserSessionRevoker
	logger        *logger.Logger
}

func NewAdminUseCase(
	userRepo persistent.UserRepository,
	avatarRepo persistent.AvatarRepository,
	animationRepo persistent.AnimationRepository,
	media MediaStore,
	sessions UserSessionRevoker,
	logger *logger.Logger,
) AdminUseCase {
	return &adminUseCase{
		userRepo:      userRepo,
		avatarRepo:    avatarRepo,
		animationRepo: animationRepo,
		media:         media,
		sessions:      sessions,
		logger:        logger,
	}
}

func (uc *adminUseCase) ListUsers(ctx context.Context) ([]*entity.User, error) {
	users, err := uc.userRepo.List()
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		u.Password = ""
	}
	return users, nil
}

// CreateUser adds a plain user with a generated password, which is returned
// once so the admin can hand it over.
func (uc *adminUseCase) CreateUser(ctx context.Context, fullname, email string) (*entity.User, string, error) {
	fullname = strings.TrimSpace(fullname)
	email = normalizeEmail(email)
	if fullname == "" || email == "" {
		return nil, "", ErrAllFieldsRequired
	}

	if _, err := uc.userRepo.GetByEmail(email); err == nil {
		return nil, "", ErrEmailExists
	} else if !errors.Is(err, persistent.ErrNotFound) {
		return nil, "", err
	}

	password := strings.ReplaceAll(uuid.New().String(), "-", "")[:12]
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		uc.logger.Error("Failed to hash password: %v", err)
		return nil, "", err
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
		return nil, "", err
	}

	user.Password = ""
	return user, password, nil
}

// SetUserStatus suspends or reactivates an account. Suspending also ends every
// session the user holds.
func (uc *adminUseCase) SetUserStatus(ctx context.Context, adminID, userID, action string) (*entity.User, error) {
	var status entity.SubscriptionStatus
	switch action {
	case ActionSuspend:
		status = entity.SubscriptionSuspended
	case ActionActivate:
		status = entity.SubscriptionActive
	default:
		return nil, ErrUnknownAction
	}
	if adminID == userID {
		return nil, ErrCannotModifySelf
	}

	user, err := uc.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, persistent.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	user.SubscriptionStatus = status
	if err := uc.userRepo.Update(user); err != nil {
		uc.logger.Error("Failed to update user %s: %v", userID, err)
		return nil, err
	}
	if status == entity.SubscriptionSuspended {
		if err := uc.sessions.RevokeUser(ctx, user.ID); err != nil {
			uc.logger.Error("Failed to end sessions of %s: %v", user.ID, err)
			return nil, err
		}
	}

	user.Password = ""
	return user, nil
}

// DeleteUser removes the account, its avatars and animations, and their files.
func (uc *adminUseCase) DeleteUser(ctx context.Context, adminID, userID string) error {
	if adminID == userID {
		return ErrCannotModifySelf
	}

	// Rows cascade with the user; collect the files they point at first.
	avatars, err := uc.avatarRepo.ListByUser(userID)
	if err != nil {
		return err
	}
	animations, err := uc.animationRepo.ListByUser(userID)
	if err != nil {
		return err
	}

	if err := uc.userRepo.Delete(userID); err != nil {
		if errors.Is(err, persistent.ErrNotFound) {
			return ErrUserNotFound
		}
		uc.logger.Error("Failed to delete user %s: %v", userID, err)
		return err
	}

	if err := uc.sessions.RevokeUser(ctx, userID); err != nil {
		uc.logger.Warn("Sessions of deleted user %s stay valid until they expire: %v", userID, err)
	}
	for _, a := range avatars {
		deleteMedia(ctx, uc.media, uc.logger, a.Path)
	}
	deleteMedia(ctx, uc.media, uc.logger, animationKeys(animations)...)
	return nil
}
