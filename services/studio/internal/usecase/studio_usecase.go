package usecase

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"

	"face-animation/pkg/logger"
	"face-animation/pkg/queue"
	"face-animation/pkg/s3"
	"face-animation/services/studio/internal/entity"
	"face-animation/services/studio/internal/repo/persistent"
)

// Upload is a file received from a client.
type Upload struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

type StudioUseCase interface {
	UploadAvatar(ctx context.Context, userID string, file Upload) (*entity.Avatar, error)
	ListAvatars(ctx context.Context, userID string, role entity.UserRole) ([]*entity.Avatar, error)
	DeleteAvatar(ctx context.Context, userID string, role entity.UserRole, avatarID string) error

	ListExpressions(ctx context.Context) ([]*entity.Expression, error)
	AddExpression(ctx context.Context, name string) (*entity.Expression, error)
	DeleteExpression(ctx context.Context, id string) error

	GenerateAnimation(ctx context.Context, userID string, role entity.UserRole, avatarID, expressionID string) (*entity.Animation, error)
	DriveAnimation(ctx context.Context, userID string, role entity.UserRole, avatarID string, video Upload) (*entity.Animation, error)
	SaveAnimation(ctx context.Context, userID, animationID string) error
	DeleteAnimation(ctx context.Context, userID, animationID string) error
	ListAnimations(ctx context.Context, userID string) ([]*entity.Animation, error)

	OpenMedia(ctx context.Context, mediaPath string) (*s3.Object, error)
}

type studioUseCase struct {
	avatarRepo     persistent.AvatarRepository
	expressionRepo persistent.ExpressionRepository
	animationRepo  persistent.AnimationRepository
	media          MediaStore
	publisher      TaskPublisher
	renderer       Renderer
	logger         *logger.Logger
}

// NewStudioUseCase wires the studio operations. A nil publisher renders
// animations in-process with renderer.
func NewStudioUseCase(
	avatarRepo persistent.AvatarRepository,
	expressionRepo persistent.ExpressionRepository,
	animationRepo persistent.AnimationRepository,
	media MediaStore,
	publisher TaskPublisher,
	renderer Renderer,
	logger *logger.Logger,
) StudioUseCase {
	return &studioUseCase{
		avatarRepo:     avatarRepo,
		expressionRepo: expressionRepo,
		animationRepo:  animationRepo,
		media:          media,
		publisher:      publisher,
		renderer:       renderer,
		logger:         logger,
	}
}

func (uc *studioUseCase) UploadAvatar(ctx context.Context, userID string, file Upload) (*entity.Avatar, error) {
	if file.Filename == "" {
		return nil, ErrNoFileSelected
	}
	ext, ok := s3.Ext(file.Filename, s3.ImageExtensions)
	if !ok {
		return nil, ErrInvalidFileType
	}
	contentType := file.ContentType
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = s3.ImageExtensions[ext]
	}

	key, err := uc.media.UploadFile(ctx, s3.AvatarKey(file.Filename), file.Body, contentType)
	if err != nil {
		uc.logger.Error("Failed to upload avatar: %v", err)
		return nil, err
	}

	avatar := &entity.Avatar{UserID: userID, Path: key}
	if err := uc.avatarRepo.Create(avatar); err != nil {
		uc.logger.Error("Failed to create avatar: %v", err)
		uc.removeMedia(ctx, key)
		return nil, err
	}
	return avatar, nil
}

// ListAvatars returns the caller's avatars, or every avatar for admins.
func (uc *studioUseCase) ListAvatars(ctx context.Context, userID string, role entity.UserRole) ([]*entity.Avatar, error) {
	if role == entity.RoleAdmin {
		return uc.avatarRepo.ListAll()
	}
	return uc.avatarRepo.ListByUser(userID)
}

// DeleteAvatar removes an avatar, the animations rendered from it and all
// their files. Admins may delete any avatar.
func (uc *studioUseCase) DeleteAvatar(ctx context.Context, userID string, role entity.UserRole, avatarID string) error {
	avatar, err := uc.usableAvatar(userID, role, avatarID)
	if err != nil {
		return err
	}

	// The rows go with the avatar; their files have to be collected first.
	animations, err := uc.animationRepo.ListByAvatar(avatar.ID)
	if err != nil {
		uc.logger.Error("Failed to list animations of avatar %s: %v", avatar.ID, err)
		return err
	}

	if err := uc.avatarRepo.Delete(avatar.ID); err != nil {
		if errors.Is(err, persistent.ErrNotFound) {
			return ErrAvatarNotFound
		}
		uc.logger.Error("Failed to delete avatar %s: %v", avatar.ID, err)
		return err
	}
	uc.removeMedia(ctx, avatar.Path)
	uc.removeMedia(ctx, animationKeys(animations)...)
	return nil
}

func (uc *studioUseCase) ListExpressions(ctx context.Context) ([]*entity.Expression, error) {
	return uc.expressionRepo.List()
}

func (uc *studioUseCase) AddExpression(ctx context.Context, name string) (*entity.Expression, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return nil, ErrExpressionRequired
	}
	if _, err := uc.expressionRepo.GetByName(name); err == nil {
		return nil, ErrExpressionExists
	} else if !errors.Is(err, persistent.ErrNotFound) {
		return nil, err
	}

	expression, err := uc.expressionRepo.Create(name)
	if err != nil {
		uc.logger.Error("Failed to create expression %s: %v", name, err)
		return nil, err
	}
	return expression, nil
}

func (uc *studioUseCase) DeleteExpression(ctx context.Context, id string) error {
	if err := uc.expressionRepo.Delete(id); err != nil {
		if errors.Is(err, persistent.ErrNotFound) {
			return ErrExpressionNotFound
		}
		uc.logger.Error("Failed to delete expression %s: %v", id, err)
		return err
	}
	return nil
}

// usableAvatar loads an avatar the caller may animate: their own, or any for admins.
func (uc *studioUseCase) usableAvatar(userID string, role entity.UserRole, avatarID string) (*entity.Avatar, error) {
	avatar, err := uc.avatarRepo.GetByID(avatarID)
	if err != nil {
		if errors.Is(err, persistent.ErrNotFound) {
			return nil, ErrAvatarNotFound
		}
		return nil, err
	}
	if avatar.UserID != userID && role != entity.RoleAdmin {
		return nil, ErrAvatarNotFound
	}
	return avatar, nil
}

// GenerateAnimation stages a new animation of avatarID driven by a named
// expression. It stays out of the animation list until saved.
func (uc *studioUseCase) GenerateAnimation(ctx context.Context, userID string, role entity.UserRole, avatarID, expressionID string) (*entity.Animation, error) {
	if avatarID == "" || expressionID == "" {
		return nil, ErrAvatarAndExpression
	}

	avatar, err := uc.usableAvatar(userID, role, avatarID)
	if err != nil {
		return nil, err
	}
	expression, err := uc.expressionRepo.GetByID(expressionID)
	if err != nil {
		if errors.Is(err, persistent.ErrNotFound) {
			return nil, ErrExpressionNotFound
		}
		return nil, err
	}

	animation := &entity.Animation{
		UserID:         userID,
		AvatarID:       avatar.ID,
		AvatarPath:     avatar.Path,
		ExpressionID:   &expression.ID,
		ExpressionName: expression.Name,
		Path:           s3.AnimationKey(),
		Status:         entity.AnimationProcessing,
	}
	if err := uc.animationRepo.Create(animation); err != nil {
		uc.logger.Error("Failed to create animation: %v", err)
		return nil, err
	}

	uc.dispatch(ctx, animation, queue.AnimationTask{
		AnimationID: animation.ID,
		UserID:      userID,
		Type:        queue.TaskTypeExpression,
		AvatarPath:  avatar.Path,
		Expression:  expression.Name,
		OutputPath:  animation.Path,
		Priority:    taskPriority(role),
	})
	return animation, nil
}

// DriveAnimation stages an animation of avatarID driven by an uploaded video.
func (uc *studioUseCase) DriveAnimation(ctx context.Context, userID string, role entity.UserRole, avatarID string, video Upload) (*entity.Animation, error) {
	if avatarID == "" || video.Filename == "" {
		return nil, ErrAvatarAndVideo
	}
	ext, ok := s3.Ext(video.Filename, s3.VideoExtensions)
	if !ok {
		return nil, ErrInvalidFileType
	}

	avatar, err := uc.usableAvatar(userID, role, avatarID)
	if err != nil {
		return nil, err
	}

	contentType := video.ContentType
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = s3.VideoExtensions[ext]
	}
	drivingPath, err := uc.media.UploadFile(ctx, s3.DrivingVideoKey(ext), video.Body, contentType)
	if err != nil {
		uc.logger.Error("Failed to upload driving video: %v", err)
		return nil, err
	}

	animation := &entity.Animation{
		UserID:      userID,
		AvatarID:    avatar.ID,
		AvatarPath:  avatar.Path,
		Path:        s3.AnimationKey(),
		DrivingPath: drivingPath,
		Status:      entity.AnimationProcessing,
	}
	if err := uc.animationRepo.Create(animation); err != nil {
		uc.logger.Error("Failed to create animation: %v", err)
		uc.removeMedia(ctx, drivingPath)
		return nil, err
	}

	uc.dispatch(ctx, animation, queue.AnimationTask{
		AnimationID:  animation.ID,
		UserID:       userID,
		Type:         queue.TaskTypeCustom,
		AvatarPath:   avatar.Path,
		DrivingVideo: drivingPath,
		OutputPath:   animation.Path,
		Priority:     taskPriority(role),
	})
	return animation, nil
}

func taskPriority(role entity.UserRole) int {
	switch role {
	case entity.RoleAdmin:
		return 8
	case entity.RoleSubscriber:
		return 5
	default:
		return 1
	}
}

// dispatch queues the render task, rendering in-process when the queue is
// missing or refuses the task. animation.Status reflects an in-process render.
func (uc *studioUseCase) dispatch(ctx context.Context, animation *entity.Animation, task queue.AnimationTask) {
	if uc.publisher != nil {
		err := uc.publisher.PublishAnimationTask(ctx, task)
		if err == nil {
			return
		}
		uc.logger.Warn("Rendering animation %s in-process, queue unavailable: %v", animation.ID, err)
	}
	if uc.renderer == nil {
		return
	}

	status := entity.AnimationCompleted
	if err := uc.renderer.Render(ctx, task); err != nil {
		uc.logger.Error("Failed to render animation %s: %v", animation.ID, err)
		status = entity.AnimationFailed
	}
	if err := uc.animationRepo.UpdateStatus(animation.ID, status); err != nil {
		uc.logger.Error("Failed to update animation %s status: %v", animation.ID, err)
		return
	}
	animation.Status = status
}

func (uc *studioUseCase) ownedAnimation(userID, animationID string) (*entity.Animation, error) {
	animation, err := uc.animationRepo.GetByID(animationID)
	if err != nil {
		if errors.Is(err, persistent.ErrNotFound) {
			return nil, ErrAnimationNotFound
		}
		return nil, err
	}
	if animation.UserID != userID {
		return nil, ErrAnimationNotFound
	}
	return animation, nil
}

func (uc *studioUseCase) SaveAnimation(ctx context.Context, userID, animationID string) error {
	animation, err := uc.ownedAnimation(userID, animationID)
	if err != nil {
		return err
	}
	if animation.Saved {
		return ErrAnimationAlreadySaved
	}
	if err := uc.animationRepo.MarkSaved(animation.ID); err != nil {
		uc.logger.Error("Failed to save animation %s: %v", animation.ID, err)
		return err
	}
	return nil
}

// DeleteAnimation removes a saved animation or discards a staged one, along
// with its media.
func (uc *studioUseCase) DeleteAnimation(ctx context.Context, userID, animationID string) error {
	animation, err := uc.ownedAnimation(userID, animationID)
	if err != nil {
		return err
	}
	if err := uc.animationRepo.Delete(animation.ID); err != nil {
		uc.logger.Error("Failed to delete animation %s: %v", animation.ID, err)
		return err
	}
	uc.removeMedia(ctx, animationKeys([]*entity.Animation{animation})...)
	return nil
}

func (uc *studioUseCase) ListAnimations(ctx context.Context, userID string) ([]*entity.Animation, error) {
	return uc.animationRepo.ListSaved(userID)
}

// OpenMedia opens a stored file by its media path, e.g. "avatars/x.png".
func (uc *studioUseCase) OpenMedia(ctx context.Context, mediaPath string) (*s3.Object, error) {
	clean := strings.TrimPrefix(path.Clean("/"+mediaPath), "/")
	if clean == "" || clean != strings.TrimPrefix(mediaPath, "/") {
		return nil, ErrMediaNotFound
	}

	obj, err := uc.media.GetFile(ctx, clean)
	if err != nil {
		if errors.Is(err, s3.ErrNotFound) {
			return nil, ErrMediaNotFound
		}
		uc.logger.Error("Failed to open media %s: %v", clean, err)
		return nil, err
	}
	return obj, nil
}

func (uc *studioUseCase) removeMedia(ctx context.Context, keys ...string) {
	deleteMedia(ctx, uc.media, uc.logger, keys...)
}

// deleteMedia deletes stored files best effort, logging failures.
func deleteMedia(ctx context.Context, media MediaStore, log *logger.Logger, keys ...string) {
	for _, key := range keys {
		if key == "" {
			continue
		}
		if err := media.DeleteFile(ctx, key); err != nil {
			log.Warn("Failed to delete media %s: %v", key, err)
		}
	}
}

// animationKeys lists the rendered output and driving video of each animation.
func animationKeys(animations []*entity.Animation) []string {
	keys := make([]string, 0, 2*len(animations))
	for _, a := range animations {
		keys = append(keys, a.Path)
		if a.DrivingPath != "" {
			keys = append(keys, a.DrivingPath)
		}
	}
	return keys
}
