package persistent

import (
	"face-animation/pkg/models"
	"face-animation/services/studio/internal/entity"

	"gorm.io/gorm"
)

type AnimationRepository interface {
	Create(animation *entity.Animation) error
	GetByID(id string) (*entity.Animation, error)
	ListSaved(userID string) ([]*entity.Animation, error)
	ListByAvatar(avatarID string) ([]*entity.Animation, error)
	ListByUser(userID string) ([]*entity.Animation, error)
	MarkSaved(id string) error
	UpdateStatus(id string, status entity.AnimationStatus) error
	Delete(id string) error
}

type animationRepository struct {
	db *gorm.DB
}

func NewAnimationRepository(db *gorm.DB) AnimationRepository {
	return &animationRepository{db: db}
}

func (r *animationRepository) Create(animation *entity.Animation) error {
	animationModel := ToAnimationModel(animation)
	if err := r.db.Create(animationModel).Error; err != nil {
		return err
	}
	created := ToAnimationEntity(animationModel)
	created.AvatarPath = animation.AvatarPath
	created.ExpressionName = animation.ExpressionName
	*animation = *created
	return nil
}

func (r *animationRepository) GetByID(id string) (*entity.Animation, error) {
	var animationModel models.Animation
	err := r.db.Preload("Avatar").Preload("Expression").
		Where("id = ?", id).First(&animationModel).Error
	if err != nil {
		return nil, notFound(err)
	}
	return ToAnimationEntity(&animationModel), nil
}

func (r *animationRepository) ListSaved(userID string) ([]*entity.Animation, error) {
	return r.list(r.db.Preload("Avatar").Preload("Expression").
		Where("user_id = ? AND saved = ?", userID, true))
}

// ListByAvatar returns every animation rendered from the avatar, saved or staged.
func (r *animationRepository) ListByAvatar(avatarID string) ([]*entity.Animation, error) {
	return r.list(r.db.Where("avatar_id = ?", avatarID))
}

// ListByUser returns every animation the user owns or that was rendered from
// one of their avatars, saved or staged.
func (r *animationRepository) ListByUser(userID string) ([]*entity.Animation, error) {
	ownAvatars := r.db.Model(&models.Avatar{}).Select("id").Where("user_id = ?", userID)
	return r.list(r.db.Where("user_id = ? OR avatar_id IN (?)", userID, ownAvatars))
}

func (r *animationRepository) list(query *gorm.DB) ([]*entity.Animation, error) {
	var animationModels []models.Animation
	if err := query.Order("created_at DESC").Find(&animationModels).Error; err != nil {
		return nil, err
	}

	animations := make([]*entity.Animation, len(animationModels))
	for i := range animationModels {
		animations[i] = ToAnimationEntity(&animationModels[i])
	}
	return animations, nil
}

func (r *animationRepository) MarkSaved(id string) error {
	return r.db.Model(&models.Animation{}).Where("id = ?", id).Update("saved", true).Error
}

func (r *animationRepository) UpdateStatus(id string, status entity.AnimationStatus) error {
	result := r.db.Model(&models.Animation{}).Where("id = ?", id).Update("status", string(status))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *animationRepository) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(&models.Animation{}).Error
}
