package persistent

import (
	"face-animation/pkg/models"
	"face-animation/services/studio/internal/entity"

	"gorm.io/gorm"
)

type AvatarRepository interface {
	Create(avatar *entity.Avatar) error
	GetByID(id string) (*entity.Avatar, error)
	ListByUser(userID string) ([]*entity.Avatar, error)
	ListAll() ([]*entity.Avatar, error)
	Delete(id string) error
}

type avatarRepository struct {
	db *gorm.DB
}

func NewAvatarRepository(db *gorm.DB) AvatarRepository {
	return &avatarRepository{db: db}
}

func (r *avatarRepository) Create(avatar *entity.Avatar) error {
	avatarModel := ToAvatarModel(avatar)
	if err := r.db.Create(avatarModel).Error; err != nil {
		return err
	}
	*avatar = *ToAvatarEntity(avatarModel)
	return nil
}

func (r *avatarRepository) GetByID(id string) (*entity.Avatar, error) {
	var avatarModel models.Avatar
	if err := r.db.Where("id = ?", id).First(&avatarModel).Error; err != nil {
		return nil, notFound(err)
	}
	return ToAvatarEntity(&avatarModel), nil
}

func (r *avatarRepository) ListByUser(userID string) ([]*entity.Avatar, error) {
	return r.list(r.db.Where("user_id = ?", userID))
}

func (r *avatarRepository) ListAll() ([]*entity.Avatar, error) {
	return r.list(r.db)
}

func (r *avatarRepository) list(query *gorm.DB) ([]*entity.Avatar, error) {
	var avatarModels []models.Avatar
	if err := query.Order("created_at DESC").Find(&avatarModels).Error; err != nil {
		return nil, err
	}

	avatars := make([]*entity.Avatar, len(avatarModels))
	for i := range avatarModels {
		avatars[i] = ToAvatarEntity(&avatarModels[i])
	}
	return avatars, nil
}

// Delete removes the avatar and every animation rendered from it.
func (r *avatarRepository) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("avatar_id = ?", id).Delete(&models.Animation{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&models.Avatar{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
