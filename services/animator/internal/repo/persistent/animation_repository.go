package persistent

import (
	"errors"

	"face-animation/pkg/models"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("animation not found")

// AnimationRepository is the animator's view of the animations table: it only
// reads and moves the render status.
type AnimationRepository interface {
	GetStatus(id string) (models.AnimationStatus, error)
	UpdateStatus(id string, status models.AnimationStatus) error
}

type animationRepository struct {
	db *gorm.DB
}

func NewAnimationRepository(db *gorm.DB) AnimationRepository {
	return &animationRepository{db: db}
}

func (r *animationRepository) GetStatus(id string) (models.AnimationStatus, error) {
	var animation models.Animation
	err := r.db.Select("id", "status").Where("id = ?", id).First(&animation).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return animation.Status, nil
}

func (r *animationRepository) UpdateStatus(id string, status models.AnimationStatus) error {
	result := r.db.Model(&models.Animation{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
