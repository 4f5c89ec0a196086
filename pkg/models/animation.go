package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AnimationStatus string

const (
	AnimationProcessing AnimationStatus = "processing"
	AnimationCompleted  AnimationStatus = "completed"
	AnimationFailed     AnimationStatus = "failed"
)

// Animation rows start unsaved (a staged preview) and become part of the
// owner's list once Saved is set.
type Animation struct {
	ID           string          `gorm:"type:uuid;primary_key" json:"animation_id"`
	UserID       string          `gorm:"type:uuid;not null;index" json:"user_id"`
	AvatarID     string          `gorm:"type:uuid;not null;index" json:"avatar_id"`
	ExpressionID *string         `gorm:"type:uuid" json:"expression_id"`
	Path         string          `gorm:"column:animation_path;type:varchar(500);not null" json:"animation_path"`
	DrivingPath  string          `gorm:"type:varchar(500)" json:"-"`
	Status       AnimationStatus `gorm:"type:varchar(20);default:'processing'" json:"status"`
	Saved        bool            `gorm:"default:false;index" json:"saved"`
	CreatedAt    time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`

	Avatar     *Avatar     `gorm:"foreignKey:AvatarID" json:"-"`
	Expression *Expression `gorm:"foreignKey:ExpressionID" json:"-"`
}

func (Animation) TableName() string {
	return "animations"
}

func (a *Animation) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return nil
}
