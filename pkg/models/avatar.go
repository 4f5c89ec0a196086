package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Avatar struct {
	ID        string    `gorm:"type:uuid;primary_key" json:"avatar_id"`
	UserID    string    `gorm:"type:uuid;not null;index" json:"user_id"`
	Path      string    `gorm:"column:avatar_path;type:varchar(500);not null" json:"avatar_path"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (Avatar) TableName() string {
	return "avatars"
}

func (a *Avatar) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return nil
}
