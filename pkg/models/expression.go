package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultExpressions are the driving clips the renderer ships with.
var DefaultExpressions = []string{"angry", "sad", "smile", "surprised"}

type Expression struct {
	ID        string    `gorm:"type:uuid;primary_key" json:"expression_id"`
	Name      string    `gorm:"column:expression_name;type:varchar(50);uniqueIndex;not null" json:"expression_name"`
	CreatedAt time.Time `json:"created_at"`
}

func (Expression) TableName() string {
	return "expressions"
}

func (e *Expression) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	return nil
}
