package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRole string

const (
	RoleUser       UserRole = "user"
	RoleSubscriber UserRole = "subscriber"
	RoleAdmin      UserRole = "admin"
	RoleGuest      UserRole = "guest"
)

type SubscriptionStatus string

const (
	SubscriptionNone      SubscriptionStatus = "none"
	SubscriptionActive    SubscriptionStatus = "active"
	SubscriptionSuspended SubscriptionStatus = "suspended"
	SubscriptionCancelled SubscriptionStatus = "cancelled"
)

type User struct {
	ID                 string             `gorm:"type:uuid;primary_key" json:"user_id"`
	Fullname           string             `gorm:"type:varchar(100);not null" json:"fullname"`
	Email              string             `gorm:"uniqueIndex;not null" json:"email"`
	Password           string             `gorm:"not null" json:"-"`
	Role               UserRole           `gorm:"type:varchar(20);default:'user'" json:"role"`
	SubscriptionStatus SubscriptionStatus `gorm:"type:varchar(20);default:'none'" json:"subscription_status"`
	Plan               string             `gorm:"type:varchar(50)" json:"plan"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
	DeletedAt          gorm.DeletedAt     `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return nil
}
