package entity

import "time"

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
	ID                 string             `json:"user_id"`
	Fullname           string             `json:"fullname"`
	Email              string             `json:"email"`
	Password           string             `json:"-"`
	Role               UserRole           `json:"role"`
	SubscriptionStatus SubscriptionStatus `json:"subscription_status"`
	Plan               string             `json:"plan,omitempty"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

// Redirect is the dashboard page a freshly logged in user lands on.
func (u *User) Redirect() string {
	return string(u.Role) + ".html"
}
