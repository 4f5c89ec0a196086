package entity

import "time"

type Avatar struct {
	ID        string    `json:"avatar_id"`
	UserID    string    `json:"user_id"`
	Path      string    `json:"avatar_path"`
	CreatedAt time.Time `json:"created_at"`
}

type Expression struct {
	ID        string    `json:"expression_id"`
	Name      string    `json:"expression_name"`
	CreatedAt time.Time `json:"created_at"`
}

type AnimationStatus string

const (
	AnimationProcessing AnimationStatus = "processing"
	AnimationCompleted  AnimationStatus = "completed"
	AnimationFailed     AnimationStatus = "failed"
)

// Animation is staged until Saved is set; staged animations never show up in
// the owner's list.
type Animation struct {
	ID             string          `json:"animation_id"`
	UserID         string          `json:"user_id"`
	AvatarID       string          `json:"avatar_id"`
	AvatarPath     string          `json:"avatar_path"`
	ExpressionID   *string         `json:"expression_id"`
	ExpressionName string          `json:"expression_name,omitempty"`
	Path           string          `json:"animation_path"`
	DrivingPath    string          `json:"-"`
	Status         AnimationStatus `json:"status"`
	Saved          bool            `json:"saved"`
	CreatedAt      time.Time       `json:"created_at"`
}
