package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUser_BeforeCreate(t *testing.T) {
	user := &User{
		Fullname: "Test User",
		Email:    "user@test.com",
		Password: "hash",
		Role:     RoleUser,
	}

	assert.NoError(t, user.BeforeCreate(nil))
	assert.NotEmpty(t, user.ID)
}

func TestUser_BeforeCreate_WithID(t *testing.T) {
	user := &User{ID: "existing-id-123", Email: "user@test.com"}

	assert.NoError(t, user.BeforeCreate(nil))
	assert.Equal(t, "existing-id-123", user.ID)
}

func TestAvatar_BeforeCreate(t *testing.T) {
	avatar := &Avatar{UserID: "user-1", Path: "avatars/a.png"}

	assert.NoError(t, avatar.BeforeCreate(nil))
	assert.NotEmpty(t, avatar.ID)
}

func TestAnimation_BeforeCreate(t *testing.T) {
	animation := &Animation{UserID: "user-1", AvatarID: "avatar-1", Path: "animations/a.mp4"}

	assert.NoError(t, animation.BeforeCreate(nil))
	assert.NotEmpty(t, animation.ID)
	assert.False(t, animation.Saved)
}

func TestExpression_BeforeCreate(t *testing.T) {
	first := &Expression{Name: "smile"}
	second := &Expression{Name: "sad"}

	assert.NoError(t, first.BeforeCreate(nil))
	assert.NoError(t, second.BeforeCreate(nil))
	assert.NotEqual(t, first.ID, second.ID)
}

func TestTableNames(t *testing.T) {
	assert.Equal(t, "users", User{}.TableName())
	assert.Equal(t, "avatars", Avatar{}.TableName())
	assert.Equal(t, "expressions", Expression{}.TableName())
	assert.Equal(t, "animations", Animation{}.TableName())
}
