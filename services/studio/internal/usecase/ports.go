package usecase

import (
	"context"
	"io"
	"time"

	"face-animation/pkg/cache"
	"face-animation/pkg/queue"
	"face-animation/pkg/s3"
)

// MediaStore is the object storage used for avatars, driving videos and
// rendered animations. *s3.Client implements it.
type MediaStore interface {
	UploadFile(ctx context.Context, key string, file io.Reader, contentType string) (string, error)
	GetFile(ctx context.Context, key string) (*s3.Object, error)
	DeleteFile(ctx context.Context, key string) error
}

// TaskPublisher hands animation tasks to the animator. *queue.Client implements it.
type TaskPublisher interface {
	PublishAnimationTask(ctx context.Context, task queue.AnimationTask) error
}

// Renderer renders a task in-process when no queue is available.
type Renderer interface {
	Render(ctx context.Context, task queue.AnimationTask) error
}

// SessionRevoker ends sessions before their token expires. *cache.SessionStore
// implements it.
type SessionRevoker interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
}

// UserSessionRevoker ends every session a user was issued up to now.
// *cache.SessionStore implements it.
type UserSessionRevoker interface {
	RevokeUser(ctx context.Context, userID string) error
}

var (
	_ MediaStore         = (*s3.Client)(nil)
	_ TaskPublisher      = (*queue.Client)(nil)
	_ SessionRevoker     = (*cache.SessionStore)(nil)
	_ UserSessionRevoker = (*cache.SessionStore)(nil)
)
