package studio

import (
	"context"
	"errors"
	"time"
)

type Kind string

const (
	KindAvatar     Kind = "avatar"
	KindAnimation  Kind = "animation"
	KindUser       Kind = "user"
	KindExpression Kind = "expression"
	KindSample     Kind = "sample"
)

// Item is a listed entity. ID is opaque: a server id for the remote backend,
// a client-generated reference for the memory backend.
type Item struct {
	ID        string
	Kind      Kind
	Media     string
	Label     string
	Detail    string
	Status    string
	CreatedAt time.Time
}

// Upload is a file chosen in a file input.
type Upload struct {
	Name        string
	ContentType string
	Data        []byte
}

type Profile struct {
	Fullname           string
	Email              string
	Role               string
	SubscriptionStatus string
}

type LoginRequest struct {
	// Role is the active login tab. Backends with canned credentials check
	// against it; the remote backend lets the server decide the role.
	Role     string
	Email    string
	Password string
}

type Session struct {
	Role     string
	Redirect string
	Message  string
}

type SignupRequest struct {
	Fullname string
	Email    string
	Password string
}

type UserAction string

const (
	UserSuspend  UserAction = "suspend"
	UserActivate UserAction = "activate"
)

// Backend is the storage a page is bound to: MemoryBackend for the local-only
// variant, RemoteBackend for the REST API. Write operations return the
// user-displayable confirmation message.
type Backend interface {
	Login(ctx context.Context, req LoginRequest) (Session, error)
	Signup(ctx context.Context, req SignupRequest) (string, error)
	Logout(ctx context.Context) error

	Profile(ctx context.Context) (Profile, error)
	UpdateProfile(ctx context.Context, p Profile) (string, error)

	Avatars(ctx context.Context) ([]Item, error)
	UploadAvatar(ctx context.Context, file Upload) (string, error)
	DeleteAvatar(ctx context.Context, id string) (string, error)

	Expressions(ctx context.Context) ([]Item, error)
	AddExpression(ctx context.Context, name string) (string, error)
	DeleteExpression(ctx context.Context, id string) (string, error)

	// GenerateAnimation and DriveAnimation produce a staged animation that is
	// not listed until SaveAnimation succeeds.
	GenerateAnimation(ctx context.Context, avatarID, expressionID string) (Item, string, error)
	DriveAnimation(ctx context.Context, avatarID string, video Upload) (Item, string, error)
	SaveAnimation(ctx context.Context, staged Item) (string, error)
	DiscardAnimation(ctx context.Context, staged Item) error
	Animations(ctx context.Context) ([]Item, error)
	DeleteAnimation(ctx context.Context, id string) (string, error)

	UpdateSubscription(ctx context.Context, plan string) (string, error)
	CancelSubscription(ctx context.Context) (string, error)

	Users(ctx context.Context) ([]Item, error)
	CreateUser(ctx context.Context, fullname, email string) (string, error)
	SetUserStatus(ctx context.Context, id string, action UserAction) (string, error)
	DeleteUser(ctx context.Context, id string) (string, error)
}

// RejectedError is a business-rule failure reported by the backend
// (success=false). Its message is shown to the user verbatim.
type RejectedError struct {
	Message string
}

func (e *RejectedError) Error() string {
	return e.Message
}

func reject(message string) error {
	return &RejectedError{Message: message}
}

// ValidationError is a missing or inconsistent input caught before any call.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(message string) error {
	return &ValidationError{Message: message}
}

// IsRejected reports whether err is a backend business-rule failure.
func IsRejected(err error) bool {
	var r *RejectedError
	return errors.As(err, &r)
}
