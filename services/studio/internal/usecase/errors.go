package usecase

import "errors"

// Errors carry the text shown to the user; handlers map them to status codes.
var (
	ErrAllFieldsRequired     = errors.New("All fields are required")
	ErrEmailExists           = errors.New("Email already exists")
	ErrCredentialsRequired   = errors.New("Email and password required")
	ErrInvalidCredentials    = errors.New("Invalid credentials")
	ErrAccountSuspended      = errors.New("Account suspended")
	ErrUserNotFound          = errors.New("User not found")
	ErrNoFileSelected        = errors.New("No file selected")
	ErrInvalidFileType       = errors.New("Invalid file type")
	ErrAvatarNotFound        = errors.New("Avatar not found")
	ErrExpressionNotFound    = errors.New("Expression not found")
	ErrExpressionRequired    = errors.New("Expression name required")
	ErrExpressionExists      = errors.New("Expression already exists")
	ErrAvatarAndExpression   = errors.New("Avatar and expression required")
	ErrAvatarAndVideo        = errors.New("Avatar and driving video required")
	ErrAnimationNotFound     = errors.New("Animation not found")
	ErrAnimationAlreadySaved = errors.New("Animation already saved")
	ErrPlanRequired          = errors.New("Please select a plan")
	ErrNoActiveSubscription  = errors.New("No active subscription")
	ErrUnknownAction         = errors.New("Unknown action")
	ErrCannotModifySelf      = errors.New("You cannot change your own account")
	ErrMediaNotFound         = errors.New("File not found")
)
