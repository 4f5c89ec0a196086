package http

import (
	"context"
	"io"

	"face-animation/pkg/jwt"
	"face-animation/pkg/s3"
	"face-animation/services/studio/internal/entity"
	"face-animation/services/studio/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
)

// MockAuthUseCase is a mock implementation of AuthUseCase
type MockAuthUseCase struct {
	mock.Mock
}

func (m *MockAuthUseCase) Signup(ctx context.Context, fullname, email, password string) (*entity.User, error) {
	args := m.Called(fullname, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockAuthUseCase) Login(ctx context.Context, email, password string) (*entity.User, string, error) {
	args := m.Called(email, password)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*entity.User), args.String(1), args.Error(2)
}

func (m *MockAuthUseCase) Logout(ctx context.Context, session *jwt.Claims) error {
	args := m.Called(session)
	return args.Error(0)
}

func (m *MockAuthUseCase) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockAuthUseCase) UpdateProfile(ctx context.Context, userID, fullname, email string) (*entity.User, error) {
	args := m.Called(userID, fullname, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

// MockStudioUseCase is a mock implementation of StudioUseCase
type MockStudioUseCase struct {
	mock.Mock
}

func (m *MockStudioUseCase) UploadAvatar(ctx context.Context, userID string, file usecase.Upload) (*entity.Avatar, error) {
	data, _ := io.ReadAll(file.Body)
	args := m.Called(userID, file.Filename, string(data))
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Avatar), args.Error(1)
}

func (m *MockStudioUseCase) ListAvatars(ctx context.Context, userID string, role entity.UserRole) ([]*entity.Avatar, error) {
	args := m.Called(userID, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Avatar), args.Error(1)
}

func (m *MockStudioUseCase) DeleteAvatar(ctx context.Context, userID string, role entity.UserRole, avatarID string) error {
	args := m.Called(userID, role, avatarID)
	return args.Error(0)
}

func (m *MockStudioUseCase) ListExpressions(ctx context.Context) ([]*entity.Expression, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Expression), args.Error(1)
}

func (m *MockStudioUseCase) AddExpression(ctx context.Context, name string) (*entity.Expression, error) {
	args := m.Called(name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Expression), args.Error(1)
}

func (m *MockStudioUseCase) DeleteExpression(ctx context.Context, id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockStudioUseCase) GenerateAnimation(ctx context.Context, userID string, role entity.UserRole, avatarID, expressionID string) (*entity.Animation, error) {
	args := m.Called(userID, role, avatarID, expressionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Animation), args.Error(1)
}

func (m *MockStudioUseCase) DriveAnimation(ctx context.Context, userID string, role entity.UserRole, avatarID string, video usecase.Upload) (*entity.Animation, error) {
	args := m.Called(userID, role, avatarID, video.Filename)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Animation), args.Error(1)
}

func (m *MockStudioUseCase) SaveAnimation(ctx context.Context, userID, animationID string) error {
	args := m.Called(userID, animationID)
	return args.Error(0)
}

func (m *MockStudioUseCase) DeleteAnimation(ctx context.Context, userID, animationID string) error {
	args := m.Called(userID, animationID)
	return args.Error(0)
}

func (m *MockStudioUseCase) ListAnimations(ctx context.Context, userID string) ([]*entity.Animation, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Animation), args.Error(1)
}

func (m *MockStudioUseCase) OpenMedia(ctx context.Context, mediaPath string) (*s3.Object, error) {
	args := m.Called(mediaPath)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.Object), args.Error(1)
}

// MockSubscriptionUseCase is a mock implementation of SubscriptionUseCase
type MockSubscriptionUseCase struct {
	mock.Mock
}

func (m *MockSubscriptionUseCase) Update(ctx context.Context, session *jwt.Claims, plan string) (*entity.User, string, error) {
	args := m.Called(session, plan)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*entity.User), args.String(1), args.Error(2)
}

func (m *MockSubscriptionUseCase) Cancel(ctx context.Context, session *jwt.Claims) (*entity.User, string, error) {
	args := m.Called(session)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*entity.User), args.String(1), args.Error(2)
}

// MockAdminUseCase is a mock implementation of AdminUseCase
type MockAdminUseCase struct {
	mock.Mock
}

func (m *MockAdminUseCase) ListUsers(ctx context.Context) ([]*entity.User, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.User), args.Error(1)
}

func (m *MockAdminUseCase) CreateUser(ctx context.Context, fullname, email string) (*entity.User, string, error) {
	args := m.Called(fullname, email)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*entity.User), args.String(1), args.Error(2)
}

func (m *MockAdminUseCase) SetUserStatus(ctx context.Context, adminID, userID, action string) (*entity.User, error) {
	args := m.Called(adminID, userID, action)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockAdminUseCase) DeleteUser(ctx context.Context, adminID, userID string) error {
	args := m.Called(adminID, userID)
	return args.Error(0)
}

var (
	_ usecase.AuthUseCase         = (*MockAuthUseCase)(nil)
	_ usecase.StudioUseCase       = (*MockStudioUseCase)(nil)
	_ usecase.SubscriptionUseCase = (*MockSubscriptionUseCase)(nil)
	_ usecase.AdminUseCase        = (*MockAdminUseCase)(nil)
)

var testCookie = CookieConfig{Name: "session"}

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

// asUser stands in for the session middleware.
func asUser(userID, role string, handler gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("user_role", role)
		c.Set("token", &jwt.Claims{UserID: userID, Role: role})
		handler(c)
	}
}
