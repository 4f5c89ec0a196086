package usecase

import (
	"context"
	"io"
	"time"

	"face-animation/pkg/queue"
	"face-animation/pkg/s3"
	"face-animation/services/studio/internal/entity"
	"face-animation/services/studio/internal/repo/persistent"

	"github.com/stretchr/testify/mock"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *entity.User) error {
	args := m.Called(user)
	if user.ID == "" {
		user.ID = "new-user"
	}
	return args.Error(0)
}

func (m *MockUserRepository) GetByEmail(email string) (*entity.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(id string) (*entity.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) Update(user *entity.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) List() ([]*entity.User, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.User), args.Error(1)
}

func (m *MockUserRepository) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

type MockAvatarRepository struct {
	mock.Mock
}

func (m *MockAvatarRepository) Create(avatar *entity.Avatar) error {
	args := m.Called(avatar)
	if avatar.ID == "" {
		avatar.ID = "new-avatar"
	}
	return args.Error(0)
}

func (m *MockAvatarRepository) GetByID(id string) (*entity.Avatar, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Avatar), args.Error(1)
}

func (m *MockAvatarRepository) ListByUser(userID string) ([]*entity.Avatar, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Avatar), args.Error(1)
}

func (m *MockAvatarRepository) ListAll() ([]*entity.Avatar, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Avatar), args.Error(1)
}

func (m *MockAvatarRepository) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

type MockExpressionRepository struct {
	mock.Mock
}

func (m *MockExpressionRepository) Create(name string) (*entity.Expression, error) {
	args := m.Called(name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Expression), args.Error(1)
}

func (m *MockExpressionRepository) GetByID(id string) (*entity.Expression, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Expression), args.Error(1)
}

func (m *MockExpressionRepository) GetByName(name string) (*entity.Expression, error) {
	args := m.Called(name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Expression), args.Error(1)
}

func (m *MockExpressionRepository) List() ([]*entity.Expression, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Expression), args.Error(1)
}

func (m *MockExpressionRepository) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

type MockAnimationRepository struct {
	mock.Mock
}

func (m *MockAnimationRepository) Create(animation *entity.Animation) error {
	args := m.Called(animation)
	if animation.ID == "" {
		animation.ID = "new-animation"
	}
	return args.Error(0)
}

func (m *MockAnimationRepository) GetByID(id string) (*entity.Animation, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Animation), args.Error(1)
}

func (m *MockAnimationRepository) ListSaved(userID string) ([]*entity.Animation, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Animation), args.Error(1)
}

func (m *MockAnimationRepository) ListByAvatar(avatarID string) ([]*entity.Animation, error) {
	args := m.Called(avatarID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Animation), args.Error(1)
}

func (m *MockAnimationRepository) ListByUser(userID string) ([]*entity.Animation, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Animation), args.Error(1)
}

func (m *MockAnimationRepository) MarkSaved(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockAnimationRepository) UpdateStatus(id string, status entity.AnimationStatus) error {
	args := m.Called(id, status)
	return args.Error(0)
}

func (m *MockAnimationRepository) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

type MockMediaStore struct {
	mock.Mock
}

func (m *MockMediaStore) UploadFile(ctx context.Context, key string, file io.Reader, contentType string) (string, error) {
	args := m.Called(key, contentType)
	return args.String(0), args.Error(1)
}

func (m *MockMediaStore) GetFile(ctx context.Context, key string) (*s3.Object, error) {
	args := m.Called(key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.Object), args.Error(1)
}

func (m *MockMediaStore) DeleteFile(ctx context.Context, key string) error {
	args := m.Called(key)
	return args.Error(0)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishAnimationTask(ctx context.Context, task queue.AnimationTask) error {
	args := m.Called(task)
	return args.Error(0)
}

type MockRenderer struct {
	mock.Mock
}

func (m *MockRenderer) Render(ctx context.Context, task queue.AnimationTask) error {
	args := m.Called(task)
	return args.Error(0)
}

type MockRevoker struct {
	mock.Mock
}

func (m *MockRevoker) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	args := m.Called(tokenID, ttl)
	return args.Error(0)
}

func (m *MockRevoker) RevokeUser(ctx context.Context, userID string) error {
	args := m.Called(userID)
	return args.Error(0)
}

var (
	_ persistent.UserRepository       = (*MockUserRepository)(nil)
	_ persistent.AvatarRepository     = (*MockAvatarRepository)(nil)
	_ persistent.ExpressionRepository = (*MockExpressionRepository)(nil)
	_ persistent.AnimationRepository  = (*MockAnimationRepository)(nil)
	_ MediaStore                      = (*MockMediaStore)(nil)
	_ TaskPublisher                   = (*MockPublisher)(nil)
	_ Renderer                        = (*MockRenderer)(nil)
	_ SessionRevoker                  = (*MockRevoker)(nil)
	_ UserSessionRevoker              = (*MockRevoker)(nil)
)
