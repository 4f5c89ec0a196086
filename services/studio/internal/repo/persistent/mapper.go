package persistent

import (
	"face-animation/pkg/models"
	"face-animation/services/studio/internal/entity"
)

func ToUserEntity(m *models.User) *entity.User {
	if m == nil {
		return nil
	}

	return &entity.User{
		ID:                 m.ID,
		Fullname:           m.Fullname,
		Email:              m.Email,
		Password:           m.Password,
		Role:               entity.UserRole(m.Role),
		SubscriptionStatus: entity.SubscriptionStatus(m.SubscriptionStatus),
		Plan:               m.Plan,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}

func ToUserModel(e *entity.User) *models.User {
	if e == nil {
		return nil
	}

	return &models.User{
		ID:                 e.ID,
		Fullname:           e.Fullname,
		Email:              e.Email,
		Password:           e.Password,
		Role:               models.UserRole(e.Role),
		SubscriptionStatus: models.SubscriptionStatus(e.SubscriptionStatus),
		Plan:               e.Plan,
		CreatedAt:          e.CreatedAt,
		UpdatedAt:          e.UpdatedAt,
	}
}

func ToAvatarEntity(m *models.Avatar) *entity.Avatar {
	if m == nil {
		return nil
	}

	return &entity.Avatar{
		ID:        m.ID,
		UserID:    m.UserID,
		Path:      m.Path,
		CreatedAt: m.CreatedAt,
	}
}

func ToAvatarModel(e *entity.Avatar) *models.Avatar {
	if e == nil {
		return nil
	}

	return &models.Avatar{
		ID:        e.ID,
		UserID:    e.UserID,
		Path:      e.Path,
		CreatedAt: e.CreatedAt,
	}
}

func ToExpressionEntity(m *models.Expression) *entity.Expression {
	if m == nil {
		return nil
	}

	return &entity.Expression{
		ID:        m.ID,
		Name:      m.Name,
		CreatedAt: m.CreatedAt,
	}
}

func ToAnimationEntity(m *models.Animation) *entity.Animation {
	if m == nil {
		return nil
	}

	e := &entity.Animation{
		ID:           m.ID,
		UserID:       m.UserID,
		AvatarID:     m.AvatarID,
		ExpressionID: m.ExpressionID,
		Path:         m.Path,
		DrivingPath:  m.DrivingPath,
		Status:       entity.AnimationStatus(m.Status),
		Saved:        m.Saved,
		CreatedAt:    m.CreatedAt,
	}
	if m.Avatar != nil {
		e.AvatarPath = m.Avatar.Path
	}
	if m.Expression != nil {
		e.ExpressionName = m.Expression.Name
	}
	return e
}

func ToAnimationModel(e *entity.Animation) *models.Animation {
	if e == nil {
		return nil
	}

	return &models.Animation{
		ID:           e.ID,
		UserID:       e.UserID,
		AvatarID:     e.AvatarID,
		ExpressionID: e.ExpressionID,
		Path:         e.Path,
		DrivingPath:  e.DrivingPath,
		Status:       models.AnimationStatus(e.Status),
		Saved:        e.Saved,
		CreatedAt:    e.CreatedAt,
	}
}
