package persistent

import (
	"face-animation/pkg/models"
	"face-animation/services/studio/internal/entity"

	"gorm.io/gorm"
)

type ExpressionRepository interface {
	Create(name string) (*entity.Expression, error)
	GetByID(id string) (*entity.Expression, error)
	GetByName(name string) (*entity.Expression, error)
	List() ([]*entity.Expression, error)
	Delete(id string) error
}

type expressionRepository struct {
	db *gorm.DB
}

func NewExpressionRepository(db *gorm.DB) ExpressionRepository {
	return &expressionRepository{db: db}
}

func (r *expressionRepository) Create(name string) (*entity.Expression, error) {
	expressionModel := &models.Expression{Name: name}
	if err := r.db.Create(expressionModel).Error; err != nil {
		return nil, err
	}
	return ToExpressionEntity(expressionModel), nil
}

func (r *expressionRepository) GetByID(id string) (*entity.Expression, error) {
	var expressionModel models.Expression
	if err := r.db.Where("id = ?", id).First(&expressionModel).Error; err != nil {
		return nil, notFound(err)
	}
	return ToExpressionEntity(&expressionModel), nil
}

func (r *expressionRepository) GetByName(name string) (*entity.Expression, error) {
	var expressionModel models.Expression
	if err := r.db.Where("expression_name = ?", name).First(&expressionModel).Error; err != nil {
		return nil, notFound(err)
	}
	return ToExpressionEntity(&expressionModel), nil
}

func (r *expressionRepository) List() ([]*entity.Expression, error) {
	var expressionModels []models.Expression
	if err := r.db.Order("expression_name ASC").Find(&expressionModels).Error; err != nil {
		return nil, err
	}

	expressions := make([]*entity.Expression, len(expressionModels))
	for i := range expressionModels {
		expressions[i] = ToExpressionEntity(&expressionModels[i])
	}
	return expressions, nil
}

// Delete detaches the expression from existing animations before removing it,
// so saved animations survive as custom ones.
func (r *expressionRepository) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Animation{}).Where("expression_id = ?", id).Update("expression_id", nil).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&models.Expression{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
