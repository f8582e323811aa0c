package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"storefront/internal/model"
)

// CategoryRepository defines category persistence operations.
type CategoryRepository interface {
	List(ctx context.Context, offset, limit int) ([]model.Category, error)
	Count(ctx context.Context) (int64, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Category, error)
	CreateMissing(ctx context.Context, categories []model.Category) (int64, error)
}

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new category repository.
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

// List returns a page of categories ordered by name.
func (r *categoryRepository) List(ctx context.Context, offset, limit int) ([]model.Category, error) {
	var categories []model.Category
	if err := r.db.WithContext(ctx).
		Order("name ASC").
		Offset(offset).
		Limit(limit).
		Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// Count returns the total number of categories.
func (r *categoryRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Category{}).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// FindByIDs returns the categories among ids that exist.
func (r *categoryRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Category, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var categories []model.Category
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// CreateMissing inserts categories, skipping names that already exist.
// It returns the number of rows actually inserted.
func (r *categoryRepository) CreateMissing(ctx context.Context, categories []model.Category) (int64, error) {
	if len(categories) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(categories, 100)
	return res.RowsAffected, res.Error
}
