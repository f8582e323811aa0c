package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"storefront/internal/model"
)

// InterestRepository defines persistence of a user's category interests.
type InterestRepository interface {
	ReplaceForUser(ctx context.Context, userID uuid.UUID, categoryIDs []uuid.UUID) error
	ListForUser(ctx context.Context, userID uuid.UUID) ([]model.Category, error)
}

type interestRepository struct {
	db *gorm.DB
}

// NewInterestRepository creates a new interest repository.
func NewInterestRepository(db *gorm.DB) InterestRepository {
	return &interestRepository{db: db}
}

// ReplaceForUser deletes every interest of the user and inserts categoryIDs
// within one transaction, so readers never observe a partially cleared set.
func (r *interestRepository) ReplaceForUser(ctx context.Context, userID uuid.UUID, categoryIDs []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&model.UserCategory{}).Error; err != nil {
			return err
		}
		if len(categoryIDs) == 0 {
			return nil
		}

		rows := make([]model.UserCategory, 0, len(categoryIDs))
		for _, id := range categoryIDs {
			rows = append(rows, model.UserCategory{UserID: userID, CategoryID: id})
		}
		return tx.Omit(clause.Associations).Create(&rows).Error
	})
}

// ListForUser returns the categories the user is interested in, ordered by name.
func (r *interestRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]model.Category, error) {
	var categories []model.Category
	if err := r.db.WithContext(ctx).
		Model(&model.Category{}).
		Joins("JOIN user_categories ON user_categories.category_id = categories.id").
		Where("user_categories.user_id = ?", userID).
		Order("categories.name ASC").
		Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}
