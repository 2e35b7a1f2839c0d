package repository

import (
	"github.com/ymatsuda/todo-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCategoryRepository is a GORM implementation of CategoryRepository
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new CategoryRepository
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &GormCategoryRepository{db: db}
}

// Create inserts a new category
func (r *GormCategoryRepository) Create(category *models.Category) error {
	return r.db.Omit(clause.Associations).Create(category).Error
}

// FindByOwner finds a category by id, scoped to its owner
func (r *GormCategoryRepository) FindByOwner(ownerID, id uint64) (*models.Category, error) {
	var category models.Category
	if err := r.db.
		Where("id = ? AND user_id = ?", id, ownerID).
		First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// ListByOwner lists an owner's categories newest first
func (r *GormCategoryRepository) ListByOwner(ownerID uint64) ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.
		Where("user_id = ?", ownerID).
		Order("created_at DESC, id DESC").
		Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// Update persists changed category fields
func (r *GormCategoryRepository) Update(category *models.Category) error {
	return r.db.Omit(clause.Associations).Save(category).Error
}

// Delete removes an owner's category together with its todo links. Linked
// todos are never touched.
func (r *GormCategoryRepository) Delete(ownerID, id uint64) (bool, error) {
	var deleted int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND user_id = ?", id, ownerID).Delete(&models.Category{})
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected
		if deleted == 0 {
			return nil
		}

		return tx.Where("category_id = ?", id).Delete(&models.TodoCategory{}).Error
	})
	return deleted > 0, err
}

// FilterOwnedIDs returns the subset of ids that exist and belong to the owner
func (r *GormCategoryRepository) FilterOwnedIDs(ownerID uint64, ids []uint64) ([]uint64, error) {
	if len(ids) == 0 {
		return []uint64{}, nil
	}

	var owned []uint64
	err := r.db.Model(&models.Category{}).
		Where("user_id = ? AND id IN ?", ownerID, ids).
		Pluck("id", &owned).Error
	if err != nil {
		return nil, err
	}
	return owned, nil
}
