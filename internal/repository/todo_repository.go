package repository

import (
	"github.com/ymatsuda/todo-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTodoRepository is a GORM implementation of TodoRepository
type GormTodoRepository struct {
	db *gorm.DB
}

// NewTodoRepository creates a new TodoRepository
func NewTodoRepository(db *gorm.DB) TodoRepository {
	return &GormTodoRepository{db: db}
}

// Create inserts a new todo. Links are managed separately through the join
// table, never via association writes.
func (r *GormTodoRepository) Create(todo *models.Todo) error {
	return r.db.Omit(clause.Associations).Create(todo).Error
}

// FindByOwner finds a todo by id, scoped to its owner
func (r *GormTodoRepository) FindByOwner(ownerID, id uint64) (*models.Todo, error) {
	var todo models.Todo
	if err := r.db.
		Preload("Links.Category").
		Where("id = ? AND user_id = ?", id, ownerID).
		First(&todo).Error; err != nil {
		return nil, err
	}
	return &todo, nil
}

// ListByOwner lists an owner's todos newest first
func (r *GormTodoRepository) ListByOwner(ownerID uint64) ([]models.Todo, error) {
	var todos []models.Todo
	if err := r.db.
		Preload("Links.Category").
		Where("user_id = ?", ownerID).
		Order("created_at DESC, id DESC").
		Find(&todos).Error; err != nil {
		return nil, err
	}
	return todos, nil
}

// Update persists changed todo fields
func (r *GormTodoRepository) Update(todo *models.Todo) error {
	return r.db.Omit(clause.Associations).Save(todo).Error
}

// Delete removes an owner's todo together with its category links
func (r *GormTodoRepository) Delete(ownerID, id uint64) (bool, error) {
	var deleted int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND user_id = ?", id, ownerID).Delete(&models.Todo{})
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected
		if deleted == 0 {
			return nil
		}

		return tx.Where("todo_id = ?", id).Delete(&models.TodoCategory{}).Error
	})
	return deleted > 0, err
}

// ReplaceCategories atomically swaps the todo's full link set
func (r *GormTodoRepository) ReplaceCategories(todoID uint64, categoryIDs []uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("todo_id = ?", todoID).Delete(&models.TodoCategory{}).Error; err != nil {
			return err
		}

		if len(categoryIDs) == 0 {
			return nil
		}

		links := make([]models.TodoCategory, len(categoryIDs))
		for i, categoryID := range categoryIDs {
			links[i] = models.TodoCategory{
				TodoID:     todoID,
				CategoryID: categoryID,
			}
		}

		return tx.
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "todo_id"}, {Name: "category_id"}},
				DoNothing: true,
			}).
			Create(&links).Error
	})
}

// AddCategory inserts a single link. The conflict clause on the composite
// primary key makes duplicate inserts no-ops.
func (r *GormTodoRepository) AddCategory(todoID, categoryID uint64) error {
	link := models.TodoCategory{
		TodoID:     todoID,
		CategoryID: categoryID,
	}
	return r.db.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "todo_id"}, {Name: "category_id"}},
			DoNothing: true,
		}).
		Create(&link).Error
}

// RemoveCategory deletes a single link
func (r *GormTodoRepository) RemoveCategory(todoID, categoryID uint64) (bool, error) {
	res := r.db.
		Where("todo_id = ? AND category_id = ?", todoID, categoryID).
		Delete(&models.TodoCategory{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// CategoriesByTodoID resolves the categories linked to a todo
func (r *GormTodoRepository) CategoriesByTodoID(todoID uint64) ([]models.Category, error) {
	var categories []models.Category
	err := r.db.Model(&models.Category{}).
		Joins("JOIN todo_categories ON categories.id = todo_categories.category_id").
		Where("todo_categories.todo_id = ?", todoID).
		Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}
