package repository

import (
	"github.com/ymatsuda/todo-api/internal/models"
)

// TodoRepository defines the interface for todo data access. Every read and
// write that touches user data takes the owner's id explicitly; there is no
// unscoped lookup.
type TodoRepository interface {
	// Create inserts a new todo
	Create(todo *models.Todo) error

	// FindByOwner finds a todo by id, scoped to its owner, with category links hydrated
	FindByOwner(ownerID, id uint64) (*models.Todo, error)

	// ListByOwner lists an owner's todos newest first, with category links hydrated
	ListByOwner(ownerID uint64) ([]models.Todo, error)

	// Update persists changed todo fields
	Update(todo *models.Todo) error

	// Delete removes an owner's todo and its category links; reports whether a row was removed
	Delete(ownerID, id uint64) (bool, error)

	// ReplaceCategories atomically swaps the todo's full link set
	ReplaceCategories(todoID uint64, categoryIDs []uint64) error

	// AddCategory inserts a single link; duplicate inserts are no-ops
	AddCategory(todoID, categoryID uint64) error

	// RemoveCategory deletes a single link; reports whether a row was removed
	RemoveCategory(todoID, categoryID uint64) (bool, error)

	// CategoriesByTodoID resolves the categories linked to a todo
	CategoriesByTodoID(todoID uint64) ([]models.Category, error)
}

// CategoryRepository defines the interface for category data access
type CategoryRepository interface {
	// Create inserts a new category
	Create(category *models.Category) error

	// FindByOwner finds a category by id, scoped to its owner
	FindByOwner(ownerID, id uint64) (*models.Category, error)

	// ListByOwner lists an owner's categories newest first
	ListByOwner(ownerID uint64) ([]models.Category, error)

	// Update persists changed category fields
	Update(category *models.Category) error

	// Delete removes an owner's category and its todo links; reports whether a row was removed
	Delete(ownerID, id uint64) (bool, error)

	// FilterOwnedIDs returns the subset of ids that exist and belong to the owner
	FilterOwnedIDs(ownerID uint64, ids []uint64) ([]uint64, error)
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create inserts a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)
}
