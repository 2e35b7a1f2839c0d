package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ymatsuda/todo-api/internal/models"
	"github.com/ymatsuda/todo-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTodoNotFound    = errors.New("todo not found")
	ErrTitleRequired   = errors.New("title is required")
	ErrInvalidPriority = errors.New("invalid priority")
)

// TodoService handles todo business logic. Every operation is scoped to the
// owner supplied by the authenticated caller.
type TodoService struct {
	todoRepo     repository.TodoRepository
	associations *AssociationService
}

// NewTodoService creates a new TodoService
func NewTodoService(todoRepo repository.TodoRepository, associations *AssociationService) *TodoService {
	return &TodoService{
		todoRepo:     todoRepo,
		associations: associations,
	}
}

// CreateTodoInput represents input for creating a todo
type CreateTodoInput struct {
	Title       string
	Description string
	Priority    *models.TodoPriority
	DueDate     *time.Time
	CategoryIDs []uint64
}

// UpdateTodoInput represents a partial update; nil fields are left unchanged.
// A non-nil CategoryIDs replaces the todo's full link set, even when empty.
type UpdateTodoInput struct {
	Title        *string
	Description  *string
	Completed    *bool
	Priority     *models.TodoPriority
	DueDate      *time.Time
	ClearDueDate bool
	CategoryIDs  *[]uint64
}

// ListTodos returns the owner's todos, newest first
func (s *TodoService) ListTodos(ownerID uint64) ([]models.Todo, error) {
	todos, err := s.todoRepo.ListByOwner(ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}
	return todos, nil
}

// GetTodo returns one of the owner's todos. A todo belonging to a different
// owner is reported as not found.
func (s *TodoService) GetTodo(ownerID, id uint64) (*models.Todo, error) {
	todo, err := s.todoRepo.FindByOwner(ownerID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTodoNotFound
		}
		return nil, fmt.Errorf("failed to find todo: %w", err)
	}
	return todo, nil
}

// CreateTodo creates a todo for the owner. Category ids not owned by the
// caller are dropped from the initial link set without error.
func (s *TodoService) CreateTodo(ownerID uint64, input CreateTodoInput) (*models.Todo, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrTitleRequired
	}

	priority := models.PriorityMedium
	if input.Priority != nil {
		if !input.Priority.Valid() {
			return nil, ErrInvalidPriority
		}
		priority = *input.Priority
	}

	todo := &models.Todo{
		UserID:      ownerID,
		Title:       input.Title,
		Description: input.Description,
		Priority:    priority,
		DueDate:     input.DueDate,
	}

	if err := s.todoRepo.Create(todo); err != nil {
		return nil, fmt.Errorf("failed to create todo: %w", err)
	}

	if len(input.CategoryIDs) > 0 {
		if err := s.associations.SetAssociations(ownerID, todo.ID, input.CategoryIDs); err != nil {
			return nil, err
		}
	}

	return s.GetTodo(ownerID, todo.ID)
}

// UpdateTodo applies a partial update to one of the owner's todos
func (s *TodoService) UpdateTodo(ownerID, id uint64, input UpdateTodoInput) (*models.Todo, error) {
	todo, err := s.todoRepo.FindByOwner(ownerID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTodoNotFound
		}
		return nil, fmt.Errorf("failed to find todo: %w", err)
	}

	changed := false
	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, ErrTitleRequired
		}
		todo.Title = *input.Title
		changed = true
	}
	if input.Description != nil {
		todo.Description = *input.Description
		changed = true
	}
	if input.Completed != nil {
		todo.Completed = *input.Completed
		changed = true
	}
	if input.Priority != nil {
		if !input.Priority.Valid() {
			return nil, ErrInvalidPriority
		}
		todo.Priority = *input.Priority
		changed = true
	}
	if input.ClearDueDate {
		todo.DueDate = nil
		changed = true
	} else if input.DueDate != nil {
		todo.DueDate = input.DueDate
		changed = true
	}

	// An empty update leaves the row alone, so updated_at only moves when a
	// field actually changes.
	if changed {
		if err := s.todoRepo.Update(todo); err != nil {
			return nil, fmt.Errorf("failed to update todo: %w", err)
		}
	}

	if input.CategoryIDs != nil {
		if err := s.associations.SetAssociations(ownerID, id, *input.CategoryIDs); err != nil {
			return nil, err
		}
		return s.GetTodo(ownerID, id)
	}
	if !changed {
		return todo, nil
	}

	return s.GetTodo(ownerID, id)
}

// DeleteTodo removes one of the owner's todos and its category links
func (s *TodoService) DeleteTodo(ownerID, id uint64) error {
	deleted, err := s.todoRepo.Delete(ownerID, id)
	if err != nil {
		return fmt.Errorf("failed to delete todo: %w", err)
	}
	if !deleted {
		return ErrTodoNotFound
	}
	return nil
}

// ToggleTodo flips the completed flag server-side, without a client-supplied
// value.
func (s *TodoService) ToggleTodo(ownerID, id uint64) (*models.Todo, error) {
	todo, err := s.todoRepo.FindByOwner(ownerID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTodoNotFound
		}
		return nil, fmt.Errorf("failed to find todo: %w", err)
	}

	todo.Completed = !todo.Completed

	if err := s.todoRepo.Update(todo); err != nil {
		return nil, fmt.Errorf("failed to toggle todo: %w", err)
	}

	return todo, nil
}
