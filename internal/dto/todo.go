package dto

import (
	"time"

	"github.com/ymatsuda/todo-api/internal/models"
)

// TodoDTO represents a todo in API responses, annotated with its resolved
// category list.
type TodoDTO struct {
	ID          uint64              `json:"id"`
	UserID      uint64              `json:"user_id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Completed   bool                `json:"completed"`
	Priority    models.TodoPriority `json:"priority"`
	DueDate     *time.Time          `json:"due_date"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
	Categories  []CategoryDTO       `json:"categories"`
}

// ToTodoDTO converts a Todo model to TodoDTO, flattening preloaded links
// into the category list.
func ToTodoDTO(todo models.Todo) TodoDTO {
	categories := make([]CategoryDTO, 0, len(todo.Links))
	for _, link := range todo.Links {
		if link.Category.ID == 0 {
			continue
		}
		categories = append(categories, ToCategoryDTO(link.Category))
	}

	return TodoDTO{
		ID:          todo.ID,
		UserID:      todo.UserID,
		Title:       todo.Title,
		Description: todo.Description,
		Completed:   todo.Completed,
		Priority:    todo.Priority,
		DueDate:     todo.DueDate,
		CreatedAt:   todo.CreatedAt,
		UpdatedAt:   todo.UpdatedAt,
		Categories:  categories,
	}
}

// ToTodoDTOs converts a slice of Todo models
func ToTodoDTOs(todos []models.Todo) []TodoDTO {
	dtos := make([]TodoDTO, len(todos))
	for i, todo := range todos {
		dtos[i] = ToTodoDTO(todo)
	}
	return dtos
}
