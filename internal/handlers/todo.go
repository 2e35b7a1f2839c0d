package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ymatsuda/todo-api/internal/dto"
	apierrors "github.com/ymatsuda/todo-api/internal/errors"
	"github.com/ymatsuda/todo-api/internal/middleware"
	"github.com/ymatsuda/todo-api/internal/models"
	"github.com/ymatsuda/todo-api/internal/services"
)

// TodoHandler coordinates todo HTTP handlers.
type TodoHandler struct {
	todoService *services.TodoService
}

// NewTodoHandler creates a new TodoHandler
func NewTodoHandler(todoService *services.TodoService) *TodoHandler {
	return &TodoHandler{
		todoService: todoService,
	}
}

// ListTodos returns all of the caller's todos, newest first
func (h *TodoHandler) ListTodos(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	todos, err := h.todoService.ListTodos(userID)
	if err != nil {
		respondTodoError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTodoDTOs(todos))
}

// GetTodo returns a single todo by id
func (h *TodoHandler) GetTodo(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	todoID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid todo ID")
		return
	}

	todo, err := h.todoService.GetTodo(userID, todoID)
	if err != nil {
		respondTodoError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTodoDTO(*todo))
}

// CreateTodo creates a new todo
func (h *TodoHandler) CreateTodo(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type CreateTodoRequest struct {
		Title       string     `json:"title"`
		Description string     `json:"description"`
		Priority    *string    `json:"priority"`
		DueDate     *time.Time `json:"due_date"`
		CategoryIDs []uint64   `json:"categoryIds"`
	}

	var req CreateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input := services.CreateTodoInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		CategoryIDs: req.CategoryIDs,
	}
	if req.Priority != nil {
		priority := models.TodoPriority(*req.Priority)
		input.Priority = &priority
	}

	todo, err := h.todoService.CreateTodo(userID, input)
	if err != nil {
		respondTodoError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTodoDTO(*todo))
}

// UpdateTodo partially updates a todo. Only fields present in the JSON body
// are touched; a present-but-null due_date clears the date, and a present
// categoryIds (even empty) replaces the association set.
func (h *TodoHandler) UpdateTodo(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	todoID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid todo ID")
		return
	}

	// Parse raw JSON to detect which fields were sent
	var rawReq map[string]any
	if err := c.ShouldBindJSON(&rawReq); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	var input services.UpdateTodoInput

	// A field that is present but carries the wrong JSON type is a client
	// error, not something to silently skip.
	if title, ok := rawReq["title"]; ok {
		titleStr, ok := title.(string)
		if !ok {
			apierrors.BadRequest(c, "Title must be a string")
			return
		}
		input.Title = &titleStr
	}
	if description, ok := rawReq["description"]; ok {
		descStr, ok := description.(string)
		if !ok {
			apierrors.BadRequest(c, "Description must be a string")
			return
		}
		input.Description = &descStr
	}
	if completed, ok := rawReq["completed"]; ok {
		completedBool, ok := completed.(bool)
		if !ok {
			apierrors.BadRequest(c, "Completed must be a boolean")
			return
		}
		input.Completed = &completedBool
	}
	if priority, ok := rawReq["priority"]; ok {
		priorityStr, ok := priority.(string)
		if !ok {
			apierrors.BadRequest(c, "Priority must be low, medium, or high")
			return
		}
		p := models.TodoPriority(priorityStr)
		input.Priority = &p
	}
	if dueDate, ok := rawReq["due_date"]; ok {
		switch v := dueDate.(type) {
		case nil:
			input.ClearDueDate = true
		case string:
			parsed, err := time.Parse(time.RFC3339, v)
			if err != nil {
				apierrors.BadRequest(c, "Invalid due date")
				return
			}
			input.DueDate = &parsed
		default:
			apierrors.BadRequest(c, "Invalid due date")
			return
		}
	}
	if categoryIDs, ok := rawReq["categoryIds"]; ok {
		rawIDs, ok := categoryIDs.([]any)
		if !ok {
			apierrors.BadRequest(c, "Category IDs must be an array of numbers")
			return
		}
		ids := make([]uint64, 0, len(rawIDs))
		for _, rawID := range rawIDs {
			id, ok := rawID.(float64)
			if !ok || id < 0 {
				apierrors.BadRequest(c, "Category IDs must be an array of numbers")
				return
			}
			ids = append(ids, uint64(id))
		}
		input.CategoryIDs = &ids
	}

	todo, err := h.todoService.UpdateTodo(userID, todoID, input)
	if err != nil {
		respondTodoError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTodoDTO(*todo))
}

// DeleteTodo removes a todo and its category links
func (h *TodoHandler) DeleteTodo(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	todoID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid todo ID")
		return
	}

	if err := h.todoService.DeleteTodo(userID, todoID); err != nil {
		respondTodoError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ToggleTodo flips the completed flag
func (h *TodoHandler) ToggleTodo(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	todoID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid todo ID")
		return
	}

	todo, err := h.todoService.ToggleTodo(userID, todoID)
	if err != nil {
		respondTodoError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTodoDTO(*todo))
}

func respondTodoError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTodoNotFound):
		apierrors.NotFound(c, "Todo not found")
	case errors.Is(err, services.ErrTitleRequired):
		apierrors.BadRequest(c, "Title is required")
	case errors.Is(err, services.ErrInvalidPriority):
		apierrors.BadRequest(c, "Priority must be low, medium, or high")
	default:
		log.Printf("todo handler: %v", err)
		apierrors.InternalError(c, "")
	}
}
