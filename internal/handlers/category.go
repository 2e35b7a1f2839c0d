package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ymatsuda/todo-api/internal/dto"
	apierrors "github.com/ymatsuda/todo-api/internal/errors"
	"github.com/ymatsuda/todo-api/internal/middleware"
	"github.com/ymatsuda/todo-api/internal/services"
)

// CategoryHandler coordinates category HTTP handlers, including the
// todo-category link endpoints.
type CategoryHandler struct {
	categoryService *services.CategoryService
	associations    *services.AssociationService
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryService *services.CategoryService, associations *services.AssociationService) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
		associations:    associations,
	}
}

// ListCategories returns all of the caller's categories, newest first
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	categories, err := h.categoryService.ListCategories(userID)
	if err != nil {
		respondCategoryError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCategoryDTOs(categories))
}

// GetCategory returns a single category by id
func (h *CategoryHandler) GetCategory(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	categoryID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid category ID")
		return
	}

	category, err := h.categoryService.GetCategory(userID, categoryID)
	if err != nil {
		respondCategoryError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCategoryDTO(*category))
}

// CreateCategory creates a new category
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type CreateCategoryRequest struct {
		Name  string  `json:"name"`
		Color *string `json:"color"`
	}

	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	category, err := h.categoryService.CreateCategory(userID, services.CreateCategoryInput{
		Name:  req.Name,
		Color: req.Color,
	})
	if err != nil {
		respondCategoryError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToCategoryDTO(*category))
}

// UpdateCategory partially updates a category
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	categoryID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid category ID")
		return
	}

	// Parse raw JSON to detect which fields were sent
	var rawReq map[string]any
	if err := c.ShouldBindJSON(&rawReq); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	var input services.UpdateCategoryInput
	if name, ok := rawReq["name"]; ok {
		if nameStr, ok := name.(string); ok {
			input.Name = &nameStr
		}
	}
	if color, ok := rawReq["color"]; ok {
		if colorStr, ok := color.(string); ok {
			input.Color = &colorStr
		}
	}

	category, err := h.categoryService.UpdateCategory(userID, categoryID, input)
	if err != nil {
		respondCategoryError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCategoryDTO(*category))
}

// DeleteCategory removes a category and its todo links
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	categoryID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid category ID")
		return
	}

	if err := h.categoryService.DeleteCategory(userID, categoryID); err != nil {
		respondCategoryError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// LinkTodo links a todo to a category. Both rows must belong to the caller;
// inserting an existing link is a no-op.
func (h *CategoryHandler) LinkTodo(c *gin.Context) {
	userID, todoID, categoryID, ok := h.linkParams(c)
	if !ok {
		return
	}

	linked, err := h.associations.AddLink(userID, todoID, categoryID)
	if err != nil {
		respondCategoryError(c, err)
		return
	}
	if !linked {
		apierrors.NotFound(c, "Todo or category not found")
		return
	}

	c.Status(http.StatusNoContent)
}

// UnlinkTodo removes the link between a todo and a category. A missing link
// and a non-owned row are reported identically.
func (h *CategoryHandler) UnlinkTodo(c *gin.Context) {
	userID, todoID, categoryID, ok := h.linkParams(c)
	if !ok {
		return
	}

	removed, err := h.associations.RemoveLink(userID, todoID, categoryID)
	if err != nil {
		respondCategoryError(c, err)
		return
	}
	if !removed {
		apierrors.NotFound(c, "Todo or category not found")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *CategoryHandler) linkParams(c *gin.Context) (userID, todoID, categoryID uint64, ok bool) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return 0, 0, 0, false
	}

	todoID, todoErr := strconv.ParseUint(c.Param("todoId"), 10, 64)
	categoryID, categoryErr := strconv.ParseUint(c.Param("categoryId"), 10, 64)
	if todoErr != nil || categoryErr != nil {
		apierrors.BadRequest(c, "Invalid todo ID or category ID")
		return 0, 0, 0, false
	}

	return userID, todoID, categoryID, true
}

func respondCategoryError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrCategoryNotFound):
		apierrors.NotFound(c, "Category not found")
	case errors.Is(err, services.ErrCategoryNameRequired):
		apierrors.BadRequest(c, "Category name is required")
	case errors.Is(err, services.ErrInvalidColor):
		apierrors.BadRequest(c, "Color must be a valid hex color code")
	case errors.Is(err, services.ErrTodoNotFound):
		apierrors.NotFound(c, "Todo not found")
	default:
		log.Printf("category handler: %v", err)
		apierrors.InternalError(c, "")
	}
}
