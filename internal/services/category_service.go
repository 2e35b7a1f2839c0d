package services

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/ymatsuda/todo-api/internal/constants"
	"github.com/ymatsuda/todo-api/internal/models"
	"github.com/ymatsuda/todo-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrCategoryNotFound     = errors.New("category not found")
	ErrCategoryNameRequired = errors.New("category name is required")
	ErrInvalidColor         = errors.New("color must be a valid hex color code")
)

// colorPattern accepts #RRGGBB with six hex digits.
var colorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// CategoryService handles category business logic, owner-scoped like
// TodoService.
type CategoryService struct {
	categoryRepo repository.CategoryRepository
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo repository.CategoryRepository) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
	}
}

// CreateCategoryInput represents input for creating a category
type CreateCategoryInput struct {
	Name  string
	Color *string
}

// UpdateCategoryInput represents a partial update; nil fields are left unchanged
type UpdateCategoryInput struct {
	Name  *string
	Color *string
}

// ListCategories returns the owner's categories, newest first
func (s *CategoryService) ListCategories(ownerID uint64) ([]models.Category, error) {
	categories, err := s.categoryRepo.ListByOwner(ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// GetCategory returns one of the owner's categories
func (s *CategoryService) GetCategory(ownerID, id uint64) (*models.Category, error) {
	category, err := s.categoryRepo.FindByOwner(ownerID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to find category: %w", err)
	}
	return category, nil
}

// CreateCategory creates a category for the owner. The name is stored
// trimmed; a missing color falls back to the default accent color.
func (s *CategoryService) CreateCategory(ownerID uint64, input CreateCategoryInput) (*models.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrCategoryNameRequired
	}

	color := constants.DefaultCategoryColor
	if input.Color != nil {
		if !colorPattern.MatchString(*input.Color) {
			return nil, ErrInvalidColor
		}
		color = *input.Color
	}

	category := &models.Category{
		UserID: ownerID,
		Name:   name,
		Color:  color,
	}

	if err := s.categoryRepo.Create(category); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	return category, nil
}

// UpdateCategory applies a partial update to one of the owner's categories
func (s *CategoryService) UpdateCategory(ownerID, id uint64, input UpdateCategoryInput) (*models.Category, error) {
	category, err := s.categoryRepo.FindByOwner(ownerID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to find category: %w", err)
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrCategoryNameRequired
		}
		category.Name = name
	}
	if input.Color != nil {
		if !colorPattern.MatchString(*input.Color) {
			return nil, ErrInvalidColor
		}
		category.Color = *input.Color
	}

	if err := s.categoryRepo.Update(category); err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	return category, nil
}

// DeleteCategory removes one of the owner's categories and its todo links;
// todos themselves are never deleted.
func (s *CategoryService) DeleteCategory(ownerID, id uint64) error {
	deleted, err := s.categoryRepo.Delete(ownerID, id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	if !deleted {
		return ErrCategoryNotFound
	}
	return nil
}
