package services

import (
	"errors"
	"fmt"

	"github.com/ymatsuda/todo-api/internal/models"
	"github.com/ymatsuda/todo-api/internal/repository"
	"gorm.io/gorm"
)

// AssociationService maintains the todo-category link set. Both endpoints of a
// link must belong to the requesting owner; cross-owner links never exist.
type AssociationService struct {
	todoRepo     repository.TodoRepository
	categoryRepo repository.CategoryRepository
}

// NewAssociationService creates a new AssociationService
func NewAssociationService(todoRepo repository.TodoRepository, categoryRepo repository.CategoryRepository) *AssociationService {
	return &AssociationService{
		todoRepo:     todoRepo,
		categoryRepo: categoryRepo,
	}
}

// SetAssociations replaces the todo's full link set. Duplicate ids in the
// input collapse to one link; ids that do not resolve to a category owned by
// ownerID are dropped without error.
func (s *AssociationService) SetAssociations(ownerID, todoID uint64, categoryIDs []uint64) error {
	if _, err := s.todoRepo.FindByOwner(ownerID, todoID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTodoNotFound
		}
		return fmt.Errorf("failed to find todo: %w", err)
	}

	owned, err := s.categoryRepo.FilterOwnedIDs(ownerID, uniqueUint64(categoryIDs))
	if err != nil {
		return fmt.Errorf("failed to filter categories: %w", err)
	}

	if err := s.todoRepo.ReplaceCategories(todoID, owned); err != nil {
		return fmt.Errorf("failed to replace categories: %w", err)
	}

	return nil
}

// AddLink links a todo to a category. It reports false when either row is
// missing or not owned by ownerID; a link that already exists is a no-op.
func (s *AssociationService) AddLink(ownerID, todoID, categoryID uint64) (bool, error) {
	ok, err := s.linkEndpointsOwned(ownerID, todoID, categoryID)
	if err != nil || !ok {
		return false, err
	}

	if err := s.todoRepo.AddCategory(todoID, categoryID); err != nil {
		return false, fmt.Errorf("failed to add link: %w", err)
	}

	return true, nil
}

// RemoveLink unlinks a todo from a category. It reports true only when a
// matching link existed under the same ownership constraint and was removed.
func (s *AssociationService) RemoveLink(ownerID, todoID, categoryID uint64) (bool, error) {
	ok, err := s.linkEndpointsOwned(ownerID, todoID, categoryID)
	if err != nil || !ok {
		return false, err
	}

	removed, err := s.todoRepo.RemoveCategory(todoID, categoryID)
	if err != nil {
		return false, fmt.Errorf("failed to remove link: %w", err)
	}

	return removed, nil
}

// ResolveCategories returns the categories linked to a todo. Ownership of the
// todo is the caller's responsibility.
func (s *AssociationService) ResolveCategories(todoID uint64) ([]models.Category, error) {
	categories, err := s.todoRepo.CategoriesByTodoID(todoID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve categories: %w", err)
	}
	return categories, nil
}

// linkEndpointsOwned verifies that both the todo and the category exist and
// belong to ownerID.
func (s *AssociationService) linkEndpointsOwned(ownerID, todoID, categoryID uint64) (bool, error) {
	if _, err := s.todoRepo.FindByOwner(ownerID, todoID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to find todo: %w", err)
	}

	if _, err := s.categoryRepo.FindByOwner(ownerID, categoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to find category: %w", err)
	}

	return true, nil
}

// uniqueUint64 removes duplicates while preserving input order
func uniqueUint64(ids []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(ids))
	unique := make([]uint64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	return unique
}
