package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kawasemi/task-tracker-api/internal/constants"
	"github.com/kawasemi/task-tracker-api/internal/models"
	"github.com/kawasemi/task-tracker-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrCategoryNotFound     = errors.New("category not found")
	ErrCategoryNameTaken    = errors.New("category already exists")
	ErrCategoryNameRequired = errors.New("category name is required")
)

// CategoryService handles category business logic. Categories are a global
// namespace shared by all users, so there is no ownership check here.
type CategoryService struct {
	categoryRepo repository.CategoryRepository
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(categoryRepo repository.CategoryRepository) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
	}
}

// CreateCategoryInput represents input for creating a category
type CreateCategoryInput struct {
	Name        string
	Description string
	Color       string
}

// CreateCategory creates a new category with a unique name.
func (s *CategoryService) CreateCategory(input CreateCategoryInput) (*models.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrCategoryNameRequired
	}

	if _, err := s.categoryRepo.FindByName(name); err == nil {
		return nil, ErrCategoryNameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check category name: %w", err)
	}

	color := input.Color
	if color == "" {
		color = constants.DefaultCategoryColor
	}

	category := &models.Category{
		Name:        name,
		Description: input.Description,
		Color:       color,
	}

	if err := s.categoryRepo.Create(category); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	return category, nil
}

// ListCategories returns all categories and their task counts.
func (s *CategoryService) ListCategories() ([]models.Category, map[uint64]int64, error) {
	categories, err := s.categoryRepo.List()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list categories: %w", err)
	}

	counts, err := s.categoryRepo.TaskCounts()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to count category tasks: %w", err)
	}

	return categories, counts, nil
}

// GetCategory retrieves a category by ID.
func (s *CategoryService) GetCategory(id uint64) (*models.Category, error) {
	category, err := s.categoryRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to find category: %w", err)
	}

	return category, nil
}

// UpdateCategoryInput represents input for updating a category
type UpdateCategoryInput struct {
	Name        *string
	Description *string
	Color       *string
}

// UpdateCategory applies the provided fields to an existing category.
func (s *CategoryService) UpdateCategory(id uint64, input UpdateCategoryInput) (*models.Category, error) {
	category, err := s.GetCategory(id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrCategoryNameRequired
		}
		if name != category.Name {
			if _, err := s.categoryRepo.FindByName(name); err == nil {
				return nil, ErrCategoryNameTaken
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("failed to check category name: %w", err)
			}
			category.Name = name
		}
	}
	if input.Description != nil {
		category.Description = *input.Description
	}
	if input.Color != nil {
		category.Color = *input.Color
	}

	if err := s.categoryRepo.Update(category); err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	return category, nil
}

// DeleteCategory removes a category. Tasks referencing it survive with
// their category reference cleared.
func (s *CategoryService) DeleteCategory(id uint64) error {
	if _, err := s.GetCategory(id); err != nil {
		return err
	}

	if err := s.categoryRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}

	return nil
}
