package dto

import (
	"time"

	"github.com/kawasemi/task-tracker-api/internal/models"
)

// CategoryDTO represents a category in API responses
type CategoryDTO struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Color       string    `json:"color"`
	CreatedAt   time.Time `json:"created_at"`
	TaskCount   int64     `json:"task_count"`
}

// ToCategoryDTO converts a Category model to CategoryDTO
func ToCategoryDTO(category models.Category, taskCount int64) CategoryDTO {
	return CategoryDTO{
		ID:          category.ID,
		Name:        category.Name,
		Description: category.Description,
		Color:       category.Color,
		CreatedAt:   category.CreatedAt,
		TaskCount:   taskCount,
	}
}

// ToCategoryListDTO converts categories to DTOs using the per-category task counts
func ToCategoryListDTO(categories []models.Category, taskCounts map[uint64]int64) []CategoryDTO {
	items := make([]CategoryDTO, len(categories))
	for i, category := range categories {
		items[i] = ToCategoryDTO(category, taskCounts[category.ID])
	}
	return items
}
