package dto

import (
	"time"

	"github.com/kawasemi/task-tracker-api/internal/models"
)

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID          uint64              `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Status      models.TaskStatus   `json:"status"`
	Priority    models.TaskPriority `json:"priority"`
	DueDate     *time.Time          `json:"due_date"`
	CompletedAt *time.Time          `json:"completed_at"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
	UserID      uint64              `json:"user_id"`
	CategoryID  *uint64             `json:"category_id"`
	Category    *CategoryDTO        `json:"category,omitempty"`
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		Priority:    task.Priority,
		DueDate:     task.DueDate,
		CompletedAt: task.CompletedAt,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
		UserID:      task.UserID,
		CategoryID:  task.CategoryID,
	}

	// Include category if preloaded
	if task.Category != nil {
		category := ToCategoryDTO(*task.Category, 0)
		dto.Category = &category
	}

	return dto
}

// TaskListResponse represents a paginated list of tasks
type TaskListResponse struct {
	Tasks   []TaskDTO `json:"tasks"`
	Total   int64     `json:"total"`
	Page    int       `json:"page"`
	PerPage int       `json:"per_page"`
	Pages   int       `json:"pages"`
}

// ToTaskListResponse converts a slice of tasks to TaskListResponse
func ToTaskListResponse(tasks []models.Task, total int64, page, perPage int) TaskListResponse {
	items := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskDTO(task)
	}

	pages := int(total) / perPage
	if int(total)%perPage > 0 {
		pages++
	}

	return TaskListResponse{
		Tasks:   items,
		Total:   total,
		Page:    page,
		PerPage: perPage,
		Pages:   pages,
	}
}

// StatsDTO represents per-user task statistics
type StatsDTO struct {
	TotalTasks     int64   `json:"total_tasks"`
	Pending        int64   `json:"pending"`
	InProgress     int64   `json:"in_progress"`
	Completed      int64   `json:"completed"`
	CompletionRate float64 `json:"completion_rate"`
}
