package services

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/kawasemi/task-tracker-api/internal/models"
	"github.com/kawasemi/task-tracker-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound    = errors.New("task not found")
	ErrTitleRequired   = errors.New("title is required")
	ErrTitleEmpty      = errors.New("title cannot be empty")
	ErrInvalidStatus   = errors.New("invalid status value")
	ErrInvalidPriority = errors.New("invalid priority value")
)

// TaskService handles task business logic
type TaskService struct {
	taskRepo     repository.TaskRepository
	categoryRepo repository.CategoryRepository
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, categoryRepo repository.CategoryRepository) *TaskService {
	return &TaskService{
		taskRepo:     taskRepo,
		categoryRepo: categoryRepo,
	}
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	UserID      uint64
	Title       string
	Description string
	Status      models.TaskStatus
	Priority    models.TaskPriority
	DueDate     *time.Time
	CategoryID  *uint64
}

// CreateTask creates a new task owned by the given user.
func (s *TaskService) CreateTask(input CreateTaskInput) (*models.Task, error) {
	if input.Title == "" {
		return nil, ErrTitleRequired
	}

	if input.Status == "" {
		input.Status = models.TaskStatusPending
	}
	if !input.Status.Valid() {
		return nil, ErrInvalidStatus
	}

	if input.Priority == "" {
		input.Priority = models.TaskPriorityMedium
	}
	if !input.Priority.Valid() {
		return nil, ErrInvalidPriority
	}

	if input.CategoryID != nil {
		if err := s.ensureCategoryExists(*input.CategoryID); err != nil {
			return nil, err
		}
	}

	task := &models.Task{
		Title:       input.Title,
		Description: input.Description,
		Status:      input.Status,
		Priority:    input.Priority,
		DueDate:     input.DueDate,
		UserID:      input.UserID,
		CategoryID:  input.CategoryID,
	}

	if input.Status == models.TaskStatusCompleted {
		now := time.Now()
		task.CompletedAt = &now
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return s.taskRepo.FindByID(task.ID, "Category")
}

// GetTask returns a task if it exists and is owned by the given user.
func (s *TaskService) GetTask(taskID, userID uint64) (*models.Task, error) {
	return s.findOwned(taskID, userID, "Category")
}

// UpdateTaskInput represents input for updating a task. Nil pointers mean
// the field was not supplied; Clear flags distinguish explicit nulls.
type UpdateTaskInput struct {
	Title         *string
	Description   *string
	Status        *models.TaskStatus
	Priority      *models.TaskPriority
	DueDate       *time.Time
	ClearDueDate  bool
	CategoryID    *uint64
	ClearCategory bool
}

// UpdateTask applies the supplied fields to a task owned by the given user.
// Moving the status to completed stamps completed_at; moving it anywhere
// else clears it.
func (s *TaskService) UpdateTask(taskID, userID uint64, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.findOwned(taskID, userID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		if *input.Title == "" {
			return nil, ErrTitleEmpty
		}
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, ErrInvalidStatus
		}
		if *input.Status == models.TaskStatusCompleted {
			if task.Status != models.TaskStatusCompleted {
				now := time.Now()
				task.CompletedAt = &now
			}
		} else {
			task.CompletedAt = nil
		}
		task.Status = *input.Status
	}
	if input.Priority != nil {
		if !input.Priority.Valid() {
			return nil, ErrInvalidPriority
		}
		task.Priority = *input.Priority
	}
	if input.ClearDueDate {
		task.DueDate = nil
	} else if input.DueDate != nil {
		task.DueDate = input.DueDate
	}
	if input.ClearCategory {
		task.CategoryID = nil
	} else if input.CategoryID != nil {
		if err := s.ensureCategoryExists(*input.CategoryID); err != nil {
			return nil, err
		}
		task.CategoryID = input.CategoryID
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return s.taskRepo.FindByID(task.ID, "Category")
}

// DeleteTask permanently deletes a task owned by the given user.
func (s *TaskService) DeleteTask(taskID, userID uint64) error {
	if _, err := s.findOwned(taskID, userID); err != nil {
		return err
	}

	if err := s.taskRepo.Delete(taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}

// ListTasksInput represents filters for listing a user's tasks
type ListTasksInput struct {
	UserID     uint64
	Status     *models.TaskStatus
	Priority   *models.TaskPriority
	CategoryID *uint64
	SortColumn string
	SortDesc   bool
	Page       int
	PerPage    int
}

// ListTasks returns the requested page of the user's tasks plus the total
// count before pagination.
func (s *TaskService) ListTasks(input ListTasksInput) ([]models.Task, int64, error) {
	if input.Status != nil && !input.Status.Valid() {
		return nil, 0, ErrInvalidStatus
	}
	if input.Priority != nil && !input.Priority.Valid() {
		return nil, 0, ErrInvalidPriority
	}

	filter := repository.TaskFilter{
		UserID:     input.UserID,
		Status:     input.Status,
		Priority:   input.Priority,
		CategoryID: input.CategoryID,
		SortColumn: input.SortColumn,
		SortDesc:   input.SortDesc,
		Page:       input.Page,
		PerPage:    input.PerPage,
	}

	tasks, total, err := s.taskRepo.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, total, nil
}

// TaskStats holds per-user task statistics
type TaskStats struct {
	Total          int64
	Pending        int64
	InProgress     int64
	Completed      int64
	CompletionRate float64
}

// Stats computes counts per status and the completion rate for a user.
// A user with no tasks gets a rate of 0.0 rather than an error.
func (s *TaskService) Stats(userID uint64) (*TaskStats, error) {
	counts, err := s.taskRepo.CountByStatus(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks: %w", err)
	}

	stats := &TaskStats{
		Pending:    counts[models.TaskStatusPending],
		InProgress: counts[models.TaskStatusInProgress],
		Completed:  counts[models.TaskStatusCompleted],
	}
	stats.Total = stats.Pending + stats.InProgress + stats.Completed

	if stats.Total > 0 {
		rate := float64(stats.Completed) / float64(stats.Total) * 100
		stats.CompletionRate = math.Round(rate*10) / 10
	}

	return stats, nil
}

// findOwned loads a task and enforces ownership. Tasks owned by other
// users are reported as not found so their existence does not leak.
func (s *TaskService) findOwned(taskID, userID uint64, preload ...string) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID, preload...)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if task.UserID != userID {
		return nil, ErrTaskNotFound
	}

	return task, nil
}

func (s *TaskService) ensureCategoryExists(categoryID uint64) error {
	if _, err := s.categoryRepo.FindByID(categoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return fmt.Errorf("failed to verify category: %w", err)
	}
	return nil
}
