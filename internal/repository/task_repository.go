package repository

import (
	"fmt"

	"github.com/kawasemi/task-tracker-api/internal/database"
	"github.com/kawasemi/task-tracker-api/internal/models"
	"gorm.io/gorm"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// FindByID finds a task by ID with optional preloading
func (r *GormTaskRepository) FindByID(id uint64, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&task, id).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// List retrieves tasks matching the filter along with the total count.
// Filters are combined with AND; ordering is tie-broken by id ASC so
// pages are stable between requests.
func (r *GormTaskRepository) List(filter TaskFilter) ([]models.Task, int64, error) {
	var tasks []models.Task

	query := r.db.Model(&models.Task{}).Where("tasks.user_id = ?", filter.UserID)

	if filter.Status != nil {
		query = query.Where("tasks.status = ?", *filter.Status)
	}
	if filter.Priority != nil {
		query = query.Where("tasks.priority = ?", *filter.Priority)
	}
	if filter.CategoryID != nil {
		query = query.Where("tasks.category_id = ?", *filter.CategoryID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	direction := "ASC"
	if filter.SortDesc {
		direction = "DESC"
	}
	// SortColumn is whitelisted by the caller, never raw request input
	listQuery := query.Order(fmt.Sprintf("tasks.%s %s, tasks.id ASC", filter.SortColumn, direction))

	if filter.Page > 0 && filter.PerPage > 0 {
		listQuery = listQuery.Scopes(database.Paginate(filter.Page, filter.PerPage))
	}

	if err := listQuery.Preload("Category").Find(&tasks).Error; err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// Update updates a task
func (r *GormTaskRepository) Update(task *models.Task) error {
	return r.db.Save(task).Error
}

// Delete permanently deletes a task
func (r *GormTaskRepository) Delete(id uint64) error {
	return r.db.Delete(&models.Task{}, id).Error
}

// CountByStatus counts a user's tasks grouped by status
func (r *GormTaskRepository) CountByStatus(userID uint64) (map[models.TaskStatus]int64, error) {
	var rows []struct {
		Status models.TaskStatus
		Count  int64
	}

	err := r.db.Model(&models.Task{}).
		Select("status, COUNT(*) as count").
		Where("user_id = ?", userID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[models.TaskStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}
