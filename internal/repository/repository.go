package repository

import (
	"github.com/kawasemi/task-tracker-api/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(username string) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)
}

// CategoryRepository defines the interface for category data access
type CategoryRepository interface {
	// Create creates a new category
	Create(category *models.Category) error

	// FindByID finds a category by ID
	FindByID(id uint64) (*models.Category, error)

	// FindByName finds a category by name
	FindByName(name string) (*models.Category, error)

	// List retrieves all categories ordered by name
	List() ([]models.Category, error)

	// TaskCounts returns the number of tasks referencing each category
	TaskCounts() (map[uint64]int64, error)

	// Update updates a category
	Update(category *models.Category) error

	// Delete removes a category after clearing the reference on its tasks
	Delete(id uint64) error
}

// TaskFilter holds filtering, sorting and pagination options for listing tasks
type TaskFilter struct {
	UserID     uint64
	Status     *models.TaskStatus
	Priority   *models.TaskPriority
	CategoryID *uint64
	SortColumn string
	SortDesc   bool
	Page       int
	PerPage    int
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Task, error)

	// List retrieves tasks matching the filter along with the total count
	List(filter TaskFilter) ([]models.Task, int64, error)

	// Update updates a task
	Update(task *models.Task) error

	// Delete permanently deletes a task
	Delete(id uint64) error

	// CountByStatus counts a user's tasks grouped by status
	CountByStatus(userID uint64) (map[models.TaskStatus]int64, error)
}
