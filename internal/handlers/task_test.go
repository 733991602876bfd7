package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kawasemi/task-tracker-api/internal/middleware"
	"github.com/kawasemi/task-tracker-api/internal/models"
	"github.com/kawasemi/task-tracker-api/internal/repository"
	"github.com/kawasemi/task-tracker-api/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// TaskHandlerTestSuite defines the test suite for TaskHandler
type TaskHandlerTestSuite struct {
	suite.Suite
	db           *gorm.DB
	router       *gin.Engine
	tokenService *services.TokenService
}

// SetupTest runs before each test
func (suite *TaskHandlerTestSuite) SetupTest() {
	var err error

	// Create in-memory SQLite database
	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Task{},
	)
	suite.Require().NoError(err)

	taskRepo := repository.NewTaskRepository(suite.db)
	categoryRepo := repository.NewCategoryRepository(suite.db)
	taskService := services.NewTaskService(taskRepo, categoryRepo)
	handler := NewTaskHandler(taskService)
	suite.tokenService = services.NewTokenService("test-secret-for-task-handler-tests", time.Hour)

	gin.SetMode(gin.TestMode)
	suite.router = gin.New()

	requireAuth := middleware.RequireAuth(suite.tokenService)
	tasks := suite.router.Group("/api/tasks")
	tasks.Use(requireAuth)
	{
		tasks.GET("", handler.ListTasks)
		tasks.POST("", handler.CreateTask)
		tasks.GET("/:id", handler.GetTask)
		tasks.PUT("/:id", handler.UpdateTask)
		tasks.DELETE("/:id", handler.DeleteTask)
	}
	suite.router.GET("/api/stats", requireAuth, handler.GetStats)
}

// TearDownTest runs after each test
func (suite *TaskHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

// Helper functions to create test data

func (suite *TaskHandlerTestSuite) createTestUser(username string) *models.User {
	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hashedpassword",
	}
	suite.db.Create(user)
	return user
}

func (suite *TaskHandlerTestSuite) createTestCategory(name string) *models.Category {
	category := &models.Category{
		Name:  name,
		Color: "#3498db",
	}
	suite.db.Create(category)
	return category
}

func (suite *TaskHandlerTestSuite) createTestTask(title string, userID uint64, status models.TaskStatus) *models.Task {
	task := &models.Task{
		Title:    title,
		Status:   status,
		Priority: models.TaskPriorityMedium,
		UserID:   userID,
	}
	suite.db.Create(task)
	return task
}

func (suite *TaskHandlerTestSuite) authHeader(userID uint64) map[string]string {
	token, err := suite.tokenService.GenerateToken(userID)
	suite.Require().NoError(err)
	return map[string]string{"Authorization": "Bearer " + token}
}

func (suite *TaskHandlerTestSuite) TestCreateTask_Success() {
	user := suite.createTestUser("alice")
	category := suite.createTestCategory("Work")

	w := doJSONRequest(suite.T(), suite.router, http.MethodPost, "/api/tasks", map[string]any{
		"title":       "Write proposal",
		"description": "First draft",
		"status":      "pending",
		"priority":    "high",
		"due_date":    "2025-07-01T09:00:00Z",
		"category_id": category.ID,
	}, suite.authHeader(user.ID))

	suite.Require().Equal(http.StatusCreated, w.Code)

	var response struct {
		Task struct {
			ID          uint64  `json:"id"`
			Title       string  `json:"title"`
			Description string  `json:"description"`
			Status      string  `json:"status"`
			Priority    string  `json:"priority"`
			DueDate     *string `json:"due_date"`
			CompletedAt *string `json:"completed_at"`
			UserID      uint64  `json:"user_id"`
			CategoryID  *uint64 `json:"category_id"`
		} `json:"task"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), "Write proposal", response.Task.Title)
	assert.Equal(suite.T(), "First draft", response.Task.Description)
	assert.Equal(suite.T(), "pending", response.Task.Status)
	assert.Equal(suite.T(), "high", response.Task.Priority)
	assert.NotNil(suite.T(), response.Task.DueDate)
	assert.Nil(suite.T(), response.Task.CompletedAt)
	assert.Equal(suite.T(), user.ID, response.Task.UserID)
	suite.Require().NotNil(response.Task.CategoryID)
	assert.Equal(suite.T(), category.ID, *response.Task.CategoryID)

	// Round-trip: the task is retrievable with identical field values
	w = doJSONRequest(suite.T(), suite.router, http.MethodGet,
		fmt.Sprintf("/api/tasks/%d", response.Task.ID), nil, suite.authHeader(user.ID))
	suite.Require().Equal(http.StatusOK, w.Code)

	var fetched struct {
		Title    string `json:"title"`
		Status   string `json:"status"`
		Priority string `json:"priority"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &fetched))
	assert.Equal(suite.T(), "Write proposal", fetched.Title)
	assert.Equal(suite.T(), "pending", fetched.Status)
	assert.Equal(suite.T(), "high", fetched.Priority)
}

func (suite *TaskHandlerTestSuite) TestCreateTask_InvalidStatus() {
	user := suite.createTestUser("alice")

	w := doJSONRequest(suite.T(), suite.router, http.MethodPost, "/api/tasks", map[string]any{
		"title":  "Bad",
		"status": "archived",
	}, suite.authHeader(user.ID))

	suite.Require().Equal(http.StatusBadRequest, w.Code)
}

func (suite *TaskHandlerTestSuite) TestCreateTask_InvalidDueDate() {
	user := suite.createTestUser("alice")

	w := doJSONRequest(suite.T(), suite.router, http.MethodPost, "/api/tasks", map[string]any{
		"title":    "Bad date",
		"due_date": "tomorrow",
	}, suite.authHeader(user.ID))

	suite.Require().Equal(http.StatusBadRequest, w.Code)
}

func (suite *TaskHandlerTestSuite) TestCreateTask_MissingTitle() {
	user := suite.createTestUser("alice")

	w := doJSONRequest(suite.T(), suite.router, http.MethodPost, "/api/tasks", map[string]any{
		"description": "no title",
	}, suite.authHeader(user.ID))

	suite.Require().Equal(http.StatusBadRequest, w.Code)
}

func (suite *TaskHandlerTestSuite) TestCreateTask_UnknownCategory() {
	user := suite.createTestUser("alice")

	w := doJSONRequest(suite.T(), suite.router, http.MethodPost, "/api/tasks", map[string]any{
		"title":       "Orphan",
		"category_id": 99,
	}, suite.authHeader(user.ID))

	suite.Require().Equal(http.StatusNotFound, w.Code)
}

func (suite *TaskHandlerTestSuite) TestGetTask_OtherUserHidden() {
	alice := suite.createTestUser("alice")
	bob := suite.createTestUser("bob")
	task := suite.createTestTask("Private", alice.ID, models.TaskStatusPending)

	// Bob gets 404, not 403
	w := doJSONRequest(suite.T(), suite.router, http.MethodGet,
		fmt.Sprintf("/api/tasks/%d", task.ID), nil, suite.authHeader(bob.ID))
	suite.Require().Equal(http.StatusNotFound, w.Code)

	// Alice can still read it
	w = doJSONRequest(suite.T(), suite.router, http.MethodGet,
		fmt.Sprintf("/api/tasks/%d", task.ID), nil, suite.authHeader(alice.ID))
	suite.Require().Equal(http.StatusOK, w.Code)
}

func (suite *TaskHandlerTestSuite) TestUpdateTask_CompletionLifecycle() {
	user := suite.createTestUser("alice")
	task := suite.createTestTask("Finish report", user.ID, models.TaskStatusPending)

	w := doJSONRequest(suite.T(), suite.router, http.MethodPut,
		fmt.Sprintf("/api/tasks/%d", task.ID), map[string]any{
			"status": "completed",
		}, suite.authHeader(user.ID))
	suite.Require().Equal(http.StatusOK, w.Code)

	var response struct {
		Task struct {
			Status      string  `json:"status"`
			CompletedAt *string `json:"completed_at"`
		} `json:"task"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), "completed", response.Task.Status)
	suite.Require().NotNil(response.Task.CompletedAt)

	// Reopening clears the completion timestamp
	w = doJSONRequest(suite.T(), suite.router, http.MethodPut,
		fmt.Sprintf("/api/tasks/%d", task.ID), map[string]any{
			"status": "pending",
		}, suite.authHeader(user.ID))
	suite.Require().Equal(http.StatusOK, w.Code)

	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), "pending", response.Task.Status)
	assert.Nil(suite.T(), response.Task.CompletedAt)
}

func (suite *TaskHandlerTestSuite) TestUpdateTask_ExplicitNulls() {
	user := suite.createTestUser("alice")
	category := suite.createTestCategory("Work")
	due := time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)
	task := &models.Task{
		Title:      "With extras",
		Status:     models.TaskStatusPending,
		Priority:   models.TaskPriorityMedium,
		DueDate:    &due,
		UserID:     user.ID,
		CategoryID: &category.ID,
	}
	suite.db.Create(task)

	w := doJSONRequest(suite.T(), suite.router, http.MethodPut,
		fmt.Sprintf("/api/tasks/%d", task.ID), map[string]any{
			"due_date":    nil,
			"category_id": nil,
		}, suite.authHeader(user.ID))
	suite.Require().Equal(http.StatusOK, w.Code)

	var response struct {
		Task struct {
			DueDate    *string `json:"due_date"`
			CategoryID *uint64 `json:"category_id"`
		} `json:"task"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Nil(suite.T(), response.Task.DueDate)
	assert.Nil(suite.T(), response.Task.CategoryID)
}

func (suite *TaskHandlerTestSuite) TestUpdateTask_WrongFieldTypesRejected() {
	user := suite.createTestUser("alice")
	task := suite.createTestTask("Typed", user.ID, models.TaskStatusPending)

	payloads := []map[string]any{
		{"status": 123},
		{"priority": true},
		{"title": 7},
		{"description": []string{"x"}},
		{"due_date": 1720000000},
		{"category_id": "work"},
		{"category_id": -1},
		{"category_id": 1.5},
	}

	for _, payload := range payloads {
		w := doJSONRequest(suite.T(), suite.router, http.MethodPut,
			fmt.Sprintf("/api/tasks/%d", task.ID), payload, suite.authHeader(user.ID))
		assert.Equal(suite.T(), http.StatusBadRequest, w.Code, "payload %v", payload)
	}

	// Nothing was applied along the way
	w := doJSONRequest(suite.T(), suite.router, http.MethodGet,
		fmt.Sprintf("/api/tasks/%d", task.ID), nil, suite.authHeader(user.ID))
	suite.Require().Equal(http.StatusOK, w.Code)

	var fetched struct {
		Title  string `json:"title"`
		Status string `json:"status"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &fetched))
	assert.Equal(suite.T(), "Typed", fetched.Title)
	assert.Equal(suite.T(), "pending", fetched.Status)
}

func (suite *TaskHandlerTestSuite) TestDeleteTask() {
	user := suite.createTestUser("alice")
	task := suite.createTestTask("Temporary", user.ID, models.TaskStatusPending)

	w := doJSONRequest(suite.T(), suite.router, http.MethodDelete,
		fmt.Sprintf("/api/tasks/%d", task.ID), nil, suite.authHeader(user.ID))
	suite.Require().Equal(http.StatusOK, w.Code)

	w = doJSONRequest(suite.T(), suite.router, http.MethodGet,
		fmt.Sprintf("/api/tasks/%d", task.ID), nil, suite.authHeader(user.ID))
	suite.Require().Equal(http.StatusNotFound, w.Code)
}

func (suite *TaskHandlerTestSuite) TestListTasks_Pagination() {
	user := suite.createTestUser("alice")
	for i := 0; i < 45; i++ {
		suite.createTestTask(fmt.Sprintf("Task %02d", i), user.ID, models.TaskStatusPending)
	}

	w := doJSONRequest(suite.T(), suite.router, http.MethodGet,
		"/api/tasks?per_page=10&page=5", nil, suite.authHeader(user.ID))
	suite.Require().Equal(http.StatusOK, w.Code)

	var response struct {
		Tasks   []json.RawMessage `json:"tasks"`
		Total   int64             `json:"total"`
		Page    int               `json:"page"`
		PerPage int               `json:"per_page"`
		Pages   int               `json:"pages"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), int64(45), response.Total)
	assert.Equal(suite.T(), 5, response.Page)
	assert.Equal(suite.T(), 10, response.PerPage)
	assert.Equal(suite.T(), 5, response.Pages)
	assert.Len(suite.T(), response.Tasks, 5)

	// Past the last page: no items, same totals
	w = doJSONRequest(suite.T(), suite.router, http.MethodGet,
		"/api/tasks?per_page=10&page=6", nil, suite.authHeader(user.ID))
	suite.Require().Equal(http.StatusOK, w.Code)

	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), int64(45), response.Total)
	assert.Len(suite.T(), response.Tasks, 0)
}

func (suite *TaskHandlerTestSuite) TestListTasks_Filters() {
	alice := suite.createTestUser("alice")
	bob := suite.createTestUser("bob")

	suite.createTestTask("A pending", alice.ID, models.TaskStatusPending)
	suite.createTestTask("A completed", alice.ID, models.TaskStatusCompleted)
	suite.createTestTask("B pending", bob.ID, models.TaskStatusPending)

	w := doJSONRequest(suite.T(), suite.router, http.MethodGet,
		"/api/tasks?status=pending", nil, suite.authHeader(alice.ID))
	suite.Require().Equal(http.StatusOK, w.Code)

	var response struct {
		Tasks []struct {
			Title  string `json:"title"`
			UserID uint64 `json:"user_id"`
		} `json:"tasks"`
		Total int64 `json:"total"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Require().Equal(int64(1), response.Total)
	suite.Require().Len(response.Tasks, 1)
	assert.Equal(suite.T(), "A pending", response.Tasks[0].Title)
	assert.Equal(suite.T(), alice.ID, response.Tasks[0].UserID)
}

func (suite *TaskHandlerTestSuite) TestListTasks_InvalidStatusFilter() {
	user := suite.createTestUser("alice")

	w := doJSONRequest(suite.T(), suite.router, http.MethodGet,
		"/api/tasks?status=archived", nil, suite.authHeader(user.ID))
	suite.Require().Equal(http.StatusBadRequest, w.Code)
}

func (suite *TaskHandlerTestSuite) TestGetStats() {
	user := suite.createTestUser("alice")
	suite.createTestTask("One", user.ID, models.TaskStatusCompleted)

	w := doJSONRequest(suite.T(), suite.router, http.MethodGet,
		"/api/stats", nil, suite.authHeader(user.ID))
	suite.Require().Equal(http.StatusOK, w.Code)

	var response struct {
		TotalTasks     int64   `json:"total_tasks"`
		Pending        int64   `json:"pending"`
		InProgress     int64   `json:"in_progress"`
		Completed      int64   `json:"completed"`
		CompletionRate float64 `json:"completion_rate"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), int64(1), response.TotalTasks)
	assert.Equal(suite.T(), int64(0), response.Pending)
	assert.Equal(suite.T(), int64(0), response.InProgress)
	assert.Equal(suite.T(), int64(1), response.Completed)
	assert.Equal(suite.T(), 100.0, response.CompletionRate)
}

func (suite *TaskHandlerTestSuite) TestGetStats_NoTasks() {
	user := suite.createTestUser("alice")

	w := doJSONRequest(suite.T(), suite.router, http.MethodGet,
		"/api/stats", nil, suite.authHeader(user.ID))
	suite.Require().Equal(http.StatusOK, w.Code)

	var response struct {
		TotalTasks     int64   `json:"total_tasks"`
		CompletionRate float64 `json:"completion_rate"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), int64(0), response.TotalTasks)
	assert.Equal(suite.T(), 0.0, response.CompletionRate)
}

func (suite *TaskHandlerTestSuite) TestListTasks_Unauthorized() {
	w := doJSONRequest(suite.T(), suite.router, http.MethodGet, "/api/tasks", nil, nil)
	suite.Require().Equal(http.StatusUnauthorized, w.Code)
}

func TestTaskHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(TaskHandlerTestSuite))
}
