package handlers

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kawasemi/task-tracker-api/internal/dto"
	apierrors "github.com/kawasemi/task-tracker-api/internal/errors"
	"github.com/kawasemi/task-tracker-api/internal/middleware"
	"github.com/kawasemi/task-tracker-api/internal/models"
	"github.com/kawasemi/task-tracker-api/internal/services"
	"github.com/kawasemi/task-tracker-api/internal/utils"
)

// TaskHandler coordinates task HTTP handlers.
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// ListTasks returns the authenticated user's tasks with optional filters,
// pagination and sorting.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	input := services.ListTasksInput{UserID: userID}

	if status := c.Query("status"); status != "" {
		s := models.TaskStatus(status)
		input.Status = &s
	}
	if priority := c.Query("priority"); priority != "" {
		p := models.TaskPriority(priority)
		input.Priority = &p
	}
	if categoryIDStr := c.Query("category_id"); categoryIDStr != "" {
		categoryID, err := strconv.ParseUint(categoryIDStr, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid category_id")
			return
		}
		input.CategoryID = &categoryID
	}

	params := utils.GetPaginationParams(c)
	sort := utils.GetSortParams(c)
	input.Page = params.Page
	input.PerPage = params.PerPage
	input.SortColumn = sort.Column
	input.SortDesc = sort.Descending

	tasks, total, err := h.taskService.ListTasks(input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListResponse(tasks, total, params.Page, params.PerPage))
}

// GetTask returns one of the authenticated user's tasks by ID.
func (h *TaskHandler) GetTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(id, userID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// CreateTask creates a new task owned by the authenticated user.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type CreateTaskRequest struct {
		Title       string  `json:"title" binding:"required,max=200"`
		Description string  `json:"description"`
		Status      string  `json:"status"`
		Priority    string  `json:"priority"`
		DueDate     *string `json:"due_date"`
		CategoryID  *uint64 `json:"category_id"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input := services.CreateTaskInput{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Status:      models.TaskStatus(req.Status),
		Priority:    models.TaskPriority(req.Priority),
		CategoryID:  req.CategoryID,
	}

	if req.DueDate != nil {
		dueDate, err := time.Parse(time.RFC3339, *req.DueDate)
		if err != nil {
			apierrors.BadRequest(c, "Invalid due_date format. Use RFC3339")
			return
		}
		input.DueDate = &dueDate
	}

	task, err := h.taskService.CreateTask(input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Task created successfully",
		"task":    dto.ToTaskDTO(*task),
	})
}

// UpdateTask applies a partial update to one of the authenticated user's
// tasks. The raw body is inspected so that explicit nulls (due_date,
// category_id) can be told apart from omitted fields.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var rawReq map[string]any
	if err := c.ShouldBindJSON(&rawReq); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	var input services.UpdateTaskInput

	if raw, present := rawReq["title"]; present {
		title, ok := raw.(string)
		if !ok {
			apierrors.BadRequest(c, "title must be a string")
			return
		}
		input.Title = &title
	}
	if raw, present := rawReq["description"]; present {
		description, ok := raw.(string)
		if !ok {
			apierrors.BadRequest(c, "description must be a string")
			return
		}
		input.Description = &description
	}
	if raw, present := rawReq["status"]; present {
		status, ok := raw.(string)
		if !ok {
			apierrors.BadRequest(c, "status must be a string")
			return
		}
		s := models.TaskStatus(status)
		input.Status = &s
	}
	if raw, present := rawReq["priority"]; present {
		priority, ok := raw.(string)
		if !ok {
			apierrors.BadRequest(c, "priority must be a string")
			return
		}
		p := models.TaskPriority(priority)
		input.Priority = &p
	}
	if raw, present := rawReq["due_date"]; present {
		if raw == nil {
			input.ClearDueDate = true
		} else {
			dueDateStr, ok := raw.(string)
			if !ok {
				apierrors.BadRequest(c, "due_date must be a string or null")
				return
			}
			dueDate, err := time.Parse(time.RFC3339, dueDateStr)
			if err != nil {
				apierrors.BadRequest(c, "Invalid due_date format. Use RFC3339")
				return
			}
			input.DueDate = &dueDate
		}
	}
	if raw, present := rawReq["category_id"]; present {
		if raw == nil {
			input.ClearCategory = true
		} else {
			categoryIDNum, ok := raw.(float64)
			if !ok || categoryIDNum < 0 || categoryIDNum != math.Trunc(categoryIDNum) {
				apierrors.BadRequest(c, "category_id must be a non-negative integer or null")
				return
			}
			categoryID := uint64(categoryIDNum)
			input.CategoryID = &categoryID
		}
	}

	task, err := h.taskService.UpdateTask(id, userID, input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task updated successfully",
		"task":    dto.ToTaskDTO(*task),
	})
}

// DeleteTask permanently deletes one of the authenticated user's tasks.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(id, userID); err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task deleted successfully",
	})
}

// GetStats returns the authenticated user's task statistics.
func (h *TaskHandler) GetStats(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	stats, err := h.taskService.Stats(userID)
	if err != nil {
		apierrors.InternalError(c, "Failed to compute stats")
		return
	}

	c.JSON(http.StatusOK, dto.StatsDTO{
		TotalTasks:     stats.Total,
		Pending:        stats.Pending,
		InProgress:     stats.InProgress,
		Completed:      stats.Completed,
		CompletionRate: stats.CompletionRate,
	})
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTitleRequired),
		errors.Is(err, services.ErrTitleEmpty),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrInvalidPriority):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrCategoryNotFound):
		apierrors.NotFound(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
