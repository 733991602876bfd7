package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kawasemi/task-tracker-api/internal/dto"
	apierrors "github.com/kawasemi/task-tracker-api/internal/errors"
	"github.com/kawasemi/task-tracker-api/internal/services"
)

// CategoryHandler coordinates category HTTP handlers. Categories are
// shared across all users, so handlers only require authentication,
// not ownership.
type CategoryHandler struct {
	categoryService *services.CategoryService
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(categoryService *services.CategoryService) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
	}
}

// ListCategories returns all categories with their task counts.
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	categories, counts, err := h.categoryService.ListCategories()
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch categories")
		return
	}

	c.JSON(http.StatusOK, dto.ToCategoryListDTO(categories, counts))
}

// CreateCategory creates a new category.
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	type CreateCategoryRequest struct {
		Name        string `json:"name" binding:"required,max=50"`
		Description string `json:"description" binding:"max=255"`
		Color       string `json:"color" binding:"omitempty,max=7"`
	}

	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	category, err := h.categoryService.CreateCategory(services.CreateCategoryInput{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
	})
	if err != nil {
		respondCategoryError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Category created successfully",
		"category": dto.ToCategoryDTO(*category, 0),
	})
}

// GetCategory returns a single category.
func (h *CategoryHandler) GetCategory(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	category, err := h.categoryService.GetCategory(id)
	if err != nil {
		respondCategoryError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCategoryDTO(*category, 0))
}

// UpdateCategory applies a partial update to a category.
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	type UpdateCategoryRequest struct {
		Name        *string `json:"name" binding:"omitempty,max=50"`
		Description *string `json:"description" binding:"omitempty,max=255"`
		Color       *string `json:"color" binding:"omitempty,max=7"`
	}

	var req UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	category, err := h.categoryService.UpdateCategory(id, services.UpdateCategoryInput{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
	})
	if err != nil {
		respondCategoryError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Category updated successfully",
		"category": dto.ToCategoryDTO(*category, 0),
	})
}

// DeleteCategory deletes a category. Tasks referencing it keep existing
// with the reference cleared.
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.categoryService.DeleteCategory(id); err != nil {
		respondCategoryError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Category deleted successfully",
	})
}

func parseIDParam(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid id")
		return 0, false
	}
	return id, true
}

func respondCategoryError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrCategoryNameRequired):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrCategoryNameTaken):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrCategoryNotFound):
		apierrors.NotFound(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
