package utils

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kawasemi/task-tracker-api/internal/constants"
)

// PaginationParams holds the pagination parameters
type PaginationParams struct {
	Page    int
	PerPage int
}

// GetPaginationParams extracts and validates pagination parameters from the request
func GetPaginationParams(c *gin.Context) PaginationParams {
	page, _ := strconv.Atoi(c.DefaultQuery("page", strconv.Itoa(constants.DefaultPage)))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", strconv.Itoa(constants.DefaultPerPage)))

	if page < constants.DefaultPage {
		page = constants.DefaultPage
	}
	if perPage < 1 {
		perPage = constants.DefaultPerPage
	}
	if perPage > constants.MaxPerPage {
		perPage = constants.MaxPerPage
	}

	return PaginationParams{
		Page:    page,
		PerPage: perPage,
	}
}

// SortParams holds the validated sort column and direction
type SortParams struct {
	Column     string
	Descending bool
}

// sortableColumns whitelists the task columns accepted via sort_by
var sortableColumns = map[string]string{
	"created_at": "created_at",
	"updated_at": "updated_at",
	"due_date":   "due_date",
	"title":      "title",
	"status":     "status",
	"priority":   "priority",
}

// GetSortParams extracts and validates sort parameters from the request.
// Unknown sort fields fall back to created_at.
func GetSortParams(c *gin.Context) SortParams {
	column, ok := sortableColumns[c.DefaultQuery("sort_by", "created_at")]
	if !ok {
		column = "created_at"
	}

	order := c.DefaultQuery("order", "desc")

	return SortParams{
		Column:     column,
		Descending: !strings.EqualFold(order, "asc"),
	}
}
