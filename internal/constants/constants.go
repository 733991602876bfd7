package constants

// Context keys
const (
	ContextKeyUserID = "user_id"
)

// Pagination
const (
	DefaultPage    = 1
	DefaultPerPage = 10
	MaxPerPage     = 100
)

// Auth
const (
	MinPasswordLength = 8
)

// Categories
const (
	DefaultCategoryColor = "#3498db"
)
