package repository

import (
	"github.com/kawasemi/task-tracker-api/internal/models"
	"gorm.io/gorm"
)

// GormCategoryRepository is a GORM implementation of CategoryRepository
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new CategoryRepository
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &GormCategoryRepository{db: db}
}

// Create creates a new category
func (r *GormCategoryRepository) Create(category *models.Category) error {
	return r.db.Create(category).Error
}

// FindByID finds a category by ID
func (r *GormCategoryRepository) FindByID(id uint64) (*models.Category, error) {
	var category models.Category
	if err := r.db.First(&category, id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// FindByName finds a category by name
func (r *GormCategoryRepository) FindByName(name string) (*models.Category, error) {
	var category models.Category
	if err := r.db.Where("name = ?", name).First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// List retrieves all categories ordered by name
func (r *GormCategoryRepository) List() ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.Order("name ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// TaskCounts returns the number of tasks referencing each category
func (r *GormCategoryRepository) TaskCounts() (map[uint64]int64, error) {
	var rows []struct {
		CategoryID uint64
		Count      int64
	}

	err := r.db.Model(&models.Task{}).
		Select("category_id, COUNT(*) as count").
		Where("category_id IS NOT NULL").
		Group("category_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[uint64]int64, len(rows))
	for _, row := range rows {
		counts[row.CategoryID] = row.Count
	}
	return counts, nil
}

// Update updates a category
func (r *GormCategoryRepository) Update(category *models.Category) error {
	return r.db.Save(category).Error
}

// Delete removes a category after clearing the reference on its tasks.
// Tasks keep existing with category_id set to NULL.
func (r *GormCategoryRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.Task{}).
			Where("category_id = ?", id).
			Update("category_id", gorm.Expr("NULL")).Error
		if err != nil {
			return err
		}

		return tx.Delete(&models.Category{}, id).Error
	})
}
