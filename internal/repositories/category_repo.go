package repositories

import (
	"fmt"

	"event-ticketing-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type categoryRepo struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepo{db: db}
}

func (r *categoryRepo) CreateCategory(category *models.Category) error {
	return r.db.Create(category).Error
}

func (r *categoryRepo) GetCategoryByID(id uuid.UUID) (*models.Category, error) {
	var category models.Category
	if err := r.db.Where("id = ?", id).First(&category).Error; err != nil {
		return nil, fmt.Errorf("category %s: %w", id, err)
	}
	return &category, nil
}

func (r *categoryRepo) GetCategoryByName(name string) (*models.Category, error) {
	var category models.Category
	if err := r.db.Where("LOWER(name) = LOWER(?)", name).First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// GetCategoriesByIDs returns the categories that exist among ids. Callers
// compare lengths to detect unknown IDs.
func (r *categoryRepo) GetCategoriesByIDs(ids []uuid.UUID) ([]models.Category, error) {
	var categories []models.Category
	if len(ids) == 0 {
		return categories, nil
	}
	if err := r.db.Where("id IN ?", ids).Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to get categories: %w", err)
	}
	return categories, nil
}

func (r *categoryRepo) ListCategories() ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.Order("name ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

func (r *categoryRepo) UpdateCategory(category *models.Category) error {
	return r.db.Save(category).Error
}

func (r *categoryRepo) DeleteCategory(id uuid.UUID) error {
	if err := r.db.Exec("DELETE FROM event_categories WHERE category_id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to detach category: %w", err)
	}

	result := r.db.Where("id = ?", id).Delete(&models.Category{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete category: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("category %s: %w", id, gorm.ErrRecordNotFound)
	}
	return nil
}
