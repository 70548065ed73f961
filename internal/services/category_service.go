package services

import (
	"strings"

	"event-ticketing-backend/internal/models"
	"event-ticketing-backend/internal/repositories"

	"github.com/google/uuid"
)

type CategoryService struct {
	repo *repositories.Repository
}

func NewCategoryService(repo *repositories.Repository) *CategoryService {
	return &CategoryService{repo: repo}
}

type CategoryRequest struct {
	Name string `json:"name" validate:"required,min=2,max=50"`
}

func (s *CategoryService) Create(req CategoryRequest, actor Actor) (*models.Category, error) {
	if err := requireOrganizer(actor); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, badRequest("category name is required")
	}
	if existing, _ := s.repo.CategoryRepo.GetCategoryByName(name); existing != nil {
		return nil, conflict("category already exists")
	}

	category := &models.Category{Name: name}
	if err := s.repo.CategoryRepo.CreateCategory(category); err != nil {
		return nil, storeError(err, "", "category already exists")
	}
	return category, nil
}

func (s *CategoryService) FindAll() ([]models.Category, error) {
	categories, err := s.repo.CategoryRepo.ListCategories()
	if err != nil {
		return nil, storeError(err, "", "")
	}
	return categories, nil
}

func (s *CategoryService) FindOne(id uuid.UUID) (*models.Category, error) {
	category, err := s.repo.CategoryRepo.GetCategoryByID(id)
	if err != nil {
		return nil, storeError(err, "category not found", "")
	}
	return category, nil
}

func (s *CategoryService) Update(id uuid.UUID, req CategoryRequest, actor Actor) (*models.Category, error) {
	if err := requireOrganizer(actor); err != nil {
		return nil, err
	}

	category, err := s.repo.CategoryRepo.GetCategoryByID(id)
	if err != nil {
		return nil, storeError(err, "category not found", "")
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, badRequest("category name is required")
	}
	if existing, _ := s.repo.CategoryRepo.GetCategoryByName(name); existing != nil && existing.ID != category.ID {
		return nil, conflict("category already exists")
	}

	category.Name = name
	if err := s.repo.CategoryRepo.UpdateCategory(category); err != nil {
		return nil, storeError(err, "", "category already exists")
	}
	return category, nil
}

func (s *CategoryService) Remove(id uuid.UUID, actor Actor) error {
	if err := requireOrganizer(actor); err != nil {
		return err
	}

	err := s.repo.Transaction(func(tx *repositories.Repository) error {
		return tx.CategoryRepo.DeleteCategory(id)
	})
	if err != nil {
		return storeError(err, "category not found", "")
	}
	return nil
}

// resolveCategories loads every category in ids, failing with NotFound when
// any of them is unknown.
func resolveCategories(repo repositories.CategoryRepository, ids []uuid.UUID) ([]models.Category, error) {
	unique := make([]uuid.UUID, 0, len(ids))
	seen := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}

	categories, err := repo.GetCategoriesByIDs(unique)
	if err != nil {
		return nil, storeError(err, "", "")
	}
	if len(categories) != len(unique) {
		return nil, notFound("one or more categories not found")
	}
	return categories, nil
}
