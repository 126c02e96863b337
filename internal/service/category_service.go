package service

import (
	"context"

	"github.com/google/uuid"

	"tasktrack/internal/models"
	"tasktrack/internal/repository"
)

// CategoryService implements owner-scoped category CRUD.
type CategoryService struct {
	categoryRepo *repository.CategoryRepository
}

func NewCategoryService(categoryRepo *repository.CategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

func (s *CategoryService) Create(ctx context.Context, ownerID uuid.UUID, name string) (*models.Category, error) {
	if name == "" {
		verr := NewValidationError()
		verr.Add("name", msgFieldRequired)
		return nil, verr
	}
	if len(name) > 255 {
		verr := NewValidationError()
		verr.Add("name", msgTitleTooLong)
		return nil, verr
	}

	category := &models.Category{
		ID:      uuid.New(),
		OwnerID: ownerID,
		Name:    name,
	}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CategoryService) List(ctx context.Context, ownerID uuid.UUID) ([]models.Category, error) {
	return s.categoryRepo.ListByOwner(ctx, ownerID)
}

func (s *CategoryService) Get(ctx context.Context, ownerID, id uuid.UUID) (*models.Category, error) {
	return s.categoryRepo.GetByID(ctx, ownerID, id)
}

func (s *CategoryService) Update(ctx context.Context, ownerID, id uuid.UUID, name string) (*models.Category, error) {
	if name == "" {
		verr := NewValidationError()
		verr.Add("name", msgFieldRequired)
		return nil, verr
	}

	category, err := s.categoryRepo.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	category.Name = name
	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CategoryService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	return s.categoryRepo.Delete(ctx, ownerID, id)
}
