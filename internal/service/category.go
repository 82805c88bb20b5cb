package service

import (
	"context"
	"fmt"

	"github.com/dskf/bookraffle-api/internal/domain"
	"github.com/dskf/bookraffle-api/internal/repository"
)

var ErrCategoryNotFound = repository.ErrCategoryNotFound

type CategoryRepository interface {
	Create(ctx context.Context, category domain.Category) (domain.Category, error)
	FindByID(ctx context.Context, id uint) (domain.Category, error)
	FindAll(ctx context.Context) ([]domain.Category, error)
	FindBooks(ctx context.Context, categoryID uint) ([]domain.Book, error)
	Update(ctx context.Context, category domain.Category) (domain.Category, error)
	Delete(ctx context.Context, id uint) error
}

type CategoryService struct {
	repo CategoryRepository
}

func NewCategoryService(repo CategoryRepository) *CategoryService {
	return &CategoryService{
		repo: repo,
	}
}

func (s *CategoryService) CreateCategory(ctx context.Context, category domain.Category) (domain.Category, error) {
	created, err := s.repo.Create(ctx, category)
	if err != nil {
		return domain.Category{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *CategoryService) GetCategory(ctx context.Context, id uint) (domain.Category, error) {
	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Category{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return category, nil
}

func (s *CategoryService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	return categories, nil
}

func (s *CategoryService) GetCategoryBooks(ctx context.Context, categoryID uint) ([]domain.Book, error) {
	books, err := s.repo.FindBooks(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindBooks -> %w", err)
	}

	return books, nil
}

func (s *CategoryService) UpdateCategory(ctx context.Context, category domain.Category) (domain.Category, error) {
	updated, err := s.repo.Update(ctx, category)
	if err != nil {
		return domain.Category{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return updated, nil
}

func (s *CategoryService) DeleteCategory(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}
