package service

import (
	"context"
	"fmt"

	"github.com/dskf/bookraffle-api/internal/domain"
	"github.com/dskf/bookraffle-api/internal/repository"
)

var ErrAuthorNotFound = repository.ErrAuthorNotFound

type AuthorRepository interface {
	Create(ctx context.Context, author domain.Author) (domain.Author, error)
	FindByID(ctx context.Context, id uint) (domain.Author, error)
	FindAll(ctx context.Context) ([]domain.Author, error)
	FindBooks(ctx context.Context, authorID uint) ([]domain.Book, error)
	Update(ctx context.Context, author domain.Author) (domain.Author, error)
	Delete(ctx context.Context, id uint) error
}

type AuthorService struct {
	repo AuthorRepository
}

func NewAuthorService(repo AuthorRepository) *AuthorService {
	return &AuthorService{
		repo: repo,
	}
}

func (s *AuthorService) CreateAuthor(ctx context.Context, author domain.Author) (domain.Author, error) {
	created, err := s.repo.Create(ctx, author)
	if err != nil {
		return domain.Author{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *AuthorService) GetAuthor(ctx context.Context, id uint) (domain.Author, error) {
	author, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Author{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return author, nil
}

func (s *AuthorService) ListAuthors(ctx context.Context) ([]domain.Author, error) {
	authors, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	return authors, nil
}

func (s *AuthorService) GetAuthorBooks(ctx context.Context, authorID uint) ([]domain.Book, error) {
	books, err := s.repo.FindBooks(ctx, authorID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindBooks -> %w", err)
	}

	return books, nil
}

func (s *AuthorService) UpdateAuthor(ctx context.Context, author domain.Author) (domain.Author, error) {
	updated, err := s.repo.Update(ctx, author)
	if err != nil {
		return domain.Author{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return updated, nil
}

func (s *AuthorService) DeleteAuthor(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}
