package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dskf/bookraffle-api/internal/domain"
	"github.com/dskf/bookraffle-api/internal/repository"
)

var (
	ErrBookNotFound       = repository.ErrBookNotFound
	ErrBookHasOpenRaffles = repository.ErrBookHasOpenRaffles
	ErrBookValidation     = errors.New("book validation failed")
)

type BookRepository interface {
	Create(ctx context.Context, book domain.Book) (domain.Book, error)
	FindByID(ctx context.Context, id uint) (domain.Book, error)
	FindAll(ctx context.Context) ([]domain.Book, error)
	Search(ctx context.Context, query string) ([]domain.Book, error)
	FindAuthors(ctx context.Context, bookID uint) ([]domain.Author, error)
	FindCategories(ctx context.Context, bookID uint) ([]domain.Category, error)
	AddAuthor(ctx context.Context, bookID, authorID uint) error
	AddCategory(ctx context.Context, bookID, categoryID uint) error
	Update(ctx context.Context, book domain.Book) (domain.Book, error)
	UpdateCoverImage(ctx context.Context, id uint, filename string) error
	Delete(ctx context.Context, id uint) error
}

type BookService struct {
	repo BookRepository
}

func NewBookService(repo BookRepository) *BookService {
	return &BookService{
		repo: repo,
	}
}

func (s *BookService) CreateBook(ctx context.Context, book domain.Book) (domain.Book, error) {
	if strings.TrimSpace(book.Title) == "" {
		return domain.Book{}, ErrBookValidation
	}

	created, err := s.repo.Create(ctx, book)
	if err != nil {
		return domain.Book{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *BookService) GetBook(ctx context.Context, id uint) (domain.Book, error) {
	book, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Book{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return book, nil
}

func (s *BookService) ListBooks(ctx context.Context) ([]domain.Book, error) {
	books, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	return books, nil
}

// SearchBooks matches against title, publisher and summary. An empty
// query returns everything.
func (s *BookService) SearchBooks(ctx context.Context, query string) ([]domain.Book, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.ListBooks(ctx)
	}

	books, err := s.repo.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("s.repo.Search -> %w", err)
	}

	return books, nil
}

func (s *BookService) GetBookAuthors(ctx context.Context, bookID uint) ([]domain.Author, error) {
	authors, err := s.repo.FindAuthors(ctx, bookID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAuthors -> %w", err)
	}

	return authors, nil
}

func (s *BookService) GetBookCategories(ctx context.Context, bookID uint) ([]domain.Category, error) {
	categories, err := s.repo.FindCategories(ctx, bookID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindCategories -> %w", err)
	}

	return categories, nil
}

func (s *BookService) AddBookAuthor(ctx context.Context, bookID, authorID uint) error {
	if err := s.repo.AddAuthor(ctx, bookID, authorID); err != nil {
		return fmt.Errorf("s.repo.AddAuthor -> %w", err)
	}

	return nil
}

func (s *BookService) AddBookCategory(ctx context.Context, bookID, categoryID uint) error {
	if err := s.repo.AddCategory(ctx, bookID, categoryID); err != nil {
		return fmt.Errorf("s.repo.AddCategory -> %w", err)
	}

	return nil
}

func (s *BookService) UpdateBook(ctx context.Context, book domain.Book) (domain.Book, error) {
	if strings.TrimSpace(book.Title) == "" {
		return domain.Book{}, ErrBookValidation
	}

	updated, err := s.repo.Update(ctx, book)
	if err != nil {
		return domain.Book{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return updated, nil
}

func (s *BookService) UpdateCoverImage(ctx context.Context, id uint, filename string) error {
	if err := s.repo.UpdateCoverImage(ctx, id, filename); err != nil {
		return fmt.Errorf("s.repo.UpdateCoverImage -> %w", err)
	}

	return nil
}

func (s *BookService) DeleteBook(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}
