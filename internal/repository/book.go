package repository

import (
	"context"
	"fmt"

	"github.com/dskf/bookraffle-api/internal/domain"
	"github.com/dskf/bookraffle-api/internal/repository/dao"
)

var (
	ErrBookNotFound       = dao.ErrBookNotFound
	ErrBookHasOpenRaffles = dao.ErrBookHasOpenRaffles
	ErrAuthorNotFound     = dao.ErrAuthorNotFound
	ErrCategoryNotFound   = dao.ErrCategoryNotFound
)

type BookDAO interface {
	Insert(ctx context.Context, book dao.Book) (dao.Book, error)
	FindByID(ctx context.Context, id uint) (dao.Book, error)
	FindAll(ctx context.Context) ([]dao.Book, error)
	Search(ctx context.Context, query string) ([]dao.Book, error)
	FindAuthors(ctx context.Context, bookID uint) ([]dao.Author, error)
	FindCategories(ctx context.Context, bookID uint) ([]dao.Category, error)
	AddAuthor(ctx context.Context, bookID, authorID uint) error
	AddCategory(ctx context.Context, bookID, categoryID uint) error
	Update(ctx context.Context, book dao.Book) (dao.Book, error)
	UpdateCoverImage(ctx context.Context, id uint, filename string) error
	Delete(ctx context.Context, id uint) error
}

type BookRepository struct {
	dao BookDAO
}

func NewBookRepository(dao BookDAO) *BookRepository {
	return &BookRepository{
		dao: dao,
	}
}

func bookDomainToDao(b domain.Book) dao.Book {
	return dao.Book{
		ID:            b.ID,
		Title:         b.Title,
		Summary:       b.Summary,
		Publisher:     b.Publisher,
		YearPublished: b.YearPublished,
		Edition:       b.Edition,
		CoverImage:    b.CoverImage,
		IsActive:      b.IsActive,
		IsSuspended:   b.IsSuspended,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

func bookDaoToDomain(b dao.Book) domain.Book {
	book := domain.Book{
		ID:            b.ID,
		Title:         b.Title,
		Summary:       b.Summary,
		Publisher:     b.Publisher,
		YearPublished: b.YearPublished,
		Edition:       b.Edition,
		CoverImage:    b.CoverImage,
		IsActive:      b.IsActive,
		IsSuspended:   b.IsSuspended,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}

	for _, a := range b.Authors {
		book.Authors = append(book.Authors, authorDaoToDomain(a))
	}
	for _, c := range b.Categories {
		book.Categories = append(book.Categories, categoryDaoToDomain(c))
	}

	return book
}

func (r *BookRepository) Create(ctx context.Context, book domain.Book) (domain.Book, error) {
	created, err := r.dao.Insert(ctx, bookDomainToDao(book))
	if err != nil {
		return domain.Book{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return bookDaoToDomain(created), nil
}

func (r *BookRepository) FindByID(ctx context.Context, id uint) (domain.Book, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Book{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return bookDaoToDomain(found), nil
}

func (r *BookRepository) FindAll(ctx context.Context) ([]domain.Book, error) {
	found, err := r.dao.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	return booksDaoToDomain(found), nil
}

func (r *BookRepository) Search(ctx context.Context, query string) ([]domain.Book, error) {
	found, err := r.dao.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("r.dao.Search -> %w", err)
	}

	return booksDaoToDomain(found), nil
}

func booksDaoToDomain(found []dao.Book) []domain.Book {
	books := make([]domain.Book, len(found))
	for i, b := range found {
		books[i] = bookDaoToDomain(b)
	}

	return books
}

func (r *BookRepository) FindAuthors(ctx context.Context, bookID uint) ([]domain.Author, error) {
	found, err := r.dao.FindAuthors(ctx, bookID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAuthors -> %w", err)
	}

	authors := make([]domain.Author, len(found))
	for i, a := range found {
		authors[i] = authorDaoToDomain(a)
	}

	return authors, nil
}

func (r *BookRepository) FindCategories(ctx context.Context, bookID uint) ([]domain.Category, error) {
	found, err := r.dao.FindCategories(ctx, bookID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindCategories -> %w", err)
	}

	categories := make([]domain.Category, len(found))
	for i, c := range found {
		categories[i] = categoryDaoToDomain(c)
	}

	return categories, nil
}

func (r *BookRepository) AddAuthor(ctx context.Context, bookID, authorID uint) error {
	if err := r.dao.AddAuthor(ctx, bookID, authorID); err != nil {
		return fmt.Errorf("r.dao.AddAuthor -> %w", err)
	}

	return nil
}

func (r *BookRepository) AddCategory(ctx context.Context, bookID, categoryID uint) error {
	if err := r.dao.AddCategory(ctx, bookID, categoryID); err != nil {
		return fmt.Errorf("r.dao.AddCategory -> %w", err)
	}

	return nil
}

func (r *BookRepository) Update(ctx context.Context, book domain.Book) (domain.Book, error) {
	updated, err := r.dao.Update(ctx, bookDomainToDao(book))
	if err != nil {
		return domain.Book{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return bookDaoToDomain(updated), nil
}

func (r *BookRepository) UpdateCoverImage(ctx context.Context, id uint, filename string) error {
	if err := r.dao.UpdateCoverImage(ctx, id, filename); err != nil {
		return fmt.Errorf("r.dao.UpdateCoverImage -> %w", err)
	}

	return nil
}

func (r *BookRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}
