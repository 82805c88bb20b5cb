package repository

import (
	"context"
	"fmt"

	"github.com/dskf/bookraffle-api/internal/domain"
	"github.com/dskf/bookraffle-api/internal/repository/dao"
)

type AuthorDAO interface {
	Insert(ctx context.Context, author dao.Author) (dao.Author, error)
	FindByID(ctx context.Context, id uint) (dao.Author, error)
	FindAll(ctx context.Context) ([]dao.Author, error)
	FindBooks(ctx context.Context, authorID uint) ([]dao.Book, error)
	Update(ctx context.Context, author dao.Author) (dao.Author, error)
	Delete(ctx context.Context, id uint) error
}

type AuthorRepository struct {
	dao AuthorDAO
}

func NewAuthorRepository(dao AuthorDAO) *AuthorRepository {
	return &AuthorRepository{
		dao: dao,
	}
}

func authorDomainToDao(a domain.Author) dao.Author {
	return dao.Author{
		ID:           a.ID,
		FirstName:    a.FirstName,
		MiddleName:   a.MiddleName,
		LastName:     a.LastName,
		Gender:       a.Gender,
		EmailAddress: a.EmailAddress,
		PhoneNumber:  a.PhoneNumber,
		Nationality:  a.Nationality,
		Summary:      a.Summary,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

func authorDaoToDomain(a dao.Author) domain.Author {
	return domain.Author{
		ID:           a.ID,
		FirstName:    a.FirstName,
		MiddleName:   a.MiddleName,
		LastName:     a.LastName,
		Gender:       a.Gender,
		EmailAddress: a.EmailAddress,
		PhoneNumber:  a.PhoneNumber,
		Nationality:  a.Nationality,
		Summary:      a.Summary,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

func (r *AuthorRepository) Create(ctx context.Context, author domain.Author) (domain.Author, error) {
	created, err := r.dao.Insert(ctx, authorDomainToDao(author))
	if err != nil {
		return domain.Author{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return authorDaoToDomain(created), nil
}

func (r *AuthorRepository) FindByID(ctx context.Context, id uint) (domain.Author, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Author{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return authorDaoToDomain(found), nil
}

func (r *AuthorRepository) FindAll(ctx context.Context) ([]domain.Author, error) {
	found, err := r.dao.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	authors := make([]domain.Author, len(found))
	for i, a := range found {
		authors[i] = authorDaoToDomain(a)
	}

	return authors, nil
}

func (r *AuthorRepository) FindBooks(ctx context.Context, authorID uint) ([]domain.Book, error) {
	found, err := r.dao.FindBooks(ctx, authorID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindBooks -> %w", err)
	}

	return booksDaoToDomain(found), nil
}

func (r *AuthorRepository) Update(ctx context.Context, author domain.Author) (domain.Author, error) {
	updated, err := r.dao.Update(ctx, authorDomainToDao(author))
	if err != nil {
		return domain.Author{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return authorDaoToDomain(updated), nil
}

func (r *AuthorRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}
