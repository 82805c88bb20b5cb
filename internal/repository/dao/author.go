package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var ErrAuthorNotFound = errors.New("author not found")

type Author struct {
	ID uint `gorm:"primaryKey"`

	FirstName    string `gorm:"not null"`
	MiddleName   string
	LastName     string `gorm:"not null"`
	Gender       string
	EmailAddress string
	PhoneNumber  string
	Nationality  string
	Summary      string `gorm:"type:text"`

	Books []Book `gorm:"many2many:author_book;"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type AuthorDAO struct {
	db *gorm.DB
}

func NewAuthorDAO(db *gorm.DB) *AuthorDAO {
	return &AuthorDAO{
		db: db,
	}
}

func (d *AuthorDAO) Insert(ctx context.Context, author Author) (Author, error) {
	result := d.db.WithContext(ctx).Create(&author)
	if result.Error != nil {
		return Author{}, result.Error
	}

	return author, nil
}

func (d *AuthorDAO) FindByID(ctx context.Context, id uint) (Author, error) {
	var author Author

	result := d.db.WithContext(ctx).First(&author, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Author{}, ErrAuthorNotFound
		}

		return Author{}, result.Error
	}

	return author, nil
}

func (d *AuthorDAO) FindAll(ctx context.Context) ([]Author, error) {
	var authors []Author

	result := d.db.WithContext(ctx).Find(&authors)
	if result.Error != nil {
		return nil, result.Error
	}

	return authors, nil
}

func (d *AuthorDAO) FindBooks(ctx context.Context, authorID uint) ([]Book, error) {
	author, err := d.FindByID(ctx, authorID)
	if err != nil {
		return nil, err
	}

	var books []Book
	if err := d.db.WithContext(ctx).Model(&author).Association("Books").Find(&books); err != nil {
		return nil, err
	}

	return books, nil
}

func (d *AuthorDAO) Update(ctx context.Context, author Author) (Author, error) {
	if _, err := d.FindByID(ctx, author.ID); err != nil {
		return Author{}, err
	}

	result := d.db.WithContext(ctx).Save(&author)
	if result.Error != nil {
		return Author{}, result.Error
	}

	return author, nil
}

func (d *AuthorDAO) Delete(ctx context.Context, id uint) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var author Author
		if err := tx.First(&author, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAuthorNotFound
			}

			return err
		}

		if err := tx.Model(&author).Association("Books").Clear(); err != nil {
			return err
		}

		return tx.Delete(&author).Error
	})
}
