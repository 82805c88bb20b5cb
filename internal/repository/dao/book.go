package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrBookNotFound       = errors.New("book not found")
	ErrBookHasOpenRaffles = errors.New("book still referenced by open raffles")
)

type Book struct {
	ID uint `gorm:"primaryKey"`

	Title         string `gorm:"not null;index"`
	Summary       string `gorm:"type:text"`
	Publisher     string
	YearPublished int
	Edition       int
	CoverImage    string

	IsActive    bool `gorm:"not null;default:true"`
	IsSuspended bool `gorm:"not null;default:false"`

	Authors    []Author   `gorm:"many2many:author_book;"`
	Categories []Category `gorm:"many2many:category_book;"`
	Raffles    []Raffle   `gorm:"foreignKey:BookID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// AuthorBook is the author/book join row with its own surrogate key.
type AuthorBook struct {
	ID       uint `gorm:"primaryKey"`
	AuthorID uint `gorm:"index"`
	BookID   uint `gorm:"index"`
}

func (AuthorBook) TableName() string {
	return "author_book"
}

// CategoryBook is the category/book join row with its own surrogate key.
type CategoryBook struct {
	ID         uint `gorm:"primaryKey"`
	CategoryID uint `gorm:"index"`
	BookID     uint `gorm:"index"`
}

func (CategoryBook) TableName() string {
	return "category_book"
}

type BookDAO struct {
	db *gorm.DB
}

func NewBookDAO(db *gorm.DB) *BookDAO {
	return &BookDAO{
		db: db,
	}
}

func (d *BookDAO) Insert(ctx context.Context, book Book) (Book, error) {
	result := d.db.WithContext(ctx).Create(&book)
	if result.Error != nil {
		return Book{}, result.Error
	}

	return book, nil
}

func (d *BookDAO) FindByID(ctx context.Context, id uint) (Book, error) {
	var book Book

	result := d.db.WithContext(ctx).First(&book, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Book{}, ErrBookNotFound
		}

		return Book{}, result.Error
	}

	return book, nil
}

func (d *BookDAO) FindAll(ctx context.Context) ([]Book, error) {
	var books []Book

	result := d.db.WithContext(ctx).Find(&books)
	if result.Error != nil {
		return nil, result.Error
	}

	return books, nil
}

// Search matches the query case-insensitively against title, publisher
// and summary.
func (d *BookDAO) Search(ctx context.Context, query string) ([]Book, error) {
	var books []Book

	pattern := "%" + query + "%"
	result := d.db.WithContext(ctx).
		Where("title ILIKE ? OR publisher ILIKE ? OR summary ILIKE ?", pattern, pattern, pattern).
		Find(&books)
	if result.Error != nil {
		return nil, result.Error
	}

	return books, nil
}

func (d *BookDAO) FindAuthors(ctx context.Context, bookID uint) ([]Author, error) {
	book, err := d.FindByID(ctx, bookID)
	if err != nil {
		return nil, err
	}

	var authors []Author
	if err := d.db.WithContext(ctx).Model(&book).Association("Authors").Find(&authors); err != nil {
		return nil, err
	}

	return authors, nil
}

func (d *BookDAO) FindCategories(ctx context.Context, bookID uint) ([]Category, error) {
	book, err := d.FindByID(ctx, bookID)
	if err != nil {
		return nil, err
	}

	var categories []Category
	if err := d.db.WithContext(ctx).Model(&book).Association("Categories").Find(&categories); err != nil {
		return nil, err
	}

	return categories, nil
}

func (d *BookDAO) AddAuthor(ctx context.Context, bookID, authorID uint) error {
	book, err := d.FindByID(ctx, bookID)
	if err != nil {
		return err
	}

	var author Author
	if err := d.db.WithContext(ctx).First(&author, authorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAuthorNotFound
		}

		return err
	}

	return d.db.WithContext(ctx).Model(&book).Association("Authors").Append(&author)
}

func (d *BookDAO) AddCategory(ctx context.Context, bookID, categoryID uint) error {
	book, err := d.FindByID(ctx, bookID)
	if err != nil {
		return err
	}

	var category Category
	if err := d.db.WithContext(ctx).First(&category, categoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}

		return err
	}

	return d.db.WithContext(ctx).Model(&book).Association("Categories").Append(&category)
}

func (d *BookDAO) Update(ctx context.Context, book Book) (Book, error) {
	if _, err := d.FindByID(ctx, book.ID); err != nil {
		return Book{}, err
	}

	result := d.db.WithContext(ctx).Save(&book)
	if result.Error != nil {
		return Book{}, result.Error
	}

	return book, nil
}

func (d *BookDAO) UpdateCoverImage(ctx context.Context, id uint, filename string) error {
	result := d.db.WithContext(ctx).Model(&Book{}).Where("id = ?", id).Update("cover_image", filename)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrBookNotFound
	}

	return nil
}

// Delete removes a book unless non-closed raffles still reference it.
func (d *BookDAO) Delete(ctx context.Context, id uint) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var book Book
		if err := tx.First(&book, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookNotFound
			}

			return err
		}

		var open int64
		if err := tx.Model(&Raffle{}).Where("book_id = ? AND is_closed = ?", id, false).Count(&open).Error; err != nil {
			return err
		}
		if open > 0 {
			return ErrBookHasOpenRaffles
		}

		if err := tx.Model(&book).Association("Authors").Clear(); err != nil {
			return err
		}
		if err := tx.Model(&book).Association("Categories").Clear(); err != nil {
			return err
		}

		return tx.Delete(&book).Error
	})
}
