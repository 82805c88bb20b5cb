package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var ErrCategoryNotFound = errors.New("category not found")

type Category struct {
	ID uint `gorm:"primaryKey"`

	Name        string `gorm:"unique;not null"`
	Description string

	Books []Book `gorm:"many2many:category_book;"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type CategoryDAO struct {
	db *gorm.DB
}

func NewCategoryDAO(db *gorm.DB) *CategoryDAO {
	return &CategoryDAO{
		db: db,
	}
}

func (d *CategoryDAO) Insert(ctx context.Context, category Category) (Category, error) {
	result := d.db.WithContext(ctx).Create(&category)
	if result.Error != nil {
		return Category{}, result.Error
	}

	return category, nil
}

func (d *CategoryDAO) FindByID(ctx context.Context, id uint) (Category, error) {
	var category Category

	result := d.db.WithContext(ctx).First(&category, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Category{}, ErrCategoryNotFound
		}

		return Category{}, result.Error
	}

	return category, nil
}

func (d *CategoryDAO) FindAll(ctx context.Context) ([]Category, error) {
	var categories []Category

	result := d.db.WithContext(ctx).Find(&categories)
	if result.Error != nil {
		return nil, result.Error
	}

	return categories, nil
}

func (d *CategoryDAO) FindBooks(ctx context.Context, categoryID uint) ([]Book, error) {
	category, err := d.FindByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	var books []Book
	if err := d.db.WithContext(ctx).Model(&category).Association("Books").Find(&books); err != nil {
		return nil, err
	}

	return books, nil
}

func (d *CategoryDAO) Update(ctx context.Context, category Category) (Category, error) {
	if _, err := d.FindByID(ctx, category.ID); err != nil {
		return Category{}, err
	}

	result := d.db.WithContext(ctx).Save(&category)
	if result.Error != nil {
		return Category{}, result.Error
	}

	return category, nil
}

func (d *CategoryDAO) Delete(ctx context.Context, id uint) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var category Category
		if err := tx.First(&category, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCategoryNotFound
			}

			return err
		}

		if err := tx.Model(&category).Association("Books").Clear(); err != nil {
			return err
		}

		return tx.Delete(&category).Error
	})
}
