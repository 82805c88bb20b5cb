package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var ErrNotificationNotFound = errors.New("notification not found")

type Notification struct {
	ID uint `gorm:"primaryKey"`

	UserID uint `gorm:"not null;index"`

	Name   string `gorm:"not null"`
	IsRead bool   `gorm:"not null;default:false"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type Task struct {
	ID uint `gorm:"primaryKey"`

	UserID uint `gorm:"index"`

	Name        string `gorm:"not null"`
	Description string

	CreatedAt time.Time
	UpdatedAt time.Time
}

type NotificationDAO struct {
	db *gorm.DB
}

func NewNotificationDAO(db *gorm.DB) *NotificationDAO {
	return &NotificationDAO{
		db: db,
	}
}

func (d *NotificationDAO) Insert(ctx context.Context, notification Notification) (Notification, error) {
	result := d.db.WithContext(ctx).Create(&notification)
	if result.Error != nil {
		return Notification{}, result.Error
	}

	return notification, nil
}

func (d *NotificationDAO) FindByID(ctx context.Context, id uint) (Notification, error) {
	var notification Notification

	result := d.db.WithContext(ctx).First(&notification, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Notification{}, ErrNotificationNotFound
		}

		return Notification{}, result.Error
	}

	return notification, nil
}

func (d *NotificationDAO) FindByUser(ctx context.Context, userID uint) ([]Notification, error) {
	var notifications []Notification

	result := d.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&notifications)
	if result.Error != nil {
		return nil, result.Error
	}

	return notifications, nil
}

func (d *NotificationDAO) MarkRead(ctx context.Context, id uint) error {
	result := d.db.WithContext(ctx).Model(&Notification{}).Where("id = ?", id).Update("is_read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotificationNotFound
	}

	return nil
}

func (d *NotificationDAO) Delete(ctx context.Context, id uint) error {
	result := d.db.WithContext(ctx).Delete(&Notification{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotificationNotFound
	}

	return nil
}
