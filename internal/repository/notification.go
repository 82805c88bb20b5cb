package repository

import (
	"context"
	"fmt"

	"github.com/dskf/bookraffle-api/internal/domain"
	"github.com/dskf/bookraffle-api/internal/repository/dao"
)

var ErrNotificationNotFound = dao.ErrNotificationNotFound

type NotificationDAO interface {
	Insert(ctx context.Context, notification dao.Notification) (dao.Notification, error)
	FindByID(ctx context.Context, id uint) (dao.Notification, error)
	FindByUser(ctx context.Context, userID uint) ([]dao.Notification, error)
	MarkRead(ctx context.Context, id uint) error
	Delete(ctx context.Context, id uint) error
}

type NotificationRepository struct {
	dao NotificationDAO
}

func NewNotificationRepository(dao NotificationDAO) *NotificationRepository {
	return &NotificationRepository{
		dao: dao,
	}
}

func notificationDaoToDomain(n dao.Notification) domain.Notification {
	return domain.Notification{
		ID:        n.ID,
		Name:      n.Name,
		UserID:    n.UserID,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
}

func (r *NotificationRepository) Create(ctx context.Context, notification domain.Notification) (domain.Notification, error) {
	created, err := r.dao.Insert(ctx, dao.Notification{
		UserID: notification.UserID,
		Name:   notification.Name,
	})
	if err != nil {
		return domain.Notification{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return notificationDaoToDomain(created), nil
}

func (r *NotificationRepository) FindByID(ctx context.Context, id uint) (domain.Notification, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Notification{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return notificationDaoToDomain(found), nil
}

func (r *NotificationRepository) FindByUser(ctx context.Context, userID uint) ([]domain.Notification, error) {
	found, err := r.dao.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByUser -> %w", err)
	}

	notifications := make([]domain.Notification, len(found))
	for i, n := range found {
		notifications[i] = notificationDaoToDomain(n)
	}

	return notifications, nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id uint) error {
	if err := r.dao.MarkRead(ctx, id); err != nil {
		return fmt.Errorf("r.dao.MarkRead -> %w", err)
	}

	return nil
}

func (r *NotificationRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}
