package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/dskf/bookraffle-api/internal/domain"
	"github.com/dskf/bookraffle-api/internal/repository"
)

var ErrNotificationNotFound = repository.ErrNotificationNotFound

type NotificationRepository interface {
	Create(ctx context.Context, notification domain.Notification) (domain.Notification, error)
	FindByID(ctx context.Context, id uint) (domain.Notification, error)
	FindByUser(ctx context.Context, userID uint) ([]domain.Notification, error)
	MarkRead(ctx context.Context, id uint) error
	Delete(ctx context.Context, id uint) error
}

// StreamPublisher pushes a notification to the user's live connections.
type StreamPublisher interface {
	Publish(userID uint, notification domain.Notification)
}

type NotificationService struct {
	repo   NotificationRepository
	stream StreamPublisher
}

func NewNotificationService(repo NotificationRepository, stream StreamPublisher) *NotificationService {
	return &NotificationService{
		repo:   repo,
		stream: stream,
	}
}

func (s *NotificationService) Notify(ctx context.Context, userID uint, name string) (domain.Notification, error) {
	created, err := s.repo.Create(ctx, domain.Notification{
		UserID: userID,
		Name:   name,
	})
	if err != nil {
		return domain.Notification{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	if s.stream != nil {
		s.stream.Publish(userID, created)
	}

	return created, nil
}

// NotifyWinner records the win for the ticket holder. Failures are
// logged rather than surfaced since the draw has already been
// committed.
func (s *NotificationService) NotifyWinner(ctx context.Context, raffle domain.Raffle, ticket domain.Ticket) {
	name := fmt.Sprintf("Your ticket %d won raffle %d", ticket.UniqueNumber, raffle.ID)

	if _, err := s.Notify(ctx, ticket.UserID, name); err != nil {
		zap.L().Error("failed to notify raffle winner",
			zap.Uint("raffle_id", raffle.ID),
			zap.Uint("ticket_id", ticket.ID),
			zap.Error(err))
	}
}

func (s *NotificationService) GetNotification(ctx context.Context, id uint) (domain.Notification, error) {
	notification, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Notification{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return notification, nil
}

func (s *NotificationService) ListUserNotifications(ctx context.Context, userID uint) ([]domain.Notification, error) {
	notifications, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByUser -> %w", err)
	}

	return notifications, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, id uint) error {
	if err := s.repo.MarkRead(ctx, id); err != nil {
		return fmt.Errorf("s.repo.MarkRead -> %w", err)
	}

	return nil
}

func (s *NotificationService) DeleteNotification(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}
