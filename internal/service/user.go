package service

import (
	"context"
	"fmt"

	"github.com/dskf/bookraffle-api/internal/domain"
	"github.com/dskf/bookraffle-api/internal/repository"
)

var ErrUserHasLiveEntry = repository.ErrUserHasLiveEntry

type UserRepository interface {
	FindByID(ctx context.Context, id uint) (domain.User, error)
	FindAll(ctx context.Context) ([]domain.User, error)
	Update(ctx context.Context, user domain.User) (domain.User, error)
	UpdateProfileImage(ctx context.Context, id uint, filename string) error
	Delete(ctx context.Context, id uint) error
	FindTickets(ctx context.Context, userID uint) ([]domain.Ticket, error)
	FindNotifications(ctx context.Context, userID uint) ([]domain.Notification, error)
	FindTasks(ctx context.Context, userID uint) ([]domain.Task, error)
}

type UserService struct {
	repo UserRepository
}

func NewUserService(repo UserRepository) *UserService {
	return &UserService{
		repo: repo,
	}
}

func (s *UserService) GetUser(ctx context.Context, id uint) (domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return user, nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	return users, nil
}

// UpdateUser writes profile fields. Email, password and role changes go
// through their own paths, so the stored values are kept.
func (s *UserService) UpdateUser(ctx context.Context, user domain.User) (domain.User, error) {
	existing, err := s.repo.FindByID(ctx, user.ID)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	existing.FirstName = user.FirstName
	existing.MiddleName = user.MiddleName
	existing.LastName = user.LastName
	existing.Gender = user.Gender
	existing.PhoneNumber = user.PhoneNumber
	existing.Nationality = user.Nationality

	updated, err := s.repo.Update(ctx, existing)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return updated, nil
}

func (s *UserService) UpdateProfileImage(ctx context.Context, id uint, filename string) error {
	if err := s.repo.UpdateProfileImage(ctx, id, filename); err != nil {
		return fmt.Errorf("s.repo.UpdateProfileImage -> %w", err)
	}

	return nil
}

func (s *UserService) DeleteUser(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}

func (s *UserService) GetUserTickets(ctx context.Context, userID uint) ([]domain.Ticket, error) {
	tickets, err := s.repo.FindTickets(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindTickets -> %w", err)
	}

	return tickets, nil
}

func (s *UserService) GetUserTasks(ctx context.Context, userID uint) ([]domain.Task, error) {
	tasks, err := s.repo.FindTasks(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindTasks -> %w", err)
	}

	return tasks, nil
}
