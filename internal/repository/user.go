package repository

import (
	"context"
	"fmt"

	"github.com/dskf/bookraffle-api/internal/domain"
	"github.com/dskf/bookraffle-api/internal/repository/dao"
)

var (
	ErrUserEmailExists  = dao.ErrUserEmailExists
	ErrUserNotFound     = dao.ErrUserNotFound
	ErrUserHasLiveEntry = dao.ErrUserHasLiveEntry
)

type UserDAO interface {
	Insert(ctx context.Context, user dao.User) (dao.User, error)
	FindByID(ctx context.Context, id uint) (dao.User, error)
	FindByEmail(ctx context.Context, email string) (dao.User, error)
	FindAll(ctx context.Context) ([]dao.User, error)
	Update(ctx context.Context, user dao.User) (dao.User, error)
	UpdateProfileImage(ctx context.Context, id uint, filename string) error
	Delete(ctx context.Context, id uint) error
	FindTickets(ctx context.Context, userID uint) ([]dao.Ticket, error)
	FindNotifications(ctx context.Context, userID uint) ([]dao.Notification, error)
	FindTasks(ctx context.Context, userID uint) ([]dao.Task, error)
}

type UserRepository struct {
	dao UserDAO
}

func NewUserRepository(dao UserDAO) *UserRepository {
	return &UserRepository{
		dao: dao,
	}
}

func (r *UserRepository) domainToDao(u domain.User) dao.User {
	return dao.User{
		ID:             u.ID,
		FirstName:      u.FirstName,
		MiddleName:     u.MiddleName,
		LastName:       u.LastName,
		Gender:         u.Gender,
		EmailAddress:   u.EmailAddress,
		PhoneNumber:    u.PhoneNumber,
		Nationality:    u.Nationality,
		Password:       u.Password,
		AvatarHash:     u.AvatarHash,
		ProfileImage:   u.ProfileImage,
		RoleID:         u.RoleID,
		AccountBalance: u.AccountBalance,
		IsActive:       u.IsActive,
		IsSuspended:    u.IsSuspended,
		IsConfirmed:    u.IsConfirmed,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

func (r *UserRepository) daoToDomain(u dao.User) domain.User {
	return domain.User{
		ID:             u.ID,
		FirstName:      u.FirstName,
		MiddleName:     u.MiddleName,
		LastName:       u.LastName,
		Gender:         u.Gender,
		EmailAddress:   u.EmailAddress,
		PhoneNumber:    u.PhoneNumber,
		Nationality:    u.Nationality,
		Password:       u.Password,
		AvatarHash:     u.AvatarHash,
		ProfileImage:   u.ProfileImage,
		RoleID:         u.RoleID,
		Role:           roleDaoToDomain(u.Role),
		AccountBalance: u.AccountBalance,
		IsActive:       u.IsActive,
		IsSuspended:    u.IsSuspended,
		IsConfirmed:    u.IsConfirmed,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

func (r *UserRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	created, err := r.dao.Insert(ctx, r.domainToDao(user))
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (domain.User, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	found, err := r.dao.FindByEmail(ctx, email)
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.FindByEmail -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *UserRepository) FindAll(ctx context.Context) ([]domain.User, error) {
	found, err := r.dao.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	users := make([]domain.User, len(found))
	for i, u := range found {
		users[i] = r.daoToDomain(u)
	}

	return users, nil
}

func (r *UserRepository) Update(ctx context.Context, user domain.User) (domain.User, error) {
	updated, err := r.dao.Update(ctx, r.domainToDao(user))
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

func (r *UserRepository) UpdateProfileImage(ctx context.Context, id uint, filename string) error {
	if err := r.dao.UpdateProfileImage(ctx, id, filename); err != nil {
		return fmt.Errorf("r.dao.UpdateProfileImage -> %w", err)
	}

	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *UserRepository) FindTickets(ctx context.Context, userID uint) ([]domain.Ticket, error) {
	found, err := r.dao.FindTickets(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindTickets -> %w", err)
	}

	tickets := make([]domain.Ticket, len(found))
	for i, t := range found {
		tickets[i] = ticketDaoToDomain(t)
	}

	return tickets, nil
}

func (r *UserRepository) FindNotifications(ctx context.Context, userID uint) ([]domain.Notification, error) {
	found, err := r.dao.FindNotifications(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindNotifications -> %w", err)
	}

	notifications := make([]domain.Notification, len(found))
	for i, n := range found {
		notifications[i] = notificationDaoToDomain(n)
	}

	return notifications, nil
}

func (r *UserRepository) FindTasks(ctx context.Context, userID uint) ([]domain.Task, error) {
	found, err := r.dao.FindTasks(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindTasks -> %w", err)
	}

	tasks := make([]domain.Task, len(found))
	for i, t := range found {
		tasks[i] = domain.Task{
			ID:          t.ID,
			Name:        t.Name,
			Description: t.Description,
			UserID:      t.UserID,
			CreatedAt:   t.CreatedAt,
		}
	}

	return tasks, nil
}
