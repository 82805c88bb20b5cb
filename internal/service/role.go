package service

import (
	"context"
	"fmt"

	"github.com/dskf/bookraffle-api/internal/domain"
	"github.com/dskf/bookraffle-api/internal/repository"
)

var (
	ErrRoleNotFound = repository.ErrRoleNotFound
	ErrRoleInUse    = repository.ErrRoleInUse
)

type RoleRepository interface {
	Create(ctx context.Context, role domain.Role) (domain.Role, error)
	FindByID(ctx context.Context, id uint) (domain.Role, error)
	FindAll(ctx context.Context) ([]domain.Role, error)
	FindUsers(ctx context.Context, roleID uint) ([]domain.User, error)
	Update(ctx context.Context, role domain.Role) (domain.Role, error)
	Delete(ctx context.Context, id uint) error
}

type RoleService struct {
	repo RoleRepository
}

func NewRoleService(repo RoleRepository) *RoleService {
	return &RoleService{
		repo: repo,
	}
}

func (s *RoleService) CreateRole(ctx context.Context, role domain.Role) (domain.Role, error) {
	created, err := s.repo.Create(ctx, role)
	if err != nil {
		return domain.Role{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *RoleService) GetRole(ctx context.Context, id uint) (domain.Role, error) {
	role, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Role{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return role, nil
}

func (s *RoleService) ListRoles(ctx context.Context) ([]domain.Role, error) {
	roles, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	return roles, nil
}

func (s *RoleService) GetRoleUsers(ctx context.Context, roleID uint) ([]domain.User, error) {
	users, err := s.repo.FindUsers(ctx, roleID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindUsers -> %w", err)
	}

	return users, nil
}

func (s *RoleService) UpdateRole(ctx context.Context, role domain.Role) (domain.Role, error) {
	updated, err := s.repo.Update(ctx, role)
	if err != nil {
		return domain.Role{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return updated, nil
}

// AddPermission grants p to the role. Granting an already held
// permission changes nothing.
func (s *RoleService) AddPermission(ctx context.Context, roleID uint, p int) (domain.Role, error) {
	role, err := s.repo.FindByID(ctx, roleID)
	if err != nil {
		return domain.Role{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	role.AddPermission(p)

	updated, err := s.repo.Update(ctx, role)
	if err != nil {
		return domain.Role{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return updated, nil
}

// RemovePermission revokes p from the role. Revoking an absent
// permission changes nothing.
func (s *RoleService) RemovePermission(ctx context.Context, roleID uint, p int) (domain.Role, error) {
	role, err := s.repo.FindByID(ctx, roleID)
	if err != nil {
		return domain.Role{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	role.RemovePermission(p)

	updated, err := s.repo.Update(ctx, role)
	if err != nil {
		return domain.Role{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return updated, nil
}

func (s *RoleService) DeleteRole(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}
