package repository

import (
	"context"
	"fmt"

	"github.com/dskf/bookraffle-api/internal/domain"
	"github.com/dskf/bookraffle-api/internal/repository/dao"
)

var (
	ErrRoleNotFound = dao.ErrRoleNotFound
	ErrRoleInUse    = dao.ErrRoleInUse
)

type RoleDAO interface {
	Insert(ctx context.Context, role dao.Role) (dao.Role, error)
	FindByID(ctx context.Context, id uint) (dao.Role, error)
	FindByName(ctx context.Context, name string) (dao.Role, error)
	FindDefault(ctx context.Context) (dao.Role, error)
	FindAll(ctx context.Context) ([]dao.Role, error)
	FindUsers(ctx context.Context, roleID uint) ([]dao.User, error)
	Update(ctx context.Context, role dao.Role) (dao.Role, error)
	Delete(ctx context.Context, id uint) error
}

type RoleRepository struct {
	dao RoleDAO
}

func NewRoleRepository(dao RoleDAO) *RoleRepository {
	return &RoleRepository{
		dao: dao,
	}
}

func roleDomainToDao(role domain.Role) dao.Role {
	return dao.Role{
		ID:          role.ID,
		Name:        role.Name,
		Description: role.Description,
		Permissions: role.Permissions,
		Default:     role.Default,
		CreatedAt:   role.CreatedAt,
		UpdatedAt:   role.UpdatedAt,
	}
}

func roleDaoToDomain(role dao.Role) domain.Role {
	return domain.Role{
		ID:          role.ID,
		Name:        role.Name,
		Description: role.Description,
		Permissions: role.Permissions,
		Default:     role.Default,
		CreatedAt:   role.CreatedAt,
		UpdatedAt:   role.UpdatedAt,
	}
}

func (r *RoleRepository) Create(ctx context.Context, role domain.Role) (domain.Role, error) {
	created, err := r.dao.Insert(ctx, roleDomainToDao(role))
	if err != nil {
		return domain.Role{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return roleDaoToDomain(created), nil
}

func (r *RoleRepository) FindByID(ctx context.Context, id uint) (domain.Role, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Role{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return roleDaoToDomain(found), nil
}

func (r *RoleRepository) FindByName(ctx context.Context, name string) (domain.Role, error) {
	found, err := r.dao.FindByName(ctx, name)
	if err != nil {
		return domain.Role{}, fmt.Errorf("r.dao.FindByName -> %w", err)
	}

	return roleDaoToDomain(found), nil
}

func (r *RoleRepository) FindDefault(ctx context.Context) (domain.Role, error) {
	found, err := r.dao.FindDefault(ctx)
	if err != nil {
		return domain.Role{}, fmt.Errorf("r.dao.FindDefault -> %w", err)
	}

	return roleDaoToDomain(found), nil
}

func (r *RoleRepository) FindAll(ctx context.Context) ([]domain.Role, error) {
	found, err := r.dao.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	roles := make([]domain.Role, len(found))
	for i, role := range found {
		roles[i] = roleDaoToDomain(role)
	}

	return roles, nil
}

func (r *RoleRepository) FindUsers(ctx context.Context, roleID uint) ([]domain.User, error) {
	found, err := r.dao.FindUsers(ctx, roleID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindUsers -> %w", err)
	}

	mapper := UserRepository{}
	users := make([]domain.User, len(found))
	for i, u := range found {
		users[i] = mapper.daoToDomain(u)
	}

	return users, nil
}

func (r *RoleRepository) Update(ctx context.Context, role domain.Role) (domain.Role, error) {
	updated, err := r.dao.Update(ctx, roleDomainToDao(role))
	if err != nil {
		return domain.Role{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return roleDaoToDomain(updated), nil
}

func (r *RoleRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}
