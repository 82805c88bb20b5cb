package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/dskf/bookraffle-api/internal/domain"
	"github.com/dskf/bookraffle-api/internal/repository"
)

var (
	ErrUserEmailExists = repository.ErrUserEmailExists
	ErrUserNotFound    = repository.ErrUserNotFound
	ErrWrongPassword   = errors.New("wrong password")
)

type AuthUserRepository interface {
	Create(ctx context.Context, user domain.User) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
}

type AuthRoleRepository interface {
	FindByName(ctx context.Context, name string) (domain.Role, error)
	FindDefault(ctx context.Context) (domain.Role, error)
}

type AuthService struct {
	repo  AuthUserRepository
	roles AuthRoleRepository

	administratorEmail string
}

func NewAuthService(repo AuthUserRepository, roles AuthRoleRepository, administratorEmail string) *AuthService {
	return &AuthService{
		repo:               repo,
		roles:              roles,
		administratorEmail: administratorEmail,
	}
}

// Signup registers a new user. The configured administrator address gets
// the Administrator role; everyone else gets the default role.
func (s *AuthService) Signup(ctx context.Context, user domain.User) (domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, err
	}
	user.Password = string(hash)
	user.AvatarHash = domain.GravatarHash(user.EmailAddress)
	user.IsActive = true

	role, err := s.roleForEmail(ctx, user.EmailAddress)
	if err != nil {
		return domain.User{}, err
	}
	user.RoleID = role.ID

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	created.Role = role

	return created, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (domain.User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domain.User{}, ErrUserNotFound
		}

		return domain.User{}, fmt.Errorf("s.repo.FindByEmail -> %w", err)
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return domain.User{}, ErrWrongPassword
	}

	return user, nil
}

func (s *AuthService) roleForEmail(ctx context.Context, email string) (domain.Role, error) {
	if email == s.administratorEmail {
		role, err := s.roles.FindByName(ctx, domain.RoleAdministrator)
		if err != nil {
			return domain.Role{}, fmt.Errorf("s.roles.FindByName -> %w", err)
		}

		return role, nil
	}

	role, err := s.roles.FindDefault(ctx)
	if err != nil {
		return domain.Role{}, fmt.Errorf("s.roles.FindDefault -> %w", err)
	}

	return role, nil
}
