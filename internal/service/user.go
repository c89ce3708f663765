package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/guildops/guildops-api/internal/domain"
	"github.com/guildops/guildops-api/internal/repository"
)

var (
	ErrUserNotFound = repository.ErrUserNotFound
	ErrSelfDemotion = errors.New("admins cannot demote themselves")
)

type UserRepository interface {
	FindByID(ctx context.Context, id uint) (domain.User, error)
	FindAll(ctx context.Context) ([]domain.User, error)
	UpdateRole(ctx context.Context, id uint, role domain.Role) (domain.User, error)
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

// ChangeRole sets the target user's role. An admin changing their own
// role to anything below ADMIN is rejected, not silently ignored; a
// guild without admins is unrecoverable through the API.
func (s *UserService) ChangeRole(ctx context.Context, actor domain.User, targetID uint, role domain.Role) (domain.User, error) {
	if actor.ID == targetID && actor.Role == domain.RoleAdmin && role != domain.RoleAdmin {
		return domain.User{}, ErrSelfDemotion
	}

	updated, err := s.repo.UpdateRole(ctx, targetID, role)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.UpdateRole -> %w", err)
	}

	return updated, nil
}
