package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guildops/guildops-api/internal/domain"
)

type fakeUserRepo struct {
	byID map[uint]domain.User
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id uint) (domain.User, error) {
	user, ok := f.byID[id]
	if !ok {
		return domain.User{}, ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) FindAll(ctx context.Context) ([]domain.User, error) {
	return nil, nil
}

func (f *fakeUserRepo) UpdateRole(ctx context.Context, id uint, role domain.Role) (domain.User, error) {
	user, ok := f.byID[id]
	if !ok {
		return domain.User{}, ErrUserNotFound
	}
	user.Role = role
	f.byID[id] = user
	return user, nil
}

func TestUserServiceChangeRole(t *testing.T) {
	newRepo := func() *fakeUserRepo {
		return &fakeUserRepo{
			byID: map[uint]domain.User{
				1: {ID: 1, Role: domain.RoleAdmin},
				2: {ID: 2, Role: domain.RoleMember},
			},
		}
	}

	t.Run("admin promotes a member", func(t *testing.T) {
		svc := NewUserService(newRepo())
		actor := domain.User{ID: 1, Role: domain.RoleAdmin}

		updated, err := svc.ChangeRole(context.Background(), actor, 2, domain.RoleOfficer)
		require.NoError(t, err)
		assert.Equal(t, domain.RoleOfficer, updated.Role)
	})

	t.Run("admin cannot demote themselves", func(t *testing.T) {
		svc := NewUserService(newRepo())
		actor := domain.User{ID: 1, Role: domain.RoleAdmin}

		_, err := svc.ChangeRole(context.Background(), actor, 1, domain.RoleMember)
		assert.ErrorIs(t, err, ErrSelfDemotion)
	})

	t.Run("admin may reaffirm their own role", func(t *testing.T) {
		svc := NewUserService(newRepo())
		actor := domain.User{ID: 1, Role: domain.RoleAdmin}

		updated, err := svc.ChangeRole(context.Background(), actor, 1, domain.RoleAdmin)
		require.NoError(t, err)
		assert.Equal(t, domain.RoleAdmin, updated.Role)
	})

	t.Run("unknown target", func(t *testing.T) {
		svc := NewUserService(newRepo())
		actor := domain.User{ID: 1, Role: domain.RoleAdmin}

		_, err := svc.ChangeRole(context.Background(), actor, 99, domain.RoleOfficer)
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}
