package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/guildops/guildops-api/internal/domain"
)

type fakeAuthUserRepo struct {
	byEmail map[string]domain.User
}

func (f *fakeAuthUserRepo) Create(ctx context.Context, user domain.User) (domain.User, error) {
	if _, ok := f.byEmail[user.Email]; ok {
		return domain.User{}, ErrUserEmailExists
	}
	if f.byEmail == nil {
		f.byEmail = map[string]domain.User{}
	}
	user.ID = uint(len(f.byEmail) + 1)
	f.byEmail[user.Email] = user
	return user, nil
}

func (f *fakeAuthUserRepo) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	user, ok := f.byEmail[email]
	if !ok {
		return domain.User{}, ErrUserNotFound
	}
	return user, nil
}

func TestAuthServiceSignup(t *testing.T) {
	repo := &fakeAuthUserRepo{}
	svc := NewAuthService(repo)

	created, err := svc.Signup(context.Background(), domain.User{
		Email:    "thrall@example.com",
		Password: "secret12",
		Name:     "Thrall",
		Role:     domain.RoleAdmin, // must be ignored
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleMember, created.Role)

	stored := repo.byEmail["thrall@example.com"]
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("secret12")))

	_, err = svc.Signup(context.Background(), domain.User{Email: "thrall@example.com", Password: "secret12"})
	assert.ErrorIs(t, err, ErrUserEmailExists)
}

func TestAuthServiceLogin(t *testing.T) {
	repo := &fakeAuthUserRepo{}
	svc := NewAuthService(repo)

	_, err := svc.Signup(context.Background(), domain.User{
		Email:    "jaina@example.com",
		Password: "secret12",
	})
	require.NoError(t, err)

	t.Run("success", func(t *testing.T) {
		user, err := svc.Login(context.Background(), "jaina@example.com", "secret12")
		require.NoError(t, err)
		assert.Equal(t, "jaina@example.com", user.Email)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(context.Background(), "jaina@example.com", "nope")
		assert.ErrorIs(t, err, ErrWrongPassword)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Login(context.Background(), "ghost@example.com", "secret12")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}
