package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guildops/guildops-api/internal/domain"
)

type fakeCharacterRepo struct {
	byID    map[uint]domain.Character
	deleted []uint
}

func (f *fakeCharacterRepo) Create(ctx context.Context, character domain.Character) (domain.Character, error) {
	character.ID = 1
	return character, nil
}

func (f *fakeCharacterRepo) FindByID(ctx context.Context, id uint) (domain.Character, error) {
	character, ok := f.byID[id]
	if !ok {
		return domain.Character{}, ErrCharacterNotFound
	}
	return character, nil
}

func (f *fakeCharacterRepo) FindByUserID(ctx context.Context, userID uint) ([]domain.Character, error) {
	return nil, nil
}

func (f *fakeCharacterRepo) FindAll(ctx context.Context) ([]domain.Character, error) {
	return nil, nil
}

func (f *fakeCharacterRepo) Update(ctx context.Context, character domain.Character) (domain.Character, error) {
	return character, nil
}

func (f *fakeCharacterRepo) Delete(ctx context.Context, id uint) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeCharacterRepo) AdjustDkp(ctx context.Context, id uint, delta int) (domain.Character, error) {
	character, ok := f.byID[id]
	if !ok {
		return domain.Character{}, ErrCharacterNotFound
	}
	character.Dkp += delta
	f.byID[id] = character
	return character, nil
}

func TestRosterServiceCreateCharacter(t *testing.T) {
	svc := NewRosterService(&fakeCharacterRepo{})
	owner := domain.User{ID: 7, Role: domain.RoleMember}

	created, err := svc.CreateCharacter(context.Background(), owner, domain.Character{
		Name:       "Thrall",
		CombatRole: "healer",
		Dkp:        999, // must be ignored
	})
	require.NoError(t, err)
	assert.Equal(t, uint(7), created.UserID)
	assert.Zero(t, created.Dkp)
	assert.Equal(t, domain.CharacterActive, created.Status)
}

func TestRosterServiceUpdateCharacterOwnership(t *testing.T) {
	repo := &fakeCharacterRepo{
		byID: map[uint]domain.Character{
			1: {ID: 1, UserID: 7, Name: "Thrall"},
		},
	}
	svc := NewRosterService(repo)

	t.Run("owner may update", func(t *testing.T) {
		actor := domain.User{ID: 7, Role: domain.RoleMember}
		_, err := svc.UpdateCharacter(context.Background(), actor, domain.Character{ID: 1, Name: "Thrall"})
		assert.NoError(t, err)
	})

	t.Run("other member may not", func(t *testing.T) {
		actor := domain.User{ID: 8, Role: domain.RoleMember}
		_, err := svc.UpdateCharacter(context.Background(), actor, domain.Character{ID: 1, Name: "Thrall"})
		assert.ErrorIs(t, err, ErrNotCharacterOwner)
	})

	t.Run("officer may update anyone", func(t *testing.T) {
		actor := domain.User{ID: 8, Role: domain.RoleOfficer}
		_, err := svc.UpdateCharacter(context.Background(), actor, domain.Character{ID: 1, Name: "Thrall"})
		assert.NoError(t, err)
	})

	t.Run("unknown character", func(t *testing.T) {
		actor := domain.User{ID: 7, Role: domain.RoleMember}
		_, err := svc.UpdateCharacter(context.Background(), actor, domain.Character{ID: 99})
		assert.ErrorIs(t, err, ErrCharacterNotFound)
	})
}

func TestRosterServiceDeleteCharacterOwnership(t *testing.T) {
	repo := &fakeCharacterRepo{
		byID: map[uint]domain.Character{
			1: {ID: 1, UserID: 7},
		},
	}
	svc := NewRosterService(repo)

	t.Run("officer may not delete someone else's", func(t *testing.T) {
		actor := domain.User{ID: 8, Role: domain.RoleOfficer}
		err := svc.DeleteCharacter(context.Background(), actor, 1)
		assert.ErrorIs(t, err, ErrNotCharacterOwner)
	})

	t.Run("admin may", func(t *testing.T) {
		actor := domain.User{ID: 8, Role: domain.RoleAdmin}
		err := svc.DeleteCharacter(context.Background(), actor, 1)
		assert.NoError(t, err)
	})

	t.Run("owner may", func(t *testing.T) {
		actor := domain.User{ID: 7, Role: domain.RoleMember}
		err := svc.DeleteCharacter(context.Background(), actor, 1)
		assert.NoError(t, err)
	})
}

func TestRosterServiceAdjustDkp(t *testing.T) {
	repo := &fakeCharacterRepo{
		byID: map[uint]domain.Character{
			1: {ID: 1, Dkp: 10},
		},
	}
	svc := NewRosterService(repo)

	adjusted, err := svc.AdjustDkp(context.Background(), 1, -25)
	require.NoError(t, err)
	// Balances may go negative; reversals and penalties are not floored.
	assert.Equal(t, -15, adjusted.Dkp)

	_, err = svc.AdjustDkp(context.Background(), 99, 5)
	assert.ErrorIs(t, err, ErrCharacterNotFound)
}
