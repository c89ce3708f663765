package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/guildops/guildops-api/internal/domain"
	"github.com/guildops/guildops-api/internal/repository"
)

var (
	ErrCharacterNameExists = repository.ErrCharacterNameExists
	ErrCharacterNotFound   = repository.ErrCharacterNotFound
	ErrNotCharacterOwner   = errors.New("character belongs to another user")
)

type CharacterRepository interface {
	Create(ctx context.Context, character domain.Character) (domain.Character, error)
	FindByID(ctx context.Context, id uint) (domain.Character, error)
	FindByUserID(ctx context.Context, userID uint) ([]domain.Character, error)
	FindAll(ctx context.Context) ([]domain.Character, error)
	Update(ctx context.Context, character domain.Character) (domain.Character, error)
	Delete(ctx context.Context, id uint) error
	AdjustDkp(ctx context.Context, id uint, delta int) (domain.Character, error)
}

// RosterService manages the guild's characters. Mutations are gated on
// ownership: members touch only their own characters, officers may edit
// any, deletion of someone else's character takes an admin.
type RosterService struct {
	repo CharacterRepository
}

func NewRosterService(repo CharacterRepository) *RosterService {
	return &RosterService{
		repo: repo,
	}
}

func (s *RosterService) CreateCharacter(ctx context.Context, owner domain.User, character domain.Character) (domain.Character, error) {
	character.UserID = owner.ID
	character.Dkp = 0
	if character.Status == "" {
		character.Status = domain.CharacterActive
	}

	created, err := s.repo.Create(ctx, character)
	if err != nil {
		return domain.Character{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *RosterService) GetCharacter(ctx context.Context, id uint) (domain.Character, error) {
	character, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Character{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return character, nil
}

func (s *RosterService) ListCharacters(ctx context.Context) ([]domain.Character, error) {
	characters, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	return characters, nil
}

func (s *RosterService) ListCharactersByUser(ctx context.Context, userID uint) ([]domain.Character, error) {
	characters, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByUserID -> %w", err)
	}

	return characters, nil
}

func (s *RosterService) UpdateCharacter(ctx context.Context, actor domain.User, character domain.Character) (domain.Character, error) {
	existing, err := s.repo.FindByID(ctx, character.ID)
	if err != nil {
		return domain.Character{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if existing.UserID != actor.ID && !actor.Role.AtLeast(domain.RoleOfficer) {
		return domain.Character{}, ErrNotCharacterOwner
	}

	updated, err := s.repo.Update(ctx, character)
	if err != nil {
		return domain.Character{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return updated, nil
}

func (s *RosterService) DeleteCharacter(ctx context.Context, actor domain.User, id uint) error {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if existing.UserID != actor.ID && !actor.Role.AtLeast(domain.RoleAdmin) {
		return ErrNotCharacterOwner
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}

// AdjustDkp applies a manual administrative delta to the character's
// balance. It shares the single atomic adjust primitive with the
// attendance engine; the ledger does not distinguish provenance.
func (s *RosterService) AdjustDkp(ctx context.Context, id uint, delta int) (domain.Character, error) {
	adjusted, err := s.repo.AdjustDkp(ctx, id, delta)
	if err != nil {
		return domain.Character{}, fmt.Errorf("s.repo.AdjustDkp -> %w", err)
	}

	return adjusted, nil
}
