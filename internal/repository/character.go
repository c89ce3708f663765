package repository

import (
	"context"
	"fmt"

	"github.com/guildops/guildops-api/internal/domain"
	"github.com/guildops/guildops-api/internal/repository/dao"
)

var (
	ErrCharacterNameExists = dao.ErrCharacterNameExists
	ErrCharacterNotFound   = dao.ErrCharacterNotFound
)

type CharacterDAO interface {
	Insert(ctx context.Context, character dao.Character) (dao.Character, error)
	FindByID(ctx context.Context, id uint) (dao.Character, error)
	FindByUserID(ctx context.Context, userID uint) ([]dao.Character, error)
	FindAll(ctx context.Context) ([]dao.Character, error)
	Update(ctx context.Context, character dao.Character) (dao.Character, error)
	Delete(ctx context.Context, id uint) error
	AdjustDkp(ctx context.Context, id uint, delta int) (dao.Character, error)
}

type CharacterRepository struct {
	dao CharacterDAO
}

func NewCharacterRepository(dao CharacterDAO) *CharacterRepository {
	return &CharacterRepository{
		dao: dao,
	}
}

func (r *CharacterRepository) Create(ctx context.Context, character domain.Character) (domain.Character, error) {
	created, err := r.dao.Insert(ctx, r.domainToDao(character))
	if err != nil {
		return domain.Character{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *CharacterRepository) FindByID(ctx context.Context, id uint) (domain.Character, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Character{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *CharacterRepository) FindByUserID(ctx context.Context, userID uint) ([]domain.Character, error) {
	found, err := r.dao.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByUserID -> %w", err)
	}

	return r.daosToDomain(found), nil
}

func (r *CharacterRepository) FindAll(ctx context.Context) ([]domain.Character, error) {
	found, err := r.dao.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	return r.daosToDomain(found), nil
}

func (r *CharacterRepository) Update(ctx context.Context, character domain.Character) (domain.Character, error) {
	updated, err := r.dao.Update(ctx, r.domainToDao(character))
	if err != nil {
		return domain.Character{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

func (r *CharacterRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *CharacterRepository) AdjustDkp(ctx context.Context, id uint, delta int) (domain.Character, error) {
	adjusted, err := r.dao.AdjustDkp(ctx, id, delta)
	if err != nil {
		return domain.Character{}, fmt.Errorf("r.dao.AdjustDkp -> %w", err)
	}

	return r.daoToDomain(adjusted), nil
}

func (r *CharacterRepository) domainToDao(c domain.Character) dao.Character {
	return dao.Character{
		ID:         c.ID,
		UserID:     c.UserID,
		Name:       c.Name,
		CombatRole: c.CombatRole,
		Dkp:        c.Dkp,
		Status:     string(c.Status),
	}
}

func (r *CharacterRepository) daoToDomain(c dao.Character) domain.Character {
	return domain.Character{
		ID:         c.ID,
		UserID:     c.UserID,
		Name:       c.Name,
		CombatRole: c.CombatRole,
		Dkp:        c.Dkp,
		Status:     domain.CharacterStatus(c.Status),
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}

func (r *CharacterRepository) daosToDomain(characters []dao.Character) []domain.Character {
	result := make([]domain.Character, len(characters))
	for i, c := range characters {
		result[i] = r.daoToDomain(c)
	}

	return result
}
