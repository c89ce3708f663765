package service

import (
	"context"
	"fmt"

	"github.com/guildops/guildops-api/internal/domain"
	"github.com/guildops/guildops-api/internal/repository"
)

var (
	ErrItemNameExists = repository.ErrItemNameExists
	ErrItemNotFound   = repository.ErrItemNotFound
	ErrWishExists     = repository.ErrWishExists
	ErrWishNotFound   = repository.ErrWishNotFound
)

type LootRepository interface {
	CreateItem(ctx context.Context, item domain.Item) (domain.Item, error)
	FindItemByID(ctx context.Context, id uint) (domain.Item, error)
	FindAllItems(ctx context.Context) ([]domain.Item, error)
	UpdateItem(ctx context.Context, item domain.Item) (domain.Item, error)
	DeleteItem(ctx context.Context, id uint) error
	CreateWish(ctx context.Context, wish domain.Wish) (domain.Wish, error)
	DeleteWish(ctx context.Context, characterID, itemID uint) error
	FindWishesByCharacterID(ctx context.Context, characterID uint) ([]domain.Wish, error)
	FindRankedWishers(ctx context.Context, itemID uint) ([]domain.Wisher, error)
}

// LootService manages items, wishes, and the advisory loot-priority
// ranking. Ranking never reserves or spends DKP.
type LootService struct {
	repo LootRepository
}

func NewLootService(repo LootRepository) *LootService {
	return &LootService{
		repo: repo,
	}
}

func (s *LootService) CreateItem(ctx context.Context, item domain.Item) (domain.Item, error) {
	created, err := s.repo.CreateItem(ctx, item)
	if err != nil {
		return domain.Item{}, fmt.Errorf("s.repo.CreateItem -> %w", err)
	}

	return created, nil
}

func (s *LootService) GetItem(ctx context.Context, id uint) (domain.Item, error) {
	item, err := s.repo.FindItemByID(ctx, id)
	if err != nil {
		return domain.Item{}, fmt.Errorf("s.repo.FindItemByID -> %w", err)
	}

	return item, nil
}

func (s *LootService) ListItems(ctx context.Context) ([]domain.Item, error) {
	items, err := s.repo.FindAllItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAllItems -> %w", err)
	}

	return items, nil
}

func (s *LootService) UpdateItem(ctx context.Context, item domain.Item) (domain.Item, error) {
	updated, err := s.repo.UpdateItem(ctx, item)
	if err != nil {
		return domain.Item{}, fmt.Errorf("s.repo.UpdateItem -> %w", err)
	}

	return updated, nil
}

func (s *LootService) DeleteItem(ctx context.Context, id uint) error {
	if err := s.repo.DeleteItem(ctx, id); err != nil {
		return fmt.Errorf("s.repo.DeleteItem -> %w", err)
	}

	return nil
}

func (s *LootService) AddWish(ctx context.Context, characterID, itemID uint) (domain.Wish, error) {
	if _, err := s.repo.FindItemByID(ctx, itemID); err != nil {
		return domain.Wish{}, fmt.Errorf("s.repo.FindItemByID -> %w", err)
	}

	wish, err := s.repo.CreateWish(ctx, domain.Wish{
		CharacterID: characterID,
		ItemID:      itemID,
	})
	if err != nil {
		return domain.Wish{}, fmt.Errorf("s.repo.CreateWish -> %w", err)
	}

	return wish, nil
}

func (s *LootService) RemoveWish(ctx context.Context, characterID, itemID uint) error {
	if err := s.repo.DeleteWish(ctx, characterID, itemID); err != nil {
		return fmt.Errorf("s.repo.DeleteWish -> %w", err)
	}

	return nil
}

func (s *LootService) ListWishes(ctx context.Context, characterID uint) ([]domain.Wish, error) {
	wishes, err := s.repo.FindWishesByCharacterID(ctx, characterID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindWishesByCharacterID -> %w", err)
	}

	return wishes, nil
}

// RankWishers produces the loot-priority order for an item: wishers
// sorted by current balance descending, flagged with affordability
// (balance covers the item's floor) and eligibility (affordable and
// ACTIVE).
func (s *LootService) RankWishers(ctx context.Context, itemID uint) ([]domain.WishRank, error) {
	item, err := s.repo.FindItemByID(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindItemByID -> %w", err)
	}

	wishers, err := s.repo.FindRankedWishers(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindRankedWishers -> %w", err)
	}

	ranks := make([]domain.WishRank, len(wishers))
	for i, w := range wishers {
		affordable := w.Dkp >= item.MinDkpCost
		ranks[i] = domain.WishRank{
			CharacterID:   w.CharacterID,
			CharacterName: w.CharacterName,
			Dkp:           w.Dkp,
			Affordable:    affordable,
			Eligible:      affordable && w.Status == domain.CharacterActive,
		}
	}

	return ranks, nil
}
