package repository

import (
	"context"
	"fmt"

	"github.com/guildops/guildops-api/internal/domain"
	"github.com/guildops/guildops-api/internal/repository/dao"
)

var (
	ErrItemNameExists = dao.ErrItemNameExists
	ErrItemNotFound   = dao.ErrItemNotFound
	ErrWishExists     = dao.ErrWishExists
	ErrWishNotFound   = dao.ErrWishNotFound
)

type ItemDAO interface {
	Insert(ctx context.Context, item dao.Item) (dao.Item, error)
	FindByID(ctx context.Context, id uint) (dao.Item, error)
	FindAll(ctx context.Context) ([]dao.Item, error)
	Update(ctx context.Context, item dao.Item) (dao.Item, error)
	Delete(ctx context.Context, id uint) error
}

type WishDAO interface {
	Insert(ctx context.Context, wish dao.Wish) (dao.Wish, error)
	Delete(ctx context.Context, characterID, itemID uint) error
	FindByCharacterID(ctx context.Context, characterID uint) ([]dao.Wish, error)
	FindRankedByItemID(ctx context.Context, itemID uint) ([]dao.RankedWish, error)
}

type LootRepository struct {
	items  ItemDAO
	wishes WishDAO
}

func NewLootRepository(items ItemDAO, wishes WishDAO) *LootRepository {
	return &LootRepository{
		items:  items,
		wishes: wishes,
	}
}

func (r *LootRepository) CreateItem(ctx context.Context, item domain.Item) (domain.Item, error) {
	created, err := r.items.Insert(ctx, dao.Item{
		Name:       item.Name,
		MinDkpCost: item.MinDkpCost,
	})
	if err != nil {
		return domain.Item{}, fmt.Errorf("r.items.Insert -> %w", err)
	}

	return r.itemDaoToDomain(created), nil
}

func (r *LootRepository) FindItemByID(ctx context.Context, id uint) (domain.Item, error) {
	found, err := r.items.FindByID(ctx, id)
	if err != nil {
		return domain.Item{}, fmt.Errorf("r.items.FindByID -> %w", err)
	}

	return r.itemDaoToDomain(found), nil
}

func (r *LootRepository) FindAllItems(ctx context.Context) ([]domain.Item, error) {
	found, err := r.items.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.items.FindAll -> %w", err)
	}

	items := make([]domain.Item, len(found))
	for i, item := range found {
		items[i] = r.itemDaoToDomain(item)
	}

	return items, nil
}

func (r *LootRepository) UpdateItem(ctx context.Context, item domain.Item) (domain.Item, error) {
	updated, err := r.items.Update(ctx, dao.Item{
		ID:         item.ID,
		Name:       item.Name,
		MinDkpCost: item.MinDkpCost,
	})
	if err != nil {
		return domain.Item{}, fmt.Errorf("r.items.Update -> %w", err)
	}

	return r.itemDaoToDomain(updated), nil
}

func (r *LootRepository) DeleteItem(ctx context.Context, id uint) error {
	if err := r.items.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.items.Delete -> %w", err)
	}

	return nil
}

func (r *LootRepository) CreateWish(ctx context.Context, wish domain.Wish) (domain.Wish, error) {
	created, err := r.wishes.Insert(ctx, dao.Wish{
		CharacterID: wish.CharacterID,
		ItemID:      wish.ItemID,
	})
	if err != nil {
		return domain.Wish{}, fmt.Errorf("r.wishes.Insert -> %w", err)
	}

	return domain.Wish{
		CharacterID: created.CharacterID,
		ItemID:      created.ItemID,
		CreatedAt:   created.CreatedAt,
	}, nil
}

func (r *LootRepository) DeleteWish(ctx context.Context, characterID, itemID uint) error {
	if err := r.wishes.Delete(ctx, characterID, itemID); err != nil {
		return fmt.Errorf("r.wishes.Delete -> %w", err)
	}

	return nil
}

func (r *LootRepository) FindWishesByCharacterID(ctx context.Context, characterID uint) ([]domain.Wish, error) {
	found, err := r.wishes.FindByCharacterID(ctx, characterID)
	if err != nil {
		return nil, fmt.Errorf("r.wishes.FindByCharacterID -> %w", err)
	}

	wishes := make([]domain.Wish, len(found))
	for i, w := range found {
		wishes[i] = domain.Wish{
			CharacterID: w.CharacterID,
			ItemID:      w.ItemID,
			CreatedAt:   w.CreatedAt,
		}
	}

	return wishes, nil
}

// FindRankedWishers returns the item's wishers ordered by current
// balance, highest first, with the flags left for the service to fill.
func (r *LootRepository) FindRankedWishers(ctx context.Context, itemID uint) ([]domain.Wisher, error) {
	ranked, err := r.wishes.FindRankedByItemID(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("r.wishes.FindRankedByItemID -> %w", err)
	}

	wishers := make([]domain.Wisher, len(ranked))
	for i, w := range ranked {
		wishers[i] = domain.Wisher{
			CharacterID:   w.CharacterID,
			CharacterName: w.CharacterName,
			Dkp:           w.Dkp,
			Status:        domain.CharacterStatus(w.Status),
			WishedAt:      w.WishedAt,
		}
	}

	return wishers, nil
}

func (r *LootRepository) itemDaoToDomain(item dao.Item) domain.Item {
	return domain.Item{
		ID:         item.ID,
		Name:       item.Name,
		MinDkpCost: item.MinDkpCost,
		CreatedAt:  item.CreatedAt,
		UpdatedAt:  item.UpdatedAt,
	}
}
