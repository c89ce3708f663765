package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guildops/guildops-api/internal/domain"
)

type fakeLootRepo struct {
	items   map[uint]domain.Item
	wishers map[uint][]domain.Wisher
	wishes  map[uint][]domain.Wish
}

func (f *fakeLootRepo) CreateItem(ctx context.Context, item domain.Item) (domain.Item, error) {
	item.ID = uint(len(f.items) + 1)
	if f.items == nil {
		f.items = map[uint]domain.Item{}
	}
	f.items[item.ID] = item
	return item, nil
}

func (f *fakeLootRepo) FindItemByID(ctx context.Context, id uint) (domain.Item, error) {
	item, ok := f.items[id]
	if !ok {
		return domain.Item{}, ErrItemNotFound
	}
	return item, nil
}

func (f *fakeLootRepo) FindAllItems(ctx context.Context) ([]domain.Item, error) {
	return nil, nil
}

func (f *fakeLootRepo) UpdateItem(ctx context.Context, item domain.Item) (domain.Item, error) {
	return item, nil
}

func (f *fakeLootRepo) DeleteItem(ctx context.Context, id uint) error {
	return nil
}

func (f *fakeLootRepo) CreateWish(ctx context.Context, wish domain.Wish) (domain.Wish, error) {
	for _, w := range f.wishes[wish.CharacterID] {
		if w.ItemID == wish.ItemID {
			return domain.Wish{}, ErrWishExists
		}
	}
	if f.wishes == nil {
		f.wishes = map[uint][]domain.Wish{}
	}
	f.wishes[wish.CharacterID] = append(f.wishes[wish.CharacterID], wish)
	return wish, nil
}

func (f *fakeLootRepo) DeleteWish(ctx context.Context, characterID, itemID uint) error {
	return nil
}

func (f *fakeLootRepo) FindWishesByCharacterID(ctx context.Context, characterID uint) ([]domain.Wish, error) {
	return f.wishes[characterID], nil
}

func (f *fakeLootRepo) FindRankedWishers(ctx context.Context, itemID uint) ([]domain.Wisher, error) {
	return f.wishers[itemID], nil
}

func TestLootServiceAddWish(t *testing.T) {
	repo := &fakeLootRepo{
		items: map[uint]domain.Item{
			5: {ID: 5, Name: "Thunderfury", MinDkpCost: 100},
		},
	}
	svc := NewLootService(repo)

	_, err := svc.AddWish(context.Background(), 1, 5)
	require.NoError(t, err)

	_, err = svc.AddWish(context.Background(), 1, 5)
	assert.ErrorIs(t, err, ErrWishExists)

	_, err = svc.AddWish(context.Background(), 1, 99)
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestLootServiceRankWishers(t *testing.T) {
	// Repository returns wishers already ordered by dkp desc; the
	// service only decorates with affordability and eligibility.
	repo := &fakeLootRepo{
		items: map[uint]domain.Item{
			5: {ID: 5, Name: "Thunderfury", MinDkpCost: 100},
		},
		wishers: map[uint][]domain.Wisher{
			5: {
				{CharacterID: 1, CharacterName: "Thrall", Dkp: 150, Status: domain.CharacterActive},
				{CharacterID: 2, CharacterName: "Jaina", Dkp: 120, Status: domain.CharacterNotActive},
				{CharacterID: 3, CharacterName: "Uther", Dkp: 100, Status: domain.CharacterActive},
				{CharacterID: 4, CharacterName: "Anduin", Dkp: 40, Status: domain.CharacterActive},
			},
		},
	}
	svc := NewLootService(repo)

	ranks, err := svc.RankWishers(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, ranks, 4)

	// Affordable and active.
	assert.True(t, ranks[0].Affordable)
	assert.True(t, ranks[0].Eligible)

	// Affordable but inactive: flagged, never hidden.
	assert.True(t, ranks[1].Affordable)
	assert.False(t, ranks[1].Eligible)

	// Balance exactly at the floor counts as affordable.
	assert.True(t, ranks[2].Affordable)
	assert.True(t, ranks[2].Eligible)

	// Below the floor.
	assert.False(t, ranks[3].Affordable)
	assert.False(t, ranks[3].Eligible)
}

func TestLootServiceRankWishersUnknownItem(t *testing.T) {
	svc := NewLootService(&fakeLootRepo{})

	_, err := svc.RankWishers(context.Background(), 99)
	assert.ErrorIs(t, err, ErrItemNotFound)
}
