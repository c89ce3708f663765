package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrWishExists   = errors.New("wish already exists")
	ErrWishNotFound = errors.New("wish not found")
)

type Wish struct {
	CharacterID uint `gorm:"primaryKey;autoIncrement:false"`
	ItemID      uint `gorm:"primaryKey;autoIncrement:false"`

	CreatedAt time.Time `gorm:"not null"`
}

// RankedWish is one row of the loot-priority query: a wish joined to
// its character's current balance and status.
type RankedWish struct {
	CharacterID   uint
	CharacterName string
	Dkp           int
	Status        string
	WishedAt      time.Time
}

type WishDAO struct {
	db *gorm.DB
}

func NewWishDAO(db *gorm.DB) *WishDAO {
	return &WishDAO{
		db: db,
	}
}

func (d *WishDAO) Insert(ctx context.Context, wish Wish) (Wish, error) {
	result := d.db.WithContext(ctx).Create(&wish)
	if result.Error != nil {
		var err *pgconn.PgError
		if errors.As(result.Error, &err) && err.Code == pgerrcode.UniqueViolation {
			return Wish{}, ErrWishExists
		}

		return Wish{}, result.Error
	}

	return wish, nil
}

func (d *WishDAO) Delete(ctx context.Context, characterID, itemID uint) error {
	result := d.db.WithContext(ctx).
		Where("character_id = ? AND item_id = ?", characterID, itemID).
		Delete(&Wish{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrWishNotFound
	}

	return nil
}

func (d *WishDAO) FindByCharacterID(ctx context.Context, characterID uint) ([]Wish, error) {
	var wishes []Wish

	result := d.db.WithContext(ctx).Where("character_id = ?", characterID).
		Order("created_at").Find(&wishes)
	if result.Error != nil {
		return nil, result.Error
	}

	return wishes, nil
}

// FindRankedByItemID returns the item's wishers joined to their
// characters, highest balance first. Ties break on wish age (earlier
// wish wins), then character id, so the order never depends on storage
// row order.
func (d *WishDAO) FindRankedByItemID(ctx context.Context, itemID uint) ([]RankedWish, error) {
	var ranked []RankedWish

	result := d.db.WithContext(ctx).Model(&Wish{}).
		Select("wishes.character_id AS character_id, characters.name AS character_name, characters.dkp AS dkp, characters.status AS status, wishes.created_at AS wished_at").
		Joins("JOIN characters ON characters.id = wishes.character_id").
		Where("wishes.item_id = ?", itemID).
		Order("characters.dkp DESC, wishes.created_at ASC, wishes.character_id ASC").
		Scan(&ranked)
	if result.Error != nil {
		return nil, result.Error
	}

	return ranked, nil
}
