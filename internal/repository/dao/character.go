package dao

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrCharacterNameExists = errors.New("character name already taken")
	ErrCharacterNotFound   = errors.New("character not found")
)

type Character struct {
	ID uint `gorm:"primaryKey"`

	UserID uint `gorm:"not null;index"`

	Name       string `gorm:"unique;not null"`
	CombatRole string // "tank", "healer" or "damage"
	Dkp        int    `gorm:"not null;default:0"`
	Status     string `gorm:"not null;default:ACTIVE"` // "ACTIVE" or "NOT_ACTIVE"

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type CharacterDAO struct {
	db *gorm.DB
}

func NewCharacterDAO(db *gorm.DB) *CharacterDAO {
	return &CharacterDAO{
		db: db,
	}
}

func (d *CharacterDAO) Insert(ctx context.Context, character Character) (Character, error) {
	result := d.db.WithContext(ctx).Create(&character)
	if result.Error != nil {
		var err *pgconn.PgError
		if errors.As(result.Error, &err) &&
			err.Code == pgerrcode.UniqueViolation &&
			strings.Contains(err.Message, `unique constraint "uni_characters_name"`) {
			return Character{}, ErrCharacterNameExists
		}

		return Character{}, result.Error
	}

	return character, nil
}

func (d *CharacterDAO) FindByID(ctx context.Context, id uint) (Character, error) {
	var character Character

	result := d.db.WithContext(ctx).First(&character, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Character{}, ErrCharacterNotFound
		}

		return Character{}, result.Error
	}

	return character, nil
}

func (d *CharacterDAO) FindByUserID(ctx context.Context, userID uint) ([]Character, error) {
	var characters []Character

	result := d.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&characters)
	if result.Error != nil {
		return nil, result.Error
	}

	return characters, nil
}

func (d *CharacterDAO) FindAll(ctx context.Context) ([]Character, error) {
	var characters []Character

	result := d.db.WithContext(ctx).Order("id").Find(&characters)
	if result.Error != nil {
		return nil, result.Error
	}

	return characters, nil
}

func (d *CharacterDAO) Update(ctx context.Context, character Character) (Character, error) {
	result := d.db.WithContext(ctx).Model(&Character{ID: character.ID}).
		Select("Name", "CombatRole", "Status").
		Updates(map[string]interface{}{
			"name":        character.Name,
			"combat_role": character.CombatRole,
			"status":      character.Status,
		})
	if result.Error != nil {
		var err *pgconn.PgError
		if errors.As(result.Error, &err) && err.Code == pgerrcode.UniqueViolation {
			return Character{}, ErrCharacterNameExists
		}

		return Character{}, result.Error
	}
	if result.RowsAffected == 0 {
		return Character{}, ErrCharacterNotFound
	}

	return d.FindByID(ctx, character.ID)
}

// Delete removes the character together with its attendances and
// wishes in one transaction.
func (d *CharacterDAO) Delete(ctx context.Context, id uint) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("character_id = ?", id).Delete(&Attendance{}).Error; err != nil {
			return err
		}
		if err := tx.Where("character_id = ?", id).Delete(&Wish{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&Character{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrCharacterNotFound
		}

		return nil
	})
}

// AdjustDkp applies delta to the character's balance as a single atomic
// update. It is the only write path to the dkp column besides the
// attendance transactions.
func (d *CharacterDAO) AdjustDkp(ctx context.Context, id uint, delta int) (Character, error) {
	var character Character

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&Character{}).Where("id = ?", id).
			UpdateColumn("dkp", gorm.Expr("dkp + ?", delta))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrCharacterNotFound
		}

		return tx.First(&character, id).Error
	})
	if err != nil {
		return Character{}, err
	}

	return character, nil
}
