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
	ErrAttendanceExists   = errors.New("attendance already recorded")
	ErrAttendanceNotFound = errors.New("attendance not found")
)

type Attendance struct {
	EventID     uint `gorm:"primaryKey;autoIncrement:false"`
	CharacterID uint `gorm:"primaryKey;autoIncrement:false"`

	// Reward snapshot at record time; removal debits exactly this
	// amount regardless of later edits to the event.
	DkpAwarded int `gorm:"not null"`

	CreatedAt time.Time `gorm:"not null"`
}

type AttendanceDAO struct {
	db *gorm.DB
}

func NewAttendanceDAO(db *gorm.DB) *AttendanceDAO {
	return &AttendanceDAO{
		db: db,
	}
}

// Record inserts the attendance row and credits the character's balance
// in one transaction. Uniqueness of the (event, character) pair is
// enforced by the composite primary key, so a lost race between two
// concurrent calls surfaces as ErrAttendanceExists rather than a
// double credit.
func (d *AttendanceDAO) Record(ctx context.Context, eventID, characterID uint) (int, error) {
	var credited int

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var event Event
		if err := tx.First(&event, eventID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEventNotFound
			}
			return err
		}

		var character Character
		if err := tx.First(&character, characterID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCharacterNotFound
			}
			return err
		}

		attendance := Attendance{
			EventID:     eventID,
			CharacterID: characterID,
			DkpAwarded:  event.DkpReward,
		}
		if err := tx.Create(&attendance).Error; err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
				return ErrAttendanceExists
			}
			return err
		}

		result := tx.Model(&Character{}).Where("id = ?", characterID).
			UpdateColumn("dkp", gorm.Expr("dkp + ?", event.DkpReward))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			// Character deleted between the lookup and the credit; roll
			// back rather than leave an orphan attendance row.
			return ErrCharacterNotFound
		}

		credited = event.DkpReward

		return nil
	})
	if err != nil {
		return 0, err
	}

	return credited, nil
}

// Remove deletes the attendance row and debits the snapshotted award in
// one transaction. The balance is deliberately not floored at zero so
// the ledger stays reconstructable.
func (d *AttendanceDAO) Remove(ctx context.Context, eventID, characterID uint) (int, error) {
	var reversed int

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var attendance Attendance
		err := tx.Where("event_id = ? AND character_id = ?", eventID, characterID).
			First(&attendance).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAttendanceNotFound
			}
			return err
		}

		result := tx.Where("event_id = ? AND character_id = ?", eventID, characterID).
			Delete(&Attendance{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			// Lost a race with a concurrent removal.
			return ErrAttendanceNotFound
		}

		debit := tx.Model(&Character{}).Where("id = ?", characterID).
			UpdateColumn("dkp", gorm.Expr("dkp - ?", attendance.DkpAwarded))
		if debit.Error != nil {
			return debit.Error
		}
		if debit.RowsAffected == 0 {
			// The character is gone; keep the row and report the miss
			// instead of claiming a reversal that debited nobody.
			return ErrCharacterNotFound
		}

		reversed = attendance.DkpAwarded

		return nil
	})
	if err != nil {
		return 0, err
	}

	return reversed, nil
}

func (d *AttendanceDAO) FindByEventID(ctx context.Context, eventID uint) ([]Attendance, error) {
	var attendances []Attendance

	result := d.db.WithContext(ctx).Where("event_id = ?", eventID).
		Order("created_at").Find(&attendances)
	if result.Error != nil {
		return nil, result.Error
	}

	return attendances, nil
}

func (d *AttendanceDAO) FindByCharacterID(ctx context.Context, characterID uint) ([]Attendance, error) {
	var attendances []Attendance

	result := d.db.WithContext(ctx).Where("character_id = ?", characterID).
		Order("created_at").Find(&attendances)
	if result.Error != nil {
		return nil, result.Error
	}

	return attendances, nil
}
