package repository

import (
	"context"
	"fmt"

	"github.com/guildops/guildops-api/internal/domain"
	"github.com/guildops/guildops-api/internal/repository/dao"
)

var (
	ErrAttendanceExists   = dao.ErrAttendanceExists
	ErrAttendanceNotFound = dao.ErrAttendanceNotFound
)

type AttendanceDAO interface {
	Record(ctx context.Context, eventID, characterID uint) (int, error)
	Remove(ctx context.Context, eventID, characterID uint) (int, error)
	FindByEventID(ctx context.Context, eventID uint) ([]dao.Attendance, error)
	FindByCharacterID(ctx context.Context, characterID uint) ([]dao.Attendance, error)
}

type AttendanceRepository struct {
	dao AttendanceDAO
}

func NewAttendanceRepository(dao AttendanceDAO) *AttendanceRepository {
	return &AttendanceRepository{
		dao: dao,
	}
}

// Record atomically inserts the attendance row and credits the
// character; the credited amount is returned.
func (r *AttendanceRepository) Record(ctx context.Context, eventID, characterID uint) (int, error) {
	credited, err := r.dao.Record(ctx, eventID, characterID)
	if err != nil {
		return 0, fmt.Errorf("r.dao.Record -> %w", err)
	}

	return credited, nil
}

// Remove atomically deletes the attendance row and debits the amount
// originally credited.
func (r *AttendanceRepository) Remove(ctx context.Context, eventID, characterID uint) (int, error) {
	reversed, err := r.dao.Remove(ctx, eventID, characterID)
	if err != nil {
		return 0, fmt.Errorf("r.dao.Remove -> %w", err)
	}

	return reversed, nil
}

func (r *AttendanceRepository) FindByEventID(ctx context.Context, eventID uint) ([]domain.Attendance, error) {
	found, err := r.dao.FindByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByEventID -> %w", err)
	}

	return r.daosToDomain(found), nil
}

func (r *AttendanceRepository) FindByCharacterID(ctx context.Context, characterID uint) ([]domain.Attendance, error) {
	found, err := r.dao.FindByCharacterID(ctx, characterID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByCharacterID -> %w", err)
	}

	return r.daosToDomain(found), nil
}

func (r *AttendanceRepository) daosToDomain(attendances []dao.Attendance) []domain.Attendance {
	result := make([]domain.Attendance, len(attendances))
	for i, a := range attendances {
		result[i] = domain.Attendance{
			EventID:     a.EventID,
			CharacterID: a.CharacterID,
			DkpAwarded:  a.DkpAwarded,
			CreatedAt:   a.CreatedAt,
		}
	}

	return result
}
