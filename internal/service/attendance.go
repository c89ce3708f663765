package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/guildops/guildops-api/internal/domain"
	"github.com/guildops/guildops-api/internal/repository"
)

var (
	ErrAttendanceExists   = repository.ErrAttendanceExists
	ErrAttendanceNotFound = repository.ErrAttendanceNotFound
)

type AttendanceRepository interface {
	Record(ctx context.Context, eventID, characterID uint) (int, error)
	Remove(ctx context.Context, eventID, characterID uint) (int, error)
	FindByEventID(ctx context.Context, eventID uint) ([]domain.Attendance, error)
	FindByCharacterID(ctx context.Context, characterID uint) ([]domain.Attendance, error)
}

// AttendanceService keeps each character's balance consistent with the
// set of events it attended. All credit/debit happens inside the
// repository's transaction; the service adds the bulk partial-failure
// semantics on top.
type AttendanceService struct {
	repo AttendanceRepository
}

func NewAttendanceService(repo AttendanceRepository) *AttendanceService {
	return &AttendanceService{
		repo: repo,
	}
}

// Record marks the character present at the event and credits the
// event's reward. A second call for the same pair fails with
// ErrAttendanceExists and never credits twice.
func (s *AttendanceService) Record(ctx context.Context, eventID, characterID uint) (int, error) {
	credited, err := s.repo.Record(ctx, eventID, characterID)
	if err != nil {
		return 0, fmt.Errorf("s.repo.Record -> %w", err)
	}

	return credited, nil
}

// Remove deletes the attendance and debits the amount that was credited
// when it was recorded.
func (s *AttendanceService) Remove(ctx context.Context, eventID, characterID uint) (int, error) {
	reversed, err := s.repo.Remove(ctx, eventID, characterID)
	if err != nil {
		return 0, fmt.Errorf("s.repo.Remove -> %w", err)
	}

	return reversed, nil
}

// RecordBulk processes each character independently; duplicates and
// unknown ids become failure entries and the rest of the batch still
// goes through. The returned result is never accompanied by an error
// for per-character conditions.
func (s *AttendanceService) RecordBulk(ctx context.Context, eventID uint, characterIDs []uint) domain.BulkResult {
	result := domain.BulkResult{
		Successes: []domain.BulkCredit{},
		Failures:  []domain.BulkFailure{},
	}

	for _, characterID := range characterIDs {
		credited, err := s.repo.Record(ctx, eventID, characterID)
		if err != nil {
			zap.L().Info("bulk attendance entry skipped",
				zap.Uint("event_id", eventID),
				zap.Uint("character_id", characterID),
				zap.Error(err))
			result.Failures = append(result.Failures, domain.BulkFailure{
				CharacterID: characterID,
				Reason:      bulkFailureReason(err),
			})
			continue
		}

		result.Successes = append(result.Successes, domain.BulkCredit{
			CharacterID: characterID,
			Credited:    credited,
		})
		result.TotalCredited += credited
	}

	return result
}

func (s *AttendanceService) ListByEvent(ctx context.Context, eventID uint) ([]domain.Attendance, error) {
	attendances, err := s.repo.FindByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByEventID -> %w", err)
	}

	return attendances, nil
}

func (s *AttendanceService) ListByCharacter(ctx context.Context, characterID uint) ([]domain.Attendance, error) {
	attendances, err := s.repo.FindByCharacterID(ctx, characterID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByCharacterID -> %w", err)
	}

	return attendances, nil
}

// bulkFailureReason strips the wrapping chain down to the sentinel so
// bulk results stay readable for API clients.
func bulkFailureReason(err error) string {
	switch {
	case errors.Is(err, ErrAttendanceExists):
		return ErrAttendanceExists.Error()
	case errors.Is(err, ErrCharacterNotFound):
		return ErrCharacterNotFound.Error()
	case errors.Is(err, ErrEventNotFound):
		return ErrEventNotFound.Error()
	default:
		return err.Error()
	}
}
