package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guildops/guildops-api/internal/api/handler/v1/request"
	"github.com/guildops/guildops-api/internal/api/handler/v1/response"
	"github.com/guildops/guildops-api/internal/domain"
	"github.com/guildops/guildops-api/internal/service"
)

type AttendanceService interface {
	Record(ctx context.Context, eventID, characterID uint) (int, error)
	Remove(ctx context.Context, eventID, characterID uint) (int, error)
	RecordBulk(ctx context.Context, eventID uint, characterIDs []uint) domain.BulkResult
	ListByEvent(ctx context.Context, eventID uint) ([]domain.Attendance, error)
	ListByCharacter(ctx context.Context, characterID uint) ([]domain.Attendance, error)
}

// FeedNotifier receives ledger mutations for the live feed. A nil
// notifier disables the feed.
type FeedNotifier interface {
	Broadcast(event FeedEvent)
}

type AttendanceHandler struct {
	svc  AttendanceService
	uSvc UserService
	feed FeedNotifier
}

func NewAttendanceHandler(svc AttendanceService, uSvc UserService, feed FeedNotifier) *AttendanceHandler {
	return &AttendanceHandler{
		svc:  svc,
		uSvc: uSvc,
		feed: feed,
	}
}

func (h *AttendanceHandler) notify(eventType string, eventID, characterID uint, delta int) {
	if h.feed == nil {
		return
	}

	h.feed.Broadcast(FeedEvent{
		Type:        eventType,
		EventID:     eventID,
		CharacterID: characterID,
		Delta:       delta,
		At:          time.Now().UTC(),
	})
}

// HandleRecordAttendance godoc
// @Summary      Record a character's attendance at an event
// @Description  Requires the OFFICER role or above. Credits the event's DKP reward exactly once per (event, character) pair.
// @Tags         attendance
// @Accept       json
// @Produce      json
// @Param        eventID  path  int                              true  "Event ID"
// @Param        request  body  request.RecordAttendanceRequest  true  "request body"
// @Success      201      {object}   response.RecordAttendanceResponse
// @Failure      400      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      409      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /events/{eventID}/attendances [post]
// @Security BearerAuth
func (h *AttendanceHandler) HandleRecordAttendance(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if !user.Role.AtLeast(domain.RoleOfficer) {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v is not an officer", user.ID)))
		return
	}

	eventID, respErr := parseIDParam(ctx, "eventID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.RecordAttendanceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	credited, err := h.svc.Record(ctx.Request.Context(), eventID, req.CharacterID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEventNotFound):
			response.RenderErr(ctx, response.ErrNotFound("event", "ID", eventID))
		case errors.Is(err, service.ErrCharacterNotFound):
			response.RenderErr(ctx, response.ErrNotFound("character", "ID", req.CharacterID))
		case errors.Is(err, service.ErrAttendanceExists):
			response.RenderErr(ctx, response.ErrConflict(service.ErrAttendanceExists))
		default:
			err = fmt.Errorf("v1.HandleRecordAttendance -> h.svc.Record -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	h.notify("attendance_recorded", eventID, req.CharacterID, credited)

	ctx.JSON(http.StatusCreated, response.RecordAttendanceResponse{
		EventID:     eventID,
		CharacterID: req.CharacterID,
		Credited:    credited,
	})
}

// HandleRecordBulkAttendance godoc
// @Summary      Record attendance for a batch of characters
// @Description  Requires the OFFICER role or above. Each character is processed independently; duplicates and unknown characters are reported as failures and the rest of the batch is still credited.
// @Tags         attendance
// @Accept       json
// @Produce      json
// @Param        eventID  path  int                            true  "Event ID"
// @Param        request  body  request.BulkAttendanceRequest  true  "request body"
// @Success      200      {object}   domain.BulkResult
// @Failure      400      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /events/{eventID}/attendances/bulk [post]
// @Security BearerAuth
func (h *AttendanceHandler) HandleRecordBulkAttendance(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if !user.Role.AtLeast(domain.RoleOfficer) {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v is not an officer", user.ID)))
		return
	}

	eventID, respErr := parseIDParam(ctx, "eventID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.BulkAttendanceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	result := h.svc.RecordBulk(ctx.Request.Context(), eventID, req.CharacterIDs)
	for _, credit := range result.Successes {
		h.notify("attendance_recorded", eventID, credit.CharacterID, credit.Credited)
	}

	ctx.JSON(http.StatusOK, result)
}

// HandleRemoveAttendance godoc
// @Summary      Remove a recorded attendance
// @Description  Requires the OFFICER role or above. Debits exactly the amount that was credited when the attendance was recorded, even if the event's reward has changed since.
// @Tags         attendance
// @Produce      json
// @Param        eventID      path  int  true  "Event ID"
// @Param        characterID  path  int  true  "Character ID"
// @Success      200      {object}   response.RemoveAttendanceResponse
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /events/{eventID}/attendances/{characterID} [delete]
// @Security BearerAuth
func (h *AttendanceHandler) HandleRemoveAttendance(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if !user.Role.AtLeast(domain.RoleOfficer) {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v is not an officer", user.ID)))
		return
	}

	eventID, respErr := parseIDParam(ctx, "eventID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	characterID, respErr := parseIDParam(ctx, "characterID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	reversed, err := h.svc.Remove(ctx.Request.Context(), eventID, characterID)
	if err != nil {
		if errors.Is(err, service.ErrAttendanceNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("attendance", "event/character", fmt.Sprintf("%d/%d", eventID, characterID)))
			return
		}

		err = fmt.Errorf("v1.HandleRemoveAttendance -> h.svc.Remove -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	h.notify("attendance_removed", eventID, characterID, -reversed)

	ctx.JSON(http.StatusOK, response.RemoveAttendanceResponse{
		EventID:     eventID,
		CharacterID: characterID,
		Reversed:    reversed,
	})
}

// HandleListEventAttendances godoc
// @Summary      List attendances recorded for an event
// @Tags         attendance
// @Produce      json
// @Param        eventID  path  int  true  "Event ID"
// @Success      200      {array}    domain.Attendance
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /events/{eventID}/attendances [get]
// @Security BearerAuth
func (h *AttendanceHandler) HandleListEventAttendances(ctx *gin.Context) {
	eventID, respErr := parseIDParam(ctx, "eventID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	attendances, err := h.svc.ListByEvent(ctx.Request.Context(), eventID)
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("event", "ID", eventID))
			return
		}

		err = fmt.Errorf("v1.HandleListEventAttendances -> h.svc.ListByEvent -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, attendances)
}

// HandleListCharacterAttendances godoc
// @Summary      List a character's attendance history
// @Tags         attendance
// @Produce      json
// @Param        characterID  path  int  true  "Character ID"
// @Success      200      {array}    domain.Attendance
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /characters/{characterID}/attendances [get]
// @Security BearerAuth
func (h *AttendanceHandler) HandleListCharacterAttendances(ctx *gin.Context) {
	characterID, respErr := parseIDParam(ctx, "characterID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	attendances, err := h.svc.ListByCharacter(ctx.Request.Context(), characterID)
	if err != nil {
		if errors.Is(err, service.ErrCharacterNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("character", "ID", characterID))
			return
		}

		err = fmt.Errorf("v1.HandleListCharacterAttendances -> h.svc.ListByCharacter -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, attendances)
}
