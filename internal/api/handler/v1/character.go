package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guildops/guildops-api/internal/api/handler/v1/request"
	"github.com/guildops/guildops-api/internal/api/handler/v1/response"
	"github.com/guildops/guildops-api/internal/domain"
	"github.com/guildops/guildops-api/internal/service"
)

type RosterService interface {
	CreateCharacter(ctx context.Context, owner domain.User, character domain.Character) (domain.Character, error)
	GetCharacter(ctx context.Context, id uint) (domain.Character, error)
	ListCharacters(ctx context.Context) ([]domain.Character, error)
	ListCharactersByUser(ctx context.Context, userID uint) ([]domain.Character, error)
	UpdateCharacter(ctx context.Context, actor domain.User, character domain.Character) (domain.Character, error)
	DeleteCharacter(ctx context.Context, actor domain.User, id uint) error
	AdjustDkp(ctx context.Context, id uint, delta int) (domain.Character, error)
}

type CharacterHandler struct {
	svc  RosterService
	uSvc UserService
}

func NewCharacterHandler(svc RosterService, uSvc UserService) *CharacterHandler {
	return &CharacterHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleCreateCharacter godoc
// @Summary      Create a character owned by the caller
// @Tags         characters
// @Accept       json
// @Produce      json
// @Param        request  body      request.CreateCharacterRequest  true  "request body"
// @Success      201      {object}   domain.Character
// @Failure      400      {object}   response.Err
// @Failure      409      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /characters [post]
// @Security BearerAuth
func (h *CharacterHandler) HandleCreateCharacter(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.CreateCharacterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	created, err := h.svc.CreateCharacter(ctx.Request.Context(), user, domain.Character{
		Name:       req.Name,
		CombatRole: req.CombatRole,
	})
	if err != nil {
		if errors.Is(err, service.ErrCharacterNameExists) {
			response.RenderErr(ctx, response.ErrConflict(service.ErrCharacterNameExists))
			return
		}

		err = fmt.Errorf("v1.HandleCreateCharacter -> h.svc.CreateCharacter -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, created)
}

// HandleGetCharacter godoc
// @Summary      Get a character by ID
// @Tags         characters
// @Produce      json
// @Param        characterID  path  int  true  "Character ID"
// @Success      200      {object}   domain.Character
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /characters/{characterID} [get]
// @Security BearerAuth
func (h *CharacterHandler) HandleGetCharacter(ctx *gin.Context) {
	characterID, respErr := parseIDParam(ctx, "characterID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	character, err := h.svc.GetCharacter(ctx.Request.Context(), characterID)
	if err != nil {
		if errors.Is(err, service.ErrCharacterNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("character", "ID", characterID))
			return
		}

		err = fmt.Errorf("v1.HandleGetCharacter -> h.svc.GetCharacter -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, character)
}

// HandleListCharacters godoc
// @Summary      List the guild roster
// @Tags         characters
// @Produce      json
// @Param        mine  query  bool  false  "Only the caller's characters"
// @Success      200      {array}    domain.Character
// @Failure      500      {object}   response.Err
// @Router       /characters [get]
// @Security BearerAuth
func (h *CharacterHandler) HandleListCharacters(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var (
		characters []domain.Character
		err        error
	)
	if ctx.Query("mine") == "true" {
		characters, err = h.svc.ListCharactersByUser(ctx.Request.Context(), user.ID)
	} else {
		characters, err = h.svc.ListCharacters(ctx.Request.Context())
	}
	if err != nil {
		err = fmt.Errorf("v1.HandleListCharacters -> h.svc.ListCharacters -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, characters)
}

// HandleUpdateCharacter godoc
// @Summary      Update a character
// @Description  Owners may update their own characters; officers may update any.
// @Tags         characters
// @Accept       json
// @Produce      json
// @Param        characterID  path  int                             true  "Character ID"
// @Param        request      body  request.UpdateCharacterRequest  true  "request body"
// @Success      200      {object}   domain.Character
// @Failure      400      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      409      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /characters/{characterID} [put]
// @Security BearerAuth
func (h *CharacterHandler) HandleUpdateCharacter(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	characterID, respErr := parseIDParam(ctx, "characterID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.UpdateCharacterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	updated, err := h.svc.UpdateCharacter(ctx.Request.Context(), user, domain.Character{
		ID:         characterID,
		Name:       req.Name,
		CombatRole: req.CombatRole,
		Status:     domain.CharacterStatus(req.Status),
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCharacterNotFound):
			response.RenderErr(ctx, response.ErrNotFound("character", "ID", characterID))
		case errors.Is(err, service.ErrNotCharacterOwner):
			response.RenderErr(ctx, response.ErrPermissionDenied(service.ErrNotCharacterOwner))
		case errors.Is(err, service.ErrCharacterNameExists):
			response.RenderErr(ctx, response.ErrConflict(service.ErrCharacterNameExists))
		default:
			err = fmt.Errorf("v1.HandleUpdateCharacter -> h.svc.UpdateCharacter -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, updated)
}

// HandleDeleteCharacter godoc
// @Summary      Delete a character
// @Description  Owners may delete their own characters; admins may delete any. Attendances and wishes are removed with it.
// @Tags         characters
// @Produce      json
// @Param        characterID  path  int  true  "Character ID"
// @Success      204      "No Content"
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /characters/{characterID} [delete]
// @Security BearerAuth
func (h *CharacterHandler) HandleDeleteCharacter(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	characterID, respErr := parseIDParam(ctx, "characterID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if err := h.svc.DeleteCharacter(ctx.Request.Context(), user, characterID); err != nil {
		switch {
		case errors.Is(err, service.ErrCharacterNotFound):
			response.RenderErr(ctx, response.ErrNotFound("character", "ID", characterID))
		case errors.Is(err, service.ErrNotCharacterOwner):
			response.RenderErr(ctx, response.ErrPermissionDenied(service.ErrNotCharacterOwner))
		default:
			err = fmt.Errorf("v1.HandleDeleteCharacter -> h.svc.DeleteCharacter -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleAdjustDkp godoc
// @Summary      Apply a manual DKP adjustment
// @Description  Requires the ADMIN role. The delta may be negative.
// @Tags         characters
// @Accept       json
// @Produce      json
// @Param        characterID  path  int                       true  "Character ID"
// @Param        request      body  request.AdjustDkpRequest  true  "request body"
// @Success      200      {object}   domain.Character
// @Failure      400      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /characters/{characterID}/dkp [post]
// @Security BearerAuth
func (h *CharacterHandler) HandleAdjustDkp(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if !user.Role.AtLeast(domain.RoleAdmin) {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v is not an admin", user.ID)))
		return
	}

	characterID, respErr := parseIDParam(ctx, "characterID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.AdjustDkpRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	adjusted, err := h.svc.AdjustDkp(ctx.Request.Context(), characterID, req.Delta)
	if err != nil {
		if errors.Is(err, service.ErrCharacterNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("character", "ID", characterID))
			return
		}

		err = fmt.Errorf("v1.HandleAdjustDkp -> h.svc.AdjustDkp -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, adjusted)
}
