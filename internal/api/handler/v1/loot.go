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

type LootService interface {
	CreateItem(ctx context.Context, item domain.Item) (domain.Item, error)
	GetItem(ctx context.Context, id uint) (domain.Item, error)
	ListItems(ctx context.Context) ([]domain.Item, error)
	UpdateItem(ctx context.Context, item domain.Item) (domain.Item, error)
	DeleteItem(ctx context.Context, id uint) error
	AddWish(ctx context.Context, characterID, itemID uint) (domain.Wish, error)
	RemoveWish(ctx context.Context, characterID, itemID uint) error
	ListWishes(ctx context.Context, characterID uint) ([]domain.Wish, error)
	RankWishers(ctx context.Context, itemID uint) ([]domain.WishRank, error)
}

type LootHandler struct {
	svc    LootService
	roster RosterService
	uSvc   UserService
}

func NewLootHandler(svc LootService, roster RosterService, uSvc UserService) *LootHandler {
	return &LootHandler{
		svc:    svc,
		roster: roster,
		uSvc:   uSvc,
	}
}

// HandleCreateItem godoc
// @Summary      Register a loot item
// @Description  Requires the OFFICER role or above.
// @Tags         items
// @Accept       json
// @Produce      json
// @Param        request  body      request.CreateItemRequest  true  "request body"
// @Success      201      {object}   domain.Item
// @Failure      400      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      409      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /items [post]
// @Security BearerAuth
func (h *LootHandler) HandleCreateItem(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if !user.Role.AtLeast(domain.RoleOfficer) {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v is not an officer", user.ID)))
		return
	}

	var req request.CreateItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	created, err := h.svc.CreateItem(ctx.Request.Context(), domain.Item{
		Name:       req.Name,
		MinDkpCost: req.MinDkpCost,
	})
	if err != nil {
		if errors.Is(err, service.ErrItemNameExists) {
			response.RenderErr(ctx, response.ErrConflict(service.ErrItemNameExists))
			return
		}

		err = fmt.Errorf("v1.HandleCreateItem -> h.svc.CreateItem -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, created)
}

// HandleGetItem godoc
// @Summary      Get a loot item by ID
// @Tags         items
// @Produce      json
// @Param        itemID  path  int  true  "Item ID"
// @Success      200      {object}   domain.Item
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /items/{itemID} [get]
// @Security BearerAuth
func (h *LootHandler) HandleGetItem(ctx *gin.Context) {
	itemID, respErr := parseIDParam(ctx, "itemID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	item, err := h.svc.GetItem(ctx.Request.Context(), itemID)
	if err != nil {
		if errors.Is(err, service.ErrItemNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("item", "ID", itemID))
			return
		}

		err = fmt.Errorf("v1.HandleGetItem -> h.svc.GetItem -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, item)
}

// HandleListItems godoc
// @Summary      List all loot items
// @Tags         items
// @Produce      json
// @Success      200      {array}    domain.Item
// @Failure      500      {object}   response.Err
// @Router       /items [get]
// @Security BearerAuth
func (h *LootHandler) HandleListItems(ctx *gin.Context) {
	items, err := h.svc.ListItems(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleListItems -> h.svc.ListItems -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, items)
}

// HandleUpdateItem godoc
// @Summary      Update a loot item
// @Description  Requires the OFFICER role or above.
// @Tags         items
// @Accept       json
// @Produce      json
// @Param        itemID   path  int                        true  "Item ID"
// @Param        request  body  request.UpdateItemRequest  true  "request body"
// @Success      200      {object}   domain.Item
// @Failure      400      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      409      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /items/{itemID} [put]
// @Security BearerAuth
func (h *LootHandler) HandleUpdateItem(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if !user.Role.AtLeast(domain.RoleOfficer) {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v is not an officer", user.ID)))
		return
	}

	itemID, respErr := parseIDParam(ctx, "itemID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.UpdateItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	updated, err := h.svc.UpdateItem(ctx.Request.Context(), domain.Item{
		ID:         itemID,
		Name:       req.Name,
		MinDkpCost: req.MinDkpCost,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrItemNotFound):
			response.RenderErr(ctx, response.ErrNotFound("item", "ID", itemID))
		case errors.Is(err, service.ErrItemNameExists):
			response.RenderErr(ctx, response.ErrConflict(service.ErrItemNameExists))
		default:
			err = fmt.Errorf("v1.HandleUpdateItem -> h.svc.UpdateItem -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, updated)
}

// HandleDeleteItem godoc
// @Summary      Delete a loot item
// @Description  Requires the ADMIN role. Wishes for the item are removed with it.
// @Tags         items
// @Produce      json
// @Param        itemID  path  int  true  "Item ID"
// @Success      204      "No Content"
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /items/{itemID} [delete]
// @Security BearerAuth
func (h *LootHandler) HandleDeleteItem(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if !user.Role.AtLeast(domain.RoleAdmin) {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v is not an admin", user.ID)))
		return
	}

	itemID, respErr := parseIDParam(ctx, "itemID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if err := h.svc.DeleteItem(ctx.Request.Context(), itemID); err != nil {
		if errors.Is(err, service.ErrItemNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("item", "ID", itemID))
			return
		}

		err = fmt.Errorf("v1.HandleDeleteItem -> h.svc.DeleteItem -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleCreateWish godoc
// @Summary      Register a character's wish for an item
// @Description  Owners may wish on their own characters; officers may wish on any.
// @Tags         wishes
// @Accept       json
// @Produce      json
// @Param        request  body      request.CreateWishRequest  true  "request body"
// @Success      201      {object}   domain.Wish
// @Failure      400      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      409      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /wishes [post]
// @Security BearerAuth
func (h *LootHandler) HandleCreateWish(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.CreateWishRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	character, err := h.roster.GetCharacter(ctx.Request.Context(), req.CharacterID)
	if err != nil {
		if errors.Is(err, service.ErrCharacterNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("character", "ID", req.CharacterID))
			return
		}

		err = fmt.Errorf("v1.HandleCreateWish -> h.roster.GetCharacter -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	if character.UserID != user.ID && !user.Role.AtLeast(domain.RoleOfficer) {
		response.RenderErr(ctx, response.ErrPermissionDenied(service.ErrNotCharacterOwner))
		return
	}

	wish, err := h.svc.AddWish(ctx.Request.Context(), req.CharacterID, req.ItemID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrItemNotFound):
			response.RenderErr(ctx, response.ErrNotFound("item", "ID", req.ItemID))
		case errors.Is(err, service.ErrWishExists):
			response.RenderErr(ctx, response.ErrConflict(service.ErrWishExists))
		default:
			err = fmt.Errorf("v1.HandleCreateWish -> h.svc.AddWish -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusCreated, wish)
}

// HandleDeleteWish godoc
// @Summary      Withdraw a character's wish for an item
// @Description  Owners may withdraw their own wishes; officers may withdraw any.
// @Tags         wishes
// @Produce      json
// @Param        characterID  path  int  true  "Character ID"
// @Param        itemID       path  int  true  "Item ID"
// @Success      204      "No Content"
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /characters/{characterID}/wishes/{itemID} [delete]
// @Security BearerAuth
func (h *LootHandler) HandleDeleteWish(ctx *gin.Context) {
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

	itemID, respErr := parseIDParam(ctx, "itemID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	character, err := h.roster.GetCharacter(ctx.Request.Context(), characterID)
	if err != nil {
		if errors.Is(err, service.ErrCharacterNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("character", "ID", characterID))
			return
		}

		err = fmt.Errorf("v1.HandleDeleteWish -> h.roster.GetCharacter -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	if character.UserID != user.ID && !user.Role.AtLeast(domain.RoleOfficer) {
		response.RenderErr(ctx, response.ErrPermissionDenied(service.ErrNotCharacterOwner))
		return
	}

	if err := h.svc.RemoveWish(ctx.Request.Context(), characterID, itemID); err != nil {
		if errors.Is(err, service.ErrWishNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("wish", "character/item", fmt.Sprintf("%d/%d", characterID, itemID)))
			return
		}

		err = fmt.Errorf("v1.HandleDeleteWish -> h.svc.RemoveWish -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleListCharacterWishes godoc
// @Summary      List a character's wishes
// @Tags         wishes
// @Produce      json
// @Param        characterID  path  int  true  "Character ID"
// @Success      200      {array}    domain.Wish
// @Failure      500      {object}   response.Err
// @Router       /characters/{characterID}/wishes [get]
// @Security BearerAuth
func (h *LootHandler) HandleListCharacterWishes(ctx *gin.Context) {
	characterID, respErr := parseIDParam(ctx, "characterID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	wishes, err := h.svc.ListWishes(ctx.Request.Context(), characterID)
	if err != nil {
		err = fmt.Errorf("v1.HandleListCharacterWishes -> h.svc.ListWishes -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, wishes)
}

// HandleRankWishers godoc
// @Summary      Rank the wishers of an item by loot priority
// @Description  Wishers ordered by current DKP descending, with affordability and eligibility flags. The ranking is advisory and never spends DKP.
// @Tags         wishes
// @Produce      json
// @Param        itemID  path  int  true  "Item ID"
// @Success      200      {object}   response.WishRankingResponse
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /items/{itemID}/wishers [get]
// @Security BearerAuth
func (h *LootHandler) HandleRankWishers(ctx *gin.Context) {
	itemID, respErr := parseIDParam(ctx, "itemID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	ranks, err := h.svc.RankWishers(ctx.Request.Context(), itemID)
	if err != nil {
		if errors.Is(err, service.ErrItemNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("item", "ID", itemID))
			return
		}

		err = fmt.Errorf("v1.HandleRankWishers -> h.svc.RankWishers -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.WishRankingResponse{
		ItemID:  itemID,
		Wishers: ranks,
	})
}
