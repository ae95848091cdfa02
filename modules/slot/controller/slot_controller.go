package controller

import (
	"github.com/SujalTripathi/slotswapper/core/controller"
	"github.com/SujalTripathi/slotswapper/core/errors"
	"github.com/SujalTripathi/slotswapper/core/utils"
	"github.com/SujalTripathi/slotswapper/modules/slot/dto"
	"github.com/SujalTripathi/slotswapper/modules/slot/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type SlotController struct {
	controller.BaseController
	service service.SlotServiceInterface
}

func NewSlotController(service service.SlotServiceInterface) *SlotController {
	return &SlotController{
		BaseController: controller.NewBaseController(),
		service:        service,
	}
}

// GetUserIDFromContext retrieves the authenticated user ID from context
func (c *SlotController) GetUserIDFromContext(ctx echo.Context) (uuid.UUID, error) {
	tokenData := ctx.Get("token_data")
	if tokenData == nil {
		return uuid.Nil, errors.NewAppError(errors.ErrUnauthorized, "Token data not found in context", nil)
	}

	claims, ok := tokenData.(*utils.TokenClaims)
	if !ok {
		return uuid.Nil, errors.NewAppError(errors.ErrUnauthorized, "Invalid token data format", nil)
	}

	return claims.UserID, nil
}

// CreateSlot creates a new slot for the current user
func (c *SlotController) CreateSlot(ctx echo.Context) error {
	userID, err := c.GetUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	var req dto.CreateSlotRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body", nil)
	}

	resp, appErr := c.service.CreateSlot(ctx.Request().Context(), userID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, resp, "Slot created")
}

// GetMySlots lists the current user's slots
func (c *SlotController) GetMySlots(ctx echo.Context) error {
	userID, err := c.GetUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	resp, appErr := c.service.GetMySlots(ctx.Request().Context(), userID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, resp, "Slots retrieved")
}

// GetSlot returns a single slot by ID
func (c *SlotController) GetSlot(ctx echo.Context) error {
	if _, err := c.GetUserIDFromContext(ctx); err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid slot ID", nil)
	}

	resp, appErr := c.service.GetSlot(ctx.Request().Context(), id)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, resp, "Slot retrieved")
}

// UpdateSlot applies partial edits to a slot
func (c *SlotController) UpdateSlot(ctx echo.Context) error {
	userID, err := c.GetUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid slot ID", nil)
	}

	var req dto.UpdateSlotRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body", nil)
	}

	resp, appErr := c.service.UpdateSlot(ctx.Request().Context(), id, userID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, resp, "Slot updated")
}

// DeleteSlot removes a slot
func (c *SlotController) DeleteSlot(ctx echo.Context) error {
	userID, err := c.GetUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid slot ID", nil)
	}

	if appErr := c.service.DeleteSlot(ctx.Request().Context(), id, userID); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Slot deleted")
}
