package controller

import (
	"github.com/SujalTripathi/slotswapper/core/controller"
	"github.com/SujalTripathi/slotswapper/core/errors"
	"github.com/SujalTripathi/slotswapper/core/utils"
	"github.com/SujalTripathi/slotswapper/modules/swap/dto"
	"github.com/SujalTripathi/slotswapper/modules/swap/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type SwapController struct {
	controller.BaseController
	service service.SwapServiceInterface
}

func NewSwapController(service service.SwapServiceInterface) *SwapController {
	return &SwapController{
		BaseController: controller.NewBaseController(),
		service:        service,
	}
}

// GetUserIDFromContext retrieves the authenticated user ID from context
func (c *SwapController) GetUserIDFromContext(ctx echo.Context) (uuid.UUID, error) {
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

// GetSwappableSlots lists slots the current user could propose a swap for
func (c *SwapController) GetSwappableSlots(ctx echo.Context) error {
	userID, err := c.GetUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	resp, appErr := c.service.GetSwappableSlots(ctx.Request().Context(), userID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, resp, "Swappable slots retrieved")
}

// ProposeSwap creates a swap proposal between one of the user's slots and
// another user's slot
func (c *SwapController) ProposeSwap(ctx echo.Context) error {
	userID, err := c.GetUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	var req dto.CreateSwapRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body", nil)
	}

	resp, appErr := c.service.ProposeSwap(ctx.Request().Context(), userID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, resp, "Swap request created")
}

// GetMySwapRequests lists swap requests involving the current user
func (c *SwapController) GetMySwapRequests(ctx echo.Context) error {
	userID, err := c.GetUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	resp, appErr := c.service.GetMySwapRequests(ctx.Request().Context(), userID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, resp, "Swap requests retrieved")
}

// RespondToSwap accepts or rejects a pending swap request
func (c *SwapController) RespondToSwap(ctx echo.Context) error {
	userID, err := c.GetUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	requestID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid swap request ID", nil)
	}

	var req dto.RespondToSwapRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body", nil)
	}

	resp, appErr := c.service.RespondToSwap(ctx.Request().Context(), userID, requestID, req.Action)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, resp, "Swap request resolved")
}

// CancelSwap withdraws a pending swap request made by the current user
func (c *SwapController) CancelSwap(ctx echo.Context) error {
	userID, err := c.GetUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	requestID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid swap request ID", nil)
	}

	resp, appErr := c.service.CancelSwap(ctx.Request().Context(), userID, requestID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, resp, "Swap request cancelled")
}
