package controller

import (
	"github.com/SujalTripathi/slotswapper/core/controller"
	"github.com/SujalTripathi/slotswapper/core/errors"
	"github.com/SujalTripathi/slotswapper/core/utils"
	"github.com/SujalTripathi/slotswapper/modules/auth/dto"
	"github.com/SujalTripathi/slotswapper/modules/auth/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type AuthController struct {
	controller.BaseController
	service service.AuthServiceInterface
}

func NewAuthController(service service.AuthServiceInterface) *AuthController {
	return &AuthController{
		BaseController: controller.NewBaseController(),
		service:        service,
	}
}

// GetUserIDFromContext retrieves the authenticated user ID from context
func (c *AuthController) GetUserIDFromContext(ctx echo.Context) (uuid.UUID, error) {
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

// Signup registers a new account
func (c *AuthController) Signup(ctx echo.Context) error {
	var req dto.SignupRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body", nil)
	}

	resp, appErr := c.service.Signup(ctx.Request().Context(), &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, resp, "Signup successful")
}

// Login authenticates an existing account
func (c *AuthController) Login(ctx echo.Context) error {
	var req dto.LoginRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body", nil)
	}

	resp, appErr := c.service.Login(ctx.Request().Context(), &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, resp, "Login successful")
}

// GetMe returns the authenticated user's profile
func (c *AuthController) GetMe(ctx echo.Context) error {
	userID, err := c.GetUserIDFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	resp, appErr := c.service.GetMe(ctx.Request().Context(), userID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, resp, "Profile retrieved")
}

// Logout revokes the current token
func (c *AuthController) Logout(ctx echo.Context) error {
	token, _ := ctx.Get("raw_token").(string)
	if token == "" {
		return c.Unauthorized(errors.ErrUnauthorized, "Unauthorized", nil)
	}

	if appErr := c.service.Logout(ctx.Request().Context(), token); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Logged out")
}
