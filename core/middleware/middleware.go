package middleware

import (
	"strings"

	"github.com/SujalTripathi/slotswapper/core/cache"
	"github.com/SujalTripathi/slotswapper/core/controller"
	"github.com/SujalTripathi/slotswapper/core/errors"
	"github.com/SujalTripathi/slotswapper/core/logger"
	"github.com/SujalTripathi/slotswapper/core/utils"

	"github.com/labstack/echo/v4"
)

type Middleware struct {
	cache cache.ICache
}

func NewMiddleware(c cache.ICache) *Middleware {
	return &Middleware{cache: c}
}

// AuthMiddleware validates the bearer token and stores the claims in context
// under "token_data" for controllers to read
func (m *Middleware) AuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if header == "" {
				return controller.NewErrorResponse(401, errors.ErrMissingAuthorizationHeader, "Missing Authorization header")
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				return controller.NewErrorResponse(401, errors.ErrInvalidTokenFormat, "Authorization header must be: Bearer {token}")
			}
			token := parts[1]

			if m.cache != nil {
				blacklisted, err := m.cache.IsTokenBlacklisted(c.Request().Context(), token)
				if err != nil {
					logger.Error("Middleware:AuthMiddleware:IsTokenBlacklisted", err)
					return controller.NewErrorResponse(500, errors.ErrInternalServer, "Failed to verify token")
				}
				if blacklisted {
					return controller.NewErrorResponse(401, errors.ErrUnauthorized, "Token has been revoked")
				}
			}

			claims, err := utils.ValidateAndParseToken(token)
			if err != nil {
				if ae, ok := err.(*errors.AppError); ok {
					return controller.NewErrorResponse(401, ae.Code, ae.Message)
				}
				return controller.NewErrorResponse(401, errors.ErrUnauthorized, "Invalid token")
			}

			c.Set("token_data", claims)
			c.Set("raw_token", token)
			return next(c)
		}
	}
}
