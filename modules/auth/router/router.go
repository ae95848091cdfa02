package router

import (
	"github.com/SujalTripathi/slotswapper/core/middleware"
	"github.com/SujalTripathi/slotswapper/modules/auth/controller"

	"github.com/labstack/echo/v4"
)

type AuthRouter struct {
	controller *controller.AuthController
}

func NewAuthRouter(controller *controller.AuthController) *AuthRouter {
	return &AuthRouter{
		controller: controller,
	}
}

func (r *AuthRouter) Register(g *echo.Group, mw *middleware.Middleware) {
	auth := g.Group("/auth")
	auth.POST("/signup", r.controller.Signup)
	auth.POST("/login", r.controller.Login)

	private := g.Group("/private/auth", mw.AuthMiddleware())
	private.GET("/me", r.controller.GetMe)
	private.POST("/logout", r.controller.Logout)
}
