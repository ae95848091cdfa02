package router

import (
	"github.com/SujalTripathi/slotswapper/core/middleware"
	"github.com/SujalTripathi/slotswapper/modules/swap/controller"

	"github.com/labstack/echo/v4"
)

type SwapRouter struct {
	controller *controller.SwapController
}

func NewSwapRouter(controller *controller.SwapController) *SwapRouter {
	return &SwapRouter{
		controller: controller,
	}
}

func (r *SwapRouter) Register(g *echo.Group, mw *middleware.Middleware) {
	swaps := g.Group("/private/swaps", mw.AuthMiddleware())

	swaps.GET("/swappable", r.controller.GetSwappableSlots)
	swaps.POST("/request", r.controller.ProposeSwap)
	swaps.GET("/my-requests", r.controller.GetMySwapRequests)
	swaps.POST("/respond/:id", r.controller.RespondToSwap)
	swaps.POST("/cancel/:id", r.controller.CancelSwap)
}
