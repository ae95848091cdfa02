package router

import (
	"github.com/SujalTripathi/slotswapper/core/middleware"
	"github.com/SujalTripathi/slotswapper/modules/slot/controller"

	"github.com/labstack/echo/v4"
)

type SlotRouter struct {
	controller *controller.SlotController
}

func NewSlotRouter(controller *controller.SlotController) *SlotRouter {
	return &SlotRouter{
		controller: controller,
	}
}

func (r *SlotRouter) Register(g *echo.Group, mw *middleware.Middleware) {
	slots := g.Group("/private/slots", mw.AuthMiddleware())

	slots.POST("", r.controller.CreateSlot)
	slots.GET("", r.controller.GetMySlots)
	slots.GET("/:id", r.controller.GetSlot)
	slots.PUT("/:id", r.controller.UpdateSlot)
	slots.DELETE("/:id", r.controller.DeleteSlot)
}
