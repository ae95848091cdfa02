package slot

import (
	"github.com/SujalTripathi/slotswapper/core/database"
	"github.com/SujalTripathi/slotswapper/core/middleware"
	"github.com/SujalTripathi/slotswapper/modules/slot/controller"
	"github.com/SujalTripathi/slotswapper/modules/slot/repository"
	"github.com/SujalTripathi/slotswapper/modules/slot/router"
	"github.com/SujalTripathi/slotswapper/modules/slot/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the slot module and registers its routes
func Init(g *echo.Group, db database.Database, mw *middleware.Middleware) service.SlotServiceInterface {
	repo := repository.NewSlotRepository(db)
	svc := service.NewSlotService(repo)
	ctrl := controller.NewSlotController(svc)
	r := router.NewSlotRouter(ctrl)

	r.Register(g, mw)

	return svc
}
