package swap

import (
	"github.com/SujalTripathi/slotswapper/core/database"
	"github.com/SujalTripathi/slotswapper/core/middleware"
	notifService "github.com/SujalTripathi/slotswapper/modules/notification/service"
	slotRepository "github.com/SujalTripathi/slotswapper/modules/slot/repository"
	"github.com/SujalTripathi/slotswapper/modules/swap/controller"
	"github.com/SujalTripathi/slotswapper/modules/swap/repository"
	"github.com/SujalTripathi/slotswapper/modules/swap/router"
	"github.com/SujalTripathi/slotswapper/modules/swap/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the swap module and registers its routes
func Init(g *echo.Group, db database.Database, mw *middleware.Middleware, notifications *notifService.NotificationService) service.SwapServiceInterface {
	repo := repository.NewSwapRepository(db)
	slotRepo := slotRepository.NewSlotRepository(db)
	svc := service.NewSwapService(repo, slotRepo, notifications)
	ctrl := controller.NewSwapController(svc)
	r := router.NewSwapRouter(ctrl)

	r.Register(g, mw)

	return svc
}
