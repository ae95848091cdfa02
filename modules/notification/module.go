package notification

import (
	"github.com/SujalTripathi/slotswapper/core/database"
	"github.com/SujalTripathi/slotswapper/core/middleware"
	"github.com/SujalTripathi/slotswapper/modules/notification/controller"
	"github.com/SujalTripathi/slotswapper/modules/notification/repository"
	"github.com/SujalTripathi/slotswapper/modules/notification/router"
	"github.com/SujalTripathi/slotswapper/modules/notification/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the notification module and returns the service for use by other modules
func Init(e *echo.Group, db database.Database, mw *middleware.Middleware) *service.NotificationService {
	repo := repository.NewNotificationRepository(db)
	svc := service.NewNotificationService(repo)
	ctrl := controller.NewNotificationController(svc)

	router.NewNotificationRouter(ctrl).Register(e, mw)

	return svc
}
