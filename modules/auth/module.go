package auth

import (
	"github.com/SujalTripathi/slotswapper/core/cache"
	"github.com/SujalTripathi/slotswapper/core/database"
	"github.com/SujalTripathi/slotswapper/core/middleware"
	"github.com/SujalTripathi/slotswapper/modules/auth/controller"
	"github.com/SujalTripathi/slotswapper/modules/auth/repository"
	"github.com/SujalTripathi/slotswapper/modules/auth/router"
	"github.com/SujalTripathi/slotswapper/modules/auth/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the auth module and registers its routes
func Init(g *echo.Group, db database.Database, mw *middleware.Middleware, c cache.ICache) service.AuthServiceInterface {
	repo := repository.NewAuthRepository(db)
	svc := service.NewAuthService(repo, c)
	ctrl := controller.NewAuthController(svc)
	r := router.NewAuthRouter(ctrl)

	r.Register(g, mw)

	return svc
}
