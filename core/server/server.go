package server

import (
	"fmt"

	"github.com/SujalTripathi/slotswapper/core/cache"
	"github.com/SujalTripathi/slotswapper/core/config"
	"github.com/SujalTripathi/slotswapper/core/database"
	"github.com/SujalTripathi/slotswapper/core/logger"
	coreMiddleware "github.com/SujalTripathi/slotswapper/core/middleware"
	"github.com/SujalTripathi/slotswapper/modules/auth"
	"github.com/SujalTripathi/slotswapper/modules/notification"
	"github.com/SujalTripathi/slotswapper/modules/slot"
	"github.com/SujalTripathi/slotswapper/modules/swap"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
)

// Run boots the HTTP server: config, database, cache, modules, routes
func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := database.InitDB(database.DatabaseConfig{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
	})
	if err != nil {
		return err
	}

	cacheInstance, err := cache.InitCache(cache.CacheConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return err
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())

	mw := coreMiddleware.NewMiddleware(cacheInstance)

	g := e.Group("/api/v1")

	auth.Init(g, db, mw, cacheInstance)
	notificationService := notification.Init(g, db, mw)
	slot.Init(g, db, mw)
	swap.Init(g, db, mw, notificationService)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("Starting server", "addr", addr)
	return e.Start(addr)
}
