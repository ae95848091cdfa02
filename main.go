package main

import (
	"github.com/SujalTripathi/slotswapper/core/logger"
	"github.com/SujalTripathi/slotswapper/core/server"
)

// @title SlotSwapper API
// @version 1.0
// @description API backend for SlotSwapper - trade calendar slots with other users

// @host localhost:7070
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token. Example: "Bearer {token}"

func main() {
	if err := server.Run(); err != nil {
		logger.Error("run server error", err)
	}
}
