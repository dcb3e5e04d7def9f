package main

import (
	"log"

	"github.com/chronocraft/chronocraft/config"
	"github.com/chronocraft/chronocraft/controllers"
	"github.com/chronocraft/chronocraft/routes"
	"github.com/chronocraft/chronocraft/utils"
)

func main() {
	if err := utils.InitLogger(); err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Error loading config:", err)
	}

	config.InitDB()

	if err := controllers.EnsureDefaultAdmin(cfg); err != nil {
		utils.LogError("Failed to seed default admin: %v", err)
		log.Fatal("Failed to seed default admin:", err)
	}

	router := routes.SetupRouter()

	port := cfg.Port
	if port == "" {
		port = utils.DefaultPort
	}

	utils.LogInfo("Server starting on port %s", port)
	if err := router.Run(":" + port); err != nil {
		utils.LogError("Error starting server: %v", err)
		log.Fatal("Error starting server:", err)
	}
}
