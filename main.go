package main

import (
	"flag"
	"fmt"
	"os"

	"novacore-chat/db"
	"novacore-chat/ui"
	"novacore-chat/utils"
)

var (
	version = "0.1.0"
)

func main() {
	configPath := flag.String("config", "", "Path to configuration file")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		fmt.Printf("NovaCore Chat v%s\n", version)
		os.Exit(0)
	}

	logger, err := utils.NewLogger(utils.GetLogPath())
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Close()

	logger.Info("Starting NovaCore Chat v%s", version)

	// Load or create default configuration
	actualConfigPath := *configPath
	if actualConfigPath == "" {
		actualConfigPath, err = utils.EnsureDefaultConfig()
		if err != nil {
			logger.Error("Failed to create default config: %v", err)
			os.Exit(1)
		}
		logger.Info("Using config file: %s", actualConfigPath)
	}

	config, err := utils.LoadConfig(actualConfigPath)
	if err != nil {
		logger.Error("Failed to load config: %v", err)
		os.Exit(1)
	}

	// Initialize database
	database, err := db.New(config.Data.DBPath)
	if err != nil {
		logger.Error("Failed to initialize database: %v", err)
		os.Exit(1)
	}
	defer database.Close()

	logger.Info("Database initialized: %s", config.Data.DBPath)

	app := ui.NewApp(config, database, logger)

	logger.Info("Application started")
	if err := app.Run(); err != nil {
		logger.Error("Application error: %v", err)
		os.Exit(1)
	}
	logger.Info("Application stopped")
}
