package main

import (
	"log"

	"github.com/joho/godotenv"

	"cashflow/cmd"
	"cashflow/internal/config"
	"cashflow/internal/logger"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	// Configuration errors are reported by the command that needs it
	loggerConfig := logger.DefaultConfig()
	if cfg, err := config.Load(); err == nil {
		loggerConfig = cfg.GetLoggerConfig()
	}
	if err := logger.Setup(loggerConfig); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	cmd.Execute()
}
