package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/pathpiper/backend/internal/pkg/logger"
	"github.com/pathpiper/backend/internal/server"
)

// @title PathPiper API
// @version 1.0
// @description API for the PathPiper student social platform
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url https://www.pathpiper.com/support
// @contact.email support@pathpiper.com

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token for authorization

func main() {
	// A local .env is optional; real deployments set the environment
	if err := godotenv.Load(); err == nil {
		logger.Debug().Msg("Loaded environment from .env file")
	}

	srv, err := server.NewServer()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
	os.Exit(0)
}
