package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chicuadrado/internal"
	"chicuadrado/internal/config"
	"chicuadrado/internal/container"
	"chicuadrado/ui"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	gin.SetMode(appConfig.Server.GinMode)

	logger := internal.NewLogger(internal.ParseLogLevel(appConfig.Log.Level), appConfig.Log.Format)

	appContainer, err := container.New(appConfig, logger)
	if err != nil {
		log.Fatalf("Failed to create application container: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appContainer.Start(ctx)
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = appContainer.Shutdown(shutdownCtx)
	}()

	server, err := ui.NewServer(appContainer, ui.Assets)
	if err != nil {
		log.Fatalf("Failed to initialize server: %v", err)
	}

	if appConfig.Session.Secret == "chicuadrado-development-secret" {
		logger.Warn("SESSION_SECRET is not set; session cookies are signed with the development secret")
	}

	addr := ":" + appConfig.Server.Port
	if err := server.Run(ctx, addr); err != nil {
		logger.Error("Server failed: %v", err)
		os.Exit(1)
	}
	logger.Info("Server stopped")
}
