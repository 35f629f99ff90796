package main

import (
	"EsimMyanmar/internal/config"
	"EsimMyanmar/pkg/log"
	"EsimMyanmar/pkg/redis"
	"github.com/joho/godotenv"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func main() {
	logger := log.NewLogger()
	if err := godotenv.Load(); err != nil {
		logger.Warnf("No .env file loaded: %v", err)
	}

	appConfig, err := config.LoadAppConfig()
	if err != nil {
		logger.Fatalf("Invalid configuration: %v", err)
	}

	fiberApp := config.NewFiber(logger, appConfig)
	validator := config.NewValidator()

	options := []config.ServerOption{
		config.WithAppConfig(appConfig),
		config.WithFiber(fiberApp),
		config.WithLogger(logger),
		config.WithValidator(validator),
		config.WithDatabase(),
		config.WithMiddleware(),
		config.WithS3Client(),
		config.WithTransactease(),
		config.WithUtils(),
	}
	if appConfig.RedisEnabled {
		options = append(options, config.WithRedisServer(redis.New(appConfig.Redis, logger)))
	}

	server, err := config.NewServer(options...)
	if err != nil {
		logger.Fatal(err)
	}

	server.RegisterHandler()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.Run(); err != nil {
			logger.Fatalf("Error starting server: %v", err)
		}
	}()

	logger.Info("Server started successfully")

	<-sigChan
	logger.Info("Shutting down server...")

	if err := server.Shutdown(10 * time.Second); err != nil {
		logger.Errorf("Graceful shutdown failed: %v", err)
	}
}
