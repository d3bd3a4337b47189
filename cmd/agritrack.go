package main

import (
	"context"
	"io"
	"net/http"
	"os"
	"time"

	"agritrack/internal/client"
	"agritrack/internal/configuration"
	"agritrack/internal/database"
	"agritrack/internal/logger"
	"agritrack/internal/server"
	"agritrack/internal/session"

	"github.com/go-redis/redis/v9"
)

func runApp() error {
	appContext := context.Background()
	logOutput := io.Writer(os.Stdout)
	appLogger := logger.NewLogger(logger.LevelError, logOutput)

	defer func() {
		if r := recover(); r != nil {
			appLogger.Errorf("APPLICATION CRASHED: %+v", r)
		}
	}()

	config, err := configuration.GetConfig("config.toml")
	if err != nil {
		appLogger.Error("Error getting configuration from config.toml:", err)
		return err
	}

	logLevel, err := logger.ParseLevel(config.LogLevel)
	if err != nil {
		appLogger.Error("Error parsing log_level:", err)
		return err
	}

	if config.LogToFile {
		logFile, err := os.OpenFile("agritrack.log", os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			appLogger.Error("Error opening log file:", err)
			return err
		}
		defer func() {
			if err := logFile.Close(); err != nil {
				appLogger.Error("Error closing log file:", err)
			}
		}()
		logOutput = io.MultiWriter(logOutput, logFile)
	}
	appLogger = logger.NewLogger(logLevel, logOutput)

	appLogger.Info("Connecting to DB at", config.DatabaseURI)
	dbConn, err := database.ConnectDB(appContext, config.DatabaseURI)
	if err != nil {
		appLogger.Error("Error connecting to DB:", err)
		return err
	}
	defer func() {
		if err := dbConn.Disconnect(appContext); err != nil {
			appLogger.Error("Error disconnecting from DB:", err)
		}
	}()

	appLogger.Info("Connecting to Redis at", config.RedisAddress)
	redisClient := redis.NewClient(&redis.Options{Addr: config.RedisAddress})
	if err := redisClient.Ping(appContext).Err(); err != nil {
		appLogger.Error("Error connecting to Redis:", err)
		return err
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			appLogger.Error("Error closing Redis client:", err)
		}
	}()

	srv := server.Server{
		DB: database.Database{Database: dbConn.Database(database.Name)},
		Forecast: client.Client{
			Client:         &http.Client{Timeout: 15 * time.Second},
			ForecastAPIURL: config.ForecastAPIURL,
			Redis:          redisClient,
			CacheTTL:       config.TrendCacheTTL,
			Logger:         appLogger,
		},
		Sessions: session.Store{
			Redis: redisClient,
			TTL:   config.SessionTTL,
		},
		Logger:       appLogger,
		SessionTTL:   config.SessionTTL,
		SecureCookie: config.SecureCookie,
	}

	appLogger.Info("Starting alert watcher with interval:", config.AlertCheckInterval)
	go srv.CheckAlertsInInterval(appContext, time.NewTicker(config.AlertCheckInterval))

	httpSrv := &http.Server{
		Handler:      srv.Router(),
		Addr:         config.ServerAddress,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
		IdleTimeout:  15 * time.Second,
	}

	appLogger.Info("Serving on", httpSrv.Addr)
	return httpSrv.ListenAndServe()
}
