package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mabood2003/FairPlay/config"
	"github.com/mabood2003/FairPlay/db"
	"github.com/mabood2003/FairPlay/handlers"
	"github.com/mabood2003/FairPlay/realtime"
	"github.com/mabood2003/FairPlay/repositories"
	api "github.com/mabood2003/FairPlay/routes"
	"github.com/mabood2003/FairPlay/services"
	"github.com/mabood2003/FairPlay/storage"
)

// sweeperInterval controls how often open games with an expired check-in
// window and nobody checked in get cancelled.
const sweeperInterval = 1 * time.Minute

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		}
	}()
	logger.Info("database connection established")

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Error("failed to close redis connection", slog.Any("error", err))
		}
	}()
	{
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			logger.Error("failed to ping redis", slog.Any("error", err))
			cancel()
			os.Exit(1)
		}
		cancel()
	}
	logger.Info("redis connection established", slog.String("addr", cfg.RedisAddr))

	// Avatar storage is optional; without credentials uploads return an error
	// but the rest of the API works.
	var uploader storage.FileUploader
	if cfg.R2Configured() {
		uploader, err = storage.NewCloudflareR2Uploader(storage.CloudflareR2Config{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("R2 uploader initialized")
	} else {
		logger.Warn("R2 storage not configured, avatar uploads disabled")
	}

	hub := realtime.NewHub(logger)
	go hub.Run()
	logger.Info("realtime hub started")

	gameRepo := repositories.NewPostgresGameRepository(dbConn)
	playerRepo := repositories.NewPostgresPlayerRepository(dbConn)
	historyRepo := repositories.NewPostgresRatingHistoryRepository(dbConn)
	friendRepo := repositories.NewPostgresFriendRepository(dbConn)
	txRunner := repositories.NewTxRunner(dbConn)

	leaderboardService := services.NewRedisLeaderboardService(redisClient)
	authService := services.NewAuthService(playerRepo, cfg.JWTSecretKey)
	playerService := services.NewPlayerService(playerRepo, uploader)
	friendService := services.NewFriendService(friendRepo, playerRepo)
	statsService := services.NewStatsService(gameRepo, playerRepo, historyRepo)
	gameService := services.NewGameService(
		txRunner,
		gameRepo,
		playerRepo,
		historyRepo,
		hub,
		leaderboardService,
		logger,
		services.GameServiceConfig{
			CheckInRadiusMeters: cfg.CheckInRadiusMeters,
			CheckInWindow:       cfg.CheckInWindow,
		},
	)
	logger.Info("services initialized")

	// Stale-game sweeper: cancels abandoned games so recurring chains keep
	// spawning even when a week's occurrence never happened.
	go func() {
		ticker := time.NewTicker(sweeperInterval)
		defer ticker.Stop()
		logger.Info("stale game sweeper started", slog.Duration("interval", sweeperInterval))

		for range ticker.C {
			swept, err := gameService.SweepStaleGames(context.Background())
			if err != nil {
				logger.Error("sweeper run failed", slog.Any("error", err))
				continue
			}
			if swept > 0 {
				logger.Info("swept stale games", slog.Int("count", swept))
			}
		}
	}()

	router := api.InitRoutes(api.Handlers{
		Auth:        handlers.NewAuthHandler(authService),
		Player:      handlers.NewPlayerHandler(playerService),
		Game:        handlers.NewGameHandler(gameService),
		Stats:       handlers.NewStatsHandler(statsService),
		Friend:      handlers.NewFriendHandler(friendService),
		Leaderboard: handlers.NewLeaderboardHandler(leaderboardService),
		WebSocket:   handlers.NewWebSocketHandler(hub, gameService),
	}, []byte(cfg.JWTSecretKey))
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
	logger.Info("application exited")
}
