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

	"github.com/spinroom/tournament-manager/brackets"
	"github.com/spinroom/tournament-manager/config"
	"github.com/spinroom/tournament-manager/db"
	"github.com/spinroom/tournament-manager/handlers"
	"github.com/spinroom/tournament-manager/repositories"
	"github.com/spinroom/tournament-manager/routes"
	"github.com/spinroom/tournament-manager/services"
)

func main() {
	// Настройка логгера
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	// Подключение к базе данных
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

	// Инициализация WebSocket Hub
	wsHub := brackets.NewHub()
	go wsHub.Run()

	// Инициализация репозиториев
	userRepo := repositories.NewPostgresUserRepository(dbConn)
	tournamentRepo := repositories.NewPostgresTournamentRepository(dbConn)
	registrationRepo := repositories.NewPostgresRegistrationRepository(dbConn)
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)
	eloHistoryRepo := repositories.NewPostgresEloHistoryRepository(dbConn)
	winnerRepo := repositories.NewPostgresWinnerRepository(dbConn)

	// Инициализация сервисов
	authService := services.NewAuthService(userRepo, logger)
	userService := services.NewUserService(dbConn, userRepo, registrationRepo, logger)
	eloService := services.NewEloService(dbConn, userRepo, matchRepo, eloHistoryRepo, logger)
	tournamentService := services.NewTournamentService(
		dbConn,
		tournamentRepo,
		registrationRepo,
		matchRepo,
		userRepo,
		winnerRepo,
		wsHub,
		logger,
	)
	matchService := services.NewMatchService(
		dbConn,
		matchRepo,
		tournamentRepo,
		registrationRepo,
		userRepo,
		tournamentService,
		eloService,
		wsHub,
		logger,
	)
	statsService := services.NewStatsService(userRepo, matchRepo, registrationRepo, tournamentRepo, winnerRepo)
	logger.Info("services initialized")

	// Инициализация обработчиков HTTP и маршрутизатора
	router := routes.InitRoutes(routes.Deps{
		Auth:        handlers.NewAuthHandler(authService, userService, cfg.JWTSecretKey),
		Users:       handlers.NewUserHandler(userService),
		Tournaments: handlers.NewTournamentHandler(tournamentService),
		Matches:     handlers.NewMatchHandler(matchService),
		Stats:       handlers.NewStatsHandler(statsService, eloService),
		Websocket:   handlers.NewWebsocketHandler(wsHub, logger),

		JWTSecret:          cfg.JWTSecretKey,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})

	// Настройка и запуск HTTP-сервера
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

	// Ожидание сигнала завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
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
	}
	logger.Info("application exited")
}
