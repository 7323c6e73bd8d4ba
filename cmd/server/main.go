package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ctchen222/tictactoe-local/internal/api/service"
	"ctchen222/tictactoe-local/internal/bot"
	"ctchen222/tictactoe-local/internal/config"
	"ctchen222/tictactoe-local/internal/db"
	"ctchen222/tictactoe-local/internal/hub"
	"ctchen222/tictactoe-local/internal/logger"
	"ctchen222/tictactoe-local/internal/repository"
	"ctchen222/tictactoe-local/internal/server"
	"ctchen222/tictactoe-local/internal/telemetry"
)

func main() {
	configPath := flag.String("config", config.DefaultPath, "path to the YAML config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	// Initialize telemetry
	shutdown, err := telemetry.InitOtel(ctx, cfg.Telemetry)
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			slog.Error("Error shutting down telemetry", "error", err)
		}
	}()

	logger.Init(cfg.LogLevel)

	// Create the record store
	store, closeStore, err := openStore(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer closeStore()

	if err := store.Init(ctx); err != nil {
		return fmt.Errorf("failed to initialize player store: %w", err)
	}

	// Create hub
	h := hub.NewHub()
	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	go h.Run(hubCtx)

	// Create services
	difficulty, err := bot.ParseDifficulty(cfg.Game.Difficulty)
	if err != nil {
		return err
	}
	thinker := bot.NewThinker(nil, cfg.Game.ThinkingDelay)

	playerService := service.NewPlayerService(store)
	gameService, err := service.NewGameService(store, h, thinker, difficulty)
	if err != nil {
		return err
	}
	defer gameService.Close()

	// Create the Gin-based server
	srv := server.NewServer(h, playerService, gameService)

	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: srv.Engine(),
	}

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("http server started", "http.addr", cfg.HTTPAddr, "store.driver", cfg.Store.Driver)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
	}

	slog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Websocket connections are hijacked, so stop the hub to release them.
	stopHub()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	slog.Info("Server exiting")
	return nil
}

// openStore builds the configured PlayerStore and a func releasing its connections.
func openStore(ctx context.Context, cfg config.Store) (*repository.Store, func(), error) {
	switch cfg.Driver {
	case "sqlite":
		pool, err := db.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewSQLiteStore(pool), func() { pool.Close() }, nil

	case "redis":
		rdb, err := db.NewRedisClient(ctx, cfg.Redis.Addr)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewRedisStore(rdb, cfg.Redis.Key), func() { rdb.Close() }, nil

	default:
		return repository.NewFileStore(cfg.FilePath), func() {}, nil
	}
}
