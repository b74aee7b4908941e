package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"go.uber.org/zap"

	"github.com/benbeisheim/chess-relay/internal/config"
	"github.com/benbeisheim/chess-relay/internal/controller"
	"github.com/benbeisheim/chess-relay/internal/middleware"
	"github.com/benbeisheim/chess-relay/internal/observability"
	"github.com/benbeisheim/chess-relay/internal/service"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading config: %v\n", err)
		os.Exit(1)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "creating logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	gameManager := service.NewGameManager(ctx, cfg.Relay, logger)
	defer gameManager.Shutdown()
	gameService := service.NewGameService(gameManager)

	if id := cfg.Game.DefaultID; id != "" {
		if _, err := gameManager.CreateGame(id); err != nil {
			return fmt.Errorf("creating default game: %w", err)
		}
		logger.Info("default game ready", zap.String("game_id", id))
	}

	app := fiber.New(fiber.Config{DisableStartupMessage: true})

	origins := strings.Join(cfg.Server.AllowedOrigins, ", ")
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, X-Player-ID",
		AllowMethods:     "GET, POST, OPTIONS",
		AllowCredentials: origins != "*",
	}))
	app.Use(middleware.RequestLogger(logger))

	gameController := controller.NewGameController(gameService, logger)
	wsController := controller.NewWebSocketController(ctx, gameService, cfg.Relay.OutboundSize, logger)
	controller.Routes(app, gameController, wsController, cfg.Server, logger)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", cfg.Server.Addr()))
		errCh <- app.Listen(cfg.Server.Addr())
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("shutting down")
		return app.Shutdown()
	}
}
