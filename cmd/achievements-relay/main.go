package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/witcher-command-center/backend/internal/api"
	internalsecrets "github.com/witcher-command-center/backend/internal/secrets"
	"github.com/witcher-command-center/backend/internal/steam"
	"github.com/witcher-command-center/backend/pkg/config"
	"github.com/witcher-command-center/backend/pkg/logger"
	"github.com/witcher-command-center/backend/pkg/secrets"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Load configuration ---
	cfg := config.Load()

	logger.Init(cfg.ServiceName, cfg.Env, cfg.LogLevel)
	defer logger.Sync()
	logg := logger.S()
	logg.Infof("starting [%s]...", cfg.ServiceName)

	// --- AWS Secrets Manager provider (only when the key lives there) ---
	var provider secrets.Provider
	if cfg.SteamAPIKey == "" && cfg.SteamAPIKeySecret != "" {
		p, err := secrets.NewAWSProvider(ctx, cfg.AWSRegion)
		if err != nil {
			logg.Warnw("failed to create AWS Secrets Manager provider", "error", err)
		} else {
			provider = p
		}
	}

	// --- Steam Web API key, read once ---
	loadCtx, cancelLoad := context.WithTimeout(ctx, 10*time.Second)
	apiKey := internalsecrets.LoadCredential(loadCtx, logger.Named("credential"), *cfg, provider)
	cancelLoad()

	// --- Steam client + relay ---
	steamClient := steam.NewClient(logger.Named("steam"), cfg.SteamBaseURL, cfg.SteamAppID, cfg.SteamTimeout)
	relay := steam.NewRelay(logger.Named("relay"), steamClient, apiKey)

	// --- Fiber HTTP Server ---
	app := fiber.New(fiber.Config{
		AppName:               cfg.ServiceDisplayName,
		ReadTimeout:           cfg.HTTPReadTimeout,
		WriteTimeout:          cfg.HTTPWriteTimeout,
		IdleTimeout:           cfg.HTTPIdleTimeout,
		ErrorHandler:          api.ErrorHandler,
		DisableStartupMessage: true,
	})

	handler := api.NewAchievementsHandler(logger.Named("api"), relay, cfg.ServiceDisplayName)
	api.RegisterRoutes(app, cfg.AllowedOrigins, handler)

	go func() {
		logg.Infof("HTTP API listening on %s", cfg.Addr())
		if err := app.Listen(cfg.Addr()); err != nil {
			logg.Fatalw("fiber.listen_failed", "error", err)
		}
	}()

	logg.Infow("["+cfg.ServiceName+"] running",
		"env", cfg.Env,
		"steam_base_url", cfg.SteamBaseURL,
		"app_id", cfg.SteamAppID,
		"credential_configured", relay.Configured(),
		"allowed_origins", cfg.AllowedOrigins)

	<-ctx.Done()
	logg.Infof("shutting down [%s]...", cfg.ServiceName)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logg.Warnw("fiber.shutdown_failed", "error", err)
	}
}
