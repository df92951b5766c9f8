package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Checker-Finance/tss-sdk/internal/api"
	internalsecrets "github.com/Checker-Finance/tss-sdk/internal/secrets"
	"github.com/Checker-Finance/tss-sdk/pkg/config"
	"github.com/Checker-Finance/tss-sdk/pkg/logger"
	"github.com/Checker-Finance/tss-sdk/pkg/secrets"
	"github.com/Checker-Finance/tss-sdk/pkg/server"
	"github.com/Checker-Finance/tss-sdk/pkg/tss"
	"github.com/Checker-Finance/tss-sdk/pkg/utils"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Load configuration ---
	cfg := config.Load()

	logger.Init(cfg.ServiceName, cfg.Env, cfg.LogLevel)
	defer logger.Sync()
	logg := logger.S()
	logg.Info("starting [tss-agent]...")

	tssCfg := cfg.TSS

	// --- Credentials from AWS Secrets Manager (optional) ---
	if cfg.CredentialsSecret != "" {
		awsProvider, err := secrets.NewAWSProvider(ctx, cfg.AWSRegion)
		if err != nil {
			logg.Fatalw("failed to create AWS Secrets Manager provider", "error", err)
		}

		credCache := secrets.NewCache[secrets.Credentials](cfg.CacheTTL)
		go credCache.StartCleaner(ctx, cfg.CleanupFreq)

		resolver := internalsecrets.NewCredentialResolver(logger.L(), cfg.Env, awsProvider, credCache)
		tssCfg, err = resolver.Apply(ctx, cfg.CredentialsSecret, tssCfg)
		if err != nil {
			logg.Fatalw("failed to resolve TSS credentials", "secret", cfg.CredentialsSecret, "error", err)
		}
	}

	// --- Secret Server client ---
	srv, err := server.New(tssCfg,
		server.WithLogger(logger.L()),
		server.WithHTTPClient(&http.Client{Timeout: cfg.RequestTimeout}),
		server.WithRateLimit(cfg.RateLimit),
		server.WithRetries(cfg.RetryMax),
	)
	if err != nil {
		logg.Fatalw("invalid TSS configuration", "error", err)
	}
	logg.Infow("tss.client_ready",
		"token_url", utils.MaskURL(srv.URLFor(server.TokenResource, "")),
		"username", tssCfg.Username,
		"retries", cfg.RetryMax,
		"rate_limit_rps", cfg.RateLimit.RequestsPerSecond)

	fetcher := tss.NewFetcher(logger.L(), srv)

	// --- Fiber HTTP Server ---
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	})
	api.RegisterRoutes(app, api.NewSecretHandler(logger.L(), fetcher))

	go func() {
		logg.Infof("HTTP API listening on :%d", cfg.Port)
		if err := app.Listen(fmt.Sprintf(":%d", cfg.Port)); err != nil {
			logg.Fatalw("fiber.listen_failed", "error", err)
		}
	}()

	<-ctx.Done()
	logg.Info("shutting down [tss-agent]...")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logg.Warnw("fiber.shutdown_failed", "error", err)
	}
	logg.Info("tss-agent stopped")
}
