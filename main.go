package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/anvrv/business-keeper/internal/archive"
	"github.com/anvrv/business-keeper/internal/config"
	"github.com/anvrv/business-keeper/internal/handlers"
	"github.com/anvrv/business-keeper/internal/httpserver"
	"github.com/anvrv/business-keeper/internal/logging"
	"github.com/anvrv/business-keeper/internal/metrics"
	"github.com/anvrv/business-keeper/internal/telegram"
	"github.com/anvrv/business-keeper/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := logging.NewLogger(cfg.LogLevel)
	logger.Info("starting business-keeper")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metricRegistry := metrics.Registry("business_keeper")

	rdb, err := store.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, "business_keeper")
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer rdb.Close()
	stateStore := store.NewRedisStateStore(rdb, 24)

	pgStore, err := store.NewPostgresStore(ctx, cfg.PostgresDSN)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pgStore.Close()
	logger.Info("database migrated")

	if cfg.SeedAdminID != 0 {
		if err := pgStore.AddAdmin(ctx, cfg.SeedAdminID); err != nil {
			return fmt.Errorf("seed admin: %w", err)
		}
		logger.Info("seed admin ensured", "admin_id", cfg.SeedAdminID)
	}

	httpClient := &http.Client{
		Timeout: 10 * time.Minute,
	}
	pollTimeout := 50 * time.Second

	b, err := bot.New(
		cfg.BotToken,
		bot.WithHTTPClient(pollTimeout, httpClient),
		bot.WithAllowedUpdates(bot.AllowedUpdates{
			"message",
			"callback_query",
			"business_connection",
			"business_message",
			"deleted_business_messages",
			"pre_checkout_query",
		}),
	)
	if err != nil {
		return fmt.Errorf("create bot: %w", err)
	}

	tg := telegram.NewClient(b)
	directory := archive.NewDirectory(pgStore)
	gate := archive.NewGate(pgStore)
	media := archive.NewMediaStore(cfg.MediaDir, tg, logger, metricRegistry)
	engine := archive.NewEngine(directory, gate, media, pgStore, tg, logger, metricRegistry)

	h := handlers.NewHandlers(pgStore, stateStore, gate, directory, logger, metricRegistry)

	b.RegisterHandlerMatchFunc(func(update *models.Update) bool {
		return update.BusinessConnection != nil
	}, h.OnBusinessConnection)

	b.RegisterHandlerMatchFunc(func(update *models.Update) bool {
		return update.BusinessMessage != nil
	}, func(ctx context.Context, b *bot.Bot, update *models.Update) {
		engine.OnMessage(ctx, update.BusinessMessage)
	})

	b.RegisterHandlerMatchFunc(func(update *models.Update) bool {
		return update.DeletedBusinessMessages != nil
	}, func(ctx context.Context, b *bot.Bot, update *models.Update) {
		engine.OnDeleted(ctx, update.DeletedBusinessMessages)
	})

	b.RegisterHandlerMatchFunc(func(update *models.Update) bool {
		return update.PreCheckoutQuery != nil
	}, h.OnPreCheckout)

	b.RegisterHandlerMatchFunc(func(update *models.Update) bool {
		return update.Message != nil
	}, h.OnMessage)

	b.RegisterHandlerMatchFunc(func(update *models.Update) bool {
		return update.CallbackQuery != nil
	}, h.OnCallback)

	srv := httpserver.New(cfg.MetricsAddr, logger)
	go func() {
		if err := srv.Start(); err != nil {
			logger.Error("http server failed", "error", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("bot started")
	b.Start(ctx)
	logger.Info("bot stopped")
	return nil
}
