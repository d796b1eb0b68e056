package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"log/slog"

	"planbot/internal/config"
	"planbot/internal/database"
	"planbot/internal/dispatch"
	"planbot/internal/handlers"
	"planbot/internal/logger"
	"planbot/internal/messenger"
	"planbot/internal/notifier"
	"planbot/internal/storage"
	"planbot/internal/telegram"
)

const defaultConfigPath = "config.yaml"

func main() {
	if err := run(); err != nil {
		log.Fatalf("bot: %v", err)
	}
}

func run() error {
	_ = godotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = defaultConfigPath
	}

	log.Printf("loading config: %s", cfgPath)
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	if err := logger.InitLogger(cfg); err != nil {
		return err
	}
	defer func() {
		if err := logger.Shutdown(); err != nil {
			log.Printf("logger shutdown error: %v", err)
		}
	}()

	startedAt := time.Now()
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := database.RunMigrations(cfg.Database); err != nil {
		return err
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return err
	}

	store, err := storage.NewPostgres(db)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.DB.Error("store close failed", slog.String("err", err.Error()))
		}
	}()

	bot, err := telegram.NewBot(cfg)
	if err != nil {
		return err
	}
	m := messenger.NewTelebot(bot)
	defer m.Close()

	d := dispatch.New(store, handlers.Chain(store, m))

	n := notifier.New(store, m)
	scheduler, err := n.Start(ctx, cfg.Notifier.Period())
	if err != nil {
		return err
	}
	defer func() {
		if err := scheduler.Shutdown(); err != nil {
			logger.NTF.Error("scheduler shutdown failed", slog.String("err", err.Error()))
		}
	}()

	logger.L.With("component", "app").Info("app ready",
		slog.String("event", "ready"),
		slog.Duration("startup_duration", logger.RoundMS(time.Since(startedAt))))

	telegram.Listen(ctx, bot, d)

	logger.L.With("component", "app").Info("shutting down...",
		slog.String("event", "shutdown"))
	return nil
}
