// Package telegram owns the bot connection and the inbound update loop.
package telegram

import (
	"context"
	"fmt"
	"time"

	tele "gopkg.in/telebot.v4"

	"log/slog"

	"planbot/internal/config"
	"planbot/internal/dispatch"
	"planbot/internal/logger"
)

const updateQueueSize = 100

// NewBot builds the telebot connection with a long poller. The poller is
// driven manually by Listen, telebot's own routing stays unused.
func NewBot(cfg *config.Config) (*tele.Bot, error) {
	timeoutSec := cfg.Telegram.LongPollTimeoutSeconds
	if timeoutSec <= 0 {
		timeoutSec = 10
	}

	buildStart := time.Now()
	bot, err := tele.NewBot(tele.Settings{
		Token:  cfg.Telegram.Token,
		Poller: &tele.LongPoller{Timeout: time.Duration(timeoutSec) * time.Second},
	})
	if err != nil {
		return nil, fmt.Errorf("telegram: bot initialization failed: %w", err)
	}

	logger.TG.Info("polling mode",
		slog.String("event", "mode"),
		slog.String("mode", "polling"),
		slog.Int("timeout_seconds", timeoutSec),
		slog.Duration("duration", logger.RoundMS(time.Since(buildStart))))
	return bot, nil
}

// Listen pulls updates from the long poller and feeds them to the dispatcher
// until the context is canceled. A failing update is logged and skipped, the
// loop never dies because of one bad update.
func Listen(ctx context.Context, bot *tele.Bot, d *dispatch.Dispatcher) {
	updates := make(chan tele.Update, updateQueueSize)
	stop := make(chan struct{})
	go bot.Poller.Poll(bot, updates, stop)

	logger.TG.Info("update loop started", slog.String("event", "listen"))

	for {
		select {
		case <-ctx.Done():
			close(stop)
			logger.TG.Info("update loop stopped", slog.String("event", "listen"))
			return
		case u := <-updates:
			handleUpdate(ctx, d, u)
		}
	}
}

func handleUpdate(ctx context.Context, d *dispatch.Dispatcher, u tele.Update) {
	defer func() {
		if r := recover(); r != nil {
			logger.TG.Error("panic while handling update",
				slog.String("event", "dispatch"),
				slog.Int("update_id", u.ID),
				slog.String("err", fmt.Sprint(r)))
		}
	}()

	if err := d.Dispatch(ctx, u); err != nil {
		logger.TG.Error("dispatch failed",
			slog.String("event", "dispatch"),
			slog.Int("update_id", u.ID),
			slog.String("err", err.Error()))
	}
}
