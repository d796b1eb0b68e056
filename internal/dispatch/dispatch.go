// Package dispatch walks inbound updates through an ordered handler chain.
package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	tele "gopkg.in/telebot.v4"

	"log/slog"

	"planbot/internal/logger"
	"planbot/internal/storage"
)

// Signal tells the dispatcher whether to keep walking the chain after a
// handler ran.
type Signal int

const (
	// Stop ends the chain; the update is considered consumed.
	Stop Signal = iota
	// Continue passes the update to the next matching handler.
	Continue
)

// Handler is one link in the chain. CanHandle is a cheap predicate over the
// update and the user's conversation state; Handle performs the work.
type Handler interface {
	Name() string
	CanHandle(u tele.Update, state storage.State, scratch map[string]any) bool
	Handle(ctx context.Context, u tele.Update, state storage.State, scratch map[string]any) (Signal, error)
}

// Dispatcher resolves the sender's conversation state and runs the chain in
// registration order.
type Dispatcher struct {
	store    storage.Store
	handlers []Handler
}

func New(store storage.Store, handlers []Handler) *Dispatcher {
	return &Dispatcher{store: store, handlers: handlers}
}

// SenderID extracts the Telegram user id from either envelope of an update.
// It returns 0 when the update carries neither a message nor a callback.
func SenderID(u tele.Update) int64 {
	if u.Message != nil && u.Message.Sender != nil {
		return u.Message.Sender.ID
	}
	if u.Callback != nil && u.Callback.Sender != nil {
		return u.Callback.Sender.ID
	}
	return 0
}

// Dispatch runs one update through the chain.
func (d *Dispatcher) Dispatch(ctx context.Context, u tele.Update) error {
	start := time.Now()
	userID := SenderID(u)

	// Sender-less updates (channel posts, polls) still walk the chain so
	// identity-free handlers such as the audit log see them. Handlers that
	// need a sender filter themselves out via CanHandle.
	state := storage.StateIdle
	scratch := map[string]any{}
	if userID != 0 {
		user, err := d.store.GetUser(ctx, userID)
		if err != nil {
			return fmt.Errorf("load user: %w", err)
		}
		state = user.CurrentState()

		if user != nil && user.DataJSON.Valid && user.DataJSON.String != "" {
			if err := json.Unmarshal([]byte(user.DataJSON.String), &scratch); err != nil {
				return fmt.Errorf("decode scratch data: %w", err)
			}
		}
	}

	for _, h := range d.handlers {
		if !h.CanHandle(u, state, scratch) {
			continue
		}
		sig, err := h.Handle(ctx, u, state, scratch)
		if err != nil {
			return fmt.Errorf("handler %s: %w", h.Name(), err)
		}
		if sig == Stop {
			logger.L.Debug("update consumed",
				slog.String("event", "dispatch.stop"),
				slog.Int("update_id", u.ID),
				slog.Int64("user_id", userID),
				slog.String("handler", h.Name()),
				slog.String("state", string(state)),
				slog.Duration("duration", logger.Took(start)))
			return nil
		}
	}

	logger.L.Debug("update fell through the chain",
		slog.String("event", "dispatch.fallthrough"),
		slog.Int("update_id", u.ID),
		slog.Int64("user_id", userID),
		slog.String("state", string(state)),
		slog.Duration("duration", logger.Took(start)))
	return nil
}
