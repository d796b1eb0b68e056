package handlers

import (
	"context"
	"encoding/json"
	"fmt"

	tele "gopkg.in/telebot.v4"

	"planbot/internal/dispatch"
	"planbot/internal/storage"
)

// AuditLogger persists every inbound update verbatim before anything else
// touches it, then passes the update down the chain.
type AuditLogger struct {
	Store storage.Store
}

func (h *AuditLogger) Name() string { return "audit_logger" }

func (h *AuditLogger) CanHandle(tele.Update, storage.State, map[string]any) bool {
	return true
}

func (h *AuditLogger) Handle(ctx context.Context, u tele.Update, _ storage.State, _ map[string]any) (dispatch.Signal, error) {
	payload, err := json.Marshal(u)
	if err != nil {
		return dispatch.Continue, fmt.Errorf("encode update: %w", err)
	}
	if err := h.Store.PersistUpdate(ctx, payload); err != nil {
		return dispatch.Continue, err
	}
	return dispatch.Continue, nil
}
