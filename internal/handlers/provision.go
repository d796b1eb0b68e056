package handlers

import (
	"context"

	tele "gopkg.in/telebot.v4"

	"planbot/internal/dispatch"
	"planbot/internal/storage"
)

// UserProvisioner creates the user and settings rows for any update that
// carries a sender, then passes the update down the chain. Creation is
// idempotent, so every update may run through it.
type UserProvisioner struct {
	Store storage.Store
}

func (h *UserProvisioner) Name() string { return "user_provisioner" }

func (h *UserProvisioner) CanHandle(u tele.Update, _ storage.State, _ map[string]any) bool {
	return senderID(u) != 0
}

func (h *UserProvisioner) Handle(ctx context.Context, u tele.Update, _ storage.State, _ map[string]any) (dispatch.Signal, error) {
	if err := h.Store.EnsureUserExists(ctx, senderID(u)); err != nil {
		return dispatch.Continue, err
	}
	return dispatch.Continue, nil
}
