package handlers

import (
	"context"

	tele "gopkg.in/telebot.v4"

	"planbot/internal/dispatch"
	"planbot/internal/messenger"
	"planbot/internal/storage"
)

// HelpCommand replies with the static usage reference.
type HelpCommand struct {
	Messenger messenger.Messenger
}

func (h *HelpCommand) Name() string { return "help_command" }

func (h *HelpCommand) CanHandle(u tele.Update, state storage.State, _ map[string]any) bool {
	text, ok := messageText(u)
	return state == storage.StateIdle && ok && (text == "❓ Помощь" || text == "/help")
}

func (h *HelpCommand) Handle(_ context.Context, u tele.Update, _ storage.State, _ map[string]any) (dispatch.Signal, error) {
	err := h.Messenger.SendMessage(chatID(u), textHelp, &messenger.SendOptions{
		ParseMode: "Markdown",
	})
	return dispatch.Stop, err
}
