package handlers

import (
	"context"

	tele "gopkg.in/telebot.v4"

	"planbot/internal/dispatch"
	"planbot/internal/keyboards"
	"planbot/internal/messenger"
	"planbot/internal/storage"
)

// StartCommand resets the conversation from any state and shows the main
// menu. It is the user's escape hatch out of a stuck flow.
type StartCommand struct {
	Store     storage.Store
	Messenger messenger.Messenger
}

func (h *StartCommand) Name() string { return "start_command" }

func (h *StartCommand) CanHandle(u tele.Update, _ storage.State, _ map[string]any) bool {
	text, ok := messageText(u)
	return ok && text == "/start"
}

func (h *StartCommand) Handle(ctx context.Context, u tele.Update, _ storage.State, _ map[string]any) (dispatch.Signal, error) {
	if err := h.Store.ClearUserStateAndData(ctx, senderID(u)); err != nil {
		return dispatch.Stop, err
	}
	err := h.Messenger.SendMessage(chatID(u), textStartGreeting, &messenger.SendOptions{
		ReplyMarkup: keyboards.MainMenu(),
	})
	return dispatch.Stop, err
}
