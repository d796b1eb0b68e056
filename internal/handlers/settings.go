package handlers

import (
	"context"
	"fmt"

	tele "gopkg.in/telebot.v4"

	"planbot/internal/dispatch"
	"planbot/internal/keyboards"
	"planbot/internal/messenger"
	"planbot/internal/storage"
)

// SettingsCommand shows the current digest times with buttons to change them.
type SettingsCommand struct {
	Store     storage.Store
	Messenger messenger.Messenger
}

func (h *SettingsCommand) Name() string { return "settings_command" }

func (h *SettingsCommand) CanHandle(u tele.Update, state storage.State, _ map[string]any) bool {
	text, ok := messageText(u)
	return state == storage.StateIdle && ok && (text == "⚙️ Настройки" || text == "/settings")
}

func (h *SettingsCommand) Handle(ctx context.Context, u tele.Update, _ storage.State, _ map[string]any) (dispatch.Signal, error) {
	settings, err := h.Store.GetUserSettings(ctx, senderID(u))
	if err != nil {
		return dispatch.Stop, err
	}

	text := fmt.Sprintf(
		"Здесь можно настроить уведомления.\n\n• Утренний дайджест: `%s`\n• Вечерний обзор: `%s`",
		settings.MorningDigestTime, settings.EveningReviewTime,
	)
	err = h.Messenger.SendMessage(chatID(u), text, &messenger.SendOptions{
		ReplyMarkup: keyboards.Settings(),
		ParseMode:   "Markdown",
	})
	return dispatch.Stop, err
}
