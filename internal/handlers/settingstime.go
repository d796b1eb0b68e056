package handlers

import (
	"context"
	"fmt"

	tele "gopkg.in/telebot.v4"

	"planbot/internal/dispatch"
	"planbot/internal/keyboards"
	"planbot/internal/messenger"
	"planbot/internal/storage"
	"planbot/internal/timeparse"
)

// SettingsTimeCapture stores a new digest time typed while in one of the two
// settings states.
type SettingsTimeCapture struct {
	Store     storage.Store
	Messenger messenger.Messenger
}

func (h *SettingsTimeCapture) Name() string { return "settings_time_capture" }

func (h *SettingsTimeCapture) CanHandle(u tele.Update, state storage.State, _ map[string]any) bool {
	_, ok := messageText(u)
	return ok && (state == storage.StateWaitSettingAM || state == storage.StateWaitSettingPM)
}

func (h *SettingsTimeCapture) Handle(ctx context.Context, u tele.Update, state storage.State, _ map[string]any) (dispatch.Signal, error) {
	userID := senderID(u)
	chat := chatID(u)
	input, _ := messageText(u)

	normalized, ok := timeparse.Normalize(input)
	if !ok {
		err := h.Messenger.SendMessage(chat, textBadSettingTime, nil)
		return dispatch.Stop, err
	}

	setting := storage.SettingMorning
	settingName := "утреннего дайджеста"
	if state == storage.StateWaitSettingPM {
		setting = storage.SettingEvening
		settingName = "вечернего обзора"
	}

	if err := h.Store.UpdateUserSettingTime(ctx, userID, setting, normalized); err != nil {
		return dispatch.Stop, err
	}
	if err := h.Store.ClearUserStateAndData(ctx, userID); err != nil {
		return dispatch.Stop, err
	}

	text := fmt.Sprintf("✅ Готово! Время для %s обновлено на %s.", settingName, normalized)
	err := h.Messenger.SendMessage(chat, text, &messenger.SendOptions{
		ReplyMarkup: keyboards.MainMenu(),
	})
	return dispatch.Stop, err
}
