package handlers

import (
	"context"
	"strings"

	tele "gopkg.in/telebot.v4"

	"planbot/internal/dispatch"
	"planbot/internal/messenger"
	"planbot/internal/storage"
)

// SettingsCallback reacts to the settings menu buttons and puts the user into
// the matching time-entry state.
type SettingsCallback struct {
	Store     storage.Store
	Messenger messenger.Messenger
}

func (h *SettingsCallback) Name() string { return "settings_callback" }

func (h *SettingsCallback) CanHandle(u tele.Update, state storage.State, _ map[string]any) bool {
	data, ok := callbackData(u)
	return state == storage.StateIdle && ok &&
		strings.HasPrefix(data, "set_") &&
		!strings.HasPrefix(data, "set_date_") &&
		data != "set_time_notime"
}

func (h *SettingsCallback) Handle(ctx context.Context, u tele.Update, _ storage.State, _ map[string]any) (dispatch.Signal, error) {
	userID := senderID(u)
	chat := chatID(u)
	data, _ := callbackData(u)

	if err := h.Messenger.AnswerCallback(u.Callback.ID); err != nil {
		return dispatch.Stop, err
	}

	var (
		next     storage.State
		picked   string
		askInput string
	)
	switch data {
	case "set_morning":
		next, picked, askInput = storage.StateWaitSettingAM, textPickedMorning, textAskMorningTime
	case "set_evening":
		next, picked, askInput = storage.StateWaitSettingPM, textPickedEvening, textAskEveningTime
	default:
		return dispatch.Stop, nil
	}

	if err := h.Store.UpdateUserState(ctx, userID, next); err != nil {
		return dispatch.Stop, err
	}
	if err := h.Messenger.EditMessageText(chat, callbackMessageID(u), picked, nil); err != nil {
		return dispatch.Stop, err
	}
	err := h.Messenger.SendMessage(chat, askInput, nil)
	return dispatch.Stop, err
}
