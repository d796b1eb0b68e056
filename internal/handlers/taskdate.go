package handlers

import (
	"context"
	"strings"
	"time"

	tele "gopkg.in/telebot.v4"

	"planbot/internal/dispatch"
	"planbot/internal/keyboards"
	"planbot/internal/messenger"
	"planbot/internal/storage"
)

// TaskDateCapture records the date button pressed in WAIT_TASK_DATE and asks
// for a time. "No date" stores a JSON null so the later steps see it as unset.
type TaskDateCapture struct {
	Store     storage.Store
	Messenger messenger.Messenger
}

func (h *TaskDateCapture) Name() string { return "task_date_capture" }

func (h *TaskDateCapture) CanHandle(u tele.Update, state storage.State, _ map[string]any) bool {
	data, ok := callbackData(u)
	return state == storage.StateWaitTaskDate && ok && strings.HasPrefix(data, "set_date_")
}

func (h *TaskDateCapture) Handle(ctx context.Context, u tele.Update, _ storage.State, _ map[string]any) (dispatch.Signal, error) {
	userID := senderID(u)
	data, _ := callbackData(u)

	if err := h.Messenger.AnswerCallback(u.Callback.ID); err != nil {
		return dispatch.Stop, err
	}

	now := time.Now()
	var date any
	switch data {
	case "set_date_today":
		date = now.Format("2006-01-02")
	case "set_date_tomorrow":
		date = now.AddDate(0, 0, 1).Format("2006-01-02")
	case "set_date_nodate":
		date = nil
	}

	if err := h.Store.MergeUserData(ctx, userID, map[string]any{"date": date}); err != nil {
		return dispatch.Stop, err
	}
	if err := h.Store.UpdateUserState(ctx, userID, storage.StateWaitTaskTime); err != nil {
		return dispatch.Stop, err
	}

	err := h.Messenger.EditMessageText(chatID(u), callbackMessageID(u), textAskTaskTime, keyboards.NoTime())
	return dispatch.Stop, err
}
