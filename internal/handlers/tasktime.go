package handlers

import (
	"context"

	tele "gopkg.in/telebot.v4"

	"planbot/internal/dispatch"
	"planbot/internal/keyboards"
	"planbot/internal/messenger"
	"planbot/internal/storage"
	"planbot/internal/taskcard"
	"planbot/internal/timeparse"
)

// TaskTimeCapture finishes the creation flow from free text typed in
// WAIT_TASK_TIME. Unparsable input re-prompts without leaving the state.
type TaskTimeCapture struct {
	Store     storage.Store
	Messenger messenger.Messenger
}

func (h *TaskTimeCapture) Name() string { return "task_time_capture" }

func (h *TaskTimeCapture) CanHandle(u tele.Update, state storage.State, _ map[string]any) bool {
	_, ok := messageText(u)
	return state == storage.StateWaitTaskTime && ok
}

func (h *TaskTimeCapture) Handle(ctx context.Context, u tele.Update, _ storage.State, scratch map[string]any) (dispatch.Signal, error) {
	userID := senderID(u)
	chat := chatID(u)
	input, _ := messageText(u)

	normalized, ok := timeparse.Normalize(input)
	if !ok {
		err := h.Messenger.SendMessage(chat, textBadTaskTime, nil)
		return dispatch.Stop, err
	}

	text, _ := scratchString(scratch, "text")
	var date *string
	if d, ok := scratchString(scratch, "date"); ok {
		date = &d
	}

	taskID, err := h.Store.CreateTask(ctx, userID, text, date, &normalized)
	if err != nil {
		return dispatch.Stop, err
	}
	if err := h.Store.ClearUserStateAndData(ctx, userID); err != nil {
		return dispatch.Stop, err
	}

	if err := h.Messenger.SendMessage(chat, textTaskCreated, &messenger.SendOptions{
		ReplyMarkup: keyboards.MainMenu(),
	}); err != nil {
		return dispatch.Stop, err
	}

	card := storage.Task{
		ID:     taskID,
		Text:   text,
		Date:   date,
		Time:   &normalized,
		Status: storage.StatusActive,
	}
	err = h.Messenger.SendMessage(chat, taskcard.FormatText(card), &messenger.SendOptions{
		ReplyMarkup: taskcard.Markup(taskID),
	})
	return dispatch.Stop, err
}
