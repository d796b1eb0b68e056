package handlers

import (
	"context"

	tele "gopkg.in/telebot.v4"

	"planbot/internal/dispatch"
	"planbot/internal/keyboards"
	"planbot/internal/messenger"
	"planbot/internal/storage"
	"planbot/internal/taskcard"
)

// TaskNoTimeCapture finishes the creation flow when the user skips the time
// with the inline button.
type TaskNoTimeCapture struct {
	Store     storage.Store
	Messenger messenger.Messenger
}

func (h *TaskNoTimeCapture) Name() string { return "task_no_time_capture" }

func (h *TaskNoTimeCapture) CanHandle(u tele.Update, state storage.State, _ map[string]any) bool {
	data, ok := callbackData(u)
	return state == storage.StateWaitTaskTime && ok && data == "set_time_notime"
}

func (h *TaskNoTimeCapture) Handle(ctx context.Context, u tele.Update, _ storage.State, scratch map[string]any) (dispatch.Signal, error) {
	userID := senderID(u)
	chat := chatID(u)

	if err := h.Messenger.AnswerCallback(u.Callback.ID); err != nil {
		return dispatch.Stop, err
	}

	text, _ := scratchString(scratch, "text")
	var date *string
	if d, ok := scratchString(scratch, "date"); ok {
		date = &d
	}

	taskID, err := h.Store.CreateTask(ctx, userID, text, date, nil)
	if err != nil {
		return dispatch.Stop, err
	}
	if err := h.Store.ClearUserStateAndData(ctx, userID); err != nil {
		return dispatch.Stop, err
	}

	if err := h.Messenger.EditMessageText(chat, callbackMessageID(u), textTaskCreatedNoTime, nil); err != nil {
		return dispatch.Stop, err
	}
	if err := h.Messenger.SendMessage(chat, textBackToMainMenu, &messenger.SendOptions{
		ReplyMarkup: keyboards.MainMenu(),
	}); err != nil {
		return dispatch.Stop, err
	}

	card := storage.Task{
		ID:     taskID,
		Text:   text,
		Date:   date,
		Status: storage.StatusActive,
	}
	err = h.Messenger.SendMessage(chat, taskcard.FormatText(card), &messenger.SendOptions{
		ReplyMarkup: taskcard.Markup(taskID),
	})
	return dispatch.Stop, err
}
