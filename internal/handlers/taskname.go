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

// TaskNameCapture stores the task text typed in WAIT_TASK_NAME and moves the
// flow on to the date choice.
type TaskNameCapture struct {
	Store     storage.Store
	Messenger messenger.Messenger
}

func (h *TaskNameCapture) Name() string { return "task_name_capture" }

func (h *TaskNameCapture) CanHandle(u tele.Update, state storage.State, _ map[string]any) bool {
	_, ok := messageText(u)
	return state == storage.StateWaitTaskName && ok
}

func (h *TaskNameCapture) Handle(ctx context.Context, u tele.Update, _ storage.State, _ map[string]any) (dispatch.Signal, error) {
	userID := senderID(u)
	text, _ := messageText(u)

	if err := h.Store.MergeUserData(ctx, userID, map[string]any{"text": text}); err != nil {
		return dispatch.Stop, err
	}
	if err := h.Store.UpdateUserState(ctx, userID, storage.StateWaitTaskDate); err != nil {
		return dispatch.Stop, err
	}

	prompt := fmt.Sprintf("Отлично! Задача: '%s'. \nНа какой день?", text)
	err := h.Messenger.SendMessage(chatID(u), prompt, &messenger.SendOptions{
		ReplyMarkup: keyboards.TaskDate(),
	})
	return dispatch.Stop, err
}
