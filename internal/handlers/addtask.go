package handlers

import (
	"context"

	tele "gopkg.in/telebot.v4"

	"planbot/internal/dispatch"
	"planbot/internal/keyboards"
	"planbot/internal/messenger"
	"planbot/internal/storage"
)

// AddTaskCommand starts the task-creation flow from the main menu.
type AddTaskCommand struct {
	Store     storage.Store
	Messenger messenger.Messenger
}

func (h *AddTaskCommand) Name() string { return "add_task_command" }

func (h *AddTaskCommand) CanHandle(u tele.Update, state storage.State, _ map[string]any) bool {
	text, ok := messageText(u)
	return state == storage.StateIdle && ok && text == "➕ Добавить задачу"
}

func (h *AddTaskCommand) Handle(ctx context.Context, u tele.Update, _ storage.State, _ map[string]any) (dispatch.Signal, error) {
	if err := h.Store.UpdateUserState(ctx, senderID(u), storage.StateWaitTaskName); err != nil {
		return dispatch.Stop, err
	}
	err := h.Messenger.SendMessage(chatID(u), textAskTaskName, &messenger.SendOptions{
		ReplyMarkup: keyboards.Remove(),
	})
	return dispatch.Stop, err
}
