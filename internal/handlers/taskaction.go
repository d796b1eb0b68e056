package handlers

import (
	"context"
	"strconv"
	"strings"

	tele "gopkg.in/telebot.v4"

	"planbot/internal/dispatch"
	"planbot/internal/keyboards"
	"planbot/internal/messenger"
	"planbot/internal/storage"
	"planbot/internal/taskcard"
)

// TaskActionCallback reacts to the buttons on a task card: done and cancel
// finish the task in place, postpone hands off to the postpone flow.
type TaskActionCallback struct {
	Store     storage.Store
	Messenger messenger.Messenger
}

func (h *TaskActionCallback) Name() string { return "task_action_callback" }

func (h *TaskActionCallback) CanHandle(u tele.Update, state storage.State, _ map[string]any) bool {
	data, ok := callbackData(u)
	return state == storage.StateIdle && ok && strings.HasPrefix(data, "task_")
}

func (h *TaskActionCallback) Handle(ctx context.Context, u tele.Update, _ storage.State, _ map[string]any) (dispatch.Signal, error) {
	userID := senderID(u)
	chat := chatID(u)
	messageID := callbackMessageID(u)
	data, _ := callbackData(u)

	if err := h.Messenger.AnswerCallback(u.Callback.ID); err != nil {
		return dispatch.Stop, err
	}

	action, idText, found := strings.Cut(data, ":")
	if !found {
		return dispatch.Stop, nil
	}
	taskID, err := strconv.ParseInt(idText, 10, 64)
	if err != nil {
		return dispatch.Stop, nil
	}

	if action == "task_postpone" {
		if err := h.Store.MergeUserData(ctx, userID, map[string]any{"postpone_task_id": taskID}); err != nil {
			return dispatch.Stop, err
		}
		if err := h.Store.UpdateUserState(ctx, userID, storage.StateWaitPostpone); err != nil {
			return dispatch.Stop, err
		}
		if err := h.Messenger.DeleteMessage(chat, messageID); err != nil {
			return dispatch.Stop, err
		}
		err := h.Messenger.SendMessage(chat, textAskPostpone, &messenger.SendOptions{
			ReplyMarkup: keyboards.Postpone(),
		})
		return dispatch.Stop, err
	}

	newStatus := storage.StatusCanceled
	if action == "task_done" {
		newStatus = storage.StatusDone
	}
	if err := h.Store.UpdateTaskStatus(ctx, taskID, newStatus); err != nil {
		return dispatch.Stop, err
	}

	task, err := h.Store.GetTaskByID(ctx, taskID)
	if err != nil {
		return dispatch.Stop, err
	}
	if task == nil {
		return dispatch.Stop, nil
	}
	err = h.Messenger.EditMessageText(chat, messageID, taskcard.FormatText(*task), taskcard.EmptyMarkup())
	return dispatch.Stop, err
}
