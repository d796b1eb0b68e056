package handlers

import (
	"context"
	"strings"

	tele "gopkg.in/telebot.v4"

	"planbot/internal/dispatch"
	"planbot/internal/messenger"
	"planbot/internal/storage"
	"planbot/internal/taskcard"
)

var filterTitles = map[string]string{
	storage.FilterToday:    "📅 Задачи на сегодня",
	storage.FilterTomorrow: "➡️ Задачи на завтра",
	storage.FilterNoDate:   "📝 Задачи без даты",
}

// ShowFilteredCallback renders a single task category when its inline filter
// button is pressed, reusing the triggering message as the header.
type ShowFilteredCallback struct {
	Store     storage.Store
	Messenger messenger.Messenger
}

func (h *ShowFilteredCallback) Name() string { return "show_filtered_callback" }

func (h *ShowFilteredCallback) CanHandle(u tele.Update, state storage.State, _ map[string]any) bool {
	data, ok := callbackData(u)
	return state == storage.StateIdle && ok && strings.HasPrefix(data, "show_")
}

func (h *ShowFilteredCallback) Handle(ctx context.Context, u tele.Update, _ storage.State, _ map[string]any) (dispatch.Signal, error) {
	userID := senderID(u)
	chat := chatID(u)
	data, _ := callbackData(u)

	if err := h.Messenger.AnswerCallback(u.Callback.ID); err != nil {
		return dispatch.Stop, err
	}

	tasks, err := h.Store.TasksByFilter(ctx, userID, data)
	if err != nil {
		return dispatch.Stop, err
	}

	title, ok := filterTitles[data]
	if !ok {
		title = "Задачи"
	}
	if err := h.Messenger.EditMessageText(chat, callbackMessageID(u), title+":", nil); err != nil {
		return dispatch.Stop, err
	}

	if len(tasks) == 0 {
		err := h.Messenger.SendMessage(chat, textEmptyFilterList, nil)
		return dispatch.Stop, err
	}

	for _, task := range tasks {
		err := h.Messenger.SendMessage(chat, taskcard.FormatText(task), &messenger.SendOptions{
			ReplyMarkup: taskcard.Markup(task.ID),
		})
		if err != nil {
			return dispatch.Stop, err
		}
	}
	return dispatch.Stop, nil
}
