package handlers

import (
	"context"
	"fmt"

	tele "gopkg.in/telebot.v4"

	"planbot/internal/dispatch"
	"planbot/internal/messenger"
	"planbot/internal/storage"
	"planbot/internal/taskcard"
)

// taskGroups fixes the category order and headers of the task overview.
var taskGroups = []struct {
	header string
	filter string
}{
	{"📅 Задачи на Сегодня:", storage.FilterToday},
	{"➡️ Задачи на Завтра:", storage.FilterTomorrow},
	{"📝 Задачи без даты:", storage.FilterNoDate},
}

// ShowTasksCommand lists active tasks grouped by the three fixed categories.
type ShowTasksCommand struct {
	Store     storage.Store
	Messenger messenger.Messenger
}

func (h *ShowTasksCommand) Name() string { return "show_tasks_command" }

func (h *ShowTasksCommand) CanHandle(u tele.Update, state storage.State, _ map[string]any) bool {
	text, ok := messageText(u)
	return state == storage.StateIdle && ok && text == "📅 Мои задачи"
}

func (h *ShowTasksCommand) Handle(ctx context.Context, u tele.Update, _ storage.State, _ map[string]any) (dispatch.Signal, error) {
	userID := senderID(u)
	chat := chatID(u)

	if err := h.Store.ClearUserStateAndData(ctx, userID); err != nil {
		return dispatch.Stop, err
	}

	for _, group := range taskGroups {
		tasks, err := h.Store.TasksByFilter(ctx, userID, group.filter)
		if err != nil {
			return dispatch.Stop, err
		}

		if err := h.Messenger.SendMessage(chat, fmt.Sprintf("\n%s\n", group.header), nil); err != nil {
			return dispatch.Stop, err
		}

		if len(tasks) == 0 {
			if err := h.Messenger.SendMessage(chat, textEmptyGroupList, nil); err != nil {
				return dispatch.Stop, err
			}
			continue
		}

		for _, task := range tasks {
			err := h.Messenger.SendMessage(chat, taskcard.FormatText(task), &messenger.SendOptions{
				ReplyMarkup: taskcard.Markup(task.ID),
			})
			if err != nil {
				return dispatch.Stop, err
			}
		}
	}
	return dispatch.Stop, nil
}
