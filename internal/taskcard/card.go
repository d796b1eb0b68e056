// Package taskcard renders a task as a chat message with its action buttons.
package taskcard

import (
	"fmt"
	"strconv"

	tele "gopkg.in/telebot.v4"

	"planbot/internal/storage"
)

// ReminderPrefix is prepended to a card when it is sent as a due reminder.
const ReminderPrefix = "⏰ НАПОМИНАНИЕ!\n"

// FormatText renders the one-line card body: a time tag, the task text and a
// status marker for finished tasks.
func FormatText(t storage.Task) string {
	timeTag := "[Без времени]"
	if t.Time != nil {
		timeTag = "[" + *t.Time + "]"
	}
	text := fmt.Sprintf("%s %s", timeTag, t.Text)
	switch t.Status {
	case storage.StatusDone:
		text = "✅ [ВЫПОЛНЕНО] " + text
	case storage.StatusCanceled:
		text = "❌ [ОТМЕНЕНО] " + text
	}
	return text
}

// Markup returns the done/postpone/cancel button row for an active task card.
func Markup(taskID int64) *tele.ReplyMarkup {
	id := strconv.FormatInt(taskID, 10)
	return &tele.ReplyMarkup{
		InlineKeyboard: [][]tele.InlineButton{{
			{Text: "✅ Выполнить", Data: "task_done:" + id},
			{Text: "🕑 Отложить", Data: "task_postpone:" + id},
			{Text: "❌ Отменить", Data: "task_cancel:" + id},
		}},
	}
}

// EmptyMarkup is the markup used when stripping buttons off a finished card.
func EmptyMarkup() *tele.ReplyMarkup {
	return &tele.ReplyMarkup{InlineKeyboard: [][]tele.InlineButton{}}
}
