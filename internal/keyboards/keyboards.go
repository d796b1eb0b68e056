// Package keyboards builds the bot's reply and inline keyboards.
package keyboards

import tele "gopkg.in/telebot.v4"

// MainMenu is the persistent reply keyboard shown after /start and whenever a
// flow finishes.
func MainMenu() *tele.ReplyMarkup {
	return &tele.ReplyMarkup{
		ResizeKeyboard: true,
		ReplyKeyboard: [][]tele.ReplyButton{
			{{Text: "➕ Добавить задачу"}},
			{{Text: "📅 Мои задачи"}, {Text: "⚙️ Настройки"}},
			{{Text: "❓ Помощь"}},
		},
	}
}

// Remove hides the reply keyboard while the user is inside a text flow.
func Remove() *tele.ReplyMarkup {
	return &tele.ReplyMarkup{RemoveKeyboard: true}
}

// Settings offers the two digest-time settings.
func Settings() *tele.ReplyMarkup {
	return &tele.ReplyMarkup{
		InlineKeyboard: [][]tele.InlineButton{
			{{Text: "☀️ Изменить утро", Data: "set_morning"}},
			{{Text: "🌙 Изменить вечер", Data: "set_evening"}},
		},
	}
}

// TaskDate offers the date choices while adding a task.
func TaskDate() *tele.ReplyMarkup {
	return &tele.ReplyMarkup{
		InlineKeyboard: [][]tele.InlineButton{
			{{Text: "Сегодня", Data: "set_date_today"}},
			{{Text: "Завтра", Data: "set_date_tomorrow"}},
			{{Text: "Без даты", Data: "set_date_nodate"}},
		},
	}
}

// NoTime offers skipping the time while adding a task.
func NoTime() *tele.ReplyMarkup {
	return &tele.ReplyMarkup{
		InlineKeyboard: [][]tele.InlineButton{
			{{Text: "⏰ Без времени", Data: "set_time_notime"}},
		},
	}
}

// Postpone offers the quick postpone intervals for a task.
func Postpone() *tele.ReplyMarkup {
	return &tele.ReplyMarkup{
		InlineKeyboard: [][]tele.InlineButton{
			{
				{Text: "На 1 час", Data: "postpone:1h"},
				{Text: "На 3 часа", Data: "postpone:3h"},
			},
			{
				{Text: "На Завтра", Data: "postpone:tomorrow"},
				{Text: "На 1 день", Data: "postpone:1d"},
			},
		},
	}
}
