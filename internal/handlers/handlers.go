// Package handlers contains the bot's handler chain: cross-cutting handlers,
// menu commands, conversation-state captures and inline-button callbacks.
package handlers

import (
	tele "gopkg.in/telebot.v4"

	"planbot/internal/dispatch"
	"planbot/internal/messenger"
	"planbot/internal/storage"
)

// Chain returns the full handler chain in dispatch order. Cross-cutting
// handlers go first and pass the update on; state captures run before menu
// commands so an in-flight flow wins over button labels typed as text.
func Chain(store storage.Store, m messenger.Messenger) []dispatch.Handler {
	return []dispatch.Handler{
		&AuditLogger{Store: store},
		&UserProvisioner{Store: store},
		&StartCommand{Store: store, Messenger: m},
		&PostponeCapture{Store: store, Messenger: m},
		&TaskNameCapture{Store: store, Messenger: m},
		&TaskDateCapture{Store: store, Messenger: m},
		&TaskTimeCapture{Store: store, Messenger: m},
		&TaskNoTimeCapture{Store: store, Messenger: m},
		&SettingsTimeCapture{Store: store, Messenger: m},
		&AddTaskCommand{Store: store, Messenger: m},
		&ShowTasksCommand{Store: store, Messenger: m},
		&SettingsCommand{Store: store, Messenger: m},
		&HelpCommand{Messenger: m},
		&SettingsCallback{Store: store, Messenger: m},
		&ShowFilteredCallback{Store: store, Messenger: m},
		&TaskActionCallback{Store: store, Messenger: m},
	}
}

// messageText returns the text of the update's message, if it carries one.
func messageText(u tele.Update) (string, bool) {
	if u.Message == nil || u.Message.Text == "" {
		return "", false
	}
	return u.Message.Text, true
}

// callbackData returns the raw payload of the update's callback, if any.
func callbackData(u tele.Update) (string, bool) {
	if u.Callback == nil {
		return "", false
	}
	return u.Callback.Data, true
}

// senderID returns the Telegram user id from either envelope.
func senderID(u tele.Update) int64 {
	return dispatch.SenderID(u)
}

// chatID returns the chat the reply should go to, 0 when unknown.
func chatID(u tele.Update) int64 {
	if u.Message != nil && u.Message.Chat != nil {
		return u.Message.Chat.ID
	}
	if u.Callback != nil && u.Callback.Message != nil && u.Callback.Message.Chat != nil {
		return u.Callback.Message.Chat.ID
	}
	return 0
}

// callbackMessageID returns the id of the message the pressed button sits on.
func callbackMessageID(u tele.Update) int {
	if u.Callback != nil && u.Callback.Message != nil {
		return u.Callback.Message.ID
	}
	return 0
}

// scratchString reads a string value out of the scratch data, tolerating
// absent keys and JSON nulls.
func scratchString(scratch map[string]any, key string) (string, bool) {
	v, ok := scratch[key].(string)
	return v, ok
}

// scratchInt64 reads an integer value out of the scratch data. JSON numbers
// decode as float64, so both forms are accepted.
func scratchInt64(scratch map[string]any, key string) (int64, bool) {
	switch v := scratch[key].(type) {
	case float64:
		return int64(v), true
	case int64:
		return v, true
	case int:
		return int64(v), true
	}
	return 0, false
}
