// Package messenger wraps the Telegram Bot API for outbound traffic.
package messenger

import (
	"strconv"
	"time"

	tele "gopkg.in/telebot.v4"

	"log/slog"

	"planbot/internal/logger"
)

// SendOptions carries the optional parts of an outbound message.
type SendOptions struct {
	ReplyMarkup *tele.ReplyMarkup
	ParseMode   string
}

// Messenger is the outbound capability set consumed by handlers and the
// notifier. Every call maps to a single Bot API request.
type Messenger interface {
	SendMessage(chatID int64, text string, opts *SendOptions) error
	EditMessageText(chatID int64, messageID int, text string, markup *tele.ReplyMarkup) error
	EditMessageReplyMarkup(chatID int64, messageID int, markup *tele.ReplyMarkup) error
	DeleteMessage(chatID int64, messageID int) error
	AnswerCallback(callbackID string) error
	Close()
}

// Telebot implements Messenger over a telebot connection.
type Telebot struct {
	bot *tele.Bot
}

// NewTelebot wraps an initialized telebot instance.
func NewTelebot(bot *tele.Bot) *Telebot {
	return &Telebot{bot: bot}
}

func (t *Telebot) logCall(op string, chatID int64, start time.Time, err error) {
	attrs := []any{
		slog.String("event", "tg."+op),
		slog.Int64("chat_id", chatID),
		slog.Duration("duration", logger.Took(start)),
	}
	if err != nil {
		attrs = append(attrs, slog.String("err", err.Error()))
		logger.TG.Error(op+" failed", attrs...)
		return
	}
	logger.TG.Debug(op, attrs...)
}

func stored(chatID int64, messageID int) tele.StoredMessage {
	return tele.StoredMessage{MessageID: strconv.Itoa(messageID), ChatID: chatID}
}

func (t *Telebot) SendMessage(chatID int64, text string, opts *SendOptions) error {
	start := time.Now()
	sendOpts := &tele.SendOptions{}
	if opts != nil {
		sendOpts.ReplyMarkup = opts.ReplyMarkup
		sendOpts.ParseMode = tele.ParseMode(opts.ParseMode)
	}
	_, err := t.bot.Send(tele.ChatID(chatID), text, sendOpts)
	t.logCall("send_message", chatID, start, err)
	return err
}

func (t *Telebot) EditMessageText(chatID int64, messageID int, text string, markup *tele.ReplyMarkup) error {
	start := time.Now()
	_, err := t.bot.Edit(stored(chatID, messageID), text, &tele.SendOptions{ReplyMarkup: markup})
	t.logCall("edit_message_text", chatID, start, err)
	return err
}

func (t *Telebot) EditMessageReplyMarkup(chatID int64, messageID int, markup *tele.ReplyMarkup) error {
	start := time.Now()
	_, err := t.bot.EditReplyMarkup(stored(chatID, messageID), markup)
	t.logCall("edit_message_reply_markup", chatID, start, err)
	return err
}

func (t *Telebot) DeleteMessage(chatID int64, messageID int) error {
	start := time.Now()
	err := t.bot.Delete(stored(chatID, messageID))
	t.logCall("delete_message", chatID, start, err)
	return err
}

func (t *Telebot) AnswerCallback(callbackID string) error {
	start := time.Now()
	err := t.bot.Respond(&tele.Callback{ID: callbackID})
	t.logCall("answer_callback", 0, start, err)
	return err
}

// Close is part of the Messenger contract. The poller is driven and stopped
// by the ingestion loop, so there is nothing to tear down here.
func (t *Telebot) Close() {}
