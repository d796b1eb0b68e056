package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	tele "gopkg.in/telebot.v4"

	"planbot/internal/dispatch"
	"planbot/internal/keyboards"
	"planbot/internal/messenger"
	"planbot/internal/storage"
	"planbot/internal/taskcard"
	"planbot/internal/timeparse"
)

// PostponeCapture reschedules the stashed task while in WAIT_POSTPONE_TIME.
// It claims every update in that state so nothing else can interleave with
// the flow. A missing task id in scratch means the flow got corrupted; the
// state is cleared and the update swallowed.
type PostponeCapture struct {
	Store     storage.Store
	Messenger messenger.Messenger
}

func (h *PostponeCapture) Name() string { return "postpone_capture" }

func (h *PostponeCapture) CanHandle(_ tele.Update, state storage.State, _ map[string]any) bool {
	return state == storage.StateWaitPostpone
}

func (h *PostponeCapture) Handle(ctx context.Context, u tele.Update, _ storage.State, scratch map[string]any) (dispatch.Signal, error) {
	userID := senderID(u)
	chat := chatID(u)

	taskID, ok := scratchInt64(scratch, "postpone_task_id")
	if !ok || taskID == 0 {
		if userID != 0 {
			if err := h.Store.ClearUserStateAndData(ctx, userID); err != nil {
				return dispatch.Stop, err
			}
		}
		return dispatch.Stop, nil
	}

	now := time.Now()
	var newDate, newTime string

	if text, isMsg := messageText(u); isMsg {
		normalized, ok := timeparse.Normalize(strings.TrimSpace(text))
		if !ok {
			err := h.Messenger.SendMessage(chat, textBadSettingTime, nil)
			return dispatch.Stop, err
		}
		newDate = now.Format("2006-01-02")
		newTime = normalized
	} else if data, isCb := callbackData(u); isCb {
		if !strings.HasPrefix(data, "postpone:") {
			return dispatch.Stop, nil
		}
		var at time.Time
		switch strings.TrimPrefix(data, "postpone:") {
		case "1h":
			at = now.Add(time.Hour)
		case "3h":
			at = now.Add(3 * time.Hour)
		case "tomorrow", "1d":
			at = now.AddDate(0, 0, 1)
		default:
			return dispatch.Stop, nil
		}
		newDate = at.Format("2006-01-02")
		newTime = at.Format("15:04")
	} else {
		return dispatch.Stop, nil
	}

	if userID == 0 || newDate == "" {
		return dispatch.Stop, nil
	}

	if err := h.Store.UpdateTaskSchedule(ctx, taskID, &newDate, &newTime, storage.StatusActive); err != nil {
		return dispatch.Stop, err
	}
	if err := h.Store.ClearUserStateAndData(ctx, userID); err != nil {
		return dispatch.Stop, err
	}

	timeDisplay := newTime
	if timeDisplay == "" {
		timeDisplay = "любое время"
	}
	response := fmt.Sprintf("✅ Задача успешно отложена на %s в %s.", newDate, timeDisplay)

	if task, err := h.Store.GetTaskByID(ctx, taskID); err != nil {
		return dispatch.Stop, err
	} else if task != nil {
		response += fmt.Sprintf("\n\nОтложенная задача:\n%s", taskcard.FormatText(*task))
	}

	err := h.Messenger.SendMessage(chat, response, &messenger.SendOptions{
		ReplyMarkup: keyboards.MainMenu(),
	})
	return dispatch.Stop, err
}
