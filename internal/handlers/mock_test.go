package handlers

import (
	"context"
	"fmt"

	tele "gopkg.in/telebot.v4"

	"planbot/internal/messenger"
	"planbot/internal/storage"
)

// fakeStore is an in-memory Store that records mutating calls.
type fakeStore struct {
	users    map[int64]*storage.User
	tasks    map[int64]*storage.Task
	settings map[int64]storage.Settings
	filtered map[string][]storage.Task

	nextTaskID int64
	calls      []string

	failWith error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:      map[int64]*storage.User{},
		tasks:      map[int64]*storage.Task{},
		settings:   map[int64]storage.Settings{},
		filtered:   map[string][]storage.Task{},
		nextTaskID: 100,
	}
}

func (f *fakeStore) record(format string, args ...any) {
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
}

func (f *fakeStore) PersistUpdate(_ context.Context, _ []byte) error {
	f.record("persist_update")
	return f.failWith
}

func (f *fakeStore) EnsureUserExists(_ context.Context, telegramID int64) error {
	f.record("ensure_user_exists:%d", telegramID)
	if _, ok := f.users[telegramID]; !ok {
		f.users[telegramID] = &storage.User{TelegramID: telegramID}
	}
	if _, ok := f.settings[telegramID]; !ok {
		f.settings[telegramID] = storage.Settings{
			MorningDigestTime: storage.DefaultMorningTime,
			EveningReviewTime: storage.DefaultEveningTime,
		}
	}
	return f.failWith
}

func (f *fakeStore) GetUser(_ context.Context, telegramID int64) (*storage.User, error) {
	return f.users[telegramID], f.failWith
}

func (f *fakeStore) UpdateUserState(_ context.Context, telegramID int64, state storage.State) error {
	f.record("update_user_state:%d:%s", telegramID, state)
	u := f.users[telegramID]
	if u == nil {
		u = &storage.User{TelegramID: telegramID}
		f.users[telegramID] = u
	}
	u.State.String = string(state)
	u.State.Valid = state != storage.StateIdle
	return f.failWith
}

func (f *fakeStore) MergeUserData(_ context.Context, telegramID int64, data map[string]any) error {
	for k := range data {
		f.record("merge_user_data:%d:%s", telegramID, k)
	}
	return f.failWith
}

func (f *fakeStore) ClearUserStateAndData(_ context.Context, telegramID int64) error {
	f.record("clear:%d", telegramID)
	if u := f.users[telegramID]; u != nil {
		u.State.Valid = false
		u.DataJSON.Valid = false
	}
	return f.failWith
}

func (f *fakeStore) CreateTask(_ context.Context, telegramID int64, text string, date, tm *string) (int64, error) {
	f.nextTaskID++
	id := f.nextTaskID
	f.record("create_task:%d:%s", telegramID, text)
	f.tasks[id] = &storage.Task{
		ID:         id,
		TelegramID: telegramID,
		Text:       text,
		Date:       date,
		Time:       tm,
		Status:     storage.StatusActive,
	}
	return id, f.failWith
}

func (f *fakeStore) GetTaskByID(_ context.Context, taskID int64) (*storage.Task, error) {
	return f.tasks[taskID], f.failWith
}

func (f *fakeStore) TasksByFilter(_ context.Context, _ int64, filter string) ([]storage.Task, error) {
	return f.filtered[filter], f.failWith
}

func (f *fakeStore) UpdateTaskStatus(_ context.Context, taskID int64, status string) error {
	f.record("update_task_status:%d:%s", taskID, status)
	if t := f.tasks[taskID]; t != nil {
		t.Status = status
	}
	return f.failWith
}

func (f *fakeStore) UpdateTaskSchedule(_ context.Context, taskID int64, date, tm *string, status string) error {
	f.record("update_task_schedule:%d", taskID)
	if t := f.tasks[taskID]; t != nil {
		t.Date = date
		t.Time = tm
		t.Status = status
	}
	return f.failWith
}

func (f *fakeStore) GetUserSettings(_ context.Context, telegramID int64) (storage.Settings, error) {
	s, ok := f.settings[telegramID]
	if !ok {
		s = storage.Settings{
			MorningDigestTime: storage.DefaultMorningTime,
			EveningReviewTime: storage.DefaultEveningTime,
		}
	}
	return s, f.failWith
}

func (f *fakeStore) UpdateUserSettingTime(_ context.Context, telegramID int64, setting, newTime string) error {
	f.record("update_user_setting_time:%d:%s:%s", telegramID, setting, newTime)
	s := f.settings[telegramID]
	if setting == storage.SettingMorning {
		s.MorningDigestTime = newTime
	} else {
		s.EveningReviewTime = newTime
	}
	f.settings[telegramID] = s
	return f.failWith
}

func (f *fakeStore) DueTasks(_ context.Context, _, _ string) ([]storage.Task, error) {
	return nil, f.failWith
}

func (f *fakeStore) MarkTaskNotified(_ context.Context, taskID int64) error {
	f.record("mark_task_notified:%d", taskID)
	return f.failWith
}

func (f *fakeStore) UsersForDigest(_ context.Context, _, _ string) ([]int64, error) {
	return nil, f.failWith
}

func (f *fakeStore) ActiveTasksForDigest(_ context.Context, _ int64, _ string) ([]storage.Task, error) {
	return nil, f.failWith
}

func (f *fakeStore) TasksForDate(_ context.Context, _ int64, _ string) ([]storage.Task, error) {
	return nil, f.failWith
}

func (f *fakeStore) Close() error { return nil }

// sentMessage captures one outbound call on the fake messenger.
type sentMessage struct {
	op        string
	chatID    int64
	messageID int
	text      string
	markup    *tele.ReplyMarkup
	parseMode string
}

type fakeMessenger struct {
	sent      []sentMessage
	answered  []string
	deleted   []sentMessage
	failSends bool
}

func (f *fakeMessenger) SendMessage(chatID int64, text string, opts *messenger.SendOptions) error {
	m := sentMessage{op: "send", chatID: chatID, text: text}
	if opts != nil {
		m.markup = opts.ReplyMarkup
		m.parseMode = opts.ParseMode
	}
	f.sent = append(f.sent, m)
	if f.failSends {
		return fmt.Errorf("send failed")
	}
	return nil
}

func (f *fakeMessenger) EditMessageText(chatID int64, messageID int, text string, markup *tele.ReplyMarkup) error {
	f.sent = append(f.sent, sentMessage{op: "edit", chatID: chatID, messageID: messageID, text: text, markup: markup})
	return nil
}

func (f *fakeMessenger) EditMessageReplyMarkup(chatID int64, messageID int, markup *tele.ReplyMarkup) error {
	f.sent = append(f.sent, sentMessage{op: "edit_markup", chatID: chatID, messageID: messageID, markup: markup})
	return nil
}

func (f *fakeMessenger) DeleteMessage(chatID int64, messageID int) error {
	f.deleted = append(f.deleted, sentMessage{op: "delete", chatID: chatID, messageID: messageID})
	return nil
}

func (f *fakeMessenger) AnswerCallback(callbackID string) error {
	f.answered = append(f.answered, callbackID)
	return nil
}

func (f *fakeMessenger) Close() {}

// textMessage builds an inbound text update from user 1 in chat 10.
func textMessage(text string) tele.Update {
	return tele.Update{
		ID: 1,
		Message: &tele.Message{
			ID:     500,
			Sender: &tele.User{ID: 1},
			Chat:   &tele.Chat{ID: 10},
			Text:   text,
		},
	}
}

// callbackUpdate builds an inbound button press from user 1 in chat 10.
func callbackUpdate(data string) tele.Update {
	return tele.Update{
		ID: 2,
		Callback: &tele.Callback{
			ID:     "cb-1",
			Sender: &tele.User{ID: 1},
			Data:   data,
			Message: &tele.Message{
				ID:   600,
				Chat: &tele.Chat{ID: 10},
			},
		},
	}
}
