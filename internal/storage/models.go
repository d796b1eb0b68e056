package storage

import (
	"database/sql"
	"time"
)

// State identifies a conversation step persisted on the user row.
// The empty value means idle (stored as SQL NULL).
type State string

const (
	StateIdle          State = ""
	StateWaitTaskName  State = "WAIT_TASK_NAME"
	StateWaitTaskDate  State = "WAIT_TASK_DATE"
	StateWaitTaskTime  State = "WAIT_TASK_TIME"
	StateWaitSettingAM State = "WAIT_SETTING_MORNING"
	StateWaitSettingPM State = "WAIT_SETTING_EVENING"
	StateWaitPostpone  State = "WAIT_POSTPONE_TIME"
)

// Task status values.
const (
	StatusActive   = "active"
	StatusDone     = "done"
	StatusCanceled = "canceled"
)

// Task list filters. The values double as callback payloads on the wire.
const (
	FilterToday    = "show_today"
	FilterTomorrow = "show_tomorrow"
	FilterNoDate   = "show_nodate"
)

// Digest setting columns addressed by the settings handlers and the notifier.
const (
	SettingMorning = "morning_digest_time"
	SettingEvening = "evening_review_time"
)

// Default digest times applied when a settings row is missing.
const (
	DefaultMorningTime = "09:00"
	DefaultEveningTime = "21:00"
)

// User is a chat participant with conversation state and scratch data.
type User struct {
	ID         int64          `db:"id"`
	TelegramID int64          `db:"telegram_id"`
	State      sql.NullString `db:"state"`
	DataJSON   sql.NullString `db:"data_json"`
	CreatedAt  time.Time      `db:"created_at"`
}

// CurrentState returns the persisted state tag, mapping NULL to idle.
func (u *User) CurrentState() State {
	if u == nil || !u.State.Valid {
		return StateIdle
	}
	return State(u.State.String)
}

// Task is a single to-do item.
type Task struct {
	ID         int64     `db:"id"`
	TelegramID int64     `db:"telegram_id"`
	Text       string    `db:"text"`
	Date       *string   `db:"task_date"`
	Time       *string   `db:"task_time"`
	Status     string    `db:"status"`
	Notified   bool      `db:"notified"`
	CreatedAt  time.Time `db:"created_at"`
}

// Settings holds the per-user digest times.
type Settings struct {
	MorningDigestTime string `db:"morning_digest_time"`
	EveningReviewTime string `db:"evening_review_time"`
}
