package storage

import "context"

// Store is the persistence capability set consumed by the dispatcher, the
// handler chain, and the notifier loop.
type Store interface {
	// Audit log.
	PersistUpdate(ctx context.Context, payload []byte) error

	// User rows and conversation state.
	EnsureUserExists(ctx context.Context, telegramID int64) error
	GetUser(ctx context.Context, telegramID int64) (*User, error)
	UpdateUserState(ctx context.Context, telegramID int64, state State) error
	MergeUserData(ctx context.Context, telegramID int64, data map[string]any) error
	ClearUserStateAndData(ctx context.Context, telegramID int64) error

	// Tasks.
	CreateTask(ctx context.Context, telegramID int64, text string, date, tm *string) (int64, error)
	GetTaskByID(ctx context.Context, taskID int64) (*Task, error)
	TasksByFilter(ctx context.Context, telegramID int64, filter string) ([]Task, error)
	UpdateTaskStatus(ctx context.Context, taskID int64, status string) error
	UpdateTaskSchedule(ctx context.Context, taskID int64, date, tm *string, status string) error

	// Settings.
	GetUserSettings(ctx context.Context, telegramID int64) (Settings, error)
	UpdateUserSettingTime(ctx context.Context, telegramID int64, setting, newTime string) error

	// Notifier queries.
	DueTasks(ctx context.Context, currentDate, currentTime string) ([]Task, error)
	MarkTaskNotified(ctx context.Context, taskID int64) error
	UsersForDigest(ctx context.Context, setting, currentTime string) ([]int64, error)
	ActiveTasksForDigest(ctx context.Context, telegramID int64, todayDate string) ([]Task, error)
	TasksForDate(ctx context.Context, telegramID int64, date string) ([]Task, error)

	Close() error
}
