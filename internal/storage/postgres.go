package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"planbot/internal/logger"

	"log/slog"
)

// Postgres implements Store over an sqlx connection pool.
type Postgres struct {
	db       *sqlx.DB
	settings *settingsCache
}

// NewPostgres wraps an open sqlx pool with the storage layer.
func NewPostgres(db *sqlx.DB) (*Postgres, error) {
	cache, err := newSettingsCache(settingsCacheSize)
	if err != nil {
		return nil, fmt.Errorf("settings cache: %w", err)
	}
	return &Postgres{db: db, settings: cache}, nil
}

// Close releases the underlying connection pool.
func (p *Postgres) Close() error {
	return p.db.Close()
}

func logQuery(op string, start time.Time, err error, attrs ...slog.Attr) {
	args := make([]any, 0, len(attrs)+3)
	args = append(args,
		slog.String("event", "db."+op),
		slog.Duration("duration", logger.Took(start)),
	)
	for _, a := range attrs {
		args = append(args, a)
	}
	if err != nil {
		args = append(args, slog.String("err", err.Error()))
		logger.DB.Error(op+" failed", args...)
		return
	}
	logger.DB.Debug(op, args...)
}

// PersistUpdate appends a raw inbound update payload to the audit log.
func (p *Postgres) PersistUpdate(ctx context.Context, payload []byte) error {
	start := time.Now()
	_, err := p.db.ExecContext(ctx,
		`INSERT INTO telegram_updates (payload) VALUES ($1)`, string(payload))
	logQuery("persist_update", start, err)
	if err != nil {
		return fmt.Errorf("persist update: %w", err)
	}
	return nil
}

// EnsureUserExists idempotently creates the user and default settings rows.
func (p *Postgres) EnsureUserExists(ctx context.Context, telegramID int64) error {
	start := time.Now()
	_, err := p.db.ExecContext(ctx,
		`INSERT INTO users (telegram_id) VALUES ($1) ON CONFLICT (telegram_id) DO NOTHING`,
		telegramID)
	if err == nil {
		_, err = p.db.ExecContext(ctx,
			`INSERT INTO user_settings (telegram_id) VALUES ($1) ON CONFLICT (telegram_id) DO NOTHING`,
			telegramID)
	}
	logQuery("ensure_user_exists", start, err, slog.Int64("user_id", telegramID))
	if err != nil {
		return fmt.Errorf("ensure user exists: %w", err)
	}
	return nil
}

// GetUser fetches a user row, returning (nil, nil) when it does not exist.
func (p *Postgres) GetUser(ctx context.Context, telegramID int64) (*User, error) {
	start := time.Now()
	var u User
	err := p.db.GetContext(ctx, &u,
		`SELECT id, telegram_id, state, data_json, created_at FROM users WHERE telegram_id=$1`,
		telegramID)
	if errors.Is(err, sql.ErrNoRows) {
		logQuery("get_user", start, nil, slog.Int64("user_id", telegramID))
		return nil, nil
	}
	logQuery("get_user", start, err, slog.Int64("user_id", telegramID))
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

// UpdateUserState sets the conversation state; StateIdle is stored as NULL.
func (p *Postgres) UpdateUserState(ctx context.Context, telegramID int64, state State) error {
	start := time.Now()
	var value any
	if state != StateIdle {
		value = string(state)
	}
	_, err := p.db.ExecContext(ctx,
		`UPDATE users SET state=$1 WHERE telegram_id=$2`, value, telegramID)
	logQuery("update_user_state", start, err,
		slog.Int64("user_id", telegramID), slog.String("state", string(state)))
	if err != nil {
		return fmt.Errorf("update user state: %w", err)
	}
	return nil
}

// MergeUserData merges the given keys into the user's scratch data JSON.
func (p *Postgres) MergeUserData(ctx context.Context, telegramID int64, data map[string]any) error {
	user, err := p.GetUser(ctx, telegramID)
	if err != nil {
		return err
	}
	if user == nil {
		return nil
	}

	existing := map[string]any{}
	if user.DataJSON.Valid && user.DataJSON.String != "" {
		if err := json.Unmarshal([]byte(user.DataJSON.String), &existing); err != nil {
			return fmt.Errorf("decode scratch data: %w", err)
		}
	}
	for k, v := range data {
		existing[k] = v
	}
	encoded, err := json.Marshal(existing)
	if err != nil {
		return fmt.Errorf("encode scratch data: %w", err)
	}

	start := time.Now()
	_, err = p.db.ExecContext(ctx,
		`UPDATE users SET data_json=$1 WHERE telegram_id=$2`, string(encoded), telegramID)
	logQuery("merge_user_data", start, err, slog.Int64("user_id", telegramID))
	if err != nil {
		return fmt.Errorf("merge user data: %w", err)
	}
	return nil
}

// ClearUserStateAndData resets the user to idle and empties the scratch data.
func (p *Postgres) ClearUserStateAndData(ctx context.Context, telegramID int64) error {
	start := time.Now()
	_, err := p.db.ExecContext(ctx,
		`UPDATE users SET state=NULL, data_json=NULL WHERE telegram_id=$1`, telegramID)
	logQuery("clear_user_state_and_data", start, err, slog.Int64("user_id", telegramID))
	if err != nil {
		return fmt.Errorf("clear user state: %w", err)
	}
	return nil
}

// CreateTask inserts an active task and returns its id.
func (p *Postgres) CreateTask(ctx context.Context, telegramID int64, text string, date, tm *string) (int64, error) {
	start := time.Now()
	var id int64
	err := p.db.GetContext(ctx, &id,
		`INSERT INTO tasks (telegram_id, text, task_date, task_time, status, notified)
		 VALUES ($1,$2,$3,$4,'active',FALSE)
		 RETURNING id`,
		telegramID, text, date, tm)
	logQuery("create_task", start, err,
		slog.Int64("user_id", telegramID), slog.Int64("task_id", id))
	if err != nil {
		return 0, fmt.Errorf("create task: %w", err)
	}
	return id, nil
}

// GetTaskByID fetches a task, returning (nil, nil) when it does not exist.
func (p *Postgres) GetTaskByID(ctx context.Context, taskID int64) (*Task, error) {
	start := time.Now()
	var t Task
	err := p.db.GetContext(ctx, &t, `SELECT * FROM tasks WHERE id=$1`, taskID)
	if errors.Is(err, sql.ErrNoRows) {
		logQuery("get_task_by_id", start, nil, slog.Int64("task_id", taskID))
		return nil, nil
	}
	logQuery("get_task_by_id", start, err, slog.Int64("task_id", taskID))
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	return &t, nil
}

// TasksByFilter lists active tasks for one of the fixed categories.
func (p *Postgres) TasksByFilter(ctx context.Context, telegramID int64, filter string) ([]Task, error) {
	var query string
	switch filter {
	case FilterToday:
		query = `SELECT * FROM tasks WHERE telegram_id=$1 AND status='active' AND task_date=CAST(CURRENT_DATE AS TEXT)`
	case FilterTomorrow:
		query = `SELECT * FROM tasks WHERE telegram_id=$1 AND status='active' AND task_date=CAST(CURRENT_DATE + INTERVAL '1 day' AS TEXT)`
	case FilterNoDate:
		query = `SELECT * FROM tasks WHERE telegram_id=$1 AND status='active' AND task_date IS NULL`
	default:
		return nil, nil
	}

	start := time.Now()
	var tasks []Task
	err := p.db.SelectContext(ctx, &tasks, query, telegramID)
	logQuery("tasks_by_filter", start, err,
		slog.Int64("user_id", telegramID),
		slog.String("payload", filter),
		slog.Int("count", len(tasks)))
	if err != nil {
		return nil, fmt.Errorf("tasks by filter: %w", err)
	}
	return tasks, nil
}

// UpdateTaskStatus sets a task's status.
func (p *Postgres) UpdateTaskStatus(ctx context.Context, taskID int64, status string) error {
	start := time.Now()
	_, err := p.db.ExecContext(ctx,
		`UPDATE tasks SET status=$1 WHERE id=$2`, status, taskID)
	logQuery("update_task_status", start, err,
		slog.Int64("task_id", taskID), slog.String("status", status))
	if err != nil {
		return fmt.Errorf("update task status: %w", err)
	}
	return nil
}

// UpdateTaskSchedule rewrites a task's date, time and status in one statement.
func (p *Postgres) UpdateTaskSchedule(ctx context.Context, taskID int64, date, tm *string, status string) error {
	start := time.Now()
	_, err := p.db.ExecContext(ctx,
		`UPDATE tasks SET task_date=$1, task_time=$2, status=$3 WHERE id=$4`,
		date, tm, status, taskID)
	logQuery("update_task_schedule", start, err, slog.Int64("task_id", taskID))
	if err != nil {
		return fmt.Errorf("update task schedule: %w", err)
	}
	return nil
}

// GetUserSettings returns digest times, defaulting when no row exists.
func (p *Postgres) GetUserSettings(ctx context.Context, telegramID int64) (Settings, error) {
	if s, ok := p.settings.get(telegramID); ok {
		return s, nil
	}

	start := time.Now()
	var s Settings
	err := p.db.GetContext(ctx, &s,
		`SELECT morning_digest_time, evening_review_time FROM user_settings WHERE telegram_id=$1`,
		telegramID)
	if errors.Is(err, sql.ErrNoRows) {
		logQuery("get_user_settings", start, nil, slog.Int64("user_id", telegramID))
		return Settings{MorningDigestTime: DefaultMorningTime, EveningReviewTime: DefaultEveningTime}, nil
	}
	logQuery("get_user_settings", start, err, slog.Int64("user_id", telegramID))
	if err != nil {
		return Settings{}, fmt.Errorf("get user settings: %w", err)
	}
	p.settings.put(telegramID, s)
	return s, nil
}

// UpdateUserSettingTime persists a new digest time for the given setting column.
func (p *Postgres) UpdateUserSettingTime(ctx context.Context, telegramID int64, setting, newTime string) error {
	if setting != SettingMorning && setting != SettingEvening {
		return fmt.Errorf("invalid setting type: %s", setting)
	}

	start := time.Now()
	// setting is validated against the two known columns above.
	_, err := p.db.ExecContext(ctx,
		fmt.Sprintf(`UPDATE user_settings SET %s=$1 WHERE telegram_id=$2`, setting),
		newTime, telegramID)
	logQuery("update_user_setting_time", start, err,
		slog.Int64("user_id", telegramID), slog.String("payload", setting))
	if err != nil {
		return fmt.Errorf("update user setting: %w", err)
	}
	p.settings.remove(telegramID)
	return nil
}

// DueTasks lists active, not yet notified tasks scheduled at or before now.
func (p *Postgres) DueTasks(ctx context.Context, currentDate, currentTime string) ([]Task, error) {
	start := time.Now()
	var tasks []Task
	err := p.db.SelectContext(ctx, &tasks,
		`SELECT * FROM tasks
		 WHERE status='active' AND task_date IS NOT NULL AND task_time IS NOT NULL
		   AND notified=FALSE
		   AND (task_date<$1 OR (task_date=$1 AND task_time<=$2))`,
		currentDate, currentTime)
	logQuery("due_tasks", start, err, slog.Int("count", len(tasks)))
	if err != nil {
		return nil, fmt.Errorf("due tasks: %w", err)
	}
	return tasks, nil
}

// MarkTaskNotified flags a task so its reminder is not sent twice.
func (p *Postgres) MarkTaskNotified(ctx context.Context, taskID int64) error {
	start := time.Now()
	_, err := p.db.ExecContext(ctx,
		`UPDATE tasks SET notified=TRUE WHERE id=$1`, taskID)
	logQuery("mark_task_notified", start, err, slog.Int64("task_id", taskID))
	if err != nil {
		return fmt.Errorf("mark task notified: %w", err)
	}
	return nil
}

// UsersForDigest returns users whose digest setting equals currentTime exactly.
func (p *Postgres) UsersForDigest(ctx context.Context, setting, currentTime string) ([]int64, error) {
	if setting != SettingMorning && setting != SettingEvening {
		return nil, fmt.Errorf("invalid setting type: %s", setting)
	}

	start := time.Now()
	var ids []int64
	err := p.db.SelectContext(ctx, &ids,
		fmt.Sprintf(
			`SELECT u.telegram_id
			 FROM users AS u
			 JOIN user_settings AS s ON u.telegram_id = s.telegram_id
			 WHERE s.%s = $1`, setting),
		currentTime)
	logQuery("users_for_digest", start, err,
		slog.String("payload", setting), slog.Int("count", len(ids)))
	if err != nil {
		return nil, fmt.Errorf("users for digest: %w", err)
	}
	return ids, nil
}

// ActiveTasksForDigest lists today's and undated active tasks, dated first,
// then by time and id ascending.
func (p *Postgres) ActiveTasksForDigest(ctx context.Context, telegramID int64, todayDate string) ([]Task, error) {
	start := time.Now()
	var tasks []Task
	err := p.db.SelectContext(ctx, &tasks,
		`SELECT * FROM tasks
		 WHERE telegram_id = $1
		   AND status = 'active'
		   AND (task_date = $2 OR task_date IS NULL)
		 ORDER BY CASE WHEN task_date IS NULL THEN 1 ELSE 0 END,
		          task_time ASC,
		          id ASC`,
		telegramID, todayDate)
	logQuery("active_tasks_for_digest", start, err,
		slog.Int64("user_id", telegramID), slog.Int("count", len(tasks)))
	if err != nil {
		return nil, fmt.Errorf("active tasks for digest: %w", err)
	}
	return tasks, nil
}

// TasksForDate lists a user's active tasks on an exact date, by time then id.
func (p *Postgres) TasksForDate(ctx context.Context, telegramID int64, date string) ([]Task, error) {
	start := time.Now()
	var tasks []Task
	err := p.db.SelectContext(ctx, &tasks,
		`SELECT * FROM tasks
		 WHERE telegram_id = $1
		   AND status = 'active'
		   AND task_date = $2
		 ORDER BY task_time ASC, id ASC`,
		telegramID, date)
	logQuery("tasks_for_date", start, err,
		slog.Int64("user_id", telegramID), slog.Int("count", len(tasks)))
	if err != nil {
		return nil, fmt.Errorf("tasks for date: %w", err)
	}
	return tasks, nil
}
