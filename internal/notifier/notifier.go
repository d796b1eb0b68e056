// Package notifier runs the periodic reminder and digest loop.
package notifier

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"

	"log/slog"

	"planbot/internal/logger"
	"planbot/internal/messenger"
	"planbot/internal/storage"
	"planbot/internal/taskcard"
)

// Notifier delivers due-task reminders and the morning/evening digests.
type Notifier struct {
	store     storage.Store
	messenger messenger.Messenger
}

func New(store storage.Store, m messenger.Messenger) *Notifier {
	return &Notifier{store: store, messenger: m}
}

// Start schedules RunCycle at the given period and returns the scheduler so
// the caller can shut it down.
func (n *Notifier) Start(ctx context.Context, period time.Duration) (gocron.Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("new scheduler: %w", err)
	}

	_, err = s.NewJob(
		gocron.DurationJob(period),
		gocron.NewTask(func() {
			if err := n.RunCycle(ctx, time.Now()); err != nil {
				logger.NTF.Error("notifier cycle failed",
					slog.String("event", "notifier.cycle"),
					slog.String("err", err.Error()))
			}
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("schedule notifier job: %w", err)
	}

	s.Start()
	logger.NTF.Info("notifier started",
		slog.String("event", "notifier.start"),
		slog.Duration("duration", period))
	return s, nil
}

// RunCycle executes a single pass: due reminders first, then the morning and
// evening digests for users whose configured time matches now exactly.
// All timestamps are derived from a single snapshot so a cycle straddling a
// minute boundary stays consistent.
func (n *Notifier) RunCycle(ctx context.Context, now time.Time) error {
	currentDate := now.Format("2006-01-02")
	currentTime := now.Format("15:04")
	tomorrowDate := now.AddDate(0, 0, 1).Format("2006-01-02")

	if err := n.sendDueReminders(ctx, currentDate, currentTime); err != nil {
		return err
	}
	if err := n.sendDigests(ctx, storage.SettingMorning, currentTime, currentDate, tomorrowDate); err != nil {
		return err
	}
	return n.sendDigests(ctx, storage.SettingEvening, currentTime, currentDate, tomorrowDate)
}

func (n *Notifier) sendDueReminders(ctx context.Context, currentDate, currentTime string) error {
	due, err := n.store.DueTasks(ctx, currentDate, currentTime)
	if err != nil {
		return err
	}

	for _, task := range due {
		text := taskcard.ReminderPrefix + taskcard.FormatText(task)
		err := n.messenger.SendMessage(task.TelegramID, text, &messenger.SendOptions{
			ReplyMarkup: taskcard.Markup(task.ID),
		})
		if err != nil {
			logger.NTF.Error("reminder send failed",
				slog.String("event", "notifier.reminder"),
				slog.Int64("task_id", task.ID),
				slog.Int64("user_id", task.TelegramID),
				slog.String("err", err.Error()))
			continue
		}
		if err := n.store.MarkTaskNotified(ctx, task.ID); err != nil {
			logger.NTF.Error("mark notified failed",
				slog.String("event", "notifier.reminder"),
				slog.Int64("task_id", task.ID),
				slog.String("err", err.Error()))
			continue
		}
		logger.NTF.Info("reminder sent",
			slog.String("event", "notifier.reminder"),
			slog.Int64("task_id", task.ID),
			slog.Int64("user_id", task.TelegramID))
	}
	return nil
}

func (n *Notifier) sendDigests(ctx context.Context, setting, currentTime, currentDate, tomorrowDate string) error {
	users, err := n.store.UsersForDigest(ctx, setting, currentTime)
	if err != nil {
		return err
	}

	for _, userID := range users {
		var (
			title string
			tasks []storage.Task
		)
		if setting == storage.SettingMorning {
			title = "☀️ Утренний дайджест на сегодня"
			tasks, err = n.store.ActiveTasksForDigest(ctx, userID, currentDate)
		} else {
			title = "🌙 Вечерний обзор задач на завтра"
			tasks, err = n.store.TasksForDate(ctx, userID, tomorrowDate)
		}
		if err != nil {
			logger.NTF.Error("digest query failed",
				slog.String("event", "notifier.digest"),
				slog.Int64("user_id", userID),
				slog.String("err", err.Error()))
			continue
		}

		if err := n.sendTaskList(userID, title, tasks); err != nil {
			logger.NTF.Error("digest send failed",
				slog.String("event", "notifier.digest"),
				slog.Int64("user_id", userID),
				slog.String("err", err.Error()))
			continue
		}
		logger.NTF.Info("digest sent",
			slog.String("event", "notifier.digest"),
			slog.Int64("user_id", userID),
			slog.Int("count", len(tasks)))
	}
	return nil
}

func (n *Notifier) sendTaskList(chatID int64, title string, tasks []storage.Task) error {
	header := title + "\n"

	if len(tasks) == 0 {
		return n.messenger.SendMessage(chatID, header+"Список задач пуст!", nil)
	}

	if err := n.messenger.SendMessage(chatID, header, nil); err != nil {
		return err
	}
	for _, task := range tasks {
		err := n.messenger.SendMessage(chatID, taskcard.FormatText(task), &messenger.SendOptions{
			ReplyMarkup: taskcard.Markup(task.ID),
		})
		if err != nil {
			return err
		}
	}
	return nil
}
