package taskcard

import (
	"testing"

	"planbot/internal/storage"
)

func strptr(s string) *string { return &s }

func TestFormatText(t *testing.T) {
	cases := []struct {
		name string
		task storage.Task
		want string
	}{
		{
			name: "active with time",
			task: storage.Task{Text: "Позвонить маме", Time: strptr("14:30"), Status: storage.StatusActive},
			want: "[14:30] Позвонить маме",
		},
		{
			name: "active without time",
			task: storage.Task{Text: "Купить хлеб", Status: storage.StatusActive},
			want: "[Без времени] Купить хлеб",
		},
		{
			name: "done",
			task: storage.Task{Text: "Купить хлеб", Time: strptr("09:00"), Status: storage.StatusDone},
			want: "✅ [ВЫПОЛНЕНО] [09:00] Купить хлеб",
		},
		{
			name: "canceled",
			task: storage.Task{Text: "Купить хлеб", Status: storage.StatusCanceled},
			want: "❌ [ОТМЕНЕНО] [Без времени] Купить хлеб",
		},
	}
	for _, c := range cases {
		if got := FormatText(c.task); got != c.want {
			t.Fatalf("%s: got %q, want %q", c.name, got, c.want)
		}
	}
}

func TestMarkup(t *testing.T) {
	m := Markup(42)
	if len(m.InlineKeyboard) != 1 || len(m.InlineKeyboard[0]) != 3 {
		t.Fatalf("unexpected markup shape: %+v", m.InlineKeyboard)
	}
	row := m.InlineKeyboard[0]
	if row[0].Data != "task_done:42" || row[1].Data != "task_postpone:42" || row[2].Data != "task_cancel:42" {
		t.Fatalf("unexpected callback payloads: %+v", row)
	}
}

func TestEmptyMarkup(t *testing.T) {
	m := EmptyMarkup()
	if len(m.InlineKeyboard) != 0 {
		t.Fatalf("expected no rows, got %+v", m.InlineKeyboard)
	}
}
