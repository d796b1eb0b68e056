package storage

import (
	"database/sql"
	"testing"
)

func TestCurrentStateMapsNullToIdle(t *testing.T) {
	var missing *User
	if missing.CurrentState() != StateIdle {
		t.Fatalf("nil user must be idle")
	}

	u := &User{TelegramID: 1}
	if u.CurrentState() != StateIdle {
		t.Fatalf("NULL state must be idle")
	}

	u.State = sql.NullString{String: "WAIT_TASK_NAME", Valid: true}
	if u.CurrentState() != StateWaitTaskName {
		t.Fatalf("expected WAIT_TASK_NAME, got %q", u.CurrentState())
	}
}

func TestSettingsCacheInvalidation(t *testing.T) {
	c, err := newSettingsCache(4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, ok := c.get(1); ok {
		t.Fatalf("empty cache must miss")
	}

	c.put(1, Settings{MorningDigestTime: "08:00", EveningReviewTime: "20:00"})
	got, ok := c.get(1)
	if !ok || got.MorningDigestTime != "08:00" {
		t.Fatalf("expected cached settings, got %+v ok=%v", got, ok)
	}

	c.remove(1)
	if _, ok := c.get(1); ok {
		t.Fatalf("removed entry must miss")
	}
}
