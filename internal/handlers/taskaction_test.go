package handlers

import (
	"context"
	"strings"
	"testing"

	"planbot/internal/dispatch"
	"planbot/internal/storage"
)

func strptr(s string) *string { return &s }

func TestTaskActionDoneEditsCardInPlace(t *testing.T) {
	store := newFakeStore()
	store.tasks[42] = &storage.Task{
		ID: 42, TelegramID: 1, Text: "Купить хлеб",
		Time: strptr("09:00"), Status: storage.StatusActive,
	}
	m := &fakeMessenger{}
	h := &TaskActionCallback{Store: store, Messenger: m}

	u := callbackUpdate("task_done:42")
	if !h.CanHandle(u, storage.StateIdle, nil) {
		t.Fatalf("expected task_ payload to match while idle")
	}
	if h.CanHandle(u, storage.StateWaitPostpone, nil) {
		t.Fatalf("must not match mid-flow")
	}

	sig, err := h.Handle(context.Background(), u, storage.StateIdle, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sig != dispatch.Stop {
		t.Fatalf("expected Stop, got %v", sig)
	}

	if store.tasks[42].Status != storage.StatusDone {
		t.Fatalf("expected done status, got %q", store.tasks[42].Status)
	}
	if len(m.sent) != 1 || m.sent[0].op != "edit" {
		t.Fatalf("expected the card to be edited in place: %+v", m.sent)
	}
	if !strings.Contains(m.sent[0].text, "✅ [ВЫПОЛНЕНО]") {
		t.Fatalf("edited card must carry the done marker: %q", m.sent[0].text)
	}
	if m.sent[0].markup == nil || len(m.sent[0].markup.InlineKeyboard) != 0 {
		t.Fatalf("buttons must be removed from a finished card")
	}
}

func TestTaskActionCancelMarksCanceled(t *testing.T) {
	store := newFakeStore()
	store.tasks[7] = &storage.Task{ID: 7, TelegramID: 1, Text: "x", Status: storage.StatusActive}
	m := &fakeMessenger{}
	h := &TaskActionCallback{Store: store, Messenger: m}

	if _, err := h.Handle(context.Background(), callbackUpdate("task_cancel:7"), storage.StateIdle, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.tasks[7].Status != storage.StatusCanceled {
		t.Fatalf("expected canceled status, got %q", store.tasks[7].Status)
	}
	if !strings.Contains(m.sent[0].text, "❌ [ОТМЕНЕНО]") {
		t.Fatalf("edited card must carry the canceled marker: %q", m.sent[0].text)
	}
}

func TestTaskActionPostponeHandsOffToPostponeFlow(t *testing.T) {
	store := newFakeStore()
	store.tasks[42] = &storage.Task{ID: 42, TelegramID: 1, Text: "x", Status: storage.StatusActive}
	m := &fakeMessenger{}
	h := &TaskActionCallback{Store: store, Messenger: m}

	sig, err := h.Handle(context.Background(), callbackUpdate("task_postpone:42"), storage.StateIdle, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sig != dispatch.Stop {
		t.Fatalf("expected Stop, got %v", sig)
	}

	if store.users[1] == nil || store.users[1].CurrentState() != storage.StateWaitPostpone {
		t.Fatalf("expected WAIT_POSTPONE_TIME state")
	}
	merged := false
	for _, c := range store.calls {
		if c == "merge_user_data:1:postpone_task_id" {
			merged = true
		}
	}
	if !merged {
		t.Fatalf("task id must be stashed in scratch: %v", store.calls)
	}
	if len(m.deleted) != 1 || m.deleted[0].messageID != 600 {
		t.Fatalf("original card must be deleted: %+v", m.deleted)
	}
	if len(m.sent) != 1 || !strings.Contains(m.sent[0].text, "На сколько отложить") {
		t.Fatalf("expected the postpone prompt, got %+v", m.sent)
	}
	if got := len(m.sent[0].markup.InlineKeyboard); got != 2 {
		t.Fatalf("expected two rows of quick-postpone buttons, got %d", got)
	}
}

func TestTaskActionMalformedIDStopsSilently(t *testing.T) {
	store := newFakeStore()
	m := &fakeMessenger{}
	h := &TaskActionCallback{Store: store, Messenger: m}

	sig, err := h.Handle(context.Background(), callbackUpdate("task_done:abc"), storage.StateIdle, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sig != dispatch.Stop {
		t.Fatalf("expected Stop, got %v", sig)
	}
	if len(m.sent) != 0 {
		t.Fatalf("no user-visible reply expected: %+v", m.sent)
	}
	if len(store.calls) != 0 {
		t.Fatalf("no state change expected: %v", store.calls)
	}
}
