package dispatch

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"strings"
	"testing"

	tele "gopkg.in/telebot.v4"

	"planbot/internal/logger"
	"planbot/internal/storage"
)

func TestMain(m *testing.M) {
	_ = logger.InitLogger(nil)
	os.Exit(m.Run())
}

type stubStore struct {
	storage.Store
	user *storage.User
	err  error
}

func (s *stubStore) GetUser(context.Context, int64) (*storage.User, error) {
	return s.user, s.err
}

type recordingHandler struct {
	name    string
	matches bool
	signal  Signal
	err     error

	ran        *[]string
	gotState   storage.State
	gotScratch map[string]any
}

func (h *recordingHandler) Name() string { return h.name }

func (h *recordingHandler) CanHandle(tele.Update, storage.State, map[string]any) bool {
	return h.matches
}

func (h *recordingHandler) Handle(_ context.Context, _ tele.Update, state storage.State, scratch map[string]any) (Signal, error) {
	*h.ran = append(*h.ran, h.name)
	h.gotState = state
	h.gotScratch = scratch
	return h.signal, h.err
}

func messageUpdate() tele.Update {
	return tele.Update{
		ID: 7,
		Message: &tele.Message{
			Sender: &tele.User{ID: 1},
			Chat:   &tele.Chat{ID: 10},
			Text:   "hello",
		},
	}
}

func TestDispatchStopsAtFirstStop(t *testing.T) {
	var ran []string
	handlers := []Handler{
		&recordingHandler{name: "a", matches: true, signal: Continue, ran: &ran},
		&recordingHandler{name: "b", matches: false, signal: Stop, ran: &ran},
		&recordingHandler{name: "c", matches: true, signal: Stop, ran: &ran},
		&recordingHandler{name: "d", matches: true, signal: Stop, ran: &ran},
	}
	d := New(&stubStore{}, handlers)

	if err := d.Dispatch(context.Background(), messageUpdate()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := strings.Join(ran, ","); got != "a,c" {
		t.Fatalf("expected a,c to run, got %q", got)
	}
}

func TestDispatchPassesStateAndScratch(t *testing.T) {
	var ran []string
	h := &recordingHandler{name: "h", matches: true, signal: Stop, ran: &ran}
	store := &stubStore{user: &storage.User{
		TelegramID: 1,
		State:      sql.NullString{String: "WAIT_TASK_TIME", Valid: true},
		DataJSON:   sql.NullString{String: `{"text":"x","date":"2025-01-01"}`, Valid: true},
	}}
	d := New(store, []Handler{h})

	if err := d.Dispatch(context.Background(), messageUpdate()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.gotState != storage.StateWaitTaskTime {
		t.Fatalf("expected WAIT_TASK_TIME, got %q", h.gotState)
	}
	if h.gotScratch["text"] != "x" || h.gotScratch["date"] != "2025-01-01" {
		t.Fatalf("unexpected scratch: %v", h.gotScratch)
	}
}

func TestDispatchUnknownUserIsIdleWithEmptyScratch(t *testing.T) {
	var ran []string
	h := &recordingHandler{name: "h", matches: true, signal: Stop, ran: &ran}
	d := New(&stubStore{user: nil}, []Handler{h})

	if err := d.Dispatch(context.Background(), messageUpdate()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.gotState != storage.StateIdle {
		t.Fatalf("expected idle state, got %q", h.gotState)
	}
	if h.gotScratch == nil || len(h.gotScratch) != 0 {
		t.Fatalf("expected an empty scratch map, got %v", h.gotScratch)
	}
}

func TestDispatchMalformedScratchFails(t *testing.T) {
	store := &stubStore{user: &storage.User{
		TelegramID: 1,
		DataJSON:   sql.NullString{String: "{broken", Valid: true},
	}}
	d := New(store, nil)

	if err := d.Dispatch(context.Background(), messageUpdate()); err == nil {
		t.Fatalf("expected a decode error")
	}
}

func TestDispatchHandlerErrorStopsChain(t *testing.T) {
	var ran []string
	boom := errors.New("boom")
	handlers := []Handler{
		&recordingHandler{name: "a", matches: true, signal: Continue, err: boom, ran: &ran},
		&recordingHandler{name: "b", matches: true, signal: Stop, ran: &ran},
	}
	d := New(&stubStore{}, handlers)

	err := d.Dispatch(context.Background(), messageUpdate())
	if !errors.Is(err, boom) {
		t.Fatalf("expected the handler error, got %v", err)
	}
	if len(ran) != 1 {
		t.Fatalf("chain must stop on error, ran %v", ran)
	}
}

func TestDispatchRunsChainWithoutSender(t *testing.T) {
	var ran []string
	h := &recordingHandler{name: "audit", matches: true, signal: Stop, ran: &ran}
	store := &stubStore{err: errors.New("no user lookup for sender-less updates")}
	d := New(store, []Handler{h})

	if err := d.Dispatch(context.Background(), tele.Update{ID: 9}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ran) != 1 {
		t.Fatalf("chain must still run without a sender, ran %v", ran)
	}
	if h.gotState != storage.StateIdle {
		t.Fatalf("expected idle state, got %q", h.gotState)
	}
	if h.gotScratch == nil || len(h.gotScratch) != 0 {
		t.Fatalf("expected an empty scratch map, got %v", h.gotScratch)
	}
}
