package handlers

import (
	"context"
	"testing"

	"planbot/internal/dispatch"
	"planbot/internal/storage"
)

func TestUserProvisionerPassesUpdateOn(t *testing.T) {
	store := newFakeStore()
	h := &UserProvisioner{Store: store}

	u := textMessage("hello")
	if !h.CanHandle(u, storage.StateIdle, nil) {
		t.Fatalf("expected provisioner to match updates with a sender")
	}

	for i := 0; i < 3; i++ {
		sig, err := h.Handle(context.Background(), u, storage.StateIdle, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if sig != dispatch.Continue {
			t.Fatalf("expected Continue, got %v", sig)
		}
	}
	if len(store.users) != 1 {
		t.Fatalf("expected exactly one user row, got %d", len(store.users))
	}
	if _, ok := store.settings[1]; !ok {
		t.Fatalf("expected settings row to be provisioned")
	}
}

func TestAuditLoggerPersistsAndContinues(t *testing.T) {
	store := newFakeStore()
	h := &AuditLogger{Store: store}

	sig, err := h.Handle(context.Background(), textMessage("anything"), storage.StateIdle, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sig != dispatch.Continue {
		t.Fatalf("expected Continue, got %v", sig)
	}
	if len(store.calls) != 1 || store.calls[0] != "persist_update" {
		t.Fatalf("expected persist call, got %v", store.calls)
	}
}
