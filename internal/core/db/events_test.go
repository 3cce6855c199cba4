package db

import (
	"errors"
	"testing"
	"time"
)

func TestEventKindString(t *testing.T) {
	tests := []struct {
		kind EventKind
		want string
	}{
		{OnMarkAddedEvent, "mark_added"},
		{OnSnapshotSavedEvent, "snapshot_saved"},
		{OnSnapshotRequeuedEvent, "snapshot_requeued"},
		{EventKind(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.kind.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMarkAddedEvent(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	var received []MarkAddedEvent
	db.RegisterEventListener(OnMarkAddedEvent, func(event Event) error {
		received = append(received, event.(MarkAddedEvent))
		return nil
	})

	id, err := db.AddMark(Mark{UserID: 1, URL: "https://example.com", Title: "Example", Active: true})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(received) != 1 {
		t.Fatalf("expected 1 event, got %d", len(received))
	}
	if received[0].Mark.ID != id {
		t.Errorf("event Mark.ID = %d, want %d", received[0].Mark.ID, id)
	}
	if received[0].Mark.URL != "https://example.com" {
		t.Errorf("event Mark.URL = %q", received[0].Mark.URL)
	}
}

func TestMarkAddedEvent_NotEmittedOnFailure(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	fired := false
	db.RegisterEventListener(OnMarkAddedEvent, func(event Event) error {
		fired = true
		return nil
	})

	if _, err := db.AddMark(Mark{UserID: 1, URL: "not a url", Active: true}); err == nil {
		t.Fatal("expected insert to fail")
	}
	if fired {
		t.Error("event should not fire for a failed insert")
	}
}

func TestListenerErrorDoesNotAbort(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	db.RegisterEventListener(OnMarkAddedEvent, func(event Event) error {
		return errors.New("listener exploded")
	})

	secondCalled := false
	db.RegisterEventListener(OnMarkAddedEvent, func(event Event) error {
		secondCalled = true
		return nil
	})

	id, err := db.AddMark(Mark{UserID: 1, URL: "https://example.com", Active: true})
	if err != nil {
		t.Fatalf("expected insert to succeed despite listener error, got %v", err)
	}
	if id <= 0 {
		t.Errorf("expected positive ID, got %d", id)
	}
	if !secondCalled {
		t.Error("expected later listeners to still run")
	}
}

func TestSnapshotEvents(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	id, err := db.AddMark(Mark{UserID: 1, URL: "https://example.com", Active: true})
	if err != nil {
		t.Fatalf("failed to add mark: %v", err)
	}

	t.Run("snapshot saved", func(t *testing.T) {
		var got []SnapshotSavedEvent
		db.RegisterEventListener(OnSnapshotSavedEvent, func(event Event) error {
			got = append(got, event.(SnapshotSavedEvent))
			return nil
		})

		now := time.Now()
		if err := db.SaveSnapshotResult(id, now, &now, "ok", "", "https://example.com/", "<html></html>"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if len(got) != 1 {
			t.Fatalf("expected 1 event, got %d", len(got))
		}
		if got[0].MarkID != id || got[0].Status != "ok" {
			t.Errorf("event = %+v", got[0])
		}
	})

	t.Run("snapshot requeued", func(t *testing.T) {
		var got []SnapshotRequeuedEvent
		db.RegisterEventListener(OnSnapshotRequeuedEvent, func(event Event) error {
			got = append(got, event.(SnapshotRequeuedEvent))
			return nil
		})

		if err := db.RequeueSnapshot(id); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if len(got) != 1 {
			t.Fatalf("expected 1 event, got %d", len(got))
		}
		if got[0].MarkID != id {
			t.Errorf("event MarkID = %d, want %d", got[0].MarkID, id)
		}
	})
}
