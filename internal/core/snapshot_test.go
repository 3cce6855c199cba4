package core

import (
	"context"
	"testing"
	"time"

	"github.com/seckatie/delimport/internal/core/db"
)

func TestSnapshotOptions(t *testing.T) {
	t.Run("default timeout is applied inside SnapshotPage", func(t *testing.T) {
		opts := SnapshotOptions{}
		if opts.Timeout != 0 {
			t.Errorf("initial Timeout should be 0, got %v", opts.Timeout)
		}
	})

	t.Run("headless defaults to false", func(t *testing.T) {
		opts := SnapshotOptions{}
		if opts.Headless {
			t.Error("Headless should default to false")
		}
	})

	t.Run("custom chrome path", func(t *testing.T) {
		opts := SnapshotOptions{ChromePath: "/custom/chrome"}
		if opts.ChromePath != "/custom/chrome" {
			t.Errorf("ChromePath = %q, want /custom/chrome", opts.ChromePath)
		}
	})

	t.Run("wait selector", func(t *testing.T) {
		opts := SnapshotOptions{WaitSelector: ".main-content"}
		if opts.WaitSelector != ".main-content" {
			t.Errorf("WaitSelector = %q, want .main-content", opts.WaitSelector)
		}
	})
}

func TestSnapshotConstants(t *testing.T) {
	if SnapshotStatusOK != "ok" {
		t.Errorf("SnapshotStatusOK = %q, want 'ok'", SnapshotStatusOK)
	}
	if SnapshotStatusError != "error" {
		t.Errorf("SnapshotStatusError = %q, want 'error'", SnapshotStatusError)
	}
	if DefaultSnapshotTimeout != 35*time.Second {
		t.Errorf("DefaultSnapshotTimeout = %v", DefaultSnapshotTimeout)
	}
}

func newTestDB(t *testing.T) *db.DB {
	t.Helper()
	database, err := db.NewSQLiteDB(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	if err := database.Migrate(); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return database
}

func TestRunSnapshots(t *testing.T) {
	t.Run("empty batch is a no-op", func(t *testing.T) {
		database := newTestDB(t)
		defer database.Close()

		res, err := RunSnapshots(context.Background(), database, SnapshotRunOptions{})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if res != (SnapshotRunResult{}) {
			t.Errorf("expected zero result, got %+v", res)
		}
	})

	t.Run("unknown mark id", func(t *testing.T) {
		database := newTestDB(t)
		defer database.Close()

		_, err := RunSnapshots(context.Background(), database, SnapshotRunOptions{ID: 12345})
		if err == nil {
			t.Error("expected error for unknown mark id")
		}
	})
}
