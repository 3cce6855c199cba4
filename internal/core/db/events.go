package db

import "log"

// ------------------------------
// Event System
// ------------------------------
//
// The DB emits typed events when marks are imported or when snapshot
// results are saved. Register listeners to react to these changes.
//
// Example usage:
//
//	db.RegisterEventListener(db.OnMarkAddedEvent, func(event db.Event) error {
//	    ev := event.(db.MarkAddedEvent)
//	    log.Printf("New mark imported: %d - %s", ev.Mark.ID, ev.Mark.URL)
//	    // Optionally queue a snapshot job here
//	    return nil
//	})
//
// Event is the common interface for all database events.
type Event interface {
	Kind() EventKind
}

// EventKind represents all the kinds of events that can be emitted by the DB.
type EventKind int

const (
	// OnMarkAddedEvent is emitted when a mark is inserted.
	OnMarkAddedEvent EventKind = iota
	// OnSnapshotSavedEvent is emitted when a snapshot result is saved.
	OnSnapshotSavedEvent
	// OnSnapshotRequeuedEvent is emitted when a mark's snapshot is cleared
	// for re-capture.
	OnSnapshotRequeuedEvent
)

func (k EventKind) String() string {
	switch k {
	case OnMarkAddedEvent:
		return "mark_added"
	case OnSnapshotSavedEvent:
		return "snapshot_saved"
	case OnSnapshotRequeuedEvent:
		return "snapshot_requeued"
	default:
		return "unknown"
	}
}

// MarkAddedEvent is emitted after a new mark is successfully inserted.
type MarkAddedEvent struct {
	Mark Mark
}

func (e MarkAddedEvent) Kind() EventKind { return OnMarkAddedEvent }

// SnapshotSavedEvent is emitted after a snapshot result is saved.
type SnapshotSavedEvent struct {
	MarkID int64
	Status string // "ok" or "error"
}

func (e SnapshotSavedEvent) Kind() EventKind { return OnSnapshotSavedEvent }

// SnapshotRequeuedEvent is emitted after a snapshot is cleared for re-capture.
type SnapshotRequeuedEvent struct {
	MarkID int64
}

func (e SnapshotRequeuedEvent) Kind() EventKind { return OnSnapshotRequeuedEvent }

// EventListener is a callback that handles events of a specific kind.
type EventListener func(event Event) error

// RegisterEventListener adds a listener for a specific event kind.
// Listeners are called synchronously in registration order after the DB
// operation succeeds.
func (db *DB) RegisterEventListener(eventKind EventKind, listener EventListener) {
	if db.eventListeners == nil {
		db.eventListeners = make(map[EventKind][]EventListener)
	}
	db.eventListeners[eventKind] = append(db.eventListeners[eventKind], listener)
}

// emit dispatches an event to all registered listeners for that event kind.
func (db *DB) emit(event Event) {
	listeners := db.eventListeners[event.Kind()]
	for _, listener := range listeners {
		if err := listener(event); err != nil {
			log.Printf("Event listener error for %s: %v", event.Kind(), err)
		}
	}
}
