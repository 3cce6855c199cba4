package db

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"
)

// RequeueSnapshot clears a mark's snapshot attempt so the next snapshot run
// picks it up again. Emits a SnapshotRequeuedEvent.
func (db *DB) RequeueSnapshot(id int64) error {
	res, err := db.db.Exec(`
		UPDATE marks
		SET snapshot_attempted_at = NULL,
		    snapshot_at = NULL,
		    snapshot_status = NULL,
		    snapshot_error = NULL
		WHERE id = ?
	`, id)
	if err != nil {
		return fmt.Errorf("failed to requeue snapshot: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to determine rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("mark not found: %d", id)
	}

	db.emit(SnapshotRequeuedEvent{MarkID: id})
	return nil
}

// ListMarksToSnapshot returns active marks that have never had a snapshot
// attempt, oldest import first.
func (db *DB) ListMarksToSnapshot(limit int) ([]Mark, error) {
	query := `
		SELECT id, user_id, url, title, notes, created_on, COALESCE(archived_on, ''), active
		FROM marks
		WHERE snapshot_attempted_at IS NULL AND active
		ORDER BY created_on ASC
	`
	var rows *sql.Rows
	var err error
	if limit > 0 {
		rows, err = db.db.Query(query+" LIMIT ?", limit)
	} else {
		rows, err = db.db.Query(query)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list marks to snapshot: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Printf("failed to close rows: %v", err)
		}
	}()

	var out []Mark
	for rows.Next() {
		var m Mark
		if err := rows.Scan(&m.ID, &m.UserID, &m.URL, &m.Title, &m.Notes, &m.CreatedOn, &m.ArchivedOn, &m.Active); err != nil {
			return nil, fmt.Errorf("failed to scan mark: %w", err)
		}
		out = append(out, m)
	}
	return out, nil
}

// SaveSnapshotResult records the outcome of one snapshot attempt. snapAt is
// nil when the attempt failed. Emits a SnapshotSavedEvent.
func (db *DB) SaveSnapshotResult(markID int64, attemptedAt time.Time, snapAt *time.Time, status, errMsg, finalURL, html string) error {
	var snapAtStr any
	if snapAt != nil {
		snapAtStr = snapAt.UTC().Format(createdOnLayout)
	}

	res, err := db.db.Exec(`
		UPDATE marks
		SET snapshot_attempted_at = ?,
		    snapshot_at = ?,
		    snapshot_status = ?,
		    snapshot_error = ?,
		    snapshot_url = ?,
		    snapshot_html = ?
		WHERE id = ?
	`, attemptedAt.UTC().Format(createdOnLayout), snapAtStr, status, errMsg, finalURL, html, markID)
	if err != nil {
		return fmt.Errorf("failed to save snapshot result: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to determine rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("mark not found: %d", markID)
	}

	db.emit(SnapshotSavedEvent{MarkID: markID, Status: status})
	return nil
}

// GetMarkSnapshot returns the snapshot state for a mark.
func (db *DB) GetMarkSnapshot(id int64) (MarkSnapshot, error) {
	var s MarkSnapshot
	err := db.db.QueryRow(`
		SELECT
			id,
			COALESCE(snapshot_url, ''),
			COALESCE(snapshot_html, ''),
			COALESCE(snapshot_attempted_at, ''),
			COALESCE(snapshot_at, ''),
			COALESCE(snapshot_status, ''),
			COALESCE(snapshot_error, '')
		FROM marks
		WHERE id = ?
	`, id).Scan(
		&s.MarkID,
		&s.SnapshotURL,
		&s.SnapshotHTML,
		&s.SnapshotAttemptedAt,
		&s.SnapshotAt,
		&s.SnapshotStatus,
		&s.SnapshotError,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return MarkSnapshot{}, fmt.Errorf("mark not found: %d", id)
		}
		return MarkSnapshot{}, fmt.Errorf("failed to get mark snapshot: %w", err)
	}
	return s, nil
}
