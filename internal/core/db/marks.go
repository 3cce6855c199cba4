package db

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/url"
	"time"

	"github.com/seckatie/delimport/internal/core/delicious"
)

// ErrInvalidURL is returned when a mark URL fails validation.
var ErrInvalidURL = errors.New("invalid URL")

// createdOnLayout matches the civil date-time format the importer writes.
const createdOnLayout = "2006-01-02 15:04:05"

// ValidateMarkURL validates that a URL is acceptable for a mark.
// It requires the URL to have http or https scheme and a non-empty host.
func ValidateMarkURL(urlStr string) error {
	if urlStr == "" {
		return fmt.Errorf("%w: empty URL", ErrInvalidURL)
	}

	u, err := url.Parse(urlStr)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: scheme must be http or https, got %q", ErrInvalidURL, u.Scheme)
	}

	if u.Host == "" {
		return fmt.Errorf("%w: missing host", ErrInvalidURL)
	}

	return nil
}

// ------------------------------
// Mark methods
// ------------------------------

func (db *DB) GetMark(id int64) (Mark, error) {
	var m Mark
	err := db.db.QueryRow(`
		SELECT id, user_id, url, title, notes, created_on, COALESCE(archived_on, ''), active
		FROM marks WHERE id = ?
	`, id).Scan(&m.ID, &m.UserID, &m.URL, &m.Title, &m.Notes, &m.CreatedOn, &m.ArchivedOn, &m.Active)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Mark{}, fmt.Errorf("mark not found: %d", id)
		}
		return Mark{}, fmt.Errorf("failed to get mark: %w", err)
	}
	return m, nil
}

// AddMark inserts a new mark and returns its ID.
//
// It validates the URL before inserting and returns ErrInvalidURL if
// validation fails. A missing CreatedOn is filled with the current time.
// Emits a MarkAddedEvent after a successful insert.
func (db *DB) AddMark(m Mark) (int64, error) {
	if err := ValidateMarkURL(m.URL); err != nil {
		return 0, err
	}

	if m.CreatedOn == "" {
		m.CreatedOn = time.Now().UTC().Format(createdOnLayout)
	}

	result, err := db.db.Exec(`
		INSERT INTO marks (user_id, url, title, notes, created_on, active)
		VALUES (?, ?, ?, ?, ?, ?)
	`, m.UserID, m.URL, m.Title, m.Notes, m.CreatedOn, m.Active)
	if err != nil {
		return 0, fmt.Errorf("failed to add mark: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID: %w", err)
	}

	m.ID = id
	db.emit(MarkAddedEvent{Mark: m})

	return id, nil
}

// HasMark reports whether the user already has a mark for the URL.
func (db *DB) HasMark(userID int64, urlStr string) (bool, error) {
	var exists bool
	err := db.db.QueryRow(`
		SELECT EXISTS (SELECT 1 FROM marks WHERE user_id = ? AND url = ?)
	`, userID, urlStr).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check for existing mark: %w", err)
	}
	return exists, nil
}

func (db *DB) ListMarks(userID int64, limit int) ([]Mark, error) {
	query := `
		SELECT id, user_id, url, title, notes, created_on, COALESCE(archived_on, ''), active
		FROM marks
		WHERE user_id = ?
		ORDER BY created_on DESC
	`
	var rows *sql.Rows
	var err error
	if limit > 0 {
		rows, err = db.db.Query(query+" LIMIT ?", userID, limit)
	} else {
		rows, err = db.db.Query(query, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list marks: %w", err)
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

// ImportMark persists one extracted draft and classifies the result for the
// import tally. It implements delicious.Marker.
//
// Classification:
//   - URL missing or invalid: failed. The extractor passes such drafts
//     through on purpose; rejection happens here.
//   - user already has the URL: skipped
//   - inserted: added
//   - store error that fits none of the above: nil, outcome unreported
func (db *DB) ImportMark(userID int64, d delicious.Draft) *delicious.MarkResult {
	if err := ValidateMarkURL(d.URL); err != nil {
		return &delicious.MarkResult{Outcome: delicious.OutcomeFailed}
	}

	exists, err := db.HasMark(userID, d.URL)
	if err != nil {
		log.Printf("Import: duplicate check failed for %q: %v", d.URL, err)
		return nil
	}
	if exists {
		return &delicious.MarkResult{Outcome: delicious.OutcomeSkipped}
	}

	if _, err := db.AddMark(Mark{
		UserID:    userID,
		URL:       d.URL,
		Title:     d.Title,
		Notes:     d.Notes,
		CreatedOn: d.CreatedOn,
		Active:    d.Active,
	}); err != nil {
		if errors.Is(err, ErrInvalidURL) {
			return &delicious.MarkResult{Outcome: delicious.OutcomeFailed}
		}
		log.Printf("Import: insert failed for %q: %v", d.URL, err)
		return nil
	}

	return &delicious.MarkResult{Outcome: delicious.OutcomeAdded}
}
