package db

// Mark is a persisted bookmark record owned by a user.
type Mark struct {
	ID     int64
	UserID int64
	URL    string
	Title  string
	Notes  string
	// CreatedOn is stored in the DB as civil date-time text
	// ("2006-01-02 15:04:05").
	CreatedOn string
	// ArchivedOn is empty for every imported mark; imports never archive.
	ArchivedOn string
	Active     bool
}

// MarkSnapshot is the captured page state for a mark, if a snapshot has
// been attempted.
type MarkSnapshot struct {
	MarkID              int64
	SnapshotURL         string
	SnapshotHTML        string
	SnapshotAttemptedAt string
	SnapshotAt          string
	SnapshotStatus      string
	SnapshotError       string
}
