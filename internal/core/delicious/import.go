package delicious

import "errors"

// Outcome classifies what a mark store did with one draft. The tally uses
// the value verbatim as a counter name, so stores must report exactly one
// of these three.
type Outcome string

const (
	OutcomeAdded   Outcome = "added"
	OutcomeSkipped Outcome = "skipped"
	OutcomeFailed  Outcome = "failed"
)

// MarkResult is the structured result a Marker reports for one draft.
type MarkResult struct {
	Outcome Outcome
}

// Marker persists one draft at a time on behalf of a user.
//
// A nil return means the store did not report an outcome for the draft;
// the run's counters are left untouched in that case. That is distinct
// from reporting OutcomeFailed.
type Marker interface {
	ImportMark(userID int64, d Draft) *MarkResult
}

// Tally counts per-draft outcomes across one import run. Total equals
// Added + Skipped + Failed once the run completes.
type Tally struct {
	Total   int
	Added   int
	Skipped int
	Failed  int
}

// record folds one reported outcome into the tally.
func (t *Tally) record(o Outcome) {
	t.Total++
	switch o {
	case OutcomeAdded:
		t.Added++
	case OutcomeSkipped:
		t.Skipped++
	case OutcomeFailed:
		t.Failed++
	}
}

// Meta carries format metadata for an import run.
type Meta struct {
	ExportVersion int
}

// ImportRun is the aggregate result of one import invocation. Runs are
// never reused; ImportFile returns a fresh one each time.
type ImportRun struct {
	UserID int64
	Meta   Meta
	Result Tally
}

// Importer drives whole-file imports for a single user against a Marker.
type Importer struct {
	marker Marker
	userID int64
}

// NewImporter returns an importer bound to a user and a mark store.
func NewImporter(marker Marker, userID int64) (*Importer, error) {
	if marker == nil {
		return nil, errors.New("no mark store for import")
	}
	if userID <= 0 {
		return nil, errors.New("no user id for import")
	}
	return &Importer{marker: marker, userID: userID}, nil
}

// ImportFile validates the upload and imports every draft it contains.
//
// Drafts are handed to the store one at a time, in document order, with no
// overlap between calls: duplicate detection in the store may depend on
// earlier drafts from the same run, and the tally's Total must equal the
// number of processed drafts exactly.
//
// A validation failure aborts before the first persistence call and no
// partial tally is produced. A per-draft failure never aborts the run; it
// is counted and the run continues.
func (imp *Importer) ImportFile(upload UploadedFile) (*ImportRun, error) {
	export, err := Validate(upload)
	if err != nil {
		return nil, err
	}

	run := &ImportRun{
		UserID: imp.userID,
		Meta:   Meta{ExportVersion: 1},
	}
	export.EachDraft(func(d Draft) {
		if res := imp.marker.ImportMark(imp.userID, d); res != nil {
			run.Result.record(res.Outcome)
		}
	})

	return run, nil
}
