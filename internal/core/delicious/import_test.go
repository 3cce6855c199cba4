package delicious

import (
	"errors"
	"testing"
)

// stubMarker reports a scripted sequence of results and records every draft
// it is handed.
type stubMarker struct {
	results []*MarkResult
	userIDs []int64
	drafts  []Draft
}

func (s *stubMarker) ImportMark(userID int64, d Draft) *MarkResult {
	s.userIDs = append(s.userIDs, userID)
	s.drafts = append(s.drafts, d)
	if len(s.results) == 0 {
		return nil
	}
	res := s.results[0]
	s.results = s.results[1:]
	return res
}

func TestNewImporter(t *testing.T) {
	t.Run("requires a mark store", func(t *testing.T) {
		if _, err := NewImporter(nil, 1); err == nil {
			t.Error("expected error for nil marker")
		}
	})

	t.Run("requires a user id", func(t *testing.T) {
		if _, err := NewImporter(&stubMarker{}, 0); err == nil {
			t.Error("expected error for missing user id")
		}
	})

	t.Run("valid arguments", func(t *testing.T) {
		imp, err := NewImporter(&stubMarker{}, 7)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if imp == nil {
			t.Fatal("expected an importer")
		}
	})
}

// twoAnchorExport has one anchor with tags and a description and one with
// neither.
const twoAnchorExport = `<!DOCTYPE NETSCAPE-Bookmark-file-1>
<TITLE>Bookmarks</TITLE>
<H1>Bookmarks</H1>
<DL><p>
<DT><A HREF="https://one.example/" ADD_DATE="1288873838" TAGS="dev">One</A>
<DD>nice site
<DT><A HREF="https://two.example/" ADD_DATE="1288873839">Two</A>
</DL><p>
`

func TestImportFile(t *testing.T) {
	t.Run("tallies reported outcomes", func(t *testing.T) {
		marker := &stubMarker{results: []*MarkResult{
			{Outcome: OutcomeAdded},
			{Outcome: OutcomeSkipped},
		}}
		imp, _ := NewImporter(marker, 7)

		run, err := imp.ImportFile(writeUpload(t, twoAnchorExport))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if run.UserID != 7 {
			t.Errorf("UserID = %d, want 7", run.UserID)
		}
		if run.Meta.ExportVersion != 1 {
			t.Errorf("ExportVersion = %d, want 1", run.Meta.ExportVersion)
		}
		want := Tally{Total: 2, Added: 1, Skipped: 1, Failed: 0}
		if run.Result != want {
			t.Errorf("Result = %+v, want %+v", run.Result, want)
		}
	})

	t.Run("drafts reach the store in document order", func(t *testing.T) {
		marker := &stubMarker{}
		imp, _ := NewImporter(marker, 7)

		if _, err := imp.ImportFile(writeUpload(t, twoAnchorExport)); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if len(marker.drafts) != 2 {
			t.Fatalf("expected 2 store calls, got %d", len(marker.drafts))
		}
		if marker.drafts[0].URL != "https://one.example/" || marker.drafts[1].URL != "https://two.example/" {
			t.Errorf("store saw %q then %q", marker.drafts[0].URL, marker.drafts[1].URL)
		}
		for _, id := range marker.userIDs {
			if id != 7 {
				t.Errorf("store called with user %d, want 7", id)
			}
		}
	})

	t.Run("unreported outcomes leave the tally alone", func(t *testing.T) {
		// A nil result means the store declined to classify the draft;
		// that is distinct from reporting a failure.
		marker := &stubMarker{results: []*MarkResult{
			{Outcome: OutcomeAdded},
			nil,
		}}
		imp, _ := NewImporter(marker, 7)

		run, err := imp.ImportFile(writeUpload(t, twoAnchorExport))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		want := Tally{Total: 1, Added: 1}
		if run.Result != want {
			t.Errorf("Result = %+v, want %+v", run.Result, want)
		}
		if len(marker.drafts) != 2 {
			t.Errorf("expected both drafts to reach the store, got %d", len(marker.drafts))
		}
	})

	t.Run("total equals added plus skipped plus failed", func(t *testing.T) {
		marker := &stubMarker{results: []*MarkResult{
			{Outcome: OutcomeFailed},
			{Outcome: OutcomeAdded},
		}}
		imp, _ := NewImporter(marker, 7)

		run, err := imp.ImportFile(writeUpload(t, twoAnchorExport))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		r := run.Result
		if r.Total != r.Added+r.Skipped+r.Failed {
			t.Errorf("tally out of balance: %+v", r)
		}
	})

	t.Run("validation failure aborts before any store call", func(t *testing.T) {
		marker := &stubMarker{}
		imp, _ := NewImporter(marker, 7)

		upload := writeUpload(t, twoAnchorExport)
		upload.ContentType = "text/plain"

		run, err := imp.ImportFile(upload)
		if !errors.Is(err, ErrWrongFileType) {
			t.Errorf("expected ErrWrongFileType, got %v", err)
		}
		if run != nil {
			t.Errorf("expected no partial run, got %+v", run)
		}
		if len(marker.drafts) != 0 {
			t.Errorf("store was called %d time(s) before validation failed", len(marker.drafts))
		}
	})
}
