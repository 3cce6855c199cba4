package core

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/seckatie/delimport/internal/core/db"
)

// SnapshotOptions controls how a mark's page is fetched and captured.
//
// This uses a real Chrome/Chromium browser (via the DevTools protocol) so
// that JS-heavy pages have a chance to fully render before we snapshot the
// final HTML. Many imported bookmarks are years old; captures of dead pages
// come back as errors, not as empty snapshots.
type SnapshotOptions struct {
	// ChromePath optionally overrides the Chrome/Chromium executable path.
	// If empty, chromedp will try to find a browser on PATH / default locations.
	ChromePath string
	// Headless controls whether Chrome runs without a visible window.
	Headless bool
	// Timeout is the per-page deadline for navigation + rendering + capture.
	// If <= 0, DefaultSnapshotTimeout is used.
	Timeout time.Duration
	// WaitSelector optionally waits for a CSS selector to become visible
	// before capturing the page. Useful for SPAs that render late.
	WaitSelector string
}

// SnapshotResult is the captured output of snapshotting a single mark's page.
type SnapshotResult struct {
	// FinalURL is the browser's final URL after redirects.
	FinalURL string
	// Title is the document title if available (may be empty).
	Title string
	// HTML is the final rendered document HTML (outerHTML of <html>).
	HTML string
}

// SnapshotRunOptions describes a snapshot run: either a single mark by ID,
// or a batch of marks that have never been snapshotted.
type SnapshotRunOptions struct {
	// ID, if > 0, snapshots only the mark with this ID.
	ID int64
	// Limit bounds the number of marks processed in batch mode.
	// If <= 0, all pending marks are processed.
	Limit int
	// Options are passed through to the underlying browser capture.
	Options SnapshotOptions
}

// SnapshotRunResult reports the outcome of a snapshot run.
type SnapshotRunResult struct {
	Attempted int
	Succeeded int
	Failed    int
}

// SnapshotPage loads a URL in Chrome and returns the final rendered HTML.
//
// The function navigates to the URL, waits for the page's network to go
// idle and for <body> (plus opts.WaitSelector, when set) to be ready, then
// captures the final URL, document.title, and <html> outerHTML. Pages
// behind paywalls/CAPTCHAs/login walls are not worked around; those
// failures come back as errors.
func SnapshotPage(ctx context.Context, url string, opts SnapshotOptions) (SnapshotResult, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultSnapshotTimeout
	}

	allocatorOpts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	allocatorOpts = append(allocatorOpts,
		chromedp.NoDefaultBrowserCheck,
		chromedp.NoFirstRun,
	)
	if opts.ChromePath != "" {
		allocatorOpts = append(allocatorOpts, chromedp.ExecPath(opts.ChromePath))
	}
	if opts.Headless {
		allocatorOpts = append(allocatorOpts, chromedp.Headless)
	} else {
		allocatorOpts = append(allocatorOpts, chromedp.Flag("headless", false))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocatorOpts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	runCtx, cancelRun := context.WithTimeout(browserCtx, opts.Timeout)
	defer cancelRun()

	var html string
	var title string
	var finalURL string

	// Navigate and hold until the page's network goes idle so late-loading
	// resources make it into the capture.
	navigateUntilIdle := func(ctx context.Context) error {
		if err := page.SetLifecycleEventsEnabled(true).Do(ctx); err != nil {
			return err
		}

		ch := make(chan struct{})
		chromedp.ListenTarget(ctx, func(ev interface{}) {
			if e, ok := ev.(*page.EventLifecycleEvent); ok {
				if e.Name == "networkIdle" {
					select {
					case ch <- struct{}{}:
					default:
					}
				}
			}
		})

		if err := chromedp.Navigate(url).Do(ctx); err != nil {
			return err
		}

		select {
		case <-ch:
		case <-ctx.Done():
			return ctx.Err()
		}

		return nil
	}

	actions := []chromedp.Action{
		chromedp.ActionFunc(navigateUntilIdle),
		chromedp.WaitReady("body", chromedp.ByQuery),
	}
	if strings.TrimSpace(opts.WaitSelector) != "" {
		actions = append(actions, chromedp.WaitVisible(opts.WaitSelector, chromedp.ByQuery))
	}
	// Small delay to allow any final JS execution after network idle
	actions = append(actions,
		chromedp.Sleep(DefaultNetworkIdleDelay),
		chromedp.Location(&finalURL),
		chromedp.Title(&title),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)

	if err := chromedp.Run(runCtx, actions...); err != nil {
		return SnapshotResult{}, err
	}

	// Some pages leave document.title blank; fall back to parsing <title>
	// out of the captured HTML.
	if strings.TrimSpace(title) == "" && strings.TrimSpace(html) != "" {
		if doc, err := goquery.NewDocumentFromReader(strings.NewReader(html)); err == nil {
			title = strings.TrimSpace(doc.Find("title").First().Text())
		}
	}

	return SnapshotResult{
		FinalURL: finalURL,
		Title:    title,
		HTML:     html,
	}, nil
}

// SnapshotAndPersist snapshots a mark's URL and stores the result.
//
// On success it writes snapshot_attempted_at, snapshot_at, status "ok", the
// final URL, and the captured HTML. On failure it still records the attempt
// with status "error" and the error message, so the mark is not retried on
// every batch run.
func SnapshotAndPersist(ctx context.Context, database *db.DB, m db.Mark, opts SnapshotOptions) error {
	attemptedAt := time.Now()

	res, err := SnapshotPage(ctx, m.URL, opts)
	if err != nil {
		saveErr := database.SaveSnapshotResult(m.ID, attemptedAt, nil, SnapshotStatusError, err.Error(), "", "")
		if saveErr != nil {
			return fmt.Errorf("snapshot failed (%v) and saving failure failed (%v)", err, saveErr)
		}
		return err
	}

	snapAt := time.Now()
	if err := database.SaveSnapshotResult(m.ID, attemptedAt, &snapAt, SnapshotStatusOK, "", res.FinalURL, res.HTML); err != nil {
		return err
	}

	log.Printf("Snapshotted mark id=%d url=%s", m.ID, m.URL)
	return nil
}

// RunSnapshots is the top-level snapshot workflow.
//
// It supports single-mark mode (opts.ID > 0) and batch mode (marks with no
// snapshot attempt yet, optionally limited). It returns a SnapshotRunResult
// plus an error if any mark failed to snapshot.
func RunSnapshots(ctx context.Context, database *db.DB, opts SnapshotRunOptions) (SnapshotRunResult, error) {
	if opts.ID > 0 {
		m, err := database.GetMark(opts.ID)
		if err != nil {
			return SnapshotRunResult{}, err
		}
		if err := SnapshotAndPersist(ctx, database, m, opts.Options); err != nil {
			return SnapshotRunResult{Attempted: 1, Failed: 1}, err
		}
		return SnapshotRunResult{Attempted: 1, Succeeded: 1}, nil
	}

	marks, err := database.ListMarksToSnapshot(opts.Limit)
	if err != nil {
		return SnapshotRunResult{}, err
	}
	if len(marks) == 0 {
		log.Println("No marks to snapshot.")
		return SnapshotRunResult{}, nil
	}

	log.Printf("Snapshotting %d mark(s)...", len(marks))
	var res SnapshotRunResult
	for _, m := range marks {
		res.Attempted++
		if err := SnapshotAndPersist(ctx, database, m, opts.Options); err != nil {
			res.Failed++
			log.Printf("Snapshot failed for id=%d url=%s: %v", m.ID, m.URL, err)
			continue
		}
		res.Succeeded++
	}

	if res.Failed > 0 {
		return res, fmt.Errorf("snapshotting finished with %d failure(s)", res.Failed)
	}

	return res, nil
}
