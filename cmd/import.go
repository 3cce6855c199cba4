/*
Copyright © 2025 Katie Mulliken <katie@mulliken.net>
*/

// The import command reads a Delicious bookmark export file and imports its
// entries as marks for one user.
//
// Features:
//   - Validates the export before anything is written (upload integrity,
//     declared media type, Netscape doctype, tagged anchors).
//   - Imports entries in file order, one at a time, and reports a tally of
//     added/skipped/failed entries.
//   - Optionally snapshots each newly added mark with headless Chrome as
//     the import runs (--snapshot).
//
// Example usage:
//
//	delimport import --user=1 delicious_export.html
//	delimport import --user=1 --snapshot --snapshot-workers=2 delicious_export.html
package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/seckatie/delimport/internal/core"
	"github.com/seckatie/delimport/internal/core/db"
	"github.com/seckatie/delimport/internal/core/delicious"
	"github.com/spf13/cobra"
)

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import <export.html>",
	Short: "Import a Delicious bookmark export file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runImport(cmd, args[0]); err != nil {
			log.Fatalf("Import failed: %v", err)
		}
	},
}

// runImport is the main function for the import command.
func runImport(cmd *cobra.Command, path string) error {
	database, err := initDB(cmd)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer func() {
		if err := database.Close(); err != nil {
			log.Printf("failed to close database: %v", err)
		}
	}()

	userID, err := cmd.Flags().GetInt64("user")
	if err != nil {
		return fmt.Errorf("failed to read --user: %w", err)
	}
	contentType, err := cmd.Flags().GetString("type")
	if err != nil {
		return fmt.Errorf("failed to read --type: %w", err)
	}
	snapshot, err := cmd.Flags().GetBool("snapshot")
	if err != nil {
		return fmt.Errorf("failed to read --snapshot: %w", err)
	}
	workers, err := cmd.Flags().GetInt("snapshot-workers")
	if err != nil {
		return fmt.Errorf("failed to read --snapshot-workers: %w", err)
	}
	timeout, err := cmd.Flags().GetDuration("timeout")
	if err != nil {
		return fmt.Errorf("failed to read --timeout: %w", err)
	}
	chromePath, err := cmd.Flags().GetString("chrome-path")
	if err != nil {
		return fmt.Errorf("failed to read --chrome-path: %w", err)
	}
	headful, err := cmd.Flags().GetBool("headful")
	if err != nil {
		return fmt.Errorf("failed to read --headful: %w", err)
	}

	fi, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot read export file: %w", err)
	}

	upload := delicious.UploadedFile{
		Path:        path,
		Size:        fi.Size(),
		ContentType: contentType,
	}

	// When snapshotting, feed every newly added mark to a worker pool via
	// the DB event system. The import loop itself stays sequential; only
	// the page captures run concurrently.
	var wg sync.WaitGroup
	var queue chan db.Mark
	if snapshot {
		if workers < 1 {
			workers = 1
		}
		queue = make(chan db.Mark, workers*10)
		database.RegisterEventListener(db.OnMarkAddedEvent, func(event db.Event) error {
			ev := event.(db.MarkAddedEvent)
			queue <- ev.Mark
			return nil
		})

		opts := core.SnapshotOptions{
			ChromePath: chromePath,
			Headless:   !headful,
			Timeout:    timeout,
		}
		for i := 0; i < workers; i++ {
			workerID := i
			wg.Add(1)
			go func() {
				defer wg.Done()
				for m := range queue {
					if err := core.SnapshotAndPersist(context.Background(), database, m, opts); err != nil {
						log.Printf("Worker %d: snapshot failed for id=%d url=%s: %v", workerID, m.ID, m.URL, err)
					}
				}
			}()
		}
	}

	importer, err := delicious.NewImporter(database, userID)
	if err != nil {
		return err
	}

	run, err := importer.ImportFile(upload)
	if err != nil {
		return err
	}

	log.Printf("Import finished for user %d (export version %d): %d total, %d added, %d skipped, %d failed",
		run.UserID, run.Meta.ExportVersion,
		run.Result.Total, run.Result.Added, run.Result.Skipped, run.Result.Failed)

	if queue != nil {
		close(queue)
		wg.Wait()
	}
	return nil
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().Int64P("user", "u", 0, "User id that will own the imported marks")
	importCmd.Flags().String("type", delicious.TypeHTML, "Declared media type of the export file")
	importCmd.Flags().Bool("snapshot", false, "Snapshot each newly added mark with headless Chrome")
	importCmd.Flags().Int("snapshot-workers", 1, "Number of snapshot workers when --snapshot is set")
	importCmd.Flags().Duration("timeout", 40*time.Second, "Per-mark snapshot timeout")
	importCmd.Flags().String("chrome-path", "", "Path to Chrome/Chromium executable")
	importCmd.Flags().Bool("headful", false, "Run Chrome with a visible window (not headless)")
}
