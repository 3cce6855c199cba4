/*
Copyright © 2025 Katie Mulliken <katie@mulliken.net>
*/

// The snapshot command captures imported marks' pages with headless Chrome
// and stores the rendered HTML in the database.
//
// Features:
//   - Snapshot a single mark by specifying its ID.
//   - Snapshot marks in batch, limited or all pending.
//   - Requeue a previously captured mark for a fresh snapshot.
//   - Customize the Chrome/Chromium executable path, headless/headful mode,
//     per-page timeout, and an optional CSS selector to wait for.
//
// Example usage:
//
//	delimport snapshot --id=123 --timeout=30s --wait-selector=".content"
//	delimport snapshot --limit=10
//	delimport snapshot --requeue=123
package cmd

import (
	"context"
	"fmt"
	"log"
	"runtime"
	"time"

	"github.com/seckatie/delimport/internal/core"
	"github.com/spf13/cobra"
)

// snapshotCmd represents the snapshot command
var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Snapshot (scrape) imported marks into the database",
	Run: func(cmd *cobra.Command, args []string) {
		if err := runSnapshot(cmd); err != nil {
			log.Fatalf("Snapshot failed: %v", err)
		}
	},
}

// runSnapshot is the main function for the snapshot command.
func runSnapshot(cmd *cobra.Command) error {
	database, err := initDB(cmd)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer func() {
		if err := database.Close(); err != nil {
			log.Printf("failed to close database: %v", err)
		}
	}()

	id, err := cmd.Flags().GetInt64("id")
	if err != nil {
		return fmt.Errorf("failed to read --id: %w", err)
	}
	requeue, err := cmd.Flags().GetInt64("requeue")
	if err != nil {
		return fmt.Errorf("failed to read --requeue: %w", err)
	}
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return fmt.Errorf("failed to read --limit: %w", err)
	}
	timeout, err := cmd.Flags().GetDuration("timeout")
	if err != nil {
		return fmt.Errorf("failed to read --timeout: %w", err)
	}
	waitSelector, err := cmd.Flags().GetString("wait-selector")
	if err != nil {
		return fmt.Errorf("failed to read --wait-selector: %w", err)
	}
	chromePath, err := cmd.Flags().GetString("chrome-path")
	if err != nil {
		return fmt.Errorf("failed to read --chrome-path: %w", err)
	}
	headful, err := cmd.Flags().GetBool("headful")
	if err != nil {
		return fmt.Errorf("failed to read --headful: %w", err)
	}

	if requeue > 0 {
		if err := database.RequeueSnapshot(requeue); err != nil {
			return err
		}
		log.Printf("Mark %d requeued for snapshotting", requeue)
		if id == 0 {
			id = requeue
		}
	}

	if chromePath == "" && runtime.GOOS == "darwin" {
		// Best-effort default for macOS.
		chromePath = "/Applications/Google Chrome.app/Contents/MacOS/Google Chrome"
	}

	opts := core.SnapshotRunOptions{
		ID:    id,
		Limit: limit,
		Options: core.SnapshotOptions{
			ChromePath:   chromePath,
			Headless:     !headful,
			Timeout:      timeout,
			WaitSelector: waitSelector,
		},
	}

	res, err := core.RunSnapshots(context.Background(), database, opts)
	if err != nil {
		return err
	}

	log.Printf("Snapshot run complete: %d attempted, %d succeeded, %d failed",
		res.Attempted, res.Succeeded, res.Failed)
	return nil
}

func init() {
	rootCmd.AddCommand(snapshotCmd)

	snapshotCmd.Flags().Int64("id", 0, "Snapshot a specific mark id")
	snapshotCmd.Flags().Int64("requeue", 0, "Clear a mark's snapshot and capture it again")
	snapshotCmd.Flags().Int("limit", 0, "Limit the number of marks to snapshot (0 = all pending)")
	snapshotCmd.Flags().Duration("timeout", 40*time.Second, "Per-mark snapshot timeout")
	snapshotCmd.Flags().String("wait-selector", "", "Optional CSS selector to wait for (useful for JS-heavy pages)")
	snapshotCmd.Flags().String("chrome-path", "", "Path to Chrome/Chromium executable")
	snapshotCmd.Flags().Bool("headful", false, "Run Chrome with a visible window (not headless)")
}
