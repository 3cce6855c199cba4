/*
Copyright © 2025 Katie Mulliken <katie@mulliken.net>
*/
package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List a user's imported marks",
	Run: func(cmd *cobra.Command, args []string) {
		if err := runList(cmd); err != nil {
			log.Fatalf("List failed: %v", err)
		}
	},
}

func runList(cmd *cobra.Command) error {
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
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return fmt.Errorf("failed to read --limit: %w", err)
	}

	marks, err := database.ListMarks(userID, limit)
	if err != nil {
		return err
	}
	if len(marks) == 0 {
		fmt.Println("No marks found.")
		return nil
	}

	for _, m := range marks {
		fmt.Printf("%6d  %s  %s\n        %s\n", m.ID, m.CreatedOn, m.Title, m.URL)
	}
	fmt.Printf("%d mark(s)\n", len(marks))
	return nil
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().Int64P("user", "u", 0, "User id whose marks to list")
	listCmd.Flags().Int("limit", 0, "Limit the number of marks listed (0 = all)")
}
