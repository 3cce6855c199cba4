/*
Copyright © 2025 Katie Mulliken <katie@mulliken.net>
*/
package cmd

import (
	"log"
	"os"

	"github.com/seckatie/delimport/internal/core/db"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "delimport",
	Short: "Import Delicious bookmark exports into a local mark store",
	Long: `delimport reads the bookmark export files the Delicious service produced
(a dialect of the Netscape bookmark HTML format) and imports each entry as
a mark in a local SQLite database.

Descriptions and tags from the export are folded into each mark's notes,
duplicates are skipped, and entries without a usable URL are counted as
failed. Imported marks can optionally be snapshotted with a headless
Chrome so the pages survive even after the originals go offline.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("db", "d", "delimport.db", "Path to the SQLite database file")
}

func initDB(cmd *cobra.Command) (*db.DB, error) {
	dbPath, err := cmd.Flags().GetString("db")
	if err != nil {
		log.Fatalf("Failed to get database path: %v", err)
	}
	database, err := db.NewSQLiteDB(dbPath)
	if err != nil {
		log.Fatalf("Failed to create database: %v", err)
	}

	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	return database, nil
}
