package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/briefing-monitor/internal/config"
	"github.com/jonathan/briefing-monitor/internal/db"
)

var migrateCommand = &cobra.Command{
	Use:   "migrate",
	Short: "Create the run ledger tables",
	Long:  "Applies the embedded schema for brief_runs and brief_artifacts. Safe to run repeatedly.",
	RunE:  runMigrate,
}

var (
	migrateDatabaseURL string
	migratePrint       bool
)

func init() {
	migrateCommand.Flags().StringVar(&migrateDatabaseURL, "db-url", "", "PostgreSQL connection URL (defaults to DATABASE_URL env var)")
	migrateCommand.Flags().BoolVar(&migratePrint, "print", false, "Print the schema instead of applying it")

	rootCmd.AddCommand(migrateCommand)
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	if migratePrint {
		_, _ = fmt.Fprint(os.Stdout, db.Schema())
		return nil
	}

	databaseURL, err := databaseURLFrom(migrateDatabaseURL, os.Getenv)
	if err != nil {
		return err
	}

	database, err := db.Connect(cmd.Context(), databaseURL)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := database.Migrate(cmd.Context()); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(os.Stdout, "Schema applied.")
	return nil
}

// databaseURLFrom prefers the flag value and falls back to DATABASE_URL.
func databaseURLFrom(flagValue string, getenv func(string) string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if v := getenv(config.EnvDatabaseURL); v != "" {
		return v, nil
	}
	return "", fmt.Errorf("--db-url or %s is required", config.EnvDatabaseURL)
}
