package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonkmatsumo/resume-builder/internal/store"
)

var migrateCommand = &cobra.Command{
	Use:   "migrate",
	Short: "Create the database tables",
	Long:  "Creates the users and resumes tables if they do not exist. Reads DATABASE_URL from the environment.",
	RunE:  migrateCmd,
}

var migrateDatabaseURL string

func init() {
	migrateCommand.Flags().StringVar(&migrateDatabaseURL, "db-url", "", "PostgreSQL connection URL (defaults to DATABASE_URL env var)")
	rootCmd.AddCommand(migrateCommand)
}

func migrateCmd(cmd *cobra.Command, _ []string) error {
	databaseURL := migrateDatabaseURL
	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required (flag --db-url or environment)")
	}

	ctx := context.Background()
	db, err := store.Connect(ctx, databaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		return err
	}

	log.Println("Migration complete")
	return nil
}
