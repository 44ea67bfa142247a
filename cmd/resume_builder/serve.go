package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonkmatsumo/resume-builder/internal/config"
	"github.com/jonkmatsumo/resume-builder/internal/server"
)

var serveCommand = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Starts the REST API server.

Reads DATABASE_URL, JWT_SECRET and optionally GEMINI_API_KEY from the
environment (or a .env file). --port overrides the PORT variable.`,
	RunE: serveCmd,
}

var servePort int

func init() {
	serveCommand.Flags().IntVarP(&servePort, "port", "p", 0, "Port to listen on (defaults to PORT env var or 3001)")
	rootCmd.AddCommand(serveCommand)
}

func serveCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := config.FromEnv()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if servePort != 0 {
		cfg.Port = servePort
	}

	s, err := server.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return s.Start()
}
