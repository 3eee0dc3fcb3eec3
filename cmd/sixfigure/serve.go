package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/sixfigure-jobs/internal/config"
	"github.com/jonathan/sixfigure-jobs/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server exposing job listings with salary filters, salary normalization and band lookup.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (default PORT or 8080)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if servePort != 0 {
		cfg.Port = servePort
	}

	registry, err := config.LoadBands(cfg.BandsFile)
	if err != nil {
		return err
	}

	database, err := openDB(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	// The server opens its own pool; this one only ran migrations.
	database.Close()

	srv, err := server.New(server.Config{
		Port:        cfg.Port,
		DatabaseURL: cfg.DatabaseURL,
		Salaries:    registry,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
