// Package main provides the entry point for the Six Figure Jobs CLI and API
// server.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jonathan/sixfigure-jobs/internal/config"
	"github.com/jonathan/sixfigure-jobs/internal/db"
)

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "sixfigure",
	Short: "Six Figure Jobs salary tooling",
	Long:  "Ingest job postings, normalize and classify their salaries, repair stored data and serve the listing API.",
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to JSON config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print detailed output")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig resolves the config file, environment and defaults.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Resolve(configPath)
	if err != nil {
		return nil, err
	}
	if verbose {
		cfg.Verbose = true
	}
	return cfg, nil
}

// openDB connects and applies migrations.
func openDB(ctx context.Context, cfg *config.Config) (*db.DB, error) {
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable or database_url config is required")
	}
	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(ctx); err != nil {
		database.Close()
		return nil, err
	}
	return database, nil
}
