package main

import (
	"os"
	"testing"

	"github.com/joho/godotenv"
	"github.com/pterm/pterm"
)

// TestMain loads .env if available and turns off terminal styling.
func TestMain(m *testing.M) {
	_ = godotenv.Load()
	pterm.DisableStyling()

	os.Exit(m.Run())
}
