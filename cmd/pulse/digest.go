package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/marketpulse/pulse/internal/app"
	"github.com/marketpulse/pulse/internal/logger"
)

var digestCmd = &cobra.Command{
	Use:   "digest",
	Short: "Run one digest pass and print the result",
	RunE:  runDigest,
}

func init() {
	rootCmd.AddCommand(digestCmd)
}

func runDigest(cmd *cobra.Command, args []string) error {
	log := logger.Must(debug)
	defer log.Sync()

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}

	a, err := app.New(cfg, log)
	if err != nil {
		return fmt.Errorf("building app: %w", err)
	}

	record, err := a.RunDigestOnce(context.Background())
	if err != nil {
		return fmt.Errorf("running digest: %w", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(record)
}
