package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	root := &cobra.Command{
		Use:   "dashcore",
		Short: "Customer dashboard API with event relays and token-invalidated caching",
		Long: `dashcore serves the customer dashboard API.

Writes raise domain events that are delivered to a structured log, an optional
webhook and an optional AMQP topic exchange. Reads are cached per family and
invalidated by the commands that change them.

Examples:
  dashcore serve
  dashcore migrate up
  dashcore migrate down`,
		SilenceUsage: true,
	}
	root.AddCommand(newServeCommand(), newMigrateCommand())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newLogger builds a production zap logger at the configured level.
func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = lvl
	return cfg.Build()
}
