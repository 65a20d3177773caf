package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/notifyhub/dashcore/internal/config"
	"github.com/notifyhub/dashcore/internal/db"
)

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down]",
		Short:     "Apply or roll back database migrations",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger, err := newLogger(cfg.LogLevel)
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			direction := "up"
			if len(args) == 1 {
				direction = args[0]
			}

			switch direction {
			case "down":
				err = db.Rollback(cfg.DatabaseURL, cfg.MigrationsPath)
			default:
				err = db.Migrate(cfg.DatabaseURL, cfg.MigrationsPath)
			}
			if err != nil {
				return fmt.Errorf("migrate %s: %w", direction, err)
			}
			logger.Info("database migrations applied", zap.String("direction", direction))
			return nil
		},
	}
}
