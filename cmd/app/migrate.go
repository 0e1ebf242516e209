package main

import (
	"github.com/spf13/cobra"

	"itinera/cmd/fx/logger_fx"
	"itinera/internal/config"
	"itinera/internal/infra"
)

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			logger, err := logger_fx.NewLogger(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			db, err := infra.InitPostgresql(cfg, logger)
			if err != nil {
				return err
			}
			defer infra.ClosePostgresql(db, logger)

			if err := infra.AutoMigrate(db, cfg.EmbeddingsEnabled); err != nil {
				return err
			}
			logger.Info("schema migrated")
			return nil
		},
	}
}
