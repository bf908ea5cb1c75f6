package main

import (
	"github.com/spf13/cobra"

	"github.com/yieldcanary/yieldcanary/db"
	"github.com/yieldcanary/yieldcanary/pkg/pg"
)

func migrateCmd(load configLoader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			cfg, err := load()
			if err != nil {
				return err
			}
			log := newLogger(cfg)

			pool, err := pg.Connect(ctx, cfg.DB)
			if err != nil {
				return err
			}
			defer pool.Close()

			return pg.Migrate(ctx, pool, db.Migrations, db.MigrationsDir, cfg.DB, log)
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show the state of every migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			cfg, err := load()
			if err != nil {
				return err
			}

			pool, err := pg.Connect(ctx, cfg.DB)
			if err != nil {
				return err
			}
			defer pool.Close()

			return pg.MigrationStatus(ctx, pool, db.Migrations, db.MigrationsDir, cfg.DB, newLogger(cfg))
		},
	})

	return cmd
}
