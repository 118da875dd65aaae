package main

import (
	"context"

	"catalog-service/internal/database"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPool(cmd.Context(), func(pool *pgxpool.Pool, log *zap.Logger) error {
				return database.RunMigrations(pool, log)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Print the migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPool(cmd.Context(), func(pool *pgxpool.Pool, _ *zap.Logger) error {
				return database.GetMigrationStatus(pool)
			})
		},
	})

	return cmd
}

func withPool(ctx context.Context, fn func(*pgxpool.Pool, *zap.Logger) error) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	defer log.Sync()

	db, err := database.New(ctx, cfg.Database, log.Named("database"))
	if err != nil {
		return err
	}
	defer db.Close()

	return fn(db.Pool(), log.Named("migrations"))
}
