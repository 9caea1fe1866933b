package cli

import (
	"context"
	"database/sql"
	"fmt"

	pgmigrations "github.com/gamingwithevets/quizprog-gui/internal/infra/postgres/migrations"
	"github.com/spf13/cobra"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"
	"go.uber.org/zap"
)

// newMigrateCmd applies the quiz library schema.
func newMigrateCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the quiz library tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			if rt.cfg.Postgres.URL == "" {
				return fmt.Errorf("postgres url not configured")
			}
			return runMigrations(cmd.Context(), rt.cfg.Postgres.URL, rt.log)
		},
	}
}

func runMigrations(ctx context.Context, dsn string, log *zap.Logger) error {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		return fmt.Errorf("init migrations: %w", err)
	}
	group, err := migrator.Migrate(ctx)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	if group.IsZero() {
		log.Info("no new migrations")
		return nil
	}
	log.Info("migrations applied", zap.String("group", group.String()))
	return nil
}
