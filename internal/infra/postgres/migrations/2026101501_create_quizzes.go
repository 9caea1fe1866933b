package migrations

import (
	"context"
	_ "embed"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
)

var (
	//go:embed 0001_create_quizzes.up.sql
	quizzesUp string
	//go:embed 0001_create_quizzes.down.sql
	quizzesDown string
)

// Migrations holds the quiz library schema, applied by `quizprog migrate`
// and before `quizprog serve` when Postgres is configured.
var Migrations = migrate.NewMigrations()

func init() {
	Migrations.MustRegister(exec(quizzesUp), exec(quizzesDown))
}

func exec(query string) migrate.MigrationFunc {
	return func(ctx context.Context, db *bun.DB) error {
		_, err := db.ExecContext(ctx, query)
		return err
	}
}
