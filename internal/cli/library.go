package cli

import (
	"context"
	"fmt"

	"github.com/gamingwithevets/quizprog-gui/internal/app"
	"github.com/gamingwithevets/quizprog-gui/internal/domain"
	pgstore "github.com/gamingwithevets/quizprog-gui/internal/infra/postgres"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/spf13/cobra"
)

func newLibraryCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "library",
		Short: "Share quizzes through the Postgres quiz library",
	}

	withPool := func(ctx context.Context, fn func(*pgxpool.Pool) error) error {
		if rt.cfg.Postgres.URL == "" {
			return fmt.Errorf("postgres url not configured")
		}
		pool, err := pgxpool.Connect(ctx, rt.cfg.Postgres.URL)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer pool.Close()
		return fn(pool)
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "push <id> <path>",
		Short: "Upload a quiz file under id",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store := app.NewStore(rt.fs, rt.log, rt.cfg.Document.Indent)
			if _, err := store.OpenFile(args[1]); err != nil {
				return err
			}
			return withPool(cmd.Context(), func(pool *pgxpool.Pool) error {
				if err := pgstore.NewQuizLibrary(pool).Put(cmd.Context(), args[0], store.Document()); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Pushed %s as %q\n", args[1], args[0])
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "pull <id> <path>",
		Short: "Download a quiz into a file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPool(cmd.Context(), func(pool *pgxpool.Pool) error {
				quiz, err := pgstore.NewQuizLoader(pool).LoadQuiz(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				store := app.NewStore(rt.fs, rt.log, rt.cfg.Document.Indent)
				*store.Document() = quiz
				msg, err := store.SaveAs(args[1], !domain.UsesNativeFeatures(&quiz))
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), msg)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the stored quizzes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPool(cmd.Context(), func(pool *pgxpool.Pool) error {
				entries, err := pgstore.NewQuizLibrary(pool).List(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(entries) == 0 {
					fmt.Fprintln(out, "The library is empty.")
				}
				for _, e := range entries {
					fmt.Fprintf(out, "%-20s %-40s %s\n", e.ID, e.Title, e.UpdatedAt.Format("2006-01-02 15:04"))
				}
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a quiz from the library",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPool(cmd.Context(), func(pool *pgxpool.Pool) error {
				found, err := pgstore.NewQuizLibrary(pool).Delete(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if !found {
					return domain.ErrQuizNotFound
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %q\n", args[0])
				return nil
			})
		},
	})
	return cmd
}
