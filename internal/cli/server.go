package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gamingwithevets/quizprog-gui/internal/app"
	"github.com/gamingwithevets/quizprog-gui/internal/infra/file"
	"github.com/gamingwithevets/quizprog-gui/internal/infra/memory"
	pgstore "github.com/gamingwithevets/quizprog-gui/internal/infra/postgres"
	redisstore "github.com/gamingwithevets/quizprog-gui/internal/infra/redis"
	transport "github.com/gamingwithevets/quizprog-gui/internal/transport/http"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// newServeCmd builds the websocket playback bridge for an external
// presentation client.
func newServeCmd(rt *runtime) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve quiz playback over a local websocket",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = rt.cfg.Server.Addr
			}
			return runServer(cmd.Context(), rt, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default server.addr)")
	return cmd
}

func runServer(ctx context.Context, rt *runtime, addr string) error {
	cfg, log := rt.cfg, rt.log

	var loader memory.QuizLoader
	var lister transport.QuizLister
	if cfg.Postgres.URL != "" {
		if err := runMigrations(ctx, cfg.Postgres.URL, log); err != nil {
			return err
		}
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer pool.Close()
		loader = pgstore.NewQuizLoader(pool)
		lister = transport.QuizListerFunc(pgstore.NewQuizLibrary(pool).IDs)
	} else {
		dirLoader := file.NewQuizLoader(rt.fs, cfg.Server.QuizDir)
		loader, lister = dirLoader, dirLoader
	}

	var quizzes app.QuizRepository
	var sessions app.SessionRepository
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer client.Close()
		if err := client.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		quizzes = redisstore.NewQuizRepository(client, loader, cfg.Quiz.TTL, log)
		sessions = redisstore.NewSessionStore(client, cfg.Redis.TTL)
	} else {
		quizzes = memory.NewQuizRepository(loader, cfg.Quiz.TTL)
		sessions = memory.NewSessionStore()
	}

	service := app.NewPlaybackService(sessions, quizzes, log)
	wsHandler := transport.NewWSHandler(service, log)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/quizzes", transport.NewQuizListHandler(lister, log))
	mux.HandleFunc("/ws", wsHandler.ServeWS)

	server := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting playback bridge", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("listen on %s: %w", addr, err)
		}
		return nil
	case <-ctx.Done():
		log.Info("shutting down playback bridge")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
