package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/gamingwithevets/quizprog-gui/internal/domain"
	"github.com/jackc/pgx/v4/pgxpool"
)

// LibraryEntry summarises one stored quiz.
type LibraryEntry struct {
	ID        string
	Title     string
	UpdatedAt time.Time
}

// QuizLibrary stores quiz documents by id so they can be shared between
// machines and served by the playback bridge.
type QuizLibrary struct {
	pool *pgxpool.Pool
}

func NewQuizLibrary(pool *pgxpool.Pool) *QuizLibrary {
	return &QuizLibrary{pool: pool}
}

// Put validates quiz and upserts it under id in its saved (defaults stripped) form.
func (l *QuizLibrary) Put(ctx context.Context, id string, quiz *domain.Quiz) error {
	if err := domain.Validate(quiz); err != nil {
		return err
	}
	data, err := domain.Encode(quiz, 0)
	if err != nil {
		return fmt.Errorf("encode quiz: %w", err)
	}
	_, err = l.pool.Exec(ctx, `
INSERT INTO quizzes (id, title, data, updated_at) VALUES ($1, $2, $3::jsonb, now())
ON CONFLICT (id) DO UPDATE SET title = EXCLUDED.title, data = EXCLUDED.data, updated_at = now()`,
		id, quiz.Title, string(data))
	if err != nil {
		return fmt.Errorf("store quiz: %w", err)
	}
	return nil
}

// List returns every stored quiz ordered by id.
func (l *QuizLibrary) List(ctx context.Context) ([]LibraryEntry, error) {
	rows, err := l.pool.Query(ctx, `SELECT id, title, updated_at FROM quizzes ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}
	defer rows.Close()

	var entries []LibraryEntry
	for rows.Next() {
		var e LibraryEntry
		if err := rows.Scan(&e.ID, &e.Title, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan quiz: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Delete removes id; it reports whether a row existed.
func (l *QuizLibrary) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := l.pool.Exec(ctx, `DELETE FROM quizzes WHERE id=$1`, id)
	if err != nil {
		return false, fmt.Errorf("delete quiz: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// IDs lists the stored quiz ids.
func (l *QuizLibrary) IDs(ctx context.Context) ([]string, error) {
	entries, err := l.List(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}
	return ids, nil
}
