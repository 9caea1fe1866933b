package redis

import (
	"context"
	"testing"
	"time"

	"github.com/gamingwithevets/quizprog-gui/internal/domain"
	"github.com/gamingwithevets/quizprog-gui/internal/infra/memory"
	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestQuizRepositoryCachesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := newClient(mr)

	loader := &countingLoader{
		QuizLoader: memory.NewStaticQuizLoader(map[string]domain.Quiz{
			"capitals": sampleQuiz(),
		}),
	}
	repo := NewQuizRepository(client, loader, time.Minute, nil)

	quiz, err := repo.GetQuiz(context.Background(), "capitals")
	if err != nil {
		t.Fatalf("get quiz: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader called once, got %d", loader.calls)
	}
	if !mr.Exists("quiz:capitals:doc") {
		t.Fatalf("expected cached document key")
	}

	// Second call should hit cache, loader not incremented.
	cached, err := repo.GetQuiz(context.Background(), "capitals")
	if err != nil {
		t.Fatalf("get cached quiz: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls=%d", loader.calls)
	}
	if cached.Title != quiz.Title || cached.LivesCount() != 2 || cached.WrongMsg[0] != "Try again!" {
		t.Fatalf("cached quiz lost data: %+v", cached)
	}
}

func TestQuizRepositoryIgnoresCorruptCacheEntry(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	if err := mr.Set("quiz:capitals:doc", `{"title": ""}`); err != nil {
		t.Fatalf("seed: %v", err)
	}
	loader := &countingLoader{
		QuizLoader: memory.NewStaticQuizLoader(map[string]domain.Quiz{
			"capitals": sampleQuiz(),
		}),
	}
	repo := NewQuizRepository(newClient(mr), loader, time.Minute, nil)

	quiz, err := repo.GetQuiz(context.Background(), "capitals")
	if err != nil {
		t.Fatalf("get quiz: %v", err)
	}
	if loader.calls != 1 || quiz.Title != "Capitals" {
		t.Fatalf("expected loader fallback, calls=%d quiz=%+v", loader.calls, quiz)
	}

	if err := repo.Invalidate(context.Background(), "capitals"); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	if mr.Exists("quiz:capitals:doc") {
		t.Fatalf("expected cache entry removed")
	}
}

type countingLoader struct {
	memory.QuizLoader
	calls int
}

func (l *countingLoader) LoadQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	l.calls++
	return l.QuizLoader.LoadQuiz(ctx, quizID)
}

func sampleQuiz() domain.Quiz {
	return domain.Quiz{
		Title: "Capitals",
		Questions: []domain.Question{
			{
				Question: "Capital of France?",
				A:        "Paris",
				B:        "Rome",
				C:        "Oslo",
				D:        "Bern",
				Correct:  domain.ChoiceA,
			},
		},
		Lives:    domain.Ptr(2),
		WrongMsg: []string{"Try again!"},
	}
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}
