package http

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// QuizLister names the quizzes a presentation client may start.
type QuizLister interface {
	List(ctx context.Context) ([]string, error)
}

type QuizListerFunc func(ctx context.Context) ([]string, error)

func (f QuizListerFunc) List(ctx context.Context) ([]string, error) { return f(ctx) }

// NewQuizListHandler serves GET /quizzes as {"quizzes": [...ids]}.
func NewQuizListHandler(lister QuizLister, log *zap.Logger) http.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		ids, err := lister.List(r.Context())
		if err != nil {
			log.Warn("list quizzes failed", zap.Error(err))
			http.Error(w, "cannot list quizzes", http.StatusInternalServerError)
			return
		}
		if ids == nil {
			ids = []string{}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string][]string{"quizzes": ids})
	}
}
