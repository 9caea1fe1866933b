package app

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/gamingwithevets/quizprog-gui/internal/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SessionRepository abstracts where playback sessions are kept (in-memory, Redis, etc).
type SessionRepository interface {
	Save(session *Session)
	Get(id string) (*Session, bool)
	Delete(id string)
}

// QuizRepository loads validated quiz documents by id (from cache/backing store).
type QuizRepository interface {
	GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error)
}

// PlaybackService hands out session handles and routes playback calls to them.
type PlaybackService struct {
	sessions SessionRepository
	quizzes  QuizRepository
	log      *zap.Logger
	newRand  func() *rand.Rand
}

func NewPlaybackService(store SessionRepository, quizzes QuizRepository, log *zap.Logger) *PlaybackService {
	return NewPlaybackServiceWithRand(store, quizzes, log, func() *rand.Rand {
		return rand.New(rand.NewSource(time.Now().UnixNano()))
	})
}

// NewPlaybackServiceWithRand is test-only for deterministic shuffles and comment picks.
func NewPlaybackServiceWithRand(store SessionRepository, quizzes QuizRepository, log *zap.Logger, newRand func() *rand.Rand) *PlaybackService {
	if log == nil {
		log = zap.NewNop()
	}
	return &PlaybackService{sessions: store, quizzes: quizzes, log: log, newRand: newRand}
}

// StartSession begins a session over a copy of quiz and returns its handle.
// A quiz that fails validation is a caller bug and is reported as an error.
func (s *PlaybackService) StartSession(_ context.Context, quiz domain.Quiz) (string, error) {
	id := uuid.NewString()
	session, err := NewSession(id, quiz, s.newRand())
	if err != nil {
		s.log.Error("refusing to start session", zap.String("title", quiz.Title), zap.Error(err))
		return "", fmt.Errorf("start session: %w", err)
	}
	s.sessions.Save(session)
	s.log.Debug("session started", zap.String("session", id), zap.String("title", quiz.Title))
	return id, nil
}

// StartQuiz loads quizID from the repository and starts a session on it.
func (s *PlaybackService) StartQuiz(ctx context.Context, quizID string) (string, error) {
	if s.quizzes == nil {
		return "", domain.ErrQuizNotFound
	}
	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return "", err
	}
	return s.StartSession(ctx, quiz)
}

// Advance starts the session or dismisses an explanation.
func (s *PlaybackService) Advance(_ context.Context, id string) (Snapshot, error) {
	session, ok := s.sessions.Get(id)
	if !ok {
		return Snapshot{}, domain.ErrSessionNotFound
	}
	return session.Advance()
}

// Answer resolves a choice letter for the session's current question.
func (s *PlaybackService) Answer(_ context.Context, id, choice string) (Outcome, error) {
	session, ok := s.sessions.Get(id)
	if !ok {
		return Outcome{}, domain.ErrSessionNotFound
	}
	out, err := session.Answer(choice)
	if err != nil {
		return Outcome{}, err
	}
	if out.Kind == OutcomeGameOver || out.Kind == OutcomeComplete {
		s.log.Debug("session finished", zap.String("session", id), zap.String("outcome", string(out.Kind)))
	}
	return out, nil
}

// Restart resets a won or lost session.
func (s *PlaybackService) Restart(_ context.Context, id string) (Snapshot, error) {
	session, ok := s.sessions.Get(id)
	if !ok {
		return Snapshot{}, domain.ErrSessionNotFound
	}
	return session.Restart()
}

// Current returns the session's current screen.
func (s *PlaybackService) Current(_ context.Context, id string) (Snapshot, error) {
	session, ok := s.sessions.Get(id)
	if !ok {
		return Snapshot{}, domain.ErrSessionNotFound
	}
	return session.Snapshot(), nil
}

// End drops the session.
func (s *PlaybackService) End(_ context.Context, id string) {
	s.sessions.Delete(id)
}
