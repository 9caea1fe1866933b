package app

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"

	"github.com/gamingwithevets/quizprog-gui/internal/domain"
)

// State is the screen a playback session is on.
type State int

const (
	StateNotStarted State = iota
	StateShowing
	StateExplaining
	StateWon
	StateLost
)

func (s State) String() string {
	switch s {
	case StateShowing:
		return "showing"
	case StateExplaining:
		return "explaining"
	case StateWon:
		return "won"
	case StateLost:
		return "lost"
	default:
		return "not_started"
	}
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Terminal reports whether the session has been won or lost.
func (s State) Terminal() bool {
	return s == StateWon || s == StateLost
}

// OutcomeKind classifies the result of an answer.
type OutcomeKind string

const (
	OutcomeCorrect   OutcomeKind = "correct"
	OutcomeIncorrect OutcomeKind = "incorrect"
	OutcomeGameOver  OutcomeKind = "game_over"
	OutcomeComplete  OutcomeKind = "complete"
)

// Outcome is what an answer resolved to.
type Outcome struct {
	Kind        OutcomeKind `json:"kind"`
	Choice      string      `json:"choice"`
	Message     string      `json:"message,omitempty"`
	Explanation string      `json:"explanation,omitempty"`
	Closing     string      `json:"closing,omitempty"`
	Lives       int         `json:"lives"`
	Unlimited   bool        `json:"unlimited"`
}

// QuestionView is a question as shown to the player, without its answer key.
type QuestionView struct {
	Question string `json:"question"`
	A        string `json:"a"`
	B        string `json:"b"`
	C        string `json:"c"`
	D        string `json:"d"`
}

// Snapshot describes the current screen of a session.
type Snapshot struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	State       State         `json:"state"`
	Number      int           `json:"number"`
	Total       int           `json:"total"`
	ShowCount   bool          `json:"showCount"`
	Question    *QuestionView `json:"question,omitempty"`
	Lives       int           `json:"lives"`
	Unlimited   bool          `json:"unlimited"`
	Message     string        `json:"message,omitempty"`
	Explanation string        `json:"explanation,omitempty"`
	Closing     string        `json:"closing,omitempty"`
}

const unlimitedLives = -1

// Session plays one quiz from start to a win or a loss. It works on its own
// copy of the document; the question order is shuffled per run when the quiz
// asks for it.
type Session struct {
	id   string
	quiz domain.Quiz
	rnd  *rand.Rand

	mu           sync.Mutex
	questions    []domain.Question
	index        int
	lives        int
	state        State
	pendingWrong string
	explanation  string
	closing      string
}

// NewSession validates quiz and returns a session in StateNotStarted.
func NewSession(id string, quiz domain.Quiz, rnd *rand.Rand) (*Session, error) {
	if err := domain.Validate(&quiz); err != nil {
		return nil, fmt.Errorf("quiz %q is not playable: %w", quiz.Title, err)
	}
	s := &Session{
		id:   id,
		quiz: quiz.Clone(),
		rnd:  rnd,
	}
	s.reset()
	return s, nil
}

func (s *Session) ID() string { return s.id }

// Advance starts the session or dismisses an explanation.
func (s *Session) Advance() (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case StateNotStarted, StateExplaining:
		s.next()
		return s.snapshotLocked(), nil
	}
	return s.snapshotLocked(), domain.ErrInvalidState
}

// Answer resolves a choice letter against the current question.
func (s *Session) Answer(choice string) (Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateShowing {
		return Outcome{}, domain.ErrInvalidState
	}
	letter := strings.ToLower(strings.TrimSpace(choice))
	question := s.questions[s.index]
	if _, ok := question.Answer(letter); !ok {
		return Outcome{}, domain.ErrInvalidChoice
	}

	out := Outcome{Choice: letter}
	if question.IsCorrect(letter) {
		if question.Explanation != "" {
			s.state = StateExplaining
			s.pendingWrong = ""
			s.explanation = question.Explanation
			out.Kind = OutcomeCorrect
			out.Explanation = question.Explanation
		} else {
			s.next()
			out.Kind = OutcomeCorrect
			if s.state == StateWon {
				out.Kind = OutcomeComplete
				out.Closing = s.closing
			}
		}
		return s.withLives(out), nil
	}

	if s.lives > 0 {
		s.lives--
	}
	out.Message = s.wrongMessage(question, letter)
	if s.lives == 0 {
		s.state = StateLost
		s.pendingWrong = ""
		s.closing = s.quiz.FailText()
		out.Kind = OutcomeGameOver
		out.Closing = s.closing
		return s.withLives(out), nil
	}
	s.pendingWrong = out.Message
	out.Kind = OutcomeIncorrect
	return s.withLives(out), nil
}

// Restart puts a finished session back to StateNotStarted with full lives
// and, for randomized quizzes, a new question order.
func (s *Session) Restart() (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.state.Terminal() {
		return s.snapshotLocked(), domain.ErrInvalidState
	}
	s.reset()
	return s.snapshotLocked(), nil
}

// Snapshot returns the current screen.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// QuestionOrder returns the session's question prompts in play order.
func (s *Session) QuestionOrder() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	order := make([]string, len(s.questions))
	for i, q := range s.questions {
		order[i] = q.Question
	}
	return order
}

func (s *Session) reset() {
	s.questions = make([]domain.Question, len(s.quiz.Questions))
	copy(s.questions, s.quiz.Questions)
	if s.quiz.Randomized() && s.rnd != nil {
		s.rnd.Shuffle(len(s.questions), func(i, j int) {
			s.questions[i], s.questions[j] = s.questions[j], s.questions[i]
		})
	}
	s.index = -1
	s.lives = unlimitedLives
	if n := s.quiz.LivesCount(); n > 0 {
		s.lives = n
	}
	s.state = StateNotStarted
	s.pendingWrong = ""
	s.explanation = ""
	s.closing = ""
}

func (s *Session) next() {
	s.index++
	s.pendingWrong = ""
	s.explanation = ""
	if s.index >= len(s.questions) {
		s.state = StateWon
		s.closing = s.quiz.FinishText()
		return
	}
	s.state = StateShowing
}

// wrongMessage picks the comment for a wrong choice: the question's own
// comment for that letter, then a random global comment, then a generic one.
// Lives must already be decremented.
func (s *Session) wrongMessage(question domain.Question, letter string) string {
	if msg := question.WrongMsg[letter]; msg != "" {
		return msg
	}
	if n := len(s.quiz.WrongMsg); n > 0 {
		if s.rnd == nil {
			return s.quiz.WrongMsg[0]
		}
		return s.quiz.WrongMsg[s.rnd.Intn(n)]
	}
	msg := fmt.Sprintf("Incorrect! You chose %s.", strings.ToUpper(letter))
	switch {
	case s.lives == unlimitedLives:
	case s.lives == 0:
		msg += " You lost your last life!"
	case s.lives == 1:
		msg += " You lost a life! 1 life left."
	default:
		msg += fmt.Sprintf(" You lost a life! %d lives left.", s.lives)
	}
	return msg
}

func (s *Session) withLives(out Outcome) Outcome {
	out.Lives, out.Unlimited = s.livesLocked()
	return out
}

func (s *Session) livesLocked() (int, bool) {
	if s.lives == unlimitedLives {
		return 0, true
	}
	return s.lives, false
}

func (s *Session) snapshotLocked() Snapshot {
	snap := Snapshot{
		ID:          s.id,
		Title:       s.quiz.Title,
		Description: s.quiz.Description,
		State:       s.state,
		Total:       len(s.questions),
		ShowCount:   s.quiz.ShowsCount(),
		Message:     s.pendingWrong,
		Explanation: s.explanation,
		Closing:     s.closing,
	}
	snap.Lives, snap.Unlimited = s.livesLocked()
	if s.state == StateShowing || s.state == StateExplaining {
		q := s.questions[s.index]
		snap.Number = s.index + 1
		snap.Question = &QuestionView{Question: q.Question, A: q.A, B: q.B, C: q.C, D: q.D}
	}
	return snap
}
