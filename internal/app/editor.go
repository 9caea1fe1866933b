package app

import (
	"regexp"
	"strings"

	"github.com/gamingwithevets/quizprog-gui/internal/domain"
	"github.com/go-playground/validator/v10"
)

var newlineRuns = regexp.MustCompile(`\n+`)

// FormatText collapses runs of newlines and drops a single trailing newline,
// the way multi-line text fields are normalised before they are stored.
func FormatText(text string) string {
	text = newlineRuns.ReplaceAllString(text, "\n")
	return strings.TrimSuffix(text, "\n")
}

// Settings is the editable view of the quiz-wide settings.
type Settings struct {
	Lives     int `validate:"gte=0"`
	Randomize bool
	ShowCount bool
	WrongMsg  []string
	Fail      string
	Finish    string
}

// Editor applies user edits to a Store's live document and tracks whether
// there are unsaved changes. Like the Store it is confined to one goroutine.
type Editor struct {
	store    *Store
	validate *validator.Validate
	modified bool
}

func NewEditor(store *Store) *Editor {
	return &Editor{store: store, validate: validator.New()}
}

func (e *Editor) Store() *Store { return e.store }

// Modified reports whether the document has edits that were not saved.
func (e *Editor) Modified() bool { return e.modified }

func (e *Editor) doc() *domain.Quiz { return e.store.Document() }

func (e *Editor) NewQuiz() {
	e.store.NewQuiz()
	e.modified = false
}

func (e *Editor) Open(path string) (string, error) {
	msg, err := e.store.OpenFile(path)
	if err != nil {
		return "", err
	}
	e.modified = false
	return msg, nil
}

func (e *Editor) Save() (string, error) {
	msg, err := e.store.Save()
	if err != nil {
		return "", err
	}
	e.modified = false
	return msg, nil
}

// SaveAs refuses the plain JSON format when the document uses native-only
// settings.
func (e *Editor) SaveAs(path string) (string, error) {
	msg, err := e.store.SaveAs(path, !domain.UsesNativeFeatures(e.doc()))
	if err != nil {
		return "", err
	}
	e.modified = false
	return msg, nil
}

func (e *Editor) Reload() {
	e.store.Reload()
	e.modified = false
}

// Rename sets the quiz title.
func (e *Editor) Rename(title string) error {
	if title == "" {
		return domain.ErrEmptyText
	}
	if title != e.doc().Title {
		e.doc().Title = title
		e.modified = true
	}
	return nil
}

// SetDescription sets the description; empty text removes it.
func (e *Editor) SetDescription(text string) {
	text = FormatText(text)
	if text != e.doc().Description {
		e.doc().Description = text
		e.modified = true
	}
}

// OpenSettings backfills missing settings. Backfilling is not an edit.
func (e *Editor) OpenSettings() Settings {
	domain.Backfill(e.doc())
	return e.Settings()
}

// Settings returns the current settings, defaults filled in.
func (e *Editor) Settings() Settings {
	q := e.doc()
	return Settings{
		Lives:     q.LivesCount(),
		Randomize: q.Randomized(),
		ShowCount: q.ShowsCount(),
		WrongMsg:  append([]string{}, q.WrongMsg...),
		Fail:      q.FailText(),
		Finish:    q.FinishText(),
	}
}

// ApplySettings stores lives, randomize and showcount. Negative lives are
// rejected and nothing is changed.
func (e *Editor) ApplySettings(lives int, randomize, showCount bool) error {
	if err := e.validate.Struct(Settings{Lives: lives}); err != nil {
		return domain.ErrNegativeLives
	}
	q := e.doc()
	domain.Backfill(q)
	if lives != *q.Lives {
		q.Lives = domain.Ptr(lives)
		e.modified = true
	}
	if randomize != *q.Randomize {
		q.Randomize = domain.Ptr(randomize)
		e.modified = true
	}
	if showCount != *q.ShowCount {
		q.ShowCount = domain.Ptr(showCount)
		e.modified = true
	}
	return nil
}

// SetFail sets the game over comment.
func (e *Editor) SetFail(text string) {
	q := e.doc()
	text = FormatText(text)
	if text != q.FailText() {
		q.Fail = domain.Ptr(text)
		e.modified = true
	}
}

// SetFinish sets the quiz completion comment.
func (e *Editor) SetFinish(text string) {
	q := e.doc()
	text = FormatText(text)
	if text != q.FinishText() {
		q.Finish = domain.Ptr(text)
		e.modified = true
	}
}

// ResetSettings puts every setting back to its default.
func (e *Editor) ResetSettings() {
	q := e.doc()
	if q.LivesCount() != domain.DefaultLives || q.Randomized() != domain.DefaultRandomize ||
		q.ShowsCount() != domain.DefaultShowCount || len(q.WrongMsg) > 0 ||
		q.FailText() != "" || q.FinishText() != "" {
		e.modified = true
	}
	q.Lives = domain.Ptr(domain.DefaultLives)
	q.Randomize = domain.Ptr(domain.DefaultRandomize)
	q.ShowCount = domain.Ptr(domain.DefaultShowCount)
	q.WrongMsg = []string{}
	q.Fail = domain.Ptr("")
	q.Finish = domain.Ptr("")
}

// CloseSettings removes every setting still at its default.
func (e *Editor) CloseSettings() {
	domain.StripDefaults(e.doc())
}

// AddWrongMsg appends a global wrong answer comment. Empty text is ignored.
func (e *Editor) AddWrongMsg(text string) error {
	text = FormatText(text)
	if text == "" {
		return nil
	}
	if err := e.checkDuplicate(text, -1); err != nil {
		return err
	}
	e.doc().WrongMsg = append(e.doc().WrongMsg, text)
	e.modified = true
	return nil
}

// EditWrongMsg replaces the i-th (0-based) global wrong answer comment.
func (e *Editor) EditWrongMsg(i int, text string) error {
	q := e.doc()
	if i < 0 || i >= len(q.WrongMsg) {
		return domain.ErrQuestionIndex
	}
	text = FormatText(text)
	if text == "" || text == q.WrongMsg[i] {
		return nil
	}
	if err := e.checkDuplicate(text, i); err != nil {
		return err
	}
	q.WrongMsg[i] = text
	e.modified = true
	return nil
}

// DeleteWrongMsg removes the i-th (0-based) global wrong answer comment.
func (e *Editor) DeleteWrongMsg(i int) error {
	q := e.doc()
	if i < 0 || i >= len(q.WrongMsg) {
		return domain.ErrQuestionIndex
	}
	q.WrongMsg = append(q.WrongMsg[:i], q.WrongMsg[i+1:]...)
	e.modified = true
	return nil
}

func (e *Editor) checkDuplicate(text string, skip int) error {
	msgs := e.doc().WrongMsg
	for i, msg := range msgs {
		if i != skip && msg == text {
			return &domain.DuplicateError{Index: i + 1, Total: len(msgs)}
		}
	}
	return nil
}

// AddQuestion appends a question after validating its required fields.
func (e *Editor) AddQuestion(question domain.Question) error {
	if err := validateQuestion(question, len(e.doc().Questions)+1); err != nil {
		return err
	}
	e.doc().Questions = append(e.doc().Questions, question.Clone())
	e.modified = true
	return nil
}

// UpdateQuestion replaces the i-th (0-based) question.
func (e *Editor) UpdateQuestion(i int, question domain.Question) error {
	q := e.doc()
	if i < 0 || i >= len(q.Questions) {
		return domain.ErrQuestionIndex
	}
	if err := validateQuestion(question, i+1); err != nil {
		return err
	}
	q.Questions[i] = question.Clone()
	e.modified = true
	return nil
}

// RemoveQuestion deletes the i-th (0-based) question. The last remaining
// question cannot be removed.
func (e *Editor) RemoveQuestion(i int) error {
	q := e.doc()
	if i < 0 || i >= len(q.Questions) {
		return domain.ErrQuestionIndex
	}
	if len(q.Questions) == 1 {
		return domain.ErrLastQuestion
	}
	q.Questions = append(q.Questions[:i], q.Questions[i+1:]...)
	e.modified = true
	return nil
}

// MoveQuestion moves the question at from to position to (both 0-based).
func (e *Editor) MoveQuestion(from, to int) error {
	q := e.doc()
	n := len(q.Questions)
	if from < 0 || from >= n || to < 0 || to >= n {
		return domain.ErrQuestionIndex
	}
	if from == to {
		return nil
	}
	moved := q.Questions[from]
	q.Questions = append(q.Questions[:from], q.Questions[from+1:]...)
	q.Questions = append(q.Questions[:to], append([]domain.Question{moved}, q.Questions[to:]...)...)
	e.modified = true
	return nil
}

// SetQuestionWrongMsg sets the comment shown when letter is chosen wrongly on
// the i-th question. Empty text removes it.
func (e *Editor) SetQuestionWrongMsg(i int, letter, text string) error {
	q := e.doc()
	if i < 0 || i >= len(q.Questions) {
		return domain.ErrQuestionIndex
	}
	letter = strings.ToLower(strings.TrimSpace(letter))
	if _, ok := q.Questions[i].Answer(letter); !ok {
		return domain.ErrInvalidChoice
	}
	question := &q.Questions[i]
	text = FormatText(text)
	if question.WrongMsg[letter] == text {
		return nil
	}
	if text == "" {
		delete(question.WrongMsg, letter)
		if len(question.WrongMsg) == 0 {
			question.WrongMsg = nil
		}
	} else {
		if question.WrongMsg == nil {
			question.WrongMsg = make(map[string]string)
		}
		question.WrongMsg[letter] = text
	}
	e.modified = true
	return nil
}

// SetExplanation sets the text shown after the i-th question is answered
// correctly. Empty text removes it.
func (e *Editor) SetExplanation(i int, text string) error {
	q := e.doc()
	if i < 0 || i >= len(q.Questions) {
		return domain.ErrQuestionIndex
	}
	text = FormatText(text)
	if text != q.Questions[i].Explanation {
		q.Questions[i].Explanation = text
		e.modified = true
	}
	return nil
}

func validateQuestion(question domain.Question, number int) error {
	doc := domain.Quiz{Title: "-", Questions: []domain.Question{question}}
	if err := domain.Validate(&doc); err != nil {
		if se, ok := err.(*domain.SchemaError); ok {
			se.Question = number
		}
		return err
	}
	return nil
}
