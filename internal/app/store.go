package app

import (
	"fmt"
	"path/filepath"

	"github.com/gamingwithevets/quizprog-gui/internal/domain"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Store owns the live quiz document, a backup used for reload and rollback,
// and the path the document is saved to.
//
// A Store is not safe for concurrent use. It belongs to one goroutine and at
// most one load or save may be in flight.
type Store struct {
	fs     afero.Fs
	log    *zap.Logger
	indent int

	live   *domain.Quiz
	backup domain.Quiz
	path   string
}

// NewStore returns a Store holding a fresh template quiz.
func NewStore(fs afero.Fs, log *zap.Logger, indent int) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Store{
		fs:     fs,
		log:    log,
		indent: indent,
		live:   &domain.Quiz{},
	}
	s.NewQuiz()
	return s
}

// Document returns the live document. Callers may edit its fields in place
// but must go through the Store to replace it.
func (s *Store) Document() *domain.Quiz {
	return s.live
}

// Path returns the current save path, empty if none.
func (s *Store) Path() string {
	return s.path
}

// Format names the file format implied by the save path.
func (s *Store) Format() string {
	if domain.IsPlainPath(s.path) {
		return "JSON"
	}
	return "QPG"
}

// NewQuiz replaces the live document with the built-in template and clears
// the save path.
func (s *Store) NewQuiz() {
	*s.live = domain.NewTemplate()
	s.path = ""
	s.createBackup()
}

// OpenFile loads and validates the document at path. On any failure the live
// document and save path are left as they were and the backup is refreshed
// from the live document.
func (s *Store) OpenFile(path string) (string, error) {
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		s.rollback(path, err)
		return "", &domain.IoError{Op: "open", Path: path, Err: err}
	}
	quiz, err := domain.Parse(data)
	if err != nil {
		s.rollback(path, err)
		return "", err
	}

	*s.live = quiz
	s.path = path
	s.createBackup()
	s.log.Info("quiz loaded", zap.String("path", path), zap.Int("questions", len(quiz.Questions)))
	return "Loaded quiz: " + path, nil
}

// SaveAs writes the live document to path and adopts path as the save path.
// Writing to a plain JSON path is refused unless allowPlain is set.
func (s *Store) SaveAs(path string, allowPlain bool) (string, error) {
	if domain.IsPlainPath(path) && !allowPlain {
		return "", &domain.FormatRestrictionError{Path: path}
	}
	data, err := domain.Encode(s.live, s.indent)
	if err != nil {
		return "", fmt.Errorf("encode quiz: %w", err)
	}
	if err := s.writeFile(path, data); err != nil {
		s.log.Warn("quiz save failed", zap.String("path", path), zap.Error(err))
		return "", &domain.IoError{Op: "save", Path: path, Err: err}
	}
	s.path = path
	s.log.Info("quiz saved", zap.String("path", path))
	return "Quiz saved as: " + path, nil
}

// Save writes to the current save path in whatever format it already uses.
// It returns domain.ErrNoSavePath when the caller has to ask for a path.
func (s *Store) Save() (string, error) {
	if s.path == "" {
		return "", domain.ErrNoSavePath
	}
	if _, err := s.SaveAs(s.path, true); err != nil {
		return "", err
	}
	return "Quiz saved!", nil
}

// Reload discards unsaved edits by restoring the backup.
func (s *Store) Reload() {
	*s.live = s.backup.Clone()
	s.createBackup()
}

// CheckElement runs domain.CheckElement against the live document.
func (s *Store) CheckElement(field string, kind domain.Kind) bool {
	raw, err := domain.ToRaw(s.live)
	if err != nil {
		return false
	}
	return domain.CheckElement(raw, field, kind)
}

// CheckQuestionElement runs domain.CheckQuestionElement against the live document.
func (s *Store) CheckQuestionElement(qid int, field string, kind domain.Kind) bool {
	raw, err := domain.ToRaw(s.live)
	if err != nil {
		return false
	}
	return domain.CheckQuestionElement(raw, qid, field, kind)
}

func (s *Store) createBackup() {
	s.backup = s.live.Clone()
}

func (s *Store) rollback(path string, cause error) {
	s.createBackup()
	s.log.Warn("quiz load rolled back", zap.String("path", path), zap.Error(cause))
}

// writeFile writes through a temp file in the target directory so a failed
// write never truncates an existing file.
func (s *Store) writeFile(path string, data []byte) error {
	f, err := afero.TempFile(s.fs, filepath.Dir(path), "."+filepath.Base(path)+".tmp-")
	if err != nil {
		return err
	}
	tmp := f.Name()
	if _, err := f.Write(data); err != nil {
		f.Close()
		s.fs.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		s.fs.Remove(tmp)
		return err
	}
	if err := s.fs.Chmod(tmp, 0o644); err != nil {
		s.fs.Remove(tmp)
		return err
	}
	if err := s.fs.Rename(tmp, path); err != nil {
		s.fs.Remove(tmp)
		return err
	}
	return nil
}
