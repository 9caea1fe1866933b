package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gamingwithevets/quizprog-gui/internal/domain"
	"github.com/spf13/afero"
)

// QuizLoader serves quiz documents from a directory. A quiz id is the file
// name without its extension; native files win over plain ones.
type QuizLoader struct {
	fs  afero.Fs
	dir string
}

func NewQuizLoader(fs afero.Fs, dir string) *QuizLoader {
	return &QuizLoader{fs: fs, dir: dir}
}

func (l *QuizLoader) LoadQuiz(_ context.Context, quizID string) (domain.Quiz, error) {
	if quizID == "" || strings.ContainsAny(quizID, `/\`) || quizID == "." || quizID == ".." {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	for _, ext := range []string{domain.NativeExt, domain.PlainExt} {
		path := filepath.Join(l.dir, quizID+ext)
		data, err := afero.ReadFile(l.fs, path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return domain.Quiz{}, &domain.IoError{Op: "open", Path: path, Err: err}
		}
		quiz, err := domain.Parse(data)
		if err != nil {
			return domain.Quiz{}, fmt.Errorf("%s: %w", path, err)
		}
		return quiz, nil
	}
	return domain.Quiz{}, domain.ErrQuizNotFound
}

// List returns the ids of every quiz file in the directory, sorted.
func (l *QuizLoader) List(_ context.Context) ([]string, error) {
	entries, err := afero.ReadDir(l.fs, l.dir)
	if err != nil {
		return nil, &domain.IoError{Op: "open", Path: l.dir, Err: err}
	}
	seen := make(map[string]struct{})
	var ids []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if !strings.EqualFold(ext, domain.NativeExt) && !strings.EqualFold(ext, domain.PlainExt) {
			continue
		}
		id := strings.TrimSuffix(entry.Name(), ext)
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
