package app_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/gamingwithevets/quizprog-gui/internal/app"
	"github.com/gamingwithevets/quizprog-gui/internal/domain"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

const capitalsDoc = `{
    "title": "Capitals",
    "description": "European capitals",
    "questions": [
        {"question": "Capital of France?", "a": "Paris", "b": "Rome", "c": "Oslo", "d": "Bern", "correct": "a"},
        {"question": "Capital of Italy?", "a": "Paris", "b": "Rome", "c": "Oslo", "d": "Bern", "correct": "b"}
    ],
    "lives": 3
}`

func newTestStore(t *testing.T, files map[string]string) (*app.Store, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	for path, content := range files {
		if err := afero.WriteFile(fs, path, []byte(content), 0o644); err != nil {
			t.Fatalf("seed %s: %v", path, err)
		}
	}
	return app.NewStore(fs, zap.NewNop(), domain.DefaultIndent), fs
}

func encode(t *testing.T, q *domain.Quiz) []byte {
	t.Helper()
	data, err := domain.Encode(q, domain.DefaultIndent)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	return data
}

func TestNewQuizThenReloadIsNoop(t *testing.T) {
	store, _ := newTestStore(t, nil)
	store.NewQuiz()
	before := encode(t, store.Document())

	store.Reload()

	if after := encode(t, store.Document()); !bytes.Equal(before, after) {
		t.Fatalf("reload changed a fresh quiz:\n%s\n---\n%s", before, after)
	}
	if store.Document().Title != "My Quiz" || len(store.Document().Questions) != 1 {
		t.Fatalf("unexpected template %+v", store.Document())
	}
	if store.Path() != "" {
		t.Fatalf("expected no save path, got %q", store.Path())
	}
}

func TestOpenFileCommitsDocumentAndPath(t *testing.T) {
	store, _ := newTestStore(t, map[string]string{"capitals.qpg": capitalsDoc})
	doc := store.Document()

	msg, err := store.OpenFile("capitals.qpg")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if msg != "Loaded quiz: capitals.qpg" {
		t.Fatalf("unexpected message %q", msg)
	}
	if store.Path() != "capitals.qpg" || store.Format() != "QPG" {
		t.Fatalf("unexpected path/format %q/%q", store.Path(), store.Format())
	}
	if doc != store.Document() {
		t.Fatalf("document pointer must stay stable across loads")
	}
	if doc.Title != "Capitals" || doc.LivesCount() != 3 || len(doc.Questions) != 2 {
		t.Fatalf("unexpected document %+v", doc)
	}
}

func TestOpenFileFailuresLeaveDocumentUntouched(t *testing.T) {
	files := map[string]string{
		"capitals.qpg":   capitalsDoc,
		"notitle.qpg":    `{"questions": [{"question": "q", "a": "1", "b": "2", "c": "3", "d": "4", "correct": "a"}]}`,
		"noquestions.qpg": `{"title": "t"}`,
		"badq.json": `{"title": "t", "questions": [
			{"question": "q", "a": "1", "b": "2", "c": "3", "d": "4", "correct": "a"},
			{"question": "q", "a": "1", "b": "2", "c": "3", "d": "", "correct": "a"}]}`,
		"garbage.qpg": `{"title": `,
	}
	cases := []struct {
		path string
		want string
	}{
		{"notitle.qpg", "String variable 'title' not found or empty!"},
		{"noquestions.qpg", "List variable 'questions' not found or empty!"},
		{"badq.json", "String variable 'd' not found or empty in question 2!"},
		{"garbage.qpg", "Invalid JSON data!"},
		{"missing.qpg", "Can't open file: file does not exist"},
	}
	for _, tc := range cases {
		store, _ := newTestStore(t, files)
		if _, err := store.OpenFile("capitals.qpg"); err != nil {
			t.Fatalf("open capitals: %v", err)
		}
		before := encode(t, store.Document())

		_, err := store.OpenFile(tc.path)
		if err == nil {
			t.Fatalf("%s: expected failure", tc.path)
		}
		if err.Error() != tc.want {
			t.Fatalf("%s: got %q want %q", tc.path, err.Error(), tc.want)
		}
		if after := encode(t, store.Document()); !bytes.Equal(before, after) {
			t.Fatalf("%s: live document changed", tc.path)
		}
		if store.Path() != "capitals.qpg" {
			t.Fatalf("%s: save path changed to %q", tc.path, store.Path())
		}
	}
}

func TestOpenFileErrorTypes(t *testing.T) {
	store, _ := newTestStore(t, map[string]string{"bad.qpg": `nope`, "empty.qpg": `{"title": "", "questions": []}`})

	var pe *domain.ParseError
	if _, err := store.OpenFile("bad.qpg"); !errors.As(err, &pe) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	var se *domain.SchemaError
	if _, err := store.OpenFile("empty.qpg"); !errors.As(err, &se) || se.Field != "title" {
		t.Fatalf("expected SchemaError on title, got %v", err)
	}
	var ioe *domain.IoError
	if _, err := store.OpenFile("nope.qpg"); !errors.As(err, &ioe) || ioe.Op != "open" {
		t.Fatalf("expected IoError, got %v", err)
	}
}

func TestFailedOpenRefreshesBackupFromLiveDocument(t *testing.T) {
	store, _ := newTestStore(t, map[string]string{"bad.qpg": `{}`})
	store.Document().Title = "Edited"

	if _, err := store.OpenFile("bad.qpg"); err == nil {
		t.Fatalf("expected failure")
	}
	store.Reload()
	if store.Document().Title != "Edited" {
		t.Fatalf("expected rollback to keep the caller's state, got %q", store.Document().Title)
	}
}

func TestReloadDiscardsEdits(t *testing.T) {
	store, _ := newTestStore(t, map[string]string{"capitals.qpg": capitalsDoc})
	if _, err := store.OpenFile("capitals.qpg"); err != nil {
		t.Fatalf("open: %v", err)
	}
	store.Document().Title = "Changed"
	store.Document().Questions[0].A = "Lyon"
	store.Document().Questions = append(store.Document().Questions, domain.NewTemplate().Questions[0])

	store.Reload()

	doc := store.Document()
	if doc.Title != "Capitals" || doc.Questions[0].A != "Paris" || len(doc.Questions) != 2 {
		t.Fatalf("reload kept edits: %+v", doc)
	}
	store.Reload()
	if doc.Title != "Capitals" {
		t.Fatalf("second reload changed the document")
	}
}

func TestSaveAsRoundTrip(t *testing.T) {
	store, fs := newTestStore(t, map[string]string{"capitals.qpg": capitalsDoc})
	if _, err := store.OpenFile("capitals.qpg"); err != nil {
		t.Fatalf("open: %v", err)
	}

	msg, err := store.SaveAs("out/copy.qpg", false)
	if err != nil {
		t.Fatalf("save as: %v", err)
	}
	if msg != "Quiz saved as: out/copy.qpg" || store.Path() != "out/copy.qpg" {
		t.Fatalf("unexpected message/path %q %q", msg, store.Path())
	}
	first, err := afero.ReadFile(fs, "out/copy.qpg")
	if err != nil {
		t.Fatalf("read saved: %v", err)
	}

	if _, err := store.OpenFile("out/copy.qpg"); err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if _, err := store.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}
	second, err := afero.ReadFile(fs, "out/copy.qpg")
	if err != nil {
		t.Fatalf("read resaved: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Fatalf("save(load(save(D))) != save(D):\n%s\n---\n%s", first, second)
	}
}

func TestSaveAsPlainRefusedForNativeDocument(t *testing.T) {
	store, fs := newTestStore(t, nil)
	store.Document().WrongMsg = []string{"Try again!"}

	_, err := store.SaveAs("quiz.JSON", false)
	var fre *domain.FormatRestrictionError
	if !errors.As(err, &fre) {
		t.Fatalf("expected FormatRestrictionError, got %v", err)
	}
	if exists, _ := afero.Exists(fs, "quiz.JSON"); exists {
		t.Fatalf("refused save must not create the file")
	}
	if store.Path() != "" {
		t.Fatalf("refused save must not adopt the path")
	}

	if _, err := store.SaveAs("quiz.json", true); err != nil {
		t.Fatalf("expected plain save to succeed when allowed: %v", err)
	}
	if store.Format() != "JSON" {
		t.Fatalf("expected JSON format, got %s", store.Format())
	}
}

func TestSaveAsWriteFailureKeepsPathAndFile(t *testing.T) {
	base := afero.NewMemMapFs()
	if err := afero.WriteFile(base, "capitals.qpg", []byte(capitalsDoc), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}
	store := app.NewStore(afero.NewReadOnlyFs(base), zap.NewNop(), domain.DefaultIndent)
	if _, err := store.OpenFile("capitals.qpg"); err != nil {
		t.Fatalf("open: %v", err)
	}
	store.Document().Title = "Changed"

	_, err := store.SaveAs("capitals.qpg", true)
	var ioe *domain.IoError
	if !errors.As(err, &ioe) || ioe.Op != "save" {
		t.Fatalf("expected save IoError, got %v", err)
	}
	if store.Path() != "capitals.qpg" {
		t.Fatalf("path changed to %q", store.Path())
	}
	data, _ := afero.ReadFile(base, "capitals.qpg")
	if string(data) != capitalsDoc {
		t.Fatalf("on-disk file modified")
	}
	if store.Document().Title != "Changed" {
		t.Fatalf("in-memory document lost edits")
	}
}

func TestSaveWithoutPath(t *testing.T) {
	store, _ := newTestStore(t, nil)
	if _, err := store.Save(); !errors.Is(err, domain.ErrNoSavePath) {
		t.Fatalf("expected ErrNoSavePath, got %v", err)
	}
}

func TestStoreCheckElement(t *testing.T) {
	store, _ := newTestStore(t, map[string]string{"capitals.qpg": capitalsDoc})
	if _, err := store.OpenFile("capitals.qpg"); err != nil {
		t.Fatalf("open: %v", err)
	}
	if !store.CheckElement("lives", domain.KindInt) {
		t.Fatalf("expected lives present")
	}
	if store.CheckElement("randomize", domain.KindBool) {
		t.Fatalf("expected randomize absent")
	}
	if !store.CheckQuestionElement(1, "correct", domain.KindString) {
		t.Fatalf("expected correct present on question 2")
	}
	if store.CheckQuestionElement(1, "explanation", domain.KindString) {
		t.Fatalf("expected no explanation")
	}
}
