package domain

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

var (
	// ErrNoSavePath is returned by Save when the document was never saved or opened.
	ErrNoSavePath = errors.New("no save path set")
	// ErrSessionNotFound is returned when a playback handle is unknown.
	ErrSessionNotFound = errors.New("quiz session not found")
	// ErrQuizNotFound indicates the quiz content could not be loaded.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrInvalidChoice indicates an answer letter outside a-d.
	ErrInvalidChoice = errors.New("choice must be one of a, b, c or d")
	// ErrInvalidState is returned when a playback action does not apply to the current screen.
	ErrInvalidState = errors.New("action not allowed in current session state")
	// ErrEmptyText is returned when a required text edit is blank.
	ErrEmptyText = errors.New("text cannot be blank")
	// ErrNegativeLives is returned when a life count below zero is applied.
	ErrNegativeLives = errors.New("life count cannot be negative")
	// ErrQuestionIndex indicates a question or comment index out of range.
	ErrQuestionIndex = errors.New("index out of range")
	// ErrLastQuestion is returned when removing the only question of a quiz.
	ErrLastQuestion = errors.New("a quiz needs at least one question")
)

// ParseError reports bytes that are not valid UTF-8 JSON.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string { return "Invalid JSON data!" }

func (e *ParseError) Unwrap() error { return e.Err }

// SchemaError names the first required field that is missing, empty or of the
// wrong type. Question is 1-based; 0 means a top-level field.
type SchemaError struct {
	Field    string
	Question int
	Kind     Kind
	// BadValue is set when the field is present but holds a value outside its
	// allowed set (currently only "correct").
	BadValue bool
}

func (e *SchemaError) Error() string {
	if e.BadValue {
		return fmt.Sprintf("Variable '%s' must be one of a, b, c, d or all in question %d!", e.Field, e.Question)
	}
	if e.Question > 0 {
		return fmt.Sprintf("%s variable '%s' not found or empty in question %d!", e.Kind, e.Field, e.Question)
	}
	return fmt.Sprintf("%s variable '%s' not found or empty!", e.Kind, e.Field)
}

// FormatRestrictionError is returned before writing a plain JSON file that
// would not be able to carry the document's native-only settings.
type FormatRestrictionError struct {
	Path string
}

func (e *FormatRestrictionError) Error() string {
	return "To use new features, you must save this file as a quiz project (" + NativeExt + ")."
}

// IoError wraps a storage failure with the operation that hit it.
type IoError struct {
	Op   string // "open" or "save"
	Path string
	Err  error
}

func (e *IoError) Error() string {
	return fmt.Sprintf("Can't %s file: %s", e.Op, describeOSError(e.Err))
}

func (e *IoError) Unwrap() error { return e.Err }

// DuplicateError rejects a global wrong answer comment that already exists.
type DuplicateError struct {
	Index int // 1-based index of the existing comment
	Total int
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("Duplicate global wrong answer comment detected! Duplicate of comment w/ index %d / %d", e.Index, e.Total)
}

func describeOSError(err error) string {
	var pe *fs.PathError
	if errors.As(err, &pe) {
		return pe.Err.Error()
	}
	var le *os.LinkError
	if errors.As(err, &le) {
		return le.Err.Error()
	}
	return err.Error()
}
