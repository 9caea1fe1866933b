package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// File extensions recognised by convention. Both hold the same JSON shape.
const (
	NativeExt = ".qpg"
	PlainExt  = ".json"
)

// DefaultIndent is the number of spaces used when writing documents.
const DefaultIndent = 4

var errInvalidUTF8 = errors.New("invalid utf-8")

// IsPlainPath reports whether path carries the plain JSON extension shared
// with the console quiz player.
func IsPlainPath(path string) bool {
	return strings.EqualFold(filepath.Ext(path), PlainExt)
}

// NewTemplate returns the document a new quiz starts from.
func NewTemplate() Quiz {
	return Quiz{
		Title: "My Quiz",
		Questions: []Question{{
			Question: "Question",
			A:        "Answer A",
			B:        "Answer B",
			C:        "Answer C",
			D:        "Answer D",
			Correct:  ChoiceA,
		}},
	}
}

// Parse decodes and validates an untrusted document. It fails with
// *ParseError for anything that is not UTF-8 JSON and with *SchemaError for
// the first required field that is missing, empty or mistyped.
func Parse(data []byte) (Quiz, error) {
	if !utf8.Valid(data) {
		return Quiz{}, &ParseError{Err: errInvalidUTF8}
	}
	v, err := decodeRaw(data)
	if err != nil {
		return Quiz{}, &ParseError{Err: err}
	}
	raw, _ := v.(map[string]any)
	if err := ValidateRaw(raw); err != nil {
		return Quiz{}, err
	}
	return decodeQuiz(raw), nil
}

// Encode strips default-valued settings from a copy of q and renders it as
// indented JSON. Non-ASCII text is written verbatim.
func Encode(q *Quiz, indent int) ([]byte, error) {
	if indent < 0 {
		indent = DefaultIndent
	}
	out := q.Clone()
	StripDefaults(&out)

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", strings.Repeat(" ", indent))
	if err := enc.Encode(out); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// ToRaw renders q as a generic JSON object, as CheckElement expects it.
// Nothing is stripped, so backfilled defaults stay visible.
func ToRaw(q *Quiz) (map[string]any, error) {
	data, err := json.Marshal(q)
	if err != nil {
		return nil, err
	}
	v, err := decodeRaw(data)
	if err != nil {
		return nil, err
	}
	raw, _ := v.(map[string]any)
	return raw, nil
}

func decodeRaw(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("trailing data after JSON value")
	}
	return v, nil
}

// decodeQuiz builds the typed document from an already validated object.
// Optional fields holding the wrong type are dropped so Backfill can restore
// their defaults.
func decodeQuiz(raw map[string]any) Quiz {
	q := Quiz{
		Title: raw["title"].(string),
	}
	if desc, ok := raw["description"].(string); ok {
		q.Description = desc
	}
	for _, item := range raw["questions"].([]any) {
		q.Questions = append(q.Questions, decodeQuestion(item.(map[string]any)))
	}

	if CheckElement(raw, "lives", KindInt) {
		if n, _ := raw["lives"].(json.Number).Int64(); n > 0 {
			q.Lives = Ptr(int(n))
		}
	}
	if CheckElement(raw, "randomize", KindBool) {
		q.Randomize = Ptr(raw["randomize"].(bool))
	}
	if CheckElement(raw, "showcount", KindBool) {
		q.ShowCount = Ptr(raw["showcount"].(bool))
	}
	if CheckElement(raw, "wrongmsg", KindList) {
		for _, item := range raw["wrongmsg"].([]any) {
			if msg, ok := item.(string); ok && msg != "" {
				q.WrongMsg = append(q.WrongMsg, msg)
			}
		}
	}
	if CheckElement(raw, "fail", KindString) {
		q.Fail = Ptr(raw["fail"].(string))
	}
	if CheckElement(raw, "finish", KindString) {
		q.Finish = Ptr(raw["finish"].(string))
	}
	return q
}

func decodeQuestion(rec map[string]any) Question {
	q := Question{
		Question: rec["question"].(string),
		A:        rec["a"].(string),
		B:        rec["b"].(string),
		C:        rec["c"].(string),
		D:        rec["d"].(string),
		Correct:  rec["correct"].(string),
	}
	if CheckElement(rec, "wrongmsg", KindMap) {
		for letter, v := range rec["wrongmsg"].(map[string]any) {
			msg, ok := v.(string)
			if !ok || msg == "" || !isChoice(letter) {
				continue
			}
			if q.WrongMsg == nil {
				q.WrongMsg = make(map[string]string)
			}
			q.WrongMsg[letter] = msg
		}
	}
	if CheckElement(rec, "explanation", KindString) {
		q.Explanation = rec["explanation"].(string)
	}
	return q
}

func isChoice(letter string) bool {
	for _, c := range Choices {
		if c == letter {
			return true
		}
	}
	return false
}
