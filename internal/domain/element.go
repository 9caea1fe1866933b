package domain

import "encoding/json"

// Kind is the JSON type a document field is expected to hold.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindBool
	KindList
	KindMap
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "Integer"
	case KindBool:
		return "Boolean"
	case KindList:
		return "List"
	case KindMap:
		return "Mapping"
	default:
		return "String"
	}
}

// CheckElement reports whether rec[field] exists, has the given kind and is
// not empty. 0, "", [] and {} count as empty; false is a valid boolean.
// rec is a generic JSON object decoded with json.Decoder.UseNumber.
func CheckElement(rec map[string]any, field string, kind Kind) bool {
	if rec == nil {
		return false
	}
	v, ok := rec[field]
	if !ok {
		return false
	}
	return hasKind(v, kind) && !isEmpty(v)
}

// CheckQuestionElement applies CheckElement to field of the qid-th (0-based)
// entry of doc["questions"]. A missing list, an out of range index or an
// entry that is not an object all fail the check.
func CheckQuestionElement(doc map[string]any, qid int, field string, kind Kind) bool {
	questions, ok := doc["questions"].([]any)
	if !ok || qid < 0 || qid >= len(questions) {
		return false
	}
	rec, ok := questions[qid].(map[string]any)
	if !ok {
		return false
	}
	return CheckElement(rec, field, kind)
}

func hasKind(v any, kind Kind) bool {
	switch kind {
	case KindString:
		_, ok := v.(string)
		return ok
	case KindInt:
		n, ok := v.(json.Number)
		if !ok {
			return false
		}
		_, err := n.Int64()
		return err == nil
	case KindBool:
		_, ok := v.(bool)
		return ok
	case KindList:
		_, ok := v.([]any)
		return ok
	case KindMap:
		_, ok := v.(map[string]any)
		return ok
	}
	return false
}

func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case bool:
		return false
	case string:
		return t == ""
	case json.Number:
		f, err := t.Float64()
		return err == nil && f == 0
	case []any:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	}
	return false
}
