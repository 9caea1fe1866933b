package domain

// questionFields are checked in this order for every question.
var questionFields = []string{"question", ChoiceA, ChoiceB, ChoiceC, ChoiceD, "correct"}

// ValidateRaw checks a generic JSON document the way it is checked on load:
// title, then questions, then each question's required fields in order. The
// first failure is returned; nothing after it is looked at.
func ValidateRaw(raw map[string]any) error {
	if !CheckElement(raw, "title", KindString) {
		return &SchemaError{Field: "title", Kind: KindString}
	}
	if !CheckElement(raw, "questions", KindList) {
		return &SchemaError{Field: "questions", Kind: KindList}
	}
	questions := raw["questions"].([]any)
	for i := range questions {
		for _, field := range questionFields {
			if !CheckQuestionElement(raw, i, field, KindString) {
				return &SchemaError{Field: field, Question: i + 1, Kind: KindString}
			}
		}
		correct := questions[i].(map[string]any)["correct"].(string)
		if !validCorrect(correct) {
			return &SchemaError{Field: "correct", Question: i + 1, Kind: KindString, BadValue: true}
		}
	}
	return nil
}

// Validate applies the load-time rules to an in-memory document.
func Validate(q *Quiz) error {
	if q == nil || q.Title == "" {
		return &SchemaError{Field: "title", Kind: KindString}
	}
	if len(q.Questions) == 0 {
		return &SchemaError{Field: "questions", Kind: KindList}
	}
	for i, question := range q.Questions {
		values := []string{question.Question, question.A, question.B, question.C, question.D, question.Correct}
		for j, v := range values {
			if v == "" {
				return &SchemaError{Field: questionFields[j], Question: i + 1, Kind: KindString}
			}
		}
		if !validCorrect(question.Correct) {
			return &SchemaError{Field: "correct", Question: i + 1, Kind: KindString, BadValue: true}
		}
	}
	return nil
}

func validCorrect(v string) bool {
	return v == CorrectAll || isChoice(v)
}
