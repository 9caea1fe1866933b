package domain

// Choice letters accepted by a question. CorrectAll accepts every choice.
const (
	ChoiceA    = "a"
	ChoiceB    = "b"
	ChoiceC    = "c"
	ChoiceD    = "d"
	CorrectAll = "all"
)

// Choices lists the four answer letters in display order.
var Choices = []string{ChoiceA, ChoiceB, ChoiceC, ChoiceD}

// Defaults for the optional quiz settings. A setting equal to its default is
// left out of the saved document.
const (
	DefaultLives     = 0
	DefaultRandomize = false
	DefaultShowCount = true
)

// Question is one multiple-choice prompt with four answers.
type Question struct {
	Question string `json:"question" yaml:"question"`
	A        string `json:"a" yaml:"a"`
	B        string `json:"b" yaml:"b"`
	C        string `json:"c" yaml:"c"`
	D        string `json:"d" yaml:"d"`
	Correct  string `json:"correct" yaml:"correct"`

	// WrongMsg overrides the global wrong answer comment per choice letter.
	WrongMsg    map[string]string `json:"wrongmsg,omitempty" yaml:"wrongmsg,omitempty"`
	Explanation string            `json:"explanation,omitempty" yaml:"explanation,omitempty"`
}

// Answer returns the text of the given choice letter.
func (q Question) Answer(letter string) (string, bool) {
	switch letter {
	case ChoiceA:
		return q.A, true
	case ChoiceB:
		return q.B, true
	case ChoiceC:
		return q.C, true
	case ChoiceD:
		return q.D, true
	}
	return "", false
}

// IsCorrect reports whether letter resolves to a correct answer.
func (q Question) IsCorrect(letter string) bool {
	return q.Correct == CorrectAll || q.Correct == letter
}

// Quiz is the root document. Optional settings are nil when absent; Backfill
// fills them in and StripDefaults takes them back out.
type Quiz struct {
	Title       string     `json:"title" yaml:"title"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	Questions   []Question `json:"questions" yaml:"questions"`

	Lives     *int     `json:"lives,omitempty" yaml:"lives,omitempty"`
	Randomize *bool    `json:"randomize,omitempty" yaml:"randomize,omitempty"`
	ShowCount *bool    `json:"showcount,omitempty" yaml:"showcount,omitempty"`
	WrongMsg  []string `json:"wrongmsg,omitempty" yaml:"wrongmsg,omitempty"`
	Fail      *string  `json:"fail,omitempty" yaml:"fail,omitempty"`
	Finish    *string  `json:"finish,omitempty" yaml:"finish,omitempty"`
}

// LivesCount returns the configured lives; 0 means unlimited.
func (q *Quiz) LivesCount() int {
	if q.Lives == nil {
		return DefaultLives
	}
	return *q.Lives
}

func (q *Quiz) Randomized() bool {
	if q.Randomize == nil {
		return DefaultRandomize
	}
	return *q.Randomize
}

func (q *Quiz) ShowsCount() bool {
	if q.ShowCount == nil {
		return DefaultShowCount
	}
	return *q.ShowCount
}

func (q *Quiz) FailText() string {
	if q.Fail == nil {
		return ""
	}
	return *q.Fail
}

func (q *Quiz) FinishText() string {
	if q.Finish == nil {
		return ""
	}
	return *q.Finish
}

// Clone returns a deep, independent copy of the document.
func (q *Quiz) Clone() Quiz {
	out := *q
	if q.Questions != nil {
		out.Questions = make([]Question, len(q.Questions))
		for i, question := range q.Questions {
			out.Questions[i] = question.Clone()
		}
	}
	if q.WrongMsg != nil {
		out.WrongMsg = append([]string{}, q.WrongMsg...)
	}
	out.Lives = clonePtr(q.Lives)
	out.Randomize = clonePtr(q.Randomize)
	out.ShowCount = clonePtr(q.ShowCount)
	out.Fail = clonePtr(q.Fail)
	out.Finish = clonePtr(q.Finish)
	return out
}

// Clone returns a deep copy of the question.
func (q Question) Clone() Question {
	if q.WrongMsg != nil {
		msgs := make(map[string]string, len(q.WrongMsg))
		for k, v := range q.WrongMsg {
			msgs[k] = v
		}
		q.WrongMsg = msgs
	}
	return q
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
