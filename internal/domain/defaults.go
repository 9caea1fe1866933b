package domain

// Backfill inserts the default for every optional setting that is absent or
// empty. Present values are never overwritten. It reports whether anything
// was inserted; callers do not treat that as an edit.
func Backfill(q *Quiz) bool {
	changed := false
	if q.Lives == nil || *q.Lives == 0 {
		changed = changed || q.Lives == nil
		q.Lives = Ptr(DefaultLives)
	}
	if q.Randomize == nil {
		q.Randomize = Ptr(DefaultRandomize)
		changed = true
	}
	if q.ShowCount == nil {
		q.ShowCount = Ptr(DefaultShowCount)
		changed = true
	}
	if len(q.WrongMsg) == 0 {
		changed = changed || q.WrongMsg == nil
		q.WrongMsg = []string{}
	}
	if q.Fail == nil || *q.Fail == "" {
		changed = changed || q.Fail == nil
		q.Fail = Ptr("")
	}
	if q.Finish == nil || *q.Finish == "" {
		changed = changed || q.Finish == nil
		q.Finish = Ptr("")
	}
	for i := range q.Questions {
		if q.Questions[i].WrongMsg == nil {
			q.Questions[i].WrongMsg = map[string]string{}
			changed = true
		}
	}
	return changed
}

// StripDefaults removes every optional field still equal to its default, so
// the saved document only carries settings that deviate from them.
func StripDefaults(q *Quiz) {
	if q.Lives != nil && *q.Lives == DefaultLives {
		q.Lives = nil
	}
	if q.Randomize != nil && *q.Randomize == DefaultRandomize {
		q.Randomize = nil
	}
	if q.ShowCount != nil && *q.ShowCount == DefaultShowCount {
		q.ShowCount = nil
	}
	if len(q.WrongMsg) == 0 {
		q.WrongMsg = nil
	}
	if q.Fail != nil && *q.Fail == "" {
		q.Fail = nil
	}
	if q.Finish != nil && *q.Finish == "" {
		q.Finish = nil
	}
	for i := range q.Questions {
		question := &q.Questions[i]
		for letter, msg := range question.WrongMsg {
			if msg == "" {
				delete(question.WrongMsg, letter)
			}
		}
		if len(question.WrongMsg) == 0 {
			question.WrongMsg = nil
		}
	}
}

// UsesNativeFeatures reports whether q carries any setting the plain JSON
// format is not meant to hold: any optional setting away from its default,
// a per-question wrong answer comment or an explanation.
func UsesNativeFeatures(q *Quiz) bool {
	c := q.Clone()
	StripDefaults(&c)
	if c.Lives != nil || c.Randomize != nil || c.ShowCount != nil || c.WrongMsg != nil || c.Fail != nil || c.Finish != nil {
		return true
	}
	for _, question := range c.Questions {
		if question.WrongMsg != nil || question.Explanation != "" {
			return true
		}
	}
	return false
}
