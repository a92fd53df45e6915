package app

import "sort"

// Tracker holds the current-question cursor and the set of questions flagged
// for review. Both are session-scoped and reset when a new attempt starts.
type Tracker struct {
	cursor int
	total  int
	flags  map[string]struct{}
}

func newTracker(total int) *Tracker {
	return &Tracker{total: total, flags: make(map[string]struct{})}
}

// Next advances the cursor; a no-op at the last question.
func (t *Tracker) Next() {
	if t.cursor < t.total-1 {
		t.cursor++
	}
}

// Previous retreats the cursor; a no-op at the first question.
func (t *Tracker) Previous() {
	if t.cursor > 0 {
		t.cursor--
	}
}

// Cursor returns the current question index.
func (t *Tracker) Cursor() int {
	return t.cursor
}

// ToggleFlag flags an unflagged question and unflags a flagged one.
func (t *Tracker) ToggleFlag(questionID string) {
	if _, ok := t.flags[questionID]; ok {
		delete(t.flags, questionID)
		return
	}
	t.flags[questionID] = struct{}{}
}

// Flagged reports whether a question is currently flagged.
func (t *Tracker) Flagged(questionID string) bool {
	_, ok := t.flags[questionID]
	return ok
}

// Flags returns the flagged question ids in stable order.
func (t *Tracker) Flags() []string {
	out := make([]string, 0, len(t.flags))
	for id := range t.flags {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Reset returns the cursor to the first question and clears all flags.
func (t *Tracker) Reset() {
	t.cursor = 0
	t.flags = make(map[string]struct{})
}
