package app

import "sophical-quiz-service/internal/domain"

// AnswerStore maps question ids to captured answer values. It does not
// validate shapes; the session checks an answer against its question before
// storing. One session, one actor: the owning session's lock is the only
// synchronization.
type AnswerStore struct {
	entries map[string]domain.Answer
	frozen  bool
}

func newAnswerStore() *AnswerStore {
	return &AnswerStore{entries: make(map[string]domain.Answer)}
}

// Set inserts or replaces the answer for a question.
func (s *AnswerStore) Set(questionID string, answer domain.Answer) error {
	if s.frozen {
		return domain.ErrSessionClosed
	}
	s.entries[questionID] = answer
	return nil
}

// Get returns the stored answer; ok is false when the question is unanswered.
func (s *AnswerStore) Get(questionID string) (domain.Answer, bool) {
	answer, ok := s.entries[questionID]
	return answer, ok
}

// Clear empties the store and lifts any freeze, ready for a fresh attempt.
func (s *AnswerStore) Clear() {
	s.entries = make(map[string]domain.Answer)
	s.frozen = false
}

// Len reports how many questions have a stored answer.
func (s *AnswerStore) Len() int {
	return len(s.entries)
}

// Snapshot copies the entries so scoring can stay pure and the submitted
// state can hand out a view that later edits cannot reach.
func (s *AnswerStore) Snapshot() map[string]domain.Answer {
	out := make(map[string]domain.Answer, len(s.entries))
	for id, answer := range s.entries {
		out[id] = answer
	}
	return out
}

// freeze makes the store read-only for the review phase.
func (s *AnswerStore) freeze() {
	s.frozen = true
}
