package app

import (
	"sync"
	"time"

	"sophical-quiz-service/internal/domain"
	"sophical-quiz-service/internal/scoring"
)

// EventType labels the lifecycle and timer signals a session emits for the
// rendering layer.
type EventType string

const (
	EventStarted   EventType = "started"
	EventTick      EventType = "tick"
	EventSubmitted EventType = "submitted"
)

// Event is one emitted signal. Score is set only on submitted events.
type Event struct {
	Type      EventType     `json:"type"`
	Remaining int           `json:"remaining"`
	Score     *domain.Score `json:"score,omitempty"`
}

// Session is one attempt at a quiz: a state machine over
// not-started -> in-progress -> submitted that owns the answer store, the
// navigation tracker, and the countdown. Submitted is terminal; a new attempt
// needs a fresh session.
//
// All mutations go through the mutex, so a timer expiry racing a manual
// submit resolves to whichever acquires it first; the loser observes the
// state change and becomes a no-op. Scoring therefore runs at most once.
type Session struct {
	id       string
	quiz     domain.Quiz
	tickUnit time.Duration

	mu          sync.RWMutex
	state       domain.State
	answers     *AnswerStore
	tracker     *Tracker
	remaining   int
	timer       *countdown
	score       *domain.Score
	results     []domain.QuestionResult
	subscribers map[chan Event]struct{}
}

// NewSession builds a not-started session over an already-validated quiz.
func NewSession(id string, quiz domain.Quiz) *Session {
	return NewSessionWithTick(id, quiz, time.Second)
}

// NewSessionWithTick lets tests shrink the wall-clock second.
func NewSessionWithTick(id string, quiz domain.Quiz, tickUnit time.Duration) *Session {
	return &Session{
		id:          id,
		quiz:        quiz,
		tickUnit:    tickUnit,
		state:       domain.StateNotStarted,
		answers:     newAnswerStore(),
		tracker:     newTracker(len(quiz.Questions)),
		remaining:   quiz.TimeLimitSeconds,
		subscribers: make(map[chan Event]struct{}),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Quiz returns the immutable quiz definition this session runs against.
func (s *Session) Quiz() domain.Quiz { return s.quiz }

// Start moves the session to in-progress: remaining time is set to the time
// limit, the cursor returns to the first question, answers and flags are
// cleared, and the countdown begins.
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case domain.StateInProgress:
		return domain.ErrAlreadyStarted
	case domain.StateSubmitted:
		return domain.ErrSessionClosed
	}

	s.state = domain.StateInProgress
	s.remaining = s.quiz.TimeLimitSeconds
	s.answers.Clear()
	s.tracker.Reset()
	s.timer = startCountdown(s.remaining, s.tickUnit, s.onTick, s.onExpire)
	s.broadcastLocked(Event{Type: EventStarted, Remaining: s.remaining})
	return nil
}

// Answer records a value for a question. The value's shape must match the
// question's kind; otherwise the store is left untouched.
func (s *Session) Answer(questionID string, answer domain.Answer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireInProgressLocked(); err != nil {
		return err
	}
	question, ok := s.quiz.QuestionByID(questionID)
	if !ok {
		return domain.ErrQuestionNotFound
	}
	if !domain.MatchesShape(question, answer) {
		return domain.ErrAnswerShape
	}
	return s.answers.Set(questionID, answer)
}

// Next advances the cursor; a no-op at the last question.
func (s *Session) Next() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireInProgressLocked(); err != nil {
		return err
	}
	s.tracker.Next()
	return nil
}

// Previous retreats the cursor; a no-op at the first question.
func (s *Session) Previous() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireInProgressLocked(); err != nil {
		return err
	}
	s.tracker.Previous()
	return nil
}

// ToggleFlag marks or unmarks a question for review.
func (s *Session) ToggleFlag(questionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireInProgressLocked(); err != nil {
		return err
	}
	if _, ok := s.quiz.QuestionByID(questionID); !ok {
		return domain.ErrQuestionNotFound
	}
	s.tracker.ToggleFlag(questionID)
	return nil
}

// Submit closes the attempt: the timer stops, the scoring engine runs once
// over the captured answers, and the answer store freezes for review.
// Submitting an already-submitted session returns the frozen score unchanged.
func (s *Session) Submit() (domain.Score, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case domain.StateNotStarted:
		return domain.Score{}, domain.ErrNotStarted
	case domain.StateSubmitted:
		return *s.score, nil
	}
	return s.submitLocked(), nil
}

func (s *Session) submitLocked() domain.Score {
	if s.timer != nil {
		s.timer.Stop()
	}
	score, results := scoring.Evaluate(s.quiz, s.answers.Snapshot())
	s.score = &score
	s.results = results
	s.answers.freeze()
	s.state = domain.StateSubmitted
	s.broadcastLocked(Event{Type: EventSubmitted, Remaining: s.remaining, Score: s.score})
	return score
}

// onTick is the countdown callback for every elapsed second. Returning false
// halts the countdown when the session has already left in-progress.
func (s *Session) onTick(remaining int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != domain.StateInProgress {
		return false
	}
	s.remaining = remaining
	if remaining > 0 {
		s.broadcastLocked(Event{Type: EventTick, Remaining: remaining})
	}
	return true
}

// onExpire force-submits with whatever answers are stored, identical in
// effect to a manual submit at the same instant.
func (s *Session) onExpire() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != domain.StateInProgress {
		return
	}
	s.submitLocked()
}

func (s *Session) requireInProgressLocked() error {
	switch s.state {
	case domain.StateNotStarted:
		return domain.ErrNotStarted
	case domain.StateSubmitted:
		return domain.ErrSessionClosed
	}
	return nil
}

// State returns the lifecycle state.
func (s *Session) State() domain.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// CurrentIndex returns the cursor position.
func (s *Session) CurrentIndex() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tracker.Cursor()
}

// CurrentQuestion returns the question under the cursor.
func (s *Session) CurrentQuestion() domain.Question {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.quiz.Questions[s.tracker.Cursor()]
}

// Remaining returns the remaining whole seconds and whether the countdown is
// still running.
func (s *Session) Remaining() (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.remaining, s.state == domain.StateInProgress
}

// Flags returns the flagged question ids in stable order.
func (s *Session) Flags() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tracker.Flags()
}

// AnswerFor returns the stored answer for a question, if any.
func (s *Session) AnswerFor(questionID string) (domain.Answer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.answers.Get(questionID)
}

// Score returns the frozen score; ok is false before submission.
func (s *Session) Score() (domain.Score, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.score == nil {
		return domain.Score{}, false
	}
	return *s.score, true
}

// Review returns the per-question results of the single scoring pass; ok is
// false before submission.
func (s *Session) Review() ([]domain.QuestionResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.results == nil {
		return nil, false
	}
	out := make([]domain.QuestionResult, len(s.results))
	copy(out, s.results)
	return out, true
}

// Subscribe returns a channel of session events. The caller must invoke the
// returned cancel function to avoid leaks.
func (s *Session) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 8)

	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

func (s *Session) broadcastLocked(event Event) {
	for ch := range s.subscribers {
		select {
		case ch <- event:
		default:
			// Drop the oldest buffered event so slow readers never block
			// the state machine.
			select {
			case <-ch:
			default:
			}
			ch <- event
		}
	}
}
