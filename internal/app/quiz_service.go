package app

import (
	"context"
	"time"

	"github.com/google/uuid"

	"sophical-quiz-service/internal/domain"
)

// SessionRepository abstracts how live sessions are stored (in-memory, Redis-backed, etc).
type SessionRepository interface {
	Put(session *Session)
	Get(sessionID string) (*Session, bool)
	Delete(sessionID string)
}

// QuizRepository loads quiz content (from cache/backing store).
type QuizRepository interface {
	GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error)
}

// SessionService creates and resolves quiz attempts. Each Create is a fresh
// session; a submitted session is never restarted.
type SessionService struct {
	sessions SessionRepository
	quizzes  QuizRepository
	tickUnit time.Duration
}

func NewSessionService(store SessionRepository, quizzes QuizRepository) *SessionService {
	return &SessionService{sessions: store, quizzes: quizzes, tickUnit: time.Second}
}

// NewSessionServiceWithTick is a test hook for fast countdowns.
func NewSessionServiceWithTick(store SessionRepository, quizzes QuizRepository, tickUnit time.Duration) *SessionService {
	return &SessionService{sessions: store, quizzes: quizzes, tickUnit: tickUnit}
}

// Create loads and validates the quiz, then registers a not-started session
// for it. An invalid quiz definition is fatal to session creation.
func (s *SessionService) Create(ctx context.Context, quizID string) (*Session, error) {
	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if err := domain.Validate(quiz); err != nil {
		return nil, err
	}

	session := NewSessionWithTick(uuid.NewString(), quiz, s.tickUnit)
	s.sessions.Put(session)
	return session, nil
}

// Get resolves a live session by id.
func (s *SessionService) Get(sessionID string) (*Session, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

// Release drops a session from the repository once the client is done with
// the review. The session itself stays usable for anyone still holding it.
func (s *SessionService) Release(sessionID string) {
	s.sessions.Delete(sessionID)
}
