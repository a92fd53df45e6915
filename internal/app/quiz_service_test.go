package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"sophical-quiz-service/internal/app"
	"sophical-quiz-service/internal/domain"
	"sophical-quiz-service/internal/infra/memory"
)

func TestCreateAndResolveSession(t *testing.T) {
	ctx := context.Background()
	service := newTestService(t, testQuiz())

	session, err := service.Create(ctx, "quiz-1")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if session.State() != domain.StateNotStarted {
		t.Fatalf("new session should be not-started, got %s", session.State())
	}

	resolved, err := service.Get(session.ID())
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if resolved != session {
		t.Fatalf("expected same session instance")
	}

	service.Release(session.ID())
	if _, err := service.Get(session.ID()); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound after release, got %v", err)
	}
}

func TestCreateRejectsUnknownQuiz(t *testing.T) {
	service := newTestService(t, testQuiz())
	if _, err := service.Create(context.Background(), "quiz-unknown"); !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected ErrQuizNotFound, got %v", err)
	}
}

func TestCreateRejectsInvalidQuiz(t *testing.T) {
	broken := testQuiz()
	broken.Questions[0].CorrectChoiceID = "ghost"
	service := newTestService(t, broken)

	if _, err := service.Create(context.Background(), "quiz-1"); err == nil {
		t.Fatalf("expected validation failure for dangling correct choice")
	}
}

func TestEachCreateIsAFreshAttempt(t *testing.T) {
	ctx := context.Background()
	service := newTestService(t, testQuiz())

	first, err := service.Create(ctx, "quiz-1")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	_ = first.Start()
	_ = first.Answer("q1", domain.SingleChoice("c2"))
	if _, err := first.Submit(); err != nil {
		t.Fatalf("submit: %v", err)
	}

	second, err := service.Create(ctx, "quiz-1")
	if err != nil {
		t.Fatalf("second create: %v", err)
	}
	if second.ID() == first.ID() {
		t.Fatalf("attempts must not share identity")
	}
	if second.State() != domain.StateNotStarted {
		t.Fatalf("fresh attempt should be not-started, got %s", second.State())
	}
}

func newTestService(t *testing.T, quiz domain.Quiz) *app.SessionService {
	t.Helper()
	sessionStore := memory.NewSessionStore()
	quizRepo := memory.NewQuizRepository(memory.NewStaticQuizLoader(map[string]domain.Quiz{
		"quiz-1": quiz,
	}), 5*time.Minute)
	return app.NewSessionService(sessionStore, quizRepo)
}
