package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sophical-quiz-service/internal/domain"
)

func validQuiz() domain.Quiz {
	return domain.Quiz{
		ID:               "quiz-1",
		Title:            "Valid",
		TimeLimitSeconds: 300,
		Questions: []domain.Question{
			{
				ID:              "q1",
				Kind:            domain.KindSingleChoice,
				Points:          5,
				AutoGraded:      true,
				Choices:         []domain.Choice{{ID: "c1"}, {ID: "c2"}},
				CorrectChoiceID: "c2",
			},
			{
				ID:         "q2",
				Kind:       domain.KindMatching,
				Points:     10,
				AutoGraded: true,
				LeftItems:  []domain.MatchItem{{ID: "l1"}},
				RightItems: []domain.MatchItem{{ID: "r1"}, {ID: "r2"}},
				CorrectPairs: []domain.MatchPair{
					{LeftID: "l1", RightID: "r1"},
				},
			},
			{ID: "q3", Kind: domain.KindShortAnswer, Points: 10},
		},
	}
}

func TestValidateAcceptsWellFormedQuiz(t *testing.T) {
	require.NoError(t, domain.Validate(validQuiz()))
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*domain.Quiz)
	}{
		{"no questions", func(q *domain.Quiz) { q.Questions = nil }},
		{"zero time limit", func(q *domain.Quiz) { q.TimeLimitSeconds = 0 }},
		{"negative points", func(q *domain.Quiz) { q.Questions[0].Points = -1 }},
		{"duplicate question id", func(q *domain.Quiz) { q.Questions[1].ID = "q1" }},
		{"missing question id", func(q *domain.Quiz) { q.Questions[0].ID = "" }},
		{"dangling correct choice", func(q *domain.Quiz) { q.Questions[0].CorrectChoiceID = "nope" }},
		{"dangling left item in pair", func(q *domain.Quiz) {
			q.Questions[1].CorrectPairs[0].LeftID = "ghost"
		}},
		{"dangling right item in pair", func(q *domain.Quiz) {
			q.Questions[1].CorrectPairs[0].RightID = "ghost"
		}},
		{"single-choice not auto-graded", func(q *domain.Quiz) { q.Questions[0].AutoGraded = false }},
		{"short-answer marked auto-graded", func(q *domain.Quiz) { q.Questions[2].AutoGraded = true }},
		{"unknown kind", func(q *domain.Quiz) { q.Questions[0].Kind = "essay" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quiz := validQuiz()
			tt.mutate(&quiz)
			assert.Error(t, domain.Validate(quiz))
		})
	}
}

func TestValidateRejectsDanglingMultiChoiceID(t *testing.T) {
	quiz := validQuiz()
	quiz.Questions[0] = domain.Question{
		ID:               "q1",
		Kind:             domain.KindMultiChoice,
		Points:           5,
		AutoGraded:       true,
		Choices:          []domain.Choice{{ID: "a"}, {ID: "b"}},
		CorrectChoiceIDs: []string{"a", "ghost"},
	}
	assert.Error(t, domain.Validate(quiz))
}

func TestMatchesShape(t *testing.T) {
	single := domain.Question{Kind: domain.KindSingleChoice}
	short := domain.Question{Kind: domain.KindShortAnswer}
	code := domain.Question{Kind: domain.KindCodeAnswer}
	matching := domain.Question{Kind: domain.KindMatching}

	assert.True(t, domain.MatchesShape(single, domain.SingleChoice("c1")))
	assert.False(t, domain.MatchesShape(single, domain.MultiChoice("c1")))
	assert.False(t, domain.MatchesShape(matching, domain.SingleChoice("c1")))
	assert.True(t, domain.MatchesShape(matching, domain.Matching()))

	// Free text is interchangeable between the two manual kinds.
	assert.True(t, domain.MatchesShape(short, domain.ShortText("x")))
	assert.True(t, domain.MatchesShape(short, domain.CodeText("x")))
	assert.True(t, domain.MatchesShape(code, domain.ShortText("x")))
}

func TestQuizAccessors(t *testing.T) {
	quiz := validQuiz()
	assert.Equal(t, 25, quiz.TotalPoints())

	q, ok := quiz.QuestionByID("q2")
	require.True(t, ok)
	assert.Equal(t, domain.KindMatching, q.Kind)

	_, ok = quiz.QuestionByID("missing")
	assert.False(t, ok)
}
