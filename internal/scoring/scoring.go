// Package scoring grades a finished attempt. Evaluate is a pure function over
// the quiz definition and a snapshot of captured answers; it never mutates
// either input, so submitting twice with the same inputs yields the same
// Score.
package scoring

import "sophical-quiz-service/internal/domain"

// Evaluate walks the questions in quiz order and produces the aggregate Score
// together with the per-question review results.
//
// Auto-graded questions score all-or-nothing: full points on an exact match,
// zero otherwise. Multi-choice answers must equal the correct set (same
// cardinality, both inclusions); matching answers must equal the correct pair
// set regardless of order. Manually graded questions contribute their points
// to the pending-manual bucket and never to Achieved.
func Evaluate(quiz domain.Quiz, answers map[string]domain.Answer) (domain.Score, []domain.QuestionResult) {
	var score domain.Score
	results := make([]domain.QuestionResult, 0, len(quiz.Questions))

	for _, q := range quiz.Questions {
		score.TotalPossible += q.Points
		answer, answered := answers[q.ID]

		result := domain.QuestionResult{
			QuestionID: q.ID,
			Answered:   answered,
			AutoGraded: q.AutoGraded,
		}

		if !q.AutoGraded {
			score.PendingManualGradePoints += q.Points
			result.PendingPoints = q.Points
			results = append(results, result)
			continue
		}

		// An absent answer grades as the zero value: empty selection, no
		// pairs. That only passes when the correct set is itself empty.
		score.PossibleAutoGraded += q.Points
		if correct(q, answer) {
			score.Achieved += q.Points
			result.Correct = true
			result.Awarded = q.Points
		}
		results = append(results, result)
	}

	return score, results
}

func correct(q domain.Question, a domain.Answer) bool {
	switch q.Kind {
	case domain.KindSingleChoice:
		return a.ChoiceID != "" && a.ChoiceID == q.CorrectChoiceID
	case domain.KindMultiChoice:
		return sameChoiceSet(a.ChoiceIDs, q.CorrectChoiceIDs)
	case domain.KindMatching:
		return samePairSet(a.Pairs, q.CorrectPairs)
	default:
		// Manual kinds never reach here; Validate rejects unknown kinds.
		return false
	}
}

// sameChoiceSet compares two id lists as sets: equal cardinality and mutual
// inclusion. Duplicate ids within a list collapse, so cardinality is checked
// on the deduplicated sets.
func sameChoiceSet(got, want []string) bool {
	gotSet := make(map[string]struct{}, len(got))
	for _, id := range got {
		gotSet[id] = struct{}{}
	}
	wantSet := make(map[string]struct{}, len(want))
	for _, id := range want {
		wantSet[id] = struct{}{}
	}
	if len(gotSet) != len(wantSet) {
		return false
	}
	for id := range gotSet {
		if _, ok := wantSet[id]; !ok {
			return false
		}
	}
	return true
}

// samePairSet compares pair lists as sets, order-independent. One wrong or
// missing pair fails the whole question.
func samePairSet(got, want []domain.MatchPair) bool {
	if len(got) != len(want) {
		return false
	}
	wantSet := make(map[domain.MatchPair]struct{}, len(want))
	for _, pair := range want {
		wantSet[pair] = struct{}{}
	}
	for _, pair := range got {
		if _, ok := wantSet[pair]; !ok {
			return false
		}
	}
	return true
}
