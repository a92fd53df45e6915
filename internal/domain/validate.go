package domain

import "fmt"

// Validate checks a quiz definition before a session may be built around it.
// Dangling correct-answer references, negative point values, duplicate ids,
// and kind/auto-graded mismatches are all fatal.
func Validate(quiz Quiz) error {
	if len(quiz.Questions) == 0 {
		return fmt.Errorf("quiz %q: need at least one question", quiz.ID)
	}
	if quiz.TimeLimitSeconds <= 0 {
		return fmt.Errorf("quiz %q: time limit must be positive", quiz.ID)
	}

	seen := make(map[string]struct{}, len(quiz.Questions))
	for i, q := range quiz.Questions {
		if q.ID == "" {
			return fmt.Errorf("question %d: missing id", i)
		}
		if _, dup := seen[q.ID]; dup {
			return fmt.Errorf("question %q: duplicate id", q.ID)
		}
		seen[q.ID] = struct{}{}

		if q.Points < 0 {
			return fmt.Errorf("question %q: negative points", q.ID)
		}
		if err := validateKind(q); err != nil {
			return err
		}
	}
	return nil
}

func validateKind(q Question) error {
	switch q.Kind {
	case KindSingleChoice:
		if !q.AutoGraded {
			return fmt.Errorf("question %q: %s must be auto-graded", q.ID, q.Kind)
		}
		if !hasChoice(q.Choices, q.CorrectChoiceID) {
			return fmt.Errorf("question %q: correct choice %q not among choices", q.ID, q.CorrectChoiceID)
		}
	case KindMultiChoice:
		if !q.AutoGraded {
			return fmt.Errorf("question %q: %s must be auto-graded", q.ID, q.Kind)
		}
		for _, id := range q.CorrectChoiceIDs {
			if !hasChoice(q.Choices, id) {
				return fmt.Errorf("question %q: correct choice %q not among choices", q.ID, id)
			}
		}
	case KindMatching:
		if !q.AutoGraded {
			return fmt.Errorf("question %q: %s must be auto-graded", q.ID, q.Kind)
		}
		for _, pair := range q.CorrectPairs {
			if !hasItem(q.LeftItems, pair.LeftID) {
				return fmt.Errorf("question %q: pair references unknown left item %q", q.ID, pair.LeftID)
			}
			if !hasItem(q.RightItems, pair.RightID) {
				return fmt.Errorf("question %q: pair references unknown right item %q", q.ID, pair.RightID)
			}
		}
	case KindShortAnswer, KindCodeAnswer:
		if q.AutoGraded {
			return fmt.Errorf("question %q: %s requires manual grading", q.ID, q.Kind)
		}
	default:
		return fmt.Errorf("question %q: unknown kind %q", q.ID, q.Kind)
	}
	return nil
}

func hasChoice(choices []Choice, id string) bool {
	for _, c := range choices {
		if c.ID == id {
			return true
		}
	}
	return false
}

func hasItem(items []MatchItem, id string) bool {
	for _, item := range items {
		if item.ID == id {
			return true
		}
	}
	return false
}

// MatchesShape reports whether an answer value carries the shape the given
// question kind expects. Free-text shapes are shared by short-answer and
// code-answer.
func MatchesShape(q Question, a Answer) bool {
	switch q.Kind {
	case KindShortAnswer, KindCodeAnswer:
		return a.Kind == KindShortAnswer || a.Kind == KindCodeAnswer
	default:
		return a.Kind == q.Kind
	}
}
