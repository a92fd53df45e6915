package domain

// Kind discriminates the question variants. The scoring engine switches on it
// exhaustively, so every kind listed here must have a grading rule.
type Kind string

const (
	KindSingleChoice Kind = "single-choice"
	KindMultiChoice  Kind = "multi-choice"
	KindShortAnswer  Kind = "short-answer"
	KindMatching     Kind = "matching"
	KindCodeAnswer   Kind = "code-answer"
)

// Choice is one selectable option of a choice question.
type Choice struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// MatchItem is one side of a matching question. The right-hand list may carry
// distractors that appear in no correct pair.
type MatchItem struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// MatchPair links a left item to a right item by identifier.
type MatchPair struct {
	LeftID  string `json:"leftId"`
	RightID string `json:"rightId"`
}

// Question is a tagged variant: Kind selects which of the optional fields
// apply. Short-answer and code-answer carry no grading data and are always
// manually graded.
type Question struct {
	ID         string `json:"id"`
	Kind       Kind   `json:"type"`
	Prompt     string `json:"prompt"`
	Points     int    `json:"points"`
	AutoGraded bool   `json:"isAutoGraded"`

	Choices          []Choice `json:"choices,omitempty"`          // single-choice, multi-choice
	CorrectChoiceID  string   `json:"correctChoiceId,omitempty"`  // single-choice
	CorrectChoiceIDs []string `json:"correctChoiceIds,omitempty"` // multi-choice

	LeftItems    []MatchItem `json:"leftItems,omitempty"`    // matching
	RightItems   []MatchItem `json:"rightItems,omitempty"`   // matching
	CorrectPairs []MatchPair `json:"correctPairs,omitempty"` // matching
}

// Quiz is an ordered sequence of questions with a wall-clock time limit.
// Immutable once a session starts.
type Quiz struct {
	ID               string     `json:"id"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	TimeLimitSeconds int        `json:"timeLimitSeconds"`
	Questions        []Question `json:"questions"`
}

// TotalPoints sums the point values of every question.
func (q Quiz) TotalPoints() int {
	total := 0
	for _, question := range q.Questions {
		total += question.Points
	}
	return total
}

// QuestionByID returns the question with the given id, if present.
func (q Quiz) QuestionByID(id string) (Question, bool) {
	for i := range q.Questions {
		if q.Questions[i].ID == id {
			return q.Questions[i], true
		}
	}
	return Question{}, false
}

// Answer is the captured response for one question, shaped by its kind:
// a choice id, a set of choice ids, a pair list, or free text.
type Answer struct {
	Kind      Kind        `json:"kind"`
	ChoiceID  string      `json:"choiceId,omitempty"`
	ChoiceIDs []string    `json:"choiceIds,omitempty"`
	Pairs     []MatchPair `json:"pairs,omitempty"`
	Text      string      `json:"text,omitempty"`
}

// SingleChoice builds a single-choice answer.
func SingleChoice(choiceID string) Answer {
	return Answer{Kind: KindSingleChoice, ChoiceID: choiceID}
}

// MultiChoice builds a multi-choice answer from the selected ids.
func MultiChoice(choiceIDs ...string) Answer {
	return Answer{Kind: KindMultiChoice, ChoiceIDs: choiceIDs}
}

// Matching builds a matching answer from the chosen pairs.
func Matching(pairs ...MatchPair) Answer {
	return Answer{Kind: KindMatching, Pairs: pairs}
}

// ShortText builds a short-answer response.
func ShortText(text string) Answer {
	return Answer{Kind: KindShortAnswer, Text: text}
}

// CodeText builds a code-answer response.
func CodeText(text string) Answer {
	return Answer{Kind: KindCodeAnswer, Text: text}
}

// Score aggregates one scoring pass over a quiz.
// PossibleAutoGraded + PendingManualGradePoints always equals TotalPossible,
// and Achieved never exceeds PossibleAutoGraded.
type Score struct {
	Achieved                 int `json:"achieved"`
	PossibleAutoGraded       int `json:"possibleAutoGraded"`
	PendingManualGradePoints int `json:"pendingManualGradePoints"`
	TotalPossible            int `json:"totalPossible"`
}

// QuestionResult is the per-question line of the review report.
type QuestionResult struct {
	QuestionID    string `json:"questionId"`
	Answered      bool   `json:"answered"`
	AutoGraded    bool   `json:"autoGraded"`
	Correct       bool   `json:"correct"` // always false for manual kinds
	Awarded       int    `json:"awarded"`
	PendingPoints int    `json:"pendingPoints"`
}

// State is the session lifecycle state.
type State string

const (
	StateNotStarted State = "not-started"
	StateInProgress State = "in-progress"
	StateSubmitted  State = "submitted"
)
