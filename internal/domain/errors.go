package domain

import "errors"

var (
	// ErrQuizNotFound indicates the quiz content could not be loaded.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrSessionNotFound is returned when a session id resolves to nothing.
	ErrSessionNotFound = errors.New("session not found")
	// ErrQuestionNotFound indicates a question id is not part of the quiz.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrAnswerShape is returned when an answer value does not match the
	// shape of its question's kind. The store is left unchanged.
	ErrAnswerShape = errors.New("answer shape does not match question kind")
	// ErrNotStarted is returned for operations that require an in-progress session.
	ErrNotStarted = errors.New("session not started")
	// ErrAlreadyStarted is returned when starting a session twice.
	ErrAlreadyStarted = errors.New("session already started")
	// ErrSessionClosed is returned for mutations after submission.
	ErrSessionClosed = errors.New("session already submitted")
)
