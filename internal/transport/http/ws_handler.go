package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"sophical-quiz-service/internal/app"
	"sophical-quiz-service/internal/domain"
)

// WSHandler binds one websocket connection to one quiz attempt. The client
// is the rendering layer: it sends the session operations and receives
// lifecycle transitions and timer ticks.
type WSHandler struct {
	service  *app.SessionService
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.SessionService) *WSHandler {
	return &WSHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type answerPayload struct {
	QuestionID string        `json:"questionId"`
	Answer     domain.Answer `json:"answer"`
}

type flagPayload struct {
	QuestionID string `json:"questionId"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

type statePayload struct {
	SessionID     string        `json:"sessionId"`
	QuizID        string        `json:"quizId"`
	Title         string        `json:"title"`
	State         domain.State  `json:"state"`
	CurrentIndex  int           `json:"currentIndex"`
	QuestionCount int           `json:"questionCount"`
	TotalPoints   int           `json:"totalPoints"`
	Remaining     int           `json:"remaining"`
	Flags         []string      `json:"flags"`
	Score         *domain.Score `json:"score,omitempty"`
}

type submittedPayload struct {
	Score   domain.Score            `json:"score"`
	Results []domain.QuestionResult `json:"results"`
}

// ServeWS upgrades the request, creates a fresh session for the requested
// quiz, and shuttles operations and events until the client disconnects.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	quizID := r.URL.Query().Get("quizId")
	if quizID == "" {
		http.Error(w, "missing quizId", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("ws upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	session, err := h.service.Create(r.Context(), quizID)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}
	defer h.service.Release(session.ID())

	events, cancel := session.Subscribe()
	defer cancel()

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	eventsDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				slog.Warn("ws write error", "err", err, "session", session.ID())
				return
			}
		}
	}()

	go func() {
		defer close(eventsDone)
		for {
			select {
			case event, ok := <-events:
				if !ok {
					return
				}
				select {
				case send <- h.outbound(session, event):
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	send <- outboundMessage[any]{Type: "state", Payload: h.snapshot(session)}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		if msg, ok := h.dispatch(session, inbound); ok {
			send <- msg
		}
	}

	close(closeSignals)
	<-eventsDone
	close(send)
	<-writerDone
}

// dispatch applies one inbound operation; the returned message, when ok, is
// a direct reply (lifecycle events flow through the subscription instead).
func (h *WSHandler) dispatch(session *app.Session, inbound inboundMessage) (outboundMessage[any], bool) {
	switch inbound.Type {
	case "start":
		if err := session.Start(); err != nil {
			return errorMessage(err), true
		}
		return outboundMessage[any]{}, false
	case "answer":
		var payload answerPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			return errorMessage(err), true
		}
		if err := session.Answer(payload.QuestionID, payload.Answer); err != nil {
			return errorMessage(err), true
		}
		return outboundMessage[any]{}, false
	case "next":
		if err := session.Next(); err != nil {
			return errorMessage(err), true
		}
		return outboundMessage[any]{Type: "state", Payload: h.snapshot(session)}, true
	case "previous":
		if err := session.Previous(); err != nil {
			return errorMessage(err), true
		}
		return outboundMessage[any]{Type: "state", Payload: h.snapshot(session)}, true
	case "flag":
		var payload flagPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			return errorMessage(err), true
		}
		if err := session.ToggleFlag(payload.QuestionID); err != nil {
			return errorMessage(err), true
		}
		return outboundMessage[any]{Type: "state", Payload: h.snapshot(session)}, true
	case "submit":
		if _, err := session.Submit(); err != nil {
			return errorMessage(err), true
		}
		return outboundMessage[any]{}, false
	case "state":
		return outboundMessage[any]{Type: "state", Payload: h.snapshot(session)}, true
	default:
		return outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "unsupported message type"}}, true
	}
}

func (h *WSHandler) outbound(session *app.Session, event app.Event) outboundMessage[any] {
	switch event.Type {
	case app.EventSubmitted:
		results, _ := session.Review()
		return outboundMessage[any]{Type: string(event.Type), Payload: submittedPayload{
			Score:   *event.Score,
			Results: results,
		}}
	default:
		return outboundMessage[any]{Type: string(event.Type), Payload: map[string]int{"remaining": event.Remaining}}
	}
}

func (h *WSHandler) snapshot(session *app.Session) statePayload {
	quiz := session.Quiz()
	remaining, _ := session.Remaining()
	payload := statePayload{
		SessionID:     session.ID(),
		QuizID:        quiz.ID,
		Title:         quiz.Title,
		State:         session.State(),
		CurrentIndex:  session.CurrentIndex(),
		QuestionCount: len(quiz.Questions),
		TotalPoints:   quiz.TotalPoints(),
		Remaining:     remaining,
		Flags:         session.Flags(),
	}
	if score, ok := session.Score(); ok {
		payload.Score = &score
	}
	return payload
}

func errorMessage(err error) outboundMessage[any] {
	return outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
}
