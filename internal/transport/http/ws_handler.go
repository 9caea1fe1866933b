package http

import (
	"encoding/json"
	"net/http"

	"github.com/gamingwithevets/quizprog-gui/internal/app"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// WSHandler bridges one websocket connection to one playback session, for a
// presentation client running outside this process.
type WSHandler struct {
	service  *app.PlaybackService
	log      *zap.Logger
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.PlaybackService, log *zap.Logger) *WSHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &WSHandler{
		service: service,
		log:     log,
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
	Choice string `json:"choice"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades HTTP requests to websockets and wires them into a playback session.
//
// Inbound:  {"type": "advance"} | {"type": "answer", "payload": {"choice": "b"}} | {"type": "restart"}
// Outbound: "state" (app.Snapshot), "outcome" (app.Outcome), "error".
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	quizID := r.URL.Query().Get("quizId")
	if quizID == "" {
		http.Error(w, "missing quizId", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("ws upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	ctx := r.Context()
	id, err := h.service.StartQuiz(ctx, quizID)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}
	defer h.service.End(ctx, id)
	log := h.log.With(zap.String("quiz", quizID), zap.String("session", id))
	log.Info("playback connected")

	// All writes go through one goroutine; the read loop below is the only
	// caller of the session, so session calls are serialised per connection.
	send := make(chan outboundMessage[any], 16)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Warn("ws write error", zap.Error(err))
				return
			}
		}
	}()

	sendErr := func(err error) {
		send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
	}

	if snap, err := h.service.Current(ctx, id); err == nil {
		send <- outboundMessage[any]{Type: "state", Payload: snap}
	}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "advance":
			snap, err := h.service.Advance(ctx, id)
			if err != nil {
				sendErr(err)
				continue
			}
			send <- outboundMessage[any]{Type: "state", Payload: snap}
		case "answer":
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "invalid answer payload"}}
				continue
			}
			out, err := h.service.Answer(ctx, id, payload.Choice)
			if err != nil {
				sendErr(err)
				continue
			}
			send <- outboundMessage[any]{Type: "outcome", Payload: out}
			if snap, err := h.service.Current(ctx, id); err == nil {
				send <- outboundMessage[any]{Type: "state", Payload: snap}
			}
		case "restart":
			snap, err := h.service.Restart(ctx, id)
			if err != nil {
				sendErr(err)
				continue
			}
			send <- outboundMessage[any]{Type: "state", Payload: snap}
		default:
			send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "unsupported message type"}}
		}
	}

	close(send)
	<-writerDone
	log.Info("playback disconnected")
}
