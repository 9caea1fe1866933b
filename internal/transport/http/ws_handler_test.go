package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gamingwithevets/quizprog-gui/internal/app"
	"github.com/gamingwithevets/quizprog-gui/internal/domain"
	"github.com/gamingwithevets/quizprog-gui/internal/infra/memory"
	"github.com/gorilla/websocket"
)

func TestWebSocketPlaybackFlow(t *testing.T) {
	sessions := memory.NewSessionStore()
	quizRepo := memory.NewQuizRepository(memory.NewStaticQuizLoader(sampleQuiz()), time.Minute)
	service := app.NewPlaybackService(sessions, quizRepo, nil)
	wsHandler := NewWSHandler(service, nil)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", wsHandler.ServeWS)
	server := httptest.NewServer(mux)
	defer server.Close()

	u := "ws" + server.URL[len("http"):] + "/ws?quizId=capitals"
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	_, payload := readNext(conn, t, "state")
	if payload["state"] != "not_started" {
		t.Fatalf("expected not_started, got %v", payload["state"])
	}

	writeMsg(t, conn, map[string]any{"type": "advance"})
	_, payload = readNext(conn, t, "state")
	if payload["state"] != "showing" || payload["number"] != float64(1) {
		t.Fatalf("expected first question, got %v", payload)
	}
	question, _ := payload["question"].(map[string]any)
	if question["question"] != "Capital of France?" {
		t.Fatalf("unexpected question %v", question)
	}
	if _, leaked := question["correct"]; leaked {
		t.Fatalf("answer key must not be sent to the client")
	}

	writeMsg(t, conn, map[string]any{"type": "answer", "payload": map[string]any{"choice": "b"}})
	_, payload = readNext(conn, t, "outcome")
	if payload["kind"] != "incorrect" || payload["message"] != "Try again!" {
		t.Fatalf("expected incorrect with global comment, got %v", payload)
	}
	readNext(conn, t, "state")

	writeMsg(t, conn, map[string]any{"type": "answer", "payload": map[string]any{"choice": "a"}})
	_, payload = readNext(conn, t, "outcome")
	if payload["kind"] != "complete" || payload["closing"] != "All done" {
		t.Fatalf("expected completion, got %v", payload)
	}
	_, payload = readNext(conn, t, "state")
	if payload["state"] != "won" {
		t.Fatalf("expected won, got %v", payload["state"])
	}

	writeMsg(t, conn, map[string]any{"type": "answer", "payload": map[string]any{"choice": "a"}})
	readNext(conn, t, "error")
}

func TestWebSocketUnknownQuiz(t *testing.T) {
	service := app.NewPlaybackService(memory.NewSessionStore(),
		memory.NewQuizRepository(memory.NewStaticQuizLoader(nil), time.Minute), nil)
	server := httptest.NewServer(http.HandlerFunc(NewWSHandler(service, nil).ServeWS))
	defer server.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+server.URL[len("http"):]+"/ws?quizId=nope", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	_, payload := readNext(conn, t, "error")
	if payload["message"] != domain.ErrQuizNotFound.Error() {
		t.Fatalf("unexpected error payload %v", payload)
	}
}

func writeMsg(t *testing.T, conn *websocket.Conn, msg map[string]any) {
	t.Helper()
	if err := conn.WriteJSON(msg); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func readNext(conn *websocket.Conn, t *testing.T, expect string) (string, map[string]any) {
	t.Helper()
	var msg struct {
		Type    string         `json:"type"`
		Payload map[string]any `json:"payload"`
	}
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read json: %v", err)
	}
	if expect != "" && msg.Type != expect {
		t.Fatalf("expected type %s, got %s (%v)", expect, msg.Type, msg.Payload)
	}
	return msg.Type, msg.Payload
}

func sampleQuiz() map[string]domain.Quiz {
	return map[string]domain.Quiz{
		"capitals": {
			Title: "Capitals",
			Questions: []domain.Question{
				{
					Question: "Capital of France?",
					A:        "Paris",
					B:        "Rome",
					C:        "Oslo",
					D:        "Bern",
					Correct:  domain.ChoiceA,
				},
			},
			WrongMsg: []string{"Try again!"},
			Finish:   domain.Ptr("All done"),
		},
	}
}
