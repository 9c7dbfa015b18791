package broadcast

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/radpretation/surveyvoice-core/core/events"
)

func TestHandlerStreamsEventsToWebsocketClients(t *testing.T) {
	b := New()
	defer b.Close()

	server := httptest.NewServer(Handler(b))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("failed to connect to event feed: %v", err)
	}
	defer conn.Close()

	// the observer attaches during the upgrade; wait for it to register
	deadline := time.Now().Add(time.Second)
	for b.ObserverCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for the connection to attach")
		}
		time.Sleep(5 * time.Millisecond)
	}

	if err := b.Publish(events.NewAssistantUtterance("hello from the session")); err != nil {
		t.Fatalf("expected publish to succeed, got %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	messageType, payload, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("failed to read event frame: %v", err)
	}
	if messageType != websocket.TextMessage {
		t.Fatalf("expected a text frame, got type %d", messageType)
	}

	var decoded struct {
		Speaker string `json:"speaker"`
		Text    string `json:"text"`
	}
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("received malformed payload: %v", err)
	}
	if decoded.Speaker != "assistant" || decoded.Text != "hello from the session" {
		t.Fatalf("unexpected payload: %s", payload)
	}
}

func TestHandlerDetachesDisconnectedClients(t *testing.T) {
	b := New()
	defer b.Close()

	server := httptest.NewServer(Handler(b))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("failed to connect to event feed: %v", err)
	}

	deadline := time.Now().Add(time.Second)
	for b.ObserverCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for the connection to attach")
		}
		time.Sleep(5 * time.Millisecond)
	}

	conn.Close()

	deadline = time.Now().Add(2 * time.Second)
	for b.ObserverCount() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("expected the observer to detach after disconnect, still %d attached", b.ObserverCount())
		}
		time.Sleep(5 * time.Millisecond)
	}
}
