package broadcast

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// Handler upgrades incoming connections and streams the event feed to them,
// one JSON text frame per event. A client that fails a write is dropped and
// its observer detached.
func Handler(broadcaster *Broadcaster) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("Failed to upgrade event feed connection: %v", err)
			return
		}

		observer := broadcaster.Attach()
		go discardIncoming(conn, observer)
		go pumpEvents(conn, observer)
	})
}

// discardIncoming drains client frames so pings are answered and a closed
// peer is noticed even when no events flow.
func discardIncoming(conn *websocket.Conn, observer *Observer) {
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			observer.Close()
			return
		}
	}
}

func pumpEvents(conn *websocket.Conn, observer *Observer) {
	defer conn.Close()

	for payload := range observer.Events() {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("Failed to write to event feed client: %v", err)
			}
			observer.Close()
			return
		}
	}
}
