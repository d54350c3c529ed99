package websocket

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// TestReadPumpHandlesMessagesSequentially sends several messages down one
// connection and checks that the handler never runs for two of them at once,
// so session mutations stay serialized per connection.
func TestReadPumpHandlesMessagesSequentially(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	var inFlight int32
	var overlapped int32
	var handled int32
	done := make(chan struct{}, 3)

	upgrader := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("Upgrade() error = %v", err)
			return
		}

		client := hub.RegisterClient(conn, "user-1", "session-1")
		client.MessageHandler = func(_ *Client, _ []byte) {
			if atomic.AddInt32(&inFlight, 1) > 1 {
				atomic.StoreInt32(&overlapped, 1)
			}
			time.Sleep(20 * time.Millisecond)
			atomic.AddInt32(&inFlight, -1)
			atomic.AddInt32(&handled, 1)
			done <- struct{}{}
		}
		go client.ReadPump()
		go client.WritePump()
	}))
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()

	for i := 0; i < 3; i++ {
		if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"message","content":"hi"}`)); err != nil {
			t.Fatalf("WriteMessage() #%d error = %v", i+1, err)
		}
	}

	for i := 0; i < 3; i++ {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for message handling")
		}
	}

	if atomic.LoadInt32(&overlapped) == 1 {
		t.Error("handler invocations overlapped on a single connection")
	}
	if got := atomic.LoadInt32(&handled); got != 3 {
		t.Errorf("handled = %d, want 3", got)
	}
}
