package realtime

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/TravisHFan/at-Cloud-sign-up-system-sub013/notifier"
)

func dialHub(t *testing.T, hub *Hub, userID string) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := hub.Attach(userID, w, r); err != nil {
			t.Errorf("attach: %v", err)
		}
	}))
	t.Cleanup(srv.Close)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	ws, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { ws.Close() })
	return ws
}

func waitConnected(t *testing.T, hub *Hub, userID string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !hub.Connected(userID) {
		if time.Now().After(deadline) {
			t.Fatal("session never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestHubDeliversToAttachedSession(t *testing.T) {
	hub := NewHub(nil)
	ws := dialHub(t, hub, "u1")
	waitConnected(t, hub, "u1")

	if err := hub.Push("u1", notifier.Event{
		Event:     notifier.EventMessageCreated,
		MessageID: "abc123",
	}); err != nil {
		t.Fatal(err)
	}

	ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, payload, err := ws.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	var got notifier.Event
	if err := json.Unmarshal(payload, &got); err != nil {
		t.Fatalf("payload not an event: %v", err)
	}
	if got.Event != notifier.EventMessageCreated || got.MessageID != "abc123" {
		t.Fatalf("unexpected event: %+v", got)
	}
}

func TestHubPushToOtherUserNotDelivered(t *testing.T) {
	hub := NewHub(nil)
	ws := dialHub(t, hub, "u1")
	waitConnected(t, hub, "u1")

	if err := hub.Push("someone-else", notifier.Event{Event: notifier.EventMessageRead}); err != nil {
		t.Fatal(err)
	}
	if err := hub.Push("u1", notifier.Event{Event: notifier.EventUnreadCountUpdate}); err != nil {
		t.Fatal(err)
	}

	// The first frame the session sees must be its own event.
	ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, payload, err := ws.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var got notifier.Event
	if err := json.Unmarshal(payload, &got); err != nil {
		t.Fatal(err)
	}
	if got.Event != notifier.EventUnreadCountUpdate {
		t.Fatalf("received another user's event: %+v", got)
	}
}

func TestHubPushWithoutSessionsIsNoError(t *testing.T) {
	hub := NewHub(nil)
	if err := hub.Push("nobody", notifier.Event{Event: notifier.EventMessageDeleted}); err != nil {
		t.Fatalf("push without sessions must not fail: %v", err)
	}
	if hub.Connected("nobody") {
		t.Fatal("phantom session")
	}
}

func TestHubUnregistersOnClose(t *testing.T) {
	hub := NewHub(nil)
	ws := dialHub(t, hub, "u1")
	waitConnected(t, hub, "u1")

	ws.Close()

	deadline := time.Now().Add(2 * time.Second)
	for hub.Connected("u1") {
		if time.Now().After(deadline) {
			t.Fatal("session never unregistered after close")
		}
		time.Sleep(10 * time.Millisecond)
	}
}
