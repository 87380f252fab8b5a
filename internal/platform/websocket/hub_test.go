package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	gorillawebsocket "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

func newTestHub() *Hub {
	return NewHub(zerolog.Nop())
}

func newClient(hub *Hub, id string, topics ...string) *Client {
	return &Client{
		ID:     id,
		Topics: topics,
		Send:   make(chan []byte, 256),
		hub:    hub,
	}
}

// ---------------------------------------------------------------------------
// Hub tests
// ---------------------------------------------------------------------------

func TestHub_RegisterClient(t *testing.T) {
	hub := newTestHub()
	hub.Register(newClient(hub, "client-1", TopicPatients))

	if hub.ClientCount() != 1 {
		t.Fatalf("expected 1 client, got %d", hub.ClientCount())
	}
	if hub.TopicCount(TopicPatients) != 1 {
		t.Fatalf("expected 1 client on patients, got %d", hub.TopicCount(TopicPatients))
	}
}

func TestHub_UnregisterClient(t *testing.T) {
	hub := newTestHub()
	client := newClient(hub, "client-2", TopicSessions)

	hub.Register(client)
	hub.Unregister(client)

	if hub.ClientCount() != 0 {
		t.Fatalf("expected 0 clients, got %d", hub.ClientCount())
	}
	if hub.TopicCount(TopicSessions) != 0 {
		t.Fatalf("expected 0 clients on sessions, got %d", hub.TopicCount(TopicSessions))
	}
}

func TestHub_UnregisterTwiceIsSafe(t *testing.T) {
	hub := newTestHub()
	client := newClient(hub, "client-3", TopicSessions)

	hub.Register(client)
	hub.Unregister(client)
	hub.Unregister(client)

	if hub.ClientCount() != 0 {
		t.Fatalf("expected 0 clients, got %d", hub.ClientCount())
	}
}

func TestHub_BroadcastToTopic(t *testing.T) {
	hub := newTestHub()
	subscriber := newClient(hub, "sub-1", TopicPatients)
	other := newClient(hub, "other-1", TopicNotifications)
	hub.Register(subscriber)
	hub.Register(other)

	hub.Broadcast(TopicPatients, NewEvent(TopicPatients, "patient.created", "p-1", nil))

	select {
	case msg := <-subscriber.Send:
		var got Event
		if err := json.Unmarshal(msg, &got); err != nil {
			t.Fatalf("failed to unmarshal: %v", err)
		}
		if got.Type != "patient.created" {
			t.Fatalf("expected patient.created, got %s", got.Type)
		}
		if got.ResourceID != "p-1" {
			t.Fatalf("expected resource id p-1, got %s", got.ResourceID)
		}
	case <-time.After(time.Second):
		t.Fatal("subscriber did not receive event")
	}

	select {
	case <-other.Send:
		t.Fatal("non-subscriber should not receive event")
	default:
	}
}

func TestHub_BroadcastDropsWhenBufferFull(t *testing.T) {
	hub := newTestHub()
	client := &Client{ID: "slow", Topics: []string{TopicSessions}, Send: make(chan []byte, 1), hub: hub}
	hub.Register(client)

	hub.Broadcast(TopicSessions, NewEvent(TopicSessions, "session.started", "s-1", nil))
	hub.Broadcast(TopicSessions, NewEvent(TopicSessions, "session.completed", "s-1", nil))

	if len(client.Send) != 1 {
		t.Fatalf("expected 1 buffered message, got %d", len(client.Send))
	}
}

func TestHub_BroadcastToEmptyTopic(t *testing.T) {
	hub := newTestHub()
	hub.Broadcast("nobody", NewEvent("nobody", "x", "", nil))
}

func TestHub_MultipleTopics(t *testing.T) {
	hub := newTestHub()
	client := newClient(hub, "multi", TopicPatients, TopicSessions)
	hub.Register(client)

	if hub.TopicCount(TopicPatients) != 1 || hub.TopicCount(TopicSessions) != 1 {
		t.Fatal("expected client on both topics")
	}

	hub.Broadcast(TopicSessions, NewEvent(TopicSessions, "session.created", "s-2", nil))
	if len(client.Send) != 1 {
		t.Fatalf("expected 1 message, got %d", len(client.Send))
	}
}

func TestHub_UnregisterClosesChannel(t *testing.T) {
	hub := newTestHub()
	client := newClient(hub, "closer", TopicPatients)
	hub.Register(client)
	hub.Unregister(client)

	if _, ok := <-client.Send; ok {
		t.Fatal("expected Send channel to be closed")
	}
}

func TestHub_ConcurrentRegisterUnregister(t *testing.T) {
	hub := newTestHub()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c := newClient(hub, "c", TopicPatients)
			hub.Register(c)
			hub.Broadcast(TopicPatients, NewEvent(TopicPatients, "patient.updated", "", nil))
			hub.Unregister(c)
		}(i)
	}
	wg.Wait()

	if hub.ClientCount() != 0 {
		t.Fatalf("expected 0 clients, got %d", hub.ClientCount())
	}
}

func TestHub_SubscribeAddsTopics(t *testing.T) {
	hub := newTestHub()
	client := newClient(hub, "s")
	hub.Register(client)

	hub.Subscribe(client, []string{TopicNotifications, TopicNotifications})

	if hub.TopicCount(TopicNotifications) != 1 {
		t.Fatalf("expected 1 subscriber, got %d", hub.TopicCount(TopicNotifications))
	}
	if len(client.Topics) != 1 {
		t.Fatalf("expected topic recorded once, got %v", client.Topics)
	}
}

func TestHub_UnsubscribeRemovesTopics(t *testing.T) {
	hub := newTestHub()
	client := newClient(hub, "u", TopicPatients, TopicSessions)
	hub.Register(client)

	hub.Unsubscribe(client, []string{TopicPatients})

	if hub.TopicCount(TopicPatients) != 0 {
		t.Fatalf("expected 0 on patients, got %d", hub.TopicCount(TopicPatients))
	}
	if hub.TopicCount(TopicSessions) != 1 {
		t.Fatalf("expected 1 on sessions, got %d", hub.TopicCount(TopicSessions))
	}
	if len(client.Topics) != 1 || client.Topics[0] != TopicSessions {
		t.Fatalf("unexpected topics: %v", client.Topics)
	}
}

func TestClientMessage_Process(t *testing.T) {
	hub := newTestHub()
	client := newClient(hub, "m")
	hub.Register(client)

	hub.ProcessMessage(client, ClientMessage{Action: "subscribe", Topics: []string{TopicSessions}})
	if hub.TopicCount(TopicSessions) != 1 {
		t.Fatal("expected subscribe to take effect")
	}

	hub.ProcessMessage(client, ClientMessage{Action: "unsubscribe", Topics: []string{TopicSessions}})
	if hub.TopicCount(TopicSessions) != 0 {
		t.Fatal("expected unsubscribe to take effect")
	}

	hub.ProcessMessage(client, ClientMessage{Action: "bogus", Topics: []string{TopicSessions}})
	if hub.TopicCount(TopicSessions) != 0 {
		t.Fatal("unknown action should be ignored")
	}
}

func TestHub_PublishBroadcastsToSubscribers(t *testing.T) {
	hub := newTestHub()
	client := newClient(hub, "p", TopicNotifications)
	hub.Register(client)

	var pub EventPublisher = hub
	if err := pub.Publish(context.Background(), NewEvent(TopicNotifications, "notification.read", "n-1", map[string]int{"unread": 2})); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	msg := <-client.Send
	var got Event
	if err := json.Unmarshal(msg, &got); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	if string(got.Data) != `{"unread":2}` {
		t.Fatalf("unexpected data: %s", got.Data)
	}
}

func TestDiscard_Publish(t *testing.T) {
	if err := (Discard{}).Publish(context.Background(), Event{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestParseTopics(t *testing.T) {
	got := parseTopics(" patients, ,sessions ")
	if len(got) != 2 || got[0] != TopicPatients || got[1] != TopicSessions {
		t.Fatalf("unexpected topics: %v", got)
	}
	if got := parseTopics(""); len(got) != 0 {
		t.Fatalf("expected no topics, got %v", got)
	}
}

// ---------------------------------------------------------------------------
// Handler tests
// ---------------------------------------------------------------------------

func TestHandler_RegisterRoutes(t *testing.T) {
	e := echo.New()
	NewHandler(newTestHub()).RegisterRoutes(e.Group(""))

	found := false
	for _, r := range e.Routes() {
		if r.Path == "/ws" && r.Method == http.MethodGet {
			found = true
		}
	}
	if !found {
		t.Fatal("expected GET /ws route")
	}
}

func TestHandler_HandleConnectRequiresWebSocket(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	_ = NewHandler(newTestHub()).HandleConnect(c)
	if rec.Code == http.StatusSwitchingProtocols {
		t.Fatal("plain HTTP request must not be upgraded")
	}
}

func TestHandler_FullUpgradeWithDialer(t *testing.T) {
	hub := newTestHub()
	e := echo.New()
	NewHandler(hub).RegisterRoutes(e.Group(""))

	server := httptest.NewServer(e)
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws?topics=patients"

	conn, resp, err := gorillawebsocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("failed to dial websocket: %v", err)
	}
	defer conn.Close()

	if resp.StatusCode != http.StatusSwitchingProtocols {
		t.Fatalf("expected 101, got %d", resp.StatusCode)
	}

	time.Sleep(50 * time.Millisecond)
	if hub.TopicCount(TopicPatients) != 1 {
		t.Fatalf("expected 1 subscriber on patients, got %d", hub.TopicCount(TopicPatients))
	}

	if err := conn.WriteJSON(ClientMessage{Action: "subscribe", Topics: []string{TopicSessions}}); err != nil {
		t.Fatalf("failed to send subscribe: %v", err)
	}
	time.Sleep(50 * time.Millisecond)
	if hub.TopicCount(TopicSessions) != 1 {
		t.Fatalf("expected 1 subscriber on sessions, got %d", hub.TopicCount(TopicSessions))
	}

	hub.Broadcast(TopicSessions, NewEvent(TopicSessions, "session.started", "s-9", nil))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var received Event
	if err := conn.ReadJSON(&received); err != nil {
		t.Fatalf("failed to read event: %v", err)
	}
	if received.Type != "session.started" || received.ResourceID != "s-9" {
		t.Fatalf("unexpected event: %+v", received)
	}
}
