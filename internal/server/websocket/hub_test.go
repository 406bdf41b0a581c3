package websocket

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/brianly1003/relaykit/internal/domain/events"
	"github.com/brianly1003/relaykit/internal/stream"
	"github.com/gorilla/websocket"
)

type envelope struct {
	Event   events.EventType `json:"event"`
	Stream  string           `json:"stream"`
	Payload json.RawMessage  `json:"payload"`
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readEnvelope(t *testing.T, conn *websocket.Conn) envelope {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var env envelope
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("read: %v", err)
	}
	return env
}

func readValue(t *testing.T, conn *websocket.Conn) int {
	t.Helper()
	env := readEnvelope(t, conn)
	if env.Event != events.EventTypeCounterChanged {
		t.Fatalf("event = %s, want %s", env.Event, events.EventTypeCounterChanged)
	}
	var p events.CounterChangedPayload
	if err := json.Unmarshal(env.Payload, &p); err != nil {
		t.Fatalf("payload: %v", err)
	}
	return p.Value
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met before deadline")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestHubReplaysAndForwardsValues(t *testing.T) {
	relay := stream.NewBehaviorRelay(3)
	hub := NewHub("counter", relay.AsObservable(), nil)
	srv := httptest.NewServer(hub)
	defer srv.Close()
	defer hub.Stop()

	conn := dial(t, srv)

	env := readEnvelope(t, conn)
	if env.Stream != "counter" {
		t.Fatalf("stream = %q, want counter", env.Stream)
	}

	waitFor(t, func() bool { return relay.SubscriberCount() == 1 })
	relay.Push(4)
	if got := readValue(t, conn); got != 4 {
		t.Fatalf("value = %d, want 4", got)
	}
}

func TestHubEachClientHasItsOwnSubscription(t *testing.T) {
	relay := stream.NewBehaviorRelay(0)
	hub := NewHub("counter", relay.AsObservable(), nil)
	srv := httptest.NewServer(hub)
	defer srv.Close()
	defer hub.Stop()

	a := dial(t, srv)
	b := dial(t, srv)
	readValue(t, a)
	readValue(t, b)
	waitFor(t, func() bool { return relay.SubscriberCount() == 2 })

	relay.Push(1)
	if readValue(t, a) != 1 || readValue(t, b) != 1 {
		t.Fatal("both clients should receive the value")
	}

	_ = a.Close()
	waitFor(t, func() bool { return hub.ClientCount() == 1 })
	waitFor(t, func() bool { return relay.SubscriberCount() == 1 })

	relay.Push(2)
	if got := readValue(t, b); got != 2 {
		t.Fatalf("value = %d, want 2", got)
	}
}

func TestHubCommandsReachHandler(t *testing.T) {
	var (
		mu   sync.Mutex
		seen []string
	)
	relay := stream.NewPublishRelay[int]()
	hub := NewHub("counter", relay.AsObservable(), func(clientID string, message []byte) {
		mu.Lock()
		seen = append(seen, string(message))
		mu.Unlock()
	})
	srv := httptest.NewServer(hub)
	defer srv.Close()
	defer hub.Stop()

	conn := dial(t, srv)
	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"command":"tap"}`)); err != nil {
		t.Fatalf("write: %v", err)
	}

	waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) == 1
	})
}

func TestHubStopDisposesSubscriptions(t *testing.T) {
	relay := stream.NewBehaviorRelay(0)
	hub := NewHub("counter", relay.AsObservable(), nil)
	srv := httptest.NewServer(hub)
	defer srv.Close()

	conn := dial(t, srv)
	readValue(t, conn)
	waitFor(t, func() bool { return hub.ClientCount() == 1 })

	hub.Stop()
	hub.Stop()

	if hub.ClientCount() != 0 {
		t.Fatalf("ClientCount() = %d, want 0", hub.ClientCount())
	}
	if relay.SubscriberCount() != 0 {
		t.Fatalf("SubscriberCount() = %d, want 0", relay.SubscriberCount())
	}
}

func TestHubHeartbeat(t *testing.T) {
	relay := stream.NewPublishRelay[int]()
	hub := NewHub("counter", relay.AsObservable(), nil)
	hub.SetHeartbeatInterval(20 * time.Millisecond)
	hub.Start()
	srv := httptest.NewServer(hub)
	defer srv.Close()
	defer hub.Stop()

	conn := dial(t, srv)
	env := readEnvelope(t, conn)
	if env.Event != events.EventTypeHeartbeat {
		t.Fatalf("event = %s, want heartbeat", env.Event)
	}
	var p events.HeartbeatPayload
	if err := json.Unmarshal(env.Payload, &p); err != nil {
		t.Fatalf("payload: %v", err)
	}
	if p.Sequence < 1 || p.Clients != 1 {
		t.Fatalf("heartbeat = %+v", p)
	}
}

func TestSendToUnknownClient(t *testing.T) {
	hub := NewHub("counter", stream.Observable[int]{}, nil)
	if err := hub.SendTo("missing", []byte("x")); err == nil {
		t.Fatal("SendTo() should fail for an unknown client")
	}
}
