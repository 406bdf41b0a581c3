package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/brianly1003/relaykit/internal/adapters/journal"
	"github.com/brianly1003/relaykit/internal/domain"
	"github.com/brianly1003/relaykit/internal/domain/events"
	"github.com/brianly1003/relaykit/internal/viewmodel"
	"github.com/gorilla/websocket"
)

type fakeHistory struct {
	entries []journal.Entry
	err     error
	limit   int
}

func (f *fakeHistory) History(name string, limit int) ([]journal.Entry, error) {
	f.limit = limit
	if f.err != nil {
		return nil, f.err
	}
	return f.entries[:min(limit, len(f.entries))], nil
}

func newTestServer(t *testing.T, initial int, history HistoryStore) (*Server, *httptest.Server) {
	t.Helper()
	counter := viewmodel.NewTapCounter(initial, nil)
	s := New("127.0.0.1", 0, "counter", counter, history, 10)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		s.Hub().Stop()
		ts.Close()
		counter.Close()
	})
	return s, ts
}

func doJSON(t *testing.T, method, url, body string, out any) int {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode: %v", err)
		}
	}
	return resp.StatusCode
}

func TestHealth(t *testing.T) {
	_, ts := newTestServer(t, 0, nil)

	var body map[string]any
	if code := doJSON(t, "GET", ts.URL+"/health", "", &body); code != http.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}
	if body["status"] != "ok" || body["service"] != "relaykit" {
		t.Fatalf("body = %v", body)
	}
}

func TestCounterEndpoints(t *testing.T) {
	_, ts := newTestServer(t, 5, nil)

	var v valueResponse
	if code := doJSON(t, "GET", ts.URL+"/api/counter", "", &v); code != http.StatusOK || v.Value != 5 {
		t.Fatalf("GET counter = %d %+v", code, v)
	}
	if v.Stream != "counter" {
		t.Fatalf("stream = %q", v.Stream)
	}

	if code := doJSON(t, "POST", ts.URL+"/api/counter/tap", "", &v); code != http.StatusOK || v.Value != 6 {
		t.Fatalf("tap = %d %+v", code, v)
	}

	if code := doJSON(t, "PUT", ts.URL+"/api/counter", `{"value": 40}`, &v); code != http.StatusOK || v.Value != 40 {
		t.Fatalf("set = %d %+v", code, v)
	}

	if code := doJSON(t, "GET", ts.URL+"/api/counter", "", &v); code != http.StatusOK || v.Value != 40 {
		t.Fatalf("GET after set = %d %+v", code, v)
	}
}

func TestSetCounterRejectsBadInput(t *testing.T) {
	_, ts := newTestServer(t, 0, nil)

	tests := []struct {
		name string
		body string
		code string
	}{
		{"not json", "{", domain.ErrCodeInvalidPayload},
		{"missing value", `{}`, domain.ErrCodeInvalidValue},
		{"wrong type", `{"value":"ten"}`, domain.ErrCodeInvalidPayload},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var e errorResponse
			if code := doJSON(t, "PUT", ts.URL+"/api/counter", tt.body, &e); code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", code)
			}
			if e.Code != tt.code {
				t.Fatalf("code = %q, want %q", e.Code, tt.code)
			}
		})
	}
}

func TestMethodNotAllowed(t *testing.T) {
	_, ts := newTestServer(t, 0, nil)

	if code := doJSON(t, "DELETE", ts.URL+"/api/counter", "", nil); code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", code)
	}
}

func TestHistoryDisabled(t *testing.T) {
	_, ts := newTestServer(t, 0, nil)

	var e errorResponse
	if code := doJSON(t, "GET", ts.URL+"/api/counter/history", "", &e); code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", code)
	}
	if e.Code != domain.ErrCodeJournalDisabled {
		t.Fatalf("code = %q", e.Code)
	}
}

func TestHistoryLimit(t *testing.T) {
	store := &fakeHistory{}
	for i := 0; i < 20; i++ {
		store.entries = append(store.entries, journal.Entry{ID: int64(i), Stream: "counter", Value: i})
	}
	_, ts := newTestServer(t, 0, store)

	tests := []struct {
		query     string
		status    int
		wantLimit int
	}{
		{"", http.StatusOK, 10},
		{"?limit=3", http.StatusOK, 3},
		{"?limit=500", http.StatusOK, 10},
		{"?limit=0", http.StatusBadRequest, 0},
		{"?limit=abc", http.StatusBadRequest, 0},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			store.limit = 0
			var h historyResponse
			code := doJSON(t, "GET", ts.URL+"/api/counter/history"+tt.query, "", &h)
			if code != tt.status {
				t.Fatalf("status = %d, want %d", code, tt.status)
			}
			if store.limit != tt.wantLimit {
				t.Fatalf("store limit = %d, want %d", store.limit, tt.wantLimit)
			}
			if code == http.StatusOK && len(h.Entries) != tt.wantLimit {
				t.Fatalf("entries = %d, want %d", len(h.Entries), tt.wantLimit)
			}
		})
	}
}

func TestHistoryStoreError(t *testing.T) {
	_, ts := newTestServer(t, 0, &fakeHistory{err: errors.New("disk gone")})

	var e errorResponse
	if code := doJSON(t, "GET", ts.URL+"/api/counter/history", "", &e); code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", code)
	}
	if e.Code != domain.ErrCodeInternalError {
		t.Fatalf("code = %q", e.Code)
	}
}

func TestHistoryFromJournal(t *testing.T) {
	j, err := journal.Open(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer j.Close()

	s, ts := newTestServer(t, 0, j)
	tok := j.Attach("counter", s.counter.Changes())
	defer tok.Dispose()

	doJSON(t, "POST", ts.URL+"/api/counter/tap", "", nil)
	doJSON(t, "POST", ts.URL+"/api/counter/tap", "", nil)

	var h historyResponse
	if code := doJSON(t, "GET", ts.URL+"/api/counter/history", "", &h); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	var got []int
	for _, e := range h.Entries {
		got = append(got, e.Value)
	}
	if len(got) != 3 || got[0] != 2 || got[1] != 1 || got[2] != 0 {
		t.Fatalf("history = %v, want [2 1 0]", got)
	}
}

func TestCORSPreflight(t *testing.T) {
	_, ts := newTestServer(t, 0, nil)

	req, _ := http.NewRequest(http.MethodOptions, ts.URL+"/api/counter", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("OPTIONS: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", resp.StatusCode)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Fatalf("allow origin = %q", got)
	}
}

type wsEnvelope struct {
	Event   events.EventType `json:"event"`
	Payload json.RawMessage  `json:"payload"`
}

func readWS(t *testing.T, conn *websocket.Conn) wsEnvelope {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var env wsEnvelope
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("read: %v", err)
	}
	return env
}

func readCounter(t *testing.T, conn *websocket.Conn) int {
	t.Helper()
	env := readWS(t, conn)
	if env.Event != events.EventTypeCounterChanged {
		t.Fatalf("event = %s, want counter_changed", env.Event)
	}
	var p events.CounterChangedPayload
	_ = json.Unmarshal(env.Payload, &p)
	return p.Value
}

func TestWebSocketFlow(t *testing.T) {
	_, ts := newTestServer(t, 1, nil)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	if got := readCounter(t, conn); got != 1 {
		t.Fatalf("replayed value = %d, want 1", got)
	}

	doJSON(t, "POST", ts.URL+"/api/counter/tap", "", nil)
	if got := readCounter(t, conn); got != 2 {
		t.Fatalf("after REST tap = %d, want 2", got)
	}

	_ = conn.WriteJSON(map[string]any{"command": "set", "value": 9})
	if got := readCounter(t, conn); got != 9 {
		t.Fatalf("after set command = %d, want 9", got)
	}

	_ = conn.WriteJSON(map[string]any{"command": "tap"})
	if got := readCounter(t, conn); got != 10 {
		t.Fatalf("after tap command = %d, want 10", got)
	}

	_ = conn.WriteJSON(map[string]any{"command": "jump", "request_id": "r1"})
	env := readWS(t, conn)
	if env.Event != events.EventTypeError {
		t.Fatalf("event = %s, want error", env.Event)
	}
	var p events.ErrorPayload
	_ = json.Unmarshal(env.Payload, &p)
	if p.Code != domain.ErrCodeInvalidPayload {
		t.Fatalf("error code = %q", p.Code)
	}
}
