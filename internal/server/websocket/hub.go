package websocket

import (
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/brianly1003/relaykit/internal/domain"
	"github.com/brianly1003/relaykit/internal/domain/events"
	"github.com/brianly1003/relaykit/internal/stream"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 15 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 90 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 64 * 1024

	// Send buffer size per client.
	sendBufferSize = 256

	// DefaultHeartbeatInterval is the application-level heartbeat interval.
	DefaultHeartbeatInterval = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins (configure for production)
	},
}

// CommandHandler handles a message received from a client.
type CommandHandler func(clientID string, message []byte)

// Hub upgrades connections and gives every client its own subscription to a
// stream of integers. A client's subscription token is disposed when the
// client disconnects.
type Hub struct {
	name     string
	source   stream.Observable[int]
	commands CommandHandler

	mu      sync.RWMutex
	clients map[string]*Client
	tokens  map[string]*stream.Token

	heartbeatInterval time.Duration
	heartbeatDone     chan struct{}
	heartbeatSeq      int64
	startTime         time.Time
	stopOnce          sync.Once
}

// NewHub creates a hub that publishes source as counter_changed events for
// the stream called name.
func NewHub(name string, source stream.Observable[int], commands CommandHandler) *Hub {
	return &Hub{
		name:              name,
		source:            source,
		commands:          commands,
		clients:           make(map[string]*Client),
		tokens:            make(map[string]*stream.Token),
		heartbeatInterval: DefaultHeartbeatInterval,
		heartbeatDone:     make(chan struct{}),
		startTime:         time.Now(),
	}
}

// SetHeartbeatInterval changes the heartbeat period. Call before Start.
func (h *Hub) SetHeartbeatInterval(d time.Duration) {
	if d > 0 {
		h.heartbeatInterval = d
	}
}

// Start begins broadcasting heartbeats.
func (h *Hub) Start() {
	go h.heartbeatLoop()
}

// Stop closes every client and ends the heartbeat loop.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() {
		close(h.heartbeatDone)
	})

	h.mu.Lock()
	clients := h.clients
	tokens := h.tokens
	h.clients = make(map[string]*Client)
	h.tokens = make(map[string]*stream.Token)
	h.mu.Unlock()

	for id, client := range clients {
		if token := tokens[id]; token != nil {
			token.Dispose()
		}
		client.Close()
	}
}

// ServeHTTP upgrades the request and subscribes the new client.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("failed to upgrade connection")
		return
	}

	client := NewClient(conn, h.commands, h.removeClient)

	h.mu.Lock()
	h.clients[client.ID()] = client
	h.mu.Unlock()

	// Replaying sources queue their current value here, before the pumps run.
	token := h.source.SubscribeNext(func(v int) {
		data, err := events.NewCounterChangedEvent(h.name, v).ToJSON()
		if err != nil {
			log.Warn().Err(err).Msg("failed to serialize counter event")
			return
		}
		_ = client.Send(data)
	})

	h.mu.Lock()
	h.tokens[client.ID()] = token
	h.mu.Unlock()

	log.Info().
		Str("client_id", client.ID()).
		Str("remote_addr", conn.RemoteAddr().String()).
		Msg("client connected")

	client.Start()
}

// removeClient drops a client and disposes its subscription.
func (h *Hub) removeClient(id string) {
	h.mu.Lock()
	token := h.tokens[id]
	delete(h.tokens, id)
	delete(h.clients, id)
	h.mu.Unlock()

	if token != nil {
		token.Dispose()
	}
	log.Info().Str("client_id", id).Msg("client disconnected")
}

// Broadcast sends a message to all connected clients.
func (h *Hub) Broadcast(message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.clients {
		_ = client.Send(message)
	}
}

// SendTo sends a message to one client.
func (h *Hub) SendTo(id string, message []byte) error {
	h.mu.RLock()
	client, ok := h.clients[id]
	h.mu.RUnlock()

	if !ok {
		return domain.ErrClientClosed
	}
	return client.Send(message)
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// heartbeatLoop broadcasts periodic heartbeat events to all connected clients.
func (h *Hub) heartbeatLoop() {
	ticker := time.NewTicker(h.heartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-h.heartbeatDone:
			return
		case <-ticker.C:
			h.broadcastHeartbeat()
		}
	}
}

// broadcastHeartbeat sends a heartbeat event to all connected clients.
func (h *Hub) broadcastHeartbeat() {
	clients := h.ClientCount()
	if clients == 0 {
		return
	}

	seq := atomic.AddInt64(&h.heartbeatSeq, 1)
	data, err := events.NewHeartbeatEvent(seq, clients, time.Since(h.startTime)).ToJSON()
	if err != nil {
		log.Warn().Err(err).Msg("failed to serialize heartbeat")
		return
	}

	h.Broadcast(data)
	log.Trace().Int64("seq", seq).Int("clients", clients).Msg("heartbeat sent")
}
