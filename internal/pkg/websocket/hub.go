package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/stallhub/internal/app/models"
	"github.com/yigit/stallhub/internal/pkg/metrics"
)

// Hub keeps the open connections of every recipient and pushes notifications to them
type Hub struct {
	// Registered clients organized by recipient key
	clients map[string]map[*Client]bool

	// Outbound pushes waiting to be delivered
	outbound chan *envelope

	// Register requests from the clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Closed when Run returns
	done chan struct{}

	// Mutex for concurrent access to clients map
	mu sync.RWMutex

	logger zerolog.Logger
}

// Message is the frame written to clients
type Message struct {
	// Type of message: "notification"
	Type string `json:"type"`

	Notification *models.Notification `json:"notification,omitempty"`

	Timestamp time.Time `json:"timestamp"`
}

type envelope struct {
	key     string
	payload []byte
}

// RecipientKey is the hub key for a notification recipient
func RecipientKey(r models.Recipient) string {
	return string(r.UserType) + ":" + r.UserID
}

// NewHub creates a new Hub instance
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		outbound:   make(chan *envelope, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[string]map[*Client]bool),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run handles client registrations and pushes until ctx is cancelled
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case env := <-h.outbound:
			h.deliver(env)
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.key]; !ok {
		h.clients[client.key] = make(map[*Client]bool)
	}
	h.clients[client.key][client] = true
	metrics.WebsocketConnected(1)

	h.logger.Info().
		Str("recipient", client.key).
		Str("addr", client.remoteAddr()).
		Msg("Client registered")
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(client)
}

// removeLocked drops client; h.mu must be held for writing
func (h *Hub) removeLocked(client *Client) {
	set, ok := h.clients[client.key]
	if !ok {
		return
	}
	if _, ok := set[client]; !ok {
		return
	}
	delete(set, client)
	close(client.send)
	metrics.WebsocketConnected(-1)
	if len(set) == 0 {
		delete(h.clients, client.key)
	}

	h.logger.Info().
		Str("recipient", client.key).
		Str("addr", client.remoteAddr()).
		Msg("Client unregistered")
}

func (h *Hub) deliver(env *envelope) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.clients[env.key]
	if !ok {
		h.logger.Debug().Str("recipient", env.key).Msg("Recipient has no open connection")
		return
	}

	for client := range clients {
		select {
		case client.send <- env.payload:
		default:
			// slow consumer; the client reconnects and reloads from the API
			h.removeLocked(client)
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, set := range h.clients {
		for client := range set {
			h.removeLocked(client)
		}
	}
}

func (h *Hub) leave(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Publish queues a notification for every open connection of its recipient.
// It never blocks; when the queue is full the push is dropped.
func (h *Hub) Publish(n *models.Notification) {
	data, err := json.Marshal(Message{Type: "notification", Notification: n, Timestamp: time.Now()})
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to marshal notification for push")
		return
	}

	env := &envelope{key: RecipientKey(n.Recipient()), payload: data}
	select {
	case h.outbound <- env:
	default:
		h.logger.Warn().Str("recipient", env.key).Msg("Push queue full, dropping notification")
	}
}

// ClientsCount returns the number of open connections for a recipient
func (h *Hub) ClientsCount(r models.Recipient) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[RecipientKey(r)])
}
