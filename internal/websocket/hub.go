package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"patent-scout-be/internal/pkg/logger"

	"github.com/redis/go-redis/v9"
)

// Hub fans refreshed session state out to the browser tabs viewing each
// session. This is the server-side half of the UI-sync loop: every state
// mutation produces a broadcast, clients re-render from the snapshot.
type Hub struct {
	// Registered clients per session id (several tabs may watch one session).
	clients map[string][]*Client

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	// Redis relay so an instance that does not own the mutating request
	// still reaches its connected clients.
	rdb *redis.Client

	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[string][]*Client),
		rdb:        rdb,
		logger:     log,
	}
}

func (h *Hub) Run() {
	if h.rdb != nil {
		go h.subscribeToRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.SessionID] = append(h.clients[client.SessionID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"session_id": client.SessionID})

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.SessionID]; ok {
				for i, c := range clients {
					if c == client {
						h.clients[client.SessionID] = append(clients[:i], clients[i+1:]...)
						close(client.Send)
						break
					}
				}
				if len(h.clients[client.SessionID]) == 0 {
					delete(h.clients, client.SessionID)
				}
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastState pushes a refreshed state snapshot to every client of the
// session, locally and via Redis to other instances.
func (h *Hub) BroadcastState(sessionID string, snapshot []byte) {
	data, _ := json.Marshal(map[string]interface{}{
		"type":       "state",
		"session_id": sessionID,
		"state":      json.RawMessage(snapshot),
	})

	h.sendLocal(sessionID, data)

	if h.rdb != nil {
		payload, _ := json.Marshal(map[string]interface{}{
			"session_id": sessionID,
			"message":    json.RawMessage(data),
		})
		h.rdb.Publish(context.Background(), "session_state_sync", payload)
	}
}

func (h *Hub) sendLocal(sessionID string, data []byte) {
	h.mu.RLock()
	clients := h.clients[sessionID]
	h.mu.RUnlock()

	for _, client := range clients {
		select {
		case client.Send <- data:
		default:
			h.logger.Warn("Hub", "Client send buffer full, dropping connection", map[string]interface{}{"session_id": sessionID})
			go func(c *Client) { h.unregister <- c }(client)
		}
	}
}

func (h *Hub) subscribeToRedis() {
	// Every instance subscribes to the shared sync channel and forwards
	// messages for sessions it has local clients for.
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, "session_state_sync")
	defer pubsub.Close()

	ch := pubsub.Channel()

	for msg := range ch {
		var payload struct {
			SessionID string          `json:"session_id"`
			Message   json.RawMessage `json:"message"`
		}
		if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
			log.Printf("Redis msg parse error: %v", err)
			continue
		}

		h.mu.RLock()
		_, local := h.clients[payload.SessionID]
		h.mu.RUnlock()

		if local {
			h.sendLocal(payload.SessionID, payload.Message)
		}
	}
}
