// Package realtime implements the per-poll change feed: a WebSocket hub
// with a Redis pub/sub bridge so every connected viewer learns that rows
// changed and re-fetches. The server never pushes incremental state.
package realtime

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Heartbeat intervals in seconds.
const (
	PingInterval = 30
	PongWait     = 60
)

// Change-feed event names. Clients treat every event as "re-fetch and
// recompute"; payloads are advisory.
const (
	EventVoteCast       = "vote_cast"
	EventCommentCreated = "comment_created"
	EventCommentUpdated = "comment_updated"
	EventCommentDeleted = "comment_deleted"
	EventPollUpdated    = "poll_updated"
	EventPollDeleted    = "poll_deleted"
	EventPollClosed     = "poll_closed"
)

// RedisPublisher publishes poll events for cross-instance broadcast.
type RedisPublisher interface {
	PublishPollEvent(pollID uuid.UUID, event string, payload []byte) error
}

// RedisSubscriber subscribes to a poll channel and invokes handler for
// incoming events.
type RedisSubscriber interface {
	SubscribePoll(pollID uuid.UUID, handler func(event string, payload []byte)) (cancel func(), err error)
}

// Hub maintains pollID -> set of connections and broadcasts messages.
type Hub struct {
	// pollID -> map[clientID]*Client
	polls    map[uuid.UUID]map[string]*Client
	subs     map[uuid.UUID]func() // cancel Redis subscription per poll
	mu       sync.RWMutex
	logger   *zap.Logger
	redis    RedisPublisher
	redisSub RedisSubscriber
}

// NewHub creates a new WebSocket hub.
func NewHub(logger *zap.Logger, redisPub RedisPublisher, redisSub RedisSubscriber) *Hub {
	return &Hub{
		polls:    make(map[uuid.UUID]map[string]*Client),
		subs:     make(map[uuid.UUID]func()),
		logger:   logger,
		redis:    redisPub,
		redisSub: redisSub,
	}
}

// Register adds a client to a poll room. The first client in a room starts
// the Redis subscription for that poll.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	if h.polls[c.PollID] == nil {
		h.polls[c.PollID] = make(map[string]*Client)
		if h.redisSub != nil {
			cancel, err := h.redisSub.SubscribePoll(c.PollID, func(event string, payload []byte) {
				h.BroadcastToPoll(c.PollID, event, json.RawMessage(payload))
			})
			if err == nil {
				h.subs[c.PollID] = cancel
			}
		}
	}
	h.polls[c.PollID][c.ID] = c
	h.mu.Unlock()
	h.logger.Debug("client joined poll room",
		zap.String("client_id", c.ID), zap.String("poll_id", c.PollID.String()))
}

// Unregister removes a client. The Redis subscription is cancelled when the
// last client leaves the room.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if m, ok := h.polls[c.PollID]; ok {
		delete(m, c.ID)
		if len(m) == 0 {
			delete(h.polls, c.PollID)
			if cancel, ok := h.subs[c.PollID]; ok {
				cancel()
				delete(h.subs, c.PollID)
			}
		}
	}
	h.mu.Unlock()
	h.logger.Debug("client left poll room",
		zap.String("client_id", c.ID), zap.String("poll_id", c.PollID.String()))
}

// BroadcastToPoll sends a message to all clients in a poll room (local only).
func (h *Hub) BroadcastToPoll(pollID uuid.UUID, event string, payload interface{}) {
	var data []byte
	switch v := payload.(type) {
	case []byte:
		data = v
	case json.RawMessage:
		data = v
	default:
		data, _ = json.Marshal(payload)
	}
	msg := WSMessage{Event: event, Data: data}

	h.mu.RLock()
	clients := h.polls[pollID]
	h.mu.RUnlock()

	for _, c := range clients {
		select {
		case c.send <- msg:
		default:
			// buffer full, skip
		}
	}
}

// BroadcastToPollAndPublish sends to local clients and publishes to Redis
// for other instances.
func (h *Hub) BroadcastToPollAndPublish(pollID uuid.UUID, event string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	h.BroadcastToPoll(pollID, event, data)
	if h.redis != nil {
		_ = h.redis.PublishPollEvent(pollID, event, data)
	}
}

// ViewerCount returns the number of connected clients in a poll room.
func (h *Hub) ViewerCount(pollID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.polls[pollID])
}
