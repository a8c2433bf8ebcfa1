package live

import (
	"encoding/json"
	"log/slog"
	"sync"
)

// Personalizer lets a publisher swap in a per-recipient variant of a
// broadcast message. Returning nil keeps the shared message for that
// recipient.
type Personalizer func(userID uint) any

// topic is the set of clients subscribed to one poll. Each topic carries its
// own lock so (un)subscribes on one poll never serialize against another.
type topic struct {
	mu   sync.RWMutex
	subs map[*Client]struct{}
}

// Hub tracks which connections are interested in which poll and fans
// broadcasts out to them. One Hub instance is created at process start and
// shut down with the process; it is safe for concurrent use from connection
// handlers and HTTP handlers.
type Hub struct {
	mu     sync.RWMutex // guards topics and conns maps
	topics map[uint]*topic
	conns  map[*Client]struct{}
	logger *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		topics: make(map[uint]*topic),
		conns:  make(map[*Client]struct{}),
		logger: logger,
	}
}

// CreateTopic establishes an empty subscriber set for a poll. Idempotent.
func (h *Hub) CreateTopic(pollID uint) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.topics[pollID]; ok {
		return
	}
	h.topics[pollID] = &topic{subs: make(map[*Client]struct{})}
}

// DestroyTopic removes a topic and implicitly drops every subscription under
// it. Later subscribes for the same id are no-ops until it is recreated.
func (h *Hub) DestroyTopic(pollID uint) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.topics, pollID)
}

// Subscribe adds a client to a poll's subscriber set. Subscribing to an
// unknown or deleted poll is silently ignored; duplicate subscribes are
// no-ops.
func (h *Hub) Subscribe(pollID uint, c *Client) {
	h.mu.RLock()
	t := h.topics[pollID]
	h.mu.RUnlock()
	if t == nil {
		return
	}
	t.mu.Lock()
	t.subs[c] = struct{}{}
	t.mu.Unlock()
}

// Unsubscribe removes a client from a poll's subscriber set; no-op if absent.
func (h *Hub) Unsubscribe(pollID uint, c *Client) {
	h.mu.RLock()
	t := h.topics[pollID]
	h.mu.RUnlock()
	if t == nil {
		return
	}
	t.mu.Lock()
	delete(t.subs, c)
	t.mu.Unlock()
}

// register tracks a connection for shutdown, before any subscription exists.
func (h *Hub) register(c *Client) {
	h.mu.Lock()
	h.conns[c] = struct{}{}
	h.mu.Unlock()
}

// RemoveClient purges a connection from every topic it belongs to. Called
// unconditionally on connection teardown; safe to call more than once.
func (h *Hub) RemoveClient(c *Client) {
	h.mu.RLock()
	topics := make([]*topic, 0, len(h.topics))
	for _, t := range h.topics {
		topics = append(topics, t)
	}
	h.mu.RUnlock()

	for _, t := range topics {
		t.mu.Lock()
		delete(t.subs, c)
		t.mu.Unlock()
	}

	h.mu.Lock()
	delete(h.conns, c)
	h.mu.Unlock()
}

// Publish delivers a message to every current subscriber of a poll. The
// subscriber set is snapshotted up front; no lock is held while writing to
// connections. A recipient whose send buffer is full is skipped and
// scheduled for removal — one slow or dead connection never blocks the rest.
func (h *Hub) Publish(pollID uint, msg any, personalize Personalizer) {
	h.mu.RLock()
	t := h.topics[pollID]
	h.mu.RUnlock()
	if t == nil {
		return
	}

	t.mu.RLock()
	targets := make([]*Client, 0, len(t.subs))
	for c := range t.subs {
		targets = append(targets, c)
	}
	t.mu.RUnlock()
	if len(targets) == 0 {
		return
	}

	shared, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("failed to marshal broadcast", "poll_id", pollID, "error", err)
		return
	}

	var dead []*Client
	for _, c := range targets {
		payload := shared
		if personalize != nil {
			if own := personalize(c.userID); own != nil {
				b, err := json.Marshal(own)
				if err != nil {
					h.logger.Error("failed to marshal personalized broadcast",
						"poll_id", pollID, "user_id", c.userID, "error", err)
					continue
				}
				payload = b
			}
		}
		if !c.trySend(payload) {
			dead = append(dead, c)
		}
	}

	for _, c := range dead {
		h.logger.Warn("dropping unresponsive subscriber",
			"poll_id", pollID, "conn_id", c.id, "user_id", c.userID)
		go c.Close()
	}
}

// Shutdown closes every tracked connection and drops all topics.
func (h *Hub) Shutdown() {
	h.mu.RLock()
	conns := make([]*Client, 0, len(h.conns))
	for c := range h.conns {
		conns = append(conns, c)
	}
	h.mu.RUnlock()

	for _, c := range conns {
		c.Close()
	}

	h.mu.Lock()
	h.topics = make(map[uint]*topic)
	h.mu.Unlock()
}

// subscriberCount reports the current size of a topic's subscriber set.
func (h *Hub) subscriberCount(pollID uint) int {
	h.mu.RLock()
	t := h.topics[pollID]
	h.mu.RUnlock()
	if t == nil {
		return 0
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.subs)
}
