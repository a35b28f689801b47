package sse

import (
	"context"
	"path"
	"sync"
	"time"

	"github.com/kbukum/legalassist/logger"
)

const (
	clientBuffer       = 64
	broadcastBuffer    = 256
	defaultKeepAlive   = 30 * time.Second
	metaClientID       = "client_id"
	metaSubscription   = "subscription"
	fieldSubscriptions = "subscriptions"
)

// Client is one connected subscriber.
type Client struct {
	id      string
	pattern string
	events  chan Event
}

// NewClient creates a client receiving events whose topic matches pattern.
func NewClient(id, pattern string) *Client {
	return &Client{id: id, pattern: pattern, events: make(chan Event, clientBuffer)}
}

// ID returns the client identifier.
func (c *Client) ID() string { return c.id }

// Pattern returns the topic glob the client subscribed with.
func (c *Client) Pattern() string { return c.pattern }

// Events returns the channel Serve reads from. It is closed when the client
// is unregistered or the hub stops.
func (c *Client) Events() <-chan Event { return c.events }

// send queues ev without blocking. It returns false when the client is
// too slow and the event was dropped.
func (c *Client) send(ev Event) bool {
	select {
	case c.events <- ev:
		return true
	default:
		return false
	}
}

type message struct {
	topic string
	event Event
}

// HubOption configures a Hub.
type HubOption func(*Hub)

// WithKeepAlive sets the interval between keep-alive comments.
func WithKeepAlive(d time.Duration) HubOption {
	return func(h *Hub) {
		if d > 0 {
			h.keepAlive = d
		}
	}
}

// Hub routes published events to matching clients. Start it before use;
// Register, Unregister and Publish are safe after Stop and become no-ops.
type Hub struct {
	log        *logger.Logger
	keepAlive  time.Duration
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	broadcast  chan message
	done       chan struct{}
	stopOnce   sync.Once
	wg         sync.WaitGroup
	mu         sync.RWMutex
}

// NewHub creates a stopped hub.
func NewHub(log *logger.Logger, opts ...HubOption) *Hub {
	if log == nil {
		log = logger.NewNop()
	}
	h := &Hub{
		log:        log.WithComponent("sse"),
		keepAlive:  defaultKeepAlive,
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan message, broadcastBuffer),
		done:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Start launches the routing loop.
func (h *Hub) Start() {
	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		h.run()
	}()
}

// Stop disconnects every client and waits for the loop to exit or ctx to
// end. Safe to call more than once.
func (h *Hub) Stop(ctx context.Context) error {
	h.stopOnce.Do(func() { close(h.done) })
	waited := make(chan struct{})
	go func() {
		h.wg.Wait()
		close(waited)
	}()
	select {
	case <-waited:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (h *Hub) run() {
	for {
		select {
		case <-h.done:
			h.closeAll()
			return

		case c := <-h.register:
			h.mu.Lock()
			h.clients[c.id] = c
			n := len(h.clients)
			h.mu.Unlock()
			h.log.Debug("Client subscribed", logger.Fields(metaClientID, c.id, metaSubscription, c.pattern, fieldSubscriptions, n))

		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c.id]; ok {
				delete(h.clients, c.id)
				close(c.events)
			}
			n := len(h.clients)
			h.mu.Unlock()
			h.log.Debug("Client unsubscribed", logger.Fields(metaClientID, c.id, fieldSubscriptions, n))

		case msg := <-h.broadcast:
			h.deliver(msg)
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, c := range h.clients {
		close(c.events)
		delete(h.clients, id)
	}
}

// Register subscribes c. After Stop the client is closed immediately.
func (h *Hub) Register(c *Client) {
	select {
	case h.register <- c:
	case <-h.done:
		close(c.events)
	}
}

// Unregister removes c and closes its channel.
func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Publish queues ev for every client whose pattern matches topic. Events
// are dropped when the hub is stopped or its queue is full, so publishers
// never block.
func (h *Hub) Publish(topic string, ev Event) {
	select {
	case <-h.done:
		return
	default:
	}
	select {
	case h.broadcast <- message{topic: topic, event: ev}:
	default:
		h.log.Warn("Event queue full, dropping event", logger.Fields("topic", topic, "type", ev.Type))
	}
}

func (h *Hub) deliver(msg message) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for id, c := range h.clients {
		ok, err := path.Match(c.pattern, msg.topic)
		if err != nil || !ok {
			continue
		}
		if !c.send(msg.event) {
			h.log.Warn("Client too slow, dropping event", logger.Fields(metaClientID, id, "topic", msg.topic))
		}
	}
}

// ClientCount returns the number of subscribed clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

var _ Publisher = (*Hub)(nil)
