package request

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const feedChannel = "requests:feed"

// FeedEvent is one message on the admin live feed
type FeedEvent struct {
	Type    string   `json:"type"`
	Request *Request `json:"request"`
}

const EventRequestCreated = "request_created"

// Connection is one admin console attached to the feed
type Connection struct {
	Conn *websocket.Conn
	Send chan []byte
}

// Feed fans newly created requests out to connected admin consoles. With
// Redis it publishes through Pub/Sub so every instance delivers to its own
// connections; without Redis it delivers locally only.
type Feed struct {
	connections map[*Connection]bool
	mu          sync.RWMutex

	redis  *redis.Client
	pubsub *redis.PubSub

	register   chan *Connection
	unregister chan *Connection

	ctx    context.Context
	cancel context.CancelFunc
}

func NewFeed(redisClient *redis.Client) *Feed {
	ctx, cancel := context.WithCancel(context.Background())

	f := &Feed{
		connections: make(map[*Connection]bool),
		redis:       redisClient,
		register:    make(chan *Connection),
		unregister:  make(chan *Connection),
		ctx:         ctx,
		cancel:      cancel,
	}

	if redisClient != nil {
		f.pubsub = redisClient.Subscribe(ctx, feedChannel)
	}

	return f
}

// Run starts the feed (call in goroutine)
func (f *Feed) Run() {
	if f.pubsub != nil {
		go f.runRedisSubscriber()
	}

	for {
		select {
		case <-f.ctx.Done():
			return

		case conn := <-f.register:
			f.mu.Lock()
			f.connections[conn] = true
			f.mu.Unlock()
			log.Debug().Msg("admin connected to request feed")

		case conn := <-f.unregister:
			f.mu.Lock()
			if _, ok := f.connections[conn]; ok {
				delete(f.connections, conn)
				close(conn.Send)
			}
			f.mu.Unlock()
			log.Debug().Msg("admin disconnected from request feed")
		}
	}
}

func (f *Feed) runRedisSubscriber() {
	ch := f.pubsub.Channel()
	for {
		select {
		case <-f.ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			f.broadcastLocal([]byte(msg.Payload))
		}
	}
}

// NotifyCreated pushes a new request to every connected admin
func (f *Feed) NotifyCreated(req *Request) {
	data, err := json.Marshal(FeedEvent{Type: EventRequestCreated, Request: req})
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal feed event")
		return
	}

	if f.redis != nil {
		if err := f.redis.Publish(f.ctx, feedChannel, data).Err(); err != nil {
			log.Error().Err(err).Msg("feed publish failed")
			f.broadcastLocal(data)
		}
		return
	}
	f.broadcastLocal(data)
}

func (f *Feed) broadcastLocal(data []byte) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	for conn := range f.connections {
		select {
		case conn.Send <- data:
		default:
			// Buffer full, drop for this console
			log.Warn().Msg("request feed send buffer full")
		}
	}
}

// Register adds a connection
func (f *Feed) Register(conn *Connection) {
	f.register <- conn
}

// Unregister removes a connection
func (f *Feed) Unregister(conn *Connection) {
	f.unregister <- conn
}

// ConnectionCount returns the number of local feed connections
func (f *Feed) ConnectionCount() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.connections)
}

// Shutdown gracefully stops the feed
func (f *Feed) Shutdown() {
	f.cancel()
	if f.pubsub != nil {
		f.pubsub.Close()
	}
}
