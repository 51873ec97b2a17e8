package stream

import (
	"context"
	"log"
	"sync"

	"github.com/redis/go-redis/v9"
)

// Hub fans section update events out to websocket subscribers, so open charts
// refresh when new traversals arrive. Redis pub/sub bridges instances when
// configured; without redis the hub is purely in-process.
type Hub struct {
	redis   *redis.Client
	clients map[string]map[*Client]struct{}
	mu      sync.RWMutex
}

type Client struct {
	SectionID string
	Send      chan []byte
}

func NewHub(redisClient *redis.Client) *Hub {
	h := &Hub{
		redis:   redisClient,
		clients: map[string]map[*Client]struct{}{},
	}

	if redisClient != nil {
		go h.subscribeRedis()
	}
	return h
}

func (h *Hub) Register(sectionID string) *Client {
	client := &Client{
		SectionID: sectionID,
		Send:      make(chan []byte, 64),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[sectionID] == nil {
		h.clients[sectionID] = map[*Client]struct{}{}
	}
	h.clients[sectionID][client] = struct{}{}
	return client
}

func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if sectionClients, ok := h.clients[client.SectionID]; ok {
		delete(sectionClients, client)
		if len(sectionClients) == 0 {
			delete(h.clients, client.SectionID)
		}
	}
	close(client.Send)
}

func (h *Hub) Broadcast(sectionID string, payload []byte) {
	// the lock spans the sends so Unregister cannot close a channel mid fan-out
	h.mu.RLock()
	for client := range h.clients[sectionID] {
		select {
		case client.Send <- payload:
		default:
		}
	}
	h.mu.RUnlock()

	if h.redis != nil {
		err := h.redis.Publish(context.Background(), redisChannel(sectionID), payload).Err()
		if err != nil {
			log.Printf("redis publish error: %v", err)
		}
	}
}

func (h *Hub) subscribeRedis() {
	ctx := context.Background()
	pubsub := h.redis.PSubscribe(ctx, "sections:*:updates")
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		sectionID := sectionIDFromChannel(msg.Channel)
		h.mu.RLock()
		for client := range h.clients[sectionID] {
			select {
			case client.Send <- []byte(msg.Payload):
			default:
			}
		}
		h.mu.RUnlock()
	}
}

func redisChannel(sectionID string) string {
	return "sections:" + sectionID + ":updates"
}

func sectionIDFromChannel(ch string) string {
	// sections:{section}:updates
	const prefix = "sections:"
	const suffix = ":updates"
	if len(ch) <= len(prefix)+len(suffix) {
		return ""
	}
	return ch[len(prefix) : len(ch)-len(suffix)]
}
