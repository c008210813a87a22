package stream

import (
	"context"
	"log"
	"strings"
	"sync"

	"github.com/redis/go-redis/v9"
)

const (
	channelPrefix = "workprogress:"
	channelSuffix = ":events"
)

// Hub fans tracker events out to websocket clients grouped by company. With a
// redis client every event goes through redis pub/sub, so all API processes
// sharing the redis instance deliver it to their own clients.
type Hub struct {
	redis   *redis.Client
	clients map[string]map[*Client]struct{}
	mu      sync.RWMutex

	pubsub *redis.PubSub
	done   chan struct{}
}

type Client struct {
	CompanyID string
	Send      chan []byte
}

func NewHub(redisClient *redis.Client) *Hub {
	h := &Hub{
		redis:   redisClient,
		clients: map[string]map[*Client]struct{}{},
		done:    make(chan struct{}),
	}

	if redisClient == nil {
		close(h.done)
		return h
	}

	ctx := context.Background()
	h.pubsub = redisClient.PSubscribe(ctx, channelPrefix+"*"+channelSuffix)
	// wait for the subscription so events published right after NewHub are seen
	if _, err := h.pubsub.Receive(ctx); err != nil {
		log.Printf("redis psubscribe error: %v", err)
	}
	go h.forward()
	return h
}

func (h *Hub) Register(companyID string) *Client {
	client := &Client{
		CompanyID: companyID,
		Send:      make(chan []byte, 64),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[companyID] == nil {
		h.clients[companyID] = map[*Client]struct{}{}
	}
	h.clients[companyID][client] = struct{}{}
	return client
}

func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	companyClients, ok := h.clients[client.CompanyID]
	if !ok {
		return
	}
	if _, ok := companyClients[client]; !ok {
		return
	}
	delete(companyClients, client)
	if len(companyClients) == 0 {
		delete(h.clients, client.CompanyID)
	}
	close(client.Send)
}

// Broadcast publishes payload on the company's channel. When redis is down the
// event is still delivered to this process's clients.
func (h *Hub) Broadcast(companyID string, payload []byte) {
	if h.redis != nil {
		err := h.redis.Publish(context.Background(), Channel(companyID), payload).Err()
		if err == nil {
			return
		}
		log.Printf("redis publish error: %v", err)
	}
	h.deliver(companyID, payload)
}

// Subscribers reports how many local clients follow companyID.
func (h *Hub) Subscribers(companyID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[companyID])
}

// Close stops the redis subscription.
func (h *Hub) Close() {
	if h.pubsub != nil {
		_ = h.pubsub.Close()
	}
	<-h.done
}

func (h *Hub) deliver(companyID string, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	// slow clients drop events rather than block the tracker
	for client := range h.clients[companyID] {
		select {
		case client.Send <- payload:
		default:
		}
	}
}

func (h *Hub) forward() {
	defer close(h.done)

	for msg := range h.pubsub.Channel() {
		if companyID := companyFromChannel(msg.Channel); companyID != "" {
			h.deliver(companyID, []byte(msg.Payload))
		}
	}
}

// Channel is the redis channel carrying a company's tracker events.
func Channel(companyID string) string {
	return channelPrefix + companyID + channelSuffix
}

func companyFromChannel(ch string) string {
	if len(ch) <= len(channelPrefix)+len(channelSuffix) ||
		!strings.HasPrefix(ch, channelPrefix) || !strings.HasSuffix(ch, channelSuffix) {
		return ""
	}
	return strings.TrimSuffix(strings.TrimPrefix(ch, channelPrefix), channelSuffix)
}
