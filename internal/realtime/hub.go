package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"sumii-mobile-api/internal/constant"
	"sumii-mobile-api/internal/dto"
	"sumii-mobile-api/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
)

const subscriberBuffer = 32

var ErrHubStopped = errors.New("realtime hub stopped")

// Event is one notification pushed to a user's open streams.
type Event struct {
	NotificationID uuid.UUID    `json:"notification_id"`
	Payload        dto.SSEEvent `json:"payload"`
}

// Subscriber is one open event stream. Events is closed when the hub drops it.
type Subscriber struct {
	UserID uuid.UUID
	Events chan Event
}

type clusterMessage struct {
	Origin       string `json:"origin"`
	TargetUserID string `json:"target_user_id"`
	Event        Event  `json:"event"`
}

type Hub struct {
	// UserID -> open streams (multi-device)
	clients    map[uuid.UUID][]*Subscriber
	register   chan *Subscriber
	unregister chan *Subscriber
	stopped    chan struct{}
	stopOnce   sync.Once
	mu         sync.RWMutex

	// Redis fans events out to the other instances.
	rdb      *redis.Client
	instance string

	connections prometheus.Gauge
	logger      logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger, reg prometheus.Registerer) *Hub {
	gauge := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "sumii_sse_connections",
		Help: "Open server-sent event streams on this instance.",
	})
	if reg != nil {
		if err := reg.Register(gauge); err != nil {
			var already prometheus.AlreadyRegisteredError
			if errors.As(err, &already) {
				gauge = already.ExistingCollector.(prometheus.Gauge)
			}
		}
	}
	return &Hub{
		clients:     make(map[uuid.UUID][]*Subscriber),
		register:    make(chan *Subscriber),
		unregister:  make(chan *Subscriber),
		stopped:     make(chan struct{}),
		rdb:         rdb,
		instance:    uuid.NewString(),
		connections: gauge,
		logger:      log,
	}
}

// Run serves register/unregister requests until ctx ends.
func (h *Hub) Run(ctx context.Context) error {
	if h.rdb != nil {
		go h.subscribeToRedis(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			h.stopOnce.Do(func() { close(h.stopped) })
			return nil

		case sub := <-h.register:
			h.mu.Lock()
			h.clients[sub.UserID] = append(h.clients[sub.UserID], sub)
			h.connections.Inc()
			h.mu.Unlock()
			h.logger.Info("Hub", "stream registered", map[string]interface{}{"user_id": sub.UserID})

		case sub := <-h.unregister:
			h.remove(sub)
		}
	}
}

func (h *Hub) remove(sub *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	subs, ok := h.clients[sub.UserID]
	if !ok {
		return
	}
	for i, s := range subs {
		if s == sub {
			h.clients[sub.UserID] = append(subs[:i], subs[i+1:]...)
			h.connections.Dec()
			close(sub.Events)
			break
		}
	}
	if len(h.clients[sub.UserID]) == 0 {
		delete(h.clients, sub.UserID)
		h.logger.Info("Hub", "user has no open streams", map[string]interface{}{"user_id": sub.UserID})
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for userID, subs := range h.clients {
		for _, s := range subs {
			h.connections.Dec()
			close(s.Events)
		}
		delete(h.clients, userID)
	}
}

// Subscribe opens a stream for userID. The hub must be running.
func (h *Hub) Subscribe(ctx context.Context, userID uuid.UUID) (*Subscriber, error) {
	sub := &Subscriber{UserID: userID, Events: make(chan Event, subscriberBuffer)}
	select {
	case h.register <- sub:
		return sub, nil
	case <-h.stopped:
		return nil, ErrHubStopped
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Unsubscribe drops sub. It returns immediately once the hub has stopped.
func (h *Hub) Unsubscribe(sub *Subscriber) {
	select {
	case h.unregister <- sub:
	case <-h.stopped:
	}
}

// Connections reports how many streams this instance holds for userID.
func (h *Hub) Connections(userID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

// Notify delivers locally and publishes for other instances. Delivery is best effort.
func (h *Hub) Notify(ctx context.Context, userID uuid.UUID, event Event) {
	h.deliver(userID, event)

	if h.rdb == nil {
		return
	}
	payload, err := json.Marshal(clusterMessage{Origin: h.instance, TargetUserID: userID.String(), Event: event})
	if err != nil {
		return
	}
	if err := h.rdb.Publish(ctx, constant.RedisClusterEvents, payload).Err(); err != nil {
		h.logger.Warn("Hub", "redis publish failed", map[string]interface{}{"error": err})
	}
}

func (h *Hub) deliver(userID uuid.UUID, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, sub := range h.clients[userID] {
		select {
		case sub.Events <- event:
		default:
			h.logger.Warn("Hub", "stream buffer full, dropping event", map[string]interface{}{"user_id": userID})
		}
	}
}

func (h *Hub) subscribeToRedis(ctx context.Context) {
	pubsub := h.rdb.Subscribe(ctx, constant.RedisClusterEvents)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var cm clusterMessage
			if err := json.Unmarshal([]byte(msg.Payload), &cm); err != nil {
				h.logger.Warn("Hub", "bad cluster message", map[string]interface{}{"error": err})
				continue
			}
			if cm.Origin == h.instance {
				continue
			}
			uid, err := uuid.Parse(cm.TargetUserID)
			if err != nil {
				continue
			}
			h.deliver(uid, cm.Event)
		}
	}
}
