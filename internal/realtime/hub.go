package realtime

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// PingInterval and PongWait are used for heartbeat.
	PingInterval = 30
	PongWait     = 60
)

// EventAttendance is pushed on every attendance change; EventViewers when
// the number of connected board viewers changes.
const (
	EventAttendance = "attendance_update"
	EventViewers    = "viewer_count"
)

// Hub maintains assembly_id -> set of connections and broadcasts board
// events. Uses Redis pub/sub for horizontal scaling: local broadcast plus
// publish to Redis.
type Hub struct {
	// assemblyID -> map[clientID]*Client
	rooms    map[uuid.UUID]map[string]*Client
	subs     map[uuid.UUID]func() // cancel Redis subscription per assembly
	mu       sync.RWMutex
	logger   *zap.Logger
	redis    RedisPublisher
	redisSub RedisSubscriber
}

// RedisPublisher publishes to Redis for cross-instance broadcast.
type RedisPublisher interface {
	PublishAssemblyEvent(assemblyID uuid.UUID, event string, payload []byte) error
}

// RedisSubscriber subscribes to assembly channels and invokes handler for
// incoming events.
type RedisSubscriber interface {
	SubscribeAssembly(assemblyID uuid.UUID, handler func(event string, payload []byte)) (cancel func(), err error)
}

// NewHub creates a new WebSocket hub.
func NewHub(logger *zap.Logger, redisPub RedisPublisher, redisSub RedisSubscriber) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		rooms:    make(map[uuid.UUID]map[string]*Client),
		subs:     make(map[uuid.UUID]func()),
		logger:   logger,
		redis:    redisPub,
		redisSub: redisSub,
	}
}

// Register adds a client to an assembly room. Starts the Redis
// subscription for this assembly if it is the first client.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	if h.rooms[c.AssemblyID] == nil {
		h.rooms[c.AssemblyID] = make(map[string]*Client)
		if h.redisSub != nil {
			cancel, err := h.redisSub.SubscribeAssembly(c.AssemblyID, func(event string, payload []byte) {
				h.Broadcast(c.AssemblyID, event, json.RawMessage(payload))
			})
			if err == nil {
				h.subs[c.AssemblyID] = cancel
			}
		}
	}
	h.rooms[c.AssemblyID][c.ID] = c
	count := len(h.rooms[c.AssemblyID])
	h.mu.Unlock()

	h.Broadcast(c.AssemblyID, EventViewers, map[string]int{"count": count})
	h.logger.Debug("viewer joined assembly board",
		zap.String("client_id", c.ID), zap.String("assembly_id", c.AssemblyID.String()))
}

// Unregister removes a client from an assembly room. Cancels the Redis
// subscription when the last client leaves.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	var count int
	if m, ok := h.rooms[c.AssemblyID]; ok {
		delete(m, c.ID)
		count = len(m)
		if count == 0 {
			delete(h.rooms, c.AssemblyID)
			if cancel, ok := h.subs[c.AssemblyID]; ok {
				cancel()
				delete(h.subs, c.AssemblyID)
			}
		}
	}
	h.mu.Unlock()

	if count > 0 {
		h.Broadcast(c.AssemblyID, EventViewers, map[string]int{"count": count})
	}
	h.logger.Debug("viewer left assembly board",
		zap.String("client_id", c.ID), zap.String("assembly_id", c.AssemblyID.String()))
}

// Broadcast sends a message to all clients watching an assembly (local only).
func (h *Hub) Broadcast(assemblyID uuid.UUID, event string, payload interface{}) {
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
	clients := h.rooms[assemblyID]
	h.mu.RUnlock()

	if clients == nil {
		return
	}
	for _, c := range clients {
		select {
		case c.send <- msg:
		default:
			// buffer full, skip
		}
	}
}

// BroadcastAndPublish sends to local clients and publishes to Redis for
// other instances.
func (h *Hub) BroadcastAndPublish(assemblyID uuid.UUID, event string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	h.Broadcast(assemblyID, event, payload)
	if h.redis != nil {
		_ = h.redis.PublishAssemblyEvent(assemblyID, event, data)
	}
}

// BroadcastAttendance satisfies the attendance board's broadcaster
// contract: fan out one board update to every viewer on every instance.
func (h *Hub) BroadcastAttendance(assemblyID uuid.UUID, update any) {
	h.BroadcastAndPublish(assemblyID, EventAttendance, update)
}

// ViewerCount returns the number of connected clients watching an assembly.
func (h *Hub) ViewerCount(assemblyID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[assemblyID])
}
