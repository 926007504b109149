package realtime

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/bandhub/server/internal/domain"
	"github.com/bandhub/server/pkg/logger"
	"github.com/bandhub/server/pkg/redis"
)

const (
	// 频道命名规范: bandhub:band:{bandID}
	bandChannelPrefix  = "bandhub:band:"
	bandChannelPattern = "bandhub:band:*"
	broadcastBuffer    = 1024
	registerBuffer     = 256
)

// envelope 跨实例投递的消息信封，InstanceID 用于跳过自己发布的消息
type envelope struct {
	InstanceID string        `json:"instance_id"`
	Event      *domain.Event `json:"event"`
}

type broadcastItem struct {
	bandID string
	event  *domain.Event
}

// Hub 仪表盘连接管理器
// 本地连接按乐队房间扇出，同时通过 Redis Pub/Sub 做跨实例扇出。
// Broadcast 非阻塞：通道满时丢弃事件而不是阻塞变更操作
type Hub struct {
	connections map[string]*Connection
	mu          sync.RWMutex

	room *Room

	rdb        *redis.Client
	instanceID string

	register   chan *Connection
	unregister chan *Connection
	broadcast  chan broadcastItem

	currentConnections int64
	droppedEvents      int64

	log logger.Logger
}

// NewHub 创建仪表盘连接管理器
func NewHub(rdb *redis.Client, instanceID string, log logger.Logger) *Hub {
	if log == nil {
		log = logger.Default()
	}
	return &Hub{
		connections: make(map[string]*Connection),
		room:        NewRoom(),
		rdb:         rdb,
		instanceID:  instanceID,
		register:    make(chan *Connection, registerBuffer),
		unregister:  make(chan *Connection, registerBuffer),
		broadcast:   make(chan broadcastItem, broadcastBuffer),
		log:         log,
	}
}

// Run 运行事件循环，阻塞直到 ctx 取消
func (h *Hub) Run(ctx context.Context) {
	h.log.Info("dashboard hub started", logger.String("instance_id", h.instanceID))

	if h.rdb != nil {
		go h.subscribeLoop(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return
		case conn := <-h.register:
			h.handleRegister(conn)
		case conn := <-h.unregister:
			h.handleUnregister(conn)
		case item := <-h.broadcast:
			h.handleBroadcast(ctx, item)
		}
	}
}

// Register 注册新连接
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister 注销连接
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// Broadcast 向乐队的仪表盘广播事件（即发即忘）
func (h *Hub) Broadcast(bandID string, event *domain.Event) {
	select {
	case h.broadcast <- broadcastItem{bandID: bandID, event: event}:
	default:
		atomic.AddInt64(&h.droppedEvents, 1)
		h.log.Warn("broadcast channel full, event dropped",
			logger.String("band_id", bandID),
			logger.String("event_type", event.Type))
	}
}

// Room 返回房间管理器
func (h *Hub) Room() *Room {
	return h.room
}

// ConnectionCount 当前连接总数
func (h *Hub) ConnectionCount() int64 {
	return atomic.LoadInt64(&h.currentConnections)
}

func (h *Hub) handleRegister(conn *Connection) {
	h.mu.Lock()
	h.connections[conn.ID] = conn
	h.mu.Unlock()

	h.room.Join(conn.BandID, conn)
	atomic.AddInt64(&h.currentConnections, 1)

	h.log.Debug("dashboard connection registered",
		logger.String("conn_id", conn.ID),
		logger.String("band_id", conn.BandID),
		logger.Int64("total", atomic.LoadInt64(&h.currentConnections)))
}

func (h *Hub) handleUnregister(conn *Connection) {
	h.mu.Lock()
	_, exists := h.connections[conn.ID]
	if exists {
		delete(h.connections, conn.ID)
	}
	h.mu.Unlock()
	if !exists {
		return
	}

	h.room.Leave(conn.BandID, conn.ID)
	atomic.AddInt64(&h.currentConnections, -1)

	if conn.IsActive() {
		conn.Close("unregistered")
	}
}

func (h *Hub) handleBroadcast(ctx context.Context, item broadcastItem) {
	// 本地扇出
	if h.room.HasListeners(item.bandID) {
		if err := h.room.BroadcastJSON(item.bandID, item.event); err != nil {
			h.log.Error("failed to broadcast event locally",
				logger.String("band_id", item.bandID),
				logger.Error(err))
		}
	}

	// 跨实例扇出
	if h.rdb == nil {
		return
	}
	payload, err := json.Marshal(envelope{InstanceID: h.instanceID, Event: item.event})
	if err != nil {
		h.log.Error("failed to marshal event envelope", logger.Error(err))
		return
	}
	if err := h.rdb.Publish(ctx, bandChannelPrefix+item.bandID, payload); err != nil {
		h.log.Error("failed to publish event to redis",
			logger.String("band_id", item.bandID),
			logger.Error(err))
	}
}

// subscribeLoop 订阅乐队频道并把其他实例的事件扇出到本地房间
func (h *Hub) subscribeLoop(ctx context.Context) {
	pubsub := h.rdb.Raw().PSubscribe(ctx, bandChannelPattern)
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
			var env envelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
				h.log.Warn("invalid pubsub payload", logger.Error(err))
				continue
			}
			if env.InstanceID == h.instanceID || env.Event == nil {
				continue
			}
			bandID := strings.TrimPrefix(msg.Channel, bandChannelPrefix)
			if h.room.HasListeners(bandID) {
				h.room.BroadcastJSON(bandID, env.Event)
			}
		}
	}
}

func (h *Hub) shutdown() {
	h.mu.Lock()
	connections := make([]*Connection, 0, len(h.connections))
	for _, conn := range h.connections {
		connections = append(connections, conn)
	}
	h.mu.Unlock()

	for _, conn := range connections {
		conn.Close("server shutdown")
	}

	h.log.Info("dashboard hub shutdown complete",
		logger.Int("closed_connections", len(connections)))
}
