package realtime

import (
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/bandhub/server/pkg/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 30 * time.Second
	maxMessageSize = 64 * 1024
	sendBuffer     = 256
)

// Connection 单个仪表盘 WebSocket 连接
// 客户端通道是单向的：服务端只推送事件，入站报文仅用于心跳
type Connection struct {
	ID     string
	UserID string
	BandID string

	conn *websocket.Conn
	send chan []byte

	isActive  int32
	createdAt time.Time

	closeChan chan struct{}
	closeOnce sync.Once

	hub *Hub
	log logger.Logger
}

// NewConnection 创建仪表盘连接
func NewConnection(id, userID, bandID string, conn *websocket.Conn, hub *Hub, log logger.Logger) *Connection {
	return &Connection{
		ID:        id,
		UserID:    userID,
		BandID:    bandID,
		conn:      conn,
		send:      make(chan []byte, sendBuffer),
		isActive:  1,
		createdAt: time.Now(),
		closeChan: make(chan struct{}),
		hub:       hub,
		log:       log,
	}
}

// IsActive 检查连接是否活跃
func (c *Connection) IsActive() bool {
	return atomic.LoadInt32(&c.isActive) == 1
}

// Close 关闭连接
func (c *Connection) Close(reason string) {
	c.closeOnce.Do(func() {
		atomic.StoreInt32(&c.isActive, 0)
		close(c.closeChan)

		c.conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, reason),
			time.Now().Add(writeWait),
		)
		c.conn.Close()

		c.log.Debug("dashboard connection closed",
			logger.String("conn_id", c.ID),
			logger.String("band_id", c.BandID),
			logger.String("reason", reason),
			logger.Duration("lifetime", time.Since(c.createdAt)))
	})
}

// Send 尝试向连接推送一条消息，缓冲满时关闭连接
func (c *Connection) Send(message []byte) bool {
	if !c.IsActive() {
		return false
	}
	select {
	case c.send <- message:
		return true
	default:
		c.log.Warn("send buffer full, dropping dashboard connection",
			logger.String("conn_id", c.ID),
			logger.String("band_id", c.BandID))
		c.Close("send buffer full")
		return false
	}
}

// SendJSON 推送 JSON 消息
func (c *Connection) SendJSON(v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if !c.Send(data) {
		return websocket.ErrCloseSent
	}
	return nil
}

// ReadPump 读取泵：只处理心跳，其余入站报文丢弃
// 连接的生命周期由 closeChan 与底层套接字决定，与 HTTP 请求上下文无关：
// 升级后请求上下文随即取消，不能用它驱动泵
func (c *Connection) ReadPump() {
	defer c.hub.Unregister(c)

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.Debug("dashboard websocket read error",
					logger.String("conn_id", c.ID),
					logger.Error(err))
			}
			return
		}
	}
}

// WritePump 写入泵：推送事件并按周期发送 Ping
func (c *Connection) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-c.closeChan:
			return
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.Close("ping failed")
				return
			}
		}
	}
}
