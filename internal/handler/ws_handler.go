package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/bandhub/server/internal/realtime"
	"github.com/bandhub/server/internal/service"
	"github.com/bandhub/server/pkg/errors"
	"github.com/bandhub/server/pkg/httputil"
	"github.com/bandhub/server/pkg/logger"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// 跨域校验交给前置的 CORS 中间件
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WSHandler 仪表盘 WebSocket 处理器
type WSHandler struct {
	hub        *realtime.Hub
	membership service.MembershipAuthority
	log        logger.Logger
}

// NewWSHandler 创建仪表盘 WebSocket 处理器
func NewWSHandler(hub *realtime.Hub, membership service.MembershipAuthority, log logger.Logger) *WSHandler {
	if log == nil {
		log = logger.Default()
	}
	return &WSHandler{hub: hub, membership: membership, log: log}
}

// Serve 升级连接并加入乐队仪表盘房间
// 成员资格在升级之前校验，非成员拿不到 WebSocket 连接
func (h *WSHandler) Serve(c *gin.Context) {
	userID := c.GetString("user_id")
	bandID := c.Query("band_id")
	if bandID == "" {
		httputil.ErrorResponse(c, errors.ErrValidation.WithMessage("band_id query parameter is required"))
		return
	}

	if err := h.membership.RequireMembership(c.Request.Context(), userID, bandID); err != nil {
		httputil.ErrorResponse(c, err)
		return
	}

	wsConn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed",
			logger.String("band_id", bandID),
			logger.Error(err))
		return
	}

	conn := realtime.NewConnection(uuid.New().String(), userID, bandID, wsConn, h.hub, h.log)
	h.hub.Register(conn)

	go conn.WritePump()
	go conn.ReadPump()
}
