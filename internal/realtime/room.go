package realtime

import (
	"encoding/json"
	"sync"
)

// Room 房间管理器（按 BandID 分组连接）
// 一个乐队的全部仪表盘连接在一个房间内，事件按乐队粒度扇出
type Room struct {
	// bandID -> connID -> connection
	rooms map[string]map[string]*Connection
	mu    sync.RWMutex
}

// NewRoom 创建房间管理器
func NewRoom() *Room {
	return &Room{
		rooms: make(map[string]map[string]*Connection),
	}
}

// Join 连接加入乐队房间
func (r *Room) Join(bandID string, conn *Connection) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.rooms[bandID]; !exists {
		r.rooms[bandID] = make(map[string]*Connection)
	}
	r.rooms[bandID][conn.ID] = conn
}

// Leave 连接离开乐队房间
func (r *Room) Leave(bandID, connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if conns, exists := r.rooms[bandID]; exists {
		delete(conns, connID)
		if len(conns) == 0 {
			delete(r.rooms, bandID)
		}
	}
}

// Broadcast 向乐队房间的所有连接广播消息，返回成功发送数
func (r *Room) Broadcast(bandID string, message []byte) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conns, exists := r.rooms[bandID]
	if !exists {
		return 0
	}

	sent := 0
	for _, conn := range conns {
		if conn.Send(message) {
			sent++
		}
	}
	return sent
}

// BroadcastJSON 向乐队房间广播 JSON 消息
func (r *Room) BroadcastJSON(bandID string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	r.Broadcast(bandID, data)
	return nil
}

// HasListeners 检查乐队房间是否有活跃连接
func (r *Room) HasListeners(bandID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, conn := range r.rooms[bandID] {
		if conn.IsActive() {
			return true
		}
	}
	return false
}

// ConnectionCount 乐队房间的活跃连接数
func (r *Room) ConnectionCount(bandID string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, conn := range r.rooms[bandID] {
		if conn.IsActive() {
			count++
		}
	}
	return count
}

// ActiveBands 当前有连接的乐队列表
func (r *Room) ActiveBands() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bands := make([]string, 0, len(r.rooms))
	for bandID, conns := range r.rooms {
		for _, conn := range conns {
			if conn.IsActive() {
				bands = append(bands, bandID)
				break
			}
		}
	}
	return bands
}
