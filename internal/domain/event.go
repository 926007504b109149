package domain

import "time"

// 实时仪表盘事件类型
const (
	EventSetlistCreated   = "setlist.created"
	EventSetlistCopied    = "setlist.copied"
	EventSetlistUpdated   = "setlist.updated"
	EventSetlistDeleted   = "setlist.deleted"
	EventSetlistReordered = "setlist.reordered"
	EventSongAdded        = "setlist.song_added"
	EventSongRemoved      = "setlist.song_removed"
	EventSongCopied       = "setlist.song_copied"
	EventGigChanged       = "gig.changed"
	EventRehearsalChanged = "rehearsal.changed"
)

// Event 实时仪表盘事件
// 通过 broadcast(bandID, event) 即发即忘地推送，不影响变更操作的正确性
type Event struct {
	Type      string      `json:"type"`
	BandID    string      `json:"band_id"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewEvent 创建仪表盘事件
func NewEvent(eventType, bandID string, payload interface{}) *Event {
	return &Event{
		Type:      eventType,
		BandID:    bandID,
		Payload:   payload,
		Timestamp: time.Now(),
	}
}
