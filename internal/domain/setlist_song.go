package domain

import "time"

// SetlistSong 曲目单-歌曲关联实体
// 同一曲目单内 (setlist_id, song_id) 唯一；position 从 1 开始，
// 任何成功变更后必须保持连续无空洞
type SetlistSong struct {
	ID        string    `json:"id"`
	SetlistID string    `json:"setlist_id"`
	SongID    string    `json:"song_id"`
	Position  int       `json:"position"`
	// 逐曲目单覆盖值，nil 时回退到歌曲目录数据
	BPM             *int      `json:"bpm,omitempty"`
	Tuning          *string   `json:"tuning,omitempty"`
	DurationSeconds *int      `json:"duration_seconds,omitempty"`
	AddedAt         time.Time `json:"added_at"`
}

// Validate 验证关联数据
func (ss *SetlistSong) Validate() error {
	if ss.SetlistID == "" {
		return ErrInvalidSetlistID
	}
	if ss.SongID == "" {
		return ErrInvalidSongID
	}
	if ss.Position < 1 {
		return ErrInvalidPosition
	}
	return nil
}

// SetlistSongRow 读取模型行：setlist_songs 与 songs 曲库回退数据的连接结果
// 存储层连接查询的结果在进入核心逻辑前统一转换为此显式类型
type SetlistSongRow struct {
	ID        string `json:"id"`
	SetlistID string `json:"setlist_id"`
	SongID    string `json:"song_id"`
	Position  int    `json:"position"`

	// 歌曲目录数据
	Title           string  `json:"title"`
	Artist          string  `json:"artist"`
	CatalogDuration *int    `json:"catalog_duration_seconds"`
	CatalogBPM      *int    `json:"catalog_bpm"`
	CatalogTuning   *string `json:"catalog_tuning"`
	IsLive          bool    `json:"is_live"`
	ArtworkURL      string  `json:"artwork_url"`

	// 逐曲目单覆盖值
	DurationOverride *int    `json:"duration_seconds"`
	BPMOverride      *int    `json:"bpm"`
	TuningOverride   *string `json:"tuning"`
}

// EffectiveDurationSeconds 行的有效时长，完全缺失时返回 nil（界面渲染为 TBD）
func (r *SetlistSongRow) EffectiveDurationSeconds() *int {
	return EffectiveDuration(r.DurationOverride, r.CatalogDuration)
}
