package domain

import "time"

// Song 歌曲目录实体（不可变引用数据）
// 仅由歌曲元数据维护流程修改，核心逻辑只读取
type Song struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Artist          string    `json:"artist"`
	DurationSeconds *int      `json:"duration_seconds,omitempty"`
	BPM             *int      `json:"bpm,omitempty"`
	Tuning          *string   `json:"tuning,omitempty"`
	IsLive          bool      `json:"is_live"`
	ArtworkURL      string    `json:"artwork_url,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Validate 验证歌曲数据
func (s *Song) Validate() error {
	if s.Title == "" {
		return ErrInvalidSongTitle
	}
	if s.DurationSeconds != nil && *s.DurationSeconds < 0 {
		return ErrInvalidDuration
	}
	if s.BPM != nil && (*s.BPM < 1 || *s.BPM > 400) {
		return ErrInvalidBPM
	}
	return nil
}
