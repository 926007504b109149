package domain

import "time"

// Setlist 演出曲目单实体
// TotalDuration 是非规范化的缓存值，可能过期，仅作遥测参考；
// 任何面向用户的总时长必须通过读取模型重新计算
type Setlist struct {
	ID            string    `json:"id"`
	BandID        string    `json:"band_id"`
	Name          string    `json:"name"`
	TotalDuration int       `json:"total_duration"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Validate 验证曲目单数据
func (s *Setlist) Validate() error {
	if s.BandID == "" {
		return ErrInvalidBandID
	}
	return ValidateSetlistName(s.Name)
}

// ValidateSetlistName 验证曲目单名称
func ValidateSetlistName(name string) error {
	if name == "" {
		return ErrInvalidSetlistName
	}
	if len(name) > 100 {
		return ErrSetlistNameTooLong
	}
	return nil
}

// CopyName 生成复制曲目单的名称
func (s *Setlist) CopyName() string {
	return s.Name + " (Copy)"
}

// SetlistSummary 曲目单汇总视图（读取模型输出）
type SetlistSummary struct {
	ID                   string `json:"id"`
	Name                 string `json:"name"`
	SongCount            int    `json:"song_count"`
	TotalDurationSeconds int    `json:"total_duration_seconds"`
	FormattedSummary     string `json:"formatted_summary"`
}

// SetlistDetail 曲目单详情视图，与汇总视图共享同一行集
type SetlistDetail struct {
	Setlist
	Songs                []SetlistSongRow `json:"songs"`
	TotalDurationSeconds int              `json:"total_duration_seconds"`
	FormattedSummary     string           `json:"formatted_summary"`
}
