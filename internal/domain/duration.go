package domain

import "fmt"

// EffectiveDuration 计算歌曲的有效时长（秒）
// 解析顺序：setlist_songs.duration_seconds（覆盖值）→ songs.duration_seconds（曲库回退值）→ nil
func EffectiveDuration(override, catalog *int) *int {
	if override != nil {
		return override
	}
	return catalog
}

// CalculateSetlistTotal 计算演出曲目单的总时长（秒）
// nil 时长按 0 计入。卡片视图与详情视图必须使用同一行集调用本函数，
// 保证两个界面的总时长永不分歧
func CalculateSetlistTotal(rows []SetlistSongRow) int {
	total := 0
	for _, row := range rows {
		if d := EffectiveDuration(row.DurationOverride, row.CatalogDuration); d != nil {
			total += *d
		}
	}
	return total
}

// FormatDurationSummary 格式化总时长摘要
// 0 → "TBD"；分钟数按四舍五入（半分钟进位）；不足一小时 → "Xm"；
// 否则 → "Xh YYm"（分钟补零到两位）
func FormatDurationSummary(totalSeconds int) string {
	if totalSeconds == 0 {
		return "TBD"
	}

	minutes := (totalSeconds + 30) / 60
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}

	hours := minutes / 60
	remaining := minutes % 60
	return fmt.Sprintf("%dh %02dm", hours, remaining)
}

// FormatClock 格式化时钟样式时长
// 不足一小时 → "M:SS"；否则 → "H:MM:SS"
// 与 FormatDurationSummary 是两种刻意不同的文本约定，不可统一
func FormatClock(seconds int) string {
	hours := seconds / 3600
	minutes := seconds % 3600 / 60
	secs := seconds % 60

	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%d:%02d", minutes, secs)
}
