package domain

import (
	"fmt"
	"strings"
)

// ShareSong 分享文本中单首歌曲的展示数据
type ShareSong struct {
	Title           string
	Artist          string // 缺失时渲染为空行
	Tuning          string // 缺失时渲染为 "standard"
	DurationSeconds int    // 缺失时按 0 计
	BPM             *int   // 缺失时渲染为 "—"
}

// ShareSongsFromRows 从读取模型行构建分享文本数据
// 时长与 BPM、调弦均采用覆盖值优先、曲库回退的解析顺序
func ShareSongsFromRows(rows []SetlistSongRow) []ShareSong {
	songs := make([]ShareSong, 0, len(rows))
	for _, row := range rows {
		song := ShareSong{
			Title:  row.Title,
			Artist: row.Artist,
		}
		if d := EffectiveDuration(row.DurationOverride, row.CatalogDuration); d != nil {
			song.DurationSeconds = *d
		}
		if row.TuningOverride != nil {
			song.Tuning = *row.TuningOverride
		} else if row.CatalogTuning != nil {
			song.Tuning = *row.CatalogTuning
		}
		if row.BPMOverride != nil {
			song.BPM = row.BPMOverride
		} else {
			song.BPM = row.CatalogBPM
		}
		songs = append(songs, song)
	}
	return songs
}

// BuildShareText 生成固定格式的可分享文本块
//
//	Setlist: {name}
//	Songs: {count} • Total Duration: {H:MM:SS 或 M:SS}
//
//
//	{title}
//	{artist 或空行}
//	Tuning: {tuning 或 "standard"} • {时钟格式时长} • {bpm 或 "—"} BPM
//
// 歌曲之间以空行分隔。总时长使用时钟格式，而非摘要格式
func BuildShareText(name string, songs []ShareSong) string {
	total := 0
	for _, song := range songs {
		total += song.DurationSeconds
	}

	header := fmt.Sprintf("Setlist: %s\nSongs: %d • Total Duration: %s", name, len(songs), FormatClock(total))

	blocks := make([]string, 0, len(songs))
	for _, song := range songs {
		tuning := song.Tuning
		if tuning == "" {
			tuning = "standard"
		}
		bpm := "—"
		if song.BPM != nil {
			bpm = fmt.Sprintf("%d", *song.BPM)
		}
		blocks = append(blocks, fmt.Sprintf("%s\n%s\nTuning: %s • %s • %s BPM",
			song.Title, song.Artist, tuning, FormatClock(song.DurationSeconds), bpm))
	}

	return header + "\n\n\n" + strings.Join(blocks, "\n\n")
}
