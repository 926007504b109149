package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestBuildShareText_Exact 分享文本的逐字节格式校验
func TestBuildShareText_Exact(t *testing.T) {
	songs := []ShareSong{
		{
			Title:           "Don't Tell Me You Love Me",
			Artist:          "Night Ranger",
			DurationSeconds: 263,
		},
		{
			Title:           "Interlude",
			DurationSeconds: 222,
			Tuning:          "drop D",
			BPM:             intPtr(142),
		},
		{
			Title:           "(Don't Fear) The Reaper",
			Artist:          "Blue Öyster Cult",
			DurationSeconds: 308,
			BPM:             intPtr(141),
		},
	}

	got := BuildShareText("Friday Night", songs)

	want := strings.Join([]string{
		"Setlist: Friday Night",
		"Songs: 3 • Total Duration: 13:13",
		"",
		"",
		"Don't Tell Me You Love Me",
		"Night Ranger",
		"Tuning: standard • 4:23 • — BPM",
		"",
		"Interlude",
		"",
		"Tuning: drop D • 3:42 • 142 BPM",
		"",
		"(Don't Fear) The Reaper",
		"Blue Öyster Cult",
		"Tuning: standard • 5:08 • 141 BPM",
	}, "\n")

	assert.Equal(t, want, got)
}

// TestBuildShareText_Empty 空曲目单仍输出头部
func TestBuildShareText_Empty(t *testing.T) {
	got := BuildShareText("Empty", nil)

	assert.Equal(t, "Setlist: Empty\nSongs: 0 • Total Duration: 0:00\n\n\n", got)
}

// TestShareSongsFromRows 覆盖值优先、曲库回退的解析
func TestShareSongsFromRows(t *testing.T) {
	rows := []SetlistSongRow{
		{
			Title:           "A",
			Artist:          "Artist A",
			CatalogDuration: intPtr(180),
			CatalogBPM:      intPtr(120),
			CatalogTuning:   strPtr("standard"),
		},
		{
			Title:            "B",
			CatalogDuration:  intPtr(180),
			DurationOverride: intPtr(200),
			CatalogBPM:       intPtr(120),
			BPMOverride:      intPtr(96),
			CatalogTuning:    strPtr("standard"),
			TuningOverride:   strPtr("drop C"),
		},
		{
			Title: "C",
		},
	}

	songs := ShareSongsFromRows(rows)

	assert.Len(t, songs, 3)

	assert.Equal(t, 180, songs[0].DurationSeconds)
	assert.Equal(t, intPtr(120), songs[0].BPM)
	assert.Equal(t, "standard", songs[0].Tuning)

	assert.Equal(t, 200, songs[1].DurationSeconds)
	assert.Equal(t, intPtr(96), songs[1].BPM)
	assert.Equal(t, "drop C", songs[1].Tuning)

	assert.Equal(t, 0, songs[2].DurationSeconds)
	assert.Nil(t, songs[2].BPM)
	assert.Empty(t, songs[2].Tuning)
}
