package domain

import "errors"

var (
	// 通用错误
	ErrInvalidUserID = errors.New("invalid user id")
	ErrInvalidBandID = errors.New("invalid band id")
	ErrInvalidRole   = errors.New("invalid member role")

	// 乐队相关错误
	ErrInvalidBandName = errors.New("invalid band name")
	ErrBandNameTooLong = errors.New("band name too long")

	// 歌曲相关错误
	ErrInvalidSongID    = errors.New("invalid song id")
	ErrInvalidSongTitle = errors.New("invalid song title")
	ErrInvalidDuration  = errors.New("invalid duration")
	ErrInvalidBPM       = errors.New("invalid bpm")

	// 曲目单相关错误
	ErrInvalidSetlistID   = errors.New("invalid setlist id")
	ErrInvalidSetlistName = errors.New("invalid setlist name")
	ErrSetlistNameTooLong = errors.New("setlist name too long")
	ErrInvalidPosition    = errors.New("invalid position")
	ErrEmptySongBatch     = errors.New("empty song id batch")

	// 日程相关错误
	ErrInvalidGigName   = errors.New("invalid gig name")
	ErrInvalidStartTime = errors.New("invalid start time")
	ErrInvalidTimeRange = errors.New("invalid time range")
)
