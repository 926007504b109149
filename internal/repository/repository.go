package repository

import (
	"context"

	"github.com/bandhub/server/internal/domain"
)

// BandRepository 乐队仓储接口
type BandRepository interface {
	Create(ctx context.Context, band *domain.Band) error
	GetByID(ctx context.Context, id string) (*domain.Band, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Band, error)
	AddMember(ctx context.Context, member *domain.BandMember) error
	ListMembers(ctx context.Context, bandID string) ([]*domain.BandMember, error)
	GetMember(ctx context.Context, bandID, userID string) (*domain.BandMember, error)
}

// SongRepository 歌曲目录仓储接口
type SongRepository interface {
	Create(ctx context.Context, song *domain.Song) error
	GetByID(ctx context.Context, id string) (*domain.Song, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Song, error)
	Count(ctx context.Context) (int64, error)
}

// SetlistRepository 曲目单仓储接口
type SetlistRepository interface {
	Create(ctx context.Context, setlist *domain.Setlist) error
	GetByID(ctx context.Context, id string) (*domain.Setlist, error)
	ListByBand(ctx context.Context, bandID string) ([]*domain.Setlist, error)
	UpdateName(ctx context.Context, id, name string) error
	// UpdateCachedTotal 写入遥测性质的缓存总时长，绝不作为读取来源
	UpdateCachedTotal(ctx context.Context, id string, totalSeconds int) error
	ListAllIDs(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, id string) error
}

// SetlistSongWithBand 源行及其归属信息（用于跨曲目单复制的权限判定）
type SetlistSongWithBand struct {
	domain.SetlistSong
	BandID    string
	SongTitle string
}

// SetlistSongRepository 曲目单歌曲仓储接口
// 多行位置移动的方法在单个事务内执行全部语句
type SetlistSongRepository interface {
	Insert(ctx context.Context, ss *domain.SetlistSong) error
	GetByID(ctx context.Context, id string) (*domain.SetlistSong, error)
	GetWithBand(ctx context.Context, id string) (*SetlistSongWithBand, error)
	ListRows(ctx context.Context, setlistID string) ([]domain.SetlistSongRow, error)
	ListIDs(ctx context.Context, setlistID string) ([]string, error)
	MaxPosition(ctx context.Context, setlistID string) (int, error)
	ExistsSong(ctx context.Context, setlistID, songID string) (bool, error)
	// DeleteAndShift 删除单行并将其后所有行位置下移一位
	DeleteAndShift(ctx context.Context, setlistID, id string) error
	// BulkDeleteAndCompact 删除整批行并一次性压实位置序列
	BulkDeleteAndCompact(ctx context.Context, setlistID string, ids []string) error
	// Reorder 按调用方给出的完整新顺序重写位置 1..N
	Reorder(ctx context.Context, setlistID string, orderedIDs []string) error
	// CloneAll 将源曲目单的全部行克隆到目标曲目单（新 id，保留位置与覆盖值）
	CloneAll(ctx context.Context, srcSetlistID, dstSetlistID string) error
}

// GigRepository 演出仓储接口
type GigRepository interface {
	Create(ctx context.Context, gig *domain.Gig) error
	GetByID(ctx context.Context, id string) (*domain.Gig, error)
	ListByBand(ctx context.Context, bandID string) ([]*domain.Gig, error)
	Update(ctx context.Context, gig *domain.Gig) error
	Delete(ctx context.Context, id string) error
}

// RehearsalRepository 排练仓储接口
type RehearsalRepository interface {
	Create(ctx context.Context, rehearsal *domain.Rehearsal) error
	GetByID(ctx context.Context, id string) (*domain.Rehearsal, error)
	ListByBand(ctx context.Context, bandID string) ([]*domain.Rehearsal, error)
	Update(ctx context.Context, rehearsal *domain.Rehearsal) error
	Delete(ctx context.Context, id string) error
}
