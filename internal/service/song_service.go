package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/bandhub/server/internal/domain"
	"github.com/bandhub/server/internal/repository"
	"github.com/bandhub/server/pkg/errors"
)

// SongService 歌曲目录服务
// 目录是只增的引用数据：核心曲目单逻辑只读取，不修改
type SongService struct {
	songRepo repository.SongRepository
}

// NewSongService 创建歌曲目录服务
func NewSongService(songRepo repository.SongRepository) *SongService {
	return &SongService{songRepo: songRepo}
}

// CreateSong 向目录添加歌曲
func (s *SongService) CreateSong(ctx context.Context, song *domain.Song) (*domain.Song, error) {
	now := time.Now()
	song.ID = uuid.New().String()
	song.CreatedAt = now
	song.UpdatedAt = now

	if err := song.Validate(); err != nil {
		return nil, errors.ErrValidation.WithMessage(err.Error())
	}

	if err := s.songRepo.Create(ctx, song); err != nil {
		return nil, errors.ErrException.WithMessage(err.Error()).WithError(err)
	}
	return song, nil
}

// GetSong 获取目录歌曲
func (s *SongService) GetSong(ctx context.Context, id string) (*domain.Song, error) {
	song, err := s.songRepo.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, errors.ErrSongNotFound
		}
		return nil, errors.ErrException.WithMessage(err.Error()).WithError(err)
	}
	return song, nil
}

// ListSongs 分页列出目录歌曲
func (s *SongService) ListSongs(ctx context.Context, page, pageSize int) ([]*domain.Song, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	songs, err := s.songRepo.List(ctx, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, errors.ErrException.WithMessage(err.Error()).WithError(err)
	}
	total, err := s.songRepo.Count(ctx)
	if err != nil {
		return nil, 0, errors.ErrException.WithMessage(err.Error()).WithError(err)
	}
	return songs, total, nil
}
