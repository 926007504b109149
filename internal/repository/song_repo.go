package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bandhub/server/internal/domain"
)

// SongRepositoryImpl 歌曲目录仓储实现
type SongRepositoryImpl struct {
	db *pgxpool.Pool
}

// NewSongRepository 创建歌曲目录仓储
func NewSongRepository(db *pgxpool.Pool) SongRepository {
	return &SongRepositoryImpl{db: db}
}

// Create 创建歌曲
func (r *SongRepositoryImpl) Create(ctx context.Context, song *domain.Song) error {
	query := `
		INSERT INTO songs (id, title, artist, duration_seconds, bpm, tuning, is_live, artwork_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.Exec(ctx, query,
		song.ID,
		song.Title,
		song.Artist,
		song.DurationSeconds,
		song.BPM,
		song.Tuning,
		song.IsLive,
		song.ArtworkURL,
		song.CreatedAt,
		song.UpdatedAt,
	)
	return err
}

// GetByID 根据 ID 获取歌曲
func (r *SongRepositoryImpl) GetByID(ctx context.Context, id string) (*domain.Song, error) {
	query := `
		SELECT id, title, artist, duration_seconds, bpm, tuning, is_live, artwork_url, created_at, updated_at
		FROM songs
		WHERE id = $1
	`
	var song domain.Song
	err := r.db.QueryRow(ctx, query, id).Scan(
		&song.ID,
		&song.Title,
		&song.Artist,
		&song.DurationSeconds,
		&song.BPM,
		&song.Tuning,
		&song.IsLive,
		&song.ArtworkURL,
		&song.CreatedAt,
		&song.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &song, nil
}

// List 获取歌曲目录列表
func (r *SongRepositoryImpl) List(ctx context.Context, limit, offset int) ([]*domain.Song, error) {
	query := `
		SELECT id, title, artist, duration_seconds, bpm, tuning, is_live, artwork_url, created_at, updated_at
		FROM songs
		ORDER BY title ASC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var songs []*domain.Song
	for rows.Next() {
		var song domain.Song
		err := rows.Scan(
			&song.ID,
			&song.Title,
			&song.Artist,
			&song.DurationSeconds,
			&song.BPM,
			&song.Tuning,
			&song.IsLive,
			&song.ArtworkURL,
			&song.CreatedAt,
			&song.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		songs = append(songs, &song)
	}
	return songs, rows.Err()
}

// Count 统计歌曲总数
func (r *SongRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM songs`).Scan(&count)
	return count, err
}
