package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bandhub/server/internal/domain"
)

// SetlistSongRepositoryImpl 曲目单歌曲仓储实现
type SetlistSongRepositoryImpl struct {
	db *pgxpool.Pool
}

// NewSetlistSongRepository 创建曲目单歌曲仓储
func NewSetlistSongRepository(db *pgxpool.Pool) SetlistSongRepository {
	return &SetlistSongRepositoryImpl{db: db}
}

// Insert 插入一行
func (r *SetlistSongRepositoryImpl) Insert(ctx context.Context, ss *domain.SetlistSong) error {
	query := `
		INSERT INTO setlist_songs (id, setlist_id, song_id, position, bpm, tuning, duration_seconds, added_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.Exec(ctx, query,
		ss.ID,
		ss.SetlistID,
		ss.SongID,
		ss.Position,
		ss.BPM,
		ss.Tuning,
		ss.DurationSeconds,
		ss.AddedAt,
	)
	return err
}

// GetByID 根据 ID 获取行
func (r *SetlistSongRepositoryImpl) GetByID(ctx context.Context, id string) (*domain.SetlistSong, error) {
	query := `
		SELECT id, setlist_id, song_id, position, bpm, tuning, duration_seconds, added_at
		FROM setlist_songs
		WHERE id = $1
	`
	var ss domain.SetlistSong
	err := r.db.QueryRow(ctx, query, id).Scan(
		&ss.ID,
		&ss.SetlistID,
		&ss.SongID,
		&ss.Position,
		&ss.BPM,
		&ss.Tuning,
		&ss.DurationSeconds,
		&ss.AddedAt,
	)
	if err != nil {
		return nil, err
	}
	return &ss, nil
}

// GetWithBand 获取行及其所属乐队与歌曲标题
func (r *SetlistSongRepositoryImpl) GetWithBand(ctx context.Context, id string) (*SetlistSongWithBand, error) {
	query := `
		SELECT ss.id, ss.setlist_id, ss.song_id, ss.position, ss.bpm, ss.tuning, ss.duration_seconds, ss.added_at,
		       sl.band_id, s.title
		FROM setlist_songs ss
		JOIN setlists sl ON sl.id = ss.setlist_id
		JOIN songs s ON s.id = ss.song_id
		WHERE ss.id = $1
	`
	var row SetlistSongWithBand
	err := r.db.QueryRow(ctx, query, id).Scan(
		&row.ID,
		&row.SetlistID,
		&row.SongID,
		&row.Position,
		&row.BPM,
		&row.Tuning,
		&row.DurationSeconds,
		&row.AddedAt,
		&row.BandID,
		&row.SongTitle,
	)
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// ListRows 获取曲目单的读取模型行（连接歌曲目录回退数据），按位置升序
func (r *SetlistSongRepositoryImpl) ListRows(ctx context.Context, setlistID string) ([]domain.SetlistSongRow, error) {
	query := `
		SELECT ss.id, ss.setlist_id, ss.song_id, ss.position,
		       s.title, s.artist, s.duration_seconds, s.bpm, s.tuning, s.is_live, s.artwork_url,
		       ss.duration_seconds, ss.bpm, ss.tuning
		FROM setlist_songs ss
		JOIN songs s ON s.id = ss.song_id
		WHERE ss.setlist_id = $1
		ORDER BY ss.position ASC
	`
	rows, err := r.db.Query(ctx, query, setlistID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.SetlistSongRow
	for rows.Next() {
		var row domain.SetlistSongRow
		err := rows.Scan(
			&row.ID,
			&row.SetlistID,
			&row.SongID,
			&row.Position,
			&row.Title,
			&row.Artist,
			&row.CatalogDuration,
			&row.CatalogBPM,
			&row.CatalogTuning,
			&row.IsLive,
			&row.ArtworkURL,
			&row.DurationOverride,
			&row.BPMOverride,
			&row.TuningOverride,
		)
		if err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

// ListIDs 获取曲目单内全部行 ID，按位置升序
func (r *SetlistSongRepositoryImpl) ListIDs(ctx context.Context, setlistID string) ([]string, error) {
	query := `SELECT id FROM setlist_songs WHERE setlist_id = $1 ORDER BY position ASC`
	rows, err := r.db.Query(ctx, query, setlistID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// MaxPosition 获取当前最大位置（空曲目单返回 0）
func (r *SetlistSongRepositoryImpl) MaxPosition(ctx context.Context, setlistID string) (int, error) {
	query := `SELECT COALESCE(MAX(position), 0) FROM setlist_songs WHERE setlist_id = $1`
	var maxPos int
	err := r.db.QueryRow(ctx, query, setlistID).Scan(&maxPos)
	return maxPos, err
}

// ExistsSong 检查歌曲是否已在曲目单中
func (r *SetlistSongRepositoryImpl) ExistsSong(ctx context.Context, setlistID, songID string) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM setlist_songs
			WHERE setlist_id = $1 AND song_id = $2
		)
	`
	var exists bool
	err := r.db.QueryRow(ctx, query, setlistID, songID).Scan(&exists)
	return exists, err
}

// DeleteAndShift 删除单行并将其后所有行位置下移一位
// 删除与移位在同一事务内执行，位置唯一约束延迟到提交时检查
func (r *SetlistSongRepositoryImpl) DeleteAndShift(ctx context.Context, setlistID, id string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var position int
	err = tx.QueryRow(ctx,
		`DELETE FROM setlist_songs WHERE id = $1 AND setlist_id = $2 RETURNING position`,
		id, setlistID,
	).Scan(&position)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx,
		`UPDATE setlist_songs SET position = position - 1 WHERE setlist_id = $1 AND position > $2`,
		setlistID, position,
	)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// BulkDeleteAndCompact 删除整批行并一次性压实位置序列
// 压实针对整个删除后的剩余集合计算一次，而非逐行移位
func (r *SetlistSongRepositoryImpl) BulkDeleteAndCompact(ctx context.Context, setlistID string, ids []string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`DELETE FROM setlist_songs WHERE setlist_id = $1 AND id = ANY($2::uuid[])`,
		setlistID, ids,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() != int64(len(ids)) {
		return fmt.Errorf("bulk delete matched %d of %d rows", tag.RowsAffected(), len(ids))
	}

	_, err = tx.Exec(ctx, `
		UPDATE setlist_songs ss
		SET position = t.rn
		FROM (
			SELECT id, ROW_NUMBER() OVER (ORDER BY position) AS rn
			FROM setlist_songs
			WHERE setlist_id = $1
		) t
		WHERE ss.id = t.id AND ss.position <> t.rn
	`, setlistID)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// Reorder 按调用方给出的完整新顺序重写位置 1..N
func (r *SetlistSongRepositoryImpl) Reorder(ctx context.Context, setlistID string, orderedIDs []string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE setlist_songs ss
		SET position = t.ord
		FROM (
			SELECT unnest($2::uuid[]) AS id, generate_subscripts($2::uuid[], 1) AS ord
		) t
		WHERE ss.id = t.id AND ss.setlist_id = $1
	`, setlistID, orderedIDs)
	if err != nil {
		return err
	}
	if tag.RowsAffected() != int64(len(orderedIDs)) {
		return fmt.Errorf("reorder matched %d of %d rows", tag.RowsAffected(), len(orderedIDs))
	}

	return tx.Commit(ctx)
}

// CloneAll 将源曲目单的全部行克隆到目标曲目单（新 id，保留位置与覆盖值）
func (r *SetlistSongRepositoryImpl) CloneAll(ctx context.Context, srcSetlistID, dstSetlistID string) error {
	query := `
		INSERT INTO setlist_songs (id, setlist_id, song_id, position, bpm, tuning, duration_seconds, added_at)
		SELECT gen_random_uuid(), $2, song_id, position, bpm, tuning, duration_seconds, now()
		FROM setlist_songs
		WHERE setlist_id = $1
	`
	_, err := r.db.Exec(ctx, query, srcSetlistID, dstSetlistID)
	return err
}
