package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bandhub/server/internal/domain"
)

// SetlistRepositoryImpl 曲目单仓储实现
type SetlistRepositoryImpl struct {
	db *pgxpool.Pool
}

// NewSetlistRepository 创建曲目单仓储
func NewSetlistRepository(db *pgxpool.Pool) SetlistRepository {
	return &SetlistRepositoryImpl{db: db}
}

// Create 创建曲目单
func (r *SetlistRepositoryImpl) Create(ctx context.Context, setlist *domain.Setlist) error {
	query := `
		INSERT INTO setlists (id, band_id, name, total_duration, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.Exec(ctx, query,
		setlist.ID,
		setlist.BandID,
		setlist.Name,
		setlist.TotalDuration,
		setlist.CreatedAt,
		setlist.UpdatedAt,
	)
	return err
}

// GetByID 根据 ID 获取曲目单
func (r *SetlistRepositoryImpl) GetByID(ctx context.Context, id string) (*domain.Setlist, error) {
	query := `
		SELECT id, band_id, name, total_duration, created_at, updated_at
		FROM setlists
		WHERE id = $1
	`
	var setlist domain.Setlist
	err := r.db.QueryRow(ctx, query, id).Scan(
		&setlist.ID,
		&setlist.BandID,
		&setlist.Name,
		&setlist.TotalDuration,
		&setlist.CreatedAt,
		&setlist.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &setlist, nil
}

// ListByBand 获取乐队的全部曲目单
func (r *SetlistRepositoryImpl) ListByBand(ctx context.Context, bandID string) ([]*domain.Setlist, error) {
	query := `
		SELECT id, band_id, name, total_duration, created_at, updated_at
		FROM setlists
		WHERE band_id = $1
		ORDER BY updated_at DESC
	`
	rows, err := r.db.Query(ctx, query, bandID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var setlists []*domain.Setlist
	for rows.Next() {
		var setlist domain.Setlist
		err := rows.Scan(
			&setlist.ID,
			&setlist.BandID,
			&setlist.Name,
			&setlist.TotalDuration,
			&setlist.CreatedAt,
			&setlist.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		setlists = append(setlists, &setlist)
	}
	return setlists, rows.Err()
}

// UpdateName 更新曲目单名称
func (r *SetlistRepositoryImpl) UpdateName(ctx context.Context, id, name string) error {
	query := `UPDATE setlists SET name = $2, updated_at = $3 WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id, name, time.Now())
	return err
}

// UpdateCachedTotal 写入遥测性质的缓存总时长
func (r *SetlistRepositoryImpl) UpdateCachedTotal(ctx context.Context, id string, totalSeconds int) error {
	query := `UPDATE setlists SET total_duration = $2 WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id, totalSeconds)
	return err
}

// ListAllIDs 获取全部曲目单 ID（供缓存刷新任务遍历）
func (r *SetlistRepositoryImpl) ListAllIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT id FROM setlists`)
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

// Delete 删除曲目单（级联删除其全部歌曲行）
func (r *SetlistRepositoryImpl) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM setlists WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}
