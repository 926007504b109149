package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bandhub/server/internal/domain"
)

// RehearsalRepositoryImpl 排练仓储实现
type RehearsalRepositoryImpl struct {
	db *pgxpool.Pool
}

// NewRehearsalRepository 创建排练仓储
func NewRehearsalRepository(db *pgxpool.Pool) RehearsalRepository {
	return &RehearsalRepositoryImpl{db: db}
}

// Create 创建排练
func (r *RehearsalRepositoryImpl) Create(ctx context.Context, rehearsal *domain.Rehearsal) error {
	query := `
		INSERT INTO rehearsals (id, band_id, location, starts_at, ends_at, setlist_id, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	var endsAt *time.Time
	if !rehearsal.EndsAt.IsZero() {
		endsAt = &rehearsal.EndsAt
	}
	_, err := r.db.Exec(ctx, query,
		rehearsal.ID,
		rehearsal.BandID,
		rehearsal.Location,
		rehearsal.StartsAt,
		endsAt,
		rehearsal.SetlistID,
		rehearsal.Notes,
		rehearsal.CreatedAt,
		rehearsal.UpdatedAt,
	)
	return err
}

// GetByID 根据 ID 获取排练
func (r *RehearsalRepositoryImpl) GetByID(ctx context.Context, id string) (*domain.Rehearsal, error) {
	query := `
		SELECT id, band_id, location, starts_at, ends_at, setlist_id, notes, created_at, updated_at
		FROM rehearsals
		WHERE id = $1
	`
	var rehearsal domain.Rehearsal
	var endsAt *time.Time
	err := r.db.QueryRow(ctx, query, id).Scan(
		&rehearsal.ID,
		&rehearsal.BandID,
		&rehearsal.Location,
		&rehearsal.StartsAt,
		&endsAt,
		&rehearsal.SetlistID,
		&rehearsal.Notes,
		&rehearsal.CreatedAt,
		&rehearsal.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if endsAt != nil {
		rehearsal.EndsAt = *endsAt
	}
	return &rehearsal, nil
}

// ListByBand 获取乐队的全部排练，按开始时间升序
func (r *RehearsalRepositoryImpl) ListByBand(ctx context.Context, bandID string) ([]*domain.Rehearsal, error) {
	query := `
		SELECT id, band_id, location, starts_at, ends_at, setlist_id, notes, created_at, updated_at
		FROM rehearsals
		WHERE band_id = $1
		ORDER BY starts_at ASC
	`
	rows, err := r.db.Query(ctx, query, bandID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rehearsals []*domain.Rehearsal
	for rows.Next() {
		var rehearsal domain.Rehearsal
		var endsAt *time.Time
		err := rows.Scan(
			&rehearsal.ID,
			&rehearsal.BandID,
			&rehearsal.Location,
			&rehearsal.StartsAt,
			&endsAt,
			&rehearsal.SetlistID,
			&rehearsal.Notes,
			&rehearsal.CreatedAt,
			&rehearsal.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		if endsAt != nil {
			rehearsal.EndsAt = *endsAt
		}
		rehearsals = append(rehearsals, &rehearsal)
	}
	return rehearsals, rows.Err()
}

// Update 更新排练
func (r *RehearsalRepositoryImpl) Update(ctx context.Context, rehearsal *domain.Rehearsal) error {
	query := `
		UPDATE rehearsals
		SET location = $2, starts_at = $3, ends_at = $4, setlist_id = $5, notes = $6, updated_at = $7
		WHERE id = $1
	`
	var endsAt *time.Time
	if !rehearsal.EndsAt.IsZero() {
		endsAt = &rehearsal.EndsAt
	}
	_, err := r.db.Exec(ctx, query,
		rehearsal.ID,
		rehearsal.Location,
		rehearsal.StartsAt,
		endsAt,
		rehearsal.SetlistID,
		rehearsal.Notes,
		time.Now(),
	)
	return err
}

// Delete 删除排练
func (r *RehearsalRepositoryImpl) Delete(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM rehearsals WHERE id = $1`, id)
	return err
}
