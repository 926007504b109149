package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bandhub/server/internal/domain"
)

// GigRepositoryImpl 演出仓储实现
type GigRepositoryImpl struct {
	db *pgxpool.Pool
}

// NewGigRepository 创建演出仓储
func NewGigRepository(db *pgxpool.Pool) GigRepository {
	return &GigRepositoryImpl{db: db}
}

// Create 创建演出
func (r *GigRepositoryImpl) Create(ctx context.Context, gig *domain.Gig) error {
	query := `
		INSERT INTO gigs (id, band_id, name, venue, starts_at, setlist_id, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.Exec(ctx, query,
		gig.ID,
		gig.BandID,
		gig.Name,
		gig.Venue,
		gig.StartsAt,
		gig.SetlistID,
		gig.Notes,
		gig.CreatedAt,
		gig.UpdatedAt,
	)
	return err
}

// GetByID 根据 ID 获取演出
func (r *GigRepositoryImpl) GetByID(ctx context.Context, id string) (*domain.Gig, error) {
	query := `
		SELECT id, band_id, name, venue, starts_at, setlist_id, notes, created_at, updated_at
		FROM gigs
		WHERE id = $1
	`
	var gig domain.Gig
	err := r.db.QueryRow(ctx, query, id).Scan(
		&gig.ID,
		&gig.BandID,
		&gig.Name,
		&gig.Venue,
		&gig.StartsAt,
		&gig.SetlistID,
		&gig.Notes,
		&gig.CreatedAt,
		&gig.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &gig, nil
}

// ListByBand 获取乐队的全部演出，按开始时间升序
func (r *GigRepositoryImpl) ListByBand(ctx context.Context, bandID string) ([]*domain.Gig, error) {
	query := `
		SELECT id, band_id, name, venue, starts_at, setlist_id, notes, created_at, updated_at
		FROM gigs
		WHERE band_id = $1
		ORDER BY starts_at ASC
	`
	rows, err := r.db.Query(ctx, query, bandID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var gigs []*domain.Gig
	for rows.Next() {
		var gig domain.Gig
		err := rows.Scan(
			&gig.ID,
			&gig.BandID,
			&gig.Name,
			&gig.Venue,
			&gig.StartsAt,
			&gig.SetlistID,
			&gig.Notes,
			&gig.CreatedAt,
			&gig.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		gigs = append(gigs, &gig)
	}
	return gigs, rows.Err()
}

// Update 更新演出
func (r *GigRepositoryImpl) Update(ctx context.Context, gig *domain.Gig) error {
	query := `
		UPDATE gigs
		SET name = $2, venue = $3, starts_at = $4, setlist_id = $5, notes = $6, updated_at = $7
		WHERE id = $1
	`
	_, err := r.db.Exec(ctx, query,
		gig.ID,
		gig.Name,
		gig.Venue,
		gig.StartsAt,
		gig.SetlistID,
		gig.Notes,
		time.Now(),
	)
	return err
}

// Delete 删除演出
func (r *GigRepositoryImpl) Delete(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM gigs WHERE id = $1`, id)
	return err
}
