package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bandhub/server/internal/domain"
)

// BandRepositoryImpl 乐队仓储实现
type BandRepositoryImpl struct {
	db *pgxpool.Pool
}

// NewBandRepository 创建乐队仓储
func NewBandRepository(db *pgxpool.Pool) BandRepository {
	return &BandRepositoryImpl{db: db}
}

// Create 创建乐队
func (r *BandRepositoryImpl) Create(ctx context.Context, band *domain.Band) error {
	query := `
		INSERT INTO bands (id, name, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.Exec(ctx, query,
		band.ID,
		band.Name,
		band.CreatedBy,
		band.CreatedAt,
		band.UpdatedAt,
	)
	return err
}

// GetByID 根据 ID 获取乐队
func (r *BandRepositoryImpl) GetByID(ctx context.Context, id string) (*domain.Band, error) {
	query := `SELECT id, name, created_by, created_at, updated_at FROM bands WHERE id = $1`
	var band domain.Band
	err := r.db.QueryRow(ctx, query, id).Scan(
		&band.ID,
		&band.Name,
		&band.CreatedBy,
		&band.CreatedAt,
		&band.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &band, nil
}

// ListByUser 获取用户所属的全部乐队
func (r *BandRepositoryImpl) ListByUser(ctx context.Context, userID string) ([]*domain.Band, error) {
	query := `
		SELECT b.id, b.name, b.created_by, b.created_at, b.updated_at
		FROM bands b
		JOIN band_members m ON m.band_id = b.id
		WHERE m.user_id = $1
		ORDER BY b.created_at ASC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bands []*domain.Band
	for rows.Next() {
		var band domain.Band
		err := rows.Scan(
			&band.ID,
			&band.Name,
			&band.CreatedBy,
			&band.CreatedAt,
			&band.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		bands = append(bands, &band)
	}
	return bands, rows.Err()
}

// AddMember 添加乐队成员
func (r *BandRepositoryImpl) AddMember(ctx context.Context, member *domain.BandMember) error {
	query := `
		INSERT INTO band_members (band_id, user_id, role, joined_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.db.Exec(ctx, query,
		member.BandID,
		member.UserID,
		member.Role,
		member.JoinedAt,
	)
	return err
}

// ListMembers 获取乐队的全部成员
func (r *BandRepositoryImpl) ListMembers(ctx context.Context, bandID string) ([]*domain.BandMember, error) {
	query := `
		SELECT band_id, user_id, role, joined_at
		FROM band_members
		WHERE band_id = $1
		ORDER BY joined_at ASC
	`
	rows, err := r.db.Query(ctx, query, bandID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []*domain.BandMember
	for rows.Next() {
		var member domain.BandMember
		err := rows.Scan(
			&member.BandID,
			&member.UserID,
			&member.Role,
			&member.JoinedAt,
		)
		if err != nil {
			return nil, err
		}
		members = append(members, &member)
	}
	return members, rows.Err()
}

// GetMember 获取指定成员关系
func (r *BandRepositoryImpl) GetMember(ctx context.Context, bandID, userID string) (*domain.BandMember, error) {
	query := `
		SELECT band_id, user_id, role, joined_at
		FROM band_members
		WHERE band_id = $1 AND user_id = $2
	`
	var member domain.BandMember
	err := r.db.QueryRow(ctx, query, bandID, userID).Scan(
		&member.BandID,
		&member.UserID,
		&member.Role,
		&member.JoinedAt,
	)
	if err != nil {
		return nil, err
	}
	return &member, nil
}
