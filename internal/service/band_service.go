package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/bandhub/server/internal/domain"
	"github.com/bandhub/server/internal/repository"
	"github.com/bandhub/server/pkg/errors"
	"github.com/bandhub/server/pkg/logger"
)

// BandService 乐队与成员管理服务
type BandService struct {
	bandRepo   repository.BandRepository
	membership MembershipAuthority
	log        logger.Logger
}

// NewBandService 创建乐队服务
func NewBandService(bandRepo repository.BandRepository, membership MembershipAuthority, log logger.Logger) *BandService {
	if log == nil {
		log = logger.Default()
	}
	return &BandService{bandRepo: bandRepo, membership: membership, log: log}
}

// CreateBand 创建乐队，创建者自动成为 owner
func (s *BandService) CreateBand(ctx context.Context, userID, name string) (*domain.Band, error) {
	now := time.Now()
	band := &domain.Band{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedBy: userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := band.Validate(); err != nil {
		return nil, errors.ErrValidation.WithMessage(err.Error())
	}

	if err := s.bandRepo.Create(ctx, band); err != nil {
		return nil, errors.ErrException.WithMessage(err.Error()).WithError(err)
	}

	member := &domain.BandMember{
		BandID:   band.ID,
		UserID:   userID,
		Role:     domain.RoleOwner,
		JoinedAt: now,
	}
	if err := s.bandRepo.AddMember(ctx, member); err != nil {
		s.log.Error("failed to add owner membership for new band",
			logger.String("band_id", band.ID),
			logger.Error(err))
		return nil, errors.ErrException.WithMessage(err.Error()).WithError(err)
	}

	return band, nil
}

// GetBand 获取乐队详情（要求调用方为成员）
func (s *BandService) GetBand(ctx context.Context, userID, bandID string) (*domain.Band, error) {
	if err := s.membership.RequireMembership(ctx, userID, bandID); err != nil {
		return nil, err
	}
	band, err := s.bandRepo.GetByID(ctx, bandID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, errors.ErrBandNotFound
		}
		return nil, errors.ErrException.WithMessage(err.Error()).WithError(err)
	}
	return band, nil
}

// ListBands 列出调用方所属的全部乐队
func (s *BandService) ListBands(ctx context.Context, userID string) ([]*domain.Band, error) {
	bands, err := s.bandRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, errors.ErrException.WithMessage(err.Error()).WithError(err)
	}
	return bands, nil
}

// AddMember 添加成员（仅 owner/admin 可操作）
func (s *BandService) AddMember(ctx context.Context, callerID, bandID, userID, role string) (*domain.BandMember, error) {
	if err := s.membership.RequireRole(ctx, callerID, bandID, domain.RoleOwner, domain.RoleAdmin); err != nil {
		return nil, err
	}

	member := &domain.BandMember{
		BandID:   bandID,
		UserID:   userID,
		Role:     role,
		JoinedAt: time.Now(),
	}
	if err := member.Validate(); err != nil {
		return nil, errors.ErrValidation.WithMessage(err.Error())
	}

	if err := s.bandRepo.AddMember(ctx, member); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, errors.ErrConflict.WithMessage("user is already a member of this band")
		}
		return nil, errors.ErrException.WithMessage(err.Error()).WithError(err)
	}
	return member, nil
}

// ListMembers 列出乐队成员（要求调用方为成员）
func (s *BandService) ListMembers(ctx context.Context, userID, bandID string) ([]*domain.BandMember, error) {
	if err := s.membership.RequireMembership(ctx, userID, bandID); err != nil {
		return nil, err
	}
	members, err := s.bandRepo.ListMembers(ctx, bandID)
	if err != nil {
		return nil, errors.ErrException.WithMessage(err.Error()).WithError(err)
	}
	return members, nil
}
