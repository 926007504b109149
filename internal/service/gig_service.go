package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/bandhub/server/internal/domain"
	"github.com/bandhub/server/internal/repository"
	"github.com/bandhub/server/pkg/errors"
)

// GigService 演出排期服务
type GigService struct {
	gigRepo     repository.GigRepository
	setlistRepo repository.SetlistRepository
	membership  MembershipAuthority
	broadcaster Broadcaster
}

// NewGigService 创建演出服务
func NewGigService(gigRepo repository.GigRepository, setlistRepo repository.SetlistRepository, membership MembershipAuthority, broadcaster Broadcaster) *GigService {
	return &GigService{gigRepo: gigRepo, setlistRepo: setlistRepo, membership: membership, broadcaster: broadcaster}
}

// CreateGig 创建演出，可选关联一个同乐队的曲目单
func (s *GigService) CreateGig(ctx context.Context, userID string, gig *domain.Gig) (*domain.Gig, error) {
	now := time.Now()
	gig.ID = uuid.New().String()
	gig.CreatedAt = now
	gig.UpdatedAt = now

	if err := gig.Validate(); err != nil {
		return nil, errors.ErrValidation.WithMessage(err.Error())
	}
	if err := s.membership.RequireMembership(ctx, userID, gig.BandID); err != nil {
		return nil, err
	}
	if err := s.checkSetlistLink(ctx, gig.BandID, gig.SetlistID); err != nil {
		return nil, err
	}

	if err := s.gigRepo.Create(ctx, gig); err != nil {
		return nil, errors.ErrException.WithMessage(err.Error()).WithError(err)
	}

	s.emit(gig.BandID, gig)
	return gig, nil
}

// GetGig 获取演出详情
func (s *GigService) GetGig(ctx context.Context, userID, gigID string) (*domain.Gig, error) {
	gig, err := s.gigRepo.GetByID(ctx, gigID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, errors.ErrGigNotFound
		}
		return nil, errors.ErrException.WithMessage(err.Error()).WithError(err)
	}
	if err := s.membership.RequireMembership(ctx, userID, gig.BandID); err != nil {
		return nil, err
	}
	return gig, nil
}

// ListGigs 列出乐队全部演出
func (s *GigService) ListGigs(ctx context.Context, userID, bandID string) ([]*domain.Gig, error) {
	if err := s.membership.RequireMembership(ctx, userID, bandID); err != nil {
		return nil, err
	}
	gigs, err := s.gigRepo.ListByBand(ctx, bandID)
	if err != nil {
		return nil, errors.ErrException.WithMessage(err.Error()).WithError(err)
	}
	return gigs, nil
}

// UpdateGig 更新演出信息
func (s *GigService) UpdateGig(ctx context.Context, userID, gigID string, apply func(*domain.Gig)) (*domain.Gig, error) {
	gig, err := s.GetGig(ctx, userID, gigID)
	if err != nil {
		return nil, err
	}

	apply(gig)
	gig.UpdatedAt = time.Now()

	if err := gig.Validate(); err != nil {
		return nil, errors.ErrValidation.WithMessage(err.Error())
	}
	if err := s.checkSetlistLink(ctx, gig.BandID, gig.SetlistID); err != nil {
		return nil, err
	}

	if err := s.gigRepo.Update(ctx, gig); err != nil {
		return nil, errors.ErrException.WithMessage(err.Error()).WithError(err)
	}

	s.emit(gig.BandID, gig)
	return gig, nil
}

// DeleteGig 删除演出
func (s *GigService) DeleteGig(ctx context.Context, userID, gigID string) error {
	gig, err := s.GetGig(ctx, userID, gigID)
	if err != nil {
		return err
	}

	if err := s.gigRepo.Delete(ctx, gigID); err != nil {
		return errors.ErrException.WithMessage(err.Error()).WithError(err)
	}

	s.emit(gig.BandID, map[string]string{"gig_id": gigID, "deleted": "true"})
	return nil
}

// checkSetlistLink 校验关联曲目单存在且属于同一乐队
func (s *GigService) checkSetlistLink(ctx context.Context, bandID string, setlistID *string) error {
	if setlistID == nil {
		return nil
	}
	setlist, err := s.setlistRepo.GetByID(ctx, *setlistID)
	if err != nil {
		if repository.IsNotFound(err) {
			return errors.ErrSetlistNotFound
		}
		return errors.ErrPrecheckFailed.WithError(err)
	}
	if setlist.BandID != bandID {
		return errors.ErrForbidden.WithMessage("setlist belongs to a different band")
	}
	return nil
}

func (s *GigService) emit(bandID string, payload interface{}) {
	if s.broadcaster == nil {
		return
	}
	s.broadcaster.Broadcast(bandID, domain.NewEvent(domain.EventGigChanged, bandID, payload))
}
