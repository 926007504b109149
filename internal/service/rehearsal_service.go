package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/bandhub/server/internal/domain"
	"github.com/bandhub/server/internal/repository"
	"github.com/bandhub/server/pkg/errors"
)

// RehearsalService 排练排期服务
type RehearsalService struct {
	rehearsalRepo repository.RehearsalRepository
	setlistRepo   repository.SetlistRepository
	membership    MembershipAuthority
	broadcaster   Broadcaster
}

// NewRehearsalService 创建排练服务
func NewRehearsalService(rehearsalRepo repository.RehearsalRepository, setlistRepo repository.SetlistRepository, membership MembershipAuthority, broadcaster Broadcaster) *RehearsalService {
	return &RehearsalService{rehearsalRepo: rehearsalRepo, setlistRepo: setlistRepo, membership: membership, broadcaster: broadcaster}
}

// CreateRehearsal 创建排练
func (s *RehearsalService) CreateRehearsal(ctx context.Context, userID string, rehearsal *domain.Rehearsal) (*domain.Rehearsal, error) {
	now := time.Now()
	rehearsal.ID = uuid.New().String()
	rehearsal.CreatedAt = now
	rehearsal.UpdatedAt = now

	if err := rehearsal.Validate(); err != nil {
		return nil, errors.ErrValidation.WithMessage(err.Error())
	}
	if err := s.membership.RequireMembership(ctx, userID, rehearsal.BandID); err != nil {
		return nil, err
	}
	if err := s.checkSetlistLink(ctx, rehearsal.BandID, rehearsal.SetlistID); err != nil {
		return nil, err
	}

	if err := s.rehearsalRepo.Create(ctx, rehearsal); err != nil {
		return nil, errors.ErrException.WithMessage(err.Error()).WithError(err)
	}

	s.emit(rehearsal.BandID, rehearsal)
	return rehearsal, nil
}

// GetRehearsal 获取排练详情
func (s *RehearsalService) GetRehearsal(ctx context.Context, userID, rehearsalID string) (*domain.Rehearsal, error) {
	rehearsal, err := s.rehearsalRepo.GetByID(ctx, rehearsalID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, errors.ErrRehearsalNotFound
		}
		return nil, errors.ErrException.WithMessage(err.Error()).WithError(err)
	}
	if err := s.membership.RequireMembership(ctx, userID, rehearsal.BandID); err != nil {
		return nil, err
	}
	return rehearsal, nil
}

// ListRehearsals 列出乐队全部排练
func (s *RehearsalService) ListRehearsals(ctx context.Context, userID, bandID string) ([]*domain.Rehearsal, error) {
	if err := s.membership.RequireMembership(ctx, userID, bandID); err != nil {
		return nil, err
	}
	rehearsals, err := s.rehearsalRepo.ListByBand(ctx, bandID)
	if err != nil {
		return nil, errors.ErrException.WithMessage(err.Error()).WithError(err)
	}
	return rehearsals, nil
}

// UpdateRehearsal 更新排练信息
func (s *RehearsalService) UpdateRehearsal(ctx context.Context, userID, rehearsalID string, apply func(*domain.Rehearsal)) (*domain.Rehearsal, error) {
	rehearsal, err := s.GetRehearsal(ctx, userID, rehearsalID)
	if err != nil {
		return nil, err
	}

	apply(rehearsal)
	rehearsal.UpdatedAt = time.Now()

	if err := rehearsal.Validate(); err != nil {
		return nil, errors.ErrValidation.WithMessage(err.Error())
	}
	if err := s.checkSetlistLink(ctx, rehearsal.BandID, rehearsal.SetlistID); err != nil {
		return nil, err
	}

	if err := s.rehearsalRepo.Update(ctx, rehearsal); err != nil {
		return nil, errors.ErrException.WithMessage(err.Error()).WithError(err)
	}

	s.emit(rehearsal.BandID, rehearsal)
	return rehearsal, nil
}

// DeleteRehearsal 删除排练
func (s *RehearsalService) DeleteRehearsal(ctx context.Context, userID, rehearsalID string) error {
	rehearsal, err := s.GetRehearsal(ctx, userID, rehearsalID)
	if err != nil {
		return err
	}

	if err := s.rehearsalRepo.Delete(ctx, rehearsalID); err != nil {
		return errors.ErrException.WithMessage(err.Error()).WithError(err)
	}

	s.emit(rehearsal.BandID, map[string]string{"rehearsal_id": rehearsalID, "deleted": "true"})
	return nil
}

func (s *RehearsalService) checkSetlistLink(ctx context.Context, bandID string, setlistID *string) error {
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

func (s *RehearsalService) emit(bandID string, payload interface{}) {
	if s.broadcaster == nil {
		return
	}
	s.broadcaster.Broadcast(bandID, domain.NewEvent(domain.EventRehearsalChanged, bandID, payload))
}
