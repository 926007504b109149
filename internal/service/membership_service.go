package service

import (
	"context"

	"github.com/bandhub/server/internal/domain"
	"github.com/bandhub/server/internal/repository"
	"github.com/bandhub/server/pkg/errors"
)

// MembershipAuthority 乐队成员资格校验接口
// 每个变更操作在触碰存储前都必须通过它验证调用方身份
type MembershipAuthority interface {
	RequireMembership(ctx context.Context, userID, bandID string) error
	RequireRole(ctx context.Context, userID, bandID string, roles ...string) error
}

// MembershipService 成员资格服务
type MembershipService struct {
	bandRepo repository.BandRepository
}

// NewMembershipService 创建成员资格服务
func NewMembershipService(bandRepo repository.BandRepository) *MembershipService {
	return &MembershipService{bandRepo: bandRepo}
}

// RequireMembership 要求调用方是指定乐队的成员
// 成员关系读取本身失败时按预检失败上报（多为 RLS 配置问题）
func (s *MembershipService) RequireMembership(ctx context.Context, userID, bandID string) error {
	if userID == "" || bandID == "" {
		return errors.ErrValidation.WithMessage("user id and band id are required")
	}

	_, err := s.bandRepo.GetMember(ctx, bandID, userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return errors.ErrNotBandMember
		}
		return errors.ErrPrecheckFailed.WithError(err)
	}
	return nil
}

// RequireRole 要求调用方在乐队中持有指定角色之一
func (s *MembershipService) RequireRole(ctx context.Context, userID, bandID string, roles ...string) error {
	if userID == "" || bandID == "" {
		return errors.ErrValidation.WithMessage("user id and band id are required")
	}

	member, err := s.bandRepo.GetMember(ctx, bandID, userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return errors.ErrNotBandMember
		}
		return errors.ErrPrecheckFailed.WithError(err)
	}

	for _, role := range roles {
		if member.Role == role {
			return nil
		}
	}
	return errors.ErrForbidden.WithMessage("insufficient role for this operation")
}

// MemberOf 返回成员关系，仅作查询不作校验
func (s *MembershipService) MemberOf(ctx context.Context, userID, bandID string) (*domain.BandMember, error) {
	member, err := s.bandRepo.GetMember(ctx, bandID, userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, errors.ErrNotBandMember
		}
		return nil, errors.ErrPrecheckFailed.WithError(err)
	}
	return member, nil
}
