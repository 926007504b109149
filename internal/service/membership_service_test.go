package service

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/bandhub/server/internal/domain"
	apperrors "github.com/bandhub/server/pkg/errors"
)

// MockBandRepository 乐队仓储Mock
type MockBandRepository struct {
	mock.Mock
}

func (m *MockBandRepository) Create(ctx context.Context, band *domain.Band) error {
	args := m.Called(ctx, band)
	return args.Error(0)
}

func (m *MockBandRepository) GetByID(ctx context.Context, id string) (*domain.Band, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Band), args.Error(1)
}

func (m *MockBandRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Band, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Band), args.Error(1)
}

func (m *MockBandRepository) AddMember(ctx context.Context, member *domain.BandMember) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

func (m *MockBandRepository) ListMembers(ctx context.Context, bandID string) ([]*domain.BandMember, error) {
	args := m.Called(ctx, bandID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.BandMember), args.Error(1)
}

func (m *MockBandRepository) GetMember(ctx context.Context, bandID, userID string) (*domain.BandMember, error) {
	args := m.Called(ctx, bandID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BandMember), args.Error(1)
}

// TestRequireMembership_Member 成员通过
func TestRequireMembership_Member(t *testing.T) {
	repo := new(MockBandRepository)
	svc := NewMembershipService(repo)
	ctx := context.Background()

	repo.On("GetMember", ctx, "band1", "user1").
		Return(&domain.BandMember{BandID: "band1", UserID: "user1", Role: domain.RoleMember}, nil)

	assert.NoError(t, svc.RequireMembership(ctx, "user1", "band1"))
}

// TestRequireMembership_NotMember 非成员拒绝
func TestRequireMembership_NotMember(t *testing.T) {
	repo := new(MockBandRepository)
	svc := NewMembershipService(repo)
	ctx := context.Background()

	repo.On("GetMember", ctx, "band1", "user1").Return(nil, pgx.ErrNoRows)

	err := svc.RequireMembership(ctx, "user1", "band1")
	assert.Equal(t, apperrors.ErrNotBandMember, err)
}

// TestRequireMembership_ReadFailure 成员关系读取失败按预检失败上报
func TestRequireMembership_ReadFailure(t *testing.T) {
	repo := new(MockBandRepository)
	svc := NewMembershipService(repo)
	ctx := context.Background()

	repo.On("GetMember", ctx, "band1", "user1").Return(nil, errors.New("timeout"))

	err := svc.RequireMembership(ctx, "user1", "band1")
	appErr, ok := err.(*apperrors.Error)
	assert.True(t, ok)
	assert.Equal(t, apperrors.ErrCodePrecheckFailed, appErr.Code)
	assert.True(t, appErr.IsRLSIssue)
}

// TestRequireRole 角色校验
func TestRequireRole(t *testing.T) {
	repo := new(MockBandRepository)
	svc := NewMembershipService(repo)
	ctx := context.Background()

	repo.On("GetMember", ctx, "band1", "user1").
		Return(&domain.BandMember{BandID: "band1", UserID: "user1", Role: domain.RoleMember}, nil)

	assert.NoError(t, svc.RequireRole(ctx, "user1", "band1", domain.RoleMember))

	err := svc.RequireRole(ctx, "user1", "band1", domain.RoleOwner, domain.RoleAdmin)
	appErr, ok := err.(*apperrors.Error)
	assert.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeForbidden, appErr.Code)
}

// TestRequireMembership_MissingIDs 空入参直接拒绝
func TestRequireMembership_MissingIDs(t *testing.T) {
	svc := NewMembershipService(new(MockBandRepository))

	assert.Error(t, svc.RequireMembership(context.Background(), "", "band1"))
	assert.Error(t, svc.RequireMembership(context.Background(), "user1", ""))
}
