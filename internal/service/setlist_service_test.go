package service

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/bandhub/server/internal/domain"
	"github.com/bandhub/server/internal/repository"
	apperrors "github.com/bandhub/server/pkg/errors"
	"github.com/bandhub/server/pkg/logger"
)

// MockSetlistRepository 曲目单仓储Mock
type MockSetlistRepository struct {
	mock.Mock
}

func (m *MockSetlistRepository) Create(ctx context.Context, setlist *domain.Setlist) error {
	args := m.Called(ctx, setlist)
	return args.Error(0)
}

func (m *MockSetlistRepository) GetByID(ctx context.Context, id string) (*domain.Setlist, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Setlist), args.Error(1)
}

func (m *MockSetlistRepository) ListByBand(ctx context.Context, bandID string) ([]*domain.Setlist, error) {
	args := m.Called(ctx, bandID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Setlist), args.Error(1)
}

func (m *MockSetlistRepository) UpdateName(ctx context.Context, id, name string) error {
	args := m.Called(ctx, id, name)
	return args.Error(0)
}

func (m *MockSetlistRepository) UpdateCachedTotal(ctx context.Context, id string, totalSeconds int) error {
	args := m.Called(ctx, id, totalSeconds)
	return args.Error(0)
}

func (m *MockSetlistRepository) ListAllIDs(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockSetlistRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockSetlistSongRepository 曲目单歌曲仓储Mock
type MockSetlistSongRepository struct {
	mock.Mock
}

func (m *MockSetlistSongRepository) Insert(ctx context.Context, ss *domain.SetlistSong) error {
	args := m.Called(ctx, ss)
	return args.Error(0)
}

func (m *MockSetlistSongRepository) GetByID(ctx context.Context, id string) (*domain.SetlistSong, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SetlistSong), args.Error(1)
}

func (m *MockSetlistSongRepository) GetWithBand(ctx context.Context, id string) (*repository.SetlistSongWithBand, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.SetlistSongWithBand), args.Error(1)
}

func (m *MockSetlistSongRepository) ListRows(ctx context.Context, setlistID string) ([]domain.SetlistSongRow, error) {
	args := m.Called(ctx, setlistID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SetlistSongRow), args.Error(1)
}

func (m *MockSetlistSongRepository) ListIDs(ctx context.Context, setlistID string) ([]string, error) {
	args := m.Called(ctx, setlistID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockSetlistSongRepository) MaxPosition(ctx context.Context, setlistID string) (int, error) {
	args := m.Called(ctx, setlistID)
	return args.Int(0), args.Error(1)
}

func (m *MockSetlistSongRepository) ExistsSong(ctx context.Context, setlistID, songID string) (bool, error) {
	args := m.Called(ctx, setlistID, songID)
	return args.Bool(0), args.Error(1)
}

func (m *MockSetlistSongRepository) DeleteAndShift(ctx context.Context, setlistID, id string) error {
	args := m.Called(ctx, setlistID, id)
	return args.Error(0)
}

func (m *MockSetlistSongRepository) BulkDeleteAndCompact(ctx context.Context, setlistID string, ids []string) error {
	args := m.Called(ctx, setlistID, ids)
	return args.Error(0)
}

func (m *MockSetlistSongRepository) Reorder(ctx context.Context, setlistID string, orderedIDs []string) error {
	args := m.Called(ctx, setlistID, orderedIDs)
	return args.Error(0)
}

func (m *MockSetlistSongRepository) CloneAll(ctx context.Context, srcSetlistID, dstSetlistID string) error {
	args := m.Called(ctx, srcSetlistID, dstSetlistID)
	return args.Error(0)
}

// MockSongRepository 歌曲目录仓储Mock
type MockSongRepository struct {
	mock.Mock
}

func (m *MockSongRepository) Create(ctx context.Context, song *domain.Song) error {
	args := m.Called(ctx, song)
	return args.Error(0)
}

func (m *MockSongRepository) GetByID(ctx context.Context, id string) (*domain.Song, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Song), args.Error(1)
}

func (m *MockSongRepository) List(ctx context.Context, limit, offset int) ([]*domain.Song, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Song), args.Error(1)
}

func (m *MockSongRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockMembership 成员资格校验Mock
type MockMembership struct {
	mock.Mock
}

func (m *MockMembership) RequireMembership(ctx context.Context, userID, bandID string) error {
	args := m.Called(ctx, userID, bandID)
	return args.Error(0)
}

func (m *MockMembership) RequireRole(ctx context.Context, userID, bandID string, roles ...string) error {
	args := m.Called(ctx, userID, bandID, roles)
	return args.Error(0)
}

// MockBroadcaster 广播Mock
type MockBroadcaster struct {
	mock.Mock
}

func (m *MockBroadcaster) Broadcast(bandID string, event *domain.Event) {
	m.Called(bandID, event)
}

type setlistFixture struct {
	setlistRepo *MockSetlistRepository
	songRepo    *MockSongRepository
	ssRepo      *MockSetlistSongRepository
	membership  *MockMembership
	broadcaster *MockBroadcaster
	svc         *SetlistService
}

func newSetlistFixture() *setlistFixture {
	f := &setlistFixture{
		setlistRepo: new(MockSetlistRepository),
		songRepo:    new(MockSongRepository),
		ssRepo:      new(MockSetlistSongRepository),
		membership:  new(MockMembership),
		broadcaster: new(MockBroadcaster),
	}
	f.svc = NewSetlistService(f.setlistRepo, f.ssRepo, f.songRepo, f.membership, f.broadcaster, nil)
	return f
}

func appCode(t *testing.T, err error) *apperrors.Error {
	t.Helper()
	appErr, ok := err.(*apperrors.Error)
	assert.True(t, ok, "expected *errors.Error, got %T: %v", err, err)
	return appErr
}

// TestDeleteSetlistSong_Success 正常删除并广播
func TestDeleteSetlistSong_Success(t *testing.T) {
	f := newSetlistFixture()
	ctx := context.Background()

	f.setlistRepo.On("GetByID", ctx, "sl1").Return(&domain.Setlist{ID: "sl1", BandID: "band1"}, nil)
	f.membership.On("RequireMembership", ctx, "user1", "band1").Return(nil)
	f.ssRepo.On("GetByID", ctx, "row1").Return(&domain.SetlistSong{ID: "row1", SetlistID: "sl1"}, nil)
	f.ssRepo.On("DeleteAndShift", ctx, "sl1", "row1").Return(nil)
	f.broadcaster.On("Broadcast", "band1", mock.Anything).Return()

	err := f.svc.DeleteSetlistSong(ctx, "user1", "row1", "sl1")

	assert.NoError(t, err)
	f.ssRepo.AssertExpectations(t)
	f.broadcaster.AssertExpectations(t)
}

// TestDeleteSetlistSong_NotFound 行不存在返回 NOT_FOUND
func TestDeleteSetlistSong_NotFound(t *testing.T) {
	f := newSetlistFixture()
	ctx := context.Background()

	f.setlistRepo.On("GetByID", ctx, "sl1").Return(&domain.Setlist{ID: "sl1", BandID: "band1"}, nil)
	f.membership.On("RequireMembership", ctx, "user1", "band1").Return(nil)
	f.ssRepo.On("GetByID", ctx, "missing").Return(nil, pgx.ErrNoRows)

	err := f.svc.DeleteSetlistSong(ctx, "user1", "missing", "sl1")

	appErr := appCode(t, err)
	assert.Equal(t, apperrors.ErrCodeNotFound, appErr.Code)
	assert.Equal(t, 404, appErr.HTTPStatus)
	f.ssRepo.AssertNotCalled(t, "DeleteAndShift", mock.Anything, mock.Anything, mock.Anything)
}

// TestDeleteSetlistSong_Mismatch 行属于其他曲目单时拒绝（越权删除企图）
func TestDeleteSetlistSong_Mismatch(t *testing.T) {
	f := newSetlistFixture()
	ctx := context.Background()

	f.setlistRepo.On("GetByID", ctx, "sl1").Return(&domain.Setlist{ID: "sl1", BandID: "band1"}, nil)
	f.membership.On("RequireMembership", ctx, "user1", "band1").Return(nil)
	f.ssRepo.On("GetByID", ctx, "row1").Return(&domain.SetlistSong{ID: "row1", SetlistID: "other"}, nil)

	err := f.svc.DeleteSetlistSong(ctx, "user1", "row1", "sl1")

	appErr := appCode(t, err)
	assert.Equal(t, apperrors.ErrCodeSetlistMismatch, appErr.Code)
	assert.Equal(t, 403, appErr.HTTPStatus)
	f.ssRepo.AssertNotCalled(t, "DeleteAndShift", mock.Anything, mock.Anything, mock.Anything)
}

// TestDeleteSetlistSong_PrecheckFailed 归属校验读取失败按预检失败上报并标记 RLS
func TestDeleteSetlistSong_PrecheckFailed(t *testing.T) {
	f := newSetlistFixture()
	ctx := context.Background()

	f.setlistRepo.On("GetByID", ctx, "sl1").Return(&domain.Setlist{ID: "sl1", BandID: "band1"}, nil)
	f.membership.On("RequireMembership", ctx, "user1", "band1").Return(nil)
	f.ssRepo.On("GetByID", ctx, "row1").Return(nil, errors.New("connection reset"))

	err := f.svc.DeleteSetlistSong(ctx, "user1", "row1", "sl1")

	appErr := appCode(t, err)
	assert.Equal(t, apperrors.ErrCodePrecheckFailed, appErr.Code)
	assert.True(t, appErr.IsRLSIssue)
}

// TestDeleteSetlistSong_PermissionDenied 存储层权限拒绝：原始错误码原样上报并标记 RLS
func TestDeleteSetlistSong_PermissionDenied(t *testing.T) {
	f := newSetlistFixture()
	ctx := context.Background()

	f.setlistRepo.On("GetByID", ctx, "sl1").Return(&domain.Setlist{ID: "sl1", BandID: "band1"}, nil)
	f.membership.On("RequireMembership", ctx, "user1", "band1").Return(nil)
	f.ssRepo.On("GetByID", ctx, "row1").Return(&domain.SetlistSong{ID: "row1", SetlistID: "sl1"}, nil)
	f.ssRepo.On("DeleteAndShift", ctx, "sl1", "row1").Return(&pgconn.PgError{Code: "42501", Message: "permission denied"})

	err := f.svc.DeleteSetlistSong(ctx, "user1", "row1", "sl1")

	appErr := appCode(t, err)
	assert.Equal(t, "42501", appErr.Code)
	assert.Equal(t, 403, appErr.HTTPStatus)
	assert.True(t, appErr.IsRLSIssue)
}

// TestDeleteSetlistSong_UnexpectedError 未预期异常：消息原样透传，错误码 EXCEPTION
func TestDeleteSetlistSong_UnexpectedError(t *testing.T) {
	f := newSetlistFixture()
	ctx := context.Background()

	f.setlistRepo.On("GetByID", ctx, "sl1").Return(&domain.Setlist{ID: "sl1", BandID: "band1"}, nil)
	f.membership.On("RequireMembership", ctx, "user1", "band1").Return(nil)
	f.ssRepo.On("GetByID", ctx, "row1").Return(&domain.SetlistSong{ID: "row1", SetlistID: "sl1"}, nil)
	f.ssRepo.On("DeleteAndShift", ctx, "sl1", "row1").Return(errors.New("deadlock detected"))

	err := f.svc.DeleteSetlistSong(ctx, "user1", "row1", "sl1")

	appErr := appCode(t, err)
	assert.Equal(t, apperrors.ErrCodeException, appErr.Code)
	assert.Contains(t, appErr.Message, "deadlock detected")
}

// TestDeleteSetlistSong_NotMember 非成员拒绝
func TestDeleteSetlistSong_NotMember(t *testing.T) {
	f := newSetlistFixture()
	ctx := context.Background()

	f.setlistRepo.On("GetByID", ctx, "sl1").Return(&domain.Setlist{ID: "sl1", BandID: "band1"}, nil)
	f.membership.On("RequireMembership", ctx, "user1", "band1").Return(apperrors.ErrNotBandMember)

	err := f.svc.DeleteSetlistSong(ctx, "user1", "row1", "sl1")

	assert.Equal(t, apperrors.ErrNotBandMember, err)
	f.ssRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

// TestBulkDeleteSongs_RejectsWholeBatch 任一 id 外来则整批拒绝
func TestBulkDeleteSongs_RejectsWholeBatch(t *testing.T) {
	f := newSetlistFixture()
	ctx := context.Background()

	f.setlistRepo.On("GetByID", ctx, "sl1").Return(&domain.Setlist{ID: "sl1", BandID: "band1"}, nil)
	f.membership.On("RequireMembership", ctx, "user1", "band1").Return(nil)
	f.ssRepo.On("ListIDs", ctx, "sl1").Return([]string{"a", "b", "c"}, nil)

	err := f.svc.BulkDeleteSongs(ctx, "user1", "sl1", []string{"a", "foreign"})

	appErr := appCode(t, err)
	assert.Equal(t, apperrors.ErrCodeSetlistMismatch, appErr.Code)
	f.ssRepo.AssertNotCalled(t, "BulkDeleteAndCompact", mock.Anything, mock.Anything, mock.Anything)
}

// TestBulkDeleteSongs_EmptyBatch 空批次返回校验错误
func TestBulkDeleteSongs_EmptyBatch(t *testing.T) {
	f := newSetlistFixture()

	err := f.svc.BulkDeleteSongs(context.Background(), "user1", "sl1", nil)

	appErr := appCode(t, err)
	assert.Equal(t, apperrors.ErrCodeValidation, appErr.Code)
}

// TestBulkDeleteSongs_Success 整批删除并压实
func TestBulkDeleteSongs_Success(t *testing.T) {
	f := newSetlistFixture()
	ctx := context.Background()

	f.setlistRepo.On("GetByID", ctx, "sl1").Return(&domain.Setlist{ID: "sl1", BandID: "band1"}, nil)
	f.membership.On("RequireMembership", ctx, "user1", "band1").Return(nil)
	f.ssRepo.On("ListIDs", ctx, "sl1").Return([]string{"a", "b", "c"}, nil)
	f.ssRepo.On("BulkDeleteAndCompact", ctx, "sl1", []string{"a", "c"}).Return(nil)
	f.broadcaster.On("Broadcast", "band1", mock.Anything).Return()

	err := f.svc.BulkDeleteSongs(ctx, "user1", "sl1", []string{"a", "c"})

	assert.NoError(t, err)
	f.ssRepo.AssertExpectations(t)
}

// TestCopySongToSetlist_DuplicateSong 目标中已存在同曲：DUPLICATE_SONG 并带歌曲标题
func TestCopySongToSetlist_DuplicateSong(t *testing.T) {
	f := newSetlistFixture()
	ctx := context.Background()

	src := &repository.SetlistSongWithBand{
		SetlistSong: domain.SetlistSong{ID: "row1", SetlistID: "src", SongID: "song1"},
		BandID:      "band1",
		SongTitle:   "Separate Ways",
	}
	f.ssRepo.On("GetWithBand", ctx, "row1").Return(src, nil)
	f.membership.On("RequireMembership", ctx, "user1", "band1").Return(nil)
	f.setlistRepo.On("GetByID", ctx, "dst").Return(&domain.Setlist{ID: "dst", BandID: "band1"}, nil)
	f.ssRepo.On("MaxPosition", ctx, "dst").Return(4, nil)
	f.ssRepo.On("Insert", ctx, mock.Anything).Return(&pgconn.PgError{Code: "23505"})

	_, err := f.svc.CopySongToSetlist(ctx, "user1", "row1", "src", "dst")

	appErr := appCode(t, err)
	assert.Equal(t, apperrors.ErrCodeDuplicateSong, appErr.Code)
	assert.Equal(t, 409, appErr.HTTPStatus)
	assert.Contains(t, appErr.Message, "Separate Ways")
}

// TestCopySongToSetlist_AppendsAtEnd 复制行追加在目标末尾
func TestCopySongToSetlist_AppendsAtEnd(t *testing.T) {
	f := newSetlistFixture()
	ctx := context.Background()

	src := &repository.SetlistSongWithBand{
		SetlistSong: domain.SetlistSong{ID: "row1", SetlistID: "src", SongID: "song1", DurationSeconds: intp(200)},
		BandID:      "band1",
		SongTitle:   "Separate Ways",
	}
	f.ssRepo.On("GetWithBand", ctx, "row1").Return(src, nil)
	f.membership.On("RequireMembership", ctx, "user1", "band1").Return(nil)
	f.setlistRepo.On("GetByID", ctx, "dst").Return(&domain.Setlist{ID: "dst", BandID: "band1"}, nil)
	f.ssRepo.On("MaxPosition", ctx, "dst").Return(4, nil)
	f.ssRepo.On("Insert", ctx, mock.MatchedBy(func(ss *domain.SetlistSong) bool {
		return ss.SetlistID == "dst" && ss.Position == 5 && ss.SongID == "song1" &&
			ss.DurationSeconds != nil && *ss.DurationSeconds == 200
	})).Return(nil)
	f.broadcaster.On("Broadcast", "band1", mock.Anything).Return()

	clone, err := f.svc.CopySongToSetlist(ctx, "user1", "row1", "src", "dst")

	assert.NoError(t, err)
	assert.Equal(t, 5, clone.Position)
	assert.NotEqual(t, "row1", clone.ID)
}

// TestCopySongToSetlist_SourceMismatch 源行不属于声明的源曲目单
func TestCopySongToSetlist_SourceMismatch(t *testing.T) {
	f := newSetlistFixture()
	ctx := context.Background()

	src := &repository.SetlistSongWithBand{
		SetlistSong: domain.SetlistSong{ID: "row1", SetlistID: "actual", SongID: "song1"},
		BandID:      "band1",
	}
	f.ssRepo.On("GetWithBand", ctx, "row1").Return(src, nil)

	_, err := f.svc.CopySongToSetlist(ctx, "user1", "row1", "claimed", "dst")

	appErr := appCode(t, err)
	assert.Equal(t, apperrors.ErrCodeSetlistMismatch, appErr.Code)
}

// TestCopySongToSetlist_CrossBandRejected 目标曲目单属于其他乐队
func TestCopySongToSetlist_CrossBandRejected(t *testing.T) {
	f := newSetlistFixture()
	ctx := context.Background()

	src := &repository.SetlistSongWithBand{
		SetlistSong: domain.SetlistSong{ID: "row1", SetlistID: "src", SongID: "song1"},
		BandID:      "band1",
	}
	f.ssRepo.On("GetWithBand", ctx, "row1").Return(src, nil)
	f.membership.On("RequireMembership", ctx, "user1", "band1").Return(nil)
	f.setlistRepo.On("GetByID", ctx, "dst").Return(&domain.Setlist{ID: "dst", BandID: "band2"}, nil)

	_, err := f.svc.CopySongToSetlist(ctx, "user1", "row1", "src", "dst")

	appErr := appCode(t, err)
	assert.Equal(t, apperrors.ErrCodeForbidden, appErr.Code)
	f.ssRepo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

// TestCopySetlist_CompensatesOnCloneFailure 歌曲克隆失败时回滚新建的曲目单
func TestCopySetlist_CompensatesOnCloneFailure(t *testing.T) {
	f := newSetlistFixture()
	ctx := context.Background()

	f.membership.On("RequireMembership", ctx, "user1", "band1").Return(nil)
	f.setlistRepo.On("GetByID", ctx, "src").Return(&domain.Setlist{ID: "src", BandID: "band1", Name: "Friday"}, nil)
	f.setlistRepo.On("Create", ctx, mock.Anything).Return(nil)
	f.ssRepo.On("CloneAll", ctx, "src", mock.Anything).Return(errors.New("clone failed"))
	f.setlistRepo.On("Delete", ctx, mock.Anything).Return(nil)

	_, err := f.svc.CopySetlist(ctx, "user1", "band1", "src")

	assert.Error(t, err)
	f.setlistRepo.AssertCalled(t, "Delete", ctx, mock.Anything)
}

// TestCopySetlist_NamesCopy 副本名为源名加 " (Copy)"
func TestCopySetlist_NamesCopy(t *testing.T) {
	f := newSetlistFixture()
	ctx := context.Background()

	f.membership.On("RequireMembership", ctx, "user1", "band1").Return(nil)
	f.setlistRepo.On("GetByID", ctx, "src").Return(&domain.Setlist{ID: "src", BandID: "band1", Name: "Friday"}, nil)
	f.setlistRepo.On("Create", ctx, mock.MatchedBy(func(sl *domain.Setlist) bool {
		return sl.Name == "Friday (Copy)" && sl.BandID == "band1" && sl.ID != "src"
	})).Return(nil)
	f.ssRepo.On("CloneAll", ctx, "src", mock.Anything).Return(nil)
	f.broadcaster.On("Broadcast", "band1", mock.Anything).Return()

	copied, err := f.svc.CopySetlist(ctx, "user1", "band1", "src")

	assert.NoError(t, err)
	assert.Equal(t, "Friday (Copy)", copied.Name)
}

// TestCopySetlist_OwnershipCheck 源曲目单属于其他乐队时拒绝
func TestCopySetlist_OwnershipCheck(t *testing.T) {
	f := newSetlistFixture()
	ctx := context.Background()

	f.membership.On("RequireMembership", ctx, "user1", "band1").Return(nil)
	f.setlistRepo.On("GetByID", ctx, "src").Return(&domain.Setlist{ID: "src", BandID: "band2", Name: "Friday"}, nil)

	_, err := f.svc.CopySetlist(ctx, "user1", "band1", "src")

	appErr := appCode(t, err)
	assert.Equal(t, apperrors.ErrCodeForbidden, appErr.Code)
	f.setlistRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// TestAddSong_AppendsAtEnd 追加位置 = max+1
func TestAddSong_AppendsAtEnd(t *testing.T) {
	f := newSetlistFixture()
	ctx := context.Background()

	f.setlistRepo.On("GetByID", ctx, "sl1").Return(&domain.Setlist{ID: "sl1", BandID: "band1"}, nil)
	f.membership.On("RequireMembership", ctx, "user1", "band1").Return(nil)
	f.songRepo.On("GetByID", ctx, "song1").Return(&domain.Song{ID: "song1", Title: "Jump"}, nil)
	f.ssRepo.On("ExistsSong", ctx, "sl1", "song1").Return(false, nil)
	f.ssRepo.On("MaxPosition", ctx, "sl1").Return(0, nil)
	f.ssRepo.On("Insert", ctx, mock.MatchedBy(func(ss *domain.SetlistSong) bool {
		return ss.Position == 1 && ss.SetlistID == "sl1"
	})).Return(nil)
	f.broadcaster.On("Broadcast", "band1", mock.Anything).Return()

	ss, err := f.svc.AddSong(ctx, "user1", "sl1", "song1", nil, nil, nil)

	assert.NoError(t, err)
	assert.Equal(t, 1, ss.Position)
}

// TestAddSong_Duplicate 同曲已在曲目单中
func TestAddSong_Duplicate(t *testing.T) {
	f := newSetlistFixture()
	ctx := context.Background()

	f.setlistRepo.On("GetByID", ctx, "sl1").Return(&domain.Setlist{ID: "sl1", BandID: "band1"}, nil)
	f.membership.On("RequireMembership", ctx, "user1", "band1").Return(nil)
	f.songRepo.On("GetByID", ctx, "song1").Return(&domain.Song{ID: "song1", Title: "Jump"}, nil)
	f.ssRepo.On("ExistsSong", ctx, "sl1", "song1").Return(true, nil)

	_, err := f.svc.AddSong(ctx, "user1", "sl1", "song1", nil, nil, nil)

	appErr := appCode(t, err)
	assert.Equal(t, apperrors.ErrCodeDuplicateSong, appErr.Code)
	assert.Contains(t, appErr.Message, "Jump")
	f.ssRepo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

// TestReorder_ValidatesPermutation 不完整的排列被拒绝
func TestReorder_ValidatesPermutation(t *testing.T) {
	f := newSetlistFixture()
	ctx := context.Background()

	f.setlistRepo.On("GetByID", ctx, "sl1").Return(&domain.Setlist{ID: "sl1", BandID: "band1"}, nil)
	f.membership.On("RequireMembership", ctx, "user1", "band1").Return(nil)
	f.ssRepo.On("ListIDs", ctx, "sl1").Return([]string{"a", "b", "c"}, nil)

	err := f.svc.Reorder(ctx, "user1", "sl1", []string{"a", "b"})

	appErr := appCode(t, err)
	assert.Equal(t, apperrors.ErrCodeValidation, appErr.Code)
	f.ssRepo.AssertNotCalled(t, "Reorder", mock.Anything, mock.Anything, mock.Anything)
}

// TestReorder_Success 完整排列写入新顺序
func TestReorder_Success(t *testing.T) {
	f := newSetlistFixture()
	ctx := context.Background()

	f.setlistRepo.On("GetByID", ctx, "sl1").Return(&domain.Setlist{ID: "sl1", BandID: "band1"}, nil)
	f.membership.On("RequireMembership", ctx, "user1", "band1").Return(nil)
	f.ssRepo.On("ListIDs", ctx, "sl1").Return([]string{"a", "b", "c"}, nil)
	f.ssRepo.On("Reorder", ctx, "sl1", []string{"c", "a", "b"}).Return(nil)
	f.broadcaster.On("Broadcast", "band1", mock.Anything).Return()

	err := f.svc.Reorder(ctx, "user1", "sl1", []string{"c", "a", "b"})

	assert.NoError(t, err)
	f.ssRepo.AssertExpectations(t)
}

// TestGetSetlistsWithTotals 总时长现场重算，不读缓存列
func TestGetSetlistsWithTotals(t *testing.T) {
	f := newSetlistFixture()
	ctx := context.Background()

	f.membership.On("RequireMembership", ctx, "user1", "band1").Return(nil)
	f.setlistRepo.On("ListByBand", ctx, "band1").Return([]*domain.Setlist{
		// 缓存列里是过期的 9999，读取路径必须忽略它
		{ID: "sl1", BandID: "band1", Name: "Friday", TotalDuration: 9999},
		{ID: "sl2", BandID: "band1", Name: "Empty", TotalDuration: 9999},
	}, nil)
	f.ssRepo.On("ListRows", ctx, "sl1").Return([]domain.SetlistSongRow{
		{DurationOverride: intp(195)},
		{CatalogDuration: intp(240)},
		{CatalogDuration: intp(180)},
	}, nil)
	f.ssRepo.On("ListRows", ctx, "sl2").Return([]domain.SetlistSongRow{}, nil)

	summaries, err := f.svc.GetSetlistsWithTotals(ctx, "user1", "band1")

	assert.NoError(t, err)
	assert.Len(t, summaries, 2)

	assert.Equal(t, 615, summaries[0].TotalDurationSeconds)
	assert.Equal(t, "10m", summaries[0].FormattedSummary)
	assert.Equal(t, 3, summaries[0].SongCount)

	assert.Equal(t, 0, summaries[1].TotalDurationSeconds)
	assert.Equal(t, "TBD", summaries[1].FormattedSummary)
}

// TestGetSetlistDetail_TotalsMatchSummary 详情与汇总基于同一行集，总时长一致
func TestGetSetlistDetail_TotalsMatchSummary(t *testing.T) {
	f := newSetlistFixture()
	ctx := context.Background()

	rows := []domain.SetlistSongRow{
		{Title: "A", Position: 1, DurationOverride: intp(195)},
		{Title: "B", Position: 2, CatalogDuration: intp(240)},
	}

	f.setlistRepo.On("GetByID", ctx, "sl1").Return(&domain.Setlist{ID: "sl1", BandID: "band1", Name: "Friday"}, nil)
	f.membership.On("RequireMembership", ctx, "user1", "band1").Return(nil)
	f.ssRepo.On("ListRows", ctx, "sl1").Return(rows, nil)

	detail, err := f.svc.GetSetlistDetail(ctx, "user1", "sl1")

	assert.NoError(t, err)
	assert.Equal(t, 435, detail.TotalDurationSeconds)
	assert.Equal(t, "7m", detail.FormattedSummary)
	assert.Len(t, detail.Songs, 2)
}

// TestGetSetlistDetail_NonContiguousPositionsLogged 位置空洞触发告警日志，
// 但读取本身不受影响
func TestGetSetlistDetail_NonContiguousPositionsLogged(t *testing.T) {
	f := newSetlistFixture()
	ctx := context.Background()

	var buf bytes.Buffer
	f.svc.log = logger.New(&logger.Config{Level: logger.WarnLevel, Output: &buf})

	f.setlistRepo.On("GetByID", ctx, "sl1").Return(&domain.Setlist{ID: "sl1", BandID: "band1"}, nil)
	f.membership.On("RequireMembership", ctx, "user1", "band1").Return(nil)
	f.ssRepo.On("ListRows", ctx, "sl1").Return([]domain.SetlistSongRow{
		{Title: "A", Position: 1, CatalogDuration: intp(180)},
		{Title: "B", Position: 3, CatalogDuration: intp(200)},
	}, nil)

	detail, err := f.svc.GetSetlistDetail(ctx, "user1", "sl1")

	assert.NoError(t, err)
	assert.Len(t, detail.Songs, 2)
	assert.Contains(t, buf.String(), "setlist positions not contiguous")
}

// TestShareText 分享文本经由同一读取模型生成
func TestShareText(t *testing.T) {
	f := newSetlistFixture()
	ctx := context.Background()

	f.setlistRepo.On("GetByID", ctx, "sl1").Return(&domain.Setlist{ID: "sl1", BandID: "band1", Name: "Friday Night"}, nil)
	f.membership.On("RequireMembership", ctx, "user1", "band1").Return(nil)
	f.ssRepo.On("ListRows", ctx, "sl1").Return([]domain.SetlistSongRow{
		{Title: "Don't Tell Me You Love Me", Artist: "Night Ranger", CatalogDuration: intp(263)},
	}, nil)

	text, err := f.svc.ShareText(ctx, "user1", "sl1")

	assert.NoError(t, err)
	assert.Contains(t, text, "Setlist: Friday Night")
	assert.Contains(t, text, "Songs: 1 • Total Duration: 4:23")
	assert.Contains(t, text, "Tuning: standard • 4:23 • — BPM")
}

// TestCreateSetlist_ValidatesName 名称校验
func TestCreateSetlist_ValidatesName(t *testing.T) {
	f := newSetlistFixture()

	_, err := f.svc.CreateSetlist(context.Background(), "user1", "band1", "")

	appErr := appCode(t, err)
	assert.Equal(t, apperrors.ErrCodeValidation, appErr.Code)
}

func intp(v int) *int { return &v }
