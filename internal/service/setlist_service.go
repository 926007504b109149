package service

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/bandhub/server/internal/domain"
	"github.com/bandhub/server/internal/repository"
	"github.com/bandhub/server/pkg/errors"
	"github.com/bandhub/server/pkg/logger"
)

// Broadcaster 实时仪表盘广播接口（即发即忘，不影响操作正确性）
type Broadcaster interface {
	Broadcast(bandID string, event *domain.Event)
}

// SetlistService 曲目单变更服务与读取模型装配器
// 所有操作显式接收 userID 与 bandID，不依赖任何全局"当前乐队"状态；
// 成员资格在触碰排序与时长引擎之前校验一次
type SetlistService struct {
	setlistRepo     repository.SetlistRepository
	setlistSongRepo repository.SetlistSongRepository
	songRepo        repository.SongRepository
	membership      MembershipAuthority
	broadcaster     Broadcaster
	log             logger.Logger

	// 合并同一乐队并发的总时长重算
	totals singleflight.Group
}

// NewSetlistService 创建曲目单服务
func NewSetlistService(
	setlistRepo repository.SetlistRepository,
	setlistSongRepo repository.SetlistSongRepository,
	songRepo repository.SongRepository,
	membership MembershipAuthority,
	broadcaster Broadcaster,
	log logger.Logger,
) *SetlistService {
	if log == nil {
		log = logger.Default()
	}
	return &SetlistService{
		setlistRepo:     setlistRepo,
		setlistSongRepo: setlistSongRepo,
		songRepo:        songRepo,
		membership:      membership,
		broadcaster:     broadcaster,
		log:             log,
	}
}

// CreateSetlist 创建曲目单
func (s *SetlistService) CreateSetlist(ctx context.Context, userID, bandID, name string) (*domain.Setlist, error) {
	if bandID == "" || name == "" {
		return nil, errors.ErrValidation.WithMessage("band id and name are required")
	}
	if err := domain.ValidateSetlistName(name); err != nil {
		return nil, errors.ErrValidation.WithMessage(err.Error())
	}
	if err := s.membership.RequireMembership(ctx, userID, bandID); err != nil {
		return nil, err
	}

	now := time.Now()
	setlist := &domain.Setlist{
		ID:            uuid.New().String(),
		BandID:        bandID,
		Name:          name,
		TotalDuration: 0,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.setlistRepo.Create(ctx, setlist); err != nil {
		return nil, s.classify(err, errors.ErrSetlistNotFound)
	}

	s.emit(domain.EventSetlistCreated, bandID, setlist)
	return setlist, nil
}

// CopySetlist 复制曲目单及其全部歌曲行
// 歌曲克隆中途失败时删除新建的曲目单（补偿动作），绝不留下孤儿副本
func (s *SetlistService) CopySetlist(ctx context.Context, userID, bandID, sourceSetlistID string) (*domain.Setlist, error) {
	if bandID == "" || sourceSetlistID == "" {
		return nil, errors.ErrValidation.WithMessage("band id and source setlist id are required")
	}
	if err := s.membership.RequireMembership(ctx, userID, bandID); err != nil {
		return nil, err
	}

	src, err := s.setlistRepo.GetByID(ctx, sourceSetlistID)
	if err != nil {
		return nil, s.classify(err, errors.ErrSetlistNotFound)
	}
	// 归属校验独立于成员资格校验
	if src.BandID != bandID {
		return nil, errors.ErrForbidden.WithMessage("setlist does not belong to this band")
	}

	now := time.Now()
	copied := &domain.Setlist{
		ID:            uuid.New().String(),
		BandID:        bandID,
		Name:          src.CopyName(),
		TotalDuration: src.TotalDuration,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.setlistRepo.Create(ctx, copied); err != nil {
		return nil, s.classify(err, errors.ErrSetlistNotFound)
	}

	if err := s.setlistSongRepo.CloneAll(ctx, src.ID, copied.ID); err != nil {
		// 补偿动作：删除刚创建的曲目单
		if delErr := s.setlistRepo.Delete(ctx, copied.ID); delErr != nil {
			s.log.Error("failed to roll back partially copied setlist",
				logger.String("setlist_id", copied.ID),
				logger.Error(delErr))
		}
		return nil, s.classify(err, errors.ErrSetlistNotFound)
	}

	s.emit(domain.EventSetlistCopied, bandID, copied)
	return copied, nil
}

// RenameSetlist 重命名曲目单
func (s *SetlistService) RenameSetlist(ctx context.Context, userID, setlistID, name string) (*domain.Setlist, error) {
	if err := domain.ValidateSetlistName(name); err != nil {
		return nil, errors.ErrValidation.WithMessage(err.Error())
	}

	setlist, err := s.requireSetlist(ctx, userID, setlistID)
	if err != nil {
		return nil, err
	}

	if err := s.setlistRepo.UpdateName(ctx, setlistID, name); err != nil {
		return nil, s.classify(err, errors.ErrSetlistNotFound)
	}
	setlist.Name = name

	s.emit(domain.EventSetlistUpdated, setlist.BandID, setlist)
	return setlist, nil
}

// DeleteSetlist 删除曲目单（歌曲行级联删除）
func (s *SetlistService) DeleteSetlist(ctx context.Context, userID, setlistID string) error {
	setlist, err := s.requireSetlist(ctx, userID, setlistID)
	if err != nil {
		return err
	}

	if err := s.setlistRepo.Delete(ctx, setlistID); err != nil {
		return s.classify(err, errors.ErrSetlistNotFound)
	}

	s.emit(domain.EventSetlistDeleted, setlist.BandID, map[string]string{"setlist_id": setlistID})
	return nil
}

// GetSetlistsWithTotals 读取模型装配器：乐队全部曲目单及重算的总时长
// 这是任何聚合时长界面的唯一数据来源；缓存的 total_duration 不参与计算。
// 同一乐队的并发重算通过 singleflight 合并
func (s *SetlistService) GetSetlistsWithTotals(ctx context.Context, userID, bandID string) ([]domain.SetlistSummary, error) {
	if bandID == "" {
		return nil, errors.ErrValidation.WithMessage("band id is required")
	}
	if err := s.membership.RequireMembership(ctx, userID, bandID); err != nil {
		return nil, err
	}

	result, err, _ := s.totals.Do(bandID, func() (interface{}, error) {
		return s.assembleSummaries(ctx, bandID)
	})
	if err != nil {
		if appErr, ok := err.(*errors.Error); ok {
			return nil, appErr
		}
		return nil, s.classify(err, errors.ErrSetlistNotFound)
	}
	return result.([]domain.SetlistSummary), nil
}

func (s *SetlistService) assembleSummaries(ctx context.Context, bandID string) ([]domain.SetlistSummary, error) {
	setlists, err := s.setlistRepo.ListByBand(ctx, bandID)
	if err != nil {
		return nil, s.classify(err, errors.ErrBandNotFound)
	}

	summaries := make([]domain.SetlistSummary, 0, len(setlists))
	for _, setlist := range setlists {
		rows, err := s.setlistSongRepo.ListRows(ctx, setlist.ID)
		if err != nil {
			return nil, s.classify(err, errors.ErrSetlistNotFound)
		}
		total := domain.CalculateSetlistTotal(rows)
		summaries = append(summaries, domain.SetlistSummary{
			ID:                   setlist.ID,
			Name:                 setlist.Name,
			SongCount:            len(rows),
			TotalDurationSeconds: total,
			FormattedSummary:     domain.FormatDurationSummary(total),
		})
	}
	return summaries, nil
}

// GetSetlistDetail 曲目单详情，行集与总时长与汇总视图走同一条装配路径
func (s *SetlistService) GetSetlistDetail(ctx context.Context, userID, setlistID string) (*domain.SetlistDetail, error) {
	setlist, err := s.requireSetlist(ctx, userID, setlistID)
	if err != nil {
		return nil, err
	}

	rows, err := s.setlistSongRepo.ListRows(ctx, setlistID)
	if err != nil {
		return nil, s.classify(err, errors.ErrSetlistNotFound)
	}

	// 位置空洞意味着某次移位/压实没有生效，记下来便于排查
	positions := make([]int, len(rows))
	for i, row := range rows {
		positions[i] = row.Position
	}
	if !PositionsAreContiguous(positions) {
		s.log.Warn("setlist positions not contiguous",
			logger.String("setlist_id", setlistID),
			logger.Int("song_count", len(rows)))
	}

	total := domain.CalculateSetlistTotal(rows)
	return &domain.SetlistDetail{
		Setlist:              *setlist,
		Songs:                rows,
		TotalDurationSeconds: total,
		FormattedSummary:     domain.FormatDurationSummary(total),
	}, nil
}

// ShareText 生成曲目单的可分享文本
func (s *SetlistService) ShareText(ctx context.Context, userID, setlistID string) (string, error) {
	setlist, err := s.requireSetlist(ctx, userID, setlistID)
	if err != nil {
		return "", err
	}

	rows, err := s.setlistSongRepo.ListRows(ctx, setlistID)
	if err != nil {
		return "", s.classify(err, errors.ErrSetlistNotFound)
	}

	return domain.BuildShareText(setlist.Name, domain.ShareSongsFromRows(rows)), nil
}

// AddSong 将歌曲追加到曲目单末尾（位置 = max+1，空曲目单从 1 开始）
func (s *SetlistService) AddSong(ctx context.Context, userID, setlistID, songID string, bpm *int, tuning *string, durationSeconds *int) (*domain.SetlistSong, error) {
	if songID == "" {
		return nil, errors.ErrValidation.WithMessage("song id is required")
	}

	setlist, err := s.requireSetlist(ctx, userID, setlistID)
	if err != nil {
		return nil, err
	}

	song, err := s.songRepo.GetByID(ctx, songID)
	if err != nil {
		return nil, s.classify(err, errors.ErrSongNotFound)
	}

	exists, err := s.setlistSongRepo.ExistsSong(ctx, setlistID, songID)
	if err != nil {
		return nil, s.classify(err, errors.ErrSetlistNotFound)
	}
	if exists {
		return nil, s.duplicateSongError(song.Title, songID)
	}

	maxPos, err := s.setlistSongRepo.MaxPosition(ctx, setlistID)
	if err != nil {
		return nil, s.classify(err, errors.ErrSetlistNotFound)
	}

	ss := &domain.SetlistSong{
		ID:              uuid.New().String(),
		SetlistID:       setlistID,
		SongID:          songID,
		Position:        NextPosition(maxPos),
		BPM:             bpm,
		Tuning:          tuning,
		DurationSeconds: durationSeconds,
		AddedAt:         time.Now(),
	}

	if err := s.setlistSongRepo.Insert(ctx, ss); err != nil {
		// 并发添加同一歌曲时由唯一约束兜底
		if repository.IsUniqueViolation(err) {
			return nil, s.duplicateSongError(song.Title, songID)
		}
		return nil, s.classify(err, errors.ErrSetlistNotFound)
	}

	s.emit(domain.EventSongAdded, setlist.BandID, ss)
	return ss, nil
}

// CopySongToSetlist 跨曲目单复制歌曲行
// 源行的乐队从其 setlist→band 关系推得；目标曲目单必须属于同一乐队。
// 目标中已存在同一歌曲时返回可区分的 DUPLICATE_SONG 错误并附歌曲标题，
// 且不修改目标曲目单
func (s *SetlistService) CopySongToSetlist(ctx context.Context, userID, setlistSongID, sourceSetlistID, destSetlistID string) (*domain.SetlistSong, error) {
	if setlistSongID == "" || sourceSetlistID == "" || destSetlistID == "" {
		return nil, errors.ErrValidation.WithMessage("setlist song id, source and destination setlist ids are required")
	}

	src, err := s.setlistSongRepo.GetWithBand(ctx, setlistSongID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, errors.ErrNotFound.WithMessage("setlist song not found")
		}
		return nil, errors.ErrPrecheckFailed.WithError(err)
	}
	if src.SetlistID != sourceSetlistID {
		return nil, errors.ErrSetlistMismatch
	}

	if err := s.membership.RequireMembership(ctx, userID, src.BandID); err != nil {
		return nil, err
	}

	dest, err := s.setlistRepo.GetByID(ctx, destSetlistID)
	if err != nil {
		return nil, s.classify(err, errors.ErrSetlistNotFound)
	}
	if dest.BandID != src.BandID {
		return nil, errors.ErrForbidden.WithMessage("destination setlist belongs to a different band")
	}

	maxPos, err := s.setlistSongRepo.MaxPosition(ctx, destSetlistID)
	if err != nil {
		return nil, s.classify(err, errors.ErrSetlistNotFound)
	}

	clone := &domain.SetlistSong{
		ID:              uuid.New().String(),
		SetlistID:       destSetlistID,
		SongID:          src.SongID,
		Position:        NextPosition(maxPos),
		BPM:             src.BPM,
		Tuning:          src.Tuning,
		DurationSeconds: src.DurationSeconds,
		AddedAt:         time.Now(),
	}

	if err := s.setlistSongRepo.Insert(ctx, clone); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, s.duplicateSongError(src.SongTitle, src.SongID)
		}
		return nil, s.classify(err, errors.ErrSetlistNotFound)
	}

	s.emit(domain.EventSongCopied, src.BandID, clone)
	return clone, nil
}

// DeleteSetlistSong 删除曲目单中的单首歌曲，带严格校验链
// 产出固定的结果分类：成功；NOT_FOUND；SETLIST_MISMATCH（跨曲目单的
// 越权删除企图）；RLS/权限失败；预检读取失败；未预期异常
func (s *SetlistService) DeleteSetlistSong(ctx context.Context, userID, setlistSongID, setlistID string) error {
	if setlistSongID == "" || setlistID == "" {
		return errors.ErrValidation.WithMessage("setlist song id and setlist id are required")
	}

	setlist, err := s.setlistRepo.GetByID(ctx, setlistID)
	if err != nil {
		if repository.IsNotFound(err) {
			return errors.ErrSetlistNotFound
		}
		return errors.ErrPrecheckFailed.WithError(err)
	}
	if err := s.membership.RequireMembership(ctx, userID, setlist.BandID); err != nil {
		return err
	}

	row, err := s.setlistSongRepo.GetByID(ctx, setlistSongID)
	if err != nil {
		if repository.IsNotFound(err) {
			return errors.ErrNotFound.WithMessage("setlist song not found")
		}
		// 归属校验读取本身失败：多为 RLS 配置问题
		return errors.ErrPrecheckFailed.WithError(err)
	}
	if row.SetlistID != setlistID {
		return errors.ErrSetlistMismatch
	}

	if err := s.setlistSongRepo.DeleteAndShift(ctx, setlistID, setlistSongID); err != nil {
		return s.classify(err, errors.ErrNotFound)
	}

	s.emit(domain.EventSongRemoved, setlist.BandID, map[string]string{
		"setlist_id":      setlistID,
		"setlist_song_id": setlistSongID,
	})
	return nil
}

// BulkDeleteSongs 批量删除曲目单中的歌曲
// 任一 id 不属于该曲目单则整批拒绝；删除与位置压实在一个事务内完成
func (s *SetlistService) BulkDeleteSongs(ctx context.Context, userID, setlistID string, ids []string) error {
	if setlistID == "" {
		return errors.ErrValidation.WithMessage("setlist id is required")
	}
	if len(ids) == 0 {
		return errors.ErrValidation.WithMessage("song id batch is empty")
	}

	setlist, err := s.requireSetlist(ctx, userID, setlistID)
	if err != nil {
		return err
	}

	currentIDs, err := s.setlistSongRepo.ListIDs(ctx, setlistID)
	if err != nil {
		return errors.ErrPrecheckFailed.WithError(err)
	}
	if err := ValidateBatch(currentIDs, ids); err != nil {
		if err == domain.ErrEmptySongBatch {
			return errors.ErrValidation.WithMessage(err.Error())
		}
		return errors.ErrSetlistMismatch.WithMessage(err.Error())
	}

	if err := s.setlistSongRepo.BulkDeleteAndCompact(ctx, setlistID, ids); err != nil {
		return s.classify(err, errors.ErrNotFound)
	}

	s.emit(domain.EventSongRemoved, setlist.BandID, map[string]interface{}{
		"setlist_id":       setlistID,
		"setlist_song_ids": ids,
	})
	return nil
}

// Reorder 按调用方给出的完整新顺序重排曲目单
func (s *SetlistService) Reorder(ctx context.Context, userID, setlistID string, orderedIDs []string) error {
	if setlistID == "" {
		return errors.ErrValidation.WithMessage("setlist id is required")
	}

	setlist, err := s.requireSetlist(ctx, userID, setlistID)
	if err != nil {
		return err
	}

	currentIDs, err := s.setlistSongRepo.ListIDs(ctx, setlistID)
	if err != nil {
		return errors.ErrPrecheckFailed.WithError(err)
	}
	if err := ValidateReorder(currentIDs, orderedIDs); err != nil {
		return errors.ErrValidation.WithMessage(err.Error())
	}

	if err := s.setlistSongRepo.Reorder(ctx, setlistID, orderedIDs); err != nil {
		return s.classify(err, errors.ErrNotFound)
	}

	s.emit(domain.EventSetlistReordered, setlist.BandID, map[string]interface{}{
		"setlist_id": setlistID,
		"order":      orderedIDs,
	})
	return nil
}

// requireSetlist 获取曲目单并校验调用方成员资格
func (s *SetlistService) requireSetlist(ctx context.Context, userID, setlistID string) (*domain.Setlist, error) {
	if setlistID == "" {
		return nil, errors.ErrValidation.WithMessage("setlist id is required")
	}
	setlist, err := s.setlistRepo.GetByID(ctx, setlistID)
	if err != nil {
		return nil, s.classify(err, errors.ErrSetlistNotFound)
	}
	if err := s.membership.RequireMembership(ctx, userID, setlist.BandID); err != nil {
		return nil, err
	}
	return setlist, nil
}

// classify 将存储层错误重分类为结构化应用错误，不允许未分类错误上抛
func (s *SetlistService) classify(err error, notFound *errors.Error) *errors.Error {
	switch {
	case repository.IsNotFound(err):
		return notFound
	case repository.IsPermissionDenied(err):
		return errors.RLS(errors.New(repository.PermissionCode(err),
			"Permission denied by storage policy", http.StatusForbidden)).WithError(err)
	case repository.IsUniqueViolation(err):
		return errors.ErrConflict.WithError(err)
	default:
		// 消息原样透传，错误码固定为 EXCEPTION
		return errors.ErrException.WithMessage(err.Error()).WithError(err)
	}
}

func (s *SetlistService) duplicateSongError(title, songID string) *errors.Error {
	return errors.ErrDuplicateSong.
		WithMessage(fmt.Sprintf("'%s' is already in the destination setlist", title)).
		WithDetails(map[string]string{"song_id": songID, "title": title})
}

// emit 即发即忘地广播仪表盘事件
func (s *SetlistService) emit(eventType, bandID string, payload interface{}) {
	if s.broadcaster == nil {
		return
	}
	s.broadcaster.Broadcast(bandID, domain.NewEvent(eventType, bandID, payload))
}
