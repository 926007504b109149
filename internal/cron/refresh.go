// Package cron runs scheduled maintenance jobs.
package cron

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/bandhub/server/internal/domain"
	"github.com/bandhub/server/internal/repository"
	"github.com/bandhub/server/pkg/logger"
)

// defaultSpec 每天凌晨 3 点刷新
const defaultSpec = "0 3 * * *"

// TotalRefresher 缓存总时长刷新任务
// setlists.total_duration 仅作遥测用途：读取路径永远现场重算，
// 这里定期把缓存列刷到最新值，供报表和排查使用
type TotalRefresher struct {
	setlistRepo     repository.SetlistRepository
	setlistSongRepo repository.SetlistSongRepository
	log             logger.Logger

	c    *cron.Cron
	spec string
}

// NewTotalRefresher 创建刷新任务
func NewTotalRefresher(setlistRepo repository.SetlistRepository, setlistSongRepo repository.SetlistSongRepository, spec string, log logger.Logger) *TotalRefresher {
	if spec == "" {
		spec = defaultSpec
	}
	if log == nil {
		log = logger.Default()
	}
	return &TotalRefresher{
		setlistRepo:     setlistRepo,
		setlistSongRepo: setlistSongRepo,
		log:             log,
		c:               cron.New(),
		spec:            spec,
	}
}

// Start 注册并启动定时任务
func (r *TotalRefresher) Start() error {
	if _, err := r.c.AddFunc(r.spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()
		r.RefreshAll(ctx)
	}); err != nil {
		return err
	}
	r.c.Start()
	r.log.Info("cached total refresh job scheduled", logger.String("spec", r.spec))
	return nil
}

// Stop 停止定时任务，等待进行中的刷新结束
func (r *TotalRefresher) Stop() {
	<-r.c.Stop().Done()
}

// RefreshAll 重算并写回所有曲目单的缓存总时长
// 单个曲目单失败不中断整批，只记录并继续
func (r *TotalRefresher) RefreshAll(ctx context.Context) {
	start := time.Now()

	ids, err := r.setlistRepo.ListAllIDs(ctx)
	if err != nil {
		r.log.Error("failed to list setlists for total refresh", logger.Error(err))
		return
	}

	refreshed, failed := 0, 0
	for _, id := range ids {
		if err := r.refreshOne(ctx, id); err != nil {
			failed++
			r.log.Warn("failed to refresh cached total",
				logger.String("setlist_id", id),
				logger.Error(err))
			continue
		}
		refreshed++
	}

	r.log.Info("cached total refresh complete",
		logger.Int("refreshed", refreshed),
		logger.Int("failed", failed),
		logger.Duration("elapsed", time.Since(start)))
}

func (r *TotalRefresher) refreshOne(ctx context.Context, setlistID string) error {
	rows, err := r.setlistSongRepo.ListRows(ctx, setlistID)
	if err != nil {
		return err
	}
	return r.setlistRepo.UpdateCachedTotal(ctx, setlistID, domain.CalculateSetlistTotal(rows))
}
