package service

import (
	"context"
	"time"

	"microblog-backend/internal/common"
	"microblog-backend/internal/metrics"
	"microblog-backend/internal/repository/interfaces"
	"microblog-backend/internal/storage"
	"microblog-backend/internal/util"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const (
	sweepBatchSize = 100
	sweepTimeout   = 5 * time.Minute
)

// MediaSweeper 清理超过 ttl 仍未绑定推文的媒体
type MediaSweeper struct {
	repo    interfaces.ContentRepository
	storage storage.FileStorage
	ttl     time.Duration
	now     func() time.Time
}

func NewMediaSweeper(repo interfaces.ContentRepository, fileStorage storage.FileStorage, ttl time.Duration) *MediaSweeper {
	return &MediaSweeper{
		repo:    repo,
		storage: fileStorage,
		ttl:     ttl,
		now:     time.Now,
	}
}

// Sweep 执行一轮清理，返回删除的媒体数量。
// 先按条件删除记录，删除成功后再删除文件，避免与并发发推竞争。
func (s *MediaSweeper) Sweep(ctx context.Context) (int, error) {
	cutoff := s.now().Add(-s.ttl)
	removed := 0

	for {
		orphans, err := s.repo.ListOrphanMedia(ctx, cutoff, sweepBatchSize)
		if err != nil {
			return removed, err
		}

		progressed := false
		for _, m := range orphans {
			deleted, err := s.repo.DeleteOrphanMedia(ctx, m.ID)
			if err != nil {
				return removed, err
			}
			if !deleted {
				// 已被推文引用
				continue
			}
			progressed = true
			removed++

			err = common.WithRetry(ctx, func() error {
				return s.storage.Delete(ctx, m.File)
			}, fileDeleteAttempts, fileDeleteBackoff)
			if err != nil {
				util.Logger.Error("删除孤儿媒体文件失败", util.Error(err), zap.String("file", m.File))
			}
		}

		if len(orphans) < sweepBatchSize || !progressed {
			return removed, nil
		}
	}
}

// Start 按 cron 表达式定期执行清理，返回的 cron 由调用方 Stop
func (s *MediaSweeper) Start(schedule string) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
		defer cancel()

		removed, err := s.Sweep(ctx)
		metrics.RecordSweep(removed, err == nil)
		if err != nil {
			util.Logger.Error("孤儿媒体清理失败", util.Error(err), util.Int("removed", removed))
			return
		}
		util.Logger.Info("孤儿媒体清理完成", util.Int("removed", removed))
	})
	if err != nil {
		return nil, err
	}

	c.Start()
	util.Logger.Info("孤儿媒体清理任务已启动", zap.String("schedule", schedule), zap.Duration("ttl", s.ttl))
	return c, nil
}
