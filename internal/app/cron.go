package app

import (
	"context"
	"fmt"
	"time"

	"github.com/stylebox-hq/core/internal/modules/stylebox/template"
	pkgcron "github.com/stylebox-hq/core/internal/pkg/cron"
	"github.com/stylebox-hq/core/internal/pkg/taskqueue"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// registerCronJobs registers all scheduled background jobs.
func registerCronJobs(sched *pkgcron.Scheduler, db *gorm.DB, tplSvc *template.Service, taskSvc *taskqueue.Service, logger *zap.Logger) {
	cronLogger := logger.Named("CronService")

	sched.Register(pkgcron.Job{
		Name:        "activate_due_releases",
		Description: "Activate drafts whose scheduled release date has passed",
		Interval:    time.Minute,
		Fn: func(ctx context.Context) error {
			n, err := tplSvc.ActivateDueReleases(time.Now())
			if err != nil {
				cronLogger.Warn("release activation failed", zap.Error(err))
				return err
			}
			if n > 0 {
				cronLogger.Info(fmt.Sprintf("activated %d scheduled releases", n))
			}
			return nil
		},
	})

	sched.Register(pkgcron.Job{
		Name:        "archive_past_deadlines",
		Description: "Archive active styleboxes whose submission deadline has passed",
		Interval:    time.Minute,
		Fn: func(ctx context.Context) error {
			n, err := tplSvc.ArchivePastDeadlines(time.Now())
			if err != nil {
				cronLogger.Warn("deadline archival failed", zap.Error(err))
				return err
			}
			if n > 0 {
				cronLogger.Info(fmt.Sprintf("archived %d styleboxes past deadline", n))
			}
			return nil
		},
	})

	sched.Register(pkgcron.Job{
		Name:        "cleanup_task_queue",
		Description: "Drop completed background tasks older than 3 days",
		Interval:    24 * time.Hour,
		Fn: func(ctx context.Context) error {
			cutoff := time.Now().AddDate(0, 0, -3).UnixMilli()
			if err := taskSvc.DeleteCompleted(ctx, cutoff); err != nil {
				cronLogger.Warn("task queue cleanup failed", zap.Error(err))
				return err
			}
			return nil
		},
	})

	sched.Register(pkgcron.Job{
		Name:        "cleanup_expired_sessions",
		Description: "Delete expired sign-in sessions",
		Interval:    12 * time.Hour,
		Fn: func(ctx context.Context) error {
			result := db.Exec("DELETE FROM user_sessions WHERE expires_at < ?", time.Now())
			if result.Error != nil {
				cronLogger.Warn("session cleanup failed", zap.Error(result.Error))
				return result.Error
			}
			if result.RowsAffected > 0 {
				cronLogger.Info(fmt.Sprintf("deleted %d expired sessions", result.RowsAffected))
			}
			return nil
		},
	})
}
