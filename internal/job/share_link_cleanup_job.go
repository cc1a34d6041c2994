package job

import (
	"context"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

const defaultCleanupGrace = 30 * 24 * time.Hour

type ExpiredLinkPurger interface {
	PurgeExpired(ctx context.Context, before time.Time) (int64, error)
}

// ShareLinkCleanupJob deletes share links that expired more than grace ago.
// Expired links already fail redemption; this only reclaims rows.
type ShareLinkCleanupJob struct {
	links ExpiredLinkPurger
	grace time.Duration
	now   func() time.Time
}

func NewShareLinkCleanupJob(links ExpiredLinkPurger, grace time.Duration) *ShareLinkCleanupJob {
	return &ShareLinkCleanupJob{links: links, grace: grace, now: time.Now}
}

func (j *ShareLinkCleanupJob) Name() string {
	return "share_link_cleanup"
}

func (j *ShareLinkCleanupJob) Run(ctx context.Context) error {
	if j.links == nil {
		return nil
	}
	grace := j.grace
	if grace <= 0 {
		grace = defaultCleanupGrace
	}
	cutoff := j.now().Add(-grace)
	deleted, err := j.links.PurgeExpired(ctx, cutoff)
	if err != nil {
		return err
	}
	logutil.GetLogger(ctx).Info("expired share links purged",
		zap.Int64("deleted", deleted),
		zap.Time("cutoff", cutoff))
	return nil
}
