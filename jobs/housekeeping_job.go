package jobs

import (
	"context"
	"log"
	"sync"
	"time"
)

type TokenCleaner interface {
	CleanupExpiredTokens(ctx context.Context) (int64, error)
}

type ActivityPruner interface {
	Prune(ctx context.Context, retention time.Duration) (int64, error)
}

type LimiterCleaner interface {
	Cleanup(maxIdle time.Duration) int
}

// HousekeepingJob periodically drops expired refresh tokens, old activity
// logs and idle rate limiter entries.
type HousekeepingJob struct {
	Tokens    TokenCleaner
	Activity  ActivityPruner
	Limiter   LimiterCleaner // optional
	Retention time.Duration
	Interval  time.Duration

	stopChan chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// NewHousekeepingJob creates a job that runs every interval and keeps
// activity logs for retentionDays.
func NewHousekeepingJob(tokens TokenCleaner, activity ActivityPruner, limiter LimiterCleaner, retentionDays int, interval time.Duration) *HousekeepingJob {
	if interval <= 0 {
		interval = time.Hour
	}
	if retentionDays <= 0 {
		retentionDays = 90
	}
	return &HousekeepingJob{
		Tokens:    tokens,
		Activity:  activity,
		Limiter:   limiter,
		Retention: time.Duration(retentionDays) * 24 * time.Hour,
		Interval:  interval,
		stopChan:  make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// Start begins the housekeeping loop
func (j *HousekeepingJob) Start() {
	go j.run()
	log.Println("🚀 Housekeeping job started")
}

// Stop ends the loop and waits for the current pass to finish. Safe to call twice.
func (j *HousekeepingJob) Stop() {
	j.stopOnce.Do(func() {
		close(j.stopChan)
		<-j.done
		log.Println("🛑 Housekeeping job stopped")
	})
}

func (j *HousekeepingJob) run() {
	defer close(j.done)
	ticker := time.NewTicker(j.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			j.RunOnce(context.Background())
		case <-j.stopChan:
			return
		}
	}
}

// HousekeepingResult counts what one pass removed.
type HousekeepingResult struct {
	Tokens   int64
	Activity int64
	Limiters int
}

// RunOnce performs a single pass. Failures are logged and do not stop the
// remaining steps.
func (j *HousekeepingJob) RunOnce(ctx context.Context) HousekeepingResult {
	var res HousekeepingResult
	var err error

	if j.Tokens != nil {
		if res.Tokens, err = j.Tokens.CleanupExpiredTokens(ctx); err != nil {
			log.Printf("❌ Error cleaning up refresh tokens: %v", err)
		}
	}
	if j.Activity != nil {
		if res.Activity, err = j.Activity.Prune(ctx, j.Retention); err != nil {
			log.Printf("❌ Error pruning activity logs: %v", err)
		}
	}
	if j.Limiter != nil {
		res.Limiters = j.Limiter.Cleanup(10 * time.Minute)
	}

	if res.Tokens > 0 || res.Activity > 0 || res.Limiters > 0 {
		log.Printf("🧹 Housekeeping removed %d tokens, %d activity logs, %d limiters",
			res.Tokens, res.Activity, res.Limiters)
	}
	return res
}
