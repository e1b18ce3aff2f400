package scheduler

import (
	"context"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/match-roulette/internal/platform/logging"
	"github.com/robfig/cron/v3"
)

// Loader reloads every board.
type Loader interface {
	LoadAll(ctx context.Context) error
}

// Refresher reloads the catalogs on a cron schedule.
type Refresher struct {
	cron    *cron.Cron
	loader  Loader
	logger  *logging.Logger
	timeout time.Duration
}

// NewRefresher returns nil when schedule is empty, meaning refresh is disabled.
func NewRefresher(schedule string, loader Loader, timeout time.Duration, logger *logging.Logger) (*Refresher, error) {
	schedule = strings.TrimSpace(schedule)
	if schedule == "" {
		return nil, nil
	}
	if loader == nil {
		return nil, crerr.New("refresh loader is required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	r := &Refresher{
		cron:    cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		loader:  loader,
		logger:  logger,
		timeout: timeout,
	}
	if _, err := r.cron.AddFunc(schedule, r.Run); err != nil {
		return nil, crerr.Wrapf(err, "parse refresh schedule %q", schedule)
	}
	return r, nil
}

// Run performs one refresh. Failures are logged; boards keep their catalogs.
func (r *Refresher) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	started := time.Now()
	if err := r.loader.LoadAll(ctx); err != nil {
		r.logger.WarnContext(ctx, "scheduled catalog refresh failed", "error", err, "duration", time.Since(started))
		return
	}
	r.logger.InfoContext(ctx, "scheduled catalog refresh done", "duration", time.Since(started))
}

func (r *Refresher) Start() {
	if r == nil {
		return
	}
	r.cron.Start()
}

// Stop halts the schedule and waits for a running refresh or ctx.
func (r *Refresher) Stop(ctx context.Context) {
	if r == nil {
		return
	}
	select {
	case <-r.cron.Stop().Done():
	case <-ctx.Done():
	}
}
