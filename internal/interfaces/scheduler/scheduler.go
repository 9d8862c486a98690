package scheduler

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/league-insights/internal/domain/ingestion"
	"github.com/riskibarqy/league-insights/internal/platform/logging"
	"github.com/robfig/cron/v3"
)

// DefaultSpec fires every Sunday at 02:39 UTC.
const DefaultSpec = "CRON_TZ=UTC 39 2 * * SUN"

// Job is the unit the scheduler triggers.
type Job interface {
	Run(ctx context.Context) (ingestion.Summary, error)
}

type Config struct {
	Spec    string
	Timeout time.Duration
}

// Scheduler triggers the ingestion job on a cron expression. Overlapping
// triggers are skipped while a run is still in progress.
type Scheduler struct {
	cron    *cron.Cron
	job     Job
	timeout time.Duration
	logger  *logging.Logger

	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
}

func New(job Job, cfg Config, logger *logging.Logger) (*Scheduler, error) {
	if job == nil {
		return nil, errors.New("scheduler job is required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	spec := strings.TrimSpace(cfg.Spec)
	if spec == "" {
		spec = DefaultSpec
	}

	s := &Scheduler{
		job:     job,
		timeout: cfg.Timeout,
		logger:  logger,
	}
	s.cron = cron.New(cron.WithChain(
		cron.Recover(cronLogger{logger: logger}),
		cron.SkipIfStillRunning(cronLogger{logger: logger}),
	))
	if _, err := s.cron.AddFunc(spec, s.trigger); err != nil {
		return nil, errors.Wrapf(err, "parse schedule %q", spec)
	}
	return s, nil
}

// Start runs the cron loop in the background until Stop is called or ctx ends.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.mu.Unlock()

	s.cron.Start()
	for _, entry := range s.cron.Entries() {
		s.logger.InfoContext(ctx, "ingestion scheduled", "next_run", entry.Next)
	}
}

// Stop prevents new triggers and waits for a running job to finish or for
// ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()

	s.mu.Lock()
	cancel := s.cancel
	s.mu.Unlock()

	select {
	case <-done.Done():
		if cancel != nil {
			cancel()
		}
		return nil
	case <-ctx.Done():
		if cancel != nil {
			cancel()
		}
		return ctx.Err()
	}
}

func (s *Scheduler) trigger() {
	s.mu.Lock()
	ctx := s.ctx
	s.mu.Unlock()
	if ctx == nil {
		ctx = context.Background()
	}
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	s.logger.InfoContext(ctx, "scheduled ingestion started")
	summary, err := s.job.Run(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "scheduled ingestion failed", "error", err)
		return
	}
	s.logger.InfoContext(ctx, "scheduled ingestion completed",
		"success", summary.SuccessCount,
		"failed", summary.FailedCount,
	)
}

// cronLogger adapts logging.Logger to cron.Logger.
type cronLogger struct {
	logger *logging.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
