package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/league-insights/internal/domain/ingestion"
	"github.com/riskibarqy/league-insights/internal/domain/snapshot"
	"github.com/riskibarqy/league-insights/internal/platform/id"
	"github.com/riskibarqy/league-insights/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

// MatchesFetcher returns the raw competition matches document for a league.
type MatchesFetcher interface {
	FetchCompetitionMatches(ctx context.Context, leagueCode string) ([]byte, error)
}

// SnapshotInvalidator is told when a league snapshot has been replaced.
type SnapshotInvalidator interface {
	InvalidateLeague(ctx context.Context, leagueCode string)
}

type IngestionServiceConfig struct {
	Leagues       []string
	MaxWorkers    int
	LeagueTimeout time.Duration
}

type IngestionService struct {
	fetcher     MatchesFetcher
	blobs       snapshot.BlobStore
	runs        ingestion.Repository
	invalidator SnapshotInvalidator
	ids         id.Generator
	cfg         IngestionServiceConfig
	logger      *logging.Logger
	now         func() time.Time
	running     sync.Mutex
}

func NewIngestionService(
	fetcher MatchesFetcher,
	blobs snapshot.BlobStore,
	runs ingestion.Repository,
	invalidator SnapshotInvalidator,
	ids id.Generator,
	cfg IngestionServiceConfig,
	logger *logging.Logger,
) *IngestionService {
	if logger == nil {
		logger = logging.Default()
	}
	if ids == nil {
		ids = id.NewRunIDGenerator("")
	}
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = 1
	}
	if cfg.LeagueTimeout <= 0 {
		cfg.LeagueTimeout = 45 * time.Second
	}

	return &IngestionService{
		fetcher:     fetcher,
		blobs:       blobs,
		runs:        runs,
		invalidator: invalidator,
		ids:         ids,
		cfg:         cfg,
		logger:      logger,
		now:         time.Now,
	}
}

// Run fetches every configured league and stores its snapshot under today's
// key. A failing league is recorded and logged without stopping the others.
// Only one run is active at a time; an overlapping call waits for it.
func (s *IngestionService) Run(ctx context.Context) (summary ingestion.Summary, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IngestionService.Run", attribute.Int("leagues", len(s.cfg.Leagues)))
	defer func() { endUsecaseSpan(span, err) }()

	s.running.Lock()
	defer s.running.Unlock()

	summary = ingestion.Summary{StartedAt: s.now().UTC()}
	if len(s.cfg.Leagues) == 0 {
		summary.FinishedAt = s.now().UTC()
		return summary, nil
	}

	workerCount := s.cfg.MaxWorkers
	if workerCount > len(s.cfg.Leagues) {
		workerCount = len(s.cfg.Leagues)
	}
	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return ingestion.Summary{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	results := make(chan ingestion.Run, len(s.cfg.Leagues))
	var workers sync.WaitGroup
	for _, league := range s.cfg.Leagues {
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()
			results <- s.ingestLeague(ctx, league)
		}); err != nil {
			workers.Done()
			return ingestion.Summary{}, fmt.Errorf("submit league %s to worker pool: %w", league, err)
		}
	}

	workers.Wait()
	close(results)

	for run := range results {
		switch run.Status {
		case ingestion.StatusSuccess:
			summary.SuccessCount++
		default:
			summary.FailedCount++
		}
		summary.Runs = append(summary.Runs, run)
	}
	order := make(map[string]int, len(s.cfg.Leagues))
	for idx, league := range s.cfg.Leagues {
		order[league] = idx
	}
	sort.SliceStable(summary.Runs, func(i, j int) bool {
		return order[summary.Runs[i].LeagueCode] < order[summary.Runs[j].LeagueCode]
	})

	summary.FinishedAt = s.now().UTC()
	s.logger.InfoContext(ctx, "ingestion finished",
		"success", summary.SuccessCount,
		"failed", summary.FailedCount,
		"duration", summary.FinishedAt.Sub(summary.StartedAt),
	)
	return summary, nil
}

// ListRuns returns recent ledger entries, optionally for one league.
func (s *IngestionService) ListRuns(ctx context.Context, leagueCode string, limit int) (runs []ingestion.Run, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IngestionService.ListRuns")
	defer func() { endUsecaseSpan(span, err) }()

	if leagueCode != "" {
		code, ok := snapshot.NormalizeLeague(leagueCode)
		if !ok {
			return nil, fmt.Errorf("%w: league code %q must be alphanumeric", ErrInvalidInput, leagueCode)
		}
		leagueCode = code
	}
	if limit < 0 {
		return nil, fmt.Errorf("%w: limit must not be negative", ErrInvalidInput)
	}

	runs, err = s.runs.ListRecent(ctx, leagueCode, limit)
	if err != nil {
		return nil, fmt.Errorf("list ingestion runs: %w", err)
	}
	return runs, nil
}

func (s *IngestionService) ingestLeague(parent context.Context, league string) ingestion.Run {
	started := s.now().UTC()
	run := ingestion.Run{
		LeagueCode: league,
		BlobKey:    snapshot.Key(league, started),
		StartedAt:  started,
	}
	runID, err := s.ids.NewID()
	if err != nil {
		s.logger.WarnContext(parent, "generate run id failed", "league", league, "error", err)
		runID = fmt.Sprintf("run_%s_%d", league, started.UnixNano())
	}
	run.ID = runID

	ctx, cancel := context.WithTimeout(parent, s.cfg.LeagueTimeout)
	defer cancel()
	ctx, span := startUsecaseSpan(ctx, "usecase.IngestionService.ingestLeague",
		attribute.String("league", league),
		attribute.String("key", run.BlobKey),
	)

	err = s.fetchAndStore(ctx, &run)
	endUsecaseSpan(span, err)

	run.FinishedAt = s.now().UTC()
	if err != nil {
		run.Status = ingestion.StatusFailed
		run.ErrorMessage = err.Error()
		s.logger.ErrorContext(parent, "league ingestion failed", "league", league, "key", run.BlobKey, "error", err)
	} else {
		run.Status = ingestion.StatusSuccess
		s.logger.InfoContext(parent, "league snapshot stored",
			"league", league,
			"key", run.BlobKey,
			"bytes", run.PayloadBytes,
			"matches", run.MatchCount,
		)
		if s.invalidator != nil {
			s.invalidator.InvalidateLeague(parent, league)
		}
	}

	if s.runs != nil {
		if err := s.runs.Insert(context.WithoutCancel(parent), run); err != nil {
			s.logger.WarnContext(parent, "record ingestion run failed", "league", league, "run_id", run.ID, "error", err)
		}
	}
	return run
}

func (s *IngestionService) fetchAndStore(ctx context.Context, run *ingestion.Run) error {
	body, err := s.fetcher.FetchCompetitionMatches(ctx, run.LeagueCode)
	if err != nil {
		return err
	}
	run.PayloadBytes = len(body)
	run.MatchCount = countMatches(body)

	if err := s.blobs.Put(ctx, run.BlobKey, body); err != nil {
		return fmt.Errorf("put snapshot %s: %w", run.BlobKey, err)
	}
	return nil
}

func countMatches(body []byte) int {
	node, err := sonic.Get(body, "matches")
	if err != nil {
		return 0
	}
	// Get hands back a raw node; Len only counts children once they are loaded.
	if err := node.LoadAll(); err != nil {
		return 0
	}
	n, err := node.Len()
	if err != nil {
		return 0
	}
	return n
}
