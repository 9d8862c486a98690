package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/riskibarqy/league-insights/internal/domain/analytics"
	"github.com/riskibarqy/league-insights/internal/domain/match"
	"github.com/riskibarqy/league-insights/internal/domain/snapshot"
	"github.com/riskibarqy/league-insights/internal/platform/cache"
	"github.com/riskibarqy/league-insights/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

// ChartRenderer draws the league charts and returns their public paths.
type ChartRenderer interface {
	RenderCharts(ctx context.Context, leagueCode, competition string, report analytics.Report) ([]string, error)
}

type InsightServiceConfig struct {
	CacheEnabled bool
	CacheTTL     time.Duration
}

// ResolvedSnapshot is a decoded league snapshot with its aggregates.
type ResolvedSnapshot struct {
	LeagueCode string
	Key        string
	Fallback   bool
	Snapshot   match.Snapshot
	Report     analytics.Report
}

type Visualizations struct {
	Images    []string                `json:"images"`
	Standings []analytics.StandingRow `json:"standings"`
}

type LeagueAggregates struct {
	LeagueCode  string           `json:"league"`
	Competition string           `json:"competition,omitempty"`
	SnapshotKey string           `json:"snapshot_key"`
	FetchedOn   string           `json:"fetched_on,omitempty"`
	Fallback    bool             `json:"fallback"`
	MatchCount  int              `json:"match_count"`
	Aggregates  analytics.Report `json:"aggregates"`
}

type InsightService struct {
	blobs    snapshot.BlobStore
	renderer ChartRenderer
	cache    *cache.Store[ResolvedSnapshot]
	logger   *logging.Logger
	now      func() time.Time
}

func NewInsightService(
	blobs snapshot.BlobStore,
	renderer ChartRenderer,
	cfg InsightServiceConfig,
	logger *logging.Logger,
) *InsightService {
	if logger == nil {
		logger = logging.Default()
	}

	svc := &InsightService{
		blobs:    blobs,
		renderer: renderer,
		logger:   logger,
		now:      time.Now,
	}
	if cfg.CacheEnabled && cfg.CacheTTL > 0 {
		svc.cache = cache.NewStore[ResolvedSnapshot](cfg.CacheTTL)
	}
	return svc
}

// Visualizations renders the league charts from the resolved snapshot and
// returns their paths with the league table.
func (s *InsightService) Visualizations(ctx context.Context, leagueCode string) (result Visualizations, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.InsightService.Visualizations", attribute.String("league", leagueCode))
	defer func() { endUsecaseSpan(span, err) }()

	resolved, err := s.ResolveSnapshot(ctx, leagueCode)
	if err != nil {
		return Visualizations{}, err
	}

	images, err := s.renderer.RenderCharts(ctx, resolved.LeagueCode, resolved.Snapshot.Competition.Name, resolved.Report)
	if err != nil {
		s.logger.ErrorContext(ctx, "render charts failed", "league", resolved.LeagueCode, "key", resolved.Key, "error", err)
		return Visualizations{}, fmt.Errorf("%w: league=%s: %w", ErrRendering, resolved.LeagueCode, err)
	}

	return Visualizations{
		Images:    images,
		Standings: resolved.Report.Standings,
	}, nil
}

func (s *InsightService) Aggregates(ctx context.Context, leagueCode string) (result LeagueAggregates, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.InsightService.Aggregates", attribute.String("league", leagueCode))
	defer func() { endUsecaseSpan(span, err) }()

	resolved, err := s.ResolveSnapshot(ctx, leagueCode)
	if err != nil {
		return LeagueAggregates{}, err
	}

	var fetchedOn string
	if _, day, keyErr := snapshot.ParseKey(resolved.Key); keyErr == nil {
		fetchedOn = day.Format(time.DateOnly)
	}

	return LeagueAggregates{
		LeagueCode:  resolved.LeagueCode,
		Competition: resolved.Snapshot.Competition.Name,
		SnapshotKey: resolved.Key,
		FetchedOn:   fetchedOn,
		Fallback:    resolved.Fallback,
		MatchCount:  len(resolved.Snapshot.Matches),
		Aggregates:  resolved.Report,
	}, nil
}

// ResolveSnapshot loads today's snapshot for the league, falling back to the
// most recently modified one when today's is absent or has no matches.
func (s *InsightService) ResolveSnapshot(ctx context.Context, leagueCode string) (ResolvedSnapshot, error) {
	code, ok := snapshot.NormalizeLeague(leagueCode)
	if !ok {
		return ResolvedSnapshot{}, fmt.Errorf("%w: league code %q must be alphanumeric", ErrInvalidInput, leagueCode)
	}

	today := s.now().UTC()
	if s.cache == nil {
		return s.loadSnapshot(ctx, code, today)
	}
	return s.cache.GetOrLoad(ctx, snapshotCacheKey(code, today), func(ctx context.Context) (ResolvedSnapshot, error) {
		return s.loadSnapshot(ctx, code, today)
	})
}

// InvalidateLeague drops cached snapshots of the league.
func (s *InsightService) InvalidateLeague(ctx context.Context, leagueCode string) {
	if s.cache == nil {
		return
	}
	if n := s.cache.DeletePrefix(ctx, snapshotCachePrefix(leagueCode)); n > 0 {
		s.logger.DebugContext(ctx, "snapshot cache invalidated", "league", leagueCode, "entries", n)
	}
}

func (s *InsightService) loadSnapshot(ctx context.Context, code string, today time.Time) (ResolvedSnapshot, error) {
	key := snapshot.Key(code, today)
	raw, err := s.blobs.Get(ctx, key)
	switch {
	case err == nil:
		parsed, parseErr := match.ParseSnapshot(raw)
		if parseErr == nil {
			return newResolvedSnapshot(code, key, false, parsed), nil
		}
		if !errors.Is(parseErr, match.ErrMissingMatches) {
			s.logger.ErrorContext(ctx, "decode snapshot failed", "league", code, "key", key, "error", parseErr)
			return ResolvedSnapshot{}, fmt.Errorf("%w: %s: %w", ErrMalformedSnapshot, key, parseErr)
		}
		s.logger.WarnContext(ctx, "today's snapshot has no matches, falling back", "league", code, "key", key)
	case errors.Is(err, snapshot.ErrBlobNotFound):
	default:
		s.logger.ErrorContext(ctx, "get snapshot failed", "league", code, "key", key, "error", err)
		return ResolvedSnapshot{}, fmt.Errorf("get snapshot %s: %w", key, err)
	}

	prefix := snapshot.KeyPrefix(code)
	objects, err := s.blobs.List(ctx, prefix)
	if err != nil {
		s.logger.ErrorContext(ctx, "list snapshots failed", "league", code, "prefix", prefix, "error", err)
		return ResolvedSnapshot{}, fmt.Errorf("list snapshots %s: %w", prefix, err)
	}
	latest, ok := snapshot.Latest(objects)
	if !ok {
		return ResolvedSnapshot{}, fmt.Errorf("%w: no files found for league %s", ErrSnapshotNotFound, code)
	}

	raw, err = s.blobs.Get(ctx, latest.Key)
	if errors.Is(err, snapshot.ErrBlobNotFound) {
		return ResolvedSnapshot{}, fmt.Errorf("%w: snapshot %s disappeared", ErrSnapshotNotFound, latest.Key)
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "get snapshot failed", "league", code, "key", latest.Key, "error", err)
		return ResolvedSnapshot{}, fmt.Errorf("get snapshot %s: %w", latest.Key, err)
	}

	parsed, err := match.ParseSnapshot(raw)
	if err != nil {
		s.logger.ErrorContext(ctx, "decode snapshot failed", "league", code, "key", latest.Key, "error", err)
		return ResolvedSnapshot{}, fmt.Errorf("%w: %s: %w", ErrMalformedSnapshot, latest.Key, err)
	}

	s.logger.InfoContext(ctx, "using fallback snapshot", "league", code, "key", latest.Key, "modified_at", latest.LastModified)
	return newResolvedSnapshot(code, latest.Key, true, parsed), nil
}

func newResolvedSnapshot(code, key string, fallback bool, parsed match.Snapshot) ResolvedSnapshot {
	return ResolvedSnapshot{
		LeagueCode: code,
		Key:        key,
		Fallback:   fallback,
		Snapshot:   parsed,
		Report:     analytics.Compute(parsed.Matches),
	}
}

func snapshotCachePrefix(code string) string {
	return "snapshot:" + code + ":"
}

func snapshotCacheKey(code string, day time.Time) string {
	return snapshotCachePrefix(code) + day.UTC().Format("20060102")
}
