package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/riskibarqy/league-insights/external/footballdata"
	"github.com/riskibarqy/league-insights/internal/config"
	"github.com/riskibarqy/league-insights/internal/domain/ingestion"
	"github.com/riskibarqy/league-insights/internal/domain/snapshot"
	"github.com/riskibarqy/league-insights/internal/infrastructure/blobstore/memstore"
	"github.com/riskibarqy/league-insights/internal/infrastructure/blobstore/redisstore"
	"github.com/riskibarqy/league-insights/internal/infrastructure/blobstore/s3store"
	"github.com/riskibarqy/league-insights/internal/infrastructure/render"
	"github.com/riskibarqy/league-insights/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/league-insights/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/league-insights/internal/interfaces/httpapi"
	"github.com/riskibarqy/league-insights/internal/interfaces/scheduler"
	"github.com/riskibarqy/league-insights/internal/platform/id"
	"github.com/riskibarqy/league-insights/internal/platform/logging"
	"github.com/riskibarqy/league-insights/internal/usecase"
)

const dependencyPingTimeout = 5 * time.Second

// App holds the wired services shared by the api and ingest binaries.
type App struct {
	cfg       config.Config
	logger    *logging.Logger
	blobs     snapshot.BlobStore
	runs      ingestion.Repository
	renderer  *render.Renderer
	insights  *usecase.InsightService
	ingestion *usecase.IngestionService
	closers   []func() error
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	a := &App{cfg: cfg, logger: logger}

	blobs, err := a.openBlobStore(ctx)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	a.blobs = blobs

	runs, err := a.openRunRepository(ctx)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	a.runs = runs

	renderer, err := render.New(render.Config{Dir: cfg.StaticImagesDir, Logger: logger})
	if err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("create renderer: %w", err)
	}
	a.renderer = renderer

	a.insights = usecase.NewInsightService(blobs, renderer, usecase.InsightServiceConfig{
		CacheEnabled: cfg.CacheEnabled,
		CacheTTL:     cfg.CacheTTL,
	}, logger)

	fetcher := footballdata.NewClient(footballdata.ClientConfig{
		BaseURL:        cfg.FootballDataBaseURL,
		Token:          cfg.FootballDataToken,
		Timeout:        cfg.FootballDataTimeout,
		MaxRetries:     cfg.FootballDataMaxRetries,
		Logger:         logger,
		CircuitBreaker: cfg.FootballDataCircuit,
	})
	a.ingestion = usecase.NewIngestionService(
		fetcher,
		blobs,
		runs,
		a.insights,
		id.NewRunIDGenerator("run"),
		usecase.IngestionServiceConfig{
			Leagues:       cfg.IngestLeagues,
			MaxWorkers:    cfg.IngestMaxWorkers,
			LeagueTimeout: cfg.IngestLeagueTimeout,
		},
		logger,
	)

	logger.InfoContext(ctx, "app wired",
		"blob_backend", cfg.BlobBackend,
		"db_enabled", cfg.DBEnabled,
		"cache_enabled", cfg.CacheEnabled,
		"leagues", strings.Join(cfg.IngestLeagues, ","),
	)
	return a, nil
}

func (a *App) Ingestion() *usecase.IngestionService { return a.ingestion }

func (a *App) NewHTTPServer() (*http.Server, error) {
	handler := httpapi.NewHandler(a.insights, a.ingestion, a.renderer.Dir(), a.logger)
	router := httpapi.NewRouter(handler, a.logger, a.cfg.CORSAllowedOrigins, a.cfg.InternalJobToken)

	server := &http.Server{
		Addr:              a.cfg.HTTPAddr,
		Handler:           router,
		ReadTimeout:       a.cfg.ReadTimeout,
		ReadHeaderTimeout: a.cfg.ReadTimeout,
		WriteTimeout:      a.cfg.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, nil
}

func (a *App) NewScheduler() (*scheduler.Scheduler, error) {
	return scheduler.New(a.ingestion, scheduler.Config{Spec: a.cfg.IngestSchedule}, a.logger)
}

// Close releases backing connections in reverse order of opening.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) openBlobStore(ctx context.Context) (snapshot.BlobStore, error) {
	switch a.cfg.BlobBackend {
	case config.BlobBackendS3:
		store, err := s3store.New(ctx, s3store.Config{
			Bucket:       a.cfg.S3Bucket,
			Region:       a.cfg.S3Region,
			Endpoint:     a.cfg.S3Endpoint,
			UsePathStyle: a.cfg.S3UsePathStyle,
		})
		if err != nil {
			return nil, fmt.Errorf("open s3 blob store: %w", err)
		}
		return store, nil
	case config.BlobBackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     a.cfg.RedisAddr,
			Password: a.cfg.RedisPassword,
			DB:       a.cfg.RedisDB,
		})
		a.closers = append(a.closers, client.Close)

		pingCtx, cancel := context.WithTimeout(ctx, dependencyPingTimeout)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			return nil, fmt.Errorf("ping redis %s: %w", a.cfg.RedisAddr, err)
		}
		return redisstore.New(client, a.cfg.RedisKeyPrefix), nil
	default:
		a.logger.WarnContext(ctx, "using in-memory blob store; snapshots are lost on restart")
		return memstore.NewStore(), nil
	}
}

func (a *App) openRunRepository(ctx context.Context) (ingestion.Repository, error) {
	if !a.cfg.DBEnabled {
		return memory.NewIngestionRunRepository(0), nil
	}

	db, err := openPostgres(ctx, a.cfg)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, db.Close)
	return postgres.NewIngestionRunRepository(db), nil
}
