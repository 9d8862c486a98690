package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/riskibarqy/league-insights/internal/app"
	"github.com/riskibarqy/league-insights/internal/config"
	"github.com/riskibarqy/league-insights/internal/observability"
	"github.com/riskibarqy/league-insights/internal/platform/logging"
)

func main() {
	once := flag.Bool("once", false, "run the ingestion job immediately and exit")
	flag.Parse()

	config.LoadDotEnv()
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	cfg.ServiceName = observability.ServiceName(cfg, observability.ComponentIngest)

	logger := logging.NewJSON(cfg.LogLevel, cfg.ServiceName)
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	shutdownTelemetry, err := observability.InitUptrace(cfg, observability.ComponentIngest, logger)
	if err != nil {
		logger.Error("init uptrace", "error", err)
		os.Exit(1)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTelemetry(ctx); err != nil {
			logger.Warn("shutdown uptrace", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("build app", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := application.Close(); err != nil {
			logger.Warn("close app resources", "error", err)
		}
	}()

	if *once {
		summary, err := application.Ingestion().Run(ctx)
		if err != nil {
			logger.Error("ingestion failed", "error", err)
			os.Exit(1)
		}
		if summary.FailedCount > 0 {
			logger.Warn("ingestion finished with failures", "success", summary.SuccessCount, "failed", summary.FailedCount)
		}
		return
	}

	sched, err := application.NewScheduler()
	if err != nil {
		logger.Error("build scheduler", "error", err)
		os.Exit(1)
	}
	sched.Start(ctx)
	logger.Info("ingestion scheduler running", "schedule", cfg.IngestSchedule, "leagues", cfg.IngestLeagues)

	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), cfg.IngestLeagueTimeout+10*time.Second)
	defer cancel()
	if err := sched.Stop(stopCtx); err != nil {
		logger.Warn("scheduler stop timed out", "error", err)
	}
	logger.Info("ingestion scheduler stopped")
}
