package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/riskibarqy/league-insights/internal/domain/ingestion"
	"github.com/riskibarqy/league-insights/internal/platform/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingJob struct {
	runs atomic.Int32
	hold time.Duration
}

func (j *countingJob) Run(ctx context.Context) (ingestion.Summary, error) {
	j.runs.Add(1)
	select {
	case <-time.After(j.hold):
	case <-ctx.Done():
	}
	return ingestion.Summary{SuccessCount: 1}, nil
}

func TestNew_RejectsInvalidSpec(t *testing.T) {
	_, err := New(&countingJob{}, Config{Spec: "every sunday"}, logging.NewNop())
	require.Error(t, err)

	_, err = New(nil, Config{}, logging.NewNop())
	require.Error(t, err)
}

func TestNew_DefaultSpecIsWeekly(t *testing.T) {
	s, err := New(&countingJob{}, Config{}, logging.NewNop())
	require.NoError(t, err)

	entries := s.cron.Entries()
	require.Len(t, entries, 1)

	from := time.Date(2026, 10, 18, 3, 0, 0, 0, time.UTC)
	next := entries[0].Schedule.Next(from)
	assert.Equal(t, time.Date(2026, 10, 25, 2, 39, 0, 0, time.UTC), next.UTC())
}

func TestScheduler_TriggersAndSkipsOverlap(t *testing.T) {
	job := &countingJob{hold: 3 * time.Second}
	s, err := New(job, Config{Spec: "@every 1s"}, logging.NewNop())
	require.NoError(t, err)

	s.Start(context.Background())
	time.Sleep(2300 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))

	assert.Equal(t, int32(1), job.runs.Load())
}
