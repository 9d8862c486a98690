package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/league-insights/internal/domain/ingestion"
)

const defaultListLimit = 20

// IngestionRunRepository keeps the run ledger in process memory for
// deployments without a database.
type IngestionRunRepository struct {
	mu   sync.RWMutex
	runs []ingestion.Run
	max  int
}

func NewIngestionRunRepository(maxRuns int) *IngestionRunRepository {
	if maxRuns <= 0 {
		maxRuns = 500
	}
	return &IngestionRunRepository{max: maxRuns}
}

func (r *IngestionRunRepository) Insert(_ context.Context, run ingestion.Run) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.runs {
		if existing.ID == run.ID {
			return nil
		}
	}
	r.runs = append(r.runs, run)
	if overflow := len(r.runs) - r.max; overflow > 0 {
		r.runs = append([]ingestion.Run(nil), r.runs[overflow:]...)
	}
	return nil
}

func (r *IngestionRunRepository) ListRecent(_ context.Context, leagueCode string, limit int) ([]ingestion.Run, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	r.mu.RLock()
	out := make([]ingestion.Run, 0, len(r.runs))
	for _, run := range r.runs {
		if leagueCode == "" || run.LeagueCode == leagueCode {
			out = append(out, run)
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].StartedAt.Equal(out[j].StartedAt) {
			return out[i].StartedAt.After(out[j].StartedAt)
		}
		return out[i].ID > out[j].ID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
