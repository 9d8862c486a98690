package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/league-insights/internal/domain/ingestion"
	qb "github.com/riskibarqy/league-insights/internal/platform/querybuilder"
)

const maxListLimit = 200

type IngestionRunRepository struct {
	db *sqlx.DB
}

func NewIngestionRunRepository(db *sqlx.DB) *IngestionRunRepository {
	return &IngestionRunRepository{db: db}
}

func (r *IngestionRunRepository) Insert(ctx context.Context, run ingestion.Run) error {
	if strings.TrimSpace(run.ID) == "" {
		return fmt.Errorf("ingestion run id is required")
	}

	query, args, err := qb.InsertModel(ingestionRunsTable, toIngestionRunModel(run), "ON CONFLICT (id) DO NOTHING")
	if err != nil {
		return fmt.Errorf("build insert ingestion run query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert ingestion run id=%s league=%s: %w", run.ID, run.LeagueCode, err)
	}
	return nil
}

// ListRecent returns the newest runs first. An empty leagueCode lists every league.
func (r *IngestionRunRepository) ListRecent(ctx context.Context, leagueCode string, limit int) ([]ingestion.Run, error) {
	cols, err := qb.Columns(ingestionRunModel{})
	if err != nil {
		return nil, fmt.Errorf("resolve ingestion run columns: %w", err)
	}

	var leagueFilter qb.Condition
	if leagueCode = strings.TrimSpace(leagueCode); leagueCode != "" {
		leagueFilter = qb.Eq("league_code", leagueCode)
	}

	query, args, err := qb.Select(cols...).
		From(ingestionRunsTable).
		Where(leagueFilter).
		OrderBy("started_at DESC", "id DESC").
		Limit(clampLimit(limit)).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list ingestion runs query: %w", err)
	}

	var rows []ingestionRunModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list ingestion runs league=%s: %w", leagueCode, err)
	}

	out := make([]ingestion.Run, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}
