package postgres

import (
	"database/sql"
	"time"

	"github.com/riskibarqy/league-insights/internal/domain/ingestion"
)

const ingestionRunsTable = "ingestion_runs"

type ingestionRunModel struct {
	ID           string         `db:"id"`
	LeagueCode   string         `db:"league_code"`
	BlobKey      string         `db:"blob_key"`
	Status       string         `db:"status"`
	ErrorMessage sql.NullString `db:"error_message"`
	PayloadBytes int            `db:"payload_bytes"`
	MatchCount   int            `db:"match_count"`
	StartedAt    time.Time      `db:"started_at"`
	FinishedAt   time.Time      `db:"finished_at"`
}

func toIngestionRunModel(run ingestion.Run) ingestionRunModel {
	return ingestionRunModel{
		ID:           run.ID,
		LeagueCode:   run.LeagueCode,
		BlobKey:      run.BlobKey,
		Status:       run.Status,
		ErrorMessage: nullString(run.ErrorMessage),
		PayloadBytes: run.PayloadBytes,
		MatchCount:   run.MatchCount,
		StartedAt:    run.StartedAt.UTC(),
		FinishedAt:   run.FinishedAt.UTC(),
	}
}

func (m ingestionRunModel) toDomain() ingestion.Run {
	return ingestion.Run{
		ID:           m.ID,
		LeagueCode:   m.LeagueCode,
		BlobKey:      m.BlobKey,
		Status:       m.Status,
		ErrorMessage: m.ErrorMessage.String,
		PayloadBytes: m.PayloadBytes,
		MatchCount:   m.MatchCount,
		StartedAt:    m.StartedAt.UTC(),
		FinishedAt:   m.FinishedAt.UTC(),
	}
}
