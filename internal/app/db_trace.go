package app

import (
	"strings"
	"unicode/utf8"

	"github.com/riskibarqy/league-insights/internal/config"
	"go.opentelemetry.io/otel/attribute"
)

const maxTracedQueryLength = 512

// ledgerQueryForTrace flattens a ledger statement into one line for span
// attributes. Line comments from the migration files are dropped and long
// statements are cut on a rune boundary.
func ledgerQueryForTrace(query string) string {
	var b strings.Builder
	for _, line := range strings.Split(query, "\n") {
		if idx := strings.Index(line, "--"); idx >= 0 {
			line = line[:idx]
		}
		for _, word := range strings.Fields(line) {
			if b.Len() > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(word)
		}
	}

	out := b.String()
	if len(out) <= maxTracedQueryLength {
		return out
	}
	cut := maxTracedQueryLength
	for cut > 0 && !utf8.RuneStart(out[cut]) {
		cut--
	}
	return out[:cut] + "..."
}

func ledgerTraceAttributes(cfg config.Config) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("league_insights.store", "ingestion_ledger"),
		attribute.String("deployment.environment", cfg.AppEnv),
	}
}
