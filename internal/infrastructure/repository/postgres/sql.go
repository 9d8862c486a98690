package postgres

import (
	"database/sql"
	"strings"
)

func nullString(value string) sql.NullString {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: trimmed, Valid: true}
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return 20
	case limit > maxListLimit:
		return maxListLimit
	default:
		return limit
	}
}
