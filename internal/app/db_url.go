package app

import (
	"net/url"
	"strings"

	"github.com/riskibarqy/league-insights/internal/config"
)

const defaultLedgerDBName = "league_insights"

type dsnParam struct {
	key   string
	value string
}

// ledgerDSN prepares cfg.DBURL for the ingestion ledger connection. The
// connection is tagged with the service name so api and ingest sessions can
// be told apart in pg_stat_activity. Parameters already present in the DSN win.
func ledgerDSN(cfg config.Config) string {
	raw := strings.TrimSpace(cfg.DBURL)

	var defaults []dsnParam
	if name := strings.TrimSpace(cfg.ServiceName); name != "" && !strings.ContainsAny(name, " '\\") {
		defaults = append(defaults, dsnParam{key: "application_name", value: name})
	}
	if cfg.DBDisablePreparedBinary {
		defaults = append(defaults, dsnParam{key: "disable_prepared_binary_result", value: "yes"})
	}
	if raw == "" || len(defaults) == 0 {
		return raw
	}

	if parsed, ok := parseURLDSN(raw); ok {
		query := parsed.Query()
		for _, p := range defaults {
			if query.Get(p.key) == "" {
				query.Set(p.key, p.value)
			}
		}
		parsed.RawQuery = query.Encode()
		return parsed.String()
	}

	existing := keywordDSN(raw)
	out := raw
	for _, p := range defaults {
		if _, ok := existing[p.key]; ok {
			continue
		}
		out += " " + p.key + "=" + p.value
	}
	return out
}

// ledgerDBName reports the database the ledger writes to, for span attributes.
func ledgerDBName(dsn string) string {
	if parsed, ok := parseURLDSN(dsn); ok {
		if name := strings.TrimSpace(strings.TrimPrefix(parsed.Path, "/")); name != "" {
			return name
		}
		return defaultLedgerDBName
	}
	if name := keywordDSN(dsn)["dbname"]; name != "" {
		return name
	}
	return defaultLedgerDBName
}

func parseURLDSN(raw string) (*url.URL, bool) {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || parsed == nil {
		return nil, false
	}
	if parsed.Scheme != "postgres" && parsed.Scheme != "postgresql" {
		return nil, false
	}
	return parsed, true
}

// keywordDSN reads a libpq "key=value key=value" string. Quoted values with
// embedded spaces are not supported.
func keywordDSN(raw string) map[string]string {
	params := make(map[string]string)
	for _, token := range strings.Fields(raw) {
		key, value, ok := strings.Cut(token, "=")
		if !ok || key == "" {
			continue
		}
		params[key] = strings.Trim(value, `"'`)
	}
	return params
}
