package observability

import (
	"strings"

	"github.com/riskibarqy/league-insights/internal/config"
	"go.opentelemetry.io/otel/attribute"
)

// Component names the binary emitting telemetry.
type Component string

const (
	ComponentAPI    Component = "api"
	ComponentIngest Component = "ingest"
)

const defaultServiceBase = "league-insights"

// ServiceName derives the per-binary service name from APP_SERVICE_NAME, so
// "league-insights-api" becomes "league-insights-ingest" for the ingest job.
func ServiceName(cfg config.Config, component Component) string {
	base := strings.TrimSpace(cfg.ServiceName)
	for _, c := range []Component{ComponentAPI, ComponentIngest} {
		base = strings.TrimSuffix(base, "-"+string(c))
	}
	if base == "" {
		base = defaultServiceBase
	}
	if component == "" {
		return base
	}
	return base + "-" + string(component)
}

func resourceAttributes(cfg config.Config, component Component) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String("league_insights.component", string(component)),
		attribute.StringSlice("league_insights.leagues", cfg.IngestLeagues),
	}
	if component == ComponentIngest || cfg.IngestSchedulerEnabled {
		attrs = append(attrs, attribute.String("league_insights.ingest_schedule", cfg.IngestSchedule))
	}
	return attrs
}
