package observability

import (
	"strings"

	"github.com/grafana/pyroscope-go"
	"github.com/riskibarqy/league-insights/internal/config"
	"github.com/riskibarqy/league-insights/internal/platform/logging"
)

// InitPyroscope starts continuous profiling for one league-insights binary.
// Chart rendering and payload decoding dominate CPU and allocations, so those
// profiles are always collected alongside heap and goroutine snapshots.
func InitPyroscope(cfg config.Config, component Component, logger *logging.Logger) (func() error, error) {
	if logger == nil {
		logger = logging.Default()
	}

	if !cfg.PyroscopeEnabled {
		logger.Info("pyroscope disabled", "component", string(component), "reason", "PYROSCOPE_ENABLED=false")
		return func() error { return nil }, nil
	}

	pcfg := pyroscopeConfig(cfg, component)
	profiler, err := pyroscope.Start(pcfg)
	if err != nil {
		return nil, err
	}

	logger.Info("pyroscope enabled",
		"server_address", cfg.PyroscopeServerAddress,
		"application", pcfg.ApplicationName,
		"component", string(component),
	)

	return profiler.Stop, nil
}

func pyroscopeConfig(cfg config.Config, component Component) pyroscope.Config {
	appName := strings.TrimSpace(cfg.PyroscopeAppName)
	if appName == "" || appName == cfg.ServiceName {
		appName = ServiceName(cfg, component)
	}

	return pyroscope.Config{
		ApplicationName:   appName,
		ServerAddress:     cfg.PyroscopeServerAddress,
		AuthToken:         cfg.PyroscopeAuthToken,
		BasicAuthUser:     cfg.PyroscopeBasicAuthUser,
		BasicAuthPassword: cfg.PyroscopeBasicAuthPassword,
		UploadRate:        cfg.PyroscopeUploadRate,
		Tags: map[string]string{
			"env":       cfg.AppEnv,
			"service":   ServiceName(cfg, component),
			"component": string(component),
			"version":   cfg.ServiceVersion,
			"leagues":   strings.Join(cfg.IngestLeagues, ","),
		},
		ProfileTypes: []pyroscope.ProfileType{
			pyroscope.ProfileCPU,
			pyroscope.ProfileAllocObjects,
			pyroscope.ProfileAllocSpace,
			pyroscope.ProfileInuseSpace,
			pyroscope.ProfileGoroutines,
		},
	}
}
