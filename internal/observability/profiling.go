package observability

import (
	"context"
	"errors"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/grafana/pyroscope-go"
	"github.com/riskibarqy/brawl-tracker/internal/config"
	"github.com/riskibarqy/brawl-tracker/internal/platform/logging"
)

// Profiling owns the optional pprof listener and the Pyroscope agent.
type Profiling struct {
	logger   *logging.Logger
	pprof    *http.Server
	profiler *pyroscope.Profiler
}

// StartProfiling starts whichever of pprof and Pyroscope the config enables.
func StartProfiling(cfg config.Config, logger *logging.Logger) (*Profiling, error) {
	if logger == nil {
		logger = logging.Default()
	}
	p := &Profiling{logger: logger.Named("profiling")}

	if cfg.PprofEnabled {
		p.pprof = newPprofServer(cfg.PprofAddr)
		go func() {
			p.logger.Info("pprof server starting", "addr", cfg.PprofAddr)
			if err := p.pprof.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				p.logger.Error("pprof server failed", "error", err)
			}
		}()
	} else {
		p.logger.Info("pprof disabled", "reason", "PPROF_ENABLED=false")
	}

	if !cfg.PyroscopeEnabled {
		p.logger.Info("pyroscope disabled", "reason", "PYROSCOPE_ENABLED=false")
		return p, nil
	}
	profiler, err := pyroscope.Start(pyroscope.Config{
		ApplicationName:   cfg.PyroscopeAppName,
		ServerAddress:     cfg.PyroscopeServerAddress,
		AuthToken:         cfg.PyroscopeAuthToken,
		BasicAuthUser:     cfg.PyroscopeBasicAuthUser,
		BasicAuthPassword: cfg.PyroscopeBasicAuthPassword,
		UploadRate:        cfg.PyroscopeUploadRate,
		Tags: map[string]string{
			"env":     cfg.AppEnv,
			"service": cfg.ServiceName,
		},
		ProfileTypes: []pyroscope.ProfileType{
			pyroscope.ProfileCPU,
			pyroscope.ProfileAllocObjects,
			pyroscope.ProfileAllocSpace,
			pyroscope.ProfileInuseObjects,
			pyroscope.ProfileInuseSpace,
			pyroscope.ProfileGoroutines,
		},
	})
	if err != nil {
		_ = p.Stop(context.Background())
		return nil, err
	}
	p.profiler = profiler
	p.logger.Info("pyroscope enabled",
		"server_address", cfg.PyroscopeServerAddress,
		"application", cfg.PyroscopeAppName,
	)
	return p, nil
}

func newPprofServer(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)

	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// PprofHandler exposes the pprof listener's handler; nil when pprof is disabled.
func (p *Profiling) PprofHandler() http.Handler {
	if p == nil || p.pprof == nil {
		return nil
	}
	return p.pprof.Handler
}

// Stop shuts both down; it is safe on a nil or partially started value.
func (p *Profiling) Stop(ctx context.Context) error {
	if p == nil {
		return nil
	}

	var errs []error
	if p.pprof != nil {
		if err := p.pprof.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		} else {
			p.logger.Info("pprof server stopped")
		}
	}
	if p.profiler != nil {
		if err := p.profiler.Stop(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
