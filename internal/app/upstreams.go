package app

import (
	"net/http"

	"github.com/riskibarqy/brawl-tracker/external/brawlify"
	"github.com/riskibarqy/brawl-tracker/external/brawlstars"
	"github.com/riskibarqy/brawl-tracker/external/mirror"
	"github.com/riskibarqy/brawl-tracker/external/profilescrape"
	"github.com/riskibarqy/brawl-tracker/internal/config"
	"github.com/riskibarqy/brawl-tracker/internal/platform/logging"
	"github.com/riskibarqy/brawl-tracker/internal/platform/metrics"
	"github.com/riskibarqy/brawl-tracker/internal/platform/resilience"
	"github.com/riskibarqy/brawl-tracker/internal/usecase"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type upstreams struct {
	provider usecase.BrawlDataProvider
	// pages and mirrors stay nil when their source is not configured.
	pages    usecase.ProfilePageSource
	mirrors  usecase.RankedMirrorSource
	tierList usecase.TierListSource
}

func buildUpstreams(cfg config.Config, logger *logging.Logger, m *metrics.Manager) upstreams {
	onState := circuitStateListener(logger, m)
	httpClient := &http.Client{
		Timeout:   cfg.UpstreamTimeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}

	out := upstreams{
		provider: brawlstars.NewClient(brawlstars.ClientConfig{
			HTTPClient:     httpClient,
			BaseURL:        cfg.BrawlAPIBaseURL,
			Token:          cfg.BrawlAPIToken,
			Timeout:        cfg.UpstreamTimeout,
			MaxRetries:     cfg.BrawlAPIMaxRetries,
			CacheTTL:       cfg.BrawlAPICacheTTL,
			Logger:         logger,
			Metrics:        m,
			CircuitBreaker: cfg.BrawlAPICircuit,
			OnCircuitState: onState,
		}),
		tierList: brawlify.NewClient(brawlify.ClientConfig{
			HTTPClient:     httpClient,
			BaseURL:        cfg.BrawlifyBaseURL,
			Timeout:        cfg.UpstreamTimeout,
			Logger:         logger,
			Metrics:        m,
			CircuitBreaker: cfg.BrawlifyCircuit,
			OnCircuitState: onState,
		}),
	}
	if cfg.BrawlAPIToken == "" {
		logger.Warn("BRAWL_API_TOKEN not set; primary API calls will be rejected upstream")
	}

	if cfg.ScrapeBaseURL != "" {
		out.pages = profilescrape.NewClient(profilescrape.ClientConfig{
			BaseURL:        cfg.ScrapeBaseURL,
			Timeout:        cfg.UpstreamTimeout,
			RateInterval:   cfg.ScrapeRateInterval,
			Logger:         logger,
			Metrics:        m,
			CircuitBreaker: cfg.ScrapeCircuit,
			OnCircuitState: onState,
		})
	} else {
		logger.Info("profile scraping disabled", "reason", "SCRAPE_BASE_URL empty")
	}

	if len(cfg.MirrorBaseURLs) > 0 {
		out.mirrors = mirror.NewClient(mirror.ClientConfig{
			HTTPClient:     httpClient,
			BaseURLs:       cfg.MirrorBaseURLs,
			APIKeys:        mirror.ParseAPIKeys(cfg.MirrorAPIKeys),
			Timeout:        cfg.UpstreamTimeout,
			Logger:         logger,
			Metrics:        m,
			CircuitBreaker: cfg.MirrorCircuit,
			OnCircuitState: onState,
		})
	}
	return out
}

// circuitStateListener logs breaker transitions and exports the new state as a gauge.
func circuitStateListener(logger *logging.Logger, m *metrics.Manager) resilience.StateListener {
	return func(name string, from, to resilience.CircuitState) {
		logger.Warn("circuit breaker state changed", "client", name, "from", string(from), "to", string(to))
		m.SetCircuitState(name, circuitStateValue(to))
	}
}

func circuitStateValue(state resilience.CircuitState) int {
	switch state {
	case resilience.CircuitStateHalfOpen:
		return 1
	case resilience.CircuitStateOpen:
		return 2
	default:
		return 0
	}
}
