package brawlify

import (
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"sort"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/brawl-tracker/internal/domain/metatier"
	"github.com/riskibarqy/brawl-tracker/internal/domain/ranked"
	"github.com/riskibarqy/brawl-tracker/internal/platform/jsonvalue"
	"github.com/riskibarqy/brawl-tracker/internal/platform/logging"
	"github.com/riskibarqy/brawl-tracker/internal/platform/metrics"
	"github.com/riskibarqy/brawl-tracker/internal/platform/resilience"
	"github.com/riskibarqy/brawl-tracker/internal/usecase"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	defaultBaseURL = "https://api.brawlify.com/v1"
	defaultTimeout = 10 * time.Second
	maxBodyBytes   = 4 << 20
	clientName     = "brawlify"
	// TierListSize caps the rated brawlers returned.
	TierListSize = 30
)

var ErrTierListUnavailable = crerr.New("tier list unavailable")

var _ usecase.TierListSource = (*Client)(nil)

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Timeout        time.Duration
	Logger         *logging.Logger
	Metrics        *metrics.Manager
	CircuitBreaker resilience.CircuitBreakerConfig
	OnCircuitState resilience.StateListener
}

type Client struct {
	httpClient     *http.Client
	baseURL        string
	logger         *logging.Logger
	metrics        *metrics.Manager
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		logger:         logger.Named(clientName),
		metrics:        cfg.Metrics,
		breaker:        resilience.NewNamedCircuitBreaker(clientName, breakerCfg, cfg.OnCircuitState),
		circuitEnabled: breakerCfg.Enabled,
	}
}

// FetchBrawlerWinrates returns the top rated brawlers by winrate, tiers assigned.
func (c *Client) FetchBrawlerWinrates(ctx context.Context) ([]metatier.RatedBrawler, error) {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			return nil, crerr.Wrapf(ErrTierListUnavailable, "circuit %s", c.breaker.State())
		}
	}

	started := time.Now()
	body, err := c.get(ctx, c.baseURL+"/brawlers")
	if c.circuitEnabled {
		c.breaker.Record(err, nil)
	}
	result := "ok"
	if err != nil {
		result = "unavailable"
	}
	c.metrics.ObserveUpstream(clientName, result, time.Since(started))
	if err != nil {
		c.logger.WarnContext(ctx, "brawlify request failed", "error", err)
		return nil, err
	}

	doc, err := jsonvalue.Parse(body)
	if err != nil {
		return nil, crerr.Wrap(ErrTierListUnavailable, err.Error())
	}
	return RateBrawlers(doc), nil
}

// RateBrawlers reads the {list:[...]} catalog; entries without a winrate are skipped.
func RateBrawlers(doc jsonvalue.Value) []metatier.RatedBrawler {
	list, ok := doc.Get("list").Array()
	if !ok {
		return []metatier.RatedBrawler{}
	}

	out := make([]metatier.RatedBrawler, 0, list.Len())
	for _, item := range list.Items() {
		winrate, ok := winrateOf(item)
		if !ok {
			continue
		}
		id, _ := ranked.ParseNumericScoreStrict(item.Get("id"))
		name, _ := item.Get("name").Str()
		if name == "" {
			name = "Unknown"
		}
		rated := metatier.RatedBrawler{
			ID:      int(id),
			Name:    name,
			Winrate: math.Round(winrate*100) / 100,
		}
		rated.Tier = metatier.TierFromWinrate(rated.Winrate)
		for _, key := range []string{"imageUrl", "imageUrl2", "image"} {
			if image, ok := item.Get(key).Str(); ok && image != "" {
				rated.ImageURL = &image
				break
			}
		}
		out = append(out, rated)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Winrate > out[j].Winrate })
	if len(out) > TierListSize {
		out = out[:TierListSize]
	}
	return out
}

func winrateOf(item jsonvalue.Value) (float64, bool) {
	stats := item.Get("stats")
	for _, candidate := range []jsonvalue.Value{
		item.Get("winRate"),
		item.Get("winrate"),
		stats.Get("winRate"),
		stats.Get("winrate"),
		stats.Get("win_rate"),
	} {
		if v, ok := ranked.ParseNumericScoreStrict(candidate); ok {
			return v, true
		}
	}
	return 0, false
}

func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, crerr.Wrap(ErrTierListUnavailable, "build request: "+err.Error())
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, crerr.Wrap(ErrTierListUnavailable, err.Error())
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, crerr.Wrap(ErrTierListUnavailable, "read body: "+err.Error())
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, crerr.Wrap(ErrTierListUnavailable, fmt.Sprintf("status %d", resp.StatusCode))
	}
	return body, nil
}
