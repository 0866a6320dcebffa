// Package profilescrape fetches the public profile and leaderboard pages of the
// secondary stats site.
package profilescrape

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/brawl-tracker/internal/domain/ranked"
	"github.com/riskibarqy/brawl-tracker/internal/platform/logging"
	"github.com/riskibarqy/brawl-tracker/internal/platform/metrics"
	"github.com/riskibarqy/brawl-tracker/internal/platform/resilience"
	"github.com/riskibarqy/brawl-tracker/internal/usecase"
	"github.com/valyala/fasthttp"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL    = "https://brawltime.ninja"
	defaultTimeout    = 10 * time.Second
	defaultUserAgent  = "Mozilla/5.0 (compatible; brawl-tracker/1.0)"
	leaderboardPath   = "/leaderboard/highest-ranked-elo"
	maxPageBytes      = 4 << 20
	clientName        = "profilescrape"
	defaultRateWindow = 500 * time.Millisecond
)

// ErrPageUnavailable covers every non-success fetch: transport errors, non-2xx status
// and bot-challenge interstitials.
var ErrPageUnavailable = crerr.New("profile page unavailable")

var _ usecase.ProfilePageSource = (*Client)(nil)

type ClientConfig struct {
	BaseURL        string
	Timeout        time.Duration
	UserAgent      string
	RateInterval   time.Duration
	Logger         *logging.Logger
	Metrics        *metrics.Manager
	CircuitBreaker resilience.CircuitBreakerConfig
	OnCircuitState resilience.StateListener
	HTTPClient     *fasthttp.Client
}

type Client struct {
	http           *fasthttp.Client
	baseURL        string
	timeout        time.Duration
	userAgent      string
	limiter        *rate.Limiter
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
	interval := cfg.RateInterval
	if interval <= 0 {
		interval = defaultRateWindow
	}
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &fasthttp.Client{
			Name:                     userAgent,
			ReadTimeout:              timeout,
			WriteTimeout:             timeout,
			MaxResponseBodySize:      maxPageBytes,
			NoDefaultUserAgentHeader: true,
		}
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		http:           httpClient,
		baseURL:        baseURL,
		timeout:        timeout,
		userAgent:      userAgent,
		limiter:        rate.NewLimiter(rate.Every(interval), 1),
		logger:         logger.Named(clientName),
		metrics:        cfg.Metrics,
		breaker:        resilience.NewNamedCircuitBreaker(clientName, breakerCfg, cfg.OnCircuitState),
		circuitEnabled: breakerCfg.Enabled,
	}
}

// ProfileURL is where the profile of tag lives; the tag goes in without its marker.
func (c *Client) ProfileURL(tag string) string {
	return c.baseURL + "/profile/" + url.PathEscape(ranked.TagWithoutMarker(tag))
}

func (c *Client) FetchProfilePage(ctx context.Context, tag string, forceRefresh bool) (string, error) {
	return c.fetchPage(ctx, c.ProfileURL(tag), forceRefresh)
}

func (c *Client) FetchRankedLeaderboardPage(ctx context.Context) (string, error) {
	return c.fetchPage(ctx, c.baseURL+leaderboardPath, false)
}

func (c *Client) fetchPage(ctx context.Context, pageURL string, forceRefresh bool) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", crerr.Wrap(ErrPageUnavailable, "rate limiter: "+err.Error())
	}
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			return "", crerr.Wrapf(ErrPageUnavailable, "circuit %s", c.breaker.State())
		}
	}

	started := time.Now()
	body, err := c.get(ctx, pageURL, forceRefresh)
	if c.circuitEnabled {
		c.breaker.Record(err, func(err error) bool { return !stderrors.Is(err, context.Canceled) })
	}
	result := "ok"
	if err != nil {
		result = "unavailable"
	}
	c.metrics.ObserveUpstream(clientName, result, time.Since(started))
	if err != nil {
		c.logger.DebugContext(ctx, "profile page fetch failed", "url", pageURL, "error", err)
		return "", err
	}
	return body, nil
}

func (c *Client) get(ctx context.Context, pageURL string, forceRefresh bool) (string, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(pageURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set(fasthttp.HeaderAccept, "text/html,application/xhtml+xml")
	req.Header.Set(fasthttp.HeaderAcceptLanguage, "en-US,en;q=0.8")
	req.Header.SetUserAgent(c.userAgent)
	if forceRefresh {
		req.Header.Set(fasthttp.HeaderCacheControl, "no-cache")
	}

	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}
	if timeout <= 0 {
		return "", crerr.Wrap(ErrPageUnavailable, context.DeadlineExceeded.Error())
	}

	if err := c.http.DoTimeout(req, resp, timeout); err != nil {
		return "", crerr.Wrap(ErrPageUnavailable, err.Error())
	}
	if status := resp.StatusCode(); status < 200 || status >= 300 {
		return "", crerr.Wrap(ErrPageUnavailable, fmt.Sprintf("status %d", status))
	}

	body, err := resp.BodyUncompressed()
	if err != nil {
		return "", crerr.Wrap(ErrPageUnavailable, "decode body: "+err.Error())
	}
	return string(body), nil
}
