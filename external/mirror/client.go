// Package mirror talks to the community mirrors of the game API. Mirrors disagree on
// path shapes, so every base URL is tried with a handful of layouts.
package mirror

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/brawl-tracker/internal/domain/ranked"
	"github.com/riskibarqy/brawl-tracker/internal/platform/jsonvalue"
	"github.com/riskibarqy/brawl-tracker/internal/platform/logging"
	"github.com/riskibarqy/brawl-tracker/internal/platform/metrics"
	"github.com/riskibarqy/brawl-tracker/internal/platform/resilience"
	"github.com/riskibarqy/brawl-tracker/internal/usecase"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	defaultTimeout = 10 * time.Second
	maxBodyBytes   = 2 << 20
	clientName     = "mirror"
	apiKeyParam    = "api_key"
)

var (
	ErrMirrorUnavailable = crerr.New("mirror unavailable")
	ErrMalformedResponse = crerr.New("mirror returned malformed json")
)

var _ usecase.RankedMirrorSource = (*Client)(nil)

type StatusError struct {
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("mirror responded with status %d", e.Status)
}

type ClientConfig struct {
	HTTPClient *http.Client
	BaseURLs   []string
	// APIKeys maps a mirror host (as in url.URL.Host) to its key.
	APIKeys        map[string]string
	Timeout        time.Duration
	Logger         *logging.Logger
	Metrics        *metrics.Manager
	CircuitBreaker resilience.CircuitBreakerConfig
	OnCircuitState resilience.StateListener
}

type Client struct {
	httpClient *http.Client
	bases      []*url.URL
	apiKeys    map[string]string
	logger     *logging.Logger
	metrics    *metrics.Manager

	breakerCfg resilience.CircuitBreakerConfig
	onState    resilience.StateListener
	mu         sync.Mutex
	breakers   map[string]*resilience.CircuitBreaker
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

	bases := make([]*url.URL, 0, len(cfg.BaseURLs))
	for _, raw := range cfg.BaseURLs {
		raw = strings.TrimRight(strings.TrimSpace(raw), "/")
		if raw == "" {
			continue
		}
		parsed, err := url.Parse(raw)
		if err != nil || parsed.Host == "" {
			logger.Warn("ignoring invalid mirror base url", "url", raw)
			continue
		}
		bases = append(bases, parsed)
	}

	keys := make(map[string]string, len(cfg.APIKeys))
	for host, key := range cfg.APIKeys {
		host = strings.ToLower(strings.TrimSpace(host))
		if host != "" && strings.TrimSpace(key) != "" {
			keys[host] = strings.TrimSpace(key)
		}
	}

	return &Client{
		httpClient: httpClient,
		bases:      bases,
		apiKeys:    keys,
		logger:     logger.Named(clientName),
		metrics:    cfg.Metrics,
		breakerCfg: resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker),
		onState:    cfg.OnCircuitState,
		breakers:   make(map[string]*resilience.CircuitBreaker),
	}
}

// ParseAPIKeys reads "host:key,host2:key2".
func ParseAPIKeys(raw string) map[string]string {
	out := make(map[string]string)
	for _, pair := range strings.Split(raw, ",") {
		host, key, ok := strings.Cut(strings.TrimSpace(pair), ":")
		if !ok {
			continue
		}
		host = strings.ToLower(strings.TrimSpace(host))
		key = strings.TrimSpace(key)
		if host != "" && key != "" {
			out[host] = key
		}
	}
	return out
}

// Endpoints lists every candidate URL for tag in the order they should be tried.
func (c *Client) Endpoints(tag string) []usecase.MirrorEndpoint {
	normalized := ranked.NormalizeTag(tag)
	bare := ranked.TagWithoutMarker(normalized)

	seen := make(map[string]struct{})
	var out []usecase.MirrorEndpoint
	for _, base := range c.bases {
		versioned := strings.HasSuffix(strings.ToLower(base.Path), "/v1")
		paths := []string{
			"/players/" + normalized,
			"/players/" + bare,
			"/player/" + normalized,
		}
		if !versioned {
			paths = append(paths, "/v1/players/"+normalized, "/v1/players/"+bare)
		}

		shapes := make([]*url.URL, 0, len(paths)+2)
		for _, p := range paths {
			u := *base
			u.Path = base.Path + p
			u.RawPath = ""
			shapes = append(shapes, &u)
		}
		for _, value := range []string{normalized, bare} {
			u := *base
			u.Path = base.Path + "/player"
			u.RawQuery = url.Values{"tag": {value}}.Encode()
			shapes = append(shapes, &u)
		}

		key := c.apiKeys[strings.ToLower(base.Host)]
		for _, u := range shapes {
			label := u.String()
			if _, dup := seen[label]; dup {
				continue
			}
			seen[label] = struct{}{}
			if key != "" {
				query := u.Query()
				query.Set(apiKeyParam, key)
				u.RawQuery = query.Encode()
			}
			out = append(out, usecase.MirrorEndpoint{URL: u.String(), Label: label})
		}
	}
	return out
}

func (c *Client) FetchJSON(ctx context.Context, endpoint usecase.MirrorEndpoint, forceRefresh bool) (jsonvalue.Value, error) {
	target, err := url.Parse(endpoint.URL)
	if err != nil {
		return jsonvalue.Null(), crerr.Wrap(ErrMirrorUnavailable, "parse url")
	}
	breaker := c.breakerFor(target.Host)
	if c.breakerCfg.Enabled {
		if err := breaker.Allow(); err != nil {
			return jsonvalue.Null(), crerr.Wrapf(ErrMirrorUnavailable, "circuit %s for %s", breaker.State(), target.Host)
		}
	}

	started := time.Now()
	body, err := c.get(ctx, endpoint.URL, forceRefresh)
	if c.breakerCfg.Enabled {
		breaker.Record(err, isMirrorFault)
	}
	result := "ok"
	if err != nil {
		result = "unavailable"
	}
	c.metrics.ObserveUpstream(clientName, result, time.Since(started))
	if err != nil {
		return jsonvalue.Null(), err
	}

	doc, err := jsonvalue.Parse(body)
	if err != nil {
		return jsonvalue.Null(), crerr.Mark(crerr.Wrap(err, endpoint.Label), ErrMalformedResponse)
	}
	return doc, nil
}

func (c *Client) get(ctx context.Context, rawURL string, forceRefresh bool) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, crerr.Wrap(ErrMirrorUnavailable, "build request: "+err.Error())
	}
	req.Header.Set("Accept", "application/json")
	if forceRefresh {
		req.Header.Set("Cache-Control", "no-cache")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, crerr.Wrap(ErrMirrorUnavailable, redactKey(err.Error()))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil, crerr.Mark(&StatusError{Status: resp.StatusCode}, ErrMirrorUnavailable)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, crerr.Wrap(ErrMirrorUnavailable, "read body: "+err.Error())
	}
	return body, nil
}

func (c *Client) breakerFor(host string) *resilience.CircuitBreaker {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.breakers[host]
	if !ok {
		b = resilience.NewNamedCircuitBreaker(clientName+":"+host, c.breakerCfg, c.onState)
		c.breakers[host] = b
	}
	return b
}

// A mirror answering 4xx for a path shape it does not serve is healthy.
func isMirrorFault(err error) bool {
	var statusErr *StatusError
	if crerr.As(err, &statusErr) {
		return statusErr.Status == http.StatusTooManyRequests || statusErr.Status >= http.StatusInternalServerError
	}
	return err != nil
}

func redactKey(msg string) string {
	idx := strings.Index(msg, apiKeyParam+"=")
	if idx < 0 {
		return msg
	}
	end := strings.IndexAny(msg[idx:], "&\" ")
	if end < 0 {
		return msg[:idx] + apiKeyParam + "=REDACTED"
	}
	return msg[:idx] + apiKeyParam + "=REDACTED" + msg[idx+end:]
}
