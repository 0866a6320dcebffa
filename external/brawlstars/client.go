package brawlstars

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/brawl-tracker/internal/domain/metatier"
	"github.com/riskibarqy/brawl-tracker/internal/domain/player"
	"github.com/riskibarqy/brawl-tracker/internal/domain/ranked"
	"github.com/riskibarqy/brawl-tracker/internal/platform/cache"
	"github.com/riskibarqy/brawl-tracker/internal/platform/jsonvalue"
	"github.com/riskibarqy/brawl-tracker/internal/platform/logging"
	"github.com/riskibarqy/brawl-tracker/internal/platform/metrics"
	"github.com/riskibarqy/brawl-tracker/internal/platform/resilience"
	"github.com/riskibarqy/brawl-tracker/internal/usecase"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	defaultBaseURL  = "https://api.brawlstars.com/v1"
	defaultTimeout  = 10 * time.Second
	defaultCacheTTL = 20 * time.Second
	maxBodyBytes    = 6 << 20
	clientName      = "brawlstars"
)

var bearerRegex = regexp.MustCompile(`(?i)bearer\s+[^\s"']+`)
var errBrawlTransient = crerr.New("brawl api transient failure")

var _ usecase.BrawlDataProvider = (*Client)(nil)

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Token          string
	Timeout        time.Duration
	MaxRetries     int
	CacheTTL       time.Duration
	Logger         *logging.Logger
	Metrics        *metrics.Manager
	CircuitBreaker resilience.CircuitBreakerConfig
	OnCircuitState resilience.StateListener
}

type Client struct {
	httpClient     *http.Client
	baseURL        string
	token          string
	timeout        time.Duration
	maxRetries     int
	logger         *logging.Logger
	metrics        *metrics.Manager
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	cache          *cache.Store[[]byte]
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

	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        NormalizeBaseURL(cfg.BaseURL),
		token:          strings.TrimSpace(cfg.Token),
		timeout:        timeout,
		maxRetries:     max(cfg.MaxRetries, 0),
		logger:         logger.Named(clientName),
		metrics:        cfg.Metrics,
		breaker:        resilience.NewNamedCircuitBreaker(clientName, breakerCfg, cfg.OnCircuitState),
		circuitEnabled: breakerCfg.Enabled,
		cache:          cache.NewStore[[]byte](ttl),
	}
}

// NormalizeBaseURL trims trailing slashes and guarantees a /v1 suffix.
func NormalizeBaseURL(raw string) string {
	base := strings.TrimRight(strings.TrimSpace(raw), "/")
	if base == "" {
		return defaultBaseURL
	}
	if strings.HasSuffix(strings.ToLower(base), "/v1") {
		return base
	}
	return base + "/v1"
}

// normalizePath strips a leading /v1 so callers may pass either form.
func normalizePath(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if path == "/v1" {
		return ""
	}
	if strings.HasPrefix(path, "/v1/") {
		return strings.TrimPrefix(path, "/v1")
	}
	return path
}

func encodeTag(tag string) string {
	return url.PathEscape(ranked.NormalizeTag(tag))
}

func (c *Client) GetPlayer(ctx context.Context, tag string, forceRefresh bool) (usecase.ExternalPlayer, error) {
	raw, err := c.fetch(ctx, "/players/"+encodeTag(tag), forceRefresh)
	if err != nil {
		return usecase.ExternalPlayer{}, err
	}

	var payload playerPayload
	if err := sonic.Unmarshal(raw, &payload); err != nil {
		return usecase.ExternalPlayer{}, &APIError{Status: http.StatusBadGateway, Code: CodeHTTPError, Message: "decode player payload: " + err.Error()}
	}
	doc, err := jsonvalue.Parse(raw)
	if err != nil {
		return usecase.ExternalPlayer{}, &APIError{Status: http.StatusBadGateway, Code: CodeHTTPError, Message: err.Error()}
	}

	profile := player.Profile{
		Tag:             ranked.NormalizeTag(payload.Tag),
		Name:            payload.Name,
		NameColor:       payload.NameColor,
		IconID:          payload.Icon.ID,
		Trophies:        payload.Trophies,
		HighestTrophies: payload.HighestTrophies,
		ExpLevel:        payload.ExpLevel,
		Victories3v3:    payload.Victories3v3,
		SoloVictories:   payload.SoloVictories,
		DuoVictories:    payload.DuoVictories,
		Brawlers:        make([]player.Brawler, 0, len(payload.Brawlers)),
		Raw:             doc,
	}
	if payload.Club != nil && (payload.Club.Tag != "" || payload.Club.Name != "") {
		profile.Club = &player.Club{Tag: payload.Club.Tag, Name: payload.Club.Name}
	}
	for _, b := range payload.Brawlers {
		profile.Brawlers = append(profile.Brawlers, player.Brawler{
			ID:              b.ID,
			Name:            string(b.Name),
			Power:           b.Power,
			Rank:            b.Rank,
			Trophies:        b.Trophies,
			HighestTrophies: b.HighestTrophies,
		})
	}
	return usecase.ExternalPlayer{Profile: profile, RawJSON: raw}, nil
}

func (c *Client) GetBattlelog(ctx context.Context, tag string, limit int, forceRefresh bool) ([]player.Battle, error) {
	raw, err := c.fetch(ctx, "/players/"+encodeTag(tag)+"/battlelog", forceRefresh)
	if err != nil {
		return nil, err
	}
	doc, err := jsonvalue.Parse(raw)
	if err != nil {
		return nil, &APIError{Status: http.StatusBadGateway, Code: CodeHTTPError, Message: err.Error()}
	}

	items, _ := doc.Get("items").Array()
	if items == nil {
		return []player.Battle{}, nil
	}
	out := make([]player.Battle, 0, items.Len())
	for _, item := range items.Items() {
		event := item.Get("event")
		battle := player.Battle{Body: item.Get("battle")}
		battle.BattleTime, _ = item.Get("battleTime").Str()
		battle.EventMode, _ = event.Get("mode").Str()
		battle.EventMap, _ = event.Get("map").Str()
		if id, ok := event.Get("id").Num(); ok {
			battle.EventID = int(id)
		}
		out = append(out, battle)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

// GetGlobalPlayerRankings reads the global ranking. The trophy figure falls back to
// score then value since the field name drifts between API versions.
func (c *Client) GetGlobalPlayerRankings(ctx context.Context, limit int) ([]usecase.ExternalRanking, error) {
	raw, err := c.fetch(ctx, "/rankings/global/players", false)
	if err != nil {
		return nil, err
	}
	doc, err := jsonvalue.Parse(raw)
	if err != nil {
		return nil, &APIError{Status: http.StatusBadGateway, Code: CodeHTTPError, Message: err.Error()}
	}

	items, _ := doc.Get("items").Array()
	if items == nil {
		return []usecase.ExternalRanking{}, nil
	}
	out := make([]usecase.ExternalRanking, 0, items.Len())
	for idx, item := range items.Items() {
		row := usecase.ExternalRanking{Raw: item, Rank: idx + 1}
		if tag, ok := item.Get("tag").Str(); ok {
			row.Tag = ranked.NormalizeTag(tag)
		}
		row.Name, _ = item.Get("name").Str()
		if rank, ok := ranked.ParseNumericScoreStrict(item.Get("rank")); ok && rank > 0 {
			row.Rank = int(rank)
		}
		for _, key := range []string{"trophies", "score", "value"} {
			if n, ok := ranked.ParseNumericScoreStrict(item.Get(key)); ok {
				row.Trophies = int(n)
				break
			}
		}
		if id, ok := item.Get("icon").Get("id").Num(); ok {
			row.IconID = int(id)
		}
		row.ClubName, _ = item.Get("club").Get("name").Str()
		out = append(out, row)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (c *Client) GetBrawlers(ctx context.Context) ([]metatier.CatalogBrawler, error) {
	raw, err := c.fetch(ctx, "/brawlers", false)
	if err != nil {
		return nil, err
	}
	var envelope brawlerCatalogEnvelope
	if err := sonic.Unmarshal(raw, &envelope); err != nil {
		return nil, &APIError{Status: http.StatusBadGateway, Code: CodeHTTPError, Message: "decode brawlers payload: " + err.Error()}
	}

	out := make([]metatier.CatalogBrawler, 0, len(envelope.Items))
	for _, item := range envelope.Items {
		entry := metatier.CatalogBrawler{ID: item.ID, Name: string(item.Name)}
		for _, sp := range item.StarPowers {
			entry.StarPowers = append(entry.StarPowers, string(sp.Name))
		}
		for _, g := range item.Gadgets {
			entry.Gadgets = append(entry.Gadgets, string(g.Name))
		}
		out = append(out, entry)
	}
	return out, nil
}

// fetch serves path from the cache unless forceRefresh; concurrent misses share one request.
func (c *Client) fetch(ctx context.Context, path string, forceRefresh bool) ([]byte, error) {
	if c.token == "" {
		return nil, &APIError{Status: http.StatusInternalServerError, Code: CodeUnauthorized, Message: "BRAWL_API_TOKEN is not configured"}
	}
	path = normalizePath(path)
	load := func(ctx context.Context) ([]byte, error) {
		return c.doRequest(ctx, path)
	}
	if forceRefresh {
		return c.cache.Refresh(ctx, path, load)
	}
	return c.cache.GetOrLoad(ctx, path, load)
}

func (c *Client) doRequest(ctx context.Context, path string) ([]byte, error) {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "brawl api circuit breaker rejected request", "state", c.breaker.State())
			return nil, fmt.Errorf("%w: game api is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	started := time.Now()
	raw, err := c.executeRequest(ctx, c.baseURL+path)
	if c.circuitEnabled {
		c.breaker.Record(err, isBrawlCircuitFailure)
	}
	c.metrics.ObserveUpstream(clientName, resultClass(err), time.Since(started))
	return raw, err
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.token)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if isTimeout(ctx, err) {
				lastErr = crerr.Mark(&APIError{
					Status:  http.StatusGatewayTimeout,
					Code:    CodeHTTPError,
					Message: fmt.Sprintf("timeout after %s", c.timeout),
				}, errBrawlTransient)
			} else {
				lastErr = crerr.Mark(&APIError{
					Status:  http.StatusBadGateway,
					Code:    CodeHTTPError,
					Message: "send request: " + sanitizeSensitiveText(err.Error(), c.token),
				}, errBrawlTransient)
			}
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = crerr.Mark(&APIError{Status: http.StatusBadGateway, Code: CodeHTTPError, Message: "read response body: " + readErr.Error()}, errBrawlTransient)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			default:
				apiErr := &APIError{
					Status:  resp.StatusCode,
					Code:    codeForStatus(resp.StatusCode),
					Message: errorDetail(raw),
				}
				if !isRetryableStatus(resp.StatusCode) {
					if resp.StatusCode >= http.StatusInternalServerError {
						return nil, crerr.Mark(apiErr, errBrawlTransient)
					}
					return nil, apiErr
				}
				lastErr = crerr.Mark(apiErr, errBrawlTransient)
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	c.logger.WarnContext(ctx, "brawl api request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

// errorDetail prefers the message or reason field of an error body.
func errorDetail(raw []byte) string {
	var payload struct {
		Message string `json:"message"`
		Reason  string `json:"reason"`
	}
	if err := sonic.Unmarshal(raw, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Reason != "" {
			return payload.Reason
		}
	}
	return abbreviateBody(raw)
}

func isTimeout(ctx context.Context, err error) bool {
	if stderrors.Is(err, context.DeadlineExceeded) || stderrors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	var netErr interface{ Timeout() bool }
	return stderrors.As(err, &netErr) && netErr.Timeout()
}

func isBrawlCircuitFailure(err error) bool {
	return crerr.Is(err, errBrawlTransient)
}

// Maintenance windows last longer than any backoff, so 503 is not retried.
func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || (code >= http.StatusInternalServerError && code != http.StatusServiceUnavailable)
}

func resultClass(err error) string {
	if err == nil {
		return "ok"
	}
	var apiErr *APIError
	if stderrors.As(err, &apiErr) {
		return strings.ToLower(string(apiErr.Code))
	}
	return "error"
}

func sanitizeSensitiveText(value, token string) string {
	value = strings.TrimSpace(value)
	if token != "" {
		value = strings.ReplaceAll(value, token, "REDACTED")
	}
	return bearerRegex.ReplaceAllString(value, "Bearer REDACTED")
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}
