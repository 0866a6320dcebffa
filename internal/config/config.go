package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/brawl-tracker/internal/platform/logging"
	"github.com/riskibarqy/brawl-tracker/internal/platform/resilience"
)

const (
	defaultBrawlAPIBaseURL = "https://api.brawlstars.com/v1"
	defaultScrapeBaseURL   = "https://brawltime.ninja"
	defaultBrawlifyBaseURL = "https://api.brawlify.com/v1"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv             string
	ServiceName        string
	ServiceVersion     string
	HTTPAddr           string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	CORSAllowedOrigins []string
	SwaggerEnabled     bool
	AdminToken         string
	MetricsEnabled     bool
	LogLevel           logging.Level

	// DBURL empty selects the in-memory repositories.
	DBURL                   string
	DBDisablePreparedBinary bool
	DBOperationTimeout      time.Duration
	CacheEnabled            bool
	CacheTTL                time.Duration

	BrawlAPIBaseURL    string
	BrawlAPIToken      string
	UpstreamTimeout    time.Duration
	BrawlAPIMaxRetries int
	BrawlAPICacheTTL   time.Duration
	BrawlAPICircuit    resilience.CircuitBreakerConfig

	// ScrapeBaseURL empty disables the profile page source.
	ScrapeBaseURL      string
	ScrapeRateInterval time.Duration
	ScrapeCircuit      resilience.CircuitBreakerConfig

	MirrorBaseURLs []string
	// MirrorAPIKeys is the raw host:key CSV.
	MirrorAPIKeys string
	MirrorCircuit resilience.CircuitBreakerConfig

	BrawlifyBaseURL  string
	BrawlifyCircuit  resilience.CircuitBreakerConfig
	TierListCacheTTL time.Duration

	RankedAttemptTimeout     time.Duration
	LeaderboardTrackedBatch  int
	LeaderboardEnrichWorkers int

	PprofEnabled               bool
	PprofAddr                  string
	UptraceEnabled             bool
	UptraceDSN                 string
	UptraceLogsEnabled         bool
	BetterStackEnabled         bool
	BetterStackEndpoint        string
	BetterStackToken           string
	BetterStackTimeout         time.Duration
	BetterStackMinLevel        logging.Level
	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration
}

// InMemory reports whether no database is configured.
func (c Config) InMemory() bool {
	return strings.TrimSpace(c.DBURL) == ""
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	swaggerDefault := "true"
	if appEnv == EnvProd {
		swaggerDefault = "false"
	}
	swaggerEnabled, err := strconv.ParseBool(getEnv("SWAGGER_ENABLED", swaggerDefault))
	if err != nil {
		return Config{}, fmt.Errorf("parse SWAGGER_ENABLED: %w", err)
	}
	metricsEnabled, err := strconv.ParseBool(getEnv("METRICS_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse METRICS_ENABLED: %w", err)
	}
	logLevel, err := logging.ParseLevel(getEnv("APP_LOG_LEVEL", "info"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_LOG_LEVEL: %w", err)
	}

	readTimeout, err := getEnvAsPositiveDuration("HTTP_READ_TIMEOUT", "10s")
	if err != nil {
		return Config{}, err
	}
	writeTimeout, err := getEnvAsPositiveDuration("HTTP_WRITE_TIMEOUT", "30s")
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppEnv:             appEnv,
		ServiceName:        strings.TrimSpace(getEnv("SERVICE_NAME", "brawl-tracker-api")),
		ServiceVersion:     strings.TrimSpace(getEnv("SERVICE_VERSION", "dev")),
		HTTPAddr:           strings.TrimSpace(getEnv("HTTP_ADDR", ":8080")),
		ReadTimeout:        readTimeout,
		WriteTimeout:       writeTimeout,
		CORSAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		SwaggerEnabled:     swaggerEnabled,
		AdminToken:         strings.TrimSpace(getEnv("ADMIN_TOKEN", "")),
		MetricsEnabled:     metricsEnabled,
		LogLevel:           logLevel,
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}

	if err := loadStorage(&cfg); err != nil {
		return Config{}, err
	}
	if err := loadUpstreams(&cfg); err != nil {
		return Config{}, err
	}
	if err := loadObservability(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadStorage(cfg *Config) error {
	cfg.DBURL = strings.TrimSpace(getEnv("DB_URL", ""))

	dbDisablePreparedBinary, err := strconv.ParseBool(getEnv("DB_DISABLE_PREPARED_BINARY_RESULT", "true"))
	if err != nil {
		return fmt.Errorf("parse DB_DISABLE_PREPARED_BINARY_RESULT: %w", err)
	}
	cfg.DBDisablePreparedBinary = dbDisablePreparedBinary

	if cfg.DBOperationTimeout, err = getEnvAsPositiveDuration("DB_OPERATION_TIMEOUT", "2500ms"); err != nil {
		return err
	}

	cacheEnabled, err := strconv.ParseBool(getEnv("CACHE_ENABLED", "true"))
	if err != nil {
		return fmt.Errorf("parse CACHE_ENABLED: %w", err)
	}
	cfg.CacheEnabled = cacheEnabled
	if cfg.CacheTTL, err = getEnvAsPositiveDuration("CACHE_TTL", "60s"); err != nil {
		return err
	}
	return nil
}

func loadUpstreams(cfg *Config) error {
	var err error

	cfg.BrawlAPIBaseURL = normalizeBrawlAPIBaseURL(getEnv("BRAWL_API_BASE_URL", defaultBrawlAPIBaseURL))
	cfg.BrawlAPIToken = strings.TrimSpace(getEnv("BRAWL_API_TOKEN", ""))
	if cfg.UpstreamTimeout, err = getEnvAsPositiveDuration("UPSTREAM_TIMEOUT", "10s"); err != nil {
		return err
	}
	if cfg.BrawlAPIMaxRetries, err = getEnvAsInt("BRAWL_API_MAX_RETRIES", 0); err != nil {
		return fmt.Errorf("parse BRAWL_API_MAX_RETRIES: %w", err)
	}
	if cfg.BrawlAPIMaxRetries < 0 {
		return fmt.Errorf("BRAWL_API_MAX_RETRIES must be >= 0")
	}
	if cfg.BrawlAPICacheTTL, err = getEnvAsPositiveDuration("BRAWL_API_CACHE_TTL", "20s"); err != nil {
		return err
	}
	if cfg.BrawlAPICircuit, err = loadCircuit("BRAWL_API"); err != nil {
		return err
	}

	cfg.ScrapeBaseURL = strings.TrimRight(strings.TrimSpace(getEnvAllowEmpty("SCRAPE_BASE_URL", defaultScrapeBaseURL)), "/")
	if cfg.ScrapeRateInterval, err = getEnvAsPositiveDuration("SCRAPE_RATE_INTERVAL", "500ms"); err != nil {
		return err
	}
	if cfg.ScrapeCircuit, err = loadCircuit("SCRAPE"); err != nil {
		return err
	}

	cfg.MirrorBaseURLs = splitCSV(getEnv("MIRROR_BASE_URLS", ""))
	cfg.MirrorAPIKeys = strings.TrimSpace(getEnv("MIRROR_API_KEYS", ""))
	if cfg.MirrorCircuit, err = loadCircuit("MIRROR"); err != nil {
		return err
	}

	cfg.BrawlifyBaseURL = strings.TrimRight(strings.TrimSpace(getEnv("BRAWLIFY_BASE_URL", defaultBrawlifyBaseURL)), "/")
	if cfg.BrawlifyCircuit, err = loadCircuit("BRAWLIFY"); err != nil {
		return err
	}
	if cfg.TierListCacheTTL, err = getEnvAsPositiveDuration("TIERLIST_CACHE_TTL", "30m"); err != nil {
		return err
	}

	if cfg.RankedAttemptTimeout, err = getEnvAsPositiveDuration("RANKED_ATTEMPT_TIMEOUT", "10s"); err != nil {
		return err
	}
	if cfg.LeaderboardTrackedBatch, err = getEnvAsInt("LEADERBOARD_TRACKED_BATCH", 500); err != nil {
		return fmt.Errorf("parse LEADERBOARD_TRACKED_BATCH: %w", err)
	}
	if cfg.LeaderboardTrackedBatch <= 0 {
		return fmt.Errorf("LEADERBOARD_TRACKED_BATCH must be > 0")
	}
	if cfg.LeaderboardEnrichWorkers, err = getEnvAsInt("LEADERBOARD_ENRICH_WORKERS", 8); err != nil {
		return fmt.Errorf("parse LEADERBOARD_ENRICH_WORKERS: %w", err)
	}
	if cfg.LeaderboardEnrichWorkers <= 0 {
		return fmt.Errorf("LEADERBOARD_ENRICH_WORKERS must be > 0")
	}
	return nil
}

// loadCircuit reads <PREFIX>_CIRCUIT_{ENABLED,FAILURE_COUNT,OPEN_TIMEOUT,HALF_OPEN_MAX_REQ}.
func loadCircuit(prefix string) (resilience.CircuitBreakerConfig, error) {
	key := func(name string) string { return prefix + "_CIRCUIT_" + name }

	enabled, err := strconv.ParseBool(getEnv(key("ENABLED"), "true"))
	if err != nil {
		return resilience.CircuitBreakerConfig{}, fmt.Errorf("parse %s: %w", key("ENABLED"), err)
	}
	failureCount, err := getEnvAsInt(key("FAILURE_COUNT"), 5)
	if err != nil {
		return resilience.CircuitBreakerConfig{}, fmt.Errorf("parse %s: %w", key("FAILURE_COUNT"), err)
	}
	if failureCount < 1 {
		return resilience.CircuitBreakerConfig{}, fmt.Errorf("%s must be >= 1", key("FAILURE_COUNT"))
	}
	openTimeout, err := getEnvAsPositiveDuration(key("OPEN_TIMEOUT"), "15s")
	if err != nil {
		return resilience.CircuitBreakerConfig{}, err
	}
	halfOpenMaxReq, err := getEnvAsInt(key("HALF_OPEN_MAX_REQ"), 2)
	if err != nil {
		return resilience.CircuitBreakerConfig{}, fmt.Errorf("parse %s: %w", key("HALF_OPEN_MAX_REQ"), err)
	}
	if halfOpenMaxReq < 1 {
		return resilience.CircuitBreakerConfig{}, fmt.Errorf("%s must be >= 1", key("HALF_OPEN_MAX_REQ"))
	}

	return resilience.CircuitBreakerConfig{
		Enabled:          enabled,
		FailureThreshold: failureCount,
		OpenTimeout:      openTimeout,
		HalfOpenMaxReq:   halfOpenMaxReq,
	}, nil
}

func loadObservability(cfg *Config) error {
	var err error

	if cfg.UptraceEnabled, err = strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false")); err != nil {
		return fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	cfg.UptraceDSN = strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if cfg.UptraceDSN == "" {
		cfg.UptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if cfg.UptraceEnabled && cfg.UptraceDSN == "" {
		return fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}
	if cfg.UptraceLogsEnabled, err = strconv.ParseBool(getEnv("UPTRACE_LOGS_ENABLED", "true")); err != nil {
		return fmt.Errorf("parse UPTRACE_LOGS_ENABLED: %w", err)
	}

	if cfg.BetterStackEnabled, err = strconv.ParseBool(getEnv("BETTERSTACK_ENABLED", "false")); err != nil {
		return fmt.Errorf("parse BETTERSTACK_ENABLED: %w", err)
	}
	cfg.BetterStackEndpoint = strings.TrimSpace(getEnv("BETTERSTACK_ENDPOINT", ""))
	if cfg.BetterStackEnabled && cfg.BetterStackEndpoint == "" {
		return fmt.Errorf("BETTERSTACK_ENDPOINT is required when BETTERSTACK_ENABLED=true")
	}
	cfg.BetterStackToken = strings.TrimSpace(getEnv("BETTERSTACK_TOKEN", ""))
	if cfg.BetterStackTimeout, err = getEnvAsPositiveDuration("BETTERSTACK_TIMEOUT", "3s"); err != nil {
		return err
	}
	if cfg.BetterStackMinLevel, err = logging.ParseLevel(getEnv("BETTERSTACK_MIN_LEVEL", "error")); err != nil {
		return fmt.Errorf("parse BETTERSTACK_MIN_LEVEL: %w", err)
	}

	if cfg.PprofEnabled, err = strconv.ParseBool(getEnv("PPROF_ENABLED", "false")); err != nil {
		return fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	cfg.PprofAddr = strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))

	if cfg.PyroscopeEnabled, err = strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false")); err != nil {
		return fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	cfg.PyroscopeServerAddress = strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if cfg.PyroscopeEnabled && cfg.PyroscopeServerAddress == "" {
		return fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	cfg.PyroscopeAuthToken = strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", ""))
	cfg.PyroscopeBasicAuthUser = strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", ""))
	cfg.PyroscopeBasicAuthPassword = strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", ""))
	if cfg.PyroscopeUploadRate, err = getEnvAsPositiveDuration("PYROSCOPE_UPLOAD_RATE", "15s"); err != nil {
		return err
	}
	return nil
}

// normalizeBrawlAPIBaseURL makes sure the configured base always ends with the /v1 prefix.
func normalizeBrawlAPIBaseURL(raw string) string {
	value := strings.TrimRight(strings.TrimSpace(raw), "/")
	if value == "" {
		return defaultBrawlAPIBaseURL
	}
	if strings.HasSuffix(value, "/v1") {
		return value
	}
	return value + "/v1"
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

// getEnvAllowEmpty returns the fallback only when key is unset; an explicit empty value is kept.
func getEnvAllowEmpty(key, fallback string) string {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func getEnvAsPositiveDuration(key, fallback string) (time.Duration, error) {
	value, err := time.ParseDuration(getEnv(key, fallback))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if value <= 0 {
		return 0, fmt.Errorf("%s must be > 0", key)
	}
	return value, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	items := strings.Split(raw, ",")
	for _, item := range items {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			value := strings.TrimSpace(parts[1])
			return strings.Trim(value, "\"'")
		}
	}

	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
