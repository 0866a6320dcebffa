package postgres

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/riskibarqy/brawl-tracker/internal/platform/logging"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	"go.opentelemetry.io/otel/attribute"
)

const (
	defaultMaxOpenConns    = 10
	defaultMaxIdleConns    = 5
	defaultConnMaxLifetime = 30 * time.Minute
	defaultPingTimeout     = 5 * time.Second
)

type ConnectorConfig struct {
	URL                         string
	DisablePreparedBinaryResult bool
	MaxOpenConns                int
	MaxIdleConns                int
	ConnMaxLifetime             time.Duration
	Logger                      *logging.Logger
}

// Connector opens the database on first use. A failed open is not cached, so the
// next call retries; an open pool is shared by every repository.
type Connector struct {
	cfg    ConnectorConfig
	dsn    string
	logger *logging.Logger

	mu sync.Mutex
	db *sqlx.DB
}

func NewConnector(cfg ConnectorConfig) *Connector {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.MaxOpenConns <= 0 {
		cfg.MaxOpenConns = defaultMaxOpenConns
	}
	if cfg.MaxIdleConns <= 0 {
		cfg.MaxIdleConns = defaultMaxIdleConns
	}
	if cfg.ConnMaxLifetime <= 0 {
		cfg.ConnMaxLifetime = defaultConnMaxLifetime
	}
	return &Connector{
		cfg:    cfg,
		dsn:    NormalizeDBURL(strings.TrimSpace(cfg.URL), cfg.DisablePreparedBinaryResult),
		logger: logger.Named("postgres"),
	}
}

// DB returns the shared pool, opening and pinging it when needed.
func (c *Connector) DB(ctx context.Context) (*sqlx.DB, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.db != nil {
		return c.db, nil
	}
	if c.dsn == "" {
		return nil, fmt.Errorf("database url is not configured")
	}

	db, err := otelsqlx.Open("postgres", c.dsn,
		otelsql.WithAttributes(attribute.String("db.system", "postgresql")),
		otelsql.WithDBName(DBNameFromURL(c.dsn)),
		otelsql.WithQueryFormatter(FormatQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(c.cfg.MaxOpenConns)
	db.SetMaxIdleConns(c.cfg.MaxIdleConns)
	db.SetConnMaxLifetime(c.cfg.ConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, defaultPingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	c.logger.InfoContext(ctx, "database connected", "db_name", DBNameFromURL(c.dsn))
	c.db = db
	return db, nil
}

func (c *Connector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.db == nil {
		return nil
	}
	err := c.db.Close()
	c.db = nil
	return err
}
