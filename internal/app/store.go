package app

import (
	"context"
	"net/url"
	"regexp"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/riskibarqy/match-roulette/internal/config"
	"github.com/riskibarqy/match-roulette/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/match-roulette/internal/platform/kvstore"
	"github.com/riskibarqy/match-roulette/internal/platform/logging"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
)

const maxTracedQueryLength = 512

var queryWhitespaceRegex = regexp.MustCompile(`\s+`)

// newKVStore opens the preference store selected by FILTER_STORE_BACKEND.
// The returned close func is never nil.
func newKVStore(ctx context.Context, cfg config.Config, logger *logging.Logger) (kvstore.Store, func() error, error) {
	noop := func() error { return nil }

	switch cfg.FilterStoreBackend {
	case kvstore.BackendMemory:
		logger.Warn("league filter stored in memory, changes are lost on restart")
		return kvstore.NewMemory(), noop, nil
	case kvstore.BackendFile:
		logger.Info("league filter stored on disk", "dir", cfg.FilterStoreDir)
		return kvstore.NewFile(cfg.FilterStoreDir), noop, nil
	case kvstore.BackendPostgres:
		db, err := openPostgres(ctx, cfg.DBURL)
		if err != nil {
			return nil, noop, err
		}
		logger.Info("league filter stored in postgres", "db_name", dbNameFromURL(cfg.DBURL))
		return postgres.NewKVStore(db), db.Close, nil
	default:
		return nil, noop, crerr.Newf("unsupported filter store backend %q", cfg.FilterStoreBackend)
	}
}

func openPostgres(ctx context.Context, dbURL string) (*sqlx.DB, error) {
	opts := []otelsql.Option{
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	}
	if name := dbNameFromURL(dbURL); name != "" {
		opts = append(opts, otelsql.WithDBName(name))
	}

	db, err := otelsqlx.Open("postgres", dbURL, opts...)
	if err != nil {
		return nil, crerr.Wrap(err, "open postgres")
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, crerr.Wrap(err, "ping postgres")
	}

	return db, nil
}

func formatDBQueryForTrace(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return query
	}

	normalized := queryWhitespaceRegex.ReplaceAllString(query, " ")
	if len(normalized) <= maxTracedQueryLength {
		return normalized
	}

	return normalized[:maxTracedQueryLength] + "..."
}

func dbNameFromURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	parsed, err := url.Parse(trimmed)
	if err == nil && parsed != nil && parsed.Scheme != "" {
		name := strings.TrimSpace(strings.TrimPrefix(parsed.Path, "/"))
		if name != "" {
			return name
		}
	}

	for _, token := range strings.Fields(trimmed) {
		if !strings.HasPrefix(token, "dbname=") {
			continue
		}
		name := strings.Trim(strings.TrimPrefix(token, "dbname="), `"'`)
		if name != "" {
			return name
		}
	}

	return ""
}
