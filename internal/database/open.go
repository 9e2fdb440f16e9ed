package database

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"tradewatch/internal/database/postgres"
	"tradewatch/internal/database/sqlite"
)

var (
	_ Repository = (*postgres.Store)(nil)
	_ Repository = (*sqlite.Store)(nil)
)

// Open connects to the datastore named by dsn and creates the schema.
// postgres:// and postgresql:// select Postgres; sqlite:// URLs and bare
// paths select a local SQLite file.
func Open(ctx context.Context, dsn string) (Repository, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, errors.New("database path is empty")
	}

	var (
		repo Repository
		err  error
	)
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		repo, err = postgres.New(ctx, dsn)
	default:
		repo, err = sqlite.New(SQLitePath(dsn))
	}
	if err != nil {
		return nil, err
	}

	if err := repo.Migrate(ctx); err != nil {
		_ = repo.Close()
		return nil, errors.Wrap(err, "migrate schema")
	}
	return repo, nil
}

// SQLitePath strips the sqlite:// scheme. "sqlite:///data/trades.db" is the
// relative path data/trades.db and "sqlite:////var/trades.db" is absolute.
func SQLitePath(dsn string) string {
	if rest, ok := strings.CutPrefix(dsn, "sqlite:///"); ok {
		return rest
	}
	if rest, ok := strings.CutPrefix(dsn, "sqlite://"); ok {
		return rest
	}
	return dsn
}
