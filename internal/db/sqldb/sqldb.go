// Package sqldb opens the relational store: SQLite for local runs, PostgreSQL in production.
package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	_ "modernc.org/sqlite"             // registers the "sqlite" driver
)

// DefaultSQLitePath is used when no DSN is configured.
const DefaultSQLitePath = "data/campusqa.db"

// Dialect identifies the SQL flavor behind a DB.
type Dialect string

// Supported dialects.
const (
	SQLite   Dialect = "sqlite"
	Postgres Dialect = "postgres"
)

// DB wraps *sql.DB with its dialect. Queries are written with ? placeholders and rebound.
type DB struct {
	*sql.DB
	dialect Dialect
}

// Open picks the backend from the DSN and applies the schema.
//   - empty: SQLite at DefaultSQLitePath
//   - postgres:// or postgresql://: PostgreSQL via pgx, migrated with golang-migrate
//   - anything else: SQLite at the given path (":memory:" for tests)
func Open(ctx context.Context, dsn string) (*DB, error) {
	if IsPostgres(dsn) {
		d, err := openPostgres(ctx, dsn)
		if err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}
		return d, nil
	}
	if dsn == "" {
		dsn = DefaultSQLitePath
	}
	d, err := openSQLite(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: %w", err)
	}
	return d, nil
}

// IsPostgres reports whether the DSN selects PostgreSQL.
func IsPostgres(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

func openSQLite(ctx context.Context, path string) (*DB, error) {
	if path != ":memory:" && !strings.HasPrefix(path, "file:") {
		if dir := filepath.Dir(path); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create data directory: %w", err)
			}
		}
	}

	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	// single writer; also keeps :memory: databases on one connection
	sqlDB.SetMaxOpenConns(1)

	d := &DB{DB: sqlDB, dialect: SQLite}
	if err := d.applySQLiteSchema(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return d, nil
}

func openPostgres(ctx context.Context, dsn string) (*DB, error) {
	sqlDB, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}

	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	d := &DB{DB: sqlDB, dialect: Postgres}
	if err := d.Migrate(DirectionUp, 0); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return d, nil
}

// Dialect returns the SQL flavor.
func (d *DB) Dialect() Dialect { return d.dialect }

// Ping checks connectivity.
func (d *DB) Ping(ctx context.Context) error {
	if err := d.PingContext(ctx); err != nil {
		return fmt.Errorf("ping %s: %w", d.dialect, err)
	}
	return nil
}

// Rebind converts ? placeholders to $n for PostgreSQL. Queries must not contain literal '?'.
func (d *DB) Rebind(query string) string {
	if d.dialect != Postgres {
		return query
	}
	return rebindDollar(query)
}

func rebindDollar(query string) string {
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

// IsUniqueViolation reports whether err is a unique constraint failure in either dialect.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// Millis converts a time to the stored unix-millisecond representation.
func Millis(t time.Time) int64 { return t.UnixMilli() }

// FromMillis converts a stored unix-millisecond value back to UTC time.
func FromMillis(ms int64) time.Time { return time.UnixMilli(ms).UTC() }
