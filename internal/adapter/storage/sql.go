package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/niksmo/snublejuice/pkg/retry"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const pgUniqueViolation = "23505"

type sqldb interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	PingContext(ctx context.Context) error
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// SQLDB is a connection pool with the dialect of its driver.
type SQLDB struct {
	*sql.DB
	dialect Dialect
}

// SQLiteDSN returns a DSN for the database file at path
// with write-ahead logging enabled.
func SQLiteDSN(path string) string {
	return "file:" + path +
		"?_pragma=journal_mode(WAL)" +
		"&_pragma=busy_timeout(5000)" +
		"&_pragma=foreign_keys(1)"
}

func NewSQLDB(ctx context.Context, driver, dsn string) (SQLDB, error) {
	const op = "NewSQLDB"
	log := slog.With("op", op, "driver", driver)

	dialect, err := DialectFor(driver)
	if err != nil {
		return SQLDB{}, fmt.Errorf("%s: %w", op, err)
	}

	db, err := open(driver, dsn)
	if err != nil {
		return SQLDB{}, fmt.Errorf("%s: %w", op, err)
	}

	retryCfg := retry.RetryConfig{
		MaxAttempts: 5,
		Backoff:     retry.ExponentialBackoff(100 * time.Millisecond),
	}
	err = retry.Do(ctx, retryCfg, func() error {
		return db.PingContext(ctx)
	})
	if err != nil {
		_ = db.Close()
		return SQLDB{}, fmt.Errorf("%s: database is unavailable: %w", op, err)
	}
	log.Info("database is available")
	return SQLDB{DB: db, dialect: dialect}, nil
}

func open(driver, dsn string) (*sql.DB, error) {
	switch driver {
	case DriverPgx:
		connConfig, err := pgx.ParseConfig(dsn)
		if err != nil {
			return nil, err
		}
		return sql.Open("pgx", stdlib.RegisterConnConfig(connConfig))
	default:
		return sql.Open("sqlite", dsn)
	}
}

func (s SQLDB) Dialect() Dialect {
	return s.dialect
}

func (s SQLDB) Close() {
	const op = "SQLDB.Close"
	log := slog.With("op", op)

	log.Info("closing sql database...")

	if err := s.DB.Close(); err != nil {
		log.Error("failed to close", "err", err)
		return
	}
	log.Info("sql database is closed")
}

// uniqueViolation reports whether err is a unique or primary key
// violation and returns the name of the offending column when known.
func uniqueViolation(err error) (column string, ok bool) {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			// "UNIQUE constraint failed: users.email"
			msg := sqliteErr.Error()
			if i := strings.LastIndex(msg, "."); i >= 0 {
				column, _, _ = strings.Cut(msg[i+1:], " ")
			}
			return column, true
		}
		return "", false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		// users_email_key, users_pkey
		switch {
		case strings.Contains(pgErr.ConstraintName, "email"):
			return "email", true
		case strings.HasSuffix(pgErr.ConstraintName, "_pkey"):
			return "username", true
		}
		return pgErr.ColumnName, true
	}
	return "", false
}
