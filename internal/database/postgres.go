package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pgscope/pgscope/internal/errs"
)

// PoolSettings tunes every pool the server opens.
type PoolSettings struct {
	MaxConns       int32
	MinConns       int32
	ConnectTimeout time.Duration
}

// DefaultPoolSettings returns conservative settings for a metadata workload.
func DefaultPoolSettings() PoolSettings {
	return PoolSettings{
		MaxConns:       10,
		MinConns:       2,
		ConnectTimeout: 5 * time.Second,
	}
}

// Open creates a pgx connection pool for target. It does not verify the
// server is reachable; callers health-check before using the pool.
func Open(ctx context.Context, target Target, settings PoolSettings) (DB, error) {
	poolCfg, err := pgxpool.ParseConfig(buildDSN(target))
	if err != nil {
		// The raw error may echo parts of the DSN; keep it out of the message.
		return nil, errs.Newf(errs.ErrKindConnectionFailed,
			"invalid connection parameters for %s", target.Redacted())
	}

	if settings.MaxConns > 0 {
		poolCfg.MaxConns = settings.MaxConns
	}
	if settings.MinConns > 0 {
		poolCfg.MinConns = settings.MinConns
	}
	if settings.ConnectTimeout > 0 {
		poolCfg.ConnConfig.ConnectTimeout = settings.ConnectTimeout
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, mapError(err)
	}
	return &pgPool{pool: pool}, nil
}

func buildDSN(t Target) string {
	port := t.Port
	if port == 0 {
		port = 5432
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		t.Host, port, t.User, t.Password, t.Database,
	)
}

// pgPool implements DB over a pgxpool.Pool.
type pgPool struct {
	pool *pgxpool.Pool
}

func (p *pgPool) Ping(ctx context.Context) error {
	return mapError(p.pool.Ping(ctx))
}

func (p *pgPool) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	rows, err := p.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, mapError(err)
	}
	return &pgRows{rows: rows}, nil
}

func (p *pgPool) QueryRow(ctx context.Context, sql string, args ...any) Row {
	return &pgRow{row: p.pool.QueryRow(ctx, sql, args...)}
}

func (p *pgPool) Exec(ctx context.Context, sql string, args ...any) (int64, error) {
	tag, err := p.pool.Exec(ctx, sql, args...)
	if err != nil {
		return 0, mapError(err)
	}
	return tag.RowsAffected(), nil
}

func (p *pgPool) Close() {
	p.pool.Close()
}

type pgRows struct{ rows pgx.Rows }

func (r *pgRows) Next() bool             { return r.rows.Next() }
func (r *pgRows) Scan(dest ...any) error { return mapError(r.rows.Scan(dest...)) }
func (r *pgRows) Close()                 { r.rows.Close() }
func (r *pgRows) Err() error             { return mapError(r.rows.Err()) }

type pgRow struct{ row pgx.Row }

func (r *pgRow) Scan(dest ...any) error { return mapError(r.row.Scan(dest...)) }

// PostgreSQL SQLSTATE error codes relevant to this service.
// Full list: https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	pgErrInvalidAuth        = "28000" // invalid_authorization_specification
	pgErrInvalidPassword    = "28P01" // invalid_password
	pgErrUnknownDatabase    = "3D000" // invalid_catalog_name
	pgErrDuplicateObject    = "42710" // duplicate_object (constraint name taken)
	pgErrDuplicateTable     = "42P07" // duplicate_table
	pgErrQueryCanceled      = "57014" // query_canceled (statement timeout / cancel)
	pgErrCannotConnectClass = "08"    // connection exception class
)

// mapError converts a pgx error into a pgscope errs.Error.
func mapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return errs.Wrap(errs.ErrKindTimeout, "operation cancelled or timed out", err)
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return errs.Wrap(errs.ErrKindNotFound, "record not found", err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == pgErrInvalidAuth || pgErr.Code == pgErrInvalidPassword:
			return errs.Wrap(errs.ErrKindConnectionFailed, "authentication failed", err)
		case pgErr.Code == pgErrUnknownDatabase:
			return errs.Wrap(errs.ErrKindConnectionFailed, "database does not exist", err)
		case pgErr.Code == pgErrDuplicateObject:
			return errs.Wrap(errs.ErrKindConstraintExists, pgErr.Message, err)
		case pgErr.Code == pgErrDuplicateTable:
			return errs.Wrap(errs.ErrKindAlreadyExists, pgErr.Message, err)
		case pgErr.Code == pgErrQueryCanceled:
			return errs.Wrap(errs.ErrKindTimeout, pgErr.Message, err)
		case len(pgErr.Code) >= 2 && pgErr.Code[:2] == pgErrCannotConnectClass:
			return errs.Wrap(errs.ErrKindConnectionFailed, pgErr.Message, err)
		default:
			// Surfaced verbatim: the engine message is the diagnosis.
			return errs.Wrap(errs.ErrKindDatabase, pgErr.Message, err)
		}
	}

	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return errs.Wrap(errs.ErrKindConnectionFailed, "could not reach database server", err)
	}

	return errs.Wrap(errs.ErrKindDatabase, err.Error(), err)
}
