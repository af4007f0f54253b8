package schema

import (
	"context"
	"fmt"

	"github.com/pgscope/pgscope/internal/database"
	"github.com/pgscope/pgscope/internal/errs"
)

// PoolProvider hands out the pools the schema layer queries. The connection
// manager implements it; tests substitute fakes.
type PoolProvider interface {
	// Active returns the client-selected pool, or ErrKindNotConnected.
	Active() (database.DB, error)

	// Admin returns the always-on maintenance pool.
	Admin() database.DB
}

// Introspector runs read-only catalog queries. Every method recomputes from
// the live catalog; results are never cached.
type Introspector struct {
	pools PoolProvider
}

// NewIntrospector creates an Introspector over the given pools.
func NewIntrospector(pools PoolProvider) *Introspector {
	return &Introspector{pools: pools}
}

// ListDatabases returns the names of all non-template databases on the
// admin server, ordered by name. It does not require an active connection.
func (in *Introspector) ListDatabases(ctx context.Context) ([]string, error) {
	return scanStrings(ctx, in.pools.Admin(), listDatabasesQuery)
}

// ListTables returns ordinary and partitioned tables visible in the active
// database's search path, ordered by (schema, name).
func (in *Introspector) ListTables(ctx context.Context) ([]Table, error) {
	pool, err := in.pools.Active()
	if err != nil {
		return nil, err
	}

	rows, err := pool.Query(ctx, listTablesQuery)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer rows.Close()

	tables := []Table{}
	for rows.Next() {
		var t Table
		if err := rows.Scan(&t.Schema, &t.Name, &t.Kind, &t.Owner); err != nil {
			return nil, fmt.Errorf("scan table: %w", err)
		}
		tables = append(tables, t)
	}
	return tables, rows.Err()
}

// ListColumns returns the columns of a table in the public schema, in
// catalog order. A table with no matching rows yields an empty slice, not
// an error, matching information_schema semantics.
func (in *Introspector) ListColumns(ctx context.Context, table string) ([]Column, error) {
	return in.ListColumnsIn(ctx, "public", table)
}

// ListColumnsIn is ListColumns scoped to an explicit schema. Callers that
// walk ListTables results must use it: those span every visible schema,
// and two same-named tables in different schemas have different columns.
func (in *Introspector) ListColumnsIn(ctx context.Context, schemaName, table string) ([]Column, error) {
	if schemaName == "" {
		return nil, errs.New(errs.ErrKindValidation, "schema name is required")
	}
	if table == "" {
		return nil, errs.New(errs.ErrKindValidation, "table name is required")
	}
	pool, err := in.pools.Active()
	if err != nil {
		return nil, err
	}

	rows, err := pool.Query(ctx, listColumnsQuery, schemaName, table)
	if err != nil {
		return nil, fmt.Errorf("list columns for %s.%s: %w", schemaName, table, err)
	}
	defer rows.Close()

	cols := []Column{}
	for rows.Next() {
		var c Column
		if err := rows.Scan(
			&c.Name, &c.DataType, &c.Nullable,
			&c.Default, &c.MaxLength,
			&c.IsPrimaryKey, &c.IsUnique,
		); err != nil {
			return nil, fmt.Errorf("scan column: %w", err)
		}
		cols = append(cols, c)
	}
	return cols, rows.Err()
}

// ListPrimaryKeys returns the ordered key columns of the table's primary
// key, empty when the table has none.
func (in *Introspector) ListPrimaryKeys(ctx context.Context, table string) ([]string, error) {
	if table == "" {
		return nil, errs.New(errs.ErrKindValidation, "table name is required")
	}
	pool, err := in.pools.Active()
	if err != nil {
		return nil, err
	}
	return scanStrings(ctx, pool, listPrimaryKeysQuery, table)
}

// scanStrings runs a single-column query and collects the values.
func scanStrings(ctx context.Context, db database.DB, sql string, args ...any) ([]string, error) {
	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("scan value: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
