package schema

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/pgscope/pgscope/internal/database"
	"github.com/pgscope/pgscope/internal/errs"
	"github.com/pgscope/pgscope/internal/logger"
)

// validDataTypes is the closed set of column types accepted for table
// creation. Types not listed here are rejected before any SQL is built.
var validDataTypes = map[string]struct{}{
	"smallint": {}, "integer": {}, "bigint": {}, "decimal": {}, "numeric": {},
	"real": {}, "double precision": {},
	"smallserial": {}, "serial": {}, "bigserial": {},
	"character": {}, "char": {}, "character varying": {}, "varchar": {}, "text": {},
	"bytea":     {},
	"timestamp": {}, "timestamp with time zone": {}, "timestamp without time zone": {},
	"date": {}, "time": {}, "time with time zone": {}, "time without time zone": {},
	"interval": {},
	"boolean":  {}, "bool": {},
	"uuid": {},
	"json": {}, "jsonb": {},
	"inet": {}, "cidr": {}, "macaddr": {},
	"int": {}, "int2": {}, "int4": {}, "int8": {}, "float4": {}, "float8": {},
}

// typeModifierPattern matches a length/precision modifier like (255) or
// (10, 2). Anything else between the parentheses is rejected.
var typeModifierPattern = regexp.MustCompile(`^\(\s*\d+\s*(,\s*\d+\s*)?\)$`)

// numericLiteralPattern matches default values that may pass into DDL
// unquoted.
var numericLiteralPattern = regexp.MustCompile(`^-?\d+(\.\d+)?$`)

// defaultExprKeywords are the SQL expressions accepted verbatim as column
// defaults. Any other default is rendered as a quoted string literal.
var defaultExprKeywords = map[string]struct{}{
	"null": {}, "true": {}, "false": {},
	"current_timestamp": {}, "current_date": {}, "current_time": {},
	"now()": {}, "gen_random_uuid()": {},
}

// ColumnDef is one column in a create-table request.
type ColumnDef struct {
	Name       string  `json:"name"`
	DataType   string  `json:"type"`
	Nullable   *bool   `json:"nullable,omitempty"`
	PrimaryKey bool    `json:"primaryKey,omitempty"`
	Unique     bool    `json:"unique,omitempty"`
	Default    *string `json:"defaultValue,omitempty"`
}

// validateDataType checks the column type against the closed set, allowing
// an optional length/precision modifier and an array suffix.
func (c ColumnDef) validateDataType() error {
	t := strings.ToLower(strings.TrimSpace(c.DataType))
	if t == "" {
		return errs.Newf(errs.ErrKindValidation, "column %q: type is required", c.Name)
	}
	t = strings.TrimSuffix(t, "[]")

	base := t
	if i := strings.IndexByte(t, '('); i >= 0 {
		base = strings.TrimSpace(t[:i])
		if !typeModifierPattern.MatchString(t[i:]) {
			return errs.Newf(errs.ErrKindValidation,
				"column %q: malformed type modifier in %q", c.Name, c.DataType)
		}
	}
	if _, ok := validDataTypes[base]; !ok {
		return errs.Newf(errs.ErrKindValidation,
			"column %q: invalid data type %q", c.Name, c.DataType)
	}
	return nil
}

// SQL renders the column definition clause. The name passes through the
// identifier sanitizer; the type has been checked against the closed set;
// the default is either a recognized SQL expression or a quoted literal.
func (c ColumnDef) SQL() (string, error) {
	name, err := database.QuoteIdentifier(c.Name)
	if err != nil {
		return "", err
	}

	parts := []string{name, strings.TrimSpace(c.DataType)}
	if c.Nullable != nil && !*c.Nullable {
		parts = append(parts, "NOT NULL")
	}
	if c.PrimaryKey {
		parts = append(parts, "PRIMARY KEY")
	}
	if c.Unique {
		parts = append(parts, "UNIQUE")
	}
	if c.Default != nil {
		parts = append(parts, "DEFAULT "+renderDefault(*c.Default))
	}
	return strings.Join(parts, " "), nil
}

// renderDefault turns a caller-supplied default into DDL text. Numeric
// literals and the recognized expression keywords pass through; everything
// else becomes a single-quoted string literal with internal quotes doubled,
// so no caller value can escape into SQL.
func renderDefault(raw string) string {
	trimmed := strings.TrimSpace(raw)
	lower := strings.ToLower(trimmed)
	if _, ok := defaultExprKeywords[lower]; ok {
		return strings.ToUpper(lower)
	}
	if numericLiteralPattern.MatchString(trimmed) {
		return trimmed
	}
	return "'" + strings.ReplaceAll(raw, "'", "''") + "'"
}

// CreateTableSpec is a request to create a table in the active database.
type CreateTableSpec struct {
	TableName string      `json:"tableName"`
	Columns   []ColumnDef `json:"columns"`
}

func (s CreateTableSpec) validate() error {
	if s.TableName == "" {
		return errs.New(errs.ErrKindValidation, "tableName is required")
	}
	if len(s.Columns) == 0 {
		return errs.New(errs.ErrKindValidation, "at least one column is required")
	}
	for _, c := range s.Columns {
		if c.Name == "" {
			return errs.New(errs.ErrKindValidation, "column name is required")
		}
		if err := c.validateDataType(); err != nil {
			return err
		}
	}
	return nil
}

// TableManager creates tables on the active database.
type TableManager struct {
	pools PoolProvider
	log   *logger.Logger
}

// NewTableManager creates a TableManager over the given pools.
func NewTableManager(pools PoolProvider, log *logger.Logger) *TableManager {
	return &TableManager{pools: pools, log: log}
}

// CreateTable validates spec and issues the CREATE TABLE. A table that
// already exists surfaces as ErrKindAlreadyExists from the driver's
// duplicate-table mapping; other engine failures surface as-is.
func (tm *TableManager) CreateTable(ctx context.Context, spec CreateTableSpec) error {
	if err := spec.validate(); err != nil {
		return err
	}
	pool, err := tm.pools.Active()
	if err != nil {
		return err
	}

	defs := make([]string, len(spec.Columns))
	for i, col := range spec.Columns {
		def, err := col.SQL()
		if err != nil {
			return fmt.Errorf("column %s: %w", col.Name, err)
		}
		defs[i] = def
	}

	ddl, err := database.BuildCreateTable(spec.TableName, defs)
	if err != nil {
		return err
	}
	if _, err := pool.Exec(ctx, ddl); err != nil {
		return err
	}

	tm.log.Info("table created",
		"table", spec.TableName, "columns", fmt.Sprintf("%d", len(spec.Columns)))
	return nil
}
