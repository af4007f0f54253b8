package database

import (
	"fmt"
	"strings"

	"github.com/pgscope/pgscope/internal/errs"
)

// maxIdentifierLen is NAMEDATALEN-1: PostgreSQL truncates longer names,
// which would silently change what a DDL statement targets.
const maxIdentifierLen = 63

// QuoteIdentifier validates a caller-supplied SQL identifier (table, column,
// constraint, or database name) and returns it double-quoted with internal
// quotes doubled, safe to interpolate into SQL text.
//
// This is the single chokepoint for identifiers entering SQL. Identifiers
// cannot be bound parameters in SQL; data values must never come through
// here; they go through parameter binding instead.
func QuoteIdentifier(name string) (string, error) {
	if name == "" {
		return "", errs.New(errs.ErrKindInvalidIdentifier, "identifier must not be empty")
	}
	if len(name) > maxIdentifierLen {
		return "", errs.Newf(errs.ErrKindInvalidIdentifier,
			"identifier %q exceeds %d bytes", name, maxIdentifierLen)
	}

	quoted := make([]byte, 0, len(name)+2)
	quoted = append(quoted, '"')
	for i := 0; i < len(name); i++ {
		if name[i] == '"' {
			quoted = append(quoted, '"', '"')
		} else {
			quoted = append(quoted, name[i])
		}
	}
	quoted = append(quoted, '"')
	return string(quoted), nil
}

// --- DDL builders ---
//
// Every identifier below passes through QuoteIdentifier. The referential
// actions in BuildAddForeignKey are not identifiers: callers must pass one
// of the closed set of SQL action keywords, validated before reaching here.

// BuildCreateDatabase returns a CREATE DATABASE statement for name.
func BuildCreateDatabase(name string) (string, error) {
	q, err := QuoteIdentifier(name)
	if err != nil {
		return "", err
	}
	return "CREATE DATABASE " + q, nil
}

// BuildCreateTable returns a CREATE TABLE statement. columnDefs are
// complete column clauses already built through QuoteIdentifier and the
// column-definition validator; this builder only sanitizes the table name.
func BuildCreateTable(name string, columnDefs []string) (string, error) {
	q, err := QuoteIdentifier(name)
	if err != nil {
		return "", err
	}
	if len(columnDefs) == 0 {
		return "", errs.New(errs.ErrKindValidation, "at least one column is required")
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", q, strings.Join(columnDefs, ", ")), nil
}

// BuildDropDatabase returns a DROP DATABASE statement for name.
func BuildDropDatabase(name string) (string, error) {
	q, err := QuoteIdentifier(name)
	if err != nil {
		return "", err
	}
	return "DROP DATABASE " + q, nil
}

// BuildAddForeignKey returns an ALTER TABLE … ADD CONSTRAINT … FOREIGN KEY
// statement with all five identifiers sanitized.
func BuildAddForeignKey(table, constraint, column, refTable, refColumn, onDelete, onUpdate string) (string, error) {
	parts := make([]string, 5)
	for i, name := range []string{table, constraint, column, refTable, refColumn} {
		q, err := QuoteIdentifier(name)
		if err != nil {
			return "", err
		}
		parts[i] = q
	}
	return fmt.Sprintf(
		"ALTER TABLE %s ADD CONSTRAINT %s FOREIGN KEY (%s) REFERENCES %s(%s) ON DELETE %s ON UPDATE %s",
		parts[0], parts[1], parts[2], parts[3], parts[4], onDelete, onUpdate,
	), nil
}

// BuildDropConstraint returns an ALTER TABLE … DROP CONSTRAINT statement.
func BuildDropConstraint(table, constraint string) (string, error) {
	qt, err := QuoteIdentifier(table)
	if err != nil {
		return "", err
	}
	qc, err := QuoteIdentifier(constraint)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("ALTER TABLE %s DROP CONSTRAINT %s", qt, qc), nil
}
