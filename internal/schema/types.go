// Package schema introspects and mutates structural metadata of the
// connected PostgreSQL database: tables, columns, primary keys, and
// foreign-key constraints. The target database's own catalog is the system
// of record; nothing here is cached or shadowed.
package schema

import (
	"strings"

	"github.com/pgscope/pgscope/internal/errs"
)

// Table describes one relation visible in the current search path.
type Table struct {
	Schema string `json:"schema"`
	Name   string `json:"name"`
	Kind   string `json:"type"`
	Owner  string `json:"owner"`
}

// Column describes one column of a table, as reported by
// information_schema.columns.
type Column struct {
	Name         string  `json:"name"`
	DataType     string  `json:"dataType"`
	Nullable     bool    `json:"nullable"`
	Default      *string `json:"defaultValue"`
	MaxLength    *int    `json:"maxLength"`
	IsPrimaryKey bool    `json:"isPrimaryKey"`
	IsUnique     bool    `json:"isUnique"`
}

// ForeignKey describes one foreign-key constraint. SourceTable is empty in
// single-table listings where the table is implied by the request.
type ForeignKey struct {
	SourceTable      string `json:"sourceTable,omitempty"`
	Name             string `json:"name"`
	Column           string `json:"column"`
	ReferencedTable  string `json:"referencedTable"`
	ReferencedColumn string `json:"referencedColumn"`
	OnUpdate         string `json:"onUpdate"`
	OnDelete         string `json:"onDelete"`
}

// ReferentialAction is an ON DELETE / ON UPDATE behaviour. Only the five
// SQL-standard actions exist; anything else is rejected before SQL
// construction.
type ReferentialAction string

const (
	ActionRestrict   ReferentialAction = "RESTRICT"
	ActionCascade    ReferentialAction = "CASCADE"
	ActionSetNull    ReferentialAction = "SET NULL"
	ActionNoAction   ReferentialAction = "NO ACTION"
	ActionSetDefault ReferentialAction = "SET DEFAULT"
)

// SQL returns the action as it appears in DDL text.
func (a ReferentialAction) SQL() string { return string(a) }

// ParseReferentialAction normalises raw caller input into a
// ReferentialAction. Empty input defaults to RESTRICT. Matching is
// case-insensitive and accepts underscores for spaces (SET_NULL).
func ParseReferentialAction(raw string) (ReferentialAction, error) {
	if raw == "" {
		return ActionRestrict, nil
	}
	norm := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(raw), "_", " "))
	switch ReferentialAction(norm) {
	case ActionRestrict, ActionCascade, ActionSetNull, ActionNoAction, ActionSetDefault:
		return ReferentialAction(norm), nil
	}
	return "", errs.Newf(errs.ErrKindValidation,
		"invalid referential action %q (want RESTRICT, CASCADE, SET NULL, NO ACTION, or SET DEFAULT)", raw)
}
