package schema

import (
	"context"
	"fmt"

	"github.com/pgscope/pgscope/internal/database"
	"github.com/pgscope/pgscope/internal/errs"
	"github.com/pgscope/pgscope/internal/logger"
)

// ForeignKeySpec is a request to create a foreign-key constraint.
// ConstraintName is optional; OnDelete/OnUpdate default to RESTRICT.
type ForeignKeySpec struct {
	SourceTable      string `json:"sourceTable"`
	SourceColumn     string `json:"sourceColumn"`
	ReferencedTable  string `json:"referencedTable"`
	ReferencedColumn string `json:"referencedColumn"`
	ConstraintName   string `json:"constraintName,omitempty"`
	OnDelete         string `json:"onDelete,omitempty"`
	OnUpdate         string `json:"onUpdate,omitempty"`
}

// ResolveName returns the explicit constraint name, or the deterministic
// derived form fk_<sourceTable>_<sourceColumn>_<referencedTable>_<referencedColumn>.
func (s ForeignKeySpec) ResolveName() string {
	if s.ConstraintName != "" {
		return s.ConstraintName
	}
	return fmt.Sprintf("fk_%s_%s_%s_%s",
		s.SourceTable, s.SourceColumn, s.ReferencedTable, s.ReferencedColumn)
}

func (s ForeignKeySpec) validate() error {
	for _, f := range []struct{ name, val string }{
		{"sourceTable", s.SourceTable},
		{"sourceColumn", s.SourceColumn},
		{"referencedTable", s.ReferencedTable},
		{"referencedColumn", s.ReferencedColumn},
	} {
		if f.val == "" {
			return errs.Newf(errs.ErrKindValidation, "%s is required", f.name)
		}
	}
	return nil
}

// ConstraintManager creates, lists, and drops foreign-key constraints on
// the active database. All DDL text is built through the identifier
// sanitizer; all lookups bind caller input as parameters.
type ConstraintManager struct {
	pools PoolProvider
	log   *logger.Logger
}

// NewConstraintManager creates a ConstraintManager over the given pools.
func NewConstraintManager(pools PoolProvider, log *logger.Logger) *ConstraintManager {
	return &ConstraintManager{pools: pools, log: log}
}

// CreateForeignKey validates spec, checks the resolved constraint name is
// free, verifies the referenced column is an eligible target, then issues
// the ALTER TABLE. The pre-check is best effort: two concurrent creates can
// both pass it, and the loser surfaces the engine's duplicate-object error
// as ErrKindConstraintExists.
func (cm *ConstraintManager) CreateForeignKey(ctx context.Context, spec ForeignKeySpec) (*ForeignKey, error) {
	if err := spec.validate(); err != nil {
		return nil, err
	}
	onDelete, err := ParseReferentialAction(spec.OnDelete)
	if err != nil {
		return nil, err
	}
	onUpdate, err := ParseReferentialAction(spec.OnUpdate)
	if err != nil {
		return nil, err
	}
	name := spec.ResolveName()

	pool, err := cm.pools.Active()
	if err != nil {
		return nil, err
	}

	exists, err := cm.constraintExists(ctx, pool, name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errs.Newf(errs.ErrKindConstraintExists, "constraint %q already exists", name)
	}

	valid, _, err := cm.checkReference(ctx, pool, spec.ReferencedTable, spec.ReferencedColumn)
	if err != nil {
		return nil, err
	}
	if !valid {
		return nil, errs.Newf(errs.ErrKindValidation,
			"column %q.%q cannot be referenced: it must be a primary key or carry a unique constraint",
			spec.ReferencedTable, spec.ReferencedColumn)
	}

	ddl, err := database.BuildAddForeignKey(
		spec.SourceTable, name, spec.SourceColumn,
		spec.ReferencedTable, spec.ReferencedColumn,
		onDelete.SQL(), onUpdate.SQL(),
	)
	if err != nil {
		return nil, err
	}

	if _, err := pool.Exec(ctx, ddl); err != nil {
		return nil, err
	}

	cm.log.Info("foreign key created",
		"constraint", name, "table", spec.SourceTable)

	return &ForeignKey{
		SourceTable:      spec.SourceTable,
		Name:             name,
		Column:           spec.SourceColumn,
		ReferencedTable:  spec.ReferencedTable,
		ReferencedColumn: spec.ReferencedColumn,
		OnDelete:         onDelete.SQL(),
		OnUpdate:         onUpdate.SQL(),
	}, nil
}

// ListForeignKeys returns the foreign keys of one table in the public
// schema, ordered by constraint name.
func (cm *ConstraintManager) ListForeignKeys(ctx context.Context, table string) ([]ForeignKey, error) {
	if table == "" {
		return nil, errs.New(errs.ErrKindValidation, "table name is required")
	}
	pool, err := cm.pools.Active()
	if err != nil {
		return nil, err
	}

	rows, err := pool.Query(ctx, listForeignKeysQuery, table)
	if err != nil {
		return nil, fmt.Errorf("list foreign keys for %s: %w", table, err)
	}
	defer rows.Close()

	fks := []ForeignKey{}
	for rows.Next() {
		var fk ForeignKey
		if err := rows.Scan(
			&fk.Name, &fk.Column,
			&fk.ReferencedTable, &fk.ReferencedColumn,
			&fk.OnUpdate, &fk.OnDelete,
		); err != nil {
			return nil, fmt.Errorf("scan foreign key: %w", err)
		}
		fks = append(fks, fk)
	}
	return fks, rows.Err()
}

// ListAllForeignKeys returns every foreign key in the public schema,
// ordered by (source table, constraint name).
func (cm *ConstraintManager) ListAllForeignKeys(ctx context.Context) ([]ForeignKey, error) {
	pool, err := cm.pools.Active()
	if err != nil {
		return nil, err
	}

	rows, err := pool.Query(ctx, listAllForeignKeysQuery)
	if err != nil {
		return nil, fmt.Errorf("list all foreign keys: %w", err)
	}
	defer rows.Close()

	fks := []ForeignKey{}
	for rows.Next() {
		var fk ForeignKey
		if err := rows.Scan(
			&fk.SourceTable, &fk.Name, &fk.Column,
			&fk.ReferencedTable, &fk.ReferencedColumn,
			&fk.OnUpdate, &fk.OnDelete,
		); err != nil {
			return nil, fmt.Errorf("scan foreign key: %w", err)
		}
		fks = append(fks, fk)
	}
	return fks, rows.Err()
}

// DeleteForeignKey drops a constraint from a table. There is no pre-check:
// DROP on a missing constraint is self-describing, and the engine error is
// surfaced as-is.
func (cm *ConstraintManager) DeleteForeignKey(ctx context.Context, table, constraint string) error {
	if table == "" || constraint == "" {
		return errs.New(errs.ErrKindValidation, "table name and constraint name are required")
	}
	pool, err := cm.pools.Active()
	if err != nil {
		return err
	}

	ddl, err := database.BuildDropConstraint(table, constraint)
	if err != nil {
		return err
	}
	if _, err := pool.Exec(ctx, ddl); err != nil {
		return err
	}

	cm.log.Info("foreign key dropped", "constraint", constraint, "table", table)
	return nil
}

// ValidateReference reports whether a column is an eligible foreign-key
// target, with a human-readable reason.
func (cm *ConstraintManager) ValidateReference(ctx context.Context, table, column string) (bool, string, error) {
	if table == "" || column == "" {
		return false, "", errs.New(errs.ErrKindValidation, "table name and column name are required")
	}
	pool, err := cm.pools.Active()
	if err != nil {
		return false, "", err
	}
	return cm.checkReference(ctx, pool, table, column)
}

func (cm *ConstraintManager) constraintExists(ctx context.Context, pool database.DB, name string) (bool, error) {
	rows, err := pool.Query(ctx, constraintExistsQuery, name)
	if err != nil {
		return false, fmt.Errorf("check constraint exists: %w", err)
	}
	defer rows.Close()

	exists := rows.Next()
	return exists, rows.Err()
}

func (cm *ConstraintManager) checkReference(ctx context.Context, pool database.DB, table, column string) (bool, string, error) {
	var valid bool
	if err := pool.QueryRow(ctx, validateReferenceQuery, table, column).Scan(&valid); err != nil {
		return false, "", fmt.Errorf("validate reference %s.%s: %w", table, column, err)
	}
	if valid {
		return true, "column can be referenced as a foreign key", nil
	}
	return false, "column cannot be referenced (must be a primary key or unique)", nil
}
