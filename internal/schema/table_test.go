package schema

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgscope/pgscope/internal/errs"
)

func newTableManager(active *fakePool) *TableManager {
	return NewTableManager(&fakeProvider{active: active, admin: newFakePool()}, testLog())
}

func boolPtr(b bool) *bool    { return &b }
func strPtr(s string) *string { return &s }

func TestValidateDataType(t *testing.T) {
	tests := []struct {
		dataType string
		ok       bool
	}{
		{"integer", true},
		{"INTEGER", true},
		{"varchar", true},
		{"varchar(255)", true},
		{"numeric(10, 2)", true},
		{"timestamp with time zone", true},
		{"text[]", true},
		{"uuid", true},
		{"", false},
		{"geography", false},
		{"my_custom_type", false},
		{"varchar(255); DROP TABLE users", false},
		{"integer(1 OR 1=1)", false},
	}

	for _, tt := range tests {
		t.Run(tt.dataType, func(t *testing.T) {
			err := ColumnDef{Name: "c", DataType: tt.dataType}.validateDataType()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.True(t, errs.IsValidation(err))
			}
		})
	}
}

func TestColumnDefSQL(t *testing.T) {
	tests := []struct {
		name string
		col  ColumnDef
		want string
	}{
		{
			"plain",
			ColumnDef{Name: "title", DataType: "text"},
			`"title" text`,
		},
		{
			"not null primary key",
			ColumnDef{Name: "id", DataType: "serial", Nullable: boolPtr(false), PrimaryKey: true},
			`"id" serial NOT NULL PRIMARY KEY`,
		},
		{
			"unique with numeric default",
			ColumnDef{Name: "qty", DataType: "integer", Unique: true, Default: strPtr("0")},
			`"qty" integer UNIQUE DEFAULT 0`,
		},
		{
			"expression default",
			ColumnDef{Name: "created_at", DataType: "timestamp", Default: strPtr("now()")},
			`"created_at" timestamp DEFAULT NOW()`,
		},
		{
			"string default is quoted",
			ColumnDef{Name: "status", DataType: "text", Default: strPtr("pending")},
			`"status" text DEFAULT 'pending'`,
		},
		{
			"default cannot escape its literal",
			ColumnDef{Name: "note", DataType: "text", Default: strPtr("x'); DROP TABLE users; --")},
			`"note" text DEFAULT 'x''); DROP TABLE users; --'`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.col.SQL()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCreateTable(t *testing.T) {
	pool := newFakePool()
	tm := newTableManager(pool)

	err := tm.CreateTable(context.Background(), CreateTableSpec{
		TableName: "orders",
		Columns: []ColumnDef{
			{Name: "id", DataType: "serial", PrimaryKey: true},
			{Name: "status", DataType: "varchar(32)", Nullable: boolPtr(false), Default: strPtr("pending")},
		},
	})
	require.NoError(t, err)

	require.Len(t, pool.executed, 1)
	assert.Equal(t,
		`CREATE TABLE "orders" ("id" serial PRIMARY KEY, `+
			`"status" varchar(32) NOT NULL DEFAULT 'pending')`,
		pool.executed[0])
}

func TestCreateTableValidation(t *testing.T) {
	pool := newFakePool()
	tm := newTableManager(pool)

	tests := []struct {
		name string
		spec CreateTableSpec
	}{
		{"missing table name", CreateTableSpec{Columns: []ColumnDef{{Name: "id", DataType: "integer"}}}},
		{"no columns", CreateTableSpec{TableName: "orders"}},
		{"missing column name", CreateTableSpec{TableName: "orders", Columns: []ColumnDef{{DataType: "integer"}}}},
		{"bad data type", CreateTableSpec{TableName: "orders", Columns: []ColumnDef{{Name: "id", DataType: "nope"}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tm.CreateTable(context.Background(), tt.spec)
			assert.True(t, errs.IsValidation(err))
		})
	}
	// Nothing reached the database.
	assert.Empty(t, pool.executed)
}

func TestCreateTableNotConnected(t *testing.T) {
	tm := NewTableManager(&fakeProvider{admin: newFakePool()}, testLog())

	err := tm.CreateTable(context.Background(), CreateTableSpec{
		TableName: "orders",
		Columns:   []ColumnDef{{Name: "id", DataType: "integer"}},
	})
	assert.True(t, errs.IsNotConnected(err))
}

func TestCreateTableAlreadyExists(t *testing.T) {
	pool := newFakePool()
	pool.execErr = errs.Newf(errs.ErrKindAlreadyExists, `relation %q already exists`, "orders")
	tm := newTableManager(pool)

	err := tm.CreateTable(context.Background(), CreateTableSpec{
		TableName: "orders",
		Columns:   []ColumnDef{{Name: "id", DataType: "integer"}},
	})
	assert.True(t, errs.IsAlreadyExists(err))
}
