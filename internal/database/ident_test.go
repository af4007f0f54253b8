package database

import (
	"strings"
	"testing"

	"github.com/pgscope/pgscope/internal/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuoteIdentifier(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain", input: "users", want: `"users"`},
		{name: "mixed case preserved", input: "Orders", want: `"Orders"`},
		{name: "embedded quote doubled", input: `we"ird`, want: `"we""ird"`},
		{name: "only quotes", input: `""`, want: `""""""`},
		{name: "keyword", input: "table", want: `"table"`},
		{name: "spaces and semicolons stay inert", input: "x; DROP TABLE users", want: `"x; DROP TABLE users"`},
		{name: "max length", input: strings.Repeat("a", 63), want: `"` + strings.Repeat("a", 63) + `"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := QuoteIdentifier(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestQuoteIdentifierRejects(t *testing.T) {
	for _, input := range []string{"", strings.Repeat("a", 64)} {
		_, err := QuoteIdentifier(input)
		require.Error(t, err)
		assert.True(t, errs.IsInvalidIdentifier(err))
	}
}

func TestBuildAddForeignKey(t *testing.T) {
	sql, err := BuildAddForeignKey(
		"orders", "fk_orders_user_id_users_id", "user_id", "users", "id",
		"RESTRICT", "CASCADE",
	)
	require.NoError(t, err)
	assert.Equal(t,
		`ALTER TABLE "orders" ADD CONSTRAINT "fk_orders_user_id_users_id" FOREIGN KEY ("user_id") REFERENCES "users"("id") ON DELETE RESTRICT ON UPDATE CASCADE`,
		sql,
	)
}

func TestBuildAddForeignKeyQuotesHostileNames(t *testing.T) {
	sql, err := BuildAddForeignKey(
		`ord"ers`, "fk_x", "uid", "users", "id", "NO ACTION", "NO ACTION",
	)
	require.NoError(t, err)
	assert.Contains(t, sql, `"ord""ers"`)
}

func TestBuildAddForeignKeyRejectsEmptyIdentifier(t *testing.T) {
	_, err := BuildAddForeignKey("orders", "fk_x", "", "users", "id", "RESTRICT", "RESTRICT")
	assert.True(t, errs.IsInvalidIdentifier(err))
}

func TestBuildDropConstraint(t *testing.T) {
	sql, err := BuildDropConstraint("orders", "fk_orders_user_id_users_id")
	require.NoError(t, err)
	assert.Equal(t, `ALTER TABLE "orders" DROP CONSTRAINT "fk_orders_user_id_users_id"`, sql)
}

func TestBuildDatabaseDDL(t *testing.T) {
	sql, err := BuildCreateDatabase("analytics")
	require.NoError(t, err)
	assert.Equal(t, `CREATE DATABASE "analytics"`, sql)

	sql, err = BuildDropDatabase(`an"alytics`)
	require.NoError(t, err)
	assert.Equal(t, `DROP DATABASE "an""alytics"`, sql)

	_, err = BuildCreateDatabase("")
	assert.True(t, errs.IsInvalidIdentifier(err))
}
