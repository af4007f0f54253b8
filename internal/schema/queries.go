package schema

// Catalog queries. Identifiers supplied by callers are always bound as
// parameters here; these are data lookups, not DDL.

// listDatabasesQuery lists all non-template databases, ordered by name.
const listDatabasesQuery = `
	SELECT datname
	FROM pg_database
	WHERE datistemplate = false
	ORDER BY datname`

// listTablesQuery lists ordinary and partitioned tables visible in the
// current search path, excluding system, toast, and information schemas.
const listTablesQuery = `
	SELECT
		n.nspname AS schema,
		c.relname AS name,
		CASE c.relkind
			WHEN 'r' THEN 'table'
			WHEN 'v' THEN 'view'
			WHEN 'm' THEN 'materialized view'
			WHEN 'i' THEN 'index'
			WHEN 'S' THEN 'sequence'
			WHEN 't' THEN 'TOAST table'
			WHEN 'f' THEN 'foreign table'
			WHEN 'p' THEN 'partitioned table'
			WHEN 'I' THEN 'partitioned index'
		END AS type,
		pg_catalog.pg_get_userbyid(c.relowner) AS owner
	FROM pg_catalog.pg_class c
		LEFT JOIN pg_catalog.pg_namespace n ON n.oid = c.relnamespace
	WHERE c.relkind IN ('r','p')
		AND n.nspname <> 'pg_catalog'
		AND n.nspname !~ '^pg_toast'
		AND n.nspname <> 'information_schema'
		AND pg_catalog.pg_table_is_visible(c.oid)
	ORDER BY schema, name`

// listColumnsQuery returns column metadata for a table in a given schema,
// in catalog order, with primary-key and unique flags attached. $1 is the
// schema, $2 the table; plain lookups bind $1 to public, snapshot capture
// binds the schema each table was found in.
const listColumnsQuery = `
	SELECT
		c.column_name,
		c.data_type,
		c.is_nullable = 'YES' AS nullable,
		c.column_default,
		c.character_maximum_length,
		COALESCE(pk.is_pk, false) AS is_primary_key,
		COALESCE(uq.is_unique, false) AS is_unique
	FROM information_schema.columns c
	LEFT JOIN (
		SELECT kcu.column_name, true AS is_pk
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu
			ON tc.constraint_name = kcu.constraint_name
			AND tc.table_schema = kcu.table_schema
		WHERE tc.constraint_type = 'PRIMARY KEY'
			AND tc.table_schema = $1
			AND tc.table_name = $2
	) pk ON c.column_name = pk.column_name
	LEFT JOIN (
		SELECT kcu.column_name, true AS is_unique
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu
			ON tc.constraint_name = kcu.constraint_name
			AND tc.table_schema = kcu.table_schema
		WHERE tc.constraint_type = 'UNIQUE'
			AND tc.table_schema = $1
			AND tc.table_name = $2
	) uq ON c.column_name = uq.column_name
	WHERE c.table_schema = $1
		AND c.table_name = $2
	ORDER BY c.ordinal_position`

// listPrimaryKeysQuery returns the ordered key columns of a table's
// primary key.
const listPrimaryKeysQuery = `
	SELECT kcu.column_name
	FROM information_schema.table_constraints tc
	JOIN information_schema.key_column_usage kcu
		ON tc.constraint_name = kcu.constraint_name
		AND tc.table_schema = kcu.table_schema
	WHERE tc.constraint_type = 'PRIMARY KEY'
		AND tc.table_schema = 'public'
		AND tc.table_name = $1
	ORDER BY kcu.ordinal_position`

// listForeignKeysQuery returns the foreign keys of one table, ordered by
// constraint name.
const listForeignKeysQuery = `
	SELECT
		tc.constraint_name,
		kcu.column_name,
		ccu.table_name AS referenced_table,
		ccu.column_name AS referenced_column,
		rc.update_rule,
		rc.delete_rule
	FROM information_schema.table_constraints AS tc
	JOIN information_schema.key_column_usage AS kcu
		ON tc.constraint_name = kcu.constraint_name
		AND tc.table_schema = kcu.table_schema
	JOIN information_schema.constraint_column_usage AS ccu
		ON ccu.constraint_name = tc.constraint_name
		AND ccu.table_schema = tc.table_schema
	JOIN information_schema.referential_constraints AS rc
		ON rc.constraint_name = tc.constraint_name
		AND rc.constraint_schema = tc.table_schema
	WHERE tc.table_name = $1
		AND tc.table_schema = 'public'
		AND tc.constraint_type = 'FOREIGN KEY'
	ORDER BY tc.constraint_name`

// listAllForeignKeysQuery returns every foreign key in the public schema,
// ordered by source table then constraint name.
const listAllForeignKeysQuery = `
	SELECT
		tc.table_name,
		tc.constraint_name,
		kcu.column_name,
		ccu.table_name AS referenced_table,
		ccu.column_name AS referenced_column,
		rc.update_rule,
		rc.delete_rule
	FROM information_schema.table_constraints AS tc
	JOIN information_schema.key_column_usage AS kcu
		ON tc.constraint_name = kcu.constraint_name
		AND tc.table_schema = kcu.table_schema
	JOIN information_schema.constraint_column_usage AS ccu
		ON ccu.constraint_name = tc.constraint_name
		AND ccu.table_schema = tc.table_schema
	JOIN information_schema.referential_constraints AS rc
		ON rc.constraint_name = tc.constraint_name
		AND rc.constraint_schema = tc.table_schema
	WHERE tc.constraint_type = 'FOREIGN KEY'
		AND tc.table_schema = 'public'
	ORDER BY tc.table_name, tc.constraint_name`

// constraintExistsQuery checks whether a foreign-key constraint with the
// given name already exists in the public schema.
const constraintExistsQuery = `
	SELECT constraint_name
	FROM information_schema.table_constraints
	WHERE constraint_name = $1
		AND constraint_type = 'FOREIGN KEY'
		AND table_schema = 'public'`

// validateReferenceQuery reports whether a column carries a primary-key or
// unique constraint, the precondition for being a foreign-key target.
const validateReferenceQuery = `
	SELECT EXISTS(
		SELECT 1
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu
			ON tc.constraint_name = kcu.constraint_name
			AND tc.table_schema = kcu.table_schema
		WHERE tc.table_schema = 'public'
			AND tc.table_name = $1
			AND kcu.column_name = $2
			AND tc.constraint_type IN ('PRIMARY KEY', 'UNIQUE')
	) AS is_valid`
