// Command generate_schema applies every migration to an in-memory database
// and writes the resulting DDL to sqlc/schema.sql, which sqlc and the tests
// consume. Run it from the module root.
package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"mailorg/internal/database"
	"mailorg/internal/database/migrations"
)

const schemaHeader = `-- This file is auto-generated from migration files.
-- DO NOT EDIT MANUALLY. Run 'go generate ./internal/database' to regenerate.
-- Source: internal/database/migrations/files/*.sql

`

// Tables first so that indexes follow the table they belong to.
const ddlQuery = `
SELECT type, sql
FROM sqlite_master
WHERE sql IS NOT NULL
  AND name NOT LIKE 'sqlite_%'
  AND tbl_name != 'schema_migrations'
ORDER BY CASE type WHEN 'table' THEN 0 ELSE 1 END, tbl_name, name`

func main() {
	out := flag.String("o", filepath.Join("internal", "database", "sqlc", "schema.sql"), "output file")
	flag.Parse()

	if err := run(*out); err != nil {
		fmt.Fprintf(os.Stderr, "generate_schema: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("generated %s\n", *out)
}

func run(out string) error {
	db, err := database.OpenConnection(":memory:")
	if err != nil {
		return err
	}
	defer db.Close()

	if err := migrations.MigrateUp(db); err != nil {
		return err
	}

	ddl, err := dumpDDL(db)
	if err != nil {
		return err
	}
	return os.WriteFile(out, []byte(schemaHeader+ddl), 0644)
}

func dumpDDL(db *sql.DB) (string, error) {
	rows, err := db.Query(ddlQuery)
	if err != nil {
		return "", fmt.Errorf("reading sqlite_master: %w", err)
	}
	defer rows.Close()

	var b strings.Builder
	for rows.Next() {
		var kind, stmt string
		if err := rows.Scan(&kind, &stmt); err != nil {
			return "", fmt.Errorf("scanning %s: %w", kind, err)
		}
		b.WriteString(stmt)
		b.WriteString(";\n\n")
	}
	return b.String(), rows.Err()
}
