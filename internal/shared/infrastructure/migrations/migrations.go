// Package migrations applies the embedded schema to a database connection.
// The DDL is restricted to constructs both SQLite and PostgreSQL accept so
// a single schema file serves both drivers.
package migrations

import (
	"context"
	"embed"
	"fmt"
	"strings"

	"github.com/felixgeelhaar/monkmode/internal/shared/infrastructure/database"
)

//go:embed schema.sql
var schemaFS embed.FS

// Run applies the schema. Every statement is idempotent so Run is safe to
// call on every startup.
func Run(ctx context.Context, conn database.Connection) error {
	schema, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return fmt.Errorf("read embedded schema: %w", err)
	}

	for _, stmt := range splitStatements(string(schema)) {
		if _, err := conn.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema statement %q: %w", firstLine(stmt), err)
		}
	}
	return nil
}

func splitStatements(schema string) []string {
	parts := strings.Split(schema, ";")
	stmts := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			stmts = append(stmts, s)
		}
	}
	return stmts
}

func firstLine(stmt string) string {
	if i := strings.IndexByte(stmt, '\n'); i >= 0 {
		return stmt[:i]
	}
	return stmt
}
