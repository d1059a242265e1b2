package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/idotta/jsonb-store/internal/schema"
)

// EnsureCollection creates the collection table if it does not exist and
// brings its generated columns up to date with the declared schema.
// Idempotent: existing columns are detected via PRAGMA table_info and
// skipped; indexes use CREATE INDEX IF NOT EXISTS.
//
// Columns are only ever added, never altered or dropped - changing the
// path or type of a declared column requires a new column name.
func (s *Store) EnsureCollection(ctx context.Context, col schema.Collection) error {
	if err := col.Validate(); err != nil {
		return fmt.Errorf("ensure collection: %w", err)
	}

	_, err := s.db.ExecContext(ctx, fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id   TEXT PRIMARY KEY,
			data TEXT NOT NULL CHECK (json_valid(data))
		)
	`, quoteIdent(col.Name)))
	if err != nil {
		return fmt.Errorf("create collection %s: %w", col.Name, err)
	}

	existing, err := s.tableColumns(ctx, col.Name)
	if err != nil {
		return err
	}

	for _, vc := range col.Columns {
		if !existing[vc.Column] {
			// Path strings come validated from the schema layer; values in
			// generated-column expressions cannot be parameterized.
			ddl := fmt.Sprintf(
				"ALTER TABLE %s ADD COLUMN %s %s GENERATED ALWAYS AS (json_extract(data, %s)) VIRTUAL",
				quoteIdent(col.Name), quoteIdent(vc.Column), vc.Type.SQL(), quoteString(vc.JSONPath))
			if _, err := s.db.ExecContext(ctx, ddl); err != nil {
				return fmt.Errorf("add column %s.%s: %w", col.Name, vc.Column, err)
			}
		}

		idx := fmt.Sprintf("idx_%s_%s", col.Name, vc.Column)
		ddl := fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON %s (%s)",
			quoteIdent(idx), quoteIdent(col.Name), quoteIdent(vc.Column))
		if _, err := s.db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("index %s: %w", idx, err)
		}
	}

	return nil
}

// HasCollection reports whether a table for the collection exists.
func (s *Store) HasCollection(ctx context.Context, name string) (bool, error) {
	if !schema.ValidIdentifier(name) {
		return false, fmt.Errorf("invalid collection name %q", name)
	}
	var n string
	err := s.db.QueryRowContext(ctx,
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", name).Scan(&n)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check collection %s: %w", name, err)
	}
	return true, nil
}

// tableColumns returns the set of column names currently on a table.
func (s *Store) tableColumns(ctx context.Context, table string) (map[string]bool, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", quoteIdent(table)))
	if err != nil {
		return nil, fmt.Errorf("table_info %s: %w", table, err)
	}
	defer rows.Close()

	cols := make(map[string]bool)
	for rows.Next() {
		var (
			cid     int
			name    string
			typ     string
			notNull int
			dflt    sql.NullString
			pk      int
		)
		if err := rows.Scan(&cid, &name, &typ, &notNull, &dflt, &pk); err != nil {
			return nil, fmt.Errorf("scan table_info %s: %w", table, err)
		}
		cols[name] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate table_info %s: %w", table, err)
	}
	return cols, nil
}

// quoteIdent double-quotes an identifier that already passed the schema
// layer's identifier check. Belt and braces for the embedded DDL.
func quoteIdent(name string) string {
	return `"` + name + `"`
}

// quoteString single-quotes a SQL string literal, doubling embedded quotes.
func quoteString(s string) string {
	out := make([]byte, 0, len(s)+2)
	out = append(out, '\'')
	for i := 0; i < len(s); i++ {
		if s[i] == '\'' {
			out = append(out, '\'')
		}
		out = append(out, s[i])
	}
	out = append(out, '\'')
	return string(out)
}
