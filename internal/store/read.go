package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/idotta/jsonb-store/internal/predicate"
	"github.com/idotta/jsonb-store/internal/querysql"
	"github.com/idotta/jsonb-store/internal/schema"
)

// ErrNotFound is returned by Get for a missing document id.
var ErrNotFound = errors.New("document not found")

// Document is one stored document: its id and raw JSON body.
type Document struct {
	ID   string
	Data json.RawMessage
}

// Get returns a single document by id.
func (s *Store) Get(ctx context.Context, collection, id string) (Document, error) {
	if err := checkCollectionName(collection); err != nil {
		return Document{}, err
	}

	var body string
	err := s.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT data FROM %s WHERE id = ?", quoteIdent(collection)), id).Scan(&body)
	if err == sql.ErrNoRows {
		return Document{}, fmt.Errorf("get %s/%s: %w", collection, id, ErrNotFound)
	}
	if err != nil {
		return Document{}, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	return Document{ID: id, Data: json.RawMessage(body)}, nil
}

// Find compiles the predicate and returns the matching documents.
// columns may be nil, in which case every leaf uses json_extract.
//
// Results are ordered by id (COLLATE BINARY) so repeated queries return
// rows in a deterministic order.
func (s *Store) Find(ctx context.Context, collection string, pred predicate.Node, columns *schema.ColumnIndex) ([]Document, error) {
	if err := checkCollectionName(collection); err != nil {
		return nil, err
	}

	frag, err := querysql.CompileWithColumns(pred, columns)
	if err != nil {
		return nil, fmt.Errorf("compile filter: %w", err)
	}

	query := fmt.Sprintf("SELECT id, data FROM %s WHERE %s ORDER BY id ASC COLLATE BINARY",
		quoteIdent(collection), frag.Text)
	return s.queryDocuments(ctx, query, frag.NamedArgs()...)
}

// FindAll returns every document in a collection, ordered by id.
func (s *Store) FindAll(ctx context.Context, collection string) ([]Document, error) {
	if err := checkCollectionName(collection); err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT id, data FROM %s ORDER BY id ASC COLLATE BINARY",
		quoteIdent(collection))
	return s.queryDocuments(ctx, query)
}

// Count compiles the predicate and returns the number of matching rows.
func (s *Store) Count(ctx context.Context, collection string, pred predicate.Node, columns *schema.ColumnIndex) (int64, error) {
	if err := checkCollectionName(collection); err != nil {
		return 0, err
	}

	frag, err := querysql.CompileWithColumns(pred, columns)
	if err != nil {
		return 0, fmt.Errorf("compile filter: %w", err)
	}

	var n int64
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s", quoteIdent(collection), frag.Text)
	if err := s.db.QueryRowContext(ctx, query, frag.NamedArgs()...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", collection, err)
	}
	return n, nil
}

// queryDocuments runs a SELECT id, data query and scans the rows.
func (s *Store) queryDocuments(ctx context.Context, query string, args ...any) ([]Document, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var (
			id   string
			body string
		)
		if err := rows.Scan(&id, &body); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, Document{ID: id, Data: json.RawMessage(body)})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}

	// Return empty slice instead of nil
	if docs == nil {
		docs = []Document{}
	}
	return docs, nil
}
