package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/idotta/jsonb-store/internal/schema"
)

// Insert stores a new document and returns its generated id (UUIDv7, so
// insertion order and id order roughly agree).
//
// doc may be any JSON-marshalable value, or pre-encoded JSON as []byte,
// json.RawMessage or string; pre-encoded bodies still pass the table's
// json_valid check.
func (s *Store) Insert(ctx context.Context, collection string, doc any) (string, error) {
	body, err := encodeBody(doc)
	if err != nil {
		return "", fmt.Errorf("insert into %s: %w", collection, err)
	}
	if err := checkCollectionName(collection); err != nil {
		return "", err
	}

	id := uuid.Must(uuid.NewV7()).String()
	_, err = s.db.ExecContext(ctx,
		fmt.Sprintf("INSERT INTO %s (id, data) VALUES (?, ?)", quoteIdent(collection)),
		id, body)
	if err != nil {
		return "", fmt.Errorf("insert into %s: %w", collection, err)
	}
	return id, nil
}

// Put stores a document under an explicit id, replacing any existing body.
func (s *Store) Put(ctx context.Context, collection, id string, doc any) error {
	body, err := encodeBody(doc)
	if err != nil {
		return fmt.Errorf("put %s/%s: %w", collection, id, err)
	}
	if err := checkCollectionName(collection); err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, fmt.Sprintf(`
		INSERT INTO %s (id, data) VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET data = excluded.data
	`, quoteIdent(collection)), id, body)
	if err != nil {
		return fmt.Errorf("put %s/%s: %w", collection, id, err)
	}
	return nil
}

// Delete removes a document by id. Deleting a missing id is not an error;
// the bool reports whether a row was removed.
func (s *Store) Delete(ctx context.Context, collection, id string) (bool, error) {
	if err := checkCollectionName(collection); err != nil {
		return false, err
	}

	res, err := s.db.ExecContext(ctx,
		fmt.Sprintf("DELETE FROM %s WHERE id = ?", quoteIdent(collection)), id)
	if err != nil {
		return false, fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	return n > 0, nil
}

// encodeBody serializes a document body to its JSON text form.
func encodeBody(doc any) (string, error) {
	switch body := doc.(type) {
	case json.RawMessage:
		return string(body), nil
	case []byte:
		return string(body), nil
	case string:
		return body, nil
	default:
		data, err := json.Marshal(doc)
		if err != nil {
			return "", fmt.Errorf("marshal document: %w", err)
		}
		return string(data), nil
	}
}

func checkCollectionName(name string) error {
	if !schema.ValidIdentifier(name) {
		return fmt.Errorf("invalid collection name %q", name)
	}
	return nil
}
