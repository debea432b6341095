package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
)

// PostgresStore keeps every document in a single documents table with the
// body as jsonb. Array-append and increment are single-statement jsonb
// updates, so they are atomic without an explicit transaction.
type PostgresStore struct {
	db *DB
	tx pgx.Tx // set when the store is a transactional view
}

func NewPostgresStore(db *DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the documents table if it does not exist yet.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.querier().Exec(ctx, `
		CREATE TABLE IF NOT EXISTS documents (
			collection TEXT NOT NULL,
			id         TEXT NOT NULL,
			data       JSONB NOT NULL,
			PRIMARY KEY (collection, id)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to ensure documents schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) querier() Querier {
	if s.tx != nil {
		return s.tx
	}
	return s.db.Pool
}

func (s *PostgresStore) Get(ctx context.Context, collection, id string) (Document, error) {
	var data []byte
	err := s.querier().QueryRow(ctx,
		`SELECT data FROM documents WHERE collection = $1 AND id = $2`,
		collection, id,
	).Scan(&data)
	if err != nil {
		if err == pgx.ErrNoRows {
			return Document{}, ErrNotFound
		}
		return Document{}, fmt.Errorf("failed to get document %s/%s: %w", collection, id, err)
	}
	return Document{ID: id, Data: data}, nil
}

func (s *PostgresStore) Query(ctx context.Context, collection string, predicates ...Predicate) ([]Document, error) {
	query := `SELECT id, data FROM documents WHERE collection = $1`
	args := []interface{}{collection}

	for _, p := range predicates {
		switch p.Op {
		case OpEqual:
			args = append(args, fmt.Sprintf("%v", p.Value))
			query += fmt.Sprintf(" AND data->>%s = $%d", quoteLiteral(p.Field), len(args))
		case OpGreaterOrEqual:
			args = append(args, fmt.Sprintf("%v", p.Value))
			query += fmt.Sprintf(" AND data->>%s >= $%d", quoteLiteral(p.Field), len(args))
		case OpLessOrEqual:
			args = append(args, fmt.Sprintf("%v", p.Value))
			query += fmt.Sprintf(" AND data->>%s <= $%d", quoteLiteral(p.Field), len(args))
		case OpIn:
			values, ok := p.Value.([]string)
			if !ok {
				return nil, fmt.Errorf("in predicate on %q requires []string", p.Field)
			}
			args = append(args, values)
			query += fmt.Sprintf(" AND data->>%s = ANY($%d)", quoteLiteral(p.Field), len(args))
		default:
			return nil, fmt.Errorf("unsupported predicate operator %q", p.Op)
		}
	}
	query += ` ORDER BY id`

	rows, err := s.querier().Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query collection %s: %w", collection, err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var doc Document
		if err := rows.Scan(&doc.ID, &doc.Data); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read documents: %w", err)
	}
	return docs, nil
}

func (s *PostgresStore) Set(ctx context.Context, collection, id string, fields interface{}, merge bool) error {
	data, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("failed to encode document %s/%s: %w", collection, id, err)
	}

	query := `
		INSERT INTO documents (collection, id, data) VALUES ($1, $2, $3)
		ON CONFLICT (collection, id) DO UPDATE SET data = EXCLUDED.data
	`
	if merge {
		query = `
			INSERT INTO documents (collection, id, data) VALUES ($1, $2, $3)
			ON CONFLICT (collection, id) DO UPDATE SET data = documents.data || EXCLUDED.data
		`
	}
	if _, err := s.querier().Exec(ctx, query, collection, id, data); err != nil {
		return fmt.Errorf("failed to set document %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, collection, id string, fields map[string]interface{}) error {
	patch, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("failed to encode patch for %s/%s: %w", collection, id, err)
	}

	tag, err := s.querier().Exec(ctx,
		`UPDATE documents SET data = data || $3 WHERE collection = $1 AND id = $2`,
		collection, id, patch,
	)
	if err != nil {
		return fmt.Errorf("failed to update document %s/%s: %w", collection, id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, collection, id string) error {
	_, err := s.querier().Exec(ctx,
		`DELETE FROM documents WHERE collection = $1 AND id = $2`,
		collection, id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete document %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *PostgresStore) AppendToArray(ctx context.Context, collection, id, field string, value interface{}) error {
	element, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode array element for %s/%s: %w", collection, id, err)
	}

	tag, err := s.querier().Exec(ctx, `
		UPDATE documents
		SET data = jsonb_set(data, ARRAY[$3], COALESCE(data->$3, '[]'::jsonb) || $4::jsonb)
		WHERE collection = $1 AND id = $2
	`, collection, id, field, element)
	if err != nil {
		return fmt.Errorf("failed to append to %s on %s/%s: %w", field, collection, id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Increment(ctx context.Context, collection, id, field string, delta int64) error {
	tag, err := s.querier().Exec(ctx, `
		UPDATE documents
		SET data = jsonb_set(data, ARRAY[$3], to_jsonb(COALESCE((data->>$3)::numeric, 0) + $4))
		WHERE collection = $1 AND id = $2
	`, collection, id, field, delta)
	if err != nil {
		return fmt.Errorf("failed to increment %s on %s/%s: %w", field, collection, id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) RunTransaction(ctx context.Context, fn func(ctx context.Context, tx Store) error) error {
	if s.tx != nil {
		// Already transactional, reuse the same transaction.
		return fn(ctx, s)
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
	}()

	if err := fn(ctx, &PostgresStore{db: s.db, tx: tx}); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("rollback error: %v (original error: %w)", rbErr, err)
		}
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// quoteLiteral quotes a jsonb field name for interpolation into the query
// text. Field names come from code, never from request input.
func quoteLiteral(field string) string {
	return "'" + strings.ReplaceAll(field, "'", "''") + "'"
}
