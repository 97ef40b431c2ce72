package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/gestor-marue/internal/domain"
	"github.com/jhoicas/gestor-marue/internal/domain/repository"
	"github.com/jhoicas/gestor-marue/internal/infrastructure/record"
)

var _ repository.CollectionStore = (*DocumentStore)(nil)

// DocumentStore implementación de CollectionStore sobre la tabla collection_records (JSONB).
// El orden de listado es el de inserción (seq); un upsert conserva la posición original.
type DocumentStore struct {
	pool *pgxpool.Pool
	tx   *TxRunner
}

// NewDocumentStore construye el store con el pool.
func NewDocumentStore(pool *pgxpool.Pool) *DocumentStore {
	return &DocumentStore{pool: pool, tx: NewTxRunner(pool)}
}

func checkCollection(name string) error {
	if !repository.IsCollection(name) {
		return domain.ErrUnknownCollection
	}
	return nil
}

func (s *DocumentStore) ListAll(ctx context.Context, collection string) ([]json.RawMessage, error) {
	if err := checkCollection(collection); err != nil {
		return nil, err
	}
	rows, err := s.pool.Query(ctx,
		`SELECT body::text FROM collection_records WHERE collection = $1 ORDER BY seq`, collection)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}
	defer rows.Close()

	out := make([]json.RawMessage, 0)
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("scan %s: %w", collection, err)
		}
		out = append(out, json.RawMessage(body))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}
	return out, nil
}

func (s *DocumentStore) GetByID(ctx context.Context, collection, id string) (json.RawMessage, error) {
	if err := checkCollection(collection); err != nil {
		return nil, err
	}
	var body string
	err := s.pool.QueryRow(ctx,
		`SELECT body::text FROM collection_records WHERE collection = $1 AND id = $2`, collection, id).Scan(&body)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	return json.RawMessage(body), nil
}

func (s *DocumentStore) Create(ctx context.Context, collection string, payload any) (json.RawMessage, error) {
	if err := checkCollection(collection); err != nil {
		return nil, err
	}
	id, raw, err := record.Prepare(payload)
	if err != nil {
		return nil, err
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO collection_records (collection, id, body) VALUES ($1, $2, $3::jsonb)`,
		collection, id, string(raw))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrConflict
		}
		return nil, fmt.Errorf("insert %s: %w", collection, err)
	}
	return raw, nil
}

// Replace upsert del registro completo.
func (s *DocumentStore) Replace(ctx context.Context, collection, id string, rec any) (json.RawMessage, error) {
	if err := checkCollection(collection); err != nil {
		return nil, err
	}
	raw, err := record.PrepareReplace(id, rec)
	if err != nil {
		return nil, err
	}
	if err := upsert(ctx, s.pool, collection, id, raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func upsert(ctx context.Context, q Querier, collection, id string, raw json.RawMessage) error {
	_, err := q.Exec(ctx, `
		INSERT INTO collection_records (collection, id, body) VALUES ($1, $2, $3::jsonb)
		ON CONFLICT (collection, id) DO UPDATE SET body = EXCLUDED.body, updated_at = NOW()`,
		collection, id, string(raw))
	if err != nil {
		return fmt.Errorf("upsert %s/%s: %w", collection, id, err)
	}
	return nil
}

// Delete es idempotente.
func (s *DocumentStore) Delete(ctx context.Context, collection, id string) error {
	if err := checkCollection(collection); err != nil {
		return err
	}
	if _, err := s.pool.Exec(ctx,
		`DELETE FROM collection_records WHERE collection = $1 AND id = $2`, collection, id); err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	return nil
}

// ReplaceCollection borra e inserta la colección completa en una sola transacción (TxRunner).
func (s *DocumentStore) ReplaceCollection(ctx context.Context, collection string, records any) ([]json.RawMessage, error) {
	if err := checkCollection(collection); err != nil {
		return nil, err
	}
	entries, err := record.PrepareCollection(records)
	if err != nil {
		return nil, err
	}

	err = s.tx.Run(ctx, func(q Querier) error {
		if _, err := q.Exec(ctx, `DELETE FROM collection_records WHERE collection = $1`, collection); err != nil {
			return fmt.Errorf("clear %s: %w", collection, err)
		}
		batch := &pgx.Batch{}
		for _, e := range entries {
			batch.Queue(`INSERT INTO collection_records (collection, id, body) VALUES ($1, $2, $3::jsonb)`,
				collection, e.ID, string(e.Body))
		}
		if err := q.SendBatch(ctx, batch).Close(); err != nil {
			if isUniqueViolation(err) {
				return domain.ErrConflict
			}
			return fmt.Errorf("insert %s: %w", collection, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return record.Bodies(entries), nil
}
