// Package sqlite implementa repository.CollectionStore sobre un archivo SQLite (driver modernc, sin cgo).
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"

	"github.com/jhoicas/gestor-marue/internal/domain"
	"github.com/jhoicas/gestor-marue/internal/domain/repository"
	"github.com/jhoicas/gestor-marue/internal/infrastructure/record"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

var _ repository.CollectionStore = (*Store)(nil)

// Store documentos JSON por colección en la tabla collection_records.
type Store struct {
	db   *sql.DB
	path string
}

// Open abre (o crea) la base en path. Con runMigrations aplica antes las migraciones embebidas.
func Open(path string, runMigrations bool) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("crear directorio de la base: %w", err)
		}
	}
	if runMigrations {
		if err := Migrate(path); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("abrir sqlite: %w", err)
	}
	// Un solo escritor evita SQLITE_BUSY entre conexiones del pool.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(`PRAGMA busy_timeout = 5000`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("configurar sqlite: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

// Migrate aplica las migraciones embebidas sobre el archivo path.
func Migrate(path string) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("fuente de migraciones: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, "sqlite://"+path)
	if err != nil {
		return fmt.Errorf("crear migrate: %w", err)
	}
	defer m.Close()
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("aplicar migraciones: %w", err)
	}
	return nil
}

// Close cierra la base.
func (s *Store) Close() error {
	return s.db.Close()
}

func checkCollection(name string) error {
	if !repository.IsCollection(name) {
		return domain.ErrUnknownCollection
	}
	return nil
}

func (s *Store) ListAll(ctx context.Context, collection string) ([]json.RawMessage, error) {
	if err := checkCollection(collection); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT body FROM collection_records WHERE collection = ? ORDER BY seq`, collection)
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
	return out, rows.Err()
}

func (s *Store) GetByID(ctx context.Context, collection, id string) (json.RawMessage, error) {
	if err := checkCollection(collection); err != nil {
		return nil, err
	}
	var body string
	err := s.db.QueryRowContext(ctx,
		`SELECT body FROM collection_records WHERE collection = ? AND id = ?`, collection, id).Scan(&body)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	return json.RawMessage(body), nil
}

func (s *Store) Create(ctx context.Context, collection string, payload any) (json.RawMessage, error) {
	if err := checkCollection(collection); err != nil {
		return nil, err
	}
	id, raw, err := record.Prepare(payload)
	if err != nil {
		return nil, err
	}
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO collection_records (collection, id, body) VALUES (?, ?, ?)`,
		collection, id, string(raw)); err != nil {
		return nil, fmt.Errorf("insert %s: %w", collection, err)
	}
	return raw, nil
}

// Replace upsert del registro completo; conserva la posición original.
func (s *Store) Replace(ctx context.Context, collection, id string, rec any) (json.RawMessage, error) {
	if err := checkCollection(collection); err != nil {
		return nil, err
	}
	raw, err := record.PrepareReplace(id, rec)
	if err != nil {
		return nil, err
	}
	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO collection_records (collection, id, body) VALUES (?, ?, ?)
		ON CONFLICT (collection, id) DO UPDATE SET body = excluded.body, updated_at = CURRENT_TIMESTAMP`,
		collection, id, string(raw)); err != nil {
		return nil, fmt.Errorf("upsert %s/%s: %w", collection, id, err)
	}
	return raw, nil
}

// Delete es idempotente.
func (s *Store) Delete(ctx context.Context, collection, id string) error {
	if err := checkCollection(collection); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM collection_records WHERE collection = ? AND id = ?`, collection, id); err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *Store) ReplaceCollection(ctx context.Context, collection string, records any) ([]json.RawMessage, error) {
	if err := checkCollection(collection); err != nil {
		return nil, err
	}
	entries, err := record.PrepareCollection(records)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM collection_records WHERE collection = ?`, collection); err != nil {
		return nil, fmt.Errorf("clear %s: %w", collection, err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO collection_records (collection, id, body) VALUES (?, ?, ?)`)
	if err != nil {
		return nil, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()
	for _, e := range entries {
		if _, err := stmt.ExecContext(ctx, collection, e.ID, string(e.Body)); err != nil {
			return nil, fmt.Errorf("insert %s/%s: %w", collection, e.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}
	return record.Bodies(entries), nil
}
