package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gestor-marue/internal/domain"
	"github.com/jhoicas/gestor-marue/internal/domain/repository"
	"github.com/jhoicas/gestor-marue/pkg/config"
)

func TestMigrateURL(t *testing.T) {
	assert.Equal(t, "pgx5://u:p@db:5432/gestor?sslmode=disable", migrateURL("postgres://u:p@db:5432/gestor?sslmode=disable"))
	assert.Equal(t, "pgx5://u@db/gestor", migrateURL("postgresql://u@db/gestor"))
	assert.Equal(t, "pgx5://already", migrateURL("pgx5://already"))
}

func TestEmbeddedMigrations(t *testing.T) {
	src, err := iofs.New(migrationsFS, "migrations")
	require.NoError(t, err)
	defer src.Close()

	first, err := src.First()
	require.NoError(t, err)
	assert.Equal(t, uint(1), first)

	r, ident, err := src.ReadUp(first)
	require.NoError(t, err)
	defer r.Close()
	assert.Equal(t, "collection_records", ident)
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("boom")))
}

func TestCheckCollection(t *testing.T) {
	assert.NoError(t, checkCollection(repository.CollectionSales))
	assert.ErrorIs(t, checkCollection("clientes"), domain.ErrUnknownCollection)
}

// TestDocumentStore_Integration corre contra una base real si GESTOR_TEST_DATABASE_URL está definido.
func TestDocumentStore_Integration(t *testing.T) {
	dsn := os.Getenv("GESTOR_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("GESTOR_TEST_DATABASE_URL no definido")
	}
	ctx := context.Background()

	_, err := Migrate(dsn)
	require.NoError(t, err)
	pool, err := NewPool(ctx, config.DBConfig{DatabaseURL: dsn})
	require.NoError(t, err)
	defer pool.Close()

	s := NewDocumentStore(pool)
	_, err = s.ReplaceCollection(ctx, repository.CollectionCosts, []map[string]any{})
	require.NoError(t, err)

	created, err := s.Create(ctx, repository.CollectionCosts, map[string]any{"name": "iFood", "value": 12.5})
	require.NoError(t, err)
	var obj map[string]any
	require.NoError(t, json.Unmarshal(created, &obj))
	id := obj["id"].(string)

	_, err = s.Create(ctx, repository.CollectionCosts, map[string]any{"name": "Embalagem"})
	require.NoError(t, err)
	_, err = s.Replace(ctx, repository.CollectionCosts, id, map[string]any{"name": "iFood 2"})
	require.NoError(t, err)

	all, err := s.ListAll(ctx, repository.CollectionCosts)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.JSONEq(t, fmt.Sprintf(`{"id":%q,"name":"iFood 2"}`, id), string(all[0]))

	require.NoError(t, s.Delete(ctx, repository.CollectionCosts, id))
	require.NoError(t, s.Delete(ctx, repository.CollectionCosts, id))
	_, err = s.GetByID(ctx, repository.CollectionCosts, id)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = s.ListAll(ctx, "clientes")
	assert.ErrorIs(t, err, domain.ErrUnknownCollection)
}
