package usecase_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gestor-marue/internal/application/usecase"
	"github.com/jhoicas/gestor-marue/internal/domain"
	"github.com/jhoicas/gestor-marue/internal/domain/repository"
	"github.com/jhoicas/gestor-marue/internal/infrastructure/blob"
	"github.com/jhoicas/gestor-marue/internal/infrastructure/memory"
)

func TestCollectionUseCase_CostIsNormalized(t *testing.T) {
	uc := usecase.NewCollectionUseCase(memory.NewStore())

	raw, err := uc.Create(context.Background(), repository.CollectionCosts,
		[]byte(`{"name":"Taxa","value":"4,5","isPercentage":"1","category":"bogus"}`))
	require.NoError(t, err)

	s := string(raw)
	assert.Contains(t, s, `"category":"expense"`)
	assert.Contains(t, s, `"isPercentage":true`)
	assert.Contains(t, s, `"value":"4.5"`)
	assert.Contains(t, s, `"id":"`)
}

func TestCollectionUseCase_NameRequired(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewCollectionUseCase(memory.NewStore())

	_, err := uc.Create(ctx, repository.CollectionRawMaterials, []byte(`{"stock":1}`))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Replace(ctx, repository.CollectionFinishedProducts, "p1", []byte(`{"name":"  "}`))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(ctx, repository.CollectionSales, []byte(`{"quantity":1}`))
	assert.NoError(t, err, "ventas no requieren name")
}

func TestCollectionUseCase_RejectsNonObject(t *testing.T) {
	uc := usecase.NewCollectionUseCase(memory.NewStore())
	_, err := uc.Create(context.Background(), repository.CollectionSales, []byte(`[1,2]`))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCollectionUseCase_UnknownCollection(t *testing.T) {
	uc := usecase.NewCollectionUseCase(memory.NewStore())
	_, err := uc.List(context.Background(), "invoices")
	assert.ErrorIs(t, err, domain.ErrUnknownCollection)
	assert.ErrorIs(t, uc.Delete(context.Background(), "users", "1"), domain.ErrUnknownCollection)
}

func TestCollectionUseCase_ReplaceAll(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewCollectionUseCase(memory.NewStore())

	out, err := uc.ReplaceAll(ctx, repository.CollectionDREItems, []byte(`[{"id":"a","name":"A"},{"id":"b","name":"B"}]`))
	require.NoError(t, err)
	assert.Len(t, out, 2)

	_, err = uc.ReplaceAll(ctx, repository.CollectionDREItems, []byte(`{"id":"a"}`))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCollectionUseCase_EnsureDefaults(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewCollectionUseCase(memory.NewStore())

	seeded, err := uc.EnsureDefaults(ctx)
	require.NoError(t, err)
	assert.True(t, seeded)

	items, err := uc.List(ctx, repository.CollectionDREItems)
	require.NoError(t, err)
	assert.Len(t, items, 10)

	seeded, err = uc.EnsureDefaults(ctx)
	require.NoError(t, err)
	assert.False(t, seeded)
}

func TestImageUseCase_Placeholder(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewImageUseCase(blob.NewImageStore(blob.NewMemory()))

	data, ct, err := uc.Fetch(ctx, "nao-existe.png")
	require.NoError(t, err)
	assert.Equal(t, "image/png", ct)
	assert.Equal(t, []byte("\x89PNG"), data[:4])

	id, err := uc.Upload(ctx, "foto.webp", strings.NewReader("webp"))
	require.NoError(t, err)
	data, ct, err = uc.Fetch(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "webp", string(data))
	assert.Equal(t, "image/webp", ct)
}
