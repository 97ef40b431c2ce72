package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gestor-marue/internal/application/state"
	"github.com/jhoicas/gestor-marue/internal/domain"
	"github.com/jhoicas/gestor-marue/internal/domain/dre"
	"github.com/jhoicas/gestor-marue/internal/domain/entity"
	"github.com/jhoicas/gestor-marue/internal/domain/repository"
	"github.com/jhoicas/gestor-marue/internal/infrastructure/blob"
	"github.com/jhoicas/gestor-marue/internal/infrastructure/memory"
	"github.com/jhoicas/gestor-marue/internal/infrastructure/pdf"
	"github.com/jhoicas/gestor-marue/pkg/logger"
)

var testNow = time.Date(2024, 8, 20, 15, 0, 0, 0, time.UTC)

func newTestCLI(t *testing.T) (*cli, *bytes.Buffer) {
	t.Helper()
	store := memory.NewStore()
	seedStore(t, store)
	app, out := newCLIOver(t, store)
	require.NoError(t, app.c.Err())
	return app, out
}

func seedStore(t *testing.T, store repository.CollectionStore) {
	t.Helper()
	ctx := context.Background()
	put := func(c, id string, v any) {
		_, err := store.Replace(ctx, c, id, v)
		require.NoError(t, err)
	}
	dec := decimal.RequireFromString
	weight := dec("250")
	put(repository.CollectionRawMaterials, "rm-cafe", entity.RawMaterial{Name: "Café cru", Stock: dec("1"), Unit: "kg", CostPerUnit: dec("40")})
	put(repository.CollectionRawMaterials, "rm-emb", entity.RawMaterial{Name: "Embalagem", Stock: dec("10"), Unit: "un", CostPerUnit: dec("2")})
	put(repository.CollectionFinishedProducts, "fp-blend", entity.FinishedProduct{
		Name: "Blend da Casa", Type: entity.ProductTypeProduced, Stock: dec("3"), SalePrice: dec("45"),
		Category: entity.ProductCategoryCoffee,
		Recipe:   []entity.RecipeItem{{RawMaterialID: "rm-cafe", Quantity: dec("0.25")}, {RawMaterialID: "rm-emb", Quantity: dec("1")}},
		SKUProductTypeID: "sku_pt_1", SKUOriginID: "sku_o_1", Weight: &weight, WeightUnit: "g", Grind: entity.GrindBeans,
	})
	put(repository.CollectionCosts, "c-emb", entity.Cost{Name: "Sacola", Category: entity.CostCategoryExpense, Value: dec("5")})
	put(repository.CollectionSKUConfig, "singleton", entity.SKUConfig{
		ProductTypes: []entity.SKUSegmentOption{{ID: "sku_pt_1", Code: "CESP", Name: "Café Especial"}},
		Origins:      []entity.SKUSegmentOption{{ID: "sku_o_1", Code: "PP", Name: "Produção Própria"}},
	})
	_, err := store.ReplaceCollection(ctx, repository.CollectionDREItems, dre.DefaultItems())
	require.NoError(t, err)
}

// newCLIOver carga el contenedor sobre store; el error de carga queda en el contenedor.
func newCLIOver(t *testing.T, store repository.CollectionStore) (*cli, *bytes.Buffer) {
	t.Helper()
	c := state.New(store, blob.NewImageStore(blob.NewMemory()),
		state.WithClock(func() time.Time { return testNow }),
		state.WithLocation(time.UTC))
	_ = c.Load(context.Background())

	var out bytes.Buffer
	return &cli{
		c:   c,
		pdf: pdf.NewDREReportGenerator("Marué"),
		out: &out,
		log: logger.Nop(),
		now: func() time.Time { return testNow },
	}, &out
}

func TestDispatch_Summary(t *testing.T) {
	app, out := newTestCLI(t)
	require.NoError(t, app.dispatch(context.Background(), []string{"resumo"}))

	// 1×40 + 10×2 + 3×12
	assert.Contains(t, out.String(), "R$ 96,00")
	assert.Contains(t, out.String(), "Productos a la venta")
}

func TestDispatch_Sale(t *testing.T) {
	app, out := newTestCLI(t)
	err := app.dispatch(context.Background(), []string{"venda", "-produto", "fp-blend", "-qtd", "2", "-custos", "c-emb,desconhecido"})
	require.NoError(t, err)

	// ingreso 90, costo 24 + 5, ganancia 61
	assert.Contains(t, out.String(), "ingreso R$ 90,00, costo R$ 29,00, ganancia R$ 61,00")
	p, _ := app.c.FinishedProduct("fp-blend")
	assert.True(t, p.Stock.Equal(decimal.NewFromInt(1)))
}

func TestDispatch_SaleInsufficientStock(t *testing.T) {
	app, _ := newTestCLI(t)
	err := app.dispatch(context.Background(), []string{"venda", "-produto", "fp-blend", "-qtd", "5"})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestDispatch_Production(t *testing.T) {
	app, out := newTestCLI(t)
	require.NoError(t, app.dispatch(context.Background(), []string{"producao", "-produto", "fp-blend", "-qtd", "2"}))

	assert.Contains(t, out.String(), "stock actual 5")
	rm, _ := app.c.RawMaterial("rm-cafe")
	assert.True(t, rm.Stock.Equal(decimal.RequireFromString("0.5")))
}

func TestDispatch_SKU(t *testing.T) {
	app, out := newTestCLI(t)
	require.NoError(t, app.dispatch(context.Background(), []string{"sku", "-produto", "fp-blend", "-preview"}))
	assert.Equal(t, "CESP-PP-250G-GR-###\n", out.String())
	p, _ := app.c.FinishedProduct("fp-blend")
	assert.Empty(t, p.SKU)

	out.Reset()
	require.NoError(t, app.dispatch(context.Background(), []string{"sku", "-produto", "fp-blend"}))
	assert.Equal(t, "CESP-PP-250G-GR-001\n", out.String())
	p, _ = app.c.FinishedProduct("fp-blend")
	assert.Equal(t, "CESP-PP-250G-GR-001", p.SKU)
}

func TestDispatch_DRE(t *testing.T) {
	app, out := newTestCLI(t)
	ctx := context.Background()
	require.NoError(t, app.dispatch(ctx, []string{"venda", "-produto", "fp-blend", "-qtd", "1"}))
	out.Reset()

	require.NoError(t, app.dispatch(ctx, []string{"dre", "-periodo", "2024-08"}))
	assert.Contains(t, out.String(), "DRE 2024-08")
	assert.Contains(t, out.String(), "Venda de Cafés e Bebidas")
	assert.Contains(t, out.String(), "R$ 45,00")
}

func TestDispatch_DREPDF(t *testing.T) {
	app, _ := newTestCLI(t)
	path := filepath.Join(t.TempDir(), "dre.pdf")
	require.NoError(t, app.dispatch(context.Background(), []string{"dre-pdf", "-periodo", "2024-08", "-out", path}))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(b, []byte("%PDF")))
}

func TestDispatch_Image(t *testing.T) {
	app, out := newTestCLI(t)
	path := filepath.Join(t.TempDir(), "foto.png")
	require.NoError(t, os.WriteFile(path, []byte("\x89PNG\r\n\x1a\n"), 0o600))

	require.NoError(t, app.dispatch(context.Background(), []string{"imagem", "-arquivo", path}))
	assert.Regexp(t, `^[0-9a-f-]{36}\.png\n$`, out.String())
}

func TestDispatch_UsageErrors(t *testing.T) {
	app, _ := newTestCLI(t)
	ctx := context.Background()

	assert.ErrorIs(t, app.dispatch(ctx, []string{"fiado"}), errUsage)
	assert.ErrorIs(t, app.dispatch(ctx, []string{"venda", "-produto", "fp-blend"}), errUsage)
	assert.ErrorIs(t, app.dispatch(ctx, []string{"venda", "-produto", "fp-blend", "-qtd", "dois"}), errUsage)
	assert.ErrorIs(t, app.dispatch(ctx, []string{"producao", "-x"}), errUsage)
}

// failingStore falla ListAll para las colecciones indicadas.
type failingStore struct {
	repository.CollectionStore
	fail map[string]bool
}

func (s failingStore) ListAll(ctx context.Context, collection string) ([]json.RawMessage, error) {
	if s.fail[collection] {
		return nil, errors.New("backend no disponible")
	}
	return s.CollectionStore.ListAll(ctx, collection)
}

func TestDispatch_RefusesAfterFailedLoad(t *testing.T) {
	ctx := context.Background()
	mem := memory.NewStore()
	seedStore(t, mem)
	put := func(id string) {
		_, err := mem.Replace(ctx, repository.CollectionCosts, id, entity.Cost{Name: "iFood", Category: entity.CostCategoryChannel, Value: decimal.NewFromInt(10), IsPercentage: true})
		require.NoError(t, err)
	}
	put("c-ifood")

	app, out := newCLIOver(t, failingStore{CollectionStore: mem, fail: map[string]bool{repository.CollectionCosts: true}})

	for _, args := range [][]string{
		{"venda", "-produto", "fp-blend", "-qtd", "1", "-custos", "c-ifood,c-emb"},
		{"producao", "-produto", "fp-blend", "-qtd", "1"},
		{"sku", "-produto", "fp-blend"},
		{"resumo"},
	} {
		err := app.dispatch(ctx, args)
		assert.ErrorIs(t, err, errNoState, args[0])
	}
	assert.Empty(t, out.String())

	sales, err := mem.ListAll(ctx, repository.CollectionSales)
	require.NoError(t, err)
	assert.Empty(t, sales)
	p, _ := app.c.FinishedProduct("fp-blend")
	assert.True(t, p.Stock.Equal(decimal.NewFromInt(3)))
	assert.Empty(t, p.SKU)
}

func TestDispatch_SKUWithoutConfig(t *testing.T) {
	ctx := context.Background()
	mem := memory.NewStore()
	seedStore(t, mem)
	require.NoError(t, mem.Delete(ctx, repository.CollectionSKUConfig, entity.SKUConfigID))
	app, out := newCLIOver(t, mem)
	require.NoError(t, app.c.Err())

	assert.ErrorIs(t, app.dispatch(ctx, []string{"sku", "-produto", "fp-blend", "-preview"}), domain.ErrSKUConfigMissing)
	assert.ErrorIs(t, app.dispatch(ctx, []string{"sku", "-produto", "inexistente"}), domain.ErrNotFound)
	assert.Empty(t, out.String())
}

func TestExitCode(t *testing.T) {
	var stderr bytes.Buffer
	assert.Equal(t, 0, exitCode(nil, &stderr))
	assert.Equal(t, 2, exitCode(errUsage, &stderr))
	assert.Contains(t, stderr.String(), "uso: gestor")
	assert.Equal(t, 1, exitCode(domain.ErrInsufficientStock, &stderr))
}

func TestRun_NoArgs(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Equal(t, 2, run(context.Background(), nil, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "comandos:")
}
