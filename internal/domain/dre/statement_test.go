package dre_test

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gestor-marue/internal/domain"
	"github.com/jhoicas/gestor-marue/internal/domain/dre"
	"github.com/jhoicas/gestor-marue/internal/domain/entity"
)

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestCompute_Subtotales(t *testing.T) {
	values := map[string]decimal.Decimal{
		dre.ItemCoffeeSales:  dec(700),
		dre.ItemFoodSales:    dec(300),
		"impostoSimples":     dec(100),
		"custoMateriaPrima":  dec(300),
		"despesasPessoal":    dec(150),
		"despesasVendas":     dec(50),
		"itemNaoConfigurado": dec(999),
	}

	s := dre.Compute(dre.DefaultItems(), values)

	assert.True(t, s.GrossRevenue.Equal(dec(1000)))
	assert.True(t, s.NetRevenue.Equal(dec(900)))
	assert.True(t, s.GrossProfit.Equal(dec(600)))
	assert.True(t, s.OperatingExpenses.Equal(dec(200)))
	assert.True(t, s.OperatingResult.Equal(dec(400)))
}

func TestLines_OrdenYTipos(t *testing.T) {
	lines := dre.Lines(dre.DefaultItems(), map[string]decimal.Decimal{})

	require.NotEmpty(t, lines)
	assert.Equal(t, dre.LineSubtotal, lines[0].Kind)
	assert.Equal(t, "(+) 1. Receita Operacional Bruta", lines[0].Label)
	last := lines[len(lines)-1]
	assert.Equal(t, dre.LineFinal, last.Kind)
	// 7 cabeceras/subtotales + 10 ítems
	assert.Len(t, lines, 17)
}

func TestAutoRevenue_ClasificaPorCategoria(t *testing.T) {
	products := map[string]entity.FinishedProduct{
		"fp-1": {ID: "fp-1", Category: entity.ProductCategoryCoffee},
		"fp-2": {ID: "fp-2", Category: entity.ProductCategoryFood},
		"fp-3": {ID: "fp-3"},
	}
	aug := time.Date(2024, 8, 10, 12, 0, 0, 0, time.UTC)
	sales := []entity.Sale{
		{FinishedProductID: "fp-1", TotalRevenue: dec(90), Date: aug},
		{FinishedProductID: "fp-1", TotalRevenue: dec(45), Date: aug},
		{FinishedProductID: "fp-2", TotalRevenue: dec(20), Date: aug},
		{FinishedProductID: "fp-3", TotalRevenue: dec(5), Date: aug},
		{FinishedProductID: "borrado", TotalRevenue: dec(7), Date: aug},
		{FinishedProductID: "fp-1", TotalRevenue: dec(1000), Date: aug.AddDate(0, 1, 0)},
	}

	got := dre.AutoRevenue("2024-08", sales, products, time.UTC)

	assert.True(t, got[dre.ItemCoffeeSales].Equal(dec(135)))
	assert.True(t, got[dre.ItemFoodSales].Equal(dec(20)))
	assert.True(t, got[dre.ItemOtherSales].Equal(dec(12)))
}

func TestPeriodValues_AutoReemplazaGuardado(t *testing.T) {
	saved := &entity.DREData{Period: "2024-08", Data: map[string]decimal.Decimal{
		dre.ItemCoffeeSales: dec(1),
		"despesasPessoal":   dec(80),
	}}
	auto := map[string]decimal.Decimal{dre.ItemCoffeeSales: dec(135)}

	got := dre.PeriodValues(dre.DefaultItems(), saved, auto)

	assert.True(t, got[dre.ItemCoffeeSales].Equal(dec(135)))
	assert.True(t, got["despesasPessoal"].Equal(dec(80)))
	assert.True(t, got["custoEmbalagens"].IsZero())
}

func TestValidateItemsUpdate(t *testing.T) {
	current := dre.DefaultItems()

	extra := append(dre.DefaultItems(), entity.DREItem{ID: "aluguel", Name: "Aluguel", Category: entity.DRECategoryExpense})
	assert.NoError(t, dre.ValidateItemsUpdate(current, extra))

	dropped := dre.DefaultItems()[1:]
	assert.True(t, errors.Is(dre.ValidateItemsUpdate(current, dropped), domain.ErrInvalidInput))

	renamed := dre.DefaultItems()
	renamed[0].Name = "Cafés"
	assert.True(t, errors.Is(dre.ValidateItemsUpdate(current, renamed), domain.ErrInvalidInput))

	dup := append(dre.DefaultItems(), dre.DefaultItems()[0])
	assert.True(t, errors.Is(dre.ValidateItemsUpdate(current, dup), domain.ErrInvalidInput))
}
