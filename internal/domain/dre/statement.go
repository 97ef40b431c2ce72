// Package dre calcula la Demonstração de Resultado (estado de resultados mensual)
// a partir de los ítems configurados y los valores de un período.
package dre

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/gestor-marue/internal/domain"
	"github.com/jhoicas/gestor-marue/internal/domain/entity"
)

// IDs de los ítems de ingreso que se alimentan automáticamente desde las ventas.
const (
	ItemCoffeeSales = "vendaCafes"
	ItemFoodSales   = "vendaAlimentos"
	ItemOtherSales  = "outrasVendas"
)

// Statement totales del DRE.
type Statement struct {
	GrossRevenue      decimal.Decimal
	Deductions        decimal.Decimal
	NetRevenue        decimal.Decimal
	COGS              decimal.Decimal
	GrossProfit       decimal.Decimal
	OperatingExpenses decimal.Decimal
	OperatingResult   decimal.Decimal
}

// Compute suma los valores por categoría y deriva los subtotales:
// líquida = bruta − deducciones; bruto = líquida − CPV; resultado = bruto − despesas.
func Compute(items []entity.DREItem, values map[string]decimal.Decimal) Statement {
	var s Statement
	s.GrossRevenue = categoryTotal(items, values, entity.DRECategoryRevenue)
	s.Deductions = categoryTotal(items, values, entity.DRECategoryDeduction)
	s.COGS = categoryTotal(items, values, entity.DRECategoryCost)
	s.OperatingExpenses = categoryTotal(items, values, entity.DRECategoryExpense)
	s.NetRevenue = s.GrossRevenue.Sub(s.Deductions)
	s.GrossProfit = s.NetRevenue.Sub(s.COGS)
	s.OperatingResult = s.GrossProfit.Sub(s.OperatingExpenses)
	return s
}

func categoryTotal(items []entity.DREItem, values map[string]decimal.Decimal, cat entity.DRECategory) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		if it.Category == cat {
			total = total.Add(values[it.ID])
		}
	}
	return total
}

// LineKind tipo de línea para exportación.
type LineKind string

const (
	LineItem     LineKind = "item"
	LineSubtotal LineKind = "subtotal"
	LineFinal    LineKind = "final"
)

// Line línea del DRE listo para exportar (PDF, planilla).
type Line struct {
	Label string
	Value decimal.Decimal
	Kind  LineKind
}

// Lines arma el DRE en el orden contable con sus subtotales.
func Lines(items []entity.DREItem, values map[string]decimal.Decimal) []Line {
	s := Compute(items, values)
	var out []Line
	section := func(title string, cat entity.DRECategory, total decimal.Decimal) {
		out = append(out, Line{Label: title, Value: total, Kind: LineSubtotal})
		for _, it := range items {
			if it.Category == cat {
				out = append(out, Line{Label: "   " + it.Name, Value: values[it.ID], Kind: LineItem})
			}
		}
	}
	section("(+) 1. Receita Operacional Bruta", entity.DRECategoryRevenue, s.GrossRevenue)
	section("(-) 2. Deduções da Receita Bruta", entity.DRECategoryDeduction, s.Deductions)
	out = append(out, Line{Label: "(=) 3. Receita Operacional Líquida", Value: s.NetRevenue, Kind: LineSubtotal})
	section("(-) 4. Custos dos Produtos Vendidos (CPV)", entity.DRECategoryCost, s.COGS)
	out = append(out, Line{Label: "(=) 5. Lucro Bruto", Value: s.GrossProfit, Kind: LineSubtotal})
	section("(-) 6. Despesas Operacionais", entity.DRECategoryExpense, s.OperatingExpenses)
	out = append(out, Line{Label: "(=) 7. Resultado Operacional (Lucro/Prejuízo)", Value: s.OperatingResult, Kind: LineFinal})
	return out
}

// AutoRevenue ingreso del período por ítem de DRE, clasificado por la categoría del producto vendido.
// Las ventas de productos ya borrados cuentan como "outras vendas".
func AutoRevenue(period string, sales []entity.Sale, products map[string]entity.FinishedProduct, loc *time.Location) map[string]decimal.Decimal {
	if loc == nil {
		loc = time.UTC
	}
	out := make(map[string]decimal.Decimal)
	for _, sale := range sales {
		if sale.Date.In(loc).Format("2006-01") != period {
			continue
		}
		itemID := ItemOtherSales
		if p, ok := products[sale.FinishedProductID]; ok {
			switch p.CategoryOrDefault() {
			case entity.ProductCategoryCoffee:
				itemID = ItemCoffeeSales
			case entity.ProductCategoryFood:
				itemID = ItemFoodSales
			}
		}
		out[itemID] = out[itemID].Add(sale.TotalRevenue)
	}
	return out
}

// PeriodValues valores a mostrar para cada ítem: lo guardado (0 si falta),
// reemplazado por el ingreso automático cuando el ítem lo tiene.
func PeriodValues(items []entity.DREItem, saved *entity.DREData, auto map[string]decimal.Decimal) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(items))
	for _, it := range items {
		v := decimal.Zero
		if saved != nil {
			if sv, ok := saved.Data[it.ID]; ok {
				v = sv
			}
		}
		if av, ok := auto[it.ID]; ok {
			v = av
		}
		out[it.ID] = v
	}
	return out
}

// DefaultItems estructura inicial del DRE; todos son IsDefault.
func DefaultItems() []entity.DREItem {
	return []entity.DREItem{
		{ID: ItemCoffeeSales, Name: "Venda de Cafés e Bebidas", Category: entity.DRECategoryRevenue, IsDefault: true},
		{ID: ItemFoodSales, Name: "Venda de Alimentos", Category: entity.DRECategoryRevenue, IsDefault: true},
		{ID: ItemOtherSales, Name: "Outras Vendas", Category: entity.DRECategoryRevenue, IsDefault: true},
		{ID: "impostoSimples", Name: "Imposto (Simples Nacional - DAS)", Category: entity.DRECategoryDeduction, IsDefault: true},
		{ID: "devolucoesDescontos", Name: "Devoluções ou Descontos", Category: entity.DRECategoryDeduction, IsDefault: true},
		{ID: "custoMateriaPrima", Name: "Custo da Matéria-Prima", Category: entity.DRECategoryCost, IsDefault: true},
		{ID: "custoEmbalagens", Name: "Custo de Embalagens", Category: entity.DRECategoryCost, IsDefault: true},
		{ID: "despesasPessoal", Name: "Despesas com Pessoal", Category: entity.DRECategoryExpense, IsDefault: true},
		{ID: "despesasAdministrativas", Name: "Despesas Administrativas", Category: entity.DRECategoryExpense, IsDefault: true},
		{ID: "despesasVendas", Name: "Despesas com Vendas", Category: entity.DRECategoryExpense, IsDefault: true},
	}
}

// ValidateItemsUpdate verifica que la nueva lista conserve cada ítem por defecto de la actual
// con el mismo nombre y categoría, y que no haya IDs vacíos o repetidos.
func ValidateItemsUpdate(current, next []entity.DREItem) error {
	byID := make(map[string]entity.DREItem, len(next))
	for _, it := range next {
		if it.ID == "" {
			return fmt.Errorf("%w: ítem de DRE sin id", domain.ErrInvalidInput)
		}
		if _, dup := byID[it.ID]; dup {
			return fmt.Errorf("%w: ítem de DRE duplicado %q", domain.ErrInvalidInput, it.ID)
		}
		byID[it.ID] = it
	}
	for _, cur := range current {
		if !cur.IsDefault {
			continue
		}
		it, ok := byID[cur.ID]
		if !ok {
			return fmt.Errorf("%w: el ítem por defecto %q no se puede eliminar", domain.ErrInvalidInput, cur.ID)
		}
		if it.Name != cur.Name || it.Category != cur.Category {
			return fmt.Errorf("%w: el ítem por defecto %q no se puede renombrar", domain.ErrInvalidInput, cur.ID)
		}
	}
	return nil
}
