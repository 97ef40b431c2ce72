package costing

import (
	"github.com/jhoicas/gestor-marue/internal/domain/entity"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// MaterialLookup resuelve un insumo por ID; ok=false si la referencia está colgada.
type MaterialLookup func(id string) (entity.RawMaterial, bool)

// ProductCost calcula el costo unitario de un producto terminado (servicio de dominio puro).
// RESOLD: resaleCost (0 si no existe). PRODUCED: Σ costPerUnit × cantidad de la receta, donde
// un insumo inexistente aporta 0. Cualquier otro tipo: 0.
// Se recalcula en cada llamada; los costos de insumos cambian entre llamadas.
func ProductCost(p entity.FinishedProduct, lookup MaterialLookup) decimal.Decimal {
	switch p.Type {
	case entity.ProductTypeResold:
		if p.ResaleCost == nil {
			return decimal.Zero
		}
		return *p.ResaleCost
	case entity.ProductTypeProduced:
		total := decimal.Zero
		for _, item := range p.Recipe {
			material, ok := lookup(item.RawMaterialID)
			if !ok {
				continue
			}
			total = total.Add(material.CostPerUnit.Mul(item.Quantity))
		}
		return total
	default:
		return decimal.Zero
	}
}

// AppliedCostValue efecto monetario de un costo sobre el ingreso total:
// porcentaje → ingreso × valor / 100; fijo → valor.
func AppliedCostValue(c entity.Cost, totalRevenue decimal.Decimal) decimal.Decimal {
	if c.IsPercentage {
		return totalRevenue.Mul(c.Value).Div(hundred)
	}
	return c.Value
}

// Settlement desglose financiero de una venta.
type Settlement struct {
	TotalRevenue   decimal.Decimal
	ProductionCost decimal.Decimal
	VariableCosts  decimal.Decimal
	TotalCost      decimal.Decimal
	NetProfit      decimal.Decimal
	AppliedCosts   []entity.AppliedCost
}

// SettleSale liquida una venta:
//
//	totalRevenue = salePrice × qty
//	totalCost    = unitCost × qty + Σ costos aplicados
//	netProfit    = totalRevenue − totalCost
//
// Los costos se aplican en el orden recibido; los duplicados se aplican cada uno.
func SettleSale(salePrice, unitCost, quantity decimal.Decimal, costs []entity.Cost) Settlement {
	revenue := salePrice.Mul(quantity)
	variable := decimal.Zero
	applied := make([]entity.AppliedCost, 0, len(costs))
	for _, c := range costs {
		v := AppliedCostValue(c, revenue)
		variable = variable.Add(v)
		applied = append(applied, entity.AppliedCost{Name: c.Name, Value: v})
	}
	production := unitCost.Mul(quantity)
	total := production.Add(variable)
	return Settlement{
		TotalRevenue:   revenue,
		ProductionCost: production,
		VariableCosts:  variable,
		TotalCost:      total,
		NetProfit:      revenue.Sub(total),
		AppliedCosts:   applied,
	}
}

// MaterialRequirement cantidad total de un insumo necesaria para producir qty unidades.
func MaterialRequirement(item entity.RecipeItem, quantity decimal.Decimal) decimal.Decimal {
	return item.Quantity.Mul(quantity)
}
