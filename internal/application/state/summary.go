package state

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/gestor-marue/internal/domain/costing"
	"github.com/jhoicas/gestor-marue/internal/domain/dre"
	"github.com/jhoicas/gestor-marue/internal/domain/entity"
)

var hundred = decimal.NewFromInt(100)

// CategoryMargin ingreso, costo de producción y margen (%) de una categoría en el mes.
type CategoryMargin struct {
	Category     string
	TotalRevenue decimal.Decimal
	TotalCost    decimal.Decimal
	Margin       decimal.Decimal
}

// Summary indicadores del panel.
type Summary struct {
	TotalStockValue decimal.Decimal
	TotalRevenue    decimal.Decimal
	TotalProfit     decimal.Decimal
	ProductsForSale int
	CurrentPeriod   string
	Statement       dre.Statement
	CategoryMargins []CategoryMargin
}

// Summary calcula los indicadores con el estado actual. El DRE y los márgenes
// corresponden al mes de now.
func (c *Container) Summary(now time.Time) Summary {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var s Summary
	for _, m := range c.rawMaterials {
		s.TotalStockValue = s.TotalStockValue.Add(m.Stock.Mul(m.CostPerUnit))
	}
	products := make(map[string]entity.FinishedProduct, len(c.finishedProducts))
	for _, p := range c.finishedProducts {
		products[p.ID] = p
		s.TotalStockValue = s.TotalStockValue.Add(p.Stock.Mul(costing.ProductCost(p, c.rawMaterialLocked)))
		if p.Stock.IsPositive() {
			s.ProductsForSale++
		}
	}
	for _, sale := range c.sales {
		s.TotalRevenue = s.TotalRevenue.Add(sale.TotalRevenue)
		s.TotalProfit = s.TotalProfit.Add(sale.NetProfit)
	}

	s.CurrentPeriod = now.In(c.loc).Format("2006-01")
	var saved *entity.DREData
	for i := range c.dreData {
		if c.dreData[i].Period == s.CurrentPeriod {
			saved = &c.dreData[i]
			break
		}
	}
	s.Statement = dre.Compute(c.dreItems, dre.PeriodValues(c.dreItems, saved, nil))
	s.CategoryMargins = c.categoryMarginsLocked(s.CurrentPeriod, products)
	return s
}

// categoryMarginsLocked solo incluye categorías con ingreso en el período; las ventas de
// productos borrados o sin categoría no cuentan.
func (c *Container) categoryMarginsLocked(period string, products map[string]entity.FinishedProduct) []CategoryMargin {
	order := []string{entity.ProductCategoryCoffee, entity.ProductCategoryFood, entity.ProductCategoryOther}
	totals := make(map[string]*CategoryMargin, len(order))
	for _, cat := range order {
		totals[cat] = &CategoryMargin{Category: cat}
	}
	for _, sale := range c.sales {
		if sale.Date.In(c.loc).Format("2006-01") != period {
			continue
		}
		p, ok := products[sale.FinishedProductID]
		if !ok {
			continue
		}
		cm, ok := totals[p.Category]
		if !ok {
			continue
		}
		cogs := costing.ProductCost(p, c.rawMaterialLocked).Mul(sale.Quantity)
		cm.TotalRevenue = cm.TotalRevenue.Add(sale.TotalRevenue)
		cm.TotalCost = cm.TotalCost.Add(cogs)
	}

	var out []CategoryMargin
	for _, cat := range order {
		cm := totals[cat]
		if !cm.TotalRevenue.IsPositive() {
			continue
		}
		cm.Margin = cm.TotalRevenue.Sub(cm.TotalCost).Div(cm.TotalRevenue).Mul(hundred)
		out = append(out, *cm)
	}
	return out
}
