package entity

import "github.com/shopspring/decimal"

// CostCategory conjunto cerrado de categorías de costo operacional.
type CostCategory string

const (
	CostCategoryChannel CostCategory = "channel" // canal de venta
	CostCategoryPayment CostCategory = "payment" // medio de pago
	CostCategoryTax     CostCategory = "tax"
	CostCategoryExpense CostCategory = "expense" // otros costos (default)
)

// NormalizeCostCategory restringe la categoría al conjunto fijo; cualquier otro valor pasa a expense.
func NormalizeCostCategory(s string) CostCategory {
	switch c := CostCategory(s); c {
	case CostCategoryChannel, CostCategoryPayment, CostCategoryTax, CostCategoryExpense:
		return c
	default:
		return CostCategoryExpense
	}
}

// Cost costo aplicable a una venta. Si IsPercentage, Value es un porcentaje del ingreso;
// si no, es un monto fijo.
type Cost struct {
	ID           string          `json:"id,omitempty"`
	Name         string          `json:"name"`
	Category     CostCategory    `json:"category"`
	Value        decimal.Decimal `json:"value"`
	IsPercentage bool            `json:"isPercentage"`
}

// Normalized devuelve una copia con la categoría restringida al conjunto válido.
func (c Cost) Normalized() Cost {
	c.Category = NormalizeCostCategory(string(c.Category))
	return c
}
