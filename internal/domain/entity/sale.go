package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// AppliedCost efecto monetario de un costo congelado al momento de la venta.
type AppliedCost struct {
	Name  string          `json:"name"`
	Value decimal.Decimal `json:"value"`
}

// Sale venta registrada. Inmutable después de creada.
type Sale struct {
	ID                string          `json:"id,omitempty"`
	FinishedProductID string          `json:"finishedProductId"`
	Quantity          decimal.Decimal `json:"quantity"`
	TotalRevenue      decimal.Decimal `json:"totalRevenue"`
	TotalCost         decimal.Decimal `json:"totalCost"`
	NetProfit         decimal.Decimal `json:"netProfit"`
	AppliedCosts      []AppliedCost   `json:"appliedCosts"`
	Date              time.Time       `json:"date"`
}
