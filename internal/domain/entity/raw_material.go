package entity

import "github.com/shopspring/decimal"

// RawMaterial insumo consumido por las recetas (ej. café cru, embalagens).
// Stock está expresado en la unidad Unit; CostPerUnit es el costo por esa unidad.
type RawMaterial struct {
	ID          string          `json:"id,omitempty"`
	Name        string          `json:"name"`
	Stock       decimal.Decimal `json:"stock"`
	Unit        string          `json:"unit"`
	CostPerUnit decimal.Decimal `json:"costPerUnit"`
	ImageIDs    []string        `json:"imageIds,omitempty"`
}
