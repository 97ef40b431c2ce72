package entity

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ProductType distingue productos fabricados (con receta) de productos revendidos.
type ProductType string

const (
	ProductTypeProduced ProductType = "PRODUCED"
	ProductTypeResold   ProductType = "RESOLD"
)

// ParseProductType acepta los códigos y las etiquetas heredadas (Produzido, Revenda, REVENDIDO).
// Un valor desconocido se conserva en mayúsculas; el costo de ese producto será cero.
func ParseProductType(s string) ProductType {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "PRODUCED", "PRODUZIDO":
		return ProductTypeProduced
	case "RESOLD", "REVENDA", "REVENDIDO":
		return ProductTypeResold
	default:
		return ProductType(strings.ToUpper(strings.TrimSpace(s)))
	}
}

// Categorías de producto usadas por el DRE para clasificar ingresos.
const (
	ProductCategoryCoffee = "Café/Bebida"
	ProductCategoryFood   = "Alimento"
	ProductCategoryOther  = "Outro"
)

// Moagem (grind) del producto; GrindNone no aporta segmento al SKU.
const (
	GrindBeans  = "Grãos"
	GrindGround = "Moído"
	GrindNone   = "N/A"
)

// RecipeItem línea de receta: cantidad de insumo consumida por unidad producida.
type RecipeItem struct {
	RawMaterialID string          `json:"rawMaterialId"`
	Quantity      decimal.Decimal `json:"quantity"`
}

// FinishedProduct producto terminado. Recipe aplica solo a PRODUCED y ResaleCost solo a RESOLD.
type FinishedProduct struct {
	ID         string           `json:"id,omitempty"`
	Name       string           `json:"name"`
	Type       ProductType      `json:"type"`
	Stock      decimal.Decimal  `json:"stock"`
	SalePrice  decimal.Decimal  `json:"salePrice"`
	Recipe     []RecipeItem     `json:"recipe,omitempty"`
	ResaleCost *decimal.Decimal `json:"resaleCost,omitempty"`
	Category   string           `json:"category,omitempty"`
	ImageIDs   []string         `json:"imageIds,omitempty"`

	SKU              string           `json:"sku,omitempty"`
	SKUProductTypeID string           `json:"skuProductTypeId,omitempty"`
	SKUOriginID      string           `json:"skuOriginId,omitempty"`
	Weight           *decimal.Decimal `json:"weight,omitempty"`
	WeightUnit       string           `json:"weightUnit,omitempty"`
	Grind            string           `json:"grind,omitempty"`
}

// CategoryOrDefault devuelve la categoría o "Outro" si no está definida.
func (p FinishedProduct) CategoryOrDefault() string {
	if p.Category == "" {
		return ProductCategoryOther
	}
	return p.Category
}
