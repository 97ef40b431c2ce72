package entity

import (
	"regexp"

	"github.com/shopspring/decimal"
)

// DRECategory grupo del estado de resultados.
type DRECategory string

const (
	DRECategoryRevenue   DRECategory = "Receita Operacional Bruta"
	DRECategoryDeduction DRECategory = "Deduções da Receita Bruta"
	DRECategoryCost      DRECategory = "Custos dos Produtos Vendidos (CPV)"
	DRECategoryExpense   DRECategory = "Despesas Operacionais"
)

// DREItem línea configurable del DRE. Los ítems IsDefault no se pueden borrar ni renombrar.
type DREItem struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Category  DRECategory `json:"category"`
	IsDefault bool        `json:"isDefault"`
}

// DREData valores de un período (YYYY-MM) por ID de DREItem.
type DREData struct {
	Period string                     `json:"period"`
	Data   map[string]decimal.Decimal `json:"data"`
}

var periodPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// ValidPeriod indica si s tiene el formato YYYY-MM.
func ValidPeriod(s string) bool {
	return periodPattern.MatchString(s)
}
