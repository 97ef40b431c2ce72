// Package normalize convierte registros crudos del store en entidades de dominio. Lo usan
// el contenedor del cliente al leer y el backend al validar costos antes de persistir.
package normalize

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/gestor-marue/internal/domain/entity"
)

// Los registros del store pueden venir con tipos laxos (números como string, IDs numéricos,
// booleanos 0/1, campos en snake_case). Los tipos flex* absorben esas variantes.

type flexDecimal struct {
	decimal.Decimal
	set bool
}

func (f *flexDecimal) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return nil
		}
		f.Decimal, f.set = parseLooseDecimal(s)
		return nil
	}
	d, err := decimal.NewFromString(string(b))
	if err != nil {
		return nil
	}
	f.Decimal, f.set = d, true
	return nil
}

// parseLooseDecimal acepta "12.5", "12,5" y "1.234,50" (formato pt-BR). Inválido → 0.
func parseLooseDecimal(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, false
	}
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

func (f flexDecimal) ptr() *decimal.Decimal {
	if !f.set {
		return nil
	}
	d := f.Decimal
	return &d
}

// firstDecimal primer valor presente entre alias de campo.
func firstDecimal(vals ...flexDecimal) flexDecimal {
	for _, v := range vals {
		if v.set {
			return v
		}
	}
	return flexDecimal{}
}

type flexBool bool

// UnmarshalJSON: verdadero para true, "true" y cualquier número igual a 1 (1, 1.0, "1", 1e0).
func (f *flexBool) UnmarshalJSON(b []byte) error {
	s := strings.ToLower(strings.Trim(string(bytes.TrimSpace(b)), `"`))
	if s == "true" {
		*f = true
		return nil
	}
	n, err := strconv.ParseFloat(s, 64)
	*f = flexBool(err == nil && n == 1)
	return nil
}

type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	*f = flexString(string(b))
	return nil
}

func firstString(vals ...flexString) string {
	for _, v := range vals {
		if v != "" {
			return string(v)
		}
	}
	return ""
}

type flexStrings []string

// UnmarshalJSON acepta un array (de strings o números), un string "id1,id2" o null/{}.
func (f *flexStrings) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	*f = nil
	if len(b) == 0 {
		return nil
	}
	switch b[0] {
	case '[':
		var items []flexString
		if err := json.Unmarshal(b, &items); err != nil {
			return nil
		}
		for _, it := range items {
			if it != "" {
				*f = append(*f, string(it))
			}
		}
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return nil
		}
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				*f = append(*f, part)
			}
		}
	}
	return nil
}

func firstStrings(vals ...flexStrings) []string {
	for _, v := range vals {
		if len(v) > 0 {
			return []string(v)
		}
	}
	return nil
}

type flexTime struct{ time.Time }

var timeLayouts = []string{time.RFC3339Nano, "2006-01-02 15:04:05", "2006-01-02T15:04:05", "2006-01-02"}

func (f *flexTime) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		if n, nerr := strconv.ParseInt(string(bytes.TrimSpace(b)), 10, 64); nerr == nil {
			f.Time = time.UnixMilli(n).UTC()
		}
		return nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			f.Time = t
			return nil
		}
	}
	return nil
}

// ── Insumos ────────────────────────────────────────────────────────────────

type rawMaterialRecord struct {
	ID            flexString  `json:"id"`
	Name          flexString  `json:"name"`
	Stock         flexDecimal `json:"stock"`
	Unit          flexString  `json:"unit"`
	Unity         flexString  `json:"unity"`
	CostPerUnit   flexDecimal `json:"costPerUnit"`
	Cost          flexDecimal `json:"cost"`
	Price         flexDecimal `json:"price"`
	ImageIDs      flexStrings `json:"imageIds"`
	ImageIDsSnake flexStrings `json:"image_ids"`
	ImageID       flexStrings `json:"image_id"`
}

func RawMaterial(raw json.RawMessage) (entity.RawMaterial, error) {
	var r rawMaterialRecord
	if err := json.Unmarshal(raw, &r); err != nil {
		return entity.RawMaterial{}, fmt.Errorf("decodificar insumo: %w", err)
	}
	return entity.RawMaterial{
		ID:          string(r.ID),
		Name:        string(r.Name),
		Stock:       r.Stock.Decimal,
		Unit:        firstString(r.Unit, r.Unity),
		CostPerUnit: firstDecimal(r.CostPerUnit, r.Cost, r.Price).Decimal,
		ImageIDs:    firstStrings(r.ImageIDs, r.ImageIDsSnake, r.ImageID),
	}, nil
}

// ── Productos ──────────────────────────────────────────────────────────────

type recipeItemRecord struct {
	RawMaterialID      flexString  `json:"rawMaterialId"`
	RawMaterialIDSnake flexString  `json:"raw_material_id"`
	Quantity           flexDecimal `json:"quantity"`
}

type finishedProductRecord struct {
	ID               flexString      `json:"id"`
	SKU              flexString      `json:"sku"`
	Name             flexString      `json:"name"`
	Type             flexString      `json:"type"`
	Stock            flexDecimal     `json:"stock"`
	SalePrice        flexDecimal     `json:"salePrice"`
	Price            flexDecimal     `json:"price"`
	ResaleCost       flexDecimal     `json:"resaleCost"`
	Cost             flexDecimal     `json:"cost"`
	Recipe           json.RawMessage `json:"recipe"`
	Category         flexString      `json:"category"`
	ImageIDs         flexStrings     `json:"imageIds"`
	ImageIDsSnake    flexStrings     `json:"image_ids"`
	ImageID          flexStrings     `json:"image_id"`
	SKUProductTypeID flexString      `json:"skuProductTypeId"`
	SKUOriginID      flexString      `json:"skuOriginId"`
	Weight           flexDecimal     `json:"weight"`
	WeightUnit       flexString      `json:"weightUnit"`
	WeightUnitSnake  flexString      `json:"weight_unit"`
	Grind            flexString      `json:"grind"`
}

func FinishedProduct(raw json.RawMessage) (entity.FinishedProduct, error) {
	var r finishedProductRecord
	if err := json.Unmarshal(raw, &r); err != nil {
		return entity.FinishedProduct{}, fmt.Errorf("decodificar producto: %w", err)
	}
	p := entity.FinishedProduct{
		ID:               string(r.ID),
		SKU:              string(r.SKU),
		Name:             string(r.Name),
		Type:             entity.ParseProductType(string(r.Type)),
		Stock:            r.Stock.Decimal,
		SalePrice:        firstDecimal(r.SalePrice, r.Price).Decimal,
		Recipe:           decodeRecipe(r.Recipe),
		Category:         string(r.Category),
		ImageIDs:         firstStrings(r.ImageIDs, r.ImageIDsSnake, r.ImageID),
		SKUProductTypeID: string(r.SKUProductTypeID),
		SKUOriginID:      string(r.SKUOriginID),
		WeightUnit:       firstString(r.WeightUnit, r.WeightUnitSnake),
		Grind:            string(r.Grind),
	}
	if p.Type == entity.ProductTypeResold {
		p.ResaleCost = firstDecimal(r.ResaleCost, r.Cost).ptr()
	}
	if w := r.Weight.ptr(); w != nil && !w.IsZero() {
		p.Weight = w
	}
	return p, nil
}

// decodeRecipe descarta líneas sin insumo; una receta que no es array queda vacía.
func decodeRecipe(raw json.RawMessage) []entity.RecipeItem {
	var items []recipeItemRecord
	if len(raw) == 0 || json.Unmarshal(raw, &items) != nil {
		return nil
	}
	out := make([]entity.RecipeItem, 0, len(items))
	for _, it := range items {
		id := firstString(it.RawMaterialID, it.RawMaterialIDSnake)
		if id == "" {
			continue
		}
		out = append(out, entity.RecipeItem{RawMaterialID: id, Quantity: it.Quantity.Decimal})
	}
	return out
}

// ── Costos ─────────────────────────────────────────────────────────────────

type costRecord struct {
	ID                flexString  `json:"id"`
	Name              flexString  `json:"name"`
	Category          flexString  `json:"category"`
	Value             flexDecimal `json:"value"`
	Amount            flexDecimal `json:"amount"`
	IsPercentage      flexBool    `json:"isPercentage"`
	IsPercentageSnake flexBool    `json:"is_percentage"`
}

// Cost normaliza un costo: ID a string, valor numérico (0 por defecto),
// isPercentage desde true/1/"1" y categoría restringida al conjunto fijo.
func Cost(raw json.RawMessage) (entity.Cost, error) {
	var r costRecord
	if err := json.Unmarshal(raw, &r); err != nil {
		return entity.Cost{}, fmt.Errorf("decodificar costo: %w", err)
	}
	return entity.Cost{
		ID:           string(r.ID),
		Name:         string(r.Name),
		Category:     entity.NormalizeCostCategory(string(r.Category)),
		Value:        firstDecimal(r.Value, r.Amount).Decimal,
		IsPercentage: bool(r.IsPercentage || r.IsPercentageSnake),
	}, nil
}

// ── Ventas ─────────────────────────────────────────────────────────────────

type appliedCostRecord struct {
	Name  flexString  `json:"name"`
	Value flexDecimal `json:"value"`
}

type saleRecord struct {
	ID                flexString          `json:"id"`
	FinishedProductID flexString          `json:"finishedProductId"`
	Quantity          flexDecimal         `json:"quantity"`
	TotalRevenue      flexDecimal         `json:"totalRevenue"`
	TotalCost         flexDecimal         `json:"totalCost"`
	NetProfit         flexDecimal         `json:"netProfit"`
	AppliedCosts      []appliedCostRecord `json:"appliedCosts"`
	Date              flexTime            `json:"date"`
}

func Sale(raw json.RawMessage) (entity.Sale, error) {
	var r saleRecord
	if err := json.Unmarshal(raw, &r); err != nil {
		return entity.Sale{}, fmt.Errorf("decodificar venta: %w", err)
	}
	applied := make([]entity.AppliedCost, 0, len(r.AppliedCosts))
	for _, ac := range r.AppliedCosts {
		applied = append(applied, entity.AppliedCost{Name: string(ac.Name), Value: ac.Value.Decimal})
	}
	return entity.Sale{
		ID:                string(r.ID),
		FinishedProductID: string(r.FinishedProductID),
		Quantity:          r.Quantity.Decimal,
		TotalRevenue:      r.TotalRevenue.Decimal,
		TotalCost:         r.TotalCost.Decimal,
		NetProfit:         r.NetProfit.Decimal,
		AppliedCosts:      applied,
		Date:              r.Date.Time,
	}, nil
}

// ── DRE ────────────────────────────────────────────────────────────────────

type dreItemRecord struct {
	ID        flexString `json:"id"`
	Name      flexString `json:"name"`
	Category  flexString `json:"category"`
	IsDefault flexBool   `json:"isDefault"`
}

func DREItem(raw json.RawMessage) (entity.DREItem, error) {
	var r dreItemRecord
	if err := json.Unmarshal(raw, &r); err != nil {
		return entity.DREItem{}, fmt.Errorf("decodificar ítem DRE: %w", err)
	}
	return entity.DREItem{
		ID:        string(r.ID),
		Name:      string(r.Name),
		Category:  entity.DRECategory(r.Category),
		IsDefault: bool(r.IsDefault),
	}, nil
}

// dreDataRecord ignora el campo id que el store agrega en la escritura.
type dreDataRecord struct {
	Period flexString             `json:"period"`
	Data   map[string]flexDecimal `json:"data"`
}

func DREData(raw json.RawMessage) (entity.DREData, error) {
	var r dreDataRecord
	if err := json.Unmarshal(raw, &r); err != nil {
		return entity.DREData{}, fmt.Errorf("decodificar datos DRE: %w", err)
	}
	data := make(map[string]decimal.Decimal, len(r.Data))
	for k, v := range r.Data {
		data[k] = v.Decimal
	}
	return entity.DREData{Period: string(r.Period), Data: data}, nil
}

// ── SKU ────────────────────────────────────────────────────────────────────

type skuOptionRecord struct {
	ID   flexString `json:"id"`
	Code flexString `json:"code"`
	Name flexString `json:"name"`
}

type skuConfigRecord struct {
	ID           flexString        `json:"id"`
	ProductTypes []skuOptionRecord `json:"productTypes"`
	Origins      []skuOptionRecord `json:"origins"`
}

func SKUConfig(raw json.RawMessage) (entity.SKUConfig, error) {
	var r skuConfigRecord
	if err := json.Unmarshal(raw, &r); err != nil {
		return entity.SKUConfig{}, fmt.Errorf("decodificar configuración SKU: %w", err)
	}
	cfg := entity.SKUConfig{ID: string(r.ID)}
	if cfg.ID == "" {
		cfg.ID = entity.SKUConfigID
	}
	for _, o := range r.ProductTypes {
		cfg.ProductTypes = append(cfg.ProductTypes, entity.SKUSegmentOption{ID: string(o.ID), Code: string(o.Code), Name: string(o.Name)})
	}
	for _, o := range r.Origins {
		cfg.Origins = append(cfg.Origins, entity.SKUSegmentOption{ID: string(o.ID), Code: string(o.Code), Name: string(o.Name)})
	}
	return cfg, nil
}
