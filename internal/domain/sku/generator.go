// Package sku sintetiza identificadores de producto a partir de los atributos del producto
// y de la configuración de segmentos. Es determinista: el secuencial sale del máximo existente.
package sku

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/gestor-marue/internal/domain/entity"
)

const (
	// ConfigError se devuelve en lugar de un SKU cuando no hay configuración cargada.
	ConfigError = "CONFIG_SKU_ERROR"

	productTypePlaceholder = "????"
	originPlaceholder      = "??"
	previewSequence        = "###"
)

// Attributes atributos del producto que participan en el SKU.
type Attributes struct {
	ProductTypeID string
	OriginID      string
	Weight        *decimal.Decimal
	WeightUnit    string
	Grind         string
}

// AttributesOf extrae los atributos de SKU de un producto.
func AttributesOf(p entity.FinishedProduct) Attributes {
	return Attributes{
		ProductTypeID: p.SKUProductTypeID,
		OriginID:      p.SKUOriginID,
		Weight:        p.Weight,
		WeightUnit:    p.WeightUnit,
		Grind:         p.Grind,
	}
}

// Prefix arma "<tipo>-<origen>[-<peso><UNIDAD>][-GR|MO]-".
func Prefix(cfg entity.SKUConfig, a Attributes) string {
	typeCode := cfg.ProductTypeCode(a.ProductTypeID)
	if typeCode == "" {
		typeCode = productTypePlaceholder
	}
	originCode := cfg.OriginCode(a.OriginID)
	if originCode == "" {
		originCode = originPlaceholder
	}

	var b strings.Builder
	b.WriteString(typeCode)
	b.WriteString("-")
	b.WriteString(originCode)
	for _, token := range characteristics(a) {
		b.WriteString("-")
		b.WriteString(token)
	}
	b.WriteString("-")
	return b.String()
}

func characteristics(a Attributes) []string {
	var tokens []string
	if a.Weight != nil && !a.Weight.IsZero() && a.WeightUnit != "" {
		tokens = append(tokens, a.Weight.String()+strings.ToUpper(a.WeightUnit))
	}
	if grind := strings.TrimSpace(a.Grind); grind != "" && grind != entity.GrindNone {
		tokens = append(tokens, grindCode(grind))
	}
	return tokens
}

// grindCode: GR para grano entero, MO para cualquier otra moagem.
// La comparación es en NFC para aceptar "Grãos" con diacrítico descompuesto.
func grindCode(grind string) string {
	if norm.NFC.String(grind) == norm.NFC.String(entity.GrindBeans) {
		return "GR"
	}
	return "MO"
}

// Generate devuelve el SKU para los atributos dados. En preview no se consulta la lista
// existente y el secuencial es "###". Sin configuración devuelve ConfigError.
func Generate(cfg *entity.SKUConfig, a Attributes, existing []string, preview bool) string {
	if cfg == nil {
		return ConfigError
	}
	prefix := Prefix(*cfg, a)
	if preview {
		return prefix + previewSequence
	}
	return prefix + fmt.Sprintf("%03d", NextSequence(prefix, existing))
}

// NextSequence máximo secuencial entre los SKU con ese prefijo + 1 (1 si no hay ninguno).
// No es un conteo: los huecos de la secuencia no se reutilizan.
func NextSequence(prefix string, existing []string) int {
	found := false
	highest := 0
	for _, s := range existing {
		if s == "" || !strings.HasPrefix(s, prefix) {
			continue
		}
		found = true
		if n := sequenceOf(s); n > highest {
			highest = n
		}
	}
	if !found {
		return 1
	}
	return highest + 1
}

// sequenceOf lee los dígitos iniciales del último segmento; 0 si no son numéricos.
func sequenceOf(s string) int {
	last := s[strings.LastIndex(s, "-")+1:]
	end := 0
	for end < len(last) && last[end] >= '0' && last[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}
	n, err := strconv.Atoi(last[:end])
	if err != nil {
		return 0
	}
	return n
}
