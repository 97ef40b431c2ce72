// Package pdf exporta el DRE de un período a PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Empresa               │  Período MM/AAAA           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Descrição                      │  Valor (R$)        │
//	│    subtotales en negrita, ítems con sangría                 │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESULTADO OPERACIONAL (verde / rojo)                       │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"strings"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/gestor-marue/internal/domain"
	"github.com/jhoicas/gestor-marue/internal/domain/dre"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary  = &props.Color{Red: 92, Green: 58, Blue: 33}
	colorGray     = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorPositive = &props.Color{Red: 22, Green: 128, Blue: 61}
	colorNegative = &props.Color{Red: 185, Green: 28, Blue: 28}
)

// DREReportGenerator genera el PDF del DRE con Maroto v2.
type DREReportGenerator struct {
	company  string
	thousand string
	decSep   string
}

// NewDREReportGenerator construye el generador; company aparece en el encabezado.
func NewDREReportGenerator(company string) *DREReportGenerator {
	thousand, dec := separators(message.NewPrinter(language.BrazilianPortuguese))
	return &DREReportGenerator{company: company, thousand: thousand, decSep: dec}
}

// separators obtiene los separadores de miles y de decimales del locale.
func separators(p *message.Printer) (thousand, dec string) {
	r := []rune(p.Sprintf("%.1f", 1000.5))
	if len(r) != 7 {
		return ".", ","
	}
	return string(r[1]), string(r[5])
}

// Generate arma el documento del período (YYYY-MM) y devuelve sus bytes.
func (g *DREReportGenerator) Generate(period string, lines []dre.Line) ([]byte, error) {
	month, err := time.Parse("2006-01", period)
	if err != nil {
		return nil, fmt.Errorf("%w: período %q (se espera AAAA-MM)", domain.ErrInvalidInput, period)
	}

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(15).WithRightMargin(15).
		WithTopMargin(15).WithBottomMargin(15).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 10}).
		WithTitle("DRE "+month.Format("01/2006"), true).
		WithAuthor(g.company, true).
		Build()

	m := maroto.New(cfg)
	m.AddRows(g.headerRow(month))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(tableHeaderRow())
	for _, l := range lines {
		m.AddRows(g.lineRow(l))
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(row.New(8).Add(col.New(12).Add(
		text.New("Gerado em "+time.Now().Format("02/01/2006 15:04"), props.Text{
			Size: 7, Color: colorGray, Align: align.Right, Top: 3,
		}),
	)))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

func (g *DREReportGenerator) headerRow(month time.Time) core.Row {
	return row.New(18).Add(
		col.New(8).Add(
			text.New(g.company, props.Text{Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 1}),
			text.New("Demonstração do Resultado do Exercício", props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(4).Add(
			text.New("PERÍODO", props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1}),
			text.New(month.Format("01/2006"), props.Text{Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7}),
		),
	)
}

func tableHeaderRow() core.Row {
	return row.New(8).Add(
		col.New(9).Add(text.New("Descrição", props.Text{Style: fontstyle.Bold, Size: 9, Color: colorPrimary, Top: 2})),
		col.New(3).Add(text.New("Valor (R$)", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Color: colorPrimary, Top: 2})),
	)
}

func (g *DREReportGenerator) lineRow(l dre.Line) core.Row {
	labelProps := props.Text{Size: 9, Top: 1.5}
	valueProps := props.Text{Size: 9, Align: align.Right, Top: 1.5}
	height := 6.0
	switch l.Kind {
	case dre.LineSubtotal:
		labelProps.Style = fontstyle.Bold
		valueProps.Style = fontstyle.Bold
		height = 7
	case dre.LineFinal:
		labelProps.Style = fontstyle.Bold
		valueProps.Style = fontstyle.Bold
		labelProps.Size, valueProps.Size = 10, 10
		valueProps.Color = colorPositive
		if l.Value.IsNegative() {
			valueProps.Color = colorNegative
		}
		height = 9
	default:
		labelProps.Color = colorGray
	}
	return row.New(height).Add(
		col.New(9).Add(text.New(l.Label, labelProps)),
		col.New(3).Add(text.New(g.FormatBRL(l.Value), valueProps)),
	)
}

// FormatBRL formatea un valor como moneda brasileña: 1234.5 → "R$ 1.234,50", -10 → "-R$ 10,00".
func (g *DREReportGenerator) FormatBRL(v decimal.Decimal) string {
	sign := ""
	if v.IsNegative() {
		sign = "-"
		v = v.Neg()
	}
	fixed := v.StringFixed(2)
	intPart, frac, _ := strings.Cut(fixed, ".")
	if intPart == "0" && frac == "00" {
		sign = ""
	}
	return sign + "R$ " + groupThousands(intPart, g.thousand) + g.decSep + frac
}

func groupThousands(digits, sep string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteString(sep)
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
