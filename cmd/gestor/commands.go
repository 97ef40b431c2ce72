package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/gestor-marue/internal/application/state"
	"github.com/jhoicas/gestor-marue/internal/domain"
	"github.com/jhoicas/gestor-marue/internal/domain/dre"
	"github.com/jhoicas/gestor-marue/internal/domain/sku"
	"github.com/jhoicas/gestor-marue/internal/infrastructure/pdf"
	"github.com/jhoicas/gestor-marue/pkg/logger"
)

var (
	errUsage   = errors.New("uso incorrecto")
	errNoState = errors.New("datos no cargados")
)

type cli struct {
	c   *state.Container
	pdf *pdf.DREReportGenerator
	out io.Writer
	log *logger.Logger
	now func() time.Time
}

func (a *cli) clock() time.Time {
	if a.now != nil {
		return a.now()
	}
	return time.Now()
}

func (a *cli) dispatch(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	cmd, rest := args[0], args[1:]
	// Sin una carga completa no se ejecuta ningún comando.
	if a.c.IsLoading() {
		return errNoState
	}
	if err := a.c.Err(); err != nil {
		return fmt.Errorf("%w: %w", errNoState, err)
	}
	switch cmd {
	case "resumo":
		return a.summary()
	case "venda":
		return a.sale(ctx, rest)
	case "producao":
		return a.production(ctx, rest)
	case "sku":
		return a.sku(ctx, rest)
	case "dre":
		return a.dre(ctx, rest)
	case "dre-pdf":
		return a.drePDF(ctx, rest)
	case "imagem":
		return a.image(ctx, rest)
	default:
		return fmt.Errorf("%w: comando desconocido %q", errUsage, cmd)
	}
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	return nil
}

// parseQuantity acepta coma decimal ("1,5").
func parseQuantity(s string) (decimal.Decimal, error) {
	q, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(s), ",", "."))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: cantidad inválida %q", errUsage, s)
	}
	return q, nil
}

func splitIDs(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (a *cli) summary() error {
	s := a.c.Summary(a.clock())
	brl := a.pdf.FormatBRL

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Valor en stock\t%s\n", brl(s.TotalStockValue))
	fmt.Fprintf(tw, "Ingreso total\t%s\n", brl(s.TotalRevenue))
	fmt.Fprintf(tw, "Ganancia total\t%s\n", brl(s.TotalProfit))
	fmt.Fprintf(tw, "Productos a la venta\t%d\n", s.ProductsForSale)
	fmt.Fprintf(tw, "Resultado %s\t%s\n", s.CurrentPeriod, brl(s.Statement.OperatingResult))
	for _, m := range s.CategoryMargins {
		fmt.Fprintf(tw, "Margen %s\t%s%%\n", m.Category, m.Margin.StringFixed(1))
	}
	return tw.Flush()
}

func (a *cli) sale(ctx context.Context, args []string) error {
	fs := newFlagSet("venda")
	productID := fs.String("produto", "", "ID del producto")
	qty := fs.String("qtd", "", "cantidad")
	costs := fs.String("custos", "", "IDs de costos separados por coma")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *productID == "" || *qty == "" {
		return fmt.Errorf("%w: -produto y -qtd son obligatorios", errUsage)
	}
	quantity, err := parseQuantity(*qty)
	if err != nil {
		return err
	}

	sale, err := a.c.RegisterSale(ctx, *productID, quantity, splitIDs(*costs))
	var partial *state.PartialError
	if errors.As(err, &partial) {
		a.log.Warn().Err(err).Str("sale_id", sale.ID).Msg("venta registrada sin descontar stock")
	}
	if err != nil {
		return err
	}
	a.log.Info().Str("sale_id", sale.ID).Str("product_id", sale.FinishedProductID).Msg("venta registrada")
	fmt.Fprintf(a.out, "Venta %s: ingreso %s, costo %s, ganancia %s\n",
		sale.ID, a.pdf.FormatBRL(sale.TotalRevenue), a.pdf.FormatBRL(sale.TotalCost), a.pdf.FormatBRL(sale.NetProfit))
	return nil
}

func (a *cli) production(ctx context.Context, args []string) error {
	fs := newFlagSet("producao")
	productID := fs.String("produto", "", "ID del producto")
	qty := fs.String("qtd", "", "cantidad")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *productID == "" || *qty == "" {
		return fmt.Errorf("%w: -produto y -qtd son obligatorios", errUsage)
	}
	quantity, err := parseQuantity(*qty)
	if err != nil {
		return err
	}
	p, _ := a.c.FinishedProduct(*productID)

	if err := a.c.ExecuteProduction(ctx, *productID, quantity, p.Recipe); err != nil {
		return err
	}
	updated, _ := a.c.FinishedProduct(*productID)
	a.log.Info().Str("product_id", *productID).Str("quantity", quantity.String()).Msg("producción ejecutada")
	fmt.Fprintf(a.out, "Producción de %s x %s terminada; stock actual %s\n", quantity, updated.Name, updated.Stock)
	return nil
}

func (a *cli) sku(ctx context.Context, args []string) error {
	fs := newFlagSet("sku")
	productID := fs.String("produto", "", "ID del producto")
	preview := fs.Bool("preview", false, "solo mostrar, sin asignar")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	p, ok := a.c.FinishedProduct(*productID)
	if !ok {
		return fmt.Errorf("%w: producto %q", domain.ErrNotFound, *productID)
	}

	code := a.c.GenerateSKU(p, *preview)
	if code == sku.ConfigError {
		return domain.ErrSKUConfigMissing
	}
	if !*preview {
		p.SKU = code
		if _, err := a.c.UpdateProduct(ctx, p); err != nil {
			return err
		}
		a.log.Info().Str("product_id", p.ID).Str("sku", code).Msg("SKU asignado")
	}
	fmt.Fprintln(a.out, code)
	return nil
}

func (a *cli) report(ctx context.Context, name string, args []string, withOut bool) (string, []dre.Line, string, error) {
	fs := newFlagSet(name)
	period := fs.String("periodo", a.clock().Format("2006-01"), "período AAAA-MM")
	var out *string
	if withOut {
		out = fs.String("out", "", "archivo PDF de salida")
	}
	if err := parseFlags(fs, args); err != nil {
		return "", nil, "", err
	}
	lines, err := a.c.DREReport(ctx, *period)
	if err != nil {
		return "", nil, "", err
	}
	path := ""
	if out != nil {
		path = *out
	}
	return *period, lines, path, nil
}

func (a *cli) dre(ctx context.Context, args []string) error {
	period, lines, _, err := a.report(ctx, "dre", args, false)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "DRE %s\n", period)
	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', tabwriter.AlignRight)
	for _, l := range lines {
		fmt.Fprintf(tw, "%s\t%s\t\n", l.Label, a.pdf.FormatBRL(l.Value))
	}
	return tw.Flush()
}

func (a *cli) drePDF(ctx context.Context, args []string) error {
	period, lines, path, err := a.report(ctx, "dre-pdf", args, true)
	if err != nil {
		return err
	}
	if path == "" {
		path = fmt.Sprintf("DRE_%s.pdf", period)
	}
	doc, err := a.pdf.Generate(period, lines)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, doc, 0o644); err != nil {
		return fmt.Errorf("escribir PDF: %w", err)
	}
	a.log.Info().Str("period", period).Str("path", path).Msg("DRE exportado")
	fmt.Fprintln(a.out, path)
	return nil
}

func (a *cli) image(ctx context.Context, args []string) error {
	fs := newFlagSet("imagem")
	path := fs.String("arquivo", "", "ruta de la imagen")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *path == "" {
		return fmt.Errorf("%w: -arquivo es obligatorio", errUsage)
	}
	f, err := os.Open(*path)
	if err != nil {
		return fmt.Errorf("abrir imagen: %w", err)
	}
	defer f.Close()

	id, err := a.c.UploadImage(ctx, filepath.Base(*path), f)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, id)
	return nil
}
