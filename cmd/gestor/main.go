// Command gestor opera sobre los datos de la API: ventas, producción, SKUs, DRE y resumen.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/jhoicas/gestor-marue/internal/application/state"
	"github.com/jhoicas/gestor-marue/internal/infrastructure/pdf"
	"github.com/jhoicas/gestor-marue/internal/infrastructure/restclient"
	"github.com/jhoicas/gestor-marue/pkg/config"
	"github.com/jhoicas/gestor-marue/pkg/logger"
)

var exitFunc = os.Exit

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	exitFunc(code)
}

// run devuelve el código de salida: 0 ok, 1 error de operación, 2 uso incorrecto.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		usage(stderr)
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(stderr, "configuración:", err)
		return 1
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Out: stderr})

	client := restclient.New(restclient.Config{BaseURL: cfg.Client.BaseURL, Timeout: cfg.Client.Timeout})
	var opts []state.Option
	if loc, err := loadLocation(cfg.App.Location); err == nil {
		opts = append(opts, state.WithLocation(loc))
	} else {
		log.Warn().Err(err).Str("timezone", cfg.App.Location).Msg("zona horaria inválida, se usa la local")
	}
	container := state.New(client, client, opts...)
	if err := container.Load(ctx); err != nil {
		log.Error().Err(err).Msg("carga de datos incompleta")
		fmt.Fprintln(stderr, "error:", fmt.Errorf("%w: %w", errNoState, err))
		return 1
	}

	app := &cli{
		c:   container,
		pdf: pdf.NewDREReportGenerator(cfg.App.Name),
		out: stdout,
		log: log,
	}
	return exitCode(app.dispatch(ctx, args), stderr)
}

func exitCode(err error, stderr io.Writer) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, flag.ErrHelp):
		return 0
	case errors.Is(err, errUsage):
		fmt.Fprintln(stderr, err)
		usage(stderr)
		return 2
	default:
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}
}

func usage(w io.Writer) {
	fmt.Fprint(w, `uso: gestor <comando> [flags]

comandos:
  resumo                                    indicadores del panel
  venda    -produto ID -qtd N [-custos a,b] registrar venta
  producao -produto ID -qtd N               ejecutar producción con la receta del producto
  sku      -produto ID [-preview]           generar SKU (sin -preview lo asigna al producto)
  dre      -periodo AAAA-MM                 DRE del período
  dre-pdf  -periodo AAAA-MM -out archivo    exportar DRE a PDF
  imagem   -arquivo ruta                    subir imagen
`)
}

func loadLocation(name string) (*time.Location, error) {
	if name == "" {
		return time.Local, nil
	}
	return time.LoadLocation(name)
}
