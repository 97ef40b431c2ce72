package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/gestor-marue/internal/application/usecase"
	"github.com/jhoicas/gestor-marue/internal/domain/repository"
	"github.com/jhoicas/gestor-marue/internal/infrastructure/blob"
	"github.com/jhoicas/gestor-marue/internal/infrastructure/memory"
	"github.com/jhoicas/gestor-marue/internal/infrastructure/postgres"
	"github.com/jhoicas/gestor-marue/internal/infrastructure/sqlite"
	httpRouter "github.com/jhoicas/gestor-marue/internal/interfaces/http"
	"github.com/jhoicas/gestor-marue/pkg/config"
	"github.com/jhoicas/gestor-marue/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Str("blob", cfg.Blob.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	store, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Store.Driver).Msg("abrir store de colecciones")
	}
	defer closeStore()

	blobStore, err := blob.Open(ctx, blob.Config{
		Driver: cfg.Blob.Driver,
		FSRoot: cfg.Blob.FSRoot,
		S3: blob.S3Config{
			Bucket:    cfg.Blob.S3Bucket,
			Region:    cfg.Blob.S3Region,
			Endpoint:  cfg.Blob.S3Endpoint,
			PathStyle: cfg.Blob.S3PathStyle,
		},
	})
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Blob.Driver).Msg("abrir almacenamiento de imágenes")
	}

	collectionUC := usecase.NewCollectionUseCase(store)
	seeded, err := collectionUC.EnsureDefaults(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("sembrar ítems de DRE por defecto")
	}
	if seeded {
		log.Info().Msg("ítems de DRE por defecto creados")
	}
	imageUC := usecase.NewImageUseCase(blob.NewImageStore(blobStore))

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		BodyLimit:    10 * 1024 * 1024,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Gestor Marué API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "store": cfg.Store.Driver})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		CollectionUC: collectionUC,
		ImageUC:      imageUC,
		Metrics:      httpRouter.NewMetrics(),
		Logger:       log.Component("http"),
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

// openStore construye el CollectionStore según STORE_DRIVER. El func devuelto libera recursos.
func openStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (repository.CollectionStore, func(), error) {
	switch cfg.Store.Driver {
	case "memory":
		log.Warn().Msg("store en memoria: los datos se pierden al reiniciar")
		return memory.NewStore(), func() {}, nil

	case "sqlite":
		s, err := sqlite.Open(cfg.Store.SQLitePath, cfg.Store.Migrate)
		if err != nil {
			return nil, nil, err
		}
		log.Info().Str("path", cfg.Store.SQLitePath).Msg("store sqlite abierto")
		return s, func() { _ = s.Close() }, nil

	case "postgres":
		if cfg.Store.Migrate {
			version, err := postgres.Migrate(cfg.DB.ConnectionString())
			if err != nil {
				return nil, nil, err
			}
			log.Info().Uint("version", version).Msg("migraciones aplicadas")
		}
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		return postgres.NewDocumentStore(pool), pool.Close, nil

	default:
		return nil, nil, fmt.Errorf("driver de store desconocido: %s", cfg.Store.Driver)
	}
}
