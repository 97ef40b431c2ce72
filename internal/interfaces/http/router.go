package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/gestor-marue/internal/application/usecase"
	"github.com/jhoicas/gestor-marue/pkg/logger"
)

// RouterDeps dependencias para el router. Metrics y Logger son opcionales.
type RouterDeps struct {
	CollectionUC *usecase.CollectionUseCase
	ImageUC      *usecase.ImageUseCase
	Metrics      *Metrics
	Logger       *logger.Logger
}

// Router registra las rutas de la API. Las rutas de imágenes van antes que las genéricas
// para que /api/images no se interprete como colección.
func Router(app *fiber.App, deps RouterDeps) {
	if deps.Logger != nil {
		app.Use(RequestLogger(deps.Logger))
	}
	if deps.Metrics != nil {
		app.Use(deps.Metrics.Middleware())
		app.Get("/metrics", deps.Metrics.Handler())
	}

	api := app.Group("/api")

	images := api.Group("/images")
	imageHandler := NewImageHandler(deps.ImageUC)
	images.Post("/upload", imageHandler.Upload)
	images.Get("/:id", imageHandler.Get)

	collectionHandler := NewCollectionHandler(deps.CollectionUC)
	api.Get("/:collection", collectionHandler.List)
	api.Post("/:collection", collectionHandler.Create)
	api.Put("/:collection", collectionHandler.ReplaceAll)
	api.Get("/:collection/:id", collectionHandler.Get)
	api.Put("/:collection/:id", collectionHandler.Replace)
	api.Delete("/:collection/:id", collectionHandler.Delete)
}
