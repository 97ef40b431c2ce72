package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/gestor-marue/internal/application/usecase"
)

// CollectionHandler expone el CRUD genérico por colección.
type CollectionHandler struct {
	uc *usecase.CollectionUseCase
}

// NewCollectionHandler construye el handler.
func NewCollectionHandler(uc *usecase.CollectionUseCase) *CollectionHandler {
	return &CollectionHandler{uc: uc}
}

// List godoc
// @Summary      Listar registros de una colección
// @Tags         collections
// @Produce      json
// @Param        collection  path  string  true  "raw-materials | finished-products | costs | sales | dre-items | dre-data | sku-config"
// @Success      200  {array}   object
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/{collection} [get]
func (h *CollectionHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), c.Params("collection"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Obtener registro por ID
// @Tags         collections
// @Produce      json
// @Param        collection  path  string  true  "Colección"
// @Param        id          path  string  true  "ID del registro"
// @Success      200  {object}  object
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/{collection}/{id} [get]
func (h *CollectionHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), c.Params("collection"), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(out)
}

// Create godoc
// @Summary      Crear registro (el servidor asigna el id)
// @Tags         collections
// @Accept       json
// @Produce      json
// @Param        collection  path  string  true  "Colección"
// @Success      201  {object}  object
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/{collection} [post]
func (h *CollectionHandler) Create(c *fiber.Ctx) error {
	out, err := h.uc.Create(c.UserContext(), c.Params("collection"), c.Body())
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Status(fiber.StatusCreated).Send(out)
}

// Replace godoc
// @Summary      Reemplazar registro completo (upsert)
// @Tags         collections
// @Accept       json
// @Produce      json
// @Param        collection  path  string  true  "Colección"
// @Param        id          path  string  true  "ID del registro"
// @Success      200  {object}  object
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/{collection}/{id} [put]
func (h *CollectionHandler) Replace(c *fiber.Ctx) error {
	out, err := h.uc.Replace(c.UserContext(), c.Params("collection"), c.Params("id"), c.Body())
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(out)
}

// ReplaceAll godoc
// @Summary      Reemplazar la colección completa
// @Tags         collections
// @Accept       json
// @Produce      json
// @Param        collection  path  string  true  "Colección"
// @Success      200  {array}   object
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/{collection} [put]
func (h *CollectionHandler) ReplaceAll(c *fiber.Ctx) error {
	out, err := h.uc.ReplaceAll(c.UserContext(), c.Params("collection"), c.Body())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Borrar registro (idempotente)
// @Tags         collections
// @Param        collection  path  string  true  "Colección"
// @Param        id          path  string  true  "ID del registro"
// @Success      204
// @Router       /api/{collection}/{id} [delete]
func (h *CollectionHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("collection"), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
