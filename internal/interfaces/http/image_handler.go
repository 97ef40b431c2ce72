package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/gestor-marue/internal/application/dto"
	"github.com/jhoicas/gestor-marue/internal/application/usecase"
)

// ImageHandler carga y entrega de imágenes.
type ImageHandler struct {
	uc *usecase.ImageUseCase
}

func NewImageHandler(uc *usecase.ImageUseCase) *ImageHandler {
	return &ImageHandler{uc: uc}
}

// Upload godoc
// @Summary      Subir imagen
// @Tags         images
// @Accept       multipart/form-data
// @Produce      json
// @Param        image  formData  file  true  "jpg, jpeg, png, gif o webp"
// @Success      201  {object}  dto.UploadResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/images/upload [post]
func (h *ImageHandler) Upload(c *fiber.Ctx) error {
	fh, err := c.FormFile("image")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "campo image requerido"})
	}
	f, err := fh.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: err.Error()})
	}
	defer f.Close()

	id, err := h.uc.Upload(c.UserContext(), fh.Filename, f)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.UploadResponse{ID: id})
}

// Get godoc
// @Summary      Obtener imagen (placeholder si no existe)
// @Tags         images
// @Produce      image/png
// @Param        id  path  string  true  "ID de la imagen"
// @Success      200
// @Router       /api/images/{id} [get]
func (h *ImageHandler) Get(c *fiber.Ctx) error {
	data, contentType, err := h.uc.Fetch(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderCacheControl, "public, max-age=86400")
	return c.Send(data)
}
