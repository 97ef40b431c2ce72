package usecase

import (
	"context"
	"encoding/base64"
	"errors"
	"io"

	"github.com/jhoicas/gestor-marue/internal/domain"
	"github.com/jhoicas/gestor-marue/internal/domain/repository"
)

// placeholderPNG PNG transparente de 1×1 que se sirve cuando la imagen no existe.
var placeholderPNG, _ = base64.StdEncoding.DecodeString("iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAQAAAC1HAwCAAAAC0lEQVR42mP8/x8AAwMCAO2b6aEAAAAASUVORK5CYII=")

// ImageUseCase carga y entrega de imágenes.
type ImageUseCase struct {
	images repository.BinaryStore
}

func NewImageUseCase(images repository.BinaryStore) *ImageUseCase {
	return &ImageUseCase{images: images}
}

// Upload guarda la imagen y devuelve su id. Extensiones no permitidas → domain.ErrInvalidInput.
func (uc *ImageUseCase) Upload(ctx context.Context, filename string, r io.Reader) (string, error) {
	return uc.images.UploadBinary(ctx, filename, r)
}

// Fetch devuelve la imagen; si no existe (o el id es inválido) devuelve el placeholder.
func (uc *ImageUseCase) Fetch(ctx context.Context, id string) ([]byte, string, error) {
	data, contentType, err := uc.images.FetchBinary(ctx, id)
	if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrInvalidInput) {
		return placeholderPNG, "image/png", nil
	}
	if err != nil {
		return nil, "", err
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return data, contentType, nil
}
