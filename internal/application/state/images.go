package state

import (
	"context"
	"errors"
	"io"
)

var errNoImageStore = errors.New("almacenamiento de imágenes no configurado")

// UploadImage sube el archivo y devuelve el ID asignado. No modifica el estado.
func (c *Container) UploadImage(ctx context.Context, filename string, r io.Reader) (string, error) {
	if c.images == nil {
		return "", errNoImageStore
	}
	return c.images.UploadBinary(ctx, filename, r)
}

// FetchImage devuelve los bytes y el content type de una imagen.
func (c *Container) FetchImage(ctx context.Context, id string) ([]byte, string, error) {
	if c.images == nil {
		return nil, "", errNoImageStore
	}
	return c.images.FetchBinary(ctx, id)
}
