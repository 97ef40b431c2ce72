// Package blob almacena binarios (imágenes de insumos y productos) detrás de una interfaz
// mínima con drivers fs, s3 y memory.
package blob

import (
	"context"
	"fmt"
	"io"
)

// Driver identifica la implementación concreta.
type Driver string

const (
	DriverFilesystem Driver = "fs"
	DriverS3         Driver = "s3"
	DriverMemory     Driver = "memory"
)

// Store almacenamiento de objetos por clave. Get devuelve domain.ErrNotFound si la clave no existe.
type Store interface {
	Put(ctx context.Context, key string, r io.Reader, contentType string) error
	Get(ctx context.Context, key string) (data []byte, contentType string, err error)
	Delete(ctx context.Context, key string) error
	Driver() Driver
}

// Config parámetros de selección del driver.
type Config struct {
	Driver string
	FSRoot string
	S3     S3Config
}

// Open construye el Store según cfg.Driver (default fs).
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch Driver(cfg.Driver) {
	case "", DriverFilesystem:
		return NewFilesystem(cfg.FSRoot)
	case DriverS3:
		return NewS3(ctx, cfg.S3)
	case DriverMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("driver de blob desconocido: %s", cfg.Driver)
	}
}
