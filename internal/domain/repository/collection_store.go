package repository

import (
	"context"
	"encoding/json"
	"io"
)

// Nombres de las colecciones persistidas.
const (
	CollectionRawMaterials     = "raw-materials"
	CollectionFinishedProducts = "finished-products"
	CollectionCosts            = "costs"
	CollectionSales            = "sales"
	CollectionDREItems         = "dre-items"
	CollectionDREData          = "dre-data"
	CollectionSKUConfig        = "sku-config"
)

// Collections todas las colecciones conocidas, en orden de carga.
var Collections = []string{
	CollectionRawMaterials,
	CollectionFinishedProducts,
	CollectionCosts,
	CollectionSales,
	CollectionDREItems,
	CollectionDREData,
	CollectionSKUConfig,
}

// IsCollection indica si name es una colección conocida.
func IsCollection(name string) bool {
	for _, c := range Collections {
		if c == name {
			return true
		}
	}
	return false
}

// CollectionStore define el puerto de persistencia genérico por colección (DIP).
// Los registros viajan como JSON; la normalización a entidades es responsabilidad del caller.
// GetByID devuelve domain.ErrNotFound si el ID no existe.
// Replace es un upsert con el registro completo (lectura-modificación-escritura, sin parches).
type CollectionStore interface {
	ListAll(ctx context.Context, collection string) ([]json.RawMessage, error)
	GetByID(ctx context.Context, collection, id string) (json.RawMessage, error)
	Create(ctx context.Context, collection string, payload any) (json.RawMessage, error)
	Replace(ctx context.Context, collection, id string, record any) (json.RawMessage, error)
	Delete(ctx context.Context, collection, id string) error
	ReplaceCollection(ctx context.Context, collection string, records any) ([]json.RawMessage, error)
}

// BinaryStore define el puerto para imágenes: Upload devuelve el ID asignado.
type BinaryStore interface {
	UploadBinary(ctx context.Context, filename string, r io.Reader) (string, error)
	FetchBinary(ctx context.Context, id string) (data []byte, contentType string, err error)
}
