package blob

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/gestor-marue/internal/domain"
	"github.com/jhoicas/gestor-marue/internal/domain/repository"
)

var _ repository.BinaryStore = (*ImageStore)(nil)

// Extensiones de imagen aceptadas en la carga.
var allowedImageExt = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// ImageStore adapta un Store al puerto repository.BinaryStore. El ID de cada imagen es
// "<uuid><ext>", que también es su clave en el Store.
type ImageStore struct {
	store Store
}

func NewImageStore(store Store) *ImageStore {
	return &ImageStore{store: store}
}

// UploadBinary valida la extensión del nombre original y guarda el contenido.
func (s *ImageStore) UploadBinary(ctx context.Context, filename string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	contentType, ok := allowedImageExt[ext]
	if !ok {
		return "", fmt.Errorf("%w: tipo de archivo no permitido %q", domain.ErrInvalidInput, ext)
	}
	id := uuid.NewString() + ext
	if err := s.store.Put(ctx, id, r, contentType); err != nil {
		return "", fmt.Errorf("guardar imagen: %w", err)
	}
	return id, nil
}

// FetchBinary devuelve domain.ErrNotFound si la imagen no existe.
func (s *ImageStore) FetchBinary(ctx context.Context, id string) ([]byte, string, error) {
	data, contentType, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if contentType == "" {
		contentType = mime.TypeByExtension(filepath.Ext(id))
	}
	return data, contentType, nil
}
