package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/jhoicas/gestor-marue/internal/domain"
)

// Filesystem Store sobre un directorio local. El content type se guarda en un archivo
// lateral "<clave>.meta".
type Filesystem struct {
	root string
}

// NewFilesystem crea el directorio raíz si no existe (default ./uploads).
func NewFilesystem(root string) (*Filesystem, error) {
	if root == "" {
		root = "./uploads"
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("crear directorio de blobs: %w", err)
	}
	return &Filesystem{root: root}, nil
}

func (s *Filesystem) Driver() Driver { return DriverFilesystem }

// pathFor impide claves absolutas o que salgan de la raíz.
func (s *Filesystem) pathFor(key string) (string, error) {
	if strings.TrimSpace(key) == "" || strings.Contains(key, "..") || strings.HasPrefix(key, "/") || strings.ContainsRune(key, filepath.Separator) {
		return "", fmt.Errorf("%w: clave inválida %q", domain.ErrInvalidInput, key)
	}
	return filepath.Join(s.root, key), nil
}

func (s *Filesystem) Put(_ context.Context, key string, r io.Reader, contentType string) error {
	path, err := s.pathFor(key)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(s.root, ".tmp-*")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	if _, err := io.Copy(tmp, r); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return err
	}
	return os.WriteFile(path+".meta", []byte(contentType), 0o644)
}

func (s *Filesystem) Get(_ context.Context, key string) ([]byte, string, error) {
	path, err := s.pathFor(key)
	if err != nil {
		return nil, "", err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, "", domain.ErrNotFound
	}
	if err != nil {
		return nil, "", err
	}
	ct, _ := os.ReadFile(path + ".meta")
	return data, string(ct), nil
}

func (s *Filesystem) Delete(_ context.Context, key string) error {
	path, err := s.pathFor(key)
	if err != nil {
		return err
	}
	for _, p := range []string{path, path + ".meta"} {
		if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}
