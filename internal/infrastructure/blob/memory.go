package blob

import (
	"context"
	"io"
	"slices"
	"sync"

	"github.com/jhoicas/gestor-marue/internal/domain"
)

type memoryObject struct {
	data        []byte
	contentType string
}

// Memory Store en memoria (tests).
type Memory struct {
	mu   sync.RWMutex
	objs map[string]memoryObject
}

func NewMemory() *Memory {
	return &Memory{objs: make(map[string]memoryObject)}
}

func (m *Memory) Driver() Driver { return DriverMemory }

func (m *Memory) Put(_ context.Context, key string, r io.Reader, contentType string) error {
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.objs[key] = memoryObject{data: b, contentType: contentType}
	m.mu.Unlock()
	return nil
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, string, error) {
	m.mu.RLock()
	obj, ok := m.objs[key]
	m.mu.RUnlock()
	if !ok {
		return nil, "", domain.ErrNotFound
	}
	return slices.Clone(obj.data), obj.contentType, nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.objs, key)
	m.mu.Unlock()
	return nil
}
